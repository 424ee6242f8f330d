package service

import (
	"fmt"
	"time"

	"github.com/fenxiao-next/internal/constants"
	"github.com/fenxiao-next/internal/logger"
	"github.com/fenxiao-next/internal/models"
	"github.com/fenxiao-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CommissionService 佣金计算与结算服务
// 计算、结算推进、取消三个入口均幂等，可安全承受消息重复投递。
type CommissionService struct {
	commissionRepo repository.CommissionRepository
	orderRepo      repository.OrderRepository
	memberRepo     repository.MemberRepository
	settingSvc     *DistributionSettingService
	walletSvc      *WalletService
}

// NewCommissionService 创建佣金服务
func NewCommissionService(
	commissionRepo repository.CommissionRepository,
	orderRepo repository.OrderRepository,
	memberRepo repository.MemberRepository,
	settingSvc *DistributionSettingService,
	walletSvc *WalletService,
) *CommissionService {
	return &CommissionService{
		commissionRepo: commissionRepo,
		orderRepo:      orderRepo,
		memberRepo:     memberRepo,
		settingSvc:     settingSvc,
		walletSvc:      walletSvc,
	}
}

// Calculate 订单支付后计算分佣并冻结入钱包
// 返回该订单名下的佣金记录；已存在记录时直接返回既有记录，不产生任何资金副作用。
// 租户未配置分销时静默跳过；配置或订单项数据缺陷则返回校验错误，必须上抛。
func (s *CommissionService) Calculate(orderID uint) ([]models.Commission, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	switch order.Status {
	case constants.OrderStatusPaid, constants.OrderStatusConfirmed:
	case constants.OrderStatusRefunded, constants.OrderStatusCanceled:
		logger.Infow("订单已退款或取消，跳过分佣计算", "order_id", orderID, "status", order.Status)
		return []models.Commission{}, nil
	default:
		return nil, ErrOrderStatusInvalid
	}

	config, err := s.settingSvc.GetByTenant(order.TenantID)
	if err != nil {
		return nil, err
	}
	if config == nil {
		logger.Infow("租户未配置分销，跳过分佣计算", "order_id", orderID, "tenant_id", order.TenantID)
		return []models.Commission{}, nil
	}
	if err := ValidateDistributionConfig(config); err != nil {
		return nil, err
	}

	proposals, err := s.buildOrderProposals(order, config)
	if err != nil {
		return nil, err
	}

	var result []models.Commission
	err = s.commissionRepo.Transaction(func(tx *gorm.DB) error {
		repo := s.commissionRepo.WithTx(tx)
		existing, err := repo.ListByOrderForUpdate(order.ID, nil)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			logger.Infow("订单佣金已存在，跳过重复计算", "order_id", order.ID, "count", len(existing))
			result = existing
			return nil
		}

		for _, p := range proposals {
			row := models.Commission{
				TenantID:           order.TenantID,
				OrderID:            order.ID,
				BeneficiaryID:      p.BeneficiaryID,
				Level:              p.Level,
				Amount:             models.NewMoneyFromDecimal(p.Amount),
				CommissionBase:     models.NewMoneyFromDecimal(p.Base),
				CommissionBaseType: config.CommissionBaseType,
				OrderOriginalPrice: order.OriginalAmount,
				OrderActualPaid:    order.ActualPaidAmount,
				CouponDiscount:     order.CouponDiscount,
				IsCapped:           p.IsCapped,
				Status:             constants.CommissionStatusFrozen,
			}
			if err := repo.Create(&row); err != nil {
				return err
			}
			reference := fmt.Sprintf("commission:%d:frozen", row.ID)
			remark := fmt.Sprintf("订单 %s %d 级分佣冻结", order.OrderNo, p.Level)
			if err := s.walletSvc.FreezeCommission(tx, p.BeneficiaryID, order.TenantID, order.ID, p.Amount, reference, remark); err != nil {
				return err
			}
			result = append(result, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(result) > 0 {
		logger.Infow("订单分佣计算完成", "order_id", order.ID, "count", len(result))
	}
	return result, nil
}

// orderProposal 附带基数快照的分配方案
type orderProposal struct {
	BeneficiaryID uint
	Level         int
	Amount        decimal.Decimal
	Base          decimal.Decimal
	IsCapped      bool
}

// buildOrderProposals 执行完整计算管线：基数累加、基数调整、推荐链解析、熔断
func (s *CommissionService) buildOrderProposals(order *models.Order, config *models.DistributionConfig) ([]orderProposal, error) {
	rawBase, err := resolveRawCommissionBase(order.Items)
	if err != nil {
		return nil, err
	}
	base := adjustCommissionBase(rawBase, config, order.OriginalAmount.Decimal, order.ActualPaidAmount.Decimal)
	if base.LessThanOrEqual(decimal.Zero) {
		return nil, nil
	}

	level1, level2, err := s.resolveReferralChain(order.BuyerID)
	if err != nil {
		return nil, err
	}
	beneficiaries := resolveBeneficiaries(order.BuyerID, order.TenantID, order.BuyerTenantID, level1, level2, config)
	proposals := applyCommissionCap(
		buildProposals(base, beneficiaries, config),
		order.ActualPaidAmount.Decimal,
		config.MaxCommissionRate.Decimal,
	)

	out := make([]orderProposal, 0, len(proposals))
	for _, p := range proposals {
		out = append(out, orderProposal{
			BeneficiaryID: p.BeneficiaryID,
			Level:         p.Level,
			Amount:        p.Amount,
			Base:          base.Round(2),
			IsCapped:      p.IsCapped,
		})
	}
	return out, nil
}

// resolveReferralChain 解析买家的一级与二级推荐人
// 买家不存在或无推荐人时对应槽位为 nil。
func (s *CommissionService) resolveReferralChain(buyerID uint) (*referrerSlot, *referrerSlot, error) {
	buyer, err := s.memberRepo.GetByID(buyerID)
	if err != nil {
		return nil, nil, err
	}
	if buyer == nil || buyer.ReferrerID == nil {
		return nil, nil, nil
	}

	first, err := s.memberRepo.GetByID(*buyer.ReferrerID)
	if err != nil {
		return nil, nil, err
	}
	if first == nil {
		return nil, nil, nil
	}
	level1 := &referrerSlot{MemberID: first.ID, TenantID: first.TenantID, HasDistributorRank: first.HasDistributorRank}

	if first.ReferrerID == nil {
		return level1, nil, nil
	}
	second, err := s.memberRepo.GetByID(*first.ReferrerID)
	if err != nil {
		return nil, nil, err
	}
	if second == nil {
		return level1, nil, nil
	}
	level2 := &referrerSlot{MemberID: second.ID, TenantID: second.TenantID, HasDistributorRank: second.HasDistributorRank}
	return level1, level2, nil
}

// AdvanceSettlement 结算推进：订单下所有冻结佣金转入可用余额
// 已结算或已取消的记录不再选中，重复调用返回 0。
func (s *CommissionService) AdvanceSettlement(orderID uint, trigger string) (int, error) {
	settled := 0
	err := s.commissionRepo.Transaction(func(tx *gorm.DB) error {
		repo := s.commissionRepo.WithTx(tx)
		rows, err := repo.ListByOrderForUpdate(orderID, []string{constants.CommissionStatusFrozen})
		if err != nil {
			return err
		}
		now := time.Now()
		for i := range rows {
			row := &rows[i]
			reference := fmt.Sprintf("commission:%d:settled", row.ID)
			remark := fmt.Sprintf("订单 %d 佣金结算（%s）", orderID, trigger)
			if err := s.walletSvc.SettleCommission(tx, row.BeneficiaryID, row.TenantID, row.OrderID, row.Amount.Decimal, reference, remark); err != nil {
				return err
			}
			row.Status = constants.CommissionStatusSettled
			row.SettleTrigger = trigger
			row.SettledAt = &now
			if err := repo.Update(row); err != nil {
				return err
			}
			settled++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if settled > 0 {
		logger.Infow("订单佣金结算完成", "order_id", orderID, "trigger", trigger, "count", settled)
	}
	return settled, nil
}

// Cancel 订单退款取消佣金
// 冻结中的记录解冻；已结算的记录从余额追回（余额可转负）；重复调用返回 0。
func (s *CommissionService) Cancel(orderID uint) (int, error) {
	cancelled := 0
	err := s.commissionRepo.Transaction(func(tx *gorm.DB) error {
		repo := s.commissionRepo.WithTx(tx)
		rows, err := repo.ListByOrderForUpdate(orderID, []string{
			constants.CommissionStatusFrozen,
			constants.CommissionStatusSettled,
		})
		if err != nil {
			return err
		}
		now := time.Now()
		for i := range rows {
			row := &rows[i]
			switch row.Status {
			case constants.CommissionStatusFrozen:
				reference := fmt.Sprintf("commission:%d:unfreeze", row.ID)
				remark := fmt.Sprintf("订单 %d 退款，冻结佣金取消", orderID)
				if err := s.walletSvc.UnfreezeCommission(tx, row.BeneficiaryID, row.TenantID, row.OrderID, row.Amount.Decimal, reference, remark); err != nil {
					return err
				}
			case constants.CommissionStatusSettled:
				reference := fmt.Sprintf("commission:%d:clawback", row.ID)
				remark := fmt.Sprintf("订单 %d 退款，已结算佣金追回", orderID)
				if err := s.walletSvc.ClawbackCommission(tx, row.BeneficiaryID, row.TenantID, row.OrderID, row.Amount.Decimal, reference, remark); err != nil {
					return err
				}
			}
			row.Status = constants.CommissionStatusCancelled
			row.CancelledAt = &now
			if err := repo.Update(row); err != nil {
				return err
			}
			cancelled++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if cancelled > 0 {
		logger.Infow("订单佣金取消完成", "order_id", orderID, "count", cancelled)
	}
	return cancelled, nil
}

// ListByOrder 查询订单名下佣金记录
func (s *CommissionService) ListByOrder(orderID uint) ([]models.Commission, error) {
	return s.commissionRepo.ListByOrder(orderID)
}

// List 分页查询佣金记录
func (s *CommissionService) List(filter repository.CommissionListFilter) ([]models.Commission, int64, error) {
	return s.commissionRepo.List(filter)
}

// SumByBeneficiary 汇总受益人佣金金额
func (s *CommissionService) SumByBeneficiary(beneficiaryID uint, statuses []string) (decimal.Decimal, error) {
	return s.commissionRepo.SumAmountByBeneficiary(beneficiaryID, statuses)
}
