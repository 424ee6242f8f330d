package service

import (
	"fmt"

	"github.com/fenxiao-next/internal/constants"
	"github.com/fenxiao-next/internal/models"

	"github.com/shopspring/decimal"
)

// minCommissionAmount 单笔佣金最小落库金额，低于该值的层级直接丢弃
var minCommissionAmount = decimal.NewFromFloat(0.01)

// referrerSlot 推荐链上的一个候选受益人
type referrerSlot struct {
	MemberID           uint
	TenantID           uint
	HasDistributorRank bool
}

// beneficiary 通过资格校验后绑定层级的受益人
// 层级由推荐链位置决定，某一层被剔除时不向上顺延。
type beneficiary struct {
	MemberID uint
	Level    int
}

// commissionProposal 待落库的佣金分配方案
type commissionProposal struct {
	BeneficiaryID uint
	Level         int
	Amount        decimal.Decimal
	IsCapped      bool
}

// resolveRawCommissionBase 按订单项逐项累加原始分佣基数
// ratio: 单价 * 数量 * 比例；fixed: 单件固定金额 * 数量；none/换购商品: 0。
// 未知分佣模式属于数据缺陷，整单计算失败。
func resolveRawCommissionBase(items []models.OrderItem) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, item := range items {
		if item.IsExchangeItem {
			continue
		}
		qty := decimal.NewFromInt(int64(item.Quantity))
		switch item.DistMode {
		case constants.DistModeRatio:
			total = total.Add(item.UnitPrice.Decimal.Mul(qty).Mul(item.DistRate.Decimal))
		case constants.DistModeFixed:
			total = total.Add(item.DistRate.Decimal.Mul(qty))
		case constants.DistModeNone:
		default:
			return decimal.Zero, fmt.Errorf("%w: order_item=%d mode=%s", ErrCommissionDistModeInvalid, item.ID, item.DistMode)
		}
	}
	return total, nil
}

// adjustCommissionBase 按配置的基数类型调整原始基数
// actual_paid 模式下按 实付/原价 等比折算，优惠抵扣由各层级按占比共同承担；
// 原价为零时无法折算，直接返回零基数。
func adjustCommissionBase(rawBase decimal.Decimal, config *models.DistributionConfig, originalAmount, actualPaid decimal.Decimal) decimal.Decimal {
	if rawBase.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	if config.CommissionBaseType != constants.CommissionBaseTypeActualPaid {
		return rawBase
	}
	if originalAmount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return rawBase.Mul(actualPaid).Div(originalAmount)
}

// resolveBeneficiaries 沿买家推荐链解析各层级受益人
// 规则：
//   - 自推荐（推荐链任意一环指回买家本人）的环节剔除；
//   - 跨租户订单：未开启跨租户分佣则整单无受益人，开启也仅保留一级；
//   - 未开启零门槛分佣时，无分销等级的推荐人所在层级直接空缺，不向上顺延。
func resolveBeneficiaries(buyerID, orderTenantID, buyerTenantID uint, level1, level2 *referrerSlot, config *models.DistributionConfig) []beneficiary {
	crossTenant := orderTenantID != buyerTenantID
	if crossTenant && !config.EnableCrossTenant {
		return nil
	}

	eligible := func(slot *referrerSlot) bool {
		if slot == nil || slot.MemberID == 0 {
			return false
		}
		if slot.MemberID == buyerID {
			return false
		}
		if !config.EnableLevelZero && !slot.HasDistributorRank {
			return false
		}
		return true
	}

	var out []beneficiary
	if eligible(level1) {
		out = append(out, beneficiary{MemberID: level1.MemberID, Level: constants.CommissionLevelOne})
	}
	if crossTenant {
		return out
	}
	if eligible(level2) && (level1 == nil || level2.MemberID != level1.MemberID) {
		out = append(out, beneficiary{MemberID: level2.MemberID, Level: constants.CommissionLevelTwo})
	}
	return out
}

// levelRate 返回指定层级的分佣比例
func levelRate(config *models.DistributionConfig, level int) decimal.Decimal {
	switch level {
	case constants.CommissionLevelOne:
		return config.Level1Rate.Decimal
	case constants.CommissionLevelTwo:
		return config.Level2Rate.Decimal
	default:
		return decimal.Zero
	}
}

// buildProposals 按各层级比例生成分配方案，过滤低于最小金额的层级
func buildProposals(base decimal.Decimal, beneficiaries []beneficiary, config *models.DistributionConfig) []commissionProposal {
	if base.LessThanOrEqual(decimal.Zero) || len(beneficiaries) == 0 {
		return nil
	}
	var proposals []commissionProposal
	for _, b := range beneficiaries {
		amount := base.Mul(levelRate(config, b.Level)).Round(2)
		if amount.LessThan(minCommissionAmount) {
			continue
		}
		proposals = append(proposals, commissionProposal{
			BeneficiaryID: b.MemberID,
			Level:         b.Level,
			Amount:        amount,
		})
	}
	return proposals
}

// applyCommissionCap 佣金熔断：总佣金超过 实付 * 上限比例 时按比例缩减
// 缩减后逐行四舍五入，尾差由最后一行吸收，保证缩减后总和严格等于上限。
// 上限比例为零视为未启用熔断。
func applyCommissionCap(proposals []commissionProposal, actualPaid decimal.Decimal, maxRate decimal.Decimal) []commissionProposal {
	if len(proposals) == 0 || maxRate.LessThanOrEqual(decimal.Zero) {
		return proposals
	}
	capAmount := actualPaid.Mul(maxRate).Round(2)
	total := decimal.Zero
	for _, p := range proposals {
		total = total.Add(p.Amount)
	}
	if total.LessThanOrEqual(capAmount) {
		return proposals
	}

	scaled := make([]commissionProposal, len(proposals))
	allocated := decimal.Zero
	for i, p := range proposals {
		amount := p.Amount.Mul(capAmount).Div(total).Round(2)
		if i == len(proposals)-1 {
			amount = capAmount.Sub(allocated)
			if amount.IsNegative() {
				amount = decimal.Zero
			}
		}
		allocated = allocated.Add(amount)
		scaled[i] = commissionProposal{
			BeneficiaryID: p.BeneficiaryID,
			Level:         p.Level,
			Amount:        amount,
			IsCapped:      true,
		}
	}
	return scaled
}
