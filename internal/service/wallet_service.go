package service

import (
	"github.com/fenxiao-next/internal/constants"
	"github.com/fenxiao-next/internal/logger"
	"github.com/fenxiao-next/internal/models"
	"github.com/fenxiao-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WalletService 会员钱包服务
// 资金相关写操作全部要求在调用方事务内执行，并以流水参考号做幂等。
type WalletService struct {
	walletRepo repository.WalletRepository
}

// NewWalletService 创建钱包服务
func NewWalletService(walletRepo repository.WalletRepository) *WalletService {
	return &WalletService{walletRepo: walletRepo}
}

// GetOrInitAccount 获取会员在指定租户下的钱包账户（不存在时返回零值账户，不落库）
func (s *WalletService) GetOrInitAccount(memberID, tenantID uint) (*models.WalletAccount, error) {
	account, err := s.walletRepo.GetAccount(memberID, tenantID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return &models.WalletAccount{MemberID: memberID, TenantID: tenantID}, nil
	}
	return account, nil
}

// ListTransactions 分页查询钱包流水
func (s *WalletService) ListTransactions(filter repository.WalletTransactionListFilter) ([]models.WalletTransaction, int64, error) {
	return s.walletRepo.ListTransactions(filter)
}

// ensureAccountForUpdate 加锁获取钱包账户，不存在时惰性创建
func (s *WalletService) ensureAccountForUpdate(tx *gorm.DB, memberID, tenantID uint) (*models.WalletAccount, error) {
	repo := s.walletRepo.WithTx(tx)
	account, err := repo.GetAccountForUpdate(memberID, tenantID)
	if err != nil {
		return nil, err
	}
	if account != nil {
		return account, nil
	}

	account = &models.WalletAccount{MemberID: memberID, TenantID: tenantID}
	if err := repo.CreateAccount(account); err != nil {
		logger.Errorw("创建钱包账户失败", "member_id", memberID, "tenant_id", tenantID, "error", err)
		return nil, ErrWalletAccountCreateFailed
	}
	return account, nil
}

// walletMutation 一次钱包变更的完整描述
type walletMutation struct {
	MemberID  uint
	TenantID  uint
	OrderID   uint
	Amount    decimal.Decimal
	Type      string
	Direction string
	Reference string
	Remark    string
}

// applyMutation 在事务内执行一次钱包变更并落流水
// 参考号已存在时视为重复投递，直接跳过；delta 作用于账户三个字段。
func (s *WalletService) applyMutation(tx *gorm.DB, m walletMutation, balanceDelta, frozenDelta, incomeDelta decimal.Decimal) error {
	if m.Amount.IsNegative() {
		return ErrWalletInvalidAmount
	}
	repo := s.walletRepo.WithTx(tx)

	existing, err := repo.GetTransactionByReference(m.Reference)
	if err != nil {
		return err
	}
	if existing != nil {
		logger.Infow("钱包流水已存在，跳过重复变更", "reference", m.Reference)
		return nil
	}

	account, err := s.ensureAccountForUpdate(tx, m.MemberID, m.TenantID)
	if err != nil {
		return err
	}

	account.Balance = models.NewMoneyFromDecimal(account.Balance.Decimal.Add(balanceDelta))
	account.Frozen = models.NewMoneyFromDecimal(account.Frozen.Decimal.Add(frozenDelta))
	account.TotalIncome = models.NewMoneyFromDecimal(account.TotalIncome.Decimal.Add(incomeDelta))
	if account.Frozen.Decimal.IsNegative() {
		return ErrWalletFrozenInsufficient
	}
	if account.Balance.Decimal.IsNegative() {
		logger.Warnw("钱包余额转负（已结算佣金被追回）",
			"member_id", m.MemberID, "tenant_id", m.TenantID,
			"balance", account.Balance.String(), "reference", m.Reference)
	}
	if err := repo.UpdateAccount(account); err != nil {
		logger.Errorw("更新钱包账户失败", "member_id", m.MemberID, "error", err)
		return ErrWalletAccountUpdateFailed
	}

	var orderID *uint
	if m.OrderID != 0 {
		orderID = &m.OrderID
	}
	txn := &models.WalletTransaction{
		MemberID:     m.MemberID,
		TenantID:     m.TenantID,
		OrderID:      orderID,
		Type:         m.Type,
		Direction:    m.Direction,
		Amount:       models.NewMoneyFromDecimal(m.Amount),
		BalanceAfter: account.Balance,
		FrozenAfter:  account.Frozen,
		Reference:    m.Reference,
		Remark:       m.Remark,
	}
	if err := repo.CreateTransaction(txn); err != nil {
		logger.Errorw("创建钱包流水失败", "reference", m.Reference, "error", err)
		return ErrWalletTransactionCreateFailed
	}
	return nil
}

// FreezeCommission 佣金入冻结：frozen 增加，余额与累计入账不变
func (s *WalletService) FreezeCommission(tx *gorm.DB, memberID, tenantID, orderID uint, amount decimal.Decimal, reference, remark string) error {
	return s.applyMutation(tx, walletMutation{
		MemberID:  memberID,
		TenantID:  tenantID,
		OrderID:   orderID,
		Amount:    amount,
		Type:      constants.WalletTxnTypeCommissionFrozen,
		Direction: constants.WalletTxnDirectionIn,
		Reference: reference,
		Remark:    remark,
	}, decimal.Zero, amount, decimal.Zero)
}

// SettleCommission 佣金结算：冻结转余额，累计入账同步增加
func (s *WalletService) SettleCommission(tx *gorm.DB, memberID, tenantID, orderID uint, amount decimal.Decimal, reference, remark string) error {
	return s.applyMutation(tx, walletMutation{
		MemberID:  memberID,
		TenantID:  tenantID,
		OrderID:   orderID,
		Amount:    amount,
		Type:      constants.WalletTxnTypeCommissionSettled,
		Direction: constants.WalletTxnDirectionIn,
		Reference: reference,
		Remark:    remark,
	}, amount, amount.Neg(), amount)
}

// UnfreezeCommission 冻结佣金取消：仅扣减冻结金额
func (s *WalletService) UnfreezeCommission(tx *gorm.DB, memberID, tenantID, orderID uint, amount decimal.Decimal, reference, remark string) error {
	return s.applyMutation(tx, walletMutation{
		MemberID:  memberID,
		TenantID:  tenantID,
		OrderID:   orderID,
		Amount:    amount,
		Type:      constants.WalletTxnTypeCommissionUnfreeze,
		Direction: constants.WalletTxnDirectionOut,
		Reference: reference,
		Remark:    remark,
	}, decimal.Zero, amount.Neg(), decimal.Zero)
}

// ClawbackCommission 已结算佣金追回：从余额扣减，允许余额转负
func (s *WalletService) ClawbackCommission(tx *gorm.DB, memberID, tenantID, orderID uint, amount decimal.Decimal, reference, remark string) error {
	return s.applyMutation(tx, walletMutation{
		MemberID:  memberID,
		TenantID:  tenantID,
		OrderID:   orderID,
		Amount:    amount,
		Type:      constants.WalletTxnTypeCommissionClawback,
		Direction: constants.WalletTxnDirectionOut,
		Reference: reference,
		Remark:    remark,
	}, amount.Neg(), decimal.Zero, decimal.Zero)
}
