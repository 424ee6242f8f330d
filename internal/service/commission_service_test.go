package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/fenxiao-next/internal/constants"
	"github.com/fenxiao-next/internal/models"
	"github.com/fenxiao-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupCommissionServiceTest(t *testing.T) (*CommissionService, *WalletService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:commission_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Tenant{},
		&models.Member{},
		&models.DistributionConfig{},
		&models.Order{},
		&models.OrderItem{},
		&models.Commission{},
		&models.WalletAccount{},
		&models.WalletTransaction{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	walletSvc := NewWalletService(repository.NewWalletRepository(db))
	settingSvc := NewDistributionSettingService(repository.NewDistributionConfigRepository(db))
	commissionSvc := NewCommissionService(
		repository.NewCommissionRepository(db),
		repository.NewOrderRepository(db),
		repository.NewMemberRepository(db),
		settingSvc,
		walletSvc,
	)
	return commissionSvc, walletSvc, db
}

func createTestConfig(t *testing.T, db *gorm.DB, tenantID uint, mutate func(*models.DistributionConfig)) {
	t.Helper()
	config := &models.DistributionConfig{
		TenantID:           tenantID,
		Level1Rate:         rateFrom(0.10),
		Level2Rate:         rateFrom(0.05),
		EnableLevelZero:    false,
		EnableCrossTenant:  false,
		CommissionBaseType: constants.CommissionBaseTypeOriginalPrice,
	}
	if mutate != nil {
		mutate(config)
	}
	if err := db.Create(config).Error; err != nil {
		t.Fatalf("create config failed: %v", err)
	}
}

// createTestChain 创建 买家 <- 一级推荐人 <- 二级推荐人 推荐链
func createTestChain(t *testing.T, db *gorm.DB, tenantID uint) (buyer, level1, level2 *models.Member) {
	t.Helper()
	level2 = &models.Member{TenantID: tenantID, Nickname: "l2", Status: constants.MemberStatusActive, HasDistributorRank: true}
	if err := db.Create(level2).Error; err != nil {
		t.Fatalf("create member failed: %v", err)
	}
	level1 = &models.Member{TenantID: tenantID, Nickname: "l1", Status: constants.MemberStatusActive, ReferrerID: &level2.ID, HasDistributorRank: true}
	if err := db.Create(level1).Error; err != nil {
		t.Fatalf("create member failed: %v", err)
	}
	buyer = &models.Member{TenantID: tenantID, Nickname: "buyer", Status: constants.MemberStatusActive, ReferrerID: &level1.ID}
	if err := db.Create(buyer).Error; err != nil {
		t.Fatalf("create member failed: %v", err)
	}
	return buyer, level1, level2
}

// createPaidOrder 创建已支付订单：比例项 100*2*0.5 + 固定项 10*2 = 基数 120
func createPaidOrder(t *testing.T, db *gorm.DB, tenantID, buyerID uint) *models.Order {
	t.Helper()
	now := time.Now()
	order := &models.Order{
		OrderNo:          fmt.Sprintf("T%d", time.Now().UnixNano()),
		TenantID:         tenantID,
		BuyerID:          buyerID,
		BuyerTenantID:    tenantID,
		Status:           constants.OrderStatusPaid,
		OriginalAmount:   moneyFrom(300),
		ActualPaidAmount: moneyFrom(280),
		CouponDiscount:   moneyFrom(20),
		PaidAt:           &now,
		Items: []models.OrderItem{
			{UnitPrice: moneyFrom(100), Quantity: 2, DistMode: constants.DistModeRatio, DistRate: rateFrom(0.5)},
			{UnitPrice: moneyFrom(50), Quantity: 2, DistMode: constants.DistModeFixed, DistRate: rateFrom(10)},
		},
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func getWalletAccount(t *testing.T, db *gorm.DB, memberID, tenantID uint) *models.WalletAccount {
	t.Helper()
	var account models.WalletAccount
	if err := db.Where("member_id = ? AND tenant_id = ?", memberID, tenantID).First(&account).Error; err != nil {
		t.Fatalf("load wallet account failed: %v", err)
	}
	return &account
}

func TestCalculateTwoLevelCommission(t *testing.T) {
	svc, _, db := setupCommissionServiceTest(t)
	createTestConfig(t, db, 1, nil)
	buyer, level1, level2 := createTestChain(t, db, 1)
	order := createPaidOrder(t, db, 1, buyer.ID)

	rows, err := svc.Calculate(order.ID)
	if err != nil {
		t.Fatalf("calculate failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("commissions = %d, want 2", len(rows))
	}

	// 基数 120：一级 12.00，二级 6.00
	byLevel := map[int]models.Commission{}
	for _, row := range rows {
		byLevel[row.Level] = row
	}
	l1 := byLevel[1]
	if l1.BeneficiaryID != level1.ID || !l1.Amount.Decimal.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("level1 = %+v, want member %d amount 12", l1, level1.ID)
	}
	l2 := byLevel[2]
	if l2.BeneficiaryID != level2.ID || !l2.Amount.Decimal.Equal(decimal.NewFromInt(6)) {
		t.Fatalf("level2 = %+v, want member %d amount 6", l2, level2.ID)
	}
	for _, row := range rows {
		if row.Status != constants.CommissionStatusFrozen {
			t.Fatalf("status = %s, want frozen", row.Status)
		}
		if row.IsCapped {
			t.Fatal("commission should not be capped")
		}
	}

	// 钱包冻结入账，余额与累计入账不动
	account := getWalletAccount(t, db, level1.ID, 1)
	if !account.Frozen.Decimal.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("frozen = %s, want 12", account.Frozen)
	}
	if !account.Balance.Decimal.IsZero() || !account.TotalIncome.Decimal.IsZero() {
		t.Fatalf("balance/total_income should be zero, got %s / %s", account.Balance, account.TotalIncome)
	}

	var txnCount int64
	db.Model(&models.WalletTransaction{}).Where("type = ?", constants.WalletTxnTypeCommissionFrozen).Count(&txnCount)
	if txnCount != 2 {
		t.Fatalf("frozen transactions = %d, want 2", txnCount)
	}
}

func TestCalculateIdempotent(t *testing.T) {
	svc, _, db := setupCommissionServiceTest(t)
	createTestConfig(t, db, 1, nil)
	buyer, level1, _ := createTestChain(t, db, 1)
	order := createPaidOrder(t, db, 1, buyer.ID)

	first, err := svc.Calculate(order.ID)
	if err != nil {
		t.Fatalf("first calculate failed: %v", err)
	}
	second, err := svc.Calculate(order.ID)
	if err != nil {
		t.Fatalf("second calculate failed: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("row counts differ: %d vs %d", len(first), len(second))
	}

	var count int64
	db.Model(&models.Commission{}).Where("order_id = ?", order.ID).Count(&count)
	if count != 2 {
		t.Fatalf("commissions = %d, want 2", count)
	}

	// 钱包冻结金额不被重复累加
	account := getWalletAccount(t, db, level1.ID, 1)
	if !account.Frozen.Decimal.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("frozen = %s, want 12", account.Frozen)
	}
}

func TestCalculateNoConfigSilentNoop(t *testing.T) {
	svc, _, db := setupCommissionServiceTest(t)
	buyer, _, _ := createTestChain(t, db, 1)
	order := createPaidOrder(t, db, 1, buyer.ID)

	rows, err := svc.Calculate(order.ID)
	if err != nil {
		t.Fatalf("calculate failed: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("commissions = %d, want 0", len(rows))
	}

	var count int64
	db.Model(&models.WalletTransaction{}).Count(&count)
	if count != 0 {
		t.Fatalf("wallet transactions = %d, want 0", count)
	}
}

func TestCalculateNoReferrerNoop(t *testing.T) {
	svc, _, db := setupCommissionServiceTest(t)
	createTestConfig(t, db, 1, nil)
	buyer := &models.Member{TenantID: 1, Nickname: "solo", Status: constants.MemberStatusActive}
	if err := db.Create(buyer).Error; err != nil {
		t.Fatalf("create member failed: %v", err)
	}
	order := createPaidOrder(t, db, 1, buyer.ID)

	rows, err := svc.Calculate(order.ID)
	if err != nil {
		t.Fatalf("calculate failed: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("commissions = %d, want 0", len(rows))
	}
}

func TestCalculateInvalidDistModeSurfaces(t *testing.T) {
	svc, _, db := setupCommissionServiceTest(t)
	createTestConfig(t, db, 1, nil)
	buyer, _, _ := createTestChain(t, db, 1)
	now := time.Now()
	order := &models.Order{
		OrderNo:          fmt.Sprintf("T%d", time.Now().UnixNano()),
		TenantID:         1,
		BuyerID:          buyer.ID,
		BuyerTenantID:    1,
		Status:           constants.OrderStatusPaid,
		OriginalAmount:   moneyFrom(100),
		ActualPaidAmount: moneyFrom(100),
		PaidAt:           &now,
		Items: []models.OrderItem{
			{UnitPrice: moneyFrom(100), Quantity: 1, DistMode: "bogus", DistRate: rateFrom(0.5)},
		},
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if _, err := svc.Calculate(order.ID); !IsValidationError(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestCalculateActualPaidBase(t *testing.T) {
	svc, _, db := setupCommissionServiceTest(t)
	createTestConfig(t, db, 1, func(c *models.DistributionConfig) {
		c.CommissionBaseType = constants.CommissionBaseTypeActualPaid
	})
	buyer, level1, _ := createTestChain(t, db, 1)
	order := createPaidOrder(t, db, 1, buyer.ID)

	rows, err := svc.Calculate(order.ID)
	if err != nil {
		t.Fatalf("calculate failed: %v", err)
	}
	// 基数 120 * 280/300 = 112：一级 11.20，二级 5.60
	byLevel := map[int]models.Commission{}
	for _, row := range rows {
		byLevel[row.Level] = row
	}
	if !byLevel[1].Amount.Decimal.Equal(decimal.NewFromFloat(11.20)) {
		t.Fatalf("level1 amount = %s, want 11.20", byLevel[1].Amount)
	}
	if !byLevel[2].Amount.Decimal.Equal(decimal.NewFromFloat(5.60)) {
		t.Fatalf("level2 amount = %s, want 5.60", byLevel[2].Amount)
	}
	account := getWalletAccount(t, db, level1.ID, 1)
	if !account.Frozen.Decimal.Equal(decimal.NewFromFloat(11.20)) {
		t.Fatalf("frozen = %s, want 11.20", account.Frozen)
	}
}

func TestCalculateCapApplied(t *testing.T) {
	svc, _, db := setupCommissionServiceTest(t)
	createTestConfig(t, db, 1, func(c *models.DistributionConfig) {
		c.MaxCommissionRate = rateFrom(0.05) // 上限 280*0.05 = 14.00 < 18.00
	})
	buyer, _, _ := createTestChain(t, db, 1)
	order := createPaidOrder(t, db, 1, buyer.ID)

	rows, err := svc.Calculate(order.ID)
	if err != nil {
		t.Fatalf("calculate failed: %v", err)
	}
	total := decimal.Zero
	for _, row := range rows {
		if !row.IsCapped {
			t.Fatalf("row %d not marked capped", row.ID)
		}
		total = total.Add(row.Amount.Decimal)
	}
	if !total.Equal(decimal.NewFromInt(14)) {
		t.Fatalf("total = %s, want 14", total)
	}
}

func TestAdvanceSettlement(t *testing.T) {
	svc, _, db := setupCommissionServiceTest(t)
	createTestConfig(t, db, 1, nil)
	buyer, level1, _ := createTestChain(t, db, 1)
	order := createPaidOrder(t, db, 1, buyer.ID)

	if _, err := svc.Calculate(order.ID); err != nil {
		t.Fatalf("calculate failed: %v", err)
	}
	settled, err := svc.AdvanceSettlement(order.ID, constants.SettleTriggerConfirmReceipt)
	if err != nil {
		t.Fatalf("advance settlement failed: %v", err)
	}
	if settled != 2 {
		t.Fatalf("settled = %d, want 2", settled)
	}

	var rows []models.Commission
	db.Where("order_id = ?", order.ID).Find(&rows)
	for _, row := range rows {
		if row.Status != constants.CommissionStatusSettled {
			t.Fatalf("status = %s, want settled", row.Status)
		}
		if row.SettleTrigger != constants.SettleTriggerConfirmReceipt || row.SettledAt == nil {
			t.Fatalf("settle metadata missing: %+v", row)
		}
	}

	// 冻结转余额，累计入账同步
	account := getWalletAccount(t, db, level1.ID, 1)
	if !account.Frozen.Decimal.IsZero() {
		t.Fatalf("frozen = %s, want 0", account.Frozen)
	}
	if !account.Balance.Decimal.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("balance = %s, want 12", account.Balance)
	}
	if !account.TotalIncome.Decimal.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("total_income = %s, want 12", account.TotalIncome)
	}

	// 重复推进不再产生任何变化
	again, err := svc.AdvanceSettlement(order.ID, constants.SettleTriggerForceVerify)
	if err != nil {
		t.Fatalf("second settlement failed: %v", err)
	}
	if again != 0 {
		t.Fatalf("second settled = %d, want 0", again)
	}
	account = getWalletAccount(t, db, level1.ID, 1)
	if !account.Balance.Decimal.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("balance changed on repeat: %s", account.Balance)
	}
}

func TestCancelFrozenCommission(t *testing.T) {
	svc, _, db := setupCommissionServiceTest(t)
	createTestConfig(t, db, 1, nil)
	buyer, level1, _ := createTestChain(t, db, 1)
	order := createPaidOrder(t, db, 1, buyer.ID)

	if _, err := svc.Calculate(order.ID); err != nil {
		t.Fatalf("calculate failed: %v", err)
	}
	cancelled, err := svc.Cancel(order.ID)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled != 2 {
		t.Fatalf("cancelled = %d, want 2", cancelled)
	}

	var rows []models.Commission
	db.Where("order_id = ?", order.ID).Find(&rows)
	for _, row := range rows {
		if row.Status != constants.CommissionStatusCancelled || row.CancelledAt == nil {
			t.Fatalf("row not cancelled: %+v", row)
		}
	}

	account := getWalletAccount(t, db, level1.ID, 1)
	if !account.Frozen.Decimal.IsZero() || !account.Balance.Decimal.IsZero() {
		t.Fatalf("wallet not reverted: frozen=%s balance=%s", account.Frozen, account.Balance)
	}

	// 重复取消幂等
	again, err := svc.Cancel(order.ID)
	if err != nil {
		t.Fatalf("second cancel failed: %v", err)
	}
	if again != 0 {
		t.Fatalf("second cancelled = %d, want 0", again)
	}
}

func TestCancelSettledCommissionClawback(t *testing.T) {
	svc, _, db := setupCommissionServiceTest(t)
	createTestConfig(t, db, 1, nil)
	buyer, level1, _ := createTestChain(t, db, 1)
	order := createPaidOrder(t, db, 1, buyer.ID)

	if _, err := svc.Calculate(order.ID); err != nil {
		t.Fatalf("calculate failed: %v", err)
	}
	if _, err := svc.AdvanceSettlement(order.ID, constants.SettleTriggerConfirmReceipt); err != nil {
		t.Fatalf("settlement failed: %v", err)
	}

	cancelled, err := svc.Cancel(order.ID)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled != 2 {
		t.Fatalf("cancelled = %d, want 2", cancelled)
	}

	// 已结算佣金从余额追回，累计入账保留历史
	account := getWalletAccount(t, db, level1.ID, 1)
	if !account.Balance.Decimal.IsZero() {
		t.Fatalf("balance = %s, want 0", account.Balance)
	}
	if !account.TotalIncome.Decimal.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("total_income = %s, want 12", account.TotalIncome)
	}

	var clawbacks int64
	db.Model(&models.WalletTransaction{}).Where("type = ?", constants.WalletTxnTypeCommissionClawback).Count(&clawbacks)
	if clawbacks != 2 {
		t.Fatalf("clawback transactions = %d, want 2", clawbacks)
	}
}
