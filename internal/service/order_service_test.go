package service

import (
	"errors"
	"testing"

	"github.com/fenxiao-next/internal/constants"
	"github.com/fenxiao-next/internal/models"
	"github.com/fenxiao-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupOrderServiceTest(t *testing.T) (*OrderService, *gorm.DB) {
	t.Helper()
	commissionSvc, _, db := setupCommissionServiceTest(t)
	orderRepo := repository.NewOrderRepository(db)
	return NewOrderService(orderRepo, commissionSvc, nil), db
}

// createPendingOrder 创建待支付订单（订单项与 createPaidOrder 相同）
func createPendingOrder(t *testing.T, db *gorm.DB, tenantID, buyerID uint) *models.Order {
	t.Helper()
	order := createPaidOrder(t, db, tenantID, buyerID)
	if err := db.Model(&models.Order{}).Where("id = ?", order.ID).
		Updates(map[string]interface{}{"status": constants.OrderStatusPendingPayment, "paid_at": nil}).Error; err != nil {
		t.Fatalf("reset order status failed: %v", err)
	}
	order.Status = constants.OrderStatusPendingPayment
	return order
}

func TestOrderLifecyclePaidConfirmRefund(t *testing.T) {
	orderSvc, db := setupOrderServiceTest(t)
	createTestConfig(t, db, 1, nil)
	buyer, level1, _ := createTestChain(t, db, 1)

	order := createPendingOrder(t, db, 1, buyer.ID)

	// 支付：同步计算分佣并冻结
	if err := orderSvc.MarkPaid(order.ID); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	var reloaded models.Order
	if err := db.First(&reloaded, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloaded.Status != constants.OrderStatusPaid || reloaded.PaidAt == nil {
		t.Fatalf("order = %+v, want paid", reloaded)
	}
	account := getWalletAccount(t, db, level1.ID, 1)
	if !account.Frozen.Decimal.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("frozen = %s, want 12", account.Frozen)
	}

	// 重复支付幂等
	if err := orderSvc.MarkPaid(order.ID); err != nil {
		t.Fatalf("repeat mark paid failed: %v", err)
	}
	account = getWalletAccount(t, db, level1.ID, 1)
	if !account.Frozen.Decimal.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("frozen after repeat = %s, want 12", account.Frozen)
	}

	// 确认收货：结算
	if err := orderSvc.ConfirmReceipt(order.ID); err != nil {
		t.Fatalf("confirm receipt failed: %v", err)
	}
	account = getWalletAccount(t, db, level1.ID, 1)
	if !account.Balance.Decimal.Equal(decimal.NewFromInt(12)) || !account.Frozen.Decimal.IsZero() {
		t.Fatalf("wallet after confirm: balance=%s frozen=%s", account.Balance, account.Frozen)
	}

	// 退款：已结算佣金追回
	if err := orderSvc.Refund(order.ID); err != nil {
		t.Fatalf("refund failed: %v", err)
	}
	account = getWalletAccount(t, db, level1.ID, 1)
	if !account.Balance.Decimal.IsZero() {
		t.Fatalf("balance after refund = %s, want 0", account.Balance)
	}

	// 重复退款幂等
	if err := orderSvc.Refund(order.ID); err != nil {
		t.Fatalf("repeat refund failed: %v", err)
	}
}

func TestMarkPaidRejectsRefundedOrder(t *testing.T) {
	orderSvc, db := setupOrderServiceTest(t)
	createTestConfig(t, db, 1, nil)
	buyer, _, _ := createTestChain(t, db, 1)

	order := createPendingOrder(t, db, 1, buyer.ID)
	if err := db.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("status", constants.OrderStatusRefunded).Error; err != nil {
		t.Fatalf("force status failed: %v", err)
	}

	if err := orderSvc.MarkPaid(order.ID); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("err = %v, want ErrOrderStatusInvalid", err)
	}
}

func TestConfirmRequiresPaidOrder(t *testing.T) {
	orderSvc, db := setupOrderServiceTest(t)
	createTestConfig(t, db, 1, nil)
	buyer, _, _ := createTestChain(t, db, 1)

	order := createPendingOrder(t, db, 1, buyer.ID)
	if err := orderSvc.ConfirmReceipt(order.ID); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("err = %v, want ErrOrderStatusInvalid", err)
	}
}

func TestRefundBeforeSettlementUnfreezes(t *testing.T) {
	orderSvc, db := setupOrderServiceTest(t)
	createTestConfig(t, db, 1, nil)
	buyer, level1, _ := createTestChain(t, db, 1)

	order := createPendingOrder(t, db, 1, buyer.ID)
	if err := orderSvc.MarkPaid(order.ID); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	if err := orderSvc.Refund(order.ID); err != nil {
		t.Fatalf("refund failed: %v", err)
	}

	account := getWalletAccount(t, db, level1.ID, 1)
	if !account.Frozen.Decimal.IsZero() || !account.Balance.Decimal.IsZero() {
		t.Fatalf("wallet not reverted: frozen=%s balance=%s", account.Frozen, account.Balance)
	}
	if !account.TotalIncome.Decimal.IsZero() {
		t.Fatalf("total_income = %s, want 0 (never settled)", account.TotalIncome)
	}
}

func TestForceVerifySettles(t *testing.T) {
	orderSvc, db := setupOrderServiceTest(t)
	createTestConfig(t, db, 1, nil)
	buyer, level1, _ := createTestChain(t, db, 1)

	order := createPendingOrder(t, db, 1, buyer.ID)
	if err := orderSvc.MarkPaid(order.ID); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	if err := orderSvc.ForceVerify(order.ID); err != nil {
		t.Fatalf("force verify failed: %v", err)
	}

	var rows []models.Commission
	db.Where("order_id = ?", order.ID).Find(&rows)
	for _, row := range rows {
		if row.Status != constants.CommissionStatusSettled || row.SettleTrigger != constants.SettleTriggerForceVerify {
			t.Fatalf("row = %+v, want settled by force_verify", row)
		}
	}
	account := getWalletAccount(t, db, level1.ID, 1)
	if !account.Balance.Decimal.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("balance = %s, want 12", account.Balance)
	}
}
