package service

import (
	"errors"
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

func setupWalletServiceTest(t *testing.T) (*WalletService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:wallet_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.WalletAccount{},
		&models.WalletTransaction{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return NewWalletService(repository.NewWalletRepository(db)), db
}

func TestFreezeCreatesAccountLazily(t *testing.T) {
	svc, db := setupWalletServiceTest(t)

	err := db.Transaction(func(tx *gorm.DB) error {
		return svc.FreezeCommission(tx, 1, 1, 100, decimal.NewFromInt(12), "ref:freeze:1", "冻结")
	})
	if err != nil {
		t.Fatalf("freeze failed: %v", err)
	}

	account := getWalletAccount(t, db, 1, 1)
	if !account.Frozen.Decimal.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("frozen = %s, want 12", account.Frozen)
	}

	var txn models.WalletTransaction
	if err := db.Where("reference = ?", "ref:freeze:1").First(&txn).Error; err != nil {
		t.Fatalf("load transaction failed: %v", err)
	}
	if txn.Type != constants.WalletTxnTypeCommissionFrozen || txn.Direction != constants.WalletTxnDirectionIn {
		t.Fatalf("transaction = %+v", txn)
	}
	if !txn.FrozenAfter.Decimal.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("frozen_after = %s, want 12", txn.FrozenAfter)
	}
}

func TestMutationIdempotentByReference(t *testing.T) {
	svc, db := setupWalletServiceTest(t)

	for i := 0; i < 3; i++ {
		err := db.Transaction(func(tx *gorm.DB) error {
			return svc.FreezeCommission(tx, 1, 1, 100, decimal.NewFromInt(12), "ref:dup", "冻结")
		})
		if err != nil {
			t.Fatalf("freeze #%d failed: %v", i, err)
		}
	}

	account := getWalletAccount(t, db, 1, 1)
	if !account.Frozen.Decimal.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("frozen = %s, want 12 (no double apply)", account.Frozen)
	}
	var count int64
	db.Model(&models.WalletTransaction{}).Count(&count)
	if count != 1 {
		t.Fatalf("transactions = %d, want 1", count)
	}
}

func TestSettleMovesFrozenToBalance(t *testing.T) {
	svc, db := setupWalletServiceTest(t)

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := svc.FreezeCommission(tx, 1, 1, 100, decimal.NewFromInt(12), "ref:f", "冻结"); err != nil {
			return err
		}
		return svc.SettleCommission(tx, 1, 1, 100, decimal.NewFromInt(12), "ref:s", "结算")
	})
	if err != nil {
		t.Fatalf("settle failed: %v", err)
	}

	account := getWalletAccount(t, db, 1, 1)
	if !account.Frozen.Decimal.IsZero() {
		t.Fatalf("frozen = %s, want 0", account.Frozen)
	}
	if !account.Balance.Decimal.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("balance = %s, want 12", account.Balance)
	}
	if !account.TotalIncome.Decimal.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("total_income = %s, want 12", account.TotalIncome)
	}
}

func TestSettleWithoutFrozenFails(t *testing.T) {
	svc, db := setupWalletServiceTest(t)

	err := db.Transaction(func(tx *gorm.DB) error {
		return svc.SettleCommission(tx, 1, 1, 100, decimal.NewFromInt(12), "ref:s", "结算")
	})
	if !errors.Is(err, ErrWalletFrozenInsufficient) {
		t.Fatalf("err = %v, want ErrWalletFrozenInsufficient", err)
	}
}

func TestClawbackAllowsNegativeBalance(t *testing.T) {
	svc, db := setupWalletServiceTest(t)

	err := db.Transaction(func(tx *gorm.DB) error {
		return svc.ClawbackCommission(tx, 1, 1, 100, decimal.NewFromInt(8), "ref:c", "追回")
	})
	if err != nil {
		t.Fatalf("clawback failed: %v", err)
	}

	// 已结算佣金被追回时余额允许为负
	account := getWalletAccount(t, db, 1, 1)
	if !account.Balance.Decimal.Equal(decimal.NewFromInt(-8)) {
		t.Fatalf("balance = %s, want -8", account.Balance)
	}
}

func TestNegativeAmountRejected(t *testing.T) {
	svc, db := setupWalletServiceTest(t)

	err := db.Transaction(func(tx *gorm.DB) error {
		return svc.FreezeCommission(tx, 1, 1, 100, decimal.NewFromInt(-1), "ref:neg", "冻结")
	})
	if !errors.Is(err, ErrWalletInvalidAmount) {
		t.Fatalf("err = %v, want ErrWalletInvalidAmount", err)
	}
}

func TestGetOrInitAccountReturnsZeroValue(t *testing.T) {
	svc, _ := setupWalletServiceTest(t)

	account, err := svc.GetOrInitAccount(9, 1)
	if err != nil {
		t.Fatalf("get account failed: %v", err)
	}
	if account.ID != 0 || !account.Balance.Decimal.IsZero() {
		t.Fatalf("account = %+v, want zero value", account)
	}
}
