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
	"gorm.io/gorm"
)

func setupDistributionSettingTest(t *testing.T) (*DistributionSettingService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:distribution_setting_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.DistributionConfig{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return NewDistributionSettingService(repository.NewDistributionConfigRepository(db)), db
}

func TestGetByTenantMissingReturnsNil(t *testing.T) {
	svc, _ := setupDistributionSettingTest(t)
	config, err := svc.GetByTenant(42)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if config != nil {
		t.Fatalf("config = %+v, want nil", config)
	}
}

func TestSaveAndReload(t *testing.T) {
	svc, _ := setupDistributionSettingTest(t)
	config := &models.DistributionConfig{
		TenantID:           1,
		Level1Rate:         rateFrom(0.10),
		Level2Rate:         rateFrom(0.05),
		CommissionBaseType: constants.CommissionBaseTypeActualPaid,
		MaxCommissionRate:  rateFrom(0.30),
	}
	if err := svc.Save(config); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := svc.GetByTenant(1)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if loaded == nil || loaded.CommissionBaseType != constants.CommissionBaseTypeActualPaid {
		t.Fatalf("loaded = %+v", loaded)
	}

	// 覆盖保存复用既有记录
	config.Level1Rate = rateFrom(0.20)
	if err := svc.Save(config); err != nil {
		t.Fatalf("resave failed: %v", err)
	}
	reloaded, _ := svc.GetByTenant(1)
	if reloaded.ID != loaded.ID {
		t.Fatalf("resave created new row: %d vs %d", reloaded.ID, loaded.ID)
	}
}

func TestSaveDefaultsBaseType(t *testing.T) {
	svc, _ := setupDistributionSettingTest(t)
	config := &models.DistributionConfig{
		TenantID:   1,
		Level1Rate: rateFrom(0.10),
	}
	if err := svc.Save(config); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if config.CommissionBaseType != constants.CommissionBaseTypeOriginalPrice {
		t.Fatalf("base type = %s, want original_price", config.CommissionBaseType)
	}
}

func TestValidateRejectsOutOfRangeRates(t *testing.T) {
	cases := []*models.DistributionConfig{
		{TenantID: 1, Level1Rate: rateFrom(-0.1), CommissionBaseType: constants.CommissionBaseTypeOriginalPrice},
		{TenantID: 1, Level2Rate: rateFrom(1.5), CommissionBaseType: constants.CommissionBaseTypeOriginalPrice},
		{TenantID: 1, MaxCommissionRate: rateFrom(2), CommissionBaseType: constants.CommissionBaseTypeOriginalPrice},
	}
	for i, config := range cases {
		if err := ValidateDistributionConfig(config); !errors.Is(err, ErrCommissionRateInvalid) {
			t.Fatalf("case %d: err = %v, want ErrCommissionRateInvalid", i, err)
		}
	}
}

func TestValidateRejectsUnknownBaseType(t *testing.T) {
	config := &models.DistributionConfig{
		TenantID:           1,
		CommissionBaseType: "list_price",
	}
	if err := ValidateDistributionConfig(config); !errors.Is(err, ErrDistributionConfigInvalid) {
		t.Fatalf("err = %v, want ErrDistributionConfigInvalid", err)
	}
}
