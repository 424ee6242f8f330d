package main

import (
	"fmt"

	"github.com/fenxiao-next/internal/config"
	"github.com/fenxiao-next/internal/constants"
	"github.com/fenxiao-next/internal/logger"
	"github.com/fenxiao-next/internal/models"
	"github.com/fenxiao-next/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("数据库连接失败: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	db := models.DB

	// 租户
	tenant := models.Tenant{Name: "示例租户", Code: "demo", Status: constants.TenantStatusActive}
	if err := db.Create(&tenant).Error; err != nil {
		stdLog.Fatalf("创建租户失败: %v", err)
	}

	// 分销配置：一级 10%，二级 5%，熔断 30%，按原价计算
	setting := models.DistributionConfig{
		TenantID:           tenant.ID,
		Level1Rate:         models.NewRateFromDecimal(decimal.NewFromFloat(0.10)),
		Level2Rate:         models.NewRateFromDecimal(decimal.NewFromFloat(0.05)),
		EnableLevelZero:    false,
		EnableCrossTenant:  false,
		CommissionBaseType: constants.CommissionBaseTypeOriginalPrice,
		MaxCommissionRate:  models.NewRateFromDecimal(decimal.NewFromFloat(0.30)),
	}
	if err := db.Create(&setting).Error; err != nil {
		stdLog.Fatalf("创建分销配置失败: %v", err)
	}

	// 二级推荐链：grandReferrer <- referrer <- buyer
	grandReferrer := models.Member{TenantID: tenant.ID, Nickname: "二级推荐人", Status: constants.MemberStatusActive, HasDistributorRank: true}
	if err := db.Create(&grandReferrer).Error; err != nil {
		stdLog.Fatalf("创建会员失败: %v", err)
	}
	referrer := models.Member{TenantID: tenant.ID, Nickname: "一级推荐人", Status: constants.MemberStatusActive, ReferrerID: &grandReferrer.ID, HasDistributorRank: true}
	if err := db.Create(&referrer).Error; err != nil {
		stdLog.Fatalf("创建会员失败: %v", err)
	}
	buyer := models.Member{TenantID: tenant.ID, Nickname: "买家", Status: constants.MemberStatusActive, ReferrerID: &referrer.ID}
	if err := db.Create(&buyer).Error; err != nil {
		stdLog.Fatalf("创建会员失败: %v", err)
	}

	// 演示订单：比例分佣 + 固定分佣 + 换购商品
	order := models.Order{
		OrderNo:          fmt.Sprintf("FX%s", uuid.NewString()[:16]),
		TenantID:         tenant.ID,
		BuyerID:          buyer.ID,
		BuyerTenantID:    tenant.ID,
		Status:           constants.OrderStatusPendingPayment,
		OriginalAmount:   models.NewMoneyFromDecimal(decimal.NewFromInt(300)),
		ActualPaidAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(280)),
		CouponDiscount:   models.NewMoneyFromDecimal(decimal.NewFromInt(20)),
		Items: []models.OrderItem{
			{
				SKUID:     1001,
				UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
				Quantity:  2,
				DistMode:  constants.DistModeRatio,
				DistRate:  models.NewRateFromDecimal(decimal.NewFromFloat(0.5)),
			},
			{
				SKUID:     1002,
				UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(50)),
				Quantity:  2,
				DistMode:  constants.DistModeFixed,
				DistRate:  models.NewRateFromDecimal(decimal.NewFromInt(10)),
			},
			{
				SKUID:          1003,
				UnitPrice:      models.NewMoneyFromDecimal(decimal.Zero),
				Quantity:       1,
				DistMode:       constants.DistModeNone,
				IsExchangeItem: true,
			},
		},
	}
	if err := db.Create(&order).Error; err != nil {
		stdLog.Fatalf("创建订单失败: %v", err)
	}

	// 开发用管理端令牌
	authSvc := service.NewAuthService(cfg)
	token, expiresAt, err := authSvc.GenerateAdminJWT(1, tenant.ID, "seed-admin")
	if err != nil {
		stdLog.Printf("警告: 生成管理端令牌失败: %v", err)
	} else {
		fmt.Printf("管理端令牌（%s 过期）:\n%s\n", expiresAt.Format("2006-01-02 15:04:05"), token)
	}

	fmt.Printf("租户=%d 买家=%d 一级推荐人=%d 二级推荐人=%d 订单=%d\n",
		tenant.ID, buyer.ID, referrer.ID, grandReferrer.ID, order.ID)
}
