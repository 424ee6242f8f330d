package router

import (
	"github.com/fenxiao-next/internal/config"
	adminhandlers "github.com/fenxiao-next/internal/http/handlers/admin"
	publichandlers "github.com/fenxiao-next/internal/http/handlers/public"
	"github.com/fenxiao-next/internal/logger"
	"github.com/fenxiao-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		// 会员侧接口（身份由上游网关保证）
		public := apiV1.Group("/public")
		{
			public.GET("/members/:member_id/commissions", publicHandler.GetMemberCommissions)
			public.GET("/members/:member_id/commissions/summary", publicHandler.GetMemberCommissionSummary)
			public.GET("/members/:member_id/wallet", publicHandler.GetMemberWallet)
			public.GET("/members/:member_id/wallet/transactions", publicHandler.GetMemberWalletTransactions)
		}

		// 管理端接口
		admin := apiV1.Group("/admin")
		admin.Use(AdminJWTAuthMiddleware(cfg.AdminJWT.SecretKey))
		{
			admin.GET("/distribution-config", adminHandler.GetDistributionConfig)
			admin.PUT("/distribution-config", adminHandler.SaveDistributionConfig)

			admin.GET("/commissions", adminHandler.ListCommissions)

			admin.GET("/orders", adminHandler.ListOrders)
			admin.GET("/orders/:id", adminHandler.GetOrder)
			admin.GET("/orders/:id/commissions", adminHandler.GetOrderCommissions)
			admin.POST("/orders/:id/mark-paid", adminHandler.MarkOrderPaid)
			admin.POST("/orders/:id/confirm-receipt", adminHandler.ConfirmOrderReceipt)
			admin.POST("/orders/:id/force-verify", adminHandler.ForceVerifyOrder)
			admin.POST("/orders/:id/refund", adminHandler.RefundOrder)
		}
	}

	return r
}
