package admin

import (
	"errors"
	"strings"

	"github.com/fenxiao-next/internal/http/response"
	"github.com/fenxiao-next/internal/models"
	"github.com/fenxiao-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// DistributionConfigRequest 分销配置保存请求
type DistributionConfigRequest struct {
	Level1Rate         string `json:"level1_rate" binding:"required"`
	Level2Rate         string `json:"level2_rate" binding:"required"`
	EnableLevelZero    bool   `json:"enable_level_zero"`
	EnableCrossTenant  bool   `json:"enable_cross_tenant"`
	CommissionBaseType string `json:"commission_base_type"`
	MaxCommissionRate  string `json:"max_commission_rate"`
}

// GetDistributionConfig 查询当前租户分销配置
func (h *Handler) GetDistributionConfig(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}
	config, err := h.DistributionSettingService.GetByTenant(tenantID)
	if err != nil {
		response.Internal(c, "查询分销配置失败")
		return
	}
	if config == nil {
		response.NotFound(c, "租户未配置分销")
		return
	}
	response.Success(c, config)
}

// SaveDistributionConfig 保存当前租户分销配置
func (h *Handler) SaveDistributionConfig(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}
	var req DistributionConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误")
		return
	}

	level1, err := decimal.NewFromString(strings.TrimSpace(req.Level1Rate))
	if err != nil {
		response.BadRequest(c, "一级比例格式错误")
		return
	}
	level2, err := decimal.NewFromString(strings.TrimSpace(req.Level2Rate))
	if err != nil {
		response.BadRequest(c, "二级比例格式错误")
		return
	}
	maxRate := decimal.Zero
	if strings.TrimSpace(req.MaxCommissionRate) != "" {
		maxRate, err = decimal.NewFromString(strings.TrimSpace(req.MaxCommissionRate))
		if err != nil {
			response.BadRequest(c, "熔断上限格式错误")
			return
		}
	}

	config := &models.DistributionConfig{
		TenantID:           tenantID,
		Level1Rate:         models.NewRateFromDecimal(level1),
		Level2Rate:         models.NewRateFromDecimal(level2),
		EnableLevelZero:    req.EnableLevelZero,
		EnableCrossTenant:  req.EnableCrossTenant,
		CommissionBaseType: strings.TrimSpace(req.CommissionBaseType),
		MaxCommissionRate:  models.NewRateFromDecimal(maxRate),
	}
	if err := h.DistributionSettingService.Save(config); err != nil {
		if errors.Is(err, service.ErrCommissionRateInvalid) || errors.Is(err, service.ErrDistributionConfigInvalid) {
			response.BadRequest(c, "分销配置不合法")
			return
		}
		response.Internal(c, "保存分销配置失败")
		return
	}
	response.Success(c, config)
}
