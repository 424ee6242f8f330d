package service

import (
	"github.com/fenxiao-next/internal/constants"
	"github.com/fenxiao-next/internal/models"
	"github.com/fenxiao-next/internal/repository"

	"github.com/shopspring/decimal"
)

// DistributionSettingService 租户分销配置服务
// 引擎侧只读；配置缺失视为租户未开启分销，计算静默跳过。
type DistributionSettingService struct {
	configRepo repository.DistributionConfigRepository
}

// NewDistributionSettingService 创建分销配置服务
func NewDistributionSettingService(configRepo repository.DistributionConfigRepository) *DistributionSettingService {
	return &DistributionSettingService{configRepo: configRepo}
}

// GetByTenant 获取租户分销配置（未配置返回 nil，不视为错误）
func (s *DistributionSettingService) GetByTenant(tenantID uint) (*models.DistributionConfig, error) {
	return s.configRepo.GetByTenantID(tenantID)
}

// Save 保存租户分销配置（管理端入口，保存前校验）
func (s *DistributionSettingService) Save(config *models.DistributionConfig) error {
	if config == nil || config.TenantID == 0 {
		return ErrDistributionConfigInvalid
	}
	if config.CommissionBaseType == "" {
		config.CommissionBaseType = constants.CommissionBaseTypeOriginalPrice
	}
	if err := ValidateDistributionConfig(config); err != nil {
		return err
	}

	existing, err := s.configRepo.GetByTenantID(config.TenantID)
	if err != nil {
		return err
	}
	if existing != nil {
		config.ID = existing.ID
		config.CreatedAt = existing.CreatedAt
	}
	return s.configRepo.Save(config)
}

// ValidateDistributionConfig 校验分销配置
// 比例必须落在 [0,1]；基数类型必须是已知枚举。
func ValidateDistributionConfig(config *models.DistributionConfig) error {
	if config == nil {
		return ErrDistributionConfigInvalid
	}
	one := decimal.NewFromInt(1)
	rates := []decimal.Decimal{
		config.Level1Rate.Decimal,
		config.Level2Rate.Decimal,
		config.MaxCommissionRate.Decimal,
	}
	for _, rate := range rates {
		if rate.IsNegative() || rate.GreaterThan(one) {
			return ErrCommissionRateInvalid
		}
	}
	switch config.CommissionBaseType {
	case constants.CommissionBaseTypeOriginalPrice, constants.CommissionBaseTypeActualPaid:
	default:
		return ErrDistributionConfigInvalid
	}
	return nil
}
