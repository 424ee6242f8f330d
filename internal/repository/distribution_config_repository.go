package repository

import (
	"errors"

	"github.com/fenxiao-next/internal/models"

	"gorm.io/gorm"
)

// DistributionConfigRepository 分销配置数据访问接口
type DistributionConfigRepository interface {
	GetByTenantID(tenantID uint) (*models.DistributionConfig, error)
	Save(config *models.DistributionConfig) error
	WithTx(tx *gorm.DB) *GormDistributionConfigRepository
}

// GormDistributionConfigRepository GORM 分销配置仓储实现
type GormDistributionConfigRepository struct {
	db *gorm.DB
}

// NewDistributionConfigRepository 创建分销配置仓储
func NewDistributionConfigRepository(db *gorm.DB) *GormDistributionConfigRepository {
	return &GormDistributionConfigRepository{db: db}
}

// WithTx 绑定事务
func (r *GormDistributionConfigRepository) WithTx(tx *gorm.DB) *GormDistributionConfigRepository {
	if tx == nil {
		return r
	}
	return &GormDistributionConfigRepository{db: tx}
}

// GetByTenantID 按租户ID获取分销配置（不存在返回 nil）
func (r *GormDistributionConfigRepository) GetByTenantID(tenantID uint) (*models.DistributionConfig, error) {
	if tenantID == 0 {
		return nil, nil
	}
	var config models.DistributionConfig
	if err := r.db.Where("tenant_id = ?", tenantID).First(&config).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &config, nil
}

// Save 保存分销配置（新建或覆盖）
func (r *GormDistributionConfigRepository) Save(config *models.DistributionConfig) error {
	if config == nil {
		return nil
	}
	return r.db.Save(config).Error
}
