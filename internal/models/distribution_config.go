package models

import (
	"time"

	"gorm.io/gorm"
)

// DistributionConfig 租户分销配置表（仅租户管理员可修改，引擎只读）
type DistributionConfig struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                                          // 主键
	TenantID           uint           `gorm:"not null;uniqueIndex" json:"tenant_id"`                         // 租户ID
	Level1Rate         Rate           `gorm:"type:decimal(10,4);not null;default:0" json:"level1_rate"`      // 一级分佣比例（0-1）
	Level2Rate         Rate           `gorm:"type:decimal(10,4);not null;default:0" json:"level2_rate"`      // 二级分佣比例（0-1）
	EnableLevelZero    bool           `gorm:"not null;default:false" json:"enable_level_zero"`               // 无分销等级的推荐人是否可得佣
	EnableCrossTenant  bool           `gorm:"not null;default:false" json:"enable_cross_tenant"`             // 是否允许跨租户订单分佣
	CommissionBaseType string         `gorm:"type:varchar(32);not null" json:"commission_base_type"`         // 佣金基数类型
	MaxCommissionRate  Rate           `gorm:"type:decimal(10,4);not null;default:0" json:"max_commission_rate"` // 佣金熔断上限（实收金额占比）
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt          time.Time      `gorm:"index" json:"updated_at"`                                       // 更新时间
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                                                // 软删除时间
}

// TableName 指定表名
func (DistributionConfig) TableName() string {
	return "distribution_configs"
}
