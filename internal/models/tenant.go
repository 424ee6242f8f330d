package models

import (
	"time"

	"gorm.io/gorm"
)

// Tenant 租户表
type Tenant struct {
	ID        uint           `gorm:"primarykey" json:"id"`                          // 主键
	Name      string         `gorm:"type:varchar(100);not null" json:"name"`        // 租户名称
	Code      string         `gorm:"type:varchar(32);uniqueIndex" json:"code"`      // 租户编码
	Status    string         `gorm:"type:varchar(20);not null;index" json:"status"` // 状态
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                       // 创建时间
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`                       // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                // 软删除时间
}

// TableName 指定表名
func (Tenant) TableName() string {
	return "tenants"
}
