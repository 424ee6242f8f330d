package models

import (
	"time"

	"gorm.io/gorm"
)

// Member 会员表（推荐关系为永久绑定，注册后不再变更）
type Member struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                          // 主键
	TenantID           uint           `gorm:"not null;index" json:"tenant_id"`               // 归属租户ID
	Nickname           string         `gorm:"type:varchar(100)" json:"nickname"`             // 昵称
	Status             string         `gorm:"type:varchar(20);not null;index" json:"status"` // 账号状态（禁用不影响分佣资格）
	ReferrerID         *uint          `gorm:"index" json:"referrer_id,omitempty"`            // 直接推荐人ID
	HasDistributorRank bool           `gorm:"not null;default:false" json:"has_distributor_rank"` // 是否持有分销等级
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`                       // 创建时间
	UpdatedAt          time.Time      `gorm:"index" json:"updated_at"`                       // 更新时间
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                                // 软删除时间

	Referrer *Member `gorm:"foreignKey:ReferrerID" json:"referrer,omitempty"` // 直接推荐人
}

// TableName 指定表名
func (Member) TableName() string {
	return "members"
}
