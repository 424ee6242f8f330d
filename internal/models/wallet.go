package models

import (
	"time"

	"gorm.io/gorm"
)

// WalletAccount 会员钱包账户表
// frozen 恒不为负；balance 仅在已结算佣金被追回时允许为负（会员欠款）。
type WalletAccount struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                        // 主键
	MemberID    uint           `gorm:"not null;index:idx_wallet_member_tenant,unique" json:"member_id"` // 会员ID
	TenantID    uint           `gorm:"not null;index:idx_wallet_member_tenant,unique" json:"tenant_id"` // 租户ID
	Balance     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"balance"`        // 可用余额
	Frozen      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"frozen"`         // 冻结金额（待结算）
	TotalIncome Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_income"`   // 累计入账
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                     // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                                     // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                              // 软删除时间
}

// TableName 指定表名
func (WalletAccount) TableName() string {
	return "wallet_accounts"
}

// WalletTransaction 钱包流水表（追加写入，引擎每次变更钱包都会落一条）
type WalletTransaction struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                      // 主键
	MemberID     uint           `gorm:"not null;index" json:"member_id"`                           // 会员ID
	TenantID     uint           `gorm:"not null;index" json:"tenant_id"`                           // 租户ID
	OrderID      *uint          `gorm:"index" json:"order_id,omitempty"`                           // 关联订单ID
	Type         string         `gorm:"type:varchar(32);not null;index" json:"type"`               // 交易类型
	Direction    string         `gorm:"type:varchar(10);not null" json:"direction"`                // 方向（in/out）
	Amount       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"amount"`       // 交易金额
	BalanceAfter Money          `gorm:"type:decimal(20,2);not null;default:0" json:"balance_after"` // 变更后可用余额
	FrozenAfter  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"frozen_after"` // 变更后冻结金额
	Reference    string         `gorm:"type:varchar(128);uniqueIndex" json:"reference"`            // 幂等参考号
	Remark       string         `gorm:"type:varchar(255)" json:"remark"`                           // 备注
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`                                   // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间
}

// TableName 指定表名
func (WalletTransaction) TableName() string {
	return "wallet_transactions"
}
