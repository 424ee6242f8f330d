package models

import (
	"time"

	"gorm.io/gorm"
)

// Commission 佣金记录表
// (order_id, beneficiary_id, level) 唯一索引是重复触发下的幂等键。
type Commission struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                                                           // 主键
	TenantID           uint           `gorm:"not null;index" json:"tenant_id"`                                                // 订单租户ID
	OrderID            uint           `gorm:"not null;index;index:idx_commission_unique,unique" json:"order_id"`              // 订单ID
	BeneficiaryID      uint           `gorm:"not null;index;index:idx_commission_unique,unique" json:"beneficiary_id"`        // 受益人会员ID
	Level              int            `gorm:"not null;index:idx_commission_unique,unique" json:"level"`                       // 分佣层级（1/2）
	Amount             Money          `gorm:"type:decimal(20,2);not null;default:0" json:"amount"`                            // 佣金金额
	CommissionBase     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"commission_base"`                   // 调整后的佣金基数
	CommissionBaseType string         `gorm:"type:varchar(32);not null" json:"commission_base_type"`                          // 基数类型快照
	OrderOriginalPrice Money          `gorm:"type:decimal(20,2);not null;default:0" json:"order_original_price"`              // 订单原价快照
	OrderActualPaid    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"order_actual_paid"`                 // 订单实付快照
	CouponDiscount     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"coupon_discount"`                   // 优惠抵扣快照
	IsCapped           bool           `gorm:"not null;default:false" json:"is_capped"`                                        // 是否被熔断缩减
	Status             string         `gorm:"type:varchar(20);not null;index" json:"status"`                                  // 佣金状态
	SettleTrigger      string         `gorm:"type:varchar(32)" json:"settle_trigger,omitempty"`                               // 结算触发来源
	SettledAt          *time.Time     `gorm:"index" json:"settled_at,omitempty"`                                              // 结算时间
	CancelledAt        *time.Time     `gorm:"index" json:"cancelled_at,omitempty"`                                            // 取消时间
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`                                                        // 创建时间
	UpdatedAt          time.Time      `gorm:"index" json:"updated_at"`                                                        // 更新时间
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                                                                 // 软删除时间

	Beneficiary Member `gorm:"foreignKey:BeneficiaryID" json:"beneficiary,omitempty"` // 受益人
	Order       Order  `gorm:"foreignKey:OrderID" json:"order,omitempty"`             // 关联订单
}

// TableName 指定表名
func (Commission) TableName() string {
	return "commissions"
}
