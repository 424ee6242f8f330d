package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表（订单域由外部系统负责定价与支付，引擎消费其结果）
type Order struct {
	ID               uint           `gorm:"primarykey" json:"id"`                                          // 主键
	OrderNo          string         `gorm:"uniqueIndex;not null" json:"order_no"`                          // 订单编号
	TenantID         uint           `gorm:"not null;index" json:"tenant_id"`                               // 下单租户ID
	BuyerID          uint           `gorm:"not null;index" json:"buyer_id"`                                // 买家会员ID
	BuyerTenantID    uint           `gorm:"not null" json:"buyer_tenant_id"`                               // 买家归属租户ID
	Status           string         `gorm:"index;not null" json:"status"`                                  // 订单状态
	OriginalAmount   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"original_amount"`  // 原始金额
	ActualPaidAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"actual_paid_amount"` // 实付金额
	CouponDiscount   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"coupon_discount"`  // 优惠券抵扣
	PointsDiscount   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"points_discount"`  // 积分抵扣
	PaidAt           *time.Time     `gorm:"index" json:"paid_at"`                                          // 支付时间
	ConfirmedAt      *time.Time     `gorm:"index" json:"confirmed_at"`                                     // 确认收货/核销时间
	RefundedAt       *time.Time     `gorm:"index" json:"refunded_at"`                                      // 退款时间
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt        time.Time      `gorm:"index" json:"updated_at"`                                       // 更新时间
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`                                                // 软删除时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
