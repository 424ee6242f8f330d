package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderItem 订单项表
type OrderItem struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                     // 主键
	OrderID        uint           `gorm:"index;not null" json:"order_id"`                           // 订单ID
	SKUID          uint           `gorm:"index;not null" json:"sku_id"`                             // SKU ID
	UnitPrice      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`  // 单价
	Quantity       int            `gorm:"not null" json:"quantity"`                                 // 数量
	DistMode       string         `gorm:"type:varchar(20);not null" json:"dist_mode"`               // 分佣模式（ratio/fixed/none）
	DistRate       Rate           `gorm:"type:decimal(10,4);not null;default:0" json:"dist_rate"`   // ratio 为比例，fixed 为单件固定金额
	IsExchangeItem bool           `gorm:"not null;default:false" json:"is_exchange_item"`           // 是否换购/兑换商品（不参与分佣）
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt      time.Time      `gorm:"index" json:"updated_at"`                                  // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                           // 软删除时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
