package constants

// 订单状态常量
const (
	OrderStatusPendingPayment = "pending_payment"
	OrderStatusPaid           = "paid"
	OrderStatusConfirmed      = "confirmed"
	OrderStatusRefunded       = "refunded"
	OrderStatusCanceled       = "canceled"
)

// 订单项分佣模式常量
const (
	DistModeRatio = "ratio"
	DistModeFixed = "fixed"
	DistModeNone  = "none"
)

// 佣金基数类型常量
const (
	CommissionBaseTypeOriginalPrice = "original_price"
	CommissionBaseTypeActualPaid    = "actual_paid"
)

// 佣金状态常量
const (
	CommissionStatusFrozen    = "frozen"
	CommissionStatusSettled   = "settled"
	CommissionStatusCancelled = "cancelled"
)

// 佣金层级常量
const (
	CommissionLevelOne = 1
	CommissionLevelTwo = 2
)

// 结算触发来源常量
const (
	SettleTriggerConfirmReceipt = "confirm_receipt"
	SettleTriggerForceVerify    = "force_verify"
)

// 钱包交易类型常量
const (
	WalletTxnTypeCommissionFrozen   = "commission_frozen"
	WalletTxnTypeCommissionSettled  = "commission_settled"
	WalletTxnTypeCommissionUnfreeze = "commission_unfreeze"
	WalletTxnTypeCommissionClawback = "commission_clawback"
)

// 钱包交易方向常量
const (
	WalletTxnDirectionIn  = "in"
	WalletTxnDirectionOut = "out"
)

// 会员状态常量
const (
	MemberStatusActive   = "active"
	MemberStatusDisabled = "disabled"
)

// 租户状态常量
const (
	TenantStatusActive   = "active"
	TenantStatusDisabled = "disabled"
)

// 异步任务名称常量
const (
	TaskOrderPaid      = "order:paid"
	TaskOrderConfirmed = "order:confirmed"
	TaskOrderRefunded  = "order:refunded"
)

// 队列名称常量
const (
	QueueDefault = "default"
)
