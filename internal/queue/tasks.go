package queue

import (
	"encoding/json"

	"github.com/fenxiao-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderPaid 订单支付事件任务
	TaskOrderPaid = constants.TaskOrderPaid
	// TaskOrderConfirmed 订单确认事件任务
	TaskOrderConfirmed = constants.TaskOrderConfirmed
	// TaskOrderRefunded 订单退款事件任务
	TaskOrderRefunded = constants.TaskOrderRefunded
)

// OrderPaidPayload 订单支付任务载荷
type OrderPaidPayload struct {
	OrderID uint `json:"order_id"`
}

// OrderConfirmedPayload 订单确认任务载荷
type OrderConfirmedPayload struct {
	OrderID uint   `json:"order_id"`
	Trigger string `json:"trigger"`
}

// OrderRefundedPayload 订单退款任务载荷
type OrderRefundedPayload struct {
	OrderID uint `json:"order_id"`
}

// NewOrderPaidTask 创建订单支付任务
func NewOrderPaidTask(payload OrderPaidPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderPaid, body), nil
}

// NewOrderConfirmedTask 创建订单确认任务
func NewOrderConfirmedTask(payload OrderConfirmedPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderConfirmed, body), nil
}

// NewOrderRefundedTask 创建订单退款任务
func NewOrderRefundedTask(payload OrderRefundedPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderRefunded, body), nil
}
