package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fenxiao-next/internal/cache"
	"github.com/fenxiao-next/internal/logger"
	"github.com/fenxiao-next/internal/provider"
	"github.com/fenxiao-next/internal/queue"
	"github.com/fenxiao-next/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderPaid, c.handleOrderPaid)
	mux.HandleFunc(queue.TaskOrderConfirmed, c.handleOrderConfirmed)
	mux.HandleFunc(queue.TaskOrderRefunded, c.handleOrderRefunded)
}

// handleOrderPaid 消费订单支付事件，计算分佣
// 配置与数据缺陷类错误不重试；其余错误交给 asynq 按退避重试。
// Redis 标记只做重复投递短路，正确性由佣金表唯一索引兜底。
func (c *Consumer) handleOrderPaid(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_paid_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderPaidPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_paid_unmarshal_failed", "error", err)
		return fmt.Errorf("unmarshal order paid payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_paid_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}

	processed, err := cache.IsEventProcessed(ctx, queue.TaskOrderPaid, payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_paid_check_mark_failed", "order_id", payload.OrderID, "error", err)
	}
	if processed {
		logger.Debugw("worker_order_paid_skip_processed", "order_id", payload.OrderID)
		return nil
	}

	if _, err := c.OrderService.HandleOrderPaid(payload.OrderID); err != nil {
		if service.IsValidationError(err) {
			logger.Errorw("worker_order_paid_validation_failed", "order_id", payload.OrderID, "error", err)
			return fmt.Errorf("order paid validation: %v: %w", err, asynq.SkipRetry)
		}
		logger.Warnw("worker_order_paid_failed", "order_id", payload.OrderID, "error", err)
		return err
	}

	if err := cache.MarkEventProcessed(ctx, queue.TaskOrderPaid, payload.OrderID); err != nil {
		logger.Warnw("worker_order_paid_mark_failed", "order_id", payload.OrderID, "error", err)
	}
	return nil
}

// handleOrderConfirmed 消费订单确认事件，推进佣金结算
func (c *Consumer) handleOrderConfirmed(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_confirmed_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderConfirmedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_confirmed_unmarshal_failed", "error", err)
		return fmt.Errorf("unmarshal order confirmed payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_confirmed_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}

	processed, err := cache.IsEventProcessed(ctx, queue.TaskOrderConfirmed, payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_confirmed_check_mark_failed", "order_id", payload.OrderID, "error", err)
	}
	if processed {
		logger.Debugw("worker_order_confirmed_skip_processed", "order_id", payload.OrderID)
		return nil
	}

	if _, err := c.OrderService.HandleOrderConfirmed(payload.OrderID, payload.Trigger); err != nil {
		logger.Warnw("worker_order_confirmed_failed", "order_id", payload.OrderID, "error", err)
		return err
	}

	if err := cache.MarkEventProcessed(ctx, queue.TaskOrderConfirmed, payload.OrderID); err != nil {
		logger.Warnw("worker_order_confirmed_mark_failed", "order_id", payload.OrderID, "error", err)
	}
	return nil
}

// handleOrderRefunded 消费订单退款事件，取消名下佣金
func (c *Consumer) handleOrderRefunded(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_refunded_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderRefundedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_refunded_unmarshal_failed", "error", err)
		return fmt.Errorf("unmarshal order refunded payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_refunded_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}

	processed, err := cache.IsEventProcessed(ctx, queue.TaskOrderRefunded, payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_refunded_check_mark_failed", "order_id", payload.OrderID, "error", err)
	}
	if processed {
		logger.Debugw("worker_order_refunded_skip_processed", "order_id", payload.OrderID)
		return nil
	}

	if _, err := c.OrderService.HandleOrderRefunded(payload.OrderID); err != nil {
		logger.Warnw("worker_order_refunded_failed", "order_id", payload.OrderID, "error", err)
		return err
	}

	if err := cache.MarkEventProcessed(ctx, queue.TaskOrderRefunded, payload.OrderID); err != nil {
		logger.Warnw("worker_order_refunded_mark_failed", "order_id", payload.OrderID, "error", err)
	}
	return nil
}
