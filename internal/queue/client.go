package queue

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fenxiao-next/internal/config"
	"github.com/fenxiao-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// DefaultQueue 默认队列名称
	DefaultQueue = constants.QueueDefault
)

// ErrQueueDisabled 队列未启用，调用方应降级为同步处理
var ErrQueueDisabled = errors.New("queue disabled")

// Client 队列客户端封装
type Client struct {
	client       *asynq.Client
	enabled      bool
	defaultQueue string
}

// NewClient 创建队列客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{enabled: false, defaultQueue: DefaultQueue}, nil
	}
	opt := buildRedisOpt(cfg)
	client := asynq.NewClient(opt)
	return &Client{
		client:       client,
		enabled:      true,
		defaultQueue: DefaultQueue,
	}, nil
}

// Enabled 判断是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.enabled && c.client != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

func (c *Client) enqueue(task *asynq.Task, opts ...asynq.Option) error {
	options := append([]asynq.Option{asynq.Queue(c.defaultQueue)}, opts...)
	_, err := c.client.Enqueue(task, options...)
	return err
}

// EnqueueOrderPaid 推送订单支付事件
func (c *Client) EnqueueOrderPaid(orderID uint) error {
	if !c.Enabled() {
		return ErrQueueDisabled
	}
	task, err := NewOrderPaidTask(OrderPaidPayload{OrderID: orderID})
	if err != nil {
		return err
	}
	return c.enqueue(task)
}

// EnqueueOrderConfirmed 推送订单确认事件
func (c *Client) EnqueueOrderConfirmed(orderID uint, trigger string) error {
	if !c.Enabled() {
		return ErrQueueDisabled
	}
	task, err := NewOrderConfirmedTask(OrderConfirmedPayload{OrderID: orderID, Trigger: trigger})
	if err != nil {
		return err
	}
	return c.enqueue(task)
}

// EnqueueOrderRefunded 推送订单退款事件
func (c *Client) EnqueueOrderRefunded(orderID uint) error {
	if !c.Enabled() {
		return ErrQueueDisabled
	}
	task, err := NewOrderRefundedTask(OrderRefundedPayload{OrderID: orderID})
	if err != nil {
		return err
	}
	return c.enqueue(task)
}

// BuildServerConfig 生成队列服务配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	opt := buildRedisOpt(cfg)
	concurrency := 10
	if cfg != nil && cfg.Concurrency > 0 {
		concurrency = cfg.Concurrency
	}
	queues := map[string]int{DefaultQueue: 1}
	if cfg != nil && len(cfg.Queues) > 0 {
		queues = cfg.Queues
	}
	return opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      queues,
	}
}

func buildRedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	host := "127.0.0.1"
	port := 6379
	password := ""
	db := 0
	if cfg != nil {
		if strings.TrimSpace(cfg.Host) != "" {
			host = strings.TrimSpace(cfg.Host)
		}
		if cfg.Port > 0 {
			port = cfg.Port
		}
		password = cfg.Password
		db = cfg.DB
	}
	return asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	}
}
