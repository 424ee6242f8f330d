package service

import (
	"errors"
	"time"

	"github.com/fenxiao-next/internal/constants"
	"github.com/fenxiao-next/internal/logger"
	"github.com/fenxiao-next/internal/models"
	"github.com/fenxiao-next/internal/repository"

	"gorm.io/gorm"
)

// OrderTaskEnqueuer 订单生命周期事件投递接口，由队列客户端实现
type OrderTaskEnqueuer interface {
	EnqueueOrderPaid(orderID uint) error
	EnqueueOrderConfirmed(orderID uint, trigger string) error
	EnqueueOrderRefunded(orderID uint) error
}

// OrderService 订单生命周期服务
// 状态流转先落库，佣金副作用经队列异步执行；无队列时同步降级。
type OrderService struct {
	orderRepo     repository.OrderRepository
	commissionSvc *CommissionService
	enqueuer      OrderTaskEnqueuer
}

// NewOrderService 创建订单服务（enqueuer 可为 nil，表示同步处理佣金副作用）
func NewOrderService(orderRepo repository.OrderRepository, commissionSvc *CommissionService, enqueuer OrderTaskEnqueuer) *OrderService {
	return &OrderService{
		orderRepo:     orderRepo,
		commissionSvc: commissionSvc,
		enqueuer:      enqueuer,
	}
}

// CreateOrder 创建订单（含订单项）
func (s *OrderService) CreateOrder(order *models.Order) error {
	if order == nil || order.TenantID == 0 || order.BuyerID == 0 {
		return ErrOrderStatusInvalid
	}
	if order.Status == "" {
		order.Status = constants.OrderStatusPendingPayment
	}
	if order.BuyerTenantID == 0 {
		order.BuyerTenantID = order.TenantID
	}
	return s.orderRepo.Create(order)
}

// GetOrder 查询订单
func (s *OrderService) GetOrder(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrders 分页查询订单
func (s *OrderService) ListOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.List(filter)
}

// MarkPaid 订单支付入账
// 重复调用幂等；支付落库成功后触发分佣计算，配置缺陷类错误上抛给调用方。
func (s *OrderService) MarkPaid(orderID uint) error {
	var alreadyPaid bool
	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		repo := s.orderRepo.WithTx(tx)
		order, err := repo.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		switch order.Status {
		case constants.OrderStatusPendingPayment:
		case constants.OrderStatusPaid, constants.OrderStatusConfirmed:
			alreadyPaid = true
			return nil
		default:
			return ErrOrderStatusInvalid
		}
		now := time.Now()
		return repo.UpdateFields(orderID, map[string]interface{}{
			"status":  constants.OrderStatusPaid,
			"paid_at": now,
		})
	})
	if err != nil {
		return err
	}
	if alreadyPaid {
		logger.Infow("订单已支付，跳过重复入账", "order_id", orderID)
		return nil
	}

	if s.enqueuer != nil {
		if err := s.enqueuer.EnqueueOrderPaid(orderID); err != nil {
			logger.Warnw("订单支付事件入队失败，降级为同步处理", "order_id", orderID, "error", err)
		} else {
			return nil
		}
	}
	_, err = s.HandleOrderPaid(orderID)
	return err
}

// HandleOrderPaid 处理订单支付事件：计算分佣
// 校验类失败必须让调用方可见，不允许吞掉。
func (s *OrderService) HandleOrderPaid(orderID uint) ([]models.Commission, error) {
	return s.commissionSvc.Calculate(orderID)
}

// ConfirmReceipt 买家确认收货，推进佣金结算
func (s *OrderService) ConfirmReceipt(orderID uint) error {
	return s.confirm(orderID, constants.SettleTriggerConfirmReceipt)
}

// ForceVerify 管理端强制核销，推进佣金结算
func (s *OrderService) ForceVerify(orderID uint) error {
	return s.confirm(orderID, constants.SettleTriggerForceVerify)
}

func (s *OrderService) confirm(orderID uint, trigger string) error {
	var alreadyConfirmed bool
	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		repo := s.orderRepo.WithTx(tx)
		order, err := repo.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		switch order.Status {
		case constants.OrderStatusPaid:
		case constants.OrderStatusConfirmed:
			alreadyConfirmed = true
			return nil
		default:
			return ErrOrderStatusInvalid
		}
		now := time.Now()
		return repo.UpdateFields(orderID, map[string]interface{}{
			"status":       constants.OrderStatusConfirmed,
			"confirmed_at": now,
		})
	})
	if err != nil {
		return err
	}
	if alreadyConfirmed {
		logger.Infow("订单已确认，跳过重复推进", "order_id", orderID, "trigger", trigger)
		return nil
	}

	if s.enqueuer != nil {
		if err := s.enqueuer.EnqueueOrderConfirmed(orderID, trigger); err != nil {
			logger.Warnw("订单确认事件入队失败，降级为同步处理", "order_id", orderID, "error", err)
		} else {
			return nil
		}
	}
	if _, err := s.HandleOrderConfirmed(orderID, trigger); err != nil {
		// 结算失败不回滚订单确认，留待下一次触发补偿
		logger.Errorw("佣金结算推进失败", "order_id", orderID, "trigger", trigger, "error", err)
	}
	return nil
}

// HandleOrderConfirmed 处理订单确认事件：冻结佣金转入余额
func (s *OrderService) HandleOrderConfirmed(orderID uint, trigger string) (int, error) {
	if trigger == "" {
		trigger = constants.SettleTriggerConfirmReceipt
	}
	return s.commissionSvc.AdvanceSettlement(orderID, trigger)
}

// Refund 订单全额退款，取消名下佣金
func (s *OrderService) Refund(orderID uint) error {
	var alreadyRefunded bool
	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		repo := s.orderRepo.WithTx(tx)
		order, err := repo.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		switch order.Status {
		case constants.OrderStatusPaid, constants.OrderStatusConfirmed:
		case constants.OrderStatusRefunded:
			alreadyRefunded = true
			return nil
		default:
			return ErrOrderStatusInvalid
		}
		now := time.Now()
		return repo.UpdateFields(orderID, map[string]interface{}{
			"status":      constants.OrderStatusRefunded,
			"refunded_at": now,
		})
	})
	if err != nil {
		return err
	}
	if alreadyRefunded {
		logger.Infow("订单已退款，跳过重复处理", "order_id", orderID)
		return nil
	}

	if s.enqueuer != nil {
		if err := s.enqueuer.EnqueueOrderRefunded(orderID); err != nil {
			logger.Warnw("订单退款事件入队失败，降级为同步处理", "order_id", orderID, "error", err)
		} else {
			return nil
		}
	}
	if _, err := s.HandleOrderRefunded(orderID); err != nil {
		logger.Errorw("佣金取消失败", "order_id", orderID, "error", err)
	}
	return nil
}

// HandleOrderRefunded 处理订单退款事件：取消名下佣金
func (s *OrderService) HandleOrderRefunded(orderID uint) (int, error) {
	return s.commissionSvc.Cancel(orderID)
}

// IsValidationError 判断是否为配置或数据缺陷类错误（此类错误禁止静默吞掉）
func IsValidationError(err error) bool {
	return errors.Is(err, ErrCommissionDistModeInvalid) ||
		errors.Is(err, ErrCommissionRateInvalid) ||
		errors.Is(err, ErrDistributionConfigInvalid)
}
