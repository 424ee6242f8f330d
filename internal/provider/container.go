package provider

import (
	"github.com/fenxiao-next/internal/cache"
	"github.com/fenxiao-next/internal/config"
	"github.com/fenxiao-next/internal/logger"
	"github.com/fenxiao-next/internal/models"
	"github.com/fenxiao-next/internal/queue"
	"github.com/fenxiao-next/internal/repository"
	"github.com/fenxiao-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	CommissionRepo         repository.CommissionRepository
	WalletRepo             repository.WalletRepository
	OrderRepo              repository.OrderRepository
	MemberRepo             repository.MemberRepository
	DistributionConfigRepo repository.DistributionConfigRepository

	// Services
	DistributionSettingService *service.DistributionSettingService
	WalletService              *service.WalletService
	CommissionService          *service.CommissionService
	OrderService               *service.OrderService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.CommissionRepo = repository.NewCommissionRepository(db)
	c.WalletRepo = repository.NewWalletRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.MemberRepo = repository.NewMemberRepository(db)
	c.DistributionConfigRepo = repository.NewDistributionConfigRepository(db)
}

func (c *Container) initServices() {
	c.DistributionSettingService = service.NewDistributionSettingService(c.DistributionConfigRepo)
	c.WalletService = service.NewWalletService(c.WalletRepo)
	c.CommissionService = service.NewCommissionService(
		c.CommissionRepo,
		c.OrderRepo,
		c.MemberRepo,
		c.DistributionSettingService,
		c.WalletService,
	)

	var enqueuer service.OrderTaskEnqueuer
	if c.QueueClient.Enabled() {
		enqueuer = c.QueueClient
	}
	c.OrderService = service.NewOrderService(c.OrderRepo, c.CommissionService, enqueuer)
}

// Close 释放容器持有的外部资源
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Warnw("provider_close_queue_client_failed", "error", err)
		}
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
