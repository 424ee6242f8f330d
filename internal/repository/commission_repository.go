package repository

import (
	"errors"
	"time"

	"github.com/fenxiao-next/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommissionListFilter 佣金列表过滤条件
type CommissionListFilter struct {
	Page          int
	PageSize      int
	TenantID      uint
	OrderID       uint
	BeneficiaryID uint
	Status        string
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
}

// CommissionRepository 佣金数据访问接口
type CommissionRepository interface {
	Create(commission *models.Commission) error
	Update(commission *models.Commission) error
	ListByOrder(orderID uint) ([]models.Commission, error)
	ListByOrderForUpdate(orderID uint, statuses []string) ([]models.Commission, error)
	List(filter CommissionListFilter) ([]models.Commission, int64, error)
	SumAmountByBeneficiary(beneficiaryID uint, statuses []string) (decimal.Decimal, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) *GormCommissionRepository
}

// GormCommissionRepository GORM 佣金仓储实现
type GormCommissionRepository struct {
	db *gorm.DB
}

// NewCommissionRepository 创建佣金仓储
func NewCommissionRepository(db *gorm.DB) *GormCommissionRepository {
	return &GormCommissionRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCommissionRepository) WithTx(tx *gorm.DB) *GormCommissionRepository {
	if tx == nil {
		return r
	}
	return &GormCommissionRepository{db: tx}
}

// Transaction 开启事务
func (r *GormCommissionRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// Create 创建佣金记录
func (r *GormCommissionRepository) Create(commission *models.Commission) error {
	return r.db.Create(commission).Error
}

// Update 更新佣金记录
func (r *GormCommissionRepository) Update(commission *models.Commission) error {
	return r.db.Save(commission).Error
}

// ListByOrder 按订单查询佣金记录
func (r *GormCommissionRepository) ListByOrder(orderID uint) ([]models.Commission, error) {
	if orderID == 0 {
		return []models.Commission{}, nil
	}
	var rows []models.Commission
	if err := r.db.Where("order_id = ?", orderID).Order("level asc, id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByOrderForUpdate 按订单查询佣金记录并加锁
func (r *GormCommissionRepository) ListByOrderForUpdate(orderID uint, statuses []string) ([]models.Commission, error) {
	if orderID == 0 {
		return []models.Commission{}, nil
	}
	query := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("order_id = ?", orderID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	var rows []models.Commission
	if err := query.Order("level asc, id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// List 分页查询佣金记录
func (r *GormCommissionRepository) List(filter CommissionListFilter) ([]models.Commission, int64, error) {
	query := r.db.Model(&models.Commission{})
	if filter.TenantID != 0 {
		query = query.Where("tenant_id = ?", filter.TenantID)
	}
	if filter.OrderID != 0 {
		query = query.Where("order_id = ?", filter.OrderID)
	}
	if filter.BeneficiaryID != 0 {
		query = query.Where("beneficiary_id = ?", filter.BeneficiaryID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var rows []models.Commission
	if err := query.Order("id desc").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// SumAmountByBeneficiary 按受益人汇总佣金金额
func (r *GormCommissionRepository) SumAmountByBeneficiary(beneficiaryID uint, statuses []string) (decimal.Decimal, error) {
	if beneficiaryID == 0 {
		return decimal.Zero, nil
	}
	query := r.db.Model(&models.Commission{}).Where("beneficiary_id = ?", beneficiaryID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	var result struct {
		Total decimal.Decimal
	}
	if err := query.Select("COALESCE(SUM(amount), 0) AS total").Scan(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return result.Total.Round(2), nil
}
