package repository

import (
	"errors"

	"github.com/fenxiao-next/internal/models"

	"gorm.io/gorm"
)

// MemberRepository 会员数据访问接口
type MemberRepository interface {
	GetByID(id uint) (*models.Member, error)
	GetByIDs(ids []uint) ([]models.Member, error)
	Create(member *models.Member) error
	WithTx(tx *gorm.DB) *GormMemberRepository
}

// GormMemberRepository GORM 会员仓储实现
type GormMemberRepository struct {
	db *gorm.DB
}

// NewMemberRepository 创建会员仓储
func NewMemberRepository(db *gorm.DB) *GormMemberRepository {
	return &GormMemberRepository{db: db}
}

// WithTx 绑定事务
func (r *GormMemberRepository) WithTx(tx *gorm.DB) *GormMemberRepository {
	if tx == nil {
		return r
	}
	return &GormMemberRepository{db: tx}
}

// GetByID 按ID获取会员
func (r *GormMemberRepository) GetByID(id uint) (*models.Member, error) {
	if id == 0 {
		return nil, nil
	}
	var member models.Member
	if err := r.db.First(&member, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

// GetByIDs 批量获取会员
func (r *GormMemberRepository) GetByIDs(ids []uint) ([]models.Member, error) {
	if len(ids) == 0 {
		return []models.Member{}, nil
	}
	var members []models.Member
	if err := r.db.Where("id IN ?", ids).Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// Create 创建会员
func (r *GormMemberRepository) Create(member *models.Member) error {
	return r.db.Create(member).Error
}
