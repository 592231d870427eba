package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ardelis/equipsense-backend/internal/platform/logger"
	"github.com/ardelis/equipsense-backend/internal/types"
)

type EquipmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, items []*types.Equipment) ([]*types.Equipment, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Equipment, error)
	List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*types.Equipment, error)
	Update(ctx context.Context, tx *gorm.DB, item *types.Equipment) (*types.Equipment, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type equipmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEquipmentRepo(db *gorm.DB, baseLog *logger.Logger) EquipmentRepo {
	return &equipmentRepo{db: db, log: baseLog.With("repo", "EquipmentRepo")}
}

func (r *equipmentRepo) Create(ctx context.Context, tx *gorm.DB, items []*types.Equipment) ([]*types.Equipment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(items) == 0 {
		return []*types.Equipment{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *equipmentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Equipment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.Equipment
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *equipmentRepo) List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*types.Equipment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		limit = 50
	}
	var results []*types.Equipment
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *equipmentRepo) Update(ctx context.Context, tx *gorm.DB, item *types.Equipment) (*types.Equipment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *equipmentRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Equipment{}).Error
}
