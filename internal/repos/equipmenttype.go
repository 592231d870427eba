package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ardelis/equipsense-backend/internal/platform/logger"
	"github.com/ardelis/equipsense-backend/internal/types"
)

type EquipmentTypeRepo interface {
	Create(ctx context.Context, tx *gorm.DB, nodes []*types.EquipmentType) ([]*types.EquipmentType, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.EquipmentType, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.EquipmentType, error)
	GetByLevel(ctx context.Context, tx *gorm.DB, level int) ([]*types.EquipmentType, error)
	GetByParent(ctx context.Context, tx *gorm.DB, parentID uuid.UUID) ([]*types.EquipmentType, error)
}

type equipmentTypeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEquipmentTypeRepo(db *gorm.DB, baseLog *logger.Logger) EquipmentTypeRepo {
	return &equipmentTypeRepo{db: db, log: baseLog.With("repo", "EquipmentTypeRepo")}
}

func (r *equipmentTypeRepo) Create(ctx context.Context, tx *gorm.DB, nodes []*types.EquipmentType) ([]*types.EquipmentType, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(nodes) == 0 {
		return []*types.EquipmentType{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&nodes).Error; err != nil {
		return nil, err
	}
	return nodes, nil
}

func (r *equipmentTypeRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.EquipmentType, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.EquipmentType
	if err := transaction.WithContext(ctx).
		Order("level ASC, created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *equipmentTypeRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.EquipmentType, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.EquipmentType
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *equipmentTypeRepo) GetByLevel(ctx context.Context, tx *gorm.DB, level int) ([]*types.EquipmentType, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.EquipmentType
	if err := transaction.WithContext(ctx).
		Where("level = ?", level).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *equipmentTypeRepo) GetByParent(ctx context.Context, tx *gorm.DB, parentID uuid.UUID) ([]*types.EquipmentType, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.EquipmentType
	if err := transaction.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
