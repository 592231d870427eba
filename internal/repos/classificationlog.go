package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ardelis/equipsense-backend/internal/platform/logger"
	"github.com/ardelis/equipsense-backend/internal/types"
)

type ClassificationLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entry *types.ClassificationLog) (*types.ClassificationLog, error)
	GetByEquipment(ctx context.Context, tx *gorm.DB, equipmentID uuid.UUID) ([]*types.ClassificationLog, error)
}

type classificationLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClassificationLogRepo(db *gorm.DB, baseLog *logger.Logger) ClassificationLogRepo {
	return &classificationLogRepo{db: db, log: baseLog.With("repo", "ClassificationLogRepo")}
}

func (r *classificationLogRepo) Create(ctx context.Context, tx *gorm.DB, entry *types.ClassificationLog) (*types.ClassificationLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *classificationLogRepo) GetByEquipment(ctx context.Context, tx *gorm.DB, equipmentID uuid.UUID) ([]*types.ClassificationLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.ClassificationLog
	if err := transaction.WithContext(ctx).
		Where("equipment_id = ?", equipmentID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
