package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ardelis/equipsense-backend/internal/platform/logger"
	"github.com/ardelis/equipsense-backend/internal/repos"
	"github.com/ardelis/equipsense-backend/internal/types"
)

type EquipmentService interface {
	Create(ctx context.Context, input CreateEquipmentInput) (*types.Equipment, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Equipment, error)
	List(ctx context.Context, limit, offset int) ([]*types.Equipment, error)
	SetType(ctx context.Context, id uuid.UUID, typeNodeID uuid.UUID) (*types.Equipment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CreateEquipmentInput struct {
	Name        string     `json:"name"`
	Brand       string     `json:"brand"`
	Model       string     `json:"model"`
	Description string     `json:"description"`
	TypeNodeID  *uuid.UUID `json:"type_node_id,omitempty"`
}

type equipmentService struct {
	db      *gorm.DB
	log     *logger.Logger
	repo    repos.EquipmentRepo
	typeSvc EquipmentTypeService
}

func NewEquipmentService(db *gorm.DB, baseLog *logger.Logger, repo repos.EquipmentRepo, typeSvc EquipmentTypeService) EquipmentService {
	return &equipmentService{
		db:      db,
		log:     baseLog.With("service", "EquipmentService"),
		repo:    repo,
		typeSvc: typeSvc,
	}
}

func (s *equipmentService) Create(ctx context.Context, input CreateEquipmentInput) (*types.Equipment, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("equipment name required")
	}
	item := &types.Equipment{
		ID:          uuid.New(),
		Name:        input.Name,
		Brand:       input.Brand,
		Model:       input.Model,
		Description: input.Description,
	}
	if input.TypeNodeID != nil {
		if err := s.applyType(item, *input.TypeNodeID); err != nil {
			return nil, err
		}
	}
	created, err := s.repo.Create(ctx, nil, []*types.Equipment{item})
	if err != nil {
		return nil, err
	}
	return created[0], nil
}

func (s *equipmentService) Get(ctx context.Context, id uuid.UUID) (*types.Equipment, error) {
	return s.repo.GetByID(ctx, nil, id)
}

func (s *equipmentService) List(ctx context.Context, limit, offset int) ([]*types.Equipment, error) {
	return s.repo.List(ctx, nil, limit, offset)
}

// SetType points the equipment at a taxonomy node and refreshes the
// denormalized hierarchy columns used for list display.
func (s *equipmentService) SetType(ctx context.Context, id uuid.UUID, typeNodeID uuid.UUID) (*types.Equipment, error) {
	item, err := s.repo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyType(item, typeNodeID); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, nil, item)
}

func (s *equipmentService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, nil, id)
}

func (s *equipmentService) applyType(item *types.Equipment, typeNodeID uuid.UUID) error {
	path, err := s.typeSvc.GetHierarchyPath(typeNodeID)
	if err != nil {
		return err
	}
	item.TypeNodeID = &typeNodeID
	item.Domain = path.Domain
	item.Type = path.Type
	item.Category = path.Category
	item.Subcategory = path.Subcategory
	return nil
}
