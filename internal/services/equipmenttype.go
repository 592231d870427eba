package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ardelis/equipsense-backend/internal/platform/apierr"
	"github.com/ardelis/equipsense-backend/internal/platform/logger"
	"github.com/ardelis/equipsense-backend/internal/repos"
	"github.com/ardelis/equipsense-backend/internal/taxonomy"
	"github.com/ardelis/equipsense-backend/internal/types"
)

// EquipmentTypeService owns the in-memory taxonomy tree and the engine
// surfaces built over it. The tree is loaded once at startup and swapped
// atomically after admin writes; readers never see a half-built tree.
type EquipmentTypeService interface {
	LoadTree(ctx context.Context) error
	Tree() *taxonomy.Tree
	GetHierarchyPath(nodeID uuid.UUID) (taxonomy.PartialPath, error)
	ResolveIDFromPath(p taxonomy.PartialPath) (*uuid.UUID, bool)
	Summary() string
	ExtractKeywords(text string) []string
	FilterRelevant(keywords []string) []*taxonomy.Node
	Validate(c *taxonomy.Candidate) taxonomy.Validated
	Options(level taxonomy.Level, parentID *uuid.UUID) ([]*taxonomy.Node, error)
	NewCascade() *taxonomy.CascadeController
	CreateNode(ctx context.Context, name string, level int, parentID *uuid.UUID) (*types.EquipmentType, error)
}

type equipmentTypeService struct {
	db   *gorm.DB
	log  *logger.Logger
	repo repos.EquipmentTypeRepo

	tree       atomic.Pointer[taxonomy.Tree]
	summarizer *taxonomy.Summarizer
	keywords   *taxonomy.KeywordFilter
	validator  *taxonomy.Validator
}

func NewEquipmentTypeService(db *gorm.DB, baseLog *logger.Logger, repo repos.EquipmentTypeRepo, summaryTTL time.Duration) (EquipmentTypeService, error) {
	kw, err := taxonomy.NewKeywordFilter()
	if err != nil {
		return nil, err
	}
	s := &equipmentTypeService{
		db:       db,
		log:      baseLog.With("service", "EquipmentTypeService"),
		repo:     repo,
		keywords: kw,
	}
	s.summarizer = taxonomy.NewSummarizer(s.Tree, summaryTTL, nil)
	s.validator = taxonomy.NewValidator(s.Tree)
	empty, err := taxonomy.NewTree(nil)
	if err != nil {
		return nil, err
	}
	s.tree.Store(empty)
	return s, nil
}

func (s *equipmentTypeService) Tree() *taxonomy.Tree {
	return s.tree.Load()
}

// LoadTree rebuilds the in-memory tree from the store and invalidates the
// summary cache.
func (s *equipmentTypeService) LoadTree(ctx context.Context) error {
	rows, err := s.repo.GetAll(ctx, nil)
	if err != nil {
		return fmt.Errorf("load equipment types: %w", err)
	}
	records := make([]taxonomy.Node, 0, len(rows))
	for _, row := range rows {
		records = append(records, taxonomy.Node{
			ID:       row.ID,
			Name:     row.Name,
			Level:    taxonomy.Level(row.Level),
			ParentID: row.ParentID,
		})
	}
	tree, err := taxonomy.NewTree(records)
	if err != nil {
		return fmt.Errorf("index equipment types: %w", err)
	}
	s.tree.Store(tree)
	s.summarizer.Invalidate()
	s.log.Info("Equipment type tree loaded", "nodes", tree.Len())
	return nil
}

func (s *equipmentTypeService) GetHierarchyPath(nodeID uuid.UUID) (taxonomy.PartialPath, error) {
	names, err := s.Tree().GetPath(nodeID)
	if err != nil {
		return taxonomy.PartialPath{}, err
	}
	return taxonomy.PathFromNames(names), nil
}

func (s *equipmentTypeService) ResolveIDFromPath(p taxonomy.PartialPath) (*uuid.UUID, bool) {
	id, ok := s.Tree().ResolveIDFromPath(p)
	if !ok {
		return nil, false
	}
	return &id, true
}

func (s *equipmentTypeService) Summary() string {
	return s.summarizer.Summary()
}

func (s *equipmentTypeService) ExtractKeywords(text string) []string {
	return s.keywords.ExtractKeywords(text)
}

func (s *equipmentTypeService) FilterRelevant(keywords []string) []*taxonomy.Node {
	return s.keywords.FilterRelevant(s.Tree().All(), keywords)
}

func (s *equipmentTypeService) Validate(c *taxonomy.Candidate) taxonomy.Validated {
	return s.validator.Validate(c)
}

// Options lists the selectable nodes for one level of the cascade: all
// domains for level 1, otherwise the children of parentID.
func (s *equipmentTypeService) Options(level taxonomy.Level, parentID *uuid.UUID) ([]*taxonomy.Node, error) {
	t := s.Tree()
	if level == taxonomy.LevelDomain {
		return t.Roots(), nil
	}
	if level < taxonomy.LevelDomain || int(level) > taxonomy.MaxDepth {
		return nil, apierr.BadRequest("invalid_level", fmt.Errorf("invalid level %d", level))
	}
	if parentID == nil {
		return nil, apierr.BadRequest("parent_required", fmt.Errorf("parent id required for %s options", level))
	}
	parent, ok := t.Node(*parentID)
	if !ok {
		return nil, apierr.NotFound("parent_not_found", fmt.Errorf("%w: %s", taxonomy.ErrNotFound, *parentID))
	}
	if parent.Level != level-1 {
		return nil, apierr.BadRequest("invalid_parent_level", fmt.Errorf("node %q is level %d, not a valid parent for %s", parent.Name, parent.Level, level))
	}
	return t.Children(parent.ID), nil
}

func (s *equipmentTypeService) NewCascade() *taxonomy.CascadeController {
	return taxonomy.NewCascadeController(s.Tree)
}

// CreateNode persists a taxonomy node after checking the level/parent
// invariant against the live tree, then reloads the tree so the new node
// becomes visible.
func (s *equipmentTypeService) CreateNode(ctx context.Context, name string, level int, parentID *uuid.UUID) (*types.EquipmentType, error) {
	if len(name) < 2 || len(name) > 100 {
		return nil, apierr.BadRequest("invalid_name", fmt.Errorf("name must be 2-100 characters"))
	}
	if level < 1 || level > taxonomy.MaxDepth {
		return nil, apierr.BadRequest("invalid_level", fmt.Errorf("level must be 1-%d", taxonomy.MaxDepth))
	}
	if level == 1 && parentID != nil {
		return nil, apierr.BadRequest("invalid_parent", fmt.Errorf("domain nodes cannot have a parent"))
	}
	if level > 1 && parentID == nil {
		return nil, apierr.BadRequest("parent_required", fmt.Errorf("level %d node requires a parent", level))
	}
	if parentID != nil {
		parent, ok := s.Tree().Node(*parentID)
		if !ok {
			return nil, apierr.NotFound("parent_not_found", fmt.Errorf("%w: parent %s", taxonomy.ErrNotFound, *parentID))
		}
		if int(parent.Level) != level-1 {
			return nil, apierr.BadRequest("invalid_parent_level", fmt.Errorf("parent %q is level %d, want level %d", parent.Name, parent.Level, level-1))
		}
	}
	node := &types.EquipmentType{ID: uuid.New(), Name: name, Level: level, ParentID: parentID}
	if _, err := s.repo.Create(ctx, nil, []*types.EquipmentType{node}); err != nil {
		return nil, err
	}
	if err := s.LoadTree(ctx); err != nil {
		return nil, err
	}
	return node, nil
}
