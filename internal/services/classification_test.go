package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ardelis/equipsense-backend/internal/platform/logger"
	"github.com/ardelis/equipsense-backend/internal/repos"
	"github.com/ardelis/equipsense-backend/internal/taxonomy"
	"github.com/ardelis/equipsense-backend/internal/types"
)

type fakeAIClient struct {
	response string
	err      error
	lastUser string
}

func (f *fakeAIClient) GenerateJSON(_ context.Context, _, user, _ string, _ map[string]any) ([]byte, Usage, error) {
	f.lastUser = user
	if f.err != nil {
		return nil, Usage{}, f.err
	}
	return []byte(f.response), Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}, nil
}

func (f *fakeAIClient) Model() string { return "fake-model" }

type classifyFixture struct {
	svc     ClassificationService
	typeSvc EquipmentTypeService
	logRepo repos.ClassificationLogRepo
	ai      *fakeAIClient
	ids     map[string]uuid.UUID
}

func newClassifyFixture(t *testing.T) *classifyFixture {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, _ := gdb.DB()
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	})
	if err := gdb.AutoMigrate(&types.EquipmentType{}, &types.Equipment{}, &types.ClassificationLog{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	typeRepo := repos.NewEquipmentTypeRepo(gdb, log)
	ctx := context.Background()
	ids := map[string]uuid.UUID{}
	seed := func(name string, level int, parent string) {
		t.Helper()
		n := &types.EquipmentType{ID: uuid.New(), Name: name, Level: level}
		if parent != "" {
			pid := ids[parent]
			n.ParentID = &pid
		}
		if _, err := typeRepo.Create(ctx, nil, []*types.EquipmentType{n}); err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
		ids[name] = n.ID
	}
	seed("HEATING", 1, "")
	seed("Boiler", 2, "HEATING")
	seed("Gas Boiler", 3, "Boiler")
	seed("Wall-mounted Gas Boiler", 4, "Gas Boiler")
	seed("ELEVATORS", 1, "")
	seed("Elevator", 2, "ELEVATORS")

	typeSvc, err := NewEquipmentTypeService(gdb, log, typeRepo, 0)
	if err != nil {
		t.Fatalf("NewEquipmentTypeService: %v", err)
	}
	if err := typeSvc.LoadTree(ctx); err != nil {
		t.Fatalf("LoadTree: %v", err)
	}

	ai := &fakeAIClient{}
	logRepo := repos.NewClassificationLogRepo(gdb, log)
	return &classifyFixture{
		svc:     NewClassificationService(gdb, log, ai, typeSvc, logRepo),
		typeSvc: typeSvc,
		logRepo: logRepo,
		ai:      ai,
		ids:     ids,
	}
}

func TestClassifyVerifiedSuggestion(t *testing.T) {
	f := newClassifyFixture(t)
	f.ai.response = `{"domain":"HEATING","type":"Boiler","category":"Gas Boiler","subcategory":"Wall-mounted Gas Boiler","confidence":{"domain":0.99},"reasoning":"gas boiler"}`

	got, err := f.svc.Classify(context.Background(), ClassifyInput{
		Name:        "Vitodens 200-W",
		Brand:       "Viessmann",
		Description: "wall-mounted gas boiler",
	})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if got.Validated.Status != taxonomy.StatusVerified {
		t.Fatalf("status = %q, want verified", got.Validated.Status)
	}
	if got.NodeID == nil || *got.NodeID != f.ids["Wall-mounted Gas Boiler"] {
		t.Fatalf("node id = %v, want %s", got.NodeID, f.ids["Wall-mounted Gas Boiler"])
	}

	// Prompt carries the hierarchy digest and the keyword-relevant subset.
	if !strings.Contains(f.ai.lastUser, "HEATING") {
		t.Fatalf("prompt missing hierarchy digest:\n%s", f.ai.lastUser)
	}
	if !strings.Contains(f.ai.lastUser, "MOST LIKELY RELEVANT NODES") {
		t.Fatalf("prompt missing relevant-node section:\n%s", f.ai.lastUser)
	}
}

func TestClassifyBrokenChainYieldsPrefix(t *testing.T) {
	f := newClassifyFixture(t)
	f.ai.response = `{"domain":"HEATING","type":"Elevator","category":"Gas Boiler","subcategory":"Wall-mounted Gas Boiler","reasoning":"confused"}`

	got, err := f.svc.Classify(context.Background(), ClassifyInput{Name: "mystery unit"})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if got.Validated.Status != taxonomy.StatusPartial {
		t.Fatalf("status = %q, want partially_verified", got.Validated.Status)
	}
	if got.Validated.Path.Type != "" || got.Validated.Path.Category != "" {
		t.Fatalf("deeper fields survived broken chain: %+v", got.Validated.Path)
	}
	if got.NodeID == nil || *got.NodeID != f.ids["HEATING"] {
		t.Fatalf("node id = %v, want domain id %s", got.NodeID, f.ids["HEATING"])
	}
}

func TestClassifyUnparseableResponse(t *testing.T) {
	f := newClassifyFixture(t)
	f.ai.response = `I am unable to classify this equipment, sorry.`

	eqID := uuid.New()
	_, err := f.svc.Classify(context.Background(), ClassifyInput{EquipmentID: &eqID, Name: "mystery unit"})
	if !errors.Is(err, taxonomy.ErrParse) {
		t.Fatalf("Classify error = %v, want ErrParse", err)
	}

	logs, lerr := f.logRepo.GetByEquipment(context.Background(), nil, eqID)
	if lerr != nil {
		t.Fatalf("GetByEquipment: %v", lerr)
	}
	if len(logs) != 1 || logs[0].Success || logs[0].Status != "parse_error" {
		t.Fatalf("parse failure not logged: %+v", logs)
	}
}

func TestClassifyClientErrorPropagates(t *testing.T) {
	f := newClassifyFixture(t)
	f.ai.err = errors.New("upstream unavailable")

	if _, err := f.svc.Classify(context.Background(), ClassifyInput{Name: "pump"}); err == nil {
		t.Fatalf("Classify should propagate client errors")
	}
}

func TestClassifyRequiresName(t *testing.T) {
	f := newClassifyFixture(t)
	if _, err := f.svc.Classify(context.Background(), ClassifyInput{}); err == nil {
		t.Fatalf("Classify accepted empty name")
	}
}
