package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/ardelis/equipsense-backend/internal/platform/logger"
	"github.com/ardelis/equipsense-backend/internal/repos"
	"github.com/ardelis/equipsense-backend/internal/taxonomy"
	"github.com/ardelis/equipsense-backend/internal/types"
)

// ClassificationService drives one classification round trip: prompt
// assembly from the hierarchy digest and keyword-relevant nodes, the
// external call, parsing, strict validation, and id resolution. Failures
// here are never fatal to equipment creation; the caller falls back to
// manual selection.
type ClassificationService interface {
	Classify(ctx context.Context, input ClassifyInput) (*Suggestion, error)
}

type ClassifyInput struct {
	EquipmentID *uuid.UUID `json:"equipment_id,omitempty"`
	Name        string     `json:"name"`
	Brand       string     `json:"brand"`
	Model       string     `json:"model"`
	Description string     `json:"description"`
}

// Suggestion is a validated classification plus the most specific node id
// its accepted prefix resolves to, nil when nothing survived validation.
type Suggestion struct {
	Validated taxonomy.Validated `json:"validated"`
	NodeID    *uuid.UUID         `json:"node_id,omitempty"`
}

type classificationService struct {
	db      *gorm.DB
	log     *logger.Logger
	ai      AIClient
	typeSvc EquipmentTypeService
	logRepo repos.ClassificationLogRepo
}

func NewClassificationService(db *gorm.DB, baseLog *logger.Logger, ai AIClient, typeSvc EquipmentTypeService, logRepo repos.ClassificationLogRepo) ClassificationService {
	return &classificationService{
		db:      db,
		log:     baseLog.With("service", "ClassificationService"),
		ai:      ai,
		typeSvc: typeSvc,
		logRepo: logRepo,
	}
}

// ErrClassifierUnavailable is returned when no classifier is configured.
var ErrClassifierUnavailable = errors.New("classifier unavailable")

type unavailableClassificationService struct{}

// NewUnavailableClassificationService stands in when no classifier is
// configured; equipment creation keeps working on manual selection alone.
func NewUnavailableClassificationService() ClassificationService {
	return unavailableClassificationService{}
}

func (unavailableClassificationService) Classify(context.Context, ClassifyInput) (*Suggestion, error) {
	return nil, ErrClassifierUnavailable
}

func (s *classificationService) Classify(ctx context.Context, input ClassifyInput) (*Suggestion, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("equipment name required")
	}

	system, user := s.buildPrompt(input)

	raw, usage, err := s.ai.GenerateJSON(ctx, system, user, "equipment_classification", classificationSchema())
	if err != nil {
		s.record(ctx, input.EquipmentID, system+"\n\n"+user, string(raw), "", false, err, usage)
		return nil, fmt.Errorf("classifier call failed: %w", err)
	}

	candidate, err := taxonomy.ParseCandidate(raw)
	if err != nil {
		s.record(ctx, input.EquipmentID, system+"\n\n"+user, string(raw), "", false, err, usage)
		return nil, err
	}

	validated := s.typeSvc.Validate(candidate)
	suggestion := &Suggestion{Validated: validated}
	if validated.Path.DeepestLevel() > 0 {
		if id, ok := s.typeSvc.ResolveIDFromPath(validated.Path); ok {
			suggestion.NodeID = id
		}
	}

	s.record(ctx, input.EquipmentID, system+"\n\n"+user, string(raw), string(validated.Status), true, nil, usage)
	s.log.Info("Equipment classified",
		"status", validated.Status,
		"depth", int(validated.Path.DeepestLevel()),
	)
	return suggestion, nil
}

func (s *classificationService) buildPrompt(input ClassifyInput) (system, user string) {
	system = strings.Join([]string{
		"ROLE: Equipment taxonomy classifier.",
		"TASK: Assign the equipment to the 4-level hierarchy (domain, type, category, subcategory).",
		"RULES: Use only names that appear in the provided hierarchy. Each level must be a child of the previous one. Leave a level null when unsure.",
		"OUTPUT: Return ONLY JSON matching the schema.",
	}, "\n")

	freeText := strings.Join([]string{input.Name, input.Brand, input.Model, input.Description}, " ")
	keywords := s.typeSvc.ExtractKeywords(freeText)

	var b strings.Builder
	b.WriteString("HIERARCHY:\n")
	b.WriteString(s.typeSvc.Summary())
	if relevant := s.typeSvc.FilterRelevant(keywords); len(relevant) > 0 {
		b.WriteString("\nMOST LIKELY RELEVANT NODES:\n")
		for _, n := range relevant {
			fmt.Fprintf(&b, "- %s (%s)\n", n.Name, n.Level)
		}
	}
	b.WriteString("\nEQUIPMENT:\n")
	fmt.Fprintf(&b, "name: %s\n", input.Name)
	if input.Brand != "" {
		fmt.Fprintf(&b, "brand: %s\n", input.Brand)
	}
	if input.Model != "" {
		fmt.Fprintf(&b, "model: %s\n", input.Model)
	}
	if input.Description != "" {
		fmt.Fprintf(&b, "description: %s\n", input.Description)
	}
	return system, b.String()
}

func classificationSchema() map[string]any {
	levelField := map[string]any{"type": []string{"string", "null"}}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"domain":      levelField,
			"type":        levelField,
			"category":    levelField,
			"subcategory": levelField,
			"confidence": map[string]any{
				"type":                 "object",
				"additionalProperties": map[string]any{"type": "number"},
			},
			"reasoning": map[string]any{"type": "string"},
		},
		"required": []string{"domain", "type", "category", "subcategory", "reasoning"},
	}
}

// record writes the call log row. Logging failures are reported but never
// override the classification outcome.
func (s *classificationService) record(ctx context.Context, equipmentID *uuid.UUID, prompt, response, status string, success bool, callErr error, usage Usage) {
	entry := &types.ClassificationLog{
		ID:          uuid.New(),
		EquipmentID: equipmentID,
		Model:       s.ai.Model(),
		Prompt:      prompt,
		Response:    response,
		Status:      status,
		Success:     success,
	}
	if callErr != nil {
		entry.Error = callErr.Error()
		if errors.Is(callErr, taxonomy.ErrParse) {
			entry.Status = "parse_error"
		}
	}
	if usageJSON, err := json.Marshal(usage); err == nil {
		entry.Usage = datatypes.JSON(usageJSON)
	}
	if _, err := s.logRepo.Create(ctx, nil, entry); err != nil {
		s.log.Warn("Failed to persist classification log", "error", err)
	}
}
