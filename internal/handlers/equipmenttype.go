package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ardelis/equipsense-backend/internal/services"
	"github.com/ardelis/equipsense-backend/internal/taxonomy"
)

type EquipmentTypeHandler struct {
	typeSvc services.EquipmentTypeService
}

func NewEquipmentTypeHandler(typeSvc services.EquipmentTypeService) *EquipmentTypeHandler {
	return &EquipmentTypeHandler{typeSvc: typeSvc}
}

type nodeView struct {
	ID       uuid.UUID  `json:"id"`
	Name     string     `json:"name"`
	Level    int        `json:"level"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
}

func nodeViews(nodes []*taxonomy.Node) []nodeView {
	out := make([]nodeView, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, nodeView{ID: n.ID, Name: n.Name, Level: int(n.Level), ParentID: n.ParentID})
	}
	return out
}

// GET /equipment-types/options?level=2&parent_id=...
func (h *EquipmentTypeHandler) Options(c *gin.Context) {
	var query struct {
		Level    int    `form:"level" binding:"required"`
		ParentID string `form:"parent_id"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_query", err)
		return
	}
	var parentID *uuid.UUID
	if query.ParentID != "" {
		id, err := uuid.Parse(query.ParentID)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_parent_id", err)
			return
		}
		parentID = &id
	}
	nodes, err := h.typeSvc.Options(taxonomy.Level(query.Level), parentID)
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondOK(c, gin.H{"options": nodeViews(nodes)})
}

// GET /equipment-types/:id/path
func (h *EquipmentTypeHandler) Path(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	path, err := h.typeSvc.GetHierarchyPath(id)
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondOK(c, path)
}

// GET /equipment-types/summary
func (h *EquipmentTypeHandler) Summary(c *gin.Context) {
	RespondOK(c, gin.H{"summary": h.typeSvc.Summary()})
}

// POST /equipment-types/resolve
func (h *EquipmentTypeHandler) Resolve(c *gin.Context) {
	var path taxonomy.PartialPath
	if err := c.ShouldBindJSON(&path); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	id, ok := h.typeSvc.ResolveIDFromPath(path)
	if !ok {
		RespondOK(c, gin.H{"node_id": nil})
		return
	}
	RespondOK(c, gin.H{"node_id": id})
}

type cascadeRequest struct {
	// When set, all four slots hydrate from this node in one step.
	HydrateNodeID *uuid.UUID `json:"hydrate_node_id,omitempty"`
	// Otherwise the named selections are applied top-down.
	Domain      string `json:"domain,omitempty"`
	Type        string `json:"type,omitempty"`
	Category    string `json:"category,omitempty"`
	Subcategory string `json:"subcategory,omitempty"`
}

type cascadeResponse struct {
	Selection taxonomy.Selection    `json:"selection"`
	Options   map[string][]nodeView `json:"options"`
}

// POST /equipment-types/cascade replays a cascade selection server-side: the
// client sends either a node id to hydrate from or its level values, and
// gets back the resulting selection plus the scoped options for every level.
func (h *EquipmentTypeHandler) Cascade(c *gin.Context) {
	var req cascadeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	ctrl := h.typeSvc.NewCascade()
	if req.HydrateNodeID != nil {
		if err := ctrl.Hydrate(*req.HydrateNodeID); err != nil {
			RespondErr(c, err)
			return
		}
	} else {
		steps := []struct {
			level taxonomy.Level
			value string
		}{
			{taxonomy.LevelDomain, req.Domain},
			{taxonomy.LevelType, req.Type},
			{taxonomy.LevelCategory, req.Category},
			{taxonomy.LevelSubcategory, req.Subcategory},
		}
		for i, step := range steps {
			if step.value == "" {
				// A deeper value after a gap has no parent to scope it.
				for _, deeper := range steps[i+1:] {
					if deeper.value != "" {
						RespondError(c, http.StatusBadRequest, "invalid_cascade",
							fmt.Errorf("%s requires %s to be selected first", deeper.level, step.level))
						return
					}
				}
				break
			}
			if err := ctrl.Select(step.level, step.value); err != nil {
				RespondErr(c, err)
				return
			}
		}
	}

	resp := cascadeResponse{
		Selection: ctrl.CurrentSelection(),
		Options:   map[string][]nodeView{},
	}
	for l := taxonomy.LevelDomain; int(l) <= taxonomy.MaxDepth; l++ {
		resp.Options[l.String()] = nodeViews(ctrl.Options(l))
	}
	RespondOK(c, resp)
}

type createNodeRequest struct {
	Name     string     `json:"name" binding:"required"`
	Level    int        `json:"level" binding:"required"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
}

// POST /equipment-types
func (h *EquipmentTypeHandler) Create(c *gin.Context) {
	var req createNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	node, err := h.typeSvc.CreateNode(c.Request.Context(), req.Name, req.Level, req.ParentID)
	if err != nil {
		RespondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, node)
}
