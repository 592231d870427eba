package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ardelis/equipsense-backend/internal/services"
)

type EquipmentHandler struct {
	equipmentSvc services.EquipmentService
}

func NewEquipmentHandler(equipmentSvc services.EquipmentService) *EquipmentHandler {
	return &EquipmentHandler{equipmentSvc: equipmentSvc}
}

// POST /equipment
func (h *EquipmentHandler) Create(c *gin.Context) {
	var input services.CreateEquipmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	item, err := h.equipmentSvc.Create(c.Request.Context(), input)
	if err != nil {
		RespondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// GET /equipment
func (h *EquipmentHandler) List(c *gin.Context) {
	var query struct {
		Limit  int `form:"limit"`
		Offset int `form:"offset"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_query", err)
		return
	}
	items, err := h.equipmentSvc.List(c.Request.Context(), query.Limit, query.Offset)
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondOK(c, gin.H{"equipment": items})
}

// GET /equipment/:id
func (h *EquipmentHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	item, err := h.equipmentSvc.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, http.StatusNotFound, "not_found", err)
		return
	}
	RespondOK(c, item)
}

// PATCH /equipment/:id/type
func (h *EquipmentHandler) SetType(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req struct {
		TypeNodeID uuid.UUID `json:"type_node_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	item, err := h.equipmentSvc.SetType(c.Request.Context(), id, req.TypeNodeID)
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondOK(c, item)
}

// DELETE /equipment/:id
func (h *EquipmentHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := h.equipmentSvc.Delete(c.Request.Context(), id); err != nil {
		RespondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
