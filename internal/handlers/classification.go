package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ardelis/equipsense-backend/internal/services"
)

type ClassificationHandler struct {
	classifySvc services.ClassificationService
}

func NewClassificationHandler(classifySvc services.ClassificationService) *ClassificationHandler {
	return &ClassificationHandler{classifySvc: classifySvc}
}

// POST /classify — classification is an optional enhancement: callers treat
// any error here as "no suggestion" and fall back to manual selection.
func (h *ClassificationHandler) Classify(c *gin.Context) {
	var input services.ClassifyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	suggestion, err := h.classifySvc.Classify(c.Request.Context(), input)
	if err != nil {
		RespondErr(c, err)
		return
	}
	RespondOK(c, suggestion)
}
