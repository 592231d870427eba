package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ardelis/equipsense-backend/internal/platform/apierr"
	"github.com/ardelis/equipsense-backend/internal/services"
	"github.com/ardelis/equipsense-backend/internal/taxonomy"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondErr maps known error kinds onto HTTP statuses: apierr carries its
// own status, ErrNotFound is 404, ErrParse is 422 (classifier output
// unusable), a disabled classifier is 503, anything else is 500.
func RespondErr(c *gin.Context, err error) {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		RespondError(c, ae.Status, ae.Code, ae.Err)
		return
	}
	switch {
	case errors.Is(err, taxonomy.ErrNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, taxonomy.ErrParse):
		RespondError(c, http.StatusUnprocessableEntity, "classification_unavailable", err)
	case errors.Is(err, services.ErrClassifierUnavailable):
		RespondError(c, http.StatusServiceUnavailable, "classifier_disabled", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal", err)
	}
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
