package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/ardelis/equipsense-backend/internal/platform/apierr"
	"github.com/ardelis/equipsense-backend/internal/services"
	"github.com/ardelis/equipsense-backend/internal/taxonomy"
)

func TestRespondErrStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "apierr_carries_its_status",
			err:        apierr.BadRequest("parent_required", fmt.Errorf("parent id required for type options")),
			wantStatus: http.StatusBadRequest,
			wantCode:   "parent_required",
		},
		{
			name:       "wrapped_apierr",
			err:        fmt.Errorf("options: %w", apierr.NotFound("parent_not_found", fmt.Errorf("no such node"))),
			wantStatus: http.StatusNotFound,
			wantCode:   "parent_not_found",
		},
		{
			name:       "taxonomy_not_found",
			err:        fmt.Errorf("resolve: %w", taxonomy.ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantCode:   "not_found",
		},
		{
			name:       "parse_error",
			err:        fmt.Errorf("%w: not json", taxonomy.ErrParse),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "classification_unavailable",
		},
		{
			name:       "classifier_disabled",
			err:        services.ErrClassifierUnavailable,
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "classifier_disabled",
		},
		{
			name:       "unknown_error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "internal",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			RespondErr(c, tc.err)

			if w.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tc.wantStatus)
			}
			var envelope ErrorEnvelope
			if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if envelope.Error.Code != tc.wantCode {
				t.Fatalf("code = %q, want %q", envelope.Error.Code, tc.wantCode)
			}
		})
	}
}
