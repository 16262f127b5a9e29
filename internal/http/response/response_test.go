package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	apperr "github.com/yungbote/textbook-backend/internal/pkg/errors"
	"github.com/yungbote/textbook-backend/internal/platform/apierr"
)

func TestRespondServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", fmt.Errorf("chapter %q: %w", "x", apperr.ErrNotFound), http.StatusNotFound, "not_found"},
		{"invalid", fmt.Errorf("bad: %w", apperr.ErrInvalidArgument), http.StatusBadRequest, "invalid_argument"},
		{"unavailable", apperr.ErrUnavailable, http.StatusServiceUnavailable, "unavailable"},
		{"api error", apierr.New(http.StatusConflict, "conflict", errors.New("busy")), http.StatusConflict, "conflict"},
		{"other", errors.New("boom"), http.StatusInternalServerError, "load_failed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			RespondServiceError(c, "load_failed", tc.err)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
			var env ErrorEnvelope
			if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if env.Error.Code != tc.code || env.Error.Message == "" {
				t.Fatalf("envelope = %#v", env)
			}
		})
	}
}
