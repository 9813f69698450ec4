package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/apperror"
)

func TestError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name      string
		err       error
		status    int
		errorType string
	}{
		{"not found", apperror.NewNotFound("payment 9 not found"), http.StatusNotFound, "NOT_FOUND"},
		{"conflict is 400", apperror.NewConflict("already parked").WithCode("VEHICLE_ALREADY_PARKED"), http.StatusBadRequest, "VEHICLE_ALREADY_PARKED"},
		{"forbidden", apperror.NewForbidden("no"), http.StatusForbidden, "FORBIDDEN"},
		{"plain error", errors.New("db down"), http.StatusInternalServerError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/things/9", nil)

			Error(c, tt.err)

			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			var b ErrorBody
			if err := json.Unmarshal(w.Body.Bytes(), &b); err != nil {
				t.Fatal(err)
			}
			if b.Status != tt.status || b.Path != "/api/v1/things/9" || b.ErrorType != tt.errorType || b.Timestamp.IsZero() {
				t.Errorf("unexpected body %+v", b)
			}
			if tt.status == http.StatusInternalServerError && b.Message != "internal server error" {
				t.Errorf("internal details leaked: %q", b.Message)
			}
		})
	}
}

func TestBindError(t *testing.T) {
	err := BindError(errors.New("Key: 'A' Error:required\nKey: 'B' Error:required"))
	if err.Type != apperror.BadRequest || len(err.Details) != 2 {
		t.Errorf("unexpected %+v", err)
	}
}
