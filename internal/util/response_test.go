package util

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func respond(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	RespondError(c, err)
	return w
}

func TestRespondErrorStatuses(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"missing credential", ErrMissingCredential, http.StatusUnauthorized},
		{"invalid signature", ErrInvalidSignature, http.StatusUnauthorized},
		{"expired", ErrTokenExpired, http.StatusUnauthorized},
		{"unknown subject", ErrUnknownSubject, http.StatusUnauthorized},
		{"role forbidden", ErrRoleForbidden, http.StatusForbidden},
		{"not found", ErrNotFound, http.StatusNotFound},
		{"gorm not found", gorm.ErrRecordNotFound, http.StatusNotFound},
		{"validation", Validation("bad input"), http.StatusBadRequest},
		{"email registered", ErrEmailRegistered, http.StatusConflict},
		{"store failure", ErrStoreUnavailable, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := respond(t, tt.err)
			if w.Code != tt.code {
				t.Errorf("status = %d, want %d", w.Code, tt.code)
			}
		})
	}
}

// Store failures must never leak internals into the body.
func TestRespondErrorHidesInternals(t *testing.T) {
	w := respond(t, ErrStoreUnavailable)

	if got := w.Body.String(); got != `{"message":"internal server error"}` {
		t.Errorf("body = %s, want generic message", got)
	}
}
