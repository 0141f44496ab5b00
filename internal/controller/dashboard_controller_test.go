package controller

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"edu_platform_backend/internal/model"
	"edu_platform_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// The role checks run before any store access, so these handlers are
// constructed without services on purpose: reaching one would panic the
// test and flag the ordering bug.

func testContext(t *testing.T, method, target string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, nil)
	return c, w
}

func withClaims(c *gin.Context, id uint, role model.UserRole) {
	c.Set("user", &util.Claims{UserID: id, Role: role})
}

func TestDashboardUnknownRole(t *testing.T) {
	c, w := testContext(t, http.MethodGet, "/api/dashboard/admin")
	withClaims(c, 1, model.Student)
	c.Params = gin.Params{{Key: "role", Value: "admin"}}

	NewDashboardController(nil).GetDashboard(c)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestDashboardRoleMismatch(t *testing.T) {
	c, w := testContext(t, http.MethodGet, "/api/dashboard/teacher")
	withClaims(c, 1, model.Student)
	c.Params = gin.Params{{Key: "role", Value: "teacher"}}

	NewDashboardController(nil).GetDashboard(c)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestDashboardUnauthenticated(t *testing.T) {
	c, w := testContext(t, http.MethodGet, "/api/dashboard/student")
	c.Params = gin.Params{{Key: "role", Value: "student"}}

	NewDashboardController(nil).GetDashboard(c)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestPerformanceUnknownRole(t *testing.T) {
	c, w := testContext(t, http.MethodGet, "/api/performance?role=admin")
	withClaims(c, 1, model.Teacher)

	NewPerformanceController(nil, nil).GetPerformance(c)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestPerformanceMissingRole(t *testing.T) {
	c, w := testContext(t, http.MethodGet, "/api/performance")
	withClaims(c, 1, model.Teacher)

	NewPerformanceController(nil, nil).GetPerformance(c)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestPerformanceRoleMismatch(t *testing.T) {
	c, w := testContext(t, http.MethodGet, "/api/performance?role=student")
	withClaims(c, 1, model.Teacher)

	NewPerformanceController(nil, nil).GetPerformance(c)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}
