package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newLimiterTestRouter(userID string, limit int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("user_id", userID) })
	r.POST("/submit", ReportRateLimiter(limit), func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"message": "ok"})
	})
	return r
}

func TestReportRateLimiterBlocksOverLimit(t *testing.T) {
	r := newLimiterTestRouter("limiter-user-1", 2)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/submit", nil))
		if w.Code != http.StatusCreated {
			t.Fatalf("Request %d: expected 201 under the limit, got %d", i+1, w.Code)
		}
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/submit", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected 429 over the limit, got %d", w.Code)
	}
}

func TestReportRateLimiterIsPerUser(t *testing.T) {
	first := newLimiterTestRouter("limiter-user-2", 1)
	second := newLimiterTestRouter("limiter-user-3", 1)

	w := httptest.NewRecorder()
	first.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/submit", nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201 for the first user, got %d", w.Code)
	}
	w = httptest.NewRecorder()
	first.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/submit", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected 429 for the first user's second request, got %d", w.Code)
	}

	// a different user's window is untouched
	w = httptest.NewRecorder()
	second.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/submit", nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201 for the second user, got %d", w.Code)
	}
}

func TestReportRateLimiterRequiresUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/submit", ReportRateLimiter(5), func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"message": "ok"})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/submit", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 without user_id in context, got %d", w.Code)
	}
}
