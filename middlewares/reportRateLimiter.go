package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type submissionWindow struct {
	count   int
	resetAt time.Time
}

var (
	windowMu sync.Mutex
	windows  = make(map[string]*submissionWindow)
)

// ReportRateLimiter caps how many reports a user may submit per 24h
// window. The counter lives in-process; it resets with the process, which
// matches the in-memory session model.
func ReportRateLimiter(limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, _ := c.Get("user_id")
		userID, ok := userIDVal.(string)
		if !ok || userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id missing"})
			c.Abort()
			return
		}

		windowMu.Lock()
		w, exists := windows[userID]
		now := time.Now()
		if !exists || now.After(w.resetAt) {
			w = &submissionWindow{resetAt: now.Add(24 * time.Hour)}
			windows[userID] = w
		}
		w.count++
		count := w.count
		retryAfter := time.Until(w.resetAt)
		windowMu.Unlock()

		// Check if user exceeded limit
		if count > limit {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": retryAfter.Seconds(),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
