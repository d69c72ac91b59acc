// README: Per-client rate limiting keyed by user id, falling back to
// client IP for unauthenticated paths.
package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type limiterPool struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	perSec   float64
}

func (p *limiterPool) get(key string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	l, ok := p.limiters[key]
	if !ok {
		l = rate.NewLimiter(rate.Limit(p.perSec), int(p.perSec)+1)
		p.limiters[key] = l
	}
	return l
}

func RateLimit(perSec float64) gin.HandlerFunc {
	pool := &limiterPool{limiters: make(map[string]*rate.Limiter), perSec: perSec}
	return func(c *gin.Context) {
		key := c.GetHeader("X-User-ID")
		if key == "" {
			key = c.ClientIP()
		}
		if !pool.get(key).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
