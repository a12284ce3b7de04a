package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"github.com/mdrsisme/lisan-sign/utils"
)

// In-memory rate limiter keyed by client IP.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	visitors    = make(map[string]*visitor)
	visitorsMu  sync.Mutex
	cleanupOnce sync.Once
)

func cleanupVisitors() {
	for {
		time.Sleep(time.Minute)

		visitorsMu.Lock()
		for ip, v := range visitors {
			if time.Since(v.lastSeen) > 5*time.Minute {
				delete(visitors, ip)
			}
		}
		visitorsMu.Unlock()
	}
}

func getVisitor(ip string, r rate.Limit, b int) *rate.Limiter {
	visitorsMu.Lock()
	defer visitorsMu.Unlock()

	v, exists := visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(r, b)
		visitors[ip] = &visitor{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// RateLimit limits requests per IP. r is the allowed request rate per second,
// b the burst capacity.
func RateLimit(r rate.Limit, b int) fiber.Handler {
	cleanupOnce.Do(func() { go cleanupVisitors() })

	return func(c *fiber.Ctx) error {
		limiter := getVisitor(c.IP(), r, b)
		if !limiter.Allow() {
			return utils.Fail(c, http.StatusTooManyRequests, "Too many requests")
		}
		return c.Next()
	}
}
