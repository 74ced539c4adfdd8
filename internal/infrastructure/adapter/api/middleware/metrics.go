package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// RequestObserver records request counts and latencies
type RequestObserver interface {
	ObserveRequest(route, method string, status int, seconds float64)
}

// Metrics reports every request to observer, labelled by route template
func Metrics(observer RequestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		observer.ObserveRequest(route, c.Request.Method, c.Writer.Status(), time.Since(start).Seconds())
	}
}
