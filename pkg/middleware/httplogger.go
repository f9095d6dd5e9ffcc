package middleware

import (
	"strconv"
	"time"

	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/pkg/api"
	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/pkg/metric"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// HTTPLogger records one access line and the request count and latency
// metrics per request. Metrics are tagged with the route template, not the
// raw path.
func HTTPLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()

		tags := metric.BuildTag(
			metric.NewTag(metric.TagPath, route),
			metric.NewTag(metric.TagMethod, c.Request.Method),
			metric.NewTag(metric.TagHttpStatusCode, strconv.Itoa(status)),
		)
		metric.Incr(metric.ApiRequestCount, tags)
		metric.Timing(metric.ApiRequestLatency, latency, tags)

		level := zerolog.InfoLevel
		if route == api.HealthPath {
			level = zerolog.DebugLevel
		}
		log.WithLevel(level).Msgf("[access] [%s] %s %s %d %v", c.ClientIP(), c.Request.Method, route, status, latency)
	}
}
