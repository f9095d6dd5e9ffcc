package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/pkg/api"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// HTTPRecovery handles context errors/panics and sets response code accordingly
func HTTPRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Msgf("Panic occurred: %v\n%s", err, debug.Stack())
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("%v", err)})
				return
			}
			if len(c.Errors) > 0 && !c.Writer.Written() {
				var apiErr *api.Error
				if errors.As(c.Errors.Last().Err, &apiErr) {
					c.AbortWithStatusJSON(apiErr.StatusCode, apiErr.Body())
					return
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": c.Errors.Last().Error()})
			}
		}()
		c.Next()
	}
}
