package httpframework

import (
	"net/http"
	"os"
	"sync"

	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/pkg/api"
	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

var (
	router *gin.Engine
	once   sync.Once
)

// Init builds the shared engine on first call; later calls are no-ops.
func Init(middlewares ...gin.HandlerFunc) {
	once.Do(func() {
		router = New(os.Getenv("APP_ENV"), middlewares...)
	})
}

// New returns an engine running the given middlewares followed by the access
// logger and the error recovery. Production environments run gin in release
// mode.
func New(env string, middlewares ...gin.HandlerFunc) *gin.Engine {
	if env == "prod" || env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(append(middlewares, middleware.HTTPLogger(), middleware.HTTPRecovery())...)
	engine.GET(api.HealthPath, func(c *gin.Context) {
		c.JSON(http.StatusOK, true)
	})
	engine.NoRoute(func(c *gin.Context) {
		_ = c.Error(api.NewNotFoundError("no route for " + c.Request.Method + " " + c.Request.URL.Path))
	})
	return engine
}

// Instance returns the engine built by Init
func Instance() *gin.Engine {
	if router == nil {
		log.Fatal().Msg("Router not initialized")
	}
	return router
}
