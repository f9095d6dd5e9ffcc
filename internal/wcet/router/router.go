package router

import (
	"sync"

	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/wcet/controller"
	wcethandler "github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/wcet/handler"
	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/pkg/httpframework"
	"github.com/gin-gonic/gin"
)

var (
	initWcetRouterOnce sync.Once
)

// Init expects http framework to be initialized before calling this function
func Init(handler wcethandler.WcetHandler, maxUploadBytes int64) {
	initWcetRouterOnce.Do(func() {
		Register(httpframework.Instance().Group("/api/v1/wcet"), controller.NewController(handler, maxUploadBytes))
	})
}

// Register mounts the WCET endpoints on group.
func Register(group *gin.RouterGroup, c *controller.WcetController) {
	group.GET("/schema", c.GetSchema)
	group.POST("/insights", c.GetInsights)
	group.POST("/predictions", c.GetPredictions)
	group.POST("/plots/:name", c.GetPlot)
}
