package router

import (
	"net/http"
	"testing"

	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/wcet/controller"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRegister(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	Register(engine.Group("/api/v1/wcet"), controller.NewController(nil, 0))

	routes := map[string]string{}
	for _, r := range engine.Routes() {
		routes[r.Path] = r.Method
	}
	assert.Equal(t, map[string]string{
		"/api/v1/wcet/schema":      http.MethodGet,
		"/api/v1/wcet/insights":    http.MethodPost,
		"/api/v1/wcet/predictions": http.MethodPost,
		"/api/v1/wcet/plots/:name": http.MethodPost,
	}, routes)
}
