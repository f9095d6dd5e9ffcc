package main

import (
	"strconv"

	wcethandler "github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/wcet/handler"
	wcetRouter "github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/wcet/router"
	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/pkg/httpframework"
	"github.com/gin-contrib/cors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP insight service",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	p := bootstrap()
	cfg := appConfig.Configs

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CorsAllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	corsConfig.ExposeHeaders = []string{"Content-Disposition", "X-Upload-Id"}
	httpframework.Init(cors.New(corsConfig))

	wcetRouter.Init(wcethandler.InitWcetHandler(p), cfg.UploadMaxBytes)

	log.Info().Int("port", cfg.AppPort).Msg("Starting wcet insight service")
	return httpframework.Instance().Run(":" + strconv.Itoa(cfg.AppPort))
}
