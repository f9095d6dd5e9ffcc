package main

import (
	"os"

	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/configs"
	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/explain"
	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/model"
	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/pipeline"
	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/schema"
	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/pkg/logger"
	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/pkg/metric"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type AppConfig struct {
	Configs        configs.Configs
	DynamicConfigs configs.DynamicConfigs
}

func (cfg *AppConfig) GetStaticConfig() interface{} {
	return &cfg.Configs
}

func (cfg *AppConfig) GetDynamicConfig() interface{} {
	return &cfg.DynamicConfigs
}

var (
	appConfig AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "wcet-insight",
	Short: "Predict loop counts and WCET for class metrics and explain the predictions",
	Long: `wcet-insight reads a CSV of class level code metrics, predicts the loop
quantity and the worst case execution time of every class and explains the
loop quantity model with feature attribution plots.

Configuration is read from the environment, e.g. APP_PORT, LOOP_MODEL_PATH,
WCET_MODEL_PATH or ATTRIBUTION_METHOD.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, predictCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap loads the configuration, sets up logging and metrics and builds
// the pipeline from the configured model artifacts.
func bootstrap() *pipeline.Pipeline {
	configs.InitConfig(&appConfig)
	cfg := appConfig.Configs

	logger.Init(cfg)
	metric.Init(cfg)

	models, err := model.LoadPair(cfg.LoopModelPath, cfg.WcetModelPath, schema.WCETFeatures())
	if err != nil {
		log.Fatal().Err(err).Msg("Model artifacts could not be loaded")
	}
	p, err := pipeline.New(models, pipeline.Options{
		PreviewRows:           cfg.PreviewRows,
		PredictionPreviewRows: cfg.PredictionPreviewRows,
		StrictSchema:          cfg.StrictInputSchema,
		Explain: explain.Options{
			Method:         cfg.AttributionMethod,
			MaxDisplay:     cfg.AttributionMaxDisplay,
			BackgroundSize: cfg.AttributionBackgroundSize,
			Permutations:   cfg.AttributionPermutations,
			Seed:           cfg.AttributionSeed,
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Pipeline could not be built")
	}
	return p
}
