package configs

type Configs struct {
	// App configuration
	AppName               string  `mapstructure:"app_name" validate:"required"`
	AppEnv                string  `mapstructure:"app_env"`
	AppLogLevel           string  `mapstructure:"app_log_level" validate:"oneof=DEBUG INFO WARN ERROR FATAL PANIC DISABLED"`
	AppMetricSamplingRate float64 `mapstructure:"app_metric_sampling_rate" validate:"gte=0,lte=1"`
	AppPort               int     `mapstructure:"app_port" validate:"gt=0,lte=65535"`

	TelegrafAddress string `mapstructure:"telegraf_address" validate:"required"`

	// Model artifacts
	LoopModelPath string `mapstructure:"loop_model_path" validate:"required"`
	WcetModelPath string `mapstructure:"wcet_model_path" validate:"required"`

	// Upload handling
	UploadMaxBytes        int64 `mapstructure:"upload_max_bytes" validate:"gt=0"`
	PreviewRows           int   `mapstructure:"preview_rows" validate:"gt=0"`
	PredictionPreviewRows int   `mapstructure:"prediction_preview_rows" validate:"gt=0"`
	StrictInputSchema     bool  `mapstructure:"strict_input_schema"`

	// Attribution
	AttributionMethod         string `mapstructure:"attribution_method" validate:"oneof=auto tree permutation"`
	AttributionMaxDisplay     int    `mapstructure:"attribution_max_display" validate:"gt=0"`
	AttributionBackgroundSize int    `mapstructure:"attribution_background_size" validate:"gt=0"`
	AttributionPermutations   int    `mapstructure:"attribution_permutations" validate:"gt=0"`
	AttributionSeed           int64  `mapstructure:"attribution_seed"`

	CorsAllowedOrigins []string `mapstructure:"cors_allowed_origins" validate:"min=1"`
}

type DynamicConfigs struct{}

var defaults = map[string]interface{}{
	"app_name":                    "wcet-insight",
	"app_env":                     "local",
	"app_log_level":               "INFO",
	"app_metric_sampling_rate":    1.0,
	"app_port":                    8080,
	"telegraf_address":            "localhost:8125",
	"loop_model_path":             "models/dt_loopQty_model.json",
	"wcet_model_path":             "models/dt_wcet_model.json",
	"upload_max_bytes":            32 << 20,
	"preview_rows":                5,
	"prediction_preview_rows":     10,
	"strict_input_schema":         false,
	"attribution_method":          "auto",
	"attribution_max_display":     15,
	"attribution_background_size": 100,
	"attribution_permutations":    4,
	"attribution_seed":            42,
	"cors_allowed_origins":        "*",
}
