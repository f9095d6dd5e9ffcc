package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"

	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/configs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	defaultAppName  = "wcet-insight"
	defaultLogLevel = "INFO"
	appNameField    = "applicationName"
)

var levels = map[string]zerolog.Level{
	"DEBUG":    zerolog.DebugLevel,
	"INFO":     zerolog.InfoLevel,
	"WARN":     zerolog.WarnLevel,
	"ERROR":    zerolog.ErrorLevel,
	"FATAL":    zerolog.FatalLevel,
	"PANIC":    zerolog.PanicLevel,
	"DISABLED": zerolog.Disabled,
}

var (
	once sync.Once
	out  io.Writer = os.Stdout
)

// Init sets up the global logger once. Production environments log JSON
// lines, every other environment gets the console format.
func Init(config configs.Configs) {
	once.Do(func() {
		appName := config.AppName
		if appName == "" {
			appName = defaultAppName
		}
		level := config.AppLogLevel
		if level == "" {
			level = defaultLogLevel
		}
		setLogLevel(level)

		zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
			return filepath.Base(file) + ":" + strconv.Itoa(line)
		}
		zerolog.ErrorStackMarshaler = func(err error) interface{} {
			return fmt.Sprintf("%s\n%s", err, debug.Stack())
		}

		log.Logger = zerolog.New(writer(config.AppEnv)).With().
			Timestamp().
			Str(appNameField, appName).
			Caller().
			Logger()
		log.Info().Str("level", strings.ToUpper(level)).Str("env", config.AppEnv).Msg("Logger initialized")
	})
}

func writer(env string) io.Writer {
	if env == "prod" || env == "production" {
		return out
	}
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "02-01-2006 15:04:05.000",
		FormatLevel: func(i interface{}) string {
			return strings.ToUpper(fmt.Sprintf("%-6s", i))
		},
		FieldsExclude: []string{appNameField},
		PartsOrder: []string{
			appNameField,
			zerolog.TimestampFieldName,
			zerolog.LevelFieldName,
			zerolog.CallerFieldName,
			zerolog.MessageFieldName,
		},
	}
}

func setLogLevel(logLevel string) {
	level, ok := levels[strings.ToUpper(logLevel)]
	if !ok {
		log.Panic().Msgf("Incorrect log level - %s", logLevel)
	}
	zerolog.SetGlobalLevel(level)
}
