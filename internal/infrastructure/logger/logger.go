package logger

import (
	"fmt"
	"strings"

	"github.com/LavaJover/shvark-dashboard-service/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "dashboard-service"

// New builds the service logger. Env "prod" gets a JSON production encoder,
// anything else the development console encoder. LogFormat overrides the
// encoding when set.
func New(env string, cfg config.LogConfig) (*zap.Logger, error) {
	var zc zap.Config
	if env == "prod" {
		zc = zap.NewProductionConfig()
		zc.EncoderConfig.TimeKey = "timestamp"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if cfg.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(strings.ToLower(cfg.LogLevel))
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		zc.Level = level
	}

	switch cfg.LogFormat {
	case "":
	case "json", "console":
		zc.Encoding = cfg.LogFormat
		if cfg.LogFormat == "json" {
			zc.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
		}
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.LogFormat)
	}

	if cfg.LogOutput != "" {
		zc.OutputPaths = []string{cfg.LogOutput}
	}

	l, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l.With(zap.String("service", serviceName)), nil
}

func MustNew(env string, cfg config.LogConfig) *zap.Logger {
	l, err := New(env, cfg)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return l
}
