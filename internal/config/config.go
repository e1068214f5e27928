package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type DashboardConfig struct {
	Env          string `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer   `yaml:"http_server"`
	GRPCServer   `yaml:"grpc_server"`
	DashboardDB  `yaml:"dashboard_db"`
	LogConfig    `yaml:"log_config"`
	RateProvider `yaml:"rate_provider"`
	KafkaService `yaml:"kafka-service"`
	Catalog      `yaml:"catalog"`
}

type HTTPServer struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
}

type GRPCServer struct {
	Host string `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"GRPC_PORT" env-default:"50051"`
}

type DashboardDB struct {
	Dsn            string `yaml:"dsn" env:"DASHBOARD_DB_DSN" env-required:"true"`
	MigrationsPath string `yaml:"migrations_path" env:"DASHBOARD_MIGRATIONS_PATH" env-default:"migrations"`
	MaxOpenConns   int    `yaml:"max_open_conns" env-default:"10"`
	MaxIdleConns   int    `yaml:"max_idle_conns" env-default:"5"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" env-default:"json"`
	LogOutput string `yaml:"log_output" env:"LOG_OUTPUT" env-default:"stdout"`
}

type RateProvider struct {
	BaseURL       string        `yaml:"base_url" env:"RATE_PROVIDER_URL" env-default:"https://p2p.binance.com"`
	Timeout       time.Duration `yaml:"timeout" env-default:"10s"`
	RefreshWindow time.Duration `yaml:"refresh_window" env-default:"300s"`
	WarmInterval  time.Duration `yaml:"warm_interval" env-default:"0s"`
	Asset         string        `yaml:"asset" env-default:"USDT"`
	Fiat          string        `yaml:"fiat" env-default:"VES"`
	Side          string        `yaml:"side" env-default:"BUY"`
	// Extra queries the dashboard may request besides the default one.
	Queries []RateQueryConfig `yaml:"queries"`
}

type RateQueryConfig struct {
	Asset string `yaml:"asset"`
	Fiat  string `yaml:"fiat"`
	Side  string `yaml:"side"`
}

type KafkaService struct {
	Enabled bool   `yaml:"enabled" env:"KAFKA_ENABLED"`
	Host    string `yaml:"host" env:"KAFKA_HOST"`
	Port    string `yaml:"port" env:"KAFKA_PORT"`
	Topic   string `yaml:"topic" env:"KAFKA_RATE_TOPIC" env-default:"rate-events"`
}

type Catalog struct {
	Path string `yaml:"path" env:"DASHBOARD_CATALOG_PATH"`
}

func (s HTTPServer) Addr() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

func (s GRPCServer) Addr() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

func (k KafkaService) Brokers() []string {
	return []string{fmt.Sprintf("%s:%s", k.Host, k.Port)}
}

// Load reads the YAML file at path, then applies environment overrides.
func Load(path string) (*DashboardConfig, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	var cfg DashboardConfig
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return &cfg, nil
}

func MustLoad() *DashboardConfig {
	configPath := os.Getenv("DASHBOARD_CONFIG_PATH")
	if configPath == "" {
		log.Fatalf("DASHBOARD_CONFIG_PATH was not found\n")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	return cfg
}
