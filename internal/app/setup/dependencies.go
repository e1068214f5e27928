package setup

import (
	"fmt"
	"strings"

	"github.com/LavaJover/shvark-dashboard-service/internal/config"
	"github.com/LavaJover/shvark-dashboard-service/internal/delivery/grpcapi"
	"github.com/LavaJover/shvark-dashboard-service/internal/domain"
	"github.com/LavaJover/shvark-dashboard-service/internal/infrastructure/binance"
	"github.com/LavaJover/shvark-dashboard-service/internal/infrastructure/catalog"
	"github.com/LavaJover/shvark-dashboard-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-dashboard-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-dashboard-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-dashboard-service/internal/infrastructure/migrate"
	"github.com/LavaJover/shvark-dashboard-service/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-dashboard-service/internal/infrastructure/postgres/repository"
	"github.com/LavaJover/shvark-dashboard-service/internal/usecase"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config          *config.DashboardConfig
	Logger          *zap.Logger
	DB              *gorm.DB
	Registry        *usecase.ModuleRegistry
	RateFetcher     domain.RateFetcher
	DefaultQuery    domain.RateQuery
	Queries         []domain.RateQuery
	Metrics         *metrics.RateMetrics
	MetricsRegistry *prometheus.Registry
	Health          *grpcapi.RateHealth
	RateHistory     *logger.PGRateEventLogger
	KafkaPublisher  *publisher.DefaultKafkaPublisher
	RatePublisher   *publisher.RatePublisher
	Repositories    *Repositories
}

type Repositories struct {
	SettingsRepo domain.ModuleSettingsRepository
	LayoutRepo   domain.LayoutOrderRepository
}

func InitializeDependencies(cfg *config.DashboardConfig, log *zap.Logger) (*Dependencies, error) {
	defaultQuery, err := defaultRateQuery(cfg)
	if err != nil {
		return nil, fmt.Errorf("rate provider: %w", err)
	}

	queries, err := servedRateQueries(cfg, defaultQuery)
	if err != nil {
		return nil, fmt.Errorf("rate provider queries: %w", err)
	}

	registry, err := initRegistry(cfg)
	if err != nil {
		return nil, fmt.Errorf("module catalog: %w", err)
	}

	db := postgres.MustInitDB(cfg)
	if err := migrate.RunMigrations(db, cfg.DashboardDB.MigrationsPath, log); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	provider := binance.NewP2PProvider(
		binance.WithBaseURL(cfg.RateProvider.BaseURL),
		binance.WithTimeout(cfg.RateProvider.Timeout),
	)

	deps := &Dependencies{
		Config:          cfg,
		Logger:          log,
		DB:              db,
		Registry:        registry,
		RateFetcher:     binance.NewLoggingFetcher(log.With(zap.String("component", "rate_fetcher")), provider),
		DefaultQuery:    defaultQuery,
		Queries:         queries,
		Metrics:         metrics.NewRateMetrics(reg),
		MetricsRegistry: reg,
		Health:          grpcapi.NewRateHealth(),
		RateHistory:     logger.NewPGRateEventLogger(db, log.With(zap.String("component", "rate_history"))),
		Repositories: &Repositories{
			SettingsRepo: repository.NewDefaultModuleSettingsRepository(db),
			LayoutRepo:   repository.NewDefaultLayoutOrderRepository(db),
		},
	}

	if cfg.KafkaService.Enabled {
		deps.KafkaPublisher = publisher.NewDefaultKafkaPublisher(cfg.KafkaService.Brokers(), log.With(zap.String("component", "kafka")))
		deps.RatePublisher, err = publisher.NewRatePublisher(deps.KafkaPublisher, cfg.KafkaService.Topic, log)
		if err != nil {
			return nil, fmt.Errorf("rate publisher: %w", err)
		}
	}

	return deps, nil
}

func initRegistry(cfg *config.DashboardConfig) (*usecase.ModuleRegistry, error) {
	if cfg.Catalog.Path == "" {
		return usecase.NewModuleRegistry(usecase.DefaultModules)
	}
	modules, err := catalog.LoadFile(cfg.Catalog.Path)
	if err != nil {
		return nil, err
	}
	return usecase.NewModuleRegistry(modules)
}

func defaultRateQuery(cfg *config.DashboardConfig) (domain.RateQuery, error) {
	side, err := domain.ParseTradeSide(cfg.RateProvider.Side)
	if err != nil {
		return domain.RateQuery{}, err
	}
	return domain.RateQuery{
		Asset: strings.ToUpper(cfg.RateProvider.Asset),
		Fiat:  strings.ToUpper(cfg.RateProvider.Fiat),
		Side:  side,
	}, nil
}

// servedRateQueries returns the default query followed by the configured
// extra queries, without duplicates.
func servedRateQueries(cfg *config.DashboardConfig, defaultQuery domain.RateQuery) ([]domain.RateQuery, error) {
	queries := []domain.RateQuery{defaultQuery}
	seen := map[string]struct{}{defaultQuery.CacheKey(): {}}

	for _, q := range cfg.RateProvider.Queries {
		side, err := domain.ParseTradeSide(q.Side)
		if err != nil {
			return nil, err
		}
		if q.Asset == "" || q.Fiat == "" {
			return nil, fmt.Errorf("query %s/%s: asset and fiat are required", q.Asset, q.Fiat)
		}
		query := domain.RateQuery{
			Asset: strings.ToUpper(q.Asset),
			Fiat:  strings.ToUpper(q.Fiat),
			Side:  side,
		}
		if _, ok := seen[query.CacheKey()]; ok {
			continue
		}
		seen[query.CacheKey()] = struct{}{}
		queries = append(queries, query)
	}
	return queries, nil
}

// Close releases what InitializeDependencies opened.
func (d *Dependencies) Close() error {
	if d.KafkaPublisher != nil {
		if err := d.KafkaPublisher.Close(); err != nil {
			d.Logger.Warn("failed to close kafka writer", zap.Error(err))
		}
	}
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
