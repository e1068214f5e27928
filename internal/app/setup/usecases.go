package setup

import (
	"github.com/LavaJover/shvark-dashboard-service/internal/usecase"
	"go.uber.org/zap"
)

type UseCases struct {
	RateCache *usecase.RateCache
	Settings  usecase.SettingsUsecase
	Layout    usecase.LayoutUsecase
	Dashboard usecase.DashboardUsecase
}

func InitializeUseCases(deps *Dependencies) *UseCases {
	opts := []usecase.RateCacheOption{
		usecase.WithRefreshWindow(deps.Config.RateProvider.RefreshWindow),
		usecase.WithCacheLogger(deps.Logger.With(zap.String("component", "rate_cache"))),
		usecase.WithCacheMetrics(deps.Metrics),
		usecase.WithRateListener(deps.Health),
		usecase.WithRateListener(deps.RateHistory),
	}
	if deps.RatePublisher != nil {
		opts = append(opts, usecase.WithRateListener(deps.RatePublisher))
	}
	rateCache := usecase.NewRateCache(deps.RateFetcher, opts...)

	settings := usecase.NewDefaultSettingsUsecase(
		deps.Registry,
		deps.Repositories.SettingsRepo,
		deps.Logger.With(zap.String("component", "settings")),
	)
	layout := usecase.NewDefaultLayoutUsecase(
		deps.Registry,
		deps.Repositories.LayoutRepo,
		deps.Logger.With(zap.String("component", "layout")),
	)

	return &UseCases{
		RateCache: rateCache,
		Settings:  settings,
		Layout:    layout,
		Dashboard: usecase.NewDefaultDashboardUsecase(
			usecase.NewDashboardComposer(deps.Registry, rateCache),
			settings,
			layout,
		),
	}
}
