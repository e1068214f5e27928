package usecase

import (
	"context"

	"github.com/LavaJover/shvark-dashboard-service/internal/domain"
	"github.com/google/uuid"
)

type RateSource interface {
	Get(ctx context.Context, query domain.RateQuery) domain.RateSnapshot
}

// DashboardComposer assembles the view for one page render.
type DashboardComposer struct {
	registry *ModuleRegistry
	settings *SettingsResolver
	layout   *LayoutOrderStore
	rates    RateSource
}

func NewDashboardComposer(registry *ModuleRegistry, rates RateSource) *DashboardComposer {
	return &DashboardComposer{
		registry: registry,
		settings: NewSettingsResolver(registry),
		layout:   NewLayoutOrderStore(),
		rates:    rates,
	}
}

// Compose never fails. A rate that was never fetched is reported as
// domain.RateNotAvailable.
func (c *DashboardComposer) Compose(
	ctx context.Context,
	userID uuid.UUID,
	persistedSettings map[string]bool,
	persistedOrder []string,
	query domain.RateQuery,
) domain.DashboardView {
	effective := c.settings.Resolve(persistedSettings)
	order := c.layout.ResolveOrder(persistedOrder, c.registry.All())

	active := make([]domain.ModuleDescriptor, 0, len(order))
	for _, key := range order {
		if !effective.Enabled(key) {
			continue
		}
		m, _ := c.registry.Lookup(key)
		active = append(active, m)
	}

	return domain.DashboardView{
		UserID:        userID,
		ActiveModules: active,
		CurrentRate:   c.rates.Get(ctx, query),
	}
}

type DashboardUsecase interface {
	Render(ctx context.Context, userID uuid.UUID, query domain.RateQuery) domain.DashboardView
}

type DefaultDashboardUsecase struct {
	composer *DashboardComposer
	settings SettingsUsecase
	layout   LayoutUsecase
}

func NewDefaultDashboardUsecase(composer *DashboardComposer, settings SettingsUsecase, layout LayoutUsecase) *DefaultDashboardUsecase {
	return &DefaultDashboardUsecase{
		composer: composer,
		settings: settings,
		layout:   layout,
	}
}

// Render reads the persisted settings and order, then composes. Storage
// failures degrade to catalog defaults inside the settings and layout usecases.
func (uc *DefaultDashboardUsecase) Render(ctx context.Context, userID uuid.UUID, query domain.RateQuery) domain.DashboardView {
	return uc.composer.Compose(
		ctx,
		userID,
		uc.settings.Overrides(ctx),
		uc.layout.PersistedOrder(ctx, userID),
		query,
	)
}
