package usecase

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-dashboard-service/internal/domain"
	"go.uber.org/zap"
)

// SettingsResolver layers persisted overrides over the catalog defaults.
type SettingsResolver struct {
	registry *ModuleRegistry
}

func NewSettingsResolver(registry *ModuleRegistry) *SettingsResolver {
	return &SettingsResolver{registry: registry}
}

// Resolve yields one flag per registered module. Overrides for keys that are
// not in the registry are dropped.
func (r *SettingsResolver) Resolve(overrides map[string]bool) domain.EffectiveSettings {
	modules := r.registry.All()
	effective := make(domain.EffectiveSettings, len(modules))
	for _, m := range modules {
		enabled, ok := overrides[m.Key]
		if !ok {
			enabled = m.DefaultEnabled
		}
		effective[m.Key] = enabled
	}
	return effective
}

type SettingsUsecase interface {
	Overrides(ctx context.Context) map[string]bool
	EffectiveSettings(ctx context.Context) domain.EffectiveSettings
	SetModuleEnabled(ctx context.Context, key string, enabled bool) error
	ResetModule(ctx context.Context, key string) error
}

type DefaultSettingsUsecase struct {
	resolver *SettingsResolver
	registry *ModuleRegistry
	repo     domain.ModuleSettingsRepository
	logger   *zap.Logger
}

func NewDefaultSettingsUsecase(registry *ModuleRegistry, repo domain.ModuleSettingsRepository, logger *zap.Logger) *DefaultSettingsUsecase {
	return &DefaultSettingsUsecase{
		resolver: NewSettingsResolver(registry),
		registry: registry,
		repo:     repo,
		logger:   logger,
	}
}

// EffectiveSettings falls back to catalog defaults when the store is unreachable.
func (uc *DefaultSettingsUsecase) EffectiveSettings(ctx context.Context) domain.EffectiveSettings {
	return uc.resolver.Resolve(uc.Overrides(ctx))
}

// Overrides returns the persisted flags, or nil when the store is unreachable.
func (uc *DefaultSettingsUsecase) Overrides(ctx context.Context) map[string]bool {
	overrides, err := uc.repo.GetOverrides(ctx)
	if err != nil {
		uc.logger.Warn("module settings unavailable, using defaults", zap.Error(err))
		return nil
	}
	return overrides
}

func (uc *DefaultSettingsUsecase) SetModuleEnabled(ctx context.Context, key string, enabled bool) error {
	if _, ok := uc.registry.Lookup(key); !ok {
		return fmt.Errorf("set module %q: %w", key, domain.ErrUnknownModule)
	}
	if err := uc.repo.SetOverride(ctx, key, enabled); err != nil {
		return fmt.Errorf("set module %q: %w", key, err)
	}
	uc.logger.Info("module setting changed", zap.String("module", key), zap.Bool("enabled", enabled))
	return nil
}

func (uc *DefaultSettingsUsecase) ResetModule(ctx context.Context, key string) error {
	if _, ok := uc.registry.Lookup(key); !ok {
		return fmt.Errorf("reset module %q: %w", key, domain.ErrUnknownModule)
	}
	return uc.repo.DeleteOverride(ctx, key)
}
