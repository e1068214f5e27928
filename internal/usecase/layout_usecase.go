package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/LavaJover/shvark-dashboard-service/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LayoutOrderStore merges a persisted card order with the current catalog.
type LayoutOrderStore struct{}

func NewLayoutOrderStore() *LayoutOrderStore {
	return &LayoutOrderStore{}
}

// ResolveOrder keeps the persisted keys that are still registered, in their
// persisted order, then appends the registered keys the order does not know
// about by DefaultOrder. Every registered key appears exactly once.
func (s *LayoutOrderStore) ResolveOrder(persisted []string, registry []domain.ModuleDescriptor) []string {
	known := make(map[string]bool, len(registry))
	for _, m := range registry {
		known[m.Key] = true
	}

	out := make([]string, 0, len(registry))
	seen := make(map[string]bool, len(registry))
	for _, key := range persisted {
		if !known[key] || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}

	missing := make([]domain.ModuleDescriptor, 0, len(registry)-len(out))
	for _, m := range registry {
		if !seen[m.Key] {
			missing = append(missing, m)
		}
	}
	sortByDefaultOrder(missing)
	for _, m := range missing {
		out = append(out, m.Key)
	}
	return out
}

type LayoutUsecase interface {
	PersistedOrder(ctx context.Context, userID uuid.UUID) []string
	ResolvedOrder(ctx context.Context, userID uuid.UUID) []string
	SaveOrder(ctx context.Context, userID uuid.UUID, keys []string) error
	ResetOrder(ctx context.Context, userID uuid.UUID) error
}

type DefaultLayoutUsecase struct {
	store    *LayoutOrderStore
	registry *ModuleRegistry
	repo     domain.LayoutOrderRepository
	logger   *zap.Logger
}

func NewDefaultLayoutUsecase(registry *ModuleRegistry, repo domain.LayoutOrderRepository, logger *zap.Logger) *DefaultLayoutUsecase {
	return &DefaultLayoutUsecase{
		store:    NewLayoutOrderStore(),
		registry: registry,
		repo:     repo,
		logger:   logger,
	}
}

// PersistedOrder returns the user's order, else the system default order,
// else nil. Storage failures are logged and treated as "no order".
func (uc *DefaultLayoutUsecase) PersistedOrder(ctx context.Context, userID uuid.UUID) []string {
	scopes := []uuid.UUID{userID}
	if userID != domain.SystemScope {
		scopes = append(scopes, domain.SystemScope)
	}

	for _, scope := range scopes {
		order, err := uc.repo.GetOrder(ctx, scope)
		if errors.Is(err, domain.ErrLayoutNotFound) {
			continue
		}
		if err != nil {
			uc.logger.Warn("layout order unavailable, using catalog order",
				zap.String("user_id", scope.String()),
				zap.Error(err),
			)
			return nil
		}
		return order.Keys
	}
	return nil
}

func (uc *DefaultLayoutUsecase) ResolvedOrder(ctx context.Context, userID uuid.UUID) []string {
	return uc.store.ResolveOrder(uc.PersistedOrder(ctx, userID), uc.registry.All())
}

// SaveOrder replaces the whole order of the user. Keys must be registered and
// unique; registered keys missing from the list are appended on read.
func (uc *DefaultLayoutUsecase) SaveOrder(ctx context.Context, userID uuid.UUID, keys []string) error {
	seen := make(map[string]bool, len(keys))
	for _, key := range keys {
		if _, ok := uc.registry.Lookup(key); !ok {
			return fmt.Errorf("%w: unknown module %q", domain.ErrInvalidLayout, key)
		}
		if seen[key] {
			return fmt.Errorf("%w: duplicate module %q", domain.ErrInvalidLayout, key)
		}
		seen[key] = true
	}

	order := &domain.LayoutOrder{
		UserID: userID,
		Keys:   append([]string(nil), keys...),
	}
	if err := uc.repo.SaveOrder(ctx, order); err != nil {
		return fmt.Errorf("save layout order: %w", err)
	}
	return nil
}

func (uc *DefaultLayoutUsecase) ResetOrder(ctx context.Context, userID uuid.UUID) error {
	if err := uc.repo.DeleteOrder(ctx, userID); err != nil && !errors.Is(err, domain.ErrLayoutNotFound) {
		return fmt.Errorf("reset layout order: %w", err)
	}
	return nil
}
