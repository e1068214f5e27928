package domain

import (
	"context"

	"github.com/google/uuid"
)

// ModuleDescriptor is one entry of the dashboard module catalog.
type ModuleDescriptor struct {
	Key            string `json:"key"`
	Label          string `json:"label"`
	Path           string `json:"path"`
	DefaultEnabled bool   `json:"defaultEnabled"`
	DefaultOrder   int    `json:"defaultOrder"`
}

// EffectiveSettings holds exactly one flag per registered module key.
type EffectiveSettings map[string]bool

func (s EffectiveSettings) Enabled(key string) bool {
	return s[key]
}

// SystemScope is the owner of the default layout order.
var SystemScope = uuid.Nil

type LayoutOrder struct {
	UserID uuid.UUID
	Keys   []string
}

type ModuleSettingsRepository interface {
	GetOverrides(ctx context.Context) (map[string]bool, error)
	SetOverride(ctx context.Context, key string, enabled bool) error
	DeleteOverride(ctx context.Context, key string) error
}

// LayoutOrderRepository stores whole orders. SaveOrder replaces the list in
// one write.
type LayoutOrderRepository interface {
	GetOrder(ctx context.Context, userID uuid.UUID) (*LayoutOrder, error)
	SaveOrder(ctx context.Context, order *LayoutOrder) error
	DeleteOrder(ctx context.Context, userID uuid.UUID) error
}
