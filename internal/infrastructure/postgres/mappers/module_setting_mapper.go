package mappers

import (
	"time"

	"github.com/LavaJover/shvark-dashboard-service/internal/infrastructure/postgres/models"
)

func ToGORMModuleSetting(key string, enabled bool, now time.Time) *models.ModuleSettingModel {
	return &models.ModuleSettingModel{
		Key:       key,
		Enabled:   enabled,
		UpdatedAt: now,
	}
}

func ToDomainOverrides(settings []models.ModuleSettingModel) map[string]bool {
	overrides := make(map[string]bool, len(settings))
	for _, s := range settings {
		overrides[s.Key] = s.Enabled
	}
	return overrides
}
