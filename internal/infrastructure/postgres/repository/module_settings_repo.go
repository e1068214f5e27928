package repository

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-dashboard-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-dashboard-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultModuleSettingsRepository struct {
	DB *gorm.DB
}

func NewDefaultModuleSettingsRepository(db *gorm.DB) *DefaultModuleSettingsRepository {
	return &DefaultModuleSettingsRepository{
		DB: db,
	}
}

func (r *DefaultModuleSettingsRepository) GetOverrides(ctx context.Context) (map[string]bool, error) {
	var settings []models.ModuleSettingModel
	if err := r.DB.WithContext(ctx).Find(&settings).Error; err != nil {
		return nil, err
	}
	return mappers.ToDomainOverrides(settings), nil
}

// SetOverride upserts the flag. Concurrent writers race, the last one wins.
func (r *DefaultModuleSettingsRepository) SetOverride(ctx context.Context, key string, enabled bool) error {
	model := mappers.ToGORMModuleSetting(key, enabled, time.Now())
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"enabled", "updated_at"}),
	}).Create(model).Error
}

func (r *DefaultModuleSettingsRepository) DeleteOverride(ctx context.Context, key string) error {
	return r.DB.WithContext(ctx).Delete(&models.ModuleSettingModel{}, "key = ?", key).Error
}
