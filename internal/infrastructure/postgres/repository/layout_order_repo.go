package repository

import (
	"context"
	"errors"
	"time"

	"github.com/LavaJover/shvark-dashboard-service/internal/domain"
	"github.com/LavaJover/shvark-dashboard-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-dashboard-service/internal/infrastructure/postgres/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultLayoutOrderRepository struct {
	DB *gorm.DB
}

func NewDefaultLayoutOrderRepository(db *gorm.DB) *DefaultLayoutOrderRepository {
	return &DefaultLayoutOrderRepository{
		DB: db,
	}
}

func (r *DefaultLayoutOrderRepository) GetOrder(ctx context.Context, userID uuid.UUID) (*domain.LayoutOrder, error) {
	var model models.LayoutOrderModel
	if err := r.DB.WithContext(ctx).First(&model, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLayoutNotFound
		}
		return nil, err
	}
	return mappers.ToDomainLayoutOrder(&model), nil
}

// SaveOrder replaces the whole list of the scope in one upsert.
func (r *DefaultLayoutOrderRepository) SaveOrder(ctx context.Context, order *domain.LayoutOrder) error {
	model := mappers.ToGORMLayoutOrder(order, time.Now())
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"keys", "updated_at"}),
	}).Create(model).Error
}

func (r *DefaultLayoutOrderRepository) DeleteOrder(ctx context.Context, userID uuid.UUID) error {
	res := r.DB.WithContext(ctx).Delete(&models.LayoutOrderModel{}, "user_id = ?", userID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrLayoutNotFound
	}
	return nil
}
