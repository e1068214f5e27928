package mappers

import (
	"time"

	"github.com/LavaJover/shvark-dashboard-service/internal/domain"
	"github.com/LavaJover/shvark-dashboard-service/internal/infrastructure/postgres/models"
)

func ToGORMLayoutOrder(order *domain.LayoutOrder, now time.Time) *models.LayoutOrderModel {
	keys := order.Keys
	if keys == nil {
		keys = []string{}
	}
	return &models.LayoutOrderModel{
		UserID:    order.UserID,
		Keys:      append([]string{}, keys...),
		UpdatedAt: now,
	}
}

func ToDomainLayoutOrder(model *models.LayoutOrderModel) *domain.LayoutOrder {
	return &domain.LayoutOrder{
		UserID: model.UserID,
		Keys:   append([]string(nil), model.Keys...),
	}
}
