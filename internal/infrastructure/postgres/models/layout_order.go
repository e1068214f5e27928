package models

import (
	"time"

	"github.com/google/uuid"
)

// LayoutOrderModel keeps the whole order of one scope in a single jsonb row,
// so a save replaces the list in one statement.
type LayoutOrderModel struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Keys      []string  `gorm:"type:jsonb;serializer:json;not null"`
	UpdatedAt time.Time
}

func (LayoutOrderModel) TableName() string {
	return "layout_orders"
}
