package domain

import "github.com/google/uuid"

// DashboardView is the render-ready result of one dashboard composition.
type DashboardView struct {
	UserID        uuid.UUID
	ActiveModules []ModuleDescriptor
	CurrentRate   RateSnapshot
}
