package usecase

import (
	"fmt"
	"sort"

	"github.com/LavaJover/shvark-dashboard-service/internal/domain"
)

// DefaultModules is the built-in catalog used when no catalog file is configured.
var DefaultModules = []domain.ModuleDescriptor{
	{Key: "dashboard", Label: "Dashboard", Path: "/dashboard", DefaultEnabled: true, DefaultOrder: 0},
	{Key: "flota", Label: "Flota", Path: "/flota", DefaultEnabled: true, DefaultOrder: 1},
	{Key: "personal", Label: "Personal", Path: "/personal", DefaultEnabled: true, DefaultOrder: 2},
	{Key: "taller", Label: "Taller", Path: "/taller", DefaultEnabled: false, DefaultOrder: 3},
	{Key: "almacen", Label: "Almacén", Path: "/almacen", DefaultEnabled: true, DefaultOrder: 4},
}

// ModuleRegistry is the module catalog. It is fixed at construction.
type ModuleRegistry struct {
	modules []domain.ModuleDescriptor
	byKey   map[string]int
}

func NewModuleRegistry(modules []domain.ModuleDescriptor) (*ModuleRegistry, error) {
	if len(modules) == 0 {
		return nil, fmt.Errorf("module registry: empty catalog")
	}

	sorted := make([]domain.ModuleDescriptor, len(modules))
	copy(sorted, modules)
	sortByDefaultOrder(sorted)

	byKey := make(map[string]int, len(sorted))
	for i, m := range sorted {
		if m.Key == "" {
			return nil, fmt.Errorf("module registry: module at order %d has empty key", m.DefaultOrder)
		}
		if _, dup := byKey[m.Key]; dup {
			return nil, fmt.Errorf("module registry: duplicate key %q", m.Key)
		}
		byKey[m.Key] = i
	}

	return &ModuleRegistry{
		modules: sorted,
		byKey:   byKey,
	}, nil
}

func MustNewModuleRegistry(modules []domain.ModuleDescriptor) *ModuleRegistry {
	r, err := NewModuleRegistry(modules)
	if err != nil {
		panic(err)
	}
	return r
}

// All returns the catalog ordered by DefaultOrder.
func (r *ModuleRegistry) All() []domain.ModuleDescriptor {
	out := make([]domain.ModuleDescriptor, len(r.modules))
	copy(out, r.modules)
	return out
}

func (r *ModuleRegistry) Lookup(key string) (domain.ModuleDescriptor, bool) {
	i, ok := r.byKey[key]
	if !ok {
		return domain.ModuleDescriptor{}, false
	}
	return r.modules[i], true
}

func (r *ModuleRegistry) Keys() []string {
	keys := make([]string, len(r.modules))
	for i, m := range r.modules {
		keys[i] = m.Key
	}
	return keys
}

func sortByDefaultOrder(modules []domain.ModuleDescriptor) {
	sort.SliceStable(modules, func(i, j int) bool {
		return modules[i].DefaultOrder < modules[j].DefaultOrder
	})
}
