// Package catalog loads the dashboard module catalog from HCL.
//
//	module "taller" {
//	  label   = "Taller"
//	  path    = "/taller"
//	  enabled = false
//	  order   = 3
//	}
//
// enabled defaults to true. order defaults to the block position.
package catalog

import (
	"fmt"

	"github.com/LavaJover/shvark-dashboard-service/internal/domain"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

type hclCatalogFile struct {
	Modules []*hclModule `hcl:"module,block"`
}

type hclModule struct {
	Key     string `hcl:"key,label"`
	Label   string `hcl:"label"`
	Path    string `hcl:"path"`
	Enabled *bool  `hcl:"enabled,optional"`
	Order   *int   `hcl:"order,optional"`
}

// LoadFile parses the catalog at path.
func LoadFile(path string) ([]domain.ModuleDescriptor, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, diags)
	}
	return decode(file.Body, path)
}

// Parse reads a catalog from src. filename is only used in diagnostics.
func Parse(src []byte, filename string) ([]domain.ModuleDescriptor, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", filename, diags)
	}
	return decode(file.Body, filename)
}

func decode(body hcl.Body, filename string) ([]domain.ModuleDescriptor, error) {
	var parsed hclCatalogFile
	if diags := gohcl.DecodeBody(body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode catalog %s: %w", filename, diags)
	}
	if len(parsed.Modules) == 0 {
		return nil, fmt.Errorf("catalog %s declares no modules", filename)
	}

	modules := make([]domain.ModuleDescriptor, 0, len(parsed.Modules))
	for i, m := range parsed.Modules {
		d := domain.ModuleDescriptor{
			Key:            m.Key,
			Label:          m.Label,
			Path:           m.Path,
			DefaultEnabled: true,
			DefaultOrder:   i,
		}
		if m.Enabled != nil {
			d.DefaultEnabled = *m.Enabled
		}
		if m.Order != nil {
			d.DefaultOrder = *m.Order
		}
		modules = append(modules, d)
	}
	return modules, nil
}
