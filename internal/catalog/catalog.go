// Package catalog loads tenant product catalogs from YAML files.
package catalog

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/qualify-cli/internal/model"
)

// File is the on-disk catalog layout.
type File struct {
	TenantID string          `yaml:"tenant_id"`
	Products []model.Product `yaml:"products"`
}

// Load reads a product catalog file. Products with no explicit active flag
// default to active.
func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: read file")
	}

	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, eris.Wrap(err, "catalog: parse yaml")
	}

	// yaml zero-values Active to false; treat an omitted flag as active.
	var probe struct {
		Products []map[string]any `yaml:"products"`
	}
	if err := yaml.Unmarshal(raw, &probe); err == nil {
		for i := range f.Products {
			if i < len(probe.Products) {
				if _, set := probe.Products[i]["active"]; !set {
					f.Products[i].Active = true
				}
			}
		}
	}
	return &f, nil
}
