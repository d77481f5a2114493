package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Catalog describes the fixed choice sets presented during collection:
// the container quick-reply keyboard and the closed acrylic index set.
type Catalog struct {
	// ContainerRows are the quick-reply keyboard rows for the container
	// stage. Every entry is a valid container answer.
	ContainerRows [][]string `yaml:"containers"`

	// SubItemCount is the size of the closed acrylic catalog. Indices
	// outside [1, SubItemCount] are dropped during selection parsing.
	SubItemCount int `yaml:"subItemCount"`

	// MaxPhotosPerItem caps the photo sequence per acrylic.
	MaxPhotosPerItem int `yaml:"maxPhotosPerItem"`
}

// DefaultCatalog returns the catalog the original bot shipped with:
// containers CAJA A..H in two rows, nine acrylics, five photos each.
func DefaultCatalog() Catalog {
	return Catalog{
		ContainerRows: [][]string{
			{"CAJA A", "CAJA B", "CAJA C", "CAJA D"},
			{"CAJA E", "CAJA F", "CAJA G", "CAJA H"},
		},
		SubItemCount:     9,
		MaxPhotosPerItem: 5,
	}
}

// LoadCatalog reads a catalog from a YAML file. Missing fields fall back
// to the defaults, so a file may override only the container rows.
func LoadCatalog(path string) (Catalog, error) {
	cat := DefaultCatalog()

	data, err := os.ReadFile(path)
	if err != nil {
		return cat, fmt.Errorf("read catalog file: %w", err)
	}

	var override Catalog
	if err := yaml.Unmarshal(data, &override); err != nil {
		return cat, fmt.Errorf("parse catalog file: %w", err)
	}

	if len(override.ContainerRows) > 0 {
		cat.ContainerRows = override.ContainerRows
	}
	if override.SubItemCount > 0 {
		cat.SubItemCount = override.SubItemCount
	}
	if override.MaxPhotosPerItem > 0 {
		cat.MaxPhotosPerItem = override.MaxPhotosPerItem
	}

	return cat, nil
}

// ContainerChoices flattens the keyboard rows into the set of valid
// container answers.
func (c Catalog) ContainerChoices() []string {
	var choices []string
	for _, row := range c.ContainerRows {
		choices = append(choices, row...)
	}
	return choices
}
