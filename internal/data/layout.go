package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LayoutEntry is one initial placement from layout_list.yaml.
// Rotation is in clockwise 90-degree steps (0-3).
type LayoutEntry struct {
	BuildingID int32 `yaml:"building_id"`
	X          int32 `yaml:"x"`
	Y          int32 `yaml:"y"`
	Rotation   int   `yaml:"rotation"`
}

type layoutListFile struct {
	Placements []LayoutEntry `yaml:"placements"`
}

// LoadLayout loads the initial world layout from a YAML file.
func LoadLayout(path string) ([]LayoutEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout %s: %w", path, err)
	}
	var file layoutListFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	for _, p := range file.Placements {
		if p.Rotation < 0 || p.Rotation > 3 {
			return nil, fmt.Errorf("placement at (%d,%d): rotation %d out of range", p.X, p.Y, p.Rotation)
		}
	}
	return file.Placements, nil
}
