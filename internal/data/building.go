package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fabgrid/engine/internal/geom"
)

// EjectorDef is one output slot in building-local space, pre-rotation.
type EjectorDef struct {
	X         int32  `yaml:"x"`
	Y         int32  `yaml:"y"`
	Direction string `yaml:"direction"`
}

// AcceptorDef is one input slot in building-local space, pre-rotation.
// Sides lists the local sides items may arrive from; Filter restricts the
// accepted item kind ("" = any).
type AcceptorDef struct {
	X      int32    `yaml:"x"`
	Y      int32    `yaml:"y"`
	Sides  []string `yaml:"sides"`
	Filter string   `yaml:"filter"`
}

// BuildingInfo is one building template from building_list.yaml. The
// capability fields mirror the receiver kinds the transfer dispatcher knows:
// belt, storage, processor, underground belt, generator. A template may also
// be a source, which periodically loads an item into its own ejector slots.
type BuildingInfo struct {
	BuildingID int32  `yaml:"building_id"`
	Name       string `yaml:"name"`
	Width      int32  `yaml:"width"`
	Height     int32  `yaml:"height"`

	Ejectors  []EjectorDef  `yaml:"ejectors"`
	Acceptors []AcceptorDef `yaml:"acceptors"`

	Belt            bool   `yaml:"belt"`
	StorageCapacity int32  `yaml:"storage_capacity"`
	Processor       bool   `yaml:"processor"`
	UndergroundTier int    `yaml:"underground_tier"`
	GeneratorFuel   string `yaml:"generator_fuel"` // item kind consumed, "" = not a generator

	SourceItem     int32 `yaml:"source_item"`
	SourceInterval int   `yaml:"source_interval_ticks"`
}

// BuildingTable provides building template lookups by ID.
type BuildingTable struct {
	buildings map[int32]*BuildingInfo
}

type buildingListFile struct {
	Buildings []BuildingInfo `yaml:"buildings"`
}

// LoadBuildingTable loads building templates from a YAML file and validates
// slot geometry against the footprint.
func LoadBuildingTable(path string) (*BuildingTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read building list %s: %w", path, err)
	}
	var file buildingListFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse building list: %w", err)
	}

	table := &BuildingTable{buildings: make(map[int32]*BuildingInfo, len(file.Buildings))}
	for i := range file.Buildings {
		b := &file.Buildings[i]
		if err := validateBuilding(b); err != nil {
			return nil, fmt.Errorf("building %q: %w", b.Name, err)
		}
		if _, dup := table.buildings[b.BuildingID]; dup {
			return nil, fmt.Errorf("duplicate building_id %d", b.BuildingID)
		}
		table.buildings[b.BuildingID] = b
	}
	return table, nil
}

func validateBuilding(b *BuildingInfo) error {
	if b.BuildingID <= 0 {
		return fmt.Errorf("invalid building_id %d", b.BuildingID)
	}
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("invalid footprint %dx%d", b.Width, b.Height)
	}
	for _, e := range b.Ejectors {
		if e.X < 0 || e.X >= b.Width || e.Y < 0 || e.Y >= b.Height {
			return fmt.Errorf("ejector slot (%d,%d) outside footprint", e.X, e.Y)
		}
		if _, ok := geom.ParseDirection(e.Direction); !ok {
			return fmt.Errorf("ejector slot (%d,%d): bad direction %q", e.X, e.Y, e.Direction)
		}
	}
	for _, a := range b.Acceptors {
		if a.X < 0 || a.X >= b.Width || a.Y < 0 || a.Y >= b.Height {
			return fmt.Errorf("acceptor slot (%d,%d) outside footprint", a.X, a.Y)
		}
		if len(a.Sides) == 0 {
			return fmt.Errorf("acceptor slot (%d,%d): no sides", a.X, a.Y)
		}
		for _, s := range a.Sides {
			if _, ok := geom.ParseDirection(s); !ok {
				return fmt.Errorf("acceptor slot (%d,%d): bad side %q", a.X, a.Y, s)
			}
		}
	}
	if b.SourceItem != 0 && len(b.Ejectors) == 0 {
		return fmt.Errorf("source building without ejector slots")
	}
	return nil
}

func (t *BuildingTable) Get(id int32) *BuildingInfo {
	return t.buildings[id]
}

func (t *BuildingTable) Count() int {
	return len(t.buildings)
}
