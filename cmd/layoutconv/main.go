// layoutconv converts an ASCII grid sketch into a layout_list.yaml the
// engine can spawn at boot.
//
// The sketch is a plain text file where each non-space character places one
// building; a legend YAML maps characters to building templates:
//
//	symbols:
//	  - char: "M"
//	    building_id: 1
//	    rotation: 1
//
// Usage:
//
//	go run ./cmd/layoutconv sketch.txt legend.yaml > data/yaml/layout_list.yaml
package main

import (
	"bufio"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/fabgrid/engine/internal/data"
)

type legendSymbol struct {
	Char       string `yaml:"char"`
	BuildingID int32  `yaml:"building_id"`
	Rotation   int    `yaml:"rotation"`
}

type legendFile struct {
	Symbols []legendSymbol `yaml:"symbols"`
}

type layoutOut struct {
	Placements []data.LayoutEntry `yaml:"placements"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "layoutconv: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) != 3 {
		return fmt.Errorf("usage: layoutconv <sketch.txt> <legend.yaml>")
	}
	sketchPath, legendPath := os.Args[1], os.Args[2]

	raw, err := os.ReadFile(legendPath)
	if err != nil {
		return fmt.Errorf("read legend: %w", err)
	}
	var legend legendFile
	if err := yaml.Unmarshal(raw, &legend); err != nil {
		return fmt.Errorf("parse legend: %w", err)
	}
	symbols := make(map[rune]legendSymbol, len(legend.Symbols))
	for _, s := range legend.Symbols {
		runes := []rune(s.Char)
		if len(runes) != 1 {
			return fmt.Errorf("legend char %q must be a single character", s.Char)
		}
		if s.Rotation < 0 || s.Rotation > 3 {
			return fmt.Errorf("legend char %q: rotation %d out of range", s.Char, s.Rotation)
		}
		symbols[runes[0]] = s
	}

	sketch, err := os.Open(sketchPath)
	if err != nil {
		return fmt.Errorf("open sketch: %w", err)
	}
	defer sketch.Close()

	var out layoutOut
	scanner := bufio.NewScanner(sketch)
	y := int32(0)
	for scanner.Scan() {
		for x, ch := range []rune(scanner.Text()) {
			if ch == ' ' || ch == '.' {
				continue
			}
			sym, ok := symbols[ch]
			if !ok {
				return fmt.Errorf("line %d col %d: character %q not in legend", y+1, x+1, ch)
			}
			out.Placements = append(out.Placements, data.LayoutEntry{
				BuildingID: sym.BuildingID,
				X:          int32(x),
				Y:          y,
				Rotation:   sym.Rotation,
			})
		}
		y++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read sketch: %w", err)
	}

	sort.Slice(out.Placements, func(i, j int) bool {
		if out.Placements[i].Y != out.Placements[j].Y {
			return out.Placements[i].Y < out.Placements[j].Y
		}
		return out.Placements[i].X < out.Placements[j].X
	})

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(&out); err != nil {
		return fmt.Errorf("write yaml: %w", err)
	}
	return enc.Close()
}
