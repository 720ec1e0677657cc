package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ItemInfo is one item template from item_list.yaml.
type ItemInfo struct {
	ItemID int32  `yaml:"item_id"`
	Name   string `yaml:"name"`
	Kind   string `yaml:"kind"` // acceptor filters and generator fuel match on kind
}

// ItemTable provides item template lookups by ID.
type ItemTable struct {
	items map[int32]*ItemInfo
}

type itemListFile struct {
	Items []ItemInfo `yaml:"items"`
}

// NewItemTable builds a table from in-memory templates (tools, tests).
func NewItemTable(items ...ItemInfo) *ItemTable {
	table := &ItemTable{items: make(map[int32]*ItemInfo, len(items))}
	for i := range items {
		table.items[items[i].ItemID] = &items[i]
	}
	return table
}

// LoadItemTable loads item templates from a YAML file.
func LoadItemTable(path string) (*ItemTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read item list %s: %w", path, err)
	}
	var file itemListFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse item list: %w", err)
	}

	table := &ItemTable{items: make(map[int32]*ItemInfo, len(file.Items))}
	for i := range file.Items {
		it := &file.Items[i]
		if it.ItemID <= 0 {
			return nil, fmt.Errorf("item %q: invalid item_id %d", it.Name, it.ItemID)
		}
		if _, dup := table.items[it.ItemID]; dup {
			return nil, fmt.Errorf("duplicate item_id %d", it.ItemID)
		}
		table.items[it.ItemID] = it
	}
	return table, nil
}

func (t *ItemTable) Get(id int32) *ItemInfo {
	return t.items[id]
}

// KindOf returns the item kind, or "" for an unknown ID.
func (t *ItemTable) KindOf(id int32) string {
	if it := t.items[id]; it != nil {
		return it.Kind
	}
	return ""
}

func (t *ItemTable) Count() int {
	return len(t.items)
}
