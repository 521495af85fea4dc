package entities

import (
	"encoding/json"
	"fmt"
)

// ItemType is the equipment category of an item. An entity holds at most one
// equipped item per category.
type ItemType string

// Item categories
const (
	ItemTypeWeapon     ItemType = "Weapon"
	ItemTypeArmor      ItemType = "Armor"
	ItemTypeConsumable ItemType = "Consumable"
)

// String returns the string representation of the item type
func (t ItemType) String() string {
	return string(t)
}

// IsValid checks if the item type is one of the known categories
func (t ItemType) IsValid() bool {
	switch t {
	case ItemTypeWeapon, ItemTypeArmor, ItemTypeConsumable:
		return true
	default:
		return false
	}
}

// UnmarshalJSON rejects unknown categories
func (t *ItemType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if !ItemType(s).IsValid() {
		return fmt.Errorf("unknown item type %q", s)
	}
	*t = ItemType(s)
	return nil
}

// Item is a catalog item definition. Items are values: adding one to an
// inventory stores a copy, and membership is decided by ID.
type Item struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	ItemType    ItemType `json:"item_type"`
	// StatModifier is added to the holder's stats while the item is equipped.
	StatModifier Stats `json:"stat_modifier"`
}

// String renders a one-line summary for listings
func (i Item) String() string {
	return fmt.Sprintf("ID: %d, Name: %s (%s)", i.ID, i.Name, i.ItemType)
}
