package entities

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/ultima-end/internal/errors"
)

// Id ranges. Ids below PlayerIDLimit are playable characters, ids in
// [PlayerIDLimit, EnemyIDStart) are character-creation templates, and everything
// from EnemyIDStart up is an enemy.
const (
	PlayerIDLimit = 100
	EnemyIDStart  = 1000
)

// Entity types reported through core.Entity
const (
	TypePlayer = "player"
	TypeEnemy  = "enemy"
)

// IsPlayerClass reports whether id belongs to the player side
func IsPlayerClass(id int) bool {
	return id < EnemyIDStart
}

// IsTemplate reports whether id is a character-creation template
func IsTemplate(id int) bool {
	return id >= PlayerIDLimit && id < EnemyIDStart
}

// Entity is a combatant. Stats always equal the base stats plus the modifiers of
// everything in Equipment; equipping and unequipping keep that true by removing
// every equipment modifier, changing the equipment, and applying them all again.
type Entity struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Stats     Stats   `json:"stats"`
	Inventory []Item  `json:"inventory"`
	Equipment []Item  `json:"equipment"`
	Skills    []Skill `json:"skills"`
}

// New creates an entity with zeroed stats and nothing carried
func New(id int, name string) *Entity {
	return &Entity{
		ID:        id,
		Name:      name,
		Inventory: []Item{},
		Equipment: []Item{},
		Skills:    []Skill{},
	}
}

var _ core.Entity = (*Entity)(nil)

// GetID returns the entity id for rpg-toolkit
func (e *Entity) GetID() string {
	return strconv.Itoa(e.ID)
}

// GetType returns the entity type for rpg-toolkit
func (e *Entity) GetType() string {
	if IsPlayerClass(e.ID) {
		return TypePlayer
	}
	return TypeEnemy
}

// IsAlive reports whether hp is above zero
func (e *Entity) IsAlive() bool {
	return e.Stats.HP > 0
}

// Clone returns a deep copy
func (e *Entity) Clone() *Entity {
	c := *e
	c.Inventory = slices.Clone(e.Inventory)
	c.Equipment = slices.Clone(e.Equipment)
	c.Skills = slices.Clone(e.Skills)
	return &c
}

// DamageRoll returns attack plus a uniform roll in [0, skill.Power). A skill
// without power deals exactly the attack stat and does not touch the roller.
func (e *Entity) DamageRoll(roller dice.Roller, skill Skill) (int, error) {
	if skill.Power <= 0 {
		return e.Stats.Attack, nil
	}

	roll, err := roller.Roll(skill.Power)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to roll d%d", skill.Power)
	}

	return e.Stats.Attack + roll - 1, nil
}

// AddItem puts a copy of item in the inventory
func (e *Entity) AddItem(item Item) {
	e.Inventory = append(e.Inventory, item)
}

// EquipItem moves one copy of the item out of the inventory and into the
// equipment. The entity is left untouched when the item is not carried, is
// already equipped, or its category slot is taken.
func (e *Entity) EquipItem(itemID int) error {
	idx := indexOf(e.Inventory, itemID)
	if idx < 0 {
		return errors.NotFoundf("item %d is not in the inventory of %s", itemID, e.Name).
			WithMeta("item_id", itemID)
	}
	if indexOf(e.Equipment, itemID) >= 0 {
		return errors.AlreadyExistsf("%s is already equipped", e.Inventory[idx].Name).
			WithMeta("item_id", itemID)
	}

	item := e.Inventory[idx]
	if taken, ok := e.equippedIn(item.ItemType); ok {
		return errors.FailedPreconditionf("%s slot is taken by %s", item.ItemType, taken.Name).
			WithMeta("item_id", itemID)
	}

	e.reconcile(func() {
		e.Inventory = append(e.Inventory[:idx:idx], e.Inventory[idx+1:]...)
		e.Equipment = append(e.Equipment, item)
	})

	return nil
}

// UnequipItem moves an equipped item back into the inventory
func (e *Entity) UnequipItem(itemID int) error {
	idx := indexOf(e.Equipment, itemID)
	if idx < 0 {
		return errors.NotFoundf("item %d is not equipped by %s", itemID, e.Name).
			WithMeta("item_id", itemID)
	}

	item := e.Equipment[idx]
	e.reconcile(func() {
		e.Equipment = append(e.Equipment[:idx:idx], e.Equipment[idx+1:]...)
	})
	e.Inventory = append(e.Inventory, item)

	return nil
}

// GetSkill returns the skill at a zero-based position
func (e *Entity) GetSkill(index int) (Skill, error) {
	if index < 0 || index >= len(e.Skills) {
		return Skill{}, errors.OutOfRangef("%s has no skill #%d", e.Name, index+1)
	}
	return e.Skills[index], nil
}

// GetItem returns the first inventory item with the id
func (e *Entity) GetItem(itemID int) (Item, error) {
	idx := indexOf(e.Inventory, itemID)
	if idx < 0 {
		return Item{}, errors.NotFoundf("item %d is not in the inventory of %s", itemID, e.Name)
	}
	return e.Inventory[idx], nil
}

// GetEquipment returns the equipped item with the id
func (e *Entity) GetEquipment(itemID int) (Item, error) {
	idx := indexOf(e.Equipment, itemID)
	if idx < 0 {
		return Item{}, errors.NotFoundf("item %d is not equipped by %s", itemID, e.Name)
	}
	return e.Equipment[idx], nil
}

// reconcile strips every equipment modifier, runs mutate, then applies the
// modifiers of whatever is equipped afterwards.
func (e *Entity) reconcile(mutate func()) {
	for _, item := range e.Equipment {
		e.Stats.RemoveModifier(item.StatModifier)
	}
	mutate()
	for _, item := range e.Equipment {
		e.Stats.ApplyModifier(item.StatModifier)
	}
}

func (e *Entity) equippedIn(itemType ItemType) (Item, bool) {
	for _, item := range e.Equipment {
		if item.ItemType == itemType {
			return item, true
		}
	}
	return Item{}, false
}

func indexOf(items []Item, itemID int) int {
	for i, item := range items {
		if item.ID == itemID {
			return i
		}
	}
	return -1
}

// String renders name and stats
func (e *Entity) String() string {
	return fmt.Sprintf("Name: %s\n%s", e.Name, e.Stats)
}

// InventoryString lists carried items, one per line
func (e *Entity) InventoryString() string {
	return listItems(e.Inventory, "Inventory is empty.")
}

// EquipmentString lists equipped items, one per line
func (e *Entity) EquipmentString() string {
	return listItems(e.Equipment, "Nothing equipped.")
}

// SkillsString lists skills numbered from 1, the numbering the attack command takes
func (e *Entity) SkillsString() string {
	if len(e.Skills) == 0 {
		return "No skills."
	}
	var sb strings.Builder
	for i, skill := range e.Skills {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%d. %s (power %d, cost %d)", i+1, skill.Name, skill.Power, skill.Cost)
	}
	return sb.String()
}

func listItems(items []Item, empty string) string {
	if len(items) == 0 {
		return empty
	}
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = item.String()
	}
	return strings.Join(lines, "\n")
}
