// Package catalog loads the static entity, item, and skill definitions
package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/KirkDiggler/ultima-end/internal/entities"
	"github.com/KirkDiggler/ultima-end/internal/errors"
)

// Default file names inside an assets directory
const (
	EntitiesFile = "entities.json"
	ItemsFile    = "items.json"
	SkillsFile   = "skills.json"
)

// Catalog is the load-time set of definitions. Entities have their item and
// skill references resolved and their equipment applied to their stats.
type Catalog struct {
	Entities []*entities.Entity
	Items    []entities.Item
	Skills   []entities.Skill
}

// LoadInput names the three catalog files
type LoadInput struct {
	EntitiesPath string
	ItemsPath    string
	SkillsPath   string
}

// InputForDir returns the default file layout of an assets directory
func InputForDir(dir string) *LoadInput {
	return &LoadInput{
		EntitiesPath: filepath.Join(dir, EntitiesFile),
		ItemsPath:    filepath.Join(dir, ItemsFile),
		SkillsPath:   filepath.Join(dir, SkillsFile),
	}
}

// Validate ensures every path is set
func (i *LoadInput) Validate() error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("EntitiesPath", i.EntitiesPath, vb)
	errors.ValidateRequired("ItemsPath", i.ItemsPath, vb)
	errors.ValidateRequired("SkillsPath", i.SkillsPath, vb)
	return vb.Build()
}

// entityRecord is the on-disk form of an entity: items and skills by id
type entityRecord struct {
	ID        int            `json:"id"`
	Name      string         `json:"name"`
	Stats     entities.Stats `json:"stats"`
	Inventory []int          `json:"inventory"`
	Equipment []int          `json:"equipment"`
	Skills    []int          `json:"skills"`
}

type entitiesWrapper struct {
	Entities []entityRecord `json:"entities"`
}

type itemsWrapper struct {
	Items []entities.Item `json:"items"`
}

type skillsWrapper struct {
	Skills []entities.Skill `json:"skills"`
}

// Load reads and resolves the three catalog files
func Load(ctx context.Context, input *LoadInput) (*Catalog, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	itemsData, err := readFile(input.ItemsPath)
	if err != nil {
		return nil, err
	}
	skillsData, err := readFile(input.SkillsPath)
	if err != nil {
		return nil, err
	}
	entitiesData, err := readFile(input.EntitiesPath)
	if err != nil {
		return nil, err
	}

	return Parse(ctx, entitiesData, itemsData, skillsData)
}

// Parse decodes catalog documents. Items and skills are decoded first so entity
// references can be resolved; references to unknown ids are logged and dropped.
func Parse(ctx context.Context, entitiesData, itemsData, skillsData []byte) (*Catalog, error) {
	var items itemsWrapper
	if err := json.Unmarshal(itemsData, &items); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "failed to decode items catalog")
	}
	var skills skillsWrapper
	if err := json.Unmarshal(skillsData, &skills); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "failed to decode skills catalog")
	}
	var ents entitiesWrapper
	if err := json.Unmarshal(entitiesData, &ents); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "failed to decode entities catalog")
	}

	cat := &Catalog{
		Items:  dedupe(ctx, "item", items.Items, func(i entities.Item) int { return i.ID }),
		Skills: dedupe(ctx, "skill", skills.Skills, func(s entities.Skill) int { return s.ID }),
	}

	itemsByID := make(map[int]entities.Item, len(cat.Items))
	for _, item := range cat.Items {
		itemsByID[item.ID] = item
	}
	skillsByID := make(map[int]entities.Skill, len(cat.Skills))
	for _, skill := range cat.Skills {
		skillsByID[skill.ID] = skill
	}

	seen := make(map[int]bool, len(ents.Entities))
	for _, rec := range ents.Entities {
		if seen[rec.ID] {
			slog.WarnContext(ctx, "Duplicate entity id in catalog, keeping first", "entity_id", rec.ID)
			continue
		}
		seen[rec.ID] = true
		cat.Entities = append(cat.Entities, resolve(ctx, rec, itemsByID, skillsByID))
	}

	slog.DebugContext(ctx, "Catalog parsed",
		"entities", len(cat.Entities),
		"items", len(cat.Items),
		"skills", len(cat.Skills),
	)

	return cat, nil
}

func resolve(ctx context.Context, rec entityRecord, items map[int]entities.Item, skills map[int]entities.Skill) *entities.Entity {
	e := entities.New(rec.ID, rec.Name)
	e.Stats = rec.Stats

	for _, id := range rec.Skills {
		skill, ok := skills[id]
		if !ok {
			slog.WarnContext(ctx, "Unknown skill referenced by entity", "entity_id", rec.ID, "skill_id", id)
			continue
		}
		e.Skills = append(e.Skills, skill)
	}

	for _, id := range rec.Inventory {
		item, ok := items[id]
		if !ok {
			slog.WarnContext(ctx, "Unknown item referenced by entity", "entity_id", rec.ID, "item_id", id)
			continue
		}
		e.AddItem(item)
	}

	for _, id := range rec.Equipment {
		item, ok := items[id]
		if !ok {
			slog.WarnContext(ctx, "Unknown equipment referenced by entity", "entity_id", rec.ID, "item_id", id)
			continue
		}
		e.AddItem(item)
		if err := e.EquipItem(id); err != nil {
			slog.WarnContext(ctx, "Catalog equipment left in inventory",
				"entity_id", rec.ID,
				"item_id", id,
				"error", err,
			)
		}
	}

	return e
}

func dedupe[T any](ctx context.Context, kind string, in []T, id func(T) int) []T {
	seen := make(map[int]bool, len(in))
	out := make([]T, 0, len(in))
	for _, v := range in {
		if seen[id(v)] {
			slog.WarnContext(ctx, "Duplicate catalog id, keeping first", "kind", kind, "id", id(v))
			continue
		}
		seen[id(v)] = true
		out = append(out, v)
	}
	return out
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.CodeNotFound, "catalog file not found").
				WithMeta("path", path)
		}
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return data, nil
}

// ItemByID finds a catalog item
func (c *Catalog) ItemByID(id int) (entities.Item, error) {
	for _, item := range c.Items {
		if item.ID == id {
			return item, nil
		}
	}
	return entities.Item{}, errors.NotFoundf("item %d is not in the catalog", id)
}
