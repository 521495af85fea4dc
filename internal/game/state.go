// Package game holds the game state aggregate: catalogs, the master roster, the
// live player and enemy rosters, and the indices of the active combatants.
package game

import (
	"fmt"
	"strings"

	"github.com/KirkDiggler/ultima-end/internal/catalog"
	"github.com/KirkDiggler/ultima-end/internal/entities"
	"github.com/KirkDiggler/ultima-end/internal/errors"
)

// Defaults for the runtime settings
const (
	DefaultSpawnLimit = 10
	DefaultDropRate   = 0.5
)

// Config holds the runtime settings of a state. They are not persisted.
type Config struct {
	// SpawnLimit is the target population of the live enemy roster
	SpawnLimit int
	// DropRate is the chance in [0, 1] that a spawned enemy carries an extra item
	DropRate float64
}

// DefaultConfig returns the default settings
func DefaultConfig() *Config {
	return &Config{
		SpawnLimit: DefaultSpawnLimit,
		DropRate:   DefaultDropRate,
	}
}

// Validate ensures the settings are usable
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.SpawnLimit < 1 {
		vb.Fieldf("SpawnLimit", "must be at least 1, got %d", c.SpawnLimit)
	}
	if c.DropRate < 0 || c.DropRate > 1 {
		vb.Fieldf("DropRate", "must be between 0 and 1, got %g", c.DropRate)
	}

	return vb.Build()
}

// State is the aggregate root of a game. Indices are only meaningful while
// their roster is non-empty, and are always in range when it is.
type State struct {
	Entities    []*entities.Entity `json:"entities"`
	Items       []entities.Item    `json:"items"`
	Skills      []entities.Skill   `json:"skills"`
	Players     []*entities.Entity `json:"players"`
	Enemies     []*entities.Entity `json:"enemies"`
	PlayerIndex int                `json:"player_index"`
	EnemyIndex  int                `json:"enemy_index"`

	// partitions of Entities by id range, rebuilt on construction and decode
	pcEnts  []*entities.Entity
	npcEnts []*entities.Entity

	settings Config
}

// New creates an empty state
func New(cfg *Config) (*State, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	s := &State{settings: *cfg}
	s.normalize()
	return s, nil
}

// NewFromCatalog creates a fresh game from loaded definitions. Every pre-made
// character becomes a live player; templates and enemies stay in the master
// roster only.
func NewFromCatalog(cat *catalog.Catalog, cfg *Config) (*State, error) {
	if cat == nil {
		return nil, errors.InvalidArgument("catalog is required")
	}

	s, err := New(cfg)
	if err != nil {
		return nil, err
	}

	for _, e := range cat.Entities {
		s.Entities = append(s.Entities, e.Clone())
		if e.ID < entities.PlayerIDLimit {
			s.Players = append(s.Players, e.Clone())
		}
	}
	s.Items = append(s.Items, cat.Items...)
	s.Skills = append(s.Skills, cat.Skills...)

	s.normalize()
	s.partition()

	return s, nil
}

// Settings returns the runtime settings
func (s *State) Settings() Config {
	return s.settings
}

func (s *State) normalize() {
	if s.Entities == nil {
		s.Entities = []*entities.Entity{}
	}
	if s.Items == nil {
		s.Items = []entities.Item{}
	}
	if s.Skills == nil {
		s.Skills = []entities.Skill{}
	}
	if s.Players == nil {
		s.Players = []*entities.Entity{}
	}
	if s.Enemies == nil {
		s.Enemies = []*entities.Entity{}
	}
}

func (s *State) partition() {
	s.pcEnts = s.pcEnts[:0]
	s.npcEnts = s.npcEnts[:0]
	for _, e := range s.Entities {
		if entities.IsPlayerClass(e.ID) {
			s.pcEnts = append(s.pcEnts, e)
		} else {
			s.npcEnts = append(s.npcEnts, e)
		}
	}
}

// PlayerClass returns the player-class part of the master roster
func (s *State) PlayerClass() []*entities.Entity {
	return s.pcEnts
}

// EnemyClass returns the enemy-class part of the master roster
func (s *State) EnemyClass() []*entities.Entity {
	return s.npcEnts
}

// Player returns the active player
func (s *State) Player() (*entities.Entity, error) {
	if len(s.Players) == 0 {
		return nil, errors.FailedPrecondition("no character is loaded")
	}
	if s.PlayerIndex < 0 || s.PlayerIndex >= len(s.Players) {
		return nil, errors.Internalf("player index %d out of range", s.PlayerIndex)
	}
	return s.Players[s.PlayerIndex], nil
}

// Enemy returns the active enemy
func (s *State) Enemy() (*entities.Entity, error) {
	if len(s.Enemies) == 0 {
		return nil, errors.FailedPrecondition("no enemies in play")
	}
	if s.EnemyIndex < 0 || s.EnemyIndex >= len(s.Enemies) {
		return nil, errors.Internalf("enemy index %d out of range", s.EnemyIndex)
	}
	return s.Enemies[s.EnemyIndex], nil
}

// HasCombatants reports whether both sides have an active combatant
func (s *State) HasCombatants() bool {
	return len(s.Players) > 0 && len(s.Enemies) > 0
}

// SetPlayer makes the player at index active
func (s *State) SetPlayer(index int) error {
	if index < 0 || index >= len(s.Players) {
		return errors.OutOfRangef("no character #%d", index+1)
	}
	s.PlayerIndex = index
	return nil
}

// SetEnemy makes the enemy at index active
func (s *State) SetEnemy(index int) error {
	if index < 0 || index >= len(s.Enemies) {
		return errors.OutOfRangef("no enemy #%d", index+1)
	}
	s.EnemyIndex = index
	return nil
}

// IsPlayerAlive is false when there is no active player
func (s *State) IsPlayerAlive() bool {
	p, err := s.Player()
	return err == nil && p.IsAlive()
}

// IsEnemyAlive is false when there is no active enemy
func (s *State) IsEnemyAlive() bool {
	e, err := s.Enemy()
	return err == nil && e.IsAlive()
}

// DefaultPlayer is the entity new characters are copied from: the first
// template, or the first player-class entity when there are no templates.
func (s *State) DefaultPlayer() (*entities.Entity, error) {
	for _, e := range s.pcEnts {
		if entities.IsTemplate(e.ID) {
			return e, nil
		}
	}
	if len(s.pcEnts) > 0 {
		return s.pcEnts[0], nil
	}
	return nil, errors.NotFound("no player template in the catalog")
}

// CreatePlayer adds a character built from the default player and makes it
// active. Its id is one past the highest live player id.
func (s *State) CreatePlayer(name string) (*entities.Entity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.InvalidArgument("character name is required")
	}

	template, err := s.DefaultPlayer()
	if err != nil {
		return nil, err
	}

	id := 1
	for _, p := range s.Players {
		if p.ID >= id {
			id = p.ID + 1
		}
	}
	if id >= entities.PlayerIDLimit {
		return nil, errors.ResourceExhausted("no character slots left")
	}

	player := template.Clone()
	player.ID = id
	player.Name = name

	s.Players = append(s.Players, player)
	s.PlayerIndex = len(s.Players) - 1

	return player, nil
}

// FindItem returns the catalog item with the id
func (s *State) FindItem(id int) (entities.Item, error) {
	for _, item := range s.Items {
		if item.ID == id {
			return item, nil
		}
	}
	return entities.Item{}, errors.NotFoundf("item %d is not in the catalog", id)
}

// FirstItem returns the first catalog item
func (s *State) FirstItem() (entities.Item, error) {
	if len(s.Items) == 0 {
		return entities.Item{}, errors.NotFound("the item catalog is empty")
	}
	return s.Items[0], nil
}

// PlayersString lists live players numbered from 1, the numbering character
// selection takes.
func (s *State) PlayersString() string {
	if len(s.Players) == 0 {
		return "No characters."
	}
	lines := make([]string, len(s.Players))
	for i, p := range s.Players {
		lines[i] = fmt.Sprintf("%d. %s (HP: %d)", i+1, p.Name, p.Stats.HP)
	}
	return strings.Join(lines, "\n")
}

// EnemiesString lists live enemies, marking the active one
func (s *State) EnemiesString() string {
	if len(s.Enemies) == 0 {
		return "No enemies in play."
	}
	lines := make([]string, len(s.Enemies))
	for i, e := range s.Enemies {
		marker := " "
		if i == s.EnemyIndex {
			marker = "*"
		}
		lines[i] = fmt.Sprintf("%s%d. %s (HP: %d, Attack: %d, Defense: %d)",
			marker, i+1, e.Name, e.Stats.HP, e.Stats.Attack, e.Stats.Defense)
	}
	return strings.Join(lines, "\n")
}
