package game_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/ultima-end/internal/catalog"
	"github.com/KirkDiggler/ultima-end/internal/entities"
	"github.com/KirkDiggler/ultima-end/internal/errors"
	"github.com/KirkDiggler/ultima-end/internal/game"
)

// scriptedRoller replays rolls in order, clamped to the die size, and rolls 1
// once the script runs out.
type scriptedRoller struct {
	rolls []int
	sizes []int
}

func (r *scriptedRoller) Roll(size int) (int, error) {
	r.sizes = append(r.sizes, size)
	if len(r.rolls) == 0 {
		return 1, nil
	}
	v := r.rolls[0]
	r.rolls = r.rolls[1:]
	return min(v, size), nil
}

func (r *scriptedRoller) RollN(count, size int) ([]int, error) {
	out := make([]int, count)
	for i := range out {
		v, err := r.Roll(size)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func newEntity(id int, name string, stats entities.Stats) *entities.Entity {
	e := entities.New(id, name)
	e.Stats = stats
	return e
}

var (
	sword = entities.Item{
		ID:           1,
		Name:         "Sword",
		ItemType:     entities.ItemTypeWeapon,
		StatModifier: entities.Stats{Attack: 5},
	}
	potion = entities.Item{
		ID:           2,
		Name:         "Potion",
		ItemType:     entities.ItemTypeConsumable,
		StatModifier: entities.Stats{HP: 15},
	}
	slash = entities.Skill{
		ID:          1,
		Name:        "Slash",
		SkillType:   entities.SkillTypeActive,
		SkillTarget: entities.SkillTargetSingle,
		SkillClass:  entities.SkillClassPhysical,
		Power:       6,
	}
)

func testCatalog() *catalog.Catalog {
	hero := newEntity(1, "Hero", entities.Stats{HP: 30, Attack: 10, Defense: 3, Agility: 5})
	hero.Skills = append(hero.Skills, slash)
	template := newEntity(100, "Wanderer", entities.Stats{HP: 25, Attack: 6, Defense: 2, Agility: 4})
	template.Skills = append(template.Skills, slash)
	template.AddItem(potion)

	return &catalog.Catalog{
		Entities: []*entities.Entity{
			hero,
			template,
			newEntity(1000, "Goblin", entities.Stats{HP: 12, Attack: 6, Defense: 2, Agility: 6}),
			newEntity(1001, "Orc", entities.Stats{HP: 20, Attack: 8, Defense: 3, Agility: 3}),
			newEntity(1002, "Troll", entities.Stats{HP: 35, Attack: 10, Defense: 5, Agility: 1}),
		},
		Items:  []entities.Item{sword, potion},
		Skills: []entities.Skill{slash},
	}
}

type StateTestSuite struct {
	suite.Suite
	state  *game.State
	roller *scriptedRoller
}

func TestStateSuite(t *testing.T) {
	suite.Run(t, new(StateTestSuite))
}

func (s *StateTestSuite) SetupTest() {
	var err error
	s.state, err = game.NewFromCatalog(testCatalog(), &game.Config{SpawnLimit: 10, DropRate: 0})
	s.Require().NoError(err)
	s.roller = &scriptedRoller{}
}

func (s *StateTestSuite) names(roster []*entities.Entity) []string {
	out := make([]string, len(roster))
	for i, e := range roster {
		out[i] = e.Name
	}
	return out
}

func (s *StateTestSuite) TestNewValidatesConfig() {
	_, err := game.New(nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = game.New(&game.Config{SpawnLimit: 0, DropRate: 2})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
	s.Contains(err.Error(), "SpawnLimit")
	s.Contains(err.Error(), "DropRate")

	state, err := game.New(game.DefaultConfig())
	s.Require().NoError(err)
	s.Empty(state.Players)
	s.Equal(game.DefaultSpawnLimit, state.Settings().SpawnLimit)
}

func (s *StateTestSuite) TestNewFromCatalog() {
	s.Equal([]string{"Hero"}, s.names(s.state.Players))
	s.Empty(s.state.Enemies)
	s.Equal([]string{"Hero", "Wanderer"}, s.names(s.state.PlayerClass()))
	s.Equal([]string{"Goblin", "Orc", "Troll"}, s.names(s.state.EnemyClass()))

	// live players are copies of the master roster
	s.state.Players[0].Stats.HP = 1
	s.Equal(30, s.state.Entities[0].Stats.HP)

	_, err := game.NewFromCatalog(nil, game.DefaultConfig())
	s.True(errors.IsInvalidArgument(err))
}

func (s *StateTestSuite) TestSpawnEnemyStopsAtLimit() {
	for range 25 {
		s.Require().NoError(s.state.SpawnEnemy(s.roller))
	}
	s.Len(s.state.Enemies, 10)
}

func (s *StateTestSuite) TestPopulateEnemies() {
	s.Require().NoError(s.state.PopulateEnemies(s.roller))
	s.Len(s.state.Enemies, 10)

	s.Require().NoError(s.state.PopulateEnemies(s.roller))
	s.Len(s.state.Enemies, 10)
}

func (s *StateTestSuite) TestPopulateEnemiesWithoutEnemyCatalog() {
	state, err := game.New(game.DefaultConfig())
	s.Require().NoError(err)

	err = state.PopulateEnemies(s.roller)
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))
	s.Empty(state.Enemies)
}

func (s *StateTestSuite) TestSpawnEnemyClonesRandomTemplate() {
	s.roller.rolls = []int{3}

	s.Require().NoError(s.state.SpawnEnemy(s.roller))
	s.Require().Len(s.state.Enemies, 1)
	s.Equal("Troll", s.state.Enemies[0].Name)
	s.Equal([]int{3, 100}, s.roller.sizes)

	s.state.Enemies[0].Stats.HP = 0
	s.Equal(35, s.state.EnemyClass()[2].Stats.HP)
}

func (s *StateTestSuite) TestSpawnEnemyDropsConsumableEquipped() {
	state, err := game.NewFromCatalog(testCatalog(), &game.Config{SpawnLimit: 10, DropRate: 1})
	s.Require().NoError(err)
	s.roller.rolls = []int{1, 100, 2}

	s.Require().NoError(state.SpawnEnemy(s.roller))
	goblin := state.Enemies[0]
	s.Equal([]entities.Item{potion}, goblin.Equipment)
	s.Empty(goblin.Inventory)
	s.Equal(27, goblin.Stats.HP)
}

func (s *StateTestSuite) TestSpawnEnemyDropsWeaponInInventory() {
	state, err := game.NewFromCatalog(testCatalog(), &game.Config{SpawnLimit: 10, DropRate: 0.5})
	s.Require().NoError(err)
	s.roller.rolls = []int{2, 50, 1}

	s.Require().NoError(state.SpawnEnemy(s.roller))
	orc := state.Enemies[0]
	s.Equal([]entities.Item{sword}, orc.Inventory)
	s.Empty(orc.Equipment)
	s.Equal(8, orc.Stats.Attack)
}

func (s *StateTestSuite) TestSpawnEnemyDropRollMisses() {
	state, err := game.NewFromCatalog(testCatalog(), &game.Config{SpawnLimit: 10, DropRate: 0.5})
	s.Require().NoError(err)
	s.roller.rolls = []int{2, 51}

	s.Require().NoError(state.SpawnEnemy(s.roller))
	s.Empty(state.Enemies[0].Inventory)
	s.Equal([]int{3, 100}, s.roller.sizes)
}

func (s *StateTestSuite) TestRemoveEnemyKeepsOrder() {
	s.roller.rolls = []int{1, 100, 2, 100, 3, 100}
	for range 3 {
		s.Require().NoError(s.state.SpawnEnemy(s.roller))
	}
	s.Require().Equal([]string{"Goblin", "Orc", "Troll"}, s.names(s.state.Enemies))

	s.Require().NoError(s.state.RemoveEnemy(0))
	s.Equal([]string{"Orc", "Troll"}, s.names(s.state.Enemies))
}

func (s *StateTestSuite) TestRemoveEnemyClampsIndex() {
	s.Require().NoError(s.state.PopulateEnemies(s.roller))
	s.Require().NoError(s.state.SetEnemy(9))

	s.Require().NoError(s.state.RemoveEnemy(9))
	s.Equal(8, s.state.EnemyIndex)

	err := s.state.RemoveEnemy(9)
	s.True(errors.IsOutOfRange(err))
	s.Len(s.state.Enemies, 9)

	for len(s.state.Enemies) > 0 {
		s.Require().NoError(s.state.RemoveEnemy(0))
	}
	s.Equal(0, s.state.EnemyIndex)
	s.False(s.state.IsEnemyAlive())
}

func (s *StateTestSuite) TestSelectRandomEnemy() {
	err := s.state.SelectRandomEnemy(s.roller)
	s.True(errors.IsFailedPrecondition(err))

	s.Require().NoError(s.state.PopulateEnemies(s.roller))
	s.roller.rolls = []int{7}
	s.Require().NoError(s.state.SelectRandomEnemy(s.roller))
	s.Equal(6, s.state.EnemyIndex)
	s.True(s.state.IsEnemyAlive())
}

func (s *StateTestSuite) TestActiveCombatants() {
	_, err := s.state.Enemy()
	s.True(errors.IsFailedPrecondition(err))
	s.False(s.state.HasCombatants())

	player, err := s.state.Player()
	s.Require().NoError(err)
	s.Equal("Hero", player.Name)
	s.True(s.state.IsPlayerAlive())

	player.Stats.HP = 0
	s.False(s.state.IsPlayerAlive())

	s.Require().NoError(s.state.SpawnEnemy(s.roller))
	s.True(s.state.HasCombatants())

	s.True(errors.IsOutOfRange(s.state.SetPlayer(1)))
	s.True(errors.IsOutOfRange(s.state.SetEnemy(-1)))
}

func (s *StateTestSuite) TestCreatePlayer() {
	player, err := s.state.CreatePlayer("  Ayla ")
	s.Require().NoError(err)

	s.Equal(2, player.ID)
	s.Equal("Ayla", player.Name)
	s.Equal(entities.Stats{HP: 25, Attack: 6, Defense: 2, Agility: 4}, player.Stats)
	s.Equal([]entities.Skill{slash}, player.Skills)
	s.Equal([]entities.Item{potion}, player.Inventory)
	s.Equal(1, s.state.PlayerIndex)

	// the template is untouched
	player.Inventory = nil
	template, err := s.state.DefaultPlayer()
	s.Require().NoError(err)
	s.Len(template.Inventory, 1)
	s.Equal(100, template.ID)
}

func (s *StateTestSuite) TestCreatePlayerRejectsBlankName() {
	_, err := s.state.CreatePlayer("   ")
	s.True(errors.IsInvalidArgument(err))
	s.Len(s.state.Players, 1)
}

func (s *StateTestSuite) TestCreatePlayerOutOfSlots() {
	s.state.Players[0].ID = entities.PlayerIDLimit - 1

	_, err := s.state.CreatePlayer("One Too Many")
	s.True(errors.IsResourceExhausted(err))
	s.Len(s.state.Players, 1)
}

func (s *StateTestSuite) TestDefaultPlayerFallback() {
	cat := testCatalog()
	cat.Entities = append(cat.Entities[:1], cat.Entities[2:]...)
	state, err := game.NewFromCatalog(cat, game.DefaultConfig())
	s.Require().NoError(err)

	def, err := state.DefaultPlayer()
	s.Require().NoError(err)
	s.Equal("Hero", def.Name)

	empty, err := game.New(game.DefaultConfig())
	s.Require().NoError(err)
	_, err = empty.DefaultPlayer()
	s.True(errors.IsNotFound(err))
}

func (s *StateTestSuite) TestItemLookups() {
	item, err := s.state.FindItem(2)
	s.Require().NoError(err)
	s.Equal("Potion", item.Name)

	_, err = s.state.FindItem(9)
	s.True(errors.IsNotFound(err))

	first, err := s.state.FirstItem()
	s.Require().NoError(err)
	s.Equal("Sword", first.Name)
}

func (s *StateTestSuite) TestListings() {
	s.Equal("1. Hero (HP: 30)", s.state.PlayersString())
	s.Equal("No enemies in play.", s.state.EnemiesString())

	s.roller.rolls = []int{1, 100, 2, 100}
	s.Require().NoError(s.state.SpawnEnemy(s.roller))
	s.Require().NoError(s.state.SpawnEnemy(s.roller))
	s.Require().NoError(s.state.SetEnemy(1))

	s.Equal(
		" 1. Goblin (HP: 12, Attack: 6, Defense: 2)\n*2. Orc (HP: 20, Attack: 8, Defense: 3)",
		s.state.EnemiesString(),
	)
}
