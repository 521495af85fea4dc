package game

import (
	"log/slog"
	"math"
	"slices"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/ultima-end/internal/entities"
	"github.com/KirkDiggler/ultima-end/internal/errors"
)

// RemoveEnemy drops the enemy at index, keeping the order of the rest. The
// enemy index is clamped back into range; callers pick the next active enemy.
func (s *State) RemoveEnemy(index int) error {
	if index < 0 || index >= len(s.Enemies) {
		return errors.OutOfRangef("no enemy #%d", index+1)
	}

	s.Enemies = slices.Delete(s.Enemies, index, index+1)
	if s.EnemyIndex >= len(s.Enemies) {
		s.EnemyIndex = max(0, len(s.Enemies)-1)
	}

	return nil
}

// SpawnEnemy adds one enemy cloned from a random enemy-class entity, unless the
// roster is already at the spawn limit. The clone may also get a random catalog
// item, which is equipped straight away when it is a consumable.
func (s *State) SpawnEnemy(roller dice.Roller) error {
	if len(s.Enemies) >= s.settings.SpawnLimit {
		return nil
	}
	if len(s.npcEnts) == 0 {
		return errors.FailedPrecondition("no enemies in the catalog")
	}

	idx, err := pick(roller, len(s.npcEnts))
	if err != nil {
		return errors.Wrap(err, "failed to pick enemy")
	}
	enemy := s.npcEnts[idx].Clone()

	if err := s.rollDrop(roller, enemy); err != nil {
		return err
	}

	s.Enemies = append(s.Enemies, enemy)

	slog.Debug("Enemy spawned",
		"enemy_id", enemy.ID,
		"enemy_name", enemy.Name,
		"enemy_count", len(s.Enemies),
	)

	return nil
}

func (s *State) rollDrop(roller dice.Roller, enemy *entities.Entity) error {
	if len(s.Items) == 0 {
		return nil
	}

	roll, err := roller.Roll(100)
	if err != nil {
		return errors.Wrap(err, "failed to roll drop")
	}
	if roll > int(math.Round(s.settings.DropRate*100)) {
		return nil
	}

	idx, err := pick(roller, len(s.Items))
	if err != nil {
		return errors.Wrap(err, "failed to pick drop")
	}
	item := s.Items[idx]
	enemy.AddItem(item)

	if item.ItemType != entities.ItemTypeConsumable {
		return nil
	}
	if err := enemy.EquipItem(item.ID); err != nil {
		slog.Warn("Dropped consumable left in inventory",
			"enemy_name", enemy.Name,
			"item_id", item.ID,
			"error", err,
		)
	}

	return nil
}

// PopulateEnemies spawns until the roster reaches the spawn limit
func (s *State) PopulateEnemies(roller dice.Roller) error {
	for len(s.Enemies) < s.settings.SpawnLimit {
		if err := s.SpawnEnemy(roller); err != nil {
			return err
		}
	}
	return nil
}

// SelectRandomEnemy makes a uniformly chosen live enemy active
func (s *State) SelectRandomEnemy(roller dice.Roller) error {
	if len(s.Enemies) == 0 {
		return errors.FailedPrecondition("no enemies in play")
	}

	idx, err := pick(roller, len(s.Enemies))
	if err != nil {
		return errors.Wrap(err, "failed to pick enemy")
	}
	s.EnemyIndex = idx

	return nil
}

// pick returns a uniform index in [0, n)
func pick(roller dice.Roller, n int) (int, error) {
	if n <= 0 {
		return 0, errors.InvalidArgumentf("cannot pick from %d choices", n)
	}
	if n == 1 {
		return 0, nil
	}

	roll, err := roller.Roll(n)
	if err != nil {
		return 0, err
	}
	if roll < 1 || roll > n {
		return 0, errors.Internalf("d%d rolled %d", n, roll)
	}
	return roll - 1, nil
}
