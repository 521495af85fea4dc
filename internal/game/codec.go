package game

import (
	"encoding/json"
	"log/slog"

	"github.com/KirkDiggler/ultima-end/internal/entities"
	"github.com/KirkDiggler/ultima-end/internal/errors"
)

// Encode serializes the persisted fields of a state as indented JSON
func Encode(s *State) ([]byte, error) {
	if s == nil {
		return nil, errors.InvalidArgument("state is required")
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode game state")
	}

	return data, nil
}

// Decode restores a state written by Encode with the given runtime settings.
// Partitions are rebuilt; null roster entries are dropped and out-of-range
// indices are reset to 0.
func Decode(data []byte, cfg *Config) (*State, error) {
	s, err := New(cfg)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(data, s); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "failed to decode game state")
	}

	s.normalize()
	s.Entities = compact("entities", s.Entities)
	s.Players = compact("players", s.Players)
	s.Enemies = compact("enemies", s.Enemies)
	s.PlayerIndex = repairIndex("player_index", s.PlayerIndex, len(s.Players))
	s.EnemyIndex = repairIndex("enemy_index", s.EnemyIndex, len(s.Enemies))
	s.partition()

	return s, nil
}

func compact(roster string, in []*entities.Entity) []*entities.Entity {
	out := in[:0]
	for _, e := range in {
		if e == nil {
			slog.Warn("Dropping null entry from saved roster", "roster", roster)
			continue
		}
		out = append(out, e)
	}
	return out
}

func repairIndex(field string, index, length int) int {
	if index >= 0 && index < length {
		return index
	}
	if length == 0 && index == 0 {
		return 0
	}
	slog.Warn("Saved index out of range, resetting",
		"field", field,
		"index", index,
		"roster_size", length,
	)
	return 0
}
