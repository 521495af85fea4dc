// Package gamestate provides save-slot storage for game states
package gamestate

import (
	"context"
	"regexp"
	"time"

	"github.com/KirkDiggler/ultima-end/internal/errors"
	"github.com/KirkDiggler/ultima-end/internal/game"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=gamestatemock github.com/KirkDiggler/ultima-end/internal/repositories/gamestate Repository

const (
	errStateNil  = "state cannot be nil"
	errSlotEmpty = "slot cannot be empty"
)

// Slot names double as file names, so they are kept to a safe alphabet
var slotPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// SaveInput contains parameters for saving a game state
type SaveInput struct {
	Slot  string
	State *game.State
}

// SaveOutput contains the result of saving a game state
type SaveOutput struct {
	SavedAt time.Time
}

// LoadInput contains parameters for loading a game state
type LoadInput struct {
	Slot string

	// Settings are applied to the loaded state; nil means game.DefaultConfig
	Settings *game.Config
}

// LoadOutput contains the loaded game state
type LoadOutput struct {
	State   *game.State
	SavedAt time.Time
}

// Repository defines the interface for save-slot storage. A save fully
// replaces whatever the slot held before.
type Repository interface {
	// Save writes the state to the slot
	Save(ctx context.Context, input *SaveInput) (*SaveOutput, error)

	// Load reads the state in the slot. A slot that was never written is
	// NotFound; one that cannot be decoded is DataLoss.
	Load(ctx context.Context, input *LoadInput) (*LoadOutput, error)
}

func validateSave(input *SaveInput) error {
	if input == nil {
		return errors.InvalidArgument("input is required")
	}
	if input.State == nil {
		return errors.InvalidArgument(errStateNil)
	}
	return validateSlot(input.Slot)
}

func validateLoad(input *LoadInput) error {
	if input == nil {
		return errors.InvalidArgument("input is required")
	}
	return validateSlot(input.Slot)
}

func validateSlot(slot string) error {
	if slot == "" {
		return errors.InvalidArgument(errSlotEmpty)
	}
	if !slotPattern.MatchString(slot) {
		return errors.InvalidArgumentf("slot %q may only contain letters, digits, '-' and '_'", slot)
	}
	return nil
}

// decodeState restores a saved state with the requested settings
func decodeState(data []byte, slot string, settings *game.Config) (*game.State, error) {
	if settings == nil {
		settings = game.DefaultConfig()
	}

	state, err := game.Decode(data, settings)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode slot %s", slot).WithMeta("slot", slot)
	}
	return state, nil
}
