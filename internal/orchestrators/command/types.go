package command

import (
	"context"

	"github.com/KirkDiggler/ultima-end/internal/game"
)

// Recognized commands. Two-word commands are matched after case folding.
const (
	CommandAttack        = "attack"
	CommandRun           = "run"
	CommandStatus        = "status"
	CommandShowEnemies   = "show enemies"
	CommandShowInventory = "show inventory"
	CommandShowEquipment = "show equipment"
	CommandShowSkills    = "show skills"
	CommandEquip         = "equip"
	CommandUnequip       = "unequip"
	CommandPickup        = "pickup"
	CommandPickupSword   = "pickup_sword"
	CommandHelp          = "help"
)

// Prompter reads one line of follow-up input, blocking until it arrives
type Prompter interface {
	Prompt(ctx context.Context, message string) (string, error)
}

// ProcessInput is one line typed at the game prompt
type ProcessInput struct {
	State *game.State
	Line  string
}

// ProcessOutput reports what a command did
type ProcessOutput struct {
	// Command is the normalized command word, e.g. "show enemies"
	Command string

	// EnemyDefeated is set when the active enemy was removed this turn
	EnemyDefeated bool

	// PlayerDied is set when the active player dropped to zero hp this turn
	PlayerDied bool
}
