// Package command interprets the commands typed at the game prompt
package command

//go:generate mockgen -destination=mock/mock_service.go -package=commandmock github.com/KirkDiggler/ultima-end/internal/orchestrators/command Service

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/KirkDiggler/rpg-toolkit/events"
	"golang.org/x/text/cases"

	"github.com/KirkDiggler/ultima-end/internal/combat"
	"github.com/KirkDiggler/ultima-end/internal/entities"
	"github.com/KirkDiggler/ultima-end/internal/errors"
	"github.com/KirkDiggler/ultima-end/internal/game"
	"github.com/KirkDiggler/ultima-end/internal/narration"
)

const helpText = `Available commands:
    attack [skill #]   attack the current enemy with a skill
    run                take a hit and flee to another enemy
    status             show your stats and the enemy's
    show enemies       list the enemies in play
    show inventory     list what you carry
    show equipment     list what you have equipped
    show skills        list your skills
    equip [item id]    equip an item from your inventory
    unequip [item id]  put an equipped item back in your inventory
    pickup [item id]   take an item from the catalog
    pickup_sword       take the first item in the catalog
    help               show this list
    exit               return to the main menu`

// Service defines the interface for command processing
type Service interface {
	Process(ctx context.Context, input *ProcessInput) (*ProcessOutput, error)
}

// Config holds the dependencies for the command orchestrator
type Config struct {
	Roller   dice.Roller
	EventBus events.EventBus
	Prompter Prompter
	Narrator narration.Narrator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}
	if c.Prompter == nil {
		vb.RequiredField("Prompter")
	}
	if c.Narrator == nil {
		vb.RequiredField("Narrator")
	}

	return vb.Build()
}

type orchestrator struct {
	roller   dice.Roller
	resolver *combat.Resolver
	prompter Prompter
	narrator narration.Narrator
}

// NewOrchestrator creates a new command orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	resolver, err := combat.NewResolver(&combat.Config{
		Roller:   cfg.Roller,
		EventBus: cfg.EventBus,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create combat resolver")
	}

	return &orchestrator{
		roller:   cfg.Roller,
		resolver: resolver,
		prompter: cfg.Prompter,
		narrator: cfg.Narrator,
	}, nil
}

// Process runs one command against the state. A failed command leaves the
// state as it was.
func (o *orchestrator) Process(ctx context.Context, input *ProcessInput) (*ProcessOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.State == nil {
		return nil, errors.InvalidArgument("state is required")
	}

	cmd, args, err := parse(input.Line)
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "Processing command", "command", cmd, "args", args)

	state := input.State
	out := &ProcessOutput{Command: cmd}

	switch cmd {
	case CommandAttack:
		err = o.attack(ctx, state, args, out)
	case CommandRun:
		err = o.run(ctx, state, out)
	case CommandStatus:
		err = o.status(state)
	case CommandShowEnemies:
		o.narrator.Say(state.EnemiesString())
	case CommandShowInventory:
		err = o.showPlayer(state, (*entities.Entity).InventoryString)
	case CommandShowEquipment:
		err = o.showPlayer(state, (*entities.Entity).EquipmentString)
	case CommandShowSkills:
		err = o.showPlayer(state, (*entities.Entity).SkillsString)
	case CommandEquip:
		err = o.equip(ctx, state, args)
	case CommandUnequip:
		err = o.unequip(ctx, state, args)
	case CommandPickup:
		err = o.pickup(ctx, state, args)
	case CommandPickupSword:
		err = o.pickupFirst(state)
	case CommandHelp:
		o.narrator.Say(helpText)
	default:
		return nil, errors.InvalidArgumentf("unknown command %q, type 'help' for a list of commands", cmd)
	}
	if err != nil {
		return nil, err
	}

	return out, nil
}

// parse case-folds a line and splits it into a command and its arguments.
// "show" takes the following word as part of the command.
func parse(line string) (string, []string, error) {
	fields := strings.Fields(cases.Fold().String(line))
	if len(fields) == 0 {
		return "", nil, errors.InvalidArgument("enter a command, or 'help' for a list of commands")
	}

	if fields[0] == "show" && len(fields) > 1 {
		return fields[0] + " " + fields[1], fields[2:], nil
	}

	return fields[0], fields[1:], nil
}

// fighters returns the active player and enemy of a fight the player can act in
func (o *orchestrator) fighters(state *game.State) (*entities.Entity, *entities.Entity, error) {
	if !state.HasCombatants() {
		return nil, nil, errors.FailedPrecondition("not enough combatants, you need a character and an enemy")
	}

	player, err := state.Player()
	if err != nil {
		return nil, nil, err
	}
	enemy, err := state.Enemy()
	if err != nil {
		return nil, nil, err
	}
	if !player.IsAlive() {
		return nil, nil, errors.FailedPreconditionf("%s has fallen and cannot fight", player.Name)
	}

	return player, enemy, nil
}

func (o *orchestrator) attack(ctx context.Context, state *game.State, args []string, out *ProcessOutput) error {
	player, enemy, err := o.fighters(state)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		o.narrator.Say(player.SkillsString())
	}
	number, err := o.number(ctx, args, "Enter skill number: ", "skill number")
	if err != nil {
		return err
	}
	skill, err := player.GetSkill(number - 1)
	if err != nil {
		return err
	}

	if _, err := o.resolver.AttackEntity(ctx, player, enemy, skill); err != nil {
		return err
	}
	if _, err := o.resolver.CombatRound(ctx, enemy, player); err != nil {
		return err
	}

	if !enemy.IsAlive() {
		out.EnemyDefeated = true
		if err := state.RemoveEnemy(state.EnemyIndex); err != nil {
			return errors.Wrap(err, "failed to remove defeated enemy")
		}
		o.replaceEnemy(ctx, state)
	}

	if !player.IsAlive() {
		out.PlayerDied = true
	}

	return nil
}

// replaceEnemy spawns one enemy and picks a new active one. Failures here only
// thin out the roster, so they are logged rather than failing the turn.
func (o *orchestrator) replaceEnemy(ctx context.Context, state *game.State) {
	if err := state.SpawnEnemy(o.roller); err != nil {
		slog.WarnContext(ctx, "Failed to spawn replacement enemy", "error", err)
	}
	o.selectNewEnemy(ctx, state)
}

func (o *orchestrator) selectNewEnemy(ctx context.Context, state *game.State) {
	if len(state.Enemies) == 0 {
		o.narrator.Say("No enemies remain.")
		return
	}
	if err := state.SelectRandomEnemy(o.roller); err != nil {
		slog.WarnContext(ctx, "Failed to select enemy", "error", err)
		return
	}

	enemy, err := state.Enemy()
	if err != nil {
		return
	}
	o.narrator.Sayf("A new enemy approaches: %s", enemy.Name)
}

func (o *orchestrator) run(ctx context.Context, state *game.State, out *ProcessOutput) error {
	player, enemy, err := o.fighters(state)
	if err != nil {
		return err
	}

	if _, err := o.resolver.CombatRound(ctx, enemy, player); err != nil {
		return err
	}

	if !player.IsAlive() {
		out.PlayerDied = true
		return nil
	}

	o.narrator.Say("You ran away!")
	o.selectNewEnemy(ctx, state)

	return nil
}

func (o *orchestrator) status(state *game.State) error {
	if !state.HasCombatants() {
		return errors.FailedPrecondition("not enough combatants to show status")
	}

	player, err := state.Player()
	if err != nil {
		return err
	}
	enemy, err := state.Enemy()
	if err != nil {
		return err
	}

	o.narrator.Say(player.String())
	o.narrator.Say(enemy.String())

	return nil
}

func (o *orchestrator) showPlayer(state *game.State, render func(*entities.Entity) string) error {
	player, err := state.Player()
	if err != nil {
		return err
	}
	o.narrator.Say(render(player))
	return nil
}

func (o *orchestrator) equip(ctx context.Context, state *game.State, args []string) error {
	player, err := state.Player()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		o.narrator.Sayf("Inventory:\n%s", player.InventoryString())
	}
	id, err := o.number(ctx, args, "Enter item id to equip: ", "item id")
	if err != nil {
		return err
	}

	item, err := player.GetItem(id)
	if err != nil {
		return err
	}
	if err := player.EquipItem(id); err != nil {
		return err
	}

	o.narrator.Sayf("%s equipped %s.", player.Name, item.Name)
	return nil
}

func (o *orchestrator) unequip(ctx context.Context, state *game.State, args []string) error {
	player, err := state.Player()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		o.narrator.Sayf("Equipment:\n%s", player.EquipmentString())
	}
	id, err := o.number(ctx, args, "Enter item id to unequip: ", "item id")
	if err != nil {
		return err
	}

	item, err := player.GetEquipment(id)
	if err != nil {
		return err
	}
	if err := player.UnequipItem(id); err != nil {
		return err
	}

	o.narrator.Sayf("%s unequipped %s.", player.Name, item.Name)
	return nil
}

func (o *orchestrator) pickup(ctx context.Context, state *game.State, args []string) error {
	player, err := state.Player()
	if err != nil {
		return err
	}

	id, err := o.number(ctx, args, "Enter item id to pick up: ", "item id")
	if err != nil {
		return err
	}
	item, err := state.FindItem(id)
	if err != nil {
		return err
	}

	player.AddItem(item)
	o.narrator.Sayf("%s picked up %s.", player.Name, item.Name)
	return nil
}

func (o *orchestrator) pickupFirst(state *game.State) error {
	player, err := state.Player()
	if err != nil {
		return err
	}
	item, err := state.FirstItem()
	if err != nil {
		return err
	}

	player.AddItem(item)
	o.narrator.Sayf("%s picked up %s.", player.Name, item.Name)
	return nil
}

// number reads an integer from the first argument, or prompts for one
func (o *orchestrator) number(ctx context.Context, args []string, prompt, what string) (int, error) {
	raw := ""
	if len(args) > 0 {
		raw = args[0]
	} else {
		line, err := o.prompter.Prompt(ctx, prompt)
		if err != nil {
			return 0, errors.Wrapf(err, "failed to read %s", what)
		}
		raw = strings.TrimSpace(line)
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.InvalidArgumentf("%q is not a valid %s", raw, what)
	}
	return n, nil
}
