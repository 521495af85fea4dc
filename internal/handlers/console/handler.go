// Package console drives a play session over a line-oriented terminal: the
// welcome menu, the game prompt, and saving after every command.
package console

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"golang.org/x/text/cases"

	"github.com/KirkDiggler/ultima-end/internal/catalog"
	"github.com/KirkDiggler/ultima-end/internal/errors"
	"github.com/KirkDiggler/ultima-end/internal/game"
	"github.com/KirkDiggler/ultima-end/internal/narration"
	"github.com/KirkDiggler/ultima-end/internal/orchestrators/command"
	"github.com/KirkDiggler/ultima-end/internal/pkg/idgen"
	"github.com/KirkDiggler/ultima-end/internal/repositories/gamestate"
)

// Menu entries. Each can be chosen by number or by name.
const (
	MenuStart           = "start"
	MenuCreateCharacter = "create character"
	MenuLoadCharacter   = "load character"
	MenuShowCharacters  = "show characters"
	MenuHelp            = "help"
	MenuExit            = "exit"
)

var menuAliases = map[string]string{
	"1": MenuStart,
	"2": MenuCreateCharacter,
	"3": MenuLoadCharacter,
	"4": MenuShowCharacters,
	"5": MenuHelp,
	"6": MenuExit,
}

const menuText = `Main menu:
  1. start             - begin fighting with the loaded character
  2. create character  - create a new character
  3. load character    - choose one of your characters
  4. show characters   - list your characters
  5. help              - show this menu
  6. exit              - quit the game`

const gamePrompt = "> "

// Config holds the dependencies for Handler
type Config struct {
	Terminal    *Terminal
	Narrator    narration.Narrator
	Commands    command.Service
	Repository  gamestate.Repository
	Roller      dice.Roller
	IDGenerator idgen.Generator

	// Slot is the save slot loaded at startup and written after every command
	Slot string
	// AssetsDir holds the catalog used when there is no save to load
	AssetsDir string
	// Settings are the runtime settings of the state
	Settings *game.Config
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Terminal == nil {
		vb.RequiredField("Terminal")
	}
	if c.Narrator == nil {
		vb.RequiredField("Narrator")
	}
	if c.Commands == nil {
		vb.RequiredField("Commands")
	}
	if c.Repository == nil {
		vb.RequiredField("Repository")
	}
	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	errors.ValidateRequired("Slot", c.Slot, vb)
	if c.Settings == nil {
		vb.RequiredField("Settings")
	}

	return vb.Build()
}

// Handler runs play sessions against a terminal
type Handler struct {
	terminal   *Terminal
	narrator   narration.Narrator
	commands   command.Service
	repository gamestate.Repository
	roller     dice.Roller
	idGen      idgen.Generator
	slot       string
	assetsDir  string
	settings   *game.Config

	logger *slog.Logger
	state  *game.State
}

// NewHandler creates a new console handler
func NewHandler(cfg *Config) (*Handler, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Handler{
		terminal:   cfg.Terminal,
		narrator:   cfg.Narrator,
		commands:   cfg.Commands,
		repository: cfg.Repository,
		roller:     cfg.Roller,
		idGen:      cfg.IDGenerator,
		slot:       cfg.Slot,
		assetsDir:  cfg.AssetsDir,
		settings:   cfg.Settings,
		logger:     slog.Default(),
	}, nil
}

// Run plays one session: it loads the save slot and serves the main menu
// until the player exits or the input ends.
func (h *Handler) Run(ctx context.Context) error {
	h.logger = slog.Default().With("session_id", h.idGen.Generate())
	h.logger.InfoContext(ctx, "Session started", "slot", h.slot)
	defer h.logger.InfoContext(ctx, "Session ended")

	h.state = h.startupState(ctx)

	h.narrator.Say("Welcome to Ultima End!")
	h.narrator.Say(menuText)

	for {
		line, err := h.terminal.Prompt(ctx, gamePrompt)
		if err != nil {
			if sessionOver(err) {
				return nil
			}
			if errors.IsInvalidArgument(err) {
				h.report(ctx, err)
				continue
			}
			return err
		}

		choice := cases.Fold().String(strings.TrimSpace(line))
		if alias, ok := menuAliases[choice]; ok {
			choice = alias
		}

		switch choice {
		case "":
			continue
		case MenuStart:
			err = h.start(ctx)
		case MenuCreateCharacter:
			err = h.createCharacter(ctx)
		case MenuLoadCharacter:
			err = h.loadCharacter(ctx)
		case MenuShowCharacters:
			h.narrator.Say(h.state.PlayersString())
		case MenuHelp:
			h.narrator.Say(menuText)
		case MenuExit:
			h.narrator.Say("Farewell, adventurer.")
			return nil
		default:
			h.narrator.Say("Invalid command. Please try again.")
		}

		if err != nil {
			if sessionOver(err) {
				return nil
			}
			h.report(ctx, err)
		}
	}
}

// sessionOver reports whether err means the player is gone: input ended or
// the session was interrupted.
func sessionOver(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, context.Canceled)
}

// ShowCharacters prints the characters of the save slot without starting a
// session.
func (h *Handler) ShowCharacters(ctx context.Context) {
	h.state = h.startupState(ctx)
	h.narrator.Say(h.state.PlayersString())
}

// startupState loads the save slot, then falls back to a fresh game from the
// catalog, then to an empty game.
func (h *Handler) startupState(ctx context.Context) *game.State {
	out, err := h.repository.Load(ctx, &gamestate.LoadInput{
		Slot:     h.slot,
		Settings: h.settings,
	})
	if err == nil {
		h.logger.InfoContext(ctx, "Loaded saved game", "slot", h.slot, "saved_at", out.SavedAt)
		return out.State
	}
	if errors.IsNotFound(err) {
		h.logger.InfoContext(ctx, "No saved game, starting fresh", "slot", h.slot)
	} else {
		h.logger.WarnContext(ctx, "Failed to load saved game, starting fresh", "slot", h.slot, "error", err)
	}

	cat, err := catalog.Load(ctx, catalog.InputForDir(h.assetsDir))
	if err == nil {
		state, err := game.NewFromCatalog(cat, h.settings)
		if err == nil {
			return state
		}
		h.logger.WarnContext(ctx, "Failed to build game from catalog", "error", err)
	} else {
		h.logger.WarnContext(ctx, "Failed to load catalog", "assets_dir", h.assetsDir, "error", err)
	}

	state, err := game.New(h.settings)
	if err != nil {
		// settings were validated with the handler config
		h.logger.ErrorContext(ctx, "Failed to create empty game", "error", err)
		state, _ = game.New(game.DefaultConfig()) // nolint:errcheck
	}
	return state
}

func (h *Handler) createCharacter(ctx context.Context) error {
	name, err := h.terminal.Prompt(ctx, "Enter character name: ")
	if err != nil {
		return errors.Wrap(err, "failed to read character name")
	}

	player, err := h.state.CreatePlayer(strings.TrimSpace(name))
	if err != nil {
		return err
	}

	h.narrator.Sayf("Created %s.", player.Name)
	h.save(ctx)
	return nil
}

func (h *Handler) loadCharacter(ctx context.Context) error {
	if len(h.state.Players) == 0 {
		return errors.FailedPrecondition("no characters, create one first")
	}

	h.narrator.Say(h.state.PlayersString())
	line, err := h.terminal.Prompt(ctx, "Enter character number: ")
	if err != nil {
		return errors.Wrap(err, "failed to read character number")
	}

	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return errors.InvalidArgumentf("character number must be a number, got %q", strings.TrimSpace(line))
	}
	if err := h.state.SetPlayer(n - 1); err != nil {
		return err
	}

	player, err := h.state.Player()
	if err != nil {
		return err
	}

	h.narrator.Sayf("Loaded %s.", player.Name)
	h.save(ctx)
	return nil
}

// start enters the game loop with the loaded character, filling the enemy
// roster when it is empty.
func (h *Handler) start(ctx context.Context) error {
	player, err := h.state.Player()
	if err != nil {
		return errors.FailedPrecondition("no character loaded, create or load one first")
	}

	if len(h.state.Enemies) == 0 {
		if err := h.state.PopulateEnemies(h.roller); err != nil {
			h.logger.WarnContext(ctx, "Failed to populate enemies", "error", err)
		}
	}
	if len(h.state.Enemies) > 0 {
		if err := h.state.SelectRandomEnemy(h.roller); err != nil {
			return err
		}
	}

	h.narrator.Sayf("You are playing as %s. Type 'help' for commands or 'exit' to return to the menu.", player.Name)
	if enemy, err := h.state.Enemy(); err == nil {
		h.narrator.Sayf("You face %s.", enemy.Name)
	} else {
		h.narrator.Say("No enemies remain.")
	}

	return h.play(ctx)
}

// play reads game commands until the player leaves. Every command is followed
// by a save; a failed save is logged and play continues. Running out of input
// or cancellation ends play without saving the interrupted command.
func (h *Handler) play(ctx context.Context) error {
	for {
		line, err := h.terminal.Prompt(ctx, gamePrompt)
		if err != nil {
			if errors.IsInvalidArgument(err) {
				h.report(ctx, err)
				continue
			}
			return err
		}

		trimmed := strings.TrimSpace(line)
		switch cases.Fold().String(trimmed) {
		case "":
			continue
		case "exit", "quit":
			h.narrator.Say("Returning to the main menu.")
			return nil
		}

		out, err := h.commands.Process(ctx, &command.ProcessInput{
			State: h.state,
			Line:  trimmed,
		})
		if err != nil {
			if sessionOver(err) {
				return err
			}
			h.report(ctx, err)
		} else {
			h.logger.DebugContext(ctx, "Command processed",
				"command", out.Command,
				"enemy_defeated", out.EnemyDefeated,
				"player_died", out.PlayerDied)
		}

		h.save(ctx)
	}
}

func (h *Handler) save(ctx context.Context) {
	if _, err := h.repository.Save(ctx, &gamestate.SaveInput{
		Slot:  h.slot,
		State: h.state,
	}); err != nil {
		h.logger.WarnContext(ctx, "Failed to save game", "slot", h.slot, "error", err)
	}
}

// report shows a failed action to the player. Unexpected failures are also
// logged.
func (h *Handler) report(ctx context.Context, err error) {
	h.narrator.Sayf("Error: %s", errors.GetMessage(err))

	if errors.GetCode(err).Recoverable() {
		h.logger.DebugContext(ctx, "Action rejected", "error", err)
		return
	}
	h.logger.ErrorContext(ctx, "Action failed", "error", err)
}
