// Package combat resolves attacks between two entities
package combat

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/ultima-end/internal/entities"
	"github.com/KirkDiggler/ultima-end/internal/errors"
)

// Config holds the dependencies for the resolver
type Config struct {
	Roller   dice.Roller
	EventBus events.EventBus
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

	return vb.Build()
}

// Resolver applies attack damage and announces it on the event bus
type Resolver struct {
	roller dice.Roller
	bus    events.EventBus
}

// AttackResult describes one resolved hit
type AttackResult struct {
	Damage     int
	DefenderHP int
	Defeated   bool
}

// NewResolver creates a resolver with the provided dependencies
func NewResolver(cfg *Config) (*Resolver, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Resolver{
		roller: cfg.Roller,
		bus:    cfg.EventBus,
	}, nil
}

// RoundDamage is the damage of a plain attack: attack minus defense, floored at zero
func RoundDamage(attacker, defender *entities.Entity) int {
	return max(0, attacker.Stats.Attack-defender.Stats.Defense)
}

// AttackEntity hits defender with a skill. Damage is the attacker's damage roll
// and is not capped, so hp may go negative.
func (r *Resolver) AttackEntity(ctx context.Context, attacker, defender *entities.Entity, skill entities.Skill) (*AttackResult, error) {
	if attacker == nil || defender == nil {
		return nil, errors.InvalidArgument("attacker and defender are required")
	}

	damage, err := attacker.DamageRoll(r.roller, skill)
	if err != nil {
		return nil, errors.Wrapf(err, "%s failed to use %s", attacker.Name, skill.Name)
	}

	return r.hit(ctx, attacker, defender, skill.Name, damage), nil
}

// CombatRound is the skill-less attack used for counter-attacks
func (r *Resolver) CombatRound(ctx context.Context, attacker, defender *entities.Entity) (*AttackResult, error) {
	if attacker == nil || defender == nil {
		return nil, errors.InvalidArgument("attacker and defender are required")
	}

	return r.hit(ctx, attacker, defender, "", RoundDamage(attacker, defender)), nil
}

func (r *Resolver) hit(ctx context.Context, attacker, defender *entities.Entity, skillName string, damage int) *AttackResult {
	defender.Stats.HP -= damage

	r.publish(ctx, newAttackEvent(attacker, defender, skillName, damage))

	result := &AttackResult{
		Damage:     damage,
		DefenderHP: defender.Stats.HP,
		Defeated:   !defender.IsAlive(),
	}
	if result.Defeated {
		r.publish(ctx, newDefeatedEvent(defender))
	}

	slog.Debug("Attack resolved",
		"attacker", attacker.Name,
		"defender", defender.Name,
		"skill", skillName,
		"damage", damage,
		"defender_hp", defender.Stats.HP,
	)

	return result
}

// publish failures only cost narration, so they are logged and dropped
func (r *Resolver) publish(ctx context.Context, event events.Event) {
	if err := r.bus.Publish(ctx, event); err != nil {
		slog.Warn("Failed to publish combat event",
			"event_type", event.Type(),
			"error", err,
		)
	}
}
