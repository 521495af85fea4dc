package combat

import (
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/ultima-end/internal/entities"
)

// Event types published on the bus
const (
	EventAttack   = "combat.attack"
	EventDefeated = "combat.defeated"
)

// AttackEvent is published after damage has been applied to the defender
type AttackEvent struct {
	*events.GameEvent
	Attacker *entities.Entity
	Defender *entities.Entity
	// SkillName is empty for plain combat rounds.
	SkillName string
	Damage    int
}

// DefeatedEvent is published when a combatant drops to zero hp or below
type DefeatedEvent struct {
	*events.GameEvent
	Entity *entities.Entity
}

func newAttackEvent(attacker, defender *entities.Entity, skillName string, damage int) *AttackEvent {
	return &AttackEvent{
		GameEvent: events.NewGameEvent(EventAttack, attacker, defender),
		Attacker:  attacker,
		Defender:  defender,
		SkillName: skillName,
		Damage:    damage,
	}
}

func newDefeatedEvent(entity *entities.Entity) *DefeatedEvent {
	return &DefeatedEvent{
		GameEvent: events.NewGameEvent(EventDefeated, entity, nil),
		Entity:    entity,
	}
}
