// Package narration turns game events into console text
package narration

import (
	"context"
	"fmt"
	"io"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/ultima-end/internal/combat"
	"github.com/KirkDiggler/ultima-end/internal/entities"
)

// Narrator is the sink for player-facing game text
type Narrator interface {
	Say(msg string)
	Sayf(format string, args ...any)
}

// Writer narrates to an io.Writer, one line per message
type Writer struct {
	w io.Writer
}

// NewWriter creates a narrator writing to w
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Say writes msg followed by a newline
func (n *Writer) Say(msg string) {
	_, _ = fmt.Fprintln(n.w, msg) // nolint:errcheck // console output
}

// Sayf formats and writes a line
func (n *Writer) Sayf(format string, args ...any) {
	n.Say(fmt.Sprintf(format, args...))
}

// Subscribe narrates combat events published on bus. The returned ids can be
// passed to bus.Unsubscribe.
func Subscribe(bus events.EventBus, n Narrator) []string {
	attackID := bus.SubscribeFunc(combat.EventAttack, 0, func(_ context.Context, e events.Event) error {
		attack, ok := e.(*combat.AttackEvent)
		if !ok {
			return nil
		}
		if attack.SkillName == "" {
			n.Sayf("%s attacks %s for %d damage!", attack.Attacker.Name, attack.Defender.Name, attack.Damage)
			return nil
		}
		n.Sayf("%s uses %s on %s for %d damage!",
			attack.Attacker.Name, attack.SkillName, attack.Defender.Name, attack.Damage)
		return nil
	})

	defeatedID := bus.SubscribeFunc(combat.EventDefeated, 0, func(_ context.Context, e events.Event) error {
		defeat, ok := e.(*combat.DefeatedEvent)
		if !ok {
			return nil
		}
		if defeat.Entity.GetType() == entities.TypePlayer {
			n.Sayf("%s has fallen!", defeat.Entity.Name)
			return nil
		}
		n.Sayf("%s is defeated!", defeat.Entity.Name)
		return nil
	})

	return []string{attackID, defeatedID}
}
