package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/ultima-end/internal/entities"
)

func TestStats_ApplyModifierIsAdditive(t *testing.T) {
	testCases := []struct {
		name string
		base entities.Stats
		m1   entities.Stats
		m2   entities.Stats
	}{
		{
			name: "positive modifiers",
			base: entities.Stats{HP: 30, Attack: 5, Defense: 2, Agility: 3},
			m1:   entities.Stats{Attack: 4},
			m2:   entities.Stats{HP: 10, Defense: 3},
		},
		{
			name: "negative modifiers drive hp below zero",
			base: entities.Stats{HP: 2, Attack: 1},
			m1:   entities.Stats{HP: -5, Agility: -1},
			m2:   entities.Stats{HP: -1, Attack: 7, Defense: -2},
		},
		{
			name: "zero modifiers",
			base: entities.Stats{HP: 1, Attack: 1, Defense: 1, Agility: 1},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			stepwise := tc.base
			stepwise.ApplyModifier(tc.m1)
			stepwise.ApplyModifier(tc.m2)

			combined := tc.base
			combined.ApplyModifier(tc.m1.Add(tc.m2))

			assert.Equal(t, combined, stepwise)
		})
	}
}

func TestStats_RemoveModifierUndoesApply(t *testing.T) {
	base := entities.Stats{HP: 20, Attack: 6, Defense: 4, Agility: 2}
	m := entities.Stats{HP: 5, Attack: -2, Defense: 8, Agility: 1}

	s := base
	s.ApplyModifier(m)
	assert.Equal(t, entities.Stats{HP: 25, Attack: 4, Defense: 12, Agility: 3}, s)

	s.RemoveModifier(m)
	assert.Equal(t, base, s)
}

func TestStats_String(t *testing.T) {
	s := entities.Stats{HP: 10, Attack: 3, Defense: 2, Agility: 1}
	assert.Equal(t, "\tHP: 10\n\tAttack: 3\n\tDefense: 2\n\tAgility: 1", s.String())
}
