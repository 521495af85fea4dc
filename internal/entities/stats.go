// Package entities provides the combatant, item, and skill types of the game.
package entities

import "fmt"

// Stats is the additive attribute block shared by every combatant and used as
// the modifier payload of items. Values are never clamped; hp at or below zero
// means defeat.
type Stats struct {
	HP      int `json:"hp"`
	Attack  int `json:"attack"`
	Defense int `json:"defense"`
	Agility int `json:"agility"`
}

// ApplyModifier adds each field of m onto s
func (s *Stats) ApplyModifier(m Stats) {
	s.HP += m.HP
	s.Attack += m.Attack
	s.Defense += m.Defense
	s.Agility += m.Agility
}

// RemoveModifier subtracts each field of m from s
func (s *Stats) RemoveModifier(m Stats) {
	s.HP -= m.HP
	s.Attack -= m.Attack
	s.Defense -= m.Defense
	s.Agility -= m.Agility
}

// Add returns the element-wise sum of s and m
func (s Stats) Add(m Stats) Stats {
	s.ApplyModifier(m)
	return s
}

// String renders the block for the console
func (s Stats) String() string {
	return fmt.Sprintf("\tHP: %d\n\tAttack: %d\n\tDefense: %d\n\tAgility: %d",
		s.HP, s.Attack, s.Defense, s.Agility)
}
