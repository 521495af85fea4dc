package entities

import (
	"encoding/json"
	"fmt"
)

// SkillType tells whether a skill is used actively or always on
type SkillType string

// Skill types
const (
	SkillTypePassive SkillType = "Passive"
	SkillTypeActive  SkillType = "Active"
)

// SkillTarget describes who a skill can be aimed at
type SkillTarget string

// Skill targets
const (
	SkillTargetSelf   SkillTarget = "SelfTarget"
	SkillTargetSingle SkillTarget = "SingleTarget"
	SkillTargetMulti  SkillTarget = "MultiTarget"
)

// SkillClass is the damage class of a skill
type SkillClass string

// Skill classes
const (
	SkillClassPhysical SkillClass = "Physical"
	SkillClassMagical  SkillClass = "Magical"
)

// IsValid checks if the skill type is known
func (t SkillType) IsValid() bool {
	return t == SkillTypePassive || t == SkillTypeActive
}

// IsValid checks if the skill target is known
func (t SkillTarget) IsValid() bool {
	switch t {
	case SkillTargetSelf, SkillTargetSingle, SkillTargetMulti:
		return true
	default:
		return false
	}
}

// IsValid checks if the skill class is known
func (c SkillClass) IsValid() bool {
	return c == SkillClassPhysical || c == SkillClassMagical
}

// UnmarshalJSON rejects unknown skill types
func (t *SkillType) UnmarshalJSON(data []byte) error {
	s, err := unmarshalEnum(data, func(s string) bool { return SkillType(s).IsValid() }, "skill type")
	if err != nil {
		return err
	}
	*t = SkillType(s)
	return nil
}

// UnmarshalJSON rejects unknown skill targets
func (t *SkillTarget) UnmarshalJSON(data []byte) error {
	s, err := unmarshalEnum(data, func(s string) bool { return SkillTarget(s).IsValid() }, "skill target")
	if err != nil {
		return err
	}
	*t = SkillTarget(s)
	return nil
}

// UnmarshalJSON rejects unknown skill classes
func (c *SkillClass) UnmarshalJSON(data []byte) error {
	s, err := unmarshalEnum(data, func(s string) bool { return SkillClass(s).IsValid() }, "skill class")
	if err != nil {
		return err
	}
	*c = SkillClass(s)
	return nil
}

func unmarshalEnum(data []byte, valid func(string) bool, kind string) (string, error) {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", err
	}
	if !valid(s) {
		return "", fmt.Errorf("unknown %s %q", kind, s)
	}
	return s, nil
}

// Skill is a catalog skill definition, copied by value onto entities
type Skill struct {
	ID          int         `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	SkillType   SkillType   `json:"skill_type"`
	SkillTarget SkillTarget `json:"skill_target"`
	SkillClass  SkillClass  `json:"skill_class"`
	// Power bounds the random part of a damage roll: [0, Power).
	Power int `json:"power"`
	Cost  int `json:"cost"`
}

// String renders the full skill card
func (s Skill) String() string {
	return fmt.Sprintf("Skill: %s\nDescription: %s\nType: %s\nTarget: %s\nClass: %s\nPower: %d\nCost: %d",
		s.Name, s.Description, s.SkillType, s.SkillTarget, s.SkillClass, s.Power, s.Cost)
}
