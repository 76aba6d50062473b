package entity

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/adventuremech/internal/game/dice"
)

// Kinds of entity a template may describe.
const (
	KindEnemy = "enemy"
	KindNPC   = "npc"
)

// Template defines an entity placed in the world at startup.
type Template struct {
	Name                  string   `yaml:"name"`
	Kind                  string   `yaml:"kind"` // empty means enemy
	Room                  int      `yaml:"room"`
	Health                int      `yaml:"health"`
	AttackPower           int      `yaml:"attack_power"`
	AttackCooldownSeconds int      `yaml:"attack_cooldown_seconds"`
	XP                    int      `yaml:"xp"`
	DetailedLook          string   `yaml:"detailed_look"`
	AttackLines           []string `yaml:"attack_lines"`
	DeathLines            []string `yaml:"death_lines"`
	EnterLines            []string `yaml:"enter_lines"`
	DamageLines           []string `yaml:"damage_lines"`
	// Script is the key of a Lua script; set only for scripted enemies.
	Script string `yaml:"script"`
}

// Validate checks that the template satisfies basic invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff the template can be spawned.
func (t *Template) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("entity template: name must not be empty")
	}
	if t.Health < 1 {
		return fmt.Errorf("entity template %q: health must be >= 1", t.Name)
	}
	if strings.TrimSpace(t.DetailedLook) == "" {
		return fmt.Errorf("entity template %q: detailed_look must not be empty", t.Name)
	}
	switch t.Kind {
	case KindNPC:
		if t.Script != "" {
			return fmt.Errorf("entity template %q: npc cannot have a script", t.Name)
		}
		return nil
	case "", KindEnemy:
	default:
		return fmt.Errorf("entity template %q: unknown kind %q", t.Name, t.Kind)
	}
	if t.AttackPower < 0 {
		return fmt.Errorf("entity template %q: attack_power must be >= 0", t.Name)
	}
	if t.AttackCooldownSeconds < 1 {
		return fmt.Errorf("entity template %q: attack_cooldown_seconds must be >= 1", t.Name)
	}
	if t.XP < 0 {
		return fmt.Errorf("entity template %q: xp must be >= 0", t.Name)
	}
	for _, f := range []struct {
		field string
		lines []string
	}{
		{"attack_lines", t.AttackLines},
		{"death_lines", t.DeathLines},
		{"enter_lines", t.EnterLines},
		{"damage_lines", t.DamageLines},
	} {
		if len(f.lines) == 0 {
			return fmt.Errorf("entity template %q: %s must not be empty", t.Name, f.field)
		}
	}
	return nil
}

// SpawnOptions carries the runtime settings needed to build entities.
type SpawnOptions struct {
	TicksPerSecond int
	ImageBaseURL   string
	Source         dice.Source
	// Hooks runs scripts for scripted enemies. Required when any template
	// names a script.
	Hooks Hooks
}

// Spawn builds a live entity from t with a fresh UUID.
//
// Precondition: t must be valid; opts.Source must be non-nil.
// Postcondition: Returns an *NPC, *SimpleEnemy or *ScriptedEnemy, or an error
// when t names a script but opts.Hooks is nil.
func Spawn(t *Template, opts SpawnOptions) (Entity, error) {
	id := uuid.NewString()
	if t.Kind == KindNPC {
		return NewNPC(id, t.Name, t.Room, t.Health, t.DetailedLook), nil
	}
	enemy := NewSimpleEnemy(id, t.Name, t.Room, t.DetailedLook,
		EnemyStats{
			Health:                t.Health,
			AttackPower:           t.AttackPower,
			AttackCooldownSeconds: t.AttackCooldownSeconds,
			XP:                    t.XP,
		},
		Lines{
			Attack: t.AttackLines,
			Death:  t.DeathLines,
			Enter:  t.EnterLines,
			Damage: t.DamageLines,
		},
		opts.TicksPerSecond, opts.ImageBaseURL, opts.Source)
	if t.Script == "" {
		return enemy, nil
	}
	if opts.Hooks == nil {
		return nil, fmt.Errorf("entity template %q: script %q requires a script manager", t.Name, t.Script)
	}
	return NewScriptedEnemy(enemy, t.Script, opts.Hooks), nil
}

type yamlEntityFile struct {
	Enemies []*Template `yaml:"enemies"`
}

// LoadTemplatesFromFile reads the enemies section of a content file.
//
// Precondition: path must point to a readable YAML content file.
// Postcondition: Returns all templates in file order, or an error on the first
// parse or validation failure.
func LoadTemplatesFromFile(path string) ([]*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading content file %s: %w", path, err)
	}
	return LoadTemplatesFromBytes(data)
}

// LoadTemplatesFromBytes parses the enemies section of a content file.
func LoadTemplatesFromBytes(data []byte) ([]*Template, error) {
	var file yamlEntityFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing entity YAML: %w", err)
	}
	for i, t := range file.Enemies {
		if t == nil {
			return nil, fmt.Errorf("enemy %d: empty entry", i)
		}
		if err := t.Validate(); err != nil {
			return nil, err
		}
	}
	return file.Enemies, nil
}
