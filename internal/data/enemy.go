package data

import (
	"fmt"
	"sort"
)

// ActionKind is what an enemy does on its turn.
type ActionKind string

const (
	ActionDamagePlayer ActionKind = "damage_player"
	ActionAddCover     ActionKind = "add_cover"
	ActionDoNothing    ActionKind = "do_nothing"
)

// Status effects an enemy can carry.
const (
	StatusBurning = "burning" // extra damage taken, wears off after turns
	StatusPoison  = "poison"  // damage after every revolver rotation
	StatusShock   = "shock"   // extra damage after being hit
)

// IsStatus reports whether name is a known status effect.
func IsStatus(name string) bool {
	switch name {
	case StatusBurning, StatusPoison, StatusShock:
		return true
	}
	return false
}

type EnemyActionEntry struct {
	Name   string     `yaml:"name"`
	Kind   ActionKind `yaml:"kind"`
	Amount int        `yaml:"amount"`
	Insult string     `yaml:"insult"`
}

type EnemyEntry struct {
	Name    string             `yaml:"name"`
	Title   string             `yaml:"title"`
	Health  int                `yaml:"health"`
	Cover   int                `yaml:"cover"`
	Actions []EnemyActionEntry `yaml:"actions"`
}

// Action returns the action named name, or nil.
func (e *EnemyEntry) Action(name string) *EnemyActionEntry {
	for i := range e.Actions {
		if e.Actions[i].Name == name {
			return &e.Actions[i]
		}
	}
	return nil
}

type enemyFile struct {
	Enemies []EnemyEntry `yaml:"enemies"`
}

// EnemyTable holds every enemy blueprint by name.
type EnemyTable struct {
	enemies map[string]*EnemyEntry
}

// LoadEnemyTable loads enemies.yaml.
func LoadEnemyTable(path string) (*EnemyTable, error) {
	var f enemyFile
	if err := decodeStrict(path, &f); err != nil {
		return nil, fmt.Errorf("enemy table: %w", err)
	}
	t := &EnemyTable{enemies: make(map[string]*EnemyEntry, len(f.Enemies))}
	for i := range f.Enemies {
		e := &f.Enemies[i]
		if e.Name == "" || e.Health <= 0 || e.Cover < 0 {
			return nil, fmt.Errorf("enemy table: enemy %q needs a name and positive health: %w", e.Name, ErrSchema)
		}
		if len(e.Actions) == 0 {
			return nil, fmt.Errorf("enemy table: enemy %q has no actions: %w", e.Name, ErrSchema)
		}
		seen := make(map[string]bool, len(e.Actions))
		for _, a := range e.Actions {
			switch a.Kind {
			case ActionDamagePlayer, ActionAddCover, ActionDoNothing:
			default:
				return nil, fmt.Errorf("enemy table: enemy %q action %q kind %q: %w", e.Name, a.Name, a.Kind, ErrSchema)
			}
			if a.Name == "" || seen[a.Name] {
				return nil, fmt.Errorf("enemy table: enemy %q action name %q missing or repeated: %w", e.Name, a.Name, ErrSchema)
			}
			seen[a.Name] = true
		}
		if _, dup := t.enemies[e.Name]; dup {
			return nil, fmt.Errorf("enemy table: duplicate enemy %q: %w", e.Name, ErrSchema)
		}
		if e.Title == "" {
			e.Title = e.Name
		}
		t.enemies[e.Name] = e
	}
	return t, nil
}

// Get returns the enemy named name, or nil if none.
func (t *EnemyTable) Get(name string) *EnemyEntry {
	return t.enemies[name]
}

// Lookup is Get with an error for unknown names.
func (t *EnemyTable) Lookup(name string) (*EnemyEntry, error) {
	if e, ok := t.enemies[name]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEnemy, name)
}

// Names returns all enemy names, sorted.
func (t *EnemyTable) Names() []string {
	names := make([]string, 0, len(t.enemies))
	for n := range t.enemies {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Count returns the total number of enemies loaded.
func (t *EnemyTable) Count() int {
	return len(t.enemies)
}
