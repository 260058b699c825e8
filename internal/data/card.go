package data

import (
	"fmt"
	"sort"
)

// CardType is what a card can be loaded as.
type CardType string

const (
	CardBullet CardType = "bullet"
	CardCover  CardType = "cover"
)

// Trigger names the moment a card effect is checked.
type Trigger string

const (
	TriggerOnEnter      Trigger = "on_enter"
	TriggerOnShot       Trigger = "on_shot"
	TriggerOnDestroy    Trigger = "on_destroy"
	TriggerOnRoundStart Trigger = "on_round_start"
)

// EffectKind is what a triggered effect does.
type EffectKind string

const (
	EffectReserveGain   EffectKind = "reserve_gain"
	EffectDraw          EffectKind = "draw"
	EffectDamageEnemy   EffectKind = "damage_enemy"
	EffectBuffDamage    EffectKind = "buff_damage"    // player picks a loaded bullet to buff
	EffectGiveStatus    EffectKind = "give_status"    // applies Status to the target enemy
	EffectPutCardInHand EffectKind = "put_card_in_hand"
	EffectDestroy       EffectKind = "destroy" // player destroys a card in the revolver
)

// Direction is the way the revolver turns after a shot.
type Direction string

const (
	RotateRight Direction = "right"
	RotateLeft  Direction = "left"
	RotateNone  Direction = "none"
)

type RotationEntry struct {
	Direction Direction `yaml:"direction"`
	Amount    int       `yaml:"amount"`
}

type EffectEntry struct {
	Trigger  Trigger    `yaml:"trigger"`
	Kind     EffectKind `yaml:"kind"`
	Amount   int        `yaml:"amount"`
	Card     string     `yaml:"card"`     // put_card_in_hand
	Status   string     `yaml:"status"`   // give_status
	Duration int        `yaml:"duration"` // give_status turns, buff_damage rotations
}

// CardEntry is one card blueprint.
type CardEntry struct {
	Name            string        `yaml:"name"`
	Title           string        `yaml:"title"`
	Type            CardType      `yaml:"type"`
	Cost            int           `yaml:"cost"`
	Damage          int           `yaml:"damage"`
	Rotation        RotationEntry `yaml:"rotation"`
	RemoveAfterShot bool          `yaml:"remove_after_shot"`
	MinRound        int           `yaml:"min_round"` // card can be loaded from this round on
	Effects         []EffectEntry `yaml:"effects"`
}

type cardFile struct {
	DefaultBullet string      `yaml:"default_bullet"`
	Cards         []CardEntry `yaml:"cards"`
}

// CardTable holds every card blueprint by name.
type CardTable struct {
	cards         map[string]*CardEntry
	defaultBullet string
}

// LoadCardTable loads cards.yaml. Any malformed or inconsistent entry is a
// setup error.
func LoadCardTable(path string) (*CardTable, error) {
	var f cardFile
	if err := decodeStrict(path, &f); err != nil {
		return nil, fmt.Errorf("card table: %w", err)
	}
	t := &CardTable{
		cards:         make(map[string]*CardEntry, len(f.Cards)),
		defaultBullet: f.DefaultBullet,
	}
	for i := range f.Cards {
		c := &f.Cards[i]
		if err := c.validate(); err != nil {
			return nil, fmt.Errorf("card table: card %q: %w", c.Name, err)
		}
		if _, dup := t.cards[c.Name]; dup {
			return nil, fmt.Errorf("card table: duplicate card %q: %w", c.Name, ErrSchema)
		}
		t.cards[c.Name] = c
	}
	def, ok := t.cards[f.DefaultBullet]
	if !ok {
		return nil, fmt.Errorf("card table: default bullet %q: %w", f.DefaultBullet, ErrUnknownCard)
	}
	if def.Type != CardBullet {
		return nil, fmt.Errorf("card table: default bullet %q is a %s: %w", def.Name, def.Type, ErrSchema)
	}
	for _, c := range t.cards {
		for _, e := range c.Effects {
			if e.Kind != EffectPutCardInHand {
				continue
			}
			if _, ok := t.cards[e.Card]; !ok {
				return nil, fmt.Errorf("card table: card %q puts %q in hand: %w", c.Name, e.Card, ErrUnknownCard)
			}
		}
	}
	return t, nil
}

func (c *CardEntry) validate() error {
	if c.Name == "" {
		return fmt.Errorf("missing name: %w", ErrSchema)
	}
	switch c.Type {
	case CardBullet, CardCover:
	default:
		return fmt.Errorf("type %q: %w", c.Type, ErrSchema)
	}
	if c.Cost < 0 || c.Damage < 0 {
		return fmt.Errorf("negative cost or damage: %w", ErrSchema)
	}
	switch c.Rotation.Direction {
	case "":
		c.Rotation = RotationEntry{Direction: RotateRight, Amount: 1}
	case RotateRight, RotateLeft:
		if c.Rotation.Amount <= 0 {
			c.Rotation.Amount = 1
		}
	case RotateNone:
		c.Rotation.Amount = 0
	default:
		return fmt.Errorf("rotation direction %q: %w", c.Rotation.Direction, ErrSchema)
	}
	if c.Title == "" {
		c.Title = c.Name
	}
	for _, e := range c.Effects {
		switch e.Trigger {
		case TriggerOnEnter, TriggerOnShot, TriggerOnDestroy, TriggerOnRoundStart:
		default:
			return fmt.Errorf("effect trigger %q: %w", e.Trigger, ErrSchema)
		}
		switch e.Kind {
		case EffectReserveGain, EffectDraw, EffectDamageEnemy, EffectBuffDamage, EffectPutCardInHand, EffectDestroy:
		case EffectGiveStatus:
			if !IsStatus(e.Status) {
				return fmt.Errorf("effect status %q: %w", e.Status, ErrSchema)
			}
		default:
			return fmt.Errorf("effect kind %q: %w", e.Kind, ErrSchema)
		}
	}
	return nil
}

// Get returns the card named name, or nil if none.
func (t *CardTable) Get(name string) *CardEntry {
	return t.cards[name]
}

// Lookup is Get with an error for unknown names.
func (t *CardTable) Lookup(name string) (*CardEntry, error) {
	if c, ok := t.cards[name]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCard, name)
}

// DefaultBullet returns the filler card drawn from an empty stack.
func (t *CardTable) DefaultBullet() *CardEntry {
	return t.cards[t.defaultBullet]
}

// Names returns all card names, sorted.
func (t *CardTable) Names() []string {
	names := make([]string, 0, len(t.cards))
	for n := range t.cards {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Count returns the total number of cards loaded.
func (t *CardTable) Count() int {
	return len(t.cards)
}
