package game

import (
	"github.com/fortyfive/game/internal/data"
	"github.com/google/uuid"
)

// Modifier changes a card's damage until the revolver has turned past
// UntilRotation. A negative UntilRotation never expires.
type Modifier struct {
	Source        string
	Damage        int
	UntilRotation int
}

func (m Modifier) validAt(rotation int) bool {
	return m.UntilRotation < 0 || rotation <= m.UntilRotation
}

// Card is one instance of a card blueprint.
type Card struct {
	ID uuid.UUID

	entry     *data.CardEntry
	modifiers []Modifier
	inGame    bool
	destroyed bool
	turns     int // revolver turns while loaded
	shots     int
}

func newCard(entry *data.CardEntry) *Card {
	return &Card{ID: uuid.New(), entry: entry}
}

func (c *Card) Name() string                { return c.entry.Name }
func (c *Card) Title() string               { return c.entry.Title }
func (c *Card) Type() data.CardType         { return c.entry.Type }
func (c *Card) Cost() int                   { return c.entry.Cost }
func (c *Card) BaseDamage() int             { return c.entry.Damage }
func (c *Card) RemoveAfterShot() bool       { return c.entry.RemoveAfterShot }
func (c *Card) InGame() bool                { return c.inGame }
func (c *Card) Destroyed() bool             { return c.destroyed }
func (c *Card) Modifiers() []Modifier       { return append([]Modifier(nil), c.modifiers...) }
func (c *Card) Effects() []data.EffectEntry { return c.entry.Effects }

// CurDamage is the base damage plus every active modifier, never below zero.
func (c *Card) CurDamage() int {
	d := c.entry.Damage
	for _, m := range c.modifiers {
		d += m.Damage
	}
	if d < 0 {
		return 0
	}
	return d
}

// Rotation is how the revolver turns after this card is fired.
func (c *Card) Rotation() Rotation {
	return Rotation{Direction: c.entry.Rotation.Direction, Amount: c.entry.Rotation.Amount}
}

// AllowsEnteringGame reports whether the card may be loaded in turn.
func (c *Card) AllowsEnteringGame(turn int) bool {
	return !c.destroyed && turn >= c.entry.MinRound
}

func (c *Card) AddModifier(m Modifier) { c.modifiers = append(c.modifiers, m) }

// OnEnter is called once the card sits in the revolver.
func (c *Card) OnEnter() {
	c.inGame = true
	c.turns = 0
}

// LeaveGame is called when the card leaves the revolver for good or goes
// back to the hand.
func (c *Card) LeaveGame() {
	c.inGame = false
	c.modifiers = nil
}

func (c *Card) OnDestroy() {
	c.LeaveGame()
	c.destroyed = true
}

func (c *Card) AfterShot() {
	c.shots++
	if c.entry.RemoveAfterShot {
		c.LeaveGame()
	}
}

func (c *Card) OnRevolverTurn() { c.turns++ }

// CheckModifierValidity drops modifiers that expired by rotation.
func (c *Card) CheckModifierValidity(rotation int) {
	kept := c.modifiers[:0]
	for _, m := range c.modifiers {
		if m.validAt(rotation) {
			kept = append(kept, m)
		}
	}
	for i := len(kept); i < len(c.modifiers); i++ {
		c.modifiers[i] = Modifier{}
	}
	c.modifiers = kept
}

func (c *Card) String() string { return c.entry.Name + "#" + c.ID.String()[:8] }
