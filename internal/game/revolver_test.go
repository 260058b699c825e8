package game

import (
	"testing"

	"github.com/fortyfive/game/internal/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadedRevolver(t *testing.T) (*Revolver, []*Card) {
	t.Helper()
	r := &Revolver{}
	cards := make([]*Card, RevolverSlots)
	for i := range cards {
		cards[i] = newCard(&data.CardEntry{Name: string(rune('a' + i)), Type: data.CardBullet})
		require.True(t, r.Set(i+1, cards[i]))
	}
	return r, cards
}

func TestRevolverTurnRight(t *testing.T) {
	r, c := loadedRevolver(t)
	r.turn(data.RotateRight)
	assert.Equal(t, []*Card{c[1], c[2], c[3], c[4], c[0]}, r.Cards())
	assert.Equal(t, 5, r.SlotOf(c[0]))
}

func TestRevolverTurnLeft(t *testing.T) {
	r, c := loadedRevolver(t)
	r.turn(data.RotateLeft)
	assert.Equal(t, []*Card{c[4], c[0], c[1], c[2], c[3]}, r.Cards())
	assert.Equal(t, 1, r.SlotOf(c[4]))
}

func TestRevolverFullTurnIsIdentity(t *testing.T) {
	r, c := loadedRevolver(t)
	for i := 0; i < RevolverSlots; i++ {
		r.turn(data.RotateRight)
	}
	assert.Equal(t, c, r.Cards())
	r.turn(data.RotateNone)
	assert.Equal(t, c, r.Cards())
}

func TestRevolverSlots(t *testing.T) {
	r := &Revolver{}
	c := newCard(&data.CardEntry{Name: "x"})
	assert.False(t, r.Set(0, c))
	assert.False(t, r.Set(6, c))
	assert.Nil(t, r.Get(0))
	require.True(t, r.Set(2, c))
	assert.False(t, r.Set(2, c), "occupied")
	assert.Equal(t, 1, r.Count())
	assert.Same(t, c, r.RemoveSlot(2))
	assert.False(t, r.Remove(c))
	assert.Zero(t, r.SlotOf(nil))
}

func TestRotationSteps(t *testing.T) {
	assert.Equal(t, 2, Right(2).steps())
	assert.Equal(t, 1, Left(1).steps())
	assert.Equal(t, 0, NoRotation.steps())
	assert.Equal(t, "Right(2)", Right(2).String())
	assert.Equal(t, "None", NoRotation.String())
}

func TestModifyRotation(t *testing.T) {
	tests := []struct {
		name string
		mods []EncounterModifier
		in   Rotation
		shot int
		want Rotation
	}{
		{"none", nil, Right(1), 1, Right(1)},
		{"reverse right", []EncounterModifier{ModReverse}, Right(1), 1, Left(1)},
		{"reverse left", []EncounterModifier{ModReverse}, Left(2), 1, Right(2)},
		{"reverse keeps none", []EncounterModifier{ModReverse}, NoRotation, 1, NoRotation},
		{"double", []EncounterModifier{ModDouble}, Left(2), 1, Left(4)},
		{"jam third shot", []EncounterModifier{ModJam}, Right(1), 3, NoRotation},
		{"jam other shot", []EncounterModifier{ModJam}, Right(1), 4, Right(1)},
		{"reverse and double", []EncounterModifier{ModReverse, ModDouble}, Right(1), 2, Left(2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, modifyRotation(tt.mods, tt.in, tt.shot))
		})
	}
}

func TestCardModifiers(t *testing.T) {
	c := newCard(&data.CardEntry{Name: "x", Type: data.CardBullet, Damage: 4, MinRound: 2})
	assert.False(t, c.AllowsEnteringGame(1))
	assert.True(t, c.AllowsEnteringGame(2))

	c.OnEnter()
	c.AddModifier(Modifier{Source: "a", Damage: 3, UntilRotation: 1})
	c.AddModifier(Modifier{Source: "b", Damage: -10, UntilRotation: -1})
	assert.Equal(t, 0, c.CurDamage(), "damage never drops below zero")

	c.CheckModifierValidity(2)
	require.Len(t, c.Modifiers(), 1)
	assert.Equal(t, "b", c.Modifiers()[0].Source)

	c.OnDestroy()
	assert.True(t, c.Destroyed())
	assert.False(t, c.InGame())
	assert.Empty(t, c.Modifiers())
	assert.False(t, c.AllowsEnteringGame(5))
}

func TestDeckPutUnder(t *testing.T) {
	d := &Deck{}
	a := newCard(&data.CardEntry{Name: "a"})
	b := newCard(&data.CardEntry{Name: "b"})
	d.PutUnder(a)
	d.PutUnder(b)
	assert.Equal(t, []string{"a", "b"}, d.Names())
	top, ok := d.Pop()
	require.True(t, ok)
	assert.Same(t, a, top)
	d.Pop()
	_, ok = d.Pop()
	assert.False(t, ok)
}
