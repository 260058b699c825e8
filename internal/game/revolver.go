package game

import (
	"fmt"

	"github.com/fortyfive/game/internal/data"
)

// RevolverSlots is the number of chambers; slots are numbered 1..5.
const RevolverSlots = 5

// FiringSlot is the chamber a shot fires.
const FiringSlot = 5

// Rotation is how far and which way the revolver turns.
type Rotation struct {
	Direction data.Direction
	Amount    int
}

func Right(n int) Rotation { return Rotation{Direction: data.RotateRight, Amount: n} }
func Left(n int) Rotation  { return Rotation{Direction: data.RotateLeft, Amount: n} }

// NoRotation keeps every card where it is.
var NoRotation = Rotation{Direction: data.RotateNone}

func (r Rotation) String() string {
	switch r.Direction {
	case data.RotateRight:
		return fmt.Sprintf("Right(%d)", r.Amount)
	case data.RotateLeft:
		return fmt.Sprintf("Left(%d)", r.Amount)
	}
	return "None"
}

// steps returns the number of single-slot turns r performs.
func (r Rotation) steps() int {
	if r.Direction == data.RotateNone || r.Amount < 0 {
		return 0
	}
	return r.Amount
}

// Revolver is the fixed five-slot container cards are fired from.
type Revolver struct {
	slots [RevolverSlots]*Card
}

// Get returns the card in slot (1..5), or nil.
func (r *Revolver) Get(slot int) *Card {
	if slot < 1 || slot > RevolverSlots {
		return nil
	}
	return r.slots[slot-1]
}

// Set puts c into an empty slot.
func (r *Revolver) Set(slot int, c *Card) bool {
	if slot < 1 || slot > RevolverSlots || r.slots[slot-1] != nil {
		return false
	}
	r.slots[slot-1] = c
	return true
}

// RemoveSlot empties slot and returns what was in it.
func (r *Revolver) RemoveSlot(slot int) *Card {
	if slot < 1 || slot > RevolverSlots {
		return nil
	}
	c := r.slots[slot-1]
	r.slots[slot-1] = nil
	return c
}

// Remove takes c out of whatever slot holds it.
func (r *Revolver) Remove(c *Card) bool {
	if slot := r.SlotOf(c); slot != 0 {
		r.slots[slot-1] = nil
		return true
	}
	return false
}

// SlotOf returns the slot holding c, or 0.
func (r *Revolver) SlotOf(c *Card) int {
	if c == nil {
		return 0
	}
	for i, sc := range r.slots {
		if sc == c {
			return i + 1
		}
	}
	return 0
}

// Cards returns the loaded cards in slot order.
func (r *Revolver) Cards() []*Card {
	out := make([]*Card, 0, RevolverSlots)
	for _, c := range r.slots {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

func (r *Revolver) Count() int {
	n := 0
	for _, c := range r.slots {
		if c != nil {
			n++
		}
	}
	return n
}

// turnRight moves every card one slot down; slot 1 wraps to slot 5.
func (r *Revolver) turnRight() {
	first := r.slots[0]
	copy(r.slots[:], r.slots[1:])
	r.slots[RevolverSlots-1] = first
}

// turnLeft moves every card one slot up; slot 5 wraps to slot 1.
func (r *Revolver) turnLeft() {
	last := r.slots[RevolverSlots-1]
	copy(r.slots[1:], r.slots[:RevolverSlots-1])
	r.slots[0] = last
}

func (r *Revolver) turn(dir data.Direction) {
	switch dir {
	case data.RotateRight:
		r.turnRight()
	case data.RotateLeft:
		r.turnLeft()
	}
}
