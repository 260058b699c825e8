package game

import (
	"slices"

	"github.com/google/uuid"
)

// Hand holds the cards the player can play.
type Hand struct {
	cards []*Card
}

func (h *Hand) Add(c *Card) { h.cards = append(h.cards, c) }

// Remove takes c out of the hand by identity.
func (h *Hand) Remove(c *Card) bool {
	i := slices.Index(h.cards, c)
	if i < 0 {
		return false
	}
	h.cards = slices.Delete(h.cards, i, i+1)
	return true
}

func (h *Hand) Contains(c *Card) bool { return slices.Contains(h.cards, c) }

// Find returns the card with id, or nil.
func (h *Hand) Find(id uuid.UUID) *Card {
	for _, c := range h.cards {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (h *Hand) Len() int { return len(h.cards) }

// Cards returns a copy of the hand in insertion order.
func (h *Hand) Cards() []*Card { return slices.Clone(h.cards) }

// Deck is the shuffled draw stack.
type Deck struct {
	cards []*Card
}

// Pop takes the top card.
func (d *Deck) Pop() (*Card, bool) {
	if len(d.cards) == 0 {
		return nil, false
	}
	c := d.cards[0]
	d.cards = d.cards[1:]
	return c, true
}

// PutUnder puts c at the bottom of the stack.
func (d *Deck) PutUnder(c *Card) { d.cards = append(d.cards, c) }

func (d *Deck) Len() int { return len(d.cards) }

// Names returns the card names top to bottom.
func (d *Deck) Names() []string {
	out := make([]string, len(d.cards))
	for i, c := range d.cards {
		out[i] = c.Name()
	}
	return out
}
