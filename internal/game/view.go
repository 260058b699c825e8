package game

import (
	"github.com/fortyfive/game/internal/persist"
)

// Read-only accessors for hosts, the autopilot and tests.

func (s *Session) Reserves() int        { return s.curReserves }
func (s *Session) BaseReserves() int    { return s.baseReserves }
func (s *Session) Lives() int           { return s.lives }
func (s *Session) MaxLives() int        { return s.maxLives }
func (s *Session) PlayerCover() int     { return s.playerCover }
func (s *Session) Turn() int            { return s.turn }
func (s *Session) RotationCounter() int { return s.rotations }
func (s *Session) CardsDrawn() int      { return s.cardsDrawn }
func (s *Session) ReservesSpent() int   { return s.reservesSpent }
func (s *Session) RemainingTurns() int  { return s.remaining }
func (s *Session) RemainingCards() int  { return s.stack.Len() }
func (s *Session) Revolver() *Revolver  { return s.revolver }
func (s *Session) Hand() *Hand          { return s.hand }
func (s *Session) Enemies() []*Enemy    { return append([]*Enemy(nil), s.enemies...) }
func (s *Session) Target() *Enemy       { return s.targetedEnemy() }
func (s *Session) Prompt() Prompt       { return s.prompt }
func (s *Session) PopupText() string    { return s.popupText }
func (s *Session) PopupPending() bool   { return s.popup != nil }
func (s *Session) CardsToDraw() int     { return s.toDraw }
func (s *Session) CardsToPutUnder() int { return s.toPutUnder }
func (s *Session) Announcement() string { return s.announced }
func (s *Session) Frozen() bool         { return s.frozen }
func (s *Session) Won() bool            { return s.won }
func (s *Session) Outcome() Outcome     { return s.outcome }
func (s *Session) Money() int           { return s.money }

func (s *Session) SaveState() persist.SaveState {
	st := s.save
	st.Cards = append([]string(nil), s.save.Cards...)
	return st
}

// Busy reports whether the main timeline still has work queued.
func (s *Session) Busy() bool { return !s.main.Finished() }

// SelectExcluded is the card a running selection or destroy prompt does not
// accept.
func (s *Session) SelectExcluded() *Card { return s.selectSkip }

// ParryCard is the card that would parry an attack right now.
func (s *Session) ParryCard() *Card { return s.revolver.Get(s.cfg.ParrySlot) }

// Animations returns the number of running decorative timelines.
func (s *Session) Animations() int { return s.anims.Len() }
