package system

import (
	"time"

	"github.com/fortyfive/game/internal/core/event"
	coresys "github.com/fortyfive/game/internal/core/system"
	"github.com/fortyfive/game/internal/data"
	"github.com/fortyfive/game/internal/game"
	"go.uber.org/zap"
)

// Autopilot plays the session through the event bus the way a player would:
// it answers every prompt, loads affordable bullets into the firing slot,
// shoots them and ends the turn when nothing is left to do. It runs right
// after the InputSystem, so its events are delivered on the next tick.
// Phase 0 (Input).
type Autopilot struct {
	session  *game.Session
	bus      *event.Bus
	log      *zap.Logger
	maxShots int // per turn

	turn  int
	shots int
}

func NewAutopilot(s *game.Session, bus *event.Bus, log *zap.Logger) *Autopilot {
	return &Autopilot{session: s, bus: bus, log: log, maxShots: game.RevolverSlots}
}

func (a *Autopilot) Phase() coresys.Phase { return coresys.PhaseInput }

func (a *Autopilot) Update(_ time.Duration) error {
	s := a.session
	if s.Outcome() != game.Running || a.bus.Pending() > 0 || s.PopupPending() {
		return nil
	}
	if s.Prompt() != game.PromptNone {
		a.answer()
		return nil
	}
	if s.Busy() || s.Phase() != game.PhaseFree {
		return nil
	}
	if s.Turn() != a.turn {
		a.turn, a.shots = s.Turn(), 0
	}
	a.play()
	return nil
}

func (a *Autopilot) answer() {
	s := a.session
	switch s.Prompt() {
	case game.PromptDraw:
		event.Emit(a.bus, game.DrawCard{})
	case game.PromptConfirm:
		event.Emit(a.bus, game.PopupConfirmation{})
	case game.PromptAttack:
		if s.ParryCard() != nil {
			event.Emit(a.bus, game.Parry{})
		} else {
			event.Emit(a.bus, game.PopupConfirmation{})
		}
	case game.PromptSelect:
		if slot, c := a.loaded(); c != nil {
			event.Emit(a.bus, game.PopupSelection{Slot: slot})
		}
	case game.PromptDestroy:
		if _, c := a.loaded(); c != nil {
			event.Emit(a.bus, game.DestroyCard{CardID: c.ID})
		}
	case game.PromptPutUnderDeck:
		if hand := s.Hand().Cards(); len(hand) > 0 {
			event.Emit(a.bus, game.PutCardUnderDeck{CardID: hand[0].ID})
		}
	}
}

// loaded returns the first loaded card the open prompt accepts.
func (a *Autopilot) loaded() (int, *game.Card) {
	skip := a.session.SelectExcluded()
	for slot := game.RevolverSlots; slot >= 1; slot-- {
		if c := a.session.Revolver().Get(slot); c != nil && c != skip {
			return slot, c
		}
	}
	return 0, nil
}

func (a *Autopilot) play() {
	s := a.session
	if s.Won() {
		a.log.Debug("autopilot: completing encounter")
		event.Emit(a.bus, game.EndTurn{})
		return
	}
	if a.shots < a.maxShots && s.Revolver().Get(game.FiringSlot) != nil {
		a.shots++
		event.Emit(a.bus, game.ShootRevolver{})
		return
	}
	if a.shots < a.maxShots {
		if c := a.affordable(data.CardBullet); c != nil {
			event.Emit(a.bus, game.LoadBullet{CardID: c.ID, Slot: game.FiringSlot})
			return
		}
	}
	if c := a.affordable(data.CardCover); c != nil {
		event.Emit(a.bus, game.PlayCover{CardID: c.ID})
		return
	}
	a.log.Debug("autopilot: ending turn", zap.Int("turn", s.Turn()), zap.Int("shots", a.shots))
	event.Emit(a.bus, game.EndTurn{})
}

// affordable returns the most damaging card of type t that can be played now.
func (a *Autopilot) affordable(t data.CardType) *game.Card {
	s := a.session
	var best *game.Card
	for _, c := range s.Hand().Cards() {
		if c.Type() != t || c.Cost() > s.Reserves() || !c.AllowsEnteringGame(s.Turn()) {
			continue
		}
		if best == nil || c.BaseDamage() > best.BaseDamage() {
			best = c
		}
	}
	return best
}
