package game

import (
	"github.com/fortyfive/game/internal/core/fsm"
	"github.com/fortyfive/game/internal/core/timeline"
	"github.com/fortyfive/game/internal/data"
	"github.com/fortyfive/game/internal/ui"
	"go.uber.org/zap"
)

func (s *Session) newPhaseMachine() *fsm.Machine[Phase, PhaseEvent] {
	m := fsm.New[Phase, PhaseEvent](PhaseSetup)
	m.On(PhaseInitialDraw, AllCardsDrawn, PhaseEnemyReveal).
		On(PhaseSpecialDraw, AllCardsDrawn, PhaseFree).
		On(PhaseCardDestroy, CardDestroyed, PhaseFree).
		On(PhaseFree, EndTurnRequested, PhaseEnemyAction)

	m.Handle(PhaseInitialDraw, fsm.Hooks{Enter: s.enterInitialDraw, Exit: s.exitInitialDraw})
	m.Handle(PhaseSpecialDraw, fsm.Hooks{
		Enter: func() { s.surface.EnterState(ui.StateShowDrawPrompt) },
		Exit:  func() { s.surface.LeaveState(ui.StateShowDrawPrompt) },
	})
	var prevPost string
	m.Handle(PhaseCardDestroy, fsm.Hooks{
		Enter: func() {
			prevPost = s.surface.SetPostProcessor(ui.PostDestroy)
			s.surface.EnterState(ui.StateDestroyMode)
		},
		Exit: func() {
			s.surface.LeaveState(ui.StateDestroyMode)
			s.surface.SetPostProcessor(prevPost)
		},
	})
	m.Handle(PhaseEnemyReveal, fsm.Hooks{Enter: s.enterEnemyReveal})
	m.Handle(PhaseEnemyAction, fsm.Hooks{Enter: s.enterEnemyAction})

	m.Observe(func(from, to Phase) {
		s.log.Debug("phase change", zap.Stringer("from", from), zap.Stringer("to", to))
	})
	return m
}

// Phase returns the active phase.
func (s *Session) Phase() Phase { return s.phases.Current() }

func (s *Session) changePhase(p Phase) { s.phases.Change(p) }

func (s *Session) enterInitialDraw() {
	if s.turn == 0 {
		s.turn = 1
	} else {
		s.nextTurn()
	}
	if !s.running() {
		return
	}
	s.curReserves = s.baseReserves
	s.log.Info("turn started", zap.Int("turn", s.turn), zap.Int("reserves", s.curReserves), zap.Int("lives", s.lives))

	amount := s.cfg.CardsToDraw
	if s.turn == 1 {
		amount = s.cfg.CardsToDrawInFirstRound
	}
	amount = min(amount, s.cfg.HardMaxCards-s.hand.Len())
	s.log.Debug("initial draw", zap.Int("cards", amount))
	if amount <= 0 {
		s.changePhase(PhaseEnemyReveal)
		return
	}
	s.AppendMainTimeline(s.build(func(b *timeline.Builder) {
		b.Include(s.drawCardsTimeline(amount, false))
		b.Action(func() { s.phases.Fire(AllCardsDrawn) })
	}))
}

func (s *Session) exitInitialDraw() {
	s.surface.LeaveState(ui.StateShowDrawPrompt)
	s.AppendMainTimeline(s.build(func(b *timeline.Builder) {
		b.IncludeLater(s.checkStatusEffectsAfterTurn, nil)
	}))
	s.checkCardModifierValidity()
}

func (s *Session) enterEnemyReveal() {
	s.director.ChooseActions()
	s.AppendMainTimeline(s.build(func(b *timeline.Builder) {
		b.IncludeLater(func() *timeline.Timeline {
			return s.checkEffectsActiveCards(data.TriggerOnRoundStart)
		}, nil)
	}))
	s.changePhase(PhaseFree)
}

// enterEnemyAction queues the enemy turn. It ends by forcing the next
// initial draw.
func (s *Session) enterEnemyAction() {
	s.endingTurn = false
	buffer := s.timing.BufferTime
	s.AppendMainTimeline(s.build(func(b *timeline.Builder) {
		b.Include(s.playAnimation(ui.StateEnemyTurn, s.timing.BannerDuration))
		b.Delay(buffer)
		for _, e := range s.enemies {
			b.IncludeLater(e.DoAction, func() bool { return s.running() })
		}
		b.Delay(buffer)
		b.Action(func() {
			for _, e := range s.enemies {
				e.ResetAction()
			}
		})
		b.IncludeLater(func() *timeline.Timeline {
			return s.build(func(b *timeline.Builder) {
				b.Include(s.playAnimation(ui.StatePlayerTurn, s.timing.BannerDuration))
				b.Delay(buffer)
				b.Action(func() {
					if s.running() {
						s.changePhase(PhaseInitialDraw)
					}
				})
			})
		}, s.running)
	}))
}

// nextTurn counts a new turn. Running out of turns loses the encounter.
func (s *Session) nextTurn() {
	s.turn++
	if s.remaining == -1 {
		return
	}
	s.remaining--
	s.log.Debug("turns remaining", zap.Int("remaining", s.remaining))
	if s.remaining <= 0 && !s.won {
		s.log.Info("out of turns")
		s.PlayerDied()
	}
}
