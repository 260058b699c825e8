package game

import (
	"github.com/fortyfive/game/internal/core/timeline"
	"github.com/fortyfive/game/internal/data"
	"github.com/fortyfive/game/internal/ui"
	"go.uber.org/zap"
)

// drawCardsTimeline lets the player draw up to amount cards, one DrawCard
// answer per card, capped at the hard maximum. With maxPopup set, a full
// hand is reported with a confirmation popup.
func (s *Session) drawCardsTimeline(amount int, maxPopup bool) *timeline.Timeline {
	n := amount
	return s.build(func(b *timeline.Builder) {
		b.Action(func() {
			n = max(0, min(n, s.cfg.HardMaxCards-s.hand.Len()))
			s.log.Debug("drawing cards", zap.Int("cards", n))
			if n == 0 {
				return
			}
			s.toDraw = n
			s.surface.EnterState(ui.StateShowDrawPrompt)
			s.openPrompt(PromptDraw, s.printer.Sprintf(msgDrawCards, n))
		})
		b.IncludeLater(s.maxCardsPopupTimeline, func() bool { return n == 0 && maxPopup })
		b.IncludeLater(func() *timeline.Timeline {
			return s.build(func(b *timeline.Builder) {
				for i := 0; i < n; i++ {
					b.DelayUntil(s.hasPopup)
					b.Action(func() {
						s.takePopup()
						s.DrawCard()
						s.toDraw--
						s.popupText = s.printer.Sprintf(msgDrawCards, s.toDraw)
					})
				}
			})
		}, func() bool { return n > 0 })
		b.Action(func() {
			if n == 0 {
				return
			}
			s.closePrompt()
			s.surface.LeaveState(ui.StateShowDrawPrompt)
			s.checkCardMaximums()
		})
	})
}

func (s *Session) maxCardsPopupTimeline() *timeline.Timeline {
	return s.ConfirmationPopupTimeline(s.printer.Sprintf(msgMaxCards, s.cfg.HardMaxCards))
}

// ConfirmationPopupTimeline shows text and waits for the player to confirm.
func (s *Session) ConfirmationPopupTimeline(text string) *timeline.Timeline {
	return s.build(func(b *timeline.Builder) {
		b.Action(func() { s.openPrompt(PromptConfirm, text) })
		b.DelayUntil(s.hasPopup)
		b.Action(s.closePrompt)
	})
}

// CardSelectionPopupTimeline asks the player to pick a loaded card other
// than exclude and hands it to onSelect. Answers naming an empty slot or
// exclude are ignored.
func (s *Session) CardSelectionPopupTimeline(text string, exclude *Card, onSelect func(*Card)) *timeline.Timeline {
	return s.build(func(b *timeline.Builder) {
		b.Action(func() {
			s.selectSkip = exclude
			s.openPrompt(PromptSelect, text)
		})
		b.Include(s.awaitAnswer(func(ev any) bool {
			sel := ev.(PopupSelection)
			c := s.revolver.Get(sel.Slot)
			if c == nil || c == exclude {
				return false
			}
			onSelect(c)
			return true
		}))
		b.Action(func() {
			s.selectSkip = nil
			s.closePrompt()
		})
	})
}

// awaitAnswer waits for mailbox answers until accept takes one.
func (s *Session) awaitAnswer(accept func(ev any) bool) *timeline.Timeline {
	var ok bool
	return s.build(func(b *timeline.Builder) {
		b.DelayUntil(s.hasPopup)
		b.Action(func() { ok = accept(s.takePopup()) })
		b.IncludeLater(func() *timeline.Timeline { return s.awaitAnswer(accept) }, func() bool { return !ok })
	})
}

// EnemyAttackTimeline shows the incoming attack and waits for the player to
// either take it or parry with the card in the parry slot. A parry reduces
// the damage by the parry card's damage, removes the card and turns the
// revolver by the card's own rotation.
func (s *Session) EnemyAttackTimeline(damage int) *timeline.Timeline {
	var parryCard *Card
	resolved := false
	return s.build(func(b *timeline.Builder) {
		b.Action(func() {
			parryCard = s.revolver.Get(s.cfg.ParrySlot)
			s.surface.EnterState(ui.StateShowAttackPopup)
			s.openPrompt(PromptAttack, s.printer.Sprintf(msgAttack, s.attackerTitle(), damage))
		})
		b.DelayUntil(s.hasPopup)
		b.IncludeLater(func() *timeline.Timeline {
			resolved = true
			card := parryCard
			remaining := damage - card.CurDamage()
			s.log.Debug("attack parried", zap.Stringer("card", card), zap.Int("remaining", remaining))
			return s.build(func(b *timeline.Builder) {
				b.Action(func() { s.rotations++ })
				b.Action(func() {
					s.closePrompt()
					s.surface.LeaveState(ui.StateShowAttackPopup)
					s.revolver.Remove(card)
					card.LeaveGame()
				})
				b.Include(s.rotateTimeline(card.Rotation()))
				b.Action(s.onRevolverTurnActions)
				if remaining > 0 {
					b.Include(s.DamagePlayerTimeline(remaining))
				}
			})
		}, func() bool {
			_, parry := s.popup.(Parry)
			return !resolved && parry && parryCard != nil
		})
		b.IncludeLater(func() *timeline.Timeline {
			resolved = true
			return s.build(func(b *timeline.Builder) {
				b.Action(func() {
					s.closePrompt()
					s.surface.LeaveState(ui.StateShowAttackPopup)
				})
				b.Include(s.DamagePlayerTimeline(damage))
			})
		}, func() bool { return !resolved })
	})
}

func (s *Session) attackerTitle() string {
	for _, e := range s.enemies {
		if !e.defeated {
			return e.Title()
		}
	}
	return s.enemies[0].Title()
}

// putCardsUnderDeckTimeline makes the player put cards from the hand under
// the stack until only the soft maximum is left.
func (s *Session) putCardsUnderDeckTimeline() *timeline.Timeline {
	return s.build(func(b *timeline.Builder) {
		b.Action(func() {
			s.toPutUnder = max(0, s.hand.Len()-s.cfg.SoftMaxCards)
			s.openPrompt(PromptPutUnderDeck, s.printer.Sprintf(msgPutUnderDeck, s.toPutUnder))
		})
		b.IncludeLater(s.putOneUnderDeck, func() bool { return s.toPutUnder > 0 })
		b.Action(func() {
			s.closePrompt()
			s.checkCardMaximums()
		})
	})
}

func (s *Session) putOneUnderDeck() *timeline.Timeline {
	return s.build(func(b *timeline.Builder) {
		b.Include(s.awaitAnswer(func(ev any) bool {
			c := s.hand.Find(ev.(PutCardUnderDeck).CardID)
			if c == nil {
				return false
			}
			s.hand.Remove(c)
			s.stack.PutUnder(c)
			s.toPutUnder--
			s.popupText = s.printer.Sprintf(msgPutUnderDeck, s.toPutUnder)
			s.log.Debug("card put under deck", zap.Stringer("card", c))
			return true
		}))
		b.IncludeLater(s.putOneUnderDeck, func() bool { return s.toPutUnder > 0 })
	})
}

// DestroyCardTimeline removes card from the revolver as destroyed and runs
// its destroy effects.
func (s *Session) DestroyCardTimeline(card *Card) *timeline.Timeline {
	return s.build(func(b *timeline.Builder) {
		b.Include(s.playAnimation("card.destroy", s.timing.DamageFlash))
		b.Action(func() {
			s.revolver.Remove(card)
			card.OnDestroy()
			s.log.Debug("destroyed card", zap.Stringer("card", card))
			s.phases.Fire(CardDestroyed)
		})
		b.IncludeLater(func() *timeline.Timeline {
			return card.CheckEffects(data.TriggerOnDestroy, s)
		}, nil)
	})
}

// destroyPromptTimeline switches to the destroy phase and lets the player
// pick a loaded card other than source to destroy.
func (s *Session) destroyPromptTimeline(source *Card) *timeline.Timeline {
	var picked *Card
	return s.build(func(b *timeline.Builder) {
		b.Action(func() {
			s.changePhase(PhaseCardDestroy)
			s.selectSkip = source
			s.openPrompt(PromptDestroy, s.printer.Sprintf(msgDestroyPrompt))
		})
		b.Include(s.awaitAnswer(func(ev any) bool {
			for _, c := range s.revolver.Cards() {
				if c.ID == ev.(DestroyCard).CardID && c != source {
					picked = c
					return true
				}
			}
			return false
		}))
		b.Action(func() {
			s.selectSkip = nil
			s.closePrompt()
		})
		b.IncludeLater(func() *timeline.Timeline { return s.DestroyCardTimeline(picked) }, nil)
	})
}
