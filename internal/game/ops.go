package game

import (
	"github.com/fortyfive/game/internal/core/timeline"
	"github.com/fortyfive/game/internal/data"
	"github.com/fortyfive/game/internal/ui"
	"go.uber.org/zap"
)

// Shoot fires the card in the firing slot. The revolver rotation, the shot
// itself and the shot post-processing run in parallel.
func (s *Session) Shoot() bool {
	if !s.running() || s.Phase() != PhaseFree {
		s.log.Debug("shoot refused", zap.Stringer("phase", s.Phase()))
		return false
	}
	s.rotations++

	card := s.revolver.Get(FiringSlot)
	rot := Right(1)
	if card != nil {
		rot = card.Rotation()
	}
	rot = modifyRotation(s.modifiers, rot, s.rotations)
	enemy := s.targetedEnemy()

	s.log.Debug("revolver is shooting",
		zap.Int("rotation", s.rotations), zap.Stringer("card", card), zap.Stringer("direction", rot))

	var (
		enemyDamage   *timeline.Timeline
		afterDamage   *timeline.Timeline
		afterRotation *timeline.Timeline
		onShotEffects *timeline.Timeline
	)
	if card != nil {
		enemyDamage = s.build(func(b *timeline.Builder) {
			b.Action(func() {
				if card.RemoveAfterShot() {
					s.revolver.Remove(card)
				}
			})
			b.Include(enemy.Damage(card.CurDamage()))
			b.Action(card.AfterShot)
		})
		afterDamage = enemy.ExecuteStatusEffectsAfterDamage(card.CurDamage())
		afterRotation = enemy.ExecuteStatusEffectsAfterRevolverRotation()
		onShotEffects = card.CheckEffects(data.TriggerOnShot, s)
	}

	shot := s.build(func(b *timeline.Builder) {
		b.IncludeLater(func() *timeline.Timeline {
			return enemy.DamagePlayerDirectly(s.cfg.ShotEmptyDamage)
		}, func() bool { return card == nil })
		b.Include(enemyDamage)
		b.IncludeLater(func() *timeline.Timeline { return afterDamage }, func() bool { return afterDamage != nil })
		b.IncludeLater(func() *timeline.Timeline { return onShotEffects }, func() bool { return onShotEffects != nil })
		b.Action(func() { s.log.Debug("revolver rotated", zap.Stringer("direction", rot)) })
		b.IncludeLater(func() *timeline.Timeline { return afterRotation }, func() bool { return afterRotation != nil })
		b.Action(s.onRevolverTurnActions)
	})

	s.AppendMainTimeline(s.build(func(b *timeline.Builder) {
		b.Parallel(
			shot.AsAction(),
			s.postProcessing(ui.PostShoot, s.timing.PostShotDuration).AsAction(),
			s.rotateTimeline(rot).AsAction(),
		)
	}))
	return true
}

// rotateTimeline turns the revolver one slot per step.
func (s *Session) rotateTimeline(r Rotation) *timeline.Timeline {
	return s.build(func(b *timeline.Builder) {
		for i := 0; i < r.steps(); i++ {
			b.Action(func() { s.revolver.turn(r.Direction) })
			b.Delay(s.timing.RotationStep)
		}
	})
}

// onRevolverTurnActions updates everything that reacts to a rotation.
func (s *Session) onRevolverTurnActions() {
	s.surface.InvalidateLayout()
	s.checkCardModifierValidity()
	for _, c := range s.revolver.Cards() {
		c.OnRevolverTurn()
	}
	for _, e := range s.enemies {
		e.OnRevolverTurn()
	}
}

func (s *Session) checkCardModifierValidity() {
	for _, c := range s.revolver.Cards() {
		c.CheckModifierValidity(s.rotations)
	}
}

// EndTurn ends the player's turn, or completes the encounter once every
// enemy is down.
func (s *Session) EndTurn() bool {
	if !s.running() || s.Phase() != PhaseFree || s.endingTurn {
		return false
	}
	if s.won {
		s.completeWin()
		return true
	}
	s.endingTurn = true
	s.log.Debug("turn ending", zap.Int("turn", s.turn), zap.Int("hand", s.hand.Len()))
	s.AppendMainTimeline(s.build(func(b *timeline.Builder) {
		b.IncludeLater(s.putCardsUnderDeckTimeline, func() bool { return s.hand.Len() >= s.cfg.SoftMaxCards })
		b.Include(s.director.CheckActions())
		b.Action(func() { s.phases.Fire(EndTurnRequested) })
	}))
	return true
}

// LoadBulletInRevolver moves card from the hand into slot. Illegal requests
// do nothing and report false.
func (s *Session) LoadBulletInRevolver(card *Card, slot int) bool {
	switch {
	case !s.running() || card == nil || !s.hand.Contains(card):
		return false
	case card.Type() != data.CardBullet || !card.AllowsEnteringGame(s.turn):
		return false
	case slot < 1 || slot > RevolverSlots || s.revolver.Get(slot) != nil:
		return false
	case !s.cost(card.Cost()):
		return false
	}
	s.hand.Remove(card)
	s.revolver.Set(slot, card)
	s.log.Debug("card entered revolver", zap.Stringer("card", card), zap.Int("slot", slot))
	card.OnEnter()
	s.checkCardMaximums()
	s.AppendMainTimeline(card.CheckEffects(data.TriggerOnEnter, s))
	return true
}

// PlayCover spends a cover card from the hand on player cover.
func (s *Session) PlayCover(card *Card) bool {
	if !s.running() || card == nil || !s.hand.Contains(card) || card.Type() != data.CardCover {
		return false
	}
	if !card.AllowsEnteringGame(s.turn) || !s.cost(card.Cost()) {
		return false
	}
	s.hand.Remove(card)
	s.playerCover += card.BaseDamage()
	s.log.Debug("cover played", zap.Stringer("card", card), zap.Int("cover", s.playerCover))
	s.checkCardMaximums()
	return true
}

// PutCardFromRevolverBackInHand unloads card.
func (s *Session) PutCardFromRevolverBackInHand(card *Card) bool {
	if card == nil || !s.revolver.Remove(card) {
		return false
	}
	card.LeaveGame()
	s.hand.Add(card)
	s.checkCardMaximums()
	return true
}

// DestroyCardInHand discards card from the hand for good.
func (s *Session) DestroyCardInHand(card *Card) bool {
	if card == nil || !s.hand.Remove(card) {
		return false
	}
	s.checkCardMaximums()
	return true
}

// cost spends c reserves if there are enough; otherwise nothing changes.
func (s *Session) cost(c int) bool {
	if c > s.curReserves {
		return false
	}
	s.curReserves -= c
	s.reservesSpent += c
	s.save.UsedReserves += c
	s.log.Debug("reserves spent", zap.Int("cost", c), zap.Int("reserves", s.curReserves))
	return true
}

// GainReserves adds reserves.
func (s *Session) GainReserves(amount int) {
	s.curReserves += amount
	s.log.Debug("player gained reserves", zap.Int("amount", amount), zap.Int("reserves", s.curReserves))
}

// DrawCard moves the top card of the stack into the hand. An empty stack
// yields a fresh default bullet.
func (s *Session) DrawCard() {
	card, ok := s.stack.Pop()
	if !ok {
		card = newCard(s.cards.DefaultBullet())
	}
	s.hand.Add(card)
	s.cardsDrawn++
	s.log.Debug("card was drawn", zap.Stringer("card", card), zap.Int("remaining", s.stack.Len()))
}

// checkCardMaximums runs after every hand change: it relayouts the surface
// and keeps one hand-size warning in sync with the hand. The shown warning
// is only swapped when its severity class changes.
func (s *Session) checkCardMaximums() {
	s.surface.InvalidateLayout()
	n := s.hand.Len()
	switch {
	case n >= s.cfg.HardMaxCards:
		if s.hasWarning {
			if s.warningHard {
				return
			}
			s.surface.RemovePermanentWarning(s.warningID)
		}
		s.warningID = s.surface.AddPermanentWarning(
			s.printer.Sprintf(msgHardTitle),
			s.printer.Sprintf(msgHardBody, s.cfg.SoftMaxCards),
			ui.SeverityHigh)
		s.hasWarning, s.warningHard = true, true
	case n >= s.cfg.SoftMaxCards:
		if s.hasWarning {
			if !s.warningHard {
				return
			}
			s.surface.RemovePermanentWarning(s.warningID)
		}
		s.warningID = s.surface.AddPermanentWarning(
			s.printer.Sprintf(msgSoftTitle),
			s.printer.Sprintf(msgSoftBody, s.cfg.SoftMaxCards),
			ui.SeverityMiddle)
		s.hasWarning, s.warningHard = true, false
	default:
		if s.hasWarning {
			s.surface.RemovePermanentWarning(s.warningID)
			s.hasWarning, s.warningHard = false, false
		}
	}
}

// TryToPutCardsInHand creates amount new cards named name in the hand, as
// many as fit under the hard maximum. When none fit the player is told.
func (s *Session) TryToPutCardsInHand(name string, amount int) *timeline.Timeline {
	var n int
	return s.build(func(b *timeline.Builder) {
		b.Action(func() { n = min(s.cfg.HardMaxCards-s.hand.Len(), amount) })
		b.IncludeLater(s.maxCardsPopupTimeline, func() bool { return n <= 0 })
		b.Action(func() {
			if n <= 0 {
				return
			}
			entry, err := s.cards.Lookup(name)
			if err != nil {
				panic(err)
			}
			for i := 0; i < n; i++ {
				s.hand.Add(newCard(entry))
			}
			s.log.Debug("cards entered hand", zap.String("card", name), zap.Int("amount", n))
			s.checkCardMaximums()
		})
	})
}

// SpecialDraw lets the player draw amount extra cards. Only legal during
// free play; otherwise it returns nil.
func (s *Session) SpecialDraw(amount int) *timeline.Timeline {
	if !s.running() || s.Phase() != PhaseFree {
		return nil
	}
	return s.build(func(b *timeline.Builder) {
		b.Action(func() { s.changePhase(PhaseSpecialDraw) })
		b.Include(s.drawCardsTimeline(amount, true))
		b.Action(func() { s.phases.Fire(AllCardsDrawn) })
	})
}

// DamagePlayerTimeline hurts the player. Player cover soaks damage first.
func (s *Session) DamagePlayerTimeline(damage int) *timeline.Timeline {
	return s.build(func(b *timeline.Builder) {
		b.Include(s.postProcessing(ui.PostDamage, s.timing.DamageFlash))
		b.Action(func() {
			damage := max(damage, 0)
			soaked := min(s.playerCover, damage)
			s.playerCover -= soaked
			s.setLives(s.lives - (damage - soaked))
			s.log.Debug("player got damaged", zap.Int("damage", damage), zap.Int("lives", s.lives))
			if s.lives <= 0 {
				s.PlayerDied()
			}
		})
	})
}

// setLives clamps lives to zero and the maximum.
func (s *Session) setLives(n int) {
	s.lives = max(0, min(n, s.maxLives))
	s.save.Lives = s.lives
}

// EnemyDefeated records a defeated enemy. The encounter is won once no
// enemy is left standing; EndTurn then completes it.
func (s *Session) EnemyDefeated(e *Enemy) {
	s.save.EnemiesDefeated++
	s.log.Info("enemy defeated", zap.String("enemy", e.Name()))
	for _, other := range s.enemies {
		if !other.defeated {
			return
		}
	}
	s.won = true
	s.log.Info("player won", zap.Int("turn", s.turn))
}

func (s *Session) overkill() int {
	total := 0
	for _, e := range s.enemies {
		total += e.Overkill()
	}
	return total
}

func (s *Session) completeWin() {
	overkill := s.overkill()
	money := overkill
	if s.brain != nil {
		money = s.brain.OverkillMoney(overkill, s.turn)
	}
	s.AppendMainTimeline(s.build(func(b *timeline.Builder) {
		if money > 0 {
			b.Include(s.ConfirmationPopupTimeline(s.printer.Sprintf(msgWinMoney, money)))
		}
		b.Action(func() {
			s.money = max(money, 0)
			s.save.Money += s.money
			s.outcome = Won
			s.surface.EnterState(ui.StateGameWon)
			s.announce(s.printer.Sprintf(msgWin))
			s.requestSave("won", overkill)
			s.log.Info("encounter won", zap.Int("turn", s.turn), zap.Int("overkill", overkill), zap.Int("money", s.money))
		})
	}))
}

// PlayerDied ends the encounter as lost. The save state starts a new run.
func (s *Session) PlayerDied() {
	if s.dying || s.outcome != Running {
		return
	}
	s.dying = true
	s.AppendMainTimeline(s.build(func(b *timeline.Builder) {
		b.Action(func() { s.log.Info("player lost", zap.Int("turn", s.turn)) })
		b.Include(s.postProcessing(ui.PostDeath, s.timing.DeathDuration))
		b.Action(func() {
			s.outcome = Lost
			s.surface.EnterState(ui.StateGameLost)
			s.requestSave("lost", 0)
			s.save = s.fresh
			s.save.Cards = append([]string(nil), s.fresh.Cards...)
		})
	}))
}
