package game

import (
	"github.com/fortyfive/game/internal/core/timeline"
	"github.com/fortyfive/game/internal/data"
	"go.uber.org/zap"
)

// CheckEffects returns the timeline of every effect of c that fires on
// trigger, or nil when none does.
func (c *Card) CheckEffects(trigger data.Trigger, s *Session) *timeline.Timeline {
	var effects []data.EffectEntry
	for _, e := range c.entry.Effects {
		if e.Trigger == trigger {
			effects = append(effects, e)
		}
	}
	if len(effects) == 0 {
		return nil
	}
	s.log.Debug("checking effects", zap.Stringer("card", c), zap.String("trigger", string(trigger)))
	return s.build(func(b *timeline.Builder) {
		for _, e := range effects {
			b.IncludeLater(func() *timeline.Timeline { return s.effectTimeline(c, e) }, nil)
		}
	})
}

// effectTimeline resolves one effect at the moment it is reached.
func (s *Session) effectTimeline(c *Card, e data.EffectEntry) *timeline.Timeline {
	if !s.running() {
		return nil
	}
	switch e.Kind {
	case data.EffectReserveGain:
		return s.build(func(b *timeline.Builder) {
			b.Action(func() { s.GainReserves(e.Amount) })
		})
	case data.EffectDraw:
		return s.SpecialDraw(e.Amount)
	case data.EffectDamageEnemy:
		return s.targetedEnemy().Damage(e.Amount)
	case data.EffectGiveStatus:
		return s.build(func(b *timeline.Builder) {
			b.Action(func() { s.targetedEnemy().AddStatus(e.Status, e.Amount, e.Duration) })
		})
	case data.EffectPutCardInHand:
		return s.TryToPutCardsInHand(e.Card, max(e.Amount, 1))
	case data.EffectBuffDamage:
		if !s.hasLoadedCardBesides(c) {
			return nil
		}
		return s.CardSelectionPopupTimeline(s.printer.Sprintf(msgSelectBuff, e.Amount), c, func(target *Card) {
			until := -1
			if e.Duration > 0 {
				until = s.rotations + e.Duration
			}
			target.AddModifier(Modifier{Source: c.Name(), Damage: e.Amount, UntilRotation: until})
			s.log.Debug("card buffed", zap.Stringer("card", target), zap.Int("damage", e.Amount))
		})
	case data.EffectDestroy:
		if s.Phase() != PhaseFree || !s.hasLoadedCardBesides(c) {
			return nil
		}
		return s.destroyPromptTimeline(c)
	}
	return nil
}

func (s *Session) hasLoadedCardBesides(c *Card) bool {
	for _, other := range s.revolver.Cards() {
		if other != c {
			return true
		}
	}
	return false
}

// checkEffectsActiveCards collects trigger effects of every loaded card.
func (s *Session) checkEffectsActiveCards(trigger data.Trigger) *timeline.Timeline {
	s.log.Debug("checking all active cards", zap.String("trigger", string(trigger)))
	return s.build(func(b *timeline.Builder) {
		for _, c := range s.revolver.Cards() {
			b.Include(c.CheckEffects(trigger, s))
		}
	})
}

func (s *Session) checkStatusEffectsAfterTurn() *timeline.Timeline {
	return s.build(func(b *timeline.Builder) {
		for _, e := range s.enemies {
			b.Include(e.ExecuteStatusEffectsAfterTurn())
		}
	})
}
