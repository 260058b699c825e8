package game

import (
	"github.com/fortyfive/game/internal/core/timeline"
	"github.com/fortyfive/game/internal/data"
	"go.uber.org/zap"
)

// StatusEffect is a lingering effect on an enemy. Burning hurts after each
// turn, poison after each revolver rotation, shock whenever the enemy is
// shot. Duration counts the remaining triggers.
type StatusEffect struct {
	Name     string
	Amount   int
	Duration int
}

// Enemy is one opponent in the encounter.
type Enemy struct {
	entry    *data.EnemyEntry
	s        *Session
	health   int
	cover    int
	defeated bool
	statuses []StatusEffect
	next     *data.EnemyActionEntry
}

func newEnemy(entry *data.EnemyEntry, s *Session) *Enemy {
	return &Enemy{entry: entry, s: s, health: entry.Health, cover: entry.Cover}
}

func (e *Enemy) Name() string   { return e.entry.Name }
func (e *Enemy) Title() string  { return e.entry.Title }
func (e *Enemy) Health() int    { return e.health }
func (e *Enemy) MaxHealth() int { return e.entry.Health }
func (e *Enemy) Cover() int     { return e.cover }
func (e *Enemy) Defeated() bool { return e.defeated }
func (e *Enemy) Overkill() int  { return max(0, -e.health) }

func (e *Enemy) Statuses() []StatusEffect {
	return append([]StatusEffect(nil), e.statuses...)
}

// NextAction is the action the enemy revealed for its coming turn.
func (e *Enemy) NextAction() *data.EnemyActionEntry { return e.next }

// Damage returns the timeline that hits the enemy for amount. Cover soaks
// damage first; health may drop below zero.
func (e *Enemy) Damage(amount int) *timeline.Timeline {
	return e.s.build(func(b *timeline.Builder) {
		b.Action(func() { e.applyDamage(amount) })
		b.IncludeAction(e.s.flash(e.stateName("hit"), e.s.timing.DamageFlash).AsAction())
	})
}

func (e *Enemy) applyDamage(amount int) {
	if amount <= 0 {
		return
	}
	soaked := min(e.cover, amount)
	e.cover -= soaked
	e.health -= amount - soaked
	e.s.log.Debug("enemy damaged",
		zap.String("enemy", e.Name()), zap.Int("damage", amount),
		zap.Int("cover", e.cover), zap.Int("health", e.health))
	if e.health <= 0 && !e.defeated {
		e.defeated = true
		e.s.EnemyDefeated(e)
	}
}

// DamagePlayerDirectly hits the player without an attack prompt.
func (e *Enemy) DamagePlayerDirectly(amount int) *timeline.Timeline {
	return e.s.build(func(b *timeline.Builder) {
		b.IncludeAction(e.s.flash(e.stateName("fire"), e.s.timing.DamageFlash).AsAction())
		b.Include(e.s.DamagePlayerTimeline(amount))
	})
}

// AddStatus applies a status effect. The same effect stacks its duration and
// keeps the larger amount.
func (e *Enemy) AddStatus(name string, amount, duration int) {
	if duration <= 0 {
		duration = 1
	}
	for i := range e.statuses {
		if e.statuses[i].Name == name {
			e.statuses[i].Duration += duration
			e.statuses[i].Amount = max(e.statuses[i].Amount, amount)
			return
		}
	}
	e.statuses = append(e.statuses, StatusEffect{Name: name, Amount: amount, Duration: duration})
	e.s.log.Debug("status applied", zap.String("enemy", e.Name()), zap.String("status", name),
		zap.Int("amount", amount), zap.Int("duration", duration))
}

// statusTimeline hurts the enemy once for every live effect named name and
// uses up one trigger of each. It returns nil when nothing applies.
func (e *Enemy) statusTimeline(name string) *timeline.Timeline {
	if e.defeated {
		return nil
	}
	var total int
	found := false
	for _, st := range e.statuses {
		if st.Name == name && st.Duration > 0 {
			total += st.Amount
			found = true
		}
	}
	if !found {
		return nil
	}
	return e.s.build(func(b *timeline.Builder) {
		b.Action(func() {
			for i := range e.statuses {
				if e.statuses[i].Name == name && e.statuses[i].Duration > 0 {
					e.statuses[i].Duration--
				}
			}
			e.applyDamage(total)
		})
		b.IncludeAction(e.s.flash(e.stateName(name), e.s.timing.DamageFlash).AsAction())
	})
}

// ExecuteStatusEffectsAfterDamage runs after the enemy was shot.
func (e *Enemy) ExecuteStatusEffectsAfterDamage(int) *timeline.Timeline {
	return e.statusTimeline(data.StatusShock)
}

func (e *Enemy) ExecuteStatusEffectsAfterRevolverRotation() *timeline.Timeline {
	return e.statusTimeline(data.StatusPoison)
}

func (e *Enemy) ExecuteStatusEffectsAfterTurn() *timeline.Timeline {
	return e.statusTimeline(data.StatusBurning)
}

// OnRevolverTurn drops used-up status effects.
func (e *Enemy) OnRevolverTurn() {
	kept := e.statuses[:0]
	for _, st := range e.statuses {
		if st.Duration > 0 {
			kept = append(kept, st)
		}
	}
	e.statuses = kept
}

// DoAction returns the timeline of the revealed action, or nil.
func (e *Enemy) DoAction() *timeline.Timeline {
	a := e.next
	if a == nil || e.defeated {
		return nil
	}
	e.s.log.Debug("enemy acts", zap.String("enemy", e.Name()), zap.String("action", a.Name))
	switch a.Kind {
	case data.ActionDamagePlayer:
		return e.s.EnemyAttackTimeline(a.Amount)
	case data.ActionAddCover:
		return e.s.build(func(b *timeline.Builder) {
			b.Action(func() { e.cover += a.Amount })
			b.IncludeAction(e.s.flash(e.stateName("cover"), e.s.timing.DamageFlash).AsAction())
		})
	case data.ActionDoNothing:
		return e.s.build(func(b *timeline.Builder) {
			b.Action(func() { e.s.announce(e.Title() + ": " + a.Insult) })
			b.Delay(e.s.timing.BufferTime)
		})
	}
	return nil
}

// ResetAction forgets the revealed action once it was carried out.
func (e *Enemy) ResetAction() { e.next = nil }

func (e *Enemy) stateName(what string) string { return "enemy." + e.Name() + "." + what }
