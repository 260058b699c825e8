package game

import (
	"github.com/fortyfive/game/internal/core/timeline"
	"github.com/fortyfive/game/internal/scripting"
	"go.uber.org/zap"
)

// Brain makes the decisions that are scripted.
type Brain interface {
	ChooseEnemyAction(ctx scripting.EnemyAIContext) string
	OverkillMoney(overkill, turn int) int
}

// Director picks what every enemy does next.
type Director struct {
	s     *Session
	brain Brain
}

// ChooseActions reveals the next action of every living enemy.
func (d *Director) ChooseActions() {
	for _, e := range d.s.enemies {
		if e.defeated {
			continue
		}
		d.choose(e)
	}
}

// CheckActions returns the end-of-turn check: enemies without a revealed
// action get one before the enemy turn starts.
func (d *Director) CheckActions() *timeline.Timeline {
	return d.s.build(func(b *timeline.Builder) {
		b.Action(func() {
			for _, e := range d.s.enemies {
				if !e.defeated && e.next == nil {
					d.choose(e)
				}
			}
		})
	})
}

func (d *Director) choose(e *Enemy) {
	actions := e.entry.Actions
	ctx := scripting.EnemyAIContext{
		Enemy:         e.Name(),
		Health:        e.health,
		MaxHealth:     e.MaxHealth(),
		Cover:         e.cover,
		PlayerLives:   d.s.lives,
		Turn:          d.s.turn,
		LoadedBullets: d.s.revolver.Count(),
		HandSize:      d.s.hand.Len(),
		Roll:          d.s.rng.Intn(1000),
		Actions:       make([]scripting.ActionInfo, len(actions)),
	}
	for i, a := range actions {
		ctx.Actions[i] = scripting.ActionInfo{Name: a.Name, Kind: string(a.Kind), Amount: a.Amount}
	}

	name := ""
	if d.brain != nil {
		name = d.brain.ChooseEnemyAction(ctx)
	}
	a := e.entry.Action(name)
	if a == nil {
		if name != "" {
			d.s.log.Warn("enemy brain chose unknown action", zap.String("enemy", e.Name()), zap.String("action", name))
		}
		a = &actions[d.s.rng.Intn(len(actions))]
	}
	e.next = a
	d.s.log.Debug("enemy action revealed", zap.String("enemy", e.Name()), zap.String("action", a.Name))
}
