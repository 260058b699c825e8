package system

import (
	"time"

	coresys "github.com/fortyfive/game/internal/core/system"
	"github.com/fortyfive/game/internal/game"
	"go.uber.org/zap"
)

// LogicSystem advances the session's main timeline. An aborted timeline
// stops the tick. Phase 1 (Logic).
type LogicSystem struct {
	session *game.Session
}

func NewLogicSystem(s *game.Session) *LogicSystem {
	return &LogicSystem{session: s}
}

func (s *LogicSystem) Phase() coresys.Phase { return coresys.PhaseLogic }

func (s *LogicSystem) Update(_ time.Duration) error {
	return s.session.Update()
}

// AnimationSystem advances decorative timelines. A broken animation is
// logged and dropped; the game goes on. Phase 2 (Animation).
type AnimationSystem struct {
	session *game.Session
	log     *zap.Logger
}

func NewAnimationSystem(s *game.Session, log *zap.Logger) *AnimationSystem {
	return &AnimationSystem{session: s, log: log}
}

func (s *AnimationSystem) Phase() coresys.Phase { return coresys.PhaseAnimation }

func (s *AnimationSystem) Update(_ time.Duration) error {
	if err := s.session.UpdateAnimations(); err != nil {
		s.log.Warn("animation aborted", zap.Error(err))
	}
	return nil
}
