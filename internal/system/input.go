package system

import (
	"time"

	"github.com/fortyfive/game/internal/core/event"
	coresys "github.com/fortyfive/game/internal/core/system"
	"go.uber.org/zap"
)

// InputSystem delivers the UI events emitted during the previous tick.
// Phase 0 (Input).
type InputSystem struct {
	bus *event.Bus
	log *zap.Logger
}

func NewInputSystem(bus *event.Bus, log *zap.Logger) *InputSystem {
	return &InputSystem{bus: bus, log: log}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *InputSystem) Update(_ time.Duration) error {
	s.bus.SwapBuffers()
	if n := s.bus.DispatchAll(); n > 0 {
		s.log.Debug("ui events delivered", zap.Int("count", n))
	}
	return nil
}
