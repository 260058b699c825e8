package system

import (
	"fmt"
	"time"

	coresys "github.com/fortyfive/game/internal/core/system"
	"github.com/fortyfive/game/internal/ui"
)

// RenderSystem draws one frame at the end of the tick. Phase 4 (Output).
type RenderSystem struct {
	renderer ui.Renderer
}

func NewRenderSystem(r ui.Renderer) *RenderSystem {
	return &RenderSystem{renderer: r}
}

func (s *RenderSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *RenderSystem) Update(_ time.Duration) error {
	if err := s.renderer.Render(); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}
