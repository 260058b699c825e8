package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput     Phase = iota // 0: deliver last tick's UI events
	PhaseLogic                  // 1: advance the main timeline
	PhaseAnimation              // 2: decorative timelines
	PhasePersist                // 3: flush save state
	PhaseOutput                 // 4: render a frame
)

var phaseNames = [...]string{"input", "logic", "animation", "persist", "output"}

func (p Phase) String() string {
	if p >= 0 && int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// System is one stage of the game tick. A returned error stops the tick.
type System interface {
	Phase() Phase
	Update(dt time.Duration) error
}
