package system

import (
	"fmt"
	"sort"
	"time"
)

// Runner executes systems in phase order each tick. Registration order is
// kept among systems of the same phase.
type Runner struct {
	systems []System
	sorted  bool
	ticks   uint64
}

func NewRunner() *Runner {
	return &Runner{
		systems: make([]System, 0, 8),
	}
}

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

// Ticks returns how many full ticks have completed.
func (r *Runner) Ticks() uint64 { return r.ticks }

// Tick runs every system once. The first failing system aborts the tick.
func (r *Runner) Tick(dt time.Duration) error {
	r.ensureSorted()
	for _, s := range r.systems {
		if err := s.Update(dt); err != nil {
			return fmt.Errorf("%s system: %w", s.Phase(), err)
		}
	}
	r.ticks++
	return nil
}

// TickPhase runs only the systems of one phase.
func (r *Runner) TickPhase(phase Phase, dt time.Duration) error {
	r.ensureSorted()
	for _, s := range r.systems {
		if s.Phase() != phase {
			continue
		}
		if err := s.Update(dt); err != nil {
			return fmt.Errorf("%s system: %w", phase, err)
		}
	}
	return nil
}

func (r *Runner) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
}
