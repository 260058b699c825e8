package timeline

import "errors"

// Registry runs decorative timelines independently of the main timeline.
// Timelines dispatched during an Update are picked up on the next one.
type Registry struct {
	running []*Timeline
	pending []*Timeline
}

func NewRegistry() *Registry {
	return &Registry{
		running: make([]*Timeline, 0, 16),
	}
}

// Dispatch schedules t; the registry starts it.
func (r *Registry) Dispatch(t *Timeline) {
	if t == nil {
		return
	}
	r.pending = append(r.pending, t)
}

// Play schedules a single action.
func (r *Registry) Play(a Action) {
	r.Dispatch(New(a))
}

// Len returns the number of timelines still running or waiting to start.
func (r *Registry) Len() int { return len(r.running) + len(r.pending) }

// Update ticks every running timeline once and drops finished ones. An
// aborted timeline is dropped and its error reported; the others still run.
func (r *Registry) Update() error {
	r.running = append(r.running, r.pending...)
	r.pending = r.pending[:0]

	var errs []error
	kept := r.running[:0]
	for _, t := range r.running {
		if !t.Started() {
			t.Start()
		}
		if err := t.Update(); err != nil {
			errs = append(errs, err)
			continue
		}
		if !t.Finished() {
			kept = append(kept, t)
		}
	}
	for i := len(kept); i < len(r.running); i++ {
		r.running[i] = nil
	}
	r.running = kept
	return errors.Join(errs...)
}
