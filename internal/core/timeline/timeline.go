package timeline

import (
	"fmt"
	"time"
)

// entry is a queued action or a deferred include that is resolved only when
// the queue reaches it.
type entry struct {
	action Action
	lazy   *lazyInclude
}

type lazyInclude struct {
	build func() *Timeline
	cond  func() bool
}

// Timeline runs its queued actions strictly in order, one current action at a
// time. It does nothing until Start is called.
//
// Per Update at most one queue transition happens: either the next entry is
// popped (and, for an action, started and polled once) or the current action
// is polled. An action that finishes is ended on the tick it reports finished
// and its successor is popped on the following tick.
type Timeline struct {
	queue   []entry
	current Action
	started bool
}

// New returns an unstarted timeline holding actions in order.
func New(actions ...Action) *Timeline {
	t := &Timeline{queue: make([]entry, 0, len(actions))}
	for _, a := range actions {
		t.Append(a)
	}
	return t
}

// Start marks the timeline runnable. Calling it again has no effect.
func (t *Timeline) Start() { t.started = true }

func (t *Timeline) Started() bool { return t.started }

// Finished reports whether nothing is queued and no action is current.
func (t *Timeline) Finished() bool {
	return t.current == nil && len(t.queue) == 0
}

// Pending returns the number of queued entries, excluding the current action.
func (t *Timeline) Pending() int { return len(t.queue) }

// Append queues a behind everything already queued. Legal while running.
func (t *Timeline) Append(a Action) {
	if a == nil {
		return
	}
	t.queue = append(t.queue, entry{action: a})
}

// AppendLater queues a deferred include; see Builder.IncludeLater.
func (t *Timeline) AppendLater(build func() *Timeline, cond func() bool) {
	t.queue = append(t.queue, entry{lazy: &lazyInclude{build: build, cond: cond}})
}

// Update advances the timeline by one tick. A panic raised by an action hook
// aborts the timeline: the queue is dropped and an *AbortError is returned.
func (t *Timeline) Update() (err error) {
	if !t.started {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			t.queue = nil
			t.current = nil
			err = &AbortError{Cause: r}
		}
	}()
	t.step()
	return nil
}

func (t *Timeline) step() {
	if t.current == nil {
		if len(t.queue) == 0 {
			return
		}
		next := t.queue[0]
		t.queue[0] = entry{}
		t.queue = t.queue[1:]
		if next.lazy != nil {
			t.resolve(next.lazy)
			return
		}
		t.current = next.action
		t.current.Start()
	}
	if tk, ok := t.current.(Ticker); ok {
		tk.Tick()
	}
	if t.current.Finished() {
		done := t.current
		t.current = nil
		done.End()
	}
}

// resolve splices the produced timeline in front of the remaining queue.
func (t *Timeline) resolve(l *lazyInclude) {
	if l.cond != nil && !l.cond() {
		return
	}
	inc := l.build()
	if inc == nil || len(inc.queue) == 0 {
		return
	}
	if inc.current != nil {
		panic("timeline: included timeline is already running")
	}
	spliced := make([]entry, 0, len(inc.queue)+len(t.queue))
	spliced = append(spliced, inc.queue...)
	spliced = append(spliced, t.queue...)
	t.queue = spliced
	inc.queue = nil
}

// AsAction wraps the timeline so it can be queued in another timeline or in
// a parallel group. Starting the action starts the timeline; each tick
// advances it; it finishes when the timeline does.
func (t *Timeline) AsAction() Action {
	return &nested{t: t}
}

type nested struct {
	t *Timeline
}

func (n *nested) Start()         { n.t.Start() }
func (n *nested) Tick()          { n.t.step() }
func (n *nested) Finished() bool { return n.t.started && n.t.Finished() }
func (n *nested) End()           {}

// AbortError reports a timeline torn down by a failing action.
type AbortError struct {
	Cause any
}

func (e *AbortError) Error() string {
	return fmt.Sprintf("timeline aborted: %v", e.Cause)
}

func (e *AbortError) Unwrap() error {
	if err, ok := e.Cause.(error); ok {
		return err
	}
	return nil
}

// Builder assembles a timeline in declaration order.
type Builder struct {
	clock Clock
	t     *Timeline
}

// Build runs fn against a fresh builder and returns the resulting unstarted
// timeline.
func Build(clock Clock, fn func(b *Builder)) *Timeline {
	b := &Builder{clock: clock, t: New()}
	fn(b)
	return b.t
}

// Action queues fn as an immediately finishing action.
func (b *Builder) Action(fn func()) { b.t.Append(Do(fn)) }

// Delay queues a wall-clock wait.
func (b *Builder) Delay(d time.Duration) { b.t.Append(Delay(b.clock, d)) }

// DelayUntil queues a wait on pred.
func (b *Builder) DelayUntil(pred func() bool) { b.t.Append(Until(pred)) }

// IncludeAction queues a.
func (b *Builder) IncludeAction(a Action) { b.t.Append(a) }

// Include copies the entries of other into this timeline. A nil timeline is
// ignored.
func (b *Builder) Include(other *Timeline) {
	if other == nil {
		return
	}
	b.t.queue = append(b.t.queue, other.queue...)
	other.queue = nil
}

// IncludeLater defers both cond and build until the queue reaches this
// point. When cond holds, the timeline returned by build is spliced in at
// the execution point; otherwise the entry is skipped without calling build.
func (b *Builder) IncludeLater(build func() *Timeline, cond func() bool) {
	b.t.AppendLater(build, cond)
}

// Parallel queues a group that runs children together.
func (b *Builder) Parallel(children ...Action) { b.t.Append(Parallel(children...)) }
