// Package timeline sequences game logic, animations, and input waits as a
// queue of actions that is polled once per tick on the logic goroutine.
package timeline

import "time"

// Action is one unit of schedulable work.
//
// Start is called once before the first poll, Finished is polled every tick
// while the action is current, and End is called once after Finished first
// reports true.
type Action interface {
	Start()
	Finished() bool
	End()
}

// Ticker is implemented by actions that must advance once per tick while
// they are current, before Finished is polled (nested timelines, parallel
// groups).
type Ticker interface {
	Tick()
}

type stepState uint8

const (
	stepNotStarted stepState = iota
	stepStarted
	stepFinished
)

// Step is an Action assembled from hooks. Nil hooks are skipped; a nil Done
// means the step finishes on its first poll.
type Step struct {
	OnStart func()
	Done    func() bool
	OnEnd   func()

	state stepState
}

func (s *Step) Start() {
	if s.state != stepNotStarted {
		return
	}
	s.state = stepStarted
	if s.OnStart != nil {
		s.OnStart()
	}
}

func (s *Step) Finished() bool {
	switch s.state {
	case stepNotStarted:
		return false
	case stepFinished:
		return true
	}
	return s.Done == nil || s.Done()
}

func (s *Step) End() {
	if s.state != stepStarted {
		return
	}
	s.state = stepFinished
	if s.OnEnd != nil {
		s.OnEnd()
	}
}

// Do returns an action that runs fn when started and finishes immediately.
func Do(fn func()) Action {
	return &Step{OnStart: fn}
}

// Until returns an action that finishes once pred reports true.
func Until(pred func() bool) Action {
	return &Step{Done: pred}
}

// Delay returns an action that finishes once d has elapsed on clock since it
// was started.
func Delay(clock Clock, d time.Duration) Action {
	return &delay{clock: clock, d: d}
}

type delay struct {
	clock   Clock
	d       time.Duration
	until   time.Time
	started bool
}

func (a *delay) Start() {
	if a.started {
		return
	}
	a.started = true
	a.until = a.clock.Now().Add(a.d)
}

func (a *delay) Finished() bool {
	return a.started && !a.clock.Now().Before(a.until)
}

func (a *delay) End() {}

// Parallel returns an action that starts every child together and finishes
// when all of them have finished. Each child is ended as soon as it reports
// finished.
func Parallel(children ...Action) Action {
	return &parallel{children: children, done: make([]bool, len(children))}
}

type parallel struct {
	children []Action
	done     []bool
	started  bool
}

func (p *parallel) Start() {
	if p.started {
		return
	}
	p.started = true
	for _, c := range p.children {
		c.Start()
	}
}

func (p *parallel) Tick() {
	for i, c := range p.children {
		if p.done[i] {
			continue
		}
		if tk, ok := c.(Ticker); ok {
			tk.Tick()
		}
		if c.Finished() {
			p.done[i] = true
			c.End()
		}
	}
}

func (p *parallel) Finished() bool {
	if !p.started {
		return false
	}
	for _, d := range p.done {
		if !d {
			return false
		}
	}
	return true
}

func (p *parallel) End() {}
