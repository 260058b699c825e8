// Package fsm is a table-driven finite state machine with enter/exit hooks.
package fsm

// Hooks run when a state is entered or left. Either may be nil.
type Hooks struct {
	Enter func()
	Exit  func()
}

// Machine holds exactly one active state. Transitions are looked up in a
// (state, event) table; a missing row means the state loops on that event.
type Machine[S comparable, E comparable] struct {
	current  S
	table    map[S]map[E]S
	hooks    map[S]Hooks
	observer func(from, to S)
}

// New returns a machine resting in initial. The initial state's Enter hook
// is not run.
func New[S comparable, E comparable](initial S) *Machine[S, E] {
	return &Machine[S, E]{
		current: initial,
		table:   make(map[S]map[E]S),
		hooks:   make(map[S]Hooks),
	}
}

// On declares that ev moves the machine from `from` to `to`.
func (m *Machine[S, E]) On(from S, ev E, to S) *Machine[S, E] {
	row, ok := m.table[from]
	if !ok {
		row = make(map[E]S)
		m.table[from] = row
	}
	row[ev] = to
	return m
}

// Handle installs the hooks for s.
func (m *Machine[S, E]) Handle(s S, h Hooks) *Machine[S, E] {
	m.hooks[s] = h
	return m
}

// Observe registers fn to be told about every effective transition before
// the old state's Exit hook runs.
func (m *Machine[S, E]) Observe(fn func(from, to S)) {
	m.observer = fn
}

func (m *Machine[S, E]) Current() S { return m.current }

// Next returns the state ev leads to from s without changing anything.
func (m *Machine[S, E]) Next(s S, ev E) S {
	if to, ok := m.table[s][ev]; ok {
		return to
	}
	return s
}

// Fire changes to the state ev leads to from the current state.
func (m *Machine[S, E]) Fire(ev E) {
	m.Change(m.Next(m.current, ev))
}

// Change leaves the current state and enters next. The old state's Exit hook
// completes before next becomes current and its Enter hook runs. Changing to
// the current state does nothing. Enter hooks may call Change again.
func (m *Machine[S, E]) Change(next S) {
	if next == m.current {
		return
	}
	prev := m.current
	if m.observer != nil {
		m.observer(prev, next)
	}
	if h := m.hooks[prev]; h.Exit != nil {
		h.Exit()
	}
	m.current = next
	if h := m.hooks[next]; h.Enter != nil {
		h.Enter()
	}
}
