package ui

import (
	"sort"
	"sync"
)

// Headless is a Surface that only records what it is told. The terminal
// host reads it from its own goroutine, hence the lock.
type Headless struct {
	mu       sync.RWMutex
	states   map[string]bool
	post     string
	warnings map[int]Warning
	nextID   int
	layouts  int
	frames   int
	stateLog []string
}

func NewHeadless() *Headless {
	return &Headless{
		states:   make(map[string]bool),
		warnings: make(map[int]Warning),
	}
}

func (h *Headless) EnterState(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.states[name] {
		return
	}
	h.states[name] = true
	h.stateLog = append(h.stateLog, "+"+name)
}

func (h *Headless) LeaveState(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.states[name] {
		return
	}
	delete(h.states, name)
	h.stateLog = append(h.stateLog, "-"+name)
}

func (h *Headless) InState(name string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.states[name]
}

func (h *Headless) InvalidateLayout() {
	h.mu.Lock()
	h.layouts++
	h.mu.Unlock()
}

func (h *Headless) SetPostProcessor(name string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	prev := h.post
	h.post = name
	return prev
}

func (h *Headless) PostProcessor() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.post
}

func (h *Headless) AddPermanentWarning(title, body string, severity Severity) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	h.warnings[h.nextID] = Warning{ID: h.nextID, Title: title, Body: body, Severity: severity}
	return h.nextID
}

func (h *Headless) RemovePermanentWarning(id int) {
	h.mu.Lock()
	delete(h.warnings, id)
	h.mu.Unlock()
}

// Warnings returns the shown warnings ordered by id.
func (h *Headless) Warnings() []Warning {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Warning, 0, len(h.warnings))
	for _, w := range h.warnings {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// States returns the active state names, sorted.
func (h *Headless) States() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, 0, len(h.states))
	for s := range h.states {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// StateLog returns every effective enter (+name) and leave (-name) in order.
func (h *Headless) StateLog() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]string(nil), h.stateLog...)
}

func (h *Headless) Layouts() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.layouts
}

// Render counts frames.
func (h *Headless) Render() error {
	h.mu.Lock()
	h.frames++
	h.mu.Unlock()
	return nil
}

func (h *Headless) Frames() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.frames
}
