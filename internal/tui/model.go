// Package tui is the terminal host: a bubbletea program that ticks the game
// loop and turns key presses into UI events.
package tui

import (
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fortyfive/game/internal/core/event"
	coresys "github.com/fortyfive/game/internal/core/system"
	"github.com/fortyfive/game/internal/game"
	"github.com/fortyfive/game/internal/ui"
)

type tickMsg time.Time

func tick(rate time.Duration) tea.Cmd {
	return tea.Tick(rate, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Model drives one session. Every tick message runs one game loop tick on
// the bubbletea goroutine.
type Model struct {
	session *game.Session
	bus     *event.Bus
	runner  *coresys.Runner
	screen  *Screen
	rate    time.Duration
	cursor  int
	err     error
}

func NewModel(s *game.Session, bus *event.Bus, runner *coresys.Runner, screen *Screen, rate time.Duration) Model {
	return Model{session: s, bus: bus, runner: runner, screen: screen, rate: rate}
}

// Err returns the error that stopped the game loop, if any.
func (m Model) Err() error { return m.err }

func (m Model) Init() tea.Cmd {
	return tick(m.rate)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if quit := m.handleKey(msg.String()); quit {
			return m, tea.Quit
		}
		m.screen.setCursor(m.cursor)
		return m, nil

	case tickMsg:
		m.screen.setCursor(m.cursor)
		if err := m.runner.Tick(m.rate); err != nil {
			m.err = err
			return m, tea.Quit
		}
		if n := m.session.Hand().Len(); m.cursor >= n {
			m.cursor = max(0, n-1)
		}
		return m, tick(m.rate)
	}
	return m, nil
}

// handleKey maps a key to a UI event. It reports whether to quit.
func (m *Model) handleKey(key string) bool {
	s := m.session
	hand := s.Hand().Cards()
	var selected *game.Card
	if m.cursor >= 0 && m.cursor < len(hand) {
		selected = hand[m.cursor]
	}

	switch key {
	case "ctrl+c", "q", "esc":
		s.RequestSave()
		return true
	case "left", "h":
		if m.cursor > 0 {
			m.cursor--
		}
	case "right", "l":
		if m.cursor < len(hand)-1 {
			m.cursor++
		}
	case "tab":
		enemies := s.Enemies()
		cur := slices.Index(enemies, s.Target())
		for j := 1; j <= len(enemies); j++ {
			if s.TargetEnemy((cur + j) % len(enemies)) {
				break
			}
		}
	case "f":
		event.Emit(m.bus, game.ShootRevolver{})
	case "e":
		event.Emit(m.bus, game.EndTurn{})
	case "p":
		event.Emit(m.bus, game.Parry{})
	case "c":
		if selected != nil {
			event.Emit(m.bus, game.PlayCover{CardID: selected.ID})
		}
	case "x":
		if selected != nil && s.Prompt() == game.PromptNone {
			event.Emit(m.bus, game.DiscardCard{CardID: selected.ID})
		}
	case "!", "@", "#", "$", "%":
		if s.Prompt() == game.PromptNone {
			event.Emit(m.bus, game.UnloadBullet{Slot: strings.Index("!@#$%", key) + 1})
		}
	case "enter":
		switch s.Prompt() {
		case game.PromptDraw:
			event.Emit(m.bus, game.DrawCard{})
		case game.PromptConfirm, game.PromptAttack:
			event.Emit(m.bus, game.PopupConfirmation{})
		case game.PromptPutUnderDeck:
			if selected != nil {
				event.Emit(m.bus, game.PutCardUnderDeck{CardID: selected.ID})
			}
		}
	case "1", "2", "3", "4", "5":
		m.slotKey(int(key[0]-'0'), selected)
	}
	return false
}

func (m *Model) slotKey(slot int, selected *game.Card) {
	s := m.session
	switch s.Prompt() {
	case game.PromptSelect:
		event.Emit(m.bus, game.PopupSelection{Slot: slot})
	case game.PromptDestroy:
		if c := s.Revolver().Get(slot); c != nil {
			event.Emit(m.bus, game.DestroyCard{CardID: c.ID})
		}
	case game.PromptNone:
		if selected != nil {
			event.Emit(m.bus, game.LoadBullet{CardID: selected.ID, Slot: slot})
		}
	}
}

func (m Model) View() string {
	if m.err != nil {
		return severityStyles[ui.SeverityHigh].Render("game loop stopped: "+m.err.Error()) + "\n"
	}
	return m.screen.Frame()
}
