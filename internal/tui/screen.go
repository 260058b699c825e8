package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fortyfive/game/internal/game"
	"github.com/fortyfive/game/internal/ui"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true)

	statStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA"))

	slotStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5F5F87")).
			Width(14).
			Align(lipgloss.Center)

	firingSlotStyle = slotStyle.
			BorderForeground(lipgloss.Color("#FF5F5F"))

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true)

	promptStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#FFA500")).
			PaddingLeft(2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	severityStyles = map[ui.Severity]lipgloss.Style{
		ui.SeverityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA")),
		ui.SeverityMiddle: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD75F")),
		ui.SeverityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")).Bold(true),
	}
)

// Screen draws the session into a string frame. It is the ui.Renderer of
// the terminal host; the frame is read back by the bubbletea view.
type Screen struct {
	session *game.Session
	surface *ui.Headless
	cursor  int
	frame   string
}

func NewScreen(s *game.Session, surface *ui.Headless) *Screen {
	return &Screen{session: s, surface: surface}
}

// Frame returns the last rendered frame.
func (sc *Screen) Frame() string { return sc.frame }

func (sc *Screen) setCursor(i int) { sc.cursor = i }

// Render composes a new frame.
func (sc *Screen) Render() error {
	s := sc.session
	var b strings.Builder

	b.WriteString(titleStyle.Render("FortyFive"))
	b.WriteString("  ")
	b.WriteString(statStyle.Render(fmt.Sprintf(
		"turn %d | %s | lives %d/%d | cover %d | reserves %d/%d | deck %d",
		s.Turn(), s.Phase(), s.Lives(), s.MaxLives(), s.PlayerCover(),
		s.Reserves(), s.BaseReserves(), s.RemainingCards())))
	b.WriteString("\n\n")

	target := s.Target()
	for _, e := range s.Enemies() {
		marker := "  "
		if e == target {
			marker = "> "
		}
		line := fmt.Sprintf("%s%s  hp %d/%d  cover %d", marker, e.Title(), e.Health(), e.MaxHealth(), e.Cover())
		if e.Defeated() {
			line += "  (defeated)"
		} else if a := e.NextAction(); a != nil {
			line += fmt.Sprintf("  next: %s", a.Name)
			if a.Amount > 0 {
				line += fmt.Sprintf(" %d", a.Amount)
			}
		}
		for _, st := range e.Statuses() {
			line += fmt.Sprintf("  [%s %d x%d]", st.Name, st.Amount, st.Duration)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")

	slots := make([]string, 0, game.RevolverSlots)
	for slot := 1; slot <= game.RevolverSlots; slot++ {
		label := fmt.Sprintf("%d: -", slot)
		if c := s.Revolver().Get(slot); c != nil {
			label = fmt.Sprintf("%d: %s (%d)", slot, c.Title(), c.CurDamage())
		}
		style := slotStyle
		if slot == game.FiringSlot {
			style = firingSlotStyle
		}
		slots = append(slots, style.Render(label))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, slots...))
	b.WriteString("\n\n")

	b.WriteString(statStyle.Render("hand:"))
	for i, c := range s.Hand().Cards() {
		label := fmt.Sprintf(" %s[%d/%d] ", c.Title(), c.Cost(), c.BaseDamage())
		if i == sc.cursor {
			label = cursorStyle.Render(label)
		}
		b.WriteString(label)
	}
	b.WriteString("\n")

	for _, w := range sc.surface.Warnings() {
		b.WriteString("\n" + severityStyles[w.Severity].Render(w.Title+": "+w.Body))
	}
	if text := s.Announcement(); text != "" {
		b.WriteString("\n" + statStyle.Render(text))
	}
	if s.Prompt() != game.PromptNone {
		b.WriteString("\n\n" + promptStyle.Render(s.PopupText()+"\n"+promptHelp(s.Prompt())))
	}
	switch {
	case sc.surface.InState(ui.StateGameWon):
		b.WriteString("\n\n" + titleStyle.Render(fmt.Sprintf("Encounter won. +%d$", s.Money())))
	case sc.surface.InState(ui.StateGameLost):
		b.WriteString("\n\n" + severityStyles[ui.SeverityHigh].Render("You lost."))
	}
	b.WriteString("\n\n" + helpStyle.Render("←/→ card  1-5 load/select  shift+1-5 unload  x discard  f fire  c cover  e end turn  tab target  q quit"))

	sc.frame = b.String()
	return nil
}

func promptHelp(p game.Prompt) string {
	switch p {
	case game.PromptDraw:
		return "enter: draw"
	case game.PromptConfirm:
		return "enter: ok"
	case game.PromptAttack:
		return "enter: take it  p: parry"
	case game.PromptSelect, game.PromptDestroy:
		return "1-5: pick a slot"
	case game.PromptPutUnderDeck:
		return "←/→ pick, enter: put under deck"
	}
	return ""
}
