// Package game runs one encounter: the turn phases, the player's revolver
// and hand, the enemies, and the main timeline every gameplay step is
// sequenced on.
package game

// Phase is a state of the turn machine.
type Phase int

const (
	PhaseSetup Phase = iota
	PhaseInitialDraw
	PhaseSpecialDraw
	PhaseCardDestroy
	PhaseEnemyReveal
	PhaseFree
	PhaseEnemyAction
)

var phaseNames = map[Phase]string{
	PhaseSetup:       "setup",
	PhaseInitialDraw: "initialDraw",
	PhaseSpecialDraw: "specialDraw",
	PhaseCardDestroy: "cardDestroy",
	PhaseEnemyReveal: "enemyReveal",
	PhaseFree:        "free",
	PhaseEnemyAction: "enemyAction",
}

func (p Phase) String() string {
	if n, ok := phaseNames[p]; ok {
		return n
	}
	return "unknown"
}

// PhaseEvent drives transitions between phases.
type PhaseEvent int

const (
	AllCardsDrawn PhaseEvent = iota
	EndTurnRequested
	CardDestroyed
)

// Prompt is the player input the main timeline is currently waiting on.
type Prompt int

const (
	PromptNone Prompt = iota
	PromptDraw
	PromptConfirm
	PromptSelect
	PromptAttack
	PromptDestroy
	PromptPutUnderDeck
)

var promptNames = [...]string{"none", "draw", "confirm", "select", "attack", "destroy", "putUnderDeck"}

func (p Prompt) String() string {
	if p >= 0 && int(p) < len(promptNames) {
		return promptNames[p]
	}
	return "unknown"
}

// Outcome is how the encounter stands.
type Outcome int

const (
	Running Outcome = iota
	Won
	Lost
)

func (o Outcome) String() string {
	switch o {
	case Running:
		return "running"
	case Won:
		return "won"
	case Lost:
		return "lost"
	}
	return "unknown"
}
