// Package ui holds the contracts the game core drives its presentation
// through, and a headless implementation of them.
package ui

// Severity ranks a permanent warning.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMiddle
	SeverityHigh
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMiddle:
		return "middle"
	case SeverityHigh:
		return "high"
	}
	return "unknown"
}

// Named UI states entered and left by the game core.
const (
	StateFrozen          = "frozen"
	StateGameLost        = "gameLost"
	StateGameWon         = "gameWon"
	StateDestroyMode     = "destroyMode"
	StateShowAttackPopup = "showAttackPopup"
	StateShowDrawPrompt  = "showDrawPrompt"
	StateEnemyTurn       = "enemyTurn"
	StatePlayerTurn      = "playerTurn"
)

// Post-processors the game core can select.
const (
	PostNone    = ""
	PostShoot   = "shootShader"
	PostDestroy = "destroyShader"
	PostDamage  = "damageShader"
	PostDeath   = "deathShader"
)

// Warning is a permanent warning as shown to the player.
type Warning struct {
	ID       int
	Title    string
	Body     string
	Severity Severity
}

// Surface is what the game core needs from whatever renders it.
type Surface interface {
	EnterState(name string)
	LeaveState(name string)
	InState(name string) bool
	InvalidateLayout()
	// SetPostProcessor selects the active post-processor and returns the one
	// it replaced.
	SetPostProcessor(name string) string
	AddPermanentWarning(title, body string, severity Severity) int
	RemovePermanentWarning(id int)
}

// Renderer draws one frame. Called once per tick by the host loop.
type Renderer interface {
	Render() error
}
