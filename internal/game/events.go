package game

import "github.com/google/uuid"

// UI events, routed to the session through the event bus.
type (
	ShootRevolver struct{}
	EndTurn       struct{}
	LoadBullet    struct {
		CardID uuid.UUID
		Slot   int
	}
	PlayCover struct {
		CardID uuid.UUID
	}
	UnloadBullet struct {
		Slot int
	}
	DiscardCard struct {
		CardID uuid.UUID
	}
	PopupConfirmation struct{}
	PopupSelection    struct {
		Slot int
	}
	DrawCard         struct{}
	Parry            struct{}
	DestroyCard      struct{ CardID uuid.UUID }
	PutCardUnderDeck struct{ CardID uuid.UUID }
)

// accepts reports whether ev answers prompt p.
func (p Prompt) accepts(ev any) bool {
	switch ev.(type) {
	case DrawCard:
		return p == PromptDraw
	case PopupConfirmation:
		return p == PromptConfirm || p == PromptAttack
	case Parry:
		return p == PromptAttack
	case PopupSelection:
		return p == PromptSelect
	case DestroyCard:
		return p == PromptDestroy
	case PutCardUnderDeck:
		return p == PromptPutUnderDeck
	}
	return false
}
