package game

import (
	"testing"

	"github.com/fortyfive/game/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func attack(h *harness, damage int) {
	h.t.Helper()
	h.s.AppendMainTimeline(h.s.EnemyAttackTimeline(damage))
	h.settle()
	require.Equal(h.t, PromptAttack, h.s.Prompt())
}

func TestParryReducesDamage(t *testing.T) {
	h := newHarness(t, nil)
	h.start()
	parry := h.load("bullet", 5)
	keeper := h.load("keeper", 3)
	require.Same(t, parry, h.s.ParryCard())

	attack(h, 10)
	assert.Equal(t, "Dummy attacks for 10 damage", h.s.PopupText())
	h.answer(Parry{})

	assert.Equal(t, 34, h.s.Lives())
	assert.Nil(t, h.s.Revolver().Get(5))
	assert.False(t, parry.InGame())
	assert.Equal(t, 2, h.s.Revolver().SlotOf(keeper), "revolver turned once")
	assert.Equal(t, 1, h.s.RotationCounter())
	assert.Equal(t, PromptNone, h.s.Prompt())
	assert.False(t, h.ui.InState(ui.StateShowAttackPopup))
}

func TestParryCanAbsorbEverything(t *testing.T) {
	h := newHarness(t, nil)
	h.start()
	h.place("heavy", 5)

	attack(h, 10)
	h.answer(Parry{})
	assert.Equal(t, 40, h.s.Lives())
}

func TestParryOutranksConfirmation(t *testing.T) {
	orders := map[string][]any{
		"confirm first": {PopupConfirmation{}, Parry{}},
		"parry first":   {Parry{}, PopupConfirmation{}},
	}
	for name, events := range orders {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t, nil)
			h.start()
			h.place("bullet", 5)

			attack(h, 10)
			for _, ev := range events {
				h.s.handle(ev)
			}
			h.settle()
			assert.Equal(t, 34, h.s.Lives())
			assert.Nil(t, h.s.Revolver().Get(5))
		})
	}
}

func TestAttackWithoutParryTakesFullDamage(t *testing.T) {
	t.Run("confirm", func(t *testing.T) {
		h := newHarness(t, nil)
		h.start()
		bullet := h.place("bullet", 5)

		attack(h, 10)
		h.answer(PopupConfirmation{})
		assert.Equal(t, 30, h.s.Lives())
		assert.Same(t, bullet, h.s.Revolver().Get(5))
		assert.Equal(t, 0, h.s.RotationCounter())
	})
	t.Run("empty parry slot", func(t *testing.T) {
		h := newHarness(t, nil)
		h.start()

		attack(h, 10)
		h.answer(Parry{})
		assert.Equal(t, 30, h.s.Lives())
	})
}

func TestMailboxKeepsFirstAnswer(t *testing.T) {
	h := newHarness(t, nil)
	h.start()
	h.s.openPrompt(PromptDestroy, "")

	first := DestroyCard{}
	first.CardID[0] = 1
	h.s.postPopup(first)
	h.s.postPopup(DestroyCard{})
	h.s.postPopup(DrawCard{})
	assert.Equal(t, first, h.s.takePopup())

	h.s.postPopup(DestroyCard{})
	h.s.openPrompt(PromptDraw, "")
	assert.False(t, h.s.PopupPending(), "opening a prompt clears the mailbox")
	h.s.closePrompt()
}

func TestBuffDamageSelection(t *testing.T) {
	h := newHarness(t, nil)
	h.start()
	keeper := h.load("keeper", 5)
	buffer := h.give("buffer")
	require.True(t, h.s.LoadBulletInRevolver(buffer, 1))
	h.settle()

	require.Equal(t, PromptSelect, h.s.Prompt())
	assert.Same(t, buffer, h.s.SelectExcluded())

	h.answer(PopupSelection{Slot: 1})
	assert.Equal(t, PromptSelect, h.s.Prompt(), "source card is excluded")
	h.answer(PopupSelection{Slot: 3})
	assert.Equal(t, PromptSelect, h.s.Prompt(), "empty slot is ignored")
	h.answer(PopupSelection{Slot: 5})

	assert.Equal(t, PromptNone, h.s.Prompt())
	assert.Nil(t, h.s.SelectExcluded())
	assert.Equal(t, 6, keeper.CurDamage())
	assert.Equal(t, 1, buffer.CurDamage())

	h.s.rotations = 2
	h.s.checkCardModifierValidity()
	assert.Equal(t, 6, keeper.CurDamage())
	h.s.rotations = 3
	h.s.checkCardModifierValidity()
	assert.Equal(t, 3, keeper.CurDamage())
}

func TestBuffWithoutTargetIsSkipped(t *testing.T) {
	h := newHarness(t, nil)
	h.start()
	h.load("buffer", 1)
	assert.Equal(t, PromptNone, h.s.Prompt())
	assert.False(t, h.s.Busy())
}

func TestConfirmationPopup(t *testing.T) {
	h := newHarness(t, nil)
	h.start()
	h.s.AppendMainTimeline(h.s.ConfirmationPopupTimeline("hello"))
	h.settle()
	require.Equal(t, PromptConfirm, h.s.Prompt())
	assert.Equal(t, "hello", h.s.PopupText())

	h.answer(Parry{})
	assert.Equal(t, PromptConfirm, h.s.Prompt(), "parry does not answer a confirmation")
	h.answer(PopupConfirmation{})
	assert.Equal(t, PromptNone, h.s.Prompt())
	assert.False(t, h.s.Busy())
}
