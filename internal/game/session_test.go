package game

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fortyfive/game/internal/config"
	"github.com/fortyfive/game/internal/core/event"
	"github.com/fortyfive/game/internal/core/timeline"
	"github.com/fortyfive/game/internal/data"
	"github.com/fortyfive/game/internal/persist"
	"github.com/fortyfive/game/internal/scripting"
	"github.com/fortyfive/game/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testCards = `
default_bullet: bullet
cards:
  - { name: bullet, type: bullet, cost: 1, damage: 4, remove_after_shot: true }
  - { name: heavy, type: bullet, cost: 5, damage: 10, remove_after_shot: true }
  - { name: keeper, type: bullet, cost: 1, damage: 3 }
  - { name: late, type: bullet, cost: 0, damage: 1, min_round: 3 }
  - { name: shield, type: cover, cost: 1, damage: 5 }
  - { name: backwards, type: bullet, cost: 0, damage: 1, rotation: { direction: left, amount: 2 } }
  - name: gainer
    type: bullet
    damage: 1
    effects: [{ trigger: on_enter, kind: reserve_gain, amount: 2 }]
  - name: drawer
    type: bullet
    damage: 1
    remove_after_shot: true
    effects: [{ trigger: on_shot, kind: draw, amount: 2 }]
  - name: buffer
    type: bullet
    damage: 1
    effects: [{ trigger: on_enter, kind: buff_damage, amount: 3, duration: 2 }]
  - name: destroyer
    type: bullet
    damage: 1
    effects: [{ trigger: on_enter, kind: destroy }]
  - name: bouncer
    type: bullet
    damage: 1
    effects: [{ trigger: on_destroy, kind: put_card_in_hand, card: bullet, amount: 2 }]
  - name: burner
    type: bullet
    damage: 1
    remove_after_shot: true
    effects: [{ trigger: on_shot, kind: give_status, status: burning, amount: 2, duration: 1 }]
  - name: worker
    type: bullet
    damage: 1
    effects: [{ trigger: on_round_start, kind: reserve_gain, amount: 1 }]
`

const testEnemies = `
enemies:
  - name: dummy
    title: Dummy
    health: 100
    actions:
      - { name: wait, kind: do_nothing, insult: too slow }
  - name: brute
    health: 50
    actions:
      - { name: hit, kind: damage_player, amount: 10 }
  - name: weak
    health: 3
    actions:
      - { name: wait, kind: do_nothing }
`

type stubBrain struct {
	action string
	rate   int
}

func (b stubBrain) ChooseEnemyAction(scripting.EnemyAIContext) string { return b.action }
func (b stubBrain) OverkillMoney(overkill, _ int) int                 { return overkill * b.rate }

func writeTable(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Game.CardsToDrawInFirstRound = 0
	cfg.Game.CardsToDraw = 0
	cfg.Game.SoftMaxCards = 5
	cfg.Game.HardMaxCards = 8
	cfg.Game.ShotEmptyDamage = 3
	cfg.Game.Encounter = []string{"dummy"}
	cfg.Game.Seed = 7
	cfg.Timing = config.TimingConfig{}
	cfg.Save.BaseLives = 40
	cfg.Save.StartDeck = []string{"bullet", "bullet", "bullet", "keeper", "keeper", "shield"}
	return cfg
}

func testDeps(t *testing.T, cfg *config.Config) (Deps, *ui.Headless) {
	t.Helper()
	cards, err := data.LoadCardTable(writeTable(t, "cards.yaml", testCards))
	require.NoError(t, err)
	enemies, err := data.LoadEnemyTable(writeTable(t, "enemies.yaml", testEnemies))
	require.NoError(t, err)
	surface := ui.NewHeadless()
	return Deps{
		Config:  cfg,
		Cards:   cards,
		Enemies: enemies,
		Brain:   stubBrain{},
		Surface: surface,
		Clock:   timeline.NewManualClock(time.Unix(0, 0)),
		Log:     zap.NewNop(),
	}, surface
}

type harness struct {
	t  *testing.T
	s  *Session
	ui *ui.Headless
}

// newHarness builds a session; mutate may adjust config and deps first.
func newHarness(t *testing.T, mutate func(cfg *config.Config, d *Deps)) *harness {
	t.Helper()
	cfg := testConfig()
	d, surface := testDeps(t, cfg)
	if mutate != nil {
		mutate(cfg, &d)
	}
	s, err := NewSession(d)
	require.NoError(t, err)
	return &harness{t: t, s: s, ui: surface}
}

func (h *harness) start() {
	h.t.Helper()
	h.s.Start()
	h.settle()
}

// settle ticks until the main timeline is idle or waits on an unanswered
// prompt.
func (h *harness) settle() {
	h.t.Helper()
	for i := 0; i < 10000; i++ {
		if !h.s.Busy() || (h.s.Prompt() != PromptNone && !h.s.PopupPending()) {
			return
		}
		require.NoError(h.t, h.s.Update())
		require.NoError(h.t, h.s.UpdateAnimations())
	}
	h.t.Fatal("session never settled")
}

func (h *harness) answer(ev any) {
	h.t.Helper()
	h.s.handle(ev)
	h.settle()
}

func (h *harness) give(name string) *Card {
	h.t.Helper()
	entry := h.s.cards.Get(name)
	require.NotNil(h.t, entry, name)
	c := newCard(entry)
	h.s.hand.Add(c)
	return c
}

func (h *harness) load(name string, slot int) *Card {
	h.t.Helper()
	c := h.give(name)
	require.True(h.t, h.s.LoadBulletInRevolver(c, slot), "load %s into %d", name, slot)
	h.settle()
	return c
}

// place puts a card into slot without paying for it.
func (h *harness) place(name string, slot int) *Card {
	h.t.Helper()
	entry := h.s.cards.Get(name)
	require.NotNil(h.t, entry, name)
	c := newCard(entry)
	require.True(h.t, h.s.revolver.Set(slot, c))
	c.OnEnter()
	return c
}

func TestStartReachesFreePlay(t *testing.T) {
	h := newHarness(t, nil)
	h.start()

	assert.Equal(t, PhaseFree, h.s.Phase())
	assert.Equal(t, 1, h.s.Turn())
	assert.Equal(t, 4, h.s.Reserves())
	assert.Equal(t, 40, h.s.Lives())
	assert.Equal(t, 6, h.s.RemainingCards())
	assert.Equal(t, 0, h.s.Hand().Len())
	require.NotNil(t, h.s.Target().NextAction())
	assert.Equal(t, "wait", h.s.Target().NextAction().Name)

	require.NoError(t, h.s.Update())
	assert.False(t, h.s.Frozen())
	assert.False(t, h.ui.InState(ui.StateFrozen))
	assert.Contains(t, h.ui.StateLog(), "+"+ui.StateFrozen)
}

func TestFirstRoundDraw(t *testing.T) {
	h := newHarness(t, func(cfg *config.Config, _ *Deps) {
		cfg.Game.CardsToDrawInFirstRound = 3
	})
	h.start()

	require.Equal(t, PromptDraw, h.s.Prompt())
	assert.Equal(t, PhaseInitialDraw, h.s.Phase())
	assert.Equal(t, 3, h.s.CardsToDraw())
	assert.Equal(t, "Draw 3 cards", h.s.PopupText())
	assert.True(t, h.ui.InState(ui.StateShowDrawPrompt))

	for i := 0; i < 3; i++ {
		h.answer(DrawCard{})
	}
	assert.Equal(t, PhaseFree, h.s.Phase())
	assert.Equal(t, 3, h.s.Hand().Len())
	assert.Equal(t, 3, h.s.RemainingCards())
	assert.Equal(t, 3, h.s.CardsDrawn())
	assert.False(t, h.ui.InState(ui.StateShowDrawPrompt))

	h.s.handle(DrawCard{})
	assert.False(t, h.s.PopupPending(), "answers without a prompt are dropped")
}

func TestNewSessionRejectsUnknownNames(t *testing.T) {
	cfg := testConfig()
	cfg.Save.StartDeck = []string{"bullet", "ghost"}
	d, _ := testDeps(t, cfg)
	_, err := NewSession(d)
	assert.ErrorIs(t, err, data.ErrUnknownCard)

	cfg = testConfig()
	cfg.Game.Encounter = []string{"ghost"}
	d, _ = testDeps(t, cfg)
	_, err = NewSession(d)
	assert.ErrorIs(t, err, data.ErrUnknownEnemy)
}

func TestSavedProgressSeedsSession(t *testing.T) {
	h := newHarness(t, func(_ *config.Config, d *Deps) {
		d.Save = &persist.SaveState{Lives: 12, MaxLives: 30, Cards: []string{"keeper"}}
	})
	assert.Equal(t, 12, h.s.Lives())
	assert.Equal(t, 30, h.s.MaxLives())
	assert.Equal(t, 1, h.s.RemainingCards())
}

func TestGameplayIgnoredWhileBusy(t *testing.T) {
	h := newHarness(t, nil)
	h.start()

	h.s.AppendMainTimeline(h.s.EnemyAttackTimeline(5))
	h.settle()
	require.Equal(t, PromptAttack, h.s.Prompt())

	h.s.handle(ShootRevolver{})
	h.s.handle(EndTurn{})
	assert.Equal(t, 0, h.s.RotationCounter())
	assert.Equal(t, PhaseFree, h.s.Phase())

	h.answer(PopupConfirmation{})
	assert.Equal(t, 35, h.s.Lives())
	assert.Equal(t, PromptNone, h.s.Prompt())
}

func TestAbortedTimelineReportsError(t *testing.T) {
	h := newHarness(t, nil)
	h.start()

	h.s.AppendMainTimeline(timeline.New(timeline.Do(func() { panic("boom") })))
	err := h.s.Update()
	var abort *timeline.AbortError
	require.True(t, errors.As(err, &abort))
	assert.Equal(t, "boom", abort.Cause)
	assert.False(t, h.s.Busy())
}

func TestSubscribeRoutesBusEvents(t *testing.T) {
	h := newHarness(t, nil)
	h.start()
	bus := event.NewBus()
	h.s.Subscribe(bus)

	event.Emit(bus, ShootRevolver{})
	bus.SwapBuffers()
	bus.DispatchAll()
	h.settle()

	assert.Equal(t, 1, h.s.RotationCounter())
	assert.Equal(t, 37, h.s.Lives())
}
