package game

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/fortyfive/game/internal/config"
	"github.com/fortyfive/game/internal/core/event"
	"github.com/fortyfive/game/internal/core/fsm"
	"github.com/fortyfive/game/internal/core/timeline"
	"github.com/fortyfive/game/internal/data"
	"github.com/fortyfive/game/internal/persist"
	"github.com/fortyfive/game/internal/ui"
	"go.uber.org/zap"
	"golang.org/x/text/message"
)

// Deps is everything a session is built from.
type Deps struct {
	Config  *config.Config
	Cards   *data.CardTable
	Enemies *data.EnemyTable
	Brain   Brain
	Surface ui.Surface
	Clock   timeline.Clock     // nil = system clock
	Save    *persist.SaveState // progress carried into the encounter
	Log     *zap.Logger
}

// Session is one encounter. All methods run on the logic goroutine.
type Session struct {
	cfg     config.GameConfig
	timing  config.TimingConfig
	fresh   persist.SaveState
	log     *zap.Logger
	clock   timeline.Clock
	surface ui.Surface
	cards   *data.CardTable
	rng     *rand.Rand
	printer *message.Printer
	brain   Brain

	main     *timeline.Timeline
	anims    *timeline.Registry
	phases   *fsm.Machine[Phase, PhaseEvent]
	director *Director

	revolver  *Revolver
	hand      *Hand
	stack     *Deck
	enemies   []*Enemy
	target    int
	modifiers []EncounterModifier

	curReserves   int
	baseReserves  int
	lives         int
	maxLives      int
	playerCover   int
	turn          int
	rotations     int
	cardsDrawn    int
	reservesSpent int
	remaining     int // turns left, -1 = unlimited

	popup      any // single-slot mailbox for prompt answers
	prompt     Prompt
	popupText  string
	toDraw     int
	toPutUnder int
	selectSkip *Card
	announced  string

	warningID   int
	hasWarning  bool
	warningHard bool

	frozen     bool
	endingTurn bool
	won        bool
	dying      bool
	outcome    Outcome
	money      int

	save      persist.SaveState
	saveDirty bool
	lastRun   *persist.RunRecord
}

// NewSession builds an encounter from configuration and data tables.
// Unknown card or enemy names are setup errors.
func NewSession(d Deps) (*Session, error) {
	if d.Config == nil || d.Cards == nil || d.Enemies == nil || d.Surface == nil {
		return nil, errors.New("new session: config, tables and surface are required")
	}
	cfg := d.Config
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	clock := d.Clock
	if clock == nil {
		clock = timeline.SystemClock{}
	}
	seed := cfg.Game.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	fresh := persist.SaveState{
		Lives:    cfg.Save.BaseLives,
		MaxLives: cfg.Save.BaseLives,
		Cards:    append([]string(nil), cfg.Save.StartDeck...),
	}
	save := fresh
	if d.Save != nil {
		save = *d.Save
		save.Cards = append([]string(nil), d.Save.Cards...)
	}

	s := &Session{
		cfg:          cfg.Game,
		timing:       cfg.Timing,
		fresh:        fresh,
		log:          log.Named("game"),
		clock:        clock,
		surface:      d.Surface,
		cards:        d.Cards,
		rng:          rand.New(rand.NewSource(seed)),
		printer:      newPrinter(),
		brain:        d.Brain,
		main:         timeline.New(),
		anims:        timeline.NewRegistry(),
		revolver:     &Revolver{},
		hand:         &Hand{},
		stack:        &Deck{},
		baseReserves: cfg.Game.ReservesAtRoundBegin,
		lives:        min(save.Lives, save.MaxLives),
		maxLives:     save.MaxLives,
		remaining:    cfg.Game.RemainingTurns,
		save:         save,
	}
	s.director = &Director{s: s, brain: d.Brain}

	for _, name := range save.Cards {
		entry, err := d.Cards.Lookup(name)
		if err != nil {
			return nil, fmt.Errorf("new session: deck: %w", err)
		}
		s.stack.PutUnder(newCard(entry))
	}
	s.rng.Shuffle(len(s.stack.cards), func(i, j int) {
		s.stack.cards[i], s.stack.cards[j] = s.stack.cards[j], s.stack.cards[i]
	})

	for _, name := range cfg.Game.Encounter {
		entry, err := d.Enemies.Lookup(name)
		if err != nil {
			return nil, fmt.Errorf("new session: encounter: %w", err)
		}
		s.enemies = append(s.enemies, newEnemy(entry, s))
	}
	if len(s.enemies) == 0 {
		return nil, errors.New("new session: encounter has no enemies")
	}
	for _, m := range cfg.Game.EncounterModifier {
		s.modifiers = append(s.modifiers, EncounterModifier(m))
	}

	s.phases = s.newPhaseMachine()
	return s, nil
}

// Start begins the encounter with the first draw.
func (s *Session) Start() {
	if s.phases.Current() != PhaseSetup {
		return
	}
	s.log.Info("encounter started",
		zap.Int("enemies", len(s.enemies)), zap.Int("deck", s.stack.Len()), zap.Int("lives", s.lives))
	s.main.Start()
	s.phases.Change(PhaseInitialDraw)
}

// Update advances the main timeline by one tick. The UI is frozen while the
// main timeline has work queued.
func (s *Session) Update() error {
	s.syncFreeze()
	if err := s.main.Update(); err != nil {
		s.log.Error("main timeline aborted", zap.Error(err))
		return err
	}
	return nil
}

// UpdateAnimations advances the decorative timelines by one tick.
func (s *Session) UpdateAnimations() error {
	return s.anims.Update()
}

func (s *Session) syncFreeze() {
	busy := !s.main.Finished()
	switch {
	case busy && !s.frozen:
		s.frozen = true
		s.surface.EnterState(ui.StateFrozen)
		s.log.Debug("froze UI")
	case !busy && s.frozen:
		s.frozen = false
		s.surface.LeaveState(ui.StateFrozen)
		s.log.Debug("unfroze UI")
	}
}

// Subscribe routes UI events from bus into the session.
func (s *Session) Subscribe(bus *event.Bus) {
	event.Subscribe(bus, func(ShootRevolver) { s.handle(ShootRevolver{}) })
	event.Subscribe(bus, func(EndTurn) { s.handle(EndTurn{}) })
	event.Subscribe(bus, func(e LoadBullet) { s.handle(e) })
	event.Subscribe(bus, func(e PlayCover) { s.handle(e) })
	event.Subscribe(bus, func(e UnloadBullet) { s.handle(e) })
	event.Subscribe(bus, func(e DiscardCard) { s.handle(e) })
	event.Subscribe(bus, func(e PopupConfirmation) { s.handle(e) })
	event.Subscribe(bus, func(e PopupSelection) { s.handle(e) })
	event.Subscribe(bus, func(e DrawCard) { s.handle(e) })
	event.Subscribe(bus, func(e Parry) { s.handle(e) })
	event.Subscribe(bus, func(e DestroyCard) { s.handle(e) })
	event.Subscribe(bus, func(e PutCardUnderDeck) { s.handle(e) })
}

// handle applies one UI event. Gameplay requests are ignored while the main
// timeline has work queued; prompt answers go to the mailbox.
func (s *Session) handle(ev any) {
	switch e := ev.(type) {
	case ShootRevolver:
		if !s.Busy() {
			s.Shoot()
		}
	case EndTurn:
		if !s.Busy() {
			s.EndTurn()
		}
	case LoadBullet:
		if !s.Busy() {
			s.LoadBulletInRevolver(s.hand.Find(e.CardID), e.Slot)
		}
	case PlayCover:
		if !s.Busy() {
			s.PlayCover(s.hand.Find(e.CardID))
		}
	case UnloadBullet:
		if !s.Busy() && s.Phase() == PhaseFree {
			s.PutCardFromRevolverBackInHand(s.revolver.Get(e.Slot))
		}
	case DiscardCard:
		if !s.Busy() && s.Phase() == PhaseFree {
			s.DestroyCardInHand(s.hand.Find(e.CardID))
		}
	default:
		s.postPopup(ev)
	}
}

// postPopup fills the mailbox if ev answers the open prompt. The first
// answer wins, except that a parry outranks a plain confirmation.
func (s *Session) postPopup(ev any) {
	if !s.prompt.accepts(ev) {
		return
	}
	if s.popup != nil {
		_, isParry := ev.(Parry)
		_, heldConfirm := s.popup.(PopupConfirmation)
		if !(isParry && heldConfirm) {
			return
		}
	}
	s.popup = ev
}

// openPrompt starts waiting for an answer of kind p.
func (s *Session) openPrompt(p Prompt, text string) {
	s.prompt = p
	s.popup = nil
	s.popupText = text
}

func (s *Session) closePrompt() {
	s.prompt = PromptNone
	s.popup = nil
	s.popupText = ""
}

func (s *Session) takePopup() any {
	ev := s.popup
	s.popup = nil
	return ev
}

func (s *Session) hasPopup() bool { return s.popup != nil }

// build assembles a timeline on the session clock.
func (s *Session) build(fn func(b *timeline.Builder)) *timeline.Timeline {
	return timeline.Build(s.clock, fn)
}

// AppendMainTimeline queues t behind everything on the main timeline.
func (s *Session) AppendMainTimeline(t *timeline.Timeline) {
	if t == nil {
		return
	}
	s.main.Append(t.AsAction())
}

// DispatchAnimTimeline runs t alongside the main timeline.
func (s *Session) DispatchAnimTimeline(t *timeline.Timeline) {
	s.anims.Dispatch(t)
}

// flash returns a timeline that holds UI state name for d.
func (s *Session) flash(name string, d time.Duration) *timeline.Timeline {
	return s.build(func(b *timeline.Builder) {
		b.Action(func() { s.surface.EnterState(name) })
		b.Delay(d)
		b.Action(func() { s.surface.LeaveState(name) })
	})
}

// playAnimation dispatches a game animation and returns a wait for it.
func (s *Session) playAnimation(name string, d time.Duration) *timeline.Timeline {
	anim := s.flash(name, d)
	return s.build(func(b *timeline.Builder) {
		b.Action(func() { s.DispatchAnimTimeline(anim) })
		b.DelayUntil(anim.Finished)
	})
}

// postProcessing selects post-processor name for d and restores the previous
// one afterwards.
func (s *Session) postProcessing(name string, d time.Duration) *timeline.Timeline {
	var prev string
	return s.build(func(b *timeline.Builder) {
		b.Action(func() { prev = s.surface.SetPostProcessor(name) })
		b.Delay(d)
		b.Action(func() { s.surface.SetPostProcessor(prev) })
	})
}

func (s *Session) announce(text string) {
	s.announced = text
	s.log.Debug("announce", zap.String("text", text))
}

func (s *Session) running() bool { return s.outcome == Running && !s.dying }

// targetedEnemy is the selected enemy, or the first one still standing.
func (s *Session) targetedEnemy() *Enemy {
	if t := s.enemies[s.target]; !t.defeated {
		return t
	}
	for _, e := range s.enemies {
		if !e.defeated {
			return e
		}
	}
	return s.enemies[s.target]
}

// TargetEnemy selects the enemy at index i if it is still standing.
func (s *Session) TargetEnemy(i int) bool {
	if i < 0 || i >= len(s.enemies) || s.enemies[i].defeated {
		return false
	}
	s.target = i
	return true
}
