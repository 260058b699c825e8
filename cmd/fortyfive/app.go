package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fortyfive/game/internal/config"
	"github.com/fortyfive/game/internal/core/event"
	coresys "github.com/fortyfive/game/internal/core/system"
	"github.com/fortyfive/game/internal/core/timeline"
	"github.com/fortyfive/game/internal/data"
	"github.com/fortyfive/game/internal/game"
	"github.com/fortyfive/game/internal/persist"
	"github.com/fortyfive/game/internal/scripting"
	"github.com/fortyfive/game/internal/system"
	"github.com/fortyfive/game/internal/ui"
	"go.uber.org/zap"
)

// app holds everything one encounter needs. Close releases it.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	cards   *data.CardTable
	enemies *data.EnemyTable
	scripts *scripting.Engine
	db      *persist.DB
	saves   *persist.SaveRepo
	runs    *persist.RunRepo

	session *game.Session
	bus     *event.Bus
	runner  *coresys.Runner
	persist *system.PersistenceSystem
}

// loadTables reads config-referenced data files and scripts.
func loadTables(cfg *config.Config, log *zap.Logger) (*data.CardTable, *data.EnemyTable, *scripting.Engine, error) {
	cards, err := data.LoadCardTable(cfg.Data.CardsFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("cards: %w", err)
	}
	enemies, err := data.LoadEnemyTable(cfg.Data.EnemiesFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("enemies: %w", err)
	}
	for _, name := range cfg.Save.StartDeck {
		if _, err := cards.Lookup(name); err != nil {
			return nil, nil, nil, fmt.Errorf("start deck: %w", err)
		}
	}
	for _, name := range cfg.Game.Encounter {
		if _, err := enemies.Lookup(name); err != nil {
			return nil, nil, nil, fmt.Errorf("encounter: %w", err)
		}
	}
	scripts, err := scripting.NewEngine(cfg.Data.ScriptsDir, log.Named("lua"))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("scripts: %w", err)
	}
	return cards, enemies, scripts, nil
}

// newApp loads data, opens the database, restores the save and builds the
// session and its systems. The caller registers the input source and the
// renderer.
func newApp(cfg *config.Config, log *zap.Logger, surface ui.Surface, clock timeline.Clock) (*app, error) {
	a := &app{cfg: cfg, log: log}

	var err error
	a.cards, a.enemies, a.scripts, err = loadTables(cfg, log)
	if err != nil {
		return nil, err
	}
	printSection("data")
	printStat("cards", a.cards.Count())
	printStat("enemies", a.enemies.Count())
	printOK("scripts loaded")
	fmt.Println()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a.db, err = persist.NewDB(ctx, cfg.Database, log)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("database: %w", err)
	}
	if err := persist.RunMigrations(ctx, a.db); err != nil {
		a.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	a.saves = persist.NewSaveRepo(a.db)
	a.runs = persist.NewRunRepo(a.db)

	fresh := persist.SaveState{
		Lives:    cfg.Save.BaseLives,
		MaxLives: cfg.Save.BaseLives,
		Cards:    cfg.Save.StartDeck,
	}
	save, err := a.saves.Load(ctx, fresh)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("load save: %w", err)
	}
	printSection("database")
	printOK(fmt.Sprintf("%s ready", a.db.Dialect()))
	printStat("lives", save.Lives)
	printStat("deck", len(save.Cards))
	fmt.Println()

	a.session, err = game.NewSession(game.Deps{
		Config:  cfg,
		Cards:   a.cards,
		Enemies: a.enemies,
		Brain:   a.scripts,
		Surface: surface,
		Clock:   clock,
		Save:    save,
		Log:     log,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	a.bus = event.NewBus()
	a.session.Subscribe(a.bus)
	a.persist = system.NewPersistenceSystem(a.session, a.saves, a.runs, log.Named("persist"), cfg.Save.AutosaveTicks)

	a.runner = coresys.NewRunner()
	a.runner.Register(system.NewInputSystem(a.bus, log.Named("input")))
	a.runner.Register(system.NewLogicSystem(a.session))
	a.runner.Register(system.NewAnimationSystem(a.session, log.Named("anim")))
	a.runner.Register(a.persist)
	return a, nil
}

// shutdown saves the session and flushes whatever is pending.
func (a *app) shutdown() {
	a.session.RequestSave()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.persist.Flush(ctx); err != nil {
		a.log.Error("final save failed", zap.Error(err))
	}
}

func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.scripts != nil {
		a.scripts.Close()
	}
}
