package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fortyfive/game/internal/config"
	"github.com/fortyfive/game/internal/core/timeline"
	"github.com/fortyfive/game/internal/game"
	"github.com/fortyfive/game/internal/system"
	"github.com/fortyfive/game/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type simulateOptions struct {
	turns    int
	seed     int64
	maxTicks int
	history  int
}

func newSimulateCmd(configPath func() string) *cobra.Command {
	var opts simulateOptions
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Let the autopilot play one encounter headless",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSimulate(configPath(), opts)
		},
	}
	cmd.Flags().IntVar(&opts.turns, "turns", 0, "turn limit, overrides remaining_turns when > 0")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "shuffle seed, overrides the config when != 0")
	cmd.Flags().IntVar(&opts.maxTicks, "max-ticks", 1_000_000, "give up after this many ticks")
	cmd.Flags().IntVar(&opts.history, "history", 5, "recent runs to list afterwards")
	return cmd
}

func runSimulate(path string, opts simulateOptions) error {
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if opts.turns > 0 {
		cfg.Game.RemainingTurns = opts.turns
	}
	if opts.seed != 0 {
		cfg.Game.Seed = opts.seed
	}
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer log.Sync()

	printBanner(path)

	// Simulated time: every tick advances the clock by one tick rate.
	clock := timeline.NewManualClock(time.Now())
	surface := ui.NewHeadless()
	a, err := newApp(cfg, log, surface, clock)
	if err != nil {
		return err
	}
	defer a.Close()

	a.runner.Register(system.NewAutopilot(a.session, a.bus, log.Named("autopilot")))
	a.runner.Register(system.NewRenderSystem(surface))

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(shutdownCh)

	printSection("simulation")
	printReady(fmt.Sprintf("encounter: %v", cfg.Game.Encounter))
	fmt.Println()

	start := time.Now()
	a.session.Start()
	ticks := 0
loop:
	for ; ticks < opts.maxTicks && a.session.Outcome() == game.Running; ticks++ {
		select {
		case sig := <-shutdownCh:
			log.Info("shutdown signal", zap.String("signal", sig.String()))
			break loop
		default:
		}
		clock.Advance(cfg.Timing.TickRate)
		if err := a.runner.Tick(cfg.Timing.TickRate); err != nil {
			a.shutdown()
			return err
		}
	}
	a.shutdown()

	fmt.Println()
	printSection("result")
	printOK(fmt.Sprintf("%s after %d ticks (%s)", a.session.Outcome(), ticks, time.Since(start).Round(time.Millisecond)))
	printStat("turns", a.session.Turn())
	printStat("lives", a.session.Lives())
	printStat("money", a.session.Money())
	printStat("frames", surface.Frames())
	printStat("saves written", a.persist.Written())
	fmt.Println()

	if opts.history <= 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	runs, err := a.runs.Recent(ctx, opts.history)
	if err != nil {
		return fmt.Errorf("recent runs: %w", err)
	}
	printSection("recent runs")
	for _, r := range runs {
		fmt.Printf("  #%-4d %-5s turns %-3d overkill %-3d money %-4d lives %-3d %s\n",
			r.ID, r.Outcome, r.Turns, r.Overkill, r.Money, r.LivesLeft, r.FinishedAt.Format(time.DateTime))
	}
	return nil
}
