package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fortyfive/game/internal/config"
	"github.com/fortyfive/game/internal/system"
	"github.com/fortyfive/game/internal/tui"
	"github.com/fortyfive/game/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newPlayCmd(configPath func() string) *cobra.Command {
	var logFile string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play the configured encounter in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlay(configPath(), logFile)
		},
	}
	cmd.Flags().StringVar(&logFile, "log-file", "fortyfive.log", "where to write logs while the screen is in use")
	return cmd
}

func runPlay(path, logFile string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log, err := newLogger(cfg.Logging, logFile)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer log.Sync()

	printBanner(path)

	surface := ui.NewHeadless()
	a, err := newApp(cfg, log, surface, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	screen := tui.NewScreen(a.session, surface)
	a.runner.Register(system.NewRenderSystem(screen))

	printSection("ready")
	printReady(fmt.Sprintf("encounter: %v", cfg.Game.Encounter))
	printReady(fmt.Sprintf("tick: %s, logs: %s", cfg.Timing.TickRate, logFile))
	fmt.Println()

	a.session.Start()
	p := tea.NewProgram(tui.NewModel(a.session, a.bus, a.runner, screen, cfg.Timing.TickRate), tea.WithAltScreen())

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGTERM)
	defer signal.Stop(shutdownCh)
	go func() {
		if sig, ok := <-shutdownCh; ok {
			log.Info("shutdown signal", zap.String("signal", sig.String()))
			p.Quit()
		}
	}()

	final, err := p.Run()
	a.shutdown()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if m, ok := final.(tui.Model); ok && m.Err() != nil {
		return m.Err()
	}

	fmt.Printf("  turns %d, lives %d/%d, money %d\n", a.session.Turn(), a.session.Lives(), a.session.MaxLives(), a.session.Money())
	return nil
}
