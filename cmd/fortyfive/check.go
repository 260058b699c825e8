package main

import (
	"fmt"

	"github.com/fortyfive/game/internal/config"
	"github.com/spf13/cobra"
)

func newCheckCmd(configPath func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the config, data files and scripts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := configPath()
			cfg, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			log, err := newLogger(cfg.Logging)
			if err != nil {
				return fmt.Errorf("logger: %w", err)
			}
			defer log.Sync()

			printBanner(path)
			cards, enemies, scripts, err := loadTables(cfg, log)
			if err != nil {
				return err
			}
			defer scripts.Close()

			printSection("check")
			printOK("config valid")
			printStat("cards", cards.Count())
			printStat("enemies", enemies.Count())
			printStat("start deck", len(cfg.Save.StartDeck))
			printStat("encounter", len(cfg.Game.Encounter))
			printOK("scripts loaded")
			return nil
		},
	}
}
