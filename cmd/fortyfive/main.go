package main

import (
	"fmt"
	"os"

	"github.com/fortyfive/game/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultConfigPath = "config/fortyfive.toml"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:           "fortyfive",
		Short:         "FortyFive, a revolver deck builder",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $FORTYFIVE_CONFIG or "+defaultConfigPath+")")

	resolve := func() string {
		if configPath != "" {
			return configPath
		}
		if p := os.Getenv("FORTYFIVE_CONFIG"); p != "" {
			return p
		}
		return defaultConfigPath
	}

	root.AddCommand(newPlayCmd(resolve), newSimulateCmd(resolve), newCheckCmd(resolve))
	return root
}

// newLogger builds the process logger. Extra output paths replace stderr,
// which the terminal UI owns while it runs.
func newLogger(cfg config.LoggingConfig, outputs ...string) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	if len(outputs) > 0 {
		zapCfg.OutputPaths = outputs
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	return zapCfg.Build()
}
