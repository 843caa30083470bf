package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pixel-adventure/spritekit/internal/config"
	"github.com/pixel-adventure/spritekit/internal/storage"
	"github.com/spf13/cobra"
)

// app carries state shared by every subcommand once flags are parsed.
type app struct {
	configPath string
	logLevel   string
	cfg        *config.Config
}

func (a *app) openStore() (*storage.SQLiteStore, error) {
	return storage.OpenSQLite(a.cfg.Storage.Database)
}

func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "spritekit",
		Short: "Slice sprite strips into animation frames",
		Long: `Spritekit turns sprite strips and sheets into frame sequences.

Load an image, drag the grid lines until every cell holds one frame, and
slice. Frames can be saved as sprite sets, exported as GIFs or sprite
sheets, and generated from a prompt with an image model.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			level, err := parseLevel(a.logLevel)
			if err != nil {
				return err
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)

			a.cfg, err = config.LoadConfig(a.configPath)
			if err != nil {
				return err
			}
			slog.Debug("Configuration loaded", "path", a.configPath)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultPath, "Path to YAML config file")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	// Add subcommands
	cmd.AddCommand(newServeCmd(a))
	cmd.AddCommand(newSliceCmd(a))
	cmd.AddCommand(newExportCmd(a))
	cmd.AddCommand(newGenerateCmd(a))
	cmd.AddCommand(newProjectCmd(a))
	cmd.AddCommand(newConfigCmd(a))

	return cmd
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}
