package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"whiteboard/internal/application"
	"whiteboard/internal/config"
	"whiteboard/internal/domain"
	"whiteboard/internal/logging"
	"whiteboard/internal/workspace"
)

var (
	configPath string
	boardName  string
	storeKind  string
	logLevel   string

	ws    *workspace.Workspace
	dirty bool
)

var rootCmd = &cobra.Command{
	Use:   "whiteboard-cli",
	Short: "CLI for editing whiteboard diagrams",
	Long: `whiteboard-cli edits the saved whiteboard board from the command line.

Every command loads the board from the configured store, applies one
change and writes the board back. Ids are the numeric node ids shown by
"whiteboard-cli show".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		level, err := logging.ParseLevel(cfg.Log.Level)
		if err != nil {
			return err
		}
		logger := logging.New(os.Stderr, level)

		ws, err = workspace.Open(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		ws.Board.Subscribe(func(domain.Snapshot) { dirty = true })
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if ws == nil || !dirty {
			return nil
		}
		if err := ws.Save(cmd.Context()); err != nil {
			return fmt.Errorf("save board: %w", err)
		}
		return nil
	},
}

// Execute runs the root command
func Execute() {
	err := rootCmd.ExecuteContext(context.Background())
	if ws != nil {
		if cerr := ws.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default $XDG_CONFIG_HOME/whiteboard/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&boardName, "board", "b", "", "board name")
	rootCmd.PersistentFlags().StringVar(&storeKind, "store", "", "store backend: sqlite, file or memory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
}

func loadConfig() (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath, true)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return cfg, err
	}

	if boardName != "" {
		cfg.Board.Name = boardName
	}
	if storeKind != "" {
		cfg.Store.Backend = storeKind
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	} else if cfg.Log.Level == "info" {
		// keep command output clean unless asked
		cfg.Log.Level = "warn"
	}
	return cfg, cfg.Validate()
}

// GetBoard returns the opened board
func GetBoard() *application.Board {
	return ws.Board
}

// GetLogger returns the workspace logger
func GetLogger() *log.Logger {
	return ws.Logger
}
