package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"whiteboard/internal/adapters/tui"
	"whiteboard/internal/config"
	"whiteboard/internal/logging"
	"whiteboard/internal/workspace"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}

	// the terminal belongs to the TUI, so logs go to a file
	logPath := filepath.Join(config.DataDir(), "whiteboard.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return err
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logFile.Close()
	logger := logging.New(logFile, level)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ws, err := workspace.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer ws.Close()

	stop := ws.Autosaver.Watch(ws.Board)
	saved := make(chan error, 1)
	go func() { saved <- ws.Autosaver.Run(ctx) }()

	p := tea.NewProgram(tui.NewApp(ws), tea.WithAltScreen())
	_, err = p.Run()

	stop()
	cancel()
	<-saved
	return err
}
