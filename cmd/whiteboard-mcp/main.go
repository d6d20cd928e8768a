package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"

	mcpadapter "whiteboard/internal/adapters/mcp"
	"whiteboard/internal/config"
	"whiteboard/internal/logging"
	"whiteboard/internal/loop"
	"whiteboard/internal/workspace"
)

func main() {
	boardFlag := flag.String("board", "", "board name (overrides config)")
	flag.Parse()

	if err := run(*boardFlag); err != nil {
		fmt.Fprintf(os.Stderr, "whiteboard-mcp: %v\n", err)
		os.Exit(1)
	}
}

func run(board string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if board != "" {
		cfg.Board.Name = board
	}
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	// stdout carries the protocol
	logger := logging.New(os.Stderr, level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ws, err := workspace.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer ws.Close()

	l := loop.New()
	ws.Autosaver.Watch(ws.Board)
	sess := mcpadapter.NewSession(l, ws.Board, ws.NewGenerator(l))

	mcpServer := server.NewMCPServer(
		"whiteboard-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)
	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)
	mcpadapter.RegisterReadTools(mcpServer, sess)
	mcpadapter.RegisterWriteTools(mcpServer, sess)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return l.Run(gctx) })
	g.Go(func() error { return ws.Autosaver.Run(gctx) })
	g.Go(func() error {
		// ServeStdio returns when stdin closes; stop the others with it
		defer stop()
		err := server.ServeStdio(mcpServer)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	logger.Info("whiteboard-mcp ready", "board", cfg.Board.Name, "nodes", ws.Board.NodeCount())
	return g.Wait()
}
