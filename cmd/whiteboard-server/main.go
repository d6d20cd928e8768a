package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"whiteboard/internal/adapters/httpapi"
	"whiteboard/internal/config"
	"whiteboard/internal/logging"
	"whiteboard/internal/loop"
	"whiteboard/internal/workspace"
)

func main() {
	addrFlag := flag.String("addr", "", "listen address (overrides config)")
	boardFlag := flag.String("board", "", "board name (overrides config)")
	flag.Parse()

	if err := run(*addrFlag, *boardFlag); err != nil {
		fmt.Fprintf(os.Stderr, "whiteboard-server: %v\n", err)
		os.Exit(1)
	}
}

func run(addr, board string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.HTTP.Addr = addr
	}
	if board != "" {
		cfg.Board.Name = board
	}
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
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
	srv := httpapi.NewServer(l, ws.Board, ws.NewGenerator(l),
		httpapi.WithLogger(logger.WithPrefix("http")),
		httpapi.WithMetrics(ws.Metrics.Handler()),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return l.Run(gctx) })
	g.Go(func() error { return ws.Autosaver.Run(gctx) })
	g.Go(func() error { return srv.Serve(gctx, cfg.HTTP.Addr) })

	err = g.Wait()
	logger.Info("whiteboard-server stopped", "nodes", ws.Board.NodeCount())
	return err
}
