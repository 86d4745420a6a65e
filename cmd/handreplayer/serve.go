package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/handreplayer/internal/handhistory"
	"github.com/lox/handreplayer/internal/recorder"
	"github.com/lox/handreplayer/internal/server"
)

// ServeCmd runs one recorder behind a WebSocket server.
type ServeCmd struct {
	Addr   string `short:"a" help:"Server address to bind to (overrides config)"`
	Script string `short:"s" help:"Hand script to load before serving"`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, logger, err := g.setup()
	if err != nil {
		return err
	}

	addr := cfg.Address()
	if c.Addr != "" {
		addr = c.Addr
	}

	writer := handhistory.NewWriter(cfg.History.Directory, logger)
	opts := append(g.recorderOptions(logger), recorder.WithWriter(writer))

	var rec *recorder.Recorder
	if c.Script != "" {
		rec, err = loadHand(c.Script, cfg, logger, opts...)
	} else {
		rec, err = recorder.New(cfg.Recorder(), logger, opts...)
		if err == nil {
			err = cfg.Apply(rec)
		}
	}
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.NewServer(addr, rec, logger)

	logger.Info("Starting hand replayer",
		"addr", addr,
		"seats", cfg.Table.Size,
		"stakes", fmt.Sprintf("$%d/$%d", cfg.Table.SmallBlind, cfg.Table.BigBlind),
		"history", cfg.History.Directory)

	group, gctx := errgroup.WithContext(ctx)
	group.Go(srv.Start)
	group.Go(func() error {
		announceReady(gctx, localURL(addr), logger)
		return nil
	})
	group.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return group.Wait()
}

// announceReady logs once the server answers health checks.
func announceReady(ctx context.Context, baseURL string, logger *log.Logger) {
	health, err := server.WaitForHealthy(ctx, baseURL)
	if err != nil {
		logger.Debug("Server never became ready", "error", err)
		return
	}
	logger.Info("Server ready", "url", baseURL, "hand", health.HandID)
}

// localURL is the base URL for reaching addr from this machine.
func localURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}
