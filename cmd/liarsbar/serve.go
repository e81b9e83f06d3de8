package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	rand "math/rand/v2"

	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"liarsbar/cmd/liarsbar/shared"
	"liarsbar/internal/randutil"
	"liarsbar/internal/server"
)

// ServeCmd contains server configuration. Flags override values from the
// optional HCL config file.
type ServeCmd struct {
	Addr       string `kong:"help='Server address (overrides config file)'"`
	Config     string `kong:"default='liarsbar.hcl',help='Path to HCL config file'"`
	Debug      bool   `kong:"help='Enable debug logging'"`
	Seed       *int64 `kong:"help='Deterministic RNG seed (optional)'"`
	MaxPlayers int    `kong:"help='Maximum players per session (2-4, overrides config file)'"`
	OpenStart  bool   `kong:"help='Let any player start the game, not just the host'"`
}

func (c *ServeCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	cfg, err := server.LoadServerConfig(c.Config)
	if err != nil {
		return err
	}
	if c.MaxPlayers != 0 {
		cfg.Game.MaxPlayers = c.MaxPlayers
	}
	if c.OpenStart {
		cfg.Game.OpenStart = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	addr := cfg.GetServerAddress()
	if c.Addr != "" {
		addr = c.Addr
	}

	var rng *rand.Rand
	if c.Seed != nil {
		logger.Info("Using deterministic seed", "seed", *c.Seed)
		rng = randutil.New(*c.Seed)
	} else {
		seed := time.Now().UnixNano()
		logger.Info("Using random seed", "seed", seed)
		rng = randutil.New(seed)
	}

	registry := server.NewRegistry(cfg.GameConfig(), rng, logger)
	s := server.NewServer(addr, registry, quartz.NewReal(), logger)

	logger.Info("Starting Liar's Bar server",
		"address", addr,
		"max_players", cfg.Game.MaxPlayers,
		"open_start", cfg.Game.OpenStart)

	ctx := shared.SetupSignalHandler(logger)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
