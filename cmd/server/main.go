package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/connect-four-server/internal/config"
	"github.com/DoyleJ11/connect-four-server/internal/httpapi"
	"github.com/DoyleJ11/connect-four-server/internal/hub"
	"github.com/DoyleJ11/connect-four-server/internal/lobby"
	"github.com/DoyleJ11/connect-four-server/internal/ws"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := cfg.Logger()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() {
		// Sync on a console stderr can fail harmlessly.
		_ = log.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lcfg := lobby.DefaultConfig()
	lcfg.WinThreshold = cfg.WinThreshold
	lcfg.CountdownFrom = cfg.CountdownFrom
	lcfg.CountdownStep = cfg.CountdownStep
	lb := lobby.NewLobby(ctx, lcfg, log.Named("lobby"))

	wsOpts := ws.DefaultOptions()
	wsOpts.OriginPatterns = cfg.AllowedOrigins
	wsOpts.OutboxSize = cfg.OutboxSize
	wsOpts.InboundRate = cfg.InboundRate
	wsOpts.InboundBurst = cfg.InboundBurst

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: httpapi.SetupRoutes(lb, wsOpts, log),
	}

	// bind before anything else so a taken port fails fast
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}

	ticker := hub.NewHub(lb, cfg.BroadcastFPS, log.Named("hub"))

	log.Info("listening",
		zap.String("addr", ln.Addr().String()),
		zap.Int("fps", cfg.BroadcastFPS),
		zap.Int("win_threshold", cfg.WinThreshold),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ticker.Run(gctx)
	})
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		var errs error
		if err := srv.Shutdown(shutdownCtx); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("http shutdown: %w", err))
			errs = multierr.Append(errs, srv.Close())
		}
		lb.Shutdown()
		return errs
	})

	return g.Wait()
}
