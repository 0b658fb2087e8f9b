package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/desertthunder/songdash/internal/server"
	"github.com/desertthunder/songdash/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// Serve runs the web dashboard until interrupted.
//
// The dataset is loaded in the background so the listener comes up immediately; a load failure is
// reported on every page rather than aborting the server.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := *r.config
	if cmd.IsSet("host") {
		cfg.Server.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Server.Port = cmd.Int("port")
	}

	srv, err := server.New(&cfg, r.dashboard, r.loader.Loaded, r.logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.ListenAndServe)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		if _, err := r.loader.Dataset(gctx); err != nil {
			r.logger.Warn("dataset preload failed", "path", r.loader.Path(), "error", err)
		}
		return nil
	})

	if cmd.Bool("open") {
		url := "http://" + srv.Addr()
		g.Go(func() error {
			if err := shared.OpenBrowser(url); err != nil {
				r.logger.Warn("could not open browser", "url", url, "error", err)
			}
			return nil
		})
	}

	r.writePlain("Serving the dashboard at http://%s (Ctrl+C to stop)\n", srv.Addr())
	return g.Wait()
}
