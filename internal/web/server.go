package web

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/hashicorp/go-hclog"
	"go.uber.org/multierr"
)

// Serve listens on the configured address until ctx is cancelled, then
// shuts the server down gracefully.
func (app *Application) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", app.Config.Addr)
	if err != nil {
		return err
	}
	return app.ServeListener(ctx, ln)
}

// ServeListener is Serve on an existing listener.
func (app *Application) ServeListener(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  app.Config.ReadTimeout,
		WriteTimeout: app.Config.WriteTimeout,
		ErrorLog:     app.Logger.StandardLogger(&hclog.StandardLoggerOptions{InferLevels: true}),
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()

	addr := ln.Addr().String()
	app.Logger.Info("starting server", "addr", addr)

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	app.Logger.Info("shutting down server", "addr", addr, "timeout", app.Config.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config.ShutdownTimeout)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	if serr := <-serveErr; serr != nil && !errors.Is(serr, http.ErrServerClosed) {
		err = multierr.Append(err, serr)
	}
	if err != nil {
		return err
	}

	app.Logger.Info("stopped server", "addr", addr)
	return nil
}
