package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vitalvas/schemakit/definition"
	"github.com/vitalvas/schemakit/internal/server"
	"github.com/vitalvas/schemakit/resolver"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the OpenAPI document and the validation API",
		Long: `Serve the OpenAPI document, its interactive docs and a JSON API that
validates and serializes payloads against the loaded definitions.

With --watch the definitions are reloaded when their files change. A
failed reload keeps serving the previous definitions.

Examples:
  schemakit serve -d definitions/
  schemakit serve --addr :9000 --base-path /openapi --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}

	flags := cmd.Flags()
	flags.String("addr", ":8080", "listen address")
	flags.String("base-path", "/docs", "path of the OpenAPI document and docs UI")
	flags.Bool("watch", false, "reload definitions when files change")
	_ = a.v.BindPFlag("serve.addr", flags.Lookup("addr"))
	_ = a.v.BindPFlag("serve.base_path", flags.Lookup("base-path"))
	_ = a.v.BindPFlag("serve.watch", flags.Lookup("watch"))

	return cmd
}

// swapHandler delegates to a handler that can be replaced while serving.
type swapHandler struct {
	current atomic.Pointer[http.Handler]
}

func (s *swapHandler) set(h http.Handler) {
	s.current.Store(&h)
}

func (s *swapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	(*s.current.Load()).ServeHTTP(w, r)
}

// router builds the HTTP handler serving r.
func (a *app) router(r *resolver.Resolver) (http.Handler, error) {
	return server.New(r, a.generator(r), server.Config{
		DocsPath:     a.cfg.Serve.BasePath,
		MaxBodyBytes: a.cfg.Serve.MaxBodyBytes,
	}, a.logger)
}

func (a *app) serve(ctx context.Context) error {
	holder, err := definition.NewHolder(a.logger, a.cfg.Definitions)
	if err != nil {
		return err
	}

	handler := &swapHandler{}
	initial, err := a.router(holder.Resolver())
	if err != nil {
		return err
	}
	handler.set(initial)

	holder.OnChange(func(r *resolver.Resolver) {
		h, err := a.router(r)
		if err != nil {
			a.logger.Error("failed to rebuild router", zap.Error(err))
			return
		}
		handler.set(h)
	})

	if a.cfg.Serve.Watch {
		go func() {
			if err := holder.Watch(ctx); err != nil {
				a.logger.Error("definition watcher stopped", zap.Error(err))
			}
		}()
	}

	srv := &http.Server{
		Addr:    a.cfg.Serve.Addr,
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("listening",
			zap.String("addr", srv.Addr),
			zap.String("docs", a.cfg.Serve.BasePath),
			zap.Bool("watch", a.cfg.Serve.Watch),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Serve.Shutdown)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
