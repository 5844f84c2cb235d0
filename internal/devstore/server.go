// Package devstore serves the in-process remote store over connect RPC so that
// clients can be exercised against a real HTTP endpoint during development.
package devstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tripmate/tripmate-client/internal/adapters/connectrpc"
	"github.com/tripmate/tripmate-client/internal/ports"
)

const (
	healthResponse  = `{"status":"ok"}`
	shutdownTimeout = 10 * time.Second
)

// Options groups dependencies for the dev store server.
type Options struct {
	Addr     string
	Store    connectrpc.CallerStore
	Verifier ports.CredentialVerifier
	Logger   *slog.Logger
}

// NewRouter builds the HTTP handler: a health probe plus every remote store procedure,
// behind request logging and panic recovery.
func NewRouter(opts Options) (http.Handler, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	rpc, err := connectrpc.NewHandler(connectrpc.HandlerOptions{
		Store:    opts.Store,
		Verifier: opts.Verifier,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(Recover(logger), Logging(logger))
	r.Get("/healthz", healthHandler)
	r.Head("/healthz", healthHandler)
	r.Mount("/", rpc)
	return r, nil
}

// Logging logs each request with its procedure path, status and duration.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			level := slog.LevelDebug
			if ww.status >= http.StatusInternalServerError {
				level = slog.LevelWarn
			}
			logger.Log(r.Context(), level, "rpc",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Flush keeps streaming responses working through the wrapper.
func (w *respWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Recover turns a handler panic into a 500 and logs the stack.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = io.WriteString(w, healthResponse)
}

// Serve runs the dev store on ln until ctx is canceled, then shuts down gracefully.
func Serve(ctx context.Context, ln net.Listener, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	handler, err := NewRouter(opts)
	if err != nil {
		return err
	}
	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting dev store", "addr", ln.Addr().String())
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("dev store server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down dev store")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown dev store: %w", err)
	}
	logger.Info("dev store stopped")
	return nil
}

// ListenAndServe listens on opts.Addr and calls Serve.
func ListenAndServe(ctx context.Context, opts Options) error {
	addr := opts.Addr
	if addr == "" {
		addr = ":8090"
	}
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return Serve(ctx, ln, opts)
}
