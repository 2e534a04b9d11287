package web

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hpungsan/lagna/internal/logging"
	"github.com/hpungsan/lagna/internal/ops"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// NewServer creates and configures the HTTP server for the Lagna API.
func NewServer(db *sql.DB, engine *ops.Engine, log logrus.FieldLogger, version, bind string, port int) *http.Server {
	if log == nil {
		log = logging.Discard()
	}

	h := &Handlers{
		db:       db,
		engine:   engine,
		renderer: NewRenderer(version, log),
	}

	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", bind, port),
		Handler:           securityHeaders(routes(h)),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func routes(h *Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/charts?format=html", http.StatusFound)
	})
	mux.HandleFunc("GET /healthz", h.HandleHealth)
	mux.HandleFunc("GET /charts", h.HandleList)
	mux.HandleFunc("POST /charts", h.HandleStore)
	mux.HandleFunc("GET /charts/{id}", h.HandleDetail)
	mux.HandleFunc("DELETE /charts/{id}", h.HandleDelete)
	mux.HandleFunc("POST /match", h.HandleMatch)

	return mux
}

// securityHeaders adds security-related HTTP headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// Run starts the HTTP server and handles graceful shutdown on SIGINT/SIGTERM.
func Run(srv *http.Server, log logrus.FieldLogger) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.WithField("addr", srv.Addr).Info("lagna API listening")

	if strings.Contains(srv.Addr, "0.0.0.0") || strings.Contains(srv.Addr, "::") {
		log.Warn("server is binding to all interfaces and may be accessible from the network")
	}

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		log.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
