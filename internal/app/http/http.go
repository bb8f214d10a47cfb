package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oxygenesis/arsign/internal/app/http/handler"
	"github.com/oxygenesis/arsign/internal/app/http/middleware"
	"github.com/oxygenesis/arsign/internal/log"
	"github.com/oxygenesis/arsign/internal/service"
	"github.com/oxygenesis/arsign/pkg/id"
)

var logger = log.NewLoggerIPFS("http")

const shutdownTimeout = 5 * time.Second

func defaultListenAndServe(srv *http.Server) error { return srv.ListenAndServe() }

var listenAndServe = defaultListenAndServe

// Start assembles the server. If test==true it returns without serving (for coverage/CI).
// Otherwise it serves until ctx is done, then shuts down gracefully.
func Start(ctx context.Context, addr string, svc *service.SigningService, gatherer prometheus.Gatherer, test bool) error {
	srv := buildServer(addr, svc, gatherer)
	if test {
		return nil
	}
	logger.Info("listening", "addr", addr)

	errCh := make(chan error, 1)
	go func() { errCh <- listenAndServe(srv) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// buildServer is kept package-private so tests can exercise routes without binding a port.
func buildServer(addr string, svc *service.SigningService, gatherer prometheus.Gatherer) *http.Server {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	h := handler.NewWallet(svc)

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/health", h.Health)
	mux.HandleFunc("/v1/wallets", h.Wallets)    // GET -> list
	mux.HandleFunc("/v1/wallets/", h.WalletOps) // GET -> get by address, POST + /sign -> sign
	mux.HandleFunc("/v1/verify", h.Verify)      // POST -> verify (owner, data, signature)
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	root := middleware.Recovery(middleware.RequestID(id.UUIDv4{}, mux))

	return &http.Server{
		Addr:              addr,
		Handler:           root,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
