// Package api is C12: the indexer's HTTP transport. It exposes a health
// check, Prometheus metrics, and a single JSON /ledgers status route in
// place of the full GraphQL layer the distilled spec puts out of scope
// (spec.md §1 non-goals) — net/http + http.ServeMux, matching the
// teacher's own transport choice; no router framework. No route returns
// ledger or account rows.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"quasarindexer/internal/storage"
)

// Server is the indexer's HTTP surface.
type Server struct {
	log    *slog.Logger
	http   *http.Server
	repo   *storage.Repository
}

// New builds a Server listening on addr. reg is the Metrics registry to
// expose at /metrics.
func New(log *slog.Logger, addr string, reg *prometheus.Registry, repo *storage.Repository) *Server {
	s := &Server{log: log, repo: repo}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/ledgers", s.handleLedgers)

	s.http = &http.Server{Addr: addr, Handler: mux}
	return s
}

// ListenAndServe blocks until the server stops or ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = s.http.Close()
	}()

	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// handleLedgers implements GET /ledgers?after=&limit=: it reports the
// highest ingested ledger sequence and echoes the parsed after/limit
// values (limit defaults to 50 and is capped at 500). It returns no ledger
// rows; after and limit are not used to query anything.
func (s *Server) handleLedgers(w http.ResponseWriter, r *http.Request) {
	after := parseUintParam(r, "after", 0)
	limit := parseUintParam(r, "limit", 50)
	if limit > 500 {
		limit = 500
	}

	seq, err := s.repo.LastIngestedLedger(r.Context())
	if err != nil {
		s.log.Error("handling /ledgers", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"last_ingested_ledger": seq,
		"after":                after,
		"limit":                limit,
	})
}

func parseUintParam(r *http.Request, name string, defaultVal uint64) uint64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultVal
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return defaultVal
	}
	return n
}
