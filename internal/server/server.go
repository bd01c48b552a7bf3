// Package server exposes the report tables over HTTP. Each site's report is
// computed on first request and cached until it expires or is refreshed.
package server

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"hdss-monitor/internal/config"
	"hdss-monitor/internal/report"
	"hdss-monitor/internal/survey"
)

// Runner computes one pass for a site.
type Runner interface {
	Run(ctx context.Context, site string) (*report.Report, error)
}

type Server struct {
	runner Runner
	survey config.Survey
	cache  *cache.Cache
	logger *zap.Logger
}

func New(runner Runner, cfg *config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		runner: runner,
		survey: cfg.Survey,
		cache:  cache.New(cfg.Server.CacheTTL, 2*cfg.Server.CacheTTL),
		logger: logger,
	}
}

func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.recovery)
	r.Use(s.logging)

	r.HandleFunc("/healthz", s.health).Methods(http.MethodGet)
	r.HandleFunc("/sites", s.sites).Methods(http.MethodGet)
	r.HandleFunc("/sites/{site}/tables", s.tables).Methods(http.MethodGet)
	r.HandleFunc("/sites/{site}/tables/{table:[a-z0-9_]+}.csv", s.tableCSV).Methods(http.MethodGet)
	r.HandleFunc("/sites/{site}/tables/{table:[a-z0-9_]+}", s.table).Methods(http.MethodGet)
	r.HandleFunc("/refresh", s.refresh).Methods(http.MethodPost)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// NewHTTPServer wraps the router with the configured address and timeouts.
func (s *Server) NewHTTPServer(address string) *http.Server {
	return &http.Server{
		Addr:              address,
		Handler:           s.Router(),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func cacheKey(site string) string {
	return "report:" + strings.ToLower(site)
}

// report returns the cached report for site or runs a fresh pass. ok is false
// when a response has already been written.
func (s *Server) report(w http.ResponseWriter, r *http.Request) (*report.Report, bool) {
	site := mux.Vars(r)["site"]
	if !s.survey.HasSite(site) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown site: %s", site))
		return nil, false
	}

	if cached, found := s.cache.Get(cacheKey(site)); found {
		return cached.(*report.Report), true
	}

	rep, err := s.runner.Run(r.Context(), site)
	if err != nil {
		status := http.StatusInternalServerError
		if survey.IsDataSourceUnavailable(err) {
			status = http.StatusServiceUnavailable
		}
		writeError(w, status, err.Error())
		return nil, false
	}
	s.cache.SetDefault(cacheKey(site), rep)
	return rep, true
}

type tableResponse struct {
	Name    string          `json:"name"`
	Title   string          `json:"title"`
	Columns []string        `json:"columns"`
	Rows    [][]interface{} `json:"rows"`
}

type failureResponse struct {
	View  string `json:"view"`
	Error string `json:"error"`
}

type reportResponse struct {
	RunID       string            `json:"run_id"`
	Site        string            `json:"site"`
	GeneratedAt time.Time         `json:"generated_at"`
	Tables      []string          `json:"tables"`
	Failures    []failureResponse `json:"failures"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) sites(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"sites": s.survey.Sites})
}

func (s *Server) tables(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.report(w, r)
	if !ok {
		return
	}

	resp := reportResponse{
		RunID:       rep.RunID,
		Site:        rep.Site,
		GeneratedAt: rep.GeneratedAt,
		Tables:      rep.Names(),
		Failures:    make([]failureResponse, 0, len(rep.Failures)),
	}
	for _, f := range rep.Failures {
		resp.Failures = append(resp.Failures, failureResponse{View: f.View, Error: f.Err.Error()})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*report.Table, bool) {
	rep, ok := s.report(w, r)
	if !ok {
		return nil, false
	}
	name := mux.Vars(r)["table"]
	t, found := rep.Table(name)
	if !found {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown table: %s", name))
		return nil, false
	}
	return t, true
}

func (s *Server) table(w http.ResponseWriter, r *http.Request) {
	t, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, tableResponse{Name: t.Name, Title: t.Title, Columns: t.Columns, Rows: t.Rows})
}

func (s *Server) tableCSV(w http.ResponseWriter, r *http.Request) {
	t, ok := s.lookup(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", t.Name+".csv"))
	if err := report.WriteCSV(csv.NewWriter(w), t); err != nil {
		s.logger.Error("failed to write csv", zap.String("table", t.Name), zap.Error(err))
	}
}

// refresh drops the cached report of ?site=, or of every site.
func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	if site := r.URL.Query().Get("site"); site != "" {
		s.cache.Delete(cacheKey(site))
	} else {
		s.cache.Flush()
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
