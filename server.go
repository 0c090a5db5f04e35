package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/openlaps/lapdelta/internal/chart"
	"github.com/openlaps/lapdelta/internal/config"
	"github.com/openlaps/lapdelta/internal/export"
	"github.com/openlaps/lapdelta/internal/lapstore"
	"github.com/openlaps/lapdelta/internal/resample"
)

// Server exposes one resampled comparison over HTTP: an interactive chart
// page, the raw aligned data, and debug access to the telemetry cache.
type Server struct {
	data  *resample.ResampledData
	cfg   *config.Config
	store *lapstore.Store
}

func NewServer(data *resample.ResampledData, cfg *config.Config, store *lapstore.Store) *Server {
	return &Server{data: data, cfg: cfg, store: store}
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.homeHandler)
	mux.HandleFunc("/chart", s.chartHandler)
	mux.HandleFunc("/data.json", s.dataHandler)
	if s.store != nil {
		s.store.AttachAdminRoutes(mux)
	}
	return mux
}

func (s *Server) homeHandler(w http.ResponseWriter, r *http.Request) {
	min, max := s.data.DeltaRange()
	fmt.Fprintf(w, "%s vs %s | %d grid points | delta range [%.3fs, %.3fs] | final gap %.3fs\n",
		s.cfg.Drivers.Reference, s.cfg.Drivers.Comparison, s.data.Len(), min, max, s.data.FinalGap())
	fmt.Fprintln(w, "endpoints: /chart /data.json /debug/")
}

func (s *Server) chartHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var buf bytes.Buffer
	if err := chart.RenderHTML(&buf, s.data, s.cfg); err != nil {
		http.Error(w, fmt.Sprintf("failed to render chart: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) dataHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	payload := export.BuildPayload(s.data, s.cfg, time.Now())
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "Failed to encode payload", http.StatusInternalServerError)
	}
}
