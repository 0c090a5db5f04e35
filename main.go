package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/openlaps/lapdelta/internal/chart"
	"github.com/openlaps/lapdelta/internal/config"
	"github.com/openlaps/lapdelta/internal/export"
	"github.com/openlaps/lapdelta/internal/ingest"
	"github.com/openlaps/lapdelta/internal/lapstore"
	"github.com/openlaps/lapdelta/internal/resample"
	"github.com/openlaps/lapdelta/internal/telemetry"
	"github.com/openlaps/lapdelta/internal/timeutil"
	"github.com/openlaps/lapdelta/internal/version"
)

var (
	configPath = flag.String("config", "configs/monza_2023.yaml", "Path to session configuration file")
	telemetryA = flag.String("a", "", "CSV telemetry export for the reference driver")
	telemetryB = flag.String("b", "", "CSV telemetry export for the comparison driver")
	exportFmt  = flag.String("export", "", "Export resampled data: csv, json, or both")
	noChart    = flag.Bool("no-chart", false, "Skip chart rendering")
	listen     = flag.String("listen", "", "Serve the interactive comparison on this address (e.g. :8080)")
)

// loadStream reads a driver's telemetry from a CSV export, falling back to
// the cache when no file is given. Freshly ingested telemetry is cached for
// later runs against the same session.
func loadStream(store *lapstore.Store, csvPath, driver, session string) (*telemetry.Stream, error) {
	if csvPath == "" {
		return store.LoadStream(session, driver)
	}
	stream, err := ingest.ReadCSV(csvPath, driver, session)
	if err != nil {
		return nil, err
	}
	if _, err := store.SaveStream(stream); err != nil {
		log.Printf("failed to cache telemetry for %s: %v", driver, err)
	}
	return stream, nil
}

func run() error {
	log.Printf("lapdelta %s", version.String())

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	store, err := lapstore.Open(cfg.CachePath)
	if err != nil {
		return fmt.Errorf("failed to open telemetry cache: %w", err)
	}
	defer store.Close()

	session := cfg.SessionKey()
	streamA, err := loadStream(store, *telemetryA, cfg.Drivers.Reference, session)
	if err != nil {
		return fmt.Errorf("reference driver %s: %w", cfg.Drivers.Reference, err)
	}
	streamB, err := loadStream(store, *telemetryB, cfg.Drivers.Comparison, session)
	if err != nil {
		return fmt.Errorf("comparison driver %s: %w", cfg.Drivers.Comparison, err)
	}

	log.Printf("lap times: %s %s vs %s %s",
		cfg.Drivers.Reference, timeutil.FormatLapDuration(streamA.LapTime()),
		cfg.Drivers.Comparison, timeutil.FormatLapDuration(streamB.LapTime()))
	log.Printf("resampling %s vs %s to distance domain (step=%gm)",
		cfg.Drivers.Reference, cfg.Drivers.Comparison, cfg.Grid.StepMetres)
	data, err := resample.Resample(streamA, streamB, cfg.Grid.StepMetres)
	if err != nil {
		return err
	}
	min, max := data.DeltaRange()
	log.Printf("grid: %d points | delta range: [%.3fs, %.3fs] | final gap: %.3fs",
		data.Len(), min, max, data.FinalGap())

	if !*noChart {
		if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		paths, err := chart.WritePNGs(data, cfg, cfg.Output.Dir)
		if err != nil {
			return fmt.Errorf("render charts: %w", err)
		}
		htmlPath := filepath.Join(cfg.Output.Dir, cfg.Output.ChartFile+".html")
		if err := chart.WriteHTML(data, cfg, htmlPath); err != nil {
			return err
		}
		log.Printf("charts written: %v, %s", paths, htmlPath)
	}

	if *exportFmt == "csv" || *exportFmt == "both" {
		path, err := export.WriteCSV(data, cfg, cfg.Output.Dir)
		if err != nil {
			return fmt.Errorf("export CSV: %w", err)
		}
		log.Printf("CSV exported: %s", path)
	}
	if *exportFmt == "json" || *exportFmt == "both" {
		path, err := export.WriteJSON(data, cfg, cfg.Output.Dir)
		if err != nil {
			return fmt.Errorf("export JSON: %w", err)
		}
		log.Printf("JSON exported: %s", path)
	}

	if *listen != "" {
		return serve(*listen, data, cfg, store)
	}
	return nil
}

// serve blocks until interrupted, serving the interactive comparison page
// and the cache debug endpoints.
func serve(addr string, data *resample.ResampledData, cfg *config.Config, store *lapstore.Store) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:    addr,
		Handler: NewServer(data, cfg, store).ServeMux(),
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf("serving comparison on %s", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func main() {
	flag.Parse()
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
