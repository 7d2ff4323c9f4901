package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/ChristopherRabotin/orbview"
	"github.com/ChristopherRabotin/orbview/metrics"
	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the scenario as SVG and JSON over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)
	sc, err := loadScenario()
	if err != nil {
		return err
	}
	addr, _ := cmd.Flags().GetString("addr")
	srv := &http.Server{
		Addr:              addr,
		Handler:           newHandler(sc, sc.Solver(logger, solveMetrics), logger),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	errc := make(chan error, 1)
	go func() {
		level.Info(logger).Log("msg", "listening", "addr", addr, "orbits", len(sc.Scene.Orbits))
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// newHandler returns the routes serving the scenario.
func newHandler(sc *orbview.Scenario, solver *orbview.KeplerSolver, logger kitlog.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /scene.svg", sceneHandler(sc, solver, logger))
	mux.HandleFunc("GET /orbit.svg", orbitHandler(sc, solver, logger))
	mux.HandleFunc("GET /snapshot", snapshotHandler(sc, solver, logger))
	return metrics.Middleware(loggingMiddleware(logger)(mux))
}

func loggingMiddleware(logger kitlog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			level.Debug(logger).Log("method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery, "took", time.Since(start))
		})
	}
}

// floatParam returns the named query parameter, or def if it is absent.
func floatParam(r *http.Request, name string, def float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid %s: not finite", name)
	}
	return v, nil
}

func writeSVG(w http.ResponseWriter, r *http.Request, d *orbview.SVGDrawer, logger kitlog.Logger) {
	w.Header().Set("Content-Type", "image/svg+xml")
	if _, err := d.WriteTo(w); err != nil {
		level.Warn(logger).Log("msg", "could not write response", "path", r.URL.Path, "err", err)
	}
}

func sceneHandler(sc *orbview.Scenario, solver *orbview.KeplerSolver, logger kitlog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dt, err := floatParam(r, "t", 0)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		d := orbview.NewSVGDrawer(sc.Scene.Viewport, sc.Scene.Viewport)
		sc.Scene.Render(d, solver, dt)
		writeSVG(w, r, d, logger)
	}
}

// orbitHandler draws a single orbit, whose elements default to the first of the scenario.
func orbitHandler(sc *orbview.Scenario, solver *orbview.KeplerSolver, logger kitlog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		base := sc.Scene.Orbits[0]
		var vals [4]float64
		for i, p := range []struct {
			name string
			def  float64
		}{{"t", 0}, {"ex", base.E.X}, {"ey", base.E.Y}, {"a", base.A}} {
			v, err := floatParam(r, p.name, p.def)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			vals[i] = v
		}
		o, err := orbview.NewOrbit(orbview.Vec2(vals[1], vals[2]), vals[3], base.Mue)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		single := orbview.Scene{Center: sc.Scene.Center, Viewport: sc.Scene.Viewport, Primary: sc.Scene.Primary, Orbits: []orbview.Orbit{o}}
		d := orbview.NewSVGDrawer(sc.Scene.Viewport, sc.Scene.Viewport)
		single.Render(d, solver, vals[0])
		writeSVG(w, r, d, logger)
	}
}

func snapshotHandler(sc *orbview.Scenario, solver *orbview.KeplerSolver, logger kitlog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dt, err := floatParam(r, "t", 0)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		views := make([]snapshotView, len(sc.Scene.Orbits))
		for i, o := range sc.Scene.Orbits {
			views[i] = newSnapshotView(sc.OrbitNames[i], solver.Propagate(o, dt))
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(views); err != nil {
			level.Warn(logger).Log("msg", "could not write response", "path", r.URL.Path, "err", err)
		}
	}
}
