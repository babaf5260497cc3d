// Package app wires a map file, a Board, an Agent, a planner, and the
// discovery Controller into a running demo server: structured logging,
// an inflation radius derived from the agent's footprint, auto-selected
// start/goal markers, and a WebSocket transport for a rendering
// collaborator.
package app

import (
	"context"
	"fmt"
	"log"
	nethttp "net/http"
	"net/http/pprof"
	"os"
	"strconv"

	"gridwarden/internal/agent"
	"gridwarden/internal/board"
	"gridwarden/internal/discovery"
	"gridwarden/internal/maploader"
	"gridwarden/internal/net/ws"
	"gridwarden/internal/observability"
	"gridwarden/internal/planning"
	"gridwarden/internal/telemetry"
	"gridwarden/logging"
	loggingSinks "gridwarden/logging/sinks"
)

// Config configures a Run invocation.
type Config struct {
	Logger        telemetry.Logger
	Observability observability.Config
	MapPath       string
	Algorithm     discovery.Algorithm
	BoardConfig   board.Config
	Addr          string
}

// Run loads a map, constructs a Board/Agent/Controller, and serves the
// WebSocket transport until the server fails.
func Run(ctx context.Context, cfg Config) error {
	telemetryLogger := cfg.Logger
	if telemetryLogger == nil {
		telemetryLogger = telemetry.WrapLogger(log.Default())
	}

	logConfig := logging.DefaultConfig()
	router, err := logging.NewRouter(nil, logConfig, []logging.NamedSink{
		{Name: "console", Sink: loggingSinks.NewConsoleSink(os.Stdout, logConfig.Console)},
	})
	if err != nil {
		return fmt.Errorf("failed to construct logging router: %w", err)
	}
	defer func() {
		if cerr := router.Close(ctx); cerr != nil {
			telemetryLogger.Printf("failed to close logging router: %v", cerr)
		}
	}()

	boardCfg := boardConfigFromEnv(cfg.BoardConfig).Normalized()

	mapFile, err := os.Open(cfg.MapPath)
	if err != nil {
		return fmt.Errorf("failed to open map file %q: %w", cfg.MapPath, err)
	}
	defer mapFile.Close()

	baseGrid, err := maploader.Load(mapFile)
	if err != nil {
		return fmt.Errorf("failed to load map %q: %w", cfg.MapPath, err)
	}

	sessionAgent := agent.New(boardCfg.AgentSpeed, boardCfg.AgentDiameterMeters, boardCfg.ObservationMeters, baseGrid.Resolution())

	inflationRadius := boardCfg.ResolveInflationRadiusCells(sessionAgent.InflationRadiusCells())
	sessionBoard, err := board.New(baseGrid, inflationRadius)
	if err != nil {
		return fmt.Errorf("failed to construct board: %w", err)
	}

	start, goal, haveStart, haveGoal := board.AutoSelectStartAndGoal(baseGrid)
	if haveStart {
		sessionBoard.SetStartMarker(start)
	}

	var planner planning.Planner
	switch cfg.Algorithm {
	case discovery.AlgorithmDStarLite:
		planner = planning.NewDStarLitePlanner()
	default:
		planner = planning.NewAStarPlanner()
	}

	controller := discovery.New(sessionBoard, sessionAgent, planner, cfg.Algorithm)
	controller.SetPublisher(router)

	if haveGoal {
		if err := controller.SetGoalMarker(goal); err != nil {
			telemetryLogger.Printf("initial replan failed: %v", err)
		}
	}

	mux := nethttp.NewServeMux()
	mux.HandleFunc("/health", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	wsHandler := ws.NewHandler(controller, ws.HandlerConfig{Logger: log.Default()})
	mux.HandleFunc("/ws", wsHandler.Handle)

	if cfg.Observability.EnablePprofTrace {
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}

	addr := cfg.Addr
	if addr == "" {
		addr = ":8080"
	}

	srv := &nethttp.Server{Addr: addr, Handler: mux}
	telemetryLogger.Printf("server listening on %s (algorithm=%s)", srv.Addr, cfg.Algorithm.String())

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// boardConfigFromEnv overlays Config fields present in the environment.
func boardConfigFromEnv(base board.Config) board.Config {
	cfg := base
	if raw := os.Getenv("AGENT_SPEED"); raw != "" {
		if value, err := strconv.ParseFloat(raw, 64); err == nil {
			cfg.AgentSpeed = value
		}
	}
	if raw := os.Getenv("AGENT_DIAMETER_METERS"); raw != "" {
		if value, err := strconv.ParseFloat(raw, 64); err == nil {
			cfg.AgentDiameterMeters = value
		}
	}
	if raw := os.Getenv("OBSERVATION_METERS"); raw != "" {
		if value, err := strconv.ParseFloat(raw, 64); err == nil {
			cfg.ObservationMeters = value
		}
	}
	if raw := os.Getenv("INFLATION_RADIUS_CELLS"); raw != "" {
		if value, err := strconv.ParseFloat(raw, 64); err == nil {
			cfg.InflationRadiusCells = value
		}
	}
	return cfg
}
