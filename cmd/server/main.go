package main

import (
	"context"
	"flag"
	"log"
	"strings"

	"gridwarden/internal/app"
	"gridwarden/internal/board"
	"gridwarden/internal/discovery"
	"gridwarden/internal/observability"
)

func main() {
	mapPath := flag.String("map", "maps/demo.map", "path to a map file")
	algorithmFlag := flag.String("planner", "astar", "planning algorithm: astar or dstarlite")
	addr := flag.String("addr", ":8080", "HTTP listen address")
	pprof := flag.Bool("pprof", false, "expose /debug/pprof endpoints")
	speed := flag.Float64("speed", board.DefaultAgentSpeed, "agent speed in cells per second")
	diameter := flag.Float64("diameter", board.DefaultAgentDiameterMeters, "agent diameter in meters")
	observation := flag.Float64("observation", board.DefaultObservationMeters, "agent observation radius in meters")
	inflation := flag.Float64("inflation", 0, "costmap inflation radius in cells; derived from the agent footprint when zero")
	flag.Parse()

	algorithm := discovery.AlgorithmAStar
	if strings.EqualFold(*algorithmFlag, "dstarlite") {
		algorithm = discovery.AlgorithmDStarLite
	}

	cfg := app.Config{
		Observability: observability.Config{EnablePprofTrace: *pprof},
		MapPath:       *mapPath,
		Algorithm:     algorithm,
		Addr:          *addr,
		BoardConfig: board.Config{
			AgentSpeed:           *speed,
			AgentDiameterMeters:  *diameter,
			ObservationMeters:    *observation,
			InflationRadiusCells: *inflation,
		},
	}

	if err := app.Run(context.Background(), cfg); err != nil {
		log.Fatalf("%v", err)
	}
}
