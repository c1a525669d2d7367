package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/df07/go-photon-vcm/pkg/core"
	"github.com/df07/go-photon-vcm/pkg/photon"
	"github.com/df07/go-photon-vcm/pkg/scene"
	"github.com/df07/go-photon-vcm/pkg/tracer"
)

func main() {
	// Parse command line flags
	sceneType := flag.String("scene", "cornell", "Scene: 'cornell' or path to a .json scene description")
	photons := flag.Int("photons", 0, "Photons per pass (0 = scene setting)")
	depth := flag.Int("depth", -1, "Maximum bounce count, 0 for direct deposits only (-1 = scene setting)")
	workers := flag.Int("workers", 0, "Number of parallel workers (0 = scene setting or CPU count)")
	radius := flag.Float64("radius", 25, "Density estimation radius")
	query := flag.String("query", "", "Point x,y,z to estimate radiance at (default: scene center)")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("Photon Map Tracer")
		fmt.Println("Usage: photonmap [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Available scenes:")
		fmt.Println("  cornell     - Closed Cornell box with a ceiling area light")
		fmt.Println("  <file>.json - Scene description with lights, surfaces and tracing settings")
		return
	}

	selectedScene, err := createScene(*sceneType)
	if err != nil {
		fmt.Printf("Error loading scene: %v\n", err)
		os.Exit(1)
	}

	selectedScene.Tracing = applyFlags(selectedScene.Tracing, *photons, *depth, *workers)

	point := selectedScene.Geometry.Bounds().Center()
	if *query != "" {
		point, err = parsePoint(*query)
		if err != nil {
			fmt.Printf("Error parsing query point: %v\n", err)
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, selectedScene, point, *radius, tracer.NewDefaultLogger()); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// run traces one photon pass, builds the photon map and reports the estimate at point
func run(ctx context.Context, s *scene.Scene, point core.Vec3, radius float64, logger core.Logger) error {
	photonMap := photon.NewKDTree()
	t := tracer.NewTracer(s.Geometry, s.Tracing, logger)

	stats, err := t.TracePass(ctx, s.Emitters(), photonMap)
	if err != nil {
		return err
	}

	startTime := time.Now()
	photonMap.Build()
	logger.Printf("Photon map built in %v (%d photons)\n", time.Since(startTime), photonMap.Len())

	neighbors := photonMap.QueryNeighbors(point, radius)
	estimate := photon.EstimateRadiance(photonMap, point, core.Vec3{}, radius)
	logger.Printf("Estimate at (%.2f, %.2f, %.2f) r=%.2f: %d photons, radiance (%.4g, %.4g, %.4g)\n",
		point.X, point.Y, point.Z, radius, len(neighbors), estimate.X, estimate.Y, estimate.Z)

	if stats.Stored == 0 {
		logger.Printf("Warning: no photons were stored\n")
	}
	return nil
}

// applyFlags overrides scene tracing settings with the command line values that were set
func applyFlags(config tracer.Config, photons, depth, workers int) tracer.Config {
	if photons > 0 {
		config.PhotonsPerPass = photons
	}
	if depth >= 0 {
		config.MaxDepth = depth
	}
	if workers > 0 {
		config.NumWorkers = workers
	}
	return config
}

// createScene returns the built-in scene or loads a JSON description
func createScene(sceneType string) (*scene.Scene, error) {
	switch {
	case sceneType == "cornell":
		return scene.NewCornellScene(), nil
	case strings.HasSuffix(sceneType, ".json"):
		desc, err := scene.Load(sceneType)
		if err != nil {
			return nil, err
		}
		return desc.Build()
	case sceneType == "":
		return nil, fmt.Errorf("no scene given")
	default:
		return nil, fmt.Errorf("unknown scene type: %s", sceneType)
	}
}

// parsePoint parses "x,y,z"
func parsePoint(s string) (core.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return core.Vec3{}, fmt.Errorf("expected x,y,z, got %q", s)
	}
	var coords [3]float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return core.Vec3{}, fmt.Errorf("coordinate %d: %w", i, err)
		}
		coords[i] = v
	}
	return core.NewVec3(coords[0], coords[1], coords[2]), nil
}
