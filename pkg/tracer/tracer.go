package tracer

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/df07/go-photon-vcm/pkg/core"
	"github.com/df07/go-photon-vcm/pkg/lights"
	"github.com/df07/go-photon-vcm/pkg/photon"
)

// rayEpsilon offsets continuation rays from the surface they leave
const rayEpsilon = 1e-4

// Interaction describes the closest surface a photon ray hits
type Interaction struct {
	T      float64   // Ray parameter of the hit
	Point  core.Vec3 // Hit position
	Normal core.Vec3 // Unit geometric normal
	Albedo core.Vec3 // Diffuse reflectance
}

// Scene is the intersection engine photons are traced against
type Scene interface {
	Intersect(ray core.Ray, tMin, tMax float64) (Interaction, bool)
}

// batchInserter is implemented by indexes that accept a buffer of photons at once
type batchInserter interface {
	InsertAll(batch []photon.Photon)
}

// Stats summarizes one tracing pass
type Stats struct {
	Emitted   int           // Photons leaving a light
	Stored    int           // Photons handed to the index
	Discarded int           // Deposits dropped for a degenerate density or depth
	Escaped   int           // Paths that left the scene without hitting anything
	Duration  time.Duration // Wall time of the pass
}

func (s *Stats) add(other Stats) {
	s.Emitted += other.Emitted
	s.Stored += other.Stored
	s.Discarded += other.Discarded
	s.Escaped += other.Escaped
}

// Tracer emits photons from lights, bounces them through a scene and deposits them into an index
type Tracer struct {
	scene  Scene
	config Config
	logger core.Logger
}

// NewTracer creates a tracer for the given scene
func NewTracer(scene Scene, config Config, logger core.Logger) *Tracer {
	if logger == nil {
		logger = NewDefaultLogger()
	}
	return &Tracer{scene: scene, config: config, logger: logger}
}

// TracePass traces Config.PhotonsPerPass photons split across workers. Each worker owns its
// random stream and buffers its own photons, so the only shared state is the index.
func (t *Tracer) TracePass(ctx context.Context, emitters []lights.Light, index photon.Index) (Stats, error) {
	start := time.Now()

	if err := t.config.Validate(); err != nil {
		return Stats{}, fmt.Errorf("invalid tracer config: %w", err)
	}
	for i, light := range emitters {
		if err := light.Validate(); err != nil {
			return Stats{}, fmt.Errorf("light %d: %w", i, err)
		}
	}

	total := t.config.PhotonsPerPass
	if len(emitters) == 0 || total == 0 {
		return Stats{Duration: time.Since(start)}, nil
	}

	lightSampler, err := lights.NewPowerLightSampler(emitters)
	if err != nil {
		return Stats{}, fmt.Errorf("building light sampler: %w", err)
	}

	workers := t.config.workers(total)
	t.logger.Printf("Tracing %d photons from %d lights using %d workers...\n", total, len(emitters), workers)

	per, rem := total/workers, total%workers
	results := make([]Stats, workers)
	group, groupCtx := errgroup.WithContext(ctx)

	for id := 0; id < workers; id++ {
		id := id
		count := per
		if id < rem {
			count++
		}
		group.Go(func() error {
			w := &worker{
				tracer:  t,
				lights:  lightSampler,
				index:   index,
				sampler: core.NewRandomSampler(rand.New(rand.NewSource(t.config.Seed + int64(id)))),
				scale:   1.0 / float64(total),
			}
			stats, err := w.run(groupCtx, count)
			results[id] = stats
			return err
		})
	}

	err = group.Wait()

	var stats Stats
	for _, s := range results {
		stats.add(s)
	}
	stats.Duration = time.Since(start)

	if err != nil {
		return stats, fmt.Errorf("photon tracing interrupted: %w", err)
	}

	t.logger.Printf("Pass completed in %v: %d emitted, %d stored, %d discarded, %d escaped\n",
		stats.Duration, stats.Emitted, stats.Stored, stats.Discarded, stats.Escaped)
	return stats, nil
}

// worker produces one disjoint stream of photons
type worker struct {
	tracer  *Tracer
	lights  *lights.WeightedLightSampler
	index   photon.Index
	sampler core.Sampler
	scale   float64 // 1 / total photons emitted this pass
	buffer  []photon.Photon
	stats   Stats
}

func (w *worker) run(ctx context.Context, count int) (Stats, error) {
	batch := w.tracer.config.batchSize()
	w.buffer = make([]photon.Photon, 0, batch)

	for i := 0; i < count; i++ {
		if i%batch == 0 {
			if err := ctx.Err(); err != nil {
				w.flush()
				return w.stats, err
			}
		}
		w.tracePhoton()
		if len(w.buffer) >= batch {
			w.flush()
		}
	}
	w.flush()
	return w.stats, nil
}

// tracePhoton emits a single photon and follows it until absorption, escape or MaxDepth
func (w *worker) tracePhoton() {
	light, selectPDF, _ := w.lights.SampleLightEmission(w.sampler.Get1D())
	if light == nil || selectPDF <= 0 {
		return
	}
	w.stats.Emitted++

	es := light.SampleEmission(w.sampler.Get2D(), w.sampler.Get2D())
	pdf := selectPDF * es.AreaPDF * es.DirectionPDF
	cosTheta := es.Direction.Dot(es.Normal)
	if !(pdf > 0) || cosTheta <= 0 {
		w.stats.Discarded++
		return
	}

	// Power carried by this photon: Le·cosθ / (p_select · p_area · p_dir) / N
	throughput := es.Emission.Multiply(cosTheta / pdf * w.scale)
	ray := core.NewRay(es.Point, es.Direction)
	maxDepth := w.tracer.config.MaxDepth

	for depth := 0; depth <= maxDepth; depth++ {
		hit, ok := w.tracer.scene.Intersect(ray, rayEpsilon, 1e30)
		if !ok {
			w.stats.Escaped++
			return
		}

		w.deposit(photon.Photon{
			Position: hit.Point,
			Color:    throughput,
			RayPDF:   pdf,
			RayDepth: depth,
		}, maxDepth)

		if depth == maxDepth || hit.Albedo.MaxComponent() <= 0 {
			return
		}

		normal := hit.Normal
		if normal.Dot(ray.Direction) > 0 {
			normal = normal.Negate()
		}

		// Lambertian bounce: f·cos/pdf = albedo for cosine-weighted directions
		direction := core.SampleCosineHemisphere(normal, w.sampler.Get2D())
		dirPDF := core.CosineHemispherePDF(direction.Dot(normal))
		throughput = throughput.MultiplyVec(hit.Albedo)
		pdf *= dirPDF

		if depth+1 >= w.tracer.config.RussianRouletteDepth {
			survive := min(0.95, hit.Albedo.MaxComponent())
			if w.sampler.Get1D() >= survive {
				return
			}
			throughput = throughput.Multiply(1.0 / survive)
			pdf *= survive
		}

		ray = core.NewRay(hit.Point, direction)
	}
}

func (w *worker) deposit(p photon.Photon, maxDepth int) {
	if !p.Valid(maxDepth) {
		w.stats.Discarded++
		return
	}
	w.buffer = append(w.buffer, p)
}

func (w *worker) flush() {
	if len(w.buffer) == 0 {
		return
	}
	if batcher, ok := w.index.(batchInserter); ok {
		batcher.InsertAll(w.buffer)
	} else {
		for _, p := range w.buffer {
			w.index.Insert(p)
		}
	}
	w.stats.Stored += len(w.buffer)
	w.buffer = w.buffer[:0]
}
