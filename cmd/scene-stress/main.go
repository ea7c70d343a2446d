// Command scene-stress measures how long snapshotting, serializing, parsing
// and instantiating scenes takes for a world of a given size.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/plus3/scenery/ecs"
	"github.com/plus3/scenery/internal/demo"
	"github.com/plus3/scenery/internal/logging"
	"github.com/plus3/scenery/scene"
	"go.uber.org/zap"
)

func main() {
	iterations := flag.Int("iterations", 50, "Number of save/load rounds to run.")
	tagged := flag.Int("tagged", 5000, "Entities carrying SaveMe.")
	untagged := flag.Int("untagged", 5000, "Entities without SaveMe, which saves must skip.")
	depth := flag.Int("depth", 2, "Children attached below every tagged entity.")
	seed := flag.Int64("seed", 1, "Random seed for entity positions.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	logger, err := logging.New("info", true)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	report, err := run(logger, Options{
		Iterations: *iterations,
		Tagged:     *tagged,
		Untagged:   *untagged,
		Depth:      *depth,
		Seed:       *seed,
	})
	if err != nil {
		logger.Fatal("stress test failed", zap.Error(err))
	}
	report.GCPauseMetrics = *gcPauseMetrics

	fmt.Println("\n\n--- Scene Stress Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		logger.Fatal("failed to generate report", zap.Error(err))
	}
	fmt.Println("--- End of Report ---")
}

// Options sizes one stress run
type Options struct {
	Iterations int
	Tagged     int
	Untagged   int
	Depth      int
	Seed       int64
}

func newRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	demo.Register(registry)
	registry.Freeze()
	return registry
}

// populate fills storage with tagged cubes, each carrying a chain of depth
// children, and untagged cubes
func populate(storage *ecs.Storage, opts Options) {
	rng := rand.New(rand.NewSource(opts.Seed))
	assets := demo.NewDemoAssets()
	position := func() demo.Transform {
		return demo.TransformAt(rng.Float32()*10-5, rng.Float32()*5, rng.Float32()*10-5)
	}

	for i := 0; i < opts.Tagged; i++ {
		parent := storage.Spawn(position(), assets.Cube, assets.CubeMaterial, demo.Stuff{}, demo.SaveMe{})
		for d := 0; d < opts.Depth; d++ {
			child := storage.Spawn(position(), assets.Cube, demo.SaveMe{})
			ecs.SetParent(storage, child, parent)
			parent = child
		}
	}
	for i := 0; i < opts.Untagged; i++ {
		storage.Spawn(position(), assets.Cube, assets.CubeMaterial, demo.Stuff{})
	}
}

func run(logger *zap.Logger, opts Options) (*Report, error) {
	registry := newRegistry()
	storage := ecs.NewStorage(registry)

	logger.Info("populating storage",
		zap.Int("tagged", opts.Tagged),
		zap.Int("untagged", opts.Untagged),
		zap.Int("depth", opts.Depth),
	)
	populate(storage, opts)

	report := &Report{
		Options:  opts,
		Entities: storage.EntityCount(),
	}
	runtime.ReadMemStats(&report.MemStatsStart)
	startTime := time.Now()

	for i := 0; i < opts.Iterations; i++ {
		start := time.Now()
		built := scene.ExtractTagged[demo.SaveMe](scene.NewBuilder(storage)).Build()
		report.Extract.Samples = append(report.Extract.Samples, time.Since(start))

		start = time.Now()
		data, err := scene.Serialize(built, registry)
		if err != nil {
			return nil, err
		}
		report.Serialize.Samples = append(report.Serialize.Samples, time.Since(start))
		report.SceneBytes = len(data)
		report.SavedEntities = built.Len()

		start = time.Now()
		decoded, err := scene.Deserialize(data, registry)
		if err != nil {
			return nil, err
		}
		report.Deserialize.Samples = append(report.Deserialize.Samples, time.Since(start))

		target := ecs.NewStorage(registry)
		start = time.Now()
		entityMap, err := decoded.WriteToStorage(target)
		if err != nil {
			return nil, err
		}
		report.Spawn.Samples = append(report.Spawn.Samples, time.Since(start))

		if len(entityMap) != built.Len() {
			return nil, fmt.Errorf("round %d: spawned %d of %d entities", i, len(entityMap), built.Len())
		}
	}

	report.TotalTime = time.Since(startTime)
	for _, stats := range []*Stats{&report.Extract, &report.Serialize, &report.Deserialize, &report.Spawn} {
		stats.Finalize()
	}
	runtime.ReadMemStats(&report.MemStatsEnd)

	logger.Info("stress test finished", zap.Duration("elapsed", report.TotalTime))
	return report, nil
}
