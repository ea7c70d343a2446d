package ecs_test

import (
	"context"
	"testing"
	"time"

	"github.com/plus3/scenery/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MovementSystem struct {
	Entities ecs.Query[struct {
		*Position
		*Velocity
	}]
	ExecuteCount int
}

func (s *MovementSystem) Execute(frame *ecs.UpdateFrame) {
	s.ExecuteCount++
	for item := range s.Entities.Values() {
		item.Position.X += item.Velocity.DX * float32(frame.DeltaTime)
		item.Position.Y += item.Velocity.DY * float32(frame.DeltaTime)
	}
}

type ScoreKeeper struct {
	Total ecs.Singleton[Score]
	Named ecs.Query[struct{ *Name }]
}

func (s *ScoreKeeper) Execute(frame *ecs.UpdateFrame) {
	*s.Total.Get() = Score(s.Named.Len())
}

type recordingSystem struct {
	label string
	log   *[]string
}

func (s *recordingSystem) Execute(frame *ecs.UpdateFrame) {
	*s.log = append(*s.log, s.label)
}

func TestScheduler(t *testing.T) {
	t.Run("queries are bound and executed before the system", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		scheduler := ecs.NewScheduler(storage)

		movement := &MovementSystem{}
		scheduler.Register(movement)

		id := storage.Spawn(Position{X: 0, Y: 0}, Velocity{DX: 1, DY: 2})
		storage.Spawn(Health{Current: 100, Max: 100})

		scheduler.Once(0.5)
		scheduler.Once(0.5)

		pos := ecs.ReadComponent[Position](storage, id)
		assert.InDelta(t, 1.0, pos.X, 1e-6)
		assert.InDelta(t, 2.0, pos.Y, 1e-6)
		assert.Equal(t, 2, movement.ExecuteCount)
		assert.Equal(t, uint64(2), scheduler.Tick())
	})

	t.Run("singleton fields", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		ecs.NewSingleton[Score](storage)
		storage.Spawn(Name{Value: "a"})
		storage.Spawn(Name{Value: "b"}, Position{})

		scheduler := ecs.NewScheduler(storage)
		scheduler.Register(&ScoreKeeper{})
		scheduler.Once(0)

		var score *Score
		require.True(t, storage.ReadSingleton(&score))
		assert.Equal(t, Score(2), *score)
	})

	t.Run("startup systems run once and first", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		scheduler := ecs.NewScheduler(storage)

		var log []string
		scheduler.Register(&recordingSystem{label: "update", log: &log})
		scheduler.RegisterStartup(&recordingSystem{label: "startup", log: &log})

		scheduler.Once(0)
		scheduler.Once(0)

		assert.Equal(t, []string{"startup", "update", "update"}, log)
	})

	t.Run("startup commands are visible to the first update", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		scheduler := ecs.NewScheduler(storage)

		scheduler.RegisterStartup(ecs.SystemFunc(func(frame *ecs.UpdateFrame) {
			frame.Commands.Spawn(Name{Value: "camera"})
		}))
		keeper := &ScoreKeeper{}
		ecs.NewSingleton[Score](storage)
		scheduler.Register(keeper)

		scheduler.Once(0)
		assert.Equal(t, Score(1), *keeper.Total.Get())
	})

	t.Run("stats", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		scheduler := ecs.NewScheduler(storage)
		scheduler.Register(&MovementSystem{})
		scheduler.RegisterStartup(ecs.SystemFunc(func(*ecs.UpdateFrame) {}))

		for range 3 {
			scheduler.Once(0)
		}

		stats := scheduler.GetStats()
		assert.Equal(t, 2, stats.SystemCount)
		assert.Equal(t, int64(4), stats.TotalExecutions)
		assert.Equal(t, "SystemFunc", stats.Systems[0].Name)
		assert.Equal(t, "MovementSystem", stats.Systems[1].Name)
		assert.Equal(t, int64(3), stats.Systems[1].ExecutionCount)
		assert.LessOrEqual(t, stats.Systems[1].MinDuration, stats.Systems[1].MaxDuration)
	})

	t.Run("run until cancelled", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		scheduler := ecs.NewScheduler(storage)
		movement := &MovementSystem{}
		scheduler.Register(movement)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		scheduler.Run(ctx, 5*time.Millisecond)

		assert.Greater(t, movement.ExecuteCount, 0)
	})
}
