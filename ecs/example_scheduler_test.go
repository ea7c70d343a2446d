package ecs_test

import (
	"fmt"

	"github.com/plus3/scenery/ecs"
)

type CleanupSystem struct {
	Entities ecs.Query[struct {
		Id ecs.EntityId
		*Health
	}]
}

func (s *CleanupSystem) Execute(frame *ecs.UpdateFrame) {
	for item := range s.Entities.Values() {
		if item.Health.Current <= 0 {
			frame.Commands.Delete(item.Id)
		}
	}
}

// ExampleScheduler shows systems queuing structural changes through Commands.
// The deletions are applied when the tick finishes, so iteration never sees
// a half-modified archetype.
func ExampleScheduler() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Health](registry)
	storage := ecs.NewStorage(registry)

	storage.Spawn(Health{Current: 0, Max: 100})
	storage.Spawn(Health{Current: 50, Max: 100})
	storage.Spawn(Health{Current: 100, Max: 100})

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&CleanupSystem{})

	fmt.Println("before:", storage.EntityCount())
	scheduler.Once(1.0 / 60.0)
	fmt.Println("after:", storage.EntityCount())

	// Output:
	// before: 3
	// after: 2
}

// ExampleNewSingleton demonstrates creating and accessing singleton components.
func ExampleNewSingleton() {
	type GameConfig struct {
		MaxPlayers int
		Difficulty string
	}

	storage := ecs.NewStorage(ecs.NewComponentRegistry())

	config := ecs.NewSingleton[GameConfig](storage, GameConfig{MaxPlayers: 4, Difficulty: "Normal"})
	config.Get().Difficulty = "Hard"

	var same *GameConfig
	if storage.ReadSingleton(&same) {
		fmt.Printf("%d players, %s\n", same.MaxPlayers, same.Difficulty)
	}

	// Output:
	// 4 players, Hard
}
