package debugui

import (
	"time"

	"github.com/plus3/scenery/ecs"
)

// Inspector groups the world inspector windows: an entity browser, a
// component inspector for the selected entity and performance stats
type Inspector struct {
	Browser     EntityBrowserComponent
	Components  ComponentInspectorComponent
	Performance PerformanceStatsComponent

	timer *FrameTimer
}

func NewInspector() *Inspector {
	return &Inspector{
		Browser:     NewEntityBrowserComponent(100),
		Components:  NewComponentInspectorComponent(),
		Performance: NewPerformanceStatsComponent(120),
		timer:       NewFrameTimer(),
	}
}

// Render draws every inspector window. Call it inside an ImGui frame.
func (in *Inspector) Render(storage *ecs.Storage, scheduler *ecs.Scheduler) {
	var tick uint64
	if scheduler != nil {
		tick = scheduler.Tick()
	}

	in.Browser.Render(storage, tick)
	in.Components.Render(storage, in.Browser.GetSelectedEntity(), in.Browser.Select)
	in.Performance.Render(storage, scheduler, in.timer.GetDeltaTime())
}

// RegisterDebugUIComponents registers the components ImguiSystem works with
func RegisterDebugUIComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[ImguiItem](registry)
	ecs.RegisterComponent[ImguiInputState](registry)
}

// SpawnInspector adds the world inspector to storage as an ImguiItem and
// makes sure the ImguiInputState singleton exists
func SpawnInspector(storage *ecs.Storage, scheduler *ecs.Scheduler) *Inspector {
	inspector := NewInspector()
	ecs.NewSingleton[ImguiInputState](storage)
	storage.Spawn(ImguiItem{
		Render: func() { inspector.Render(storage, scheduler) },
	})
	return inspector
}

// FrameTimer measures wall time between inspector frames
type FrameTimer struct {
	lastFrameTime time.Time
}

func NewFrameTimer() *FrameTimer {
	return &FrameTimer{
		lastFrameTime: time.Now(),
	}
}

func (ft *FrameTimer) GetDeltaTime() float64 {
	now := time.Now()
	delta := now.Sub(ft.lastFrameTime).Seconds()
	ft.lastFrameTime = now
	return delta
}
