package asset

import "github.com/plus3/scenery/ecs"

// System publishes finished loads to the frame loop
type System struct {
	Assets ecs.Singleton[ServerResource]
}

func (s *System) Execute(frame *ecs.UpdateFrame) {
	if res := s.Assets.Get(); res != nil && res.Server != nil {
		res.Update()
	}
}
