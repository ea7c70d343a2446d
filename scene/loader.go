package scene

import "github.com/plus3/scenery/ecs"

// Extension is the file suffix scene files are recognized by
const Extension = ".scn.yaml"

// Loader decodes scene files for the asset server
type Loader struct {
	registry *ecs.ComponentRegistry
}

// NewLoader creates a loader resolving component names through registry.
// The registry must be frozen, since loads run off the frame loop.
func NewLoader(registry *ecs.ComponentRegistry) *Loader {
	if !registry.Frozen() {
		panic("scene loader needs a frozen registry")
	}
	return &Loader{registry: registry}
}

func (l *Loader) Extensions() []string {
	return []string{Extension}
}

func (l *Loader) Load(data []byte) (any, error) {
	return Deserialize(data, l.registry)
}
