package scene

import (
	"github.com/google/uuid"
	"github.com/plus3/scenery/asset"
	"github.com/plus3/scenery/ecs"
	"go.uber.org/zap"
)

// InstanceId identifies one instantiation of a scene asset
type InstanceId uuid.UUID

func (id InstanceId) String() string {
	return uuid.UUID(id).String()
}

// Instance tracks the entities spawned for one SpawnDynamic request
type Instance struct {
	Id       InstanceId
	Handle   asset.Handle
	Version  uint64
	Entities EntityMap
}

// Spawner instantiates scene assets once they finish loading.
// Keep it in storage as a singleton and run SpawnerSystem every frame.
type Spawner struct {
	assets *asset.Server
	logger *zap.Logger

	// RespawnOnReload replaces an instance's entities when its asset is
	// reloaded from disk
	RespawnOnReload bool

	pending   []InstanceId
	instances map[InstanceId]*Instance
}

// NewSpawner creates a spawner reading scenes from assets
func NewSpawner(assets *asset.Server, logger *zap.Logger) Spawner {
	return Spawner{
		assets:    assets,
		logger:    logger.Named("scene"),
		instances: make(map[InstanceId]*Instance),
	}
}

// SpawnDynamic queues an instance of the scene behind handle. Nothing is
// spawned until the asset has loaded; if loading fails the request is dropped.
func (s *Spawner) SpawnDynamic(handle asset.Handle) InstanceId {
	id := InstanceId(uuid.New())
	s.instances[id] = &Instance{Id: id, Handle: handle}
	s.pending = append(s.pending, id)
	return id
}

// Instance returns a queued or spawned instance
func (s *Spawner) Instance(id InstanceId) (*Instance, bool) {
	inst, ok := s.instances[id]
	return inst, ok
}

// Pending returns the number of instances still waiting for their asset
func (s *Spawner) Pending() int {
	return len(s.pending)
}

// Despawn removes every live entity spawned for an instance and forgets it
func (s *Spawner) Despawn(storage *ecs.Storage, id InstanceId) {
	inst, ok := s.instances[id]
	if !ok {
		return
	}
	despawnInstance(storage, inst)
	delete(s.instances, id)
}

// Update spawns instances whose scene is ready and respawns reloaded ones
func (s *Spawner) Update(storage *ecs.Storage) {
	if s.RespawnOnReload {
		for _, inst := range s.instances {
			if inst.Entities == nil || s.assets.State(inst.Handle) != asset.Loaded {
				continue
			}
			if s.assets.Version(inst.Handle) == inst.Version {
				continue
			}
			despawnInstance(storage, inst)
			s.spawn(storage, inst)
		}
	}

	waiting := s.pending[:0]
	for _, id := range s.pending {
		inst, ok := s.instances[id]
		if !ok {
			continue
		}
		switch s.assets.State(inst.Handle) {
		case asset.Loaded:
			s.spawn(storage, inst)
		case asset.Failed, asset.NotLoaded:
			s.logger.Debug("scene unavailable", zap.String("path", inst.Handle.Path), zap.Stringer("instance", id))
			delete(s.instances, id)
		default:
			waiting = append(waiting, id)
		}
	}
	s.pending = waiting
}

func (s *Spawner) spawn(storage *ecs.Storage, inst *Instance) {
	value, _ := s.assets.Get(inst.Handle)
	scene, ok := value.(*DynamicScene)
	if !ok {
		s.logger.Debug("asset is not a scene", zap.String("path", inst.Handle.Path))
		delete(s.instances, inst.Id)
		return
	}

	entities, err := scene.WriteToStorage(storage)
	if err != nil {
		s.logger.Debug("scene not spawned", zap.String("path", inst.Handle.Path), zap.Error(err))
		delete(s.instances, inst.Id)
		return
	}

	inst.Entities = entities
	inst.Version = s.assets.Version(inst.Handle)
	s.logger.Debug("scene spawned",
		zap.String("path", inst.Handle.Path),
		zap.Stringer("instance", inst.Id),
		zap.Int("entities", len(entities)),
	)
}

func despawnInstance(storage *ecs.Storage, inst *Instance) {
	for _, id := range inst.Entities {
		storage.Despawn(id)
	}
}

// SpawnerSystem runs the Spawner singleton once per frame
type SpawnerSystem struct {
	Spawner ecs.Singleton[Spawner]
}

func (s *SpawnerSystem) Execute(frame *ecs.UpdateFrame) {
	if spawner := s.Spawner.Get(); spawner != nil && spawner.instances != nil {
		spawner.Update(frame.Storage)
	}
}
