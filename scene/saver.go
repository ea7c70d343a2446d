package scene

import (
	"context"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"sync"

	"github.com/plus3/scenery/ecs"
	"github.com/plus3/scenery/tasks"
	"go.uber.org/zap"
)

// Saver snapshots entities on the frame loop and writes the serialized
// scene to a fixed file on the IO pool
type Saver struct {
	pool   *tasks.Pool
	logger *zap.Logger
	path   string
	writes *writeSlot
}

// writeSlot orders writes to one file. Snapshots are numbered when taken and
// a write never replaces a newer snapshot already on disk.
type writeSlot struct {
	mu      sync.Mutex
	taken   uint64
	written uint64
}

// NewSaver creates a saver writing to path, replacing it on every save
func NewSaver(pool *tasks.Pool, logger *zap.Logger, path string) Saver {
	return Saver{
		pool:   pool,
		logger: logger.Named("scene"),
		path:   path,
		writes: &writeSlot{},
	}
}

// Path returns the file scenes are written to
func (s *Saver) Path() string {
	return s.path
}

// Save captures ids, serializes them immediately and schedules the write.
// The returned bytes are exactly what will be written. Write errors are
// reported by the pool, never to the caller.
func (s *Saver) Save(storage *ecs.Storage, ids iter.Seq[ecs.EntityId]) ([]byte, error) {
	scene := NewBuilder(storage).ExtractEntities(ids).Build()
	data, err := Serialize(scene, storage.Registry())
	if err != nil {
		return nil, err
	}

	path, slot := s.path, s.writes
	slot.mu.Lock()
	slot.taken++
	seq := slot.taken
	slot.mu.Unlock()

	s.pool.Spawn("save scene "+path, func(ctx context.Context) error {
		slot.mu.Lock()
		defer slot.mu.Unlock()
		if seq < slot.written {
			s.logger.Debug("newer scene already written", zap.String("path", path), zap.Uint64("save", seq))
			return nil
		}
		if err := writeScene(path, data); err != nil {
			return err
		}
		slot.written = seq
		s.logger.Debug("scene written", zap.String("path", path), zap.Int("bytes", len(data)))
		return nil
	})
	return data, nil
}

func writeScene(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create scene directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write scene: %w", err)
	}
	return nil
}
