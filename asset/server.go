// Package asset loads files from the assets directory in the background and
// publishes the decoded values to the frame loop.
package asset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/plus3/scenery/tasks"
	"go.uber.org/zap"
)

// ErrNoLoader is returned for paths no registered loader accepts
var ErrNoLoader = errors.New("no loader for asset")

// LoadState tracks an asset through its lifetime
type LoadState int

const (
	NotLoaded LoadState = iota
	Loading
	Loaded
	Failed
)

func (s LoadState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	}
	return "not loaded"
}

// Handle refers to an asset by its path relative to the assets directory
type Handle struct {
	Path string
}

// Valid reports whether the handle points anywhere
func (h Handle) Valid() bool {
	return h.Path != ""
}

// Loader decodes raw file contents into an asset value
type Loader interface {
	Extensions() []string
	Load(data []byte) (any, error)
}

type entry struct {
	state    LoadState
	value    any
	version  uint64
	inflight bool
	dirty    bool
}

type loadResult struct {
	path  string
	value any
	err   error
}

// Server owns the asset table. Load, Get, State, Version and Update must be
// called from the frame loop; only file reads and decoding run on the pool.
type Server struct {
	root    string
	pool    *tasks.Pool
	logger  *zap.Logger
	loaders map[string]Loader
	suffix  []string
	entries map[string]*entry
	watcher *Watcher

	mu        sync.Mutex
	completed []loadResult
}

// ServerResource exposes a Server to systems as a storage singleton
type ServerResource struct {
	*Server
}

// NewServer creates a server reading files below root
func NewServer(root string, pool *tasks.Pool, logger *zap.Logger) *Server {
	return &Server{
		root:    root,
		pool:    pool,
		logger:  logger.Named("asset"),
		loaders: make(map[string]Loader),
		entries: make(map[string]*entry),
	}
}

// Root returns the directory assets are read from
func (s *Server) Root() string {
	return s.root
}

// RegisterLoader routes files ending in any of the loader's extensions to it.
// The longest matching extension wins.
func (s *Server) RegisterLoader(loader Loader) {
	for _, ext := range loader.Extensions() {
		ext = strings.ToLower(ext)
		if _, exists := s.loaders[ext]; !exists {
			s.suffix = append(s.suffix, ext)
		}
		s.loaders[ext] = loader
	}
	sort.Slice(s.suffix, func(i, j int) bool { return len(s.suffix[i]) > len(s.suffix[j]) })
}

// Load requests an asset and returns its handle immediately.
// Requesting the same path again returns the same handle without reloading.
func (s *Server) Load(path string) Handle {
	handle := s.Handle(path)
	if _, exists := s.entries[handle.Path]; exists {
		return handle
	}

	s.entries[handle.Path] = &entry{state: Loading}
	s.startLoad(handle.Path)
	return handle
}

// Handle returns the handle Load would return for path without requesting it
func (s *Server) Handle(path string) Handle {
	return Handle{Path: cleanPath(path)}
}

// Reload re-reads an already requested asset. The asset reports Loading until
// the newest read finishes. Unknown handles are ignored.
func (s *Server) Reload(handle Handle) {
	e, ok := s.entries[handle.Path]
	if !ok {
		return
	}
	e.state = Loading
	if e.inflight {
		e.dirty = true
		return
	}
	s.startLoad(handle.Path)
}

// Get returns the loaded value for a handle
func (s *Server) Get(handle Handle) (any, bool) {
	e, ok := s.entries[handle.Path]
	if !ok || e.state != Loaded {
		return nil, false
	}
	return e.value, true
}

// State returns the load state for a handle
func (s *Server) State(handle Handle) LoadState {
	e, ok := s.entries[handle.Path]
	if !ok {
		return NotLoaded
	}
	return e.state
}

// Version increases each time the asset is (re)loaded successfully
func (s *Server) Version(handle Handle) uint64 {
	e, ok := s.entries[handle.Path]
	if !ok {
		return 0
	}
	return e.version
}

// Update applies finished loads and queued file changes. Run it once per frame.
func (s *Server) Update() {
	if s.watcher != nil {
		s.drainWatcher()
	}

	s.mu.Lock()
	completed := s.completed
	s.completed = nil
	s.mu.Unlock()

	for _, res := range completed {
		e, ok := s.entries[res.path]
		if !ok {
			continue
		}
		e.inflight = false

		if res.err != nil {
			e.state = Failed
			e.value = nil
			s.logger.Debug("asset load failed", zap.String("path", res.path), zap.Error(res.err))
		} else {
			e.state = Loaded
			e.value = res.value
			e.version++
			s.logger.Debug("asset loaded", zap.String("path", res.path), zap.Uint64("version", e.version))
		}

		if e.dirty {
			// A newer read was requested while this one ran
			e.dirty = false
			s.Reload(Handle{Path: res.path})
		}
	}
}

func (s *Server) startLoad(path string) {
	s.entries[path].inflight = true
	full := filepath.Join(s.root, filepath.FromSlash(path))
	loader := s.loaderFor(path)

	s.pool.Spawn("load asset "+path, func(ctx context.Context) error {
		value, err := read(full, loader)
		s.mu.Lock()
		s.completed = append(s.completed, loadResult{path: path, value: value, err: err})
		s.mu.Unlock()
		return nil
	})
}

func read(full string, loader Loader) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("%s: %w", full, ErrNoLoader)
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("read asset: %w", err)
	}
	value, err := loader.Load(data)
	if err != nil {
		return nil, fmt.Errorf("decode asset %s: %w", full, err)
	}
	return value, nil
}

func (s *Server) loaderFor(path string) Loader {
	lower := strings.ToLower(path)
	for _, ext := range s.suffix {
		if strings.HasSuffix(lower, ext) {
			return s.loaders[ext]
		}
	}
	return nil
}

func cleanPath(path string) string {
	return strings.TrimPrefix(filepath.ToSlash(filepath.Clean(path)), "./")
}

// Watch starts reloading requested assets when their files change on disk
func (s *Server) Watch() error {
	if s.watcher != nil {
		return nil
	}
	watcher, err := NewWatcher(s.root, s.logger)
	if err != nil {
		return err
	}
	s.watcher = watcher
	s.logger.Info("watching assets", zap.String("root", s.root))
	return nil
}

// Close stops the watcher, if any. In-flight loads are left to the pool.
func (s *Server) Close() error {
	if s.watcher == nil {
		return nil
	}
	err := s.watcher.Close()
	s.watcher = nil
	return err
}

func (s *Server) drainWatcher() {
	for {
		select {
		case path, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			handle := Handle{Path: cleanPath(path)}
			if _, known := s.entries[handle.Path]; known {
				s.logger.Debug("asset changed", zap.String("path", handle.Path))
				s.Reload(handle)
			}
		default:
			return
		}
	}
}
