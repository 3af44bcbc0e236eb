// Package registry provides a global registry for scene factories.
// Scenes register themselves in init() functions, allowing the commands
// to discover and instantiate scenes without hardcoded dependencies.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/pixelloop/internal/config"
	"github.com/vovakirdan/pixelloop/internal/core"
	"github.com/vovakirdan/pixelloop/internal/host"
)

// ErrUnknownScene is returned by Create for an unregistered ID.
var ErrUnknownScene = errors.New("registry: unknown scene")

// Scene is the application state driven by an engine loop.
// Scenes draw only through the surface they are handed and never talk to a
// host directly.
type Scene interface {
	// ID returns a unique identifier for this scene (e.g., "bounce").
	// Used for CLI arguments and run statistics.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Reset initializes the scene for a surface of the configured size.
	Reset(cfg core.RuntimeConfig)

	// Update advances the simulation by one fixed step.
	Update(s core.RenderSurface) error

	// Render draws the current state. dt is the clamped wall time since the
	// previous render. Presenting the frame is left to the caller.
	Render(s core.RenderSurface, dt time.Duration) error

	// HandleEvent observes a host event before the engine acts on it.
	HandleEvent(s core.RenderSurface, ev host.Event) error
}

// LoggerSetter is implemented by scenes that report through a logger.
type LoggerSetter interface {
	SetLogger(l *log.Logger)
}

// SceneInfo contains metadata about a registered scene.
type SceneInfo struct {
	ID    string
	Title string
}

// Factory creates a new scene instance tuned by the application config.
type Factory func(cfg config.Config) Scene

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a scene factory to the registry.
// Typically called from a scene's init() function.
// Panics if a scene with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: scene %q already registered", id))
	}

	factories[id] = f
	titles[id] = f(config.Default()).Title()
}

// List returns information about all registered scenes, sorted by ID.
func List() []SceneInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]SceneInfo, 0, len(factories))
	for id := range factories {
		result = append(result, SceneInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new scene by its ID.
func Create(id string, cfg config.Config) (Scene, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownScene, id)
	}

	return f(cfg), nil
}

// Exists checks if a scene with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
