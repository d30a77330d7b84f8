package rail

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/rivergen/internal/event"
	"github.com/Faultbox/rivergen/pkg/math"
)

// Manager is the name → rail registry. Edits made through the manager
// are announced on the event bus so dependent meshes can regenerate.
type Manager struct {
	mu    sync.RWMutex
	rails map[string]*Rail
	bus   *event.Bus
}

// NewManager creates an empty registry publishing to the given bus.
// A nil bus disables notifications.
func NewManager(bus *event.Bus) *Manager {
	return &Manager{
		rails: make(map[string]*Rail),
		bus:   bus,
	}
}

// railFile is the yaml layout of a rail set file.
type railFile struct {
	Rails []railEntry `yaml:"rails"`
}

type railEntry struct {
	Name  string      `yaml:"name"`
	Nodes []nodeEntry `yaml:"nodes"`
}

type nodeEntry struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
	Z float32 `yaml:"z"`
}

// LoadFile reads a yaml rail set and registers every rail in it.
// Loading does not publish change events.
func (m *Manager) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading rail set %s: %w", path, err)
	}

	var file railFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing rail set %s: %w", path, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, entry := range file.Rails {
		nodes := make([]math.Vec3, len(entry.Nodes))
		for i, n := range entry.Nodes {
			nodes[i] = math.Vec3{X: n.X, Y: n.Y, Z: n.Z}
		}
		m.rails[entry.Name] = &Rail{Name: entry.Name, Nodes: nodes}
	}
	return nil
}

// Add registers a rail, replacing any rail with the same name.
func (m *Manager) Add(r *Rail) {
	m.mu.Lock()
	m.rails[r.Name] = r
	m.mu.Unlock()
}

// Get returns the named rail.
func (m *Manager) Get(name string) (*Rail, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rails[name]
	return r, ok
}

// Names returns the registered rail names in unspecified order.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.rails))
	for name := range m.rails {
		names = append(names, name)
	}
	return names
}

// SetNodes replaces a rail's control nodes and publishes a change event.
func (m *Manager) SetNodes(name string, nodes []math.Vec3) error {
	m.mu.Lock()
	r, ok := m.rails[name]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("unknown rail: %s", name)
	}
	r.Nodes = append([]math.Vec3(nil), nodes...)
	m.mu.Unlock()

	if m.bus != nil {
		m.bus.Publish(event.RailChanged{Name: name})
	}
	return nil
}

// Positions samples the named rail at the given spacing. It implements
// the path source the river system generates from. A rail with fewer
// than three control nodes cannot form a closed loop and is rejected
// like an unknown rail.
func (m *Manager) Positions(name string, step float32) ([]math.Vec3, error) {
	m.mu.RLock()
	r, ok := m.rails[name]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown rail: %s", name)
	}
	if len(r.Nodes) < 3 {
		return nil, fmt.Errorf("rail %s needs at least 3 nodes, got %d", name, len(r.Nodes))
	}
	return r.Positions(step), nil
}
