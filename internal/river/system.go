package river

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/rivergen/internal/config"
	"github.com/Faultbox/rivergen/internal/engine/geometry"
	"github.com/Faultbox/rivergen/internal/event"
	"github.com/Faultbox/rivergen/internal/logger"
	"github.com/Faultbox/rivergen/pkg/math"
)

// PathSource resolves a named rail into a closed loop of sample points.
type PathSource interface {
	Positions(name string, step float32) ([]math.Vec3, error)
}

// MeshSink receives finished mesh buffers keyed by material and shader
// names. Uploading under an existing id replaces the previous mesh.
type MeshSink interface {
	AddMesh(id string, m *geometry.MeshBuffers, material, shader string) error
}

// River is the per-instance record: which rail the river follows and
// the seed its bank randomization is drawn from. This is the only
// mutable per-river state and the record that gets persisted.
type River struct {
	Name       string `yaml:"name"`
	RailName   string `yaml:"rail_name"`
	RandomSeed int64  `yaml:"random_seed"`
}

// System owns the set of rivers and regenerates their meshes on demand
// or in response to rail change events. Generation is synchronous;
// callers must not rebuild the same system concurrently while mutating
// its rails.
type System struct {
	cfg    *config.RiverConfig
	source PathSource
	sink   MeshSink

	mu     sync.Mutex
	rivers []*River

	unsubscribe func()
}

// NewSystem creates a system generating with the given config through
// the given collaborators.
func NewSystem(cfg *config.RiverConfig, source PathSource, sink MeshSink) *System {
	return &System{
		cfg:    cfg,
		source: source,
		sink:   sink,
	}
}

// Attach subscribes the system to rail change notifications. Any rail
// edit rebuilds every river; filtering by rail name is deliberately not
// attempted, matching the conservative fallback the trigger contract
// allows.
func (s *System) Attach(bus *event.Bus) {
	s.unsubscribe = bus.Subscribe(func(ev event.RailChanged) {
		logger.Debug("rail changed, rebuilding rivers", zap.String("rail", ev.Name))
		s.RebuildAll()
	})
}

// Detach removes the bus subscription.
func (s *System) Detach() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

// Add registers a river and builds its meshes.
func (s *System) Add(r *River) error {
	s.mu.Lock()
	s.rivers = append(s.rivers, r)
	s.mu.Unlock()
	return s.Rebuild(r)
}

// Rivers returns the registered rivers.
func (s *System) Rivers() []*River {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*River(nil), s.rivers...)
}

// Rebuild regenerates both meshes for one river from scratch and hands
// them to the sink. The bank mesh goes through the normal/tangent pass
// first; the river surface keeps its flat placeholder attributes.
func (s *System) Rebuild(r *River) error {
	track, err := s.source.Positions(r.RailName, s.cfg.SplineStep)
	if err != nil {
		return fmt.Errorf("sampling rail %s: %w", r.RailName, err)
	}

	riverMesh, bankMesh := Build(track, s.cfg, r.RandomSeed)
	geometry.ComputeNormalsTangents(bankMesh)

	if err := s.sink.AddMesh(r.Name, riverMesh, s.cfg.Material, s.cfg.Shader); err != nil {
		return fmt.Errorf("adding river mesh %s: %w", r.Name, err)
	}
	if err := s.sink.AddMesh(r.Name+".bank", bankMesh, s.cfg.BankMaterial, s.cfg.BankShader); err != nil {
		return fmt.Errorf("adding bank mesh %s: %w", r.Name, err)
	}

	logger.Debug("rebuilt river",
		zap.String("river", r.Name),
		zap.String("rail", r.RailName),
		zap.Int("segments", len(track)),
		zap.Int("river_verts", len(riverMesh.Vertices)),
		zap.Int("bank_verts", len(bankMesh.Vertices)),
	)
	return nil
}

// RebuildAll regenerates every registered river, logging failures
// rather than aborting so one broken rail does not stall the rest.
func (s *System) RebuildAll() {
	for _, r := range s.Rivers() {
		if err := s.Rebuild(r); err != nil {
			logger.Error("river rebuild failed", zap.String("river", r.Name), zap.Error(err))
		}
	}
}

// riverFile is the yaml layout of a persisted river set.
type riverFile struct {
	Rivers []*River `yaml:"rivers"`
}

// LoadRecords reads persisted river records from a yaml file.
func LoadRecords(path string) ([]*River, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading river records %s: %w", path, err)
	}

	var file riverFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing river records %s: %w", path, err)
	}
	return file.Rivers, nil
}

// SaveRecords writes river records to a yaml file.
func SaveRecords(path string, rivers []*River) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(riverFile{Rivers: rivers})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
