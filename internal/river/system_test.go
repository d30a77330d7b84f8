package river

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/Faultbox/rivergen/internal/engine/geometry"
	"github.com/Faultbox/rivergen/internal/event"
	"github.com/Faultbox/rivergen/internal/rail"
	"github.com/Faultbox/rivergen/pkg/math"
)

type fakeSource struct {
	tracks map[string][]math.Vec3
	calls  int
}

func (f *fakeSource) Positions(name string, step float32) ([]math.Vec3, error) {
	f.calls++
	track, ok := f.tracks[name]
	if !ok {
		return nil, errors.New("unknown rail " + name)
	}
	return track, nil
}

type sinkEntry struct {
	mesh     *geometry.MeshBuffers
	material string
	shader   string
}

type recordingSink struct {
	meshes map[string]sinkEntry
}

func newRecordingSink() *recordingSink {
	return &recordingSink{meshes: make(map[string]sinkEntry)}
}

func (r *recordingSink) AddMesh(id string, m *geometry.MeshBuffers, material, shader string) error {
	r.meshes[id] = sinkEntry{mesh: m, material: material, shader: shader}
	return nil
}

func testSystem() (*System, *fakeSource, *recordingSink) {
	cfg := testRiverConfig()
	cfg.Material = "materials/river"
	cfg.Shader = "water"
	cfg.BankMaterial = "materials/ground"
	cfg.BankShader = "textured_opaque"

	source := &fakeSource{tracks: map[string][]math.Vec3{
		"loop": circleTrack(24, 60),
	}}
	sink := newRecordingSink()
	return NewSystem(cfg, source, sink), source, sink
}

func TestSystemAddBuildsBothMeshes(t *testing.T) {
	sys, _, sink := testSystem()

	if err := sys.Add(&River{Name: "amazon", RailName: "loop", RandomSeed: 5}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	surface, ok := sink.meshes["amazon"]
	if !ok {
		t.Fatal("river surface mesh was not handed to the sink")
	}
	if surface.material != "materials/river" || surface.shader != "water" {
		t.Errorf("surface got material %q shader %q", surface.material, surface.shader)
	}
	if len(surface.mesh.Vertices) != 48 {
		t.Errorf("surface has %d vertices, want 48", len(surface.mesh.Vertices))
	}

	bank, ok := sink.meshes["amazon.bank"]
	if !ok {
		t.Fatal("bank mesh was not handed to the sink")
	}
	if bank.material != "materials/ground" || bank.shader != "textured_opaque" {
		t.Errorf("bank got material %q shader %q", bank.material, bank.shader)
	}
	if len(bank.mesh.Vertices) != 24*4 {
		t.Errorf("bank has %d vertices, want %d", len(bank.mesh.Vertices), 24*4)
	}
}

func TestSystemBankNormalsComputed(t *testing.T) {
	sys, _, sink := testSystem()
	if err := sys.Add(&River{Name: "r", RailName: "loop", RandomSeed: 3}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	// The normal pass replaces the flat placeholder attributes, so at
	// least some bank vertices must carry a non-placeholder normal.
	replaced := false
	for _, v := range sink.meshes["r.bank"].mesh.Vertices {
		if v.Normal != [3]float32{0, 1, 0} {
			replaced = true
			break
		}
	}
	if !replaced {
		t.Error("bank mesh still carries placeholder normals")
	}
}

func TestSystemRebuildUnknownRail(t *testing.T) {
	sys, _, _ := testSystem()
	err := sys.Rebuild(&River{Name: "r", RailName: "nope", RandomSeed: 1})
	if err == nil {
		t.Fatal("expected an error for an unknown rail")
	}
}

func TestSystemRebuildDegenerateRail(t *testing.T) {
	// A rail too short to form a loop must surface as a rebuild error,
	// not reach the assembler and panic.
	manager := rail.NewManager(nil)
	manager.Add(&rail.Rail{Name: "stub", Nodes: []math.Vec3{{X: 1}}})

	sys := NewSystem(testRiverConfig(), manager, newRecordingSink())
	if err := sys.Rebuild(&River{Name: "r", RailName: "stub", RandomSeed: 1}); err == nil {
		t.Fatal("expected an error for a degenerate rail")
	}
}

func TestSystemRebuildsOnRailChange(t *testing.T) {
	sys, source, _ := testSystem()
	bus := event.NewBus()
	sys.Attach(bus)
	defer sys.Detach()

	if err := sys.Add(&River{Name: "r", RailName: "loop", RandomSeed: 1}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	before := source.calls

	bus.Publish(event.RailChanged{Name: "loop"})
	if source.calls != before+1 {
		t.Errorf("rail change triggered %d rebuilds, want 1", source.calls-before)
	}

	sys.Detach()
	bus.Publish(event.RailChanged{Name: "loop"})
	if source.calls != before+1 {
		t.Error("detached system still rebuilt on rail change")
	}
}

func TestRecordsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rivers.yaml")
	rivers := []*River{
		{Name: "amazon", RailName: "loop", RandomSeed: 42},
		{Name: "nile", RailName: "delta", RandomSeed: -7},
	}

	if err := SaveRecords(path, rivers); err != nil {
		t.Fatalf("SaveRecords: %v", err)
	}
	loaded, err := LoadRecords(path)
	if err != nil {
		t.Fatalf("LoadRecords: %v", err)
	}

	if len(loaded) != len(rivers) {
		t.Fatalf("loaded %d rivers, want %d", len(loaded), len(rivers))
	}
	for i := range rivers {
		if *loaded[i] != *rivers[i] {
			t.Errorf("river %d = %+v, want %+v", i, *loaded[i], *rivers[i])
		}
	}
}

func TestLoadRecordsMissingFile(t *testing.T) {
	if _, err := LoadRecords(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected an error for a missing records file")
	}
}
