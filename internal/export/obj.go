// Package export writes generated meshes to Wavefront OBJ files for
// inspection in external tools.
package export

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/rivergen/internal/engine/geometry"
	"github.com/Faultbox/rivergen/internal/logger"
)

// OBJSink writes each mesh it receives as <id>.obj under Dir. It
// satisfies the river system's mesh sink.
type OBJSink struct {
	Dir string
}

// NewOBJSink creates a sink writing into dir, creating it if needed.
func NewOBJSink(dir string) (*OBJSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output dir %s: %w", dir, err)
	}
	return &OBJSink{Dir: dir}, nil
}

// AddMesh writes the mesh as an OBJ file named after its id. Writing
// the same id again overwrites the previous file.
func (s *OBJSink) AddMesh(id string, m *geometry.MeshBuffers, material, shader string) error {
	path := filepath.Join(s.Dir, id+".obj")

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "o %s\n", id)
	fmt.Fprintf(w, "usemtl %s\n", material)

	for _, v := range m.Vertices {
		fmt.Fprintf(w, "v %g %g %g\n", v.Position[0], v.Position[1], v.Position[2])
	}
	for _, v := range m.Vertices {
		fmt.Fprintf(w, "vt %g %g\n", v.TexCoord[0], v.TexCoord[1])
	}
	for _, v := range m.Vertices {
		fmt.Fprintf(w, "vn %g %g %g\n", v.Normal[0], v.Normal[1], v.Normal[2])
	}

	// OBJ indices are 1-based and reference all three attribute streams.
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i]+1, m.Indices[i+1]+1, m.Indices[i+2]+1
		fmt.Fprintf(w, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", a, a, a, b, b, b, c, c, c)
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	logger.Debug("wrote mesh",
		zap.String("path", path),
		zap.Int("vertices", len(m.Vertices)),
		zap.Int("triangles", len(m.Indices)/3),
	)
	return nil
}
