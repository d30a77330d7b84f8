package geometry

import (
	gomath "math"
	"testing"
)

// flat unit quad in the XY plane with standard UVs.
func flatQuad() *MeshBuffers {
	return &MeshBuffers{
		Vertices: []Vertex{
			{Position: [3]float32{0, 0, 0}, TexCoord: [2]float32{0, 0}},
			{Position: [3]float32{1, 0, 0}, TexCoord: [2]float32{1, 0}},
			{Position: [3]float32{0, 1, 0}, TexCoord: [2]float32{0, 1}},
			{Position: [3]float32{1, 1, 0}, TexCoord: [2]float32{1, 1}},
		},
		Indices: []uint16{0, 1, 2, 2, 1, 3},
	}
}

func approxEq(a, b float32) bool {
	return gomath.Abs(float64(a-b)) < 1e-4
}

func TestFlatQuadNormalsPointUp(t *testing.T) {
	m := flatQuad()
	ComputeNormalsTangents(m)

	for i, v := range m.Vertices {
		if !approxEq(v.Normal[0], 0) || !approxEq(v.Normal[1], 0) || !approxEq(v.Normal[2], 1) {
			t.Errorf("vertex %d normal = %v, want (0, 0, 1)", i, v.Normal)
		}
	}
}

func TestFlatQuadTangentsFollowU(t *testing.T) {
	m := flatQuad()
	ComputeNormalsTangents(m)

	for i, v := range m.Vertices {
		if !approxEq(v.Tangent[0], 1) || !approxEq(v.Tangent[1], 0) || !approxEq(v.Tangent[2], 0) {
			t.Errorf("vertex %d tangent = %v, want +X", i, v.Tangent)
		}
		if v.Tangent[3] != 1 {
			t.Errorf("vertex %d handedness = %v, want +1", i, v.Tangent[3])
		}
	}
}

func TestMirroredUVsFlipHandedness(t *testing.T) {
	m := flatQuad()
	// Mirror U so the bitangent flips relative to the winding.
	for i := range m.Vertices {
		m.Vertices[i].TexCoord[0] = 1 - m.Vertices[i].TexCoord[0]
	}
	ComputeNormalsTangents(m)

	for i, v := range m.Vertices {
		if v.Tangent[3] != -1 {
			t.Errorf("vertex %d handedness = %v, want -1 for mirrored UVs", i, v.Tangent[3])
		}
	}
}

func TestSharedVertexNormalIsAveraged(t *testing.T) {
	// Two triangles folded along the Y axis at 90 degrees: one facing
	// +Z, one facing +X. The shared edge vertices average both.
	m := &MeshBuffers{
		Vertices: []Vertex{
			{Position: [3]float32{-1, 0, 0}, TexCoord: [2]float32{0, 0}},
			{Position: [3]float32{0, 0, 0}, TexCoord: [2]float32{0.5, 0}},
			{Position: [3]float32{0, 1, 0}, TexCoord: [2]float32{0.5, 1}},
			{Position: [3]float32{0, 0, -1}, TexCoord: [2]float32{1, 0}},
		},
		Indices: []uint16{
			0, 1, 2, // +Z face
			1, 3, 2, // +X face
		},
	}
	ComputeNormalsTangents(m)

	shared := m.Vertices[1].Normal
	want := float32(gomath.Sqrt(0.5))
	if !approxEq(shared[0], want) || !approxEq(shared[2], want) || !approxEq(shared[1], 0) {
		t.Errorf("shared normal = %v, want (%v, 0, %v)", shared, want, want)
	}
}

func TestDegenerateUVsDoNotPanic(t *testing.T) {
	m := flatQuad()
	for i := range m.Vertices {
		m.Vertices[i].TexCoord = [2]float32{0.5, 0.5}
	}
	ComputeNormalsTangents(m) // zero UV determinant must be skipped, not divide
}
