// Package geometry holds the shared mesh buffer layout and the
// attribute passes that run over finished buffers before upload.
package geometry

// Vertex is the fixed vertex layout shared by the generator and the
// renderer: position, texture coordinate, normal, and tangent with the
// bitangent handedness in W.
type Vertex struct {
	Position [3]float32
	TexCoord [2]float32
	Normal   [3]float32
	Tangent  [4]float32
}

// MeshBuffers holds one triangle-list mesh. Indices are 16-bit, which
// caps a single mesh at 65536 vertices.
type MeshBuffers struct {
	Vertices []Vertex
	Indices  []uint16
}
