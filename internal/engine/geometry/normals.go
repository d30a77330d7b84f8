package geometry

import (
	"github.com/Faultbox/rivergen/pkg/math"
)

// ComputeNormalsTangents replaces the placeholder normal and tangent of
// every vertex with values accumulated over the triangles that share
// it. Normals are area weighted. Tangents follow the texture U
// direction with the bitangent handedness stored in W; they are
// Gram-Schmidt orthogonalized against the final normal. Triangles with
// degenerate UV area contribute nothing to the tangent accumulation.
func ComputeNormalsTangents(m *MeshBuffers) {
	normals := make([]math.Vec3, len(m.Vertices))
	tangents := make([]math.Vec3, len(m.Vertices))
	bitangents := make([]math.Vec3, len(m.Vertices))

	for i := 0; i+2 < len(m.Indices); i += 3 {
		i0 := m.Indices[i]
		i1 := m.Indices[i+1]
		i2 := m.Indices[i+2]

		p0 := toVec3(m.Vertices[i0].Position)
		p1 := toVec3(m.Vertices[i1].Position)
		p2 := toVec3(m.Vertices[i2].Position)

		e1 := p1.Sub(p0)
		e2 := p2.Sub(p0)

		// Unnormalized cross product: length is twice the triangle area,
		// so larger triangles weigh more in the average.
		faceNormal := e1.Cross(e2)
		normals[i0] = normals[i0].Add(faceNormal)
		normals[i1] = normals[i1].Add(faceNormal)
		normals[i2] = normals[i2].Add(faceNormal)

		du1 := m.Vertices[i1].TexCoord[0] - m.Vertices[i0].TexCoord[0]
		dv1 := m.Vertices[i1].TexCoord[1] - m.Vertices[i0].TexCoord[1]
		du2 := m.Vertices[i2].TexCoord[0] - m.Vertices[i0].TexCoord[0]
		dv2 := m.Vertices[i2].TexCoord[1] - m.Vertices[i0].TexCoord[1]

		det := du1*dv2 - du2*dv1
		if det == 0 {
			continue
		}
		r := 1.0 / det

		tangent := e1.Scale(dv2).Sub(e2.Scale(dv1)).Scale(r)
		bitangent := e2.Scale(du1).Sub(e1.Scale(du2)).Scale(r)

		for _, idx := range [3]uint16{i0, i1, i2} {
			tangents[idx] = tangents[idx].Add(tangent)
			bitangents[idx] = bitangents[idx].Add(bitangent)
		}
	}

	for i := range m.Vertices {
		n := normals[i].Normalize()
		m.Vertices[i].Normal = [3]float32{n.X, n.Y, n.Z}

		t := tangents[i]
		// Orthogonalize against the averaged normal.
		t = t.Sub(n.Scale(n.Dot(t))).Normalize()

		w := float32(1)
		if n.Cross(t).Dot(bitangents[i]) < 0 {
			w = -1
		}
		m.Vertices[i].Tangent = [4]float32{t.X, t.Y, t.Z, w}
	}
}

func toVec3(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}
