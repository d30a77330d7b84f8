// Package scene provides the 3D rendering of generated river meshes.
package scene

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/rivergen/internal/engine/geometry"
	"github.com/Faultbox/rivergen/internal/engine/scene/shaders"
	"github.com/Faultbox/rivergen/internal/engine/shader"
	"github.com/Faultbox/rivergen/pkg/math"
)

// waterShaderName selects the animated water program; every other
// shader name falls through to the opaque bank program.
const waterShaderName = "water"

type meshEntry struct {
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
	water      bool
}

// RiverRenderer uploads generated meshes to the GPU and draws them. It
// satisfies the river system's mesh sink; adding a mesh under an
// existing id replaces it in place.
type RiverRenderer struct {
	waterProgram uint32
	bankProgram  uint32

	locWaterViewProj int32
	locWaterTime     int32
	locBankViewProj  int32
	locBankLightDir  int32

	meshes map[string]*meshEntry

	// Bounds of everything uploaded, for camera fitting
	MinBounds math.Vec3
	MaxBounds math.Vec3
	hasBounds bool
}

// NewRiverRenderer compiles the river programs. Requires a current GL
// context.
func NewRiverRenderer() (*RiverRenderer, error) {
	r := &RiverRenderer{
		meshes: make(map[string]*meshEntry),
	}

	program, err := shader.CompileProgram(shaders.WaterVertexShader, shaders.WaterFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("water shader: %w", err)
	}
	r.waterProgram = program
	r.locWaterViewProj = shader.GetUniform(program, "uViewProj")
	r.locWaterTime = shader.GetUniform(program, "uTime")

	program, err = shader.CompileProgram(shaders.BankVertexShader, shaders.BankFragmentShader)
	if err != nil {
		r.Destroy()
		return nil, fmt.Errorf("bank shader: %w", err)
	}
	r.bankProgram = program
	r.locBankViewProj = shader.GetUniform(program, "uViewProj")
	r.locBankLightDir = shader.GetUniform(program, "uLightDir")

	return r, nil
}

// AddMesh uploads a mesh under the given id, replacing any previous
// upload with that id.
func (r *RiverRenderer) AddMesh(id string, m *geometry.MeshBuffers, material, shaderName string) error {
	if len(m.Vertices) == 0 || len(m.Indices) == 0 {
		return fmt.Errorf("mesh %s is empty", id)
	}

	entry, ok := r.meshes[id]
	if !ok {
		entry = &meshEntry{}
		gl.GenVertexArrays(1, &entry.vao)
		gl.GenBuffers(1, &entry.vbo)
		gl.GenBuffers(1, &entry.ebo)
		r.meshes[id] = entry
	}
	entry.water = shaderName == waterShaderName
	entry.indexCount = int32(len(m.Indices))

	gl.BindVertexArray(entry.vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, entry.vbo)
	vertexSize := int(unsafe.Sizeof(geometry.Vertex{}))
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*vertexSize, unsafe.Pointer(&m.Vertices[0]), gl.STATIC_DRAW)

	// Position (location 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, int32(vertexSize), 0)
	gl.EnableVertexAttribArray(0)

	// TexCoord (location 1)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, int32(vertexSize), 3*4)
	gl.EnableVertexAttribArray(1)

	// Normal (location 2)
	gl.VertexAttribPointerWithOffset(2, 3, gl.FLOAT, false, int32(vertexSize), 5*4)
	gl.EnableVertexAttribArray(2)

	// Tangent (location 3)
	gl.VertexAttribPointerWithOffset(3, 4, gl.FLOAT, false, int32(vertexSize), 8*4)
	gl.EnableVertexAttribArray(3)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, entry.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*2, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)

	r.growBounds(m)
	return nil
}

func (r *RiverRenderer) growBounds(m *geometry.MeshBuffers) {
	for _, v := range m.Vertices {
		p := math.Vec3{X: v.Position[0], Y: v.Position[1], Z: v.Position[2]}
		if !r.hasBounds {
			r.MinBounds, r.MaxBounds = p, p
			r.hasBounds = true
			continue
		}
		if p.X < r.MinBounds.X {
			r.MinBounds.X = p.X
		}
		if p.Y < r.MinBounds.Y {
			r.MinBounds.Y = p.Y
		}
		if p.Z < r.MinBounds.Z {
			r.MinBounds.Z = p.Z
		}
		if p.X > r.MaxBounds.X {
			r.MaxBounds.X = p.X
		}
		if p.Y > r.MaxBounds.Y {
			r.MaxBounds.Y = p.Y
		}
		if p.Z > r.MaxBounds.Z {
			r.MaxBounds.Z = p.Z
		}
	}
}

// Render draws all uploaded meshes: opaque banks first, then the
// blended water surfaces on top.
func (r *RiverRenderer) Render(viewProj math.Mat4, time float32) {
	gl.UseProgram(r.bankProgram)
	gl.UniformMatrix4fv(r.locBankViewProj, 1, false, &viewProj[0])
	gl.Uniform3f(r.locBankLightDir, -0.4, 0.3, -0.85)

	for _, entry := range r.meshes {
		if entry.water {
			continue
		}
		gl.BindVertexArray(entry.vao)
		gl.DrawElements(gl.TRIANGLES, entry.indexCount, gl.UNSIGNED_SHORT, nil)
	}

	gl.UseProgram(r.waterProgram)
	gl.UniformMatrix4fv(r.locWaterViewProj, 1, false, &viewProj[0])
	gl.Uniform1f(r.locWaterTime, time)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.DepthMask(false)

	for _, entry := range r.meshes {
		if !entry.water {
			continue
		}
		gl.BindVertexArray(entry.vao)
		gl.DrawElements(gl.TRIANGLES, entry.indexCount, gl.UNSIGNED_SHORT, nil)
	}

	gl.DepthMask(true)
	gl.Disable(gl.BLEND)
	gl.BindVertexArray(0)
}

// Destroy releases all GPU resources.
func (r *RiverRenderer) Destroy() {
	for _, entry := range r.meshes {
		gl.DeleteVertexArrays(1, &entry.vao)
		gl.DeleteBuffers(1, &entry.vbo)
		gl.DeleteBuffers(1, &entry.ebo)
	}
	r.meshes = make(map[string]*meshEntry)

	if r.waterProgram != 0 {
		gl.DeleteProgram(r.waterProgram)
		r.waterProgram = 0
	}
	if r.bankProgram != 0 {
		gl.DeleteProgram(r.bankProgram)
		r.bankProgram = 0
	}
}
