// Package rail provides named closed-loop splines and their sampling.
// A rail is the 1D path a river follows; the generator only ever sees
// the sampled point sequence, never the control nodes.
package rail

import (
	gomath "math"

	"github.com/Faultbox/rivergen/pkg/math"
)

// Rail is a closed loop of 3D control nodes. The loop runs through the
// nodes in order and wraps from the last node back to the first.
type Rail struct {
	Name  string
	Nodes []math.Vec3
}

// Positions samples the loop as a Catmull-Rom spline at roughly the
// given spacing and returns the ordered point sequence. The sequence is
// a closed loop: the point after the last wraps to the first, which is
// not repeated. A rail with fewer than three nodes is returned as-is.
func (r *Rail) Positions(step float32) []math.Vec3 {
	n := len(r.Nodes)
	if n < 3 {
		out := make([]math.Vec3, n)
		copy(out, r.Nodes)
		return out
	}

	var total float32
	for i := 0; i < n; i++ {
		total += r.Nodes[i].Distance(r.Nodes[(i+1)%n])
	}

	count := int(total / step)
	if count < n {
		count = n
	}

	out := make([]math.Vec3, 0, count)
	for s := 0; s < count; s++ {
		t := float32(s) / float32(count) * float32(n)
		seg := int(t)
		lt := t - float32(seg)

		p0 := r.Nodes[(seg-1+n)%n]
		p1 := r.Nodes[seg%n]
		p2 := r.Nodes[(seg+1)%n]
		p3 := r.Nodes[(seg+2)%n]

		out = append(out, catmullRom(p0, p1, p2, p3, lt))
	}
	return out
}

// catmullRom evaluates the uniform Catmull-Rom segment from p1 to p2
// at local parameter t in [0,1].
func catmullRom(p0, p1, p2, p3 math.Vec3, t float32) math.Vec3 {
	t2 := t * t
	t3 := t2 * t

	a := p1.Scale(2)
	b := p2.Sub(p0).Scale(t)
	c := p0.Scale(2).Sub(p1.Scale(5)).Add(p2.Scale(4)).Sub(p3).Scale(t2)
	d := p1.Scale(3).Sub(p2.Scale(3)).Add(p3).Sub(p0).Scale(t3)

	return a.Add(b).Add(c).Add(d).Scale(0.5)
}

// Circle builds a circular rail in the XY ground plane, useful as a
// starting point for editing and for tests.
func Circle(name string, radius float32, nodeCount int) *Rail {
	nodes := make([]math.Vec3, nodeCount)
	for i := range nodes {
		angle := 2 * gomath.Pi * float64(i) / float64(nodeCount)
		nodes[i] = math.Vec3{
			X: radius * float32(gomath.Cos(angle)),
			Y: radius * float32(gomath.Sin(angle)),
		}
	}
	return &Rail{Name: name, Nodes: nodes}
}
