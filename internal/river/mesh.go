package river

import (
	"fmt"
	"math/rand"

	"github.com/Faultbox/rivergen/internal/config"
	"github.com/Faultbox/rivergen/internal/engine/geometry"
	"github.com/Faultbox/rivergen/pkg/math"
)

const indicesPerQuad = 6

// cornerEpsilon is the forward nudge applied when a randomized vertex
// would land behind its predecessor on the inside of a tight corner.
const cornerEpsilon = 0.000001

// worldUp is the up axis of the generator's coordinate convention:
// rails live in the XY ground plane, Z is up.
var worldUp = math.Vec3{Z: 1}

var (
	placeholderNormal  = [3]float32{0, 1, 0}
	placeholderTangent = [4]float32{1, 0, 0, 1}
)

// Build assembles the river-surface and bank meshes for one sampled
// rail. track is a closed loop: the point after the last wraps to the
// first. The returned buffers carry placeholder normals/tangents; the
// bank mesh is expected to go through the normal/tangent pass before
// rendering.
//
// Build is deterministic: the same track, config, and seed always
// produce bit-identical buffers. It panics if the bank configuration
// violates its invariants (fewer than 2 contours, river index without
// a contour to its right) or if the assembled buffer sizes disagree
// with the segment/contour counts, both of which are defects rather
// than runtime conditions.
func Build(track []math.Vec3, cfg *config.RiverConfig, seed int64) (riverMesh, bankMesh *geometry.MeshBuffers) {
	segmentCount := len(track)
	numContours := len(cfg.Banks)
	riverIdx := cfg.RiverIndex

	if numContours < 2 || riverIdx < 0 || riverIdx >= numContours-1 {
		panic(fmt.Sprintf("river: invalid bank configuration: %d contours, river index %d", numContours, riverIdx))
	}
	if segmentCount < 2 {
		panic(fmt.Sprintf("river: track needs at least 2 samples, got %d", segmentCount))
	}

	riverVertMax := 2 * segmentCount
	riverIndexMax := indicesPerQuad * (segmentCount - 1)
	bankVertMax := numContours * segmentCount
	bankIndexMax := indicesPerQuad * (segmentCount - 1) * (numContours - 2)

	riverVerts := make([]geometry.Vertex, 0, riverVertMax)
	riverIndices := make([]uint16, 0, riverIndexMax)
	bankVerts := make([]geometry.Vertex, 0, bankVertMax)
	bankIndices := make([]uint16, 0, bankIndexMax)

	// The random stream is local to this call; reruns with the same
	// seed reproduce the mesh exactly.
	rng := rand.New(rand.NewSource(seed))
	sampler := NewSampler(cfg.Banks)
	offsets := make([]Offset, numContours)

	for i := 0; i < segmentCount; i++ {
		prev := i - 1
		if i == 0 {
			prev = segmentCount - 1
		}

		trackDelta := track[i].Sub(track[prev])
		trackNormal := trackDelta.Cross(worldUp).Normalize()
		trackPosition := track[i].Add(worldUp.Scale(cfg.TrackHeight))

		// The river texture tiles along the full course of the loop.
		textureV := cfg.TextureTiles * float32(i) / float32(segmentCount)

		sampler.Sample(rng, offsets)

		for j := 0; j < numContours; j++ {
			off := offsets[j]
			pos := trackPosition.
				Add(trackNormal.Scale(off.Side)).
				Add(worldUp.Scale(off.Up))

			// The bank texture stretches from the river edge to the outer
			// edge of whichever side this contour is on. A bank span whose
			// sampled width collapses to zero is an authoring error; the
			// division is not guarded.
			bankStart, bankEnd := riverIdx+1, numContours-1
			if j <= riverIdx {
				bankStart, bankEnd = 0, riverIdx
			}
			bankWidth := offsets[bankStart].Side - offsets[bankEnd].Side
			textureU := (off.Side - offsets[bankEnd].Side) / bankWidth

			bankVerts = append(bankVerts, geometry.Vertex{
				Position: [3]float32{pos.X, pos.Y, pos.Z},
				TexCoord: [2]float32{textureU, textureV},
				Normal:   placeholderNormal,
				Tangent:  placeholderTangent,
			})
		}

		// Keep vertices from sliding behind the previous ring on the
		// inside of tight corners: clamp offenders to an epsilon step
		// past their predecessor along the track direction.
		if i > 0 {
			prevRing := bankVerts[len(bankVerts)-2*numContours : len(bankVerts)-numContours]
			curRing := bankVerts[len(bankVerts)-numContours:]
			for j := 0; j < numContours; j++ {
				cur := toVec3(curRing[j].Position)
				prevPos := toVec3(prevRing[j].Position)
				if cur.Sub(prevPos).Dot(trackDelta) <= 0 {
					nudged := prevPos.Add(trackDelta.Scale(cornerEpsilon))
					curRing[j].Position = [3]float32{nudged.X, nudged.Y, nudged.Z}
				}
			}
		}

		// Close the seam: the last ring reuses the first ring's
		// positions so the loop joins without a crack even though both
		// ends drew independent offsets.
		if i == segmentCount-1 {
			lastRing := bankVerts[len(bankVerts)-numContours:]
			for j := 0; j < numContours; j++ {
				lastRing[j].Position = bankVerts[j].Position
			}
		}

		// The river reuses the two contours flanking the water, with U
		// pinned to the texture edges regardless of world width.
		edge := len(bankVerts) - numContours + riverIdx
		left := bankVerts[edge]
		left.TexCoord = [2]float32{0, textureV}
		right := bankVerts[edge+1]
		right.TexCoord = [2]float32{1, textureV}
		riverVerts = append(riverVerts, left, right)
	}

	// Stitch consecutive rings into quads. The wrap seam carries no
	// quad of its own; its geometry is shared through the seam closure
	// above.
	for i := 0; i < segmentCount-1; i++ {
		riverIndices = appendQuad(riverIndices, 2*i, 0, 2)

		for j := 0; j < numContours-1; j++ {
			if j == riverIdx {
				// The water fills this gap; no bank geometry here.
				continue
			}
			bankIndices = appendQuad(bankIndices, i*numContours, j, numContours+j)
		}
	}

	if len(riverVerts) != riverVertMax || len(riverIndices) != riverIndexMax ||
		len(bankVerts) != bankVertMax || len(bankIndices) != bankIndexMax {
		panic(fmt.Sprintf("river: assembled %d/%d river and %d/%d bank elements, want %d/%d and %d/%d",
			len(riverVerts), len(riverIndices), len(bankVerts), len(bankIndices),
			riverVertMax, riverIndexMax, bankVertMax, bankIndexMax))
	}

	riverMesh = &geometry.MeshBuffers{Vertices: riverVerts, Indices: riverIndices}
	bankMesh = &geometry.MeshBuffers{Vertices: bankVerts, Indices: bankIndices}
	return riverMesh, bankMesh
}

// appendQuad stitches one quad between two vertex rows as two
// triangles: (a, a+1, b) and (b, a+1, b+1), where a = base+off1 and
// b = base+off2.
func appendQuad(indices []uint16, base, off1, off2 int) []uint16 {
	a := uint16(base + off1)
	b := uint16(base + off2)
	return append(indices,
		a, a+1, b,
		b, a+1, b+1,
	)
}

func toVec3(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}
