// Package river generates the river-surface and bank meshes for a
// named rail. The assembler walks the sampled rail once, placing one
// randomized cross-section of bank contours per path point, and
// stitches the rings into two triangle-list meshes.
package river

import (
	"math/rand"

	"github.com/Faultbox/rivergen/internal/config"
	"github.com/Faultbox/rivergen/pkg/math"
)

// Offset is one contour's sampled cross-section displacement: Side
// along the track normal, Up along the world up axis.
type Offset struct {
	Side float32
	Up   float32
}

// Sampler draws per-contour offsets from the configured bank ranges.
// Each call draws two uniform variates per contour from the passed
// generator, so a fixed seed reproduces the exact offset sequence.
type Sampler struct {
	banks []config.BankContour
}

// NewSampler creates a sampler over the given contour ranges. Ranges
// with min > max are an authoring error and are not guarded.
func NewSampler(banks []config.BankContour) *Sampler {
	return &Sampler{banks: banks}
}

// Sample fills dst with one freshly drawn offset per contour.
// len(dst) must equal the contour count.
func (s *Sampler) Sample(rng *rand.Rand, dst []Offset) {
	for i, b := range s.banks {
		dst[i] = Offset{
			Side: math.Lerp(b.XMin, b.XMax, rng.Float32()),
			Up:   math.Lerp(b.ZMin, b.ZMax, rng.Float32()),
		}
	}
}
