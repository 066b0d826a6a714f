package building

import (
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/wrecker/parameter"
)

// Perlin octave settings for district noise
const (
	noiseAlpha   = 2.0
	noiseBeta    = 2.0
	noiseOctaves = 3
)

// Plot is one planned building
type Plot struct {
	Origin    mgl32.Vec3
	Archetype Archetype
}

// Layout scatters buildings over a square city area. Positions come from the
// rng; the archetype of each plot comes from low-frequency noise so similar
// buildings cluster into districts
type Layout struct {
	noise  *perlin.Perlin
	rng    Rand
	extent float32
	scale  float64
}

// NewLayout creates a layout with a noise field seeded by seed
func NewLayout(seed int64, rng Rand) *Layout {
	return &Layout{
		noise:  perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, seed),
		rng:    rng,
		extent: parameter.CityHalfExtent,
		scale:  parameter.DistrictScale,
	}
}

// Plan returns count plots drawn from the allowed archetypes
// An empty allowed set falls back to houses and apartment blocks
func (l *Layout) Plan(count int, allowed []Archetype) []Plot {
	if len(allowed) == 0 {
		allowed = []Archetype{House, Building}
	}

	plots := make([]Plot, 0, count)
	for i := 0; i < count; i++ {
		x := float32(math.Round((l.rng.Float64() - 0.5) * 2 * float64(l.extent)))
		z := float32(math.Round((l.rng.Float64() - 0.5) * 2 * float64(l.extent)))
		plots = append(plots, Plot{
			Origin:    mgl32.Vec3{x, 0, z},
			Archetype: l.District(x, z, allowed),
		})
	}
	return plots
}

// District picks the archetype for a plot at (x, z)
func (l *Layout) District(x, z float32, allowed []Archetype) Archetype {
	n := l.noise.Noise2D(float64(x)*l.scale, float64(z)*l.scale)
	// Noise2D is roughly in [-1, 1]
	u := (n + 1) / 2
	idx := int(u * float64(len(allowed)))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(allowed) {
		idx = len(allowed) - 1
	}
	return allowed[idx]
}
