package building

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lixenwraith/wrecker/parameter"
)

func TestLayoutPlan(t *testing.T) {
	allowed := []Archetype{House, Factory, GasStation}
	l := NewLayout(42, rand.New(rand.NewSource(7)))

	plots := l.Plan(12, allowed)
	assert.Len(t, plots, 12)

	for _, p := range plots {
		assert.Contains(t, allowed, p.Archetype)
		assert.LessOrEqual(t, p.Origin.X(), float32(parameter.CityHalfExtent))
		assert.GreaterOrEqual(t, p.Origin.X(), float32(-parameter.CityHalfExtent))
		assert.LessOrEqual(t, p.Origin.Z(), float32(parameter.CityHalfExtent))
		assert.GreaterOrEqual(t, p.Origin.Z(), float32(-parameter.CityHalfExtent))
		assert.Zero(t, p.Origin.Y())
	}
}

func TestLayoutDeterministic(t *testing.T) {
	a := NewLayout(3, rand.New(rand.NewSource(11))).Plan(8, nil)
	b := NewLayout(3, rand.New(rand.NewSource(11))).Plan(8, nil)
	assert.Equal(t, a, b)
}

func TestLayoutDefaultArchetypes(t *testing.T) {
	plots := NewLayout(1, rand.New(rand.NewSource(1))).Plan(20, nil)
	for _, p := range plots {
		assert.Contains(t, []Archetype{House, Building}, p.Archetype)
	}
}

func TestThemeByName(t *testing.T) {
	th, ok := ThemeByName("industrial")
	assert.True(t, ok)
	assert.Equal(t, "INDUSTRIAL", th.Name)
	assert.NotEmpty(t, th.Palette)

	_, ok = ThemeByName("CYBERPUNK")
	assert.False(t, ok)
}
