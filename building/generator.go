package building

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/wrecker/component"
	"github.com/lixenwraith/wrecker/parameter"
)

const (
	// infillChance admits interior lattice points so buildings are hollow but not empty
	infillChance = 0.1
	// windowChance recolors an above-ground shell voxel with the theme window color
	windowChance = 0.4
	// floorEvery marks every n-th row as a solid floor slab
	floorEvery = 4
)

// Rand is the subset of *rand.Rand the generator draws from
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// isShell reports whether a lattice point is always emitted
func isShell(d Dims, x, y, z int) (shell, edge bool) {
	edge = x == 0 || x == d.W-1 || z == 0 || z == d.D-1
	floor := y%floorEvery == 0
	return edge || floor, edge
}

// Generate emits the voxels of one building with its lattice corner at origin
// Deterministic for a given rng sequence; registers nothing
func Generate(origin mgl32.Vec3, arch Archetype, theme Theme, rng Rand) []component.VoxelDescriptor {
	d := arch.Dims()
	if d.Volume() == 0 {
		return nil
	}
	if len(theme.Palette) == 0 {
		theme = DefaultTheme()
	}

	out := make([]component.VoxelDescriptor, 0, d.Volume())
	for y := 0; y < d.H; y++ {
		for x := 0; x < d.W; x++ {
			for z := 0; z < d.D; z++ {
				shell, edge := isShell(d, x, y, z)
				if !shell && rng.Float64() >= infillChance {
					continue
				}

				desc := component.VoxelDescriptor{
					Position: origin.Add(mgl32.Vec3{
						float32(x) * parameter.VoxelSize,
						(0.5 + float32(y)) * parameter.VoxelSize,
						float32(z) * parameter.VoxelSize,
					}),
				}

				if arch == GasStation {
					if y%2 == 0 {
						desc.Color = component.ColorHazardRed
					} else {
						desc.Color = component.ColorWhite
					}
					desc.Explosive = y == 0
				} else {
					desc.Color = theme.Palette[rng.Intn(len(theme.Palette))]
					if edge && y > 0 && rng.Float64() < windowChance {
						desc.Color = theme.Window
					}
				}

				out = append(out, desc)
			}
		}
	}
	return out
}

// ShellCount is the number of voxels every Generate call for arch emits
// regardless of rng: the lower bound of its output size
func ShellCount(arch Archetype) int {
	d := arch.Dims()
	n := 0
	for y := 0; y < d.H; y++ {
		for x := 0; x < d.W; x++ {
			for z := 0; z < d.D; z++ {
				if shell, _ := isShell(d, x, y, z); shell {
					n++
				}
			}
		}
	}
	return n
}
