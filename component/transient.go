package component

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/wrecker/physics"
)

// ProjectileComponent is an in-flight shot; it detonates on first contact or when Life runs out
type ProjectileComponent struct {
	Body   physics.BodyID
	Tool   string
	Force  float32
	Radius float32
	Life   float32 // seconds remaining
	Spent  bool
}

// BlackHoleComponent pulls voxels toward Center until Life runs out
type BlackHoleComponent struct {
	Center mgl32.Vec3
	Radius float32
	Force  float32
	Life   float32
}

// ChainCharge is a pending secondary detonation owned by the chain schedule
type ChainCharge struct {
	Voxel     int     // store index of the explosive voxel
	Remaining float32 // seconds until detonation
	Force     float32
	Radius    float32
}
