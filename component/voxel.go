package component

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/wrecker/physics"
)

// PhysicsState is the voxel lifecycle tag
// Transitions are one-way: Dormant -> Active -> Removed, or Dormant -> Removed
type PhysicsState uint8

const (
	// StateDormant voxels are static scenery with no physics body
	StateDormant PhysicsState = iota
	// StateActive voxels own exactly one dynamic body
	StateActive
	// StateRemoved voxels are hidden and own nothing
	StateRemoved
)

func (s PhysicsState) String() string {
	switch s {
	case StateDormant:
		return "dormant"
	case StateActive:
		return "active"
	case StateRemoved:
		return "removed"
	}
	return "unknown"
}

// Voxel is one destructible cube, addressed by its stable index in the store
type Voxel struct {
	// Position is authoritative while Dormant, mirrored from the body while Active
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Color    Color

	State PhysicsState
	Body  physics.BodyID // valid iff State == StateActive

	// Scored latches false -> true once; guards point awards
	Scored bool

	// Explosive voxels detonate at most once, Exploded is the latch
	Explosive bool
	Exploded  bool
}

// Active reports whether the voxel still participates in the level
func (v *Voxel) Active() bool { return v.State != StateRemoved }

// HasPhysics reports whether the voxel owns a live body
func (v *Voxel) HasPhysics() bool { return v.State == StateActive }

// VoxelDescriptor is what a building generator emits; the store turns it into a Voxel
type VoxelDescriptor struct {
	Position  mgl32.Vec3
	Color     Color
	Explosive bool
}

// NewVoxel builds a Dormant voxel from its descriptor
func NewVoxel(d VoxelDescriptor) Voxel {
	return Voxel{
		Position:  d.Position,
		Rotation:  mgl32.QuatIdent(),
		Color:     d.Color,
		State:     StateDormant,
		Explosive: d.Explosive,
	}
}
