// Package physics defines the capability surface the destruction engine needs
// from a rigid body simulator, and a small box-only backend implementing it
package physics

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrInvalidConfig is returned by Open when the backend configuration cannot be simulated
var ErrInvalidConfig = errors.New("physics: invalid config")

// BodyID is a generational body handle
// Low 32 bits: slot + 1, high 32 bits: generation. Zero is never a live body
type BodyID uint64

// InvalidBody is the zero handle
const InvalidBody BodyID = 0

func makeBodyID(slot, gen uint32) BodyID {
	return BodyID(uint64(gen)<<32 | uint64(slot+1))
}

func (id BodyID) slot() uint32 { return uint32(id&0xFFFFFFFF) - 1 }
func (id BodyID) gen() uint32  { return uint32(id >> 32) }

// Valid reports whether the handle is non-zero; it says nothing about liveness
func (id BodyID) Valid() bool { return id&0xFFFFFFFF != 0 }

// Bridge is the narrow set of physics capabilities the engine drives
// Handles are exclusively owned by their creator. RemoveBody on a stale or
// already removed handle is a no-op, as are all other calls on stale handles
type Bridge interface {
	// CreateRigidBody adds a body at pos; static bodies never integrate
	CreateRigidBody(pos mgl32.Vec3, dynamic bool) BodyID

	// CreateBoxCollider attaches an axis-aligned box with the given half extents
	CreateBoxCollider(body BodyID, halfExtents mgl32.Vec3)

	// RemoveBody destroys the body; idempotent
	RemoveBody(body BodyID)

	// ApplyImpulse changes velocity by impulse/mass and wakes the body
	ApplyImpulse(body BodyID, impulse mgl32.Vec3)

	WakeUp(body BodyID)
	Position(body BodyID) mgl32.Vec3
	Rotation(body BodyID) mgl32.Quat
	IsSleeping(body BodyID) bool

	// Step advances the simulation by one fixed internal timestep
	Step()

	// Timestep returns the fixed internal step length in seconds
	Timestep() float32

	// CreateGround installs the static ground plane; idempotent
	CreateGround()

	// BodyCount returns the number of live bodies
	BodyCount() int
}
