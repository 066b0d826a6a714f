package engine

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/wrecker/component"
	"github.com/lixenwraith/wrecker/parameter"
	"github.com/lixenwraith/wrecker/physics"
)

// ActivationPolicy lazily materializes physics bodies for disturbed voxels
// Body count tracks destroyed area, not city size
type ActivationPolicy struct {
	store     *VoxelStore
	bridge    physics.Bridge
	metrics   *Metrics
	maxActive int
	active    int
	refused   int
	half      mgl32.Vec3
}

// NewActivationPolicy creates a policy with a soft cap of maxActive bodies
func NewActivationPolicy(store *VoxelStore, bridge physics.Bridge, maxActive int, metrics *Metrics) *ActivationPolicy {
	h := float32(parameter.VoxelSize / 2)
	return &ActivationPolicy{
		store:     store,
		bridge:    bridge,
		metrics:   metrics,
		maxActive: maxActive,
		half:      mgl32.Vec3{h, h, h},
	}
}

// Activate gives a Dormant voxel a dynamic body at its last known position
// Returns false for non-Dormant voxels and when the soft cap is reached; a
// refused voxel stays Dormant and may be activated by a later disturbance
func (a *ActivationPolicy) Activate(idx int) bool {
	v := a.store.At(idx)
	if v == nil || v.State != component.StateDormant {
		return false
	}
	if a.active >= a.maxActive {
		a.refused++
		if a.metrics != nil {
			a.metrics.ActivationsRefused.Inc()
		}
		return false
	}

	v.Body = a.bridge.CreateRigidBody(v.Position, true)
	a.bridge.CreateBoxCollider(v.Body, a.half)
	v.State = component.StateActive
	a.active++
	a.publish()
	return true
}

// Retire moves a voxel to Removed and destroys its body if it has one
// Only the destruction engine and level teardown call this
func (a *ActivationPolicy) Retire(idx int) {
	v := a.store.At(idx)
	if v == nil || v.State == component.StateRemoved {
		return
	}
	if v.State == component.StateActive {
		a.bridge.RemoveBody(v.Body)
		v.Body = physics.InvalidBody
		a.active--
		a.publish()
	}
	v.State = component.StateRemoved
}

// ActiveCount is the number of voxels holding a body
func (a *ActivationPolicy) ActiveCount() int { return a.active }

// Refused is the number of activations turned down by the cap since Reset
func (a *ActivationPolicy) Refused() int { return a.refused }

// Reset zeroes counters after teardown
func (a *ActivationPolicy) Reset() {
	a.active = 0
	a.refused = 0
	a.publish()
}

func (a *ActivationPolicy) publish() {
	if a.metrics != nil {
		a.metrics.ActiveBodies.Set(float64(a.active))
	}
}
