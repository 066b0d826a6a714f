package engine

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/wrecker/component"
	"github.com/lixenwraith/wrecker/parameter"
	"github.com/lixenwraith/wrecker/physics"
)

// contactSlop widens the per-axis overlap test so a fast shot does not tunnel
// through a voxel between two polls
const contactSlop = 0.1

// Transients owns projectiles and black holes for the running level
type Transients struct {
	store   *VoxelStore
	bridge  physics.Bridge
	destroy *DestructionEngine

	projectiles []component.ProjectileComponent
	blackHoles  []component.BlackHoleComponent

	projHalf  float32
	voxelHalf float32
	groundY   float32
}

func NewTransients(store *VoxelStore, bridge physics.Bridge, destroy *DestructionEngine) *Transients {
	return &Transients{
		store:     store,
		bridge:    bridge,
		destroy:   destroy,
		projHalf:  parameter.ProjectileHalfSize,
		voxelHalf: parameter.VoxelSize / 2,
		groundY:   parameter.GroundY,
	}
}

// Launch spawns a projectile at origin moving toward target
func (t *Transients) Launch(tool string, origin, target mgl32.Vec3, force, radius float32) {
	dir := target.Sub(origin)
	if dir.Len() < 1e-6 {
		dir = mgl32.Vec3{0, -1, 0}
	}
	dir = dir.Normalize()

	spawn := origin.Add(dir.Mul(parameter.ProjectileSpawnOffset))
	body := t.bridge.CreateRigidBody(spawn, true)
	t.bridge.CreateBoxCollider(body, mgl32.Vec3{t.projHalf, t.projHalf, t.projHalf})
	t.bridge.ApplyImpulse(body, dir.Mul(parameter.ProjectileSpeed))

	t.projectiles = append(t.projectiles, component.ProjectileComponent{
		Body:   body,
		Tool:   tool,
		Force:  force,
		Radius: radius,
		Life:   parameter.ProjectileLife,
	})
}

// SpawnBlackHole adds a black hole at center
func (t *Transients) SpawnBlackHole(center mgl32.Vec3, radius, force, life float32) {
	t.blackHoles = append(t.blackHoles, component.BlackHoleComponent{
		Center: center,
		Radius: radius,
		Force:  force,
		Life:   life,
	})
}

// UpdateProjectiles polls every projectile for contact and detonates the ones
// that hit; a projectile whose life runs out is removed without exploding
// Returns the number detonated
func (t *Transients) UpdateProjectiles(dt float32) int {
	hits := 0
	kept := t.projectiles[:0]
	for _, p := range t.projectiles {
		p.Life -= dt
		pos := t.bridge.Position(p.Body)

		if t.touching(pos) {
			t.bridge.RemoveBody(p.Body)
			t.destroy.Explode(pos, p.Force, p.Radius, false)
			hits++
			continue
		}
		if p.Life <= 0 {
			t.bridge.RemoveBody(p.Body)
			continue
		}
		kept = append(kept, p)
	}
	clear(t.projectiles[len(kept):])
	t.projectiles = kept
	return hits
}

// touching reports ground contact or a box overlap with any live voxel
func (t *Transients) touching(pos mgl32.Vec3) bool {
	if pos.Y() <= t.groundY+t.projHalf+contactSlop {
		return true
	}
	reach := t.projHalf + t.voxelHalf + contactSlop
	for i := 0; i < t.store.Len(); i++ {
		v := t.store.At(i)
		if !v.Active() {
			continue
		}
		vp := v.Position
		if v.HasPhysics() {
			vp = t.bridge.Position(v.Body)
		}
		d := pos.Sub(vp)
		if abs32(d.X()) < reach && abs32(d.Y()) < reach && abs32(d.Z()) < reach {
			return true
		}
	}
	return false
}

// UpdateBlackHoles applies every black hole's pull and expires spent ones
// Returns the number of voxels captured
func (t *Transients) UpdateBlackHoles(dt float32) int {
	captured := 0
	kept := t.blackHoles[:0]
	for _, bh := range t.blackHoles {
		captured += t.destroy.ApplyBlackHole(bh.Center, bh.Radius, bh.Force, dt)
		bh.Life -= dt
		if bh.Life > 0 {
			kept = append(kept, bh)
		}
	}
	t.blackHoles = kept
	return captured
}

func (t *Transients) Projectiles() int { return len(t.projectiles) }
func (t *Transients) BlackHoles() int  { return len(t.blackHoles) }

// Clear removes every projectile body and black hole, used at level teardown
func (t *Transients) Clear() {
	for _, p := range t.projectiles {
		t.bridge.RemoveBody(p.Body)
	}
	t.projectiles = t.projectiles[:0]
	t.blackHoles = t.blackHoles[:0]
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
