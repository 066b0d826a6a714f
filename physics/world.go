package physics

import (
	"context"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/lixenwraith/wrecker/parameter"
)

// Config tunes the box backend
type Config struct {
	Gravity        float32
	Timestep       float32
	SleepSpeed     float32
	SleepTime      float32
	LinearDamping  float32
	AngularDamping float32
	Restitution    float32
	Friction       float32
	GroundY        float32
	GroundExtent   float32 // half size of the square ground slab on X and Z
	CellSize       float32
}

// DefaultConfig returns the compiled-in tuning
func DefaultConfig() Config {
	return Config{
		Gravity:        parameter.Gravity,
		Timestep:       parameter.PhysicsTimestep,
		SleepSpeed:     parameter.SleepSpeed,
		SleepTime:      parameter.SleepTime,
		LinearDamping:  parameter.LinearDamping,
		AngularDamping: parameter.AngularDamping,
		Restitution:    parameter.GroundRestitution,
		Friction:       parameter.GroundFriction,
		GroundY:        parameter.GroundY,
		GroundExtent:   parameter.GroundHalfExtent,
		CellSize:       parameter.BroadphaseCellSize,
	}
}

// Validate rejects configurations the integrator cannot run
func (c Config) Validate() error {
	switch {
	case c.Timestep <= 0:
		return fmt.Errorf("%w: timestep %v must be positive", ErrInvalidConfig, c.Timestep)
	case c.CellSize <= 0:
		return fmt.Errorf("%w: cell size %v must be positive", ErrInvalidConfig, c.CellSize)
	case c.LinearDamping < 0 || c.LinearDamping >= 1:
		return fmt.Errorf("%w: linear damping %v outside [0,1)", ErrInvalidConfig, c.LinearDamping)
	case c.AngularDamping < 0 || c.AngularDamping >= 1:
		return fmt.Errorf("%w: angular damping %v outside [0,1)", ErrInvalidConfig, c.AngularDamping)
	case c.Restitution < 0 || c.Restitution > 1:
		return fmt.Errorf("%w: restitution %v outside [0,1]", ErrInvalidConfig, c.Restitution)
	case c.Friction < 0 || c.Friction > 1:
		return fmt.Errorf("%w: friction %v outside [0,1]", ErrInvalidConfig, c.Friction)
	case c.GroundExtent <= 0:
		return fmt.Errorf("%w: ground extent %v must be positive", ErrInvalidConfig, c.GroundExtent)
	case c.SleepSpeed < 0 || c.SleepTime < 0:
		return fmt.Errorf("%w: negative sleep threshold", ErrInvalidConfig)
	}
	return nil
}

type body struct {
	gen     uint32
	alive   bool
	dynamic bool

	pos    mgl32.Vec3
	rot    mgl32.Quat
	vel    mgl32.Vec3
	angVel mgl32.Vec3
	mass   float32

	half        mgl32.Vec3
	hasCollider bool

	sleeping bool
	idleTime float32
}

func (b *body) wake() {
	b.sleeping = false
	b.idleTime = 0
}

// groundDepth is the slab thickness below GroundY
const groundDepth = 10

var _ Bridge = (*World)(nil)

// World is a single-threaded rigid box simulator: gravity, damping, sleep,
// ground plane contact and axis-aligned box push-out. It is owned by one
// engine and torn down with it; there is no package-level instance
type World struct {
	cfg    Config
	log    *zap.Logger
	bodies []body
	free   []uint32
	alive  int
	ground bool

	grid  *SpatialGrid
	stamp []uint32
	epoch uint32
}

// Open validates cfg and builds an empty world
// Initialisation is one-shot; a cancelled ctx aborts it
func Open(ctx context.Context, cfg Config, logger *zap.Logger) (*World, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("physics: open: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &World{
		cfg:  cfg,
		log:  logger,
		grid: NewSpatialGrid(cfg.CellSize),
	}
	logger.Debug("physics world opened",
		zap.Float32("gravity", cfg.Gravity),
		zap.Float32("timestep", cfg.Timestep))
	return w, nil
}

// Close drops every body
func (w *World) Close() {
	w.bodies = nil
	w.free = nil
	w.stamp = nil
	w.alive = 0
	w.grid.Clear()
}

func (w *World) lookup(id BodyID) *body {
	if !id.Valid() {
		return nil
	}
	s := id.slot()
	if int(s) >= len(w.bodies) {
		return nil
	}
	b := &w.bodies[s]
	if !b.alive || b.gen != id.gen() {
		return nil
	}
	return b
}

func (w *World) CreateRigidBody(pos mgl32.Vec3, dynamic bool) BodyID {
	var s uint32
	if n := len(w.free); n > 0 {
		s = w.free[n-1]
		w.free = w.free[:n-1]
	} else {
		w.bodies = append(w.bodies, body{})
		w.stamp = append(w.stamp, 0)
		s = uint32(len(w.bodies) - 1)
	}

	b := &w.bodies[s]
	gen := b.gen + 1
	*b = body{
		gen:     gen,
		alive:   true,
		dynamic: dynamic,
		pos:     pos,
		rot:     mgl32.QuatIdent(),
		mass:    parameter.VoxelMass,
	}
	w.alive++
	return makeBodyID(s, gen)
}

func (w *World) CreateBoxCollider(id BodyID, halfExtents mgl32.Vec3) {
	if b := w.lookup(id); b != nil {
		b.half = halfExtents
		b.hasCollider = true
	}
}

func (w *World) RemoveBody(id BodyID) {
	b := w.lookup(id)
	if b == nil {
		return
	}
	b.alive = false
	w.free = append(w.free, id.slot())
	w.alive--
}

func (w *World) ApplyImpulse(id BodyID, impulse mgl32.Vec3) {
	b := w.lookup(id)
	if b == nil || !b.dynamic {
		return
	}
	b.wake()
	b.vel = b.vel.Add(impulse.Mul(1 / b.mass))
}

func (w *World) WakeUp(id BodyID) {
	if b := w.lookup(id); b != nil {
		b.wake()
	}
}

func (w *World) Position(id BodyID) mgl32.Vec3 {
	if b := w.lookup(id); b != nil {
		return b.pos
	}
	return mgl32.Vec3{}
}

func (w *World) Rotation(id BodyID) mgl32.Quat {
	if b := w.lookup(id); b != nil {
		return b.rot
	}
	return mgl32.QuatIdent()
}

// Velocity returns the linear velocity; zero for stale handles
func (w *World) Velocity(id BodyID) mgl32.Vec3 {
	if b := w.lookup(id); b != nil {
		return b.vel
	}
	return mgl32.Vec3{}
}

func (w *World) IsSleeping(id BodyID) bool {
	if b := w.lookup(id); b != nil {
		return b.sleeping || !b.dynamic
	}
	return true
}

func (w *World) Timestep() float32 { return w.cfg.Timestep }

func (w *World) CreateGround() { w.ground = true }

func (w *World) BodyCount() int { return w.alive }

// Step integrates one fixed timestep
func (w *World) Step() {
	dt := w.cfg.Timestep
	gravity := mgl32.Vec3{0, w.cfg.Gravity, 0}
	linKeep := 1 - w.cfg.LinearDamping
	angKeep := 1 - w.cfg.AngularDamping

	for i := range w.bodies {
		b := &w.bodies[i]
		if !b.alive || !b.dynamic || b.sleeping {
			continue
		}

		b.vel = b.vel.Add(gravity.Mul(dt)).Mul(linKeep)
		b.angVel = b.angVel.Mul(angKeep)
		b.pos = b.pos.Add(b.vel.Mul(dt))

		if b.angVel.Len() > 0 {
			spin := mgl32.Quat{W: 0, V: b.angVel.Mul(0.5 * dt)}
			b.rot = b.rot.Add(spin.Mul(b.rot)).Normalize()
		}

		if w.ground {
			w.groundContact(b)
		}
	}

	w.resolveBoxes()

	for i := range w.bodies {
		b := &w.bodies[i]
		if !b.alive || !b.dynamic || b.sleeping {
			continue
		}
		if b.vel.Len() < w.cfg.SleepSpeed && b.angVel.Len() < w.cfg.SleepSpeed {
			b.idleTime += dt
			if b.idleTime >= w.cfg.SleepTime {
				b.sleeping = true
				b.vel = mgl32.Vec3{}
				b.angVel = mgl32.Vec3{}
			}
		} else {
			b.idleTime = 0
		}
	}
}

// groundContact clamps the box onto the ground slab, reflects the normal
// velocity with restitution and bleeds tangential velocity into tumble
func (w *World) groundContact(b *body) {
	half := b.half.Y()
	if !b.hasCollider {
		half = 0
	}
	floor := w.cfg.GroundY + half
	if b.pos.Y() >= floor || b.pos.Y() < w.cfg.GroundY-groundDepth {
		return
	}
	if e := w.cfg.GroundExtent; b.pos.X() > e || b.pos.X() < -e || b.pos.Z() > e || b.pos.Z() < -e {
		return
	}

	b.pos[1] = floor
	if b.vel.Y() < 0 {
		b.vel[1] = -b.vel.Y() * w.cfg.Restitution
	}

	tangent := mgl32.Vec3{b.vel.X(), 0, b.vel.Z()}
	keep := 1 - w.cfg.Friction
	b.vel[0] *= keep
	b.vel[2] *= keep
	b.angVel = b.angVel.Mul(keep).Add(mgl32.Vec3{0, 1, 0}.Cross(tangent).Mul(w.cfg.Friction))
}

// resolveBoxes pushes overlapping awake boxes apart along the axis of least
// penetration. Sleeping and static boxes act as immovable; a fast approach
// wakes a sleeping box and shares the normal velocity with it
func (w *World) resolveBoxes() {
	w.grid.Clear()
	for i := range w.bodies {
		b := &w.bodies[i]
		if b.alive && b.hasCollider {
			w.grid.Add(uint32(i), b.pos)
		}
	}

	for i := range w.bodies {
		a := &w.bodies[i]
		if !a.alive || !a.hasCollider || !a.dynamic || a.sleeping {
			continue
		}

		w.epoch++
		w.stamp[i] = w.epoch
		reach := a.half.Add(mgl32.Vec3{w.cfg.CellSize, w.cfg.CellSize, w.cfg.CellSize}.Mul(0.5))
		w.grid.QueryBox(a.pos.Sub(reach), a.pos.Add(reach), func(slot uint32) {
			if w.stamp[slot] == w.epoch {
				return
			}
			w.stamp[slot] = w.epoch
			w.separate(a, &w.bodies[slot])
		})
	}
}

func (w *World) separate(a, b *body) {
	if !b.alive || !b.hasCollider {
		return
	}

	d := a.pos.Sub(b.pos)
	ext := a.half.Add(b.half)
	axis := -1
	var depth float32
	for k := 0; k < 3; k++ {
		ad := d[k]
		if ad < 0 {
			ad = -ad
		}
		pen := ext[k] - ad
		if pen <= 0 {
			return
		}
		if axis < 0 || pen < depth {
			axis, depth = k, pen
		}
	}

	var n mgl32.Vec3
	if d[axis] >= 0 {
		n[axis] = 1
	} else {
		n[axis] = -1
	}

	movable := b.dynamic && !b.sleeping
	vn := a.vel.Dot(n)
	if b.dynamic && b.sleeping && -vn > w.cfg.SleepSpeed {
		b.wake()
		movable = true
	}

	if movable {
		a.pos = a.pos.Add(n.Mul(depth * 0.5))
		b.pos = b.pos.Sub(n.Mul(depth * 0.5))
		if vn < 0 {
			total := a.mass + b.mass
			a.vel = a.vel.Sub(n.Mul(vn * b.mass / total))
			b.vel = b.vel.Add(n.Mul(vn * a.mass / total))
		}
		return
	}

	a.pos = a.pos.Add(n.Mul(depth))
	if vn < 0 {
		a.vel = a.vel.Sub(n.Mul(vn))
	}
}
