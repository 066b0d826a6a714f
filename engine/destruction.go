package engine

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/lixenwraith/wrecker/component"
	"github.com/lixenwraith/wrecker/config"
	"github.com/lixenwraith/wrecker/event"
	"github.com/lixenwraith/wrecker/parameter"
	"github.com/lixenwraith/wrecker/physics"
	"github.com/lixenwraith/wrecker/vmath"
)

// Tuning is the destruction and scoring parameter set
type Tuning struct {
	VerticalBias      float32
	PropagationRadius float32
	CaptureRadius     float32
	NearGroundY       float32
	DeepFallY         float32
	SinkY             float32
	ChainDelayMin     float32
	ChainDelayMax     float32
	ChainForce        float32
	ChainRadius       float32
	PointsPerVoxel    int
	MoneyPerVoxel     int
}

// TuningFromConfig narrows the engine and scoring sections
func TuningFromConfig(cfg *config.Config) Tuning {
	e, s := cfg.Engine, cfg.Scoring
	return Tuning{
		VerticalBias:      float32(e.VerticalBias),
		PropagationRadius: float32(e.PropagationRadius),
		CaptureRadius:     float32(e.CaptureRadius),
		NearGroundY:       float32(e.NearGroundY),
		DeepFallY:         float32(e.DeepFallY),
		SinkY:             parameter.SinkY,
		ChainDelayMin:     float32(e.ChainDelayMin),
		ChainDelayMax:     float32(e.ChainDelayMax),
		ChainForce:        float32(e.ChainForce),
		ChainRadius:       float32(e.ChainRadius),
		PointsPerVoxel:    s.PointsPerVoxel,
		MoneyPerVoxel:     s.MoneyPerVoxel,
	}
}

// DestructionEngine applies blasts, support loss, black hole pull and
// ground cleanup to the voxel store. Every mutation happens on the tick
type DestructionEngine struct {
	store      *VoxelStore
	activation *ActivationPolicy
	bridge     physics.Bridge
	chain      *ChainSchedule
	combo      *ComboScorer
	level      *LevelState
	queue      *event.EventQueue
	metrics    *Metrics
	rng        *rand.Rand
	log        *zap.Logger
	tune       Tuning

	// scratch for newly activated indices, reused across explosions
	activated []int
}

// DestructionDeps are the collaborators a DestructionEngine mutates
type DestructionDeps struct {
	Store      *VoxelStore
	Activation *ActivationPolicy
	Bridge     physics.Bridge
	Chain      *ChainSchedule
	Combo      *ComboScorer
	Level      *LevelState
	Queue      *event.EventQueue
	Metrics    *Metrics
	Rand       *rand.Rand
	Logger     *zap.Logger
}

func NewDestructionEngine(deps DestructionDeps, tune Tuning) *DestructionEngine {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &DestructionEngine{
		store:      deps.Store,
		activation: deps.Activation,
		bridge:     deps.Bridge,
		chain:      deps.Chain,
		combo:      deps.Combo,
		level:      deps.Level,
		queue:      deps.Queue,
		metrics:    deps.Metrics,
		rng:        deps.Rand,
		log:        deps.Logger,
		tune:       tune,
	}
}

// voxelPosition is the current position: physics-derived while Active, stored otherwise
func (d *DestructionEngine) voxelPosition(v *component.Voxel) mgl32.Vec3 {
	if v.HasPhysics() {
		return d.bridge.Position(v.Body)
	}
	return v.Position
}

// score awards a voxel exactly once
func (d *DestructionEngine) score(v *component.Voxel) {
	if v.Scored {
		return
	}
	v.Scored = true
	d.level.Score += d.combo.Score(d.tune.PointsPerVoxel)
	d.level.Money += d.tune.MoneyPerVoxel
	d.level.Destroyed++
	if d.metrics != nil {
		d.metrics.VoxelsScored.Inc()
		d.metrics.Score.Set(float64(d.level.Score))
	}
}

// ApplyExplosion pushes every live voxel inside radius away from center with
// linear falloff, scores it once and arms explosive voxels. Returns the
// indices that gained a body in this call; the slice is reused by the next call
func (d *DestructionEngine) ApplyExplosion(center mgl32.Vec3, force, radius float32) (affected int, activated []int) {
	d.activated = d.activated[:0]
	bias := mgl32.Vec3{0, d.tune.VerticalBias, 0}

	for i := 0; i < d.store.Len(); i++ {
		v := d.store.At(i)
		if !v.Active() {
			continue
		}

		pos := d.voxelPosition(v)
		dist := pos.Sub(center).Len()
		if dist >= radius {
			continue
		}

		if v.State == component.StateDormant {
			if !d.activation.Activate(i) {
				continue
			}
			d.activated = append(d.activated, i)
		}
		affected++

		d.bridge.WakeUp(v.Body)
		dir := vmath.SafeNormalize(pos.Sub(center).Add(bias))
		d.bridge.ApplyImpulse(v.Body, dir.Mul(force*vmath.Falloff(dist, radius)))

		d.score(v)

		if v.Explosive && !v.Exploded {
			v.Exploded = true
			d.chain.Schedule(component.ChainCharge{
				Voxel:     i,
				Remaining: d.chainDelay(),
				Force:     d.tune.ChainForce,
				Radius:    d.tune.ChainRadius,
			})
		}
	}
	return affected, d.activated
}

func (d *DestructionEngine) chainDelay() float32 {
	lo, hi := d.tune.ChainDelayMin, d.tune.ChainDelayMax
	return lo + d.rng.Float32()*(hi-lo)
}

// PropagateUpward activates every Dormant voxel resting above an affected
// voxel: XZ distance below the propagation radius and strictly higher Y
// Quadratic; only ever run on an explosion's newly activated set
func (d *DestructionEngine) PropagateUpward(affected []int) []int {
	var out []int
	r := d.tune.PropagationRadius
	for _, a := range affected {
		base := d.store.At(a)
		if base == nil {
			continue
		}
		bp := d.voxelPosition(base)
		for j := 0; j < d.store.Len(); j++ {
			v := d.store.At(j)
			if v.State != component.StateDormant {
				continue
			}
			if v.Position.Y() <= bp.Y() || vmath.HorizontalDistance(v.Position, bp) >= r {
				continue
			}
			if d.activation.Activate(j) {
				out = append(out, j)
			}
		}
	}
	return out
}

// Explode is a full detonation: blast, support propagation and a notification
func (d *DestructionEngine) Explode(center mgl32.Vec3, force, radius float32, chained bool) {
	affected, activated := d.ApplyExplosion(center, force, radius)
	fresh := len(activated)
	propagated := d.PropagateUpward(activated)

	origin := "primary"
	if chained {
		origin = "chain"
	}
	if d.metrics != nil {
		d.metrics.Explosions.WithLabelValues(origin).Inc()
	}

	d.log.Debug("explosion",
		zap.String("origin", origin),
		zap.Float32("force", force),
		zap.Float32("radius", radius),
		zap.Int("affected", affected),
		zap.Int("activated", fresh),
		zap.Int("propagated", len(propagated)))

	d.queue.Push(event.GameEvent{
		Type: event.EventExplosion,
		Payload: &event.ExplosionPayload{
			Center:    center,
			Force:     force,
			Radius:    radius,
			Affected:  affected,
			Activated: fresh + len(propagated),
			Chained:   chained,
			Intensity: vmath.Clamp01(force / 60),
		},
	})
}

// FireChains advances pending fuses and detonates the due ones, each centered
// on its explosive voxel's position at fire time
func (d *DestructionEngine) FireChains(dt float32) int {
	due := d.chain.Advance(dt)
	fired := 0
	for _, ch := range due {
		v := d.store.At(ch.Voxel)
		if v == nil {
			continue
		}
		d.Explode(d.voxelPosition(v), ch.Force, ch.Radius, true)
		fired++
	}
	return fired
}

// ApplyBlackHole pulls live voxels inside radius toward center with
// force/(d+1) scaled by dt. Voxels within the capture radius are scored,
// sunk below the world and removed. Returns the number captured
func (d *DestructionEngine) ApplyBlackHole(center mgl32.Vec3, radius, force, dt float32) int {
	captured := 0
	for i := 0; i < d.store.Len(); i++ {
		v := d.store.At(i)
		if !v.Active() {
			continue
		}

		pos := d.voxelPosition(v)
		toCenter := center.Sub(pos)
		dist := toCenter.Len()
		if dist >= radius {
			continue
		}

		if dist < d.tune.CaptureRadius {
			d.score(v)
			v.Position = mgl32.Vec3{pos.X(), d.tune.SinkY, pos.Z()}
			d.activation.Retire(i)
			captured++
			continue
		}

		if v.State == component.StateDormant && !d.activation.Activate(i) {
			continue
		}
		d.bridge.ApplyImpulse(v.Body, vmath.SafeNormalize(toCenter).Mul(force/(dist+1)*dt))
	}
	return captured
}

// CleanupGround retires settled scored debris and anything that fell out of
// the world. Returns the number retired
func (d *DestructionEngine) CleanupGround() int {
	retired := 0
	for i := 0; i < d.store.Len(); i++ {
		v := d.store.At(i)
		if !v.HasPhysics() {
			continue
		}
		pos := d.bridge.Position(v.Body)
		if (v.Scored && pos.Y() < d.tune.NearGroundY) || pos.Y() < d.tune.DeepFallY {
			v.Position = pos
			d.activation.Retire(i)
			retired++
		}
	}
	return retired
}
