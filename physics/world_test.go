package physics

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func openTestWorld(t *testing.T, cfg Config) *World {
	t.Helper()
	w, err := Open(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return w
}

func TestOpenRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero timestep", func(c *Config) { c.Timestep = 0 }},
		{"zero cell", func(c *Config) { c.CellSize = 0 }},
		{"full damping", func(c *Config) { c.LinearDamping = 1 }},
		{"bouncy ground", func(c *Config) { c.Restitution = 1.5 }},
		{"no ground", func(c *Config) { c.GroundExtent = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			_, err := Open(context.Background(), cfg, nil)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Open error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestOpenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Open(ctx, DefaultConfig(), nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Open error = %v, want context.Canceled", err)
	}
}

func TestRemoveBodyIdempotent(t *testing.T) {
	w := openTestWorld(t, DefaultConfig())

	old := w.CreateRigidBody(mgl32.Vec3{1, 2, 3}, true)
	w.RemoveBody(old)
	w.RemoveBody(old)
	if got := w.BodyCount(); got != 0 {
		t.Fatalf("BodyCount after double remove = %d, want 0", got)
	}

	// Slot is reused with a new generation; the stale handle must not reach it
	fresh := w.CreateRigidBody(mgl32.Vec3{4, 5, 6}, true)
	if fresh == old {
		t.Fatal("reused slot returned identical handle")
	}
	w.RemoveBody(old)
	if got := w.BodyCount(); got != 1 {
		t.Errorf("stale remove affected live body: count = %d, want 1", got)
	}
	if got := w.Position(fresh); got != (mgl32.Vec3{4, 5, 6}) {
		t.Errorf("Position(fresh) = %v, want (4,5,6)", got)
	}
	if got := w.Position(old); got != (mgl32.Vec3{}) {
		t.Errorf("Position(stale) = %v, want zero", got)
	}
	if !w.IsSleeping(old) {
		t.Error("stale handle should report sleeping")
	}
}

func TestBodyFallsAndSleeps(t *testing.T) {
	w := openTestWorld(t, DefaultConfig())
	w.CreateGround()

	id := w.CreateRigidBody(mgl32.Vec3{0, 5, 0}, true)
	w.CreateBoxCollider(id, mgl32.Vec3{0.5, 0.5, 0.5})

	for i := 0; i < 600 && !w.IsSleeping(id); i++ {
		w.Step()
	}

	if !w.IsSleeping(id) {
		t.Fatal("body did not fall asleep within 10 simulated seconds")
	}
	if y := w.Position(id).Y(); math.Abs(float64(y-0.5)) > 0.05 {
		t.Errorf("resting height = %v, want 0.5", y)
	}
}

func TestBodyPastGroundEdgeFalls(t *testing.T) {
	w := openTestWorld(t, DefaultConfig())
	w.CreateGround()

	id := w.CreateRigidBody(mgl32.Vec3{100, 1, 0}, true)
	w.CreateBoxCollider(id, mgl32.Vec3{0.5, 0.5, 0.5})
	for i := 0; i < 120; i++ {
		w.Step()
	}
	if y := w.Position(id).Y(); y > -5 {
		t.Errorf("body off the slab at y = %v, want below -5", y)
	}
}

func TestApplyImpulseWakes(t *testing.T) {
	w := openTestWorld(t, DefaultConfig())
	w.CreateGround()

	id := w.CreateRigidBody(mgl32.Vec3{0, 0.5, 0}, true)
	w.CreateBoxCollider(id, mgl32.Vec3{0.5, 0.5, 0.5})
	for i := 0; i < 60; i++ {
		w.Step()
	}
	if !w.IsSleeping(id) {
		t.Fatal("resting body should be asleep")
	}

	w.ApplyImpulse(id, mgl32.Vec3{0, 10, 0})
	if w.IsSleeping(id) {
		t.Error("impulse did not wake body")
	}
	if vy := w.Velocity(id).Y(); vy != 10 {
		t.Errorf("velocity after impulse = %v, want 10", vy)
	}

	w.Step()
	if y := w.Position(id).Y(); y <= 0.5 {
		t.Errorf("body did not rise: y = %v", y)
	}
}

func TestStaticBodyIgnoresImpulse(t *testing.T) {
	w := openTestWorld(t, DefaultConfig())
	id := w.CreateRigidBody(mgl32.Vec3{0, 3, 0}, false)
	w.ApplyImpulse(id, mgl32.Vec3{5, 0, 0})
	w.Step()
	if got := w.Position(id); got != (mgl32.Vec3{0, 3, 0}) {
		t.Errorf("static body moved to %v", got)
	}
}

func TestOverlappingBoxesSeparate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gravity = 0
	w := openTestWorld(t, cfg)

	half := mgl32.Vec3{0.5, 0.5, 0.5}
	a := w.CreateRigidBody(mgl32.Vec3{0, 5, 0}, true)
	b := w.CreateRigidBody(mgl32.Vec3{0.5, 5, 0}, true)
	w.CreateBoxCollider(a, half)
	w.CreateBoxCollider(b, half)
	w.WakeUp(a)
	w.WakeUp(b)

	w.Step()

	dx := math.Abs(float64(w.Position(b).X() - w.Position(a).X()))
	if dx < 0.999 {
		t.Errorf("boxes still overlap: dx = %v, want >= 1", dx)
	}
}
