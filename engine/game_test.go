package engine

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/lixenwraith/wrecker/component"
	"github.com/lixenwraith/wrecker/config"
	"github.com/lixenwraith/wrecker/event"
	"github.com/lixenwraith/wrecker/parameter"
)

const testTables = `
tools:
  - {id: HOUSE, name: House, kind: build, price: 500}
  - {id: BALL, name: Wrecking Ball, kind: destroy, price: 0, force: 25, radius: 2}
  - {id: NUKE, name: Nuke, kind: destroy, price: 2000, force: 60, radius: 15}
  - {id: BLACK_HOLE, name: Black Hole, kind: blackhole, price: 100, force: 30, radius: 10, life: 1}
levels:
  - id: 1
    name: Sandbox
    budget: 1000
    buildings: 0
    theme: MODERN
    tools_allowed: [ALL]
    win: {type: SCORE, value: 100000}
  - id: 2
    name: Town
    budget: 100
    buildings: 3
    theme: INDUSTRIAL
    archetypes: [HOUSE]
    tools_allowed: [BALL, HOUSE]
    win: {type: DESTRUCTION_COUNT, value: 1}
  - id: 3
    name: Quick
    buildings: 0
    theme: NOWHERE
    tools_allowed: [ALL]
    win: {type: SCORE, value: 1}
`

func newTestGame(t *testing.T, cfg *config.Config) *Game {
	t.Helper()
	tables, err := config.ParseTables([]byte(testTables))
	if err != nil {
		t.Fatalf("ParseTables failed: %v", err)
	}
	g, world, err := NewTestGame(cfg, tables)
	if err != nil {
		t.Fatalf("NewTestGame failed: %v", err)
	}
	t.Cleanup(world.Close)
	return g
}

// counter counts dispatched events by type
type counter map[event.EventType]int

func (c counter) HandleEvent(_ *Game, ev event.GameEvent) { c[ev.Type]++ }
func (c counter) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventShoot, event.EventExplosion, event.EventBuild, event.EventBuildRejected,
		event.EventInsufficientFunds, event.EventBlackHole, event.EventLevelLoaded,
		event.EventLevelWon, event.EventPauseToggled, event.EventHUDUpdate,
	}
}

func TestLoadLevel(t *testing.T) {
	g := newTestGame(t, nil)

	if g.LoadLevel(99) {
		t.Fatal("unknown level loaded")
	}
	if g.Level().Running {
		t.Error("unknown level started a run")
	}

	if !g.LoadLevel(2) {
		t.Fatal("level 2 not loaded")
	}
	lvl := g.Level()
	if lvl.RunID == "" || !lvl.Running || lvl.Money != 100 {
		t.Errorf("level state = %+v", lvl)
	}
	n := len(g.Voxels())
	if n < 3*52 || n > 3*64 {
		t.Errorf("voxels = %d, want three houses", n)
	}
	if lvl.TotalVoxels != n {
		t.Errorf("total voxels = %d, want %d", lvl.TotalVoxels, n)
	}
	if g.Theme().Name != "INDUSTRIAL" {
		t.Errorf("theme = %s", g.Theme().Name)
	}

	first := lvl.RunID
	if !g.LoadLevel(2) {
		t.Fatal("reload failed")
	}
	if g.Level().RunID == first {
		t.Error("reload kept the run id")
	}
	if m := len(g.Voxels()); m > 3*64 {
		t.Errorf("voxels after reload = %d, previous level not torn down", m)
	}
}

func TestLoadLevelDefaults(t *testing.T) {
	g := newTestGame(t, nil)
	if !g.LoadLevel(3) {
		t.Fatal("level 3 not loaded")
	}
	if g.Level().Money != g.cfg.Scoring.StartingMoney {
		t.Errorf("money = %d, want starting money", g.Level().Money)
	}
	if g.Theme().Name != "MODERN" {
		t.Errorf("unknown theme fell back to %s", g.Theme().Name)
	}
}

func TestUseToolResults(t *testing.T) {
	g := newTestGame(t, nil)
	c := counter{}
	g.Router().Register(c)

	if r := g.UseTool("BALL", mgl32.Vec3{}); r != ToolIgnored {
		t.Errorf("before load = %v, want ignored", r)
	}

	g.LoadLevel(2)
	target := mgl32.Vec3{0, 0, 0}

	tests := []struct {
		tool string
		want ToolResult
	}{
		{"LASER", ToolUnknown},
		{"NUKE", ToolNotAllowed},
		{"HOUSE", ToolInsufficientFunds},
		{" ball ", ToolApplied},
	}
	for _, tt := range tests {
		if r := g.UseTool(tt.tool, target); r != tt.want {
			t.Errorf("UseTool(%q) = %v, want %v", tt.tool, r, tt.want)
		}
	}
	if g.Level().Money != 100 {
		t.Errorf("money = %d, want 100", g.Level().Money)
	}

	g.Pause()
	if r := g.UseTool("BALL", target); r != ToolIgnored {
		t.Errorf("paused = %v, want ignored", r)
	}

	g.Tick(0.016)
	if c[event.EventInsufficientFunds] != 1 || c[event.EventShoot] != 1 || c[event.EventPauseToggled] != 1 {
		t.Errorf("dispatched = %v", c)
	}
}

func TestBuildRejectedLeavesMoney(t *testing.T) {
	cfg := config.Defaults()
	cfg.Engine.Seed = 1
	cfg.Engine.RenderCapacity = 40
	g := newTestGame(t, cfg)
	g.LoadLevel(1)

	if r := g.UseTool("HOUSE", mgl32.Vec3{3.4, 0, -2.6}); r != ToolCapacityExceeded {
		t.Fatalf("build = %v, want capacity exceeded", r)
	}
	if g.Level().Money != 1000 {
		t.Errorf("money = %d, want unchanged 1000", g.Level().Money)
	}
	if len(g.Voxels()) != 0 {
		t.Errorf("voxels appended on rejection: %d", len(g.Voxels()))
	}
	if got := testutil.ToFloat64(g.metrics.BuildsRejected); got != 1 {
		t.Errorf("builds_rejected_total = %v", got)
	}
}

func TestBuildPlacesHouse(t *testing.T) {
	g := newTestGame(t, nil)
	g.LoadLevel(1)

	if r := g.UseTool("HOUSE", mgl32.Vec3{3.4, 7, -2.6}); r != ToolApplied {
		t.Fatalf("build = %v", r)
	}
	if g.Level().Money != 500 {
		t.Errorf("money = %d, want 500", g.Level().Money)
	}
	voxels := g.Voxels()
	if len(voxels) < 52 || len(voxels) > 64 {
		t.Fatalf("voxels = %d", len(voxels))
	}
	// Lattice corner snaps to the rounded target on the ground
	first := voxels[0].Position
	if first != (mgl32.Vec3{3, 0.5, -3}) {
		t.Errorf("first voxel at %v, want (3, 0.5, -3)", first)
	}
	for _, v := range voxels {
		if v.State != component.StateDormant || v.HasPhysics() {
			t.Fatalf("new building voxel %+v is not dormant", v)
		}
	}
}

func TestTickClampsDelta(t *testing.T) {
	g := newTestGame(t, nil)
	g.LoadLevel(1)

	g.Tick(1.0)
	if got := g.Level().Elapsed; math.Abs(got-g.cfg.Engine.MaxFrameDelta) > 1e-6 {
		t.Errorf("elapsed = %v, want clamp %v", got, g.cfg.Engine.MaxFrameDelta)
	}
	g.Tick(-1)
	if got := g.Level().Elapsed; math.Abs(got-g.cfg.Engine.MaxFrameDelta) > 1e-6 {
		t.Errorf("negative delta advanced time to %v", got)
	}
}

func TestPauseFreezesChains(t *testing.T) {
	g := newTestGame(t, nil)
	g.LoadLevel(1)

	idx := g.store.Append([]component.VoxelDescriptor{{
		Position:  mgl32.Vec3{0, 0.5, 0},
		Color:     component.ColorHazardRed,
		Explosive: true,
	}})
	g.destroy.Explode(mgl32.Vec3{0, 0.5, 0}, 40, 5, false)
	if g.chain.Pending() != 1 {
		t.Fatalf("pending = %d, want 1", g.chain.Pending())
	}
	score := g.Level().Score

	g.Pause()
	for i := 0; i < 100; i++ {
		g.Tick(0.05)
	}
	if g.chain.Pending() != 1 {
		t.Fatal("chain fired while paused")
	}
	if g.Level().Elapsed != 0 {
		t.Errorf("elapsed advanced while paused: %v", g.Level().Elapsed)
	}
	if g.combo.Count() == 0 {
		t.Error("combo decayed while paused")
	}

	g.Resume()
	for i := 0; i < 20; i++ {
		g.Tick(0.05)
	}
	if g.chain.Pending() != 0 {
		t.Error("chain did not fire after resume")
	}
	if got := testutil.ToFloat64(g.metrics.Explosions.WithLabelValues("chain")); got != 1 {
		t.Errorf("chain explosions = %v, want 1", got)
	}
	if g.Level().Score != score {
		t.Errorf("score changed from %d to %d; the only voxel was already scored", score, g.Level().Score)
	}
	if !g.store.At(idx).Exploded {
		t.Error("explosive voxel not latched")
	}
}

func TestVictoryFiresOnce(t *testing.T) {
	g := newTestGame(t, nil)
	c := counter{}
	g.Router().Register(c)
	g.LoadLevel(3)

	g.store.Append([]component.VoxelDescriptor{{Position: mgl32.Vec3{0, 0.5, 0}}})
	g.destroy.Explode(mgl32.Vec3{0, 0.5, 0}, 40, 5, false)

	for i := 0; i < 10; i++ {
		g.Tick(0.016)
	}
	lvl := g.Level()
	if !lvl.Won || lvl.Running {
		t.Fatalf("level state = %+v, want won and stopped", lvl)
	}
	if c[event.EventLevelWon] != 1 {
		t.Errorf("level won events = %d, want 1", c[event.EventLevelWon])
	}
	if c[event.EventHUDUpdate] != 10 {
		t.Errorf("HUD updates = %d, want one per tick", c[event.EventHUDUpdate])
	}
	if r := g.UseTool("BALL", mgl32.Vec3{}); r != ToolIgnored {
		t.Errorf("tool after win = %v, want ignored", r)
	}
	if snap := g.Snapshot(); snap.Progress != 1 || snap.Running {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestDestructionCountObjective(t *testing.T) {
	g := newTestGame(t, nil)
	g.LoadLevel(2)

	g.level.Destroyed = g.cfg.Scoring.VoxelsPerBuilding - 1
	g.Tick(0.016)
	if g.Level().Won {
		t.Fatal("won one voxel short")
	}
	g.level.Destroyed++
	g.Tick(0.016)
	if !g.Level().Won {
		t.Error("not won at one building's worth of voxels")
	}
}

func TestProjectileDetonatesOnGround(t *testing.T) {
	g := newTestGame(t, nil)
	g.LoadLevel(1)

	if r := g.UseTool("BALL", mgl32.Vec3{0, 0, 0}); r != ToolApplied {
		t.Fatalf("shoot = %v", r)
	}
	if g.transients.Projectiles() != 1 {
		t.Fatalf("projectiles = %d", g.transients.Projectiles())
	}

	for i := 0; i < 100 && g.transients.Projectiles() > 0; i++ {
		g.Tick(0.05)
	}
	if g.transients.Projectiles() != 0 {
		t.Fatal("projectile never landed")
	}
	if got := testutil.ToFloat64(g.metrics.Explosions.WithLabelValues("primary")); got != 1 {
		t.Errorf("primary explosions = %v, want 1", got)
	}
}

func TestBlackHoleExpires(t *testing.T) {
	g := newTestGame(t, nil)
	g.LoadLevel(1)

	if r := g.UseTool("BLACK_HOLE", mgl32.Vec3{0, 5, 0}); r != ToolApplied {
		t.Fatalf("black hole = %v", r)
	}
	if g.Level().Money != 900 {
		t.Errorf("money = %d, want 900", g.Level().Money)
	}
	for i := 0; i < 25; i++ {
		g.Tick(0.05)
	}
	if g.transients.BlackHoles() != 0 {
		t.Error("black hole outlived its life")
	}
}

func TestToolResultString(t *testing.T) {
	if ToolCapacityExceeded.String() != "capacity_exceeded" {
		t.Errorf("String = %q", ToolCapacityExceeded.String())
	}
	if ToolResult(200).String() != "invalid" {
		t.Error("out of range result has a name")
	}
}

func TestQueueOverflowReported(t *testing.T) {
	g := newTestGame(t, nil)
	g.LoadLevel(1)
	g.Tick(0)
	if got := testutil.ToFloat64(g.metrics.EventsDropped); got != 0 {
		t.Fatalf("dropped before overflow = %v", got)
	}

	for i := 0; i < parameter.EventQueueSize+5; i++ {
		g.queue.Push(event.GameEvent{Type: event.EventShoot})
	}
	// The tick's own HUD update pushes out one more
	g.Tick(0)
	if got := testutil.ToFloat64(g.metrics.EventsDropped); got != 6 {
		t.Errorf("dropped = %v, want 6", got)
	}

	g.Tick(0)
	if got := testutil.ToFloat64(g.metrics.EventsDropped); got != 6 {
		t.Errorf("dropped counted twice: %v", got)
	}
}

func TestPauseTimeSurfaced(t *testing.T) {
	g := newTestGame(t, nil)
	mock := NewMockTimeProvider(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	g.clock = NewFrameClock(mock, g.maxDelta)
	c := counter{}
	g.Router().Register(c)
	g.LoadLevel(3)

	g.Pause()
	mock.Advance(4 * time.Second)
	if got := g.Snapshot().PausedFor; math.Abs(got-4) > 1e-9 {
		t.Errorf("open pause = %vs, want 4", got)
	}
	g.Resume()
	mock.Advance(time.Minute)

	var won *event.LevelPayload
	g.Router().Register(event.HandlerFunc[*Game]{
		Types: []event.EventType{event.EventLevelWon},
		Fn:    func(_ *Game, ev event.GameEvent) { won = ev.Payload.(*event.LevelPayload) },
	})
	g.store.Append([]component.VoxelDescriptor{{Position: mgl32.Vec3{0, 0.5, 0}}})
	g.destroy.Explode(mgl32.Vec3{0, 0.5, 0}, 40, 5, false)
	g.Tick(0.016)

	if won == nil {
		t.Fatal("level not won")
	}
	if math.Abs(won.Paused-4) > 1e-9 {
		t.Errorf("won payload paused = %vs, want 4", won.Paused)
	}

	g.LoadLevel(3)
	if got := g.Snapshot().PausedFor; got != 0 {
		t.Errorf("pause time carried into the next level: %v", got)
	}
}
