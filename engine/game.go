package engine

import (
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lixenwraith/wrecker/building"
	"github.com/lixenwraith/wrecker/component"
	"github.com/lixenwraith/wrecker/config"
	"github.com/lixenwraith/wrecker/event"
	"github.com/lixenwraith/wrecker/parameter"
	"github.com/lixenwraith/wrecker/physics"
	"github.com/lixenwraith/wrecker/render"
)

// GameDeps are the collaborators handed to NewGame
// Queue, Metrics, Clock and Logger are optional
type GameDeps struct {
	Config  *config.Config
	Tables  *config.Tables
	Bridge  physics.Bridge
	Queue   *event.EventQueue
	Metrics *Metrics
	Clock   *FrameClock
	Logger  *zap.Logger
}

// Game owns one level at a time and drives it from Tick
// Not safe for concurrent use: input, tick and notification dispatch all run
// on the frame loop goroutine
type Game struct {
	cfg     *config.Config
	tables  *config.Tables
	bridge  physics.Bridge
	queue   *event.EventQueue
	router  *event.Router[*Game]
	metrics *Metrics
	clock   *FrameClock
	log     *zap.Logger

	rng  *rand.Rand
	seed int64

	store      *VoxelStore
	buffer     *render.InstanceBuffer
	activation *ActivationPolicy
	chain      *ChainSchedule
	combo      *ComboScorer
	destroy    *DestructionEngine
	transients *Transients
	sync       *RenderSync

	level    LevelState
	levelDef *config.Level
	theme    building.Theme

	paused      bool
	accumulator float32
	launcher    mgl32.Vec3
	frame       int64
	fps         float64
	dropped     uint64 // queue overflow total already reported

	maxDelta    float64
	maxSubSteps int
}

// NewGame wires the engine around an initialised physics backend
// No level is loaded; call LoadLevel
func NewGame(deps GameDeps) *Game {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.Defaults()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Queue == nil {
		deps.Queue = event.NewEventQueue()
	}
	if deps.Metrics == nil {
		deps.Metrics = NewMetrics(nil, cfg.Metrics.Namespace)
	}

	seed := cfg.Engine.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g := &Game{
		cfg:         cfg,
		tables:      deps.Tables,
		bridge:      deps.Bridge,
		queue:       deps.Queue,
		router:      event.NewRouter[*Game](deps.Queue),
		metrics:     deps.Metrics,
		clock:       deps.Clock,
		log:         deps.Logger,
		rng:         rand.New(rand.NewSource(seed)),
		seed:        seed,
		store:       NewVoxelStore(cfg.Engine.RenderCapacity),
		buffer:      render.NewInstanceBuffer(cfg.Engine.RenderCapacity),
		chain:       NewChainSchedule(),
		combo:       NewComboScorer(cfg.Scoring.ComboStep, float32(cfg.Scoring.ComboWindow)),
		theme:       building.DefaultTheme(),
		launcher:    mgl32.Vec3{parameter.LauncherX, parameter.LauncherY, parameter.LauncherZ},
		maxDelta:    cfg.Engine.MaxFrameDelta,
		maxSubSteps: cfg.Engine.MaxSubSteps,
	}

	g.activation = NewActivationPolicy(g.store, g.bridge, cfg.Engine.MaxActiveBodies, g.metrics)
	g.destroy = NewDestructionEngine(DestructionDeps{
		Store:      g.store,
		Activation: g.activation,
		Bridge:     g.bridge,
		Chain:      g.chain,
		Combo:      g.combo,
		Level:      &g.level,
		Queue:      g.queue,
		Metrics:    g.metrics,
		Rand:       g.rng,
		Logger:     g.log.Named("destruction"),
	}, TuningFromConfig(cfg))
	g.transients = NewTransients(g.store, g.bridge, g.destroy)
	g.sync = NewRenderSync(g.store, g.bridge, g.buffer)

	return g
}

// Router is where collaborators register for notifications
func (g *Game) Router() *event.Router[*Game] { return g.router }

// Buffer is the instance buffer a renderer draws from
func (g *Game) Buffer() *render.InstanceBuffer { return g.buffer }

// Level returns a copy of the level state
func (g *Game) Level() LevelState { return g.level }

// Voxels returns a copy of every voxel slot, indexed like the instance buffer
func (g *Game) Voxels() []component.Voxel { return g.store.Snapshot() }

// Paused reports the pause state
func (g *Game) Paused() bool { return g.paused }

// Theme is the active level theme
func (g *Game) Theme() building.Theme { return g.theme }

// SetLauncher moves the point projectiles are fired from
func (g *Game) SetLauncher(pos mgl32.Vec3) { g.launcher = pos }

// LoadLevel tears down the current level and populates level id
// An unknown id is logged and leaves the current level untouched
func (g *Game) LoadLevel(id int) bool {
	def, err := g.tables.Level(id)
	if err != nil {
		g.log.Warn("level not loaded", zap.Int("level", id), zap.Error(err))
		return false
	}

	g.teardown()

	theme, ok := building.ThemeByName(def.Theme)
	if !ok {
		g.log.Warn("unknown theme, using default", zap.String("theme", def.Theme))
		theme = building.DefaultTheme()
	}
	g.theme = theme
	g.levelDef = def

	budget := def.Budget
	if budget <= 0 {
		budget = g.cfg.Scoring.StartingMoney
	}
	g.level = LevelState{
		Level:   def.ID,
		Name:    def.Name,
		RunID:   uuid.NewString(),
		Money:   budget,
		Running: true,
	}

	g.bridge.CreateGround()

	layout := building.NewLayout(g.seed+int64(def.ID), g.rng)
	placed := 0
	for _, plot := range layout.Plan(def.Buildings, g.archetypes(def)) {
		descs := building.Generate(plot.Origin, plot.Archetype, g.theme, g.rng)
		if !g.store.Fits(len(descs)) {
			g.log.Warn("render capacity reached while populating level",
				zap.Int("level", def.ID),
				zap.Int("placed", placed),
				zap.Int("planned", def.Buildings))
			break
		}
		g.store.Append(descs)
		g.level.TotalVoxels += len(descs)
		placed++
	}
	g.metrics.Voxels.Set(float64(g.store.Len()))
	g.metrics.Score.Set(0)

	if g.clock != nil {
		g.clock.Reset()
	}

	g.log.Info("level loaded",
		zap.Int("level", def.ID),
		zap.String("name", def.Name),
		zap.String("run_id", g.level.RunID),
		zap.String("theme", g.theme.Name),
		zap.Int("buildings", placed),
		zap.Int("voxels", g.store.Len()),
		zap.Int("budget", budget))

	g.push(event.EventLevelLoaded, &event.LevelPayload{
		Level: def.ID,
		Name:  def.Name,
		RunID: g.level.RunID,
	})
	return true
}

// NextLevel loads the level after the current one; false at the last level
func (g *Game) NextLevel() bool {
	next, ok := g.tables.NextLevel(g.level.Level)
	if !ok {
		return false
	}
	return g.LoadLevel(next)
}

// archetypes resolves the level's archetype tags; unknown tags are skipped
func (g *Game) archetypes(def *config.Level) []building.Archetype {
	out := make([]building.Archetype, 0, len(def.Archetypes))
	for _, tag := range def.Archetypes {
		a, err := building.ParseArchetype(tag)
		if err != nil {
			g.log.Warn("skipping archetype", zap.Int("level", def.ID), zap.Error(err))
			continue
		}
		out = append(out, a)
	}
	return out
}

// teardown removes every body and resets all per-level state
func (g *Game) teardown() {
	for i := 0; i < g.store.Len(); i++ {
		g.activation.Retire(i)
	}
	g.store.Compact()
	g.transients.Clear()
	g.chain.Clear()
	g.combo.Reset()
	g.activation.Reset()
	g.sync.Reset()
	g.accumulator = 0
	g.level.reset()
	g.levelDef = nil
	g.setPaused(false)
}

// UseTool applies tool id at target on behalf of the player
func (g *Game) UseTool(id string, target mgl32.Vec3) ToolResult {
	tool, err := g.tables.Tool(toolKey(id))
	if err != nil {
		g.log.Warn("tool not applied", zap.Error(err))
		return ToolUnknown
	}
	if !g.level.Running || g.paused {
		return ToolIgnored
	}
	if g.levelDef != nil && !g.levelDef.AllowsTool(tool.ID) {
		g.log.Debug("tool not allowed", zap.String("tool", tool.ID), zap.Int("level", g.level.Level))
		return ToolNotAllowed
	}
	if g.level.Money < tool.Price {
		g.push(event.EventInsufficientFunds, &event.FundsPayload{
			Tool:  tool.ID,
			Price: tool.Price,
			Money: g.level.Money,
		})
		return ToolInsufficientFunds
	}

	switch tool.Kind {
	case config.ToolBuild:
		return g.build(tool, target)

	case config.ToolDestroy:
		g.level.Money -= tool.Price
		g.transients.Launch(tool.ID, g.launcher, target, float32(tool.Force), float32(tool.Radius))
		g.push(event.EventShoot, &event.ShootPayload{
			Tool:   tool.ID,
			Origin: g.launcher,
			Target: target,
		})

	case config.ToolBlackHole:
		life := float32(tool.Life)
		if life <= 0 {
			life = parameter.BlackHoleLife
		}
		g.level.Money -= tool.Price
		g.transients.SpawnBlackHole(target, float32(tool.Radius), float32(tool.Force), life)
		g.push(event.EventBlackHole, &event.BlackHolePayload{
			Center: target,
			Radius: float32(tool.Radius),
		})
	}
	return ToolApplied
}

// build places a building with its lattice corner at the rounded target
// Capacity is checked before money changes hands
func (g *Game) build(tool *config.Tool, target mgl32.Vec3) ToolResult {
	arch, err := building.ParseArchetype(tool.ID)
	if err != nil {
		g.log.Warn("build tool has no archetype", zap.String("tool", tool.ID), zap.Error(err))
		return ToolUnknown
	}

	origin := mgl32.Vec3{
		float32(math.Round(float64(target.X()))),
		0,
		float32(math.Round(float64(target.Z()))),
	}
	descs := building.Generate(origin, arch, g.theme, g.rng)
	payload := &event.BuildPayload{Tool: tool.ID, Position: origin, Voxels: len(descs)}

	if !g.store.Fits(len(descs)) || !g.buffer.Fits(g.store.Len(), len(descs)) {
		g.metrics.BuildsRejected.Inc()
		g.log.Debug("build rejected",
			zap.String("tool", tool.ID),
			zap.Int("voxels", len(descs)),
			zap.Int("used", g.store.Len()))
		g.push(event.EventBuildRejected, payload)
		return ToolCapacityExceeded
	}

	g.level.Money -= tool.Price
	g.store.Append(descs)
	g.level.TotalVoxels += len(descs)
	g.metrics.Voxels.Set(float64(g.store.Len()))
	g.push(event.EventBuild, payload)
	return ToolApplied
}

// Tick advances the level by dt seconds and publishes the frame
// Render sync, the HUD snapshot and notification dispatch run even when
// paused or after the level is won
func (g *Game) Tick(dt float64) {
	start := time.Now()
	g.frame++

	if dt > 0 {
		g.fps = 1 / dt
	}
	dt = min(max(dt, 0), g.maxDelta)

	if g.level.Running && !g.paused && dt > 0 {
		g.step(float32(dt))
	}

	stats := g.sync.Sync()
	g.metrics.BufferWrites.Add(float64(stats.Writes()))
	g.metrics.Voxels.Set(float64(g.store.Len()))

	snap := g.Snapshot()
	g.push(event.EventHUDUpdate, &snap)
	g.reportDropped()
	g.router.DispatchAll(g)

	g.metrics.TickSeconds.Observe(time.Since(start).Seconds())
}

// reportDropped publishes notifications lost to queue overflow since the last frame
func (g *Game) reportDropped() {
	total := g.queue.Dropped()
	if total == g.dropped {
		return
	}
	lost := total - g.dropped
	g.dropped = total
	g.metrics.EventsDropped.Add(float64(lost))
	g.log.Warn("event queue overflow",
		zap.Int64("frame", g.frame),
		zap.Uint64("dropped", lost))
}

// step is one unpaused simulation tick
func (g *Game) step(dt float32) {
	g.level.Elapsed += float64(dt)

	g.transients.UpdateProjectiles(dt)
	g.transients.UpdateBlackHoles(dt)
	g.destroy.FireChains(dt)

	g.accumulator += dt
	ts := g.bridge.Timestep()
	for n := 0; n < g.maxSubSteps && g.accumulator >= ts; n++ {
		g.bridge.Step()
		g.accumulator -= ts
	}
	// Backlog beyond the substep budget is dropped rather than carried forward
	if g.accumulator >= ts {
		g.accumulator = 0
	}

	g.destroy.CleanupGround()
	g.combo.Update(dt)
	g.checkVictory()
}

// progress is the 0..1 completion of the level objective
func (g *Game) progress() float64 {
	if g.levelDef == nil || g.levelDef.Win.Value <= 0 {
		return 0
	}
	target := float64(g.levelDef.Win.Value)
	var p float64
	switch g.levelDef.Win.Type {
	case config.WinScore:
		p = float64(g.level.Score) / target
	case config.WinDestructionCount:
		p = float64(g.level.Destroyed/g.cfg.Scoring.VoxelsPerBuilding) / target
	}
	return min(p, 1)
}

func (g *Game) checkVictory() {
	if g.level.Won || g.progress() < 1 {
		return
	}
	g.level.Won = true
	g.level.Running = false
	g.metrics.LevelsWon.Inc()

	g.log.Info("level won",
		zap.Int("level", g.level.Level),
		zap.String("run_id", g.level.RunID),
		zap.Int("score", g.level.Score),
		zap.Int("destroyed", g.level.Destroyed),
		zap.Float64("elapsed", g.level.Elapsed))

	g.push(event.EventLevelWon, &event.LevelPayload{
		Level:   g.level.Level,
		Name:    g.level.Name,
		RunID:   g.level.RunID,
		Score:   g.level.Score,
		Elapsed: g.level.Elapsed,
		Paused:  g.pausedFor(),
	})
}

// Pause freezes physics, destruction, scoring, combo decay and pending chains
func (g *Game) Pause() { g.setPaused(true) }

// Resume undoes Pause
func (g *Game) Resume() { g.setPaused(false) }

// TogglePause flips the pause state and returns the new one
func (g *Game) TogglePause() bool {
	g.setPaused(!g.paused)
	return g.paused
}

func (g *Game) setPaused(p bool) {
	if g.paused == p {
		return
	}
	g.paused = p
	if g.clock != nil {
		if p {
			g.clock.Pause()
		} else {
			g.clock.Resume()
		}
	}
	g.push(event.EventPauseToggled, &event.PausePayload{Paused: p})
}

// Snapshot is the read-only HUD view of the current frame
func (g *Game) Snapshot() event.HUDPayload {
	fps := g.fps
	if g.clock != nil {
		if f := g.clock.FPS(); f > 0 {
			fps = f
		}
	}
	return event.HUDPayload{
		Score:      g.level.Score,
		Money:      g.level.Money,
		FPS:        fps,
		Multiplier: g.combo.Multiplier(),
		Destroyed:  g.level.Destroyed,
		Progress:   g.progress(),
		Paused:     g.paused,
		PausedFor:  g.pausedFor(),
		Running:    g.level.Running,
	}
}

// pausedFor is the wall time spent paused since the level loaded; 0 without a clock
func (g *Game) pausedFor() float64 {
	if g.clock == nil {
		return 0
	}
	return g.clock.TotalPauseDuration().Seconds()
}

// ToolIDs lists the tools the current level allows
func (g *Game) ToolIDs() []string {
	ids := g.tables.ToolIDs()
	if g.levelDef == nil {
		return ids
	}
	out := ids[:0]
	for _, id := range ids {
		if g.levelDef.AllowsTool(id) {
			out = append(out, id)
		}
	}
	return out
}

func (g *Game) push(t event.EventType, payload any) {
	g.queue.Push(event.GameEvent{Type: t, Payload: payload, Frame: g.frame})
}

// toolKey normalizes player input to a table id
func toolKey(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }
