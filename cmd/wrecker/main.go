package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/wrecker/audio"
	"github.com/lixenwraith/wrecker/component"
	"github.com/lixenwraith/wrecker/config"
	"github.com/lixenwraith/wrecker/engine"
	"github.com/lixenwraith/wrecker/event"
	"github.com/lixenwraith/wrecker/physics"
	"github.com/lixenwraith/wrecker/render"
)

var (
	configFlag   = flag.String("config", "", "path to a TOML config file")
	tablesFlag   = flag.String("tables", "", "path to a YAML tool/level table, overrides tables.path")
	levelFlag    = flag.Int("level", 0, "start level, overrides engine.start_level")
	headlessFlag = flag.Bool("headless", false, "run without a terminal, firing at random voxels")
	durationFlag = flag.Duration("duration", 0, "headless run length, overrides viewer.duration")
	seedFlag     = flag.Int64("seed", 0, "generation seed, overrides engine.seed")
)

// autoFireInterval paces the headless demo shots
const autoFireInterval = 1500 * time.Millisecond

func main() {
	var screen tcell.Screen
	defer func() {
		if r := recover(); r != nil {
			if screen != nil {
				screen.Fini()
			}
			fmt.Fprintf(os.Stderr, "\n\x1b[31mWRECKER CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()

	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	applyFlags(cfg)

	tables, err := config.LoadTables(cfg.Tables.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load tables: %v\n", err)
		os.Exit(1)
	}

	log, err := newLogger(cfg.Logging, !cfg.Viewer.Headless)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	world, err := physics.Open(ctx, cfg.Physics.World(), log.Named("physics"))
	if err != nil {
		log.Fatal("physics init failed", zap.Error(err))
	}
	defer world.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	metrics := engine.NewMetrics(reg, cfg.Metrics.Namespace)

	clock := engine.NewFrameClock(engine.NewMonotonicTimeProvider(), cfg.Engine.MaxFrameDelta)
	game := engine.NewGame(engine.GameDeps{
		Config:  cfg,
		Tables:  tables,
		Bridge:  world,
		Metrics: metrics,
		Clock:   clock,
		Logger:  log.Named("engine"),
	})

	sounds := audio.NewSoundManager(audio.FromConfig(cfg.Audio), log.Named("audio"))
	if err := sounds.Initialize(); err != nil {
		log.Warn("audio unavailable, continuing without sound", zap.Error(err))
	} else {
		defer sounds.Cleanup()
	}
	game.Router().Register(audio.Handler[*engine.Game](sounds))

	var viewer *render.Viewer
	if !cfg.Viewer.Headless {
		screen, err = tcell.NewScreen()
		if err == nil {
			err = screen.Init()
		}
		if err != nil {
			log.Fatal("terminal init failed", zap.Error(err))
		}
		defer screen.Fini()
		viewer = render.NewViewer(screen, game.Buffer(), nil)
		game.Router().Register(render.Handler[*engine.Game](viewer))
	}

	if !game.LoadLevel(cfg.Engine.StartLevel) {
		log.Fatal("start level unavailable", zap.Int("level", cfg.Engine.StartLevel))
	}
	if viewer != nil {
		viewer.SetTools(game.ToolIDs())
	}

	// The frame loop ending, for any reason, stops the metrics server too
	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()
	g, gctx := errgroup.WithContext(runCtx)

	if cfg.Metrics.Listen != "" {
		srv := &http.Server{
			Addr:              cfg.Metrics.Listen,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			log.Info("metrics listening", zap.String("addr", cfg.Metrics.Listen))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		defer cancelRun()
		if viewer != nil {
			return runInteractive(gctx, game, clock, screen, viewer, cfg.Viewer.FrameInterval, log)
		}
		return runHeadless(gctx, game, clock, tables, cfg, log)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errQuit) {
		log.Error("wrecker stopped", zap.Error(err))
		os.Exit(1)
	}
	lvl := game.Level()
	log.Info("wrecker stopped",
		zap.Int("level", lvl.Level),
		zap.Int("score", lvl.Score),
		zap.Int("destroyed", lvl.Destroyed))
}

// errQuit is returned by the frame loop when the player quits, cancelling the group
var errQuit = errors.New("quit")

func applyFlags(cfg *config.Config) {
	if *tablesFlag != "" {
		cfg.Tables.Path = *tablesFlag
	}
	if *levelFlag > 0 {
		cfg.Engine.StartLevel = *levelFlag
	}
	if *headlessFlag {
		cfg.Viewer.Headless = true
	}
	if *durationFlag > 0 {
		cfg.Viewer.Duration = *durationFlag
	}
	if *seedFlag != 0 {
		cfg.Engine.Seed = *seedFlag
	}
}

// runInteractive owns the terminal: one goroutine polls input, the frame loop
// applies commands, ticks the game and draws
func runInteractive(ctx context.Context, game *engine.Game, clock *engine.FrameClock,
	screen tcell.Screen, viewer *render.Viewer, interval time.Duration, log *zap.Logger) error {

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			cmd := viewer.HandleEvent(ev)
			switch cmd.Kind {
			case render.CmdQuit:
				return errQuit
			case render.CmdPause:
				game.TogglePause()
			case render.CmdNextLevel:
				if game.NextLevel() {
					viewer.SetTools(game.ToolIDs())
				}
			case render.CmdUseTool:
				if res := game.UseTool(cmd.Tool, cmd.Target); res != engine.ToolApplied {
					log.Debug("tool not applied", zap.String("tool", cmd.Tool), zap.Stringer("result", res))
				}
			}
		case <-ticker.C:
			game.Tick(clock.Tick())
			viewer.Draw()
		}
	}
}

// runHeadless drives the game without a screen, firing the level's first
// destruction tool at a random live voxel and advancing on victory
func runHeadless(ctx context.Context, game *engine.Game, clock *engine.FrameClock,
	tables *config.Tables, cfg *config.Config, log *zap.Logger) error {

	if cfg.Viewer.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Viewer.Duration)
		defer cancel()
	}

	won := 0
	game.Router().Register(event.HandlerFunc[*engine.Game]{
		Types: []event.EventType{event.EventLevelWon},
		Fn:    func(*engine.Game, event.GameEvent) { won++ },
	})

	rng := rand.New(rand.NewSource(cfg.Engine.Seed + 1))
	frames := time.NewTicker(cfg.Viewer.FrameInterval)
	defer frames.Stop()
	shots := time.NewTicker(autoFireInterval)
	defer shots.Stop()
	report := time.NewTicker(5 * time.Second)
	defer report.Stop()

	handled := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-frames.C:
			game.Tick(clock.Tick())
			if won > handled {
				handled = won
				if !game.NextLevel() {
					log.Info("all levels complete")
					return nil
				}
			}
		case <-shots.C:
			tool, target, ok := pickShot(game, tables, rng)
			if !ok {
				continue
			}
			res := game.UseTool(tool, target)
			log.Debug("auto fire",
				zap.String("tool", tool),
				zap.Stringer("result", res),
				zap.Float32("x", target.X()),
				zap.Float32("z", target.Z()))
		case <-report.C:
			lvl := game.Level()
			log.Debug("frame stats",
				zap.Float64("fps", clock.FPS()),
				zap.Int("score", lvl.Score),
				zap.Int("money", lvl.Money),
				zap.Int("destroyed", lvl.Destroyed))
		}
	}
}

// pickShot selects the first allowed destruction tool and a random live voxel
func pickShot(game *engine.Game, tables *config.Tables, rng *rand.Rand) (string, mgl32.Vec3, bool) {
	var toolID string
	for _, id := range game.ToolIDs() {
		if t, err := tables.Tool(id); err == nil && t.Kind == config.ToolDestroy {
			toolID = id
			break
		}
	}
	if toolID == "" {
		return "", mgl32.Vec3{}, false
	}

	voxels := game.Voxels()
	live := make([]int, 0, len(voxels))
	for i := range voxels {
		if voxels[i].State != component.StateRemoved {
			live = append(live, i)
		}
	}
	if len(live) == 0 {
		return "", mgl32.Vec3{}, false
	}
	return toolID, voxels[live[rng.Intn(len(live))]].Position, true
}
