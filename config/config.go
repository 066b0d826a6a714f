// Package config loads the engine configuration (TOML) and the tool and
// level tables (YAML) the engine consumes as external data
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/wrecker/parameter"
	"github.com/lixenwraith/wrecker/physics"
)

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Engine  EngineConfig  `toml:"engine"`
	Scoring ScoringConfig `toml:"scoring"`
	Physics PhysicsConfig `toml:"physics"`
	Logging LoggingConfig `toml:"logging"`
	Metrics MetricsConfig `toml:"metrics"`
	Audio   AudioConfig   `toml:"audio"`
	Viewer  ViewerConfig  `toml:"viewer"`
	Tables  TablesConfig  `toml:"tables"`
}

type EngineConfig struct {
	MaxActiveBodies int     `toml:"max_active_bodies"` // soft cap on voxels with a physics body
	RenderCapacity  int     `toml:"render_capacity"`   // hard cap on voxels per level
	MaxFrameDelta   float64 `toml:"max_frame_delta"`   // seconds
	MaxSubSteps     int     `toml:"max_substeps"`
	Seed            int64   `toml:"seed"` // 0 seeds from the clock
	StartLevel      int     `toml:"start_level"`

	VerticalBias      float64 `toml:"vertical_bias"`
	PropagationRadius float64 `toml:"propagation_radius"`
	CaptureRadius     float64 `toml:"capture_radius"`
	NearGroundY       float64 `toml:"near_ground_y"`
	DeepFallY         float64 `toml:"deep_fall_y"`
	ChainDelayMin     float64 `toml:"chain_delay_min"`
	ChainDelayMax     float64 `toml:"chain_delay_max"`
	ChainForce        float64 `toml:"chain_force"`
	ChainRadius       float64 `toml:"chain_radius"`
}

// ScoringConfig holds the per-voxel economy; earlier tunings disagreed on
// these, so they are configuration rather than behavior
type ScoringConfig struct {
	PointsPerVoxel    int     `toml:"points_per_voxel"`
	MoneyPerVoxel     int     `toml:"money_per_voxel"`
	ComboStep         int     `toml:"combo_step"`
	ComboWindow       float64 `toml:"combo_window"` // seconds
	VoxelsPerBuilding int     `toml:"voxels_per_building"`
	StartingMoney     int     `toml:"starting_money"`
}

type PhysicsConfig struct {
	Gravity        float64 `toml:"gravity"`
	Timestep       float64 `toml:"timestep"`
	SleepSpeed     float64 `toml:"sleep_speed"`
	SleepTime      float64 `toml:"sleep_time"`
	LinearDamping  float64 `toml:"linear_damping"`
	AngularDamping float64 `toml:"angular_damping"`
	Restitution    float64 `toml:"restitution"`
	Friction       float64 `toml:"friction"`
	GroundExtent   float64 `toml:"ground_extent"`
	CellSize       float64 `toml:"cell_size"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // "console" or "json"
	File   string `toml:"file"`   // empty logs to stderr
}

type MetricsConfig struct {
	Listen    string `toml:"listen"` // empty disables the /metrics endpoint
	Namespace string `toml:"namespace"`
}

type AudioConfig struct {
	Enabled bool    `toml:"enabled"`
	Volume  float64 `toml:"volume"`
}

type ViewerConfig struct {
	Headless      bool          `toml:"headless"`
	FrameInterval time.Duration `toml:"frame_interval"`
	Duration      time.Duration `toml:"duration"` // headless run length, 0 runs until cancelled
}

type TablesConfig struct {
	Path string `toml:"path"` // empty uses the embedded tables
}

// Load reads path over the defaults; an empty path returns the defaults
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Defaults returns the compiled-in configuration
func Defaults() *Config {
	return &Config{
		Engine: EngineConfig{
			MaxActiveBodies:   parameter.MaxActiveBodies,
			RenderCapacity:    parameter.RenderCapacity,
			MaxFrameDelta:     parameter.MaxFrameDelta,
			MaxSubSteps:       parameter.MaxSubSteps,
			StartLevel:        1,
			VerticalBias:      parameter.VerticalBias,
			PropagationRadius: parameter.PropagationRadius,
			CaptureRadius:     parameter.CaptureRadius,
			NearGroundY:       parameter.NearGroundY,
			DeepFallY:         parameter.DeepFallY,
			ChainDelayMin:     parameter.ChainDelayMin,
			ChainDelayMax:     parameter.ChainDelayMax,
			ChainForce:        parameter.ChainForce,
			ChainRadius:       parameter.ChainRadius,
		},
		Scoring: ScoringConfig{
			PointsPerVoxel:    parameter.PointsPerVoxel,
			MoneyPerVoxel:     parameter.MoneyPerVoxel,
			ComboStep:         parameter.ComboStep,
			ComboWindow:       parameter.ComboWindow,
			VoxelsPerBuilding: parameter.VoxelsPerBuilding,
			StartingMoney:     parameter.StartingMoney,
		},
		Physics: PhysicsConfig{
			Gravity:        parameter.Gravity,
			Timestep:       parameter.PhysicsTimestep,
			SleepSpeed:     parameter.SleepSpeed,
			SleepTime:      parameter.SleepTime,
			LinearDamping:  parameter.LinearDamping,
			AngularDamping: parameter.AngularDamping,
			Restitution:    parameter.GroundRestitution,
			Friction:       parameter.GroundFriction,
			GroundExtent:   parameter.GroundHalfExtent,
			CellSize:       parameter.BroadphaseCellSize,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Metrics: MetricsConfig{
			Namespace: "wrecker",
		},
		Audio: AudioConfig{
			Enabled: true,
			Volume:  0.5,
		},
		Viewer: ViewerConfig{
			FrameInterval: parameter.FrameUpdateInterval,
		},
	}
}

// Validate checks cross-field constraints
func (c *Config) Validate() error {
	e := c.Engine
	switch {
	case e.RenderCapacity <= 0:
		return fmt.Errorf("%w: engine.render_capacity must be positive", ErrInvalid)
	case e.MaxActiveBodies <= 0:
		return fmt.Errorf("%w: engine.max_active_bodies must be positive", ErrInvalid)
	case e.MaxFrameDelta <= 0:
		return fmt.Errorf("%w: engine.max_frame_delta must be positive", ErrInvalid)
	case e.MaxSubSteps <= 0:
		return fmt.Errorf("%w: engine.max_substeps must be positive", ErrInvalid)
	case e.ChainDelayMin <= 0 || e.ChainDelayMax < e.ChainDelayMin:
		return fmt.Errorf("%w: engine chain delay window [%v, %v] must be positive and ordered",
			ErrInvalid, e.ChainDelayMin, e.ChainDelayMax)
	case e.ChainRadius <= 0 || e.PropagationRadius <= 0 || e.CaptureRadius <= 0:
		return fmt.Errorf("%w: engine radii must be positive", ErrInvalid)
	}

	s := c.Scoring
	switch {
	case s.ComboStep <= 0:
		return fmt.Errorf("%w: scoring.combo_step must be positive", ErrInvalid)
	case s.ComboWindow <= 0:
		return fmt.Errorf("%w: scoring.combo_window must be positive", ErrInvalid)
	case s.VoxelsPerBuilding <= 0:
		return fmt.Errorf("%w: scoring.voxels_per_building must be positive", ErrInvalid)
	case s.PointsPerVoxel < 0 || s.MoneyPerVoxel < 0:
		return fmt.Errorf("%w: scoring rewards must not be negative", ErrInvalid)
	}

	if err := c.Physics.World().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("%w: logging.format %q", ErrInvalid, c.Logging.Format)
	}
	return nil
}

// World converts the section into the physics backend config
func (p PhysicsConfig) World() physics.Config {
	return physics.Config{
		Gravity:        float32(p.Gravity),
		Timestep:       float32(p.Timestep),
		SleepSpeed:     float32(p.SleepSpeed),
		SleepTime:      float32(p.SleepTime),
		LinearDamping:  float32(p.LinearDamping),
		AngularDamping: float32(p.AngularDamping),
		Restitution:    float32(p.Restitution),
		Friction:       float32(p.Friction),
		GroundY:        parameter.GroundY,
		GroundExtent:   float32(p.GroundExtent),
		CellSize:       float32(p.CellSize),
	}
}
