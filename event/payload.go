package event

import "github.com/go-gl/mathgl/mgl32"

// ShootPayload describes a launched projectile
type ShootPayload struct {
	Tool   string     `toml:"tool"`
	Origin mgl32.Vec3 `toml:"origin"`
	Target mgl32.Vec3 `toml:"target"`
}

// ExplosionPayload describes a completed blast
type ExplosionPayload struct {
	Center    mgl32.Vec3 `toml:"center"`
	Force     float32    `toml:"force"`
	Radius    float32    `toml:"radius"`
	Affected  int        `toml:"affected"`  // voxels inside the radius
	Activated int        `toml:"activated"` // voxels newly given physics, including propagation
	Chained   bool       `toml:"chained"`   // secondary detonation from an explosive voxel

	// Intensity is a 0..1 loudness hint for audio
	Intensity float32 `toml:"intensity"`
}

// BuildPayload describes an accepted or rejected build
type BuildPayload struct {
	Tool     string     `toml:"tool"`
	Position mgl32.Vec3 `toml:"position"`
	Voxels   int        `toml:"voxels"`
}

// FundsPayload describes an unaffordable tool use
type FundsPayload struct {
	Tool  string `toml:"tool"`
	Price int    `toml:"price"`
	Money int    `toml:"money"`
}

// BlackHolePayload describes a spawned black hole
type BlackHolePayload struct {
	Center mgl32.Vec3 `toml:"center"`
	Radius float32    `toml:"radius"`
}

// LevelPayload identifies a level transition
type LevelPayload struct {
	Level   int     `toml:"level"`
	Name    string  `toml:"name"`
	RunID   string  `toml:"run_id"`
	Score   int     `toml:"score"`
	Elapsed float64 `toml:"elapsed"` // simulated seconds, pauses excluded
	Paused  float64 `toml:"paused"`  // wall seconds spent paused during the run
}

// PausePayload carries the new pause state
type PausePayload struct {
	Paused bool `toml:"paused"`
}

// HUDPayload is the read-only per-tick snapshot; collaborators never mutate engine state through it
type HUDPayload struct {
	Score      int     `toml:"score"`
	Money      int     `toml:"money"`
	FPS        float64 `toml:"fps"`
	Multiplier int     `toml:"multiplier"`
	Destroyed  int     `toml:"destroyed"`
	Progress   float64 `toml:"progress"` // 0..1 toward the win condition
	Paused     bool    `toml:"paused"`
	PausedFor  float64 `toml:"paused_for"` // wall seconds paused this level
	Running    bool    `toml:"running"`
}
