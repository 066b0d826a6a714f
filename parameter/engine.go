package parameter

import "time"

// Game Loop & Engine Timing
const (
	// FrameUpdateInterval is the rendering frame rate interval (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond

	// PhysicsTimestep is the fixed internal integration step in seconds
	PhysicsTimestep = 1.0 / 60.0

	// MaxFrameDelta clamps a single tick's delta in seconds to keep slow frames stable
	MaxFrameDelta = 0.05

	// MaxSubSteps bounds physics steps per tick when the accumulator falls behind
	MaxSubSteps = 3
)

// EventQueueSize is the number of notifications one frame can raise before
// the oldest are discarded
const EventQueueSize = 1024

// Capacity
const (
	// MaxActiveBodies is the soft cap on voxels holding a physics body at once
	MaxActiveBodies = 1500

	// RenderCapacity is the fixed instance buffer size, hard cap on voxels per level
	RenderCapacity = 20000

	// VoxelSize is the edge length of one voxel cube
	VoxelSize = 1.0
)

// Destruction tuning
const (
	// VerticalBias lifts explosion impulses so debris is thrown up and out
	VerticalBias = 3.0

	// PropagationRadius is the XZ reach of upward support propagation
	PropagationRadius = 1.2

	// CaptureRadius is the black hole event horizon
	CaptureRadius = 2.0

	// NearGroundY retires scored voxels that have settled on the ground
	NearGroundY = 1.2

	// DeepFallY retires any voxel that fell through the world
	DeepFallY = -5.0

	// SinkY is where captured voxels are parked before removal
	SinkY = -1000.0

	// ChainDelayMin and ChainDelayMax bound the explosive fuse in seconds
	ChainDelayMin = 0.2
	ChainDelayMax = 0.6

	// ChainForce and ChainRadius define secondary detonations
	ChainForce  = 30.0
	ChainRadius = 4.0
)

// Scoring
const (
	PointsPerVoxel    = 1
	MoneyPerVoxel     = 3
	ComboStep         = 5
	ComboWindow       = 2.0
	VoxelsPerBuilding = 20
	StartingMoney     = 10000
)

// Projectiles and transients
const (
	ProjectileSpeed       = 35.0
	ProjectileLife        = 5.0
	ProjectileHalfSize    = 0.5
	ProjectileSpawnOffset = 2.0
	BlackHoleLife         = 5.0

	// LauncherX, LauncherY, LauncherZ is the default shot origin (camera position)
	LauncherX = 25.0
	LauncherY = 20.0
	LauncherZ = 25.0
)

// City layout
const (
	// CityHalfExtent bounds building origins to [-extent, extent] on X and Z
	CityHalfExtent = 15.0

	// DistrictScale converts plot coordinates to noise space
	DistrictScale = 0.08
)
