package parameter

// Rigid body backend defaults
const (
	Gravity = -15.0

	// SleepSpeed is the linear speed below which a body starts accumulating idle time
	SleepSpeed = 0.5

	// SleepTime is the idle time in seconds before a body is put to sleep
	SleepTime = 0.1

	LinearDamping  = 0.01
	AngularDamping = 0.02

	GroundRestitution = 0.1
	GroundFriction    = 0.5

	// GroundY is the top surface of the static ground plane
	GroundY = 0.0

	// GroundHalfExtent bounds the ground slab; bodies past its edge fall freely
	GroundHalfExtent = 75.0

	// BroadphaseCellSize is the spatial hash cell edge for box push-out
	BroadphaseCellSize = 2.0

	// MaxBodiesPerCell caps a broadphase cell
	MaxBodiesPerCell = 15

	// VoxelMass is the mass of one dynamic voxel body
	VoxelMass = 1.0
)
