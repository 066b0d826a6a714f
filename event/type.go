package event

// EventType represents the type of engine notification
type EventType int

const (
	// EventShoot signals a projectile launch
	// Trigger: Game.UseTool with a destroy tool
	// Consumer: AudioSystem | Payload: *ShootPayload
	EventShoot EventType = iota

	// EventExplosion signals a completed blast (primary or chained)
	// Trigger: DestructionEngine.Explode
	// Consumer: AudioSystem, Viewer | Payload: *ExplosionPayload
	EventExplosion

	// EventBuild signals a building was added by the player
	// Trigger: Game.UseTool with a build tool
	// Consumer: AudioSystem | Payload: *BuildPayload
	EventBuild

	// EventBuildRejected signals a build refused for capacity
	// Trigger: Game.UseTool when the render buffer cannot fit the building
	// Consumer: Viewer | Payload: *BuildPayload
	EventBuildRejected

	// EventInsufficientFunds signals a tool use the player cannot afford
	// Trigger: Game.UseTool
	// Consumer: AudioSystem, Viewer | Payload: *FundsPayload
	EventInsufficientFunds

	// EventBlackHole signals a black hole spawn
	// Trigger: Game.UseTool with a black hole tool
	// Consumer: AudioSystem | Payload: *BlackHolePayload
	EventBlackHole

	// EventLevelLoaded signals a fresh level is running
	// Trigger: Game.LoadLevel
	// Consumer: Viewer | Payload: *LevelPayload
	EventLevelLoaded

	// EventLevelWon fires exactly once per level when the win condition is met
	// Trigger: Game victory check
	// Consumer: AudioSystem, Viewer | Payload: *LevelPayload
	EventLevelWon

	// EventPauseToggled signals a pause state change
	// Trigger: Game.Pause / Game.Resume
	// Consumer: Viewer | Payload: *PausePayload
	EventPauseToggled

	// EventHUDUpdate carries the per-tick read-only snapshot
	// Trigger: Game.Tick, every frame
	// Consumer: Viewer | Payload: *HUDPayload
	EventHUDUpdate

	eventTypeCount
)

var eventNames = [eventTypeCount]string{
	EventShoot:             "Shoot",
	EventExplosion:         "Explosion",
	EventBuild:             "Build",
	EventBuildRejected:     "BuildRejected",
	EventInsufficientFunds: "InsufficientFunds",
	EventBlackHole:         "BlackHole",
	EventLevelLoaded:       "LevelLoaded",
	EventLevelWon:          "LevelWon",
	EventPauseToggled:      "PauseToggled",
	EventHUDUpdate:         "HUDUpdate",
}

func (t EventType) String() string {
	if t >= 0 && t < eventTypeCount {
		return eventNames[t]
	}
	return "Unknown"
}

// GameEvent represents a single engine event with metadata
type GameEvent struct {
	Type    EventType
	Payload any
	Frame   int64
}
