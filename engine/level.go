package engine

// LevelState is the per-level mutable state owned by the Game
type LevelState struct {
	Level       int
	Name        string
	RunID       string
	Score       int
	Money       int
	Elapsed     float64 // seconds of unpaused play
	Destroyed   int     // voxels scored
	TotalVoxels int     // voxels ever appended this level
	Running     bool
	Won         bool
}

// reset clears everything but identity fields the caller sets afterwards
func (l *LevelState) reset() {
	*l = LevelState{}
}

// ToolResult is the outcome of Game.UseTool
type ToolResult uint8

const (
	ToolApplied ToolResult = iota
	ToolUnknown
	ToolIgnored // level not running, or paused
	ToolInsufficientFunds
	ToolCapacityExceeded
	ToolNotAllowed
)

var toolResultNames = [...]string{
	ToolApplied:           "applied",
	ToolUnknown:           "unknown",
	ToolIgnored:           "ignored",
	ToolInsufficientFunds: "insufficient_funds",
	ToolCapacityExceeded:  "capacity_exceeded",
	ToolNotAllowed:        "not_allowed",
}

func (r ToolResult) String() string {
	if int(r) < len(toolResultNames) {
		return toolResultNames[r]
	}
	return "invalid"
}
