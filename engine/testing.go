package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/lixenwraith/wrecker/config"
	"github.com/lixenwraith/wrecker/physics"
)

// NewTestGame creates a Game over a fresh box backend
// A nil cfg uses the defaults with a fixed seed so layouts repeat
func NewTestGame(cfg *config.Config, tables *config.Tables) (*Game, *physics.World, error) {
	if cfg == nil {
		cfg = config.Defaults()
		cfg.Engine.Seed = 1
	}
	world, err := physics.Open(context.Background(), cfg.Physics.World(), zap.NewNop())
	if err != nil {
		return nil, nil, err
	}
	g := NewGame(GameDeps{
		Config: cfg,
		Tables: tables,
		Bridge: world,
	})
	return g, world, nil
}
