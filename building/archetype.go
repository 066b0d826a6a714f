// Package building describes what a building looks like: archetype lattices,
// theme palettes and city layout. It never touches physics or the render buffer
package building

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownArchetype is returned for ids with no lattice definition
var ErrUnknownArchetype = errors.New("unknown archetype")

// Archetype selects a lattice size and coloring rule
type Archetype uint8

const (
	House Archetype = iota
	Building
	Skyscraper
	Factory
	GasStation
)

// Dims is a lattice size in voxels
type Dims struct {
	W, H, D int
}

// Volume is the number of lattice points
func (d Dims) Volume() int { return d.W * d.H * d.D }

var archetypeDims = [...]Dims{
	House:      {4, 4, 4},
	Building:   {5, 8, 5},
	Skyscraper: {5, 15, 5},
	Factory:    {8, 6, 6},
	GasStation: {6, 3, 4},
}

var archetypeNames = [...]string{
	House:      "HOUSE",
	Building:   "BUILDING",
	Skyscraper: "SKYSCRAPER",
	Factory:    "FACTORY",
	GasStation: "GAS_STATION",
}

func (a Archetype) String() string {
	if int(a) < len(archetypeNames) {
		return archetypeNames[a]
	}
	return fmt.Sprintf("Archetype(%d)", a)
}

// Dims returns the lattice size
func (a Archetype) Dims() Dims {
	if int(a) < len(archetypeDims) {
		return archetypeDims[a]
	}
	return Dims{}
}

// ParseArchetype maps a tool or table id to its archetype
func ParseArchetype(id string) (Archetype, error) {
	key := strings.ToUpper(strings.TrimSpace(id))
	for i, name := range archetypeNames {
		if name == key {
			return Archetype(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownArchetype, id)
}

// MaxVoxels is the upper bound a single Generate call can emit
func (a Archetype) MaxVoxels() int { return a.Dims().Volume() }
