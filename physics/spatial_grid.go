package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/wrecker/parameter"
)

// cellKey addresses one cube of the uniform hash
type cellKey struct {
	X, Y, Z int32
}

// Cell holds a fixed number of body slots
// Value type so the slot array stays contiguous
type Cell struct {
	Count uint8
	Slots [parameter.MaxBodiesPerCell]uint32
}

// SpatialGrid is a sparse uniform hash of fixed-capacity cells used as the
// box push-out broadphase. Cells are reused across steps: Clear resets counts
// but keeps the allocated cells
type SpatialGrid struct {
	cellSize float32
	cells    map[cellKey]*Cell
}

// NewSpatialGrid creates a grid with the given cell edge length
func NewSpatialGrid(cellSize float32) *SpatialGrid {
	if cellSize <= 0 {
		cellSize = parameter.BroadphaseCellSize
	}
	return &SpatialGrid{
		cellSize: cellSize,
		cells:    make(map[cellKey]*Cell),
	}
}

func (g *SpatialGrid) keyOf(p mgl32.Vec3) cellKey {
	return cellKey{
		X: int32(math.Floor(float64(p.X() / g.cellSize))),
		Y: int32(math.Floor(float64(p.Y() / g.cellSize))),
		Z: int32(math.Floor(float64(p.Z() / g.cellSize))),
	}
}

// Add inserts a slot into the cell containing p
// Returns false when the cell is full (soft clip)
func (g *SpatialGrid) Add(slot uint32, p mgl32.Vec3) bool {
	k := g.keyOf(p)
	cell, ok := g.cells[k]
	if !ok {
		cell = &Cell{}
		g.cells[k] = cell
	}
	if int(cell.Count) >= len(cell.Slots) {
		return false
	}
	cell.Slots[cell.Count] = slot
	cell.Count++
	return true
}

// Remove deletes a slot from the cell containing p using swap-remove
func (g *SpatialGrid) Remove(slot uint32, p mgl32.Vec3) {
	cell, ok := g.cells[g.keyOf(p)]
	if !ok {
		return
	}
	for i := uint8(0); i < cell.Count; i++ {
		if cell.Slots[i] == slot {
			cell.Count--
			if i < cell.Count {
				cell.Slots[i] = cell.Slots[cell.Count]
			}
			cell.Slots[cell.Count] = 0
			return
		}
	}
}

// GetAllAt returns a view of the slots in the cell containing p
// INTERNAL USE ONLY - the view is invalidated by the next Add/Remove/Clear
func (g *SpatialGrid) GetAllAt(p mgl32.Vec3) []uint32 {
	cell, ok := g.cells[g.keyOf(p)]
	if !ok || cell.Count == 0 {
		return nil
	}
	return cell.Slots[:cell.Count]
}

// QueryBox calls fn for every slot stored in a cell overlapping the box [lo, hi]
// A slot spanning several cells is reported once per cell
func (g *SpatialGrid) QueryBox(lo, hi mgl32.Vec3, fn func(slot uint32)) {
	a, b := g.keyOf(lo), g.keyOf(hi)
	for x := a.X; x <= b.X; x++ {
		for y := a.Y; y <= b.Y; y++ {
			for z := a.Z; z <= b.Z; z++ {
				cell, ok := g.cells[cellKey{x, y, z}]
				if !ok {
					continue
				}
				for i := uint8(0); i < cell.Count; i++ {
					fn(cell.Slots[i])
				}
			}
		}
	}
}

// Clear empties every cell
func (g *SpatialGrid) Clear() {
	for _, c := range g.cells {
		c.Count = 0
	}
}
