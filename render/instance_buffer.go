package render

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/wrecker/component"
)

// InstanceBuffer is the fixed-capacity per-instance transform and color store
// consumed by a renderer. Slots are addressed by voxel store index
type InstanceBuffer struct {
	matrices []mgl32.Mat4
	colors   []mgl32.Vec3
	count    int

	// dirty tracks slots written since the last Flush
	dirty     []bool
	dirtyList []int
	writes    uint64
}

// NewInstanceBuffer allocates capacity slots
func NewInstanceBuffer(capacity int) *InstanceBuffer {
	return &InstanceBuffer{
		matrices: make([]mgl32.Mat4, capacity),
		colors:   make([]mgl32.Vec3, capacity),
		dirty:    make([]bool, capacity),
	}
}

// Capacity is the hard slot limit
func (b *InstanceBuffer) Capacity() int { return len(b.matrices) }

// Count is the number of slots a renderer should draw
func (b *InstanceBuffer) Count() int { return b.count }

// SetCount clamps n into [0, capacity]
func (b *InstanceBuffer) SetCount(n int) {
	switch {
	case n < 0:
		n = 0
	case n > len(b.matrices):
		n = len(b.matrices)
	}
	b.count = n
}

// Fits reports whether n more slots are available above count
func (b *InstanceBuffer) Fits(count, n int) bool {
	return count+n <= len(b.matrices)
}

// SetMatrix writes the transform of slot i; out of range writes are dropped
func (b *InstanceBuffer) SetMatrix(i int, m mgl32.Mat4) {
	if i < 0 || i >= len(b.matrices) {
		return
	}
	b.matrices[i] = m
	b.markDirty(i)
}

// SetColor writes the color of slot i
func (b *InstanceBuffer) SetColor(i int, c component.Color) {
	if i < 0 || i >= len(b.colors) {
		return
	}
	b.colors[i] = c.Vec3()
	b.markDirty(i)
}

func (b *InstanceBuffer) markDirty(i int) {
	b.writes++
	if !b.dirty[i] {
		b.dirty[i] = true
		b.dirtyList = append(b.dirtyList, i)
	}
}

// Matrix returns the transform of slot i
func (b *InstanceBuffer) Matrix(i int) mgl32.Mat4 {
	if i < 0 || i >= len(b.matrices) {
		return mgl32.Mat4{}
	}
	return b.matrices[i]
}

// Color returns the normalized color of slot i
func (b *InstanceBuffer) Color(i int) mgl32.Vec3 {
	if i < 0 || i >= len(b.colors) {
		return mgl32.Vec3{}
	}
	return b.colors[i]
}

// Writes is the total number of slot writes since creation or Reset
func (b *InstanceBuffer) Writes() uint64 { return b.writes }

// Flush hands the dirty slot indices to fn and clears the dirty set
// The viewer recomposes only the map cells these slots touch
func (b *InstanceBuffer) Flush(fn func(dirty []int)) {
	if len(b.dirtyList) == 0 {
		return
	}
	if fn != nil {
		fn(b.dirtyList)
	}
	for _, i := range b.dirtyList {
		b.dirty[i] = false
	}
	b.dirtyList = b.dirtyList[:0]
}

// Reset zeroes every slot, used at level teardown
func (b *InstanceBuffer) Reset() {
	clear(b.matrices)
	clear(b.colors)
	clear(b.dirty)
	b.dirtyList = b.dirtyList[:0]
	b.count = 0
	b.writes = 0
}
