package engine

import (
	"github.com/lixenwraith/wrecker/component"
	"github.com/lixenwraith/wrecker/physics"
	"github.com/lixenwraith/wrecker/render"
	"github.com/lixenwraith/wrecker/vmath"
)

// slotState records what a render slot last received
type slotState uint8

const (
	slotUnwritten slotState = iota
	slotStatic              // Dormant pose written
	slotAwake               // written from an awake body last frame
	slotAsleep              // final pose of a sleeping body written
	slotHidden              // zero-scale written
)

// RenderSync mirrors voxel poses into the instance buffer, writing each slot
// only when its content can have changed
type RenderSync struct {
	store  *VoxelStore
	bridge physics.Bridge
	buffer *render.InstanceBuffer
	slots  []slotState
}

// SyncStats counts the slot writes of one Sync
type SyncStats struct {
	Moved   int
	Static  int
	Hidden  int
	Skipped int
}

// Writes is the total number of slots written
func (s SyncStats) Writes() int { return s.Moved + s.Static + s.Hidden }

func NewRenderSync(store *VoxelStore, bridge physics.Bridge, buffer *render.InstanceBuffer) *RenderSync {
	return &RenderSync{
		store:  store,
		bridge: bridge,
		buffer: buffer,
		slots:  make([]slotState, buffer.Capacity()),
	}
}

// Sync runs once per frame, paused or not
func (r *RenderSync) Sync() SyncStats {
	var st SyncStats
	n := min(r.store.Len(), len(r.slots))

	for i := 0; i < n; i++ {
		v := r.store.At(i)
		prev := r.slots[i]

		switch v.State {
		case component.StateActive:
			sleeping := r.bridge.IsSleeping(v.Body)
			if sleeping && (prev == slotAsleep || prev == slotStatic) {
				// Body never moved since the last write, or its resting pose is already in the slot
				st.Skipped++
				continue
			}
			v.Position = r.bridge.Position(v.Body)
			v.Rotation = r.bridge.Rotation(v.Body)
			r.write(i, v, prev)
			if sleeping {
				r.slots[i] = slotAsleep
			} else {
				r.slots[i] = slotAwake
			}
			st.Moved++

		case component.StateRemoved:
			if prev == slotHidden {
				st.Skipped++
				continue
			}
			r.buffer.SetMatrix(i, vmath.HiddenMatrix())
			r.slots[i] = slotHidden
			st.Hidden++

		default:
			if prev != slotUnwritten {
				st.Skipped++
				continue
			}
			r.write(i, v, prev)
			r.slots[i] = slotStatic
			st.Static++
		}
	}

	r.buffer.SetCount(r.store.Len())
	return st
}

func (r *RenderSync) write(i int, v *component.Voxel, prev slotState) {
	r.buffer.SetMatrix(i, vmath.InstanceMatrix(v.Position, v.Rotation, 1))
	if prev == slotUnwritten {
		r.buffer.SetColor(i, v.Color)
	}
}

// Reset forgets every slot, used when the store is rebuilt
func (r *RenderSync) Reset() {
	clear(r.slots)
	r.buffer.Reset()
}
