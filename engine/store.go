package engine

import (
	"slices"

	"github.com/lixenwraith/wrecker/component"
)

// VoxelStore is the dense voxel arena of one level
// Indices are stable for the life of a level: removal flips State, it never
// shifts the slice. The backing array is sized to the render capacity up front
// so pointers returned by At stay valid across Append
type VoxelStore struct {
	voxels []component.Voxel
}

// NewVoxelStore reserves capacity slots
func NewVoxelStore(capacity int) *VoxelStore {
	return &VoxelStore{voxels: make([]component.Voxel, 0, capacity)}
}

// Len is the number of slots, removed voxels included
func (s *VoxelStore) Len() int { return len(s.voxels) }

// Cap is the reserved slot count
func (s *VoxelStore) Cap() int { return cap(s.voxels) }

// Fits reports whether n more voxels can be appended without exceeding Cap
func (s *VoxelStore) Fits(n int) bool { return len(s.voxels)+n <= cap(s.voxels) }

// Append adds Dormant voxels and returns the index of the first one
// Callers check Fits first; overflow is truncated
func (s *VoxelStore) Append(descs []component.VoxelDescriptor) int {
	first := len(s.voxels)
	for _, d := range descs {
		if len(s.voxels) == cap(s.voxels) {
			break
		}
		s.voxels = append(s.voxels, component.NewVoxel(d))
	}
	return first
}

// At returns the voxel at index i, nil when out of range
func (s *VoxelStore) At(i int) *component.Voxel {
	if i < 0 || i >= len(s.voxels) {
		return nil
	}
	return &s.voxels[i]
}

// Count returns the number of voxels in state st
func (s *VoxelStore) Count(st component.PhysicsState) int {
	n := 0
	for i := range s.voxels {
		if s.voxels[i].State == st {
			n++
		}
	}
	return n
}

// Compact drops Removed voxels and returns how many were dropped
// Only valid at level teardown: it invalidates every index and render slot
func (s *VoxelStore) Compact() int {
	kept := s.voxels[:0]
	for _, v := range s.voxels {
		if v.State != component.StateRemoved {
			kept = append(kept, v)
		}
	}
	dropped := len(s.voxels) - len(kept)
	clear(s.voxels[len(kept):])
	s.voxels = kept
	return dropped
}

// Snapshot copies every slot; the copy does not alias the store
func (s *VoxelStore) Snapshot() []component.Voxel {
	return slices.Clone(s.voxels)
}
