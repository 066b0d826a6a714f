package component

import "testing"

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#00d4ff", Color{0x00, 0xd4, 0xff}, false},
		{"0xFF0055", Color{0xff, 0x00, 0x55}, false},
		{"8b4513", Color{0x8b, 0x45, 0x13}, false},
		{"#fff", Color{}, true},
		{"zzzzzz", Color{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestVoxelStateFlags(t *testing.T) {
	v := NewVoxel(VoxelDescriptor{Color: Hex(0x333333)})
	if !v.Active() || v.HasPhysics() {
		t.Errorf("new voxel: Active=%v HasPhysics=%v, want true/false", v.Active(), v.HasPhysics())
	}
	v.State = StateActive
	if !v.Active() || !v.HasPhysics() {
		t.Error("active voxel should be active with physics")
	}
	v.State = StateRemoved
	if v.Active() || v.HasPhysics() {
		t.Error("removed voxel should be neither active nor physical")
	}
}
