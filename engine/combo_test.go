package engine

import "testing"

func TestComboMultiplier(t *testing.T) {
	c := NewComboScorer(5, 2)

	tests := []struct {
		hit        int
		wantPoints int
	}{
		{1, 1}, {2, 1}, {3, 1}, {4, 1},
		{5, 2}, // count 5 -> 1 + 5/5
		{6, 2},
		{10, 3},
	}

	hit := 0
	for _, tt := range tests {
		var got int
		for hit < tt.hit {
			got = c.Score(1)
			hit++
		}
		if got != tt.wantPoints {
			t.Errorf("hit %d: points = %d, want %d", tt.hit, got, tt.wantPoints)
		}
		if c.Count() != tt.hit {
			t.Errorf("hit %d: count = %d", tt.hit, c.Count())
		}
	}
}

func TestComboWindowExpiry(t *testing.T) {
	c := NewComboScorer(5, 2)
	for i := 0; i < 5; i++ {
		c.Score(1)
	}
	if c.Multiplier() != 2 {
		t.Fatalf("multiplier = %d, want 2", c.Multiplier())
	}

	c.Update(1.5)
	if !c.Active() {
		t.Fatal("combo expired inside window")
	}

	// A hit inside the window refreshes it
	c.Score(1)
	c.Update(1.5)
	if c.Count() != 6 {
		t.Errorf("count = %d, want 6", c.Count())
	}

	c.Update(0.6)
	if c.Active() || c.Count() != 0 || c.Multiplier() != 1 {
		t.Errorf("after expiry: active=%v count=%d mult=%d", c.Active(), c.Count(), c.Multiplier())
	}

	// Idle scorer restarts at one
	if got := c.Score(10); got != 10 {
		t.Errorf("points after restart = %d, want 10", got)
	}
}

func TestComboZeroStepClamped(t *testing.T) {
	c := NewComboScorer(0, 1)
	if got := c.Score(1); got != 2 {
		t.Errorf("points = %d, want 2 with step clamped to 1", got)
	}
}
