package engine

// ComboScorer is a decaying-window combo machine
// Idle (count 0) -> Active on score; Active -> Active on score within the
// window (count++); Active -> Idle when the window runs out
type ComboScorer struct {
	count  int
	timer  float32
	step   int
	window float32
}

// NewComboScorer creates a scorer where every step hits raise the multiplier by one
func NewComboScorer(step int, window float32) *ComboScorer {
	if step <= 0 {
		step = 1
	}
	return &ComboScorer{step: step, window: window}
}

// Score registers one scoring event and returns points scaled by the updated multiplier
func (c *ComboScorer) Score(points int) int {
	if c.timer > 0 {
		c.count++
	} else {
		c.count = 1
	}
	c.timer = c.window
	return points * c.Multiplier()
}

// Update decays the window; on expiry the combo resets
func (c *ComboScorer) Update(dt float32) {
	if c.timer <= 0 {
		return
	}
	c.timer -= dt
	if c.timer <= 0 {
		c.timer = 0
		c.count = 0
	}
}

// Multiplier is 1 + count/step, integer division
func (c *ComboScorer) Multiplier() int { return 1 + c.count/c.step }

func (c *ComboScorer) Count() int      { return c.count }
func (c *ComboScorer) Timer() float32  { return c.timer }
func (c *ComboScorer) Active() bool    { return c.count > 0 }

// Reset returns to Idle
func (c *ComboScorer) Reset() {
	c.count = 0
	c.timer = 0
}
