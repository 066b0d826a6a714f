package render

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/wrecker/event"
	"github.com/lixenwraith/wrecker/vmath"
)

// Glyphs for the top-down view, tallest voxel wins a cell
const (
	glyphVoxel  = '█'
	glyphDebris = '▪'
	glyphCursor = '+'
	glyphFire   = '*'
	glyphSmoke  = '░'
	hudRows     = 2

	// cellsPerUnit stretches X so a square footprint looks square in a terminal
	cellsPerUnit = 2
	// debrisHeight separates airborne voxels from standing ones
	debrisHeight = 20
	// burstFrames is how long an explosion flash stays on screen
	burstFrames = 8
	// maxBurstRadius bounds the flash in cells
	maxBurstRadius = 15
)

// CommandKind is a player intent decoded from a key press
type CommandKind uint8

const (
	CmdNone CommandKind = iota
	CmdUseTool
	CmdPause
	CmdNextLevel
	CmdQuit
)

// Command is returned by the viewer for the frame loop to apply to the game
type Command struct {
	Kind   CommandKind
	Tool   string
	Target mgl32.Vec3
}

// burst is an expanding fire then smoke ring drawn over the map
type burst struct {
	center mgl32.Vec3
	radius float32
	ttl    int
}

// Viewer is a terminal top-down renderer of the instance buffer plus a HUD
// It only reads the buffer and notification payloads; it never touches engine state
//
// The map is a grid of cells, each two columns wide. Every buffer slot is
// bucketed into the cell under it, and a frame only recomposes the cells whose
// slots the buffer reports dirty, plus cells the cursor or a flash covered
type Viewer struct {
	screen tcell.Screen
	buffer *InstanceBuffer

	tools  []string
	tool   int
	cursor mgl32.Vec3

	hud    event.HUDPayload
	level  string
	status string
	bursts []burst

	// grid layout, rebuilt when the screen size changes
	w, h         int
	gridW, gridH int
	slotCell     []int32   // cell of each slot, -1 when not shown
	cellSlots    [][]int32 // slots bucketed per cell
	placed       int       // slots below this index are bucketed

	stale   []int32
	isStale []bool
	overlay []int32 // cells painted over the map last frame
	redrawn int     // cells recomposed by the last Draw
}

// NewViewer draws buffer on screen; tools is the selectable tool list
func NewViewer(screen tcell.Screen, buffer *InstanceBuffer, tools []string) *Viewer {
	return &Viewer{
		screen: screen,
		buffer: buffer,
		tools:  tools,
	}
}

// SetTools replaces the tool list, keeping the selection in range
func (v *Viewer) SetTools(tools []string) {
	v.tools = tools
	if v.tool >= len(tools) {
		v.tool = 0
	}
}

// Tool returns the selected tool id, empty when none
func (v *Viewer) Tool() string {
	if len(v.tools) == 0 {
		return ""
	}
	return v.tools[v.tool]
}

// Cursor returns the world target under the cursor
func (v *Viewer) Cursor() mgl32.Vec3 { return v.cursor }

// Status returns the last notification line
func (v *Viewer) Status() string { return v.status }

// origin is the screen cell of world (0, 0)
func (v *Viewer) origin() (int, int) {
	return (v.gridW / 2) * cellsPerUnit, hudRows + v.gridH/2
}

// cellOf maps a world position to its grid cell, -1 when off the map
func (v *Viewer) cellOf(p mgl32.Vec3) int32 {
	gx := v.gridW/2 + int(math.Round(float64(p.X())))
	gy := v.gridH/2 + int(math.Round(float64(p.Z())))
	return v.cellAt(gx, gy)
}

func (v *Viewer) cellAt(gx, gy int) int32 {
	if gx < 0 || gx >= v.gridW || gy < 0 || gy >= v.gridH {
		return -1
	}
	return int32(gy*v.gridW + gx)
}

// relayout rebuilds the grid for a new screen size and queues every slot
func (v *Viewer) relayout(w, h int) {
	v.w, v.h = w, h
	v.gridW = w / cellsPerUnit
	v.gridH = max(h-hudRows, 0)
	cells := v.gridW * v.gridH

	v.cellSlots = make([][]int32, cells)
	v.isStale = make([]bool, cells)
	v.stale = v.stale[:0]
	v.overlay = v.overlay[:0]
	if len(v.slotCell) != v.buffer.Capacity() {
		v.slotCell = make([]int32, v.buffer.Capacity())
	}
	for i := range v.slotCell {
		v.slotCell[i] = -1
	}
	v.placed = 0

	v.screen.Clear()
	for c := range cells {
		v.markStale(int32(c))
	}
}

func (v *Viewer) markStale(c int32) {
	if c < 0 || v.isStale[c] {
		return
	}
	v.isStale[c] = true
	v.stale = append(v.stale, c)
}

// place re-buckets slot i from its current matrix
func (v *Viewer) place(i int) {
	cell := int32(-1)
	if i < v.buffer.Count() {
		if m := v.buffer.Matrix(i); !vmath.IsHidden(m) {
			cell = v.cellOf(vmath.MatrixPosition(m))
		}
	}

	old := v.slotCell[i]
	if old != cell {
		if old >= 0 {
			b := v.cellSlots[old]
			for k, s := range b {
				if s == int32(i) {
					b[k] = b[len(b)-1]
					v.cellSlots[old] = b[:len(b)-1]
					break
				}
			}
		}
		if cell >= 0 {
			v.cellSlots[cell] = append(v.cellSlots[cell], int32(i))
		}
		v.slotCell[i] = cell
	}
	v.markStale(old)
	v.markStale(cell)
}

// sync pulls buffer changes since the previous frame into the grid
func (v *Viewer) sync() {
	n := v.buffer.Count()
	v.buffer.Flush(func(dirty []int) {
		for _, i := range dirty {
			v.place(i)
		}
	})
	for i := n; i < v.placed; i++ {
		v.place(i)
	}
	for i := v.placed; i < n; i++ {
		v.place(i)
	}
	v.placed = n
}

// compose paints cell c from the tallest slot in it
func (v *Viewer) compose(c int32) {
	x := int(c%int32(v.gridW)) * cellsPerUnit
	y := hudRows + int(c/int32(v.gridW))

	top, topY := -1, float32(math.Inf(-1))
	for _, s := range v.cellSlots[c] {
		if p := vmath.MatrixPosition(v.buffer.Matrix(int(s))); p.Y() > topY {
			top, topY = int(s), p.Y()
		}
	}

	glyph, style := ' ', tcell.StyleDefault
	if top >= 0 {
		glyph = glyphVoxel
		if topY > debrisHeight {
			glyph = glyphDebris
		}
		style = style.Foreground(toTcell(v.buffer.Color(top)))
	}
	for dx := 0; dx < cellsPerUnit; dx++ {
		v.screen.SetContent(x+dx, y, glyph, nil, style)
	}
}

// paint draws an overlay glyph on cell c and remembers to restore it
func (v *Viewer) paint(c int32, glyph rune, style tcell.Style) {
	if c < 0 {
		return
	}
	x := int(c%int32(v.gridW)) * cellsPerUnit
	y := hudRows + int(c/int32(v.gridW))
	for dx := 0; dx < cellsPerUnit; dx++ {
		v.screen.SetContent(x+dx, y, glyph, nil, style)
	}
	v.overlay = append(v.overlay, c)
}

// Draw renders one frame
func (v *Viewer) Draw() {
	w, h := v.screen.Size()
	if w != v.w || h != v.h {
		v.relayout(w, h)
	}
	v.redrawn = 0
	if v.gridW == 0 || v.gridH == 0 {
		v.screen.Show()
		return
	}

	v.sync()
	for _, c := range v.overlay {
		v.markStale(c)
	}
	v.overlay = v.overlay[:0]

	for _, c := range v.stale {
		v.compose(c)
		v.isStale[c] = false
	}
	v.redrawn = len(v.stale)
	v.stale = v.stale[:0]

	v.drawBursts()
	v.paint(v.cellOf(v.cursor), glyphCursor, tcell.StyleDefault.Foreground(tcell.ColorYellow).Reverse(true))

	v.drawText(0, v.hudLine(), tcell.StyleDefault.Bold(true))
	v.drawText(1, v.status, tcell.StyleDefault.Foreground(tcell.ColorSilver))
	v.screen.Show()
}

// drawBursts paints each flash as a ring growing to its blast radius,
// fire while young and smoke as it fades
func (v *Viewer) drawBursts() {
	fire := tcell.StyleDefault.Foreground(tcell.ColorOrangeRed).Bold(true)
	smoke := tcell.StyleDefault.Foreground(tcell.ColorGray)

	kept := v.bursts[:0]
	for _, b := range v.bursts {
		age := burstFrames - b.ttl
		r := min(b.radius, maxBurstRadius) * float32(age+1) / burstFrames
		glyph, style := rune(glyphFire), fire
		if age >= burstFrames/2 {
			glyph, style = glyphSmoke, smoke
		}

		cx := v.gridW/2 + int(math.Round(float64(b.center.X())))
		cy := v.gridH/2 + int(math.Round(float64(b.center.Z())))
		ri := int(math.Ceil(float64(r)))
		for dy := -ri; dy <= ri; dy++ {
			for dx := -ri; dx <= ri; dx++ {
				d := float32(math.Hypot(float64(dx), float64(dy)))
				if d > r || d < r-1 {
					continue
				}
				v.paint(v.cellAt(cx+dx, cy+dy), glyph, style)
			}
		}

		b.ttl--
		if b.ttl > 0 {
			kept = append(kept, b)
		}
	}
	v.bursts = kept
}

func (v *Viewer) hudLine() string {
	line := fmt.Sprintf("%s  score %d  $%d  x%d  %3.0f%%  fps %.0f  [%s]",
		v.level, v.hud.Score, v.hud.Money, v.hud.Multiplier, v.hud.Progress*100, v.hud.FPS, v.Tool())
	if v.hud.Paused {
		line += fmt.Sprintf("  PAUSED %.0fs", v.hud.PausedFor)
	}
	return line
}

// drawText writes s on row y and blanks the rest of the row
func (v *Viewer) drawText(y int, s string, style tcell.Style) {
	x := 0
	for _, r := range s {
		if x >= v.w {
			return
		}
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
	for ; x < v.w; x++ {
		v.screen.SetContent(x, y, ' ', nil, tcell.StyleDefault)
	}
}

// HandleEvent decodes a tcell event; resize redraws, keys go through HandleKey
func (v *Viewer) HandleEvent(ev tcell.Event) Command {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return v.HandleKey(ev.Key(), ev.Rune(), ev.Modifiers())
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return Command{}
}

// HandleKey maps a key press to a command
// Arrows move the cursor, Tab cycles tools, Space fires, p pauses, n skips, q quits
func (v *Viewer) HandleKey(key tcell.Key, ch rune, _ tcell.ModMask) Command {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return Command{Kind: CmdQuit}
	case tcell.KeyLeft:
		v.cursor[0]--
	case tcell.KeyRight:
		v.cursor[0]++
	case tcell.KeyUp:
		v.cursor[2]--
	case tcell.KeyDown:
		v.cursor[2]++
	case tcell.KeyTab:
		if len(v.tools) > 0 {
			v.tool = (v.tool + 1) % len(v.tools)
		}
	case tcell.KeyBacktab:
		if len(v.tools) > 0 {
			v.tool = (v.tool + len(v.tools) - 1) % len(v.tools)
		}
	case tcell.KeyEnter:
		return v.fire()
	case tcell.KeyRune:
		switch ch {
		case ' ':
			return v.fire()
		case 'p':
			return Command{Kind: CmdPause}
		case 'n':
			return Command{Kind: CmdNextLevel}
		case 'q':
			return Command{Kind: CmdQuit}
		case 'h':
			v.cursor[0]--
		case 'l':
			v.cursor[0]++
		case 'k':
			v.cursor[2]--
		case 'j':
			v.cursor[2]++
		}
	}
	return Command{}
}

func (v *Viewer) fire() Command {
	if len(v.tools) == 0 {
		return Command{}
	}
	return Command{Kind: CmdUseTool, Tool: v.Tool(), Target: v.cursor}
}

// Notify updates the HUD and status line from engine notifications
func (v *Viewer) Notify(ev event.GameEvent) {
	switch p := ev.Payload.(type) {
	case *event.HUDPayload:
		v.hud = *p
	case *event.LevelPayload:
		if ev.Type == event.EventLevelWon {
			v.status = fmt.Sprintf("Level complete! score %d in %.1fs (%.0fs paused), press n", p.Score, p.Elapsed, p.Paused)
		} else {
			v.level = fmt.Sprintf("L%d %s", p.Level, p.Name)
			v.status = ""
		}
	case *event.FundsPayload:
		v.status = fmt.Sprintf("Not enough money for %s: need $%d, have $%d", p.Tool, p.Price, p.Money)
	case *event.ExplosionPayload:
		v.bursts = append(v.bursts, burst{center: p.Center, radius: p.Radius, ttl: burstFrames})
	case *event.BuildPayload:
		if ev.Type == event.EventBuildRejected {
			v.status = fmt.Sprintf("No room for %s (%d voxels)", p.Tool, p.Voxels)
		}
	}
}

// EventTypes lists the notifications the viewer consumes
func (v *Viewer) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventHUDUpdate,
		event.EventExplosion,
		event.EventLevelLoaded,
		event.EventLevelWon,
		event.EventInsufficientFunds,
		event.EventBuildRejected,
	}
}

// Handler adapts v to a router of any context type
func Handler[T any](v *Viewer) event.Handler[T] {
	return event.HandlerFunc[T]{
		Types: v.EventTypes(),
		Fn:    func(_ T, ev event.GameEvent) { v.Notify(ev) },
	}
}

// toTcell converts a normalized color
func toTcell(c mgl32.Vec3) tcell.Color {
	return tcell.NewRGBColor(
		int32(vmath.Clamp01(c.X())*255),
		int32(vmath.Clamp01(c.Y())*255),
		int32(vmath.Clamp01(c.Z())*255),
	)
}
