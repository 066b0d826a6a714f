package render

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/wrecker/component"
	"github.com/lixenwraith/wrecker/event"
	"github.com/lixenwraith/wrecker/vmath"
)

func newSimViewer(t *testing.T, buf *InstanceBuffer) (*Viewer, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(40, 20)
	return NewViewer(screen, buf, []string{"BALL", "HOUSE"}), screen
}

func rowText(s tcell.SimulationScreen, y, w int) string {
	var sb strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := s.GetContent(x, y)
		sb.WriteRune(r)
	}
	return sb.String()
}

func TestViewerDrawsVisibleSlots(t *testing.T) {
	buf := NewInstanceBuffer(4)
	buf.SetMatrix(0, vmath.InstanceMatrix(mgl32.Vec3{0, 0.5, 0}, mgl32.QuatIdent(), 1))
	buf.SetColor(0, component.ColorHazardRed)
	buf.SetMatrix(1, vmath.HiddenMatrix())
	buf.SetMatrix(2, vmath.InstanceMatrix(mgl32.Vec3{3, 0.5, 2}, mgl32.QuatIdent(), 1))
	buf.SetCount(3)

	v, screen := newSimViewer(t, buf)
	v.cursor = mgl32.Vec3{-5, 0, -5}
	v.Draw()

	ox, oy := v.origin()
	if r, _, style, _ := screen.GetContent(ox, oy); r != glyphVoxel {
		t.Errorf("origin cell = %q, want voxel", r)
	} else if fg, _, _ := style.Decompose(); fg != toTcell(component.ColorHazardRed.Vec3()) {
		t.Errorf("origin color = %v", fg)
	}
	if r, _, _, _ := screen.GetContent(ox+6, oy+2); r != glyphVoxel {
		t.Errorf("cell for (3, 2) = %q, want voxel", r)
	}
	if r, _, _, _ := screen.GetContent(ox-10, oy-5); r != glyphCursor {
		t.Errorf("cursor cell = %q", r)
	}
}

func TestViewerHUDFromNotifications(t *testing.T) {
	v, screen := newSimViewer(t, NewInstanceBuffer(1))

	v.Notify(event.GameEvent{Type: event.EventLevelLoaded, Payload: &event.LevelPayload{Level: 2, Name: "Suburbs"}})
	v.Notify(event.GameEvent{Type: event.EventHUDUpdate, Payload: &event.HUDPayload{Score: 42, Money: 900, Multiplier: 2, Paused: true, PausedFor: 12}})
	v.Notify(event.GameEvent{Type: event.EventInsufficientFunds, Payload: &event.FundsPayload{Tool: "NUKE", Price: 2000, Money: 900}})
	v.Draw()

	hud := rowText(screen, 0, 40)
	if !strings.HasSuffix(v.hudLine(), "PAUSED 12s") {
		t.Errorf("HUD line %q missing pause time", v.hudLine())
	}
	for _, want := range []string{"L2 Suburbs", "score 42", "$900"} {
		if !strings.Contains(hud, want) {
			t.Errorf("HUD %q missing %q", hud, want)
		}
	}
	if !strings.Contains(v.Status(), "NUKE") {
		t.Errorf("status = %q", v.Status())
	}

	v.Notify(event.GameEvent{Type: event.EventLevelWon, Payload: &event.LevelPayload{Level: 2, Score: 800, Elapsed: 12}})
	if !strings.Contains(v.Status(), "complete") {
		t.Errorf("status after win = %q", v.Status())
	}
}

func TestViewerKeys(t *testing.T) {
	v, _ := newSimViewer(t, NewInstanceBuffer(1))

	v.HandleKey(tcell.KeyRight, 0, tcell.ModNone)
	v.HandleKey(tcell.KeyRune, 'j', tcell.ModNone)
	if v.Cursor() != (mgl32.Vec3{1, 0, 1}) {
		t.Errorf("cursor = %v", v.Cursor())
	}

	v.HandleKey(tcell.KeyTab, 0, tcell.ModNone)
	cmd := v.HandleKey(tcell.KeyRune, ' ', tcell.ModNone)
	if cmd.Kind != CmdUseTool || cmd.Tool != "HOUSE" || cmd.Target != v.Cursor() {
		t.Errorf("fire = %+v", cmd)
	}

	tests := []struct {
		key  tcell.Key
		ch   rune
		want CommandKind
	}{
		{tcell.KeyRune, 'p', CmdPause},
		{tcell.KeyRune, 'n', CmdNextLevel},
		{tcell.KeyRune, 'q', CmdQuit},
		{tcell.KeyEscape, 0, CmdQuit},
		{tcell.KeyRune, 'x', CmdNone},
	}
	for _, tt := range tests {
		if got := v.HandleKey(tt.key, tt.ch, tcell.ModNone).Kind; got != tt.want {
			t.Errorf("key %v %q = %v, want %v", tt.key, tt.ch, got, tt.want)
		}
	}

	v.SetTools(nil)
	if cmd := v.HandleKey(tcell.KeyEnter, 0, tcell.ModNone); cmd.Kind != CmdNone {
		t.Errorf("fire without tools = %+v", cmd)
	}
}

func TestViewerHandler(t *testing.T) {
	v, _ := newSimViewer(t, NewInstanceBuffer(1))
	q := event.NewEventQueue()
	r := event.NewRouter[int](q)
	r.Register(Handler[int](v))

	q.Push(event.GameEvent{Type: event.EventHUDUpdate, Payload: &event.HUDPayload{Score: 7}})
	if n := r.DispatchAll(0); n != 1 {
		t.Fatalf("dispatched %d", n)
	}
	if v.hud.Score != 7 {
		t.Errorf("hud score = %d", v.hud.Score)
	}
}

func TestViewerRedrawsOnlyDirtyCells(t *testing.T) {
	buf := NewInstanceBuffer(4)
	buf.SetMatrix(0, vmath.InstanceMatrix(mgl32.Vec3{0, 0.5, 0}, mgl32.QuatIdent(), 1))
	buf.SetMatrix(1, vmath.InstanceMatrix(mgl32.Vec3{-3, 0.5, 1}, mgl32.QuatIdent(), 1))
	buf.SetCount(2)

	v, screen := newSimViewer(t, buf)
	v.cursor = mgl32.Vec3{-8, 0, -8}
	v.Draw()
	if v.redrawn != v.gridW*v.gridH {
		t.Fatalf("first frame redrew %d cells, want all %d", v.redrawn, v.gridW*v.gridH)
	}

	v.Draw()
	if v.redrawn != 1 {
		t.Errorf("idle frame redrew %d cells, want only the cursor cell", v.redrawn)
	}

	ox, oy := v.origin()
	buf.SetMatrix(0, vmath.InstanceMatrix(mgl32.Vec3{2, 0.5, 0}, mgl32.QuatIdent(), 1))
	v.Draw()
	if v.redrawn != 3 {
		t.Errorf("move redrew %d cells, want old, new and cursor", v.redrawn)
	}
	if r, _, _, _ := screen.GetContent(ox, oy); r != ' ' {
		t.Errorf("vacated cell = %q, want blank", r)
	}
	if r, _, _, _ := screen.GetContent(ox+4, oy); r != glyphVoxel {
		t.Errorf("destination cell = %q, want voxel", r)
	}

	buf.SetCount(1)
	v.Draw()
	if r, _, _, _ := screen.GetContent(ox-6, oy+1); r != ' ' {
		t.Errorf("slot past count still drawn: %q", r)
	}
	if r, _, _, _ := screen.GetContent(ox+4, oy); r != glyphVoxel {
		t.Error("slot below count lost")
	}
}

func TestViewerTallestVoxelWins(t *testing.T) {
	buf := NewInstanceBuffer(2)
	buf.SetMatrix(0, vmath.InstanceMatrix(mgl32.Vec3{0, 0.5, 0}, mgl32.QuatIdent(), 1))
	buf.SetColor(0, component.ColorHazardRed)
	buf.SetMatrix(1, vmath.InstanceMatrix(mgl32.Vec3{0, 1.5, 0}, mgl32.QuatIdent(), 1))
	buf.SetColor(1, component.Hex(0x00ff00))
	buf.SetCount(2)

	v, screen := newSimViewer(t, buf)
	v.cursor = mgl32.Vec3{-8, 0, -8}
	v.Draw()

	ox, oy := v.origin()
	_, _, style, _ := screen.GetContent(ox, oy)
	if fg, _, _ := style.Decompose(); fg != toTcell(component.Hex(0x00ff00).Vec3()) {
		t.Errorf("cell color = %v, want the upper voxel", fg)
	}

	// Hiding the top voxel uncovers the one below
	buf.SetMatrix(1, vmath.HiddenMatrix())
	v.Draw()
	_, _, style, _ = screen.GetContent(ox, oy)
	if fg, _, _ := style.Decompose(); fg != toTcell(component.ColorHazardRed.Vec3()) {
		t.Errorf("cell color after hide = %v, want the lower voxel", fg)
	}
}

func TestViewerExplosionBurst(t *testing.T) {
	v, screen := newSimViewer(t, NewInstanceBuffer(1))
	v.cursor = mgl32.Vec3{-8, 0, -8}
	v.Notify(event.GameEvent{Type: event.EventExplosion, Payload: &event.ExplosionPayload{Radius: 4}})

	v.Draw()
	ox, oy := v.origin()
	if r, _, _, _ := screen.GetContent(ox, oy); r != glyphFire {
		t.Errorf("blast center = %q, want fire", r)
	}

	for i := 1; i < burstFrames; i++ {
		v.Draw()
	}
	if len(v.bursts) != 0 {
		t.Fatalf("burst outlived %d frames", burstFrames)
	}

	v.Draw()
	w, h := screen.Size()
	for y := hudRows; y < h; y++ {
		for x := 0; x < w; x++ {
			if r, _, _, _ := screen.GetContent(x, y); r == glyphFire || r == glyphSmoke {
				t.Fatalf("flash left at (%d, %d)", x, y)
			}
		}
	}
}
