package cursor

import (
	"image/color"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/GQAdonis/Cap/internal/input"
)

// scriptedSource replays a fixed sequence of pointer states, then
// repeats the final state. drained is closed once the script has been
// fully consumed.
type scriptedSource struct {
	mu      sync.Mutex
	states  []input.State
	idx     int
	drained chan struct{}
}

func newScriptedSource(states ...input.State) *scriptedSource {
	return &scriptedSource{states: states, drained: make(chan struct{})}
}

func (s *scriptedSource) State() input.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.idx < len(s.states) {
		state := s.states[s.idx]
		s.idx++
		if s.idx == len(s.states) {
			close(s.drained)
		}
		return state
	}
	return s.states[len(s.states)-1]
}

func (s *scriptedSource) waitDrained(t *testing.T) {
	t.Helper()
	select {
	case <-s.drained:
	case <-time.After(2 * time.Second):
		t.Fatal("sampling loop did not consume the scripted states")
	}
}

// fakeProvider serves a fixed image, or unavailable when img is nil,
// and counts capture attempts.
type fakeProvider struct {
	img      *Image
	captures atomic.Int64
}

func (p *fakeProvider) Capture() (*Image, bool) {
	p.captures.Add(1)
	if p.img == nil {
		return nil, false
	}
	return p.img, true
}

func stopWithTimeout(t *testing.T, a *Actor) Response {
	t.Helper()
	done := make(chan Response, 1)
	go func() { done <- a.Stop() }()
	select {
	case response := <-done:
		return response
	case <-time.After(2 * time.Second):
		t.Fatal("actor did not hand off state after stop")
		return Response{}
	}
}

var testBounds = Bounds{X: 100, Y: 50, Width: 200, Height: 100}

func at(x, y int) input.State {
	return input.State{X: x, Y: y}
}

func TestSpawnCreatesCursorsDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cursors")

	actor, err := Spawn(Options{
		ScreenBounds:   testBounds,
		Dir:            dir,
		Source:         newScriptedSource(at(0, 0)),
		Provider:       &fakeProvider{},
		SampleInterval: time.Millisecond,
	})
	if err != nil {
		t.Fatalf("spawn failed: %v", err)
	}

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Fatalf("expected cursors directory to exist: %v", err)
	}

	stopWithTimeout(t, actor)
}

func TestSpawnFailsWhenDirectoryCannotBeCreated(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}

	_, err := Spawn(Options{
		ScreenBounds: testBounds,
		Dir:          filepath.Join(blocker, "cursors"),
		Source:       newScriptedSource(at(0, 0)),
		Provider:     &fakeProvider{},
	})
	if err == nil {
		t.Fatal("expected spawn to fail when the directory cannot be created")
	}
}

func TestMoveEventsTrackPointerChanges(t *testing.T) {
	source := newScriptedSource(
		at(110, 60), // baseline
		at(110, 60), // unchanged: no event
		at(150, 100),
		at(150, 100), // unchanged: no event
		at(350, 160), // outside the bounds
	)

	actor, err := Spawn(Options{
		ScreenBounds:   testBounds,
		Dir:            t.TempDir(),
		Source:         source,
		Provider:       &fakeProvider{},
		SampleInterval: time.Millisecond,
	})
	if err != nil {
		t.Fatalf("spawn failed: %v", err)
	}

	source.waitDrained(t)
	response := stopWithTimeout(t, actor)

	if len(response.Moves) != 2 {
		t.Fatalf("expected 2 move events, got %d", len(response.Moves))
	}

	first := response.Moves[0]
	if first.X != 0.25 || first.Y != 0.5 {
		t.Fatalf("expected normalized position (0.25, 0.5), got (%v, %v)", first.X, first.Y)
	}
	if first.CursorID != DefaultCursorID {
		t.Fatalf("expected default cursor id, got %q", first.CursorID)
	}
	if len(response.Clicks) != 0 {
		t.Fatalf("expected no click events, got %d", len(response.Clicks))
	}

	// Coordinates outside the screen bounds are recorded unclamped.
	second := response.Moves[1]
	if second.X != 1.25 || second.Y != 1.1 {
		t.Fatalf("expected unclamped position (1.25, 1.1), got (%v, %v)", second.X, second.Y)
	}

	if second.ProcessTimeMS < first.ProcessTimeMS {
		t.Fatalf("expected events in tick order, got %v then %v", first.ProcessTimeMS, second.ProcessTimeMS)
	}
}

func TestClickEventsTrackButtonTransitions(t *testing.T) {
	pressed := at(110, 60)
	pressed.Buttons[0] = true

	source := newScriptedSource(
		at(110, 60), // baseline
		at(110, 60),
		pressed,
		pressed, // held: no event
		at(110, 60),
	)

	actor, err := Spawn(Options{
		ScreenBounds:   testBounds,
		Dir:            t.TempDir(),
		Source:         source,
		Provider:       &fakeProvider{},
		SampleInterval: time.Millisecond,
	})
	if err != nil {
		t.Fatalf("spawn failed: %v", err)
	}

	source.waitDrained(t)
	response := stopWithTimeout(t, actor)

	if len(response.Moves) != 0 {
		t.Fatalf("expected no move events, got %d", len(response.Moves))
	}
	if len(response.Clicks) != 2 {
		t.Fatalf("expected 2 click events, got %d", len(response.Clicks))
	}

	down, up := response.Clicks[0], response.Clicks[1]
	if !down.Down || down.CursorNum != 0 {
		t.Fatalf("expected press of button 0, got down=%v num=%d", down.Down, down.CursorNum)
	}
	if up.Down || up.CursorNum != 0 {
		t.Fatalf("expected release of button 0, got down=%v num=%d", up.Down, up.CursorNum)
	}
	if down.X != 0.05 || down.Y != 0.1 {
		t.Fatalf("expected click at normalized (0.05, 0.1), got (%v, %v)", down.X, down.Y)
	}
}

func TestCapturedCursorsAreDeduplicatedAndPersisted(t *testing.T) {
	dir := t.TempDir()
	provider := &fakeProvider{
		img: &Image{
			Data:    encodePNG(t, color.RGBA{R: 255, A: 255}),
			Hotspot: XY{X: 0.5, Y: 0.5},
		},
	}

	source := newScriptedSource(
		at(110, 60),
		at(120, 70),
		at(130, 80),
	)

	actor, err := Spawn(Options{
		ScreenBounds:   testBounds,
		Dir:            dir,
		Source:         source,
		Provider:       provider,
		NextCursorID:   5,
		SampleInterval: time.Millisecond,
	})
	if err != nil {
		t.Fatalf("spawn failed: %v", err)
	}

	source.waitDrained(t)
	response := stopWithTimeout(t, actor)

	if len(response.Cursors) != 1 {
		t.Fatalf("expected 1 distinct cursor, got %d", len(response.Cursors))
	}
	if response.NextCursorID != 6 {
		t.Fatalf("expected next cursor id 6, got %d", response.NextCursorID)
	}
	if len(response.Moves) == 0 {
		t.Fatal("expected move events")
	}
	for _, move := range response.Moves {
		if move.CursorID != "5" {
			t.Fatalf("expected events to carry cursor id 5, got %q", move.CursorID)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "cursor_5.png")); err != nil {
		t.Fatalf("expected persisted cursor bitmap: %v", err)
	}
}

func TestUnavailableCaptureAddsNoCursors(t *testing.T) {
	source := newScriptedSource(at(110, 60), at(120, 70))

	actor, err := Spawn(Options{
		ScreenBounds:   testBounds,
		Dir:            t.TempDir(),
		Source:         source,
		Provider:       &fakeProvider{},
		NextCursorID:   7,
		SampleInterval: time.Millisecond,
	})
	if err != nil {
		t.Fatalf("spawn failed: %v", err)
	}

	source.waitDrained(t)
	response := stopWithTimeout(t, actor)

	if len(response.Cursors) != 0 {
		t.Fatalf("expected no cursors, got %d", len(response.Cursors))
	}
	if response.NextCursorID != 7 {
		t.Fatalf("expected next cursor id to stay 7, got %d", response.NextCursorID)
	}
	for _, move := range response.Moves {
		if move.CursorID != DefaultCursorID {
			t.Fatalf("expected default cursor id, got %q", move.CursorID)
		}
	}
}

func TestStopHaltsSampling(t *testing.T) {
	provider := &fakeProvider{}

	actor, err := Spawn(Options{
		ScreenBounds:   testBounds,
		Dir:            t.TempDir(),
		Source:         newScriptedSource(at(110, 60)),
		Provider:       provider,
		SampleInterval: time.Millisecond,
	})
	if err != nil {
		t.Fatalf("spawn failed: %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	stopWithTimeout(t, actor)

	after := provider.captures.Load()
	time.Sleep(20 * time.Millisecond)
	if got := provider.captures.Load(); got != after {
		t.Fatalf("expected no captures after stop, got %d more", got-after)
	}
}
