package cursor

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/GQAdonis/Cap/internal/input"
)

// Options configures a recording actor.
type Options struct {
	// ScreenBounds is the pixel rectangle pointer coordinates are
	// normalized against.
	ScreenBounds Bounds

	// Dir is where distinct cursor bitmaps are written. It is created
	// at spawn if absent.
	Dir string

	// PrevCursors and NextCursorID seed the identity cache from a prior
	// recording segment so identities stay stable across segments.
	PrevCursors  Cursors
	NextCursorID uint32

	// Source supplies pointer snapshots. Required.
	Source input.Source

	// Provider captures cursor bitmaps. Nil means the platform default.
	Provider Provider

	// SampleInterval overrides DefaultSampleInterval when positive.
	SampleInterval time.Duration
}

// Actor is the handle to a running cursor recorder. Stop must be called
// exactly once: a second call blocks forever, and dropping the handle
// without calling it leaks the sampling goroutine.
type Actor struct {
	stop atomic.Bool
	done chan Response
}

// Spawn starts the sampling loop in its own goroutine and returns
// immediately. The output directory is created first; failure to create
// it aborts the whole recording, since there is nowhere to persist
// cursor images.
func Spawn(opts Options) (*Actor, error) {
	if opts.Source == nil {
		return nil, fmt.Errorf("pointer source must be provided")
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cursors directory: %w", err)
	}
	if opts.Provider == nil {
		opts.Provider = NewSystemProvider()
	}
	if opts.SampleInterval <= 0 {
		opts.SampleInterval = DefaultSampleInterval
	}

	a := &Actor{done: make(chan Response, 1)}
	go a.run(opts)
	return a, nil
}

// Stop signals the sampling loop and waits for the finalized session
// state. No sample is captured after the signal is observed.
func (a *Actor) Stop() Response {
	a.stop.Store(true)
	return <-a.done
}

func (a *Actor) run(opts Options) {
	cache := NewCache(opts.Dir, opts.PrevCursors, opts.NextCursorID)
	last := opts.Source.State()
	start := time.Now()

	var moves []MoveEvent
	var clicks []ClickEvent

	for !a.stop.Load() {
		state := opts.Source.State()
		elapsed := float64(time.Since(start).Microseconds()) / 1000.0
		unix := float64(time.Now().UnixMilli())

		cursorID := DefaultCursorID
		if img, ok := opts.Provider.Capture(); ok {
			if id, ok := cache.Resolve(img); ok {
				cursorID = id
			}
		}

		if state.X != last.X || state.Y != last.Y {
			moves = append(moves, MoveEvent{
				ActiveModifiers: []string{},
				CursorID:        cursorID,
				ProcessTimeMS:   elapsed,
				UnixTimeMS:      unix,
				X:               (float64(state.X) - opts.ScreenBounds.X) / opts.ScreenBounds.Width,
				Y:               (float64(state.Y) - opts.ScreenBounds.Y) / opts.ScreenBounds.Height,
			})
		}

		for num := range state.Buttons {
			if state.Buttons[num] == last.Buttons[num] {
				continue
			}
			clicks = append(clicks, ClickEvent{
				ActiveModifiers: []string{},
				CursorID:        cursorID,
				CursorNum:       uint8(num),
				Down:            state.Buttons[num],
				ProcessTimeMS:   elapsed,
				UnixTimeMS:      unix,
				X:               (float64(state.X) - opts.ScreenBounds.X) / opts.ScreenBounds.Width,
				Y:               (float64(state.Y) - opts.ScreenBounds.Y) / opts.ScreenBounds.Height,
			})
		}

		last = state
		time.Sleep(opts.SampleInterval)
	}

	cursors, nextID := cache.Snapshot()
	a.done <- Response{
		Cursors:      cursors,
		NextCursorID: nextID,
		Moves:        moves,
		Clicks:       clicks,
	}
}
