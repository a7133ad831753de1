// Package cursor records the system pointer during a screen recording
// session: it samples position and button state at a fixed interval,
// deduplicates the distinct cursor bitmaps it sees, and accumulates a
// time-stamped event log that is handed off once when recording stops.
package cursor

import "time"

// DefaultCursorID is the sentinel identity used whenever no cursor
// bitmap could be captured or decoded for a sample.
const DefaultCursorID = "default"

// DefaultSampleInterval is the pause between two pointer samples. It
// bounds position resolution and click-detection latency.
const DefaultSampleInterval = 10 * time.Millisecond

// XY is a 2D point.
type XY struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Bounds is the screen rectangle, in pixels, that pointer coordinates
// are normalized against.
type Bounds struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Cursor is one distinct pointer appearance seen during a session. The
// hotspot is normalized to [0,1] of the bitmap's own dimensions.
type Cursor struct {
	ID       uint32 `json:"id"`
	FileName string `json:"file_name"`
	Hotspot  XY     `json:"hotspot"`
}

// Cursors maps a bitmap content fingerprint to its assigned cursor.
type Cursors map[uint64]Cursor

// MoveEvent is one detected pointer position change. X and Y are
// normalized against the screen bounds and are not clamped, so a
// pointer outside the recorded screen produces values outside [0,1].
type MoveEvent struct {
	ActiveModifiers []string `json:"active_modifiers"`
	CursorID        string   `json:"cursor_id"`
	ProcessTimeMS   float64  `json:"process_time_ms"`
	UnixTimeMS      float64  `json:"unix_time_ms"`
	X               float64  `json:"x"`
	Y               float64  `json:"y"`
}

// ClickEvent is one detected button state transition. CursorNum is the
// zero-based button index.
type ClickEvent struct {
	ActiveModifiers []string `json:"active_modifiers"`
	CursorID        string   `json:"cursor_id"`
	CursorNum       uint8    `json:"cursor_num"`
	Down            bool     `json:"down"`
	ProcessTimeMS   float64  `json:"process_time_ms"`
	UnixTimeMS      float64  `json:"unix_time_ms"`
	X               float64  `json:"x"`
	Y               float64  `json:"y"`
}

// Response is the finalized session state delivered exactly once when
// the recording actor stops.
type Response struct {
	Cursors      Cursors      `json:"cursors"`
	NextCursorID uint32       `json:"next_cursor_id"`
	Moves        []MoveEvent  `json:"moves"`
	Clicks       []ClickEvent `json:"clicks"`
}

// Image is a captured cursor bitmap in its platform encoding, with the
// hotspot normalized to the bitmap's dimensions.
type Image struct {
	Data    []byte
	Hotspot XY
}

// Provider answers what the system pointer currently looks like. Capture
// reports ok=false when no usable bitmap is available; that is a normal
// outcome, not an error, and the sample falls back to DefaultCursorID.
// Implementations must release every native handle they acquire before
// returning, on every path.
type Provider interface {
	Capture() (*Image, bool)
}
