// Package recording orchestrates cursor capture across the segments of
// one recording session. Pausing closes the current segment and
// resuming opens the next one, carrying the cursor identity cache
// forward so the same pointer appearance keeps its identity across
// segment boundaries.
package recording

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/GQAdonis/Cap/internal/config"
	"github.com/GQAdonis/Cap/internal/cursor"
	"github.com/GQAdonis/Cap/internal/input"
)

// Segment is one closed recording segment and its finalized cursor data.
type Segment struct {
	Index    int
	Dir      string
	Response cursor.Response
}

type Recorder struct {
	config   *config.Config
	bounds   cursor.Bounds
	source   input.Source
	provider cursor.Provider

	mu           sync.Mutex
	sessionID    string
	sessionDir   string
	actor        *cursor.Actor
	segmentIndex int
	cursors      cursor.Cursors
	nextCursorID uint32
	segments     []Segment
	startTime    time.Time
	isRecording  bool
}

// NewRecorder builds a recorder for one session. provider may be nil to
// use the platform cursor provider.
func NewRecorder(cfg *config.Config, bounds cursor.Bounds, source input.Source, provider cursor.Provider) *Recorder {
	return &Recorder{
		config:   cfg,
		bounds:   bounds,
		source:   source,
		provider: provider,
	}
}

// Start opens the session directory and begins the first segment.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isRecording {
		return fmt.Errorf("recording already in progress")
	}

	r.sessionID = uuid.NewString()
	r.sessionDir = filepath.Join(r.config.Recording.OutputDir, r.sessionID)
	if err := os.MkdirAll(r.sessionDir, 0o755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	r.segmentIndex = 0
	r.cursors = cursor.Cursors{}
	r.nextCursorID = 0
	r.segments = nil
	r.startTime = time.Now()

	if err := r.spawnSegmentLocked(); err != nil {
		return err
	}
	r.isRecording = true
	return nil
}

// Pause closes the current segment, persisting its cursor data. The
// session stays open; Resume begins the next segment.
func (r *Recorder) Pause() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isRecording {
		return fmt.Errorf("no recording in progress")
	}
	if r.actor == nil {
		return fmt.Errorf("recording is already paused")
	}
	return r.closeSegmentLocked()
}

// Resume begins the next segment, seeded with the cursor identities
// accumulated so far.
func (r *Recorder) Resume() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isRecording {
		return fmt.Errorf("no recording in progress")
	}
	if r.actor != nil {
		return fmt.Errorf("recording is not paused")
	}
	return r.spawnSegmentLocked()
}

// Stop closes the open segment, if any, and ends the session. It
// returns every finalized segment in order.
func (r *Recorder) Stop() ([]Segment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isRecording {
		return nil, fmt.Errorf("no recording in progress")
	}
	if r.actor != nil {
		if err := r.closeSegmentLocked(); err != nil {
			r.isRecording = false
			return r.segments, err
		}
	}
	r.isRecording = false
	return r.segments, nil
}

func (r *Recorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.isRecording
}

// IsPaused reports whether the session is open but between segments.
func (r *Recorder) IsPaused() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.isRecording && r.actor == nil
}

// SessionDir returns the directory segments are written under.
func (r *Recorder) SessionDir() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessionDir
}

// Elapsed returns how long the session has been open.
func (r *Recorder) Elapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.isRecording {
		return 0
	}
	return time.Since(r.startTime)
}

// SegmentIndex returns the index of the current segment.
func (r *Recorder) SegmentIndex() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.segmentIndex
}

func (r *Recorder) segmentDir(index int) string {
	return filepath.Join(r.sessionDir, fmt.Sprintf("segment_%d", index))
}

func (r *Recorder) spawnSegmentLocked() error {
	// Seed with a copy so the new segment's cache cannot mutate the
	// cursors recorded against an already closed segment.
	seed := make(cursor.Cursors, len(r.cursors))
	for fp, c := range r.cursors {
		seed[fp] = c
	}

	actor, err := cursor.Spawn(cursor.Options{
		ScreenBounds:   r.bounds,
		Dir:            filepath.Join(r.segmentDir(r.segmentIndex), "cursors"),
		PrevCursors:    seed,
		NextCursorID:   r.nextCursorID,
		Source:         r.source,
		Provider:       r.provider,
		SampleInterval: r.config.SampleInterval(),
	})
	if err != nil {
		return fmt.Errorf("failed to start cursor capture: %w", err)
	}
	r.actor = actor
	return nil
}

func (r *Recorder) closeSegmentLocked() error {
	response := r.actor.Stop()
	r.actor = nil

	dir := r.segmentDir(r.segmentIndex)
	r.segments = append(r.segments, Segment{
		Index:    r.segmentIndex,
		Dir:      dir,
		Response: response,
	})
	r.cursors = response.Cursors
	r.nextCursorID = response.NextCursorID
	r.segmentIndex++

	if err := writeCursorData(dir, response); err != nil {
		return fmt.Errorf("failed to write cursor data: %w", err)
	}
	return nil
}

// writeCursorData serializes a segment's finalized cursor state to
// cursor.json inside the segment directory.
func writeCursorData(dir string, response cursor.Response) error {
	f, err := os.Create(filepath.Join(dir, "cursor.json"))
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(f)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
