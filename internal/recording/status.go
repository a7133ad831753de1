package recording

import (
	"fmt"
	"time"
)

// StatusLine periodically rewrites a single terminal line with the
// elapsed session time and current segment while recording runs.
type StatusLine struct {
	recorder *Recorder
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

func NewStatusLine(recorder *Recorder) *StatusLine {
	return &StatusLine{
		recorder: recorder,
		interval: 500 * time.Millisecond,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins printing in a background goroutine.
func (s *StatusLine) Start() {
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.print()
			}
		}
	}()
}

// Stop ends printing and terminates the status line.
func (s *StatusLine) Stop() {
	close(s.stop)
	<-s.done
	fmt.Println()
}

func (s *StatusLine) print() {
	if !s.recorder.IsRecording() {
		return
	}

	state := "recording"
	if s.recorder.IsPaused() {
		state = "paused"
	}

	elapsed := s.recorder.Elapsed().Round(time.Second)
	fmt.Printf("\r[%s] segment %d | elapsed %v   ", state, s.recorder.SegmentIndex(), elapsed)
}
