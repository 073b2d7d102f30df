package timeline

import (
	"fmt"
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-pulse/log"
)

var logger = log.New("timeline")

// Epsilon absorbs float rounding when comparing playback time against scheduled times.
// Multiples of a beat interval (e.g. 3 * 1.427) can land a hair above the exact decimal.
const Epsilon = 1e-9

// Event is a one-shot callback scheduled at a playback time.
type Event struct {
	// Time is the playback position in seconds.
	Time float64

	// Trigger runs once when playback reaches Time.
	Trigger func()

	hit bool
}

// Hit reports whether the event has fired.
func (e *Event) Hit() bool {
	return e.hit
}

// Beats is a recurring cadence that fires every Interval seconds once playback reaches Start.
// Beat n fires at n*Interval, so Start is expected to equal the first beat.
type Beats struct {
	Interval float64
	Start    float64
	Trigger  func()
}

// Track is the schedule and sync state of a single audio track.
type Track struct {
	Events []*Event
	Beats  *Beats

	beatCount int
}

// BeatCount returns the beat counter. Zero means the cadence is not armed yet.
func (t *Track) BeatCount() int {
	return t.beatCount
}

func (t *Track) empty() bool {
	return t == nil || (len(t.Events) == 0 && t.Beats == nil)
}

func validTime(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// validate reports the first malformed entry of the schedule.
func (t *Track) validate() error {
	if t == nil {
		return nil
	}
	for i, ev := range t.Events {
		if ev == nil {
			return fmt.Errorf("event %d is nil", i)
		}
		if !validTime(ev.Time) {
			return fmt.Errorf("event %d has time %v", i, ev.Time)
		}
	}
	if b := t.Beats; b != nil {
		if !validTime(b.Interval) || b.Interval == 0 {
			return fmt.Errorf("beat interval %v is not positive", b.Interval)
		}
		if !validTime(b.Start) {
			return fmt.Errorf("beat start %v", b.Start)
		}
		if b.Trigger == nil {
			return fmt.Errorf("beats have no trigger")
		}
	}
	return nil
}

// sync fires every due event in schedule order and at most one beat.
func (t *Track) sync(now float64) {
	for _, ev := range t.Events {
		if ev.hit {
			continue
		}
		if now+Epsilon >= ev.Time {
			ev.hit = true
			if ev.Trigger != nil {
				ev.Trigger()
			}
		}
	}

	b := t.Beats
	if b == nil {
		return
	}
	if t.beatCount == 0 && now+Epsilon >= b.Start {
		t.beatCount = 1
	}
	if t.beatCount > 0 && now+Epsilon >= float64(t.beatCount)*b.Interval {
		t.beatCount++
		b.Trigger()
	}
}

type synchronizer struct {
	mu     *sync.Mutex
	tracks []*Track
	last   int
}

// Synchronizer maps the playback position of the active track onto its schedule.
// Events fire at most once per session. Beats fire at most once per tick, so the beats
// missed during a long stall are replayed one per tick until the cadence catches up.
type Synchronizer interface {
	// Sync fires whatever is due on the given track at playback time t.
	// Unknown indices and tracks without a schedule are a no-op.
	//
	// Parameters:
	//   - trackIndex: the index of the playing track
	//   - t: the playback position in seconds
	Sync(trackIndex int, t float64)

	// Track returns the schedule at index, or nil.
	//
	// Parameters:
	//   - index: the track index
	//
	// Returns:
	//   - *Track: the track or nil
	Track(index int) *Track

	// Len returns the number of tracks.
	Len() int
}

var _ Synchronizer = &synchronizer{}

// NewSynchronizer creates a Synchronizer over one schedule per audio track, in playlist order.
// A nil entry is a track without a schedule. Malformed schedules are programming errors and
// panic: event times must be finite and non-negative, and beats need a positive finite
// Interval, a finite non-negative Start and a Trigger.
//
// Parameters:
//   - tracks: the per-track schedules
//
// Returns:
//   - Synchronizer: the newly created synchronizer
func NewSynchronizer(tracks ...*Track) Synchronizer {
	for i, t := range tracks {
		if err := t.validate(); err != nil {
			panic(fmt.Sprintf("timeline: track %d: %v", i, err))
		}
	}
	return &synchronizer{
		mu:     &sync.Mutex{},
		tracks: tracks,
		last:   -1,
	}
}

func (s *synchronizer) Sync(trackIndex int, t float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if trackIndex != s.last {
		logger.Debugf("syncing track %d", trackIndex)
		s.last = trackIndex
	}
	if trackIndex < 0 || trackIndex >= len(s.tracks) {
		return
	}
	track := s.tracks[trackIndex]
	if track.empty() {
		return
	}
	track.sync(t)
}

func (s *synchronizer) Track(index int) *Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.tracks) {
		return nil
	}
	return s.tracks[index]
}

func (s *synchronizer) Len() int {
	return len(s.tracks)
}
