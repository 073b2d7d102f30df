package timeline

import (
	"math"
	"reflect"
	"testing"
)

func TestEventFiresOnce(t *testing.T) {
	var fired []float64
	var now float64
	track := &Track{Events: []*Event{{Time: 1, Trigger: func() { fired = append(fired, now) }}}}
	s := NewSynchronizer(track)

	for _, now = range []float64{0, 0.5, 1, 1.5, 2} {
		s.Sync(0, now)
	}

	if !reflect.DeepEqual(fired, []float64{1}) {
		t.Fatalf("fired at %v, want [1]", fired)
	}
	if !track.Events[0].Hit() {
		t.Error("event not marked hit")
	}
}

func TestEventsFireInScheduleOrder(t *testing.T) {
	var order []string
	rec := func(name string) func() { return func() { order = append(order, name) } }
	s := NewSynchronizer(&Track{Events: []*Event{
		{Time: 7.74, Trigger: rec("a")},
		{Time: 30.32, Trigger: rec("b")},
		{Time: 52.917, Trigger: rec("c")},
	}})

	s.Sync(0, 31)
	s.Sync(0, 60)
	s.Sync(0, 61)

	if !reflect.DeepEqual(order, []string{"a", "b", "c"}) {
		t.Fatalf("order = %v, want [a b c]", order)
	}
}

func TestBeatsFireOncePerInterval(t *testing.T) {
	var beats []float64
	var now float64
	track := &Track{Beats: &Beats{Interval: 1.427, Start: 1.427, Trigger: func() { beats = append(beats, now) }}}
	s := NewSynchronizer(track)

	for _, now = range []float64{0, 1, 1.427, 2.854, 4.281} {
		s.Sync(0, now)
	}

	if !reflect.DeepEqual(beats, []float64{1.427, 2.854, 4.281}) {
		t.Fatalf("beats at %v, want [1.427 2.854 4.281]", beats)
	}
	if track.BeatCount() != 4 {
		t.Errorf("beat count = %d, want 4", track.BeatCount())
	}
}

func TestBeatsNeverBeforeStart(t *testing.T) {
	n := 0
	track := &Track{Beats: &Beats{Interval: 1.427, Start: 1.427, Trigger: func() { n++ }}}
	s := NewSynchronizer(track)

	for now := 0.0; now < 1.4; now += 0.1 {
		s.Sync(0, now)
	}

	if n != 0 || track.BeatCount() != 0 {
		t.Fatalf("beats = %d count = %d before start, want 0", n, track.BeatCount())
	}
}

func TestBeatsReplayBacklogOnePerTick(t *testing.T) {
	n := 0
	track := &Track{Beats: &Beats{Interval: 1, Start: 1, Trigger: func() { n++ }}}
	s := NewSynchronizer(track)

	s.Sync(0, 1)
	s.Sync(0, 10)
	if n != 2 {
		t.Fatalf("beats after stall = %d, want 2", n)
	}

	// The backlog drains one beat per tick.
	s.Sync(0, 10)
	s.Sync(0, 10)
	if n != 4 {
		t.Fatalf("beats = %d, want 4", n)
	}
}

func TestSyncIgnoresUnknownAndEmptyTracks(t *testing.T) {
	n := 0
	s := NewSynchronizer(nil, &Track{}, &Track{Events: []*Event{{Time: 0, Trigger: func() { n++ }}}})

	s.Sync(-1, 5)
	s.Sync(0, 5)
	s.Sync(1, 5)
	s.Sync(3, 5)
	if n != 0 {
		t.Fatalf("fired %d times, want 0", n)
	}

	s.Sync(2, 5)
	if n != 1 {
		t.Fatalf("fired %d times, want 1", n)
	}
}

func TestTracksKeepIndependentState(t *testing.T) {
	var hits []int
	s := NewSynchronizer(
		&Track{Events: []*Event{{Time: 1, Trigger: func() { hits = append(hits, 0) }}}},
		&Track{Events: []*Event{{Time: 1, Trigger: func() { hits = append(hits, 1) }}}},
	)

	s.Sync(0, 2)
	s.Sync(1, 2)
	s.Sync(0, 3)

	if !reflect.DeepEqual(hits, []int{0, 1}) {
		t.Fatalf("hits = %v, want [0 1]", hits)
	}
}

func TestNewSynchronizerRejectsMalformedSchedule(t *testing.T) {
	noop := func() {}
	tests := []struct {
		name  string
		track *Track
		panic bool
	}{
		{"nil track", nil, false},
		{"empty track", &Track{}, false},
		{"event at zero", &Track{Events: []*Event{{Time: 0, Trigger: noop}}}, false},
		{"valid beats", &Track{Beats: &Beats{Interval: 1.427, Start: 0, Trigger: noop}}, false},
		{"nil event", &Track{Events: []*Event{nil}}, true},
		{"negative event time", &Track{Events: []*Event{{Time: -1, Trigger: noop}}}, true},
		{"NaN event time", &Track{Events: []*Event{{Time: math.NaN(), Trigger: noop}}}, true},
		{"infinite event time", &Track{Events: []*Event{{Time: math.Inf(1), Trigger: noop}}}, true},
		{"zero interval", &Track{Beats: &Beats{Interval: 0, Start: 1, Trigger: noop}}, true},
		{"negative interval", &Track{Beats: &Beats{Interval: -1.427, Start: 1, Trigger: noop}}, true},
		{"NaN interval", &Track{Beats: &Beats{Interval: math.NaN(), Start: 1, Trigger: noop}}, true},
		{"infinite start", &Track{Beats: &Beats{Interval: 1, Start: math.Inf(1), Trigger: noop}}, true},
		{"negative start", &Track{Beats: &Beats{Interval: 1, Start: -2, Trigger: noop}}, true},
		{"nil beat trigger", &Track{Beats: &Beats{Interval: 1, Start: 1}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				r := recover()
				if (r != nil) != tt.panic {
					t.Errorf("panic = %v, want panic %v", r, tt.panic)
				}
			}()
			s := NewSynchronizer(&Track{}, tt.track)
			s.Sync(1, 0)
		})
	}
}
