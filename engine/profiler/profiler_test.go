package profiler

import (
	"testing"
	"time"
)

func TestTickLogsAfterInterval(t *testing.T) {
	p := NewProfiler(time.Hour, 30)
	for i := 0; i < 10; i++ {
		if p.Tick(16) {
			t.Fatalf("tick %d logged before the interval elapsed", i)
		}
	}
	if p.Last().FPS != 0 {
		t.Errorf("FPS = %v before the first interval, want 0", p.Last().FPS)
	}
}

func TestSampleCountsSlowFrames(t *testing.T) {
	p := NewProfiler(5*time.Millisecond, 30)
	p.Tick(16)
	p.Tick(45)
	time.Sleep(10 * time.Millisecond)
	if !p.Tick(31) {
		t.Fatal("tick after the interval did not log")
	}

	s := p.Last()
	if s.FPS <= 0 {
		t.Errorf("FPS = %v, want > 0", s.FPS)
	}
	if s.WorstFrame != 45 {
		t.Errorf("worst frame = %v, want 45", s.WorstFrame)
	}
	if s.SlowFrames != 2 {
		t.Errorf("slow frames = %d, want 2", s.SlowFrames)
	}
	if p.frames != 0 || p.worstFrame != 0 || p.slowFrames != 0 {
		t.Error("window counters were not reset after logging")
	}
}

func TestDefaultInterval(t *testing.T) {
	if p := NewProfiler(0, 0); p.interval != time.Second {
		t.Errorf("interval = %v, want 1s", p.interval)
	}
}
