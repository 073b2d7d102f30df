// Package profiler samples frame timing and Go heap statistics for the tick loop.
package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-pulse/log"
)

var logger = log.New("profiler")

const mb = 1024 * 1024

// Sample is one logged measurement window.
type Sample struct {
	FPS float64

	// WorstFrame is the longest frame time in the window, in milliseconds.
	WorstFrame float64

	// SlowFrames counts frames longer than the slow frame threshold. The animation clock
	// clamps those, so they show up as visible slowdowns rather than jumps.
	SlowFrames int

	HeapMB      float64
	AllocRateMB float64
	SysMB       float64

	GCCount   uint32
	LastPause time.Duration
	MaxPause  time.Duration
}

// Profiler accumulates per-frame timing and logs a Sample once per interval.
type Profiler struct {
	interval time.Duration
	slow     float64

	start      time.Time
	frames     int
	worstFrame float64
	slowFrames int

	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	last Sample
}

// NewProfiler creates a new Profiler.
//
// Parameters:
//   - interval: how often stats are logged; values <= 0 default to 1 second
//   - slowFrame: the frame time in milliseconds above which a frame counts as slow
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(interval time.Duration, slowFrame float64) *Profiler {
	if interval <= 0 {
		interval = time.Second
	}
	return &Profiler{
		interval: interval,
		slow:     slowFrame,
		start:    time.Now(),
	}
}

// Last returns the most recently logged sample.
func (p *Profiler) Last() Sample {
	return p.last
}

// Tick records one frame and logs a Sample when the interval has elapsed.
//
// Parameters:
//   - dt: the frame time in milliseconds
//
// Returns:
//   - bool: true if a sample was logged this tick
func (p *Profiler) Tick(dt float64) bool {
	p.frames++
	if dt > p.worstFrame {
		p.worstFrame = dt
	}
	if p.slow > 0 && dt > p.slow {
		p.slowFrames++
	}

	now := time.Now()
	elapsed := now.Sub(p.start)
	if elapsed < p.interval {
		return false
	}

	p.last = p.sample(elapsed)
	logger.Noticef("FPS: %.2f | worst frame: %.1f ms | slow: %d | heap: %.2f MB | alloc: %.2f MB/s | GC: %d (last %v, max %v) | sys: %.2f MB",
		p.last.FPS, p.last.WorstFrame, p.last.SlowFrames, p.last.HeapMB, p.last.AllocRateMB,
		p.last.GCCount, p.last.LastPause, p.last.MaxPause, p.last.SysMB)

	p.start = now
	p.frames = 0
	p.worstFrame = 0
	p.slowFrames = 0
	return true
}

// sample closes the current window. elapsed is the window length.
func (p *Profiler) sample(elapsed time.Duration) Sample {
	runtime.ReadMemStats(&p.memStats)
	ms := &p.memStats

	s := Sample{
		FPS:         float64(p.frames) / elapsed.Seconds(),
		WorstFrame:  p.worstFrame,
		SlowFrames:  p.slowFrames,
		HeapMB:      float64(ms.Alloc) / mb,
		AllocRateMB: float64(ms.TotalAlloc-p.lastTotalAlloc) / mb / elapsed.Seconds(),
		SysMB:       float64(ms.Sys) / mb,
		GCCount:     ms.NumGC,
	}

	// PauseNs is a ring of the last 256 pauses.
	if ms.NumGC > 0 {
		s.LastPause = time.Duration(ms.PauseNs[(ms.NumGC+255)%256])
		from := p.lastGCCount
		if ms.NumGC-from > 256 {
			from = ms.NumGC - 256
		}
		for i := from; i < ms.NumGC; i++ {
			if pause := time.Duration(ms.PauseNs[i%256]); pause > s.MaxPause {
				s.MaxPause = pause
			}
		}
	}

	p.lastGCCount = ms.NumGC
	p.lastTotalAlloc = ms.TotalAlloc
	return s
}
