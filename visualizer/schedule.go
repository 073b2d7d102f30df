package visualizer

import (
	"github.com/Carmen-Shannon/oxy-pulse/engine/audio"
	"github.com/Carmen-Shannon/oxy-pulse/engine/timeline"
)

// DefaultTracks is the playlist used when none is given. Schedule pairs with it by index.
var DefaultTracks = []audio.Track{
	{Name: "intro", Path: "assets/audio/intro.mp3"},
	{Name: "now be the light", Path: "assets/audio/now-be-the-light.mp3"},
}

// BeatInterval is the beat cadence of the main track in seconds.
const BeatInterval = 1.427

// Schedule builds the per-track timeline for DefaultTracks. The intro track has no schedule.
//
// Parameters:
//   - g: the geometry the cues drive
//
// Returns:
//   - []*timeline.Track: one entry per playlist track
func Schedule(g Geometry) []*timeline.Track {
	nextBoth := func() {
		g.NextPalette()
		g.NextGeometry()
	}
	return []*timeline.Track{
		nil,
		{
			Events: []*timeline.Event{
				{Time: 7.74, Trigger: nextBoth},
				{Time: 30.32, Trigger: nextBoth},
				{Time: 52.917, Trigger: nextBoth},
			},
			Beats: &timeline.Beats{
				Interval: BeatInterval,
				Start:    BeatInterval,
				Trigger:  g.NextGeometry,
			},
		},
	}
}
