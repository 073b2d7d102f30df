package cmd

import (
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-pulse/engine/renderer/backend"
	"github.com/Carmen-Shannon/oxy-pulse/visualizer"
)

func TestPlaylist(t *testing.T) {
	tracks, custom := playlist(nil)
	if custom || len(tracks) != len(visualizer.DefaultTracks) {
		t.Fatalf("playlist(nil) = %d tracks, custom %t; want bundled playlist", len(tracks), custom)
	}

	tracks, custom = playlist([]string{"music/one.mp3", "two.ogg"})
	if !custom {
		t.Fatal("custom = false, want true")
	}
	if len(tracks) != 2 || tracks[0].Name != "one" || tracks[1].Name != "two" {
		t.Errorf("tracks = %+v, want names one and two", tracks)
	}
	if tracks[0].Path != "music/one.mp3" {
		t.Errorf("path = %q, want music/one.mp3", tracks[0].Path)
	}
}

func TestInfoTable(t *testing.T) {
	out := infoTable(backend.Info{
		Adapter:       "Test GPU",
		BackendType:   "Vulkan",
		PresentModes:  []string{"Fifo", "Immediate"},
		DepthTextures: true,
	})
	for _, want := range []string{"Test GPU", "Vulkan", "Fifo, Immediate", "true"} {
		if !strings.Contains(out, want) {
			t.Errorf("table is missing %q:\n%s", want, out)
		}
	}
}
