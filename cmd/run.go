package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-pulse/engine"
	"github.com/Carmen-Shannon/oxy-pulse/engine/audio"
	"github.com/Carmen-Shannon/oxy-pulse/engine/renderer/backend"
	"github.com/Carmen-Shannon/oxy-pulse/engine/timeline"
	"github.com/Carmen-Shannon/oxy-pulse/engine/window"
	"github.com/Carmen-Shannon/oxy-pulse/visualizer"
	"github.com/urfave/cli"
)

// Run opens the visualizer window and blocks until it is closed.
func Run(ctx *cli.Context) error {
	setupLogging(ctx)

	win, err := openWindow(
		window.WithTitle(ctx.String("title")),
		window.WithSize(ctx.Int("width"), ctx.Int("height")),
	)
	if err != nil {
		return err
	}

	mode := backend.PresentModeUncapped
	if ctx.Bool("vsync") {
		mode = backend.PresentModeVSync
	}
	b, err := backend.NewBackend(win,
		backend.WithPresentMode(mode),
		backend.WithForceSoftwareRenderer(ctx.Bool("software")),
		backend.WithDepthTextureDisabled(ctx.Bool("no-depth-texture")),
	)
	if err != nil {
		win.Close()
		return err
	}
	defer b.Release()

	tracks, custom := playlist(ctx.StringSlice("track"))
	var audioOpts []audio.ServiceBuilderOption
	if ctx.Bool("mute") {
		audioOpts = append(audioOpts, audio.WithSilentOutput())
	}
	a := audio.NewService(tracks, audioOpts...)

	e := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithProfiling(ctx.Bool("profile")),
	)

	visOpts := []visualizer.VisualizerBuilderOption{
		visualizer.WithFloatDepth(ctx.Bool("float-depth")),
		visualizer.WithSeed(ctx.String("seed")),
	}
	if custom {
		// The bundled schedule is timed to the bundled tracks.
		visOpts = append(visOpts, visualizer.WithSchedule(func(visualizer.Geometry) []*timeline.Track { return nil }))
	}
	v, err := visualizer.New(b, a, visOpts...)
	if err != nil {
		e.Quit()
		return fmt.Errorf("failed to build visualizer: %w", err)
	}
	defer func() {
		if err := v.Close(); err != nil {
			logger.Warningf("failed to close audio: %v", err)
		}
	}()

	e.OnTick(v.Tick)
	v.BindResize(e)
	win.SetPointerDownCallback(func(x, y float64) {
		v.Interactions().PointerDown()
	})
	win.SetPointerUpCallback(func(x, y float64) {
		v.Interactions().PointerUp()
	})

	logger.Noticef("playing %d track(s)", len(tracks))
	e.Run()

	total, failed := e.Ticks()
	logger.Infof("ran %d ticks, %d with errors", total, failed)
	return nil
}

// openWindow turns the window constructor's panic into an error.
func openWindow(options ...window.WindowBuilderOption) (win window.Window, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to open window: %v", r)
		}
	}()
	return window.NewWindow(options...), nil
}

// playlist builds the track list from the given paths, falling back to the bundled playlist.
// custom reports whether the paths were used.
func playlist(paths []string) (tracks []audio.Track, custom bool) {
	if len(paths) == 0 {
		return visualizer.DefaultTracks, false
	}
	for _, p := range paths {
		name := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		tracks = append(tracks, audio.Track{Name: name, Path: p})
	}
	return tracks, true
}
