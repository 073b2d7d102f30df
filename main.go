package main

import (
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-pulse/cmd"
	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "oxy-pulse"
	app.Usage = "audio-reactive geometry visualizer"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "run",
			Usage: "open the visualizer window and play the playlist",
			Description: `
Open a window, queue the playlist for decoding and start playback once it is ready.
Geometry and palette changes follow the track schedule. The first click replaces
the intro geometry, after which the pointer has no effect.`,
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Value: 1280,
					Usage: "window width in logical pixels",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 720,
					Usage: "window height in logical pixels",
				},
				cli.StringFlag{
					Name:  "title",
					Value: "oxy-pulse",
					Usage: "window title",
				},
				cli.BoolFlag{
					Name:  "float-depth",
					Usage: "capture depth into a float color target instead of a native depth texture",
				},
				cli.BoolFlag{
					Name:  "no-depth-texture",
					Usage: "report no depth texture support to exercise the fallback paths",
				},
				cli.BoolFlag{
					Name:  "vsync",
					Usage: "present on vertical blank instead of uncapped",
				},
				cli.BoolFlag{
					Name:  "software",
					Usage: "request the CPU fallback adapter",
				},
				cli.BoolFlag{
					Name:  "profile",
					Usage: "log frame rate and heap statistics every second",
				},
				cli.StringSliceFlag{
					Name:  "track, t",
					Value: &cli.StringSlice{},
					Usage: "audio file to play; repeat for a playlist (defaults to the bundled playlist)",
				},
				cli.StringFlag{
					Name:  "seed",
					Value: "1",
					Usage: "seed of the geometry and palette generator",
				},
				cli.BoolFlag{
					Name:  "mute",
					Usage: "advance the playlist without opening an audio device",
				},
			},
			Action: cmd.Run,
		},
		{
			Name:  "info",
			Usage: "print the graphics adapter and surface capabilities",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "software",
					Usage: "request the CPU fallback adapter",
				},
			},
			Action: cmd.Info,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "oxy-pulse: %v\n", err)
		os.Exit(1)
	}
}
