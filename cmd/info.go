package cmd

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-pulse/engine/renderer/backend"
	"github.com/Carmen-Shannon/oxy-pulse/engine/window"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Info prints the adapter and surface capabilities the visualizer would run with.
func Info(ctx *cli.Context) error {
	setupLogging(ctx)

	win, err := openWindow(
		window.WithTitle("oxy-pulse info"),
		window.WithSize(320, 240),
	)
	if err != nil {
		return err
	}
	defer win.Close()

	b, err := backend.NewBackend(win, backend.WithForceSoftwareRenderer(ctx.Bool("software")))
	if err != nil {
		return err
	}
	defer b.Release()

	logger.Noticef("graphics capabilities\n%s", infoTable(b.Info()))
	return nil
}

func infoTable(info backend.Info) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Property", "Value"})
	table.AppendBulk([][]string{
		{"Adapter", info.Adapter},
		{"Vendor", info.Vendor},
		{"Driver", info.Driver},
		{"Adapter type", info.AdapterType},
		{"Backend", info.BackendType},
		{"Surface format", info.SurfaceFormat},
		{"Present modes", strings.Join(info.PresentModes, ", ")},
		{"Depth textures", fmt.Sprintf("%t", info.DepthTextures)},
		{"Fallback adapter", fmt.Sprintf("%t", info.FallbackForced)},
	})
	table.Render()
	return buf.String()
}
