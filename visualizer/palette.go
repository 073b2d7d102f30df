package visualizer

import "github.com/Carmen-Shannon/oxy-pulse/common"

var (
	// InitialPalette is applied before the first palette change.
	InitialPalette = common.MustPalette("#fff", "#e2e2e2")

	// WhitePalette is the neutral palette offered to interaction handlers.
	WhitePalette = common.MustPalette("#fff", "#d3d3d3", "#a5a5a5")

	// Background is the clear color behind the scene.
	Background = common.MustPalette("#F9F9F9")[0]
)

// Palettes is the table NextPalette draws from. The first color of each palette becomes the
// scene background, the rest color the geometry.
var Palettes = []common.Palette{
	common.MustPalette("#69d2e7", "#a7dbd8", "#e0e4cc", "#f38630", "#fa6900"),
	common.MustPalette("#fe4365", "#fc9d9a", "#f9cdad", "#c8c8a9", "#83af9b"),
	common.MustPalette("#ecd078", "#d95b43", "#c02942", "#542437", "#53777a"),
	common.MustPalette("#556270", "#4ecdc4", "#c7f464", "#ff6b6b", "#c44d58"),
	common.MustPalette("#774f38", "#e08e79", "#f1d4af", "#ece5ce", "#c5e0dc"),
	common.MustPalette("#e8ddcb", "#cdb380", "#036564", "#033649", "#031634"),
	common.MustPalette("#490a3d", "#bd1550", "#e97f02", "#f8ca00", "#8a9b0f"),
	common.MustPalette("#594f4f", "#547980", "#45ada8", "#9de0ad", "#e5fcc2"),
	common.MustPalette("#00a0b0", "#6a4a3c", "#cc333f", "#eb6841", "#edc951"),
	common.MustPalette("#e94e77", "#d68189", "#c6a49a", "#c6e5d9", "#f4ead5"),
	common.MustPalette("#3fb8af", "#7fc7af", "#dad8a7", "#ff9e9d", "#ff3d7f"),
	common.MustPalette("#d9ceb2", "#948c75", "#d5ded9", "#7a6a53", "#99b2b7"),
}
