package audio

import (
	"fmt"
	"io"

	"github.com/ebitengine/oto/v3"
)

// Player plays one PCM stream. *oto.Player satisfies it.
type Player interface {
	Play()
	IsPlaying() bool
	BufferedSize() int
	Close() error
}

// Output is the audio device.
type Output interface {
	// NewPlayer creates a paused player reading PCM from r.
	NewPlayer(r io.Reader) Player

	// Ready is closed once the device can play.
	Ready() <-chan struct{}
}

type otoOutput struct {
	ctx   *oto.Context
	ready chan struct{}
}

// NewOtoOutput opens the system audio device for 16-bit stereo PCM.
// Only one device may be open per process.
//
// Parameters:
//   - sampleRate: the device sample rate
//
// Returns:
//   - Output: the device
//   - error: error if the device cannot be opened
func NewOtoOutput(sampleRate int) (Output, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channelCount,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open audio device: %w", err)
	}
	return &otoOutput{ctx: ctx, ready: ready}, nil
}

func (o *otoOutput) NewPlayer(r io.Reader) Player {
	return o.ctx.NewPlayer(r)
}

func (o *otoOutput) Ready() <-chan struct{} {
	return o.ready
}
