package audio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

// ErrUnsupportedFormat is returned for files that are not MP3, Ogg Vorbis or WAV.
var ErrUnsupportedFormat = errors.New("audio: unsupported format")

// Decoder turns an audio file into signed 16-bit little-endian stereo PCM at sampleRate.
type Decoder func(path string, sampleRate int) ([]byte, error)

// DecodeFile is the default Decoder. The format is picked from the file extension.
//
// Parameters:
//   - path: the audio file
//   - sampleRate: the output sample rate
//
// Returns:
//   - []byte: the decoded PCM
//   - error: error if the file cannot be read or decoded
func DecodeFile(path string, sampleRate int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var stream io.Reader
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp3":
		stream, err = mp3.DecodeWithSampleRate(sampleRate, f)
	case ".ogg", ".oga":
		stream, err = vorbis.DecodeWithSampleRate(sampleRate, f)
	case ".wav":
		stream, err = wav.DecodeWithSampleRate(sampleRate, f)
	default:
		return nil, fmt.Errorf("%s: %w", ext, ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	pcm, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return pcm, nil
}
