package feedback

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/wav"
	"github.com/ncruces/zenity"
)

// resampleQuality is passed to beep.Resample for chime files recorded at
// another rate.
const resampleQuality = 4

// ErrUnsupported is returned for chime files that are not wav, mp3 or flac.
var ErrUnsupported = errors.New("unsupported chime file type")

// LoadChime decodes a short audio file fully into memory at OutputRate.
func LoadChime(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	default:
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	defer streamer.Close()

	var src beep.Streamer = streamer
	if format.SampleRate != OutputRate {
		src = beep.Resample(resampleQuality, format.SampleRate, OutputRate, streamer)
	}

	out := format
	out.SampleRate = OutputRate
	buf := beep.NewBuffer(out)
	buf.Append(src)
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return buf, nil
}

// SelectChimeFile asks the user for a chime file. A cancelled dialog
// returns an empty path and no error.
func SelectChimeFile() (string, error) {
	path, err := zenity.SelectFile(
		zenity.Title("Choose Breath Chime"),
		zenity.FileFilters{{
			Name:     "Audio",
			Patterns: []string{"*.wav", "*.mp3", "*.flac"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", nil
		}
		return "", err
	}
	return path, nil
}
