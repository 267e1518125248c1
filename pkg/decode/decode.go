// Package decode turns audio artifacts (wav, mp3, ogg-vorbis, ogg-opus)
// into the 16 kHz mono float32 PCM the transcriber consumes.
package decode

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// TargetRate is the sample rate every decoded clip is resampled to.
const TargetRate = 16000

// clip is an intermediate decode result at native rate and channel count,
// samples interleaved.
type clip struct {
	samples  []float32
	rate     int
	channels int
}

// PCM16k decodes an artifact file to 16 kHz mono samples in [-1, 1].
// Format is picked by extension, falling back to magic-byte sniffing.
func PCM16k(path string) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var c clip
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		c, err = decodeWAV(f)
	case ".mp3":
		c, err = decodeMP3(f)
	case ".ogg", ".oga", ".opus":
		c, err = decodeOgg(f)
	default:
		c, err = decodeSniffed(f)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return toMono16k(c), nil
}

func decodeSniffed(f *os.File) (clip, error) {
	magic, _ := bufio.NewReader(f).Peek(4)
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return clip{}, err
	}

	switch string(magic) {
	case "RIFF":
		return decodeWAV(f)
	case "OggS":
		return decodeOgg(f)
	}
	return clip{}, fmt.Errorf("unrecognized container (supported: wav, mp3, ogg)")
}

func toMono16k(c clip) []float32 {
	samples := c.samples
	if c.channels > 1 {
		samples = downmix(samples, c.channels)
	}
	if c.rate != TargetRate {
		samples = resample(samples, c.rate, TargetRate)
	}
	return samples
}
