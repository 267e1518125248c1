package decode

import (
	"io"

	"github.com/hajimehoshi/go-mp3"
)

func decodeMP3(r io.Reader) (clip, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return clip{}, err
	}

	raw, err := io.ReadAll(dec)
	if err != nil {
		return clip{}, err
	}

	// The decoder emits interleaved stereo s16le.
	samples := make([]float32, len(raw)/2)
	for i := range samples {
		v := int16(uint16(raw[2*i]) | uint16(raw[2*i+1])<<8)
		samples[i] = float32(v) / 32768.0
	}

	rate := dec.SampleRate()
	if rate <= 0 {
		rate = 44100
	}
	return clip{samples: samples, rate: rate, channels: 2}, nil
}
