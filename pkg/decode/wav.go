package decode

import (
	"errors"
	"io"

	"github.com/go-audio/wav"
)

func decodeWAV(r io.ReadSeeker) (clip, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return clip{}, errors.New("invalid wav")
	}

	pb, err := dec.FullPCMBuffer()
	if err != nil {
		return clip{}, err
	}
	if pb == nil || len(pb.Data) == 0 {
		return clip{}, errors.New("empty wav")
	}

	depth := int(dec.BitDepth)
	if depth == 0 {
		depth = 16
	}

	scale := 1.0 / float32(int64(1)<<(depth-1))
	samples := make([]float32, len(pb.Data))
	for i, v := range pb.Data {
		x := float32(v) * scale
		if x > 1 {
			x = 1
		} else if x < -1 {
			x = -1
		}
		samples[i] = x
	}

	c := clip{samples: samples, rate: 44100, channels: 1}
	if pb.Format != nil {
		if pb.Format.SampleRate > 0 {
			c.rate = pb.Format.SampleRate
		}
		if pb.Format.NumChannels > 0 {
			c.channels = pb.Format.NumChannels
		}
	}
	return c, nil
}
