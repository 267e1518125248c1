package decode

import (
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"
	popus "github.com/pekim/opus"
)

// decodeOgg tries Vorbis first, then Opus: both live in the same container
// and the extension does not tell them apart.
func decodeOgg(r io.ReadSeeker) (clip, error) {
	c, vorbisErr := decodeVorbis(r)
	if vorbisErr == nil {
		return c, nil
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return clip{}, err
	}
	c, opusErr := decodeOpus(r)
	if opusErr == nil {
		return c, nil
	}

	return clip{}, fmt.Errorf("ogg: not vorbis (%v), not opus (%v)", vorbisErr, opusErr)
}

func decodeVorbis(r io.Reader) (clip, error) {
	pcm, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return clip{}, err
	}
	if format == nil || format.Channels <= 0 || format.SampleRate <= 0 {
		return clip{}, fmt.Errorf("invalid vorbis stream")
	}
	return clip{samples: pcm, rate: format.SampleRate, channels: format.Channels}, nil
}

func decodeOpus(r io.ReadSeeker) (clip, error) {
	dec, err := popus.NewDecoder(r)
	if err != nil {
		return clip{}, err
	}
	defer dec.Destroy()

	ch := dec.ChannelCount()
	if ch <= 0 {
		ch = 1
	}

	// Opus always decodes at 48 kHz.
	var samples []float32
	buf := make([]int16, 48_000*ch/2)
	for {
		n, err := dec.Read(buf)
		if n > 0 {
			for _, v := range buf[:n*ch] {
				samples = append(samples, float32(v)/32768.0)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return clip{}, err
		}
	}

	return clip{samples: samples, rate: 48000, channels: ch}, nil
}
