package audio

import (
	"context"
	"fmt"
	log "log/slog"

	"github.com/gordonklaus/portaudio"
)

const (
	// SampleRate is fixed for the whole pipeline: segment artifacts and
	// the transcriber both expect 16 kHz mono.
	SampleRate = 16000
	// FrameSize is 20 ms at 16 kHz — the time granularity of segment
	// boundaries.
	FrameSize = 320
)

// Capture owns the default input device and delivers fixed-size frames to
// a handler on its own goroutine. The handler must not block: it runs on
// the capture-delivery path.
type Capture struct {
	frameSize int
}

func NewCapture() *Capture {
	return &Capture{frameSize: FrameSize}
}

// Init brings up portaudio. Pair with Close.
func (c *Capture) Init() error {
	return portaudio.Initialize()
}

func (c *Capture) Close() {
	portaudio.Terminate()
}

// Run opens the default input stream and feeds frames to handle until ctx
// is cancelled. The per-read buffer is reused; handle must copy any
// samples it keeps past the call.
func (c *Capture) Run(ctx context.Context, handle func(Buffer)) error {
	buf := make([]int16, c.frameSize)

	stream, err := portaudio.OpenDefaultStream(1, 0, float64(SampleRate), len(buf), buf)
	if err != nil {
		return fmt.Errorf("open input stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("start input stream: %w", err)
	}
	defer stream.Stop()

	log.Info("Capture running", "rate", SampleRate, "frame", c.frameSize)

	failures := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if err := stream.Read(); err != nil {
			// Overflows happen when the host is busy; skip the frame
			// and keep listening. Give up only if the device looks gone.
			failures++
			if failures >= 50 {
				return fmt.Errorf("input stream read: %w", err)
			}
			log.Warn("Input read failed", "err", err)
			continue
		}
		failures = 0

		handle(Buffer{Samples: buf, Rate: SampleRate})
	}
}
