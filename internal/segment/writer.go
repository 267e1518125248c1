package segment

import (
	"fmt"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Writer owns one open WAV sink. The segmenter guarantees a single open
// writer at a time; Writer does not re-check that. Every Write is synced
// to disk so a crash mid-segment loses at most the last frame.
type Writer struct {
	path   string
	f      *os.File
	enc    *wav.Encoder
	bytes  int
	closed bool
}

// NewWriter creates the artifact file and its 16 kHz mono s16le header.
func NewWriter(path string, sampleRate int) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create segment %s: %w", path, err)
	}

	return &Writer{
		path: path,
		f:    f,
		enc:  wav.NewEncoder(f, sampleRate, 16, 1, 1),
	}, nil
}

// Write appends one frame and flushes it durably.
func (w *Writer) Write(samples []int16, sampleRate int) error {
	if w.closed {
		return fmt.Errorf("write to closed segment %s", w.path)
	}

	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(s)
	}

	buf := &goaudio.IntBuffer{
		Data:           data,
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		SourceBitDepth: 16,
	}
	if err := w.enc.Write(buf); err != nil {
		return fmt.Errorf("write segment %s: %w", w.path, err)
	}
	if err := w.f.Sync(); err != nil {
		return fmt.Errorf("sync segment %s: %w", w.path, err)
	}

	w.bytes += 2 * len(samples)
	return nil
}

// Close finalizes the RIFF header and releases the file. Safe to call
// more than once.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.enc.Close(); err != nil {
		w.f.Close()
		return fmt.Errorf("finalize segment %s: %w", w.path, err)
	}
	if err := w.f.Close(); err != nil {
		return fmt.Errorf("close segment %s: %w", w.path, err)
	}
	return nil
}

// Path is the artifact location.
func (w *Writer) Path() string { return w.path }

// Bytes is the PCM payload written so far.
func (w *Writer) Bytes() int { return w.bytes }
