// Package segment turns a classified audio stream into bounded WAV
// artifacts: a segment opens on the first speech frame and closes once
// trailing silence accumulates past a threshold.
package segment

import (
	"fmt"
	log "log/slog"
	"path/filepath"
	"time"

	"murmur/internal/audio"
)

// DefaultMaxSilence closes a segment after one second of trailing silence.
const DefaultMaxSilence = 1000 * time.Millisecond

// Segment is one completed recording. Immutable; ownership passes to the
// pipeline when it leaves the channel.
type Segment struct {
	Path  string
	Start time.Time
	End   time.Time
	Bytes int
}

// Duration of the recorded audio.
func (s Segment) Duration() time.Duration { return s.End.Sub(s.Start) }

// Segmenter is the Idle/Active state machine. Feed and Flush run on the
// capture goroutine and never block on downstream work: completed segments
// go into a bounded channel and are dropped with a warning if the consumer
// cannot keep up.
type Segmenter struct {
	classifier audio.Classifier
	dir        string
	maxSilence time.Duration

	out chan<- Segment
	now func() time.Time

	// Active-state fields; zero while Idle.
	writer   *Writer
	start    time.Time
	written  time.Duration
	trailing time.Duration
}

// NewSegmenter writes artifacts into dir and emits completed segments on
// out. The channel stays owned by the caller: a fresh segmenter per
// listening session can feed the same consumer.
func NewSegmenter(classifier audio.Classifier, dir string, maxSilence time.Duration, out chan<- Segment) *Segmenter {
	if maxSilence <= 0 {
		maxSilence = DefaultMaxSilence
	}
	return &Segmenter{
		classifier: classifier,
		dir:        dir,
		maxSilence: maxSilence,
		out:        out,
		now:        time.Now,
	}
}

// Feed consumes one capture frame and advances the state machine.
// Silence while Idle is discarded; every frame while Active is written
// before the close decision is taken, so trailing content is never lost.
func (s *Segmenter) Feed(buf audio.Buffer) {
	speech := s.classifier.IsSpeech(buf)

	if s.writer == nil {
		if !speech {
			return
		}
		if err := s.open(buf); err != nil {
			log.Error("Failed to open segment", "err", err)
			return
		}
	}

	if err := s.writer.Write(buf.Samples, buf.Rate); err != nil {
		// The sink is broken; drop the segment rather than stop listening.
		log.Error("Failed to write segment", "err", err)
		s.abort()
		return
	}
	s.written += frameDuration(buf)

	if speech {
		s.trailing = 0
		return
	}

	s.trailing += frameDuration(buf)
	if s.trailing >= s.maxSilence {
		s.close()
	}
}

// Flush finalizes and emits an open segment. No-op while Idle. Called on
// stop so a segment cut off mid-speech still reaches the pipeline.
func (s *Segmenter) Flush() {
	if s.writer == nil {
		return
	}
	s.close()
}

func (s *Segmenter) open(buf audio.Buffer) error {
	start := s.now().UTC()
	name := fmt.Sprintf("seg-%s.wav", start.Format("20060102-150405.000"))

	w, err := NewWriter(filepath.Join(s.dir, name), buf.Rate)
	if err != nil {
		return err
	}

	s.writer = w
	s.start = start
	s.written = 0
	s.trailing = 0

	log.Debug("Segment opened", "path", w.Path())
	return nil
}

func (s *Segmenter) close() {
	w := s.writer
	seg := Segment{
		Path:  w.Path(),
		Start: s.start,
		End:   s.start.Add(s.written),
		Bytes: w.Bytes(),
	}
	s.reset()

	if err := w.Close(); err != nil {
		log.Error("Failed to finalize segment", "path", seg.Path, "err", err)
		return
	}

	log.Info("Segment closed", "path", seg.Path, "dur", seg.Duration(), "bytes", seg.Bytes)

	select {
	case s.out <- seg:
	default:
		log.Warn("Segment backlog full, dropping", "path", seg.Path)
	}
}

func (s *Segmenter) abort() {
	w := s.writer
	s.reset()
	if err := w.Close(); err != nil {
		log.Error("Failed to close aborted segment", "err", err)
	}
}

func (s *Segmenter) reset() {
	s.writer = nil
	s.start = time.Time{}
	s.written = 0
	s.trailing = 0
}

func frameDuration(buf audio.Buffer) time.Duration {
	return time.Duration(buf.Duration() * float64(time.Second))
}
