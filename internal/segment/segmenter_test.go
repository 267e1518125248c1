package segment

import (
	"os"
	"testing"
	"time"

	"murmur/internal/audio"
)

const testRate = 16000

func speechBuf() audio.Buffer {
	samples := make([]int16, 320)
	for i := range samples {
		samples[i] = 8000
	}
	return audio.Buffer{Samples: samples, Rate: testRate}
}

func silenceBuf() audio.Buffer {
	return audio.Buffer{Samples: make([]int16, 320), Rate: testRate}
}

func newTestSegmenter(t *testing.T, maxSilence time.Duration) (*Segmenter, chan Segment) {
	t.Helper()
	out := make(chan Segment, 8)
	s := NewSegmenter(audio.NewClassifier(0.05), t.TempDir(), maxSilence, out)

	// Deterministic clock so filenames and timestamps are stable.
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * 20 * time.Millisecond)
	}
	return s, out
}

func TestSegmenter_SilenceWhileIdleDiscarded(t *testing.T) {
	s, out := newTestSegmenter(t, 100*time.Millisecond)
	dir := s.dir

	for i := 0; i < 20; i++ {
		s.Feed(silenceBuf())
	}
	s.Flush()

	if len(out) != 0 {
		t.Fatalf("expected no segments, got %d", len(out))
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no artifact files, found %d", len(entries))
	}
}

func TestSegmenter_ClosesAtExactThreshold(t *testing.T) {
	// 100ms threshold = exactly 5 silence frames of 20ms.
	s, out := newTestSegmenter(t, 100*time.Millisecond)

	s.Feed(speechBuf())
	for i := 0; i < 4; i++ {
		s.Feed(silenceBuf())
	}
	if len(out) != 0 {
		t.Fatal("segment closed before trailing silence reached threshold")
	}

	s.Feed(silenceBuf())
	if len(out) != 1 {
		t.Fatal("segment not closed at exact threshold")
	}
}

func TestSegmenter_ByteAccounting(t *testing.T) {
	s, out := newTestSegmenter(t, 100*time.Millisecond)

	// speech, speech, silence, speech (resets trailing), then 5 silence to close.
	fed := 0
	for _, b := range []audio.Buffer{speechBuf(), speechBuf(), silenceBuf(), speechBuf()} {
		s.Feed(b)
		fed += b.ByteLen()
	}
	for i := 0; i < 5; i++ {
		b := silenceBuf()
		s.Feed(b)
		fed += b.ByteLen()
	}

	seg := <-out
	if seg.Bytes != fed {
		t.Errorf("segment bytes = %d, want %d (every Active frame written)", seg.Bytes, fed)
	}

	info, err := os.Stat(seg.Path)
	if err != nil {
		t.Fatalf("artifact missing: %v", err)
	}
	if info.Size() <= int64(seg.Bytes) {
		t.Errorf("artifact size %d not larger than payload %d (no header?)", info.Size(), seg.Bytes)
	}
}

func TestSegmenter_SpeechResetsTrailingSilence(t *testing.T) {
	s, out := newTestSegmenter(t, 100*time.Millisecond)

	s.Feed(speechBuf())
	for round := 0; round < 3; round++ {
		for i := 0; i < 4; i++ {
			s.Feed(silenceBuf())
		}
		s.Feed(speechBuf()) // resets the accumulator each round
	}
	if len(out) != 0 {
		t.Fatal("segment closed despite speech resetting trailing silence")
	}

	for i := 0; i < 5; i++ {
		s.Feed(silenceBuf())
	}
	if len(out) != 1 {
		t.Fatal("segment not closed after uninterrupted trailing silence")
	}
}

func TestSegmenter_FlushEmitsOpenSegment(t *testing.T) {
	s, out := newTestSegmenter(t, time.Second)

	s.Feed(speechBuf())
	s.Feed(speechBuf())
	s.Flush()

	select {
	case seg := <-out:
		if seg.Bytes != 2*640 {
			t.Errorf("flushed segment bytes = %d, want %d", seg.Bytes, 2*640)
		}
	default:
		t.Fatal("Flush did not emit the open segment")
	}

	// Flush while idle is a no-op.
	s.Flush()
	if len(out) != 0 {
		t.Error("Flush while idle emitted a segment")
	}
}

func TestSegmenter_TimestampsAndDuration(t *testing.T) {
	s, out := newTestSegmenter(t, 100*time.Millisecond)

	s.Feed(speechBuf())
	for i := 0; i < 5; i++ {
		s.Feed(silenceBuf())
	}

	seg := <-out
	if seg.End.Before(seg.Start) {
		t.Fatalf("End %v before Start %v", seg.End, seg.Start)
	}
	// 6 frames of 20ms were written.
	if got := seg.Duration(); got != 120*time.Millisecond {
		t.Errorf("duration = %v, want 120ms", got)
	}
	if seg.Start.Location() != time.UTC {
		t.Errorf("start not in UTC: %v", seg.Start)
	}
}

func TestSegmenter_ConsecutiveSegments(t *testing.T) {
	s, out := newTestSegmenter(t, 100*time.Millisecond)

	for round := 0; round < 3; round++ {
		s.Feed(speechBuf())
		for i := 0; i < 5; i++ {
			s.Feed(silenceBuf())
		}
	}

	if len(out) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(out))
	}
	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		seg := <-out
		if seen[seg.Path] {
			t.Errorf("duplicate artifact path %s", seg.Path)
		}
		seen[seg.Path] = true
	}
}
