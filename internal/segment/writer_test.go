package segment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
)

func TestWriter_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seg.wav")

	w, err := NewWriter(path, 16000)
	if err != nil {
		t.Fatal(err)
	}

	samples := []int16{0, 100, -100, 32767, -32768}
	if err := w.Write(samples, 16000); err != nil {
		t.Fatal(err)
	}
	if err := w.Write(samples, 16000); err != nil {
		t.Fatal(err)
	}
	if got := w.Bytes(); got != 2*2*len(samples) {
		t.Errorf("Bytes = %d, want %d", got, 2*2*len(samples))
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		t.Fatal("written artifact is not a valid wav")
	}
	pb, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatal(err)
	}
	if len(pb.Data) != 2*len(samples) {
		t.Errorf("decoded %d samples, want %d", len(pb.Data), 2*len(samples))
	}
	if pb.Format.SampleRate != 16000 || pb.Format.NumChannels != 1 {
		t.Errorf("format = %+v, want 16000 Hz mono", pb.Format)
	}
}

func TestWriter_DoubleCloseIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seg.wav")

	w, err := NewWriter(path, 16000)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Write([]int16{1, 2, 3}, 16000); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close returned error: %v", err)
	}
}

func TestWriter_WriteAfterCloseFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seg.wav")

	w, err := NewWriter(path, 16000)
	if err != nil {
		t.Fatal(err)
	}
	w.Write([]int16{1}, 16000)
	w.Close()

	if err := w.Write([]int16{1}, 16000); err == nil {
		t.Error("Write after Close succeeded")
	}
}
