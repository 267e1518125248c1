package decode

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func writeWAV(t *testing.T, path string, rate, channels int, data []int) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, rate, 16, channels, 1)
	buf := &goaudio.IntBuffer{
		Data:           data,
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: rate},
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestPCM16k_NativeRateWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.wav")
	data := make([]int, 1600) // 100ms @ 16k
	for i := range data {
		data[i] = 8000
	}
	writeWAV(t, path, 16000, 1, data)

	samples, err := PCM16k(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != len(data) {
		t.Fatalf("got %d samples, want %d", len(samples), len(data))
	}
	want := 8000.0 / 32768.0
	if math.Abs(float64(samples[0])-want) > 1e-4 {
		t.Errorf("sample = %v, want ~%v", samples[0], want)
	}
}

func TestPCM16k_ResamplesStereo44k(t *testing.T) {
	path := filepath.Join(t.TempDir(), "b.wav")
	// 44.1k stereo, 1s: interleaved L/R of equal value so downmix is lossless.
	frames := 44100
	data := make([]int, 2*frames)
	for i := 0; i < frames; i++ {
		data[2*i] = 1000
		data[2*i+1] = 1000
	}
	writeWAV(t, path, 44100, 2, data)

	samples, err := PCM16k(path)
	if err != nil {
		t.Fatal(err)
	}
	// ~1 second at the target rate.
	if len(samples) < 15500 || len(samples) > 16500 {
		t.Errorf("got %d samples, want ~16000", len(samples))
	}
}

func TestPCM16k_MissingFile(t *testing.T) {
	if _, err := PCM16k(filepath.Join(t.TempDir(), "missing.wav")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestPCM16k_GarbageFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.bin")
	if err := os.WriteFile(path, []byte("this is not audio data at all"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := PCM16k(path); err == nil {
		t.Error("expected error for unrecognized container")
	}
}

func TestPCM16k_SniffsWAVWithoutExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artifact")
	data := make([]int, 320)
	for i := range data {
		data[i] = 500
	}
	writeWAV(t, path, 16000, 1, data)

	samples, err := PCM16k(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != len(data) {
		t.Errorf("got %d samples, want %d", len(samples), len(data))
	}
}

func TestDownmix(t *testing.T) {
	in := []float32{1, 0, 0.5, 0.5, -1, 1}
	got := downmix(in, 2)
	want := []float32{0.5, 0.5, 0}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-6 {
			t.Errorf("downmix[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDownmix_MonoPassthrough(t *testing.T) {
	in := []float32{0.1, 0.2}
	if got := downmix(in, 1); &got[0] != &in[0] {
		t.Error("mono downmix should be a passthrough")
	}
}

func TestResample(t *testing.T) {
	in := make([]float32, 48000)
	for i := range in {
		in[i] = 0.25
	}

	out := resample(in, 48000, 16000)
	if len(out) != 16000 {
		t.Fatalf("len = %d, want 16000", len(out))
	}
	for _, v := range out[:100] {
		if math.Abs(float64(v)-0.25) > 1e-6 {
			t.Fatalf("resampled constant signal changed value: %v", v)
		}
	}

	same := resample(in, 16000, 16000)
	if &same[0] != &in[0] {
		t.Error("equal-rate resample should be a passthrough")
	}
}
