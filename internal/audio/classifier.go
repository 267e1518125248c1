package audio

import "math"

// DefaultSpeechThreshold suits 16 kHz mono 20 ms frames from a typical
// desktop microphone. Tune per environment via config.
const DefaultSpeechThreshold = 0.015

// Buffer is one capture frame: 16-bit signed mono PCM at a fixed rate.
// Buffers are owned by the capture loop and must be consumed before the
// next read overwrites them.
type Buffer struct {
	Samples []int16
	Rate    int
}

// Duration returns the frame length in seconds.
func (b Buffer) Duration() float64 {
	if b.Rate <= 0 {
		return 0
	}
	return float64(len(b.Samples)) / float64(b.Rate)
}

// ByteLen is the s16le payload size of the frame.
func (b Buffer) ByteLen() int { return 2 * len(b.Samples) }

// RMS computes root-mean-square amplitude normalized to [-1, 1].
// An empty buffer is 0.
func RMS(samples []int16) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		x := float64(s) / 32768.0
		sum += x * x
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// Classifier decides speech vs silence on raw energy. Pure and stateless.
type Classifier struct {
	Threshold float64
}

func NewClassifier(threshold float64) Classifier {
	if threshold <= 0 {
		threshold = DefaultSpeechThreshold
	}
	return Classifier{Threshold: threshold}
}

// IsSpeech reports whether the frame's energy clears the threshold.
func (c Classifier) IsSpeech(b Buffer) bool {
	return RMS(b.Samples) > c.Threshold
}
