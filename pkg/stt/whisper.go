package stt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	"murmur/pkg/decode"
)

// Options tune a Whisper transcriber. Zero values mean defaults.
type Options struct {
	Language string // "auto", "en", ...
	Threads  int    // <=0 => NumCPU()
	BeamSize int    // >0 enables beam search
}

// Whisper runs whisper.cpp in-process through the Go bindings.
type Whisper struct {
	model whisper.Model
	opt   Options
}

// NewWhisper loads a ggml model from disk.
func NewWhisper(modelPath string, opt Options) (*Whisper, error) {
	if modelPath == "" {
		return nil, errors.New("empty model path")
	}
	m, err := whisper.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	return &Whisper{model: m, opt: opt}, nil
}

func (w *Whisper) Close() error {
	if w.model == nil {
		return nil
	}
	return w.model.Close()
}

// Transcribe decodes the artifact to 16 kHz mono PCM and runs recognition.
func (w *Whisper) Transcribe(ctx context.Context, path string) (string, error) {
	if w.model == nil {
		return "", errors.New("nil model")
	}

	pcm, err := decode.PCM16k(path)
	if err != nil {
		return "", err
	}
	if len(pcm) == 0 {
		return "", errors.New("no audio samples")
	}

	wctx, err := w.model.NewContext()
	if err != nil {
		return "", fmt.Errorf("new context: %w", err)
	}

	lang := w.opt.Language
	if lang == "" {
		lang = "auto"
	}
	if err := wctx.SetLanguage(lang); err != nil {
		return "", fmt.Errorf("set language: %w", err)
	}

	threads := w.opt.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	wctx.SetThreads(uint(threads))

	if w.opt.BeamSize > 0 {
		wctx.SetBeamSize(w.opt.BeamSize)
	}

	if err := wctx.Process(pcm, nil, nil, nil); err != nil {
		return "", fmt.Errorf("process: %w", err)
	}

	var parts []string
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		seg, err := wctx.NextSegment()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("next segment: %w", err)
		}
		parts = append(parts, seg.Text)
	}

	return strings.Join(parts, " "), nil
}
