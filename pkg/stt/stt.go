// Package stt wraps speech-to-text backends behind one file-in, text-out
// interface. Backends can fail; callers that must keep going use
// TextOrPlaceholder so a recognition failure degrades to a marker
// transcript instead of an error.
package stt

import (
	"context"
	log "log/slog"
	"strings"
)

// Placeholder stands in for a transcript when recognition fails or
// returns nothing usable.
const Placeholder = "[unrecognized audio]"

// Transcriber converts one audio artifact into plain text.
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
	Close() error
}

// TextOrPlaceholder runs the transcriber and degrades any failure or
// empty result to the placeholder transcript.
func TextOrPlaceholder(ctx context.Context, t Transcriber, path string) string {
	text, err := t.Transcribe(ctx, path)
	if err != nil {
		log.Error("Transcription failed", "path", path, "err", err)
		return Placeholder
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Placeholder
	}
	return text
}
