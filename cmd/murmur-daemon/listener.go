package main

import (
	"context"
	log "log/slog"
	"sync"
	"time"

	"murmur/internal/audio"
	"murmur/internal/notify"
	"murmur/internal/segment"
)

// captureRunner is the part of audio.Capture a session drives.
type captureRunner interface {
	Run(ctx context.Context, handle func(audio.Buffer)) error
}

// listener manages one listening session: capture goroutine, segmenter,
// ducking and cues. Start while listening and Stop while idle are no-ops;
// Stop finalizes any open segment before returning. A capture loop that
// dies on its own clears the session, so status goes back to idle.
type listener struct {
	capture    captureRunner
	classifier audio.Classifier
	segDir     string
	maxSilence time.Duration
	out        chan<- segment.Segment

	ducker   *audio.Ducker // nil when ducking disabled
	startCue string
	stopCue  string

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func (l *listener) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel != nil {
		log.Info("Already listening")
		return
	}

	seg := segment.NewSegmenter(l.classifier, l.segDir, l.maxSilence, l.out)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	l.cancel = cancel
	l.done = done

	if l.ducker != nil {
		if err := l.ducker.Duck(ctx); err != nil {
			log.Warn("Ducking failed", "err", err)
		}
	}
	if err := notify.Cue(l.startCue); err != nil {
		log.Warn("Start cue failed", "err", err)
	}

	log.Info("Listening started")

	go func() {
		defer close(done)

		if err := l.capture.Run(ctx, seg.Feed); err != nil {
			log.Error("Capture stopped", "err", err)
		}
		seg.Flush()

		if l.ducker != nil {
			if err := l.ducker.Unduck(context.Background()); err != nil {
				log.Warn("Unducking failed", "err", err)
			}
		}
		if err := notify.Cue(l.stopCue); err != nil {
			log.Warn("Stop cue failed", "err", err)
		}

		l.finish(done)
	}()
}

func (l *listener) Stop() {
	l.mu.Lock()
	cancel, done := l.cancel, l.done
	l.cancel, l.done = nil, nil
	l.mu.Unlock()

	if cancel == nil {
		log.Info("Not listening")
		return
	}

	cancel()
	<-done

	log.Info("Listening stopped")
}

// finish clears the session when the capture loop exits on its own. A
// concurrent Stop that already claimed the session wins.
func (l *listener) finish(done chan struct{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.done != done {
		return
	}
	l.cancel()
	l.cancel = nil
	l.done = nil
}

func (l *listener) Listening() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cancel != nil
}
