package audio

import (
	"context"
	"fmt"
	"math"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

var percentRe = regexp.MustCompile(`(\d+)\s*%`)

type sinkInput struct {
	ID     int
	Volume int
}

// Ducker lowers the volume of other PulseAudio playback streams while the
// microphone is hot, so speaker bleed does not trip the energy classifier,
// and restores them when listening stops. Best effort: pactl failures are
// reported but never stop the caller.
type Ducker struct {
	mu       sync.Mutex
	active   bool
	factor   float64
	fade     time.Duration
	original map[int]int
}

// NewDucker scales other streams by factor (0..1) with a stepped fade.
func NewDucker(factor float64, fade time.Duration) *Ducker {
	if factor < 0 {
		factor = 0
	}
	if factor > 1 {
		factor = 1
	}
	return &Ducker{factor: factor, fade: fade, original: make(map[int]int)}
}

// Duck lowers all current sink-inputs. Idempotent while active.
func (d *Ducker) Duck(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.active {
		return nil
	}

	inputs, err := listSinkInputs(ctx)
	if err != nil {
		return fmt.Errorf("list sink inputs: %w", err)
	}

	d.original = make(map[int]int, len(inputs))
	for _, in := range inputs {
		d.original[in.ID] = in.Volume
		target := int(math.Round(float64(in.Volume) * d.factor))
		if err := fadeSinkInput(ctx, in.ID, in.Volume, target, d.fade); err != nil {
			return err
		}
	}

	d.active = true
	return nil
}

// Unduck restores the volumes captured by Duck. Streams that appeared
// after ducking are left alone.
func (d *Ducker) Unduck(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.active {
		return nil
	}

	inputs, err := listSinkInputs(ctx)
	if err != nil {
		return fmt.Errorf("list sink inputs: %w", err)
	}

	for _, in := range inputs {
		orig, ok := d.original[in.ID]
		if !ok {
			continue
		}
		if err := fadeSinkInput(ctx, in.ID, in.Volume, orig, d.fade); err != nil {
			return err
		}
	}

	d.original = make(map[int]int)
	d.active = false
	return nil
}

func fadeSinkInput(ctx context.Context, id, from, to int, fade time.Duration) error {
	const step = 25 * time.Millisecond

	steps := int(fade / step)
	if steps < 1 {
		return setSinkInputVolume(ctx, id, to)
	}

	for i := 1; i <= steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		frac := float64(i) / float64(steps)
		v := int(math.Round(float64(from) + float64(to-from)*frac))
		if err := setSinkInputVolume(ctx, id, v); err != nil {
			return err
		}
		if i < steps {
			time.Sleep(step)
		}
	}
	return nil
}

func listSinkInputs(ctx context.Context) ([]sinkInput, error) {
	out, err := exec.CommandContext(ctx, "pactl", "list", "sink-inputs").Output()
	if err != nil {
		return nil, fmt.Errorf("pactl list sink-inputs: %w", err)
	}

	blocks := strings.Split(string(out), "Sink Input #")
	if len(blocks) <= 1 {
		return nil, nil
	}

	var res []sinkInput
	for _, block := range blocks[1:] {
		nl := strings.IndexByte(block, '\n')
		if nl <= 0 {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(block[:nl]))
		if err != nil {
			continue
		}

		in := sinkInput{ID: id, Volume: -1}
		for _, line := range strings.Split(block[nl+1:], "\n") {
			line = strings.TrimSpace(line)
			if strings.HasPrefix(line, "Volume:") && in.Volume < 0 {
				if m := percentRe.FindStringSubmatch(line); len(m) >= 2 {
					if v, err := strconv.Atoi(m[1]); err == nil {
						in.Volume = v
					}
				}
			}
		}
		if in.Volume >= 0 {
			res = append(res, in)
		}
	}
	return res, nil
}

func setSinkInputVolume(ctx context.Context, id, percent int) error {
	if percent < 0 {
		percent = 0
	}
	if percent > 150 {
		percent = 150
	}
	arg := fmt.Sprintf("%d%%", percent)
	return exec.CommandContext(ctx, "pactl", "set-sink-input-volume", strconv.Itoa(id), arg).Run()
}
