// Package executor applies action plans to the device, one action at a
// time, in declared order.
package executor

import (
	"context"
	log "log/slog"
	"time"

	"murmur/internal/command"
	"murmur/internal/device"
)

// Executor runs plans against a device controller. Actions that fail or
// are malformed are skipped with a log line; the plan keeps going. Only
// context cancellation stops a plan early.
type Executor struct {
	ctrl device.Controller
}

func New(ctrl device.Controller) *Executor {
	return &Executor{ctrl: ctrl}
}

// Execute applies the plan's actions strictly in order. Each non-Wait
// action completes before the next starts; Wait suspends only this plan,
// nothing else.
func (e *Executor) Execute(ctx context.Context, plan *command.Plan) error {
	if plan == nil || len(plan.Actions) == 0 {
		name := ""
		if plan != nil {
			name = plan.Name
		}
		log.Info("Empty plan, nothing to execute", "plan", name)
		return nil
	}

	log.Info("Executing plan", "plan", plan.Name, "actions", len(plan.Actions))

	for i, act := range plan.Actions {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if act.Kind == command.KindWait {
			if err := e.wait(ctx, act.Delay); err != nil {
				return err
			}
			continue
		}

		if err := e.apply(act); err != nil {
			log.Warn("Action skipped", "plan", plan.Name, "index", i, "kind", act.Kind, "err", err)
		}
	}

	return nil
}

func (e *Executor) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Executor) apply(act command.Action) error {
	switch act.Kind {
	case command.KindKeyChord:
		return e.ctrl.KeyChord(act.MainKey, act.Modifiers)
	case command.KindKeyTap:
		return e.ctrl.KeyTap(act.MainKey)
	case command.KindTextInput:
		return e.ctrl.TypeText(act.Text)
	case command.KindMouseMoveTo:
		return e.ctrl.MouseMoveTo(act.X, act.Y)
	case command.KindMouseMoveBy:
		return e.ctrl.MouseMoveBy(act.DeltaX, act.DeltaY)
	case command.KindMouseDown:
		return e.ctrl.MouseDown(act.Button)
	case command.KindMouseUp:
		return e.ctrl.MouseUp(act.Button)
	case command.KindMouseClick:
		return e.ctrl.Click(act.Button, false)
	case command.KindMouseDoubleClick:
		return e.ctrl.Click(act.Button, true)
	case command.KindScrollVertical:
		return e.ctrl.ScrollVertical(act.ScrollDelta)
	case command.KindScrollHorizontal:
		return e.ctrl.ScrollHorizontal(act.ScrollDelta)
	}

	log.Warn("Unknown action kind ignored", "kind", act.Kind)
	return nil
}
