// Package planner reaches out to an external planning capability when no
// catalog rule covers an intent. Implementations are silent-and-safe:
// every failure mode collapses to a nil plan, nothing escapes the
// boundary.
package planner

import (
	"context"
	"time"

	"murmur/internal/command"
	"murmur/pkg/planwire"
)

// AgentContext is the snapshot handed to a planner. Built fresh for every
// call, never cached.
type AgentContext struct {
	Transcript        string
	Intents           []command.Intent
	ActiveProcessName string
	ActiveWindowTitle string
}

// Gateway asks an external planner for an action list. A nil result means
// "no plan"; implementations must not panic or surface errors.
type Gateway interface {
	Plan(ctx context.Context, actx AgentContext) *command.Plan
}

func wireRequest(actx AgentContext) planwire.PlanRequest {
	intents := make([]planwire.IntentDTO, 0, len(actx.Intents))
	for _, in := range actx.Intents {
		intents = append(intents, planwire.IntentDTO{Kind: in.Kind, RawText: in.RawText})
	}
	return planwire.PlanRequest{
		Transcript:        actx.Transcript,
		ActiveProcessName: actx.ActiveProcessName,
		ActiveWindowTitle: actx.ActiveWindowTitle,
		Intents:           intents,
	}
}

// fromWire converts a sanitized wire plan into the executable model.
func fromWire(resp *planwire.PlanResponse) *command.Plan {
	if resp == nil {
		return nil
	}

	actions := make([]command.Action, 0, len(resp.Actions))
	for _, a := range resp.Actions {
		actions = append(actions, command.Action{
			Kind:        command.ActionKind(a.Kind),
			MainKey:     a.MainKey,
			Modifiers:   a.Modifiers,
			Text:        a.Text,
			ScrollDelta: a.ScrollDelta,
			Delay:       time.Duration(a.MillisecondsDelay) * time.Millisecond,
			X:           a.X,
			Y:           a.Y,
			DeltaX:      a.DeltaX,
			DeltaY:      a.DeltaY,
			Button:      a.Button,
		})
	}
	return &command.Plan{Name: resp.Name, Actions: actions}
}
