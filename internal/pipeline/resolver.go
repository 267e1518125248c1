package pipeline

import (
	"context"

	"murmur/internal/command"
	"murmur/internal/planner"
	"murmur/internal/wininfo"
)

// Resolver tries to turn one intent into an executable plan. A nil result
// means "not mine, try the next one".
type Resolver interface {
	Name() string
	Resolve(ctx context.Context, intent command.Intent) *command.Plan
}

// catalogResolver expands intents through the static command table.
type catalogResolver struct {
	catalog *command.Catalog
}

func (r *catalogResolver) Name() string { return "catalog" }

func (r *catalogResolver) Resolve(_ context.Context, intent command.Intent) *command.Plan {
	def, ok := r.catalog.Lookup(intent.Kind)
	if !ok {
		return nil
	}
	actions := command.BuildActions(def, intent)
	if len(actions) == 0 {
		return nil
	}
	return &command.Plan{Name: def.Kind, Actions: actions}
}

// plannerResolver delegates a single unresolved intent to the external
// planner, with a fresh window-context snapshot.
type plannerResolver struct {
	gateway planner.Gateway
	window  func(context.Context) wininfo.Active
}

func (r *plannerResolver) Name() string { return "planner" }

func (r *plannerResolver) Resolve(ctx context.Context, intent command.Intent) *command.Plan {
	win := r.window(ctx)
	return r.gateway.Plan(ctx, planner.AgentContext{
		Transcript:        intent.RawText,
		Intents:           []command.Intent{intent},
		ActiveProcessName: win.ProcessName,
		ActiveWindowTitle: win.WindowTitle,
	})
}
