// Package pipeline consumes completed audio segments and turns them into
// device actions: transcribe, extract intents, resolve each intent
// through an ordered resolver chain (catalog, then planner, then a logged
// dry run), execute. One segment is fully handled before the next starts,
// so plans never interleave on the device.
package pipeline

import (
	"context"
	log "log/slog"

	"murmur/internal/bus"
	"murmur/internal/command"
	"murmur/internal/executor"
	"murmur/internal/planner"
	"murmur/internal/segment"
	"murmur/internal/wininfo"
	"murmur/pkg/stt"
)

type Pipeline struct {
	catalog     *command.Catalog
	transcriber stt.Transcriber
	exec        *executor.Executor
	gateway     planner.Gateway // may be nil: planning disabled
	events      *bus.Bus        // may be nil: no hub configured

	resolvers []Resolver
	window    func(context.Context) wininfo.Active
}

// New wires the pipeline. gateway and events may be nil.
func New(catalog *command.Catalog, transcriber stt.Transcriber, exec *executor.Executor, gateway planner.Gateway, events *bus.Bus) *Pipeline {
	p := &Pipeline{
		catalog:     catalog,
		transcriber: transcriber,
		exec:        exec,
		gateway:     gateway,
		events:      events,
		window:      wininfo.Query,
	}

	p.resolvers = []Resolver{&catalogResolver{catalog: catalog}}
	if gateway != nil {
		p.resolvers = append(p.resolvers, &plannerResolver{gateway: gateway, window: p.windowSnapshot})
	}
	return p
}

// Run drains the segment channel until it closes. Segments are handled
// strictly one at a time.
func (p *Pipeline) Run(ctx context.Context, segments <-chan segment.Segment) {
	for seg := range segments {
		p.handleSegment(ctx, seg)
	}
}

func (p *Pipeline) handleSegment(ctx context.Context, seg segment.Segment) {
	p.events.Publish(bus.Event{Kind: "segment", Segment: seg.Path})

	transcript := stt.TextOrPlaceholder(ctx, p.transcriber, seg.Path)
	log.Info("Transcribed", "segment", seg.Path, "text", transcript)
	p.events.Publish(bus.Event{Kind: "transcript", Segment: seg.Path, Transcript: transcript})

	p.HandleTranscript(ctx, transcript)
}

// HandleTranscript runs intent extraction and the fallback policy for one
// transcript. Exported so the inject control path can feed pre-recorded
// artifacts through the same flow.
func (p *Pipeline) HandleTranscript(ctx context.Context, transcript string) {
	intents := command.ExtractIntents(p.catalog, transcript)

	if len(intents) == 0 {
		p.delegateTranscript(ctx, transcript)
		return
	}

	for _, intent := range intents {
		p.resolveAndExecute(ctx, intent)
	}
}

// resolveAndExecute walks the resolver chain for one intent and executes
// the first plan produced. No plan at all is a logged dry run.
func (p *Pipeline) resolveAndExecute(ctx context.Context, intent command.Intent) {
	for _, r := range p.resolvers {
		plan := r.Resolve(ctx, intent)
		if plan == nil {
			continue
		}

		log.Info("Intent resolved", "intent", intent.Kind, "resolver", r.Name(), "plan", plan.Name)
		p.execute(ctx, plan)
		return
	}

	log.Info("Dry run: no resolver produced a plan", "intent", intent.Kind)
	p.events.Publish(bus.Event{Kind: "dry-run", Detail: intent.Kind})
}

// delegateTranscript hands a transcript with no recognized intents to the
// planner exactly once.
func (p *Pipeline) delegateTranscript(ctx context.Context, transcript string) {
	if p.gateway == nil {
		log.Info("No intents and no planner configured", "text", transcript)
		p.events.Publish(bus.Event{Kind: "dry-run", Transcript: transcript})
		return
	}

	win := p.windowSnapshot(ctx)
	plan := p.gateway.Plan(ctx, planner.AgentContext{
		Transcript:        transcript,
		Intents:           []command.Intent{},
		ActiveProcessName: win.ProcessName,
		ActiveWindowTitle: win.WindowTitle,
	})
	if plan == nil {
		log.Info("No plan", "text", transcript)
		p.events.Publish(bus.Event{Kind: "dry-run", Transcript: transcript})
		return
	}

	p.execute(ctx, plan)
}

func (p *Pipeline) execute(ctx context.Context, plan *command.Plan) {
	if err := p.exec.Execute(ctx, plan); err != nil {
		log.Warn("Plan execution interrupted", "plan", plan.Name, "err", err)
		return
	}
	p.events.Publish(bus.Event{Kind: "plan", Plan: plan.Name, Actions: len(plan.Actions)})
}

func (p *Pipeline) windowSnapshot(ctx context.Context) wininfo.Active {
	return p.window(ctx)
}
