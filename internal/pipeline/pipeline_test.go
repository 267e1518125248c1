package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"murmur/internal/bus"
	"murmur/internal/command"
	"murmur/internal/executor"
	"murmur/internal/planner"
	"murmur/internal/segment"
	"murmur/internal/wininfo"
)

type fakeTranscriber struct {
	text string
	err  error
}

func (f *fakeTranscriber) Transcribe(context.Context, string) (string, error) {
	return f.text, f.err
}
func (f *fakeTranscriber) Close() error { return nil }

type fakeGateway struct {
	plan  *command.Plan
	calls []planner.AgentContext
}

func (f *fakeGateway) Plan(_ context.Context, actx planner.AgentContext) *command.Plan {
	f.calls = append(f.calls, actx)
	return f.plan
}

// fakeDevice records the operations that reached the device surface.
type fakeDevice struct {
	ops []string
}

func (f *fakeDevice) KeyChord(mainKey string, _ []string) error {
	f.ops = append(f.ops, "chord:"+mainKey)
	return nil
}
func (f *fakeDevice) KeyTap(mainKey string) error { f.ops = append(f.ops, "tap:"+mainKey); return nil }
func (f *fakeDevice) TypeText(text string) error  { f.ops = append(f.ops, "type:"+text); return nil }
func (f *fakeDevice) MouseMoveTo(int, int) error  { f.ops = append(f.ops, "moveTo"); return nil }
func (f *fakeDevice) MouseMoveBy(int, int) error  { f.ops = append(f.ops, "moveBy"); return nil }
func (f *fakeDevice) MouseDown(string) error      { f.ops = append(f.ops, "down"); return nil }
func (f *fakeDevice) MouseUp(string) error        { f.ops = append(f.ops, "up"); return nil }
func (f *fakeDevice) Click(string, bool) error    { f.ops = append(f.ops, "click"); return nil }
func (f *fakeDevice) ScrollVertical(d int) error  { f.ops = append(f.ops, "scrollV"); return nil }
func (f *fakeDevice) ScrollHorizontal(int) error  { f.ops = append(f.ops, "scrollH"); return nil }

// newTestPipeline wires a pipeline over fakes; nil defs means the
// built-in catalog.
func newTestPipeline(t *testing.T, defs []command.Definition, gw planner.Gateway, text string) (*Pipeline, *fakeDevice) {
	t.Helper()

	if defs == nil {
		defs = command.DefaultDefinitions()
	}
	catalog, err := command.NewCatalog(defs)
	require.NoError(t, err)

	dev := &fakeDevice{}
	p := New(catalog, &fakeTranscriber{text: text}, executor.New(dev), gw, nil)
	p.window = func(context.Context) wininfo.Active {
		return wininfo.Active{ProcessName: "testproc", WindowTitle: "Test Window"}
	}
	return p, dev
}

func TestHandleTranscript_CatalogIntentsInOrder(t *testing.T) {
	p, dev := newTestPipeline(t, nil, nil, "")

	p.HandleTranscript(context.Background(), "open new tab then close a tab")

	assert.Equal(t, []string{"chord:VK_T", "chord:VK_W"}, dev.ops)
}

func TestHandleTranscript_ZeroIntentsDelegatesOnce(t *testing.T) {
	gw := &fakeGateway{}
	p, dev := newTestPipeline(t, nil, gw, "")

	transcript := "something the catalog does not know"
	p.HandleTranscript(context.Background(), transcript)

	require.Len(t, gw.calls, 1, "planner must be called exactly once for the whole transcript")
	actx := gw.calls[0]
	assert.Equal(t, transcript, actx.Transcript)
	assert.Empty(t, actx.Intents)
	assert.Equal(t, "testproc", actx.ActiveProcessName)
	assert.Equal(t, "Test Window", actx.ActiveWindowTitle)
	assert.Empty(t, dev.ops, "no plan means no device effect")
}

func TestHandleTranscript_PlannerPlanExecuted(t *testing.T) {
	gw := &fakeGateway{plan: &command.Plan{
		Name: "OpenChrome",
		Actions: []command.Action{
			command.KeyTap("LWIN"),
			command.TextInput("chrome"),
			command.KeyTap("RETURN"),
		},
	}}
	p, dev := newTestPipeline(t, nil, gw, "")

	p.HandleTranscript(context.Background(), "open chrome for me")

	assert.Equal(t, []string{"tap:LWIN", "type:chrome", "tap:RETURN"}, dev.ops)
}

func TestHandleTranscript_UnbuildableIntentFallsThroughToPlanner(t *testing.T) {
	// A KeyChord definition without a main key: the catalog resolver
	// matches the intent but cannot build, so the planner gets it.
	defs := []command.Definition{
		{Kind: "Ghost", Category: "test", Action: command.ActionKeyChord, Phrases: []string{"ghost command"}},
	}
	gw := &fakeGateway{}
	p, dev := newTestPipeline(t, defs, gw, "")

	p.HandleTranscript(context.Background(), "run the ghost command now")

	require.Len(t, gw.calls, 1)
	actx := gw.calls[0]
	require.Len(t, actx.Intents, 1)
	assert.Equal(t, "Ghost", actx.Intents[0].Kind)
	assert.Equal(t, "run the ghost command now", actx.Intents[0].RawText)
	assert.Empty(t, dev.ops)
}

func TestHandleTranscript_NoPlannerDryRun(t *testing.T) {
	defs := []command.Definition{
		{Kind: "Ghost", Category: "test", Action: command.ActionKeyChord, Phrases: []string{"ghost command"}},
	}
	p, dev := newTestPipeline(t, defs, nil, "")

	// Must not panic with no planner configured, for both paths.
	p.HandleTranscript(context.Background(), "ghost command")
	p.HandleTranscript(context.Background(), "nothing matches here")

	assert.Empty(t, dev.ops)
}

func TestRun_ProcessesSegmentsSerially(t *testing.T) {
	p, dev := newTestPipeline(t, nil, nil, "open new tab")

	segments := make(chan segment.Segment, 2)
	now := time.Now().UTC()
	segments <- segment.Segment{Path: "a.wav", Start: now, End: now}
	segments <- segment.Segment{Path: "b.wav", Start: now, End: now}
	close(segments)

	p.Run(context.Background(), segments)

	assert.Equal(t, []string{"chord:VK_T", "chord:VK_T"}, dev.ops)
}

func TestHandleSegment_TranscriberFailureDegrades(t *testing.T) {
	catalog, err := command.NewCatalog(command.DefaultDefinitions())
	require.NoError(t, err)

	gw := &fakeGateway{}
	dev := &fakeDevice{}
	p := New(catalog, &fakeTranscriber{err: assert.AnError}, executor.New(dev), gw, nil)
	p.window = func(context.Context) wininfo.Active { return wininfo.Active{} }

	now := time.Now().UTC()
	p.handleSegment(context.Background(), segment.Segment{Path: "x.wav", Start: now, End: now})

	// The placeholder transcript matches no catalog phrase, so the
	// planner sees it once; nothing crashes.
	require.Len(t, gw.calls, 1)
	assert.Empty(t, dev.ops)
}

func TestPipeline_NilEventBusIsSafe(t *testing.T) {
	p, _ := newTestPipeline(t, nil, nil, "")
	var b *bus.Bus
	assert.NotPanics(t, func() {
		b.Publish(bus.Event{Kind: "test"})
		p.HandleTranscript(context.Background(), "open new tab")
	})
}
