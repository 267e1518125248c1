package planner

import (
	"context"
	"encoding/json"
	log "log/slog"
	"regexp"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"

	"murmur/internal/command"
	"murmur/pkg/planwire"
)

const planPrompt = `You are a desktop voice automation planner.
You MUST return ONLY valid JSON for an ActionPlan with this schema:

{
  "name": "ShortPlanName",
  "actions": [
    {
      "kind": "<one of: KeyChord, KeyTap, TextInput, ScrollVertical, ScrollHorizontal, MouseMoveTo, MouseMoveBy, MouseDown, MouseUp, MouseClick, MouseDoubleClick, Wait>",
      "mainKey": "one virtual key name only (e.g., LWIN, RETURN, VK_T)",
      "modifiers": ["CONTROL","SHIFT","MENU","LWIN"],
      "text": "text to type",
      "scrollDelta": -3,
      "millisecondsDelay": 500,
      "x": 500, "y": 500,
      "deltaX": 20, "deltaY": -10,
      "button": "Left|Right|Middle"
    }
  ]
}

Rules:
- OPEN-APP CANONICAL FLOW (whenever the user says open/launch/start an app):
  1) {"kind":"KeyTap","mainKey":"LWIN"}
  2) {"kind":"TextInput","text":"<app name>"}
  3) {"kind":"KeyTap","mainKey":"RETURN"}
  4) {"kind":"Wait","millisecondsDelay":800}
- Never add modifiers to LWIN unless the user explicitly says a chord.
- For KeyChord/KeyTap: mainKey MUST be a SINGLE key name. Never '+' or '|'.
- Use modifiers[] for chords: e.g., mainKey="VK_T", modifiers=["CONTROL"].
- Return an empty actions list only when there is no actionable intent.
- Output JSON ONLY. No commentary.`

var jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

// OpenAI plans through a chat-completions model prompted to emit a single
// plan JSON object.
type OpenAI struct {
	client  openai.Client
	model   string
	timeout time.Duration
}

func NewOpenAI(client openai.Client, model string, timeout time.Duration) *OpenAI {
	if model == "" {
		model = openai.ChatModelGPT5Nano
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OpenAI{client: client, model: model, timeout: timeout}
}

func (o *OpenAI) Plan(ctx context.Context, actx AgentContext) *command.Plan {
	user, err := json.Marshal(wireRequest(actx))
	if err != nil {
		log.Warn("Planner context marshal failed", "err", err)
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(planPrompt),
			openai.UserMessage(string(user)),
		},
		Model: o.model,
	})
	if err != nil {
		log.Warn("Planner model call failed", "err", err)
		return nil
	}
	if len(resp.Choices) == 0 {
		log.Warn("Planner model returned no choices")
		return nil
	}

	return fromWire(planwire.DecodePlan(extractJSON(resp.Choices[0].Message.Content)))
}

// extractJSON pulls the first JSON object out of model text that may be
// wrapped in prose or code fences.
func extractJSON(content string) []byte {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "{") {
		return []byte(content)
	}
	if m := jsonObjectRe.FindString(content); m != "" {
		return []byte(m)
	}
	return nil
}
