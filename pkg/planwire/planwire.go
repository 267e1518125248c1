// Package planwire defines the JSON contract spoken between the daemon and
// a remote planner, plus the sanitation applied to every plan the planner
// returns. The planner is untrusted: unknown action kinds, broken key
// fields and junk values are dropped element-by-element, never rejected
// wholesale.
package planwire

import (
	"encoding/json"
	"regexp"
	"strings"
)

// AllowedKinds are the action kinds a plan may carry, in wire spelling.
var AllowedKinds = []string{
	"KeyChord", "KeyTap", "TextInput",
	"ScrollVertical", "ScrollHorizontal",
	"MouseMoveTo", "MouseMoveBy",
	"MouseDown", "MouseUp", "MouseClick", "MouseDoubleClick",
	"Wait",
}

// IntentDTO mirrors one extracted intent in a plan request.
type IntentDTO struct {
	Kind    string `json:"kind"`
	RawText string `json:"rawText"`
}

// PlanRequest is the context snapshot sent to the planner.
type PlanRequest struct {
	Transcript        string      `json:"transcript"`
	ActiveProcessName string      `json:"activeProcessName,omitempty"`
	ActiveWindowTitle string      `json:"activeWindowTitle,omitempty"`
	Intents           []IntentDTO `json:"intents"`
}

// ActionDTO is one wire action. Unused fields stay zero.
type ActionDTO struct {
	Kind              string   `json:"kind"`
	MainKey           string   `json:"mainKey,omitempty"`
	Modifiers         []string `json:"modifiers,omitempty"`
	Text              string   `json:"text,omitempty"`
	ScrollDelta       int      `json:"scrollDelta,omitempty"`
	MillisecondsDelay int      `json:"millisecondsDelay,omitempty"`
	X                 int      `json:"x,omitempty"`
	Y                 int      `json:"y,omitempty"`
	DeltaX            int      `json:"deltaX,omitempty"`
	DeltaY            int      `json:"deltaY,omitempty"`
	Button            string   `json:"button,omitempty"`
}

// PlanResponse is a named ordered action list.
type PlanResponse struct {
	Name    string      `json:"name"`
	Actions []ActionDTO `json:"actions"`
}

var keySplitRe = regexp.MustCompile(`[|+,\s]+`)

// DecodePlan parses and sanitizes a planner response body. A malformed
// body, or one that sanitizes down to zero actions, yields nil — the
// caller treats nil as "no plan".
func DecodePlan(body []byte) *PlanResponse {
	var resp PlanResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil
	}
	Sanitize(&resp)
	if len(resp.Actions) == 0 {
		return nil
	}
	return &resp
}

// Sanitize normalizes a decoded plan in place: unknown kinds are dropped,
// key actions get a single canonical main key and canonical modifiers,
// non-key actions get their key fields cleared, and consecutive identical
// TextInput actions collapse to one.
func Sanitize(resp *PlanResponse) {
	cleaned := make([]ActionDTO, 0, len(resp.Actions))
	for _, a := range resp.Actions {
		a.Kind = strings.TrimSpace(a.Kind)
		if !kindAllowed(a.Kind) {
			continue
		}

		switch a.Kind {
		case "KeyChord", "KeyTap":
			mk := firstKeyToken(a.MainKey)
			if mk == "" {
				continue
			}
			a.MainKey = mk
			a.Modifiers = canonicalModifiers(a.Modifiers)
		default:
			a.MainKey = ""
			a.Modifiers = nil
		}

		if a.Kind == "TextInput" && len(cleaned) > 0 {
			prev := cleaned[len(cleaned)-1]
			if prev.Kind == "TextInput" && strings.EqualFold(prev.Text, a.Text) {
				continue
			}
		}

		cleaned = append(cleaned, a)
	}
	resp.Actions = cleaned
	if resp.Name == "" {
		resp.Name = "LLMPlan"
	}
}

func kindAllowed(kind string) bool {
	for _, k := range AllowedKinds {
		if kind == k {
			return true
		}
	}
	return false
}

// firstKeyToken reduces "VK_T|RETURN" or "CTRL + T" style garbage to the
// first token; planners are prompted for a single key name but do not
// always comply.
func firstKeyToken(mainKey string) string {
	mk := strings.TrimSpace(mainKey)
	if mk == "" {
		return ""
	}
	parts := keySplitRe.Split(mk, 2)
	return parts[0]
}

func canonicalModifiers(mods []string) []string {
	var out []string
	for _, m := range mods {
		m = strings.ToUpper(strings.TrimSpace(m))
		switch m {
		case "CTRL", "CONTROL":
			m = "CONTROL"
		case "ALT", "MENU":
			m = "MENU"
		}
		switch m {
		case "SHIFT", "CONTROL", "MENU", "LWIN":
			out = append(out, m)
		}
	}
	return out
}
