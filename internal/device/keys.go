package device

import (
	"fmt"
	"strings"
)

// keyNames maps the wire's VirtualKeyCode-style names to robotgo key
// names. Planners and the catalog both speak the VK dialect; robotgo
// wants lowercase names.
var keyNames = map[string]string{
	"RETURN":   "enter",
	"ENTER":    "enter",
	"TAB":      "tab",
	"SPACE":    "space",
	"ESCAPE":   "esc",
	"ESC":      "esc",
	"BACK":     "backspace",
	"DELETE":   "delete",
	"HOME":     "home",
	"END":      "end",
	"PRIOR":    "pageup",
	"NEXT":     "pagedown",
	"UP":       "up",
	"DOWN":     "down",
	"LEFT":     "left",
	"RIGHT":    "right",
	"LWIN":     "cmd",
	"RWIN":     "cmd",
	"CONTROL":  "ctrl",
	"SHIFT":    "shift",
	"MENU":     "alt",
	"CAPITAL":  "capslock",
	"SNAPSHOT": "printscreen",
	"INSERT":   "insert",
}

// KeyName resolves a wire key name. "VK_T" and "T" become "t";
// "VK_F4"/"F4" become "f4"; named keys go through the table.
func KeyName(wire string) (string, error) {
	name := strings.ToUpper(strings.TrimSpace(wire))
	if name == "" {
		return "", fmt.Errorf("empty key name")
	}

	name = strings.TrimPrefix(name, "VK_")

	if mapped, ok := keyNames[name]; ok {
		return mapped, nil
	}

	// Single letters and digits.
	if len(name) == 1 {
		c := name[0]
		if c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
			return strings.ToLower(name), nil
		}
	}

	// Function keys F1..F24.
	if len(name) >= 2 && name[0] == 'F' {
		rest := name[1:]
		numeric := true
		for i := 0; i < len(rest); i++ {
			if rest[i] < '0' || rest[i] > '9' {
				numeric = false
				break
			}
		}
		if numeric {
			return strings.ToLower(name), nil
		}
	}

	return "", fmt.Errorf("unrecognized key %q", wire)
}

// ModifierNames resolves a modifier list, dropping nothing: one bad
// modifier fails the whole chord so a partial chord is never sent.
func ModifierNames(wire []string) ([]string, error) {
	out := make([]string, 0, len(wire))
	for _, m := range wire {
		name, err := KeyName(m)
		if err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, nil
}

// ButtonName resolves a wire mouse button name; empty means left.
func ButtonName(wire string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(wire)) {
	case "", "left":
		return "left", nil
	case "right":
		return "right", nil
	case "middle", "center":
		return "center", nil
	}
	return "", fmt.Errorf("unrecognized button %q", wire)
}
