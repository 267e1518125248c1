package command

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// ActionType tells the builder which template a definition expands into.
type ActionType string

const (
	ActionKeyChord  ActionType = "KeyChord"
	ActionScroll    ActionType = "Scroll"
	ActionTextInput ActionType = "TextInput"
)

// Definition is one catalog entry: the phrases that trigger it and the
// template its intent expands into. Loaded once, never mutated.
type Definition struct {
	Kind      string     `toml:"kind"`
	Category  string     `toml:"category"`
	Action    ActionType `toml:"action"`
	MainKey   string     `toml:"main_key"`
	Modifiers []string   `toml:"modifiers"`
	Phrases   []string   `toml:"phrases"`
}

// Catalog is the ordered command table. Declaration order matters: it is
// the tie-break when two definitions match a transcript at the same index.
type Catalog struct {
	defs []Definition
}

// Intent is one recognized command occurrence. RawText always carries the
// full transcript, not the matched phrase, so downstream resolvers keep
// the surrounding context.
type Intent struct {
	Kind    string `json:"kind"`
	RawText string `json:"rawText"`
}

// DefaultDefinitions is the built-in command table.
func DefaultDefinitions() []Definition {
	return []Definition{
		{Kind: "NewTab", Category: "browser", Action: ActionKeyChord, MainKey: "VK_T", Modifiers: []string{"CONTROL"}, Phrases: []string{"new tab", "open new tab", "open a new tab"}},
		{Kind: "CloseTab", Category: "browser", Action: ActionKeyChord, MainKey: "VK_W", Modifiers: []string{"CONTROL"}, Phrases: []string{"close tab", "close a tab", "close the tab"}},
		{Kind: "ReopenTab", Category: "browser", Action: ActionKeyChord, MainKey: "VK_T", Modifiers: []string{"CONTROL", "SHIFT"}, Phrases: []string{"reopen tab", "reopen closed tab"}},
		{Kind: "NextTab", Category: "browser", Action: ActionKeyChord, MainKey: "TAB", Modifiers: []string{"CONTROL"}, Phrases: []string{"next tab", "switch tab"}},
		{Kind: "NewWindow", Category: "window", Action: ActionKeyChord, MainKey: "VK_N", Modifiers: []string{"CONTROL"}, Phrases: []string{"new window", "open new window"}},
		{Kind: "CloseWindow", Category: "window", Action: ActionKeyChord, MainKey: "VK_F4", Modifiers: []string{"MENU"}, Phrases: []string{"close window", "close the window"}},
		{Kind: "Copy", Category: "edit", Action: ActionKeyChord, MainKey: "VK_C", Modifiers: []string{"CONTROL"}, Phrases: []string{"copy that", "copy this", "copy selection"}},
		{Kind: "Paste", Category: "edit", Action: ActionKeyChord, MainKey: "VK_V", Modifiers: []string{"CONTROL"}, Phrases: []string{"paste that", "paste this", "paste it"}},
		{Kind: "Undo", Category: "edit", Action: ActionKeyChord, MainKey: "VK_Z", Modifiers: []string{"CONTROL"}, Phrases: []string{"undo that", "undo this", "undo last"}},
		{Kind: "SelectAll", Category: "edit", Action: ActionKeyChord, MainKey: "VK_A", Modifiers: []string{"CONTROL"}, Phrases: []string{"select all", "select everything"}},
		{Kind: "Save", Category: "edit", Action: ActionKeyChord, MainKey: "VK_S", Modifiers: []string{"CONTROL"}, Phrases: []string{"save file", "save this", "save that"}},
		{Kind: "ScrollDown", Category: "scroll", Action: ActionScroll, Phrases: []string{"scroll down", "page down a bit"}},
		{Kind: "ScrollUp", Category: "scroll", Action: ActionScroll, Phrases: []string{"scroll up", "page up a bit"}},
		{Kind: "DebugType", Category: "text", Action: ActionTextInput, Phrases: []string{"debug type", "please type", "type out"}},
	}
}

// NewCatalog validates and freezes an ordered definition list.
func NewCatalog(defs []Definition) (*Catalog, error) {
	seen := make(map[string]struct{}, len(defs))
	for i, d := range defs {
		if d.Kind == "" {
			return nil, fmt.Errorf("definition %d: empty kind", i)
		}
		if _, dup := seen[d.Kind]; dup {
			return nil, fmt.Errorf("definition %q: duplicate kind", d.Kind)
		}
		seen[d.Kind] = struct{}{}
		if len(d.Phrases) == 0 {
			return nil, fmt.Errorf("definition %q: no phrases", d.Kind)
		}
		for _, p := range d.Phrases {
			if strings.TrimSpace(p) == "" {
				return nil, fmt.Errorf("definition %q: blank phrase", d.Kind)
			}
			if p != strings.ToLower(p) {
				return nil, fmt.Errorf("definition %q: phrase %q not lowercase", d.Kind, p)
			}
		}
	}
	return &Catalog{defs: defs}, nil
}

// LoadCatalog reads a TOML definition file. An empty path yields the
// built-in defaults.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return NewCatalog(DefaultDefinitions())
	}

	var file struct {
		Commands []Definition `toml:"commands"`
	}
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	if len(file.Commands) == 0 {
		return nil, fmt.Errorf("catalog %s: no commands", path)
	}
	return NewCatalog(file.Commands)
}

// Definitions returns the table in declaration order.
func (c *Catalog) Definitions() []Definition {
	return c.defs
}

// Lookup finds a definition by kind.
func (c *Catalog) Lookup(kind string) (Definition, bool) {
	for _, d := range c.defs {
		if d.Kind == kind {
			return d, true
		}
	}
	return Definition{}, false
}

func (c *Catalog) Len() int { return len(c.defs) }
