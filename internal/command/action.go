package command

import "time"

// ActionKind names a concrete device-level action.
type ActionKind string

const (
	KindKeyChord         ActionKind = "KeyChord"
	KindKeyTap           ActionKind = "KeyTap"
	KindTextInput        ActionKind = "TextInput"
	KindMouseMoveTo      ActionKind = "MouseMoveTo"
	KindMouseMoveBy      ActionKind = "MouseMoveBy"
	KindMouseDown        ActionKind = "MouseDown"
	KindMouseUp          ActionKind = "MouseUp"
	KindMouseClick       ActionKind = "MouseClick"
	KindMouseDoubleClick ActionKind = "MouseDoubleClick"
	KindScrollVertical   ActionKind = "ScrollVertical"
	KindScrollHorizontal ActionKind = "ScrollHorizontal"
	KindWait             ActionKind = "Wait"
)

// KnownKind reports whether k is one of the executable action kinds.
func KnownKind(k ActionKind) bool {
	switch k {
	case KindKeyChord, KindKeyTap, KindTextInput,
		KindMouseMoveTo, KindMouseMoveBy,
		KindMouseDown, KindMouseUp, KindMouseClick, KindMouseDoubleClick,
		KindScrollVertical, KindScrollHorizontal, KindWait:
		return true
	}
	return false
}

// Action is one device-level step. Kind decides which fields matter;
// fields a kind does not use are ignored by the executor.
type Action struct {
	Kind      ActionKind
	MainKey   string
	Modifiers []string
	Text      string

	ScrollDelta int
	Delay       time.Duration

	X, Y           int
	DeltaX, DeltaY int
	Button         string
}

// Plan is an ordered, named action list. Immutable once built; an empty
// plan is valid and executes as a no-op.
type Plan struct {
	Name    string
	Actions []Action
}

func KeyChord(mainKey string, modifiers ...string) Action {
	return Action{Kind: KindKeyChord, MainKey: mainKey, Modifiers: modifiers}
}

func KeyTap(mainKey string) Action {
	return Action{Kind: KindKeyTap, MainKey: mainKey}
}

func TextInput(text string) Action {
	return Action{Kind: KindTextInput, Text: text}
}

func ScrollVertical(delta int) Action {
	return Action{Kind: KindScrollVertical, ScrollDelta: delta}
}

func Wait(d time.Duration) Action {
	return Action{Kind: KindWait, Delay: d}
}
