// Package device is the thin capability layer over keyboard/mouse
// synthesis. The executor talks to the Controller interface; the robotgo
// implementation is the one real backend.
package device

// Controller synthesizes input on the host. Implementations report
// per-call failures; they never panic.
type Controller interface {
	KeyChord(mainKey string, modifiers []string) error
	KeyTap(mainKey string) error
	TypeText(text string) error

	MouseMoveTo(x, y int) error
	MouseMoveBy(dx, dy int) error
	MouseDown(button string) error
	MouseUp(button string) error
	Click(button string, double bool) error

	ScrollVertical(delta int) error
	ScrollHorizontal(delta int) error
}
