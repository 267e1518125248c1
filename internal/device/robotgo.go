package device

import (
	"fmt"

	"github.com/go-vgo/robotgo"
)

// Robotgo is the production Controller.
type Robotgo struct{}

func NewRobotgo() *Robotgo { return &Robotgo{} }

func (r *Robotgo) KeyChord(mainKey string, modifiers []string) error {
	key, err := KeyName(mainKey)
	if err != nil {
		return err
	}
	mods, err := ModifierNames(modifiers)
	if err != nil {
		return err
	}

	args := make([]interface{}, len(mods))
	for i, m := range mods {
		args[i] = m
	}
	if err := robotgo.KeyTap(key, args...); err != nil {
		return fmt.Errorf("key chord %s: %w", key, err)
	}
	return nil
}

func (r *Robotgo) KeyTap(mainKey string) error {
	key, err := KeyName(mainKey)
	if err != nil {
		return err
	}
	if err := robotgo.KeyTap(key); err != nil {
		return fmt.Errorf("key tap %s: %w", key, err)
	}
	return nil
}

func (r *Robotgo) TypeText(text string) error {
	robotgo.TypeStr(text)
	return nil
}

func (r *Robotgo) MouseMoveTo(x, y int) error {
	robotgo.Move(x, y)
	return nil
}

func (r *Robotgo) MouseMoveBy(dx, dy int) error {
	robotgo.MoveRelative(dx, dy)
	return nil
}

func (r *Robotgo) MouseDown(button string) error {
	b, err := ButtonName(button)
	if err != nil {
		return err
	}
	if err := robotgo.Toggle(b, "down"); err != nil {
		return fmt.Errorf("mouse down %s: %w", b, err)
	}
	return nil
}

func (r *Robotgo) MouseUp(button string) error {
	b, err := ButtonName(button)
	if err != nil {
		return err
	}
	if err := robotgo.Toggle(b, "up"); err != nil {
		return fmt.Errorf("mouse up %s: %w", b, err)
	}
	return nil
}

func (r *Robotgo) Click(button string, double bool) error {
	b, err := ButtonName(button)
	if err != nil {
		return err
	}
	robotgo.Click(b, double)
	return nil
}

func (r *Robotgo) ScrollVertical(delta int) error {
	robotgo.Scroll(0, delta)
	return nil
}

func (r *Robotgo) ScrollHorizontal(delta int) error {
	robotgo.Scroll(delta, 0)
	return nil
}
