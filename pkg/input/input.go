// Package input injects clicks and keystrokes at resolved screen points.
package input

import (
	"fmt"

	"github.com/go-vgo/robotgo"

	"github.com/menta2k/ui-locator/pkg/geometry"
)

// Click moves the pointer to a screen-frame point and left-clicks.
func Click(p geometry.Point) error {
	if p.Frame != geometry.FrameScreen {
		return fmt.Errorf("click point %v is not in the screen frame", p)
	}
	robotgo.Move(int(p.X+0.5), int(p.Y+0.5))
	robotgo.MilliSleep(50)
	robotgo.Click("left")
	return nil
}

// DoubleClick moves the pointer to a screen-frame point and double-clicks.
func DoubleClick(p geometry.Point) error {
	if p.Frame != geometry.FrameScreen {
		return fmt.Errorf("click point %v is not in the screen frame", p)
	}
	robotgo.Move(int(p.X+0.5), int(p.Y+0.5))
	robotgo.MilliSleep(50)
	robotgo.Click("left", true)
	return nil
}

// Type sends the text as keystrokes to the focused window.
func Type(text string) {
	robotgo.TypeStr(text)
}

// Focus raises the first window whose title matches name.
func Focus(name string) error {
	if err := robotgo.ActiveName(name); err != nil {
		return fmt.Errorf("focus %q: %w", name, err)
	}
	return nil
}
