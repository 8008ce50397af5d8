package main

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/stagefx/timeline"
)

// controls is the part of the showcase the keyboard drives
type controls interface {
	NavigateIndex(int) bool
	Scroll(lines float64)
	ToggleReducedMotion() timeline.MotionProfile
	ToggleMute() bool
}

type inputAction uint8

const (
	actionNone inputAction = iota
	actionQuit
	actionResize
)

// pageScroll is the scroll distance of PgUp/PgDn in lines
const pageScroll = 5

// handleEvent applies one terminal event
// Keys: 1-6 pages, arrows/jk/wheel scroll, r reduced motion, m mute, q/Esc/Ctrl-C quit
func handleEvent(c controls, ev tcell.Event) inputAction {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		return actionResize

	case *tcell.EventMouse:
		btn := ev.Buttons()
		if btn&tcell.WheelUp != 0 {
			c.Scroll(-1)
		}
		if btn&tcell.WheelDown != 0 {
			c.Scroll(1)
		}

	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return actionQuit
		case tcell.KeyUp:
			c.Scroll(-1)
		case tcell.KeyDown:
			c.Scroll(1)
		case tcell.KeyPgUp:
			c.Scroll(-pageScroll)
		case tcell.KeyPgDn:
			c.Scroll(pageScroll)
		case tcell.KeyRune:
			r := ev.Rune()
			switch {
			case r >= '1' && r <= '9':
				c.NavigateIndex(int(r - '1'))
			case r == 'k':
				c.Scroll(-1)
			case r == 'j':
				c.Scroll(1)
			case r == 'r':
				c.ToggleReducedMotion()
			case r == 'm':
				c.ToggleMute()
			case r == 'q':
				return actionQuit
			}
		}
	}
	return actionNone
}
