package timeline

import "fmt"

// Action is a content or visual operation fired at a timeline offset
type Action uint8

const (
	ActionHide Action = iota
	ActionSwap
	ActionReveal
	ActionEnd
)

var actionNames = [...]string{
	ActionHide:   "hide",
	ActionSwap:   "swap",
	ActionReveal: "reveal",
	ActionEnd:    "end",
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("action(%d)", uint8(a))
}

// Phase returns the orchestrator phase entered when the action fires
func (a Action) Phase() Phase {
	switch a {
	case ActionHide:
		return PhaseHiding
	case ActionSwap:
		return PhaseSwapping
	case ActionReveal:
		return PhaseRevealing
	default:
		return PhaseIdle
	}
}

func (a Action) MarshalText() ([]byte, error) {
	if int(a) >= len(actionNames) {
		return nil, fmt.Errorf("unknown action %d", uint8(a))
	}
	return []byte(actionNames[a]), nil
}

func (a *Action) UnmarshalText(text []byte) error {
	for i, name := range actionNames {
		if name == string(text) {
			*a = Action(i)
			return nil
		}
	}
	return fmt.Errorf("unknown action %q", text)
}

// Phase is the orchestrator state
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseHiding
	PhaseSwapping
	PhaseRevealing
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseHiding:
		return "hiding"
	case PhaseSwapping:
		return "swapping"
	case PhaseRevealing:
		return "revealing"
	}
	return fmt.Sprintf("phase(%d)", uint8(p))
}
