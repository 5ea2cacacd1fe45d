package core

import "fmt"

// Action represents a semantic game action, abstracted from physical key presses.
// Terminal keys and websocket messages are both translated into actions so the
// engine never sees raw events.
type Action int

const (
	ActionNone  Action = iota
	ActionUp           // W, K, Up arrow
	ActionDown         // S, J, Down arrow
	ActionLeft         // A, H, Left arrow
	ActionRight        // D, L, Right arrow
	ActionStart        // Start button
	ActionStop         // Stop button, also acknowledges game over
	ActionPause        // Pause/Resume button
	ActionQuit         // Q, Ctrl+C - leave the program or connection
)

var actionNames = map[Action]string{
	ActionNone:  "none",
	ActionUp:    "up",
	ActionDown:  "down",
	ActionLeft:  "left",
	ActionRight: "right",
	ActionStart: "start",
	ActionStop:  "stop",
	ActionPause: "pause",
	ActionQuit:  "quit",
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// IsDirection reports whether the action is one of the four directional intents.
func (a Action) IsDirection() bool {
	return a >= ActionUp && a <= ActionRight
}

// ParseAction resolves an action from its name.
func ParseAction(name string) (Action, error) {
	for a, n := range actionNames {
		if n == name && a != ActionNone {
			return a, nil
		}
	}
	return ActionNone, fmt.Errorf("core: unknown action %q", name)
}
