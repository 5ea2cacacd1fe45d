package game

import "github.com/vovakirdan/tui-snake/internal/core"

// InputController turns directional actions into heading changes.
// It only listens while attached; the session attaches it for the
// Running state and detaches it everywhere else.
type InputController struct {
	snake    *Snake
	attached bool
}

// NewInputController creates a detached controller steering snake.
func NewInputController(snake *Snake) *InputController {
	return &InputController{snake: snake}
}

// OnDirectionKey applies a directional action. Non-directional actions,
// actions received while detached and reversals are dropped.
func (c *InputController) OnDirectionKey(a core.Action) {
	if !c.attached || c.snake == nil {
		return
	}

	var h Heading
	switch a {
	case core.ActionUp:
		h = HeadingUp
	case core.ActionDown:
		h = HeadingDown
	case core.ActionLeft:
		h = HeadingLeft
	case core.ActionRight:
		h = HeadingRight
	default:
		return
	}

	c.snake.Turn(h)
}

// Bind points the controller at a new snake, keeping the attachment.
func (c *InputController) Bind(snake *Snake) {
	c.snake = snake
}

// Attach starts listening.
func (c *InputController) Attach() {
	c.attached = true
}

// Detach stops listening.
func (c *InputController) Detach() {
	c.attached = false
}

// Attached reports whether the controller is listening.
func (c *InputController) Attached() bool {
	return c.attached
}
