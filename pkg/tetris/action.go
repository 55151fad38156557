package tetris

import (
	"errors"
	"fmt"
)

var (
	// ErrInternalAction is returned when an action reserved for the engine is enqueued by a player.
	ErrInternalAction = errors.New("action is not issuable by a player")
	// ErrUnknownAction is returned when an action name cannot be parsed.
	ErrUnknownAction = errors.New("unknown action")
)

// Action is a single operation on the active piece or the grid.
type Action uint8

const (
	ActionMoveLeft Action = iota
	ActionMoveRight
	ActionMoveDown
	ActionRotateLeft
	ActionRotateRight
	ActionDrop
	// ActionBottomRefill pushes the grid up and adds a random bottom row.
	// It is only enqueued by the pair coordinator.
	ActionBottomRefill
)

var actionNames = map[Action]string{
	ActionMoveLeft:     "move_left",
	ActionMoveRight:    "move_right",
	ActionMoveDown:     "move_down",
	ActionRotateLeft:   "rotate_left",
	ActionRotateRight:  "rotate_right",
	ActionDrop:         "drop",
	ActionBottomRefill: "bottom_refill",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", uint8(a))
}

// IsPlayerAction reports whether a player may enqueue the action.
func (a Action) IsPlayerAction() bool {
	return a <= ActionDrop
}

// ParsePlayerAction parses a player action name such as "move_left".
func ParsePlayerAction(name string) (Action, error) {
	for a, n := range actionNames {
		if n != name {
			continue
		}
		if !a.IsPlayerAction() {
			return 0, fmt.Errorf("%s: %w", name, ErrInternalAction)
		}
		return a, nil
	}
	return 0, fmt.Errorf("%q: %w", name, ErrUnknownAction)
}

// StepKind classifies the outcome of a single board step.
type StepKind uint8

const (
	// StepNone means nothing visible happened.
	StepNone StepKind = iota
	// StepActionPerformed means one queued action was executed.
	StepActionPerformed
	// StepLineRemoved means one blasted row was shifted out.
	StepLineRemoved
	// StepGameOver means the board is over, either now or already.
	StepGameOver
)

func (k StepKind) String() string {
	switch k {
	case StepNone:
		return "none"
	case StepActionPerformed:
		return "action_performed"
	case StepLineRemoved:
		return "line_removed"
	case StepGameOver:
		return "game_over"
	default:
		return fmt.Sprintf("step(%d)", uint8(k))
	}
}

// StepResult is the outcome of a single board step. Action and Succeeded are
// only meaningful when Kind is StepActionPerformed.
type StepResult struct {
	Kind      StepKind
	Action    Action
	Succeeded bool
}

var (
	ResultNone        = StepResult{Kind: StepNone}
	ResultLineRemoved = StepResult{Kind: StepLineRemoved}
	ResultGameOver    = StepResult{Kind: StepGameOver}
)

// ResultAction reports that action was executed.
func ResultAction(action Action, succeeded bool) StepResult {
	return StepResult{
		Kind:      StepActionPerformed,
		Action:    action,
		Succeeded: succeeded,
	}
}

// Changed reports whether the step produced anything worth publishing.
func (r StepResult) Changed() bool {
	return r.Kind != StepNone
}

func (r StepResult) String() string {
	if r.Kind == StepActionPerformed {
		return fmt.Sprintf("%s(%s, %t)", r.Kind, r.Action, r.Succeeded)
	}
	return r.Kind.String()
}
