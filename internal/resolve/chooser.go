// Package resolve turns version queries into concrete builds and variants,
// prompting the operator whenever more than one candidate survives.
package resolve

import "errors"

// ErrNoChoice is returned by a Chooser when the operator dismissed the
// menu without selecting anything.
var ErrNoChoice = errors.New("no selection was made")

// Chooser is the interactive surface resolution goes through. The terminal
// implementation lives in the term package; tests inject scripted ones.
type Chooser interface {
	// Choose presents options and returns the selected index. cursor is the
	// index highlighted initially.
	Choose(prompt string, options []string, cursor int) (int, error)
	// MultiChoose presents options and returns the selected indices, which
	// may be empty.
	MultiChoose(prompt string, options []string) ([]int, error)
	// Confirm asks a yes/no question. def is the answer taken on plain
	// enter.
	Confirm(prompt string, def bool) (bool, error)
}
