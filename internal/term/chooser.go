// Package term implements the interactive terminal surfaces: numbered
// selection menus and the progress line renderer.
package term

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ZebulonRouseFrantzich/buildpull/internal/resolve"
)

// Chooser prompts on Out and reads answers from In as numbered menus.
type Chooser struct {
	In  *bufio.Reader
	Out io.Writer
}

// NewChooser wraps the given streams, typically os.Stdin and os.Stderr.
func NewChooser(in io.Reader, out io.Writer) *Chooser {
	return &Chooser{In: bufio.NewReader(in), Out: out}
}

var _ resolve.Chooser = (*Chooser)(nil)

// Choose prints a numbered menu and reads the selection. Plain enter takes
// the option at cursor, which is marked in the listing. "q" dismisses the
// menu.
func (c *Chooser) Choose(prompt string, options []string, cursor int) (int, error) {
	fmt.Fprintf(c.Out, "%s\n", prompt)
	for i, opt := range options {
		marker := " "
		if i == cursor {
			marker = ">"
		}
		fmt.Fprintf(c.Out, " %s %2d) %s\n", marker, i+1, opt)
	}
	for {
		fmt.Fprintf(c.Out, "selection [%d]: ", cursor+1)
		line, err := c.readLine()
		if err != nil {
			return 0, err
		}
		switch line {
		case "":
			return cursor, nil
		case "q", "Q":
			return 0, resolve.ErrNoChoice
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > len(options) {
			fmt.Fprintf(c.Out, "enter a number between 1 and %d, or q to abort\n", len(options))
			continue
		}
		return n - 1, nil
	}
}

// MultiChoose reads a space- or comma-separated list of option numbers.
// Plain enter selects nothing.
func (c *Chooser) MultiChoose(prompt string, options []string) ([]int, error) {
	fmt.Fprintf(c.Out, "%s\n", prompt)
	for i, opt := range options {
		fmt.Fprintf(c.Out, "   %2d) %s\n", i+1, opt)
	}
	for {
		fmt.Fprint(c.Out, "selection (e.g. 1 3): ")
		line, err := c.readLine()
		if err != nil {
			return nil, err
		}
		if line == "" {
			return nil, nil
		}
		if line == "q" || line == "Q" {
			return nil, resolve.ErrNoChoice
		}
		fields := strings.FieldsFunc(line, func(r rune) bool { return r == ' ' || r == ',' })
		picked := make([]int, 0, len(fields))
		seen := make(map[int]bool)
		ok := true
		for _, f := range fields {
			n, err := strconv.Atoi(f)
			if err != nil || n < 1 || n > len(options) {
				ok = false
				break
			}
			if !seen[n-1] {
				seen[n-1] = true
				picked = append(picked, n-1)
			}
		}
		if !ok {
			fmt.Fprintf(c.Out, "enter numbers between 1 and %d, or q to abort\n", len(options))
			continue
		}
		return picked, nil
	}
}

// Confirm asks a yes/no question; plain enter takes def.
func (c *Chooser) Confirm(prompt string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	for {
		fmt.Fprintf(c.Out, "%s (%s): ", prompt, hint)
		line, err := c.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
	}
}

func (c *Chooser) readLine() (string, error) {
	line, err := c.In.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
