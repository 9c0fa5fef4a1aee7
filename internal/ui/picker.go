package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"sdtr/internal/domain"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-isatty"
	"github.com/rivo/tview"
)

// ErrNoSelection is returned when the menu is left without choosing a target
var ErrNoSelection = errors.New("no target selected")

// Picker asks the user for the single target to run
type Picker struct {
	in          io.Reader
	out         io.Writer
	interactive bool
}

// NewPicker creates a Picker on stdin/stdout. The tview menu is used only when stdin is a terminal.
func NewPicker() *Picker {
	fd := os.Stdin.Fd()
	return &Picker{
		in:          os.Stdin,
		out:         os.Stdout,
		interactive: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
	}
}

// Pick presents targets as a numbered menu and returns the chosen one
func (p *Picker) Pick(targets []domain.Target) (domain.Target, error) {
	if len(targets) == 0 {
		return domain.Target{}, errors.New("no targets to choose from")
	}
	if p.interactive {
		return p.pickTUI(targets)
	}
	return p.prompt(targets)
}

func (p *Picker) pickTUI(targets []domain.Target) (domain.Target, error) {
	app := tview.NewApplication()
	chosen := -1

	list := tview.NewList().ShowSecondaryText(false)
	for i, target := range targets {
		var shortcut rune
		if i < 9 {
			shortcut = rune('1' + i)
		}
		index := i
		list.AddItem(fmt.Sprintf("%d. %s", i+1, target.Name), "", shortcut, func() {
			chosen = index
			app.Stop()
		})
	}
	list.SetDoneFunc(app.Stop)
	list.SetBorder(true).SetTitle(" Select a target (Enter to run, Esc to quit) ")
	list.SetSelectedBackgroundColor(tcell.ColorDarkCyan)

	if err := app.SetRoot(list, true).Run(); err != nil {
		return domain.Target{}, fmt.Errorf("failed to run TUI: %w", err)
	}
	if chosen < 0 {
		return domain.Target{}, ErrNoSelection
	}
	return targets[chosen], nil
}

// prompt reads the choice as a number from the input, asking again on invalid answers
func (p *Picker) prompt(targets []domain.Target) (domain.Target, error) {
	color.New(color.FgCyan).Fprintln(p.out, "Select a target:")
	for i, target := range targets {
		fmt.Fprintf(p.out, "  %d. %s\n", i+1, target.Name)
	}

	scanner := bufio.NewScanner(p.in)
	for {
		fmt.Fprintf(p.out, "Enter a number (1-%d): ", len(targets))
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return domain.Target{}, fmt.Errorf("read selection: %w", err)
			}
			return domain.Target{}, ErrNoSelection
		}
		answer := strings.TrimSpace(scanner.Text())
		n, err := strconv.Atoi(answer)
		if err != nil || n < 1 || n > len(targets) {
			color.New(color.FgRed).Fprintf(p.out, "%q is not a valid choice\n", answer)
			continue
		}
		return targets[n-1], nil
	}
}
