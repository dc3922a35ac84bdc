package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/huh"
)

// Confirm asks a yes/no question. It defaults to no.
func Confirm(title, description string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).WithTheme(huh.ThemeCatppuccin()).Run()
	if err != nil {
		return false, err
	}
	return ok, nil
}

// PrintTitle prints a section heading.
func PrintTitle(w io.Writer, title string) {
	fmt.Fprintln(w, headingStyle.Render(title))
}

// PrintSuccess prints a success line.
func PrintSuccess(w io.Writer, msg string) {
	fmt.Fprintln(w, okStyle.Render(msg))
}

// PrintField prints an aligned key/value pair.
func PrintField(w io.Writer, key string, value any) {
	fmt.Fprintf(w, "%s %v\n", keyStyle.Render(key+":"), value)
}

// PrintWarning prints a warning line.
func PrintWarning(w io.Writer, msg string) {
	fmt.Fprintln(w, cautionStyle.Render(msg))
}

// PrintError prints an error message.
func PrintError(w io.Writer, msg string) {
	fmt.Fprintln(w, failureStyle.Render("Error: "+msg))
}
