// Package cliui provides terminal rendering helpers shared by huddle commands:
// status marks, role labels, a wait spinner and markdown rendering.
package cliui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/term"
)

var (
	SuccessMark = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Render("✓")
	FailMark    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("✗")

	DimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	KeyStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	ValueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	UserStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	AssistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true)
	ErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	BannerStyle    = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("124")).
			Padding(0, 1)

	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

// SpinnerFrames matches bubbles' spinner.Dot so line mode and the TUI agree.
var SpinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

// Mark returns a check for nil errors and a cross otherwise.
func Mark(err error) string {
	if err != nil {
		return FailMark
	}
	return SuccessMark
}

// FormatDuration formats d as "12ms" below a second and "3.2s" above.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// Wait animates a spinner labelled msg on w until done is closed, then erases
// the line and returns how long it waited.
func Wait(w io.Writer, msg string, done <-chan struct{}) time.Duration {
	start := time.Now()
	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for frame := 0; ; frame++ {
		fmt.Fprintf(w, "\r%s %s", spinnerStyle.Render(SpinnerFrames[frame%len(SpinnerFrames)]), DimStyle.Render(msg))
		select {
		case <-done:
			fmt.Fprint(w, "\r"+ansi.EraseLineRight)
			return time.Since(start)
		case <-ticker.C:
		}
	}
}

// RenderMarkdown renders content for a terminal of the given width. On any
// renderer error the raw content is returned along with the error.
func RenderMarkdown(content string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content, err
	}

	rendered, err := r.Render(content)
	if err != nil {
		return content, err
	}

	return rendered, nil
}

// Truncate shortens s to at most width terminal cells, appending an ellipsis
// when it was cut.
func Truncate(s string, width int) string {
	return ansi.Truncate(s, width, "…")
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Width returns the column count of the terminal behind w, or fallback when w
// is not a terminal.
func Width(w any, fallback int) int {
	f, ok := w.(*os.File)
	if !ok {
		return fallback
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return fallback
	}
	return width
}
