package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Printer writes operator-facing progress: the commands being run, warnings
// and outcomes. Commands go to Out, problems to Err.
type Printer struct {
	Out io.Writer
	Err io.Writer
}

// NewPrinter creates a printer on stdout and stderr.
func NewPrinter() *Printer {
	return &Printer{Out: os.Stdout, Err: os.Stderr}
}

var (
	commandStyle = lipgloss.NewStyle().Foreground(ColorInfo)
	mutedStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	warnStyle    = lipgloss.NewStyle().Foreground(ColorWarning)
	successStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	failStyle    = lipgloss.NewStyle().Foreground(ColorError)
	boldStyle    = lipgloss.NewStyle().Bold(true)
)

// Command shows a command line before it runs, set off by blank lines so
// it stands out between streamed tool output.
func (p *Printer) Command(line string) {
	fmt.Fprintf(p.out(), "\n%s %s\n\n", mutedStyle.Render(SymbolCommand), commandStyle.Render(line))
}

// Info prints a plain line.
func (p *Printer) Info(format string, args ...interface{}) {
	fmt.Fprintf(p.out(), format+"\n", args...)
}

// Warn prints a warning.
func (p *Printer) Warn(format string, args ...interface{}) {
	fmt.Fprintf(p.err(), "%s %s\n", warnStyle.Render("Warning:"), fmt.Sprintf(format, args...))
}

// Success prints a success line.
func (p *Printer) Success(format string, args ...interface{}) {
	fmt.Fprintf(p.out(), "%s %s\n", successStyle.Render(SymbolSuccess), fmt.Sprintf(format, args...))
}

// Fail prints a failure line.
func (p *Printer) Fail(format string, args ...interface{}) {
	fmt.Fprintf(p.err(), "%s %s\n", failStyle.Render(SymbolFail), fmt.Sprintf(format, args...))
}

// Heading prints a bold line.
func (p *Printer) Heading(text string) {
	fmt.Fprintln(p.out(), boldStyle.Render(text))
}

func (p *Printer) out() io.Writer {
	if p.Out != nil {
		return p.Out
	}
	return os.Stdout
}

func (p *Printer) err() io.Writer {
	if p.Err != nil {
		return p.Err
	}
	return os.Stderr
}
