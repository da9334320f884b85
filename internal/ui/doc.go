// Package ui provides the terminal output for wpx commands: the echoed
// command lines, warnings, confirmation prompts and the target table.
//
// Colors are ANSI codes rendered through Lip Gloss. Use DisableColors()
// to switch to plain output (for --no-color or NO_COLOR).
//
//	p := ui.NewPrinter()
//	p.Command("rsync --archive ... example.com:/srv/www")
//	p.Warn("Could not resolve ABSPATH for '%s', skipping...", "@dev")
//
// Printer satisfies plan.Reporter, so flows report through it directly.
package ui
