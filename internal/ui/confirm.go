package ui

import (
	"os"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/wpx/internal/errors"
	"golang.org/x/term"
)

// ConfirmOptions control how a confirmation is asked.
type ConfirmOptions struct {
	// AutoYes answers yes without asking (--yes).
	AutoYes bool

	// Input is checked for a terminal. Nil means stdin.
	Input *os.File

	// Ask shows the prompt and returns the answer. Nil means a huh form.
	Ask func(title string) (bool, error)
}

// Confirm asks the operator before a destructive operation. It returns nil
// to proceed. Without a terminal to ask on, --yes is required.
func Confirm(title string, opts ConfirmOptions) error {
	if opts.AutoYes {
		return nil
	}

	ask := opts.Ask
	if ask == nil {
		in := opts.Input
		if in == nil {
			in = os.Stdin
		}
		if !term.IsTerminal(int(in.Fd())) {
			return errors.Usage("Confirmation needed but there's no terminal to ask on",
				"Pass --yes to run non-interactively.")
		}
		ask = askForm
	}

	proceed, err := ask(title)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrUsage, "Cancelled", "")
	}
	if !proceed {
		return errors.Usage("Cancelled", "")
	}
	return nil
}

func askForm(title string) (bool, error) {
	var proceed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&proceed),
		),
	)
	if err := form.Run(); err != nil {
		return false, err
	}
	return proceed, nil
}
