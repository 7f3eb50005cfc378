package cli

import "github.com/charmbracelet/huh"

// Prompts are variables so tests can answer them.
var (
	promptPassword = huhPassword
	promptConfirm  = huhConfirm
)

func huhPassword(title string) (string, error) {
	var password string
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				EchoMode(huh.EchoModePassword).
				Value(&password),
		),
	).Run()
	return password, err
}

func huhConfirm(title string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).Run()
	return ok, err
}
