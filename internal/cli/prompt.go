package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

func promptToken() (string, error) {
	var token string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("API token").
				EchoMode(huh.EchoModePassword).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("token cannot be empty")
					}
					return nil
				}).
				Value(&token),
		),
	)
	if err := form.Run(); err != nil {
		return "", fmt.Errorf("interactive form error: %w", err)
	}
	return token, nil
}
