package cli

import (
	"errors"
	"fmt"

	"github.com/julianstephens/moodcheck/internal/keyring"
)

// SignOutCmd forgets the cached check-in status and the stored API token.
// Recorded entries are kept.
type SignOutCmd struct {
	Yes bool `help:"Skip the confirmation prompt." short:"y"`
}

func (cmd *SignOutCmd) Run(ctx *Context) error {
	if !cmd.Yes {
		ok, err := ctx.confirm("Sign out and clear today's check-in status?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.println("Sign out cancelled.")
			return nil
		}
	}

	ctx.Cache.Clear()

	if err := keyring.DeleteToken(); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		ctx.printf("⚠ Could not remove API token: %v\n", err)
	}

	ctx.println("✓ Signed out.")
	return nil
}

type TokenSetCmd struct {
	Token string `arg:"" optional:"" help:"API token. Prompted for when omitted."`
}

func (cmd *TokenSetCmd) Run(ctx *Context) error {
	token := cmd.Token
	if token == "" {
		var err error
		if token, err = promptToken(); err != nil {
			return err
		}
	}
	if err := keyring.SetToken(token); err != nil {
		return err
	}
	ctx.println("✓ API token saved to the OS keyring.")
	return nil
}

type TokenClearCmd struct{}

func (cmd *TokenClearCmd) Run(ctx *Context) error {
	if err := keyring.DeleteToken(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			ctx.println("No API token stored.")
			return nil
		}
		return fmt.Errorf("failed to clear API token: %w", err)
	}
	ctx.println("✓ API token removed.")
	return nil
}
