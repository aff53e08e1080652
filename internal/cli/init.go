package cli

import (
	"fmt"

	"github.com/julianstephens/moodcheck/internal/constants"
)

// InitCmd creates the storage and applies pending migrations. Running it on
// existing storage is safe.
type InitCmd struct{}

func (cmd *InitCmd) Run(ctx *Context) error {
	if err := ctx.Store.Init(); err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	ctx.printf("Initialized %s storage at: %s\n", constants.AppName, ctx.Store.GetConfigPath())
	return nil
}
