package cli

import (
	"context"
	"fmt"
)

// Run executes command with its arguments.
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return c.runRegister(ctx)
	case "login":
		return c.runLogin(ctx, args)
	case "logout":
		return c.runLogout(ctx)
	case "status":
		return c.runStatus(ctx)
	case "check":
		return c.runCheck(ctx)
	case "whoami":
		return c.runWhoami(ctx, args)
	case "profile":
		return c.runProfile(ctx, args)
	case "passwd":
		return c.runPasswd(ctx)
	case "help":
		PrintUsage(c.io)
		return nil
	default:
		PrintUsage(c.io)
		return fmt.Errorf("%w: %s", ErrUnknownCommand, command)
	}
}
