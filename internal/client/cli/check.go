package cli

import (
	"context"

	"github.com/iudanet/coursemanager/internal/client/guard"
)

// runCheck проверяет access token на сервере; отклонённая сессия удаляется
func (c *Cli) runCheck(ctx context.Context) error {
	c.io.Println("Checking session...")

	state := c.guard.Evaluate(ctx)
	outcome := guard.Render(state)

	c.io.Printf("State:   %s\n", state)
	c.io.Printf("Outcome: %s\n", outcome)

	if state != guard.Authenticated {
		return ErrUnauthenticated
	}

	if profile, ok := c.manager.Profile(); ok {
		c.printLanding(profile)
	}
	return nil
}
