package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runLogout(ctx context.Context) error {
	c.io.Println("=== Logout ===")

	_, hadSession := c.manager.Session()

	// Сервер уведомляется по возможности, локальная сессия удаляется всегда
	if err := c.manager.Logout(ctx); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	if !hadSession {
		c.io.Println("No active session.")
		return nil
	}

	c.io.Println("✓ Logout successful!")
	c.io.Println("Your local session has been deleted.")

	return nil
}
