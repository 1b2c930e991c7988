package cli

import (
	"context"
	"time"

	"github.com/iudanet/coursemanager/internal/models"
)

type statusView struct {
	Email         string
	AccessToken   string
	LastValidated string
	Roles         []models.Role
}

// runStatus показывает локальное состояние без обращения к серверу
func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Authentication Status ===")
	c.io.Println()

	session, ok := c.manager.Session()
	if !ok {
		c.io.Println("Status: Not authenticated")
		c.io.Println()
		c.io.Println("Run 'coursemanager login' to authenticate.")
		return nil
	}
	profile, _ := c.manager.Profile()

	view := statusView{
		Email:       profile.Email,
		Roles:       profile.Roles,
		AccessToken: maskToken(session.AccessToken),
	}

	if c.meta != nil {
		ts, err := c.meta.GetLastValidated(ctx)
		if err != nil {
			// Не прерываем выполнение, просто сообщаем
			c.io.Printf("Warning: failed to read last check time: %v\n", err)
		} else if ts > 0 {
			view.LastValidated = time.Unix(ts, 0).Format(time.RFC3339)
		}
	}

	if err := c.renderTemplate("status", statusTemplate, view); err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("Run 'coursemanager check' to validate the session with the server.")
	return nil
}
