package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/iudanet/coursemanager/internal/client/apierror"
	"github.com/iudanet/coursemanager/internal/validation"
)

// ErrPasswordMismatch - новый пароль и подтверждение не совпали
var ErrPasswordMismatch = errors.New("passwords do not match")

func (c *Cli) runPasswd(ctx context.Context) error {
	if err := c.protected(ctx); err != nil {
		return err
	}

	c.io.Println("=== Change Password ===")
	c.io.Println()

	newPassword, err := c.io.ReadPassword(fmt.Sprintf("New password (min %d chars): ", validation.MinPasswordLen))
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	confirm, err := c.io.ReadPassword("Confirm new password: ")
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}

	if newPassword != confirm {
		c.io.Println("Passwords do not match. Please try again.")
		return ErrPasswordMismatch
	}

	if err := c.manager.ChangePassword(ctx, newPassword); err != nil {
		return explain(err, apierror.Message)
	}

	c.io.Println("✓ Password changed!")
	c.io.Println("Your session has been renewed.")
	return nil
}
