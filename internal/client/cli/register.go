package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/coursemanager/internal/client/apierror"
	"github.com/iudanet/coursemanager/internal/models"
	"github.com/iudanet/coursemanager/internal/validation"
)

func (c *Cli) runRegister(ctx context.Context) error {
	c.io.Println("=== Registration ===")
	c.io.Println()

	email, err := c.io.ReadInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}

	fullName, err := c.io.ReadInput("Full name: ")
	if err != nil {
		return fmt.Errorf("failed to read full name: %w", err)
	}

	phone, err := c.io.ReadInput("Phone (10 digits): ")
	if err != nil {
		return fmt.Errorf("failed to read phone: %w", err)
	}

	password, err := c.io.ReadPassword(fmt.Sprintf("Password (min %d chars): ", validation.MinPasswordLen))
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	// Подтверждение пароля
	confirmPassword, err := c.io.ReadPassword("Confirm password: ")
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}

	if password != confirmPassword {
		return fmt.Errorf("passwords do not match")
	}

	c.io.Println()
	c.io.Println("Registering user...")

	_, err = c.manager.Register(ctx, models.Registration{
		Email:    email,
		Password: password,
		FullName: fullName,
		Phone:    phone,
	})
	if err != nil {
		return explain(err, apierror.Message)
	}

	profile, _ := c.manager.Profile()

	c.io.Println()
	c.io.Println("✓ Registration successful!")
	c.io.Printf("Signed in as: %s\n", profile.Email)
	c.printLanding(profile)

	return nil
}
