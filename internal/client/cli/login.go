package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/iudanet/coursemanager/internal/client/apierror"
	"github.com/iudanet/coursemanager/internal/client/guard"
	"github.com/iudanet/coursemanager/internal/models"
)

func (c *Cli) runLogin(ctx context.Context, args []string) error {
	var (
		email   string
		sources PasswordSources
	)
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(c.io)
	fs.StringVar(&email, "email", "", "Email")
	fs.StringVar(&sources.FromFile, "password-file", "", "Path to file containing password")
	fs.StringVar(&sources.FromArgs, "password", "", "Password (not recommended)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c.io.Println("=== Sign In ===")
	c.io.Println()

	if email == "" {
		var err error
		email, err = c.io.ReadInput("Email: ")
		if err != nil {
			return fmt.Errorf("failed to read email: %w", err)
		}
	}

	password, err := c.getPassword(sources)
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("Authenticating...")

	if _, err := c.manager.Login(ctx, email, password); err != nil {
		return explain(err, apierror.SignInMessage)
	}

	profile, _ := c.manager.Profile()

	c.io.Println()
	c.io.Println("✓ Login successful!")
	c.io.Printf("Signed in as: %s\n", profile.Email)
	c.printLanding(profile)

	return nil
}

// printLanding печатает стартовую страницу по ролям
func (c *Cli) printLanding(profile models.Profile) {
	path, err := guard.LandingPath(profile)
	if err != nil {
		c.io.Printf("Roles: %v (no dashboard available)\n", profile.Roles)
		return
	}
	c.io.Printf("Dashboard: %s\n", path)
}
