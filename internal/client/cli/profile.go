package cli

import (
	"context"
	"flag"

	"github.com/iudanet/coursemanager/internal/client/apierror"
	"github.com/iudanet/coursemanager/internal/models"
)

func (c *Cli) runWhoami(ctx context.Context, args []string) error {
	var refresh bool
	fs := flag.NewFlagSet("whoami", flag.ContinueOnError)
	fs.SetOutput(c.io)
	fs.BoolVar(&refresh, "refresh", false, "Reload the profile from the server")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := c.protected(ctx); err != nil {
		return err
	}

	var profile models.Profile
	if refresh {
		fresh, err := c.manager.RefreshProfile(ctx)
		if err != nil {
			return explain(err, apierror.Message)
		}
		profile = *fresh
	} else {
		profile, _ = c.manager.Profile()
	}

	return c.renderTemplate("profile", profileTemplate, profile)
}

func (c *Cli) runProfile(ctx context.Context, args []string) error {
	var upd models.ProfileUpdate
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	fs.SetOutput(c.io)
	fs.StringVar(&upd.FullName, "name", "", "New full name")
	fs.StringVar(&upd.Email, "email", "", "New email")
	fs.StringVar(&upd.Phone, "phone", "", "New phone (10 digits)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := c.protected(ctx); err != nil {
		return err
	}

	c.io.Println("=== Edit Profile ===")

	updated, err := c.manager.UpdateProfile(ctx, upd)
	if err != nil {
		return explain(err, apierror.Message)
	}

	c.io.Println("✓ Profile updated!")
	return c.renderTemplate("profile", profileTemplate, updated)
}
