package ctl

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/libris/internal/common"
	"github.com/dmitrijs2005/libris/internal/server/models"
	"github.com/dmitrijs2005/libris/internal/server/services"
	"github.com/dmitrijs2005/libris/internal/validation"
	"github.com/spf13/cobra"
)

// AdminCreator is the part of services.UserService create-admin needs.
type AdminCreator interface {
	CreateAdmin(ctx context.Context, email, name, password string) (*models.User, *models.ManagementProfile, error)
}

type adminInput struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required,max=150"`
}

func (a *App) createAdminCommand() *cobra.Command {
	var in adminInput

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		Long: "Create an administrator account with an ADM- management profile.\n" +
			"The password is read from the terminal, or from stdin when it is not a terminal.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := a.connect(ctx); err != nil {
				return err
			}
			return a.createAdmin(ctx, services.NewUserService(a.db, a.rm, a.cfg), in)
		},
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "admin email")
	cmd.Flags().StringVar(&in.Name, "name", "", "admin display name")
	return cmd
}

// createAdmin prompts for anything missing, then creates the account.
func (a *App) createAdmin(ctx context.Context, creator AdminCreator, in adminInput) error {
	var err error
	if strings.TrimSpace(in.Email) == "" {
		if in.Email, err = GetSimpleText(a.in, "Email", a.out); err != nil {
			return err
		}
	}
	if strings.TrimSpace(in.Name) == "" {
		if in.Name, err = GetSimpleText(a.in, "Name", a.out); err != nil {
			return err
		}
	}
	if err := validation.ValidateStruct(&in); err != nil {
		return err
	}

	pw, err := GetNewPassword(a.in, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	user, profile, err := creator.CreateAdmin(ctx, in.Email, in.Name, string(pw))
	if err != nil {
		return fmt.Errorf("creating admin: %w", err)
	}

	fmt.Fprintf(a.out, "created admin %s (%s) with management id %s\n", user.Email, user.ID, profile.ManagementID)
	return nil
}
