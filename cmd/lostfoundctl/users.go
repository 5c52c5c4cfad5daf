package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/campusfound/lostfound-backend/internal/auth"
	"github.com/campusfound/lostfound-backend/internal/users"
	"github.com/campusfound/lostfound-backend/pkg/security"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage user accounts",
}

var usersPromoteCmd = &cobra.Command{
	Use:   "promote <email>",
	Short: "Grant staff access to an existing account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setStaff(cmd, args[0], true)
	},
}

var usersDemoteCmd = &cobra.Command{
	Use:   "demote <email>",
	Short: "Revoke staff access",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setStaff(cmd, args[0], false)
	},
}

const tempPasswordLength = 16

var staffRequest auth.StaffRegisterRequest

var usersCreateStaffCmd = &cobra.Command{
	Use:   "create-staff",
	Short: "Create a staff account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		generated := staffRequest.Password == ""
		if generated {
			pw, err := security.GenerateTempPassword(tempPasswordLength)
			if err != nil {
				return err
			}
			staffRequest.Password = pw
		}
		user, err := env.services.StaffRegister.Register(cmd.Context(), staffRequest)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created staff account %s (%s)\n", user.Email, user.ID)
		if generated {
			fmt.Fprintf(cmd.OutOrStdout(), "temporary password: %s\n", staffRequest.Password)
		}
		return nil
	},
}

func init() {
	flags := usersCreateStaffCmd.Flags()
	flags.StringVar(&staffRequest.Email, "email", "", "staff email address")
	flags.StringVar(&staffRequest.Password, "password", "", "initial password; generated when empty")
	flags.StringVar(&staffRequest.FirstName, "first-name", "", "first name")
	flags.StringVar(&staffRequest.LastName, "last-name", "", "last name")
	flags.StringVar(&staffRequest.Department, "department", "", "department")
	for _, name := range []string{"email", "first-name", "last-name"} {
		_ = usersCreateStaffCmd.MarkFlagRequired(name)
	}

	usersCmd.AddCommand(usersPromoteCmd, usersDemoteCmd, usersCreateStaffCmd)
}

func setStaff(cmd *cobra.Command, email string, isStaff bool) error {
	user, err := env.services.Users.FindByEmail(cmd.Context(), users.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("no account for %s", email)
		}
		return err
	}
	if _, err := env.services.Users.SetStaff(cmd.Context(), user.ID, isStaff); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s staff=%t\n", user.Email, isStaff)
	return nil
}
