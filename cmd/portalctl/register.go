package main

import (
	"github.com/spf13/cobra"

	"github.com/campuslink/auth-portal/internal/core/domain"
)

func newRegisterCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register student or company accounts",
	}
	cmd.AddCommand(newRegisterStudentCmd(c), newRegisterCompanyCmd(c))
	return cmd
}

func accountFlags(cmd *cobra.Command) {
	cmd.Flags().String("account-id", "", "existing or federated account id (generated when empty)")
	cmd.Flags().String("first-name", "", "account first name")
	cmd.Flags().String("last-name", "", "account last name")
	cmd.Flags().String("owner-email", "", "account email")
}

func accountPatch(cmd *cobra.Command) domain.AccountPatch {
	id, _ := cmd.Flags().GetString("account-id")
	return domain.AccountPatch{
		ID:        id,
		Email:     optional(cmd, "owner-email"),
		FirstName: optional(cmd, "first-name"),
		LastName:  optional(cmd, "last-name"),
	}
}

func newRegisterStudentCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "student",
		Short: "Create a student profile",
		Long: `Create a student profile and its account. Without --password the
profile has no direct credentials and can only be reached through federation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var data domain.StudentRegistration
			data.StudentEmail, _ = cmd.Flags().GetString("student-email")
			data.Password, _ = cmd.Flags().GetString("password")
			data.University, _ = cmd.Flags().GetString("university")
			data.Major, _ = cmd.Flags().GetString("major")
			data.GraduationYear, _ = cmd.Flags().GetString("graduation-year")

			got, err := c.svc.RegisterStudent(cmd.Context(), accountPatch(cmd), data)
			if err != nil {
				return err
			}
			return c.print(got)
		},
	}

	accountFlags(cmd)
	cmd.Flags().String("student-email", "", "student email (unique)")
	cmd.Flags().String("password", "", "password, at least 8 characters")
	cmd.Flags().String("university", "", "university")
	cmd.Flags().String("major", "", "major")
	cmd.Flags().String("graduation-year", "", "graduation year")
	return cmd
}

func newRegisterCompanyCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "company",
		Short: "Create a company profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var data domain.CompanyRegistration
			data.CompanyName, _ = cmd.Flags().GetString("name")
			data.CompanyCode, _ = cmd.Flags().GetString("code")
			data.CompanyEmail, _ = cmd.Flags().GetString("email")
			data.Password, _ = cmd.Flags().GetString("password")

			got, err := c.svc.RegisterCompany(cmd.Context(), accountPatch(cmd), data)
			if err != nil {
				return err
			}
			return c.print(got)
		},
	}

	accountFlags(cmd)
	cmd.Flags().String("name", "", "company name")
	cmd.Flags().String("code", "", "company code shared with employees (unique, case-sensitive)")
	cmd.Flags().String("email", "", "company login email (unique)")
	cmd.Flags().String("password", "", "password, at least 8 characters")
	return cmd
}
