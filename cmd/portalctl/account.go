package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/campuslink/auth-portal/internal/core/domain"
	"github.com/campuslink/auth-portal/internal/infrastructure/queue"
)

func newAccountCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Inspect and sync accounts",
	}
	cmd.AddCommand(newAccountGetCmd(c), newAccountSyncCmd(c), newAccountImportCmd(c))
	return cmd
}

func newAccountGetCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Print an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			acc, err := c.svc.CurrentAccount(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.print(acc)
		},
	}
}

func newAccountSyncCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Upsert an account pushed by the identity provider",
		Long: `Upsert an account. Only the given flags are written; other fields keep
their stored values.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := cmd.Flags().GetString("id")
			patch := domain.AccountPatch{
				ID:              id,
				Email:           optional(cmd, "email"),
				FirstName:       optional(cmd, "first-name"),
				LastName:        optional(cmd, "last-name"),
				ProfileImageURL: optional(cmd, "image"),
			}
			if tenant := optional(cmd, "tenant"); tenant != nil {
				t := domain.TenantType(*tenant)
				patch.TenantType = &t
			}

			acc, err := c.svc.SyncAccount(cmd.Context(), patch)
			if err != nil {
				return err
			}
			return c.print(acc)
		},
	}

	cmd.Flags().String("id", "", "account id (generated when empty)")
	cmd.Flags().String("email", "", "email")
	cmd.Flags().String("first-name", "", "first name")
	cmd.Flags().String("last-name", "", "last name")
	cmd.Flags().String("image", "", "profile image URL")
	cmd.Flags().String("tenant", "", "student or company")
	return cmd
}

func newAccountImportCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Sync accounts from a JSON Lines file",
		Long: `Sync accounts from a file holding one account patch per line, e.g.
  {"id":"fed-42","email":"ana@uni.edu","firstName":"Ana"}
Patches for the same id are applied in file order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workers, _ := cmd.Flags().GetInt("workers")

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			d := queue.NewDispatcher(workers, c.svc, c.log)
			d.Start(cmd.Context())

			scanner := bufio.NewScanner(f)
			line := 0
			var runErr error
			for scanner.Scan() {
				line++
				raw := scanner.Bytes()
				if len(raw) == 0 {
					continue
				}
				var patch domain.AccountPatch
				if err := json.Unmarshal(raw, &patch); err != nil {
					runErr = fmt.Errorf("line %d: %w", line, err)
					break
				}
				if err := d.Enqueue(cmd.Context(), patch); err != nil {
					runErr = fmt.Errorf("import stopped at line %d: %w", line, err)
					break
				}
			}
			res := d.Close()
			if runErr != nil {
				return runErr
			}
			if err := scanner.Err(); err != nil {
				return err
			}

			if err := c.print(res); err != nil {
				return err
			}
			if res.Failed > 0 {
				return fmt.Errorf("%d of %d accounts failed to sync", res.Failed, res.Failed+res.Synced)
			}
			return nil
		},
	}

	cmd.Flags().IntP("workers", "w", 8, "number of sync workers")
	return cmd
}
