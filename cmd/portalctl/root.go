package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/campuslink/auth-portal/internal/bootstrap"
	"github.com/campuslink/auth-portal/internal/core/service"
	"github.com/campuslink/auth-portal/internal/pkg/config"
	"github.com/campuslink/auth-portal/pkg/logger"
)

// opener connects to the configured stores.
type opener func(ctx context.Context, log zerolog.Logger) (*bootstrap.App, error)

func openFromEnv(ctx context.Context, log zerolog.Logger) (*bootstrap.App, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not load .env file")
	}
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(ctx, cfg, log)
}

type cli struct {
	open    opener
	verbose bool
	root    *cobra.Command

	app *bootstrap.App
	svc *service.AuthService
	out io.Writer
	log zerolog.Logger
}

func newCLI(open opener) *cli {
	c := &cli{open: open}

	root := &cobra.Command{
		Use:   "portalctl",
		Short: "Auth portal operator CLI",
		Long: `portalctl manages accounts of the auth portal directly against the
configured store (MONGODB_URL, DATABASE_URL or in-memory).

Example usage:
  portalctl register company --name Acme --code ACME1 --email hr@acme.com --password ...
  portalctl register student --student-email ana@uni.edu --password ...
  portalctl account sync --id fed-42 --email ana@uni.edu
  portalctl account import accounts.jsonl --workers 8`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(newRegisterCmd(c))
	root.AddCommand(newAccountCmd(c))
	c.root = root
	return c
}

// execute runs the command line and then releases the opened stores, whether
// or not the command succeeded.
func (c *cli) execute(ctx context.Context) error {
	err := c.root.ExecuteContext(ctx)
	if c.app != nil {
		// ctx may already be cancelled; closing must still run.
		if cerr := c.app.Close(context.WithoutCancel(ctx)); cerr != nil {
			err = errors.Join(err, cerr)
		}
		c.app = nil
	}
	return err
}

func (c *cli) setup(cmd *cobra.Command) error {
	level := "warn"
	if c.verbose {
		level = "debug"
	}
	c.log = logger.New(logger.Options{Level: level, Pretty: true, Output: cmd.ErrOrStderr(), Service: "portalctl"})

	app, err := c.open(cmd.Context(), c.log)
	if err != nil {
		return err
	}
	c.app = app
	c.svc = service.NewAuthService(app.Storage, app.Sessions, "", 0, c.log)
	c.out = cmd.OutOrStdout()
	return nil
}

func (c *cli) print(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// optional returns a pointer to the flag value when the flag was given.
func optional(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}
