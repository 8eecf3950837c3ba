package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/Krackerr154/glabs-website/internal/config"
	"github.com/Krackerr154/glabs-website/internal/models"
	"github.com/Krackerr154/glabs-website/internal/service"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type userAdmin interface {
	Users(ctx context.Context) ([]models.User, error)
	SetPassword(ctx context.Context, email, password string) error
}

type seeder interface {
	Seed(ctx context.Context, email, password string, samples []service.SampleRecord) (*service.SeedResult, error)
}

// backend is what the subcommands operate on.
type backend struct {
	Options       *config.Options
	Users         userAdmin
	Seeder        seeder
	PurgeSessions func(ctx context.Context) (int64, error)
	Close         func() error
}

type openFunc func(ctx context.Context, args []string) (*backend, error)

// promptFunc reads a secret after printing label to w.
type promptFunc func(w io.Writer, label string) (string, error)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func promptPassword(w io.Writer, label string) (string, error) {
	if _, err := fmt.Fprint(w, label); err != nil {
		return "", err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

type rootOptions struct {
	configPath string
	dsn        string
}

func (o *rootOptions) args() []string {
	var args []string
	if o.configPath != "" {
		args = append(args, "-c", o.configPath)
	}
	if o.dsn != "" {
		args = append(args, "-d", o.dsn)
	}
	return args
}

func newRootCommand(open openFunc, prompt promptFunc) *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "blogctl",
		Short:         "Maintain the G-Labs website database",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to config file")
	cmd.PersistentFlags().StringVarP(&opts.dsn, "dsn", "d", "", "PostgreSQL DSN (overrides DATABASE_DSN)")

	// withBackend opens the backend for the duration of run.
	withBackend := func(run func(cmd *cobra.Command, b *backend) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			b, err := open(cmd.Context(), opts.args())
			if err != nil {
				return err
			}
			defer func() { _ = b.Close() }()
			return run(cmd, b)
		}
	}

	cmd.AddCommand(
		newSeedCommand(withBackend, prompt),
		newUserCommand(withBackend, prompt),
		newSessionsCommand(withBackend),
	)
	return cmd
}

type backendWrapper func(run func(cmd *cobra.Command, b *backend) error) func(*cobra.Command, []string) error

func newSeedCommand(withBackend backendWrapper, prompt promptFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create or reset the administrator and add the sample content",
		Long: "Upserts the administrator named by ADMIN_EMAIL and creates every sample record\n" +
			"whose slug is free. Running it again only resets the password.",
		Args: cobra.NoArgs,
		RunE: withBackend(func(cmd *cobra.Command, b *backend) error {
			email := b.Options.AdminEmail
			if email == "" {
				return errors.New("ADMIN_EMAIL is not set")
			}
			password := b.Options.AdminPassword
			if password == "" {
				var err error
				if password, err = prompt(cmd.ErrOrStderr(), "Admin password: "); err != nil {
					return err
				}
			}

			res, err := b.Seeder.Seed(cmd.Context(), email, password, service.DefaultSamples)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Administrator %s ready\n", email)
			for _, name := range res.Created {
				fmt.Fprintf(out, "created %s\n", name)
			}
			for _, name := range res.Skipped {
				fmt.Fprintf(out, "exists  %s\n", name)
			}
			return nil
		}),
	}
}

func newUserCommand(withBackend backendWrapper, prompt promptFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Inspect and manage administrator accounts",
	}

	check := &cobra.Command{
		Use:   "check",
		Short: "List users and whether their password hashes are bcrypt",
		Args:  cobra.NoArgs,
		RunE: withBackend(func(cmd *cobra.Command, b *backend) error {
			users, err := b.Users.Users(cmd.Context())
			if err != nil {
				return err
			}
			if len(users) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no users")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "EMAIL\tHASH")
			for _, u := range users {
				state := "bcrypt"
				if !service.IsBcryptHash(u.PasswordHash) {
					state = "INVALID (run user set-password)"
				}
				fmt.Fprintf(tw, "%s\t%s\n", u.Email, state)
			}
			return tw.Flush()
		}),
	}

	var email string
	setPassword := &cobra.Command{
		Use:   "set-password",
		Short: "Set a user's password from a hidden prompt",
		Args:  cobra.NoArgs,
		RunE: withBackend(func(cmd *cobra.Command, b *backend) error {
			password, err := prompt(cmd.ErrOrStderr(), "New password: ")
			if err != nil {
				return err
			}
			confirm, err := prompt(cmd.ErrOrStderr(), "Repeat password: ")
			if err != nil {
				return err
			}
			if password != confirm {
				return errors.New("passwords do not match")
			}
			if err := b.Users.SetPassword(cmd.Context(), email, password); err != nil {
				if errors.Is(err, models.ErrNotFound) {
					return fmt.Errorf("no user with email %q", email)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Password updated for %s\n", email)
			return nil
		}),
	}
	setPassword.Flags().StringVar(&email, "email", "", "email of the user")
	_ = setPassword.MarkFlagRequired("email")

	cmd.AddCommand(check, setPassword)
	return cmd
}

func newSessionsCommand(withBackend backendWrapper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage stored login sessions",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "purge",
		Short: "Delete expired sessions",
		Args:  cobra.NoArgs,
		RunE: withBackend(func(cmd *cobra.Command, b *backend) error {
			n, err := b.PurgeSessions(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired sessions\n", n)
			return nil
		}),
	})
	return cmd
}
