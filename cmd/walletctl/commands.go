package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"mywallet/internal/config"
	"mywallet/internal/db"
	"mywallet/internal/logger"
	"mywallet/internal/service"
	"mywallet/internal/storage"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:     "walletctl",
		Short:   "Operator tooling for the mywallet ledger service",
		Version: version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// keep command output clean; only warnings reach stderr
			logger.InitWriter(cmd.ErrOrStderr(), "warn", false)
		},
	}

	root.AddCommand(newMigrateCommand(), newAddUserCommand(), newTokenCommand())
	return root
}

func newMigrateCommand() *cobra.Command {
	var apply bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "List pending migrations, or apply them with --apply",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadEnv()
			if err != nil {
				return err
			}
			return runMigrate(cmd.Context(), cmd.OutOrStdout(), cfg, apply)
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "apply pending migrations")
	return cmd
}

func runMigrate(ctx context.Context, out io.Writer, cfg *config.Config, apply bool) error {
	if cfg.Driver == config.DriverSQLite {
		// the sqlite store brings its schema up to date when opened
		sdb, err := storage.NewDB(cfg.SQLitePath)
		if err != nil {
			return fmt.Errorf("open sqlite %s: %w", cfg.SQLitePath, err)
		}
		defer sdb.Close()
		fmt.Fprintf(out, "sqlite schema at %s is up to date\n", cfg.SQLitePath)
		return nil
	}

	pool, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if !apply {
		pending, err := db.Pending(ctx, pool)
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			fmt.Fprintln(out, "no pending migrations")
		}
		for _, name := range pending {
			fmt.Fprintf(out, "pending %s\n", name)
		}
		return nil
	}

	applied, err := db.Migrate(ctx, pool)
	if err != nil {
		return err
	}
	for _, name := range applied {
		fmt.Fprintf(out, "applied %s\n", name)
	}
	fmt.Fprintf(out, "%d migration(s) applied\n", len(applied))
	return nil
}

func newAddUserCommand() *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "adduser",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if password == "" {
				fmt.Fprint(out, "Password: ")
				var err error
				password, err = readPassword(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				fmt.Fprintln(out)
			}
			if strings.TrimSpace(password) == "" {
				return fmt.Errorf("password cannot be empty")
			}

			return withAuth(cmd.Context(), func(ctx context.Context, auth *service.AuthService) error {
				u, err := auth.SignUp(ctx, name, email, password)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "User %s created with ID %d\n", u.Email, u.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name (required)")
	cmd.Flags().StringVar(&email, "email", "", "login email (required)")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newTokenCommand() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Open a session for an existing account and print its token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAuth(cmd.Context(), func(ctx context.Context, auth *service.AuthService) error {
				token, err := auth.IssueToken(ctx, email)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), token)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email (required)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

// withAuth opens the configured stores for the duration of fn.
func withAuth(ctx context.Context, fn func(context.Context, *service.AuthService) error) error {
	cfg, err := config.LoadEnv()
	if err != nil {
		return err
	}

	stores, err := db.OpenStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer stores.Close()

	auth := service.NewAuthService(stores.Users, stores.Sessions, service.NewBcryptHasher(cfg.BcryptCost), cfg.DBTimeout)
	return fn(ctx, auth)
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	// pipes and tests
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
