// portfolioctl runs maintenance and batch operations against the portfolio database.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/app"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/config"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/database"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/logging"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/repository"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/version"
)

var (
	dbPath   string
	logLevel string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "portfolioctl",
		Short:         "Portfolio accounting maintenance tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logging.SetupWriter(cmd.ErrOrStderr(), logLevel, "console")
		},
	}

	// Flags
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database path (defaults to DB_PATH)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	// Subcommands
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(snapshotCmd())
	rootCmd.AddCommand(dividendCmd())

	return rootCmd
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	return cfg, nil
}

// withApp builds the application, runs fn and closes it again.
func withApp(ctx context.Context, fn func(a *app.App) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := app.New(ctx, cfg, app.Options{})
	if err != nil {
		return err
	}

	if err := fn(a); err != nil {
		a.Close()
		return err
	}
	return a.Close()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "portfolioctl version %s\n", version.Version)
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := database.Open(cfg.Database.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := database.Migrate(cmd.Context(), db)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
				return nil
			}
			for _, v := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "applied %d\n", v)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List migrations and whether they are applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := database.Open(cfg.Database.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			statuses, err := database.Status(cmd.Context(), db)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "VERSION\tSTATE\tSOURCE")
			for _, s := range statuses {
				state := "pending"
				if s.Applied {
					state = "applied"
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\n", s.Version, state, s.Source)
			}
			return tw.Flush()
		},
	})

	return cmd
}

func snapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Generate portfolio snapshots",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "all",
		Short: "Snapshot every account for today (UTC)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				result, err := a.Services.Snapshot.GenerateForAllAccounts(cmd.Context())
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), result)
			})
		},
	})

	var date string
	dayFlag := func(a *app.App) (time.Time, error) {
		if date == "" {
			return a.Services.Snapshot.Today(), nil
		}
		day, err := repository.ParseDate(date)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --date %q, expected YYYY-MM-DD", date)
		}
		return day, nil
	}

	accountCmd := &cobra.Command{
		Use:   "account <account-id>",
		Short: "Snapshot a single account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				day, err := dayFlag(a)
				if err != nil {
					return err
				}

				snapshot, err := a.Services.Snapshot.GenerateSnapshot(cmd.Context(), args[0], day)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), snapshot)
			})
		},
	}
	accountCmd.Flags().StringVar(&date, "date", "", "Snapshot day as YYYY-MM-DD (defaults to today)")
	cmd.AddCommand(accountCmd)

	showCmd := &cobra.Command{
		Use:   "show <account-id>",
		Short: "Print the stored snapshot of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				day, err := dayFlag(a)
				if err != nil {
					return err
				}

				snapshot, err := a.Services.Snapshot.GetSnapshot(cmd.Context(), args[0], day)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), snapshot)
			})
		},
	}
	showCmd.Flags().StringVar(&date, "date", "", "Snapshot day as YYYY-MM-DD (defaults to today)")
	cmd.AddCommand(showCmd)

	return cmd
}

func dividendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dividend",
		Short: "Manage dividend payments",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "distribute <dividend-id>",
		Short: "Pay a declared dividend to every current holder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				payments, err := a.Services.Dividend.DistributeDividend(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), payments)
			})
		},
	})

	return cmd
}
