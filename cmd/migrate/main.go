// Command migrate manages the database schema.
package main

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dansever/estait-app-sub000/internal/infrastructure/config"
	"github.com/dansever/estait-app-sub000/internal/infrastructure/logger"
	"github.com/dansever/estait-app-sub000/internal/infrastructure/migration"
	"github.com/dansever/estait-app-sub000/migrations"
)

type options struct {
	dir      string
	logLevel string
	log      *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Estait database migration tool",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			log, err := logger.New(&logger.Config{Level: opts.logLevel, Format: "console", Output: "stdout"})
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			opts.log = log
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if opts.log != nil {
				_ = opts.log.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&opts.dir, "path", "", "read migrations from this directory instead of the embedded set")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "debug, info, warn or error")

	root.AddCommand(
		withMigrator(opts, &cobra.Command{Use: "up", Short: "Apply all pending migrations", Args: cobra.NoArgs},
			func(m *migration.Migrator, _ []string) error { return m.Up() }),
		withMigrator(opts, &cobra.Command{Use: "down", Short: "Roll back all migrations", Args: cobra.NoArgs},
			func(m *migration.Migrator, _ []string) error { return m.Down() }),
		withMigrator(opts, &cobra.Command{Use: "steps <n>", Short: "Apply n migrations, negative n rolls back", Args: cobra.ExactArgs(1)},
			func(m *migration.Migrator, args []string) error {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid step count %q", args[0])
				}
				return m.Steps(n)
			}),
		withMigrator(opts, &cobra.Command{Use: "goto <version>", Short: "Migrate to a specific version", Args: cobra.ExactArgs(1)},
			func(m *migration.Migrator, args []string) error {
				v, err := strconv.ParseUint(args[0], 10, 32)
				if err != nil {
					return fmt.Errorf("invalid version %q", args[0])
				}
				return m.GoTo(uint(v))
			}),
		withMigrator(opts, &cobra.Command{Use: "force <version>", Short: "Set the version without migrating", Args: cobra.ExactArgs(1)},
			func(m *migration.Migrator, args []string) error {
				v, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid version %q", args[0])
				}
				return m.Force(v)
			}),
		withMigrator(opts, &cobra.Command{Use: "status", Short: "Show applied and pending migrations", Args: cobra.NoArgs},
			func(m *migration.Migrator, _ []string) error {
				st, err := m.Status()
				if err != nil {
					return err
				}
				fmt.Printf("current: %d\nlatest:  %d\ndirty:   %t\npending: %v\n", st.Current, st.Latest, st.Dirty, st.Pending)
				return nil
			}),
		newDropCmd(opts),
		newCreateCmd(opts),
	)
	return root
}

func newDropCmd(opts *options) *cobra.Command {
	var confirm bool
	cmd := withMigrator(opts, &cobra.Command{Use: "drop", Short: "Drop every table", Args: cobra.NoArgs},
		func(m *migration.Migrator, _ []string) error {
			if !confirm {
				return errors.New("refusing to drop without --confirm")
			}
			return m.Drop()
		})
	cmd.Flags().BoolVar(&confirm, "confirm", false, "confirm dropping all data")
	return cmd
}

func newCreateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name> [description]",
		Short: "Create the next numbered migration pair",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			dir := opts.dir
			if dir == "" {
				dir = "migrations"
			}
			desc := ""
			if len(args) == 2 {
				desc = args[1]
			}
			mf, err := migration.CreateMigration(dir, args[0], desc)
			if err != nil {
				return err
			}
			opts.log.Info("Migration created",
				zap.String("version", mf.Version),
				zap.String("up_file", mf.UpPath),
				zap.String("down_file", mf.DownPath),
			)
			return nil
		},
	}
}

// withMigrator attaches a RunE that opens the database and a Migrator
// around run.
func withMigrator(opts *options, cmd *cobra.Command, run func(*migration.Migrator, []string) error) *cobra.Command {
	cmd.RunE = func(_ *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			return fmt.Errorf("failed to reach database: %w", err)
		}

		src := migration.Source{FS: migrations.FS}
		if opts.dir != "" {
			src = migration.Source{Dir: opts.dir}
		}
		m, err := migration.New(db, src, opts.log)
		if err != nil {
			return err
		}
		defer m.Close()
		return run(m, args)
	}
	return cmd
}
