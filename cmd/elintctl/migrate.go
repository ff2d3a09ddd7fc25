package main

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/sharadhiadiga/Elint/internal/infrastructure/migration"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultMigrationsDir = "migrations"

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
	Long: `Apply or roll back the schema migrations. By default the migrations
compiled into the binary are used; --path reads them from a directory
instead. create and list work on a directory and need no database.`,
	Annotations: map[string]string{annotationNoDatabase: "true"},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.PersistentFlags().String("path", "", "Migrations directory (create and list default to ./migrations)")

	migrateCmd.AddCommand(
		migrator("up", "Apply all pending migrations", cobra.NoArgs, func(m *migration.Migrator, _ []string) error {
			return m.Up()
		}),
		migrator("down", "Roll back all migrations", cobra.NoArgs, func(m *migration.Migrator, _ []string) error {
			return m.Down()
		}),
		migrator("step N", "Apply N migrations (negative rolls back)", cobra.ExactArgs(1), func(m *migration.Migrator, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid step count %q", args[0])
			}
			return m.Steps(n)
		}),
		migrator("goto VERSION", "Migrate up or down to VERSION", cobra.ExactArgs(1), func(m *migration.Migrator, args []string) error {
			v, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid version %q", args[0])
			}
			return m.GoTo(uint(v))
		}),
		migrator("force VERSION", "Set the version without migrating (clears a dirty state)", cobra.ExactArgs(1), func(m *migration.Migrator, args []string) error {
			v, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid version %q", args[0])
			}
			return m.Force(v)
		}),
		migrator("version", "Show the applied version", cobra.NoArgs, func(m *migration.Migrator, _ []string) error {
			v, dirty, err := m.Version()
			if err != nil {
				return err
			}
			if v == 0 {
				fmt.Println("no migrations applied")
				return nil
			}
			fmt.Printf("version %d (dirty: %t)\n", v, dirty)
			return nil
		}),
		dropCmd,
		createCmd,
		listCmd,
	)
	dropCmd.Flags().Bool("confirm", false, "Really drop every table")
}

var errDropNotConfirmed = errors.New("drop cancelled: pass --confirm")

var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Drop every database object",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if ok, _ := cmd.Flags().GetBool("confirm"); !ok {
			return errDropNotConfirmed
		}
		return withMigrator(cmd, func(m *migration.Migrator) error { return m.Drop() })
	},
}

var createCmd = &cobra.Command{
	Use:   "create NAME [DESCRIPTION]",
	Short: "Write the next numbered up/down migration pair",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		desc := ""
		if len(args) == 2 {
			desc = args[1]
		}
		mf, err := migration.CreateMigration(migrationsDir(cmd), args[0], desc)
		if err != nil {
			return err
		}
		app.log.Info("Migration created",
			zap.String("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath),
		)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the migrations in the directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := migration.ListMigrations(os.DirFS(migrationsDir(cmd)))
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

func migrationsDir(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("path"); p != "" {
		return p
	}
	return defaultMigrationsDir
}

// migrator builds a subcommand that runs fn against the configured database
func migrator(use, short string, args cobra.PositionalArgs, fn func(*migration.Migrator, []string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, a []string) error {
			return withMigrator(cmd, func(m *migration.Migrator) error { return fn(m, a) })
		},
	}
}

func withMigrator(cmd *cobra.Command, fn func(*migration.Migrator) error) error {
	db, err := sql.Open("postgres", app.cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(cmd.Context()); err != nil {
		_ = db.Close()
		return fmt.Errorf("connect to database: %w", err)
	}

	path, _ := cmd.Flags().GetString("path")
	m, err := migration.New(db, path, app.log)
	if err != nil {
		_ = db.Close()
		return err
	}
	// Closing the migrator closes db as well
	defer m.Close()
	return fn(m)
}
