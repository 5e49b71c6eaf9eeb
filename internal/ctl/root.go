// Package ctl implements libraryctl, the operator command line for the
// library backend: schema migrations, admin bootstrap, embedding jobs and
// one-off overdue sweeps.
package ctl

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/libris/internal/logging"
	"github.com/dmitrijs2005/libris/internal/server"
	"github.com/dmitrijs2005/libris/internal/server/config"
	"github.com/dmitrijs2005/libris/internal/server/repositories/repomanager"
	"github.com/spf13/cobra"
)

// seams for tests
var (
	openDB         = server.OpenDB
	newRepoManager = repomanager.NewPostgresRepositoryManager
)

type App struct {
	cfg    *config.Config
	logger logging.Logger
	in     *bufio.Reader
	out    io.Writer

	configPath string
	dsn        string
	logLevel   string

	db *sql.DB
	rm repomanager.RepositoryManager
}

func NewApp(in io.Reader, out io.Writer) *App {
	return &App{in: bufio.NewReader(in), out: out}
}

// Root builds the command tree.
func (a *App) Root() *cobra.Command {
	root := &cobra.Command{
		Use:           "libraryctl",
		Short:         "Operator tools for the library backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.loadConfig()
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.close()
		},
	}
	root.SetOut(a.out)
	root.SetErr(a.out)

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "path to a YAML or JSON config file")
	pf.StringVarP(&a.dsn, "dsn", "d", "", "PostgreSQL DSN (overrides config)")
	pf.StringVarP(&a.logLevel, "log-level", "l", "", "log level (overrides config)")

	root.AddCommand(
		a.migrateCommand(),
		a.createAdminCommand(),
		a.embedCommand(),
		a.remindCommand(),
	)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string) int {
	a := NewApp(os.Stdin, os.Stdout)
	root := a.Root()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

// loadConfig reuses the server's layered loader; libraryctl flags are
// translated into the server's flag spelling.
func (a *App) loadConfig() error {
	var args []string
	if a.configPath != "" {
		args = append(args, "-config", a.configPath)
	}
	if a.dsn != "" {
		args = append(args, "-d", a.dsn)
	}
	if a.logLevel != "" {
		args = append(args, "-l", a.logLevel)
	}

	cfg, err := config.Load(args)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logging.New(os.Stderr, logging.Options{
		Backend: cfg.Logging.Backend,
		Level:   cfg.Logging.Level,
		Format:  "console",
	})
	return nil
}

// connect opens the database on first use.
func (a *App) connect(ctx context.Context) error {
	if a.db != nil {
		return nil
	}
	db, err := openDB(a.cfg)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("db ping error: %w", err)
	}
	rm, err := newRepoManager(db)
	if err != nil {
		_ = db.Close()
		return err
	}
	a.db, a.rm = db, rm
	return nil
}

func (a *App) close() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}
