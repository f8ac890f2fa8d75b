// Package cli implements the avisos admin command line. Commands work
// directly against the configured store.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/avisos/internal/app"
	"github.com/dmitrijs2005/avisos/internal/config"
	"github.com/dmitrijs2005/avisos/internal/logging"
	"github.com/dmitrijs2005/avisos/internal/render"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigFile string
	EnvFile    string
	Driver     string
	DSN        string
	User       string
	Format     string
	Verbose    bool

	// loadConfig is replaced in tests.
	loadConfig func(envFile, jsonFile string) (*config.Config, error)
}

func defaultLoadConfig(envFile, jsonFile string) (*config.Config, error) {
	return config.Load(envFile, jsonFile, nil)
}

func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{loadConfig: defaultLoadConfig})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "avisos",
		Short: "Manage avisos notes and their edit history",
		Long: `avisos administers the shared note board: notes, the recycle bin and
the field-level edit history of every note.

Commands talk to the store directly, so they also work while the daemon
is down.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := render.ParseFormat(opts.Format)
			return err
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigFile, "config", "c", "", "JSON config file")
	pf.StringVarP(&opts.EnvFile, "env-file", "e", "", "dotenv file")
	pf.StringVar(&opts.Driver, "driver", "", "database driver (sqlite|pgx), overrides config")
	pf.StringVarP(&opts.DSN, "dsn", "d", "", "database DSN, overrides config")
	pf.StringVarP(&opts.User, "user", "u", os.Getenv("AVISOS_USER"), "acting user for edits")
	pf.StringVar(&opts.Format, "format", "text", "output format (text|json|md)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "log to stderr")

	cmd.AddCommand(newMigrateCommand(opts))
	cmd.AddCommand(newPurgeCommand(opts))
	cmd.AddCommand(newNotesCommand(opts))
	cmd.AddCommand(newHistoryCommand(opts))
	cmd.AddCommand(newEditionsCommand(opts))
	cmd.AddCommand(newUsersCommand(opts))
	return cmd
}

func (o *RootOptions) config() (*config.Config, error) {
	cfg, err := o.loadConfig(o.EnvFile, o.ConfigFile)
	if err != nil {
		return nil, err
	}
	if o.Driver != "" {
		cfg.DatabaseDriver = o.Driver
	}
	if o.DSN != "" {
		cfg.DatabaseDSN = o.DSN
	}
	return cfg, cfg.Validate()
}

func (o *RootOptions) logger(w io.Writer) (logging.Logger, error) {
	if !o.Verbose {
		return logging.Nop(), nil
	}
	return logging.New("debug", "text", w)
}

// withRuntime opens the store for one command and closes it afterwards.
func (o *RootOptions) withRuntime(cmd *cobra.Command, fn func(ctx context.Context, rt *app.Runtime) error) error {
	cfg, err := o.config()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log, err := o.logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	rt, err := app.NewRuntime(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer rt.Close()
	return fn(ctx, rt)
}

// actor resolves --user against the configured users.
func (o *RootOptions) actor(rt *app.Runtime) (string, error) {
	if o.User == "" {
		return "", fmt.Errorf("--user (or AVISOS_USER) is required for edits; known users: %v", rt.Users.Users())
	}
	return rt.Users.Resolve(o.User)
}

func (o *RootOptions) format() render.Format {
	f, _ := render.ParseFormat(o.Format)
	return f
}
