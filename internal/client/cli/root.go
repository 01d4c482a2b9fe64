package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/myday/internal/client/config"
	"github.com/spf13/cobra"
)

// noApp marks commands that run without opening the local store.
const noApp = "no-app"

type rootFlags struct {
	config   string
	db       string
	owner    string
	token    string
	backend  string
	server   string
	logLevel string
	logFile  string
}

// runner carries state between the root hooks and the subcommands.
type runner struct {
	opts  *Options
	flags rootFlags
	cfg   *config.Config
	app   *App
}

// newRootCommand builds the command tree. The App is opened lazily by the
// root pre-run hook and left in r.app for the caller to close.
func newRootCommand(r *runner) *cobra.Command {
	root := &cobra.Command{
		Use:           "myday",
		Short:         "Personal journal with cloud sync and a 30 day trash",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return r.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&r.flags.config, "config", "c", "", "config file (json, toml or yaml)")
	pf.StringVar(&r.flags.db, "db", "", "local database path")
	pf.StringVar(&r.flags.owner, "owner", "", "owner id used for replication")
	pf.StringVar(&r.flags.token, "token", "", "access token for the document server")
	pf.StringVar(&r.flags.backend, "backend", "", "remote backend: none, memory, grpc or s3")
	pf.StringVar(&r.flags.server, "server", "", "document server address")
	pf.StringVar(&r.flags.logLevel, "log-level", "", "log level")
	pf.StringVar(&r.flags.logFile, "log-file", "", "log file path")

	root.AddCommand(
		newEntryCommand(r),
		newTrashCommand(r),
		newLinkCommand(r),
		newSyncCommand(r),
		newStatsCommand(r),
		newProfileCommand(r),
		newWatchCommand(r),
		newTokenCommand(r),
	)
	return root
}

func (r *runner) setup(cmd *cobra.Command) error {
	if cmd.Annotations[noApp] != "" || cmd.Name() == "help" {
		return nil
	}

	cfg, err := config.Load(r.opts.Args, r.opts.Getenv)
	if err != nil {
		return err
	}
	r.overrideFromFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	r.cfg = cfg

	app, err := openApp(cmd.Context(), cfg, r.opts)
	if err != nil {
		return err
	}
	r.app = app
	return nil
}

// overrideFromFlags applies flags set on the command line, which win over
// the config file and the environment.
func (r *runner) overrideFromFlags(cmd *cobra.Command, cfg *config.Config) {
	set := func(name string, dst *string, v string) {
		if cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	set("db", &cfg.DatabasePath, r.flags.db)
	set("owner", &cfg.OwnerID, r.flags.owner)
	set("token", &cfg.AccessToken, r.flags.token)
	set("backend", &cfg.Backend, r.flags.backend)
	set("server", &cfg.ServerAddr, r.flags.server)
	set("log-level", &cfg.LogLevel, r.flags.logLevel)
	set("log-file", &cfg.LogFile, r.flags.logFile)
}

// Run executes the command line described by opts and releases everything
// the command opened.
func Run(ctx context.Context, opts Options) error {
	opts.defaults()
	r := &runner{opts: &opts}

	root := newRootCommand(r)
	root.SetArgs(opts.Args)
	root.SetIn(opts.In)
	root.SetOut(opts.Out)
	root.SetErr(opts.Err)

	err := root.ExecuteContext(ctx)
	if r.app != nil {
		err = errors.Join(err, r.app.Close())
	}
	return err
}
