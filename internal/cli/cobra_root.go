package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"indicator-toggl/internal/api"
	"indicator-toggl/internal/config"
	"indicator-toggl/internal/errors"
	"indicator-toggl/internal/logging"
)

// APIFactory builds the business API once the configuration is known
type APIFactory func(ctx context.Context, cfg *config.Config, log *slog.Logger) (api.BusinessAPI, error)

// ConfigLoader reads the configuration file at path and applies flag overrides
type ConfigLoader func(path string, overrides *config.ConfigOverrides) (*config.Config, error)

// RootOptions wires the root command to its environment
type RootOptions struct {
	Out        io.Writer
	Err        io.Writer
	NewAPI     APIFactory
	LoadConfig ConfigLoader
}

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd          *cobra.Command
	opts         RootOptions
	errorHandler *ErrorHandler

	app         *App
	businessAPI api.BusinessAPI
	config      *config.Config
	log         *slog.Logger
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand(opts RootOptions) *RootCommand {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	if opts.NewAPI == nil {
		opts.NewAPI = func(ctx context.Context, cfg *config.Config, log *slog.Logger) (api.BusinessAPI, error) {
			return api.New(ctx, cfg, log)
		}
	}
	if opts.LoadConfig == nil {
		opts.LoadConfig = func(path string, overrides *config.ConfigOverrides) (*config.Config, error) {
			return config.NewLoader(path).LoadWithOverrides(overrides)
		}
	}

	root := &RootCommand{
		opts:         opts,
		errorHandler: NewErrorHandler(),
	}

	root.cmd = &cobra.Command{
		Use:   "toggl",
		Short: "Track time with Toggl from the command line",
		Long: `toggl starts, stops and lists Toggl Track time entries.

EXAMPLES:
  toggl                                     # List recent time entries
  toggl start "Write report" @Docs          # Start tracking now
  toggl start "Standup" 9:30am              # Start at a time earlier today
  toggl stop                                # Stop the running entry
  toggl continue "Write report"             # Start the most recent "Write report" again
  toggl add "Review" @Docs 10:00 d1:30:00   # Add a finished entry of 1h30m
  toggl add "Review" 2024-03-01 10:00 2024-03-01 11:00
  toggl rm 123456                           # Delete an entry
  toggl watch --listen 127.0.0.1:8642       # Poll and serve /status

CONFIGURATION:
  Settings are read from ~/.togglrc.yaml (or $TOGGL_CONFIG). A template is
  written on first run; fill in api_token from your Toggl profile page.
  Environment variables TOGGL_API_TOKEN, TOGGL_WORKSPACE_ID, TOGGL_TIMEZONE
  and TOGGL_TIMEOUT override the file, and flags override both.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return errors.NewUsageError(args[0], "unknown command")
			}
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" {
				return nil
			}
			return root.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.run(cmd, "ls", args)
		},
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	}
	root.cmd.SetOut(opts.Out)
	root.cmd.SetErr(opts.Err)
	root.cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errors.NewUsageError(cmd.Name(), err.Error())
	})

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Execute runs the root command and reports any error on the error writer
func (r *RootCommand) Execute(ctx context.Context) error {
	defer r.close()

	cmd, err := r.cmd.ExecuteContextC(ctx)
	if err == nil {
		return nil
	}

	if r.log != nil {
		switch {
		case r.errorHandler.IsRemoteError(err):
			r.log.Info("service request failed", "code", r.errorHandler.GetErrorCode(err), "error", err)
		case errors.ShouldLogError(err):
			r.log.Debug("command failed", "code", errors.GetErrorCode(err), "error", err)
		}
	}
	fmt.Fprintf(r.opts.Err, "Error: %s\n", r.errorHandler.HandleSimple(err))
	if r.errorHandler.IsUsageError(err) {
		cmd.SetOut(r.opts.Err)
		_ = cmd.Usage()
	}
	return err
}

// Command returns the underlying cobra command
func (r *RootCommand) Command() *cobra.Command {
	return r.cmd
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	// Output
	flags.BoolP("quiet", "q", false, "Print nothing but errors")
	flags.BoolP("verbose", "v", false, "Log informational messages")
	flags.BoolP("debug", "d", false, "Log requests and responses (also TOGGL_DEBUG)")

	// Configuration overrides
	flags.String("config", "", "Configuration file (default ~/.togglrc.yaml)")
	flags.String("time-format", "", "Go time layout used for display (overrides time_format)")
	flags.Duration("timeout", 0, "Timeout for each command (overrides timeout)")
	flags.Int64("workspace", 0, "Workspace id for new entries (overrides workspace_id)")
	flags.Int("list-days", 0, "Days of history shown by ls (overrides list_days)")
	flags.Bool("no-cache", false, "Do not use the on-disk reference cache")
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	r.addCommand(&cobra.Command{
		Use:   "ls",
		Short: "List recent time entries",
	})
	r.addCommand(&cobra.Command{
		Use:   "add DESCRIPTION [@PROJECT] START (dDURATION|END)",
		Short: "Add a finished time entry",
		Long: `Add a completed time entry. The end is either an absolute date/time or
a duration written as d[[H:]M:]S, for example d1:30:00.`,
	})
	r.addCommand(&cobra.Command{
		Use:   "continue DESCRIPTION",
		Short: "Start the most recent entry with this description again",
	})
	r.addCommand(&cobra.Command{
		Use:   "now",
		Short: "Show the running time entry",
	})
	r.addCommand(&cobra.Command{
		Use:   "rm ID",
		Short: "Delete a time entry",
	})
	r.addCommand(&cobra.Command{
		Use:   "start DESCRIPTION [@PROJECT] [DATETIME]",
		Short: "Start a new time entry",
		Long:  "Start a new time entry, now or at DATETIME. A running entry is stopped first.",
	})
	r.addCommand(&cobra.Command{
		Use:   "stop [DATETIME]",
		Short: "Stop the running time entry",
	})
	r.addCommand(&cobra.Command{
		Use:   "www",
		Short: "Open the Toggl web app in a browser",
	})

	for _, reference := range []struct{ name, short string }{
		{"clients", "List clients"},
		{"projects", "List projects"},
		{"users", "List users of the workspace"},
	} {
		cmd := &cobra.Command{Use: reference.name, Short: reference.short}
		cmd.Flags().Bool("refresh", false, "Fetch from the service instead of the cache")
		r.addCommand(cmd)
	}

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll for the running entry and report changes",
		Long: `Poll the service every interval and print a line whenever an entry starts
or stops. With --listen, GET /status and GET /healthz are served on that address.`,
	}
	watchCmd.Flags().Duration("interval", 0, "Poll interval (overrides watch.interval)")
	watchCmd.Flags().String("listen", "", "Address for the status endpoint (overrides watch.listen)")
	r.addCommand(watchCmd)
}

func (r *RootCommand) addCommand(cmd *cobra.Command) {
	name := cmd.Name()
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return r.run(cmd, name, args)
	}
	r.cmd.AddCommand(cmd)
}

// setup loads configuration and builds the API before any command runs
func (r *RootCommand) setup(cmd *cobra.Command) error {
	flags := cmd.Flags()
	quiet, _ := flags.GetBool("quiet")
	verbose, _ := flags.GetBool("verbose")
	debug, _ := flags.GetBool("debug")
	r.log = logging.New(r.opts.Err, logging.Options{Quiet: quiet, Verbose: verbose, Debug: debug})

	path, _ := flags.GetString("config")
	cfg, err := r.opts.LoadConfig(path, overridesFromFlags(flags))
	if err != nil {
		return err
	}
	r.config = cfg

	businessAPI, err := r.opts.NewAPI(cmd.Context(), cfg, r.log)
	if err != nil {
		return err
	}
	r.businessAPI = businessAPI

	out := r.opts.Out
	if quiet {
		out = io.Discard
	}
	r.app = NewApp(businessAPI, cfg, out, r.log)
	return nil
}

// overridesFromFlags collects the configuration flags the user actually set
func overridesFromFlags(flags *pflag.FlagSet) *config.ConfigOverrides {
	overrides := &config.ConfigOverrides{}
	if flags.Changed("time-format") {
		v, _ := flags.GetString("time-format")
		overrides.TimeFormat = &v
	}
	if flags.Changed("timeout") {
		v, _ := flags.GetDuration("timeout")
		overrides.Timeout = &v
	}
	if flags.Changed("workspace") {
		v, _ := flags.GetInt64("workspace")
		overrides.WorkspaceID = &v
	}
	if flags.Changed("list-days") {
		v, _ := flags.GetInt("list-days")
		overrides.ListDays = &v
	}
	if flags.Changed("no-cache") {
		v, _ := flags.GetBool("no-cache")
		overrides.NoCache = &v
	}
	return overrides
}

func (r *RootCommand) run(cmd *cobra.Command, name string, args []string) error {
	flags := cmd.Flags()
	switch name {
	case "clients", "projects", "users":
		r.app.refreshReferences, _ = flags.GetBool("refresh")
	case "watch":
		if flags.Changed("interval") {
			r.config.Watch.Interval, _ = flags.GetDuration("interval")
		}
		if flags.Changed("listen") {
			r.config.Watch.Listen, _ = flags.GetString("listen")
		}
		return r.app.registry.Execute(cmd.Context(), name, args)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), r.getAppTimeout())
	defer cancel()
	return r.app.registry.Execute(ctx, name, args)
}

// getAppTimeout returns the configured per-command timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.config != nil && r.config.Timeout > 0 {
		return r.config.Timeout
	}
	return config.DefaultTimeout
}

func (r *RootCommand) close() {
	if r.businessAPI == nil {
		return
	}
	if err := r.businessAPI.Close(); err != nil && r.log != nil {
		r.log.Warn("closing API", "error", err)
	}
}
