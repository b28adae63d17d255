package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/macropower/fleetdesk/pkg/api"
	"github.com/macropower/fleetdesk/pkg/config"
	"github.com/macropower/fleetdesk/pkg/fleet"
	"github.com/macropower/fleetdesk/pkg/log"
	"github.com/macropower/fleetdesk/pkg/telemetry"
)

const (
	cmdName = "fleetdesk"
	cmdDesc = `Terminal admin for a fleet of buses, vans and their accessibility features.`

	cmdExamples = `  # Browse the fleet:
  fleetdesk

  # Point at another backend:
  fleetdesk --base-url https://fleet.example.com

  # Print the second page of vans, sorted by seats:
  fleetdesk list vans --page 2 --sort numberOfSeats,desc

  # Change a bus in your editor:
  fleetdesk edit bus 3`
)

// RootArgs are the flags shared by every command.
type RootArgs struct {
	shutdown     telemetry.ShutdownFunc
	cfg          *config.Config
	clientOpts   []api.ClientOpt
	editor       EditorFunc
	LogLevel     string
	LogFormat    string
	ConfigPath   string
	BaseURL      string
	OTLPEndpoint string
	Timeout      time.Duration
	OTLPInsecure bool
}

// RootOpt configures the root command.
type RootOpt func(*RootArgs)

// WithClientOpts passes options to every API client the commands create.
func WithClientOpts(opts ...api.ClientOpt) RootOpt {
	return func(ra *RootArgs) {
		ra.clientOpts = append(ra.clientOpts, opts...)
	}
}

// WithEditor replaces the editor used by "fleetdesk edit".
func WithEditor(fn EditorFunc) RootOpt {
	return func(ra *RootArgs) {
		ra.editor = fn
	}
}

func NewRootArgs(opts ...RootOpt) *RootArgs {
	ra := &RootArgs{editor: RunEditor}
	for _, opt := range opts {
		opt(ra)
	}

	return ra
}

func (ra *RootArgs) AddFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&ra.LogLevel, "log-level", "info", fmt.Sprintf("Log level, one of: %s", log.AllLevels))
	flags.StringVar(&ra.LogFormat, "log-format", "text", fmt.Sprintf("Log format, one of: %s", log.AllFormats))
	flags.StringVar(&ra.ConfigPath, "config", "", "Path to the fleetdesk configuration file")
	flags.StringVar(&ra.BaseURL, "base-url", "", "Root URL of the fleet API, overrides the config")
	flags.DurationVar(&ra.Timeout, "timeout", 0, "Timeout for each API request, overrides the config")
	flags.StringVar(&ra.OTLPEndpoint, "otlp-endpoint", "", "OTLP gRPC endpoint to export traces to")
	flags.BoolVar(&ra.OTLPInsecure, "otlp-insecure", false, "Disable TLS for the OTLP endpoint")

	must(cmd.MarkPersistentFlagFilename("config", "yaml", "yml"))
	must(cmd.RegisterFlagCompletionFunc("log-format",
		cobra.FixedCompletions(log.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	))
	must(cmd.RegisterFlagCompletionFunc("log-level",
		cobra.FixedCompletions(log.AllLevels, cobra.ShellCompDirectiveNoFileComp),
	))
}

func NewRootCmd(opts ...RootOpt) *cobra.Command {
	args := NewRootArgs(opts...)

	cmd := &cobra.Command{
		Use:                cmdName,
		Short:              cmdDesc,
		Example:            cmdExamples,
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		PersistentPreRunE:  args.setup,
		PersistentPostRunE: args.teardown,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUI(cmd, args)
		},
	}

	args.AddFlags(cmd)

	cmd.AddCommand(
		NewListCmd(args),
		NewGetCmd(args),
		NewDeleteCmd(args),
		NewApplyCmd(args),
		NewEditCmd(args),
		NewConfigCmd(args),
	)

	bindEnvVars(cmd)

	return cmd
}

func (ra *RootArgs) setup(cmd *cobra.Command, _ []string) error {
	logHandler, err := log.CreateHandlerWithStrings(cmd.ErrOrStderr(), ra.LogLevel, ra.LogFormat)
	if err != nil {
		return fmt.Errorf("create log handler: %w", err)
	}

	slog.SetDefault(slog.New(logHandler))

	ra.shutdown, err = telemetry.Setup(cmd.Context(), telemetry.Config{
		Endpoint: ra.OTLPEndpoint,
		Insecure: ra.OTLPInsecure,
	})
	if err != nil {
		return fmt.Errorf("setup telemetry: %w", err)
	}

	return nil
}

func (ra *RootArgs) teardown(cmd *cobra.Command, _ []string) error {
	if ra.shutdown == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(cmd.Context()), 5*time.Second)
	defer cancel()

	err := ra.shutdown(ctx)
	if err != nil {
		return fmt.Errorf("shutdown telemetry: %w", err)
	}

	return nil
}

func (ra *RootArgs) configPath() string {
	if ra.ConfigPath != "" {
		return ra.ConfigPath
	}

	return config.GetPath()
}

// Config loads the configuration file once. A missing file yields the
// defaults; an invalid one is an error. Flags override file values.
func (ra *RootArgs) Config() (*config.Config, error) {
	if ra.cfg != nil {
		return ra.cfg, nil
	}

	path := ra.configPath()
	cfg := config.New()

	cl, err := config.NewLoaderFromFile(path, config.WithThemeFromData())
	switch {
	case errors.Is(err, fs.ErrNotExist):
		slog.Debug("config file not found, using defaults", slog.String("path", path))
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		err = cl.Validate()
		if err != nil {
			return nil, fmt.Errorf("invalid config %q: %w", path, err)
		}

		cfg, err = cl.Load()
		if err != nil {
			return nil, fmt.Errorf("invalid config %q: %w", path, err)
		}
	}

	if ra.BaseURL != "" {
		cfg.API.BaseURL = ra.BaseURL
	}

	if ra.Timeout > 0 {
		cfg.API.Timeout = &ra.Timeout
	}

	err = cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	ra.cfg = cfg

	return cfg, nil
}

// Client creates an API client from the configuration. The client logs to
// the default logger at the time of the call.
func (ra *RootArgs) Client() (*api.Client, error) {
	cfg, err := ra.Config()
	if err != nil {
		return nil, err
	}

	opts := append([]api.ClientOpt{api.WithLogger(slog.Default())}, ra.clientOpts...)

	c, err := api.New(cfg.API.ClientConfig(), opts...)
	if err != nil {
		return nil, fmt.Errorf("create api client: %w", err)
	}

	return c, nil
}

// Collection returns the collection named by a user-supplied kind.
func (ra *RootArgs) Collection(kind string) (api.Collection, error) {
	k, err := fleet.ParseKind(kind)
	if err != nil {
		return nil, err //nolint:wrapcheck // Already descriptive.
	}

	c, err := ra.Client()
	if err != nil {
		return nil, err
	}

	return c.Collection(k) //nolint:wrapcheck // Already descriptive.
}

func kindCompletion(_ *cobra.Command, args []string, _ string) ([]cobra.Completion, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	completions := make([]cobra.Completion, 0, len(fleet.AllKinds))
	for _, k := range fleet.AllKinds {
		completions = append(completions, cobra.CompletionWithDesc(string(k), k.Title()))
	}

	return completions, cobra.ShellCompDirectiveNoFileComp
}
