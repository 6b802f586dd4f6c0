package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/ai-news-events/internal/client"
	"github.com/pfrederiksen/ai-news-events/internal/config"
	"github.com/pfrederiksen/ai-news-events/internal/logger"
	"github.com/pfrederiksen/ai-news-events/internal/store"
)

const (
	ExitSuccess  = 0
	ExitError    = 1
	ExitNotFound = 3
)

// ErrNotFound is returned by commands that look up a single event which does
// not exist. Execute maps it to ExitNotFound.
var ErrNotFound = errors.New("event not found")

// app carries state shared by the subcommands of one root command
type app struct {
	configPath string
	dataFile   string
	logLevel   string
	verbose    bool

	cfg *config.Config
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "ai-news-events",
		Short: "Serve and browse published AI news events",
		Long: `A small publishing service for AI news events.
Serves a filterable JSON API and HTML pages, and prints, exports or digests
events from the command line.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultPath, "Path to the YAML config file")
	cmd.PersistentFlags().StringVar(&a.dataFile, "data", "", "JSON file of events (default: built-in samples)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	cmd.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "Enable verbose output and debug logging")

	cmd.AddCommand(
		a.newServeCmd(),
		a.newListCmd(),
		a.newShowCmd(),
		a.newICSCmd(),
		a.newDigestCmd(),
		a.newIngestCmd(),
	)

	return cmd
}

// setup loads configuration and installs the logger before any subcommand runs
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}

	if a.dataFile != "" {
		cfg.DataFile = a.dataFile
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.verbose {
		cfg.LogLevel = "debug"
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))

	a.cfg = cfg
	logger.Debug("configuration loaded", logger.Fields{
		"config":       a.configPath,
		"data_file":    cfg.DataFile,
		"api_base_url": cfg.APIBaseURL,
	})
	return nil
}

// openStore loads the configured data file, or the built-in samples.
func (a *app) openStore() (*store.Store, error) {
	st, err := store.Open(a.cfg.DataFile)
	if err != nil {
		return nil, fmt.Errorf("loading events: %w", err)
	}
	logger.Debug("store opened", logger.Fields{"events": st.Len()})
	return st, nil
}

// remoteClient returns a client for the remote flag or the configured API base
// URL, or nil when neither is set.
func (a *app) remoteClient(remote string) *client.Client {
	base := strings.TrimSpace(remote)
	if base == "" {
		base = a.cfg.APIBaseURL
	}
	if base == "" {
		return nil
	}
	return client.New(base, client.WithTimeout(a.cfg.ClientTimeout))
}

// parseFormat validates the --format flag
func parseFormat(value string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(value)))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", value)
	}
	return format, nil
}

// ExitCode maps an error returned by the root command to a process exit code
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrNotFound), errors.Is(err, client.ErrNotFound):
		return ExitNotFound
	default:
		return ExitError
	}
}

// Execute runs the CLI
func Execute() {
	err := NewRootCmd().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(ExitCode(err))
}
