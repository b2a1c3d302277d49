// Root of the baasctl command tree.

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/scttfrdmn/baasclient/internal/config"
	"github.com/scttfrdmn/baasclient/pkg/client"
	"github.com/scttfrdmn/baasclient/pkg/types"
	"github.com/scttfrdmn/baasclient/pkg/utils"
)

// errFailed is returned after a failed envelope has been printed, so that the
// process exits non-zero without printing the error twice.
var errFailed = errors.New("request failed")

// app carries the state shared by the subcommands of one invocation.
type app struct {
	cfgFile   string
	envURL    string
	clientKey string
	apiKey    string
	session   string
	logLevel  string

	client    *client.Client
	logger    *logrus.Logger
	logCloser io.Closer
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "baasctl",
		Short:         "Command-line client for the BaaS storage API",
		Long:          `Manage buckets and files of a BaaS app environment. Every command prints the {data, errors} envelope returned by the API as JSON.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if a.logCloser != nil {
				_ = a.logCloser.Close()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (YAML)")
	flags.StringVar(&a.envURL, "env-url", "", "app environment URL (overrides config)")
	flags.StringVar(&a.clientKey, "client-key", "", "client key (overrides config)")
	flags.StringVar(&a.apiKey, "api-key", "", "API key (overrides config)")
	flags.StringVar(&a.session, "session", "", "session token (overrides config)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: DEBUG, INFO, WARN or ERROR")

	root.AddCommand(
		newBucketsCmd(a),
		newFilesCmd(a),
		newStatsCmd(a),
	)
	return root
}

// Execute runs baasctl and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// init loads the configuration (defaults, file, BAAS_* environment, flags)
// and builds the client.
func (a *app) init() error {
	cfg := config.NewDefault()
	if a.cfgFile != "" {
		if err := cfg.LoadFromFile(a.cfgFile); err != nil {
			return err
		}
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return err
	}
	overrides := map[*string]string{
		&cfg.API.EnvURL:       a.envURL,
		&cfg.API.ClientKey:    a.clientKey,
		&cfg.API.APIKey:       a.apiKey,
		&cfg.API.SessionToken: a.session,
		&cfg.Global.LogLevel:  a.logLevel,
	}
	for dst, v := range overrides {
		if v != "" {
			*dst = v
		}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, closer, err := utils.NewLogger(cfg.LogConfig())
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	a.logger, a.logCloser = logger, closer

	maxUpload, err := cfg.MaxUploadBytes()
	if err != nil {
		return err
	}

	a.client, err = client.New(client.Options{
		EnvURL:           cfg.API.EnvURL,
		ClientKey:        cfg.API.ClientKey,
		APIKey:           cfg.API.APIKey,
		SessionToken:     cfg.API.SessionToken,
		UserAgent:        cfg.API.UserAgent,
		Timeout:          cfg.API.Timeout,
		MaxUploadSize:    maxUpload,
		Logger:           logger,
		Metrics:          cfg.Metrics.Enabled,
		MetricsNamespace: cfg.Metrics.Namespace,
	})
	return err
}

// printResult writes res as indented JSON and returns errFailed when it
// carries errors.
func printResult[T any](cmd *cobra.Command, res types.Result[T]) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return err
	}
	if res.Errors != nil {
		return errFailed
	}
	return nil
}
