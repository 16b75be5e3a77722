// Package commands implements the CLI command structure using Cobra.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lumen-labs/lumen-go/cli/config"
	"github.com/lumen-labs/lumen-go/cli/keystore"
	"github.com/lumen-labs/lumen-go/core"
)

// apiKeyEnv is the environment variable consulted before the keystore.
const apiKeyEnv = "LUMEN_API_KEY"

// defaultKeyName is the keystore entry used when none is configured.
const defaultKeyName = "default"

// ConfigLoader loads CLI config from a path.
type ConfigLoader func(path string) (*config.Config, error)

// ClientFactory creates an API client using CLI config context. debug is
// non-nil when verbose output is enabled.
type ClientFactory func(apiKey string, cfg *config.Config, debug io.Writer) (*core.Client, error)

// KeystoreFactory creates a keystore instance.
type KeystoreFactory func() (keystore.Keystore, error)

// AppOption customizes App dependencies.
type AppOption func(*App)

// App holds CLI state and runtime dependencies.
type App struct {
	root *cobra.Command

	loadConfig  ConfigLoader
	newClient   ClientFactory
	newKeystore KeystoreFactory
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer

	cfgFile    string
	model      string
	jsonOutput bool
	verbose    bool
	cfg        *config.Config

	askRandomness float64
	askFormat     string
	askStream     bool
	imagineOrient string
	imagineOutput string
	moderateImage string
	initModel     string
	initForce     bool
}

// WithConfigLoader injects a config loader dependency.
func WithConfigLoader(loader ConfigLoader) AppOption {
	return func(a *App) {
		if loader != nil {
			a.loadConfig = loader
		}
	}
}

// WithClientFactory injects a client factory dependency.
func WithClientFactory(factory ClientFactory) AppOption {
	return func(a *App) {
		if factory != nil {
			a.newClient = factory
		}
	}
}

// WithKeystoreFactory injects a keystore factory dependency.
func WithKeystoreFactory(factory KeystoreFactory) AppOption {
	return func(a *App) {
		if factory != nil {
			a.newKeystore = factory
		}
	}
}

// WithIO injects process I/O streams.
func WithIO(stdin io.Reader, stdout, stderr io.Writer) AppOption {
	return func(a *App) {
		if stdin != nil {
			a.stdin = stdin
		}
		if stdout != nil {
			a.stdout = stdout
		}
		if stderr != nil {
			a.stderr = stderr
		}
	}
}

// NewApp creates a new CLI app with default dependencies.
func NewApp(opts ...AppOption) *App {
	a := &App{
		loadConfig:  config.LoadConfig,
		newClient:   defaultClientFactory,
		newKeystore: keystore.NewKeystore,
		stdin:       os.Stdin,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
	}

	for _, opt := range opts {
		opt(a)
	}

	a.root = a.newRootCommand()
	return a
}

func defaultClientFactory(apiKey string, cfg *config.Config, debug io.Writer) (*core.Client, error) {
	var opts []core.Option
	if cfg != nil && cfg.BaseURL != "" {
		opts = append(opts, core.WithBaseURL(cfg.BaseURL))
	}
	if debug != nil {
		opts = append(opts, core.WithDebug(debug))
	}
	return core.New(apiKey, opts...)
}

func (a *App) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "lumen",
		Short: "Lumen - Go SDK and CLI for the Lumen AI platform",
		Long: `Lumen is a command-line interface for the Lumen AI platform.

Use Lumen to manage API keys, generate text and images, and moderate content.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig()
		},
		SilenceUsage: true,
	}

	// Global flags available to all commands.
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ~/.lumen/config.yaml)")
	root.PersistentFlags().StringVar(&a.model, "model", "", "model ID (e.g. crystal-v4)")
	root.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "emit JSON output")
	root.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "enable debug logging")

	root.AddCommand(a.newAskCommand())
	root.AddCommand(a.newImagineCommand())
	root.AddCommand(a.newModerateCommand())
	root.AddCommand(a.newKeysCommand())
	root.AddCommand(a.newInitCommand())
	root.AddCommand(a.newVersionCommand())

	return root
}

// Execute runs the root command.
func (a *App) Execute() error {
	return a.root.Execute()
}

// ExecuteArgs runs the root command with explicit arguments. Used in tests.
func (a *App) ExecuteArgs(args []string) error {
	a.root.SetArgs(args)
	a.root.SetOut(a.stdout)
	a.root.SetErr(a.stderr)
	return a.root.Execute()
}

func (a *App) initConfig() error {
	path := a.cfgFile
	if path == "" {
		path = config.DefaultConfigPath()
	}

	cfg, err := a.loadConfig(path)
	if err != nil {
		return err
	}
	a.cfg = cfg

	// Apply config defaults if flags not set.
	if a.model == "" && cfg.DefaultModel != "" {
		a.model = cfg.DefaultModel
	}

	return nil
}

// resolveAPIKey finds the API key: environment first, then the keystore.
func (a *App) resolveAPIKey() (string, error) {
	envName := apiKeyEnv
	if a.cfg != nil && a.cfg.APIKeyEnv != "" {
		envName = a.cfg.APIKeyEnv
	}
	if key := os.Getenv(envName); key != "" {
		return key, nil
	}

	keyName := defaultKeyName
	if a.cfg != nil && a.cfg.KeyName != "" {
		keyName = a.cfg.KeyName
	}

	ks, err := a.newKeystore()
	if err != nil {
		return "", fmt.Errorf("failed to open keystore: %w", err)
	}

	key, err := ks.Get(keyName)
	if err != nil {
		if _, ok := err.(*keystore.ErrKeyNotFound); ok {
			return "", fmt.Errorf("no API key found: set %s or run 'lumen keys set'", envName)
		}
		return "", fmt.Errorf("failed to read API key: %w", err)
	}
	return key, nil
}

// client resolves the API key and builds a configured client.
func (a *App) client() (*core.Client, error) {
	apiKey, err := a.resolveAPIKey()
	if err != nil {
		return nil, err
	}

	var debug io.Writer
	if a.verbose {
		debug = a.stderr
	}

	client, err := a.newClient(apiKey, a.cfg, debug)
	if err != nil {
		return nil, err
	}
	return client, nil
}

var defaultApp = NewApp()

// Execute runs the default app root command.
func Execute() error {
	return defaultApp.Execute()
}
