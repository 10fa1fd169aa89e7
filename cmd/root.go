package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/huangsam/devpulse/core"
	"github.com/huangsam/devpulse/internal/backend"
	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/internal/iocache"
	"github.com/huangsam/devpulse/internal/prefs"
	"github.com/huangsam/devpulse/schema"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// logger is replaced by sharedSetup once the log level is known.
var logger = zap.NewNop()

// errNoUser is returned by data commands when no user is configured or saved.
var errNoUser = errors.New("no user configured: pass --user, set DEVPULSE_USER or run 'devpulse prefs user set --id ...'")

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "devpulse",
	Short:              "Browse your coding activity dashboard from the terminal.",
	Long:               `DevPulse pulls commit stats, milestones, heatmaps and language trends from the dashboard backend and renders them as tables, JSON, CSV or Parquet.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file, .env and ENV variables if set.
func initConfig() {
	// A missing .env file is fine
	_ = godotenv.Load()

	setConfigFile()

	// Set environment variable prefix
	viper.SetEnvPrefix("DEVPULSE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("base-url", contract.DefaultBaseURL)
	viper.SetDefault("timeout", contract.DefaultTimeout.String())
	viper.SetDefault("sync-timeout", contract.DefaultSyncTimeout.String())
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("prefs-backend", schema.SQLiteBackend)
	viper.SetDefault("prefs-db-connect", "")
	viper.SetDefault("log-level", "warn")
	viper.SetDefault("color", "yes")
	viper.SetDefault("addr", contract.DefaultServeAddr)
}

// setConfigFile points viper at --config or the default .devpulse.yaml locations.
func setConfigFile() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".devpulse") // Name of config file (without extension)
	viper.SetConfigType("yaml")      // We'll use YAML format
	viper.AddConfigPath(".")         // Look in the current directory
	viper.AddConfigPath("$HOME")     // Look in the home directory
}

// loadConfigFile reads the config file when present.
func loadConfigFile() error {
	setConfigFile()
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}
	return nil
}

// sharedSetup unmarshals config, runs validation and opens the preference store.
func sharedSetup(_ context.Context, _ *cobra.Command, _ []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}
	logger = contract.NewLogger(cfg.LogLevel)

	// 4. Open the preference store. Data commands still work without it.
	if err := iocache.InitPrefs(cfg.PrefsBackend, cfg.PrefsDBConnect); err != nil {
		contract.LogWarn("Preferences unavailable", err)
		return nil
	}

	// 5. Fall back to the saved user for anything not set explicitly.
	applySavedUser()
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// applySavedUser fills the user id, username and token from the saved user.
func applySavedUser() {
	store := iocache.Manager.GetPrefsStore()
	if store == nil {
		return
	}
	u, ok, err := prefs.New(store).LoadUser()
	if err != nil {
		logger.Warn("failed to load saved user", zap.Error(err))
		return
	}
	if !ok {
		return
	}
	if cfg.UserID == "" {
		cfg.UserID = u.ID
	}
	if cfg.Username == "" {
		cfg.Username = u.Username
	}
	if cfg.GitHubToken == "" {
		cfg.GitHubToken = u.GitHubToken
	}
}

// requireUser fails data commands that have no user to ask for.
func requireUser() error {
	if cfg.UserID == "" {
		return errNoUser
	}
	return nil
}

// newStore wires the HTTP backend into a fresh aggregation store.
func newStore(opts ...core.Option) *core.Store {
	transport := backend.NewHTTPTransport(cfg.BaseURL, cfg.Timeout, logger)
	client := backend.NewClient(transport, cfg.SyncTimeout)
	base := []core.Option{core.WithLogger(logger), core.WithSeed(cfg.Seed)}
	return core.NewStore(client, append(base, opts...)...)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// Shutdown releases the preference store and flushes the logger.
func Shutdown() {
	iocache.ClosePrefs()
	_ = logger.Sync()
}

// exitOnError is the Run helper shared by data commands.
func exitOnError(msg string, err error) {
	if err != nil {
		Shutdown()
		contract.LogFatal(msg, err)
	}
}
