// Package cmd defines the command-line interface for devpulse.
package cmd

import (
	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(overviewCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(milestonesCmd)
	rootCmd.AddCommand(heatmapCmd)
	rootCmd.AddCommand(trendCmd)
	rootCmd.AddCommand(languagesCmd)
	rootCmd.AddCommand(hourlyCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(prefsCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the prefs subcommands to the parent prefs command
	prefsCmd.AddCommand(prefsUserCmd)
	prefsCmd.AddCommand(prefsThemeCmd)
	prefsCmd.AddCommand(prefsStatusCmd)
	prefsCmd.AddCommand(prefsClearCmd)
	prefsCmd.AddCommand(prefsMigrateCmd)
	prefsUserCmd.AddCommand(prefsUserSetCmd)
	prefsUserCmd.AddCommand(prefsUserLogoutCmd)
	prefsThemeCmd.AddCommand(prefsThemeSetCmd)
	prefsThemeCmd.AddCommand(prefsThemeResetCmd)
	prefsThemeCmd.AddCommand(prefsThemeExportCmd)
	prefsThemeCmd.AddCommand(prefsThemeImportCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("base-url", contract.DefaultBaseURL, "Dashboard backend base URL")
	rootCmd.PersistentFlags().String("timeout", contract.DefaultTimeout.String(), "Request timeout (e.g. 15s)")
	rootCmd.PersistentFlags().String("sync-timeout", contract.DefaultSyncTimeout.String(), "GitHub sync request timeout")
	rootCmd.PersistentFlags().StringP("user", "u", "", "Dashboard user id (defaults to the saved user)")
	rootCmd.PersistentFlags().Int("days", 0, "Day window for trend and hourly (0 = per-command default)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("prefs-backend", string(schema.SQLiteBackend), "Preference backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("prefs-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().Uint64("seed", 0, "Seed of the synthetic heatmap")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of heatmapCmd to Viper
	heatmapCmd.Flags().String("start", "", "First day as YYYY-MM-DD")
	heatmapCmd.Flags().String("end", "", "Last day as YYYY-MM-DD")
	heatmapCmd.Flags().Bool("synthetic", false, "Skip the backend and generate the heatmap locally")
	if err := viper.BindPFlags(heatmapCmd.Flags()); err != nil {
		contract.LogFatal("Error binding heatmap flags", err)
	}

	// Bind all flags of syncCmd to Viper
	syncCmd.Flags().String("username", "", "GitHub username (defaults to the saved user)")
	syncCmd.Flags().String("github-token", "", "GitHub token (prefer DEVPULSE_GITHUB_TOKEN)")
	syncCmd.Flags().String("sync-mode", "", "Sync mode: full or incremental or auto")
	if err := viper.BindPFlags(syncCmd.Flags()); err != nil {
		contract.LogFatal("Error binding sync flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("addr", contract.DefaultServeAddr, "Listen address")
	serveCmd.Flags().Bool("no-refresh", false, "Start with an empty dashboard instead of loading it first")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Bind all flags of prefsMigrateCmd to Viper
	prefsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(prefsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding prefs migrate flags", err)
	}

	// Flags of the prefs setters are read directly so unset ones are left alone
	prefsUserSetCmd.Flags().String("id", "", "Dashboard user id")
	prefsUserSetCmd.Flags().String("username", "", "GitHub username")
	prefsUserSetCmd.Flags().String("email", "", "Email address")
	prefsUserSetCmd.Flags().String("avatar", "", "Avatar URL")
	prefsUserSetCmd.Flags().String("github-token", "", "GitHub token")
	prefsUserSetCmd.Flags().String("language", "", "Interface language (e.g. en-US)")
	prefsUserSetCmd.Flags().String("timezone", "", "IANA timezone (e.g. Europe/Berlin)")
	prefsUserSetCmd.Flags().String("notifications", "", "Enable notifications (yes/no)")
	prefsUserSetCmd.Flags().String("email-digest", "", "Enable the email digest (yes/no)")

	prefsThemeSetCmd.Flags().String("scheme", "", "Color scheme: classic-blue-purple, neon-pink-green, orange-yellow-cyber, ice-blue-white or red-black-hacker")
	prefsThemeSetCmd.Flags().String("mode", "", "Theme mode: dark or light or high-contrast")
	prefsThemeSetCmd.Flags().Int("glow", 0, "Glow intensity, 0 to 100")
	prefsThemeSetCmd.Flags().Float64("speed", 0, "Animation speed, 0.5 to 2")
	prefsThemeSetCmd.Flags().Int("font-size", 0, "Font size, 14 to 18")
	prefsThemeSetCmd.Flags().String("background", "", "Background effect (yes/no)")
	prefsThemeSetCmd.Flags().String("reduced-motion", "", "Reduced motion (yes/no)")
}
