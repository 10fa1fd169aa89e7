package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/internal/iocache"
	"github.com/huangsam/devpulse/internal/outwriter"
	"github.com/huangsam/devpulse/internal/prefs"
	"github.com/huangsam/devpulse/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// prefsBackendConfig loads only the preference backend settings.
// Used by clear and migrate, which must not open the store themselves.
func prefsBackendConfig() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(viper.GetString("prefs-backend"))
	if backend == "" {
		backend = schema.SQLiteBackend
	}
	connStr := viper.GetString("prefs-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.PrefsBackend = backend
	cfg.PrefsDBConnect = connStr
	return nil
}

// prefsBackendConfigWrapper wraps prefsBackendConfig to provide PreRunE for prefs commands.
func prefsBackendConfigWrapper(_ *cobra.Command, _ []string) error {
	return prefsBackendConfig()
}

// openPrefs runs the shared setup and returns the preference documents.
func openPrefs(cmd *cobra.Command, args []string) (*prefs.Prefs, error) {
	if err := sharedSetup(rootCtx, cmd, args); err != nil {
		return nil, err
	}
	store := iocache.Manager.GetPrefsStore()
	if store == nil {
		return nil, errors.New("preference store is not available")
	}
	return prefs.New(store), nil
}

// prefsCmd focused on preference management.
var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Manage the saved user, theme and preference store",
	Long: `Manage the local preferences of devpulse.

The saved user provides the default --user, --username and --github-token.
The theme records the dashboard look and can be exported and imported as JSON.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (nothing is kept)

Subcommands:
  user    - Show, set or log out the saved user
  theme   - Show, set, reset, export or import the theme
  status  - Show preference store statistics and connection info
  clear   - Remove every stored preference
  migrate - Run preference table migrations`,
}

// prefsUserCmd shows the saved user.
var prefsUserCmd = &cobra.Command{
	Use:   "user",
	Short: "Show the saved user",
	Run: func(cmd *cobra.Command, args []string) {
		p, err := openPrefs(cmd, args)
		exitOnError("Cannot open preferences", err)
		u, ok, err := p.LoadUser()
		exitOnError("Cannot load user", err)
		if !ok {
			fmt.Println("No saved user. Use 'devpulse prefs user set --id ...' to save one.")
			return
		}
		exitOnError("Cannot write user", outwriter.NewOutWriter().WriteUser(u, cfg))
	},
}

// prefsUserSetCmd creates or updates the saved user.
var prefsUserSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Save or update the user",
	Long: `Save the user, or update the fields given as flags when one is already saved.

Examples:
  devpulse prefs user set --id 42 --username octocat
  devpulse prefs user set --timezone Europe/Berlin --notifications no`,
	Run: func(cmd *cobra.Command, args []string) {
		p, err := openPrefs(cmd, args)
		exitOnError("Cannot open preferences", err)

		u, _, err := p.LoadUser()
		exitOnError("Cannot load user", err)
		patch, err := applyUserFlags(cmd.Flags(), &u)
		exitOnError("Invalid user flags", err)
		if u.Preferences == (prefs.UserPreferences{}) {
			u.Preferences = prefs.DefaultUserPreferences()
		}
		u.Preferences.Apply(patch)

		exitOnError("Cannot save user", p.SaveUser(u))
		exitOnError("Cannot write user", outwriter.NewOutWriter().WriteUser(u, cfg))
	},
}

// prefsUserLogoutCmd forgets the saved user.
var prefsUserLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved user",
	Run: func(cmd *cobra.Command, args []string) {
		p, err := openPrefs(cmd, args)
		exitOnError("Cannot open preferences", err)
		exitOnError("Cannot log out", p.Logout())
		fmt.Println("Logged out.")
	},
}

// prefsThemeCmd shows the theme.
var prefsThemeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Show the dashboard theme",
	Run: func(cmd *cobra.Command, args []string) {
		p, err := openPrefs(cmd, args)
		exitOnError("Cannot open preferences", err)
		t, err := p.LoadTheme()
		exitOnError("Cannot load theme", err)
		exitOnError("Cannot write theme", outwriter.NewOutWriter().WriteTheme(t, cfg))
	},
}

// prefsThemeSetCmd updates the theme fields given as flags.
var prefsThemeSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change theme settings",
	Long: `Change the theme settings given as flags. Numeric values are clamped to their range.

Examples:
  devpulse prefs theme set --scheme neon-pink-green --mode dark
  devpulse prefs theme set --glow 40 --speed 1.5 --reduced-motion yes`,
	Run: func(cmd *cobra.Command, args []string) {
		p, err := openPrefs(cmd, args)
		exitOnError("Cannot open preferences", err)
		t, err := p.UpdateTheme(func(t *prefs.Theme) error { return applyThemeFlags(cmd.Flags(), t) })
		exitOnError("Cannot update theme", err)
		exitOnError("Cannot write theme", outwriter.NewOutWriter().WriteTheme(t, cfg))
	},
}

// prefsThemeResetCmd restores the default theme.
var prefsThemeResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default theme",
	Run: func(cmd *cobra.Command, args []string) {
		p, err := openPrefs(cmd, args)
		exitOnError("Cannot open preferences", err)
		exitOnError("Cannot reset theme", p.ResetTheme())
		fmt.Println("Theme reset to defaults.")
	},
}

// prefsThemeExportCmd writes the theme as JSON.
var prefsThemeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the theme as JSON (or write it to --output-file)",
	Run: func(cmd *cobra.Command, args []string) {
		p, err := openPrefs(cmd, args)
		exitOnError("Cannot open preferences", err)
		data, err := p.ExportTheme()
		exitOnError("Cannot export theme", err)

		file, err := contract.SelectOutputFile(cfg.OutputFile)
		exitOnError("Cannot open output file", err)
		if file != os.Stdout {
			defer func() { _ = file.Close() }()
		}
		_, err = fmt.Fprintln(file, string(data))
		exitOnError("Cannot write theme", err)
	},
}

// prefsThemeImportCmd replaces the theme with a JSON document.
var prefsThemeImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the theme with a JSON file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		raw, err := os.ReadFile(args[0])
		exitOnError("Cannot read theme file", err)
		p, err := openPrefs(cmd, args)
		exitOnError("Cannot open preferences", err)
		t, err := p.ImportTheme(raw)
		exitOnError("Cannot import theme", err)
		exitOnError("Cannot write theme", outwriter.NewOutWriter().WriteTheme(t, cfg))
	},
}

// prefsStatusCmd shows preference store status.
var prefsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display preference store statistics and connection details",
	Long: `Show the backend type, connection status, number of stored entries,
newest and oldest write times, and the table size.

Examples:
  devpulse prefs status`,
	Run: func(cmd *cobra.Command, args []string) {
		_, err := openPrefs(cmd, args)
		exitOnError("Cannot open preferences", err)
		status, err := iocache.Manager.GetPrefsStore().GetStatus()
		exitOnError("Failed to get preference status", err)
		iocache.PrintPrefsStatus(os.Stdout, status)
	},
}

// prefsClearCmd removes every stored preference.
var prefsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every stored preference",
	Long: `Delete the saved user and theme from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the preference table

Examples:
  devpulse prefs clear
  DEVPULSE_PREFS_BACKEND=mysql DEVPULSE_PREFS_DB_CONNECT="..." devpulse prefs clear`,
	PreRunE: prefsBackendConfigWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearPrefs(cfg.PrefsBackend, cfg.PrefsDBConnect); err != nil {
			contract.LogFatal("Failed to clear preferences", err)
		}
		fmt.Println("Preferences cleared successfully.")
	},
}

// prefsMigrateCmd runs preference table migrations.
var prefsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run preference table migrations",
	Long: `Apply the embedded schema migrations of the preference table.

Examples:
  # Migrate to the latest version
  devpulse prefs migrate

  # Roll back everything
  devpulse prefs migrate --target-version 0`,
	PreRunE: prefsBackendConfigWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		target := viper.GetInt("target-version")
		if err := iocache.MigratePrefs(cfg.PrefsBackend, cfg.PrefsDBConnect, target); err != nil {
			contract.LogFatal("Failed to migrate preferences", err)
		}
	},
}

// applyUserFlags copies the changed user flags into u and returns the preference patch.
func applyUserFlags(flags *pflag.FlagSet, u *prefs.User) (prefs.PreferencesPatch, error) {
	var patch prefs.PreferencesPatch
	strField := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	strField("id", &u.ID)
	strField("username", &u.Username)
	strField("email", &u.Email)
	strField("avatar", &u.Avatar)
	strField("github-token", &u.GitHubToken)

	if flags.Changed("language") {
		v, _ := flags.GetString("language")
		patch.Language = &v
	}
	if flags.Changed("timezone") {
		v, _ := flags.GetString("timezone")
		patch.Timezone = &v
	}
	var err error
	if patch.Notifications, err = boolFlag(flags, "notifications"); err != nil {
		return patch, err
	}
	if patch.EmailDigest, err = boolFlag(flags, "email-digest"); err != nil {
		return patch, err
	}
	return patch, nil
}

// applyThemeFlags applies the changed theme flags to t.
func applyThemeFlags(flags *pflag.FlagSet, t *prefs.Theme) error {
	if flags.Changed("scheme") {
		v, _ := flags.GetString("scheme")
		if err := t.SetColorScheme(prefs.ColorScheme(v)); err != nil {
			return err
		}
	}
	if flags.Changed("mode") {
		v, _ := flags.GetString("mode")
		if err := t.SetMode(prefs.ThemeMode(v)); err != nil {
			return err
		}
	}
	if flags.Changed("glow") {
		v, _ := flags.GetInt("glow")
		t.SetGlowIntensity(v)
	}
	if flags.Changed("speed") {
		v, _ := flags.GetFloat64("speed")
		t.SetAnimationSpeed(v)
	}
	if flags.Changed("font-size") {
		v, _ := flags.GetInt("font-size")
		t.SetFontSize(v)
	}
	background, err := boolFlag(flags, "background")
	if err != nil {
		return err
	}
	if background != nil {
		t.BackgroundEffect = *background
	}
	reduced, err := boolFlag(flags, "reduced-motion")
	if err != nil {
		return err
	}
	if reduced != nil {
		t.ReducedMotion = *reduced
	}
	return nil
}

// boolFlag parses a yes/no string flag. Unchanged flags return nil.
func boolFlag(flags *pflag.FlagSet, name string) (*bool, error) {
	if !flags.Changed(name) {
		return nil, nil
	}
	raw, _ := flags.GetString(name)
	v, err := contract.ParseBoolString(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s value: %w", name, err)
	}
	return &v, nil
}
