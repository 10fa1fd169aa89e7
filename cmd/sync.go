package cmd

import (
	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/internal/outwriter"
	"github.com/huangsam/devpulse/schema"
	"github.com/spf13/cobra"
)

// syncCmd asks the backend to pull from GitHub.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull the latest commits from GitHub into the dashboard.",
	Long: `Ask the backend to sync repositories and commits from GitHub, then refresh the dashboard.

The username and token default to the saved user. Prefer the
DEVPULSE_GITHUB_TOKEN environment variable over --github-token.

Examples:
  # Incremental sync for the saved user
  devpulse sync --sync-mode incremental

  # Full resync for another account
  DEVPULSE_GITHUB_TOKEN=... devpulse sync --user 42 --username octocat --sync-mode full`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		exitOnError("Cannot run sync", requireUser())

		store := newStore()
		res, err := store.SyncGitHub(rootCtx, schema.SyncRequest{
			UserID:      cfg.UserID,
			Username:    cfg.Username,
			GitHubToken: cfg.GitHubToken,
			SyncMode:    cfg.SyncMode,
		})
		// A zero result means the backend never answered
		if !res.StartedAt.IsZero() {
			exitOnError("Cannot write sync result", outwriter.NewOutWriter().WriteSync(res, cfg))
		}
		if err != nil && res.Success {
			contract.LogWarn("Dashboard refresh after sync failed", err)
			return
		}
		exitOnError("GitHub sync failed", err)
	},
}
