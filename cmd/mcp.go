package cmd

import (
	"github.com/huangsam/devpulse/core"
	"github.com/huangsam/devpulse/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the DevPulse MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents read the dashboard via standard tools.

Tools: get_overview, get_stats, get_milestones, get_heatmap, get_trend,
get_languages and classify_commits. Tools default to the configured user.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		defer Shutdown()
		return mcp.StartMCPServer(rootCtx, cfg, func() *core.Store { return newStore() }, logger)
	},
}
