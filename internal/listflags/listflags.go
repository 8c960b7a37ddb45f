// Package listflags holds flags shared by list commands.
package listflags

import "github.com/spf13/cobra"

// DefaultAllUsage describes --all when a command does not supply its own.
const DefaultAllUsage = "Include entries from every day"

// AddAllFlag adds a shared --all flag to list commands. An empty usage falls
// back to DefaultAllUsage.
func AddAllFlag(cmd *cobra.Command, target *bool, usage string) {
	if usage == "" {
		usage = DefaultAllUsage
	}
	if target == nil {
		cmd.Flags().Bool("all", false, usage)
		return
	}

	cmd.Flags().BoolVar(target, "all", false, usage)
}

// AddJSONFlag adds a shared --json flag to list and show commands.
func AddJSONFlag(cmd *cobra.Command, target *bool) {
	cmd.Flags().BoolVar(target, "json", false, "Output JSON")
}
