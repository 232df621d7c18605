// Package cmd wires the geokit command-line interface. Each engine operation
// is a subcommand printing its JSON result envelope to stdout, and `geokit mcp`
// exposes the same operations over the Model Context Protocol.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "geokit",
	Short: "Geokit - GeoJSON feature collection toolkit",
	Long: `Geokit loads GeoJSON FeatureCollections from a data directory and lets you
query them with attribute expressions, join them spatially, enrich their
geometry, reproject them, and merge them.

Every command prints a JSON result envelope to stdout. Run 'geokit mcp' to
serve the same operations to an MCP-capable agent over stdio.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
