package cmd

import (
	"github.com/reforestai/geokit/internal/tools"
	"github.com/spf13/cobra"
)

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List the GeoJSON files in the data directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		toolset, _, err := setup()
		if err != nil {
			return err
		}
		result, err := toolset.ListFiles(cmd.Context(), tools.ListFilesInput{})
		if err != nil {
			return err
		}
		return printResult(result)
	},
}

var queryCmd = &cobra.Command{
	Use:   "query <file> <expression>",
	Short: "Filter a collection with an attribute expression",
	Example: `  geokit query parcels.geojson 'canopy > 0.5'
  geokit query parcels.geojson 'name in ["oak", "elm"] && area_ha >= 2.0' --max-results 10`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		toolset, _, err := setup()
		if err != nil {
			return err
		}
		maxResults, _ := cmd.Flags().GetInt("max-results")
		result, err := toolset.QueryFeatures(cmd.Context(), tools.QueryFeaturesInput{
			Path:       args[0],
			Query:      args[1],
			MaxResults: maxResults,
		})
		if err != nil {
			return err
		}
		return printResult(result)
	},
}

var transformCmd = &cobra.Command{
	Use:   "transform <file> <expression>",
	Short: "Filter a collection and save the result as a new file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		toolset, _, err := setup()
		if err != nil {
			return err
		}
		output, _ := cmd.Flags().GetString("output")
		result, err := toolset.TransformFeatures(cmd.Context(), tools.TransformFeaturesInput{
			Path:       args[0],
			Query:      args[1],
			OutputName: output,
		})
		if err != nil {
			return err
		}
		return printResult(result)
	},
}

var attributesCmd = &cobra.Command{
	Use:     "attributes <file>",
	Aliases: []string{"attrs"},
	Short:   "Profile a collection's attribute schema",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		toolset, _, err := setup()
		if err != nil {
			return err
		}
		result, err := toolset.ReadAttributes(cmd.Context(), tools.ReadAttributesInput{Path: args[0]})
		if err != nil {
			return err
		}
		return printResult(result)
	},
}

var combineCmd = &cobra.Command{
	Use:   "combine <file>...",
	Short: "Merge collections into a single file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		toolset, _, err := setup()
		if err != nil {
			return err
		}
		output, _ := cmd.Flags().GetString("output")
		result, err := toolset.CombineCollections(cmd.Context(), tools.CombineCollectionsInput{
			Paths:      args,
			OutputName: output,
		})
		if err != nil {
			return err
		}
		return printResult(result)
	},
}

var selectCmd = &cobra.Command{
	Use:   "select <source-file> <target-file>",
	Short: "Select source features spatially related to target features",
	Example: `  geokit select parcels.geojson flood_zones.geojson
  geokit select parcels.geojson reserves.geojson --predicate within --output protected.geojson`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		toolset, _, err := setup()
		if err != nil {
			return err
		}
		predicate, _ := cmd.Flags().GetString("predicate")
		output, _ := cmd.Flags().GetString("output")
		maxResults, _ := cmd.Flags().GetInt("max-results")
		result, err := toolset.SelectByGeometry(cmd.Context(), tools.SelectByGeometryInput{
			SourcePath: args[0],
			TargetPath: args[1],
			Predicate:  predicate,
			OutputName: output,
			MaxResults: maxResults,
		})
		if err != nil {
			return err
		}
		return printResult(result)
	},
}

var enrichCmd = &cobra.Command{
	Use:   "enrich <file>",
	Short: "Add centroid and/or area properties to each feature",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		toolset, _, err := setup()
		if err != nil {
			return err
		}
		centroid, _ := cmd.Flags().GetBool("centroid")
		area, _ := cmd.Flags().GetBool("area")
		output, _ := cmd.Flags().GetString("output")
		result, err := toolset.EnrichGeometry(cmd.Context(), tools.EnrichGeometryInput{
			Path:        args[0],
			AddCentroid: centroid,
			AddAreaM2:   area,
			OutputName:  output,
		})
		if err != nil {
			return err
		}
		return printResult(result)
	},
}

var reprojectCmd = &cobra.Command{
	Use:   "reproject <file> <target-crs>",
	Short: "Reproject a collection between EPSG:4326 and EPSG:3857",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		toolset, _, err := setup()
		if err != nil {
			return err
		}
		output, _ := cmd.Flags().GetString("output")
		result, err := toolset.ReprojectFeatures(cmd.Context(), tools.ReprojectFeaturesInput{
			Path:       args[0],
			TargetCRS:  args[1],
			OutputName: output,
		})
		if err != nil {
			return err
		}
		return printResult(result)
	},
}

func init() {
	queryCmd.Flags().Int("max-results", 0, "cap the number of returned features")

	transformCmd.Flags().String("output", "", "file name for the filtered collection (required)")
	_ = transformCmd.MarkFlagRequired("output")

	combineCmd.Flags().String("output", "", "file name for the merged collection")

	selectCmd.Flags().String("predicate", "intersects",
		"spatial relation: intersects, contains, within, touches, crosses, overlaps")
	selectCmd.Flags().String("output", "", "file name for the selected collection")
	selectCmd.Flags().Int("max-results", 0, "cap the number of returned features")

	enrichCmd.Flags().Bool("centroid", false, "add a centroid_wkt property")
	enrichCmd.Flags().Bool("area", false, "add an area_m2 property")
	enrichCmd.Flags().String("output", "", "file name for the enriched collection")

	reprojectCmd.Flags().String("output", "", "file name for the reprojected collection")

	rootCmd.AddCommand(filesCmd, queryCmd, transformCmd, attributesCmd,
		combineCmd, selectCmd, enrichCmd, reprojectCmd)
}
