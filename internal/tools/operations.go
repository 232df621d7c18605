package tools

// Operation names. These are the stable identifiers the tool surface exposes;
// renaming one is a breaking change for every registered agent.
const (
	OpListFiles     = "list_files"
	OpQueryFeatures = "query_features"
	OpTransform     = "transform_features"
	OpAttributes    = "read_attributes"
	OpCombine       = "combine_collections"
	OpSelect        = "select_by_geometry"
	OpEnrich        = "enrich_geometry"
	OpReproject     = "reproject_features"
)

// Operation describes one engine operation for registration front-ends.
type Operation struct {
	// Name is the unique operation identifier.
	Name string

	// Description tells a model when to call the operation.
	Description string

	// ReadOnly is true when the operation never writes to storage.
	ReadOnly bool
}

// Operations returns the registration table: every operation the toolset
// exposes, in a fixed order. The table is the single source of truth for
// front-ends (MCP server, CLI); anything registering a name not in this table
// is a bug.
func Operations() []Operation {
	return []Operation{
		{
			Name:        OpListFiles,
			Description: "List the vector data files available in the map data directory.",
			ReadOnly:    true,
		},
		{
			Name: OpQueryFeatures,
			Description: "Filter a GeoJSON FeatureCollection with a boolean attribute " +
				"expression over property names (comparisons, && / ||, membership tests " +
				"like name in ['a', 'b']) and return the matching features.",
			ReadOnly: true,
		},
		{
			Name: OpTransform,
			Description: "Filter a GeoJSON FeatureCollection with an attribute expression " +
				"and save the result as a new file instead of returning the features inline.",
		},
		{
			Name: OpAttributes,
			Description: "Inspect the attribute schema of a GeoJSON file: property names, " +
				"observed value types, example values, and non-null counts.",
			ReadOnly: true,
		},
		{
			Name: OpCombine,
			Description: "Merge multiple GeoJSON FeatureCollections into a single " +
				"FeatureCollection file, preserving feature order and skipping malformed inputs.",
		},
		{
			Name: OpSelect,
			Description: "Select features from a source GeoJSON file that satisfy a spatial " +
				"predicate (intersects, contains, within, touches, crosses, overlaps) " +
				"against any feature of a target GeoJSON file.",
		},
		{
			Name: OpEnrich,
			Description: "Add geometry-derived properties to each feature: centroid_wkt " +
				"(centroid as well-known text) and/or area_m2 (planar area in square meters).",
		},
		{
			Name: OpReproject,
			Description: "Reproject a GeoJSON FeatureCollection between WGS84 (EPSG:4326) " +
				"and Web Mercator (EPSG:3857).",
		},
	}
}
