// Package tools exposes the feature-collection engine as named operations
// returning a stable JSON envelope.
//
// Every operation returns (Result, error) where the error is reserved for
// programmer mistakes; malformed geospatial input, bad queries, and missing
// files all come back as StatusError envelopes with a stable code, because
// the engine must never crash its host on untrusted input.
package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/reforestai/geokit/internal/geo"
	"github.com/reforestai/geokit/internal/log"
	"github.com/reforestai/geokit/internal/sanitize"
	"github.com/reforestai/geokit/internal/storage"
)

// GeoToolset implements the engine operations over a document store.
type GeoToolset struct {
	store       *storage.Store
	maxFeatures int
	logger      log.Logger
}

// NewGeoToolset creates a toolset. maxFeatures caps how many features any
// single response may carry; requests may lower it but not raise it.
func NewGeoToolset(store *storage.Store, maxFeatures int, logger log.Logger) (*GeoToolset, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if maxFeatures < 1 {
		return nil, fmt.Errorf("maxFeatures must be >= 1, got %d", maxFeatures)
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &GeoToolset{store: store, maxFeatures: maxFeatures, logger: logger}, nil
}

// ListFilesInput defines input for the list_files operation.
type ListFilesInput struct{}

// QueryFeaturesInput defines input for the query_features operation.
type QueryFeaturesInput struct {
	Path       string `json:"path" jsonschema_description:"Name of the GeoJSON file in the data directory"`
	Query      string `json:"query" jsonschema_description:"Boolean attribute expression over property names, e.g. canopy > 0.5 && name in ['a', 'b']"`
	MaxResults int    `json:"max_results,omitempty" jsonschema_description:"Maximum number of features to return (optional)"`
}

// TransformFeaturesInput defines input for the transform_features operation.
type TransformFeaturesInput struct {
	Path       string `json:"path" jsonschema_description:"Name of the GeoJSON file in the data directory"`
	Query      string `json:"query" jsonschema_description:"Boolean attribute expression over property names"`
	OutputName string `json:"output_name" jsonschema_description:"File name to save the filtered collection under"`
}

// ReadAttributesInput defines input for the read_attributes operation.
type ReadAttributesInput struct {
	Path string `json:"path" jsonschema_description:"Name of the GeoJSON file in the data directory"`
}

// CombineCollectionsInput defines input for the combine_collections operation.
type CombineCollectionsInput struct {
	Paths      []string `json:"paths" jsonschema_description:"Names of the GeoJSON files to merge, in order"`
	OutputName string   `json:"output_name,omitempty" jsonschema_description:"File name for the merged collection (optional; generated when omitted)"`
}

// SelectByGeometryInput defines input for the select_by_geometry operation.
type SelectByGeometryInput struct {
	SourcePath string `json:"source_path" jsonschema_description:"GeoJSON file whose features are filtered"`
	TargetPath string `json:"target_path" jsonschema_description:"GeoJSON file whose features are tested against"`
	Predicate  string `json:"predicate,omitempty" jsonschema_description:"Spatial relation: intersects (default), contains, within, touches, crosses, overlaps"`
	OutputName string `json:"output_name,omitempty" jsonschema_description:"File name to save the selection under (optional)"`
	MaxResults int    `json:"max_results,omitempty" jsonschema_description:"Maximum number of features to return (optional)"`
}

// EnrichGeometryInput defines input for the enrich_geometry operation.
type EnrichGeometryInput struct {
	Path        string `json:"path" jsonschema_description:"Name of the GeoJSON file in the data directory"`
	AddCentroid bool   `json:"add_centroid,omitempty" jsonschema_description:"Add a centroid_wkt property per feature"`
	AddAreaM2   bool   `json:"add_area_m2,omitempty" jsonschema_description:"Add an area_m2 property per feature (planar area in square meters)"`
	OutputName  string `json:"output_name,omitempty" jsonschema_description:"File name to save the enriched collection under (optional)"`
}

// ReprojectFeaturesInput defines input for the reproject_features operation.
type ReprojectFeaturesInput struct {
	Path       string `json:"path" jsonschema_description:"Name of the GeoJSON file in the data directory"`
	TargetCRS  string `json:"target_crs" jsonschema_description:"Target CRS identifier: EPSG:4326 or EPSG:3857"`
	OutputName string `json:"output_name,omitempty" jsonschema_description:"File name to save the reprojected collection under (optional)"`
}

// ListFiles lists the documents available in the data directory.
func (t *GeoToolset) ListFiles(_ context.Context, _ ListFilesInput) (Result, error) {
	names, err := t.store.List()
	if err != nil {
		return storageError(err), nil
	}
	if names == nil {
		names = []string{}
	}
	return successResult(fmt.Sprintf("%d files available", len(names)), map[string]any{
		"files": names,
		"count": len(names),
	}), nil
}

// QueryFeatures filters a collection with an attribute expression and returns
// the matching features inline.
func (t *GeoToolset) QueryFeatures(_ context.Context, input QueryFeaturesInput) (Result, error) {
	t.logger.Info("QueryFeatures called", "path", input.Path, "query", input.Query)

	c, result := t.loadCollection(input.Path)
	if result != nil {
		return *result, nil
	}

	matched, err := c.Query(input.Query)
	if err != nil {
		return engineError(err), nil
	}
	matched = matched.Limit(t.limit(input.MaxResults))

	return successResult(
		fmt.Sprintf("query matched %d features", matched.Len()),
		map[string]any{
			"count":   matched.Len(),
			"geojson": sanitize.Value(matched.ToGeoJSON()),
		},
	), nil
}

// TransformFeatures filters a collection and persists the result instead of
// returning it inline.
func (t *GeoToolset) TransformFeatures(_ context.Context, input TransformFeaturesInput) (Result, error) {
	t.logger.Info("TransformFeatures called", "path", input.Path, "output", input.OutputName)

	if input.OutputName == "" {
		return errorResult(ErrCodeInvalidInput, "output_name is required"), nil
	}

	c, result := t.loadCollection(input.Path)
	if result != nil {
		return *result, nil
	}

	matched, err := c.Query(input.Query)
	if err != nil {
		return engineError(err), nil
	}

	saved, err := t.store.Save(matched.ToGeoJSON(), input.OutputName)
	if err != nil {
		return storageError(err), nil
	}

	return successResult(
		fmt.Sprintf("saved %d features to %s", matched.Len(), saved),
		map[string]any{"saved_to": saved, "count": matched.Len()},
	), nil
}

// ReadAttributes profiles a collection's attribute schema.
func (t *GeoToolset) ReadAttributes(_ context.Context, input ReadAttributesInput) (Result, error) {
	t.logger.Info("ReadAttributes called", "path", input.Path)

	c, result := t.loadCollection(input.Path)
	if result != nil {
		return *result, nil
	}

	profile := c.Profile()
	return successResult(
		fmt.Sprintf("profiled %d features", profile.FeatureCount),
		sanitize.Value(map[string]any{
			"feature_count": profile.FeatureCount,
			"attributes":    profile.Attributes,
		}),
	), nil
}

// CombineCollections merges several stored collections into one file.
// Unloadable or malformed members are skipped, not fatal.
func (t *GeoToolset) CombineCollections(_ context.Context, input CombineCollectionsInput) (Result, error) {
	t.logger.Info("CombineCollections called", "paths", input.Paths)

	if input.Paths == nil {
		return errorResult(ErrCodeInvalidInput, "paths is required and must be a list"), nil
	}

	docs := make([]any, 0, len(input.Paths))
	for _, path := range input.Paths {
		doc, err := t.store.Load(path)
		if err != nil {
			t.logger.Warn("skipping unloadable collection", "path", path, "error", err)
			continue
		}
		docs = append(docs, doc)
	}

	combined, err := geo.Combine(docs)
	if err != nil {
		return engineError(err), nil
	}

	saved, err := t.store.Save(combined.ToGeoJSON(), input.OutputName)
	if err != nil {
		return storageError(err), nil
	}

	return successResult(
		fmt.Sprintf("combined %d features into %s", combined.Len(), saved),
		map[string]any{"saved_to": saved, "count": combined.Len()},
	), nil
}

// SelectByGeometry selects source features satisfying a spatial predicate
// against any target feature.
func (t *GeoToolset) SelectByGeometry(_ context.Context, input SelectByGeometryInput) (Result, error) {
	predicate := input.Predicate
	if predicate == "" {
		predicate = "intersects"
	}
	t.logger.Info("SelectByGeometry called",
		"source", input.SourcePath, "target", input.TargetPath, "predicate", predicate)

	src, result := t.loadCollection(input.SourcePath)
	if result != nil {
		return *result, nil
	}
	tgt, result := t.loadCollection(input.TargetPath)
	if result != nil {
		return *result, nil
	}

	selected, err := geo.SelectByRelation(src, tgt, predicate, t.limit(input.MaxResults))
	if err != nil {
		return engineError(err), nil
	}

	data := map[string]any{
		"count":   selected.Len(),
		"geojson": sanitize.Value(selected.ToGeoJSON()),
	}
	if input.OutputName != "" {
		saved, err := t.store.Save(selected.ToGeoJSON(), input.OutputName)
		if err != nil {
			return storageError(err), nil
		}
		data["saved_to"] = saved
	}

	return successResult(fmt.Sprintf("%d features satisfy %s", selected.Len(), predicate), data), nil
}

// EnrichGeometry adds geometry-derived properties per feature.
func (t *GeoToolset) EnrichGeometry(_ context.Context, input EnrichGeometryInput) (Result, error) {
	t.logger.Info("EnrichGeometry called",
		"path", input.Path, "centroid", input.AddCentroid, "area", input.AddAreaM2)

	if !input.AddCentroid && !input.AddAreaM2 {
		return errorResult(ErrCodeInvalidInput, "at least one of add_centroid, add_area_m2 must be set"), nil
	}

	c, result := t.loadCollection(input.Path)
	if result != nil {
		return *result, nil
	}

	enriched, err := c.Enrich(input.AddCentroid, input.AddAreaM2)
	if err != nil {
		return engineError(err), nil
	}

	data := map[string]any{
		"count":   enriched.Len(),
		"geojson": sanitize.Value(enriched.ToGeoJSON()),
	}
	if input.OutputName != "" {
		saved, err := t.store.Save(enriched.ToGeoJSON(), input.OutputName)
		if err != nil {
			return storageError(err), nil
		}
		data["saved_to"] = saved
	}

	return successResult(fmt.Sprintf("enriched %d features", enriched.Len()), data), nil
}

// ReprojectFeatures transforms a collection's coordinates to a target CRS.
func (t *GeoToolset) ReprojectFeatures(_ context.Context, input ReprojectFeaturesInput) (Result, error) {
	t.logger.Info("ReprojectFeatures called", "path", input.Path, "target_crs", input.TargetCRS)

	c, result := t.loadCollection(input.Path)
	if result != nil {
		return *result, nil
	}

	projected, err := c.Reproject(input.TargetCRS)
	if err != nil {
		return engineError(err), nil
	}

	data := map[string]any{
		"count":   projected.Len(),
		"crs":     projected.CRS(),
		"geojson": sanitize.Value(projected.ToGeoJSON()),
	}
	if input.OutputName != "" {
		saved, err := t.store.Save(projected.ToGeoJSON(), input.OutputName)
		if err != nil {
			return storageError(err), nil
		}
		data["saved_to"] = saved
	}

	return successResult(fmt.Sprintf("reprojected %d features to %s", projected.Len(), projected.CRS()), data), nil
}

// loadCollection loads and parses a stored document, returning an error
// envelope instead of an error value so callers can hand it straight back.
func (t *GeoToolset) loadCollection(path string) (*geo.Collection, *Result) {
	doc, err := t.store.Load(path)
	if err != nil {
		r := storageError(err)
		return nil, &r
	}
	c, err := geo.FromGeoJSON(doc)
	if err != nil {
		r := engineError(err)
		return nil, &r
	}
	return c, nil
}

// limit resolves a requested max against the configured cap.
func (t *GeoToolset) limit(requested int) int {
	if requested > 0 && requested < t.maxFeatures {
		return requested
	}
	return t.maxFeatures
}

// engineError maps an engine failure to its envelope code.
func engineError(err error) Result {
	code := ErrCodeIO
	switch {
	case errors.Is(err, geo.ErrInvalidFormat):
		code = ErrCodeInvalidFormat
	case errors.Is(err, geo.ErrQuery):
		code = ErrCodeQuery
	case errors.Is(err, geo.ErrSpatialJoin):
		code = ErrCodeSpatialJoin
	case errors.Is(err, geo.ErrGeometryRead):
		code = ErrCodeGeometryRead
	case errors.Is(err, geo.ErrGeometry):
		code = ErrCodeGeometry
	case errors.Is(err, geo.ErrProjection):
		code = ErrCodeProjection
	case errors.Is(err, geo.ErrInvalidInput):
		code = ErrCodeInvalidInput
	}
	return errorResult(code, err.Error())
}

// storageError maps a store failure to its envelope code.
func storageError(err error) Result {
	code := ErrCodeIO
	switch {
	case errors.Is(err, storage.ErrNotFound):
		code = ErrCodeNotFound
	case errors.Is(err, storage.ErrInvalidName):
		code = ErrCodeInvalidInput
	}
	return errorResult(code, err.Error())
}
