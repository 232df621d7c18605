// Package geo implements the feature-collection engine: construction from raw
// GeoJSON, attribute queries, spatial predicate selection, geometry-derived
// enrichment, merging, and attribute profiling.
//
// Collections are immutable value types. Every operation receives its input
// collections, constructs a fresh output, and holds no state between calls, so
// concurrent invocations never share mutable data.
package geo

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/paulmach/orb/geojson"

	"github.com/reforestai/geokit/internal/sanitize"
)

// CRS identifiers the engine understands natively. A collection with no
// declared CRS is treated as WGS84 longitude/latitude by convention.
const (
	CRSWGS84    = "EPSG:4326"
	CRSMercator = "EPSG:3857"
)

// Collection is an ordered set of GeoJSON features sharing a coordinate
// reference system. The zero value is not usable; construct with FromGeoJSON
// or NewCollection.
type Collection struct {
	features []*geojson.Feature
	crs      string // normalized identifier, "" when undeclared
}

// NewCollection wraps an existing feature slice. The slice is used as-is;
// callers hand over ownership.
func NewCollection(features []*geojson.Feature, crs string) *Collection {
	return &Collection{features: features, crs: crs}
}

// FromGeoJSON builds a Collection from a decoded JSON document or raw bytes.
//
// The input must be a mapping with type == "FeatureCollection" and a features
// member; anything else fails with ErrInvalidFormat. An empty features list is
// valid. A legacy "crs" member, when present, is parsed and retained even if
// the identifier is not one the engine can project (projection is where an
// unknown CRS becomes an error, or a graceful degrade).
func FromGeoJSON(raw any) (*Collection, error) {
	data, doc, err := rawDocument(raw)
	if err != nil {
		return nil, err
	}

	if typ, _ := doc["type"].(string); typ != "FeatureCollection" {
		return nil, fmt.Errorf("%w: type is %q, want \"FeatureCollection\"", ErrInvalidFormat, doc["type"])
	}
	if _, ok := doc["features"]; !ok {
		return nil, fmt.Errorf("%w: missing features member", ErrInvalidFormat)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	return &Collection{features: fc.Features, crs: parseCRS(doc["crs"])}, nil
}

// rawDocument returns both the byte and decoded-map form of raw.
func rawDocument(raw any) ([]byte, map[string]any, error) {
	switch t := raw.(type) {
	case []byte:
		var doc map[string]any
		if err := json.Unmarshal(t, &doc); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		return t, doc, nil
	case json.RawMessage:
		return rawDocument([]byte(t))
	case map[string]any:
		data, err := json.Marshal(sanitize.Value(t))
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		return data, t, nil
	default:
		return nil, nil, fmt.Errorf("%w: expected a JSON object, got %T", ErrInvalidFormat, raw)
	}
}

// parseCRS extracts a normalized CRS identifier from a legacy GeoJSON crs
// member. Returns "" when absent or unrecognizable in shape.
func parseCRS(v any) string {
	m, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	props, ok := m["properties"].(map[string]any)
	if !ok {
		return ""
	}
	name, _ := props["name"].(string)
	return NormalizeCRS(name)
}

// NormalizeCRS maps the common spellings of a CRS identifier to the EPSG:NNNN
// form. Unrecognized identifiers are returned trimmed but otherwise unchanged
// so projection can report them verbatim.
func NormalizeCRS(name string) string {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return ""
	case strings.EqualFold(name, "EPSG:4326"),
		strings.EqualFold(name, "urn:ogc:def:crs:EPSG::4326"),
		strings.EqualFold(name, "OGC:CRS84"),
		strings.EqualFold(name, "CRS84"),
		strings.EqualFold(name, "urn:ogc:def:crs:OGC:1.3:CRS84"):
		return CRSWGS84
	case strings.EqualFold(name, "EPSG:3857"),
		strings.EqualFold(name, "urn:ogc:def:crs:EPSG::3857"),
		strings.EqualFold(name, "EPSG:900913"):
		return CRSMercator
	}
	return name
}

// Len returns the number of features.
func (c *Collection) Len() int {
	return len(c.features)
}

// Features returns the underlying feature slice. Callers must not mutate it.
func (c *Collection) Features() []*geojson.Feature {
	return c.features
}

// CRS returns the normalized CRS identifier, or "" when undeclared.
func (c *Collection) CRS() string {
	return c.crs
}

// Limit returns a collection truncated to the first max features, preserving
// order. A negative max is treated as zero; a max beyond Len returns an
// equivalent collection.
func (c *Collection) Limit(max int) *Collection {
	if max < 0 {
		max = 0
	}
	if max > len(c.features) {
		max = len(c.features)
	}
	return &Collection{features: c.features[:max], crs: c.crs}
}

// ToGeoJSON serializes the collection back to a plain JSON document.
//
// Property values pass through the sanitizer, so the result always marshals
// cleanly; geometry coordinates are emitted as native numbers. The crs member
// is included only when the collection declares one.
func (c *Collection) ToGeoJSON() map[string]any {
	features := make([]any, 0, len(c.features))
	for _, f := range c.features {
		features = append(features, featureDocument(f))
	}

	doc := map[string]any{
		"type":     "FeatureCollection",
		"features": features,
	}
	if c.crs != "" {
		doc["crs"] = map[string]any{
			"type":       "name",
			"properties": map[string]any{"name": c.crs},
		}
	}
	return doc
}

func featureDocument(f *geojson.Feature) map[string]any {
	doc := map[string]any{
		"type":       "Feature",
		"geometry":   geometryDocument(f),
		"properties": sanitizeProperties(f.Properties),
	}
	if f.ID != nil {
		doc["id"] = sanitize.Value(f.ID)
	}
	return doc
}

func geometryDocument(f *geojson.Feature) any {
	if f.Geometry == nil {
		return nil
	}
	data, err := json.Marshal(geojson.NewGeometry(f.Geometry))
	if err != nil {
		return nil
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil
	}
	return doc
}

func sanitizeProperties(props geojson.Properties) map[string]any {
	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = sanitize.Value(v)
	}
	return out
}

// cloneFeature copies a feature shallowly except for its property map, which
// is duplicated so enrichment never aliases input properties.
func cloneFeature(f *geojson.Feature) *geojson.Feature {
	out := geojson.NewFeature(f.Geometry)
	out.ID = f.ID
	out.Properties = make(geojson.Properties, len(f.Properties)+2)
	for k, v := range f.Properties {
		out.Properties[k] = v
	}
	return out
}
