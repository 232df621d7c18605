package geo

import "errors"

// Sentinel errors for the engine. Callers distinguish failure kinds with
// errors.Is; the tool layer maps each kind to a stable error code in the
// response envelope.
var (
	// ErrInvalidFormat is returned when the input is not a GeoJSON
	// FeatureCollection (wrong type member, missing features).
	ErrInvalidFormat = errors.New("invalid FeatureCollection")

	// ErrQuery is returned when an attribute query expression fails to
	// compile, references an unknown property, or does not evaluate to a
	// boolean.
	ErrQuery = errors.New("query failed")

	// ErrSpatialJoin is returned when a spatial predicate name is not one of
	// the supported relations.
	ErrSpatialJoin = errors.New("spatial join failed")

	// ErrGeometry is returned when a geometry cannot be processed for an
	// explicitly requested derivation (e.g. centroid).
	ErrGeometry = errors.New("geometry error")

	// ErrGeometryRead is returned when a feature's geometry cannot be parsed.
	ErrGeometryRead = errors.New("unreadable geometry")

	// ErrProjection is returned when a coordinate reference system is unknown
	// and cannot be defaulted to WGS84.
	ErrProjection = errors.New("projection failed")

	// ErrInvalidInput is returned when an argument has the wrong shape, e.g.
	// a non-sequence where a sequence of collections is required.
	ErrInvalidInput = errors.New("invalid input")
)
