package geo

import (
	"fmt"

	"github.com/paulmach/orb/geojson"
)

// Combine merges a sequence of raw FeatureCollection documents into one
// collection, preserving input-list order and within-collection order, without
// deduplication.
//
// Members that are not FeatureCollections (wrong type member, missing
// features, unparsable contents) are silently skipped rather than aborting
// the merge, so one malformed file among many valid ones still produces a
// result. Only a nil input fails, with ErrInvalidInput. The merged collection
// declares no CRS.
func Combine(docs []any) (*Collection, error) {
	if docs == nil {
		return nil, fmt.Errorf("%w: expected a list of feature collections", ErrInvalidInput)
	}

	var features []*geojson.Feature
	for _, doc := range docs {
		c, err := FromGeoJSON(doc)
		if err != nil {
			continue
		}
		features = append(features, c.features...)
	}
	return &Collection{features: features}, nil
}
