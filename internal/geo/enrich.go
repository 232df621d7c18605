package geo

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// Enrichment property names added by Enrich.
const (
	PropertyCentroidWKT = "centroid_wkt"
	PropertyAreaM2      = "area_m2"
)

// Enrich returns a copy of the collection with geometry-derived properties
// added per feature.
//
// When addCentroid is set, each feature gains centroid_wkt, a well-known-text
// point for its geometric centroid (null for features without geometry). A
// geometry the engine cannot take a centroid of is fatal: centroid was
// requested explicitly and has no safe degraded value, so the call fails with
// ErrGeometry.
//
// When addAreaM2 is set, each feature gains area_m2, the planar area in
// square meters after reprojecting a working copy to Web Mercator (a
// collection with no declared CRS is assumed WGS84). If that reprojection is
// impossible, say the collection declares a CRS the engine does not know,
// the call still succeeds and area_m2 is null for every feature.
//
// An empty collection returns empty, successfully.
func (c *Collection) Enrich(addCentroid, addAreaM2 bool) (*Collection, error) {
	features := make([]*geojson.Feature, 0, len(c.features))
	for _, f := range c.features {
		features = append(features, cloneFeature(f))
	}
	out := &Collection{features: features, crs: c.crs}

	if addCentroid {
		for _, f := range out.features {
			if f.Geometry == nil {
				f.Properties[PropertyCentroidWKT] = nil
				continue
			}
			centroid, err := centroidOf(f.Geometry)
			if err != nil {
				return nil, err
			}
			f.Properties[PropertyCentroidWKT] = wkt.MarshalString(centroid)
		}
	}

	if addAreaM2 {
		areas, err := out.projectedAreas()
		for i, f := range out.features {
			switch {
			case err != nil, f.Geometry == nil:
				// Area is best-effort: an unusable CRS degrades to null
				// rather than failing the enrichment.
				f.Properties[PropertyAreaM2] = nil
			default:
				f.Properties[PropertyAreaM2] = areas[i]
			}
		}
	}

	return out, nil
}

func centroidOf(g orb.Geometry) (orb.Point, error) {
	switch g.(type) {
	case orb.Point, orb.MultiPoint, orb.LineString, orb.MultiLineString,
		orb.Ring, orb.Polygon, orb.MultiPolygon, orb.Collection, orb.Bound:
		centroid, _ := planar.CentroidArea(g)
		return centroid, nil
	default:
		return orb.Point{}, fmt.Errorf("%w: cannot compute centroid of %T", ErrGeometry, g)
	}
}
