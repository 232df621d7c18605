package geo

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/project"
)

// Reproject returns a copy of the collection with every geometry's
// coordinates transformed to targetCRS.
//
// The engine projects between WGS84 (EPSG:4326) and Web Mercator (EPSG:3857).
// A collection with no declared CRS is assumed to be WGS84. A source or target
// CRS outside that pair fails with ErrProjection naming the identifier.
func (c *Collection) Reproject(targetCRS string) (*Collection, error) {
	target := NormalizeCRS(targetCRS)
	if target != CRSWGS84 && target != CRSMercator {
		return nil, fmt.Errorf("%w: unsupported target CRS %q", ErrProjection, targetCRS)
	}

	source := c.crs
	if source == "" {
		source = CRSWGS84
	}
	if source != CRSWGS84 && source != CRSMercator {
		return nil, fmt.Errorf("%w: unsupported source CRS %q", ErrProjection, c.crs)
	}

	if source == target {
		return &Collection{features: c.features, crs: target}, nil
	}

	transform := project.WGS84.ToMercator
	if target == CRSWGS84 {
		transform = project.Mercator.ToWGS84
	}

	features := make([]*geojson.Feature, 0, len(c.features))
	for _, f := range c.features {
		out := cloneFeature(f)
		if f.Geometry != nil {
			out.Geometry = project.Geometry(orb.Clone(f.Geometry), transform)
		}
		features = append(features, out)
	}
	return &Collection{features: features, crs: target}, nil
}

// projectedAreas computes the planar area in square meters for every feature,
// reprojecting a working copy to Web Mercator when the collection is in
// geographic coordinates. An unusable CRS fails the whole computation; the
// caller decides whether that is fatal.
func (c *Collection) projectedAreas() ([]float64, error) {
	source := c.crs
	if source == "" {
		source = CRSWGS84
	}
	if source != CRSWGS84 && source != CRSMercator {
		return nil, fmt.Errorf("%w: unsupported source CRS %q", ErrProjection, c.crs)
	}

	areas := make([]float64, len(c.features))
	for i, f := range c.features {
		if f.Geometry == nil {
			continue
		}
		g := f.Geometry
		if source == CRSWGS84 {
			g = project.Geometry(orb.Clone(g), project.WGS84.ToMercator)
		}
		areas[i] = planar.Area(g)
	}
	return areas, nil
}
