package geo

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/paulmach/orb/geojson"
	geos "github.com/twpayne/go-geos"
)

// predicateFunc tests a named spatial relation between two geometries.
type predicateFunc func(a, b *geos.Geom) bool

// predicates maps predicate names to their GEOS implementations. The names
// are the caller-facing vocabulary; anything else is a SpatialJoinError.
var predicates = map[string]predicateFunc{
	"intersects": (*geos.Geom).Intersects,
	"contains":   (*geos.Geom).Contains,
	"within":     (*geos.Geom).Within,
	"touches":    (*geos.Geom).Touches,
	"crosses":    (*geos.Geom).Crosses,
	"overlaps":   (*geos.Geom).Overlaps,
}

// PredicateNames returns the supported spatial predicate names, sorted.
func PredicateNames() []string {
	names := make([]string, 0, len(predicates))
	for name := range predicates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SelectByRelation returns the features of src that satisfy the named spatial
// predicate against at least one feature of tgt.
//
// Either collection being empty yields an empty collection, successfully. A
// source feature matching several target features appears once; output order
// follows src. A limit > 0 truncates the result after selection. Unknown
// predicate names fail with ErrSpatialJoin; geometries GEOS cannot parse fail
// with ErrGeometryRead.
//
// Candidate generation uses an R-tree over the target bounds when the target
// is large enough to repay the index, and exhaustive pairwise testing
// otherwise. Both strategies select the identical feature set; the choice is
// purely a cost decision.
func SelectByRelation(src, tgt *Collection, predicate string, limit int) (*Collection, error) {
	pred, ok := predicates[strings.ToLower(strings.TrimSpace(predicate))]
	if !ok {
		return nil, fmt.Errorf("%w: unknown predicate %q (supported: %s)",
			ErrSpatialJoin, predicate, strings.Join(PredicateNames(), ", "))
	}

	if src.Len() == 0 || tgt.Len() == 0 {
		return &Collection{crs: src.crs}, nil
	}

	srcGeoms, err := spatialFeatures(src)
	if err != nil {
		return nil, err
	}
	tgtGeoms, err := spatialFeatures(tgt)
	if err != nil {
		return nil, err
	}

	selected, err := evaluateJoin(chooseStrategy(len(tgtGeoms)), srcGeoms, tgtGeoms, pred)
	if err != nil {
		return nil, err
	}

	matched := make([]*geojson.Feature, 0, len(selected))
	for _, i := range selected {
		matched = append(matched, src.features[i])
	}
	out := &Collection{features: matched, crs: src.crs}
	if limit > 0 {
		out = out.Limit(limit)
	}
	return out, nil
}

// evaluateJoin runs the chosen strategy under a recover. GEOS raises a
// topology exception when a relate test hits invalid geometry (for instance a
// self-intersecting ring, which parses fine), and the binding surfaces that as
// a panic. Untrusted input must not crash the process, so the panic maps to
// ErrSpatialJoin instead.
func evaluateJoin(strategy joinStrategy, src, tgt []spatialFeature, pred predicateFunc) (selected []int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: predicate evaluation failed: %v", ErrSpatialJoin, r)
		}
	}()
	return strategy.selectIndices(src, tgt, pred), nil
}

// spatialFeature pairs a feature index with its parsed GEOS geometry and
// bounding box. Features without geometry are excluded up front; they can
// never satisfy a spatial relation.
type spatialFeature struct {
	index int
	geom  *geos.Geom
	box   *geos.Box2D
}

func spatialFeatures(c *Collection) ([]spatialFeature, error) {
	out := make([]spatialFeature, 0, len(c.features))
	for i, f := range c.features {
		if f.Geometry == nil {
			continue
		}
		data, err := json.Marshal(geojson.NewGeometry(f.Geometry))
		if err != nil {
			return nil, fmt.Errorf("%w: feature %d: %v", ErrGeometryRead, i, err)
		}
		g, err := geos.NewGeomFromGeoJSON(string(data))
		if err != nil {
			return nil, fmt.Errorf("%w: feature %d: %v", ErrGeometryRead, i, err)
		}
		out = append(out, spatialFeature{index: i, geom: g, box: g.Bounds()})
	}
	return out, nil
}
