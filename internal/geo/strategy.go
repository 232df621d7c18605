package geo

import (
	"sort"

	"github.com/dhconnelly/rtreego"
)

// indexThreshold is the target size above which building an R-tree pays for
// itself. Below it the pairwise scan wins on constant factors.
const indexThreshold = 16

// joinStrategy computes the set of source feature indices satisfying a
// predicate against any target feature. Implementations must select identical
// sets; they differ only in how candidates are generated.
type joinStrategy interface {
	name() string
	selectIndices(src, tgt []spatialFeature, pred predicateFunc) []int
}

func chooseStrategy(targetCount int) joinStrategy {
	if targetCount >= indexThreshold {
		return indexedJoin{}
	}
	return pairwiseJoin{}
}

// pairwiseJoin tests every source geometry against every target geometry,
// short-circuiting per source feature on the first match.
type pairwiseJoin struct{}

func (pairwiseJoin) name() string { return "pairwise" }

func (pairwiseJoin) selectIndices(src, tgt []spatialFeature, pred predicateFunc) []int {
	var selected []int
	for _, s := range src {
		for _, t := range tgt {
			if pred(s.geom, t.geom) {
				selected = append(selected, s.index)
				break
			}
		}
	}
	return selected
}

// indexedJoin builds an R-tree over target bounding boxes and tests the
// predicate only against targets whose boxes intersect the source box. All
// six supported relations imply overlapping bounds, so the prefilter never
// discards a true match.
type indexedJoin struct{}

func (indexedJoin) name() string { return "indexed" }

// rtreeEntry adapts a spatialFeature to the rtreego.Spatial interface.
type rtreeEntry struct {
	feature spatialFeature
	rect    rtreego.Rect
}

func (e rtreeEntry) Bounds() rtreego.Rect { return e.rect }

func (indexedJoin) selectIndices(src, tgt []spatialFeature, pred predicateFunc) []int {
	tree := rtreego.NewTree(2, 25, 50)
	for _, t := range tgt {
		tree.Insert(rtreeEntry{feature: t, rect: featureRect(t)})
	}

	var selected []int
	for _, s := range src {
		candidates := tree.SearchIntersect(featureRect(s))
		for _, c := range candidates {
			entry := c.(rtreeEntry)
			if pred(s.geom, entry.feature.geom) {
				selected = append(selected, s.index)
				break
			}
		}
	}
	sort.Ints(selected)
	return selected
}

// featureRect converts a geometry's bounding box to an R-tree rectangle.
// rtreego requires strictly positive side lengths, so degenerate boxes
// (points, axis-aligned lines) are padded by a sliver.
func featureRect(f spatialFeature) rtreego.Rect {
	const pad = 1e-9
	width := f.box.MaxX - f.box.MinX
	height := f.box.MaxY - f.box.MinY
	if width <= 0 {
		width = pad
	}
	if height <= 0 {
		height = pad
	}
	rect, err := rtreego.NewRect(rtreego.Point{f.box.MinX, f.box.MinY}, []float64{width, height})
	if err != nil {
		// Fall back to a unit box around the corner; the exact predicate
		// still decides membership.
		rect, _ = rtreego.NewRect(rtreego.Point{f.box.MinX, f.box.MinY}, []float64{1, 1})
	}
	return rect
}
