package tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/reforestai/geokit/internal/log"
	"github.com/reforestai/geokit/internal/storage"
)

const parcelsFC = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,1],[0,0]]]},
			"properties": {"name": "north", "canopy": 0.8}
		},
		{
			"type": "Feature",
			"geometry": {"type": "Polygon", "coordinates": [[[2,2],[3,2],[3,3],[2,3],[2,2]]]},
			"properties": {"name": "south", "canopy": 0.2}
		},
		{
			"type": "Feature",
			"geometry": null,
			"properties": {"name": "ghost", "canopy": null}
		}
	]
}`

const zonesFC = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"geometry": {"type": "Polygon", "coordinates": [[[0.5,0.5],[1.5,0.5],[1.5,1.5],[0.5,1.5],[0.5,0.5]]]},
			"properties": {"zone": "A"}
		}
	]
}`

func newToolset(t *testing.T) (*GeoToolset, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.New(dir, log.NewNop())
	if err != nil {
		t.Fatalf("storage.New() = %v", err)
	}
	ts, err := NewGeoToolset(store, 100, log.NewNop())
	if err != nil {
		t.Fatalf("NewGeoToolset() = %v", err)
	}
	return ts, dir
}

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o640); err != nil {
		t.Fatalf("WriteFile(%s) = %v", name, err)
	}
}

func assertError(t *testing.T, r Result, code string) {
	t.Helper()
	if r.Status != StatusError {
		t.Fatalf("Status = %q, want error (message %q)", r.Status, r.Message)
	}
	if r.Error == nil {
		t.Fatal("Error is nil on an error result")
	}
	if r.Error.Code != code {
		t.Errorf("Error.Code = %q, want %q (message %q)", r.Error.Code, code, r.Error.Message)
	}
	if r.Data != nil {
		t.Error("Data must be absent on an error result")
	}
}

func dataMap(t *testing.T, r Result) map[string]any {
	t.Helper()
	if r.Status != StatusSuccess {
		t.Fatalf("Status = %q, want success (message %q)", r.Status, r.Message)
	}
	m, ok := r.Data.(map[string]any)
	if !ok {
		t.Fatalf("Data is %T, want map[string]any", r.Data)
	}
	return m
}

func TestListFiles(t *testing.T) {
	ts, dir := newToolset(t)
	ctx := context.Background()

	r, err := ts.ListFiles(ctx, ListFilesInput{})
	if err != nil {
		t.Fatalf("ListFiles() = %v", err)
	}
	data := dataMap(t, r)
	if got := data["count"].(int); got != 0 {
		t.Errorf("count = %d, want 0", got)
	}

	writeDoc(t, dir, "parcels.geojson", parcelsFC)
	writeDoc(t, dir, "zones.geojson", zonesFC)

	r, err = ts.ListFiles(ctx, ListFilesInput{})
	if err != nil {
		t.Fatalf("ListFiles() = %v", err)
	}
	data = dataMap(t, r)
	files := data["files"].([]string)
	if len(files) != 2 || files[0] != "parcels.geojson" {
		t.Errorf("files = %v, want sorted [parcels.geojson zones.geojson]", files)
	}
}

func TestQueryFeatures(t *testing.T) {
	ts, dir := newToolset(t)
	writeDoc(t, dir, "parcels.geojson", parcelsFC)

	r, err := ts.QueryFeatures(context.Background(), QueryFeaturesInput{
		Path:  "parcels.geojson",
		Query: "canopy > 0.5",
	})
	if err != nil {
		t.Fatalf("QueryFeatures() = %v", err)
	}
	data := dataMap(t, r)
	if got := data["count"].(int); got != 1 {
		t.Errorf("count = %d, want 1", got)
	}
	if _, ok := data["geojson"]; !ok {
		t.Error("success data carries no geojson member")
	}
}

func TestQueryFeatures_MaxResults(t *testing.T) {
	ts, dir := newToolset(t)
	writeDoc(t, dir, "parcels.geojson", parcelsFC)

	r, err := ts.QueryFeatures(context.Background(), QueryFeaturesInput{
		Path:       "parcels.geojson",
		Query:      "canopy >= 0.0 || canopy == null",
		MaxResults: 1,
	})
	if err != nil {
		t.Fatalf("QueryFeatures() = %v", err)
	}
	data := dataMap(t, r)
	if got := data["count"].(int); got > 1 {
		t.Errorf("count = %d, want at most 1", got)
	}
}

func TestQueryFeatures_Errors(t *testing.T) {
	ts, dir := newToolset(t)
	writeDoc(t, dir, "parcels.geojson", parcelsFC)
	writeDoc(t, dir, "broken.geojson", `{"type": "Point"}`)

	tests := []struct {
		name  string
		input QueryFeaturesInput
		code  string
	}{
		{"missing file", QueryFeaturesInput{Path: "nope.geojson", Query: "canopy > 0"}, ErrCodeNotFound},
		{"not a collection", QueryFeaturesInput{Path: "broken.geojson", Query: "canopy > 0"}, ErrCodeInvalidFormat},
		{"unknown identifier", QueryFeaturesInput{Path: "parcels.geojson", Query: "height > 0"}, ErrCodeQuery},
		{"empty query", QueryFeaturesInput{Path: "parcels.geojson", Query: ""}, ErrCodeQuery},
		{"path escape", QueryFeaturesInput{Path: "../secret.geojson", Query: "canopy > 0"}, ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ts.QueryFeatures(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("QueryFeatures() = %v", err)
			}
			assertError(t, r, tt.code)
		})
	}
}

func TestTransformFeatures(t *testing.T) {
	ts, dir := newToolset(t)
	writeDoc(t, dir, "parcels.geojson", parcelsFC)

	r, err := ts.TransformFeatures(context.Background(), TransformFeaturesInput{
		Path:       "parcels.geojson",
		Query:      "canopy > 0.5",
		OutputName: "dense.geojson",
	})
	if err != nil {
		t.Fatalf("TransformFeatures() = %v", err)
	}
	data := dataMap(t, r)
	saved := data["saved_to"].(string)
	if !strings.HasSuffix(saved, "dense.geojson") {
		t.Errorf("saved_to = %q, want path ending in dense.geojson", saved)
	}
	if _, err := os.Stat(filepath.Join(dir, "dense.geojson")); err != nil {
		t.Errorf("saved file missing: %v", err)
	}
}

func TestTransformFeatures_RequiresOutputName(t *testing.T) {
	ts, dir := newToolset(t)
	writeDoc(t, dir, "parcels.geojson", parcelsFC)

	r, err := ts.TransformFeatures(context.Background(), TransformFeaturesInput{
		Path:  "parcels.geojson",
		Query: "canopy > 0.5",
	})
	if err != nil {
		t.Fatalf("TransformFeatures() = %v", err)
	}
	assertError(t, r, ErrCodeInvalidInput)
}

func TestReadAttributes(t *testing.T) {
	ts, dir := newToolset(t)
	writeDoc(t, dir, "parcels.geojson", parcelsFC)

	r, err := ts.ReadAttributes(context.Background(), ReadAttributesInput{Path: "parcels.geojson"})
	if err != nil {
		t.Fatalf("ReadAttributes() = %v", err)
	}
	data := dataMap(t, r)
	if got := data["feature_count"].(int); got != 3 {
		t.Errorf("feature_count = %v, want 3", got)
	}
	attrs := data["attributes"].(map[string]any)
	if _, ok := attrs["canopy"]; !ok {
		t.Errorf("attributes = %v, want a canopy entry", attrs)
	}
}

func TestCombineCollections(t *testing.T) {
	ts, dir := newToolset(t)
	writeDoc(t, dir, "parcels.geojson", parcelsFC)
	writeDoc(t, dir, "zones.geojson", zonesFC)
	writeDoc(t, dir, "junk.geojson", `not json at all`)

	r, err := ts.CombineCollections(context.Background(), CombineCollectionsInput{
		Paths:      []string{"parcels.geojson", "missing.geojson", "junk.geojson", "zones.geojson"},
		OutputName: "merged.geojson",
	})
	if err != nil {
		t.Fatalf("CombineCollections() = %v", err)
	}
	data := dataMap(t, r)
	// 3 parcels + 1 zone; the missing and junk members are skipped.
	if got := data["count"].(int); got != 4 {
		t.Errorf("count = %d, want 4", got)
	}
}

func TestCombineCollections_NilPaths(t *testing.T) {
	ts, _ := newToolset(t)

	r, err := ts.CombineCollections(context.Background(), CombineCollectionsInput{})
	if err != nil {
		t.Fatalf("CombineCollections() = %v", err)
	}
	assertError(t, r, ErrCodeInvalidInput)
}

func TestSelectByGeometry(t *testing.T) {
	ts, dir := newToolset(t)
	writeDoc(t, dir, "parcels.geojson", parcelsFC)
	writeDoc(t, dir, "zones.geojson", zonesFC)

	// Default predicate is intersects; only the north parcel touches zone A.
	r, err := ts.SelectByGeometry(context.Background(), SelectByGeometryInput{
		SourcePath: "parcels.geojson",
		TargetPath: "zones.geojson",
	})
	if err != nil {
		t.Fatalf("SelectByGeometry() = %v", err)
	}
	data := dataMap(t, r)
	if got := data["count"].(int); got != 1 {
		t.Errorf("count = %d, want 1", got)
	}
	if _, ok := data["saved_to"]; ok {
		t.Error("saved_to present without output_name")
	}
}

func TestSelectByGeometry_SavesWhenAsked(t *testing.T) {
	ts, dir := newToolset(t)
	writeDoc(t, dir, "parcels.geojson", parcelsFC)
	writeDoc(t, dir, "zones.geojson", zonesFC)

	r, err := ts.SelectByGeometry(context.Background(), SelectByGeometryInput{
		SourcePath: "parcels.geojson",
		TargetPath: "zones.geojson",
		Predicate:  "intersects",
		OutputName: "selected.geojson",
	})
	if err != nil {
		t.Fatalf("SelectByGeometry() = %v", err)
	}
	data := dataMap(t, r)
	if _, ok := data["saved_to"]; !ok {
		t.Error("saved_to missing with output_name set")
	}
	if _, err := os.Stat(filepath.Join(dir, "selected.geojson")); err != nil {
		t.Errorf("saved file missing: %v", err)
	}
}

func TestSelectByGeometry_UnknownPredicate(t *testing.T) {
	ts, dir := newToolset(t)
	writeDoc(t, dir, "parcels.geojson", parcelsFC)
	writeDoc(t, dir, "zones.geojson", zonesFC)

	r, err := ts.SelectByGeometry(context.Background(), SelectByGeometryInput{
		SourcePath: "parcels.geojson",
		TargetPath: "zones.geojson",
		Predicate:  "near",
	})
	if err != nil {
		t.Fatalf("SelectByGeometry() = %v", err)
	}
	assertError(t, r, ErrCodeSpatialJoin)
}

func TestEnrichGeometry(t *testing.T) {
	ts, dir := newToolset(t)
	writeDoc(t, dir, "parcels.geojson", parcelsFC)

	r, err := ts.EnrichGeometry(context.Background(), EnrichGeometryInput{
		Path:        "parcels.geojson",
		AddCentroid: true,
		AddAreaM2:   true,
	})
	if err != nil {
		t.Fatalf("EnrichGeometry() = %v", err)
	}
	data := dataMap(t, r)
	if got := data["count"].(int); got != 3 {
		t.Errorf("count = %d, want 3", got)
	}
}

func TestEnrichGeometry_RequiresAFlag(t *testing.T) {
	ts, dir := newToolset(t)
	writeDoc(t, dir, "parcels.geojson", parcelsFC)

	r, err := ts.EnrichGeometry(context.Background(), EnrichGeometryInput{Path: "parcels.geojson"})
	if err != nil {
		t.Fatalf("EnrichGeometry() = %v", err)
	}
	assertError(t, r, ErrCodeInvalidInput)
}

func TestReprojectFeatures(t *testing.T) {
	ts, dir := newToolset(t)
	writeDoc(t, dir, "parcels.geojson", parcelsFC)

	r, err := ts.ReprojectFeatures(context.Background(), ReprojectFeaturesInput{
		Path:      "parcels.geojson",
		TargetCRS: "EPSG:3857",
	})
	if err != nil {
		t.Fatalf("ReprojectFeatures() = %v", err)
	}
	data := dataMap(t, r)
	if got := data["crs"].(string); got != "EPSG:3857" {
		t.Errorf("crs = %q, want EPSG:3857", got)
	}
}

func TestReprojectFeatures_UnknownCRS(t *testing.T) {
	ts, dir := newToolset(t)
	writeDoc(t, dir, "parcels.geojson", parcelsFC)

	r, err := ts.ReprojectFeatures(context.Background(), ReprojectFeaturesInput{
		Path:      "parcels.geojson",
		TargetCRS: "EPSG:2154",
	})
	if err != nil {
		t.Fatalf("ReprojectFeatures() = %v", err)
	}
	assertError(t, r, ErrCodeProjection)
}

func TestNewGeoToolset_Validation(t *testing.T) {
	store, err := storage.New(t.TempDir(), log.NewNop())
	if err != nil {
		t.Fatalf("storage.New() = %v", err)
	}

	if _, err := NewGeoToolset(nil, 10, log.NewNop()); err == nil {
		t.Error("nil store accepted")
	}
	if _, err := NewGeoToolset(store, 0, log.NewNop()); err == nil {
		t.Error("zero maxFeatures accepted")
	}
	if _, err := NewGeoToolset(store, 10, nil); err == nil {
		t.Error("nil logger accepted")
	}
}

func TestOperations_Table(t *testing.T) {
	ops := Operations()
	if len(ops) != 8 {
		t.Fatalf("len(Operations()) = %d, want 8", len(ops))
	}

	seen := make(map[string]bool)
	for _, op := range ops {
		if op.Name == "" || op.Description == "" {
			t.Errorf("operation %+v has an empty field", op)
		}
		if seen[op.Name] {
			t.Errorf("duplicate operation name %q", op.Name)
		}
		seen[op.Name] = true
	}

	for _, name := range []string{OpListFiles, OpQueryFeatures, OpTransform, OpAttributes,
		OpCombine, OpSelect, OpEnrich, OpReproject} {
		if !seen[name] {
			t.Errorf("operation %q missing from table", name)
		}
	}
}
