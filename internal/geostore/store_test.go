package geostore_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZaninAndrea/compactls/internal/geostore"
	"github.com/ZaninAndrea/compactls/pkg/compactls"
	"github.com/ZaninAndrea/compactls/pkg/geometry"
)

func openTestStore(t *testing.T) geostore.Store {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "geostore-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	store, err := geostore.Open(filepath.Join(tmpDir, "badger"))
	if err != nil {
		t.Fatalf("failed to open geostore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func mustCompact(t *testing.T, text string) compactls.CompLs {
	t.Helper()

	ls, err := geometry.ParseLineString(text)
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}

	compact, err := compactls.TryCompact7(ls)
	if err != nil {
		t.Fatalf("failed to compact fixture: %v", err)
	}

	return compact
}

func TestPutGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	labels := geostore.Labels{"region": "almaty", "kind": "road"}
	geom := mustCompact(t, "76.9615707 43.2746200, 76.9616699 43.2747688")

	if err := store.Put(ctx, labels, "way/261728404", geom); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := store.Get(ctx, labels, "way/261728404")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if !bytes.Equal(got.Bytes(), geom.Bytes()) {
		t.Errorf("stored and fetched encodings differ")
	}

	decoded, err := got.Linestring()
	if err != nil {
		t.Fatalf("fetched geometry failed to decode: %v", err)
	}
	if len(decoded) != 2 {
		t.Errorf("expected 2 points, got %d", len(decoded))
	}
}

func TestGetMissing(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	labels := geostore.Labels{"region": "almaty"}

	// Unknown layer
	_, err := store.Get(ctx, labels, "way/1")
	if !errors.Is(err, geostore.ErrFeatureNotFound) {
		t.Fatalf("expected ErrFeatureNotFound for unknown layer, got %v", err)
	}

	// Known layer, unknown feature
	if err := store.Put(ctx, labels, "way/2", mustCompact(t, "1 2")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	_, err = store.Get(ctx, labels, "way/1")
	if !errors.Is(err, geostore.ErrFeatureNotFound) {
		t.Fatalf("expected ErrFeatureNotFound for unknown feature, got %v", err)
	}
}

func TestListLayers(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	geom := mustCompact(t, "1 2, 3 4")
	layers := []geostore.Labels{
		{"region": "almaty", "kind": "road"},
		{"region": "almaty", "kind": "river"},
		{"region": "milano", "kind": "road"},
	}
	for i, labels := range layers {
		if err := store.Put(ctx, labels, fmt.Sprintf("way/%d", i), geom); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	almaty, err := store.ListLayers(ctx, geostore.Labels{"region": "almaty"})
	if err != nil {
		t.Fatalf("ListLayers failed: %v", err)
	}
	if len(almaty) != 2 {
		t.Fatalf("expected 2 almaty layers, got %d", len(almaty))
	}
	for _, l := range almaty {
		if l.Labels()["region"] != "almaty" {
			t.Errorf("layer %d has labels %v", l.ID(), l.Labels())
		}
	}

	roads, err := store.ListLayers(ctx, geostore.Labels{"kind": "road"})
	if err != nil {
		t.Fatalf("ListLayers failed: %v", err)
	}
	if len(roads) != 2 {
		t.Fatalf("expected 2 road layers, got %d", len(roads))
	}

	all, err := store.ListLayers(ctx, geostore.Labels{})
	if err != nil {
		t.Fatalf("ListLayers failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 layers, got %d", len(all))
	}
}

func TestFeatures(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	roadLabels := geostore.Labels{"kind": "road"}
	riverLabels := geostore.Labels{"kind": "river"}

	for i := 0; i < 25; i++ {
		labels := roadLabels
		if i%5 == 0 {
			labels = riverLabels
		}
		geom := mustCompact(t, fmt.Sprintf("%d %d, %d %d", i, i, i+1, i+1))
		if err := store.Put(ctx, labels, fmt.Sprintf("way/%03d", i), geom); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	roadLayers, err := store.ListLayers(ctx, roadLabels)
	if err != nil {
		t.Fatalf("ListLayers failed: %v", err)
	}
	if len(roadLayers) != 1 {
		t.Fatalf("expected 1 road layer, got %d", len(roadLayers))
	}

	count := 0
	for res := range store.Features(ctx, []uint64{roadLayers[0].ID()}) {
		if res.IsErr() {
			t.Fatalf("Features yielded error: %v", res.Err)
		}

		feature := res.Unwrap()
		if feature.LayerID != roadLayers[0].ID() {
			t.Errorf("feature %q has layer %d", feature.ID, feature.LayerID)
		}
		if _, err := feature.Geometry.Linestring(); err != nil {
			t.Errorf("feature %q failed to decode: %v", feature.ID, err)
		}
		count++
	}

	if count != 20 {
		t.Errorf("expected 20 road features, got %d", count)
	}
}

func TestOverwrite(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	labels := geostore.Labels{"kind": "road"}
	first := mustCompact(t, "1 1, 2 2")
	second := mustCompact(t, "1 1, 2 2, 3 3")

	if err := store.Put(ctx, labels, "way/1", first); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Put(ctx, labels, "way/1", second); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := store.Get(ctx, labels, "way/1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Size() != 3 {
		t.Errorf("expected the overwritten geometry with 3 points, got %d", got.Size())
	}
}
