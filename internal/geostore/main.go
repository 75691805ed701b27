package geostore

import (
	"context"
	"fmt"
	"iter"

	"github.com/ZaninAndrea/compactls/pkg/compactls"
	"github.com/ZaninAndrea/compactls/pkg/containers"
)

// Store is a persistent collection of compacted line strings grouped into
// layers. A layer is identified by its label set (e.g. region + kind); a
// feature is identified by a string ID inside its layer.
type Store interface {
	ListLayers(ctx context.Context, labels Labels) ([]Layer, error)
	Features(ctx context.Context, layers []uint64) iter.Seq[containers.Result[Feature]]

	Put(ctx context.Context, labels Labels, featureID string, geom compactls.CompLs) error
	Get(ctx context.Context, labels Labels, featureID string) (compactls.CompLs, error)

	Close() error
}

type Labels map[string]string

type Layer interface {
	ID() uint64
	Labels() Labels
}

type Feature struct {
	LayerID  uint64
	ID       string
	Geometry compactls.CompLs
}

var ErrFeatureNotFound = fmt.Errorf("feature not found")
