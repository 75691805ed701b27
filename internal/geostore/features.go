package geostore

import (
	"context"
	"encoding/binary"
	"iter"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/ZaninAndrea/compactls/pkg/compactls"
	"github.com/ZaninAndrea/compactls/pkg/containers"
)

// Features returns an iterator over every feature of the given layers, in
// layer order and then feature-ID order. Errors are yielded through the
// sequence and terminate it.
func (s *store) Features(ctx context.Context, layers []uint64) iter.Seq[containers.Result[Feature]] {
	return func(yield func(containers.Result[Feature]) bool) {
		err := s.badger.View(func(txn *badger.Txn) error {
			for _, layerID := range layers {
				if ctx.Err() != nil {
					return ctx.Err()
				}

				// Compose the prefix for the layer ID
				prefix := append([]byte(featurePrefix), make([]byte, binary.MaxVarintLen64)...)
				n := binary.PutUvarint(prefix[len(featurePrefix):], layerID)
				prefix = prefix[:len(featurePrefix)+n]

				iter := txn.NewIterator(badger.IteratorOptions{
					Prefix: prefix,
				})
				defer iter.Close()
				for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
					item := iter.Item()
					featureID := string(item.Key()[len(prefix):])

					var geom compactls.CompLs
					err := item.Value(func(val []byte) error {
						decoded, err := compactls.NewCompLs(val)
						if err != nil {
							return err
						}
						geom = decoded
						return nil
					})
					if err != nil {
						return err
					}

					feature := Feature{
						LayerID:  layerID,
						ID:       featureID,
						Geometry: geom,
					}

					if !yield(containers.Ok(feature)) {
						return nil
					}
				}
			}

			return nil
		})
		if err != nil {
			yield(containers.Err[Feature](err))
		}
	}
}
