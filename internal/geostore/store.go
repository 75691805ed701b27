package geostore

import (
	"context"
	"encoding/binary"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/ZaninAndrea/compactls/pkg/compactls"
)

func Open(path string) (Store, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	badgerDB, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	newStore := &store{badger: badgerDB}

	go func() {
		for {
			err := newStore.badger.RunValueLogGC(0.7)
			if err == badger.ErrNoRewrite {
				time.Sleep(1 * time.Minute)
			} else if err != nil {
				break
			}
		}
	}()

	return newStore, nil
}

type store struct {
	badger *badger.DB
}

func (s *store) Close() error {
	return s.badger.Close()
}

// featureKey composes the key as feat:<layer id><feature id>. The uvarint
// layer id is self-delimiting, so one layer's prefix can never extend into
// another's.
func featureKey(layerID uint64, featureID string) []byte {
	key := append([]byte(featurePrefix), make([]byte, binary.MaxVarintLen64)...)
	n := binary.PutUvarint(key[len(featurePrefix):], layerID)
	key = key[:len(featurePrefix)+n]
	return append(key, featureID...)
}

func (s *store) Put(ctx context.Context, labels Labels, featureID string, geom compactls.CompLs) error {
	return s.badger.Update(func(txn *badger.Txn) error {
		id, err := getLayerID(labels, txn)
		if err != nil {
			return err
		}
		if id == nil {
			newID, err := createLayerID(labels, txn)
			if err != nil {
				return err
			}
			id = &newID
		}

		return txn.Set(featureKey(*id, featureID), geom.Bytes())
	})
}

func (s *store) Get(ctx context.Context, labels Labels, featureID string) (compactls.CompLs, error) {
	var geom compactls.CompLs
	err := s.badger.View(func(txn *badger.Txn) error {
		id, err := getLayerID(labels, txn)
		if err != nil {
			return err
		}
		if id == nil {
			return ErrFeatureNotFound
		}

		item, err := txn.Get(featureKey(*id, featureID))
		if err == badger.ErrKeyNotFound {
			return ErrFeatureNotFound
		} else if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			decoded, err := compactls.NewCompLs(val)
			if err != nil {
				return err
			}
			geom = decoded
			return nil
		})
	})
	if err != nil {
		return compactls.CompLs{}, err
	}

	return geom, nil
}
