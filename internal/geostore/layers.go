package geostore

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"maps"
	"slices"

	badger "github.com/dgraph-io/badger/v4"
)

const layerPrefix = "layer:"
const featurePrefix = "feat:"
const layerSeqKey = "layerSeq"

type layer struct {
	id     uint64
	labels Labels
}

func (l *layer) ID() uint64 {
	return l.id
}

func (l *layer) Labels() Labels {
	return l.labels
}

func marshalLabels(labels Labels) []byte {
	sortedKeys := slices.Collect(maps.Keys(labels))
	slices.Sort(sortedKeys)

	result := []byte(layerPrefix)
	for _, k := range sortedKeys {
		result = append(result, []byte(k+"="+labels[k]+";")...)
	}
	return result
}

func (s *store) ListLayers(ctx context.Context, labels Labels) ([]Layer, error) {
	// Iterate over all layers by prefix, filtering by labels
	var layers []Layer
	err := s.badger.View(func(txn *badger.Txn) error {
		prefix := []byte(layerPrefix)
		iter := txn.NewIterator(badger.IteratorOptions{
			Prefix: prefix,
		})
		defer iter.Close()

		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			item := iter.Item()
			key := item.Key()

			// Parse labels from key
			storedLabels := make(Labels)
			labelPart := key[len(prefix):]
			pairs := bytes.Split(labelPart, []byte(";"))
			for _, pair := range pairs {
				if len(pair) == 0 {
					continue
				}
				kv := bytes.SplitN(pair, []byte("="), 2)
				if len(kv) != 2 {
					continue
				}
				storedLabels[string(kv[0])] = string(kv[1])
			}

			// Check if all requested labels match
			matches := true
			for k, v := range labels {
				if storedLabels[k] != v {
					matches = false
					break
				}
			}
			if !matches {
				continue
			}

			// Get the layer ID
			var layerID uint64
			err := item.Value(func(val []byte) error {
				_id, n := binary.Uvarint(val)
				if n <= 0 {
					return fmt.Errorf("failed to decode varint for layer id")
				}
				layerID = _id
				return nil
			})
			if err != nil {
				return err
			}

			layers = append(layers, &layer{
				id:     layerID,
				labels: storedLabels,
			})
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return layers, nil
}

func getLayerID(labels Labels, txn *badger.Txn) (*uint64, error) {
	item, err := txn.Get(marshalLabels(labels))
	if err == badger.ErrKeyNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	var id uint64
	err = item.Value(func(val []byte) error {
		// Decode the varint
		_id, n := binary.Uvarint(val)
		if n <= 0 {
			return fmt.Errorf("failed to decode varint for layer id")
		}
		id = _id
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &id, nil
}

func createLayerID(labels Labels, txn *badger.Txn) (uint64, error) {
	layerID, err := getNextLayerID(txn)
	if err != nil {
		return 0, err
	}

	// Store the mapping from labels to id
	buf := make([]byte, binary.MaxVarintLen64)
	n := binary.PutUvarint(buf, layerID)
	err = txn.Set(marshalLabels(labels), buf[:n])
	if err != nil {
		return 0, err
	}

	return layerID, nil
}

func getNextLayerID(txn *badger.Txn) (uint64, error) {
	item, err := txn.Get([]byte(layerSeqKey))
	if err == badger.ErrKeyNotFound {
		err := txn.Set([]byte(layerSeqKey), []byte{1})
		if err != nil {
			return 0, err
		}

		return 1, nil
	}

	// Decode the varint
	var seq uint64
	err = item.Value(func(val []byte) error {
		_seq, n := binary.Uvarint(val)
		if n <= 0 {
			return fmt.Errorf("failed to decode varint for layer sequence")
		}
		seq = _seq
		return nil
	})
	if err != nil {
		return 0, err
	}

	// Increment and store back
	newSeq := seq + 1
	buf := make([]byte, binary.MaxVarintLen64)
	n := binary.PutUvarint(buf, newSeq)
	err = txn.Set([]byte(layerSeqKey), buf[:n])
	if err != nil {
		return 0, err
	}

	return newSeq, nil
}
