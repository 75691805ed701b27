package archive

import (
	"bytes"
	"fmt"
	"io"
	"iter"
	"os"
	"path"

	"github.com/ZaninAndrea/compactls/pkg/compactls"
	"github.com/ZaninAndrea/compactls/pkg/containers"
	"github.com/ZaninAndrea/compactls/pkg/geometry"
)

type Reader struct {
	dataFile     StructuredReader
	metadataFile StructuredReader
	blockCount   uint64
	blocks       []blockMetadata
}

func NewReader(dataFile, metadataFile io.ReadSeekCloser) (*Reader, error) {
	reader := &Reader{
		dataFile:     StructuredReader{r: dataFile},
		metadataFile: StructuredReader{r: metadataFile},
	}

	err := reader.readMetadataHeader()
	if err != nil {
		return nil, err
	}

	return reader, nil
}

func NewReaderFS(folder, name string) (*Reader, error) {
	// Open the data and metadata files for reading
	dataFile, err := os.Open(path.Join(folder, name+".data.bin"))
	if err != nil {
		return nil, err
	}

	metadataFile, err := os.Open(path.Join(folder, name+".metadata.bin"))
	if err != nil {
		return nil, err
	}

	return NewReader(dataFile, metadataFile)
}

func (r *Reader) readMetadataHeader() error {
	formatVersion, err := r.metadataFile.ReadUInt32()
	if err != nil {
		return err
	}

	if formatVersion != FORMAT_VERSION {
		return ErrUnsupportedFormatVersion
	}

	blockCount, err := r.metadataFile.ReadUvarint()
	if err != nil {
		return err
	}
	r.blockCount = blockCount

	return nil
}

func (r *Reader) Close() error {
	// Close the data and metadata files
	err := r.dataFile.Close()
	if err != nil {
		return err
	}

	err = r.metadataFile.Close()
	if err != nil {
		return err
	}

	return nil
}

// blockMetadata returns the metadata for the i-th block.
// If available the metadata is returned from the cache, otherwise it is read from the metadata file and cached for future use.
func (r *Reader) blockMetadata(i int) (blockMetadata, error) {
	if i < 0 || i >= int(r.blockCount) {
		return blockMetadata{}, fmt.Errorf("block index out of range")
	}

	// Read the metadata file sequentially until we have the metadata for the requested block
	for j := len(r.blocks); j <= i; j++ {
		recordCount, err := r.metadataFile.ReadUvarint()
		if err != nil {
			return blockMetadata{}, err
		}

		offset, err := r.metadataFile.ReadUInt64()
		if err != nil {
			return blockMetadata{}, err
		}

		length, err := r.metadataFile.ReadUInt64()
		if err != nil {
			return blockMetadata{}, err
		}

		var box [4]float64
		for k := range box {
			box[k], err = r.metadataFile.ReadFloat64()
			if err != nil {
				return blockMetadata{}, err
			}
		}

		r.blocks = append(r.blocks, blockMetadata{
			RecordCount: recordCount,
			Offset:      offset,
			Length:      length,
			Min:         geometry.Coord{X: box[0], Y: box[1]},
			Max:         geometry.Coord{X: box[2], Y: box[3]},
		})
	}

	return r.blocks[i], nil
}

// Records returns an iterator over every record in the archive.
//
// It reads the data one block at a time and buffers the records in memory.
func (r *Reader) Records() iter.Seq[containers.Result[Record]] {
	return r.records(func(blockMetadata) bool { return true })
}

// RecordsIntersecting returns an iterator over the records in blocks whose
// bounding box intersects the query box. Filtering happens at block
// granularity: callers that need an exact intersection still have to check
// the decoded geometries.
func (r *Reader) RecordsIntersecting(min, max geometry.Coord) iter.Seq[containers.Result[Record]] {
	return r.records(func(block blockMetadata) bool {
		return block.Min.X <= max.X && block.Max.X >= min.X &&
			block.Min.Y <= max.Y && block.Max.Y >= min.Y
	})
}

func (r *Reader) records(includeBlock func(blockMetadata) bool) iter.Seq[containers.Result[Record]] {
	return func(yield func(containers.Result[Record]) bool) {
		for blockIndex := 0; blockIndex < int(r.blockCount); blockIndex++ {
			blockMeta, err := r.blockMetadata(blockIndex)
			if err != nil {
				yield(containers.Err[Record](err))
				return
			}

			if !includeBlock(blockMeta) {
				continue
			}

			records, err := r.readBlockRecords(blockMeta)
			if err != nil {
				yield(containers.Err[Record](err))
				return
			}

			for _, record := range records {
				if !yield(containers.Ok(record)) {
					return
				}
			}
		}
	}
}

// readBlockRecords decompresses one block's chunk and parses its records.
func (r *Reader) readBlockRecords(blockMeta blockMetadata) ([]Record, error) {
	chunkReader, err := r.getChunkReader(blockMeta)
	if err != nil {
		return nil, err
	}
	defer chunkReader.Close()

	data, err := chunkReader.ReadLZ4()
	if err != nil {
		return nil, err
	}

	blockReader := StructuredReader{r: byteReadCloser{Reader: bytes.NewReader(data)}}
	records := make([]Record, 0, blockMeta.RecordCount)
	for i := uint64(0); i < blockMeta.RecordCount; i++ {
		id, err := blockReader.ReadString()
		if err != nil {
			return nil, err
		}

		raw, err := blockReader.ReadBytes()
		if err != nil {
			return nil, err
		}

		compact, err := compactls.NewCompLs(raw)
		if err != nil {
			return nil, fmt.Errorf("record %q: %w", id, err)
		}

		records = append(records, Record{ID: id, Geometry: compact})
	}

	return records, nil
}

func (r *Reader) getChunkReader(blockMeta blockMetadata) (*StructuredReader, error) {
	if _, err := r.dataFile.Seek(int64(blockMeta.Offset), io.SeekStart); err != nil {
		return nil, err
	}

	data := make([]byte, blockMeta.Length)
	if _, err := io.ReadFull(&r.dataFile, data); err != nil {
		return nil, err
	}

	return &StructuredReader{r: byteReadCloser{Reader: bytes.NewReader(data)}}, nil
}
