package archive

import (
	"bytes"
	"io"
	"os"
	"path"

	"github.com/ZaninAndrea/compactls/pkg/geometry"
)

type blockMetadata struct {
	RecordCount uint64
	Offset      uint64
	Length      uint64
	Min         geometry.Coord
	Max         geometry.Coord
}

type Writer struct {
	dataFile     StructuredWriter
	metadataFile StructuredWriter

	bufferedRecords []Record
	blocks          []blockMetadata
}

func NewWriter(dataFile, metadataFile io.WriteCloser) (*Writer, error) {
	writer := &Writer{
		dataFile:        StructuredWriter{w: dataFile},
		metadataFile:    StructuredWriter{w: metadataFile},
		bufferedRecords: []Record{},
		blocks:          []blockMetadata{},
	}

	err := writer.metadataFile.WriteUInt32(FORMAT_VERSION)
	if err != nil {
		return nil, err
	}

	return writer, nil
}

func NewWriterFS(folder, name string) (*Writer, error) {
	// Open the data and metadata files for writing
	dataFile, err := os.Create(path.Join(folder, name+".data.bin"))
	if err != nil {
		return nil, err
	}

	metadataFile, err := os.Create(path.Join(folder, name+".metadata.bin"))
	if err != nil {
		return nil, err
	}

	return NewWriter(dataFile, metadataFile)
}

func (w *Writer) Append(records ...Record) error {
	w.bufferedRecords = append(w.bufferedRecords, records...)

	for len(w.bufferedRecords) >= BLOCK_SIZE {
		if err := w.writeBlock(w.bufferedRecords[:BLOCK_SIZE]); err != nil {
			return err
		}
		w.bufferedRecords = w.bufferedRecords[BLOCK_SIZE:]
	}

	return nil
}

func (w *Writer) writeBlock(records []Record) error {
	startOffset := w.dataFile.Offset()

	// Serialize the records, then compress them as a single chunk
	var chunk bytes.Buffer
	chunkWriter := StructuredWriter{w: nopWriteCloser{&chunk}}
	for _, record := range records {
		if err := chunkWriter.WriteString(record.ID); err != nil {
			return err
		}
		if err := chunkWriter.WriteBytes(record.Geometry.Bytes()); err != nil {
			return err
		}
	}

	if err := w.dataFile.WriteLZ4(chunk.Bytes()); err != nil {
		return err
	}

	min, max, err := blockBounds(records)
	if err != nil {
		return err
	}

	w.blocks = append(w.blocks, blockMetadata{
		RecordCount: uint64(len(records)),
		Offset:      startOffset,
		Length:      w.dataFile.Offset() - startOffset,
		Min:         min,
		Max:         max,
	})

	return nil
}

// blockBounds returns the union of the bounding boxes of all the geometries
// in the block. A block made only of empty geometries has a zero box.
func blockBounds(records []Record) (min, max geometry.Coord, err error) {
	first := true
	for _, record := range records {
		ls, err := record.Geometry.Linestring()
		if err != nil {
			return geometry.Coord{}, geometry.Coord{}, err
		}
		if len(ls) == 0 {
			continue
		}

		recordMin, recordMax := ls.Bounds()
		if first {
			min, max = recordMin, recordMax
			first = false
			continue
		}

		if recordMin.X < min.X {
			min.X = recordMin.X
		}
		if recordMin.Y < min.Y {
			min.Y = recordMin.Y
		}
		if recordMax.X > max.X {
			max.X = recordMax.X
		}
		if recordMax.Y > max.Y {
			max.Y = recordMax.Y
		}
	}

	return min, max, nil
}

func (w *Writer) writeMetadataBlocks() error {
	if err := w.metadataFile.WriteUvarint(uint64(len(w.blocks))); err != nil {
		return err
	}

	for _, block := range w.blocks {
		if err := w.metadataFile.WriteUvarint(block.RecordCount); err != nil {
			return err
		}
		if err := w.metadataFile.WriteUInt64(block.Offset); err != nil {
			return err
		}
		if err := w.metadataFile.WriteUInt64(block.Length); err != nil {
			return err
		}

		for _, v := range []float64{block.Min.X, block.Min.Y, block.Max.X, block.Max.Y} {
			if err := w.metadataFile.WriteFloat64(v); err != nil {
				return err
			}
		}
	}

	return nil
}

func (w *Writer) Close() error {
	if len(w.bufferedRecords) > 0 {
		if err := w.writeBlock(w.bufferedRecords); err != nil {
			return err
		}
		w.bufferedRecords = nil
	}

	if err := w.writeMetadataBlocks(); err != nil {
		return err
	}

	// Flush and close the data and metadata files
	err := w.dataFile.Close()
	if err != nil {
		return err
	}

	err = w.metadataFile.Close()
	if err != nil {
		return err
	}

	return nil
}
