package archive

import (
	"fmt"

	"github.com/ZaninAndrea/compactls/pkg/compactls"
)

// An archive stores a set of compacted line strings in a custom binary
// format which consists of two files:
// - The data file
// 	- For each block:
// 		- One LZ4-compressed chunk containing, for each record:
// 			- The record ID (string with length explicitly stated at the beginning)
// 			- The compact line string encoding (bytes)
// - The metadata file:
// 	- The format version (uint32)
// 	- The number of blocks (uvarint)
// 	- For each block:
// 		- The record count (uvarint)
// 		- The chunk offset in the data file (uint64)
// 		- The length of the compressed chunk (uint64)
// 		- The block bounding box (min x, min y, max x, max y as float64),
// 		  so readers can skip blocks that cannot intersect a query box
//
// Records are split into BLOCK_SIZE blocks, each chunk is compressed separately.

var ErrUnsupportedFormatVersion = fmt.Errorf("unsupported format version")

const FORMAT_VERSION uint32 = 1
const BLOCK_SIZE int = 1000

// Record pairs a compacted geometry with its identifier (e.g. an OSM way id).
type Record struct {
	ID       string
	Geometry compactls.CompLs
}
