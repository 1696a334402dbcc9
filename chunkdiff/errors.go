package chunkdiff

import (
	"fmt"

	"github.com/SDICurie/main/errs"
)

func invalidChunkSize(size int) error {
	return errs.New(errs.KindInvalidConfig, fmt.Sprintf("chunk_size must be > 0, got %d", size))
}

func invalidThreadCount(n int) error {
	return errs.New(errs.KindInvalidConfig, fmt.Sprintf("threads must be > 0, got %d", n))
}

// MaxChunks is the largest number of chunks a diff stream can address,
// since Id is a signed 16-bit field on the wire (spec §9 Open Questions).
const MaxChunks = 32767
