package chunkdiff

import (
	"os"

	"github.com/edsrzf/mmap-go"

	"github.com/SDICurie/main/errs"
)

// mappedFile is a read-only memory-mapped view of one input image,
// per spec §4.3 step 1.
type mappedFile struct {
	f   *os.File
	mem mmap.MMap
}

func mapFile(path string) (*mappedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.KindIo, path, err)
	}

	mem, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()

		return nil, errs.Wrap(errs.KindIo, path, err)
	}

	return &mappedFile{f: f, mem: mem}, nil
}

func (m *mappedFile) bytes() []byte { return m.mem }

func (m *mappedFile) close() error {
	err := m.mem.Unmap()
	if cerr := m.f.Close(); err == nil {
		err = cerr
	}

	return err
}
