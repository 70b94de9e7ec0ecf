package ir

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/arloliu/navdb/compress"
	"github.com/arloliu/navdb/errs"
	"github.com/arloliu/navdb/format"
)

// Marshal renders doc as indented JSON.
func Marshal(doc *NavigationData) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal IR: %w", err)
	}

	return append(data, '\n'), nil
}

// Unmarshal parses a JSON IR document.
func Unmarshal(data []byte) (*NavigationData, error) {
	doc := &NavigationData{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidIR, err)
	}

	return doc, nil
}

// WriteFile writes doc to path, compressed according to the path suffix.
// The file is written to a temporary name in the same directory and renamed
// into place, so an existing file is never left half-written.
//
// Parameters:
//   - path: Destination, e.g. "navdata.json" or "navdata.json.zst"
//   - doc: Document to write
//
// Returns:
//   - error: Marshal, compression or I/O error
func WriteFile(path string, doc *NavigationData) error {
	data, err := Marshal(doc)
	if err != nil {
		return err
	}

	codec, err := compress.GetCodec(format.CompressionFromPath(path))
	if err != nil {
		return err
	}
	packed, err := codec.Compress(data)
	if err != nil {
		return fmt.Errorf("compress IR: %w", err)
	}

	return WriteFileAtomic(path, packed)
}

// ReadFile reads an IR document from path, decompressing according to the path
// suffix.
func ReadFile(path string) (*NavigationData, error) {
	packed, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	codec, err := compress.GetCodec(format.CompressionFromPath(path))
	if err != nil {
		return nil, err
	}
	data, err := codec.Decompress(packed)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errs.ErrInvalidIR, path, err)
	}

	return Unmarshal(data)
}

// WriteFileAtomic writes data to a temporary file next to path and renames it
// over path.
func WriteFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck,gosec
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}
