package dump

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goodnatureofminers/blockinsight7000-jsondump/internal/jsondump/model"
)

// BlocksFileName is the name of the document written into the dump folder.
const BlocksFileName = "blocks.json"

var (
	// ErrWrite marks failures to create, write or move the output file.
	ErrWrite = errors.New("write blocks file")
	// ErrEncode marks failures to serialize a record.
	ErrEncode = errors.New("encode blocks")
)

// FileExporter writes all block records as one JSON array to dir/blocks.json.
type FileExporter struct {
	dir string
}

// NewFileExporter creates an exporter writing into dir. The directory must exist.
func NewFileExporter(dir string) *FileExporter {
	return &FileExporter{dir: dir}
}

// Path returns the destination file path.
func (e *FileExporter) Path() string {
	return filepath.Join(e.dir, BlocksFileName)
}

// Export encodes blocks into a temporary file next to the destination and renames
// it into place, so blocks.json is either complete or untouched.
func (e *FileExporter) Export(blocks []model.BlockRecord) (err error) {
	if blocks == nil {
		blocks = []model.BlockRecord{}
	}

	tmp, err := os.CreateTemp(e.dir, BlocksFileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file in %s: %w", ErrWrite, e.dir, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	w := bufio.NewWriter(tmp)
	if err = json.NewEncoder(w).Encode(blocks); err != nil {
		if isEncodeError(err) {
			return fmt.Errorf("%w: %w", ErrEncode, err)
		}
		return fmt.Errorf("%w: write %s: %w", ErrWrite, tmpPath, err)
	}
	if err = w.Flush(); err != nil {
		return fmt.Errorf("%w: flush %s: %w", ErrWrite, tmpPath, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("%w: sync %s: %w", ErrWrite, tmpPath, err)
	}
	if err = tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("%w: chmod %s: %w", ErrWrite, tmpPath, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrWrite, tmpPath, err)
	}
	if err = os.Rename(tmpPath, e.Path()); err != nil {
		return fmt.Errorf("%w: rename to %s: %w", ErrWrite, e.Path(), err)
	}
	return nil
}

func isEncodeError(err error) bool {
	var (
		marshalerErr   *json.MarshalerError
		unsupportedTyp *json.UnsupportedTypeError
		unsupportedVal *json.UnsupportedValueError
	)
	return errors.As(err, &marshalerErr) ||
		errors.As(err, &unsupportedTyp) ||
		errors.As(err, &unsupportedVal)
}
