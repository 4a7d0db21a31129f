package merge

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/erraggy/jsctools/internal/fileutil"
	"github.com/erraggy/jsctools/schemaerrors"
)

// AtomicWriter writes generated output via a temporary file and rename, so
// the destination is never observed half-written. A failed write leaves any
// previous content intact.
type AtomicWriter struct{}

// Write writes content to path atomically.
func (AtomicWriter) Write(path string, content []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return &schemaerrors.WriteError{
			Path:    path,
			Message: "cannot create temporary file",
			Cause:   err,
		}
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return &schemaerrors.WriteError{Path: path, Message: "write failed", Cause: err}
	}
	if err := tmp.Chmod(fileutil.ReadableByAll); err != nil {
		tmp.Close()
		return &schemaerrors.WriteError{Path: path, Message: "chmod failed", Cause: err}
	}
	if err := tmp.Close(); err != nil {
		return &schemaerrors.WriteError{Path: path, Message: "close failed", Cause: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		return &schemaerrors.WriteError{Path: path, Message: "rename failed", Cause: err}
	}
	return nil
}

// WriteIfNotExists writes content to path atomically, refusing when the
// destination already exists.
func (w AtomicWriter) WriteIfNotExists(path string, content []byte) error {
	if _, err := os.Stat(path); err == nil {
		return &schemaerrors.WriteError{
			Path:    path,
			Message: "destination already exists",
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return &schemaerrors.WriteError{Path: path, Message: "cannot stat destination", Cause: err}
	}
	return w.Write(path, content)
}
