// Package fsutil writes output files without leaving partial content behind.
package fsutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

const filePerm = 0o644

// ErrFS wraps the errors WriteFile gets from the filesystem itself, as opposed
// to the ones returned by the io.WriterTo.
var ErrFS = errors.New("filesystem failure")

// WriterToWrapper helps wrapping lambdas into io.WriterTo.
type WriterToWrapper func(w io.Writer) (int64, error)

// WriteTo implements io.WriterTo.
func (w WriterToWrapper) WriteTo(writer io.Writer) (int64, error) {
	return w(writer)
}

// countingWriter counts bytes written through it.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// Func wraps a function that only reports an error into io.WriterTo.
func Func(f func(w io.Writer) error) io.WriterTo {
	return WriterToWrapper(func(w io.Writer) (int64, error) {
		cw := &countingWriter{w: w}
		err := f(cw)
		return cw.n, err
	})
}

// WriteFile writes src into a temporary file next to path, then renames it
// to path.
//
// An existing file at path is replaced only when the whole write succeeded.
// On any error the temporary file is removed. Errors from src are returned
// wrapped as-is, all other errors wrap ErrFS.
func WriteFile(path string, src io.WriterTo) (n int64, err error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return 0, fmt.Errorf("fsutil.WriteFile: %w: unable to generate uuid: %w", ErrFS, err)
	}
	dir, base := filepath.Split(path)
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", base, id))
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		return 0, fmt.Errorf("fsutil.WriteFile: %w: unable to create %q: %w", ErrFS, path, err)
	}
	closed := false
	defer func() {
		if err == nil {
			return
		}
		if !closed {
			f.Close()
		}
		os.Remove(tmp)
	}()

	if n, err = src.WriteTo(f); err != nil {
		return n, fmt.Errorf("fsutil.WriteFile: unable to write %q: %w", path, err)
	}
	closed = true
	if err = f.Close(); err != nil {
		return n, fmt.Errorf("fsutil.WriteFile: %w: unable to close %q: %w", ErrFS, path, err)
	}
	if err = os.Rename(tmp, path); err != nil {
		return n, fmt.Errorf("fsutil.WriteFile: %w: unable to rename to %q: %w", ErrFS, path, err)
	}
	return n, nil
}
