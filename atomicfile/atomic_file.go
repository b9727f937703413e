package atomicfile

import (
	"errors"
	"io"
	"os"
	"path/filepath"
)

// Background on why the sync dance matters:
// - https://lwn.net/Articles/457667/
// - https://www.joeshaw.org/dont-defer-close-on-writable-files/

var (
	// ErrCancelled is returned by calls made after Cancel().
	ErrCancelled = errors.New("cancelled")

	_ io.WriteCloser = (*File)(nil)
)

// File writes into a temporary file in the destination's directory
// and moves it into place on Close. If anything fails before Close
// finishes, the destination is left untouched and the temporary file
// is removed.
type File struct {
	dst     string
	dir     string
	tmp     *os.File
	tmpPath string
	err     error
}

// New creates the temporary file next to path. The directory must
// exist, we fail early rather than after writing everything.
func New(path string) (*File, error) {
	dir, name := filepath.Split(path)
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrInvalid}
	}
	tmp, err := os.CreateTemp(dir, name+".tmp-*")
	if err != nil {
		return nil, err
	}
	return &File{
		dst:     path,
		dir:     dir,
		tmp:     tmp,
		tmpPath: tmp.Name(),
	}, nil
}

// setErr remembers the first error and discards the temporary file.
func (f *File) setErr(err error) error {
	if err == nil {
		return nil
	}
	if f.err == nil {
		f.err = err
	}
	_ = f.Close()
	return err
}

func (f *File) Write(d []byte) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	n, err := f.tmp.Write(d)
	return n, f.setErr(err)
}

func (f *File) WriteString(s string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	n, err := f.tmp.WriteString(s)
	return n, f.setErr(err)
}

// Cancel discards the temporary file without touching the
// destination. A no-op after Close, so `defer f.Cancel()` is a safe
// way to clean up on early returns and panics.
func (f *File) Cancel() {
	if f == nil || f.tmp == nil {
		return
	}
	f.err = ErrCancelled
	_ = f.Close()
}

// Close syncs the temporary file and renames it onto the destination.
// Calling it again is a no-op returning the first error.
func (f *File) Close() error {
	if f.tmp == nil {
		return f.err
	}
	tmp := f.tmp
	f.tmp = nil

	errSync := tmp.Sync()
	errClose := tmp.Close()

	renamed := false
	defer func() {
		if !renamed {
			_ = os.Remove(f.tmpPath)
		}
	}()

	if f.err != nil {
		return f.err
	}
	err := errSync
	if err == nil {
		err = errClose
	}
	if err == nil {
		// overwrites dst if it exists
		err = os.Rename(f.tmpPath, f.dst)
		renamed = err == nil
	}
	if renamed {
		// sync the directory entry so the rename survives a crash
		if d, errDir := os.Open(f.dir); errDir == nil {
			_ = d.Sync()
			_ = d.Close()
		}
	}
	f.err = err
	return f.err
}

// WriteFile writes data to path atomically.
func WriteFile(path string, data []byte) error {
	f, err := New(path)
	if err != nil {
		return err
	}
	defer f.Cancel()
	if _, err = f.Write(data); err != nil {
		return err
	}
	return f.Close()
}
