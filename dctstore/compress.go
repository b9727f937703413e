package dctstore

import (
	"compress/bzip2"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

// readerWrappedFile is an io.ReadCloser over an os.File wrapped in a
// decompressing reader: Read goes to the wrapper, Close to the file,
// with an optional extra cleanup for decoders that need one.
type readerWrappedFile struct {
	f       *os.File
	r       io.Reader
	cleanup func()
}

func (rc *readerWrappedFile) Read(p []byte) (int, error) {
	return rc.r.Read(p)
}

func (rc *readerWrappedFile) Close() error {
	if rc.cleanup != nil {
		rc.cleanup()
	}
	return rc.f.Close()
}

// openShardFile opens a shard file for reading, decompressing it
// based on the file extension. Plain files are returned as-is.
func openShardFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		r, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &readerWrappedFile{f: f, r: r}, nil
	case ".bz2":
		return &readerWrappedFile{f: f, r: bzip2.NewReader(f)}, nil
	case ".zst", ".zstd":
		r, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &readerWrappedFile{f: f, r: r, cleanup: r.Close}, nil
	case ".br":
		return &readerWrappedFile{f: f, r: brotli.NewReader(f)}, nil
	}
	return f, nil
}
