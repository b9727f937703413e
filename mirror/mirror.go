// Package mirror copies a dct.txt store directory to and from an
// S3-compatible bucket. Only store files travel: shard files and the
// per-directory manifests, everything else in the directory is left
// alone. Shards can be brotli-compressed on push; the store loader
// reads the .br files directly, so a pulled mirror needs no unpack
// step.
package mirror

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/kjk/dcttxt/atomicfile"
	"github.com/kjk/dcttxt/dctstore"
)

type Config struct {
	Access   string
	Secret   string
	Bucket   string
	Endpoint string
	Region   string
	// Brotli compresses shard files on push, adding a .br extension
	// the store loader understands. Manifests stay plain.
	Brotli       bool
	RequestTrace io.Writer
}

type Client struct {
	Client *minio.Client
	config *Config
	Bucket string
}

func New(config *Config) (*Client, error) {
	if config == nil {
		return nil, errors.New("must provide config")
	}
	c := config
	if c.Access == "" || c.Secret == "" || c.Bucket == "" || c.Endpoint == "" {
		return nil, errors.New("must provide all fields in config")
	}

	mc, err := minio.New(c.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(c.Access, c.Secret, ""),
		Region: c.Region,
		Secure: true,
	})
	if err != nil {
		return nil, err
	}
	if c.RequestTrace != nil {
		mc.TraceOn(c.RequestTrace)
	}
	found, err := mc.BucketExists(ctx(), c.Bucket)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("bucket '%s' doesn't exist", c.Bucket)
	}

	return &Client{
		Client: mc,
		config: config,
		Bucket: config.Bucket,
	}, nil
}

func ctx() context.Context {
	return context.Background()
}

// isStoreFile reports whether a file belongs to a store: a shard file
// or a manifest.
func isStoreFile(name string) bool {
	return dctstore.IsShardFile(name) || name == dctstore.InfoFileName
}

// Push uploads the store under localDir to remotePrefix, mirroring
// the directory layout. Non-store files are skipped.
func (c *Client) Push(localDir, remotePrefix string) error {
	return filepath.WalkDir(localDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isStoreFile(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(localDir, p)
		if err != nil {
			return err
		}
		remotePath := path.Join(remotePrefix, filepath.ToSlash(rel))
		if c.config.Brotli && dctstore.IsShardFile(d.Name()) && !strings.HasSuffix(d.Name(), ".br") {
			err = c.uploadFileBrotli(remotePath+".br", p)
		} else {
			err = c.uploadFile(remotePath, p)
		}
		if err != nil {
			return fmt.Errorf("upload of '%s' as '%s' failed with '%s'", p, remotePath, err)
		}
		return nil
	})
}

// Pull downloads the store under remotePrefix into localDir,
// mirroring the remote layout. Each file is written atomically so an
// interrupted pull never leaves a truncated shard.
func (c *Client) Pull(localDir, remotePrefix string) error {
	prefix := remotePrefix
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	// cancelling the listing stops its goroutine when we return early
	cctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	for obj := range c.list(cctx, prefix) {
		if obj.Err != nil {
			return obj.Err
		}
		rel := strings.TrimPrefix(obj.Key, prefix)
		if rel == "" || strings.Contains(rel, "..") {
			continue
		}
		if !isStoreFile(path.Base(rel)) {
			continue
		}
		dst := filepath.Join(localDir, filepath.FromSlash(rel))
		if err := c.downloadFileAtomically(cctx, dst, obj.Key); err != nil {
			return fmt.Errorf("download of '%s' to '%s' failed with '%s'", obj.Key, dst, err)
		}
	}
	return nil
}

// List lists the remote objects under prefix. The caller must drain
// the channel.
func (c *Client) List(prefix string) <-chan minio.ObjectInfo {
	return c.list(ctx(), prefix)
}

func (c *Client) list(cctx context.Context, prefix string) <-chan minio.ObjectInfo {
	opts := minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}
	return c.Client.ListObjects(cctx, c.Bucket, opts)
}

func (c *Client) Exists(remotePath string) bool {
	_, err := c.Client.StatObject(ctx(), c.Bucket, remotePath, minio.StatObjectOptions{})
	return err == nil
}

func (c *Client) Remove(remotePath string) error {
	return c.Client.RemoveObject(ctx(), c.Bucket, remotePath, minio.RemoveObjectOptions{})
}

// RemoveAll removes every remote object under prefix.
func (c *Client) RemoveAll(prefix string) error {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	cctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	for obj := range c.list(cctx, prefix) {
		if obj.Err != nil {
			return obj.Err
		}
		if err := c.Client.RemoveObject(cctx, c.Bucket, obj.Key, minio.RemoveObjectOptions{}); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) uploadFile(remotePath string, localPath string) error {
	opts := minio.PutObjectOptions{
		ContentType: mime.TypeByExtension(filepath.Ext(remotePath)),
	}
	_, err := c.Client.FPutObject(ctx(), c.Bucket, remotePath, localPath, opts)
	return err
}

func (c *Client) uploadFileBrotli(remotePath string, localPath string) error {
	d, err := brotliCompress(localPath)
	if err != nil {
		return err
	}
	opts := minio.PutObjectOptions{}
	r := bytes.NewReader(d)
	_, err = c.Client.PutObject(ctx(), c.Bucket, remotePath, r, int64(len(d)), opts)
	return err
}

func (c *Client) downloadFileAtomically(cctx context.Context, dstPath string, remotePath string) error {
	obj, err := c.Client.GetObject(cctx, c.Bucket, remotePath, minio.GetObjectOptions{})
	if err != nil {
		return err
	}
	defer obj.Close()

	if err = os.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
		return err
	}
	f, err := atomicfile.New(dstPath)
	if err != nil {
		return err
	}
	defer f.Cancel()
	if _, err = io.Copy(f, obj); err != nil {
		return err
	}
	return f.Close()
}

func brotliCompress(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var buf bytes.Buffer
	w := brotli.NewWriterLevel(&buf, brotli.BestCompression)
	if _, err = io.Copy(w, f); err != nil {
		return nil, err
	}
	if err = w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
