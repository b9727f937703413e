package dctstore

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar"

	"github.com/kjk/dcttxt"
)

// shardPatterns are the shard file shapes Load discovers, compressed
// variants included. Save only ever writes the plain form.
var shardPatterns = []string{
	"*.dct.txt",
	"*.dct.txt.gz",
	"*.dct.txt.bz2",
	"*.dct.txt.zst",
	"*.dct.txt.zstd",
	"*.dct.txt.br",
}

// Load reads every shard file under the store directory and returns
// the transposed KeyDict. Groups that fail to parse are skipped and
// their errors aggregated; the returned KeyDict holds everything that
// did parse, so one bad file does not hide the rest of the store.
func (s *Store) Load() (*KeyDict, error) {
	st, err := os.Stat(s.Dir)
	if os.IsNotExist(err) {
		return NewKeyDict(), nil
	}
	if err != nil {
		return NewKeyDict(), err
	}

	var shards []string
	var errs []error
	if st.IsDir() {
		shards, err = s.discoverShards()
		if err != nil {
			errs = append(errs, err)
		}
		if err := s.readManifests(); err != nil {
			errs = append(errs, err)
		}
	} else if IsShardFile(filepath.Base(s.Dir)) {
		shards = []string{s.Dir}
	}

	byGroup := map[string][]string{}
	for _, path := range shards {
		name := GroupName(filepath.Base(path))
		byGroup[name] = append(byGroup[name], path)
	}

	groups := map[string]*dcttxt.Group{}
	for _, name := range sortedMapKeys(byGroup) {
		files := byGroup[name]
		sort.SliceStable(files, func(i, j int) bool {
			return shardIndex(filepath.Base(files[i])) < shardIndex(filepath.Base(files[j]))
		})
		g, err := s.loadGroup(name, files)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if g.Len() == 0 {
			continue
		}
		groups[name] = g
	}
	return ToKeyIndexed(groups), errors.Join(errs...)
}

// loadGroup folds the group's shard files, in order, through one
// builder so anchors and buffered comments carry across shard
// boundaries.
func (s *Store) loadGroup(name string, files []string) (*dcttxt.Group, error) {
	b := s.Codec.NewGroupBuilder(name)
	for _, path := range files {
		s.readFiles[path] = true
		if err := addFileLines(b, path); err != nil {
			return nil, err
		}
	}
	return b.Finish()
}

func addFileLines(b *dcttxt.GroupBuilder, path string) error {
	rc, err := openShardFile(path)
	if err != nil {
		return err
	}
	defer rc.Close()
	b.SetFile(path)
	sc := bufio.NewScanner(rc)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		if err := b.AddLine(sc.Text()); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func (s *Store) discoverShards() ([]string, error) {
	var res []string
	for _, pat := range shardPatterns {
		matches, err := doublestar.Glob(filepath.Join(s.Dir, "**", pat))
		if err != nil {
			return res, err
		}
		res = append(res, matches...)
	}
	sort.Strings(res)
	return res, nil
}

// readManifests picks up every per-directory manifest so callers can
// see shard boundaries without re-reading the files. The manifests
// count as read files, a later Clean removes the stale ones.
func (s *Store) readManifests() error {
	matches, err := doublestar.Glob(filepath.Join(s.Dir, "**", InfoFileName))
	if err != nil {
		return err
	}
	var errs []error
	for _, path := range matches {
		s.readFiles[path] = true
		m, err := readManifest(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		s.manifests[s.bucketOf(filepath.Dir(path))] = m
	}
	return errors.Join(errs...)
}

// bucketOf turns an index directory path into its bucket name, ""
// for the store root.
func (s *Store) bucketOf(dir string) string {
	rel, err := filepath.Rel(s.Dir, dir)
	if err != nil || rel == "." {
		return ""
	}
	return rel
}
