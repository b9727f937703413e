package dctstore

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/kjk/dcttxt"
)

// shard file name: <group>[__<n>].dct.txt, optionally compressed
var groupNameRe = regexp.MustCompile(`^(.+?)(?:__(\d+))?\.dct\.txt(?:\.(?:gz|bz2|zst|zstd|br))?$`)

// GroupName extracts the group name from a shard file name, e.g.
// "songs__2.dct.txt.gz" → "songs". Names that do not look like shard
// files map to "unknown".
func GroupName(filename string) string {
	m := groupNameRe.FindStringSubmatch(filename)
	if m == nil {
		return "unknown"
	}
	return m[1]
}

// shardIndex returns the numeric __N suffix of a shard file name, 0
// when absent. Shards order by this number, not lexically, so that
// __10 sorts after __2.
func shardIndex(filename string) int {
	m := groupNameRe.FindStringSubmatch(filename)
	if m == nil || m[2] == "" {
		return 0
	}
	n, _ := strconv.Atoi(m[2])
	return n
}

// IsShardFile reports whether filename looks like a shard file,
// compressed or not.
func IsShardFile(filename string) bool {
	return groupNameRe.MatchString(filename)
}

// Store reads and writes one dct.txt directory.
type Store struct {
	// Dir is the store root. It may also point at a single .dct.txt
	// file, which Load then treats as a one-group store.
	Dir string

	// IndexThreshold is the key count at which Save starts bucketing
	// keys into per-letter subdirectories. 0 means the default.
	IndexThreshold int
	// BatchSize is the maximum number of lines per shard file. 0
	// means the default.
	BatchSize int
	// Codec parses and serializes the files. nil means a default
	// codec.
	Codec *dcttxt.Codec
	// IndexMap overrides the key → bucket policy. The returned map
	// goes from bucket (subdirectory, "" is the root) to the keys
	// stored there.
	IndexMap func(keys []string) map[string][]string

	readFiles  map[string]bool
	savedFiles map[string]bool
	manifests  map[string]Manifest
}

// OpenStore validates s and fills in defaults.
func OpenStore(s *Store) error {
	if s.Dir == "" {
		return fmt.Errorf("store directory is not set. For current directory, use '.'")
	}
	if s.IndexThreshold == 0 {
		s.IndexThreshold = 1000
	}
	if s.BatchSize == 0 {
		s.BatchSize = 5000
	}
	if s.Codec == nil {
		s.Codec = dcttxt.NewCodec()
	}
	s.readFiles = map[string]bool{}
	s.savedFiles = map[string]bool{}
	s.manifests = map[string]Manifest{}
	return nil
}

func (s *Store) indexMap(keys []string) map[string][]string {
	if s.IndexMap != nil {
		return s.IndexMap(keys)
	}
	return defaultIndexMap(keys, s.IndexThreshold)
}

// ReadFiles returns the files the last Load visited, sorted.
func (s *Store) ReadFiles() []string {
	return sortedMapKeys(s.readFiles)
}

// SavedFiles returns the files the last Save wrote, sorted.
func (s *Store) SavedFiles() []string {
	return sortedMapKeys(s.savedFiles)
}

// Manifests returns the per-bucket manifests, keyed by bucket ("" is
// the store root). Load fills them from disk, Save keeps them
// current.
func (s *Store) Manifests() map[string]Manifest {
	return s.manifests
}
