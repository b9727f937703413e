package dctstore

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kjk/dcttxt"
	"github.com/kjk/dcttxt/atomicfile"
)

// Save partitions kd into index buckets, transposes each bucket back
// to groups and writes one or more shard files per group, splitting at
// the batch size. Each index directory gets its manifest updated with
// the shards written into it.
func (s *Store) Save(kd *KeyDict) error {
	indexMap := s.indexMap(kd.Keys())
	for _, bucket := range sortedMapKeys(indexMap) {
		keys := indexMap[bucket]
		if len(keys) == 0 {
			continue
		}
		dir := filepath.Join(s.Dir, bucket)
		groups := kd.groupsFor(keys)
		updates := Manifest{}
		for _, name := range sortedMapKeys(groups) {
			g := groups[name]
			lines, err := s.Codec.RenderGroupLines(g)
			if err != nil {
				return fmt.Errorf("group %q: %w", name, err)
			}
			if len(lines) == 0 {
				continue
			}
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}
			outName := name
			if outName == "" {
				outName = "default"
			}
			for i, batch := range batchLines(lines, s.BatchSize) {
				base := outName
				if i > 0 {
					base = fmt.Sprintf("%s__%d", outName, i)
				}
				path := filepath.Join(dir, base+".dct.txt")
				if err := writeShard(path, batch); err != nil {
					return err
				}
				s.savedFiles[path] = true
				updates[base] = ManifestEntry{
					Start: firstLineKey(batch),
					End:   lastLineKey(batch),
					Total: len(batch),
				}
			}
		}
		if len(updates) == 0 {
			continue
		}
		infoPath := filepath.Join(dir, InfoFileName)
		m, err := readManifest(infoPath)
		if err != nil {
			// an unreadable manifest is rebuilt, not fatal
			m = Manifest{}
		}
		for k, v := range updates {
			m[k] = v
		}
		if err := writeManifest(infoPath, m); err != nil {
			return err
		}
		s.savedFiles[infoPath] = true
		s.manifests[bucket] = m
	}
	return nil
}

func writeShard(path string, lines []dcttxt.Line) error {
	f, err := atomicfile.New(path)
	if err != nil {
		return err
	}
	defer f.Cancel()
	bw := bufio.NewWriter(f)
	if err := dcttxt.WriteLines(bw, lines); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return f.Close()
}

// batchLines splits rendered lines into shard-sized runs. A shard may
// only begin at a keyed item start, so anchored lines and leading
// comments never open a file; a shard can run past size to honor
// that.
func batchLines(lines []dcttxt.Line, size int) [][]dcttxt.Line {
	if size <= 0 || len(lines) <= size {
		return [][]dcttxt.Line{lines}
	}
	var res [][]dcttxt.Line
	start := 0
	for start < len(lines) {
		end := start + size
		if end >= len(lines) {
			res = append(res, lines[start:])
			break
		}
		for end < len(lines) && !(lines[end].ItemStart && lines[end].Keyed) {
			end++
		}
		res = append(res, lines[start:end])
		start = end
	}
	return res
}

func firstLineKey(lines []dcttxt.Line) string {
	for _, ln := range lines {
		if ln.Key != "" {
			return ln.Key
		}
	}
	return ""
}

func lastLineKey(lines []dcttxt.Line) string {
	for i := len(lines) - 1; i >= 0; i-- {
		if lines[i].Key != "" {
			return lines[i].Key
		}
	}
	return ""
}
