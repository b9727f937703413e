package dctstore

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/pretty"

	"github.com/kjk/dcttxt/atomicfile"
)

// InfoFileName is the per-directory manifest file.
const InfoFileName = "_dct_txt_info.json"

// ManifestEntry describes one shard file of a group: the first and
// last keyed line it holds and its total line count.
type ManifestEntry struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Total int    `json:"total"`
}

// Manifest maps a shard file's base name (group name plus optional
// __N suffix, without the .dct.txt extension) to its entry.
type Manifest map[string]ManifestEntry

// readManifest reads the manifest at path. A missing file is an empty
// manifest.
func readManifest(path string) (Manifest, error) {
	d, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Manifest{}, nil
	}
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(d, &m); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	if m == nil {
		m = Manifest{}
	}
	return m, nil
}

func writeManifest(path string, m Manifest) error {
	d, err := json.Marshal(m)
	if err != nil {
		return err
	}
	d = pretty.PrettyOptions(d, &pretty.Options{Width: 80, Indent: "    "})
	return atomicfile.WriteFile(path, d)
}
