package dctstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroupName(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"songs.dct.txt", "songs"},
		{"songs__2.dct.txt", "songs"},
		{"songs__2.dct.txt.gz", "songs"},
		{"songs.dct.txt.zst", "songs"},
		{"a_b.dct.txt.br", "a_b"},
		// __ without digits is part of the name
		{"a__b.dct.txt", "a__b"},
		{"notes.txt", "unknown"},
		{"_dct_txt_info.json", "unknown"},
		{"songs.dct.txt.rar", "unknown"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, GroupName(tc.filename), "GroupName(%q)", tc.filename)
	}
}

func TestShardIndex(t *testing.T) {
	assert.Equal(t, 0, shardIndex("g.dct.txt"))
	assert.Equal(t, 2, shardIndex("g__2.dct.txt"))
	assert.Equal(t, 10, shardIndex("g__10.dct.txt.gz"))
	assert.Equal(t, 0, shardIndex("not-a-shard"))
}

func TestIsShardFile(t *testing.T) {
	assert.True(t, IsShardFile("g.dct.txt"))
	assert.True(t, IsShardFile("g__3.dct.txt.bz2"))
	assert.False(t, IsShardFile("_dct_txt_info.json"))
	assert.False(t, IsShardFile("g.dct.txt.bak"))
	assert.False(t, IsShardFile(".dct.txt"))
}

func TestBucketForKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"apple", "a"},
		{"Zebra", "z"},
		{"Éclair", "e"},
		{"Ärger", "a"},
		{"ﬁle", "f"},
		{"中文", "#"},
		{"42nd", "#"},
		{"²x", "#"},
		{"", "#"},
		{"_tag", "#"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, bucketForKey(tc.key), "bucketForKey(%q)", tc.key)
	}
}

func TestDefaultIndexMap(t *testing.T) {
	keys := []string{"ab", "ac", "ba", "Über"}

	// under the threshold everything stays in the root
	m := defaultIndexMap(keys, 10)
	assert.Equal(t, map[string][]string{"": keys}, m)

	m = defaultIndexMap(keys, 4)
	assert.Equal(t, map[string][]string{
		"a": {"ab", "ac"},
		"b": {"ba"},
		"u": {"Über"},
	}, m)
}
