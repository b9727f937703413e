package dctstore

import (
	"unicode"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/text/unicode/norm"
)

// defaultIndexMap buckets keys by first letter once there are at
// least threshold of them; below that everything stays in the store
// root (bucket "").
func defaultIndexMap(keys []string, threshold int) map[string][]string {
	if len(keys) < threshold {
		return map[string][]string{"": keys}
	}
	res := map[string][]string{}
	for _, key := range keys {
		b := bucketForKey(key)
		res[b] = append(res[b], key)
	}
	return res
}

// bucketCache keeps the per-rune bucket, the same few letters repeat
// for every key.
var bucketCache, _ = lru.New[rune, string](128)

func bucketForKey(key string) string {
	r, size := utf8.DecodeRuneInString(key)
	if size == 0 {
		return "#"
	}
	if b, ok := bucketCache.Get(r); ok {
		return b
	}
	b := bucketForRune(r)
	bucketCache.Add(r, b)
	return b
}

// bucketForRune folds the rune down to a plain letter: decompose,
// drop combining marks, lowercase. Anything that does not reduce to
// an ascii letter buckets under "#".
func bucketForRune(r rune) string {
	s := norm.NFKD.String(string(r))
	for _, c := range s {
		if unicode.Is(unicode.Mn, c) {
			continue
		}
		switch {
		case c >= 'a' && c <= 'z':
			return string(c)
		case c >= 'A' && c <= 'Z':
			return string(c + ('a' - 'A'))
		}
		break
	}
	return "#"
}
