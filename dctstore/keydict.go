package dctstore

import (
	"fmt"
	"sort"

	"github.com/kjk/dcttxt"
)

// KeyDict is the transposed store structure: effective key to group
// name to item. Keys iterate in first-seen order, which is what keeps
// file content stable across a load / save cycle.
type KeyDict struct {
	keys  []string
	items map[string]map[string]*dcttxt.Item
}

func NewKeyDict() *KeyDict {
	return &KeyDict{
		items: map[string]map[string]*dcttxt.Item{},
	}
}

// Len returns the number of keys.
func (kd *KeyDict) Len() int {
	return len(kd.keys)
}

// Keys returns the keys in first-seen order. The slice is the
// KeyDict's own storage, callers must not modify it.
func (kd *KeyDict) Keys() []string {
	return kd.keys
}

// Item returns the item for (key, group), or nil.
func (kd *KeyDict) Item(key, group string) *dcttxt.Item {
	return kd.items[key][group]
}

// Items returns the live group → item map for key, nil when the key
// is unknown.
func (kd *KeyDict) Items(key string) map[string]*dcttxt.Item {
	return kd.items[key]
}

// GroupNames returns the sorted group names that hold key.
func (kd *KeyDict) GroupNames(key string) []string {
	return sortedMapKeys(kd.items[key])
}

// Set stores it under (key, group), replacing any previous item.
func (kd *KeyDict) Set(key, group string, it *dcttxt.Item) {
	byGroup, ok := kd.items[key]
	if !ok {
		byGroup = map[string]*dcttxt.Item{}
		kd.items[key] = byGroup
		kd.keys = append(kd.keys, key)
	}
	byGroup[group] = it
}

// Delete removes key from every group.
func (kd *KeyDict) Delete(key string) {
	if _, ok := kd.items[key]; !ok {
		return
	}
	delete(kd.items, key)
	for i, k := range kd.keys {
		if k == key {
			kd.keys = append(kd.keys[:i], kd.keys[i+1:]...)
			break
		}
	}
}

// AddItem stores it for group under its effective key. An item with
// neither key nor anchor gets a synthetic key so it is never silently
// dropped.
func (kd *KeyDict) AddItem(group string, it *dcttxt.Item) {
	key := it.EffectiveKey()
	if key == "" {
		key = fmt.Sprintf("\t~%d", kd.Len())
		it.Anchor = key
	}
	kd.Set(key, group, it)
}

// Merge merges the others into kd, item by item. A (key, group) pair
// present on both sides merges per the item merge rules, which can
// fail across value kinds.
func (kd *KeyDict) Merge(others ...*KeyDict) error {
	for _, other := range others {
		for _, key := range other.keys {
			byGroup := other.items[key]
			for _, name := range sortedMapKeys(byGroup) {
				it := byGroup[name]
				if prev := kd.Item(key, name); prev != nil {
					if err := prev.Merge(it); err != nil {
						return fmt.Errorf("group %q: %w", name, err)
					}
					continue
				}
				kd.Set(key, name, it)
			}
		}
	}
	return nil
}

func sortedMapKeys[V any](m map[string]V) []string {
	res := make([]string, 0, len(m))
	for k := range m {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}
