package dctstore

import "github.com/kjk/dcttxt"

// ToKeyIndexed transposes per-group content into a KeyDict. Groups
// are visited in sorted name order so key order is deterministic.
func ToKeyIndexed(groups map[string]*dcttxt.Group) *KeyDict {
	kd := NewKeyDict()
	for _, name := range sortedMapKeys(groups) {
		g := groups[name]
		for _, key := range g.Keys() {
			kd.Set(key, name, g.Get(key))
		}
	}
	return kd
}

// ToGroups is the inverse of ToKeyIndexed. Within each group, keys
// keep the relative order they have in kd.
func ToGroups(kd *KeyDict) map[string]*dcttxt.Group {
	return kd.groupsFor(kd.keys)
}

// groupsFor transposes the subset of kd selected by keys, keeping the
// given key order.
func (kd *KeyDict) groupsFor(keys []string) map[string]*dcttxt.Group {
	res := map[string]*dcttxt.Group{}
	for _, key := range keys {
		byGroup := kd.items[key]
		for _, name := range sortedMapKeys(byGroup) {
			g := res[name]
			if g == nil {
				g = dcttxt.NewGroup(name)
				res[name] = g
			}
			g.Set(key, byGroup[name])
		}
	}
	return res
}
