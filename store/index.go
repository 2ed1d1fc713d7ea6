/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package store

import "slices"

// idSet is an insertion-ordered set of token ids.
//
// ids holds members in insertion order, with "" marking removed slots;
// pos maps each live id to its slot. Removal is O(1); the slice is
// compacted once tombstones outnumber live members.
type idSet struct {
	ids  []string
	pos  map[string]int
	dead int
}

func newIDSet() *idSet {
	return &idSet{pos: make(map[string]int)}
}

func (s *idSet) add(id string) bool {
	if _, ok := s.pos[id]; ok {
		return false
	}
	s.pos[id] = len(s.ids)
	s.ids = append(s.ids, id)
	return true
}

func (s *idSet) remove(id string) bool {
	i, ok := s.pos[id]
	if !ok {
		return false
	}
	delete(s.pos, id)
	s.ids[i] = ""
	s.dead++
	if s.dead > 16 && s.dead > len(s.pos) {
		s.compact()
	}
	return true
}

func (s *idSet) compact() {
	live := make([]string, 0, len(s.pos))
	for _, id := range s.ids {
		if id != "" {
			s.pos[id] = len(live)
			live = append(live, id)
		}
	}
	s.ids = live
	s.dead = 0
}

func (s *idSet) len() int {
	return len(s.pos)
}

// members returns the live ids in insertion order.
func (s *idSet) members() []string {
	out := make([]string, 0, len(s.pos))
	for _, id := range s.ids {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}

// index maps a key to the ids filed under it.
type index map[string]*idSet

func (x index) add(key, id string) {
	set, ok := x[key]
	if !ok {
		set = newIDSet()
		x[key] = set
	}
	set.add(id)
}

func (x index) remove(key, id string) {
	set, ok := x[key]
	if !ok {
		return
	}
	set.remove(id)
	if set.len() == 0 {
		delete(x, key)
	}
}

func (x index) members(key string) []string {
	set, ok := x[key]
	if !ok {
		return nil
	}
	return set.members()
}

// move refiles id from the keys in from to the keys in to, touching only
// keys that differ so unchanged memberships keep their position.
func (x index) move(id string, from, to []string) {
	for _, k := range from {
		if !slices.Contains(to, k) {
			x.remove(k, id)
		}
	}
	for _, k := range to {
		if !slices.Contains(from, k) {
			x.add(k, id)
		}
	}
}
