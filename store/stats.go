/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package store

import "bennypowers.dev/tokenstore/token"

// Stats are aggregate counts over the store.
type Stats struct {
	Total        int                `json:"total" yaml:"total"`
	ByScope      map[string]int     `json:"byScope" yaml:"byScope"`
	ByType       map[token.Type]int `json:"byType" yaml:"byType"`
	ByCollection map[string]int     `json:"byCollection" yaml:"byCollection"`
	Aliases      int                `json:"aliases" yaml:"aliases"`
}

// Stats computes counts from the index sizes.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		Total:        len(s.tokens),
		ByScope:      make(map[string]int, len(s.byScope)),
		ByType:       make(map[token.Type]int, len(s.byType)),
		ByCollection: make(map[string]int, len(s.byCollection)),
	}
	for k, set := range s.byScope {
		st.ByScope[k] = set.len()
	}
	for k, set := range s.byType {
		st.ByType[token.Type(k)] = set.len()
	}
	for k, set := range s.byCollection {
		st.ByCollection[k] = set.len()
	}
	for _, set := range s.byAlias {
		st.Aliases += set.len()
	}
	return st
}
