/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package store

import (
	"fmt"
	"slices"
	"testing"
)

func TestIDSet_OrderAndCompaction(t *testing.T) {
	s := newIDSet()
	for i := range 100 {
		s.add(fmt.Sprintf("id-%03d", i))
	}
	if s.add("id-000") {
		t.Error("re-adding a member should report false")
	}
	for i := 0; i < 100; i += 2 {
		s.remove(fmt.Sprintf("id-%03d", i))
	}
	if s.remove("missing") {
		t.Error("removing a non-member should report false")
	}

	if s.len() != 50 {
		t.Fatalf("len() = %d, want 50", s.len())
	}
	members := s.members()
	if len(members) != 50 || members[0] != "id-001" || members[49] != "id-099" {
		t.Errorf("unexpected members: first=%s last=%s", members[0], members[len(members)-1])
	}
	if !slices.IsSorted(members) {
		t.Error("members lost insertion order")
	}
	if len(s.ids) > 100 {
		t.Errorf("slot slice grew unexpectedly: %d", len(s.ids))
	}

	// Positions must remain valid after compaction.
	s.remove("id-051")
	s.add("id-051")
	members = s.members()
	if members[len(members)-1] != "id-051" {
		t.Errorf("re-added id should be last, got %v", members[len(members)-3:])
	}
}

func TestIndex_Move(t *testing.T) {
	x := make(index)
	x.add("color", "a")
	x.add("color", "b")

	// Unchanged keys keep their position.
	x.move("a", []string{"color"}, []string{"color", "brand"})
	if got := x.members("color"); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("color members = %v", got)
	}
	if got := x.members("brand"); !slices.Equal(got, []string{"a"}) {
		t.Errorf("brand members = %v", got)
	}

	x.move("a", []string{"color", "brand"}, nil)
	if _, ok := x["brand"]; ok {
		t.Error("empty key should be deleted")
	}
	if got := x.members("color"); !slices.Equal(got, []string{"b"}) {
		t.Errorf("color members = %v", got)
	}
}
