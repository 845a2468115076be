package tracker

import (
	"cmp"
	"slices"
)

// Key identifies a (course, section) pair for deduplication.
type Key struct {
	Course  string
	Section string
}

func KeyOf(course, section string) Key {
	return Key{Course: course, Section: section}
}

func (k Key) String() string {
	return k.Course + "-" + k.Section
}

// NotifiedSet holds the keys of every section that is open and has already
// been notified. It is owned by a single poll loop and is not safe for
// concurrent use.
type NotifiedSet struct {
	keys map[Key]struct{}
}

func NewNotifiedSet() *NotifiedSet {
	return &NotifiedSet{keys: map[Key]struct{}{}}
}

func (s *NotifiedSet) Has(k Key) bool {
	_, ok := s.keys[k]
	return ok
}

// Add inserts `k` and reports whether it was not present before.
func (s *NotifiedSet) Add(k Key) bool {
	if s.Has(k) {
		return false
	}
	s.keys[k] = struct{}{}
	return true
}

// Remove deletes `k` and reports whether it was present.
func (s *NotifiedSet) Remove(k Key) bool {
	if !s.Has(k) {
		return false
	}
	delete(s.keys, k)
	return true
}

// RemoveCourse deletes every key of `course` and returns them sorted.
func (s *NotifiedSet) RemoveCourse(course string) []Key {
	var removed []Key
	for k := range s.keys {
		if k.Course == course {
			removed = append(removed, k)
		}
	}
	for _, k := range removed {
		delete(s.keys, k)
	}
	sortKeys(removed)
	return removed
}

func (s *NotifiedSet) Len() int {
	return len(s.keys)
}

// Keys returns every key sorted by course then section.
func (s *NotifiedSet) Keys() []Key {
	out := make([]Key, 0, len(s.keys))
	for k := range s.keys {
		out = append(out, k)
	}
	sortKeys(out)
	return out
}

func sortKeys(keys []Key) {
	slices.SortFunc(keys, func(a, b Key) int {
		if c := cmp.Compare(a.Course, b.Course); c != 0 {
			return c
		}
		return cmp.Compare(a.Section, b.Section)
	})
}
