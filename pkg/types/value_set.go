package types

import (
	"encoding/json"
	"maps"
	"slices"
)

// ValueSet is the set of selected values of one key dimension. The zero
// value is an empty set.
type ValueSet map[string]struct{}

func NewValueSet(values ...string) ValueSet {
	s := make(ValueSet, len(values))
	for _, v := range values {
		if v != "" {
			s[v] = struct{}{}
		}
	}
	return s
}

func (s ValueSet) Has(v string) bool {
	_, ok := s[v]
	return ok
}

func (s ValueSet) Len() int {
	return len(s)
}

func (s *ValueSet) Add(v string) {
	if v == "" {
		return
	}
	if *s == nil {
		*s = ValueSet{}
	}
	(*s)[v] = struct{}{}
}

func (s *ValueSet) Remove(v string) {
	delete(*s, v)
}

// Toggle flips membership and reports whether v is now selected.
func (s *ValueSet) Toggle(v string) bool {
	if s.Has(v) {
		s.Remove(v)
		return false
	}
	s.Add(v)
	return s.Has(v)
}

// Sorted returns the members in ordinal order.
func (s ValueSet) Sorted() []string {
	ret := slices.Collect(maps.Keys(s))
	slices.Sort(ret)
	return ret
}

func (s ValueSet) Clone() ValueSet {
	if s == nil {
		return ValueSet{}
	}
	return maps.Clone(s)
}

func (s ValueSet) Equal(other ValueSet) bool {
	if len(s) != len(other) {
		return false
	}
	for v := range s {
		if !other.Has(v) {
			return false
		}
	}
	return true
}

// Retain drops every member keep rejects and returns how many were dropped.
func (s ValueSet) Retain(keep func(string) bool) int {
	dropped := 0
	for v := range s {
		if !keep(v) {
			delete(s, v)
			dropped++
		}
	}
	return dropped
}

func (s ValueSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s *ValueSet) UnmarshalJSON(data []byte) error {
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	*s = NewValueSet(values...)
	return nil
}
