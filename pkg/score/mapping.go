// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package score

import "sort"

// Entry is one participant's score.
type Entry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Mapping is an ordered participant → score mapping. Order is insertion
// order for local state and whatever order the backend provides for remote state.
type Mapping []Entry

// NewMapping creates a mapping with every name at zero. Duplicates and
// empty names are skipped.
func NewMapping(names ...string) Mapping {
	m := make(Mapping, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, ok := m.Get(name); ok {
			continue
		}
		m = append(m, Entry{Name: name})
	}
	return m
}

// Get returns the score of name.
func (m Mapping) Get(name string) (int, bool) {
	for _, e := range m {
		if e.Name == name {
			return e.Score, true
		}
	}
	return 0, false
}

// With returns a copy of m with name set to value; new names are appended.
func (m Mapping) With(name string, value int) Mapping {
	out := m.Clone()
	for i := range out {
		if out[i].Name == name {
			out[i].Score = value
			return out
		}
	}
	return append(out, Entry{Name: name, Score: value})
}

// Clone returns an independent copy of m.
func (m Mapping) Clone() Mapping {
	if m == nil {
		return Mapping{}
	}
	return append(Mapping(nil), m...)
}

// Merge returns base with every entry of other applied to it.
// Names only in other are appended in other's order.
func (m Mapping) Merge(other Mapping) Mapping {
	out := m.Clone()
	for _, e := range other {
		out = out.With(e.Name, e.Score)
	}
	return out
}

// Names returns the participant names in order.
func (m Mapping) Names() []string {
	names := make([]string, 0, len(m))
	for _, e := range m {
		names = append(names, e.Name)
	}
	return names
}

// FromMap builds a mapping from an unordered map, ordered by name.
// Remote stores deliver key-sorted snapshots this way.
func FromMap(values map[string]int) Mapping {
	m := make(Mapping, 0, len(values))
	for name, v := range values {
		m = append(m, Entry{Name: name, Score: v})
	}
	sort.Slice(m, func(i, j int) bool { return m[i].Name < m[j].Name })
	return m
}

// Winner returns the participant with the highest score. On ties the
// first one in mapping order wins. An empty mapping has no winner ("").
func Winner(m Mapping) string {
	winner := ""
	best := -1
	for _, e := range m {
		if e.Score > best {
			best = e.Score
			winner = e.Name
		}
	}
	return winner
}
