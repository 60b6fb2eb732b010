// Package finding defines the normalized unit of lint output and the
// keyed set difference used to detect regressions between two builds.
package finding

import "sort"

// Sentinel values assigned to a finding whose line couldn't be parsed.
// They sort after every real finding so unparseable output shows up at
// the end of a group.
const (
	UnparseableKind = "UXXXX"
	UnparseableLine = 9999
	UnparseableCol  = 9
	UnparseableText = "Unparseable"
)

// Finding is one defect report extracted from tool output.
//
// Key is the finding's identity for baseline comparison. It is chosen by
// the checker that constructed the finding, typically from the kind and
// message but not the line number, so a defect that merely moves between
// runs isn't reported as new. Display ordering is a separate notion, see
// Sort.
type Finding struct {
	Key    string
	Raw    string
	Kind   string
	Line   int
	Indent int
	Text   string
}

// Unparseable returns the sentinel finding for a line that matched a
// checker's finding-start pattern but not its field pattern. All
// unparseable lines share one identity: a baseline that already has
// unparseable output doesn't flag later unparseable output as new.
func Unparseable(raw string) Finding {
	return Finding{
		Key:    UnparseableKind + ":" + UnparseableText,
		Raw:    raw,
		Kind:   UnparseableKind,
		Line:   UnparseableLine,
		Indent: UnparseableCol,
		Text:   UnparseableText,
	}
}

// Set is a collection of findings unique by Key.
type Set map[string]Finding

// Add inserts f, keeping the first finding seen for a given key.
func (s Set) Add(f Finding) {
	if _, ok := s[f.Key]; !ok {
		s[f.Key] = f
	}
}

// Sorted returns the findings in display order.
func (s Set) Sorted() []Finding {
	fs := make([]Finding, 0, len(s))
	for _, f := range s {
		fs = append(fs, f)
	}
	Sort(fs)
	return fs
}

// Sort orders findings for display: by line, then indent, then kind,
// then message. This ordering is deliberately independent of Key so that
// output stays deterministic run to run without affecting the diff.
func Sort(fs []Finding) {
	sort.Slice(fs, func(i, j int) bool {
		a, b := fs[i], fs[j]
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Indent != b.Indent {
			return a.Indent < b.Indent
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Text < b.Text
	})
}

// GroupMap maps a tool-defined group key (module name, error category)
// to the set of findings in that group.
type GroupMap map[string]Set

// Get returns the set for key, allocating it if needed.
func (m GroupMap) Get(key string) Set {
	s, ok := m[key]
	if !ok {
		s = Set{}
		m[key] = s
	}
	return s
}

// Keys returns the group keys in sorted order.
func (m GroupMap) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Total returns the number of findings across all groups.
func (m GroupMap) Total() int {
	n := 0
	for _, s := range m {
		n += len(s)
	}
	return n
}

// Diff computes the keywise difference current - baseline.
//
// For every group in current, the result contains the findings whose Key
// is absent from the same group in baseline. Groups present only in the
// baseline (fixed defects) are ignored, and groups whose difference is
// empty are omitted entirely, so an empty result means no regression.
func Diff(current, baseline GroupMap) GroupMap {
	diff := GroupMap{}
	for group, cur := range current {
		prev := baseline[group]
		var fresh Set
		for key, f := range cur {
			if _, ok := prev[key]; ok {
				continue
			}
			if fresh == nil {
				fresh = Set{}
			}
			fresh[key] = f
		}
		if fresh != nil {
			diff[group] = fresh
		}
	}
	return diff
}
