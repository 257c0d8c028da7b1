package semantics

import (
	"strconv"
	"strings"
)

// Segment is one step of a property path: either a mapping key or a
// sequence index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

func KeySegment(key string) Segment {
	return Segment{Key: key}
}

func IndexSegment(index int) Segment {
	return Segment{Index: index, IsIndex: true}
}

func (s Segment) String() string {
	if s.IsIndex {
		return strconv.Itoa(s.Index)
	}
	return s.Key
}

// PropertyPath is the ordered list of segments locating a syntax node
// relative to the template root. It may be shorter than the true depth
// while the user is mid-edit. Immutable per query.
type PropertyPath []Segment

func (p PropertyPath) String() string {
	parts := make([]string, len(p))
	for i, seg := range p {
		parts[i] = seg.String()
	}
	return strings.Join(parts, "/")
}

// Last returns the final segment, or a zero segment for an empty path.
func (p PropertyPath) Last() Segment {
	if len(p) == 0 {
		return Segment{}
	}
	return p[len(p)-1]
}

// Section derives the top-level section from segment zero.
func (p PropertyPath) Section() Section {
	if len(p) == 0 || p[0].IsIndex {
		return SectionUnknown
	}
	return ParseSection(p[0].Key)
}

// LogicalID returns segment one when the path sits inside an
// identifier-keyed section.
func (p PropertyPath) LogicalID() (string, bool) {
	if len(p) < 2 || !p.Section().IsIdentifierKeyed() || p[1].IsIndex {
		return "", false
	}
	return p[1].Key, true
}

// KeysFrom returns the string keys starting at the given depth. Index
// segments are skipped, matching the schema resolver's flattening of array
// item schemas. Used to form schema pointer paths.
func (p PropertyPath) KeysFrom(depth int) []string {
	var keys []string
	for i := depth; i < len(p); i++ {
		if p[i].IsIndex {
			continue
		}
		keys = append(keys, p[i].Key)
	}
	return keys
}

// Matches reports whether the path equals section/logicalID followed
// exactly by the given sub-keys. An empty key matches any segment at that
// slot.
func (p PropertyPath) Matches(section Section, logicalID string, subpath ...string) bool {
	if len(p) != 2+len(subpath) {
		return false
	}
	if p.Section() != section {
		return false
	}
	if id, ok := p.LogicalID(); !ok || (logicalID != "" && id != logicalID) {
		return false
	}
	for i, key := range subpath {
		seg := p[2+i]
		if seg.IsIndex {
			return false
		}
		if key != "" && seg.Key != key {
			return false
		}
	}
	return true
}
