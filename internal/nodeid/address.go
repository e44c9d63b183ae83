package nodeid

import (
	"strconv"
	"strings"
)

// String serializes the Address into its canonical path string representation.
func (a *Address) String() string {
	if a == nil {
		return ""
	}

	var sb strings.Builder
	for i, segment := range a.Path {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(segment.Name)
		if segment.HasIndex() {
			sb.WriteByte('[')
			sb.WriteString(strconv.Itoa(segment.Index))
			sb.WriteByte(']')
		}
	}

	return sb.String()
}

// Equal reports whether two addresses denote the same node.
func (a *Address) Equal(other *Address) bool {
	if a == nil || other == nil {
		return a == other
	}
	if len(a.Path) != len(other.Path) {
		return false
	}
	for i := range a.Path {
		if a.Path[i] != other.Path[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix is a leading run of a's segments.
// Every address has itself as a prefix.
func (a *Address) HasPrefix(prefix *Address) bool {
	if a == nil || prefix == nil {
		return false
	}
	if len(prefix.Path) > len(a.Path) {
		return false
	}
	for i := range prefix.Path {
		if a.Path[i] != prefix.Path[i] {
			return false
		}
	}
	return true
}

// Name returns the last segment's name, or "" for an empty address.
func (a *Address) Name() string {
	if a == nil || len(a.Path) == 0 {
		return ""
	}
	return a.Path[len(a.Path)-1].Name
}

// Parent returns the address without its last segment. The parent of a
// single-segment address is nil.
func (a *Address) Parent() *Address {
	if a == nil || len(a.Path) <= 1 {
		return nil
	}
	return &Address{Path: append([]PathSegment(nil), a.Path[:len(a.Path)-1]...)}
}

// Compare orders addresses by their canonical string form.
func Compare(a, b *Address) int {
	return strings.Compare(a.String(), b.String())
}
