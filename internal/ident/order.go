package ident

import (
	"strings"

	"github.com/habicore/pkgcore/internal/version"
)

// PartialCompare implements the partial order over Identifier from §4.A.
// Two identifiers are comparable only when their names match; origin is
// ignored entirely. ok is false when the pair is incomparable (different
// names, or both sides lack the component that would decide the order).
//
//	left \ right   Name       Version    Release
//	Name           incomp.    Less       Less
//	Version        Greater    incomp.    Less
//	Release        Greater    Greater    compare versions then releases
func PartialCompare(self, other Identifier) (cmp int, ok bool) {
	if self.name != other.name {
		return 0, false
	}

	switch {
	case self.kind == KindName && other.kind == KindName:
		return 0, false
	case self.kind == KindVersion && other.kind == KindVersion:
		return 0, false
	case self.kind == KindName && (other.kind == KindVersion || other.kind == KindRelease):
		return -1, true
	case self.kind == KindVersion && other.kind == KindRelease:
		return -1, true
	case other.kind == KindName && (self.kind == KindVersion || self.kind == KindRelease):
		return 1, true
	case other.kind == KindVersion && self.kind == KindRelease:
		return 1, true
	case self.kind == KindRelease && other.kind == KindRelease:
		return compareReleaseIdents(self, other), true
	default:
		return 0, false
	}
}

// compareReleaseIdents compares two fully-qualified identifiers with equal
// names: by version first (falling back to lexicographic comparison if the
// version strings don't parse numerically), then by release.
func compareReleaseIdents(self, other Identifier) int {
	cmp, err := version.Sort(string(self.version), string(other.version))
	if err != nil {
		cmp = version.CompareLexicographic(string(self.version), string(other.version))
	}
	if cmp != 0 {
		return cmp
	}
	return strings.Compare(string(self.release), string(other.release))
}

// TotalCompare implements the total order used when sorting or selecting a
// unique maximum is required (§4.A "Total order"). When names differ,
// compares names lexicographically. When names match, compares versions
// (falling back to lexicographic comparison on numeric-parse failure),
// breaking ties on release.
func TotalCompare(a, b Identifier) int {
	if a.name != b.name {
		return strings.Compare(string(a.name), string(b.name))
	}
	cmp, err := version.Sort(string(a.version), string(b.version))
	if err != nil {
		cmp = version.CompareLexicographic(string(a.version), string(b.version))
	}
	if cmp != 0 {
		return cmp
	}
	return strings.Compare(string(a.release), string(b.release))
}
