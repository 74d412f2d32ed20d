// Package version implements the domain-specific version-ordering rule
// used to compare package Version strings: numeric-dotted components,
// optionally followed by a '-'-delimited (or bare) extension.
package version

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// splitRe separates the leading numeric-dotted run from everything after
// it. The numeric run is mandatory; the remainder (extension) is optional.
var splitRe = regexp.MustCompile(`^([\d.]+)(.+)?$`)

// Comparator compares version strings using the rule set in §4.B. The zero
// value is ready to use; it carries no state.
type Comparator struct{}

// NewComparator returns a ready-to-use Comparator.
func NewComparator() *Comparator { return &Comparator{} }

// Compare returns -1, 0, or 1 as a is less than, equal to, or greater than
// b, following:
//
//  1. Split each into a numeric part and an optional extension.
//  2. Split the numeric part on '.' into decimal components, comparing
//     pairwise as unsigned integers with missing components treated as 0.
//  3. If all numeric components are equal: no extension on either side is
//     equal; exactly one extension makes the extension-less version
//     greater; both extensions present compares them lexicographically.
//
// Returns an error if either string's numeric part fails to match.
func (c *Comparator) Compare(a, b string) (int, error) {
	aParts, aExt, err := splitVersion(a)
	if err != nil {
		return 0, err
	}
	bParts, bExt, err := splitVersion(b)
	if err != nil {
		return 0, err
	}

	n := len(aParts)
	if len(bParts) > n {
		n = len(bParts)
	}
	for i := 0; i < n; i++ {
		var aNum, bNum uint64
		if i < len(aParts) {
			aNum, err = strconv.ParseUint(aParts[i], 10, 64)
			if err != nil {
				return 0, fmt.Errorf("malformed version component in %q: %w", a, err)
			}
		}
		if i < len(bParts) {
			bNum, err = strconv.ParseUint(bParts[i], 10, 64)
			if err != nil {
				return 0, fmt.Errorf("malformed version component in %q: %w", b, err)
			}
		}
		if aNum != bNum {
			if aNum < bNum {
				return -1, nil
			}
			return 1, nil
		}
	}

	switch {
	case aExt == "" && bExt == "":
		return 0, nil
	case aExt != "" && bExt == "":
		return -1, nil
	case aExt == "" && bExt != "":
		return 1, nil
	default:
		return strings.Compare(aExt, bExt), nil
	}
}

// splitVersion splits a version string into its decimal components and
// optional extension, per the §4.B regex anchor.
func splitVersion(v string) (parts []string, extension string, err error) {
	m := splitRe.FindStringSubmatch(v)
	if m == nil {
		return nil, "", fmt.Errorf("malformed version: %q", v)
	}
	numeric := m[1]
	extension = strings.TrimPrefix(m[2], "-")
	return strings.Split(numeric, "."), extension, nil
}

// CompareLexicographic falls back to raw lexicographic comparison, used by
// callers (the identifier total order) when numeric comparison fails
// because one side is a non-numeric version string such as "master".
func CompareLexicographic(a, b string) int {
	return strings.Compare(a, b)
}

// Sort compares a and b using a fresh Comparator; a thin convenience
// wrapper matching the shape of the concrete scenarios in §8
// ("version_sort").
func Sort(a, b string) (int, error) {
	return NewComparator().Compare(a, b)
}

// IsNewer reports whether b is strictly greater than a. Returns false (not
// an error) if the comparison cannot be performed numerically; callers that
// need the fallback behavior should use Compare directly.
func (c *Comparator) IsNewer(a, b string) bool {
	cmp, err := c.Compare(a, b)
	return err == nil && cmp < 0
}

// IsEqual reports whether a and b compare equal.
func (c *Comparator) IsEqual(a, b string) bool {
	cmp, err := c.Compare(a, b)
	return err == nil && cmp == 0
}
