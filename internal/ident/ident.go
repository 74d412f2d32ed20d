// Package ident implements the package-identifier algebra: parsing,
// printing, equality, and the partial/total orderings used to resolve a
// possibly-fuzzy identifier against a set of installed packages.
package ident

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/habicore/pkgcore/internal/pkgerr"
	"github.com/habicore/pkgcore/internal/target"
)

// originNameRe is shared by Origin and Name validation: a–z, 0–9, '_', '-',
// starting with a–z or 0–9. Name validation reuses the origin regex, so
// there is a single pattern here.
var originNameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

const maxTokenLen = 255

// Origin is a publisher namespace.
type Origin string

// Name is a package short name within an Origin.
type Name string

// Version is a free-form, producer-assigned version string.
type Version string

// Release is a monotonically increasing build timestamp, canonically
// YYYYMMDDHHMMSS.
type Release string

func validateOriginOrName(kind, s string) error {
	if s == "" {
		return fmt.Errorf("%s must not be empty", kind)
	}
	if len(s) > maxTokenLen {
		return fmt.Errorf("%s exceeds %d characters: %q", kind, maxTokenLen, s)
	}
	if !originNameRe.MatchString(s) {
		return fmt.Errorf("%s contains invalid characters: %q", kind, s)
	}
	return nil
}

// NewOrigin validates and constructs an Origin.
func NewOrigin(s string) (Origin, error) {
	if err := validateOriginOrName("origin", s); err != nil {
		return "", err
	}
	return Origin(s), nil
}

// NewName validates and constructs a Name. Name reuses Origin's character
// class.
func NewName(s string) (Name, error) {
	if err := validateOriginOrName("name", s); err != nil {
		return "", err
	}
	return Name(s), nil
}

// NewVersion constructs a Version. Versions are free-form and only required
// to be non-empty; numeric-ness is a concern of the version comparator, not
// of construction.
func NewVersion(s string) (Version, error) {
	if s == "" {
		return "", fmt.Errorf("version must not be empty")
	}
	return Version(s), nil
}

// NewRelease constructs a Release. Releases are free-form and only required
// to be non-empty; the canonical YYYYMMDDHHMMSS shape is a convention, not
// an enforced constraint, matching the source behavior.
func NewRelease(s string) (Release, error) {
	if s == "" {
		return "", fmt.Errorf("release must not be empty")
	}
	return Release(s), nil
}

func (o Origin) String() string  { return string(o) }
func (n Name) String() string    { return string(n) }
func (v Version) String() string { return string(v) }
func (r Release) String() string { return string(r) }

// Kind tags which of the three identifier variants a given Identifier is.
type Kind int

const (
	// KindName identifies a NameIdent: origin/name.
	KindName Kind = iota
	// KindVersion identifies a VersionIdent: origin/name/version.
	KindVersion
	// KindRelease identifies a ReleaseIdent: origin/name/version/release.
	KindRelease
)

func (k Kind) String() string {
	switch k {
	case KindName:
		return "name"
	case KindVersion:
		return "version"
	case KindRelease:
		return "release"
	default:
		return "unknown"
	}
}

// Identifier is a tagged union over NameIdent/VersionIdent/ReleaseIdent. By
// construction a release-ident implies a version-ident implies a
// name-ident: Version is populated iff kind is KindVersion or KindRelease,
// and Release is populated iff kind is KindRelease.
type Identifier struct {
	kind    Kind
	origin  Origin
	name    Name
	version Version
	release Release
}

// NewNameIdent builds a NameIdent-kind Identifier.
func NewNameIdent(origin, name string) (Identifier, error) {
	o, err := NewOrigin(origin)
	if err != nil {
		return Identifier{}, &pkgerr.InvalidNameIdentError{Value: origin + "/" + name}
	}
	n, err := NewName(name)
	if err != nil {
		return Identifier{}, &pkgerr.InvalidNameIdentError{Value: origin + "/" + name}
	}
	return Identifier{kind: KindName, origin: o, name: n}, nil
}

// NewVersionIdent builds a VersionIdent-kind Identifier.
func NewVersionIdent(origin, name, version string) (Identifier, error) {
	base, err := NewNameIdent(origin, name)
	if err != nil {
		return Identifier{}, &pkgerr.InvalidVersionIdentError{Value: strings.Join([]string{origin, name, version}, "/")}
	}
	v, err := NewVersion(version)
	if err != nil {
		return Identifier{}, &pkgerr.InvalidVersionIdentError{Value: strings.Join([]string{origin, name, version}, "/")}
	}
	base.kind = KindVersion
	base.version = v
	return base, nil
}

// NewReleaseIdent builds a ReleaseIdent-kind Identifier.
func NewReleaseIdent(origin, name, version, release string) (Identifier, error) {
	base, err := NewVersionIdent(origin, name, version)
	if err != nil {
		return Identifier{}, &pkgerr.InvalidReleaseIdentError{Value: strings.Join([]string{origin, name, version, release}, "/")}
	}
	r, err := NewRelease(release)
	if err != nil {
		return Identifier{}, &pkgerr.InvalidReleaseIdentError{Value: strings.Join([]string{origin, name, version, release}, "/")}
	}
	base.kind = KindRelease
	base.release = r
	return base, nil
}

// Parse splits s on '/' and accepts exactly 2, 3, or 4 non-empty segments,
// producing a NameIdent, VersionIdent, or ReleaseIdent respectively.
func Parse(s string) (Identifier, error) {
	parts := strings.Split(s, "/")
	for _, p := range parts {
		if p == "" {
			return Identifier{}, &pkgerr.InvalidPackageIdentError{Value: s}
		}
	}
	switch len(parts) {
	case 2:
		return NewNameIdent(parts[0], parts[1])
	case 3:
		return NewVersionIdent(parts[0], parts[1], parts[2])
	case 4:
		return NewReleaseIdent(parts[0], parts[1], parts[2], parts[3])
	default:
		return Identifier{}, &pkgerr.InvalidPackageIdentError{Value: s}
	}
}

// ParseName parses s, requiring exactly a NameIdent (2 segments).
func ParseName(s string) (Identifier, error) {
	id, err := Parse(s)
	if err != nil || id.kind != KindName {
		return Identifier{}, &pkgerr.InvalidNameIdentError{Value: s}
	}
	return id, nil
}

// ParseVersion parses s, requiring exactly a VersionIdent (3 segments).
func ParseVersion(s string) (Identifier, error) {
	id, err := Parse(s)
	if err != nil || id.kind != KindVersion {
		return Identifier{}, &pkgerr.InvalidVersionIdentError{Value: s}
	}
	return id, nil
}

// ParseRelease parses s, requiring exactly a ReleaseIdent (4 segments).
func ParseRelease(s string) (Identifier, error) {
	id, err := Parse(s)
	if err != nil || id.kind != KindRelease {
		return Identifier{}, &pkgerr.InvalidReleaseIdentError{Value: s}
	}
	return id, nil
}

// Kind reports which variant this Identifier is.
func (id Identifier) Kind() Kind { return id.kind }

// Origin returns the identifier's origin.
func (id Identifier) Origin() Origin { return id.origin }

// Name returns the identifier's name.
func (id Identifier) Name() Name { return id.name }

// Version returns the identifier's version and whether one is present.
func (id Identifier) Version() (Version, bool) {
	if id.kind == KindName {
		return "", false
	}
	return id.version, true
}

// Release returns the identifier's release and whether one is present.
func (id Identifier) Release() (Release, bool) {
	if id.kind != KindRelease {
		return "", false
	}
	return id.release, true
}

// FullyQualified reports whether this identifier names all four
// components, i.e. is a ReleaseIdent.
func (id Identifier) FullyQualified() bool { return id.kind == KindRelease }

// String renders the identifier's segments joined by '/'.
func (id Identifier) String() string {
	switch id.kind {
	case KindRelease:
		return fmt.Sprintf("%s/%s/%s/%s", id.origin, id.name, id.version, id.release)
	case KindVersion:
		return fmt.Sprintf("%s/%s/%s", id.origin, id.name, id.version)
	default:
		return fmt.Sprintf("%s/%s", id.origin, id.name)
	}
}

// ArchiveName renders the external archive-name form for a fully qualified
// identifier: "<origin>-<name>-<version>-<release>-<target>.hart". Returns
// an error if id is not fully qualified.
func ArchiveName(id Identifier, t target.PackageTarget) (string, error) {
	if !id.FullyQualified() {
		return "", &pkgerr.FullyQualifiedPackageIdentRequiredError{Value: id.String()}
	}
	return fmt.Sprintf("%s-%s-%s-%s-%s.hart", id.origin, id.name, id.version, id.release, t), nil
}

// Satisfies tests whether self answers a (possibly fuzzy) query other:
//
//  1. If origins differ or names differ, false.
//  2. If self has a version and other has a version and they differ, false.
//  3. If self has a release and other has a release and they differ, false.
//  4. Otherwise true.
//
// Missing components on either side do not disqualify; the relation is
// reflexive on fully-qualified arguments.
func (id Identifier) Satisfies(other Identifier) bool {
	if id.origin != other.origin || id.name != other.name {
		return false
	}
	selfVersion, selfHasVersion := id.Version()
	otherVersion, otherHasVersion := other.Version()
	if selfHasVersion && otherHasVersion && selfVersion != otherVersion {
		return false
	}
	selfRelease, selfHasRelease := id.Release()
	otherRelease, otherHasRelease := other.Release()
	if selfHasRelease && otherHasRelease && selfRelease != otherRelease {
		return false
	}
	return true
}

// Equal reports whether two identifiers are identical in every populated
// component (same kind, same origin, name, version, release).
func (id Identifier) Equal(other Identifier) bool {
	return id.kind == other.kind &&
		id.origin == other.origin &&
		id.name == other.name &&
		id.version == other.version &&
		id.release == other.release
}
