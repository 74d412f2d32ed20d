// Package pkgerr defines the closed set of error kinds produced by the
// identifier, metafile, and install-resolver packages.
//
// Each kind pairs a sentinel var with a wrapper struct: the struct carries
// the offending value, the sentinel makes errors.Is(err, ErrX) work without
// needing the concrete type in hand. errors.As still reaches the struct.
package pkgerr

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPackageIdent                = errors.New("invalid package identifier")
	ErrInvalidReleaseIdent                = errors.New("invalid release identifier")
	ErrInvalidVersionIdent                = errors.New("invalid version identifier")
	ErrInvalidNameIdent                   = errors.New("invalid name identifier")
	ErrPackageNotFound                    = errors.New("package not found")
	ErrFullyQualifiedPackageIdentRequired = errors.New("fully qualified package identifier required")
	ErrMetaFileNotFound                   = errors.New("metafile not found")
	ErrMetaFileIO                         = errors.New("metafile I/O error")
	ErrMetaFileMalformed                  = errors.New("metafile malformed")
	ErrMetaFileBadBind                    = errors.New("metafile malformed: BIND_MAP")
	ErrInvalidPathString                  = errors.New("invalid path string")
)

// InvalidPackageIdentError reports a string that could not be parsed into
// any of the three identifier variants (wrong segment count, or an empty
// segment).
type InvalidPackageIdentError struct{ Value string }

func (e *InvalidPackageIdentError) Error() string {
	return fmt.Sprintf("invalid package identifier: %q", e.Value)
}

func (e *InvalidPackageIdentError) Is(target error) bool { return target == ErrInvalidPackageIdent }

// InvalidReleaseIdentError reports a string that is not a valid release
// identifier: it does not have exactly four `/`-separated segments, or one
// of its components is invalid.
type InvalidReleaseIdentError struct{ Value string }

func (e *InvalidReleaseIdentError) Error() string {
	return fmt.Sprintf("invalid release identifier: %q", e.Value)
}

func (e *InvalidReleaseIdentError) Is(target error) bool { return target == ErrInvalidReleaseIdent }

// InvalidVersionIdentError reports a string that is not a valid version
// identifier: it does not have exactly three `/`-separated segments, or
// one of its components is invalid.
type InvalidVersionIdentError struct{ Value string }

func (e *InvalidVersionIdentError) Error() string {
	return fmt.Sprintf("invalid version identifier: %q", e.Value)
}

func (e *InvalidVersionIdentError) Is(target error) bool { return target == ErrInvalidVersionIdent }

// InvalidNameIdentError reports a string that is not a valid name
// identifier: it does not have exactly two `/`-separated segments, or its
// origin or name is invalid.
type InvalidNameIdentError struct{ Value string }

func (e *InvalidNameIdentError) Error() string {
	return fmt.Sprintf("invalid name identifier: %q", e.Value)
}

func (e *InvalidNameIdentError) Is(target error) bool { return target == ErrInvalidNameIdent }

// PackageNotFoundError reports that the resolver found no installed package
// satisfying the requested identifier.
type PackageNotFoundError struct{ Ident string }

func (e *PackageNotFoundError) Error() string {
	return fmt.Sprintf("package not found: %s", e.Ident)
}

func (e *PackageNotFoundError) Is(target error) bool { return target == ErrPackageNotFound }

// FullyQualifiedPackageIdentRequiredError reports that an operation demanded
// a fully-qualified (release) identifier but received something less
// specific.
type FullyQualifiedPackageIdentRequiredError struct{ Value string }

func (e *FullyQualifiedPackageIdentRequiredError) Error() string {
	return fmt.Sprintf("fully qualified package identifier required: %q", e.Value)
}

func (e *FullyQualifiedPackageIdentRequiredError) Is(target error) bool {
	return target == ErrFullyQualifiedPackageIdentRequired
}

// MetaFileNotFoundError reports that a well-known metafile is absent.
//
// Callers performing an optional read should check for this via errors.Is
// and fall back to the documented default instead of propagating it.
type MetaFileNotFoundError struct{ Name string }

func (e *MetaFileNotFoundError) Error() string {
	return fmt.Sprintf("metafile not found: %s", e.Name)
}

func (e *MetaFileNotFoundError) Is(target error) bool { return target == ErrMetaFileNotFound }

// MetaFileIOError wraps an I/O failure encountered while reading a metafile.
type MetaFileIOError struct {
	Name  string
	Cause error
}

func (e *MetaFileIOError) Error() string {
	return fmt.Sprintf("metafile %s: %v", e.Name, e.Cause)
}

func (e *MetaFileIOError) Unwrap() error { return e.Cause }

func (e *MetaFileIOError) Is(target error) bool { return target == ErrMetaFileIO }

// MetaFileMalformedError reports that a metafile's contents could not be
// decoded (bad UTF-8, a malformed KEY=VALUE line, an unparseable identifier
// line, and so on).
type MetaFileMalformedError struct{ Name string }

func (e *MetaFileMalformedError) Error() string {
	return fmt.Sprintf("metafile malformed: %s", e.Name)
}

func (e *MetaFileMalformedError) Is(target error) bool { return target == ErrMetaFileMalformed }

// MetaFileBadBindError reports a BIND_MAP line that could not be split into
// an identifier and a whitespace-separated list of bind mappings.
type MetaFileBadBindError struct{}

func (e *MetaFileBadBindError) Error() string { return "metafile malformed: BIND_MAP" }

func (e *MetaFileBadBindError) Is(target error) bool { return target == ErrMetaFileBadBind }

// InvalidPathStringError reports that a composed runtime PATH could not be
// round-tripped through the host OS's path-list encoding.
type InvalidPathStringError struct{ Value string }

func (e *InvalidPathStringError) Error() string {
	return fmt.Sprintf("invalid path string: %q", e.Value)
}

func (e *InvalidPathStringError) Is(target error) bool { return target == ErrInvalidPathString }
