// Package install implements the filesystem-backed installed-package
// resolver: enumerate the on-disk package tree, filter by active target,
// select the best match for a (possibly fuzzy) identifier, and expose the
// per-package metadata that composes a runnable environment (§4.D).
package install

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/habicore/pkgcore/internal/ident"
	"github.com/habicore/pkgcore/internal/logging"
	"github.com/habicore/pkgcore/internal/metafile"
	"github.com/habicore/pkgcore/internal/pkgerr"
	"github.com/habicore/pkgcore/internal/target"
)

// tempInstallPrefix marks a release directory as a partial, unverified
// install. Any such entry MUST be skipped during enumeration.
const tempInstallPrefix = ".hab-pkg-install"

// PkgType is the value of a package's TYPE metafile.
type PkgType string

const (
	// Standalone is the default PkgType when TYPE is absent.
	Standalone PkgType = "Standalone"
	// Composite groups several standalone packages under one identity.
	Composite PkgType = "Composite"
)

// PackageInstall is a resolved handle to an installed package on disk. It is
// immutable after construction; metafiles are read fresh from
// installedPath on every accessor call (§5: no stale-read guarantee).
type PackageInstall struct {
	id              ident.Identifier
	fsRootPath      string
	packageRootPath string
	installedPath   string
}

// PackageRootPath returns the default install-tree root for a given
// filesystem root: "<fs_root>/hab/pkgs".
func PackageRootPath(fsRootPath string) string {
	return filepath.Join(fsRootPath, "hab", "pkgs")
}

func installedPathFor(packageRootPath string, id ident.Identifier) (string, error) {
	if !id.FullyQualified() {
		return "", &pkgerr.FullyQualifiedPackageIdentRequiredError{Value: id.String()}
	}
	version, _ := id.Version()
	release, _ := id.Release()
	return filepath.Join(packageRootPath, id.Origin().String(), id.Name().String(), version.String(), release.String()), nil
}

func newPackageInstall(id ident.Identifier, fsRootPath, packageRootPath string) (*PackageInstall, error) {
	installedPath, err := installedPathFor(packageRootPath, id)
	if err != nil {
		return nil, err
	}
	return &PackageInstall{
		id:              id,
		fsRootPath:      fsRootPath,
		packageRootPath: packageRootPath,
		installedPath:   installedPath,
	}, nil
}

// Ident returns the fully-qualified identifier of the resolved install.
func (p *PackageInstall) Ident() ident.Identifier { return p.id }

// FSRootPath returns the filesystem root this install was resolved under.
func (p *PackageInstall) FSRootPath() string { return p.fsRootPath }

// PackageRootPath returns the install-tree root this install was resolved
// under.
func (p *PackageInstall) PackageRootPath() string { return p.packageRootPath }

// InstalledPath returns "<package_root_path>/<origin>/<name>/<version>/<release>".
func (p *PackageInstall) InstalledPath() string { return p.installedPath }

// PackageList walks the four nested directory levels under packageRootPath
// (origin/name/version/release) and returns the fully-qualified identifiers
// of every release whose TARGET metafile parses and matches active.
//
// I/O errors at the outer three levels propagate. Per-candidate problems at
// the release level are skipped: a missing/unparseable TARGET or an
// unparseable directory name is logged at debug level, while temp-install
// entries and a TARGET that parses but does not match are skipped without
// a log line. A corrupted package must never mask an adjacent healthy one.
func PackageList(packageRootPath string, active target.PackageTarget) ([]ident.Identifier, error) {
	raw, err := walkAllReleaseIdents(packageRootPath)
	if err != nil {
		return nil, err
	}
	return filterActiveTarget(packageRootPath, raw, active), nil
}

// walkAllReleaseIdents walks the four nested directory levels and returns
// every release directory's identifier, skipping temp-install entries and
// logging-and-skipping any directory name that fails to parse as an
// identifier. It performs no TARGET filtering: callers MUST apply
// filterActiveTarget (or equivalent) before trusting the result, since this
// raw listing is the one safe to cache (§5, internal/install/cache.go).
func walkAllReleaseIdents(packageRootPath string) ([]ident.Identifier, error) {
	var out []ident.Identifier

	origins, err := readSubdirs(packageRootPath)
	if err != nil {
		return nil, err
	}
	for _, origin := range origins {
		originPath := filepath.Join(packageRootPath, origin)
		names, err := readSubdirs(originPath)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			namePath := filepath.Join(originPath, name)
			versions, err := readSubdirs(namePath)
			if err != nil {
				return nil, err
			}
			for _, version := range versions {
				versionPath := filepath.Join(namePath, version)
				releases, err := readSubdirs(versionPath)
				if err != nil {
					return nil, err
				}
				for _, release := range releases {
					if len(release) >= len(tempInstallPrefix) && release[:len(tempInstallPrefix)] == tempInstallPrefix {
						continue
					}
					id, err := ident.NewReleaseIdent(origin, name, version, release)
					if err != nil {
						logging.Debug("skipping %s/%s/%s/%s: invalid identifier: %v", origin, name, version, release, err)
						continue
					}
					out = append(out, id)
				}
			}
		}
	}
	return out, nil
}

// filterActiveTarget re-reads each candidate's TARGET metafile live and
// keeps only those that parse and match active. This is the mandatory final
// check (§5): even a cached candidate list must pass through here before a
// result is returned to a caller.
func filterActiveTarget(packageRootPath string, candidates []ident.Identifier, active target.PackageTarget) []ident.Identifier {
	var out []ident.Identifier
	for _, id := range candidates {
		version, _ := id.Version()
		release, _ := id.Release()
		releasePath := filepath.Join(packageRootPath, id.Origin().String(), id.Name().String(), version.String(), release.String())

		rawTarget, err := metafile.Read(releasePath, metafile.Target)
		if err != nil {
			logging.Debug("skipping %s: TARGET metafile unreadable: %v", id, err)
			continue
		}
		parsedTarget, err := target.Parse(rawTarget)
		if err != nil {
			logging.Debug("skipping %s: TARGET metafile unparseable: %v", id, err)
			continue
		}
		if parsedTarget != active {
			continue
		}
		out = append(out, id)
	}
	return out
}

func readSubdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Load resolves id, exact or fuzzy, against the install tree rooted at
// PackageRootPath(fsRootPath).
//
// If the package root does not exist, fails with *pkgerr.PackageNotFoundError.
// If id is fully qualified, any enumerated candidate satisfying it is
// returned. Otherwise, folds the candidates satisfying id to the maximum
// under the partial order of §4.A (ties keep the current winner); no match
// fails with *pkgerr.PackageNotFoundError.
func Load(id ident.Identifier, fsRootPath string) (*PackageInstall, error) {
	packageRootPath := PackageRootPath(fsRootPath)
	candidates, err := enumerateOrNotFound(packageRootPath, id)
	if err != nil {
		return nil, err
	}

	if id.FullyQualified() {
		for _, c := range candidates {
			if c.Satisfies(id) {
				return newPackageInstall(c, fsRootPath, packageRootPath)
			}
		}
		return nil, &pkgerr.PackageNotFoundError{Ident: id.String()}
	}

	var winner *ident.Identifier
	for i := range candidates {
		c := candidates[i]
		if !c.Satisfies(id) {
			continue
		}
		if winner == nil {
			winner = &c
			continue
		}
		if cmp, ok := ident.PartialCompare(*winner, c); ok && cmp < 0 {
			winner = &c
		}
	}
	if winner == nil {
		return nil, &pkgerr.PackageNotFoundError{Ident: id.String()}
	}
	return newPackageInstall(*winner, fsRootPath, packageRootPath)
}

// LoadAtLeast resolves the newest candidate matching id's origin and name
// whose identifier is ≥ id under the total order of §4.A. When id carries
// no version, "0" is substituted for both version and release in the
// comparison query; when it carries a version but no release, "0" is
// substituted for release only. Failure reports *pkgerr.PackageNotFoundError
// naming the original id, not the rewritten query.
func LoadAtLeast(id ident.Identifier, fsRootPath string) (*PackageInstall, error) {
	packageRootPath := PackageRootPath(fsRootPath)
	candidates, err := enumerateOrNotFound(packageRootPath, id)
	if err != nil {
		return nil, err
	}

	version := "0"
	if v, ok := id.Version(); ok {
		version = v.String()
	}
	release := "0"
	if r, ok := id.Release(); ok {
		release = r.String()
	}
	query, err := ident.NewReleaseIdent(id.Origin().String(), id.Name().String(), version, release)
	if err != nil {
		return nil, &pkgerr.PackageNotFoundError{Ident: id.String()}
	}

	var winner *ident.Identifier
	for i := range candidates {
		c := candidates[i]
		if c.Origin() != id.Origin() || c.Name() != id.Name() {
			continue
		}
		if ident.TotalCompare(c, query) < 0 {
			continue
		}
		if winner == nil || ident.TotalCompare(c, *winner) > 0 {
			winner = &c
		}
	}
	if winner == nil {
		return nil, &pkgerr.PackageNotFoundError{Ident: id.String()}
	}
	return newPackageInstall(*winner, fsRootPath, packageRootPath)
}

func enumerateOrNotFound(packageRootPath string, id ident.Identifier) ([]ident.Identifier, error) {
	if _, err := os.Stat(packageRootPath); err != nil {
		if os.IsNotExist(err) {
			return nil, &pkgerr.PackageNotFoundError{Ident: id.String()}
		}
		return nil, err
	}
	return PackageList(packageRootPath, target.Active())
}

// PkgType parses the TYPE metafile; an absent file means Standalone.
func (p *PackageInstall) PkgType() (PkgType, error) {
	raw, err := metafile.Read(p.installedPath, metafile.Type)
	if isMetaFileNotFound(err) {
		return Standalone, nil
	}
	if err != nil {
		return "", err
	}
	if raw != string(Standalone) && raw != string(Composite) {
		return "", &pkgerr.MetaFileMalformedError{Name: string(metafile.Type)}
	}
	return PkgType(raw), nil
}

// IsRunnable reports whether "hooks/run" or "run" exists as a regular file
// under installedPath.
func (p *PackageInstall) IsRunnable() bool {
	for _, rel := range []string{filepath.Join("hooks", "run"), "run"} {
		info, err := os.Stat(filepath.Join(p.installedPath, rel))
		if err == nil && info.Mode().IsRegular() {
			return true
		}
	}
	return false
}

func isMetaFileNotFound(err error) bool {
	return errors.Is(err, pkgerr.ErrMetaFileNotFound)
}
