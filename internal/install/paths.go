package install

import (
	"os"
	"runtime"
	"strings"

	"github.com/habicore/pkgcore/internal/ident"
	"github.com/habicore/pkgcore/internal/metafile"
)

const pathListSeparator = string(os.PathListSeparator)

// Paths reads the PATH metafile and returns its entries, filtered to those
// prefixed by installedPath: a defensive filter against stray entries
// written by older producers. On Windows, if PATH is absent but
// RUNTIME_ENVIRONMENT carries a PATH key, that value stands in, under the
// same prefix filter.
func (p *PackageInstall) Paths() ([]string, error) {
	raw, err := metafile.Read(p.installedPath, metafile.Path)
	if isMetaFileNotFound(err) {
		if runtime.GOOS != "windows" {
			return nil, nil
		}
		env, err := metafile.ReadKeyValue(p.installedPath, metafile.RuntimeEnvironment)
		if err != nil {
			return nil, err
		}
		raw, ok := env["PATH"]
		if !ok {
			return nil, nil
		}
		return filterOwnPaths(raw, p.installedPath), nil
	}
	if err != nil {
		return nil, err
	}
	return filterOwnPaths(raw, p.installedPath), nil
}

func filterOwnPaths(raw, installedPath string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, entry := range strings.Split(raw, pathListSeparator) {
		if entry == "" {
			continue
		}
		if strings.HasPrefix(entry, installedPath) {
			out = append(out, entry)
		}
	}
	return out
}

// RuntimePaths returns the composed runtime PATH: the RUNTIME_PATH
// metafile's entries when present (an empty file yields an empty list), or
// else LegacyRuntimePaths as a fallback for installs produced before
// RUNTIME_PATH existed.
func (p *PackageInstall) RuntimePaths() ([]string, error) {
	raw, err := metafile.Read(p.installedPath, metafile.RuntimePath)
	if isMetaFileNotFound(err) {
		return p.LegacyRuntimePaths()
	}
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	var out []string
	for _, entry := range strings.Split(raw, pathListSeparator) {
		if entry != "" {
			out = append(out, entry)
		}
	}
	return out, nil
}

// LegacyRuntimePaths reproduces the pre-RUNTIME_PATH synthesis exactly:
// self's own PATH entries, then each of direct deps ++ tdeps (in that
// combined order) contributing its own PATH entries, each appended only on
// first occurrence.
func (p *PackageInstall) LegacyRuntimePaths() ([]string, error) {
	var out []string
	seen := make(map[string]bool)

	appendNew := func(entries []string) {
		for _, e := range entries {
			if !seen[e] {
				seen[e] = true
				out = append(out, e)
			}
		}
	}

	own, err := p.Paths()
	if err != nil {
		return nil, err
	}
	appendNew(own)

	deps, err := p.Deps()
	if err != nil {
		return nil, err
	}
	tdeps, err := p.TDeps()
	if err != nil {
		return nil, err
	}

	for _, depID := range append(append([]ident.Identifier{}, deps...), tdeps...) {
		dep, err := Load(depID, p.fsRootPath)
		if err != nil {
			return nil, err
		}
		depPaths, err := dep.Paths()
		if err != nil {
			return nil, err
		}
		appendNew(depPaths)
	}

	return out, nil
}

// EnvironmentForCommand returns the RUNTIME_ENVIRONMENT key/value map with
// any pre-existing PATH entry dropped and replaced by the OS-joined
// RuntimePaths, when non-empty. Empty runtime paths means no PATH key at
// all, even if RUNTIME_ENVIRONMENT declared one.
func (p *PackageInstall) EnvironmentForCommand() (map[string]string, error) {
	env, err := metafile.ReadKeyValue(p.installedPath, metafile.RuntimeEnvironment)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(env))
	for k, v := range env {
		if k == "PATH" {
			continue
		}
		out[k] = v
	}

	runtimePaths, err := p.RuntimePaths()
	if err != nil {
		return nil, err
	}
	if len(runtimePaths) > 0 {
		out["PATH"] = strings.Join(runtimePaths, pathListSeparator)
	}
	return out, nil
}
