package install

import (
	"strings"

	"github.com/habicore/pkgcore/internal/ident"
	"github.com/habicore/pkgcore/internal/metafile"
)

// Deps returns the direct declared dependencies from DEPS, in declared
// order. An absent file yields an empty list.
func (p *PackageInstall) Deps() ([]ident.Identifier, error) {
	return metafile.ReadDeps(p.installedPath, metafile.Deps)
}

// TDeps returns the transitive dependency closure from TDEPS, in the
// deterministic order supplied by the producer. An absent file yields an
// empty list.
func (p *PackageInstall) TDeps() ([]ident.Identifier, error) {
	return metafile.ReadDeps(p.installedPath, metafile.TDeps)
}

// LoadDeps resolves each of Deps against the same fs_root_path as p. Any
// unresolved dependency is an error.
func (p *PackageInstall) LoadDeps() ([]*PackageInstall, error) {
	deps, err := p.Deps()
	if err != nil {
		return nil, err
	}
	return p.loadAll(deps)
}

// LoadTDeps resolves each of TDeps against the same fs_root_path as p. Any
// unresolved dependency is an error.
func (p *PackageInstall) LoadTDeps() ([]*PackageInstall, error) {
	tdeps, err := p.TDeps()
	if err != nil {
		return nil, err
	}
	return p.loadAll(tdeps)
}

func (p *PackageInstall) loadAll(ids []ident.Identifier) ([]*PackageInstall, error) {
	out := make([]*PackageInstall, 0, len(ids))
	for _, id := range ids {
		resolved, err := Load(id, p.fsRootPath)
		if err != nil {
			return nil, err
		}
		out = append(out, resolved)
	}
	return out, nil
}

// Binds returns the required bind specifications from BINDS. An absent
// file yields an empty list.
func (p *PackageInstall) Binds() ([]metafile.Bind, error) {
	return metafile.ReadBinds(p.installedPath, metafile.Binds)
}

// BindsOptional returns the optional bind specifications from
// BINDS_OPTIONAL. An absent file yields an empty list.
func (p *PackageInstall) BindsOptional() ([]metafile.Bind, error) {
	return metafile.ReadBinds(p.installedPath, metafile.BindsOptional)
}

// BindMap returns the service-to-bind-provider mapping from BIND_MAP. An
// absent file yields an empty map.
func (p *PackageInstall) BindMap() (map[ident.Identifier][]metafile.BindMapping, error) {
	return metafile.ReadBindMap(p.installedPath)
}

// Exports returns the KEY=VALUE pairs from EXPORTS. An absent file yields
// an empty map.
func (p *PackageInstall) Exports() (map[string]string, error) {
	return metafile.ReadKeyValue(p.installedPath, metafile.Exports)
}

// Exposes returns the whitespace-separated tokens from EXPOSES. An absent
// file yields an empty list.
func (p *PackageInstall) Exposes() ([]string, error) {
	raw, err := metafile.Read(p.installedPath, metafile.Exposes)
	if isMetaFileNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return strings.Fields(raw), nil
}

// SvcUser returns the SVC_USER metafile's contents, or "" if absent.
func (p *PackageInstall) SvcUser() (string, error) {
	raw, err := metafile.Read(p.installedPath, metafile.SvcUser)
	if isMetaFileNotFound(err) {
		return "", nil
	}
	return raw, err
}

// SvcGroup returns the SVC_GROUP metafile's contents, or "" if absent.
func (p *PackageInstall) SvcGroup() (string, error) {
	raw, err := metafile.Read(p.installedPath, metafile.SvcGroup)
	if isMetaFileNotFound(err) {
		return "", nil
	}
	return raw, err
}

// PkgServices returns the (not necessarily fully qualified) identifiers
// from SERVICES. An absent file yields an empty list.
func (p *PackageInstall) PkgServices() ([]ident.Identifier, error) {
	return metafile.ReadDeps(p.installedPath, metafile.Services)
}

// DefaultCfg parses default.toml. A missing or malformed file yields
// (nil, false), never an error.
func (p *PackageInstall) DefaultCfg() (map[string]any, bool) {
	return metafile.DefaultCfg(p.installedPath)
}
