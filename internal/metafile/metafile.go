// Package metafile reads and parses the well-known textual metadata files
// that live beside an installed package (§4.C).
package metafile

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/pelletier/go-toml/v2"

	"github.com/habicore/pkgcore/internal/ident"
	"github.com/habicore/pkgcore/internal/pkgerr"
)

// Name is a well-known metafile basename in an install's installed_path.
type Name string

// The closed enumeration of metafile basenames (§3).
const (
	Ident               Name = "IDENT"
	Target              Name = "TARGET"
	Type                Name = "TYPE"
	Deps                Name = "DEPS"
	TDeps               Name = "TDEPS"
	Binds               Name = "BINDS"
	BindsOptional       Name = "BINDS_OPTIONAL"
	BindMapFile         Name = "BIND_MAP"
	Exports             Name = "EXPORTS"
	Exposes             Name = "EXPOSES"
	Path                Name = "PATH"
	RuntimePath         Name = "RUNTIME_PATH"
	RuntimeEnvironment  Name = "RUNTIME_ENVIRONMENT"
	SvcUser             Name = "SVC_USER"
	SvcGroup            Name = "SVC_GROUP"
	Services            Name = "SERVICES"
	DefaultCfgFile      Name = "default.toml"
)

func (n Name) String() string { return string(n) }

// Read opens <installedPath>/<name> and returns its contents trimmed of
// surrounding whitespace.
//
// Fails with *pkgerr.MetaFileNotFoundError if the file is absent,
// *pkgerr.MetaFileIOError on I/O error, and *pkgerr.MetaFileMalformedError
// if the contents are not valid UTF-8.
func Read(installedPath string, name Name) (string, error) {
	raw, err := os.ReadFile(installedPath + "/" + string(name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", &pkgerr.MetaFileNotFoundError{Name: string(name)}
		}
		return "", &pkgerr.MetaFileIOError{Name: string(name), Cause: err}
	}
	if !utf8.Valid(raw) {
		return "", &pkgerr.MetaFileMalformedError{Name: string(name)}
	}
	return strings.TrimSpace(string(raw)), nil
}

// ReadDeps reads name as a newline-separated list of package identifiers.
//
// Unless name is Services, every entry must be fully qualified; otherwise
// the call fails with *pkgerr.FullyQualifiedPackageIdentRequiredError. An
// absent file is not an error: it yields an empty list.
func ReadDeps(installedPath string, name Name) ([]ident.Identifier, error) {
	mustBeFullyQualified := name != Services

	body, err := Read(installedPath, name)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if body == "" {
		return nil, nil
	}

	var deps []ident.Identifier
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		id, err := ident.Parse(line)
		if err != nil {
			return nil, err
		}
		if mustBeFullyQualified && !id.FullyQualified() {
			return nil, &pkgerr.FullyQualifiedPackageIdentRequiredError{Value: line}
		}
		deps = append(deps, id)
	}
	return deps, nil
}

// ReadKeyValue reads name as newline-separated "KEY=VALUE" pairs, splitting
// each line on the first '='. An absent file yields an empty map.
// Malformed lines (no '=') fail with *pkgerr.MetaFileMalformedError.
func ReadKeyValue(installedPath string, name Name) (map[string]string, error) {
	body, err := Read(installedPath, name)
	if isNotFound(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	return parseKeyValue(body, name)
}

func parseKeyValue(body string, name Name) (map[string]string, error) {
	result := make(map[string]string)
	if body == "" {
		return result, nil
	}
	for _, line := range strings.Split(body, "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, &pkgerr.MetaFileMalformedError{Name: string(name)}
		}
		result[parts[0]] = parts[1]
	}
	return result, nil
}

// Bind is a "name:ident" entry from BINDS/BINDS_OPTIONAL.
type Bind struct {
	Name  string
	Ident ident.Identifier
}

func parseBind(line string) (Bind, error) {
	parts := strings.SplitN(line, ":", 2)
	if len(parts) != 2 || parts[0] == "" {
		return Bind{}, fmt.Errorf("malformed bind: %q", line)
	}
	id, err := ident.Parse(parts[1])
	if err != nil {
		return Bind{}, err
	}
	return Bind{Name: parts[0], Ident: id}, nil
}

// ReadBinds reads BINDS or BINDS_OPTIONAL as a list of Bind entries. An
// absent file yields an empty list.
func ReadBinds(installedPath string, name Name) ([]Bind, error) {
	body, err := Read(installedPath, name)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var binds []Bind
	for _, line := range strings.Split(body, "\n") {
		if line == "" {
			continue
		}
		b, err := parseBind(line)
		if err != nil {
			return nil, &pkgerr.MetaFileMalformedError{Name: string(name)}
		}
		binds = append(binds, b)
	}
	return binds, nil
}

// BindMapping is a "serviceName:ident" entry on the right-hand side of a
// BIND_MAP line.
type BindMapping struct {
	ServiceName string
	Ident       ident.Identifier
}

func parseBindMapping(tok string) (BindMapping, error) {
	parts := strings.SplitN(tok, ":", 2)
	if len(parts) != 2 || parts[0] == "" {
		return BindMapping{}, fmt.Errorf("malformed bind mapping: %q", tok)
	}
	id, err := ident.Parse(parts[1])
	if err != nil {
		return BindMapping{}, err
	}
	return BindMapping{ServiceName: parts[0], Ident: id}, nil
}

// ReadBindMap reads BIND_MAP: lines of the form
// "<pkg-ident>=<bind1> <bind2> ...", producing a map from the package
// identifier to its list of BindMapping entries. An absent file yields an
// empty map.
func ReadBindMap(installedPath string) (map[ident.Identifier][]BindMapping, error) {
	body, err := Read(installedPath, BindMapFile)
	if isNotFound(err) {
		return map[ident.Identifier][]BindMapping{}, nil
	}
	if err != nil {
		return nil, err
	}

	result := make(map[ident.Identifier][]BindMapping)
	for _, line := range strings.Split(body, "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, &pkgerr.MetaFileBadBindError{}
		}
		pkgID, err := ident.Parse(parts[0])
		if err != nil {
			return nil, err
		}
		var mappings []BindMapping
		for _, tok := range strings.Split(parts[1], " ") {
			if tok == "" {
				continue
			}
			m, err := parseBindMapping(tok)
			if err != nil {
				return nil, &pkgerr.MetaFileBadBindError{}
			}
			mappings = append(mappings, m)
		}
		result[pkgID] = mappings
	}
	return result, nil
}

// DefaultCfg parses default.toml as TOML. A missing file or a parse error
// yields (nil, false), never an error: default configuration is advisory.
func DefaultCfg(installedPath string) (map[string]any, bool) {
	raw, err := os.ReadFile(installedPath + "/" + string(DefaultCfgFile))
	if err != nil {
		return nil, false
	}
	var v map[string]any
	if err := toml.Unmarshal(raw, &v); err != nil {
		return nil, false
	}
	return v, true
}

func isNotFound(err error) bool {
	return errors.Is(err, pkgerr.ErrMetaFileNotFound)
}
