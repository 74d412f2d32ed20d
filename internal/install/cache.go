package install

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/habicore/pkgcore/internal/ident"
	"github.com/habicore/pkgcore/internal/logging"
	"github.com/habicore/pkgcore/internal/target"
)

// EnumerationCache is an optional, opt-in SQLite-backed cache of the raw
// directory walk performed by walkAllReleaseIdents, keyed by
// package_root_path and invalidated whenever that directory's modification
// time changes.
//
// The cache only ever shortcuts the recursive readdir walk. It never
// shortcuts the live TARGET re-check: PackageListCached always runs
// filterActiveTarget over whatever candidate list it returns, cached or
// freshly walked, so a package whose TARGET metafile is missing or
// mismatched is invisible regardless of cache state (§5).
type EnumerationCache struct {
	db *sql.DB
}

// NewEnumerationCache opens (creating if necessary) a SQLite database at
// dbPath, enables WAL mode, and ensures the cache table exists.
func NewEnumerationCache(dbPath string) (*EnumerationCache, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open enumeration cache: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	const schema = `
		CREATE TABLE IF NOT EXISTS enumeration_cache (
			package_root_path TEXT PRIMARY KEY,
			root_mtime_unix   INTEGER NOT NULL,
			candidates        TEXT NOT NULL,
			cached_at         TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create enumeration_cache table: %w", err)
	}

	return &EnumerationCache{db: db}, nil
}

// Close releases the underlying database handle.
func (c *EnumerationCache) Close() error { return c.db.Close() }

// PackageListCached behaves exactly like PackageList, except that the raw,
// pre-target-filter directory walk is served from c when packageRootPath's
// modification time matches the last cached walk, avoiding a full
// recursive readdir over the install tree on repeated calls.
func PackageListCached(c *EnumerationCache, packageRootPath string, active target.PackageTarget) ([]ident.Identifier, error) {
	info, err := os.Stat(packageRootPath)
	if err != nil {
		return nil, err
	}
	mtime := info.ModTime().UnixNano()

	if raw, ok, err := c.get(packageRootPath, mtime); err != nil {
		logging.Warn("enumeration cache read failed, falling back to live walk: %v", err)
	} else if ok {
		return filterActiveTarget(packageRootPath, raw, active), nil
	}

	raw, err := walkAllReleaseIdents(packageRootPath)
	if err != nil {
		return nil, err
	}
	if err := c.put(packageRootPath, mtime, raw); err != nil {
		logging.Warn("enumeration cache write failed: %v", err)
	}
	return filterActiveTarget(packageRootPath, raw, active), nil
}

func (c *EnumerationCache) get(packageRootPath string, mtime int64) ([]ident.Identifier, bool, error) {
	var storedMtime int64
	var blob string
	err := c.db.QueryRow(
		`SELECT root_mtime_unix, candidates FROM enumeration_cache WHERE package_root_path = ?`,
		packageRootPath,
	).Scan(&storedMtime, &blob)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if storedMtime != mtime {
		return nil, false, nil
	}
	return decodeCandidates(blob)
}

func (c *EnumerationCache) put(packageRootPath string, mtime int64, candidates []ident.Identifier) error {
	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO enumeration_cache (package_root_path, root_mtime_unix, candidates, cached_at) VALUES (?, ?, ?, ?)`,
		packageRootPath, mtime, encodeCandidates(candidates), time.Now().UTC(),
	)
	return err
}

func encodeCandidates(ids []ident.Identifier) string {
	lines := make([]string, len(ids))
	for i, id := range ids {
		lines[i] = id.String()
	}
	return strings.Join(lines, "\n")
}

func decodeCandidates(blob string) ([]ident.Identifier, bool, error) {
	if blob == "" {
		return nil, true, nil
	}
	lines := strings.Split(blob, "\n")
	out := make([]ident.Identifier, 0, len(lines))
	for _, line := range lines {
		id, err := ident.ParseRelease(line)
		if err != nil {
			return nil, false, fmt.Errorf("corrupt enumeration cache entry %q: %w", line, err)
		}
		out = append(out, id)
	}
	return out, true, nil
}
