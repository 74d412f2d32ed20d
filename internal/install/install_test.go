package install

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/habicore/pkgcore/internal/ident"
	"github.com/habicore/pkgcore/internal/pkgerr"
	"github.com/habicore/pkgcore/internal/target"
)

// fixture builds <fsRoot>/hab/pkgs/<origin>/<name>/<version>/<release> and
// writes a TARGET metafile for it. Pass matchTarget=false to simulate a
// wrong-target (invisible) release.
func fixture(t *testing.T, fsRoot, origin, name, version, release string, matchTarget bool) string {
	t.Helper()
	dir := filepath.Join(PackageRootPath(fsRoot), origin, name, version, release)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	tgt := "bogus-bogus"
	if matchTarget {
		tgt = target.Active().String()
	}
	if err := os.WriteFile(filepath.Join(dir, "TARGET"), []byte(tgt), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func writeMeta(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadPackageRootMissingIsNotFound(t *testing.T) {
	fsRoot := t.TempDir()
	q, _ := ident.NewNameIdent("a", "b")
	_, err := Load(q, fsRoot)
	if _, ok := err.(*pkgerr.PackageNotFoundError); !ok {
		t.Fatalf("expected PackageNotFoundError, got %v (%T)", err, err)
	}
}

func TestFuzzyResolutionPicksMatchingTarget(t *testing.T) {
	fsRoot := t.TempDir()
	fixture(t, fsRoot, "a", "b", "1.1.1", "20180704142702", true)
	fixture(t, fsRoot, "a", "b", "5.5.5", "20180704142702", false)

	q, _ := ident.NewNameIdent("a", "b")
	got, err := Load(q, fsRoot)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := ident.NewReleaseIdent("a", "b", "1.1.1", "20180704142702")
	if !got.Ident().Equal(want) {
		t.Errorf("got %s, want %s", got.Ident(), want)
	}
}

func TestExactMatchWrongTargetIsNotFound(t *testing.T) {
	fsRoot := t.TempDir()
	fixture(t, fsRoot, "a", "b", "1.2.3", "20180704142702", false)

	q, _ := ident.NewReleaseIdent("a", "b", "1.2.3", "20180704142702")
	_, err := Load(q, fsRoot)
	if _, ok := err.(*pkgerr.PackageNotFoundError); !ok {
		t.Fatalf("expected PackageNotFoundError, got %v (%T)", err, err)
	}
}

func TestTempInstallDirSkipped(t *testing.T) {
	fsRoot := t.TempDir()
	fixture(t, fsRoot, "a", "b", "1.0.0", ".hab-pkg-install-20180101000000", true)

	q, _ := ident.NewNameIdent("a", "b")
	_, err := Load(q, fsRoot)
	if _, ok := err.(*pkgerr.PackageNotFoundError); !ok {
		t.Fatalf("expected PackageNotFoundError for only-temp-install tree, got %v (%T)", err, err)
	}
}

func TestLoadAtLeastSubstitutesZero(t *testing.T) {
	fsRoot := t.TempDir()
	fixture(t, fsRoot, "a", "b", "1.0.0", "20180101000000", true)

	q, _ := ident.NewNameIdent("a", "b")
	got, err := LoadAtLeast(q, fsRoot)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := ident.NewReleaseIdent("a", "b", "1.0.0", "20180101000000")
	if !got.Ident().Equal(want) {
		t.Errorf("got %s, want %s", got.Ident(), want)
	}
}

func TestLoadAtLeastRejectsOlder(t *testing.T) {
	fsRoot := t.TempDir()
	fixture(t, fsRoot, "a", "b", "1.0.0", "20180101000000", true)

	q, _ := ident.NewVersionIdent("a", "b", "2.0.0")
	_, err := LoadAtLeast(q, fsRoot)
	if _, ok := err.(*pkgerr.PackageNotFoundError); !ok {
		t.Fatalf("expected PackageNotFoundError, got %v (%T)", err, err)
	}
}

// buildLegacyChain builds the dependency graph from §8 scenario 4:
// alpha -> {charlie, hotel, beta}; charlie -> {golf, delta}; beta -> {delta};
// delta -> {echo}; echo -> {foxtrot}. delta and echo are library-only
// packages with no PATH entries of their own, so only alpha, charlie,
// hotel, beta, foxtrot and golf contribute to the legacy runtime PATH.
func buildLegacyChain(t *testing.T, fsRoot string) *PackageInstall {
	t.Helper()
	deps := map[string][]string{
		"alpha":   {"charlie", "hotel", "beta"},
		"charlie": {"golf", "delta"},
		"beta":    {"delta"},
		"delta":   {"echo"},
		"echo":    {"foxtrot"},
	}
	hasOwnPath := map[string]bool{
		"alpha": true, "charlie": true, "hotel": true, "beta": true,
		"golf": true, "foxtrot": true,
	}

	ids := make(map[string]ident.Identifier)
	dirs := make(map[string]string)
	for _, name := range []string{"alpha", "charlie", "hotel", "beta", "delta", "echo", "golf", "foxtrot"} {
		dir := fixture(t, fsRoot, "a", name, "1.0.0", "20180101000000", true)
		dirs[name] = dir
		ids[name], _ = ident.NewReleaseIdent("a", name, "1.0.0", "20180101000000")
	}
	for name, dir := range dirs {
		if hasOwnPath[name] {
			writeMeta(t, dir, "PATH", filepath.Join(dir, "bin"))
		}
		if d := deps[name]; d != nil {
			idLines := make([]string, len(d))
			for i, dep := range d {
				idLines[i] = ids[dep].String()
			}
			writeMeta(t, dir, "DEPS", joinLines(idLines))
		}
	}
	// The producer-supplied TDEPS order for alpha; delta/echo contribute no
	// PATH entries so their position doesn't affect the observable output,
	// but foxtrot must precede golf to match the expected ordering.
	writeMeta(t, dirs["alpha"], "TDEPS", joinLines([]string{
		ids["echo"].String(), ids["foxtrot"].String(), ids["delta"].String(), ids["golf"].String(),
	}))

	q, _ := ident.NewNameIdent("a", "alpha")
	alpha, err := Load(q, fsRoot)
	if err != nil {
		t.Fatal(err)
	}
	return alpha
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}

func TestLegacyRuntimePathsOrdering(t *testing.T) {
	fsRoot := t.TempDir()
	alpha := buildLegacyChain(t, fsRoot)

	got, err := alpha.LegacyRuntimePaths()
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"alpha", "charlie", "hotel", "beta", "foxtrot", "golf"}
	if len(got) != len(want) {
		t.Fatalf("got %d entries %v, want %d entries for %v", len(got), got, len(want), want)
	}
	for i, name := range want {
		expect := filepath.Join(PackageRootPath(fsRoot), "a", name, "1.0.0", "20180101000000", "bin")
		if got[i] != expect {
			t.Errorf("entry %d: got %q, want %q", i, got[i], expect)
		}
	}
}

func TestPathsFiltersForeignEntries(t *testing.T) {
	fsRoot := t.TempDir()
	dir := fixture(t, fsRoot, "a", "alpha", "1.0.0", "20180101000000", true)
	other := fixture(t, fsRoot, "a", "other", "1.0.0", "20180101000000", true)
	writeMeta(t, dir, "PATH", filepath.Join(dir, "bin")+string(os.PathListSeparator)+filepath.Join(other, "bin"))

	q, _ := ident.NewReleaseIdent("a", "alpha", "1.0.0", "20180101000000")
	alpha, err := Load(q, fsRoot)
	if err != nil {
		t.Fatal(err)
	}
	paths, err := alpha.Paths()
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 1 || paths[0] != filepath.Join(dir, "bin") {
		t.Errorf("got %v, want only alpha's own bin dir", paths)
	}
}

func TestEnvironmentForCommand(t *testing.T) {
	fsRoot := t.TempDir()
	dir := fixture(t, fsRoot, "a", "alpha", "1.0.0", "20180101000000", true)
	writeMeta(t, dir, "PATH", filepath.Join(dir, "bin"))
	writeMeta(t, dir, "RUNTIME_ENVIRONMENT", "PATH=/ignored\nJAVA_HOME=/j\nFOO=bar\n")

	q, _ := ident.NewReleaseIdent("a", "alpha", "1.0.0", "20180101000000")
	alpha, err := Load(q, fsRoot)
	if err != nil {
		t.Fatal(err)
	}
	env, err := alpha.EnvironmentForCommand()
	if err != nil {
		t.Fatal(err)
	}
	if env["FOO"] != "bar" || env["JAVA_HOME"] != "/j" {
		t.Errorf("got %v", env)
	}
	want := filepath.Join(dir, "bin")
	if env["PATH"] != want {
		t.Errorf("PATH = %q, want %q", env["PATH"], want)
	}
}

func TestEnvironmentForCommandNoPathWhenRuntimePathsEmpty(t *testing.T) {
	fsRoot := t.TempDir()
	dir := fixture(t, fsRoot, "a", "alpha", "1.0.0", "20180101000000", true)
	writeMeta(t, dir, "RUNTIME_ENVIRONMENT", "FOO=bar\n")

	q, _ := ident.NewReleaseIdent("a", "alpha", "1.0.0", "20180101000000")
	alpha, err := Load(q, fsRoot)
	if err != nil {
		t.Fatal(err)
	}
	env, err := alpha.EnvironmentForCommand()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := env["PATH"]; ok {
		t.Errorf("expected no PATH key, got %v", env)
	}
}

func TestPkgTypeDefaultsStandalone(t *testing.T) {
	fsRoot := t.TempDir()
	fixture(t, fsRoot, "a", "alpha", "1.0.0", "20180101000000", true)

	q, _ := ident.NewReleaseIdent("a", "alpha", "1.0.0", "20180101000000")
	alpha, err := Load(q, fsRoot)
	if err != nil {
		t.Fatal(err)
	}
	pkgType, err := alpha.PkgType()
	if err != nil {
		t.Fatal(err)
	}
	if pkgType != Standalone {
		t.Errorf("got %v, want Standalone", pkgType)
	}
}

func TestIsRunnable(t *testing.T) {
	fsRoot := t.TempDir()
	dir := fixture(t, fsRoot, "a", "alpha", "1.0.0", "20180101000000", true)

	q, _ := ident.NewReleaseIdent("a", "alpha", "1.0.0", "20180101000000")
	alpha, err := Load(q, fsRoot)
	if err != nil {
		t.Fatal(err)
	}
	if alpha.IsRunnable() {
		t.Error("expected not runnable before run hook exists")
	}

	if err := os.MkdirAll(filepath.Join(dir, "hooks"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeMeta(t, filepath.Join(dir, "hooks"), "run", "#!/bin/sh\n")
	if !alpha.IsRunnable() {
		t.Error("expected runnable once hooks/run exists")
	}
}
