// Command habpkg is a minimal diagnostic entrypoint over the resolver:
// resolve/list/path/env/archive-name subcommands. It stays a thin flag-based tool rather
// than a full command surface.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/habicore/pkgcore/internal/config"
	"github.com/habicore/pkgcore/internal/ident"
	"github.com/habicore/pkgcore/internal/install"
	"github.com/habicore/pkgcore/internal/logging"
	"github.com/habicore/pkgcore/internal/target"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("Usage: habpkg <resolve|list|path|env|archive-name> [flags] <ident>\nRun with -h on any subcommand for its flags.")
	}

	command := os.Args[1]
	cfgPath := os.Getenv("HABPKG_CONFIG")
	if cfgPath == "" {
		cfgPath = "/hab/pkgcore.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	config.ConfigureLogging(cfg)

	// Every log line emitted during this invocation, including the
	// resolver's own log-and-skip lines, carries the op_id field.
	logging.SetDefault(logging.Default().WithFields(map[string]interface{}{
		"op_id":   uuid.NewString(),
		"command": command,
	}))
	logging.Debug("habpkg invoked")

	switch command {
	case "resolve":
		runResolve(os.Args[2:], cfg)
	case "list":
		runList(os.Args[2:], cfg)
	case "path":
		runPath(os.Args[2:], cfg)
	case "env":
		runEnv(os.Args[2:], cfg)
	case "archive-name":
		runArchiveName(os.Args[2:])
	default:
		log.Fatalf("Unknown command: %s\nAvailable commands: resolve, list, path, env, archive-name", command)
	}
}

func parseIdentArg(fs *flag.FlagSet, args []string) ident.Identifier {
	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse flags: %v", err)
	}
	if fs.NArg() != 1 {
		log.Fatalf("Expected exactly one identifier argument, got %d", fs.NArg())
	}
	id, err := ident.Parse(fs.Arg(0))
	if err != nil {
		log.Fatalf("Invalid identifier %q: %v", fs.Arg(0), err)
	}
	return id
}

func runResolve(args []string, cfg config.Config) {
	fs := flag.NewFlagSet("resolve", flag.ExitOnError)
	atLeast := fs.Bool("at-least", false, "accept the newest installed release >= the given identifier")
	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse flags: %v", err)
	}
	if fs.NArg() != 1 {
		log.Fatalf("Expected exactly one identifier argument, got %d", fs.NArg())
	}
	id, err := ident.Parse(fs.Arg(0))
	if err != nil {
		log.Fatalf("Invalid identifier %q: %v", fs.Arg(0), err)
	}

	var pkg *install.PackageInstall
	if *atLeast {
		pkg, err = install.LoadAtLeast(id, cfg.FSRootPath)
	} else {
		pkg, err = install.Load(id, cfg.FSRootPath)
	}
	if err != nil {
		log.Fatalf("Resolve failed: %v", err)
	}

	printJSON(map[string]any{
		"ident":          pkg.Ident().String(),
		"installed_path": pkg.InstalledPath(),
		"runnable":       pkg.IsRunnable(),
	})
}

func runList(args []string, cfg config.Config) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse flags: %v", err)
	}

	var candidates []ident.Identifier
	if cfg.EnumerationCachePath != "" {
		cache, err := install.NewEnumerationCache(cfg.EnumerationCachePath)
		if err != nil {
			log.Fatalf("Failed to open enumeration cache: %v", err)
		}
		defer cache.Close()
		candidates, err = install.PackageListCached(cache, cfg.ResolvedPackageRootPath(), target.Active())
		if err != nil {
			log.Fatalf("List failed: %v", err)
		}
	} else {
		var err error
		candidates, err = install.PackageList(cfg.ResolvedPackageRootPath(), target.Active())
		if err != nil {
			log.Fatalf("List failed: %v", err)
		}
	}
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.String()
	}
	printJSON(out)
}

func runPath(args []string, cfg config.Config) {
	fs := flag.NewFlagSet("path", flag.ExitOnError)
	id := parseIdentArg(fs, args)

	pkg, err := install.Load(id, cfg.FSRootPath)
	if err != nil {
		log.Fatalf("Resolve failed: %v", err)
	}
	paths, err := pkg.RuntimePaths()
	if err != nil {
		log.Fatalf("Failed to compose runtime PATH: %v", err)
	}
	printJSON(paths)
}

func runEnv(args []string, cfg config.Config) {
	fs := flag.NewFlagSet("env", flag.ExitOnError)
	id := parseIdentArg(fs, args)

	pkg, err := install.Load(id, cfg.FSRootPath)
	if err != nil {
		log.Fatalf("Resolve failed: %v", err)
	}
	env, err := pkg.EnvironmentForCommand()
	if err != nil {
		log.Fatalf("Failed to compose environment: %v", err)
	}
	printJSON(env)
}

func runArchiveName(args []string) {
	fs := flag.NewFlagSet("archive-name", flag.ExitOnError)
	tgt := fs.String("target", target.Active().String(), "target to render the archive name for")
	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse flags: %v", err)
	}
	if fs.NArg() != 1 {
		log.Fatalf("Expected exactly one identifier argument, got %d", fs.NArg())
	}
	id, err := ident.ParseRelease(fs.Arg(0))
	if err != nil {
		log.Fatalf("Invalid release identifier %q: %v", fs.Arg(0), err)
	}
	name, err := ident.ArchiveName(id, target.PackageTarget(*tgt))
	if err != nil {
		log.Fatalf("Failed to render archive name: %v", err)
	}
	fmt.Println(name)
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal output: %v", err)
	}
	fmt.Println(string(data))
}
