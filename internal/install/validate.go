package install

import (
	"fmt"

	"github.com/habicore/pkgcore/internal/depgraph"
)

// ValidateAcyclic is a diagnostic over p's resolved transitive dependency
// set: it rebuilds the direct-dependency edges among p and its TDeps and
// runs a topological sort purely to detect a cycle a corrupted or
// hand-edited TDEPS might hide. It never reorders anything — TDEPS order
// from the producer remains authoritative per §4.D.
func (p *PackageInstall) ValidateAcyclic() error {
	g := depgraph.NewGraph()

	tdeps, err := p.TDeps()
	if err != nil {
		return err
	}

	all := append([]*PackageInstall{p}, make([]*PackageInstall, 0, len(tdeps))...)
	for _, id := range tdeps {
		dep, err := Load(id, p.fsRootPath)
		if err != nil {
			return err
		}
		all = append(all, dep)
	}

	for _, pkg := range all {
		deps, err := pkg.Deps()
		if err != nil {
			return err
		}
		depIDs := make([]string, len(deps))
		for i, d := range deps {
			depIDs[i] = d.String()
		}
		g.AddNode(&depgraph.Node{ID: pkg.Ident().String(), Dependencies: depIDs})
	}

	if _, err := g.TopologicalSort(); err != nil {
		return fmt.Errorf("%s: %w", p.Ident(), err)
	}
	return nil
}
