package linker

import (
	"strings"

	"github.com/mun-lang/mun/internal/errs"
)

// assemblySource is the subset of assembly.Assembly the linker's
// topological pass needs. Declared as an interface so topoOrder can be
// unit-tested against fixture graphs without constructing real
// assembly.Assembly values.
type assemblySource interface {
	SourcePath() string
	SourceDependencies() []string
}

// topoOrder orders assemblies so that every dependency is linked before
// its dependents, detecting dependency cycles along the way. This is a
// supplemented feature relative to spec.md's description of §4.3's load
// step (the original source's loader walks a dependency DAG the same
// way; spec.md's distillation left the cycle check implicit). Cycles are
// reported as errs.CyclicDependency, naming the cycle found.
func topoOrder(assemblies []assemblySource) ([]assemblySource, error) {
	byPath := make(map[string]assemblySource, len(assemblies))
	for _, a := range assemblies {
		byPath[a.SourcePath()] = a
	}

	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int, len(assemblies))
	var order []assemblySource
	var stack []string

	var visit func(path string) error
	visit = func(path string) error {
		switch state[path] {
		case done:
			return nil
		case visiting:
			stack = append(stack, path)
			return errs.New(errs.CyclicDependency, "dependency cycle: %s", strings.Join(stack, " -> "))
		}
		a, ok := byPath[path]
		if !ok {
			// A dependency on an assembly not in this load set is not a
			// cycle; linking itself will fail later with UnresolvedType
			// or UnresolvedFunction once slot resolution runs.
			return nil
		}
		state[path] = visiting
		stack = append(stack, path)
		for _, dep := range a.SourceDependencies() {
			if err := visit(dep); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		state[path] = done
		order = append(order, a)
		return nil
	}

	for _, a := range assemblies {
		if err := visit(a.SourcePath()); err != nil {
			return nil, err
		}
	}
	return order, nil
}
