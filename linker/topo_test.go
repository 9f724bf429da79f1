package linker

import "testing"

type fakeSource struct {
	path string
	deps []string
}

func (f fakeSource) SourcePath() string           { return f.path }
func (f fakeSource) SourceDependencies() []string { return f.deps }

func TestTopoOrderRespectsDependencies(t *testing.T) {
	a := fakeSource{path: "a", deps: []string{"b"}}
	b := fakeSource{path: "b"}
	ordered, err := topoOrder([]assemblySource{a, b})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ordered) != 2 || ordered[0].SourcePath() != "b" || ordered[1].SourcePath() != "a" {
		t.Fatalf("expected [b, a], got %v", pathsOf(ordered))
	}
}

func TestTopoOrderIndependentOfInputOrder(t *testing.T) {
	a := fakeSource{path: "a", deps: []string{"b"}}
	b := fakeSource{path: "b"}
	ordered, err := topoOrder([]assemblySource{b, a})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ordered) != 2 || ordered[0].SourcePath() != "b" || ordered[1].SourcePath() != "a" {
		t.Fatalf("expected [b, a] regardless of input order, got %v", pathsOf(ordered))
	}
}

func TestTopoOrderDetectsCycle(t *testing.T) {
	a := fakeSource{path: "a", deps: []string{"b"}}
	b := fakeSource{path: "b", deps: []string{"a"}}
	_, err := topoOrder([]assemblySource{a, b})
	if err == nil {
		t.Fatal("expected CyclicDependency error for a<->b")
	}
}

func pathsOf(s []assemblySource) []string {
	out := make([]string, len(s))
	for i, v := range s {
		out[i] = v.SourcePath()
	}
	return out
}
