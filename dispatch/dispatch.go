// Package dispatch implements the runtime's dispatch table: a map from
// function name to FunctionDefinition, maintained under the same
// clone-and-swap discipline as package types' Table, plus the fixpoint
// loop that resolves every assembly's writeable dispatch LUT slots
// against it.
package dispatch

import (
	"github.com/mun-lang/mun/abi"
	"github.com/mun-lang/mun/internal/errs"
)

// FunctionDefinition pairs a prototype with its callable function.
type FunctionDefinition struct {
	Prototype abi.FunctionPrototype
	Fn        abi.FunctionDef
}

// Table is a per-runtime function-name -> FunctionDefinition map.
type Table struct {
	entries map[string]*FunctionDefinition
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{entries: make(map[string]*FunctionDefinition)}
}

// Clone returns a shallow copy, safe to mutate independently of t.
func (t *Table) Clone() *Table {
	c := NewTable()
	for k, v := range t.entries {
		c.entries[k] = v
	}
	return c
}

// Get looks up a function definition by name.
func (t *Table) Get(name string) (*FunctionDefinition, bool) {
	d, ok := t.entries[name]
	return d, ok
}

// Len reports the number of distinct function names in t.
func (t *Table) Len() int { return len(t.entries) }

// Insert adds def, replacing an existing definition of the same name and
// prototype, and fails with SignatureMismatch if a differently-typed
// definition of the same name already exists in t.
func (t *Table) Insert(def *FunctionDefinition) error {
	if existing, ok := t.entries[def.Prototype.Name]; ok {
		if !existing.Prototype.Equal(def.Prototype) {
			return errs.New(errs.SignatureMismatch,
				"function %q already linked with a different prototype", def.Prototype.Name)
		}
	}
	t.entries[def.Prototype.Name] = def
	return nil
}

// ResolveSlots walks slots in a fixpoint loop, looking up each
// unresolved slot's prototype by name in tbl and patching it on match,
// performing spec.md §4.4's signature check (arg/return Guids must
// match) on every patch attempt. Each pass must resolve at least one
// slot, or the loop fails with UnresolvedFunction — this is what lets
// assemblies depend on each other in any load order.
func ResolveSlots(tbl *Table, slots []*abi.DispatchSlot) error {
	remaining := make([]*abi.DispatchSlot, 0, len(slots))
	for _, s := range slots {
		if !s.Resolved() {
			remaining = append(remaining, s)
		}
	}

	for len(remaining) > 0 {
		progressed := false
		next := remaining[:0]
		for _, s := range remaining {
			def, ok := tbl.Get(s.Prototype.Name)
			if !ok {
				next = append(next, s)
				continue
			}
			if !def.Prototype.Equal(s.Prototype) {
				return errs.New(errs.SignatureMismatch,
					"slot for %q expects a different prototype than the linked definition", s.Prototype.Name)
			}
			s.Set(def.Fn.Fn)
			progressed = true
		}
		remaining = next
		if !progressed && len(remaining) > 0 {
			names := make([]string, 0, len(remaining))
			for _, s := range remaining {
				names = append(names, s.Prototype.Name)
			}
			return errs.New(errs.UnresolvedFunction, "unresolved function dependency among: %v", names)
		}
	}
	return nil
}
