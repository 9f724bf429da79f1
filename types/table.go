package types

import "github.com/mun-lang/mun/abi"

// Table is a per-runtime GUID/name -> Descriptor view. Exactly one
// descriptor per Guid. It is immutable after an assembly's load
// transaction commits; the linker is the only caller that mutates one,
// and it always does so on a Clone, swapping the clone in atomically
// only once a whole link transaction has succeeded (§4.3's "clone and
// swap" discipline — a failed link leaves the installed table
// untouched).
type Table struct {
	byGuid map[abi.Guid]*Descriptor
	byName map[string]*Descriptor
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{byGuid: make(map[abi.Guid]*Descriptor), byName: make(map[string]*Descriptor)}
}

// Clone returns a shallow copy: same descriptor pointers, independent
// maps, safe to mutate without affecting t.
func (t *Table) Clone() *Table {
	c := NewTable()
	for k, v := range t.byGuid {
		c.byGuid[k] = v
	}
	for k, v := range t.byName {
		c.byName[k] = v
	}
	return c
}

// ByGuid looks up a descriptor by content-derived identity.
func (t *Table) ByGuid(g abi.Guid) (*Descriptor, bool) {
	d, ok := t.byGuid[g]
	return d, ok
}

// ByName looks up a descriptor by declared name.
func (t *Table) ByName(name string) (*Descriptor, bool) {
	d, ok := t.byName[name]
	return d, ok
}

// Insert adds (or overwrites) d in the table, keyed by both its Guid and
// its Name.
func (t *Table) Insert(d *Descriptor) {
	t.byGuid[d.Guid] = d
	if d.Name != "" {
		t.byName[d.Name] = d
	}
}

// Len returns the number of distinct Guids in the table.
func (t *Table) Len() int { return len(t.byGuid) }

// All returns every descriptor currently in the table. The returned
// slice is a snapshot; mutating it does not affect t.
func (t *Table) All() []*Descriptor {
	out := make([]*Descriptor, 0, len(t.byGuid))
	for _, d := range t.byGuid {
		out = append(out, d)
	}
	return out
}
