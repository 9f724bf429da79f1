package diff

import "github.com/mun-lang/mun/types"

// StructOpKind discriminates the struct-list-level diff operations.
type StructOpKind int

const (
	StructInsert StructOpKind = iota
	StructEdit
	StructDelete
)

// StructOp is one struct-level diff entry, produced by ComputeStructDiff.
// Note that for GC-kind structs a Guid is name-derived only (spec.md §3),
// so "the same struct surviving a reload" reduces to "same name" — no
// separate struct-list Myers pass is needed the way field lists need one,
// since struct identity here is exactly name identity. This mirrors the
// diff engine's own restriction for struct-list pairing (§4.7): matches
// are only permitted between same-name types, to avoid pathological
// cross-renames.
type StructOp struct {
	Kind StructOpKind
	Old  *types.Descriptor // nil for Insert
	New  *types.Descriptor // nil for Delete
	Diff []FieldOp         // only for Edit
}

// ComputeStructDiff compares an old and new set of GC-kind struct
// descriptors (matched by name) and reports which survived as the very
// same descriptor (not returned at all — a no-op), which need a remap to
// a new descriptor (StructEdit, with the field diff attached; the diff is
// empty when only the descriptor generation changed), which are newly
// inserted, and which were deleted.
func ComputeStructDiff(old, new []*types.Descriptor) []StructOp {
	oldByName := make(map[string]*types.Descriptor, len(old))
	for _, d := range old {
		oldByName[d.Name] = d
	}
	newByName := make(map[string]*types.Descriptor, len(new))
	for _, d := range new {
		newByName[d.Name] = d
	}

	var ops []StructOp
	for name, o := range oldByName {
		n, ok := newByName[name]
		if !ok {
			ops = append(ops, StructOp{Kind: StructDelete, Old: o})
			continue
		}
		fd := ComputeFieldDiff(o.Fields, n.Fields)
		if len(fd) > 0 || o != n {
			ops = append(ops, StructOp{Kind: StructEdit, Old: o, New: n, Diff: fd})
		}
	}
	for name, n := range newByName {
		if _, ok := oldByName[name]; !ok {
			ops = append(ops, StructOp{Kind: StructInsert, New: n})
		}
	}
	return ops
}
