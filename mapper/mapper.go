// Package mapper implements the memory mapper: on every successful
// reload, for each GC-kind struct type that survives with a changed
// field list, it rewrites every live GC object of that type in place
// from its old layout to its new layout, applying the field diff package
// diff computed.
package mapper

import (
	"github.com/mun-lang/mun/diff"
	"github.com/mun-lang/mun/gc"
	"github.com/mun-lang/mun/types"
)

// Remap applies op (an Edit) to every live object of op.Old's type in
// heap, rewriting each to op.New's layout:
//
//   - Move / Edit(RenameField): byte-copy (or handle-copy, for Gc-kind
//     fields) the old field's value into the new field's offset.
//   - Edit(ChangedType): if both sides are Gc-kind struct references of
//     compatible types, copy the handle; otherwise the field is zeroed —
//     this version does no automatic primitive coercion.
//   - Insert: left zeroed (the new block starts zeroed).
//   - Delete: the old value is simply not copied forward.
//   - Fields the diff does not mention (unchanged name and type) are
//     copied from the old field of the same name.
//
// Remap never allocates a new Handle: handle identity is the guarantee
// Handle.Rewrite preserves, so a caller holding a handle to one of these
// objects keeps a valid, live reference across the whole operation.
func Remap(heap *gc.Heap, op diff.StructOp) {
	if op.Kind != diff.StructEdit {
		return
	}
	newSize := op.New.Layout.Size
	covered := make(map[int]bool, len(op.Diff))
	for _, fo := range op.Diff {
		if fo.NewIndex >= 0 {
			covered[fo.NewIndex] = true
		}
	}
	heap.ForEachOfType(op.Old, func(h *gc.Handle) {
		newData := make([]byte, newSize)
		newGCRefs := make(map[uint32]*gc.Handle)

		for _, fo := range op.Diff {
			switch fo.Kind {
			case diff.FieldMove, diff.FieldEditRenameField:
				copyField(h, newData, newGCRefs, fo.OldField, fo.NewField)
			case diff.FieldEditChangedType:
				copyCompatibleOrZero(h, newGCRefs, fo.OldField, fo.NewField)
			case diff.FieldInsert, diff.FieldDelete:
				// Insert: new block already zeroed. Delete: nothing to
				// carry forward.
			}
		}
		for i, nf := range op.New.Fields {
			if covered[i] {
				continue
			}
			if of, ok := op.Old.FieldByName(nf.Name); ok {
				copyField(h, newData, newGCRefs, of, nf)
			}
		}

		h.Rewrite(op.New, newData, newGCRefs)
	})
}

func copyField(h *gc.Handle, newData []byte, newGCRefs map[uint32]*gc.Handle, oldF, newF types.Field) {
	if oldF.Type.IsGC() {
		if ref := h.GCField(oldF.Offset); ref != nil {
			newGCRefs[newF.Offset] = ref
		}
		return
	}
	size := oldF.Type.Layout.Size
	if newF.Type.Layout.Size < size {
		size = newF.Type.Layout.Size
	}
	copy(newData[newF.Offset:], h.ReadBytes(oldF.Offset, size))
}

func copyCompatibleOrZero(h *gc.Handle, newGCRefs map[uint32]*gc.Handle, oldF, newF types.Field) {
	if oldF.Type.IsGC() && newF.Type.IsGC() {
		if ref := h.GCField(oldF.Offset); ref != nil {
			newGCRefs[newF.Offset] = ref
		}
		return
	}
	// Not a GC-to-GC handle copy: per spec.md §4.6, no automatic
	// primitive coercion in this version. The destination stays at its
	// zero value (newData is already zeroed on allocation).
}

// RemapAll applies every StructEdit in ops, then marks every Delete's
// type as deleted so package gc's next Collect drains it. RemapAll reads
// no type table: it only touches heap objects, and package linker calls
// it before the new tables are installed as live.
func RemapAll(heap *gc.Heap, ops []diff.StructOp) {
	for _, op := range ops {
		switch op.Kind {
		case diff.StructEdit:
			Remap(heap, op)
		case diff.StructDelete:
			heap.MarkDeletedType(op.Old)
		case diff.StructInsert:
			// Nothing to do: no live object can reference a type that
			// didn't exist before this reload.
		}
	}
}
