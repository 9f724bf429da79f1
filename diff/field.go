package diff

import (
	"github.com/mun-lang/mun/types"
)

// FieldOpKind discriminates the five field-diff operations spec.md §4.7
// produces.
type FieldOpKind int

const (
	FieldMove FieldOpKind = iota
	FieldEditChangedType
	FieldEditRenameField
	FieldInsert
	FieldDelete
)

func (k FieldOpKind) String() string {
	switch k {
	case FieldMove:
		return "Move"
	case FieldEditChangedType:
		return "Edit(ChangedType)"
	case FieldEditRenameField:
		return "Edit(RenameField)"
	case FieldInsert:
		return "Insert"
	case FieldDelete:
		return "Delete"
	default:
		return "Unknown"
	}
}

// FieldOp is one higher-level field-diff operation, carrying enough of
// the old/new field to let the memory mapper copy bytes or GC handles.
type FieldOp struct {
	Kind FieldOpKind

	OldIndex int // -1 when not applicable (Insert)
	NewIndex int // -1 when not applicable (Delete)

	OldField types.Field // zero value when not applicable
	NewField types.Field // zero value when not applicable (Delete)
}

func fieldsEqual(a, b types.Field) bool {
	return a.Name == b.Name && a.Type.Equal(b.Type)
}

// ComputeFieldDiff computes the field-level diff between an old and new
// ordered field list, following spec.md §4.7 exactly:
//
//  1. Run Myers' shortest-edit-script over (name, type) identity to get
//     raw deletions and insertions.
//  2. Pair deletion/insertion indices whose fields are fully identical
//     (same name, same type) into Move.
//  3. Pair remaining same-name/different-type indices into
//     Edit{ChangedType}.
//  4. Pair remaining same-type/different-name indices into
//     Edit{RenameField}, minimizing |old_index - new_index| (ties
//     broken toward the smaller new_index).
//  5. Whatever is left becomes plain Delete/Insert.
func ComputeFieldDiff(old, new []types.Field) []FieldOp {
	deletions, insertions := computeRaw(len(old), len(new), func(i, j int) bool {
		return fieldsEqual(old[i], new[j])
	})

	usedDel := make(map[int]bool, len(deletions))
	usedIns := make(map[int]bool, len(insertions))
	var ops []FieldOp

	// Step 2: exact structural matches -> Move.
	for _, di := range deletions {
		if usedDel[di] {
			continue
		}
		for _, ii := range insertions {
			if usedIns[ii] {
				continue
			}
			if fieldsEqual(old[di], new[ii]) {
				usedDel[di], usedIns[ii] = true, true
				ops = append(ops, FieldOp{Kind: FieldMove, OldIndex: di, NewIndex: ii, OldField: old[di], NewField: new[ii]})
				break
			}
		}
	}

	// Step 3: same name, different type -> Edit{ChangedType}.
	for _, di := range deletions {
		if usedDel[di] {
			continue
		}
		for _, ii := range insertions {
			if usedIns[ii] {
				continue
			}
			if old[di].Name == new[ii].Name {
				usedDel[di], usedIns[ii] = true, true
				ops = append(ops, FieldOp{Kind: FieldEditChangedType, OldIndex: di, NewIndex: ii, OldField: old[di], NewField: new[ii]})
				break
			}
		}
	}

	// Step 4: same type, different name -> Edit{RenameField}, minimizing
	// |old_index - new_index|, ties toward the smaller new_index.
	for {
		bestDi, bestIi, bestDist := -1, -1, -1
		for _, di := range deletions {
			if usedDel[di] {
				continue
			}
			for _, ii := range insertions {
				if usedIns[ii] {
					continue
				}
				if !old[di].Type.Equal(new[ii].Type) {
					continue
				}
				dist := di - ii
				if dist < 0 {
					dist = -dist
				}
				if bestDi == -1 || dist < bestDist || (dist == bestDist && ii < bestIi) {
					bestDi, bestIi, bestDist = di, ii, dist
				}
			}
		}
		if bestDi == -1 {
			break
		}
		usedDel[bestDi], usedIns[bestIi] = true, true
		ops = append(ops, FieldOp{Kind: FieldEditRenameField, OldIndex: bestDi, NewIndex: bestIi, OldField: old[bestDi], NewField: new[bestIi]})
	}

	// Step 5: leftovers.
	for _, di := range deletions {
		if !usedDel[di] {
			ops = append(ops, FieldOp{Kind: FieldDelete, OldIndex: di, NewIndex: -1, OldField: old[di]})
		}
	}
	for _, ii := range insertions {
		if !usedIns[ii] {
			ops = append(ops, FieldOp{Kind: FieldInsert, OldIndex: -1, NewIndex: ii, NewField: new[ii]})
		}
	}

	return ops
}

func computeRaw(oldLen, newLen int, equal func(i, j int) bool) (deletions, insertions []int) {
	for _, e := range myers(oldLen, newLen, equal) {
		switch e.kind {
		case editDelete:
			deletions = append(deletions, e.oldIndex)
		case editInsert:
			insertions = append(insertions, e.newIndex)
		}
	}
	return
}
