package diff

import (
	"testing"

	"github.com/mun-lang/mun/types"
)

func primDesc(name string) *types.Descriptor {
	r := types.NewRegistry()
	return r.Primitive(name, types.Layout{Size: 4, Align: 4})
}

func field(name string, ty *types.Descriptor) types.Field {
	return types.Field{Name: name, Type: ty}
}

func TestDiffMinimalityOnSwap(t *testing.T) {
	i32 := primDesc("core::i32")
	a := field("a", i32)
	b := field("b", i32)

	old := []types.Field{a, b}
	new := []types.Field{b, a}

	ops := ComputeFieldDiff(old, new)
	if len(ops) != 1 {
		t.Fatalf("expected exactly one op for a field swap, got %d: %+v", len(ops), ops)
	}
	if ops[0].Kind != FieldMove {
		t.Fatalf("expected a Move, got %v", ops[0].Kind)
	}
}

func TestDiffInsertedField(t *testing.T) {
	i32 := primDesc("core::i32")
	old := []types.Field{field("a", i32), field("b", i32)}
	new := []types.Field{field("a", i32), field("b", i32), field("c", i32)}

	ops := ComputeFieldDiff(old, new)
	if len(ops) != 1 || ops[0].Kind != FieldInsert || ops[0].NewField.Name != "c" {
		t.Fatalf("expected a single Insert of field c, got %+v", ops)
	}
}

func TestDiffRenamedField(t *testing.T) {
	i32 := primDesc("core::i32")
	old := []types.Field{field("x", i32)}
	new := []types.Field{field("y", i32)}

	ops := ComputeFieldDiff(old, new)
	if len(ops) != 1 || ops[0].Kind != FieldEditRenameField {
		t.Fatalf("expected a single Edit(RenameField), got %+v", ops)
	}
	if ops[0].OldField.Name != "x" || ops[0].NewField.Name != "y" {
		t.Fatalf("unexpected rename pairing: %+v", ops[0])
	}
}

func TestDiffChangedTypeField(t *testing.T) {
	i32 := primDesc("core::i32")
	i64 := primDesc("core::i64")
	old := []types.Field{field("x", i32)}
	new := []types.Field{field("x", i64)}

	ops := ComputeFieldDiff(old, new)
	if len(ops) != 1 || ops[0].Kind != FieldEditChangedType {
		t.Fatalf("expected a single Edit(ChangedType), got %+v", ops)
	}
}

func TestDiffNoChangeIsEmpty(t *testing.T) {
	i32 := primDesc("core::i32")
	flds := []types.Field{field("a", i32), field("b", i32)}
	ops := ComputeFieldDiff(flds, flds)
	if len(ops) != 0 {
		t.Fatalf("expected no ops for identical field lists, got %+v", ops)
	}
}
