package types

import (
	"testing"

	"github.com/mun-lang/mun/abi"
	"github.com/mun-lang/mun/internal/errs"
)

func freshTable(t *testing.T) (*Registry, *Table) {
	t.Helper()
	r := NewRegistry()
	tbl := NewTable()
	RegisterBuiltins(r, tbl)
	return r, tbl
}

func TestTryFromABISimpleStruct(t *testing.T) {
	r, tbl := freshTable(t)
	i32, _ := tbl.ByName(I32)

	fooGuid := abi.NewStructGuid("Foo", []abi.FieldSig{
		{Name: "a", TypeName: I32},
		{Name: "b", TypeName: I32},
	}, abi.MemoryKindGC)

	defs := []abi.TypeDef{
		{
			Name: "Foo", SizeBits: 64, Alignment: 4, Guid: fooGuid,
			IsStruct: true, MemoryKind: abi.MemoryKindGC,
			Fields: []abi.FieldInfo{
				{Name: "a", Type: abi.ConcreteTypeId(i32.Guid), Offset: 0},
				{Name: "b", Type: abi.ConcreteTypeId(i32.Guid), Offset: 4},
			},
		},
	}

	next, allocated, err := r.TryFromABI(defs, tbl)
	if err != nil {
		t.Fatalf("TryFromABI: %v", err)
	}
	if len(allocated) != 1 {
		t.Fatalf("expected 1 newly allocated descriptor, got %d", len(allocated))
	}
	foo, ok := next.ByGuid(fooGuid)
	if !ok {
		t.Fatal("expected Foo to be resolvable by guid in the new table")
	}
	if len(foo.Fields) != 2 || foo.Fields[0].Name != "a" || foo.Fields[1].Name != "b" {
		t.Fatalf("unexpected fields: %+v", foo.Fields)
	}
	// The original table must be untouched (clone-and-swap discipline).
	if _, ok := tbl.ByGuid(fooGuid); ok {
		t.Fatal("expected original table to be unmodified by TryFromABI")
	}
}

func TestTryFromABIMutuallyRecursive(t *testing.T) {
	r, tbl := freshTable(t)

	aGuid := abi.NewStructGuid("A", nil, abi.MemoryKindGC)
	bGuid := abi.NewStructGuid("B", nil, abi.MemoryKindGC)

	defs := []abi.TypeDef{
		{
			Name: "A", SizeBits: 64, Alignment: 8, Guid: aGuid,
			IsStruct: true, MemoryKind: abi.MemoryKindGC,
			Fields: []abi.FieldInfo{
				{Name: "b", Type: abi.PointerTypeId(abi.ConcreteTypeId(bGuid), true), Offset: 0},
			},
		},
		{
			Name: "B", SizeBits: 64, Alignment: 8, Guid: bGuid,
			IsStruct: true, MemoryKind: abi.MemoryKindGC,
			Fields: []abi.FieldInfo{
				{Name: "a", Type: abi.PointerTypeId(abi.ConcreteTypeId(aGuid), true), Offset: 0},
			},
		},
	}

	next, allocated, err := r.TryFromABI(defs, tbl)
	if err != nil {
		t.Fatalf("expected mutually-recursive structs to resolve, got error: %v", err)
	}
	if len(allocated) != 2 {
		t.Fatalf("expected 2 newly allocated descriptors, got %d", len(allocated))
	}
	a, _ := next.ByGuid(aGuid)
	b, _ := next.ByGuid(bGuid)
	if a.Fields[0].Type.Pointee != b {
		t.Fatal("expected A.b to point at B's descriptor")
	}
	if b.Fields[0].Type.Pointee != a {
		t.Fatal("expected B.a to point at A's descriptor")
	}
}

func TestTryFromABIUnresolvedType(t *testing.T) {
	r, tbl := freshTable(t)
	missingGuid := abi.NewStructGuid("Missing", nil, abi.MemoryKindGC)

	defs := []abi.TypeDef{
		{
			Name: "Holder", SizeBits: 64, Alignment: 8, Guid: abi.NewStructGuid("Holder", nil, abi.MemoryKindGC),
			IsStruct: true, MemoryKind: abi.MemoryKindGC,
			Fields: []abi.FieldInfo{
				{Name: "m", Type: abi.PointerTypeId(abi.ConcreteTypeId(missingGuid), true), Offset: 0},
			},
		},
	}

	_, _, err := r.TryFromABI(defs, tbl)
	if err == nil {
		t.Fatal("expected an error for an unresolvable field type")
	}
	if e, ok := err.(*errs.Error); !ok || e.Code != errs.UnresolvedType {
		t.Fatalf("expected UnresolvedType, got %v", err)
	}
}

func TestPointerTypeCaching(t *testing.T) {
	r, tbl := freshTable(t)
	i32, _ := tbl.ByName(I32)
	p1 := r.PointerType(i32, true)
	p2 := r.PointerType(i32, true)
	if p1 != p2 {
		t.Fatal("expected PointerType to cache and return the same descriptor")
	}
	p3 := r.PointerType(i32, false)
	if p1 == p3 {
		t.Fatal("expected mutable and const pointer types to be distinct")
	}
}
