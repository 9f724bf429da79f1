package abi

import "testing"

func TestStructGuidCanonicality(t *testing.T) {
	// Two independently constructed descriptions of the same value-struct
	// shape must agree on Guid, since two independently compiled
	// assemblies can both describe "struct Vector2{x: f32,y: f32}".
	tests := []struct {
		name   string
		fields []FieldSig
		kind   MemoryKind
	}{
		{
			name: "Vector2",
			fields: []FieldSig{
				{Name: "x", TypeName: "core::f32"},
				{Name: "y", TypeName: "core::f32"},
			},
			kind: MemoryKindValue,
		},
		{
			name:   "Foo",
			fields: []FieldSig{{Name: "a", TypeName: "core::i32"}},
			kind:   MemoryKindGC,
		},
	}

	for _, tt := range tests {
		a := NewStructGuid(tt.name, tt.fields, tt.kind)
		fieldsCopy := append([]FieldSig(nil), tt.fields...)
		b := NewStructGuid(tt.name, fieldsCopy, tt.kind)
		if a != b {
			t.Fatalf("%s: guid not canonical: %s != %s", tt.name, a, b)
		}
	}
}

func TestStructGuidFieldOrderSensitive(t *testing.T) {
	a := NewStructGuid("Foo", []FieldSig{
		{Name: "a", TypeName: "core::i32"},
		{Name: "b", TypeName: "core::i32"},
	}, MemoryKindValue)
	b := NewStructGuid("Foo", []FieldSig{
		{Name: "b", TypeName: "core::i32"},
		{Name: "a", TypeName: "core::i32"},
	}, MemoryKindValue)
	if a == b {
		t.Fatalf("expected differently-ordered fields to produce different value-struct guids")
	}
}

func TestGcStructGuidIgnoresFields(t *testing.T) {
	// GC-struct guids are name-only: the struct is reachable through an
	// indirection and may be remapped in place, so a field change must
	// not change its identity (that's the whole point of hot reload).
	a := NewStructGuid("Foo", []FieldSig{{Name: "a", TypeName: "core::i32"}}, MemoryKindGC)
	b := NewStructGuid("Foo", []FieldSig{
		{Name: "a", TypeName: "core::i32"},
		{Name: "b", TypeName: "core::i32"},
	}, MemoryKindGC)
	if a != b {
		t.Fatalf("expected gc-struct guid to be stable across field changes, got %s vs %s", a, b)
	}
}

func TestPrimitiveGuidCanonicality(t *testing.T) {
	if NewPrimitiveGuid("core::i32") != NewPrimitiveGuid("core::i32") {
		t.Fatal("expected identical primitive guids for identical names")
	}
	if NewPrimitiveGuid("core::i32") == NewPrimitiveGuid("core::i64") {
		t.Fatal("expected different primitive guids for different names")
	}
}

func TestFunctionPrototypeEqual(t *testing.T) {
	i32 := ConcreteTypeId(NewPrimitiveGuid("core::i32"))
	add2 := FunctionPrototype{
		Name: "add",
		Signature: FunctionPrototypeSignature{
			ArgTypes:   []TypeId{i32, i32},
			ReturnType: i32,
		},
	}
	add3 := FunctionPrototype{
		Name: "add",
		Signature: FunctionPrototypeSignature{
			ArgTypes:   []TypeId{i32, i32, i32},
			ReturnType: i32,
		},
	}
	if !add2.Equal(add2) {
		t.Fatal("expected prototype to equal itself")
	}
	if add2.Equal(add3) {
		t.Fatal("expected differing arity to not be equal")
	}
}
