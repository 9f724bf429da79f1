package linker

import (
	"reflect"
	"testing"

	"github.com/mun-lang/mun/abi"
	"github.com/mun-lang/mun/assembly"
	"github.com/mun-lang/mun/dispatch"
	"github.com/mun-lang/mun/gc"
	"github.com/mun-lang/mun/types"
)

func i32Id() abi.TypeId { return abi.ConcreteTypeId(abi.NewPrimitiveGuid("core::i32")) }

func fooTypeDef(fields ...abi.FieldInfo) abi.TypeDef {
	return abi.TypeDef{
		Name:       "Foo",
		SizeBits:   uint32(len(fields)) * 32,
		Alignment:  4,
		Guid:       abi.NewStructGuid("Foo", nil, abi.MemoryKindGC),
		IsStruct:   true,
		Fields:     fields,
		MemoryKind: abi.MemoryKindGC,
	}
}

func addFnInt(a, b int32) int32 { return a + b }

func newFixture() (registry *types.Registry, curTypes *types.Table, curDispatch *dispatch.Table) {
	registry = types.NewRegistry()
	curTypes = types.NewTable()
	types.RegisterBuiltins(registry, curTypes)
	curDispatch = dispatch.NewTable()
	return
}

func TestLinkAllMergesTypesAndFunctions(t *testing.T) {
	registry, curTypes, curDispatch := newFixture()

	proto := abi.FunctionPrototype{
		Name: "add",
		Signature: abi.FunctionPrototypeSignature{
			ArgTypes:   []abi.TypeId{i32Id(), i32Id()},
			ReturnType: i32Id(),
		},
	}
	dispatchSlot := abi.NewDispatchSlot(proto)
	typeSlot := abi.NewTypeSlot(abi.ConcreteTypeId(fooTypeDef().Guid), "Foo")

	a := assembly.FromInfo("./a.mun.so", &abi.AssemblyInfo{
		Module: abi.ModuleInfo{
			Path: "./a.mun.so",
			Functions: []abi.FunctionDef{
				{Prototype: proto, Fn: reflect.ValueOf(addFnInt)},
			},
			Types: []abi.TypeDef{fooTypeDef()},
		},
		DispatchTable: abi.DispatchTableInfo{Slots: []*abi.DispatchSlot{dispatchSlot}},
		TypeLut:       abi.TypeLutInfo{Slots: []*abi.TypeSlot{typeSlot}},
	})

	result, err := LinkAll([]*assembly.Assembly{a}, curTypes, curDispatch, registry)
	if err != nil {
		t.Fatalf("unexpected link error: %v", err)
	}
	if _, ok := result.Types.ByName("Foo"); !ok {
		t.Fatal("expected Foo to be present in the new type table")
	}
	if _, ok := result.Dispatch.Get("add"); !ok {
		t.Fatal("expected add to be present in the new dispatch table")
	}
	if !dispatchSlot.Resolved() {
		t.Fatal("expected the assembly's own dispatch slot to resolve against its own definition")
	}
	if typeSlot.Get() == nil {
		t.Fatal("expected the assembly's own type slot to resolve against the new type table")
	}
}

func TestLinkAllDetectsSignatureMismatchAcrossAssemblies(t *testing.T) {
	registry, curTypes, curDispatch := newFixture()

	protoA := abi.FunctionPrototype{
		Name:      "add",
		Signature: abi.FunctionPrototypeSignature{ArgTypes: []abi.TypeId{i32Id(), i32Id()}, ReturnType: i32Id()},
	}
	protoB := abi.FunctionPrototype{
		Name:      "add",
		Signature: abi.FunctionPrototypeSignature{ArgTypes: []abi.TypeId{i32Id()}, ReturnType: i32Id()},
	}

	a := assembly.FromInfo("./a.mun.so", &abi.AssemblyInfo{
		Module: abi.ModuleInfo{Functions: []abi.FunctionDef{{Prototype: protoA, Fn: reflect.ValueOf(addFnInt)}}},
	})
	b := assembly.FromInfo("./b.mun.so", &abi.AssemblyInfo{
		Module: abi.ModuleInfo{Functions: []abi.FunctionDef{{Prototype: protoB, Fn: reflect.ValueOf(func(a int32) int32 { return a })}}},
	})

	_, err := LinkAll([]*assembly.Assembly{a, b}, curTypes, curDispatch, registry)
	if err == nil {
		t.Fatal("expected SignatureMismatch linking two differently-typed add/1 and add/2 definitions")
	}
}

func TestRelinkAllRemapsGrownGCStruct(t *testing.T) {
	registry, curTypes, curDispatch := newFixture()
	heap := gc.NewHeap()

	gen1 := assembly.FromInfo("./foo.mun.so", &abi.AssemblyInfo{
		Module: abi.ModuleInfo{Types: []abi.TypeDef{
			fooTypeDef(abi.FieldInfo{Name: "a", Type: i32Id(), Offset: 0}),
		}},
	})
	result1, err := LinkAll([]*assembly.Assembly{gen1}, curTypes, curDispatch, registry)
	if err != nil {
		t.Fatalf("unexpected error linking generation 1: %v", err)
	}

	foo1, ok := result1.Types.ByName("Foo")
	if !ok {
		t.Fatal("expected Foo in generation 1's type table")
	}
	h := heap.Alloc(foo1)
	h.Root()
	h.SetInt32(0, 42)

	gen2 := assembly.FromInfo("./foo.mun.so", &abi.AssemblyInfo{
		Module: abi.ModuleInfo{Types: []abi.TypeDef{
			fooTypeDef(
				abi.FieldInfo{Name: "a", Type: i32Id(), Offset: 0},
				abi.FieldInfo{Name: "b", Type: i32Id(), Offset: 4},
			),
		}},
	})

	result2, err := RelinkAssemblies([]*assembly.Assembly{gen2}, heap, result1.Types, result1.Dispatch, registry)
	if err != nil {
		t.Fatalf("unexpected error relinking generation 2: %v", err)
	}
	if len(result2.GCDiffs) != 1 {
		t.Fatalf("expected exactly one GC struct diff, got %d", len(result2.GCDiffs))
	}

	if h.Int32(0) != 42 {
		t.Fatalf("expected field a to survive remap with its old value, got %d", h.Int32(0))
	}
	if h.Int32(4) != 0 {
		t.Fatalf("expected newly inserted field b to read zero, got %d", h.Int32(4))
	}
	foo2, _ := result2.Types.ByName("Foo")
	if h.Type() != foo2 {
		t.Fatal("expected the handle's type to be updated to generation 2's Foo descriptor")
	}
}
