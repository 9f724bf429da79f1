package types

// Canonical names of the primitive types every runtime knows about
// without needing an assembly to define them, mirroring "Rust static
// types" in spec.md §4.2 ("sourced from ABI metadata and Rust static
// types").
const (
	Bool   = "core::bool"
	I8     = "core::i8"
	I16    = "core::i16"
	I32    = "core::i32"
	I64    = "core::i64"
	U8     = "core::u8"
	U16    = "core::u16"
	U32    = "core::u32"
	U64    = "core::u64"
	F32    = "core::f32"
	F64    = "core::f64"
	String = "core::string"
	Empty  = "core::empty" // zero-sized unit type, used for void returns
)

var builtinLayouts = map[string]Layout{
	Bool:   {Size: 1, Align: 1},
	I8:     {Size: 1, Align: 1},
	I16:    {Size: 2, Align: 2},
	I32:    {Size: 4, Align: 4},
	I64:    {Size: 8, Align: 8},
	U8:     {Size: 1, Align: 1},
	U16:    {Size: 2, Align: 2},
	U32:    {Size: 4, Align: 4},
	U64:    {Size: 8, Align: 8},
	F32:    {Size: 4, Align: 4},
	F64:    {Size: 8, Align: 8},
	String: {Size: 16, Align: 8}, // ptr+len
	Empty:  {Size: 0, Align: 1},
}

// RegisterBuiltins allocates (or fetches, if already present) every
// builtin primitive in r and inserts it into table. Called once when a
// Facade is constructed, before any assembly is linked.
func RegisterBuiltins(r *Registry, table *Table) {
	for name, layout := range builtinLayouts {
		table.Insert(r.Primitive(name, layout))
	}
}
