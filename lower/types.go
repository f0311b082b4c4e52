package lower

// LoweredVariant is one enum/bitmask variant after prefix-stripping,
// tag-trimming, case conversion, and collision resolution.
type LoweredVariant struct {
	VkName string
	GoName string
	Value  int64
}

// LoweredEnum is a renamed enum, variants already collision-resolved.
type LoweredEnum struct {
	VkName   string
	GoName   string
	Variants []LoweredVariant
}

// LoweredBitmask is a renamed bitmask. Bitmasks carry their own variant
// list directly (this registry model does not split a bitmask typedef
// from a separate "FlagBits" enum the way upstream vk.xml's convention
// does), so LoweredBitmask mirrors LoweredEnum's shape
// rather than referencing one.
type LoweredBitmask struct {
	VkName   string
	GoName   string
	Variants []LoweredVariant
}

// LoweredHandle is a renamed handle type.
type LoweredHandle struct {
	VkName       string
	GoName       string
	Dispatchable bool
}

// LoweredTypeDef is a renamed basetype alias (VkFlags, VkBool32, ...).
type LoweredTypeDef struct {
	VkName       string
	GoName       string
	GoUnderlying string
}

// LoweredDefine is a renamed #define whose body this repo hand-codes in
// the emitter preamble rather than parsing (spec.md §9, preserved
// unchanged).
type LoweredDefine struct {
	VkName string
	GoName string
}

// LoweredExternType is a renamed platform-forward-declared type
// (VkExternType in the model).
type LoweredExternType struct {
	VkName string
	GoName string
}

// LoweredMember is a renamed, type-resolved struct/union field.
type LoweredMember struct {
	VkName   string
	GoName   string
	GoType   string
	DepName  string // non-empty iff the field is not a pointer and its base type is another included type (the dependency sort only acts on those that are structs/unions)
	Optional bool
}

// LoweredStruct is a renamed, fully type-resolved struct.
type LoweredStruct struct {
	VkName string
	GoName string
	Union  bool
	Fields []LoweredMember
}

// LoweredParam is a renamed, type-resolved command/funcpointer parameter.
type LoweredParam struct {
	VkName string
	GoName string
	GoType string
}

// LoweredFuncPointer is a renamed PFN_ function-pointer typedef.
type LoweredFuncPointer struct {
	VkName string
	GoName string
	Ret    string
	Params []LoweredParam
}

// LoweredCommand is a renamed Vulkan entry point.
type LoweredCommand struct {
	VkName string
	GoName string
	Ret    string
	Params []LoweredParam
}

// Lowered is the fully renamed, cross-reference-resolved model the emit
// package renders. Structs are already topologically sorted by field
// dependency (ties broken by GoName), mirroring
// nsf-vulkangen's Context.SortStructsByDeps.
type Lowered struct {
	Options Options

	Consts      []NamedConst
	LocalConsts []NamedConst

	ExternTypes  []LoweredExternType
	Defines      []LoweredDefine
	TypeDefs     []LoweredTypeDef
	Handles      []LoweredHandle
	Enums        []LoweredEnum
	Bitmasks     []LoweredBitmask
	Unions       []LoweredUnion
	Structs      []LoweredStruct
	FuncPointers []LoweredFuncPointer
	Commands     []LoweredCommand
}

// LoweredUnion is kept as a distinct slice/type from LoweredStruct even
// though the shape is identical, because emit renders them with different
// Go representations (UseNativeUnions switches between a raw-bytes union
// and typed accessor methods) and because the teacher's template set
// (templates.go) never conflates the two either.
type LoweredUnion = LoweredStruct
