package lir

// Program is the top-level LIR unit: name-keyed structs, externs,
// function-pointer declarations, and functions, each emitted in
// lexicographic order by the serializer.
type Program struct {
	Structs   map[string]*StructDef
	Externs   map[string]FnType
	FunPtrs   map[string]PtrType
	Functions map[string]*Function
}

func NewProgram() *Program {
	return &Program{
		Structs:   make(map[string]*StructDef),
		Externs:   make(map[string]FnType),
		FunPtrs:   make(map[string]PtrType),
		Functions: make(map[string]*Function),
	}
}

type StructDef struct {
	Name   string
	Fields map[string]Type
}

// Param is a function formal: a name bound in the function's locals.
type Param struct {
	Name string
	Type Type
}

// Function holds the fully lowered body of a Cflat function: its locals
// (params, declared locals, and every compiler-minted temporary) and the
// basic blocks reached by the CFG builder from Entry.
type Function struct {
	Name   string
	Params []Param
	Ret    Type
	Locals map[string]Type
	Blocks map[string]*BasicBlock
	Entry  string
}

type BasicBlock struct {
	Label        string
	Instructions []Instruction
	Terminator   Terminator
}
