package ast

// Program is the top-level unit handed to the lowering pipeline: a set of
// struct definitions, extern declarations, and function definitions.
type Program struct {
	Structs   []StructDef `json:"structs"`
	Externs   []ExternDef `json:"externs"`
	Functions []FuncDef   `json:"functions"`
}

type StructDef struct {
	Name   string     `json:"name"`
	Fields []FieldDef `json:"fields"`
}

type FieldDef struct {
	Name string `json:"name"`
	Type Type   `json:"type"`
}

type ExternDef struct {
	Name   string `json:"name"`
	Params []Type `json:"params"`
	Ret    Type   `json:"ret"`
}

type ParamDef struct {
	Name string `json:"name"`
	Type Type   `json:"type"`
}

type FuncDef struct {
	Name   string     `json:"name"`
	Params []ParamDef `json:"params"`
	Ret    Type       `json:"ret"`
	Locals []ParamDef `json:"locals"`
	Body   StmtField  `json:"body"`
}
