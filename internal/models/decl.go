package models

// Default is the value a generated constructor parameter falls back to.
type Default int

const (
	DefaultNone      Default = iota // None
	DefaultEmptyList                // []
)

// FieldDecl is one constructor parameter and the attribute it is assigned to.
type FieldDecl struct {
	Name    string
	Default Default
}

// ArgKind tells the renderer how from_json obtains a constructor argument.
type ArgKind int

const (
	// ArgRaw passes json.get(Key) through unchanged.
	ArgRaw ArgKind = iota
	// ArgNested calls TypeName.from_json(json.get(Key)).
	ArgNested
	// ArgNestedList maps TypeName.from_json over json.get(Key) and falls
	// back to an empty list when the value cannot be iterated.
	ArgNestedList
)

// ArgDecl is one positional argument of the from_json constructor call.
type ArgDecl struct {
	Kind     ArgKind
	Key      string // JSON key looked up in the input object
	TypeName string // nested class, for ArgNested and ArgNestedList
	Var      string // local holding the mapped list, for ArgNestedList
	Item     string // loop variable of the mapping, for ArgNestedList
}

// DeserializerDecl describes the from_json class method.
type DeserializerDecl struct {
	ItemName string // loop variable used when json is a list
	Args     []ArgDecl
}

// ClassDecl is a single generated class, independent of output formatting.
type ClassDecl struct {
	Name         string
	Fields       []FieldDecl
	Deserializer *DeserializerDecl // nil when from_json is not generated
}
