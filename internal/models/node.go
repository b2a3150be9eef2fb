package models

// Node is the inferred structural type of a JSON value. It is a closed set:
// Primitive, List and *Record are the only implementations.
type Node interface {
	node()
}

// Primitive stands for any JSON scalar, and also for an empty object or an
// empty array element whose shape is unknown.
type Primitive struct{}

// List is a JSON array. Elem is inferred from the first element only.
type List struct {
	Elem Node
}

// Field is one named member of a Record.
type Field struct {
	Key  string // raw JSON key, not normalized
	Node Node
}

// Record is a JSON object with at least one field. Name is the key of the
// parent field that held the object; Fields keep document order.
type Record struct {
	Name   string
	Style  Style
	Fields []Field
}

func (Primitive) node() {}
func (List) node()      {}
func (*Record) node()   {}

// Field returns the schema stored under key.
func (r *Record) Field(key string) (Node, bool) {
	for _, f := range r.Fields {
		if f.Key == key {
			return f.Node, true
		}
	}
	return nil, false
}

// Keys returns the raw field keys in order.
func (r *Record) Keys() []string {
	keys := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		keys[i] = f.Key
	}
	return keys
}

// IsRecord reports whether n is a *Record.
func IsRecord(n Node) bool {
	_, ok := n.(*Record)
	return ok
}

// IsList reports whether n is a List.
func IsList(n Node) bool {
	_, ok := n.(List)
	return ok
}

// ElemRecord returns the Record held by n directly or as the element of a
// List. Only one List level is unwrapped.
func ElemRecord(n Node) (*Record, bool) {
	switch v := n.(type) {
	case *Record:
		return v, true
	case List:
		r, ok := v.Elem.(*Record)
		return r, ok
	}
	return nil, false
}
