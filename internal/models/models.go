package models

// JSONValue is a generic type to represent any JSON value.
// It holds nil, bool, string, JSONNumber, JSONObject or JSONArray.
type JSONValue interface{}

// JSONNumber keeps the literal text of a JSON number.
type JSONNumber string

// JSONMember is one key/value pair of a JSON object.
type JSONMember struct {
	Key   string
	Value JSONValue
}

// JSONObject is a JSON object with its members in document order.
// Inference depends on that order, so objects are never held in a Go map.
type JSONObject []JSONMember

// Get returns the value stored under key.
func (o JSONObject) Get(key string) (JSONValue, bool) {
	for _, m := range o {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Keys returns the member keys in document order.
func (o JSONObject) Keys() []string {
	keys := make([]string, len(o))
	for i, m := range o {
		keys[i] = m.Key
	}
	return keys
}

// JSONArray represents a JSON array, which is a slice of JSONValues.
type JSONArray []JSONValue

// IntermediateRepresentation holds the parsed JSON document handed to the
// analyzer.
type IntermediateRepresentation struct {
	Root        JSONValue
	RootIsArray bool // True if the root of the JSON is an array vs an object
}
