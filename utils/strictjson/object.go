// Package strictjson walks JSON objects whose key set must match a schema exactly.
//
// encoding/json matches struct fields case-insensitively and silently drops keys
// it does not know. Consensus parameters cannot tolerate either behaviour, so
// decoders in this module read an Object, take the fields they know by their
// exact wire name and then call Finish, which fails on whatever is left.
package strictjson

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

var (
	ErrMalformed    = errors.New("malformed JSON")
	ErrInvalidType  = errors.New("invalid type")
	ErrUnknownField = errors.New("unknown field")
	ErrDuplicateKey = errors.New("duplicate key")
)

// Entry is a single key/value pair of an object, in document order.
type Entry struct {
	Key   string
	Value json.RawMessage
}

// Object is a decoded JSON object whose values are kept raw until a field is taken.
type Object struct {
	typeName string
	entries  []Entry
	index    map[string]int
	taken    map[string]bool
}

// Parse reads raw as a single JSON object. typeName names the schema type in
// errors. Duplicate keys are rejected, as is any data after the closing brace.
func Parse(raw []byte, typeName string) (*Object, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, errors.Wrapf(ErrMalformed, "%s: empty document", typeName)
	}
	if raw[0] != '{' {
		return nil, errors.Wrapf(ErrInvalidType, "%s: expected object, got %s", typeName, describe(raw))
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return nil, errors.Wrapf(ErrMalformed, "%s: %v", typeName, err)
	}

	obj := &Object{
		typeName: typeName,
		index:    make(map[string]int),
		taken:    make(map[string]bool),
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, errors.Wrapf(ErrMalformed, "%s: %v", typeName, err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errors.Wrapf(ErrMalformed, "%s: unexpected token %v", typeName, tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, errors.Wrapf(ErrMalformed, "%s.%s: %v", typeName, key, err)
		}
		if _, dup := obj.index[key]; dup {
			return nil, errors.Wrapf(ErrDuplicateKey, "%s.%s", typeName, key)
		}
		obj.index[key] = len(obj.entries)
		obj.entries = append(obj.entries, Entry{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, errors.Wrapf(ErrMalformed, "%s: %v", typeName, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.Wrapf(ErrMalformed, "%s: trailing data after object", typeName)
	}
	return obj, nil
}

// TypeName returns the schema type the object is decoded as.
func (o *Object) TypeName() string {
	return o.typeName
}

// Len returns the number of keys.
func (o *Object) Len() int {
	return len(o.entries)
}

// Keys returns the keys in document order.
func (o *Object) Keys() []string {
	keys := make([]string, len(o.entries))
	for i, e := range o.entries {
		keys[i] = e.Key
	}
	return keys
}

// Has reports whether the key is present, null or not.
func (o *Object) Has(name string) bool {
	_, ok := o.index[name]
	return ok
}

// Take returns the raw value stored under exactly name and marks it consumed.
func (o *Object) Take(name string) (json.RawMessage, bool) {
	i, ok := o.index[name]
	if !ok {
		return nil, false
	}
	o.taken[name] = true
	return o.entries[i].Value, true
}

// TakeOptional is Take for optional fields: an explicit null counts as absent.
func (o *Object) TakeOptional(name string) (json.RawMessage, bool) {
	raw, ok := o.Take(name)
	if !ok || IsNull(raw) {
		return nil, false
	}
	return raw, true
}

// TakeAll consumes every key and returns the entries in document order.
// It is meant for map-like objects whose keys are data, not field names.
func (o *Object) TakeAll() []Entry {
	out := make([]Entry, len(o.entries))
	for i, e := range o.entries {
		o.taken[e.Key] = true
		out[i] = e
	}
	return out
}

// Unknown returns keys that were never taken, in document order.
func (o *Object) Unknown() []string {
	var keys []string
	for _, e := range o.entries {
		if !o.taken[e.Key] {
			keys = append(keys, e.Key)
		}
	}
	return keys
}

// Finish fails with ErrUnknownField naming the first key nobody consumed.
func (o *Object) Finish() error {
	if unknown := o.Unknown(); len(unknown) > 0 {
		return errors.Wrapf(ErrUnknownField, "%s.%s", o.typeName, unknown[0])
	}
	return nil
}

// IsNull reports whether raw is the JSON null literal.
func IsNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

// Array splits a JSON array into its raw elements.
func Array(raw json.RawMessage, typeName string) ([]json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, errors.Wrapf(ErrInvalidType, "%s: expected array, got %s", typeName, describe(raw))
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, errors.Wrapf(ErrMalformed, "%s: %v", typeName, err)
	}
	return items, nil
}

// describe names the JSON kind of raw for error messages.
func describe(raw []byte) string {
	if len(raw) == 0 {
		return "nothing"
	}
	switch raw[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	}
	return "number"
}
