// Package jsonfile implements reading and writing of JSON localization
// resource files.
//
// Unlike encoding/json's map-based decoding, values are parsed into a
// closed sum type (Object, Array, String, Literal) that preserves object
// key order, so a translated file can be written back with exactly the
// same structural shape as its source. Non-string scalars (numbers,
// booleans, null) are kept as their original token text and never
// reformatted.
package jsonfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Value is a parsed JSON value: Object, Array, String, or Literal.
type Value interface {
	isValue()
}

// Member is a single key/value pair of an Object.
type Member struct {
	Key   string
	Value Value
}

// Object is a JSON object with its members in original file order.
type Object []Member

// Array is a JSON array.
type Array []Value

// String is a JSON string leaf.
type String string

// Literal is a non-string scalar (number, boolean, or null) stored as
// its original token text.
type Literal string

func (Object) isValue()  {}
func (Array) isValue()   {}
func (String) isValue()  {}
func (Literal) isValue() {}

// ParseFile reads and parses a JSON file.
func ParseFile(path string) (Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	v, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return v, nil
}

// Parse parses JSON data into a Value, preserving object key order via
// a json.Decoder token walk.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := parseValue(dec)
	if err != nil {
		return nil, err
	}

	// Reject trailing garbage after the top-level value.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}
	return v, nil
}

func parseValue(dec *json.Decoder) (Value, error) {
	t, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return parseToken(dec, t)
}

func parseToken(dec *json.Decoder, t json.Token) (Value, error) {
	switch tok := t.(type) {
	case json.Delim:
		switch tok {
		case '{':
			return parseObject(dec)
		case '[':
			return parseArray(dec)
		}
		return nil, fmt.Errorf("unexpected delimiter %v", tok)
	case string:
		return String(tok), nil
	case json.Number:
		return Literal(tok.String()), nil
	case bool:
		if tok {
			return Literal("true"), nil
		}
		return Literal("false"), nil
	case nil:
		return Literal("null"), nil
	}
	return nil, fmt.Errorf("unexpected token %v", t)
}

func parseObject(dec *json.Decoder) (Object, error) {
	obj := Object{}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := kt.(string)
		if !ok {
			return nil, fmt.Errorf("expected string key, got %T", kt)
		}

		val, err := parseValue(dec)
		if err != nil {
			return nil, fmt.Errorf("value for key %q: %w", key, err)
		}
		obj = append(obj, Member{Key: key, Value: val})
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}

func parseArray(dec *json.Decoder) (Array, error) {
	arr := Array{}
	for dec.More() {
		v, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}

	// Consume the closing bracket.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return arr, nil
}

// Marshal serializes a Value with the given indentation width, keeping
// object members in their stored order. Non-ASCII text is written
// literally, matching the usual hand-maintained localization file style.
func Marshal(v Value, indent int) []byte {
	var b strings.Builder
	writeValue(&b, v, indent, 0)
	return []byte(b.String())
}

func writeValue(b *strings.Builder, v Value, indent, depth int) {
	switch val := v.(type) {
	case Object:
		if len(val) == 0 {
			b.WriteString("{}")
			return
		}
		b.WriteString("{\n")
		for i, m := range val {
			writeIndent(b, indent, depth+1)
			b.WriteString(jsonString(m.Key))
			b.WriteString(": ")
			writeValue(b, m.Value, indent, depth+1)
			if i < len(val)-1 {
				b.WriteByte(',')
			}
			b.WriteByte('\n')
		}
		writeIndent(b, indent, depth)
		b.WriteByte('}')

	case Array:
		if len(val) == 0 {
			b.WriteString("[]")
			return
		}
		b.WriteString("[\n")
		for i, item := range val {
			writeIndent(b, indent, depth+1)
			writeValue(b, item, indent, depth+1)
			if i < len(val)-1 {
				b.WriteByte(',')
			}
			b.WriteByte('\n')
		}
		writeIndent(b, indent, depth)
		b.WriteByte(']')

	case String:
		b.WriteString(jsonString(string(val)))

	case Literal:
		b.WriteString(string(val))
	}
}

func writeIndent(b *strings.Builder, indent, depth int) {
	for i := 0; i < indent*depth; i++ {
		b.WriteByte(' ')
	}
}

// jsonString returns a JSON-encoded string value. HTML escaping is off
// so text like "a > b" survives round trips unchanged.
func jsonString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}

// WriteFile serializes a Value and writes it to path, creating parent
// directories as needed. The file ends with a trailing newline.
func WriteFile(path string, v Value, indent int) error {
	data := Marshal(v, indent)
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
