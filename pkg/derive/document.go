package derive

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/modelviz/modelviz/pkg/errors"
)

// =============================================================================
// Ordered Document Model
// =============================================================================

// ValueKind classifies a parsed document value.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the kind name for diagnostics.
func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return "unknown"
}

// Value is one parsed document value. Unlike map[string]any, object fields
// keep the key order of the source document. Key order is load-bearing for
// derivation: it determines left-to-right sibling placement downstream.
type Value struct {
	Kind   ValueKind
	Fields []Field // object members, source order
	Items  []Value // array elements
	Scalar string  // rendered form for null/bool/number/string
}

// Field is one object member.
type Field struct {
	Key   string
	Value Value
}

// Lookup returns the value of the named field and true, or the zero Value
// and false if the value is not an object or the key is absent.
func (v Value) Lookup(key string) (Value, bool) {
	for _, f := range v.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Value{}, false
}

// =============================================================================
// Parsing
// =============================================================================

// ParseDocument parses JSON bytes into an ordered Value.
// Numbers keep their source text instead of being converted to float64, so
// previews show what the document actually says.
func ParseDocument(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := parseValue(dec)
	if err != nil {
		return Value{}, errors.Wrap(errors.ErrCodeInvalidDocument, err, "parse document")
	}
	if _, err := dec.Token(); err != io.EOF {
		return Value{}, errors.New(errors.ErrCodeInvalidDocument, "trailing data after document")
	}
	return v, nil
}

func parseValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	return parseFrom(dec, tok)
}

func parseFrom(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return parseObject(dec)
		case '[':
			return parseArray(dec)
		}
		return Value{}, fmt.Errorf("unexpected delimiter %q", t)
	case string:
		return Value{Kind: KindString, Scalar: t}, nil
	case json.Number:
		return Value{Kind: KindNumber, Scalar: t.String()}, nil
	case bool:
		if t {
			return Value{Kind: KindBool, Scalar: "true"}, nil
		}
		return Value{Kind: KindBool, Scalar: "false"}, nil
	case nil:
		return Value{Kind: KindNull, Scalar: "null"}, nil
	}
	return Value{}, fmt.Errorf("unexpected token %v", tok)
}

func parseObject(dec *json.Decoder) (Value, error) {
	obj := Value{Kind: KindObject}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return Value{}, fmt.Errorf("object key is not a string: %v", keyTok)
		}
		val, err := parseValue(dec)
		if err != nil {
			return Value{}, err
		}
		obj.Fields = append(obj.Fields, Field{Key: key, Value: val})
	}
	// consume closing '}'
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return obj, nil
}

func parseArray(dec *json.Decoder) (Value, error) {
	arr := Value{Kind: KindArray}
	for dec.More() {
		val, err := parseValue(dec)
		if err != nil {
			return Value{}, err
		}
		arr.Items = append(arr.Items, val)
	}
	// consume closing ']'
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return arr, nil
}
