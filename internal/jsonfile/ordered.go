package jsonfile

import (
	"encoding/json"
	"fmt"

	"github.com/iancoleman/orderedmap"
)

// NewObject returns an empty JSON object that keeps its keys in insertion order.
// Dynamic documents decode their objects into this type so a rewrite keeps the
// key order of the file.
func NewObject() *orderedmap.OrderedMap {
	o := orderedmap.New()
	o.SetEscapeHTML(false)
	return o
}

// decodeOrdered reads one value from decoder. Objects become
// *orderedmap.OrderedMap, arrays []any and numbers json.Number.
func decodeOrdered(decoder *json.Decoder) (any, error) {
	tok, err := decoder.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		obj := NewObject()
		for decoder.More() {
			keyTok, err := decoder.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("object key is %T, not a string", keyTok)
			}
			value, err := decodeOrdered(decoder)
			if err != nil {
				return nil, err
			}
			obj.Set(key, value)
		}
		if _, err := decoder.Token(); err != nil {
			return nil, err
		}
		return obj, nil

	case '[':
		arr := []any{}
		for decoder.More() {
			value, err := decodeOrdered(decoder)
			if err != nil {
				return nil, err
			}
			arr = append(arr, value)
		}
		if _, err := decoder.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	}
	return nil, fmt.Errorf("unexpected delimiter %q", delim)
}

// applyEscapeHTML sets the HTML escaping of every ordered object inside v.
// The objects encode themselves, so the encoder setting alone does not reach
// their string values.
func applyEscapeHTML(v any, on bool) {
	switch n := v.(type) {
	case *orderedmap.OrderedMap:
		n.SetEscapeHTML(on)
		for _, key := range n.Keys() {
			child, _ := n.Get(key)
			applyEscapeHTML(child, on)
		}
	case []any:
		for _, child := range n {
			applyEscapeHTML(child, on)
		}
	case map[string]any:
		for _, child := range n {
			applyEscapeHTML(child, on)
		}
	}
}
