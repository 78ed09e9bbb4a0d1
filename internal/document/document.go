// Package document edits dynamic JSON values (ordered objects, []any and
// scalars) in place of hand-written updaters. Edits are applied to the
// serialized document, so untouched keys keep their order.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/iancoleman/orderedmap"
	"github.com/tidwall/sjson"

	"github.com/bassista/go_jsonupdate/internal/jsonfile"
)

var (
	// ErrInvalidPath is returned for an empty key path, an empty segment or a
	// bad array index.
	ErrInvalidPath = errors.New("invalid key path")
	// ErrNotContainer is returned when a path walks through a scalar value.
	ErrNotContainer = errors.New("value is not an object or array")
)

// MergePatch applies patch to target as described by RFC 7386 and returns the result.
// Objects are merged recursively, null removes a key and any other patch
// replaces the target. A target that is not an object is treated as {}.
func MergePatch(target, patch any) (any, error) {
	if !isObject(patch) {
		return patch, nil
	}
	if !isObject(target) {
		target = jsonfile.NewObject()
	}

	doc, err := compact(target)
	if err != nil {
		return nil, err
	}
	p, err := compact(patch)
	if err != nil {
		return nil, err
	}
	merged, err := jsonpatch.MergePatch(doc, p)
	if err != nil {
		return nil, fmt.Errorf("merge patch: %w", err)
	}
	return decode(merged)
}

// SplitPath splits a dotted key path such as "server.ports.0".
// A backslash escapes the next character, so `a\.b` names the key "a.b".
func SplitPath(path string) ([]string, error) {
	if path == "" {
		return nil, ErrInvalidPath
	}

	var (
		segments []string
		current  strings.Builder
	)
	for i := 0; i < len(path); i++ {
		switch c := path[i]; c {
		case '\\':
			if i+1 == len(path) {
				return nil, fmt.Errorf("%w: trailing escape in %q", ErrInvalidPath, path)
			}
			i++
			current.WriteByte(path[i])
		case '.':
			segments = append(segments, current.String())
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	segments = append(segments, current.String())

	for _, s := range segments {
		if s == "" {
			return nil, fmt.Errorf("%w: empty segment in %q", ErrInvalidPath, path)
		}
	}
	return segments, nil
}

// SetPath sets value at the dotted path inside doc and returns the new root.
// Missing objects along the way are created and a null root starts out as {}.
// Array elements are addressed by index; index len(array) appends.
// Walking through a scalar, the root included, fails with ErrNotContainer.
func SetPath(doc any, path string, value any) (any, error) {
	segments, err := SplitPath(path)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		doc = jsonfile.NewObject()
	}

	nullParents, err := checkSet(doc, segments, path)
	if err != nil {
		return nil, err
	}

	data, err := compact(doc)
	if err != nil {
		return nil, err
	}
	for _, n := range nullParents {
		if data, err = sjson.SetRawBytes(data, joinPath(segments[:n]), []byte("{}")); err != nil {
			return nil, fmt.Errorf("set %q: %w", path, err)
		}
	}

	raw, err := compact(value)
	if err != nil {
		return nil, err
	}
	if data, err = sjson.SetRawBytes(data, joinPath(segments), raw); err != nil {
		return nil, fmt.Errorf("set %q: %w", path, err)
	}
	return decode(data)
}

// DeletePath removes the value at the dotted path and returns the new root.
// Deleting a key that does not exist is not an error.
func DeletePath(doc any, path string) (any, error) {
	segments, err := SplitPath(path)
	if err != nil {
		return nil, err
	}

	found, err := checkDelete(doc, segments, path)
	if err != nil || !found {
		return doc, err
	}

	data, err := compact(doc)
	if err != nil {
		return nil, err
	}
	if data, err = sjson.DeleteBytes(data, joinPath(segments)); err != nil {
		return nil, fmt.Errorf("unset %q: %w", path, err)
	}
	return decode(data)
}

// checkSet walks the existing part of segments. It returns the lengths of the
// prefixes that hold null and must become objects before the value is set.
func checkSet(doc any, segments []string, path string) ([]int, error) {
	var nullParents []int
	node := doc
	for i, key := range segments {
		child, exists, err := lookup(node, key, path, true)
		if err != nil {
			return nil, err
		}
		if !exists || i == len(segments)-1 {
			return nullParents, nil
		}
		if child == nil {
			nullParents = append(nullParents, i+1)
			return nullParents, nil
		}
		node = child
	}
	return nullParents, nil
}

// checkDelete reports whether the full path exists in doc.
func checkDelete(doc any, segments []string, path string) (bool, error) {
	node := doc
	for _, key := range segments {
		if node == nil {
			return false, nil
		}
		child, exists, err := lookup(node, key, path, false)
		if err != nil || !exists {
			return false, err
		}
		node = child
	}
	return true, nil
}

// lookup returns the child of node at key. With appendOK an array index equal
// to the length is accepted as a new element.
func lookup(node any, key, path string, appendOK bool) (any, bool, error) {
	switch n := node.(type) {
	case *orderedmap.OrderedMap:
		child, ok := n.Get(key)
		return child, ok, nil
	case map[string]any:
		child, ok := n[key]
		return child, ok, nil
	case []any:
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 {
			return nil, false, fmt.Errorf("%w: bad index %q in %q", ErrInvalidPath, key, path)
		}
		if idx < len(n) {
			return n[idx], true, nil
		}
		if appendOK && idx > len(n) {
			return nil, false, fmt.Errorf("%w: index %q out of range in %q", ErrInvalidPath, key, path)
		}
		return nil, false, nil
	default:
		return nil, false, fmt.Errorf("%w: at %q in %q", ErrNotContainer, key, path)
	}
}

func isObject(v any) bool {
	switch v.(type) {
	case *orderedmap.OrderedMap, orderedmap.OrderedMap, map[string]any:
		return true
	}
	return false
}

// joinPath builds an sjson path, escaping the characters it treats specially.
func joinPath(segments []string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		var b strings.Builder
		for _, c := range s {
			switch c {
			case '.', '\\', '*', '?':
				b.WriteByte('\\')
			}
			b.WriteRune(c)
		}
		escaped[i] = b.String()
	}
	return strings.Join(escaped, ".")
}

func compact(v any) ([]byte, error) {
	data, err := jsonfile.Marshal(v, jsonfile.WriteOptions{Compact: true})
	if err != nil {
		return nil, err
	}
	return bytes.TrimSpace(data), nil
}

func decode(data []byte) (any, error) {
	var v any
	if err := jsonfile.Decode(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// ParseValue interprets raw as a JSON literal, falling back to a plain string.
// "42" is a number, "true" a bool, `{"a":1}` an object, and "hello" a string.
func ParseValue(raw string) any {
	v, err := decode([]byte(raw))
	if err != nil {
		return raw
	}
	return v
}
