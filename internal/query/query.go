// Package query builds URL query strings for Bsale API requests.
package query

import (
	"bytes"
	"encoding/json"
	"net/url"
	"reflect"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/mitchellh/mapstructure"
)

// TagName is the struct tag read by FromStruct.
const TagName = "query"

// Encode turns params into a query string prefixed with "?".
//
// Rules:
//   - nil values, nil pointers, nil slices and nil maps are skipped
//   - strings, booleans and numbers are sent as their string form
//   - slices, arrays, maps and structs are sent as compact JSON
//
// Keys are emitted in sorted order, so the same mapping always yields the
// same string. Returns "" when nothing is left to encode. A value that cannot
// be marshalled as JSON (a NaN inside a map, a channel in a struct) fails the
// whole call.
func Encode(params map[string]any) (string, error) {
	values := url.Values{}

	for key, value := range params {
		encoded, ok, err := encodeValue(value)
		if err != nil {
			return "", errors.Wrapf(err, "encode query parameter %q", key)
		}
		if !ok {
			continue
		}
		values.Set(key, encoded)
	}

	if len(values) == 0 {
		return "", nil
	}

	return "?" + values.Encode(), nil
}

// FromStruct converts a parameter struct into a mapping suitable for Encode.
//
// Fields are named by their `query` tag. Use `omitempty` to drop zero values
// and pointer fields for filters where zero is meaningful (a nil pointer is
// always dropped, a pointer to zero is kept). Embedded structs tagged
// `query:",squash"` are flattened.
func FromStruct(v any) (map[string]any, error) {
	out := map[string]any{}
	if v == nil {
		return out, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return out, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: TagName,
		Result:  &out,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create query decoder")
	}

	if err := decoder.Decode(v); err != nil {
		return nil, errors.Wrapf(err, "failed to convert %T to query parameters", v)
	}

	return out, nil
}

// encodeValue reports false for values that are skipped.
func encodeValue(value any) (string, bool, error) {
	if value == nil {
		return "", false, nil
	}

	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return "", false, nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.String:
		return rv.String(), true, nil
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), true, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), true, nil
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32), true, nil
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), true, nil
	case reflect.Slice, reflect.Map:
		if rv.IsNil() {
			return "", false, nil
		}
		encoded, err := encodeJSON(rv.Interface())
		return encoded, err == nil, err
	case reflect.Array, reflect.Struct:
		encoded, err := encodeJSON(rv.Interface())
		return encoded, err == nil, err
	default:
		return "", false, nil
	}
}

// encodeJSON marshals without HTML escaping and without the trailing newline
// json.Encoder appends.
func encodeJSON(value any) (string, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(value); err != nil {
		return "", errors.Wrap(err, "marshal as JSON")
	}

	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
