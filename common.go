package bsale

import (
	"context"
	"encoding/json"
	"reflect"

	"github.com/cockroachdb/errors"

	"github.com/stockflow/go-bsale/internal/query"
)

// Entity states shared by most resources.
const (
	StateActive   = 0
	StateInactive = 1
	StateDeleted  = 99
)

// FlexString decodes from a JSON string or number. Bsale is inconsistent
// about the type of ids and codes.
type FlexString string

// UnmarshalJSON accepts a JSON string, number or null.
func (s *FlexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return errors.Wrap(err, "decode flexible string")
		}
		*s = FlexString(str)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.Wrap(err, "decode flexible string")
	}
	*s = FlexString(n.String())

	return nil
}

// ResourceRef links to a related entity.
type ResourceRef struct {
	Href string     `json:"href"`
	ID   FlexString `json:"id,omitempty"`
}

// Page is one page of a collection.
type Page[T any] struct {
	Href   string `json:"href"`
	Count  int    `json:"count"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
	Items  []T    `json:"items"`
	Next   string `json:"next,omitempty"`
}

// Pagination selects a page. Bsale defaults to 25 items and caps at 50.
type Pagination struct {
	Limit  int `query:"limit,omitempty"`
	Offset int `query:"offset,omitempty"`
}

// FieldParams narrows or widens the returned representation.
type FieldParams struct {
	Fields []string `query:"fields,omitempty"`
	Expand []string `query:"expand,omitempty"`
}

// DateRange filters by Unix timestamps.
type DateRange struct {
	StartDate int64 `json:"startDate"`
	EndDate   int64 `json:"endDate"`
}

// toParams converts a typed parameter struct (or Params) into Params. Nil
// input, including typed nil pointers, yields nil.
func toParams(v any) (Params, error) {
	if v == nil {
		return nil, nil
	}
	if p, ok := v.(Params); ok {
		return p, nil
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil, nil
	}

	m, err := query.FromStruct(v)
	if err != nil {
		return nil, NewError("Failed to encode query parameters", err)
	}

	return m, nil
}

func expandParams(expand []string) Params {
	if len(expand) == 0 {
		return nil
	}
	return Params{"expand": expand}
}

func stateParams(state *int) Params {
	if state == nil {
		return nil
	}
	return Params{"state": *state}
}

// listPage fetches one page of a collection.
func listPage[T any](ctx context.Context, e *Engine, path string, params any) (*Page[T], error) {
	p, err := toParams(params)
	if err != nil {
		return nil, err
	}

	var page Page[T]
	if err := e.Get(ctx, path, p, &page); err != nil {
		return nil, err
	}

	return &page, nil
}

// getItem fetches a single entity. Bsale sometimes wraps it in an object
// keyed by the resource name; both forms are accepted.
func getItem[T any](ctx context.Context, e *Engine, path, key string, params Params) (*T, error) {
	var raw json.RawMessage
	if err := e.Get(ctx, path, params, &raw); err != nil {
		return nil, err
	}
	return unwrapItem[T](raw, key)
}

// sendItem issues a write request and unwraps the returned entity like
// getItem. A 204 yields nil.
func sendItem[T any](ctx context.Context, e *Engine, method, path, key string, body any) (*T, error) {
	var raw json.RawMessage
	if err := e.Do(ctx, &Request{Method: method, Path: path, Body: body}, &raw); err != nil {
		return nil, err
	}
	return unwrapItem[T](raw, key)
}

// unwrapItem decodes raw, or the member named key when raw is an object
// holding it. An empty or null payload yields nil.
func unwrapItem[T any](raw json.RawMessage, key string) (*T, error) {
	if isNullJSON(raw) {
		return nil, nil
	}
	if key != "" {
		var envelope map[string]json.RawMessage
		if json.Unmarshal(raw, &envelope) == nil {
			if inner, ok := envelope[key]; ok {
				raw = inner
			}
		}
		if isNullJSON(raw) {
			return nil, nil
		}
	}

	out := new(T)
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, NewError("Failed to decode response", err)
	}

	return out, nil
}

// count reads a {"count": N} response.
func count(ctx context.Context, e *Engine, path string, params Params) (int, error) {
	var resp struct {
		Count int `json:"count"`
	}
	if err := e.Get(ctx, path, params, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}
