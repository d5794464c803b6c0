package cli

import (
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Filter is a compiled --where expression. Items are exposed to the
// expression by their JSON field names, e.g. `state == 0 && name contains "té"`.
type Filter struct {
	expression string
	program    *vm.Program
}

// CompileFilter compiles a boolean expression. An empty expression yields a
// nil Filter, which matches everything.
func CompileFilter(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, nil
	}

	program, err := expr.Compile(expression,
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid --where expression %q", expression)
	}

	return &Filter{expression: expression, program: program}, nil
}

// Match evaluates the filter against item.
func (f *Filter) Match(item any) (bool, error) {
	if f == nil {
		return true, nil
	}

	env, err := toEnv(item)
	if err != nil {
		return false, err
	}

	out, err := expr.Run(f.program, env)
	if err != nil {
		return false, errors.Wrapf(err, "evaluate %q", f.expression)
	}

	matched, _ := out.(bool)
	return matched, nil
}

// Apply keeps the items of items that match f.
func Apply[T any](f *Filter, items []T) ([]T, error) {
	if f == nil {
		return items, nil
	}

	kept := make([]T, 0, len(items))
	for _, item := range items {
		ok, err := f.Match(item)
		if err != nil {
			return nil, err
		}
		if ok {
			kept = append(kept, item)
		}
	}

	return kept, nil
}

// toEnv turns item into a map keyed by its JSON field names.
func toEnv(item any) (map[string]any, error) {
	raw, err := json.Marshal(item)
	if err != nil {
		return nil, errors.Wrap(err, "encode item for filter")
	}

	env := map[string]any{}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, errors.Wrap(err, "filter items must be objects")
	}

	return env, nil
}
