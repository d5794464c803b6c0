package cli

import (
	"encoding/json"
	"io"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Print writes v to w as indented JSON or as YAML. YAML keys follow the
// JSON field names.
func Print(w io.Writer, format string, v any) error {
	switch format {
	case "", FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return errors.Wrap(enc.Encode(v), "write json")

	case FormatYAML:
		raw, err := json.Marshal(v)
		if err != nil {
			return errors.Wrap(err, "encode output")
		}

		var generic any
		if err := json.Unmarshal(raw, &generic); err != nil {
			return errors.Wrap(err, "encode output")
		}

		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return errors.Wrap(err, "write yaml")
		}
		return errors.Wrap(enc.Close(), "write yaml")

	default:
		return errors.Newf("unknown output format %q (want json or yaml)", format)
	}
}
