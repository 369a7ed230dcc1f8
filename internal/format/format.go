package format

import (
	"encoding/json"
	"io"
)

// Write emits v as JSON, one document per call. Scriptable command output is
// always machine-readable; pretty-printing is opt-in for humans.
func Write(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
