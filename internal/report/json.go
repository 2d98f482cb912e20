package report

import (
	"encoding/json"
	"io"

	"github.com/rfctools/wikihist/internal/model"
)

// JSONWriter outputs histories in JSON format.
// This format is designed for machine consumption and downstream tooling
// (e.g. replaying revisions into a git repository).
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed output.
	indent bool
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
// Output is pretty-printed by default.
func NewJSONWriter(output io.Writer) *JSONWriter {
	return &JSONWriter{
		baseWriter: newBaseWriter(output),
		indent:     true,
	}
}

// Write renders the history as JSON.
func (w *JSONWriter) Write(history *model.History) (int, error) {
	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(history, "", "  ")
	} else {
		data, err = json.Marshal(history)
	}
	if err != nil {
		return 0, err
	}
	data = append(data, '\n')
	return w.output.Write(data)
}
