package output

import (
	"bufio"
	"encoding/json"
	"io"

	"github.com/tidwall/pretty"
)

// JSONWriter writes each item as an indented JSON document.
type JSONWriter struct {
	w     *bufio.Writer
	color bool
}

// NewJSONWriter creates a JSON writer.
func NewJSONWriter(w io.Writer, color bool) *JSONWriter {
	return &JSONWriter{
		w:     bufio.NewWriter(w),
		color: color,
	}
}

// Write encodes data followed by a newline.
func (w *JSONWriter) Write(data any) error {
	output, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	if w.color {
		output = pretty.Color(output, nil)
	}

	if _, err := w.w.Write(output); err != nil {
		return err
	}
	_, err = w.w.WriteString("\n")
	return err
}

// Flush flushes buffered output.
func (w *JSONWriter) Flush() error {
	return w.w.Flush()
}
