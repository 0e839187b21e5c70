package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

type testItem struct {
	Name  string `json:"name" yaml:"name"`
	Value int    `json:"value" yaml:"value"`
}

// --- NewWriter Factory Tests ---

func TestNewWriter(t *testing.T) {
	tests := []struct {
		format  Format
		want    string
		wantErr bool
	}{
		{FormatJSON, "*output.JSONWriter", false},
		{FormatYAML, "*output.YAMLWriter", false},
		{Format("jsonl"), "", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			w, err := NewWriter(&bytes.Buffer{}, tt.format)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewWriter() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			switch w.(type) {
			case *JSONWriter, *YAMLWriter:
			default:
				t.Errorf("unexpected writer type %T", w)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"YAML", FormatYAML, false},
		{" yaml ", FormatYAML, false},
		{"", "", true},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsTerminal_Buffer(t *testing.T) {
	if IsTerminal(&bytes.Buffer{}) {
		t.Error("a buffer is never a terminal")
	}
}

// --- JSON Writer Tests ---

func TestJSONWriter_SingleItem(t *testing.T) {
	buf := &bytes.Buffer{}
	w, err := NewWriter(buf, FormatJSON)
	if err != nil {
		t.Fatal(err)
	}

	if err := w.Write(testItem{Name: "nb", Value: 3}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	var got testItem
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not a JSON object: %v\n%s", err, buf.String())
	}
	if got.Name != "nb" || got.Value != 3 {
		t.Errorf("unexpected decoded item %+v", got)
	}
	if !strings.Contains(buf.String(), "\n  \"name\"") {
		t.Errorf("expected two-space indent, got %q", buf.String())
	}
	if !strings.HasSuffix(buf.String(), "}\n") {
		t.Errorf("expected trailing newline, got %q", buf.String())
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("buffers should not be coloured, got %q", buf.String())
	}
}

func TestJSONWriter_BufferedUntilFlush(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONWriter(buf, false)

	_ = w.Write(testItem{Name: "nb"})
	if buf.Len() != 0 {
		t.Errorf("expected nothing before Flush(), got %q", buf.String())
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	if buf.Len() == 0 {
		t.Error("expected output after Flush()")
	}
}

func TestJSONWriter_Color(t *testing.T) {
	buf := &bytes.Buffer{}
	w, err := NewWriter(buf, FormatJSON, WithColor(true))
	if err != nil {
		t.Fatal(err)
	}

	_ = w.Write(testItem{Name: "nb", Value: 1})
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("expected ANSI escapes in coloured output, got %q", buf.String())
	}
}

func TestJSONWriter_MarshalError(t *testing.T) {
	w := NewJSONWriter(&bytes.Buffer{}, false)

	if err := w.Write(make(chan int)); err == nil {
		t.Error("expected error for unmarshalable value")
	}
}

// --- YAML Writer Tests ---

func TestYAMLWriter_SingleItem(t *testing.T) {
	buf := &bytes.Buffer{}
	w, err := NewWriter(buf, FormatYAML)
	if err != nil {
		t.Fatal(err)
	}

	if err := w.Write(testItem{Name: "nb", Value: 7}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	var got testItem
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	if got.Name != "nb" || got.Value != 7 {
		t.Errorf("unexpected decoded item %+v", got)
	}
	if strings.HasPrefix(buf.String(), "---") {
		t.Errorf("a single document needs no separator, got %q", buf.String())
	}
}
