// Package notebook reads, edits and writes Jupyter notebook documents
// without imposing a schema on them.
//
// A Document keeps the notebook as raw JSON and edits it in place, so
// members the caller never touches keep their order and value. Only the
// root object, its "metadata" member and the "cells" array are given any
// structure.
package notebook

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// Well-known member names.
const (
	KeyMetadata = "metadata"
	KeyCells    = "cells"
)

// Document is a parsed notebook. The root is always a JSON object.
type Document struct {
	Object
}

// Parse validates data as a UTF-8 JSON document with an object root.
func Parse(data []byte) (*Document, error) {
	if !utf8.Valid(data) {
		return nil, errors.WithStack(ErrInvalidUTF8)
	}
	if !gjson.ValidBytes(data) {
		return nil, errors.WithStack(ErrInvalidJSON)
	}
	root := gjson.ParseBytes(bytes.TrimSpace(data))
	obj, err := objectFrom(root, "")
	if err != nil {
		return nil, err
	}
	return &Document{Object: *obj}, nil
}

// Metadata returns the root metadata object; found is false if the
// document has none.
func (d *Document) Metadata() (md *Object, found bool, err error) {
	return d.Child(KeyMetadata)
}

// SetMetadata stores md as the root metadata object.
func (d *Document) SetMetadata(md *Object) error {
	return d.Set(KeyMetadata, md)
}

// Cells returns the cells in document order. found is false when the
// document has no "cells" member. Every cell must be an object.
func (d *Document) Cells() (cells []*Cell, found bool, err error) {
	r := d.Get(KeyCells)
	if !r.Exists() {
		return nil, false, nil
	}
	if !r.IsArray() {
		return nil, true, errors.WithStack(&TypeError{Path: KeyCells, Want: "array", Got: kindOf(r)})
	}

	i := 0
	r.ForEach(func(_, v gjson.Result) bool {
		var obj *Object
		obj, err = objectFrom(v, fmt.Sprintf("%s[%d]", KeyCells, i))
		if err != nil {
			return false
		}
		cells = append(cells, &Cell{Object: *obj, Index: i})
		i++
		return true
	})
	if err != nil {
		return nil, true, err
	}
	return cells, true, nil
}

// SetCells replaces the "cells" array with cells, in the given order.
func (d *Document) SetCells(cells []*Cell) error {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, c := range cells {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(c.raw)
	}
	buf.WriteByte(']')
	return d.SetRaw(KeyCells, buf.Bytes())
}

// Cell is one entry of the notebook's "cells" array.
type Cell struct {
	Object
	Index int
}

// Metadata returns the cell's metadata object; found is false if the cell
// has none.
func (c *Cell) Metadata() (md *Object, found bool, err error) {
	return c.Child(KeyMetadata)
}

// SetMetadata stores md as the cell's metadata object.
func (c *Cell) SetMetadata(md *Object) error {
	return c.Set(KeyMetadata, md)
}

// Marshal serializes the document with opts.
func (d *Document) Marshal(opts EncodeOptions) ([]byte, error) {
	return Encode(d.raw, opts)
}
