package notebook

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Object is a JSON object held as raw bytes.
// Member order survives every edit; new members are appended.
type Object struct {
	raw  []byte
	path string // location in the document, for error messages
}

// NewObject returns an empty object located at path.
func NewObject(path string) *Object {
	return &Object{raw: []byte("{}"), path: path}
}

func objectFrom(r gjson.Result, path string) (*Object, error) {
	if !r.IsObject() {
		return nil, errors.WithStack(&TypeError{Path: path, Want: "object", Got: kindOf(r)})
	}
	return &Object{raw: []byte(r.Raw), path: path}, nil
}

// Path returns the object's location in the document ("" for the root).
func (o *Object) Path() string {
	return o.path
}

// Bytes returns the raw JSON of the object.
func (o *Object) Bytes() []byte {
	return o.raw
}

// Get returns the member stored under key. When key is repeated the last
// occurrence wins, as in most JSON decoders.
func (o *Object) Get(key string) gjson.Result {
	var last gjson.Result
	gjson.ParseBytes(o.raw).ForEach(func(k, v gjson.Result) bool {
		if k.String() == key {
			last = v
		}
		return true
	})
	return last
}

// count returns how many members are named key.
func (o *Object) count(key string) int {
	n := 0
	gjson.ParseBytes(o.raw).ForEach(func(k, _ gjson.Result) bool {
		if k.String() == key {
			n++
		}
		return true
	})
	return n
}

// Has reports whether key is a member of the object.
func (o *Object) Has(key string) bool {
	return o.Get(key).Exists()
}

// Keys returns the member names in document order.
func (o *Object) Keys() []string {
	var keys []string
	gjson.ParseBytes(o.raw).ForEach(func(k, _ gjson.Result) bool {
		keys = append(keys, k.String())
		return true
	})
	return keys
}

// Delete removes key from the object. Duplicate members are all removed.
// It reports whether anything was removed.
func (o *Object) Delete(key string) (bool, error) {
	path := gjson.Escape(key)
	removed := false
	for gjson.GetBytes(o.raw, path).Exists() {
		raw, err := sjson.DeleteBytes(o.raw, path)
		if err != nil {
			return removed, errors.Wrapf(err, "deleting %s", o.child(key))
		}
		o.raw = raw
		removed = true
	}
	return removed, nil
}

// Set stores v under key, in place if the key exists, appended otherwise.
func (o *Object) Set(key string, v *Object) error {
	return o.SetRaw(key, v.raw)
}

// SetRaw stores raw JSON under key. A repeated key collapses into a single
// member at the position of its first occurrence.
func (o *Object) SetRaw(key string, raw []byte) error {
	if o.count(key) > 1 {
		o.raw = o.replaceAll(key, raw)
		return nil
	}
	out, err := sjson.SetRawBytes(o.raw, gjson.Escape(key), raw)
	if err != nil {
		return errors.Wrapf(err, "setting %s", o.child(key))
	}
	o.raw = out
	return nil
}

// replaceAll rebuilds the object with the first key member holding raw and
// later ones dropped.
func (o *Object) replaceAll(key string, raw []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(len(o.raw))
	buf.WriteByte('{')
	n, written := 0, false
	gjson.ParseBytes(o.raw).ForEach(func(k, v gjson.Result) bool {
		value := v.Raw
		if k.String() == key {
			if written {
				return true
			}
			written = true
			value = string(raw)
		}
		if n > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(k.Raw)
		buf.WriteByte(':')
		buf.WriteString(value)
		n++
		return true
	})
	buf.WriteByte('}')
	return buf.Bytes()
}

// Child returns the object stored under key. An absent key yields a fresh
// empty object and found=false. Any other non-object value is a TypeError.
func (o *Object) Child(key string) (child *Object, found bool, err error) {
	r := o.Get(key)
	if !r.Exists() {
		return NewObject(o.child(key)), false, nil
	}
	child, err = objectFrom(r, o.child(key))
	if err != nil {
		return nil, true, err
	}
	return child, true, nil
}

func (o *Object) child(key string) string {
	if o.path == "" {
		return key
	}
	return o.path + "." + key
}
