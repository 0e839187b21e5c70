package notebook

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// DefaultIndent is the number of spaces per nesting level used for
// rewritten notebooks.
const DefaultIndent = 1

// EncodeOptions controls serialization.
type EncodeOptions struct {
	// Indent is the number of spaces per nesting level. Zero still breaks
	// lines, it just does not indent them.
	Indent int

	// EnsureASCII escapes every character outside printable ASCII as \uXXXX.
	// When false, non-ASCII text is written as-is.
	EnsureASCII bool
}

// Encode re-serializes the JSON document raw.
//
// Members keep their order. Strings are re-escaped, everything else
// (numbers, true, false, null) is copied verbatim. The output has no
// trailing newline.
func Encode(raw []byte, opts EncodeOptions) ([]byte, error) {
	if !gjson.ValidBytes(raw) {
		return nil, errors.WithStack(ErrInvalidJSON)
	}
	if opts.Indent < 0 {
		return nil, errors.Errorf("negative indent %d", opts.Indent)
	}
	if err := checkSurrogates(raw); err != nil {
		return nil, err
	}

	e := &encoder{
		indent: strings.Repeat(" ", opts.Indent),
		ascii:  opts.EnsureASCII,
	}
	e.buf.Grow(len(raw) + len(raw)/4)
	e.value(gjson.ParseBytes(bytes.TrimSpace(raw)), 0)
	return e.buf.Bytes(), nil
}

type encoder struct {
	buf    bytes.Buffer
	indent string
	ascii  bool
}

func (e *encoder) value(v gjson.Result, depth int) {
	switch {
	case v.IsObject():
		e.container(v, depth, '{', '}', true)
	case v.IsArray():
		e.container(v, depth, '[', ']', false)
	case v.Type == gjson.String:
		e.str(v.String())
	default:
		e.buf.WriteString(strings.TrimSpace(v.Raw))
	}
}

func (e *encoder) container(v gjson.Result, depth int, open, end byte, keyed bool) {
	e.buf.WriteByte(open)
	n := 0
	v.ForEach(func(k, item gjson.Result) bool {
		if n > 0 {
			e.buf.WriteByte(',')
		}
		e.newline(depth + 1)
		if keyed {
			e.str(k.String())
			e.buf.WriteString(": ")
		}
		e.value(item, depth+1)
		n++
		return true
	})
	if n > 0 {
		e.newline(depth)
	}
	e.buf.WriteByte(end)
}

func (e *encoder) newline(depth int) {
	e.buf.WriteByte('\n')
	for i := 0; i < depth; i++ {
		e.buf.WriteString(e.indent)
	}
}

func (e *encoder) str(s string) {
	e.buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			e.buf.WriteString(`\"`)
		case '\\':
			e.buf.WriteString(`\\`)
		case '\n':
			e.buf.WriteString(`\n`)
		case '\r':
			e.buf.WriteString(`\r`)
		case '\t':
			e.buf.WriteString(`\t`)
		case '\b':
			e.buf.WriteString(`\b`)
		case '\f':
			e.buf.WriteString(`\f`)
		default:
			switch {
			case r < 0x20:
				fmt.Fprintf(&e.buf, `\u%04x`, r)
			case e.ascii && r > 0x7e:
				e.escapeRune(r)
			default:
				e.buf.WriteRune(r)
			}
		}
	}
	e.buf.WriteByte('"')
}

func (e *encoder) escapeRune(r rune) {
	if r1, r2 := utf16.EncodeRune(r); r1 != unicode.ReplacementChar {
		fmt.Fprintf(&e.buf, `\u%04x\u%04x`, r1, r2)
		return
	}
	fmt.Fprintf(&e.buf, `\u%04x`, r)
}

// checkSurrogates rejects \uXXXX escapes that encode half of a UTF-16
// surrogate pair. Decoding would turn them into U+FFFD and silently alter
// the string. raw must be valid JSON, so a backslash only occurs in strings.
func checkSurrogates(raw []byte) error {
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' {
			continue
		}
		if i+1 >= len(raw) || raw[i+1] != 'u' {
			i++
			continue
		}
		r, ok := hex4(raw, i+2)
		if !ok || !utf16.IsSurrogate(r) {
			i += 5
			continue
		}
		if r >= 0xdc00 {
			return errors.Wrapf(ErrUnpairedSurrogate, "\\u%04x at offset %d", r, i)
		}
		if i+7 >= len(raw) || raw[i+6] != '\\' || raw[i+7] != 'u' {
			return errors.Wrapf(ErrUnpairedSurrogate, "\\u%04x at offset %d", r, i)
		}
		if lo, ok := hex4(raw, i+8); !ok || lo < 0xdc00 || lo > 0xdfff {
			return errors.Wrapf(ErrUnpairedSurrogate, "\\u%04x at offset %d", r, i)
		}
		i += 11
	}
	return nil
}

func hex4(raw []byte, at int) (rune, bool) {
	if at+4 > len(raw) {
		return 0, false
	}
	v, err := strconv.ParseUint(string(raw[at:at+4]), 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}
