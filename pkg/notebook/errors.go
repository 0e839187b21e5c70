package notebook

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// ErrInvalidJSON indicates the input is not a well-formed JSON document.
var ErrInvalidJSON = errors.New("invalid JSON")

// ErrInvalidUTF8 indicates the input is not UTF-8 encoded text.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

// ErrUnpairedSurrogate indicates a string escape that is half of a UTF-16
// surrogate pair and has no UTF-8 representation.
var ErrUnpairedSurrogate = errors.New("unpaired UTF-16 surrogate")

// TypeError reports a value whose JSON type does not fit its position.
type TypeError struct {
	Path string // e.g. "cells[3].metadata"
	Want string
	Got  string
}

func (e *TypeError) Error() string {
	path := e.Path
	if path == "" {
		path = "document root"
	}
	return fmt.Sprintf("%s: expected %s, got %s", path, e.Want, e.Got)
}

func kindOf(r gjson.Result) string {
	switch {
	case r.IsObject():
		return "object"
	case r.IsArray():
		return "array"
	}
	switch r.Type {
	case gjson.String:
		return "string"
	case gjson.Number:
		return "number"
	case gjson.True, gjson.False:
		return "boolean"
	default:
		return "null"
	}
}
