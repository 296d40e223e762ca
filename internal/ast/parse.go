package ast

import (
	"encoding/json"
	"errors"
	"io"

	cflaterrors "cflatlower/internal/errors"
)

// Parse decodes a Cflat program from its JSON wire format. A malformed byte
// stream (bad JSON syntax, a field of the wrong JSON type, a truncated
// file) is reported as InvalidInput; a well-formed JSON document that does
// not match the AST's tagged-union shape (an unrecognized tag, a missing
// payload) is reported as MalformedAST.
func Parse(r io.Reader) (*Program, error) {
	dec := json.NewDecoder(r)
	var prog Program
	if err := dec.Decode(&prog); err != nil {
		var syn *json.SyntaxError
		var typ *json.UnmarshalTypeError
		if errors.As(err, &syn) || errors.As(err, &typ) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, cflaterrors.New(cflaterrors.InvalidInput, "malformed JSON: %s", err)
		}
		return nil, cflaterrors.New(cflaterrors.MalformedAST, "%s", err)
	}
	return &prog, nil
}
