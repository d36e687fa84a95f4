package aura

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/rony4d/go-opera-aura/utils/hexjson"
	"github.com/rony4d/go-opera-aura/utils/strictjson"
)

// Decode failure classes. Every error returned by Parse matches exactly one of
// them through errors.Is.
var (
	ErrMissingField         = errors.New("missing field")
	ErrUnknownField         = strictjson.ErrUnknownField
	ErrDuplicateKey         = strictjson.ErrDuplicateKey
	ErrInvalidType          = strictjson.ErrInvalidType
	ErrMalformed            = strictjson.ErrMalformed
	ErrInvalidNumeric       = hexjson.ErrInvalidNumeric
	ErrInvalidAddress       = hexjson.ErrInvalidAddress
	ErrInvalidByteString    = hexjson.ErrInvalidByteString
	ErrInvalidBool          = hexjson.ErrInvalidBool
	ErrAmbiguousVariant     = errors.New("ambiguous variant")
	ErrNoMatchingVariant    = errors.New("no matching variant")
	ErrDuplicateScheduleKey = errors.New("duplicate schedule key")
)

// DecodeError locates a decode failure inside the document.
type DecodeError struct {
	// Path is the dotted JSON path of the offending value, e.g.
	// "params.validators.list[1]". Empty for the document itself.
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return "aura: " + e.Err.Error()
	}
	return "aura: " + e.Path + ": " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// at prefixes the path of err with segment, creating the DecodeError on first use.
func at(segment string, err error) error {
	if err == nil {
		return nil
	}
	var de *DecodeError
	if errors.As(err, &de) {
		de.Path = joinPath(segment, de.Path)
		return de
	}
	return &DecodeError{Path: segment, Err: err}
}

func joinPath(parent, child string) string {
	switch {
	case parent == "":
		return child
	case child == "":
		return parent
	case strings.HasPrefix(child, "["):
		return parent + child
	}
	return parent + "." + child
}

func missingField(typeName, field string) error {
	return errors.Wrapf(ErrMissingField, "%s.%s", typeName, field)
}
