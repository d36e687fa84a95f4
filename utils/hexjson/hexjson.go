// Package hexjson decodes the scalar values found in chain specification
// documents: big unsigned integers, 20-byte addresses and hex byte strings.
//
// Every decoder takes the raw JSON value (as handed out by encoding/json or
// the strictjson object walker) and either returns the typed value or an
// error wrapping one of the package sentinels:
//   - ErrInvalidNumeric for anything that is not an unsigned 256-bit integer
//   - ErrInvalidAddress for anything that is not 40 hex digits
//   - ErrInvalidByteString for odd-length or non-hex byte strings
//   - ErrInvalidBool for non-boolean flags
package hexjson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var (
	ErrInvalidNumeric    = errors.New("invalid numeric value")
	ErrInvalidAddress    = errors.New("invalid address")
	ErrInvalidByteString = errors.New("invalid byte string")
	ErrInvalidBool       = errors.New("invalid boolean")
)

// ValueError reports a scalar that could not be decoded into the expected shape.
type ValueError struct {
	Kind     error  // one of the package sentinels
	Raw      string // the offending JSON text, as found in the document
	Expected string // human readable description of the accepted forms
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%v %s, expected %s", e.Kind, e.Raw, e.Expected)
}

// Unwrap lets errors.Is match the sentinel kind.
func (e *ValueError) Unwrap() error {
	return e.Kind
}

const (
	expectNumeric = "0x-prefixed hex or decimal unsigned integer"
	expectAddress = "string of 40 hex digits with optional 0x prefix"
	expectBytes   = "string of an even number of hex digits with optional 0x prefix"
	expectBool    = "true or false"
)

// DecodeAddress decodes a 20-byte address. The 0x prefix is optional.
func DecodeAddress(raw json.RawMessage) (common.Address, error) {
	s, ok := jsonString(raw)
	if !ok || !common.IsHexAddress(s) {
		return common.Address{}, &ValueError{ErrInvalidAddress, string(raw), expectAddress}
	}
	return common.HexToAddress(s), nil
}

// DecodeBytes decodes an arbitrary-length hex byte string. The 0x prefix is
// optional and the empty string decodes to an empty, non-nil slice.
func DecodeBytes(raw json.RawMessage) (hexutil.Bytes, error) {
	s, ok := jsonString(raw)
	if !ok {
		return nil, &ValueError{ErrInvalidByteString, string(raw), expectBytes}
	}
	b, err := hexutil.Decode("0x" + trimHexPrefix(s))
	if err != nil {
		return nil, &ValueError{ErrInvalidByteString, string(raw), expectBytes}
	}
	return b, nil
}

// DecodeBool decodes a JSON boolean literal.
func DecodeBool(raw json.RawMessage) (bool, error) {
	switch string(bytes.TrimSpace(raw)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, &ValueError{ErrInvalidBool, string(raw), expectBool}
}

// jsonString unquotes raw if it holds a JSON string.
func jsonString(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func hasHexPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

func trimHexPrefix(s string) string {
	if hasHexPrefix(s) {
		return s[2:]
	}
	return s
}

// isIntegerLiteral reports whether a JSON number literal has neither a sign,
// a fraction nor an exponent.
func isIntegerLiteral(s string) bool {
	return s != "" && !strings.ContainsAny(s, "-+.eE")
}
