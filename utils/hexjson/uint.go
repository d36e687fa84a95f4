package hexjson

import (
	"bytes"
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"
)

// Uint is an unsigned integer of up to 256 bits as written in chain
// specifications. The textual form it was decoded from is not kept.
//
// Uint is a plain value: copies are independent and == compares numerically,
// so it can be used directly as a map key.
type Uint struct {
	v uint256.Int
}

// NewUint returns the Uint holding x.
func NewUint(x uint64) Uint {
	return Uint{v: *uint256.NewInt(x)}
}

// ParseUint parses a 0x/0X-prefixed hex string or a decimal string.
// Signs, empty digit sequences and values wider than 256 bits are rejected.
func ParseUint(s string) (Uint, error) {
	digits := trimHexPrefix(s)
	if digits == "" || digits[0] == '+' || digits[0] == '-' {
		return Uint{}, &ValueError{ErrInvalidNumeric, s, expectNumeric}
	}
	b, ok := math.ParseBig256(s)
	if !ok || b.Sign() < 0 {
		return Uint{}, &ValueError{ErrInvalidNumeric, s, expectNumeric}
	}
	v, overflow := uint256.FromBig(b)
	if overflow {
		return Uint{}, &ValueError{ErrInvalidNumeric, s, expectNumeric}
	}
	return Uint{v: *v}, nil
}

// DecodeUint decodes a JSON string (hex or decimal) or a bare JSON integer.
// Negative, fractional and exponent-form numbers are rejected.
func DecodeUint(raw json.RawMessage) (Uint, error) {
	raw = bytes.TrimSpace(raw)
	if s, ok := jsonString(raw); ok {
		return ParseUint(s)
	}
	if lit := string(raw); isIntegerLiteral(lit) && lit[0] >= '0' && lit[0] <= '9' {
		return ParseUint(lit)
	}
	return Uint{}, &ValueError{ErrInvalidNumeric, string(raw), expectNumeric}
}

// Cmp compares u and x and returns -1, 0 or +1.
func (u Uint) Cmp(x Uint) int {
	return u.v.Cmp(&x.v)
}

// IsZero reports whether u == 0.
func (u Uint) IsZero() bool {
	return u.v.IsZero()
}

// Uint64 returns the low 64 bits of u and whether u fits into them.
func (u Uint) Uint64() (uint64, bool) {
	return u.v.Uint64(), u.v.IsUint64()
}

// Int returns a copy of the underlying 256-bit integer.
func (u Uint) Int() *uint256.Int {
	v := u.v
	return &v
}

// Big returns u as a freshly allocated big.Int.
func (u Uint) Big() *big.Int {
	return u.v.ToBig()
}

// String returns the decimal representation.
func (u Uint) String() string {
	return u.v.ToBig().String()
}

// Hex returns the 0x-prefixed hex representation.
func (u Uint) Hex() string {
	return u.v.Hex()
}

// UnmarshalJSON implements json.Unmarshaler with the same rules as DecodeUint.
func (u *Uint) UnmarshalJSON(input []byte) error {
	v, err := DecodeUint(input)
	if err != nil {
		return err
	}
	*u = v
	return nil
}

// MarshalText renders the value as 0x-prefixed hex.
func (u Uint) MarshalText() ([]byte, error) {
	return []byte(u.Hex()), nil
}
