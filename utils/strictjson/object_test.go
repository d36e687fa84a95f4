package strictjson

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// TestParseAndTake walks a small object and checks the bookkeeping of consumed keys.
func TestParseAndTake(t *testing.T) {
	require := require.New(t)

	obj, err := Parse([]byte(`{"b": 1, "a": {"x": [1, 2]}, "c": null}`), "Thing")
	require.NoError(err)
	require.Equal("Thing", obj.TypeName())
	require.Equal(3, obj.Len())
	require.Equal([]string{"b", "a", "c"}, obj.Keys())

	raw, ok := obj.Take("a")
	require.True(ok)
	require.JSONEq(`{"x": [1, 2]}`, string(raw))

	// Explicit null is present for Has but absent for TakeOptional.
	require.True(obj.Has("c"))
	_, ok = obj.TakeOptional("c")
	require.False(ok)

	// Lookups are exact: no case folding.
	_, ok = obj.Take("B")
	require.False(ok)

	require.Equal([]string{"b"}, obj.Unknown())
	err = obj.Finish()
	require.True(errors.Is(err, ErrUnknownField))
	require.Contains(err.Error(), "Thing.b")

	_, ok = obj.Take("b")
	require.True(ok)
	require.NoError(obj.Finish())
}

// TestTakeAll consumes map-like objects in document order.
func TestTakeAll(t *testing.T) {
	require := require.New(t)

	obj, err := Parse([]byte(`{"100": 1, "0": 2}`), "Schedule")
	require.NoError(err)
	entries := obj.TakeAll()
	require.Equal([]Entry{
		{Key: "100", Value: json.RawMessage(`1`)},
		{Key: "0", Value: json.RawMessage(`2`)},
	}, entries)
	require.NoError(obj.Finish())
}

// TestParseErrors covers each failure class of Parse.
func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"empty", ``, ErrMalformed},
		{"array", `[1]`, ErrInvalidType},
		{"string", `"x"`, ErrInvalidType},
		{"null", `null`, ErrInvalidType},
		{"number", `12`, ErrInvalidType},
		{"unterminated", `{"a": 1`, ErrMalformed},
		{"bad value", `{"a": tru}`, ErrMalformed},
		{"trailing", `{"a": 1} {}`, ErrMalformed},
		{"duplicate", `{"a": 1, "a": 2}`, ErrDuplicateKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw), "Thing")
			require.Error(t, err)
			require.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

// TestArray splits arrays and rejects other shapes.
func TestArray(t *testing.T) {
	require := require.New(t)

	items, err := Array(json.RawMessage(`["a", 2, {"b": 3}]`), "List")
	require.NoError(err)
	require.Len(items, 3)
	require.Equal(`"a"`, string(items[0]))

	items, err = Array(json.RawMessage(`[]`), "List")
	require.NoError(err)
	require.Empty(items)

	_, err = Array(json.RawMessage(`{"a": 1}`), "List")
	require.True(errors.Is(err, ErrInvalidType))
}
