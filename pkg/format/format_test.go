package format

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/okuzmin/go-twitter-api-wrapper/pkg/errors"
)

func TestJSONExtension(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "json", JSON{}.Extension())
}

func TestJSONDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want any
	}{
		{"empty is keep-alive", "", nil},
		{"whitespace is keep-alive", "  \t ", nil},
		{"object", `{"a": 1}`, map[string]any{"a": float64(1)}},
		{"array", `[1, 2]`, []any{float64(1), float64(2)}},
		{"unicode string", `"привет"`, "привет"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := JSON{}.Decode(tt.raw)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Decode(%q) mismatch (-want +got):\n%s", tt.raw, diff)
			}
		})
	}
}

func TestJSONDecodeInvalid(t *testing.T) {
	t.Parallel()

	_, err := JSON{}.Decode("{not json")
	var de *apierrors.DecodeError
	require.ErrorAs(t, err, &de)
}

func TestFormExtension(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "", Form{}.Extension())
}

func TestFormDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want map[string]string
	}{
		{"empty is empty map not nil", "", map[string]string{}},
		{"whitespace is empty map", "  ", map[string]string{}},
		{"plain pairs", "a=123&b=456", map[string]string{"a": "123", "b": "456"}},
		{"blank value kept", "a=", map[string]string{"a": ""}},
		{"percent decoded", "a=%25&b=%20%30&c=%D0%BF%D1%80%D0%B8%D0%B2%D0%B5%D1%82",
			map[string]string{"a": "%", "b": " 0", "c": "привет"}},
		{"plus decodes to space", "a=1+2", map[string]string{"a": "1 2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Form{}.Decode(tt.raw)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got.(map[string]string)); diff != "" {
				t.Errorf("Decode(%q) mismatch (-want +got):\n%s", tt.raw, diff)
			}
		})
	}
}

func TestFormDecodeMalformed(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"novaluepair", "a=1&novaluepair", "=1", "a=%zz"} {
		_, err := Form{}.Decode(raw)
		var de *apierrors.DecodeError
		assert.ErrorAs(t, err, &de, "input %q", raw)
	}
}

func TestExternalRequiresCallback(t *testing.T) {
	t.Parallel()

	_, err := NewExternal(nil)
	require.Error(t, err)
}

func TestExternalDecode(t *testing.T) {
	t.Parallel()

	calls := 0
	f, err := NewExternal(func(raw string) (any, error) {
		calls++
		return []int{1, 2, 3}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "", f.Extension())

	// Empty input short-circuits without invoking the callback.
	got, err := f.Decode("   ")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 0, calls)

	got, err = f.Decode("the callback ignores its input")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)
	assert.Equal(t, 1, calls)
}

func TestExternalPropagatesCallbackError(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("boom")
	f, err := NewExternal(func(raw string) (any, error) {
		return nil, sentinel
	})
	require.NoError(t, err)

	_, err = f.Decode("anything")
	assert.ErrorIs(t, err, sentinel)
}

func TestExternalWithExtension(t *testing.T) {
	t.Parallel()

	f, err := NewExternalWithExtension(func(raw string) (any, error) { return raw, nil }, "atom")
	require.NoError(t, err)
	assert.Equal(t, "atom", f.Extension())
}
