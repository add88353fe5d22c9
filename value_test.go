package cart

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToFloat(t *testing.T) {
	tests := []struct {
		in   any
		want float64
		ok   bool
	}{
		{10, 10, true},
		{uint16(3), 3, true},
		{float32(1.5), 1.5, true},
		{json.Number("2.25"), 2.25, true},
		{" 7.5 ", 7.5, true},
		{"invalid", 0, false},
		{nil, 0, false},
		{true, 0, false},
		{math.NaN(), 0, false},
		{"Inf", 0, false},
	}
	for _, tt := range tests {
		got, ok := toFloat(tt.in)
		assert.Equal(t, tt.ok, ok, "%#v", tt.in)
		assert.Equal(t, tt.want, got, "%#v", tt.in)
	}
}

func TestIsEmpty(t *testing.T) {
	for _, v := range []any{nil, false, "", "0", 0, 0.0} {
		assert.True(t, isEmpty(v), "%#v", v)
	}
	for _, v := range []any{true, "a", 1, "00", []int{}} {
		assert.False(t, isEmpty(v), "%#v", v)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, int64(3), normalize(3))
	assert.Equal(t, int64(3), normalize(json.Number("3")))
	assert.Equal(t, 3.5, normalize(json.Number("3.5")))
	assert.Equal(t, 1.5, normalize(float32(1.5)))
	assert.Equal(t, map[string]any{"a": []any{int64(1), "x"}}, normalize(map[string]any{"a": []any{1, "x"}}))
	assert.NotNil(t, normalizeMap(nil))
}

func TestSameValue(t *testing.T) {
	assert.True(t, sameValue(1, int64(1)))
	assert.True(t, sameValue(Variation{"a": 1, "b": "x"}, map[string]any{"b": "x", "a": 1.0}))
	assert.True(t, sameValue(Variation{}, normalizeMap(nil)))
	assert.False(t, sameValue(1, "1"))
	assert.False(t, sameValue(Variation{"a": 1}, Variation{"a": 2}))
}
