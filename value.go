package cart

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/spf13/cast"
)

// toFloat accepts any finite Go number, json.Number or numeric string.
// Booleans are not numbers here.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case nil, bool:
		return 0, false
	case string:
		v = strings.TrimSpace(n)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// isEmpty mirrors the loose emptiness rule used for identifiers: nil, false,
// "", "0" and numeric zero are empty.
func isEmpty(v any) bool {
	switch n := v.(type) {
	case nil:
		return true
	case bool:
		return !n
	case string:
		return n == "" || n == "0"
	}
	if f, ok := toFloat(v); ok {
		return f == 0
	}
	return false
}

func stringOf(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	}
	return fmt.Sprint(v)
}

// normalize converts integers to int64, float32 to float64 and json.Number to
// int64 (or float64 when not integral), recursing into maps and slices, so that
// a value read back from the session has the same dynamic types as one built
// in memory.
func normalize(v any) any {
	switch n := v.(type) {
	case nil:
		return nil
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i
		}
		f, _ := n.Float64()
		return f
	case map[string]any:
		return normalizeMap(n)
	case Options:
		return normalizeMap(n)
	case Variation:
		return normalizeMap(n)
	case []any:
		out := make([]any, len(n))
		for i, e := range n {
			out[i] = normalize(e)
		}
		return out
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if u := rv.Uint(); u <= math.MaxInt64 {
			return int64(u)
		}
		return rv.Uint()
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	}
	return v
}

// normalizeMap never returns nil.
func normalizeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalize(v)
	}
	return out
}

// sameValue compares two values by their canonical JSON encoding, which sorts
// map keys and erases Go numeric kinds.
func sameValue(a, b any) bool {
	ja, errA := json.Marshal(a)
	jb, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return reflect.DeepEqual(a, b)
	}
	return bytes.Equal(ja, jb)
}
