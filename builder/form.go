package builder

import (
	"math"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Form is a payload for Body. Values may be strings, numbers, booleans or
// slices of those; anything else is sent as an empty value.
type Form map[string]any

// Encode renders the form as application/x-www-form-urlencoded text.
// Keys are sorted; slice values produce one pair per element.
func (f Form) Encode() string {
	keys := make([]string, 0, len(f))
	for key := range f {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var pairs []string
	for _, key := range keys {
		name := escapeComponent(key)
		rv := reflect.ValueOf(f[key])
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
			for i := 0; i < rv.Len(); i++ {
				pairs = append(pairs, name+"="+escapeComponent(primitive(rv.Index(i))))
			}
			continue
		}
		pairs = append(pairs, name+"="+escapeComponent(primitive(rv)))
	}
	return strings.Join(pairs, "&")
}

func primitive(rv reflect.Value) string {
	if rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32:
		return formatNumber(rv.Float(), 32)
	case reflect.Float64:
		return formatNumber(rv.Float(), 64)
	default:
		return ""
	}
}

// formatNumber prints v the way a JavaScript number converts to a string:
// plain decimal between 1e-6 and 1e21, exponent form outside that range,
// and an empty value for NaN and infinities.
func formatNumber(v float64, bits int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	if abs := math.Abs(v); abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		s := strconv.FormatFloat(v, 'e', -1, bits)
		// Go pads the exponent to two digits; JavaScript does not.
		mantissa, exp, _ := strings.Cut(s, "e")
		sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
		return mantissa + "e" + sign + digits
	}
	return strconv.FormatFloat(v, 'f', -1, bits)
}

var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// escapeComponent escapes s the way browsers escape a URI component,
// which differs from url.QueryEscape in spaces and a few sub-delimiters.
func escapeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}
