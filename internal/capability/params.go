package capability

import (
	"math"
	"strings"

	"ArdenGolang/pkg/param"
)

// String returns a non-empty string parameter or MissingParameter.
func String(p param.Params, name string) (string, error) {
	s, ok := p[name].AsString()
	if !ok || strings.TrimSpace(s) == "" {
		return "", MissingParameter(name)
	}
	return s, nil
}

func OptionalString(p param.Params, name string) (string, bool) {
	s, ok := p[name].AsString()
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// Int accepts integers and integral floats.
func Int(p param.Params, name string) (int64, error) {
	v, ok := OptionalInt(p, name)
	if !ok {
		return 0, MissingParameter(name)
	}
	return v, nil
}

func OptionalInt(p param.Params, name string) (int64, bool) {
	v := p[name]
	if i, ok := v.AsInt(); ok {
		return i, true
	}
	if f, ok := v.AsFloat(); ok && f == math.Trunc(f) && math.Abs(f) < math.MaxInt64 {
		return int64(f), true
	}
	return 0, false
}

func Number(p param.Params, name string) (float64, error) {
	f, ok := p[name].AsNumber()
	if !ok {
		return 0, MissingParameter(name)
	}
	return f, nil
}

func OptionalBool(p param.Params, name string) (bool, bool) {
	return p[name].AsBool()
}
