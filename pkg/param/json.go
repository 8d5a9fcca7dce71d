package param

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// numberAPI keeps numeric literals as json.Number so that 300 decodes as an
// int and 0.5 or 1.0 as a float.
var numberAPI = jsoniter.Config{
	UseNumber:              true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()

var ErrNotFinite = errors.New("param: non-finite float cannot be encoded")

func asNumber(in any) (Value, bool) {
	n, ok := in.(json.Number)
	if !ok {
		return Value{}, false
	}
	lit := n.String()
	if !strings.ContainsAny(lit, ".eE") {
		if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
			return Int(i), true
		}
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return Value{}, false
	}
	return Float(f), true
}

func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindInt:
		buf.WriteString(strconv.FormatInt(v.i, 10))
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return ErrNotFinite
		}
		lit := strconv.FormatFloat(v.f, 'g', -1, 64)
		if !strings.ContainsAny(lit, ".eE") {
			// keep the float tag across a round trip
			lit += ".0"
		}
		buf.WriteString(lit)
	case KindString:
		b, err := numberAPI.Marshal(v.s)
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindList:
		buf.WriteByte('[')
		for i, e := range v.list {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := e.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMap:
		buf.WriteByte('{')
		for i, k := range v.sortedKeys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := numberAPI.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			if err := v.m[k].encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("param: invalid kind %d", v.kind)
	}
	return nil
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := numberAPI.Unmarshal(data, &raw); err != nil {
		return err
	}
	decoded, err := FromInterface(raw)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

// DecodeParams decodes a JSON object into a parameter mapping. A JSON null or
// any non-object payload is rejected.
func DecodeParams(data []byte) (Params, error) {
	var v Value
	if err := v.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	m, ok := v.AsMap()
	if !ok {
		return nil, fmt.Errorf("param: expected object, got %s", v.Kind())
	}
	return Params(m), nil
}

func (p Params) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	return Map(p).MarshalJSON()
}
