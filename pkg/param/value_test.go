package param_test

import (
	"math"
	"testing"

	"ArdenGolang/pkg/param"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_DecodeDistinguishesIntAndFloat(t *testing.T) {
	var v param.Value
	require.NoError(t, v.UnmarshalJSON([]byte(`300`)))
	assert.Equal(t, param.KindInt, v.Kind())

	require.NoError(t, v.UnmarshalJSON([]byte(`0.5`)))
	assert.Equal(t, param.KindFloat, v.Kind())

	require.NoError(t, v.UnmarshalJSON([]byte(`1.0`)))
	f, ok := v.AsFloat()
	require.True(t, ok)
	assert.Equal(t, 1.0, f)
}

func TestValue_FloatKeepsTagWhenWhole(t *testing.T) {
	b, err := param.Float(100).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "100.0", string(b))

	var back param.Value
	require.NoError(t, back.UnmarshalJSON(b))
	assert.True(t, back.Equal(param.Float(100)))
}

func TestValue_NonFiniteFloatRejected(t *testing.T) {
	_, err := param.Float(math.Inf(1)).MarshalJSON()
	assert.ErrorIs(t, err, param.ErrNotFinite)
}

func TestValue_NestedRoundTrip(t *testing.T) {
	in := param.Map(map[string]param.Value{
		"label":     param.Null(),
		"recurring": param.Bool(true),
		"tags":      param.List(param.String("a"), param.Int(2), param.Float(2.5)),
		"meta": param.Map(map[string]param.Value{
			"quote": param.String(`say "hi"`),
		}),
	})

	b, err := in.MarshalJSON()
	require.NoError(t, err)

	var out param.Value
	require.NoError(t, out.UnmarshalJSON(b))
	assert.True(t, in.Equal(out), "got %s", out)
}

func TestValue_TypedAccessorsRejectOtherTags(t *testing.T) {
	v := param.String("on")
	_, ok := v.AsInt()
	assert.False(t, ok)
	_, ok = v.AsBool()
	assert.False(t, ok)
	s, ok := v.AsString()
	assert.True(t, ok)
	assert.Equal(t, "on", s)

	n, ok := param.Int(7).AsNumber()
	assert.True(t, ok)
	assert.Equal(t, 7.0, n)
}

func TestDecodeParams(t *testing.T) {
	p, err := param.DecodeParams([]byte(`{"duration":300,"label":null}`))
	require.NoError(t, err)
	d, ok := p["duration"].AsInt()
	require.True(t, ok)
	assert.EqualValues(t, 300, d)
	assert.True(t, p["label"].IsNull())

	_, err = param.DecodeParams([]byte(`null`))
	assert.Error(t, err)
	_, err = param.DecodeParams([]byte(`[1,2]`))
	assert.Error(t, err)
}

func TestParams_CloneIsDeep(t *testing.T) {
	orig := param.Params{"list": param.List(param.Int(1))}
	cp := orig.Clone()
	assert.True(t, orig.Equal(cp))

	cp["list"] = param.List(param.Int(2))
	l, _ := orig["list"].AsList()
	v, _ := l[0].AsInt()
	assert.EqualValues(t, 1, v)
}
