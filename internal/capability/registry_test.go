package capability_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"ArdenGolang/internal/capability"
	"ArdenGolang/internal/entity"
	"ArdenGolang/pkg/param"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry() *capability.Registry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return capability.NewRegistry(log)
}

func TestRegister_RejectsUnknownAndInvalidKinds(t *testing.T) {
	r := newRegistry()
	noop := capability.HandlerFunc(func(context.Context, param.Params) (entity.ExecutionResult, error) {
		return entity.ExecutionResult{Success: true}, nil
	})

	assert.Error(t, r.Register(entity.IntentUnknown, noop))
	assert.Error(t, r.Register("launch-rocket", noop))
	assert.Error(t, r.Register(entity.IntentCalculate, nil))
	require.NoError(t, r.Register(entity.IntentCalculate, noop))
	assert.Equal(t, []entity.IntentKind{entity.IntentCalculate}, r.Kinds())
}

func TestDispatch_UnknownBypassesRegistry(t *testing.T) {
	res, err := newRegistry().Dispatch(context.Background(), entity.Decision{Kind: entity.IntentUnknown})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, capability.UnknownMessage, res.Message)
}

func TestDispatch_MissingHandler(t *testing.T) {
	_, err := newRegistry().Dispatch(context.Background(), entity.Decision{Kind: entity.IntentGetWeather})

	var ce *capability.Error
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, capability.KindExecutionFailed, ce.Kind)
	assert.Equal(t, "no handler registered for get-weather", ce.Error())
}

func TestDispatch_HandlerErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		kind    capability.ErrorKind
		message string
	}{
		{"missing parameter", capability.MissingParameter("recipient"), capability.KindMissingParameter, "Missing required parameter: recipient"},
		{"permission denied", capability.PermissionDenied("contacts access"), capability.KindPermissionDenied, "Permission denied: contacts access"},
		{"plain error", errors.New("device busy"), capability.KindExecutionFailed, "device busy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRegistry()
			require.NoError(t, r.Register(entity.IntentPlaceCall, capability.HandlerFunc(
				func(context.Context, param.Params) (entity.ExecutionResult, error) {
					return entity.ExecutionResult{}, tt.err
				})))

			_, err := r.Dispatch(context.Background(), entity.Decision{Kind: entity.IntentPlaceCall})
			var ce *capability.Error
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.kind, ce.Kind)
			assert.Equal(t, tt.message, ce.Error())
		})
	}
}

func TestDispatch_RecoversPanics(t *testing.T) {
	r := newRegistry()
	require.NoError(t, r.Register(entity.IntentCreateNote, capability.HandlerFunc(
		func(context.Context, param.Params) (entity.ExecutionResult, error) {
			panic("boom")
		})))

	_, err := r.Dispatch(context.Background(), entity.Decision{Kind: entity.IntentCreateNote})
	var ce *capability.Error
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, capability.KindExecutionFailed, ce.Kind)
}

func TestDispatch_HandlerGetsCopyOfParameters(t *testing.T) {
	r := newRegistry()
	require.NoError(t, r.Register(entity.IntentCreateNote, capability.HandlerFunc(
		func(_ context.Context, p param.Params) (entity.ExecutionResult, error) {
			p["title"] = param.String("changed")
			return entity.ExecutionResult{Success: true, Message: "ok"}, nil
		})))

	d := entity.Decision{Kind: entity.IntentCreateNote, Parameters: param.Params{"title": param.String("groceries")}}
	res, err := r.Dispatch(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Message)
	assert.True(t, d.Parameters["title"].Equal(param.String("groceries")))
}

func TestParamHelpers(t *testing.T) {
	p := param.Params{
		"name":   param.String("Sam"),
		"blank":  param.String("  "),
		"count":  param.Float(3),
		"ratio":  param.Float(0.5),
		"wanted": param.Bool(true),
	}

	s, err := capability.String(p, "name")
	require.NoError(t, err)
	assert.Equal(t, "Sam", s)

	_, err = capability.String(p, "blank")
	assert.EqualError(t, err, "Missing required parameter: blank")

	n, err := capability.Int(p, "count")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	_, err = capability.Int(p, "ratio")
	assert.Error(t, err)

	f, err := capability.Number(p, "ratio")
	require.NoError(t, err)
	assert.Equal(t, 0.5, f)

	b, ok := capability.OptionalBool(p, "wanted")
	assert.True(t, ok)
	assert.True(t, b)
}
