package nlp_test

import (
	"testing"

	"ArdenGolang/internal/entity"
	"ArdenGolang/pkg/nlp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessCommand(t *testing.T) {
	p := nlp.NewProcessor()

	tests := []struct {
		name         string
		input        string
		intent       entity.IntentKind
		param        string
		want         string
		confirmation bool
	}{
		{name: "flashlight on", input: "Turn on the flashlight", intent: entity.IntentSetFlashlight, param: "state", want: "on"},
		{name: "flashlight off", input: "turn the flash off", intent: entity.IntentSetFlashlight, param: "state", want: "off"},
		{name: "time", input: "What time is it?", intent: entity.IntentGetDateTime, param: "query", want: "time"},
		{name: "date", input: "what's the date today", intent: entity.IntentGetDateTime, param: "query", want: "date"},
		{name: "message asks first", input: "send a message to Sam saying running late", intent: entity.IntentSendMessage, param: "recipient", want: "Sam", confirmation: true},
		{name: "calculate is not a call", input: "calculate five plus 3", intent: entity.IntentCalculate, param: "expression", want: "5+3"},
		{name: "spoken times", input: "what is 6 times 7", intent: entity.IntentCalculate, param: "expression", want: "6*7"},
		{name: "camera video", input: "record a video with the camera", intent: entity.IntentOpenCamera, param: "action", want: "video"},
		{name: "wifi off", input: "turn wi-fi off", intent: entity.IntentSetWifi, param: "state", want: "off"},
		{name: "brightness down", input: "dim the screen brightness", intent: entity.IntentSetBrightness, param: "change", want: "down"},
		{name: "weather location", input: "weather in Lisbon tomorrow", intent: entity.IntentGetWeather, param: "location", want: "Lisbon"},
		{name: "accents match keywords", input: "Nöte: buy milk", intent: entity.IntentCreateNote, param: "content", want: "buy milk"},
		{name: "content keeps accents", input: "Crée une note café", intent: entity.IntentCreateNote, param: "content", want: "café"},
		{name: "body keeps case", input: "text Ana saying Meet at Café Luz", intent: entity.IntentSendMessage, param: "body", want: "Meet at Café Luz", confirmation: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := p.ProcessCommand(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.intent, res.Intent)
			assert.Equal(t, tc.confirmation, res.NeedsConfirmation)
			got, ok := res.Parameters[tc.param].AsString()
			require.True(t, ok, "parameter %q missing: %v", tc.param, res.Parameters)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestProcessCommand_DecomposedAccentsKeepWords(t *testing.T) {
	res, err := nlp.NewProcessor().ProcessCommand("note cafe\u0301 au lait")
	require.NoError(t, err)
	assert.Equal(t, entity.IntentCreateNote, res.Intent)
	got, ok := res.Parameters["content"].AsString()
	require.True(t, ok)
	assert.Equal(t, "café au lait", got)
}

func TestProcessCommand_TimerDurations(t *testing.T) {
	p := nlp.NewProcessor()

	cases := map[string]int64{
		"set a timer for 5 minutes":        300,
		"set a timer for ten minutes":      600,
		"start a 90 second timer":          90,
		"timer for an hour":                3600,
		"set a timer":                      300,
		"set a timer for two minutes please": 120,
	}
	for input, want := range cases {
		res, err := p.ProcessCommand(input)
		require.NoError(t, err)
		require.Equal(t, entity.IntentStartTimer, res.Intent, input)
		got, ok := res.Parameters["duration"].AsInt()
		require.True(t, ok, input)
		assert.Equal(t, want, got, input)
		assert.GreaterOrEqual(t, res.Confidence, 0.9)
	}
}

func TestProcessCommand_Fallback(t *testing.T) {
	res, err := nlp.NewProcessor().ProcessCommand("sing me a song")
	require.NoError(t, err)
	assert.Equal(t, entity.IntentUnknown, res.Intent)
	assert.Less(t, res.Confidence, 0.7)
	assert.NotNil(t, res.Parameters)
}

func TestProcessCommand_ConvertParsesUnits(t *testing.T) {
	res, err := nlp.NewProcessor().ProcessCommand("convert 3 kilograms to pounds")
	require.NoError(t, err)
	assert.Equal(t, entity.IntentConvertUnits, res.Intent)
	v, ok := res.Parameters["value"].AsFloat()
	require.True(t, ok)
	assert.Equal(t, 3.0, v)
	from, _ := res.Parameters["from"].AsString()
	to, _ := res.Parameters["to"].AsString()
	assert.Equal(t, "kilograms", from)
	assert.Equal(t, "pounds", to)
}
