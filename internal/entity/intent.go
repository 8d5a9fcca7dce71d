package entity

import (
	"ArdenGolang/pkg/param"
)

type IntentKind string

const (
	IntentScheduleEvent  IntentKind = "schedule-event"
	IntentCreateReminder IntentKind = "create-reminder"
	IntentStartTimer     IntentKind = "start-timer"
	IntentCreateNote     IntentKind = "create-note"
	IntentSetAlarm       IntentKind = "set-alarm"
	IntentSendMessage    IntentKind = "send-message"
	IntentComposeEmail   IntentKind = "compose-email"
	IntentPlaceCall      IntentKind = "place-call"
	IntentSetFlashlight  IntentKind = "set-flashlight"
	IntentOpenCamera     IntentKind = "open-camera"
	IntentSetVolume      IntentKind = "set-volume"
	IntentSetBrightness  IntentKind = "set-brightness"
	IntentSetWifi        IntentKind = "set-wifi"
	IntentSetBluetooth   IntentKind = "set-bluetooth"
	IntentCalculate      IntentKind = "calculate"
	IntentGetWeather     IntentKind = "get-weather"
	IntentGetDateTime    IntentKind = "get-datetime"
	IntentConvertUnits   IntentKind = "convert-units"
	IntentUnknown        IntentKind = "unknown"
)

var intentKinds = []IntentKind{
	IntentScheduleEvent,
	IntentCreateReminder,
	IntentStartTimer,
	IntentCreateNote,
	IntentSetAlarm,
	IntentSendMessage,
	IntentComposeEmail,
	IntentPlaceCall,
	IntentSetFlashlight,
	IntentOpenCamera,
	IntentSetVolume,
	IntentSetBrightness,
	IntentSetWifi,
	IntentSetBluetooth,
	IntentCalculate,
	IntentGetWeather,
	IntentGetDateTime,
	IntentConvertUnits,
	IntentUnknown,
}

// IntentKinds lists every kind in declaration order, unknown last.
func IntentKinds() []IntentKind {
	return append([]IntentKind{}, intentKinds...)
}

func ParseIntentKind(s string) (IntentKind, bool) {
	for _, k := range intentKinds {
		if string(k) == s {
			return k, true
		}
	}
	return IntentUnknown, false
}

func (k IntentKind) Valid() bool {
	_, ok := ParseIntentKind(string(k))
	return ok
}

// Decision is the interpreted form of one user turn. Treat it as immutable;
// use Clone before handing it to code that may keep it.
type Decision struct {
	Kind                    IntentKind   `json:"intent"`
	Parameters              param.Params `json:"parameters"`
	Confidence              float64      `json:"confidence"`
	NeedsConfirmation       bool         `json:"needsConfirmation"`
	NaturalLanguageResponse string       `json:"naturalLanguageResponse"`
}

func (d Decision) Clone() Decision {
	d.Parameters = d.Parameters.Clone()
	return d
}

type ExecutionResult struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    param.Params `json:"data,omitempty"`
}
