package nlp

import (
	"fmt"
	"strings"

	"ArdenGolang/internal/entity"
	"ArdenGolang/pkg/param"
)

func (nlp *NLPProcessor) defaultRules() []rule {
	return []rule{
		{name: "timer", match: func(u utterance) bool { return u.hasPrefix("timer") }, build: nlp.timer},
		{name: "flashlight", match: func(u utterance) bool { return u.hasPrefix("flash", "torch") }, build: flashlight},
		{name: "timezone", match: func(u utterance) bool { return u.hasPrefix("timezone") || u.has("zone") && u.has("time") }, build: dateTime("timezone", "Let me check your timezone.")},
		{name: "time", match: func(u utterance) bool { return u.has("time") }, build: dateTime("time", "Let me tell you the current time.")},
		{name: "date", match: func(u utterance) bool { return u.has("date") }, build: dateTime("date", "Let me tell you today's date.")},
		{name: "day", match: func(u utterance) bool { return u.has("day") && u.has("what", "which") }, build: dateTime("day", "Let me tell you what day it is.")},
		{name: "reminder", match: func(u utterance) bool { return u.hasPrefix("remind") }, build: reminder},
		{name: "calendar", match: func(u utterance) bool { return u.hasPrefix("calendar", "event", "meeting", "schedul") }, build: nlp.calendar},
		{name: "note", match: func(u utterance) bool { return u.has("note", "notes", "jot") }, build: note},
		{name: "alarm", match: func(u utterance) bool { return u.hasPrefix("alarm") || u.has("wake") }, build: alarm},
		{name: "message", match: func(u utterance) bool { return u.hasPrefix("message", "text", "sms") }, build: message},
		{name: "email", match: func(u utterance) bool { return u.hasPrefix("email", "mail") }, build: email},
		{name: "call", match: func(u utterance) bool { return u.hasPrefix("call", "dial", "phone", "facetime") }, build: call},
		{name: "camera", match: func(u utterance) bool { return u.hasPrefix("camera", "photo", "picture", "selfie") }, build: camera},
		{name: "brightness", match: func(u utterance) bool { return u.hasPrefix("bright", "dim") }, build: nlp.level(entity.IntentSetBrightness, "brightness")},
		{name: "volume", match: func(u utterance) bool { return u.hasPrefix("volume", "louder", "quieter") }, build: nlp.level(entity.IntentSetVolume, "volume")},
		{name: "wifi", match: func(u utterance) bool { return u.has("wifi") || strings.Contains(u.clean, "wi fi") }, build: radio(entity.IntentSetWifi, "Wi-Fi")},
		{name: "bluetooth", match: func(u utterance) bool { return u.hasPrefix("bluetooth") }, build: radio(entity.IntentSetBluetooth, "Bluetooth")},
		{name: "calculate", match: func(u utterance) bool {
			return u.hasPrefix("calculat", "comput") || u.has("plus", "minus", "times", "divided", "multiplied")
		}, build: nlp.calculate},
		{name: "weather", match: func(u utterance) bool { return u.hasPrefix("weather", "forecast") }, build: weather},
		{name: "convert", match: func(u utterance) bool { return u.hasPrefix("convert") }, build: nlp.convert},
	}
}

func (nlp *NLPProcessor) timer(u utterance) *IntentResult {
	seconds := int64(0)
	switch {
	case u.hasPrefix("hour"):
		n, ok := nlp.numbers.NumberBefore(u.tokens, "hour")
		if !ok {
			n = 1
		}
		seconds = int64(n * 3600)
	case u.hasPrefix("second") && !u.hasPrefix("minute"):
		n, ok := nlp.numbers.NumberBefore(u.tokens, "second")
		if !ok {
			n, ok = nlp.numbers.FirstNumber(u.tokens)
		}
		if !ok {
			n = 30
		}
		seconds = int64(n)
	default:
		n, ok := nlp.numbers.NumberBefore(u.tokens, "minute")
		if !ok {
			n, ok = nlp.numbers.FirstNumber(u.tokens)
		}
		if !ok {
			n = 5
		}
		seconds = int64(n * 60)
	}

	return &IntentResult{
		Intent: entity.IntentStartTimer,
		Parameters: param.Params{
			"duration": param.Int(seconds),
			"label":    optionalString(u.after("called", "named", "labeled")),
		},
		Confidence: 0.95,
		Response:   fmt.Sprintf("Starting a %s timer.", spokenDuration(seconds)),
	}
}

func spokenDuration(seconds int64) string {
	switch {
	case seconds >= 3600 && seconds%3600 == 0:
		return fmt.Sprintf("%d-hour", seconds/3600)
	case seconds >= 60 && seconds%60 == 0:
		return fmt.Sprintf("%d-minute", seconds/60)
	default:
		return fmt.Sprintf("%d-second", seconds)
	}
}

func flashlight(u utterance) *IntentResult {
	state := "on"
	switch {
	case u.has("off"):
		state = "off"
	case u.has("toggle", "switch") && !u.has("on"):
		state = "toggle"
	}
	response := fmt.Sprintf("Turning %s the flashlight.", state)
	if state == "toggle" {
		response = "Toggling the flashlight."
	}
	return &IntentResult{
		Intent:     entity.IntentSetFlashlight,
		Parameters: param.Params{"state": param.String(state)},
		Confidence: 0.99,
		Response:   response,
	}
}

func dateTime(query, response string) func(u utterance) *IntentResult {
	return func(u utterance) *IntentResult {
		return &IntentResult{
			Intent:     entity.IntentGetDateTime,
			Parameters: param.Params{"query": param.String(query)},
			Confidence: 0.95,
			Response:   response,
		}
	}
}

func reminder(u utterance) *IntentResult {
	title := capitalize(u.after("to", "about"))
	if title == "" {
		title = "Task"
	}
	priority := "medium"
	if u.has("urgent", "important", "asap") {
		priority = "high"
	}
	return &IntentResult{
		Intent: entity.IntentCreateReminder,
		Parameters: param.Params{
			"title":    param.String(title),
			"date":     param.Null(),
			"priority": param.String(priority),
		},
		Confidence: 0.85,
		Response:   "I'll create a reminder for you.",
	}
}

func (nlp *NLPProcessor) calendar(u utterance) *IntentResult {
	title := capitalize(u.after("called", "titled", "named"))
	if title == "" {
		title = "Event"
	}
	duration := int64(60)
	if n, ok := nlp.numbers.NumberBefore(u.tokens, "minute"); ok {
		duration = int64(n)
	} else if n, ok := nlp.numbers.NumberBefore(u.tokens, "hour"); ok {
		duration = int64(n * 60)
	}
	return &IntentResult{
		Intent: entity.IntentScheduleEvent,
		Parameters: param.Params{
			"title":    param.String(title),
			"date":     param.Null(),
			"duration": param.Int(duration),
			"location": optionalString(u.wordAfter("at")),
		},
		Confidence: 0.85,
		Response:   "I'll create a calendar event.",
	}
}

func note(u utterance) *IntentResult {
	content := u.after("saying", "that", "note")
	title := content
	if words := strings.Fields(title); len(words) > 5 {
		title = strings.Join(words[:5], " ")
	}
	if title == "" {
		title = "Note"
	}
	return &IntentResult{
		Intent: entity.IntentCreateNote,
		Parameters: param.Params{
			"title":   param.String(capitalize(title)),
			"content": optionalString(content),
		},
		Confidence: 0.85,
		Response:   "I'll save that note.",
	}
}

func alarm(u utterance) *IntentResult {
	when := u.after("for", "at")
	if when == "" {
		return &IntentResult{
			Intent:     entity.IntentSetAlarm,
			Parameters: param.Params{},
			Confidence: 0.5,
			Response:   "What time should I set the alarm for?",
		}
	}
	return &IntentResult{
		Intent: entity.IntentSetAlarm,
		Parameters: param.Params{
			"time":      param.String(when),
			"label":     param.Null(),
			"recurring": param.Bool(u.has("every", "daily", "weekdays")),
		},
		Confidence: 0.85,
		Response:   fmt.Sprintf("Setting an alarm for %s.", when),
	}
}

func message(u utterance) *IntentResult {
	recipient := u.wordAfter("to")
	if recipient == "" {
		recipient = "contact"
	}
	body := u.after("saying", "that")
	if body == "" {
		body = "message text"
	}
	return &IntentResult{
		Intent: entity.IntentSendMessage,
		Parameters: param.Params{
			"recipient": param.String(recipient),
			"body":      param.String(body),
		},
		Confidence:        0.85,
		NeedsConfirmation: true,
		Response:          fmt.Sprintf("I'll send that message to %s.", recipient),
	}
}

func email(u utterance) *IntentResult {
	recipient := u.wordAfter("to")
	if recipient == "" {
		recipient = "contact"
	}
	subject := capitalize(u.after("about", "regarding"))
	if subject == "" {
		subject = "Subject"
	}
	return &IntentResult{
		Intent: entity.IntentComposeEmail,
		Parameters: param.Params{
			"recipient": param.String(recipient),
			"subject":   param.String(subject),
			"body":      param.String("Body"),
		},
		Confidence:        0.85,
		NeedsConfirmation: true,
		Response:          fmt.Sprintf("I'll compose that email to %s.", recipient),
	}
}

func call(u utterance) *IntentResult {
	recipient := u.wordAfter("call", "dial", "phone", "facetime")
	if r := strings.ToLower(recipient); r == "" || r == "me" || r == "a" {
		recipient = "contact"
	}
	return &IntentResult{
		Intent: entity.IntentPlaceCall,
		Parameters: param.Params{
			"recipient": param.String(recipient),
			"video":     param.Bool(u.has("video", "facetime")),
		},
		Confidence:        0.90,
		NeedsConfirmation: true,
		Response:          fmt.Sprintf("I'll call %s.", recipient),
	}
}

func camera(u utterance) *IntentResult {
	action := "open"
	switch {
	case u.has("video", "record"):
		action = "video"
	case u.hasPrefix("photo", "picture", "selfie"):
		action = "photo"
	}
	return &IntentResult{
		Intent:     entity.IntentOpenCamera,
		Parameters: param.Params{"action": param.String(action)},
		Confidence: 0.95,
		Response:   "Opening the camera.",
	}
}

func (nlp *NLPProcessor) level(kind entity.IntentKind, noun string) func(u utterance) *IntentResult {
	return func(u utterance) *IntentResult {
		params := param.Params{}
		if lvl, ok := nlp.numbers.Level(u.tokens); ok {
			params["level"] = param.Int(lvl)
		} else {
			change := "up"
			if u.has("decrease", "down", "lower", "reduce") || u.hasPrefix("dim", "quieter") {
				change = "down"
			}
			params["change"] = param.String(change)
		}
		return &IntentResult{
			Intent:     kind,
			Parameters: params,
			Confidence: 0.90,
			Response:   fmt.Sprintf("Adjusting %s.", noun),
		}
	}
}

func radio(kind entity.IntentKind, noun string) func(u utterance) *IntentResult {
	return func(u utterance) *IntentResult {
		state := "toggle"
		switch {
		case u.has("off", "disable", "disconnect"):
			state = "off"
		case u.has("on", "enable", "connect"):
			state = "on"
		}
		return &IntentResult{
			Intent:     kind,
			Parameters: param.Params{"state": param.String(state)},
			Confidence: 0.90,
			Response:   fmt.Sprintf("Switching %s %s.", noun, state),
		}
	}
}

func (nlp *NLPProcessor) calculate(u utterance) *IntentResult {
	expression := nlp.numbers.Expression(u.tokens, u.raw)
	if expression == "" {
		return &IntentResult{
			Intent:     entity.IntentCalculate,
			Parameters: param.Params{},
			Confidence: 0.5,
			Response:   "What would you like me to calculate?",
		}
	}
	return &IntentResult{
		Intent:     entity.IntentCalculate,
		Parameters: param.Params{"expression": param.String(expression)},
		Confidence: 0.80,
		Response:   "Let me calculate that.",
	}
}

func weather(u utterance) *IntentResult {
	when := "now"
	switch {
	case u.has("tomorrow"):
		when = "tomorrow"
	case u.has("today"):
		when = "today"
	}
	location := u.between("in", "today", "tomorrow", "now")
	return &IntentResult{
		Intent: entity.IntentGetWeather,
		Parameters: param.Params{
			"location": optionalString(location),
			"when":     param.String(when),
		},
		Confidence: 0.90,
		Response:   "Let me check the weather.",
	}
}

func (nlp *NLPProcessor) convert(u utterance) *IntentResult {
	value, from, to := 100.0, "miles", "kilometers"

	rest := u.tokensAfter("convert")
	if len(rest) >= 2 {
		if n, ok := nlp.numbers.Number(rest[0], true); ok {
			value = n
			from = rest[1]
			for i := 2; i+1 < len(rest); i++ {
				if rest[i] == "to" || rest[i] == "into" || rest[i] == "in" {
					to = rest[i+1]
					break
				}
			}
		}
	}

	return &IntentResult{
		Intent: entity.IntentConvertUnits,
		Parameters: param.Params{
			"value": param.Float(value),
			"from":  param.String(from),
			"to":    param.String(to),
		},
		Confidence: 0.75,
		Response:   "Converting units.",
	}
}
