package interpreter

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"ArdenGolang/internal/entity"
	"ArdenGolang/pkg/param"

	jsoniter "github.com/json-iterator/go"
)

type ParseReason string

const (
	ReasonMalformedJSON    ParseReason = "malformed JSON"
	ReasonMissingField     ParseReason = "missing field"
	ReasonShapeMismatch    ParseReason = "shape mismatch"
	ReasonUnrecognizedKind ParseReason = "unrecognized intent"
)

type ParseError struct {
	Reason ParseReason
	Field  string
	Err    error
}

func (e *ParseError) Error() string {
	msg := "could not understand the response: " + string(e.Reason)
	if e.Field != "" {
		msg += " (" + e.Field + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsUnrecognizedKind reports whether err is a ParseError for an intent string
// outside the known set.
func IsUnrecognizedKind(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe) && pe.Reason == ReasonUnrecognizedKind
}

var requiredFields = []string{"intent", "parameters", "confidence", "needsConfirmation", "naturalLanguageResponse"}

var strictAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// ExtractJSON returns the text between the first '{' and the last '}'. Without
// such a pair the whole text is returned and decoding fails later.
func ExtractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return text
	}
	return text[start : end+1]
}

// Parse decodes generator output into a Decision. For an unrecognized intent
// string it returns an unknown decision with zero confidence together with the
// ParseError, so callers can still surface the response text.
func Parse(text string) (entity.Decision, error) {
	payload := []byte(ExtractJSON(text))

	var fields map[string]jsoniter.RawMessage
	if err := strictAPI.Unmarshal(payload, &fields); err != nil {
		return entity.Decision{}, &ParseError{Reason: ReasonMalformedJSON, Err: err}
	}
	if fields == nil {
		return entity.Decision{}, &ParseError{Reason: ReasonShapeMismatch, Err: errors.New("payload is not an object")}
	}

	for _, name := range requiredFields {
		raw, ok := fields[name]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return entity.Decision{}, &ParseError{Reason: ReasonMissingField, Field: name}
		}
	}

	var (
		kind     string
		decision entity.Decision
	)
	if err := strictAPI.Unmarshal(fields["intent"], &kind); err != nil {
		return entity.Decision{}, shapeError("intent", err)
	}

	params, err := param.DecodeParams(fields["parameters"])
	if err != nil {
		return entity.Decision{}, shapeError("parameters", err)
	}
	decision.Parameters = params

	if err := strictAPI.Unmarshal(fields["confidence"], &decision.Confidence); err != nil {
		return entity.Decision{}, shapeError("confidence", err)
	}
	if decision.Confidence < 0 || decision.Confidence > 1 {
		return entity.Decision{}, shapeError("confidence", fmt.Errorf("%v is outside [0, 1]", decision.Confidence))
	}
	if err := strictAPI.Unmarshal(fields["needsConfirmation"], &decision.NeedsConfirmation); err != nil {
		return entity.Decision{}, shapeError("needsConfirmation", err)
	}
	if err := strictAPI.Unmarshal(fields["naturalLanguageResponse"], &decision.NaturalLanguageResponse); err != nil {
		return entity.Decision{}, shapeError("naturalLanguageResponse", err)
	}

	parsed, ok := entity.ParseIntentKind(kind)
	if !ok {
		decision.Kind = entity.IntentUnknown
		decision.Confidence = 0
		decision.NeedsConfirmation = false
		return decision, &ParseError{Reason: ReasonUnrecognizedKind, Field: "intent", Err: fmt.Errorf("%q", kind)}
	}
	decision.Kind = parsed

	return decision, nil
}

func shapeError(field string, err error) *ParseError {
	return &ParseError{Reason: ReasonShapeMismatch, Field: field, Err: err}
}
