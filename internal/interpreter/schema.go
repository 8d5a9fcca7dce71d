package interpreter

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"ArdenGolang/internal/entity"
	"ArdenGolang/pkg/param"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

type field struct {
	name     string
	schema   string
	required bool
}

const (
	str     = `{"type":"string"}`
	boolean = `{"type":"boolean"}`
	integer = `{"type":"integer"}`
	number  = `{"type":"number"}`
	percent = `{"type":"integer","minimum":0,"maximum":100}`
	upDown  = `{"enum":["up","down"]}`
)

func enum(values ...string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = strconv.Quote(v)
	}
	return `{"enum":[` + strings.Join(quoted, ",") + `]}`
}

var parameterFields = map[entity.IntentKind][]field{
	entity.IntentScheduleEvent: {
		{"title", str, true}, {"date", str, false}, {"duration", integer, false}, {"location", str, false},
	},
	entity.IntentCreateReminder: {
		{"title", str, true}, {"date", str, false}, {"priority", enum("low", "medium", "high"), false},
	},
	entity.IntentStartTimer:   {{"duration", integer, true}, {"label", str, false}},
	entity.IntentCreateNote:   {{"title", str, true}, {"content", str, false}},
	entity.IntentSetAlarm:     {{"time", str, true}, {"label", str, false}, {"recurring", boolean, false}},
	entity.IntentSendMessage:  {{"recipient", str, true}, {"body", str, true}},
	entity.IntentComposeEmail: {{"recipient", str, true}, {"subject", str, false}, {"body", str, false}},
	entity.IntentPlaceCall:    {{"recipient", str, true}, {"video", boolean, false}},
	entity.IntentSetFlashlight: {
		{"state", enum("on", "off", "toggle"), true},
	},
	entity.IntentOpenCamera: {
		{"action", enum("open", "photo", "video"), true},
	},
	entity.IntentSetVolume:     {{"level", percent, false}, {"change", upDown, false}},
	entity.IntentSetBrightness: {{"level", percent, false}, {"change", upDown, false}},
	entity.IntentSetWifi:       {{"state", str, true}},
	entity.IntentSetBluetooth:  {{"state", str, true}},
	entity.IntentCalculate:     {{"expression", str, true}},
	entity.IntentGetWeather:    {{"location", str, false}, {"when", str, false}},
	entity.IntentGetDateTime: {
		{"query", enum("date", "time", "day", "timezone"), true},
	},
	entity.IntentConvertUnits: {{"value", number, true}, {"from", str, true}, {"to", str, true}},
}

// schemaDocument renders the parameter schema of a kind. Optional fields may be
// null and extra fields are tolerated.
func schemaDocument(fields []field) string {
	props := make([]string, 0, len(fields))
	required := make([]string, 0, len(fields))
	for _, f := range fields {
		s := f.schema
		if !f.required {
			s = `{"anyOf":[{"type":"null"},` + f.schema + `]}`
		} else {
			required = append(required, strconv.Quote(f.name))
		}
		props = append(props, strconv.Quote(f.name)+":"+s)
	}
	return `{"type":"object","properties":{` + strings.Join(props, ",") +
		`},"required":[` + strings.Join(required, ",") + `]}`
}

type SchemaValidator struct {
	schemas map[entity.IntentKind]*jsonschema.Schema
}

func NewSchemaValidator() (*SchemaValidator, error) {
	v := &SchemaValidator{schemas: make(map[entity.IntentKind]*jsonschema.Schema, len(parameterFields))}
	for kind, fields := range parameterFields {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		url := fmt.Sprintf("https://arden.schemas.local/intent/%s.schema.json", kind)
		if err := c.AddResource(url, strings.NewReader(schemaDocument(fields))); err != nil {
			return nil, fmt.Errorf("intent schema load failed for %s: %w", kind, err)
		}
		compiled, err := c.Compile(url)
		if err != nil {
			return nil, fmt.Errorf("intent schema compile failed for %s: %w", kind, err)
		}
		v.schemas[kind] = compiled
	}
	return v, nil
}

// Validate checks the decision's parameters against the schema for its kind.
// The result is advisory; handlers decide what they actually require.
func (v *SchemaValidator) Validate(d entity.Decision) error {
	schema, ok := v.schemas[d.Kind]
	if !ok {
		return nil
	}
	doc := make(map[string]any, len(d.Parameters))
	for k, val := range d.Parameters {
		doc[k] = schemaValue(val)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("parameters for %s: %w", d.Kind, err)
	}
	return nil
}

func schemaValue(v param.Value) any {
	switch v.Kind() {
	case param.KindInt:
		i, _ := v.AsInt()
		return json.Number(strconv.FormatInt(i, 10))
	case param.KindFloat:
		f, _ := v.AsFloat()
		return json.Number(strconv.FormatFloat(f, 'g', -1, 64))
	case param.KindList:
		list, _ := v.AsList()
		out := make([]any, len(list))
		for i, e := range list {
			out[i] = schemaValue(e)
		}
		return out
	case param.KindMap:
		m, _ := v.AsMap()
		out := make(map[string]any, len(m))
		for k, e := range m {
			out[k] = schemaValue(e)
		}
		return out
	default:
		return v.Interface()
	}
}
