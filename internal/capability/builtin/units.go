package builtin

import (
	"context"
	"fmt"
	"strings"

	"ArdenGolang/internal/capability"
	"ArdenGolang/internal/entity"
	"ArdenGolang/pkg/param"
)

var unitAliases = map[string]string{
	"mile": "miles", "mi": "miles",
	"kilometer": "kilometers", "km": "kilometers", "kilometre": "kilometers", "kilometres": "kilometers",
	"meter": "meters", "m": "meters", "metre": "meters", "metres": "meters",
	"foot": "feet", "ft": "feet",
	"pound": "pounds", "lb": "pounds", "lbs": "pounds",
	"kilogram": "kilograms", "kg": "kilograms", "kilo": "kilograms", "kilos": "kilograms",
	"gram": "grams", "g": "grams",
	"ounce": "ounces", "oz": "ounces",
	"c": "celsius", "°c": "celsius",
	"f": "fahrenheit", "°f": "fahrenheit",
	"k": "kelvin",
}

var linearFactors = map[string]map[string]float64{
	"miles":      {"kilometers": 1.60934, "meters": 1609.34, "feet": 5280},
	"kilometers": {"miles": 0.621371, "meters": 1000, "feet": 3280.84},
	"meters":     {"miles": 0.000621371, "kilometers": 0.001, "feet": 3.28084},
	"feet":       {"miles": 0.000189394, "kilometers": 0.0003048, "meters": 0.3048},
	"pounds":     {"kilograms": 0.453592, "ounces": 16, "grams": 453.592},
	"kilograms":  {"pounds": 2.20462, "grams": 1000, "ounces": 35.274},
	"grams":      {"kilograms": 0.001, "pounds": 0.00220462, "ounces": 0.035274},
	"ounces":     {"pounds": 0.0625, "grams": 28.3495, "kilograms": 0.0283495},
}

func canonicalUnit(unit string) string {
	u := strings.ToLower(strings.TrimSpace(unit))
	u = strings.TrimPrefix(u, "degrees ")
	if alias, ok := unitAliases[u]; ok {
		return alias
	}
	return u
}

func toCelsius(v float64, from string) (float64, bool) {
	switch from {
	case "celsius":
		return v, true
	case "fahrenheit":
		return (v - 32) * 5 / 9, true
	case "kelvin":
		return v - 273.15, true
	}
	return 0, false
}

func fromCelsius(c float64, to string) (float64, bool) {
	switch to {
	case "celsius":
		return c, true
	case "fahrenheit":
		return c*9/5 + 32, true
	case "kelvin":
		return c + 273.15, true
	}
	return 0, false
}

// Convert returns value expressed in the target unit.
func Convert(value float64, from, to string) (float64, bool) {
	f, t := canonicalUnit(from), canonicalUnit(to)
	if f == t {
		return value, true
	}
	if c, ok := toCelsius(value, f); ok {
		return fromCelsius(c, t)
	}
	if factor, ok := linearFactors[f][t]; ok {
		return value * factor, true
	}
	return 0, false
}

func ConvertUnits(_ context.Context, p param.Params) (entity.ExecutionResult, error) {
	value, err := capability.Number(p, "value")
	if err != nil {
		return entity.ExecutionResult{}, err
	}
	from, err := capability.String(p, "from")
	if err != nil {
		return entity.ExecutionResult{}, err
	}
	to, err := capability.String(p, "to")
	if err != nil {
		return entity.ExecutionResult{}, err
	}

	result, ok := Convert(value, from, to)
	if !ok {
		return entity.ExecutionResult{}, capability.ExecutionFailed("Could not convert from %s to %s", from, to)
	}

	return entity.ExecutionResult{
		Success: true,
		Message: fmt.Sprintf("%s %s = %.2f %s", formatNumber(value), from, result, to),
		Data:    param.Params{"result": param.Float(result)},
	}, nil
}
