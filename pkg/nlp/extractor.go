package nlp

import (
	"regexp"
	"strconv"
	"strings"
)

type NumberExtractor struct {
	numberWords map[string]float64
	operators   map[string]string
}

var rawExpression = regexp.MustCompile(`[0-9][0-9.\s+\-*/()×÷x]*[0-9)]`)

func NewNumberExtractor() *NumberExtractor {
	return &NumberExtractor{
		numberWords: map[string]float64{
			"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
			"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
			"eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14, "fifteen": 15,
			"sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19, "twenty": 20,
			"thirty": 30, "forty": 40, "fifty": 50, "sixty": 60,
			"a": 1, "an": 1,
		},
		operators: map[string]string{
			"plus":       "+",
			"add":        "+",
			"minus":      "-",
			"less":       "-",
			"times":      "*",
			"multiplied": "*",
			"x":          "*",
			"divided":    "/",
			"over":       "/",
		},
	}
}

// Number parses a digit literal or a number word. Articles are only accepted
// when allowArticle is set.
func (ne *NumberExtractor) Number(word string, allowArticle bool) (float64, bool) {
	if n, err := strconv.ParseFloat(word, 64); err == nil {
		return n, true
	}
	if !allowArticle && (word == "a" || word == "an") {
		return 0, false
	}
	n, ok := ne.numberWords[word]
	return n, ok
}

// FirstNumber returns the first number mentioned in tokens.
func (ne *NumberExtractor) FirstNumber(tokens []string) (float64, bool) {
	for _, t := range tokens {
		if n, ok := ne.Number(t, false); ok {
			return n, true
		}
	}
	return 0, false
}

// NumberBefore returns the number immediately preceding a token that starts
// with unit ("5 minutes", "an hour").
func (ne *NumberExtractor) NumberBefore(tokens []string, unit string) (float64, bool) {
	for i, t := range tokens {
		if strings.HasPrefix(t, unit) && i > 0 {
			if n, ok := ne.Number(tokens[i-1], true); ok {
				return n, true
			}
		}
	}
	return 0, false
}

// Expression turns spoken arithmetic ("five plus 3 times 2") into an
// expression string. Symbolic input in the raw text is used as a fallback.
func (ne *NumberExtractor) Expression(tokens []string, raw string) string {
	var parts []string
	expectOperand := true
	for _, t := range tokens {
		if n, ok := ne.Number(t, false); ok && expectOperand {
			parts = append(parts, strconv.FormatFloat(n, 'f', -1, 64))
			expectOperand = false
			continue
		}
		if op, ok := ne.operators[t]; ok && !expectOperand {
			parts = append(parts, op)
			expectOperand = true
		}
	}
	if len(parts) >= 3 {
		if expectOperand {
			parts = parts[:len(parts)-1]
		}
		return strings.Join(parts, "")
	}

	if m := rawExpression.FindString(raw); m != "" {
		return strings.Join(strings.Fields(m), "")
	}
	return ""
}

// Level returns a percentage such as "to 40 percent" or "at 40%".
func (ne *NumberExtractor) Level(tokens []string) (int64, bool) {
	for i, t := range tokens {
		if (t == "to" || t == "at") && i+1 < len(tokens) {
			if n, ok := ne.Number(tokens[i+1], false); ok && n >= 0 && n <= 100 {
				return int64(n), true
			}
		}
	}
	return 0, false
}
