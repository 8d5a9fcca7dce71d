package nlp

import (
	"strings"
	"time"
	"unicode"

	"ArdenGolang/internal/entity"
	"ArdenGolang/pkg/param"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NLPProcessor maps an utterance onto a canned decision with an ordered rule
// table. The first matching rule wins.
type NLPProcessor struct {
	rules   []rule
	numbers *NumberExtractor
}

func NewProcessor() INLPProcessor {
	p := &NLPProcessor{numbers: NewNumberExtractor()}
	p.rules = p.defaultRules()
	return p
}

func (nlp *NLPProcessor) ProcessCommand(text string) (*IntentResult, error) {
	startTime := time.Now()
	u := nlp.newUtterance(text)

	for _, r := range nlp.rules {
		if !r.match(u) {
			continue
		}
		result := r.build(u)
		result.Rule = r.name
		result.ProcessingTime = time.Since(startTime).String()
		if result.Parameters == nil {
			result.Parameters = param.Params{}
		}
		return result, nil
	}

	return &IntentResult{
		Intent:         entity.IntentUnknown,
		Parameters:     param.Params{},
		Confidence:     0.4,
		Response:       "I'm not sure how to help with that.",
		Rule:           "fallback",
		ProcessingTime: time.Since(startTime).String(),
	}, nil
}

func (nlp *NLPProcessor) Rules() []string {
	names := make([]string, 0, len(nlp.rules))
	for _, r := range nlp.rules {
		names = append(names, r.name)
	}
	return names
}

// utterance keeps the folded tokens used for matching next to the words as
// typed. tokens[i] is the folded form of words[i].
type utterance struct {
	raw    string
	clean  string
	tokens []string
	words  []string
}

func (nlp *NLPProcessor) newUtterance(text string) utterance {
	tokens, words := nlp.tokenize(text)
	return utterance{
		raw:    strings.ToLower(text),
		clean:  strings.Join(tokens, " "),
		tokens: tokens,
		words:  words,
	}
}

func (u utterance) has(words ...string) bool {
	for _, t := range u.tokens {
		for _, w := range words {
			if t == w {
				return true
			}
		}
	}
	return false
}

func (u utterance) hasPrefix(prefixes ...string) bool {
	for _, t := range u.tokens {
		for _, p := range prefixes {
			if strings.HasPrefix(t, p) {
				return true
			}
		}
	}
	return false
}

// index returns the position after the first occurrence of any marker, or -1.
func (u utterance) index(markers ...string) int {
	for i, t := range u.tokens {
		for _, m := range markers {
			if t == m && i+1 < len(u.tokens) {
				return i + 1
			}
		}
	}
	return -1
}

// after returns the words as typed following the first occurrence of any marker.
func (u utterance) after(markers ...string) string {
	i := u.index(markers...)
	if i < 0 {
		return ""
	}
	return strings.Join(u.words[i:], " ")
}

// tokensAfter is after for the folded tokens.
func (u utterance) tokensAfter(markers ...string) []string {
	i := u.index(markers...)
	if i < 0 {
		return nil
	}
	return u.tokens[i:]
}

func (u utterance) wordAfter(markers ...string) string {
	i := u.index(markers...)
	if i < 0 {
		return ""
	}
	return u.words[i]
}

// between returns the words after start up to (not including) any stop word.
func (u utterance) between(start string, stops ...string) string {
	from := u.index(start)
	if from < 0 {
		return ""
	}
	for i := from; i < len(u.tokens); i++ {
		for _, s := range stops {
			if u.tokens[i] == s {
				return strings.Join(u.words[from:i], " ")
			}
		}
	}
	return strings.Join(u.words[from:], " ")
}

// tokenize splits text on anything but letters, digits and dots. Each word is
// kept as typed and also lowercased with its accents removed.
func (nlp *NLPProcessor) tokenize(text string) ([]string, []string) {
	fold := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)

	fields := strings.FieldsFunc(norm.NFC.String(text), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || r == '.')
	})

	tokens := make([]string, 0, len(fields))
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		word := strings.Trim(f, ".")
		token, _, _ := transform.String(fold, strings.ToLower(word))
		if strings.Trim(token, ".") == "" {
			continue
		}
		tokens = append(tokens, token)
		words = append(words, word)
	}
	return tokens, words
}

func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func optionalString(s string) param.Value {
	if s == "" {
		return param.Null()
	}
	return param.String(s)
}
