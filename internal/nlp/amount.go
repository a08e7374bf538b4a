// Package nlp turns free-form uz/ru/en chat text into structured entry
// candidates: an amount detector, a category vocabulary, and the quick-add
// parser that combines them.
package nlp

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	// DefaultMinBare is the smallest bare digit run accepted when scanning
	// free prose. Shorter runs are usually years, counts, or phone fragments
	// rather than amounts.
	DefaultMinBare = 100

	thousandMultiplier = 1_000
	millionMultiplier  = 1_000_000
)

// Options select the amount-detection policy of one call site.
type Options struct {
	// MinBare is the floor applied to rule-4 bare digit runs. Magnitude,
	// grouped, and decimal forms are never floored.
	MinBare int64
}

// Prose is the policy for scanning free-form chat text, where small numbers
// are rarely amounts.
func Prose() Options { return Options{MinBare: DefaultMinBare} }

// Explicit is the policy for input already known to be an amount.
func Explicit() Options { return Options{} }

// Span is the half-open byte range of a matched amount within the input.
type Span struct {
	Start int
	End   int
}

// Detection rules, in priority order. Go's regexp has no lookarounds and its
// \b is ASCII-only, so the word boundary after a magnitude suffix is checked
// in code instead (Cyrillic suffixes would otherwise never match).
var (
	millionRe  = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(mln|million|млн|m)`)
	thousandRe = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(ming|тысяч|тыс|k|к)`)
	groupedRe  = regexp.MustCompile(`\d{1,3}(?:[,\s]\d{3})+`)
	digitsRe   = regexp.MustCompile(`\d+`)

	// Union of both magnitude rules, longest alternatives first so that
	// "ming" is never read as a bare million "m".
	magnitudeRe = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(mln|million|млн|ming|тысяч|тыс|k|к|m)`)
)

// FindAmount locates the first amount in text and returns its value in whole
// soums together with the matched span. The rules are tried in order and the
// first one that produces a match wins: numeral+million word, numeral+thousand
// word, grouped digits (97,500 / 97 500), then a bare digit run subject to
// opts.MinBare. A zero value or no match means text carries no amount.
func FindAmount(text string, opts Options) (int64, Span, bool) {
	if v, span, ok := findMagnitude(text, millionRe, millionMultiplier); ok {
		return v, span, true
	}
	if v, span, ok := findMagnitude(text, thousandRe, thousandMultiplier); ok {
		return v, span, true
	}
	if v, span, ok := findGrouped(text); ok {
		return v, span, true
	}
	return findBare(text, opts.MinBare)
}

// Amount is FindAmount without the span, for callers that only need the value.
func Amount(text string, opts Options) (int64, bool) {
	v, _, ok := FindAmount(text, opts)
	return v, ok
}

// Digits extracts an amount from input the user was explicitly asked for:
// magnitude suffixes are expanded first (50k -> 50000), then every remaining
// non-digit is stripped and the digits are read as one number. No minimum
// floor applies on this path.
func Digits(text string) (int64, bool) {
	expanded := rewriteMagnitudes(text)
	var b strings.Builder
	for _, r := range expanded {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	v, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// rewriteMagnitudes replaces numeral+magnitude-word forms with their plain
// digit value in place, so the quick-add parser's span arithmetic sees 50000
// where the user wrote 50k. Text without magnitude forms passes through
// unchanged.
func rewriteMagnitudes(text string) string {
	matches := magnitudeRe.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		if !boundaryAfter(text, m[1]) {
			continue
		}
		v, ok := scaleNumeral(text[m[2]:m[3]], multiplierFor(text[m[4]:m[5]]))
		if !ok {
			continue
		}
		b.WriteString(text[last:m[0]])
		b.WriteString(strconv.FormatInt(v, 10))
		last = m[1]
	}
	if last == 0 {
		return text
	}
	b.WriteString(text[last:])
	return b.String()
}

func multiplierFor(suffix string) int64 {
	switch strings.ToLower(suffix) {
	case "mln", "million", "млн", "m":
		return millionMultiplier
	default:
		return thousandMultiplier
	}
}

// scaleNumeral multiplies a numeral (decimal separator . or ,) by mult and
// rounds to the nearest whole soum. Exact decimal arithmetic so 1.2 mln is
// 1200000, never 1199999.
func scaleNumeral(numeral string, mult int64) (int64, bool) {
	d, err := decimal.NewFromString(strings.ReplaceAll(numeral, ",", "."))
	if err != nil {
		return 0, false
	}
	v := d.Mul(decimal.NewFromInt(mult)).Round(0).IntPart()
	if v <= 0 {
		return 0, false
	}
	return v, true
}

func findMagnitude(text string, re *regexp.Regexp, mult int64) (int64, Span, bool) {
	for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
		if !boundaryAfter(text, m[1]) {
			continue
		}
		v, ok := scaleNumeral(text[m[2]:m[3]], mult)
		if !ok {
			continue
		}
		return v, Span{Start: m[0], End: m[1]}, true
	}
	return 0, Span{}, false
}

func findGrouped(text string) (int64, Span, bool) {
	for _, m := range groupedRe.FindAllStringIndex(text, -1) {
		// Never trigger on a partial slice of a longer digit run.
		if digitBefore(text, m[0]) || digitAfter(text, m[1]) {
			continue
		}
		var b strings.Builder
		for _, r := range text[m[0]:m[1]] {
			if r >= '0' && r <= '9' {
				b.WriteRune(r)
			}
		}
		v, err := strconv.ParseInt(b.String(), 10, 64)
		if err != nil || v <= 0 {
			continue
		}
		return v, Span{Start: m[0], End: m[1]}, true
	}
	return 0, Span{}, false
}

// findBare reads the first bare digit run. Only the first run is considered:
// a leading small number below the floor fails the rule rather than letting a
// later number win out of reading order.
func findBare(text string, minBare int64) (int64, Span, bool) {
	m := digitsRe.FindStringIndex(text)
	if m == nil {
		return 0, Span{}, false
	}
	v, err := strconv.ParseInt(text[m[0]:m[1]], 10, 64)
	if err != nil || v <= 0 || v < minBare {
		return 0, Span{}, false
	}
	return v, Span{Start: m[0], End: m[1]}, true
}

// boundaryAfter reports whether the rune at byte offset end terminates a
// word: end of string, or anything that is neither letter nor digit.
func boundaryAfter(s string, end int) bool {
	if end >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[end:])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func digitBefore(s string, start int) bool {
	if start <= 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:start])
	return unicode.IsDigit(r)
}

func digitAfter(s string, end int) bool {
	if end >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[end:])
	return unicode.IsDigit(r)
}
