package nlp

import (
	"strings"
	"unicode"

	"github.com/hamyonapp/hamyon/internal/model"
)

// Parser interprets quick-add utterances like "taksi 20000" or
// "food 45000 lunch; kofe 8k" against a category vocabulary.
type Parser struct {
	vocab *Vocabulary
}

// NewParser creates a quick-add parser over the given vocabulary.
func NewParser(vocab *Vocabulary) *Parser {
	return &Parser{vocab: vocab}
}

// Vocabulary exposes the parser's category table for presenters.
func (p *Parser) Vocabulary() *Vocabulary {
	return p.vocab
}

// ParseOne interprets a single utterance as (category, amount, description).
// Magnitude suffixes are rewritten in place first, then the first amount
// splits the text: the leading token of the pre-amount text (or, when the
// amount comes first, of the post-amount text) is the category token and
// everything else becomes the description. The boolean is false when the
// text does not read as an entry; that is user feedback, not a fault.
func (p *Parser) ParseOne(text string) (model.ParsedEntry, bool) {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return model.ParsedEntry{}, false
	}

	t := rewriteMagnitudes(raw)

	// Free prose: small bare numbers are not amounts here.
	amount, span, ok := FindAmount(t, Prose())
	if !ok {
		return model.ParsedEntry{}, false
	}

	before := strings.Fields(t[:span.Start])
	after := strings.Fields(t[span.End:])

	var catToken string
	var descParts []string
	switch {
	case len(before) > 0:
		catToken = before[0]
		descParts = append(descParts, before[1:]...)
		descParts = append(descParts, after...)
	case len(after) > 0:
		catToken = after[0]
		descParts = append(descParts, after[1:]...)
	default:
		// An amount alone is not an entry.
		return model.ParsedEntry{}, false
	}

	return model.ParsedEntry{
		Category:    p.vocab.Resolve(catToken),
		Amount:      amount,
		Description: strings.Join(descParts, " "),
		RawText:     raw,
	}, true
}

// ParseMulti interprets a message carrying several entries. Segments that do
// not parse are dropped; surviving entries keep their original order. An
// empty result means nothing in the message read as an entry.
func (p *Parser) ParseMulti(text string) []model.ParsedEntry {
	var entries []model.ParsedEntry
	for _, seg := range splitSegments(text) {
		if entry, ok := p.ParseOne(seg); ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

// splitSegments cuts a message into entry candidates. Semicolons and
// newlines always split; a comma splits only when it is not sitting between
// two digits, so grouped amounts like 97,500 stay whole.
func splitSegments(text string) []string {
	runes := []rune(text)
	var segs []string
	var cur []rune

	flush := func() {
		s := strings.TrimSpace(string(cur))
		if s != "" {
			segs = append(segs, s)
		}
		cur = cur[:0]
	}

	for i, r := range runes {
		switch {
		case r == ';' || r == '\n':
			flush()
		case r == ',':
			prevDigit := i > 0 && unicode.IsDigit(runes[i-1])
			nextDigit := i+1 < len(runes) && unicode.IsDigit(runes[i+1])
			if prevDigit && nextDigit {
				cur = append(cur, r)
			} else {
				flush()
			}
		default:
			cur = append(cur, r)
		}
	}
	flush()

	return segs
}
