// Package segment splits free-form model responses back into per-file and
// per-subcategory sections. The model is instructed to echo markers and
// headings, but nothing enforces that, so extraction is an ordered series
// of independent matcher strategies tried from strictest to loosest. When
// every strategy misses, callers fall back to the whole response.
package segment

import (
	"regexp"
	"strings"
)

// Matcher is one extraction strategy. The label argument is a regex
// fragment produced by EscapeLabel or RelaxLabel; matchers never receive
// raw, unescaped text.
type Matcher interface {
	Name() string
	Extract(text, label string) (string, bool)
}

// EscapeLabel quotes a literal label (e.g. a file marker) for safe
// insertion into a pattern.
func EscapeLabel(label string) string {
	return regexp.QuoteMeta(label)
}

// RelaxLabel converts a display name into a tolerant pattern: word
// characters and spaces match literally, any other rune becomes an
// optional wildcard. Models routinely drop or alter punctuation in
// headings; this keeps "I/O and Query Efficiency" matching "IO and Query
// Efficiency" while still never producing a malformed expression.
func RelaxLabel(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == ' ':
			b.WriteString(`[ \t]`)
		case r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9'):
			b.WriteRune(r)
		default:
			b.WriteString(`.?`)
		}
	}
	return b.String()
}

// span locates the start of a section with startPat, then extends it to
// the first stopPat match on a later line (or end of text). Both patterns
// are line-anchored. Returns false when startPat does not match or either
// pattern fails to compile.
func span(text, startPat, stopPat string) (string, bool) {
	startRe, err := regexp.Compile(startPat)
	if err != nil {
		return "", false
	}
	loc := startRe.FindStringIndex(text)
	if loc == nil {
		return "", false
	}

	body := text[loc[0]:]
	end := len(body)
	if nl := strings.Index(body, "\n"); nl >= 0 && stopPat != "" {
		stopRe, err := regexp.Compile(stopPat)
		if err != nil {
			return "", false
		}
		if stopLoc := stopRe.FindStringIndex(body[nl:]); stopLoc != nil {
			end = nl + stopLoc[0]
		}
	}

	section := strings.TrimSpace(body[:end])
	if section == "" {
		return "", false
	}
	return section, true
}

// HeadingMatcher anchors on a markdown heading line (one or more '#'
// symbols followed by the label) and spans to the next heading matched by
// Stop, or end of text. When StripHeading is set the heading line itself
// is removed from the extracted span.
type HeadingMatcher struct {
	Stop         string // regex fragment following "^#+" in the terminating heading
	StripHeading bool
}

func (m HeadingMatcher) Name() string { return "heading" }

func (m HeadingMatcher) Extract(text, label string) (string, bool) {
	section, ok := span(text, `(?mi)^#+[ \t]*`+label, `(?m)^#+[ \t]*`+m.Stop)
	if !ok {
		return "", false
	}
	if m.StripHeading {
		_, rest, found := strings.Cut(section, "\n")
		if !found {
			return "", false
		}
		section = strings.TrimSpace(rest)
		if section == "" {
			return "", false
		}
	}
	return section, true
}

// LooseMatcher drops the heading-symbol requirement: the label may appear
// anywhere on a line, and the span runs to the next line matching Stop.
type LooseMatcher struct {
	Stop string
}

func (m LooseMatcher) Name() string { return "loose-heading" }

func (m LooseMatcher) Extract(text, label string) (string, bool) {
	return span(text, `(?mi)^[^\n]*`+label, `(?m)^[^\n]*`+m.Stop)
}

// BoldMatcher treats emphasis-wrapped text (**label**) as a pseudo-heading
// and spans to the next bold line or end of text.
type BoldMatcher struct{}

func (m BoldMatcher) Name() string { return "bold" }

func (m BoldMatcher) Extract(text, label string) (string, bool) {
	return span(text, `(?mi)^\*\*`+label+`\*\*`, `(?m)^\*\*`)
}

// ColonMatcher matches "label:" at line start and spans to the next
// label-like line.
type ColonMatcher struct{}

func (m ColonMatcher) Name() string { return "colon-label" }

func (m ColonMatcher) Extract(text, label string) (string, bool) {
	return span(text, `(?mi)^`+label+`:`, `(?m)^\w+:`)
}

// fileMatchers locate a FILE_<n> section; the span ends where the next
// FILE heading begins.
var fileMatchers = []Matcher{
	HeadingMatcher{Stop: `FILE`},
	LooseMatcher{Stop: `FILE_`},
}

// subcategoryMatchers locate a subcategory section inside a file section
// (or a whole response). The heading span ends at the next heading of any
// kind, and the heading line itself is stripped from the result.
var subcategoryMatchers = []Matcher{
	HeadingMatcher{Stop: `\S`, StripHeading: true},
	BoldMatcher{},
	ColonMatcher{},
}

// ExtractFileSection returns the span of the response attributed to the
// given file marker (e.g. "FILE_2"), or false when no strategy matches.
func ExtractFileSection(response, marker string) (string, bool) {
	label := EscapeLabel(marker)
	for _, m := range fileMatchers {
		if section, ok := m.Extract(response, label); ok {
			return section, true
		}
	}
	return "", false
}

// ExtractSubcategorySection returns the span attributed to a subcategory
// display name, or false when no strategy matches.
func ExtractSubcategorySection(response, name string) (string, bool) {
	label := RelaxLabel(name)
	for _, m := range subcategoryMatchers {
		if section, ok := m.Extract(response, label); ok {
			return section, true
		}
	}
	return "", false
}
