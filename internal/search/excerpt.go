package search

import (
	"strings"
	"unicode"
)

// Ellipsis marks a truncated side of an excerpt.
const Ellipsis = "..."

// Segment is one run of display text; IsMatch runs are highlighted.
type Segment struct {
	Text    string `json:"text"`
	IsMatch bool   `json:"isMatch"`
}

// Excerpt is a bounded window of a verse around the first literal occurrence
// of the query. Start and End are byte offsets of the window body in the
// source text (without ellipses).
type Excerpt struct {
	Text             string `json:"text"`
	Match            string `json:"match,omitempty"`
	Found            bool   `json:"found"`
	Start            int    `json:"start"`
	End              int    `json:"end"`
	LeadingEllipsis  bool   `json:"leadingEllipsis"`
	TrailingEllipsis bool   `json:"trailingEllipsis"`
}

// ExtractContext returns up to window runes on each side of the first
// case-insensitive literal occurrence of query in text. Truncated sides get
// an Ellipsis. When query does not occur literally (the engine matched a
// typo or a stem) the whole text is returned with Found unset.
//
// A non-positive window uses DefaultContextWindow.
func ExtractContext(text, query string, window int) Excerpt {
	if window <= 0 {
		window = DefaultContextWindow
	}
	whole := Excerpt{Text: text, End: len(text)}

	q := strings.TrimSpace(query)
	if q == "" || text == "" {
		return whole
	}
	tr, offs := decode(text)
	fq := foldRunes(q)
	at := indexFold(tr, fq, 0)
	if at < 0 {
		return whole
	}
	qn := len(fq)

	from := at - window
	if from < 0 {
		from = 0
	}
	to := at + qn + window
	if to > len(tr) {
		to = len(tr)
	}

	ex := Excerpt{
		Match:            text[offs[at]:offs[at+qn]],
		Found:            true,
		Start:            offs[from],
		End:              offs[to],
		LeadingEllipsis:  from > 0,
		TrailingEllipsis: to < len(tr),
	}
	var b strings.Builder
	if ex.LeadingEllipsis {
		b.WriteString(Ellipsis)
	}
	b.WriteString(text[ex.Start:ex.End])
	if ex.TrailingEllipsis {
		b.WriteString(Ellipsis)
	}
	ex.Text = b.String()
	return ex
}

// Highlight splits text into segments, marking every case-insensitive
// literal occurrence of query. The scan runs left to right and resumes after
// each occurrence, so occurrences never overlap and two adjacent occurrences
// stay two segments. Text with no occurrence comes back as one plain segment.
func Highlight(text, query string) []Segment {
	if text == "" {
		return nil
	}
	q := strings.TrimSpace(query)
	if q == "" {
		return []Segment{{Text: text}}
	}
	return HighlightSpans(text, literalSpans(text, q))
}

// HighlightExcerpt returns the segments of ex, an excerpt of text: the
// literal occurrences of query inside the window are marked, and truncated
// sides become plain Ellipsis segments. Marking runs on the source text, so
// a query that matches the ellipsis itself never marks the markers.
func HighlightExcerpt(text string, ex Excerpt, query string) []Segment {
	if ex.Start < 0 || ex.End > len(text) || ex.Start > ex.End {
		return Highlight(text, query)
	}
	var out []Segment
	if ex.LeadingEllipsis {
		out = append(out, Segment{Text: Ellipsis})
	}
	out = append(out, Highlight(text[ex.Start:ex.End], query)...)
	if ex.TrailingEllipsis {
		out = append(out, Segment{Text: Ellipsis})
	}
	return out
}

// HighlightSpans splits text on the given byte spans, as returned in
// Match.Spans. Spans must be sorted and non-overlapping; out of range or
// inverted spans are ignored.
func HighlightSpans(text string, spans []Span) []Segment {
	if text == "" {
		return nil
	}
	out := make([]Segment, 0, 2*len(spans)+1)
	pos := 0
	for _, s := range spans {
		if s.Start < pos || s.End <= s.Start || s.End > len(text) {
			continue
		}
		if s.Start > pos {
			out = append(out, Segment{Text: text[pos:s.Start]})
		}
		out = append(out, Segment{Text: text[s.Start:s.End], IsMatch: true})
		pos = s.End
	}
	if pos < len(text) {
		out = append(out, Segment{Text: text[pos:]})
	}
	return out
}

// literalSpans returns the byte spans of every non-overlapping
// case-insensitive occurrence of query in text. Query characters are matched
// literally; nothing in query is treated as a pattern.
func literalSpans(text, query string) []Span {
	q := foldRunes(query)
	if len(q) == 0 || text == "" {
		return nil
	}
	tr, offs := decode(text)
	var out []Span
	for at := indexFold(tr, q, 0); at >= 0; at = indexFold(tr, q, at+len(q)) {
		out = append(out, Span{Start: offs[at], End: offs[at+len(q)]})
	}
	return out
}

// indexFold finds q (already folded) in text starting at rune index from,
// comparing rune by rune so offsets stay aligned with the source.
func indexFold(text, q []rune, from int) int {
	for i := from; i+len(q) <= len(text); i++ {
		ok := true
		for j, r := range q {
			if unicode.ToLower(text[i+j]) != r {
				ok = false
				break
			}
		}
		if ok {
			return i
		}
	}
	return -1
}

func foldRunes(s string) []rune {
	rs := []rune(s)
	for i, r := range rs {
		rs[i] = unicode.ToLower(r)
	}
	return rs
}

// decode splits s into runes and the byte offset of each; the extra last
// offset is len(s). Invalid bytes count as one rune of width one.
func decode(s string) ([]rune, []int) {
	rs := make([]rune, 0, len(s))
	offs := make([]int, 0, len(s)+1)
	for i, r := range s {
		rs = append(rs, r)
		offs = append(offs, i)
	}
	return rs, append(offs, len(s))
}
