// Package search provides a deterministic, typo-tolerant, in-memory search
// index over the flattened verses of a scripture corpus.
//
//   - No logging in the library (callers decide how/what to log)
//   - Functional options for every tunable (minimum query length, threshold,
//     result cap, edit budget, stemming, stop-words)
//   - Unicode-aware tokenization with diacritic folding and Snowball stemming
//   - Immutable after construction, so one Index is safe for concurrent use
//   - Deterministic ordering: score descending, then corpus position
//
// Scoring: each query term is matched against every word of a verse and
// keeps its best score (exact 1.0, same stem 0.9, prefix 0.7–0.9, bounded
// edit distance below 0.8). The verse score is the mean over terms plus a
// bonus when the whole query occurs literally. A verse is returned when the
// share of matched terms reaches the threshold or the literal phrase occurs.
package search

import (
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/tbourn/scripture-study/internal/scripture"
)

// Tunables exposed to configuration.
const (
	// MinQueryLength is the number of non-whitespace runes a query needs
	// before any matching happens.
	MinQueryLength = 3
	// DefaultThreshold is the share of query terms that must match.
	DefaultThreshold = 0.5
	// DefaultContextWindow is the number of runes kept on each side of a
	// literal match when building an excerpt.
	DefaultContextWindow = 50
	// DefaultDebounce is the quiet period callers should wait after the last
	// keystroke before searching. The index itself never waits.
	DefaultDebounce = 300 * time.Millisecond
)

const phraseBonus = 0.5

// Span is a half-open byte range [Start, End) into a verse's Text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Match is one ranked hit.
type Match struct {
	Verse    *scripture.Verse
	Position int // index in the flattened sequence
	Score    float64
	Spans    []Span
	Phrase   bool // whole query found literally
}

// Searcher is implemented by *Index; services depend on it so tests can
// substitute canned results.
type Searcher interface {
	Search(query string) []Match
}

// ----------------------------------------------------------------------------
// Options

type Option func(*config)

type config struct {
	minQueryRunes int
	threshold     float64
	maxResults    int
	maxEdits      int
	stemming      bool
	stopwords     map[string]struct{}
}

func defaultConfig() config {
	return config{
		minQueryRunes: MinQueryLength,
		threshold:     DefaultThreshold,
		maxResults:    0,
		maxEdits:      2,
		stemming:      true,
	}
}

// WithMinQueryLength overrides the minimum significant query length.
func WithMinQueryLength(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.minQueryRunes = n
		}
	}
}

// WithThreshold sets the share of query terms (0,1] a verse must match.
func WithThreshold(t float64) Option {
	return func(c *config) {
		if t > 0 && t <= 1 {
			c.threshold = t
		}
	}
}

// WithMaxResults caps the number of returned matches; 0 means no cap.
func WithMaxResults(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.maxResults = n
		}
	}
}

// WithMaxEdits caps the edit distance tolerated per term (0 disables typo
// tolerance, leaving exact, stem and prefix matching).
func WithMaxEdits(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.maxEdits = n
		}
	}
}

// WithStemming toggles Snowball stem matching.
func WithStemming(on bool) Option {
	return func(c *config) { c.stemming = on }
}

// WithStopwords drops the given words from queries. A query made only of
// stop-words still searches with all of its words.
func WithStopwords(words []string) Option {
	return func(c *config) {
		m := make(map[string]struct{}, len(words))
		for _, w := range words {
			w = fold(strings.TrimSpace(w))
			if w != "" {
				m[w] = struct{}{}
			}
		}
		if len(m) > 0 {
			c.stopwords = m
		}
	}
}

// ----------------------------------------------------------------------------
// Implementation

type word struct {
	start, end int
	folded     string
	runes      []rune
	stem       string
}

type doc struct {
	verse *scripture.Verse
	words []word
}

// Index is an immutable search index over one flattened corpus.
type Index struct {
	cfg  config
	docs []doc
}

// NewIndex builds an index over verses in the given order; that order is the
// tie-break for equal scores. Nil verses are skipped but keep their position.
func NewIndex(verses []*scripture.Verse, opts ...Option) *Index {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	docs := make([]doc, len(verses))
	for i, v := range verses {
		docs[i] = doc{verse: v}
		if v == nil {
			continue
		}
		docs[i].words = tokenizeText(v.Text, cfg.stemming)
	}
	return &Index{cfg: cfg, docs: docs}
}

// NewIndexFromCorpus flattens c and indexes the result.
func NewIndexFromCorpus(c *scripture.Corpus, opts ...Option) *Index {
	return NewIndex(scripture.Flatten(c), opts...)
}

// Len reports the number of indexed positions.
func (ix *Index) Len() int { return len(ix.docs) }

// Accepts reports whether query has enough significant runes to be searched.
func (ix *Index) Accepts(query string) bool {
	return ix != nil && significantRunes(query) >= ix.cfg.minQueryRunes
}

// Search returns the verses matching query, best first. Queries with fewer
// than the minimum significant runes return nil without scanning.
func (ix *Index) Search(query string) []Match {
	if ix == nil || len(ix.docs) == 0 {
		return nil
	}
	if !ix.Accepts(query) {
		return nil
	}
	phrase := strings.TrimSpace(query)
	terms := ix.queryTerms(phrase)

	out := make([]Match, 0, 16)
	for pos, d := range ix.docs {
		if d.verse == nil {
			continue
		}
		if m, ok := ix.score(d, terms, phrase); ok {
			m.Position = pos
			out = append(out, m)
		}
	}
	if len(out) == 0 {
		return nil
	}

	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Score != out[b].Score {
			return out[a].Score > out[b].Score
		}
		return out[a].Position < out[b].Position
	})
	if ix.cfg.maxResults > 0 && len(out) > ix.cfg.maxResults {
		out = out[:ix.cfg.maxResults]
	}
	return out
}

type queryTerm struct {
	folded string
	runes  []rune
	stem   string
}

func (ix *Index) queryTerms(q string) []queryTerm {
	raw := wordRE.FindAllString(q, -1)
	all := make([]queryTerm, 0, len(raw))
	kept := make([]queryTerm, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, r := range raw {
		f := fold(r)
		if f == "" {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		t := queryTerm{folded: f, runes: []rune(f)}
		if ix.cfg.stemming {
			t.stem = stem(f)
		}
		all = append(all, t)
		if _, stop := ix.cfg.stopwords[f]; !stop {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		return all
	}
	return kept
}

func (ix *Index) score(d doc, terms []queryTerm, phrase string) (Match, bool) {
	spans := literalSpans(d.verse.Text, phrase)
	hasPhrase := len(spans) > 0

	matched := 0
	total := 0.0
	for _, t := range terms {
		best := 0.0
		for _, w := range d.words {
			s := ix.termScore(t, w)
			if s <= 0 {
				continue
			}
			spans = append(spans, Span{Start: w.start, End: w.end})
			if s > best {
				best = s
			}
		}
		if best > 0 {
			matched++
			total += best
		}
	}

	var score float64
	switch {
	case len(terms) == 0:
		// Punctuation-only queries can only match literally.
		if !hasPhrase {
			return Match{}, false
		}
		score = 1
	default:
		coverage := float64(matched) / float64(len(terms))
		if matched == 0 && !hasPhrase {
			return Match{}, false
		}
		if coverage < ix.cfg.threshold && !hasPhrase {
			return Match{}, false
		}
		score = total / float64(len(terms))
	}
	if hasPhrase {
		score += phraseBonus
	}
	return Match{Verse: d.verse, Score: score, Spans: mergeSpans(spans), Phrase: hasPhrase}, true
}

// termScore grades one query term against one verse word; 0 means no match.
func (ix *Index) termScore(t queryTerm, w word) float64 {
	if t.folded == w.folded {
		return 1
	}
	if ix.cfg.stemming && t.stem != "" && t.stem == w.stem && len(t.runes) >= 3 {
		return 0.9
	}
	tl, wl := len(t.runes), len(w.runes)
	if tl >= 3 && tl < wl && strings.HasPrefix(w.folded, t.folded) {
		return 0.7 + 0.2*float64(tl)/float64(wl)
	}
	budget := editBudget(tl)
	if budget > ix.cfg.maxEdits {
		budget = ix.cfg.maxEdits
	}
	if budget == 0 {
		return 0
	}
	if d := boundedLevenshtein(t.runes, w.runes, budget); d >= 0 && d <= budget {
		return 0.8 * (1 - float64(d)/float64(tl+1))
	}
	return 0
}

// editBudget is the typo allowance for a term of n runes.
func editBudget(n int) int {
	switch {
	case n >= 8:
		return 2
	case n >= 4:
		return 1
	default:
		return 0
	}
}

// ----------------------------------------------------------------------------
// Helpers

var wordRE = regexp.MustCompile(`[\p{L}\p{N}]+`)

func tokenizeText(s string, stemming bool) []word {
	locs := wordRE.FindAllStringIndex(s, -1)
	out := make([]word, 0, len(locs))
	for _, loc := range locs {
		f := fold(s[loc[0]:loc[1]])
		if f == "" {
			continue
		}
		w := word{start: loc[0], end: loc[1], folded: f, runes: []rune(f)}
		if stemming {
			w.stem = stem(f)
		}
		out = append(out, w)
	}
	return out
}

func significantRunes(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

// mergeSpans sorts spans and merges overlapping or touching ranges.
func mergeSpans(in []Span) []Span {
	if len(in) == 0 {
		return nil
	}
	sort.Slice(in, func(a, b int) bool {
		if in[a].Start != in[b].Start {
			return in[a].Start < in[b].Start
		}
		return in[a].End < in[b].End
	})
	out := make([]Span, 0, len(in))
	cur := in[0]
	for _, s := range in[1:] {
		if s.Start <= cur.End {
			if s.End > cur.End {
				cur.End = s.End
			}
			continue
		}
		out = append(out, cur)
		cur = s
	}
	return append(out, cur)
}

// boundedLevenshtein returns the edit distance between a and b, or -1 as
// soon as it is certain to exceed max.
func boundedLevenshtein(a, b []rune, max int) int {
	if d := len(a) - len(b); d > max || -d > max {
		return -1
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		rowMin := cur[0]
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min3(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
			if cur[j] < rowMin {
				rowMin = cur[j]
			}
		}
		if rowMin > max {
			return -1
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
