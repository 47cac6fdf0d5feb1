// Package services – ScriptureService
//
// ScriptureService owns the loaded corpus and everything derived from it: the
// search index, the verse locator and the corpus fingerprint. They are swapped
// together behind one atomic pointer, so a reader always sees a consistent
// set, and reloading a corpus with an identical fingerprint keeps the existing
// index.
//
// Queries are read-only and safe for concurrent use.
package services

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/scripture-study/internal/llm"
	"github.com/tbourn/scripture-study/internal/observability"
	"github.com/tbourn/scripture-study/internal/scripture"
	"github.com/tbourn/scripture-study/internal/search"
)

// session is one loaded corpus with its derived lookups.
type session struct {
	corpus      *scripture.Corpus
	index       *search.Index
	locator     *scripture.Locator
	fingerprint string
	stats       scripture.Stats
	loadedAt    time.Time
}

// SearchSettings tune ScriptureService.Search.
type SearchSettings struct {
	MinQuery      int
	Threshold     float64
	ContextWindow int
	MaxResults    int
}

// ScriptureService answers reading, navigation and search requests against
// the active corpus.
type ScriptureService struct {
	Settings SearchSettings

	cur atomic.Pointer[session]
	mu  sync.Mutex // serializes Load
}

// NewScriptureService returns a service with no corpus loaded.
func NewScriptureService(s SearchSettings) *ScriptureService {
	return &ScriptureService{Settings: s}
}

// LoadInfo describes the active corpus.
type LoadInfo struct {
	Fingerprint string          `json:"fingerprint"`
	Stats       scripture.Stats `json:"stats"`
	Reused      bool            `json:"reused"`
	LoadedAt    time.Time       `json:"loaded_at"`
}

// Load makes c the active corpus. The index is rebuilt unless c has the same
// fingerprint as the corpus already loaded.
func (s *ScriptureService) Load(ctx context.Context, c *scripture.Corpus) LoadInfo {
	tr := otel.Tracer("services/ScriptureService")
	_, span := tr.Start(ctx, "Load")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	fp := scripture.Fingerprint(c)
	span.SetAttributes(attribute.String("corpus.fingerprint", fp))

	if prev := s.cur.Load(); prev != nil && prev.fingerprint == fp {
		observability.ObserveIndex(prev.index.Len(), true)
		return LoadInfo{Fingerprint: fp, Stats: prev.stats, Reused: true, LoadedAt: prev.loadedAt}
	}

	next := &session{
		corpus:      c,
		index:       search.NewIndexFromCorpus(c, s.indexOptions()...),
		locator:     scripture.NewLocator(c),
		fingerprint: fp,
		stats:       scripture.Count(c),
		loadedAt:    time.Now().UTC(),
	}
	s.cur.Store(next)
	observability.ObserveIndex(next.index.Len(), false)
	span.SetAttributes(attribute.Int("corpus.verses", next.stats.Verses))
	return LoadInfo{Fingerprint: fp, Stats: next.stats, LoadedAt: next.loadedAt}
}

func (s *ScriptureService) indexOptions() []search.Option {
	var opts []search.Option
	if s.Settings.MinQuery > 0 {
		opts = append(opts, search.WithMinQueryLength(s.Settings.MinQuery))
	}
	if s.Settings.Threshold > 0 {
		opts = append(opts, search.WithThreshold(s.Settings.Threshold))
	}
	return opts
}

// Info reports the active corpus, or ErrNoCorpus.
func (s *ScriptureService) Info() (LoadInfo, error) {
	cur := s.cur.Load()
	if cur == nil {
		return LoadInfo{}, ErrNoCorpus
	}
	return LoadInfo{Fingerprint: cur.fingerprint, Stats: cur.stats, LoadedAt: cur.loadedAt}, nil
}

func (s *ScriptureService) session() (*session, error) {
	cur := s.cur.Load()
	if cur == nil {
		return nil, ErrNoCorpus
	}
	return cur, nil
}

// SearchResult is one verse returned by Search, ready for display.
type SearchResult struct {
	VerseID    string               `json:"verse_id"`
	Reference  string               `json:"reference"`
	Text       string               `json:"text"`
	Score      float64              `json:"score"`
	Phrase     bool                 `json:"phrase"`
	Spans      []search.Span        `json:"spans"`
	Context    string               `json:"context"`
	Segments   []search.Segment     `json:"segments"`
	Coordinate scripture.Coordinate `json:"coordinate"`
}

// SearchResponse wraps the ranked results of one query.
type SearchResponse struct {
	Query   string         `json:"query"`
	Total   int            `json:"total"`
	Results []SearchResult `json:"results"`
	TookMs  float64        `json:"took_ms"`
}

// Search ranks verses against query. A query below the minimum length yields
// an empty response, never an error. Total counts every match; Results hold
// at most limit of them, and never more than Settings.MaxResults. limit <= 0
// applies only the latter.
//
// Each result carries a context excerpt around the first literal occurrence
// of the query, highlighted. When the query only matched approximately, the
// whole verse is returned highlighted at the matched words instead.
func (s *ScriptureService) Search(ctx context.Context, query string, limit int) (*SearchResponse, error) {
	tr := otel.Tracer("services/ScriptureService")
	_, span := tr.Start(ctx, "Search",
		trace.WithAttributes(
			attribute.Int("query.runes", utf8.RuneCountInString(query)),
			attribute.Int("limit", limit),
		),
	)
	defer span.End()

	cur, err := s.session()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	matches := cur.index.Search(query)
	took := time.Since(start)
	observability.ObserveSearch(took, len(matches), !cur.index.Accepts(query))

	total := len(matches)
	if n := s.resultCap(limit); n > 0 && len(matches) > n {
		matches = matches[:n]
	}
	span.SetAttributes(attribute.Int("results", total))

	out := &SearchResponse{
		Query:   query,
		Total:   total,
		Results: make([]SearchResult, 0, len(matches)),
		TookMs:  float64(took.Microseconds()) / 1000,
	}
	for _, m := range matches {
		out.Results = append(out.Results, s.present(cur, m, query))
	}
	return out, nil
}

// resultCap is the smaller positive value of limit and Settings.MaxResults;
// 0 means no cap.
func (s *ScriptureService) resultCap(limit int) int {
	if hi := s.Settings.MaxResults; hi > 0 && (limit <= 0 || limit > hi) {
		return hi
	}
	return max(limit, 0)
}

func (s *ScriptureService) present(cur *session, m search.Match, query string) SearchResult {
	v := m.Verse
	query = strings.TrimSpace(query)
	res := SearchResult{
		VerseID: v.ID,
		Text:    v.Text,
		Score:   m.Score,
		Phrase:  m.Phrase,
		Spans:   m.Spans,
	}
	if co, ok := cur.locator.Resolve(v.ID); ok {
		res.Coordinate = co
		res.Reference = co.String()
	}

	ex := search.ExtractContext(v.Text, query, s.Settings.ContextWindow)
	res.Context = ex.Text
	if ex.Found {
		res.Segments = search.HighlightExcerpt(v.Text, ex, query)
	} else {
		res.Segments = search.HighlightSpans(v.Text, m.Spans)
	}
	return res
}

// VolumeSummary lists a volume and its books without verse text.
type VolumeSummary struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Abbreviation string        `json:"abbreviation,omitempty"`
	Books        []BookSummary `json:"books"`
}

// BookSummary lists a book and its chapter numbers.
type BookSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	FullName     string `json:"full_name,omitempty"`
	Abbreviation string `json:"abbreviation,omitempty"`
	Chapters     []int  `json:"chapters"`
}

// Volumes returns the table of contents of the active corpus.
func (s *ScriptureService) Volumes() ([]VolumeSummary, error) {
	cur, err := s.session()
	if err != nil {
		return nil, err
	}
	out := make([]VolumeSummary, 0, len(cur.corpus.Volumes))
	for _, vol := range cur.corpus.Volumes {
		if vol == nil {
			continue
		}
		vs := VolumeSummary{ID: vol.ID, Name: vol.Name, Abbreviation: vol.Abbreviation, Books: []BookSummary{}}
		for _, b := range vol.Books {
			if b == nil {
				continue
			}
			bs := BookSummary{ID: b.ID, Name: b.Name, FullName: b.FullName, Abbreviation: b.Abbreviation, Chapters: []int{}}
			for _, ch := range b.Chapters {
				if ch != nil {
					bs.Chapters = append(bs.Chapters, ch.Chapter)
				}
			}
			vs.Books = append(vs.Books, bs)
		}
		out = append(out, vs)
	}
	return out, nil
}

// ChapterView is a chapter with its neighbors for previous/next navigation.
// Previous and Next are nil at the ends of a volume.
type ChapterView struct {
	VolumeID   string                `json:"volume_id"`
	VolumeName string                `json:"volume_name"`
	BookID     string                `json:"book_id"`
	BookName   string                `json:"book_name"`
	Chapter    *scripture.Chapter    `json:"chapter"`
	Previous   *scripture.ChapterRef `json:"previous"`
	Next       *scripture.ChapterRef `json:"next"`
}

// Chapter returns one chapter with its navigation links.
func (s *ScriptureService) Chapter(ctx context.Context, volumeID, bookID string, chapter int) (*ChapterView, error) {
	tr := otel.Tracer("services/ScriptureService")
	_, span := tr.Start(ctx, "Chapter",
		trace.WithAttributes(
			attribute.String("volume.id", volumeID),
			attribute.String("book.id", bookID),
			attribute.Int("chapter", chapter),
		),
	)
	defer span.End()

	cur, err := s.session()
	if err != nil {
		return nil, err
	}
	vol, ok := cur.corpus.Volume(volumeID)
	if !ok {
		return nil, ErrVolumeNotFound
	}
	b, ok := vol.Book(bookID)
	if !ok {
		return nil, ErrChapterNotFound
	}
	ch, ok := b.Chapter(chapter)
	if !ok {
		return nil, ErrChapterNotFound
	}
	prev, next := scripture.Neighbors(cur.corpus, volumeID, bookID, chapter)
	return &ChapterView{
		VolumeID:   vol.ID,
		VolumeName: vol.Name,
		BookID:     b.ID,
		BookName:   b.Name,
		Chapter:    ch,
		Previous:   prev,
		Next:       next,
	}, nil
}

// VerseView is a verse with its resolved address.
type VerseView struct {
	Verse      *scripture.Verse     `json:"verse"`
	Coordinate scripture.Coordinate `json:"coordinate"`
	Reference  string               `json:"reference"`
}

// Verse looks a verse up by id.
func (s *ScriptureService) Verse(verseID string) (*VerseView, error) {
	cur, err := s.session()
	if err != nil {
		return nil, err
	}
	co, ok := cur.locator.Resolve(verseID)
	if !ok {
		return nil, ErrVerseNotFound
	}
	v := s.verseAt(cur, co)
	if v == nil {
		return nil, ErrVerseNotFound
	}
	return &VerseView{Verse: v, Coordinate: co, Reference: co.String()}, nil
}

func (s *ScriptureService) verseAt(cur *session, co scripture.Coordinate) *scripture.Verse {
	vol, _ := cur.corpus.Volume(co.VolumeID)
	b, _ := vol.Book(co.BookID)
	ch, _ := b.Chapter(co.Chapter)
	v, _ := ch.Verse(co.Verse)
	return v
}

// HasVerse reports whether verseID exists in the active corpus.
func (s *ScriptureService) HasVerse(verseID string) bool {
	cur := s.cur.Load()
	if cur == nil {
		return false
	}
	_, ok := cur.locator.Resolve(verseID)
	return ok
}

// HasChapter reports whether the chapter exists in the active corpus.
func (s *ScriptureService) HasChapter(volumeID, bookID string, chapter int) bool {
	cur := s.cur.Load()
	if cur == nil {
		return false
	}
	vol, ok := cur.corpus.Volume(volumeID)
	if !ok {
		return false
	}
	b, ok := vol.Book(bookID)
	if !ok {
		return false
	}
	_, ok = b.Chapter(chapter)
	return ok
}

// CrossReference resolves the n-th (zero-based) cross-reference of a verse.
// Targets outside the loaded corpus report ErrCrossRefNotFound.
func (s *ScriptureService) CrossReference(verseID string, n int) (scripture.Coordinate, error) {
	cur, err := s.session()
	if err != nil {
		return scripture.Coordinate{}, err
	}
	co, ok := cur.locator.Resolve(verseID)
	if !ok {
		return scripture.Coordinate{}, ErrVerseNotFound
	}
	v := s.verseAt(cur, co)
	if v == nil || n < 0 || n >= len(v.CrossReferences) {
		return scripture.Coordinate{}, ErrCrossRefNotFound
	}
	target, ok := scripture.ResolveCrossReference(cur.corpus, v.CrossReferences[n])
	if !ok {
		return scripture.Coordinate{}, ErrCrossRefNotFound
	}
	return target, nil
}

// Lookup parses a citation such as "1 Nephi 3:7" and resolves it.
func (s *ScriptureService) Lookup(citation string) (scripture.Coordinate, error) {
	cur, err := s.session()
	if err != nil {
		return scripture.Coordinate{}, err
	}
	ref, err := scripture.ParseReference(citation)
	if err != nil {
		return scripture.Coordinate{}, ErrInvalidReference
	}
	co, ok := scripture.ResolveReference(cur.corpus, ref)
	if !ok {
		if ref.Verse > 0 {
			return scripture.Coordinate{}, ErrVerseNotFound
		}
		return scripture.Coordinate{}, ErrChapterNotFound
	}
	return co, nil
}

// SuggestBooks returns fuzzy book-name matches for a partial query.
func (s *ScriptureService) SuggestBooks(query string, limit int) ([]scripture.BookSuggestion, error) {
	cur, err := s.session()
	if err != nil {
		return nil, err
	}
	out := scripture.SuggestBooks(cur.corpus, query, limit)
	if out == nil {
		out = []scripture.BookSuggestion{}
	}
	return out, nil
}

// FindPassage returns the best matching verse for query. It lets the
// offline generator answer chat messages from the active corpus.
//
// Questions are reduced to keywords first, so "what is faith?" searches for
// "faith". When the keywords alone find nothing, the full text is tried.
func (s *ScriptureService) FindPassage(ctx context.Context, query string) (llm.Passage, bool, error) {
	resp, err := s.Search(ctx, simplifyQuery(query), 1)
	if err != nil {
		return llm.Passage{}, false, err
	}
	if len(resp.Results) == 0 {
		if resp, err = s.Search(ctx, query, 1); err != nil {
			return llm.Passage{}, false, err
		}
	}
	if len(resp.Results) == 0 {
		return llm.Passage{}, false, nil
	}
	r := resp.Results[0]
	return llm.Passage{VerseID: r.VerseID, Reference: r.Reference, Text: r.Text}, true, nil
}

// qwordRE matches words (letters/digits) for keyword extraction.
var qwordRE = regexp.MustCompile(`[\p{L}\p{N}]+`)

// qStop holds question words dropped when reducing a question to keywords.
var qStop = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "of": {}, "to": {}, "in": {},
	"is": {}, "are": {}, "for": {}, "on": {}, "with": {}, "by": {}, "from": {},
	"at": {}, "as": {}, "that": {}, "this": {}, "it": {}, "be": {}, "was": {}, "were": {},
	"how": {}, "do": {}, "does": {}, "did": {}, "what": {}, "which": {}, "who": {}, "why": {},
	"where": {}, "when": {}, "can": {}, "i": {}, "me": {}, "my": {}, "you": {}, "your": {},
	"about": {}, "tell": {}, "say": {}, "says": {}, "verse": {}, "scripture": {},
}

// simplifyQuery converts a natural-language question into a compact keyword
// string. When every word is a stop-word the original words are kept.
func simplifyQuery(s string) string {
	toks := qwordRE.FindAllString(strings.ToLower(s), -1)
	if len(toks) == 0 {
		return ""
	}
	keep := make([]string, 0, len(toks))
	for _, t := range toks {
		if _, stop := qStop[t]; stop {
			continue
		}
		keep = append(keep, t)
	}
	if len(keep) == 0 {
		return strings.Join(toks, " ")
	}
	return strings.Join(keep, " ")
}
