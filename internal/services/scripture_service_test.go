package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tbourn/scripture-study/internal/scripture"
	"github.com/tbourn/scripture-study/internal/scripture/bundled"
	"github.com/tbourn/scripture-study/internal/search"
)

func newScriptureService(t *testing.T) *ScriptureService {
	t.Helper()
	c, err := bundled.Corpus()
	if err != nil {
		t.Fatalf("bundled corpus: %v", err)
	}
	s := NewScriptureService(SearchSettings{MinQuery: 3, Threshold: 0.5, ContextWindow: 20})
	s.Load(context.Background(), c)
	return s
}

func TestScriptureService_NoCorpus(t *testing.T) {
	s := NewScriptureService(SearchSettings{})
	if _, err := s.Search(context.Background(), "faith", 0); !errors.Is(err, ErrNoCorpus) {
		t.Fatalf("Search: expected ErrNoCorpus, got %v", err)
	}
	if _, err := s.Info(); !errors.Is(err, ErrNoCorpus) {
		t.Fatalf("Info: expected ErrNoCorpus, got %v", err)
	}
	if s.HasVerse("1-nephi-1-1") || s.HasChapter("bom", "1-nephi", 1) {
		t.Fatalf("nothing exists before a corpus is loaded")
	}
}

func TestScriptureService_LoadReusesIdenticalCorpus(t *testing.T) {
	s := newScriptureService(t)
	first, err := s.Info()
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if first.Stats.Verses != 10 || len(first.Fingerprint) != 64 {
		t.Fatalf("Info = %+v", first)
	}

	again, _ := bundled.Corpus()
	info := s.Load(context.Background(), again)
	if !info.Reused || info.Fingerprint != first.Fingerprint {
		t.Fatalf("reload of identical content should reuse the index: %+v", info)
	}

	again.Volumes[0].Books = again.Volumes[0].Books[:1]
	info = s.Load(context.Background(), again)
	if info.Reused || info.Stats.Books != 1 {
		t.Fatalf("changed corpus should rebuild: %+v", info)
	}
	if s.HasVerse("alma-32-21") {
		t.Fatalf("locator must follow the new corpus")
	}
}

func TestScriptureService_Search(t *testing.T) {
	s := newScriptureService(t)

	resp, err := s.Search(context.Background(), "goodly", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.Total == 0 || resp.Results[0].VerseID != "1-nephi-1-1" {
		t.Fatalf("results = %+v", resp.Results)
	}
	r := resp.Results[0]
	if r.Reference != "1 Nephi 1:1" || r.Coordinate.BookID != "1-nephi" {
		t.Fatalf("result address = %q %+v", r.Reference, r.Coordinate)
	}
	if !strings.HasPrefix(r.Context, "...") || !strings.HasSuffix(r.Context, "...") {
		t.Fatalf("context should be truncated on both sides: %q", r.Context)
	}
	var marked []string
	for _, seg := range r.Segments {
		if seg.IsMatch {
			marked = append(marked, seg.Text)
		}
	}
	if len(marked) != 1 || marked[0] != "goodly" {
		t.Fatalf("highlighted = %v", marked)
	}
}

func TestScriptureService_Search_FuzzyHighlightsWholeVerse(t *testing.T) {
	s := newScriptureService(t)

	resp, err := s.Search(context.Background(), "goodlly", 0)
	if err != nil || len(resp.Results) == 0 {
		t.Fatalf("Search = %+v, %v", resp, err)
	}
	r := resp.Results[0]
	if r.Context != r.Text {
		t.Fatalf("approximate match should return the whole verse as context")
	}
	found := false
	for _, seg := range r.Segments {
		if seg.IsMatch && seg.Text == "goodly" {
			found = true
		}
	}
	if !found {
		t.Fatalf("segments should mark the matched word: %+v", r.Segments)
	}
}

func TestScriptureService_Search_ShortQueryAndLimit(t *testing.T) {
	s := newScriptureService(t)

	resp, err := s.Search(context.Background(), " go ", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.Total != 0 || len(resp.Results) != 0 {
		t.Fatalf("short query should return nothing: %+v", resp)
	}

	resp, err = s.Search(context.Background(), "faith", 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.Total != 2 || len(resp.Results) != 1 || resp.Results[0].VerseID != "alma-32-21" {
		t.Fatalf("limited results = total %d, %+v", resp.Total, resp.Results)
	}
}

func TestScriptureService_Search_MaxResultsCapsPageNotTotal(t *testing.T) {
	c, err := bundled.Corpus()
	if err != nil {
		t.Fatal(err)
	}
	s := NewScriptureService(SearchSettings{MaxResults: 1})
	s.Load(context.Background(), c)

	for _, limit := range []int{0, 1, 5} {
		resp, err := s.Search(context.Background(), "faith", limit)
		if err != nil {
			t.Fatalf("Search(limit=%d): %v", limit, err)
		}
		if resp.Total != 2 || len(resp.Results) != 1 {
			t.Fatalf("limit=%d: total %d, %d results", limit, resp.Total, len(resp.Results))
		}
	}
}

// oneBookCorpus holds a single volume with one book of two chapters.
const oneBookCorpus = `{"volumes":[{"id":"bom","name":"Book of Mormon","books":[
	{"name":"1 Nephi","chapters":[
		{"chapter":1,"verses":[
			{"verse":1,"text":"I, Nephi, having been born of goodly parents, therefore I was taught somewhat in all the learning of my father"},
			{"verse":2,"text":"Yea, I make a record in the language of my father"}
		]},
		{"chapter":2,"verses":[
			{"verse":1,"text":"For behold, it came to pass that the Lord spake unto my father, even in a dream"}
		]}
	]}
]}]}`

func TestScriptureService_Search_OneBookCorpus(t *testing.T) {
	c, err := scripture.Load(strings.NewReader(oneBookCorpus))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	s := NewScriptureService(SearchSettings{})
	s.Load(context.Background(), c)

	resp, err := s.Search(context.Background(), "goodly", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.Total != 1 || len(resp.Results) != 1 {
		t.Fatalf("want exactly one result, got total %d: %+v", resp.Total, resp.Results)
	}
	r := resp.Results[0]
	if r.VerseID != "1-nephi-1-1" || r.Reference != "1 Nephi 1:1" {
		t.Fatalf("result = %s (%s)", r.VerseID, r.Reference)
	}
	if !strings.Contains(r.Context, "goodly parents,") {
		t.Fatalf("context = %q", r.Context)
	}
	covered := false
	for _, sp := range r.Spans {
		if r.Text[sp.Start:sp.End] == "goodly" {
			covered = true
		}
	}
	if !covered {
		t.Fatalf("no span marks goodly: %+v", r.Spans)
	}
	last := r.Segments[len(r.Segments)-1]
	if last.Text != search.Ellipsis || last.IsMatch {
		t.Fatalf("trailing marker = %+v", last)
	}

	none, err := s.Search(context.Background(), "xyzxyz", 0)
	if err != nil || none.Total != 0 || len(none.Results) != 0 {
		t.Fatalf("xyzxyz = %+v, %v", none, err)
	}
}

func TestScriptureService_Chapter(t *testing.T) {
	s := newScriptureService(t)
	ctx := context.Background()

	v, err := s.Chapter(ctx, "bom", "1-nephi", 1)
	if err != nil {
		t.Fatalf("Chapter: %v", err)
	}
	if v.Previous != nil {
		t.Fatalf("first chapter of the volume has no previous, got %+v", v.Previous)
	}
	if v.Next == nil || *v.Next != (scripture.ChapterRef{VolumeID: "bom", BookID: "1-nephi", Chapter: 2}) {
		t.Fatalf("next = %+v", v.Next)
	}
	if len(v.Chapter.Verses) != 3 || v.BookName != "1 Nephi" {
		t.Fatalf("chapter view = %+v", v)
	}

	v, err = s.Chapter(ctx, "bom", "1-nephi", 3)
	if err != nil {
		t.Fatalf("Chapter: %v", err)
	}
	if v.Next == nil || v.Next.BookID != "2-nephi" || v.Next.Chapter != 2 {
		t.Fatalf("next across books = %+v", v.Next)
	}

	v, err = s.Chapter(ctx, "bom", "moroni", 10)
	if err != nil || v.Next != nil {
		t.Fatalf("last chapter = %+v, %v", v, err)
	}

	if _, err := s.Chapter(ctx, "ot", "genesis", 1); !errors.Is(err, ErrVolumeNotFound) {
		t.Fatalf("expected ErrVolumeNotFound, got %v", err)
	}
	if _, err := s.Chapter(ctx, "bom", "alma", 1); !errors.Is(err, ErrChapterNotFound) {
		t.Fatalf("expected ErrChapterNotFound, got %v", err)
	}
	if _, err := s.Chapter(ctx, "bom", "nope", 1); !errors.Is(err, ErrChapterNotFound) {
		t.Fatalf("expected ErrChapterNotFound for unknown book, got %v", err)
	}
}

func TestScriptureService_VolumesAndVerse(t *testing.T) {
	s := newScriptureService(t)

	vols, err := s.Volumes()
	if err != nil || len(vols) != 1 {
		t.Fatalf("Volumes = %+v, %v", vols, err)
	}
	if len(vols[0].Books) != 5 || vols[0].Books[0].Chapters[2] != 3 {
		t.Fatalf("books = %+v", vols[0].Books)
	}

	vv, err := s.Verse("1-nephi-3-7")
	if err != nil {
		t.Fatalf("Verse: %v", err)
	}
	if vv.Reference != "1 Nephi 3:7" || vv.Verse.Verse != 7 {
		t.Fatalf("verse view = %+v", vv)
	}
	if _, err := s.Verse("1-nephi-9-9"); !errors.Is(err, ErrVerseNotFound) {
		t.Fatalf("expected ErrVerseNotFound, got %v", err)
	}
}

func TestScriptureService_CrossReference(t *testing.T) {
	s := newScriptureService(t)

	co, err := s.CrossReference("1-nephi-3-7", 1)
	if err != nil {
		t.Fatalf("CrossReference: %v", err)
	}
	if co.VerseID != "1-nephi-2-2" {
		t.Fatalf("target = %+v", co)
	}
	for _, n := range []int{0, 2, 3, -1} {
		if _, err := s.CrossReference("1-nephi-3-7", n); !errors.Is(err, ErrCrossRefNotFound) {
			t.Errorf("xref %d: expected ErrCrossRefNotFound, got %v", n, err)
		}
	}
	if _, err := s.CrossReference("missing", 0); !errors.Is(err, ErrVerseNotFound) {
		t.Fatalf("expected ErrVerseNotFound, got %v", err)
	}
}

func TestScriptureService_LookupAndSuggest(t *testing.T) {
	s := newScriptureService(t)

	co, err := s.Lookup("Alma 32:21")
	if err != nil || co.VerseID != "alma-32-21" {
		t.Fatalf("Lookup = %+v, %v", co, err)
	}
	if _, err := s.Lookup("Alma 99"); !errors.Is(err, ErrChapterNotFound) {
		t.Fatalf("expected ErrChapterNotFound, got %v", err)
	}
	if _, err := s.Lookup("Alma 32:99"); !errors.Is(err, ErrVerseNotFound) {
		t.Fatalf("expected ErrVerseNotFound, got %v", err)
	}
	if _, err := s.Lookup("   "); !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("expected ErrInvalidReference, got %v", err)
	}

	sug, err := s.SuggestBooks("mos", 5)
	if err != nil || len(sug) == 0 || sug[0].BookID != "mosiah" {
		t.Fatalf("SuggestBooks = %+v, %v", sug, err)
	}
	sug, err = s.SuggestBooks("", 5)
	if err != nil || sug == nil || len(sug) != 0 {
		t.Fatalf("empty query should give an empty list, got %+v, %v", sug, err)
	}
}

func TestScriptureService_FindPassage(t *testing.T) {
	s := newScriptureService(t)

	p, ok, err := s.FindPassage(context.Background(), "What is faith?")
	if err != nil || !ok {
		t.Fatalf("FindPassage = %v, %v", ok, err)
	}
	if p.VerseID != "alma-32-21" || p.Reference != "Alma 32:21" {
		t.Fatalf("passage = %+v", p)
	}

	_, ok, err = s.FindPassage(context.Background(), "xyzzy qwerty")
	if err != nil || ok {
		t.Fatalf("nonsense should find nothing, got %v, %v", ok, err)
	}
}

func TestSimplifyQuery(t *testing.T) {
	cases := []struct{ in, want string }{
		{"What is faith?", "faith"},
		{"tell me about Nephi", "nephi"},
		{"what is it", "what is it"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := simplifyQuery(tc.in); got != tc.want {
			t.Errorf("simplifyQuery(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}
