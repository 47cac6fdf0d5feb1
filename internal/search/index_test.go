package search_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tbourn/scripture-study/internal/scripture"
	"github.com/tbourn/scripture-study/internal/scripture/bundled"
	"github.com/tbourn/scripture-study/internal/search"
)

func sampleIndex(t *testing.T, opts ...search.Option) (*search.Index, []*scripture.Verse) {
	t.Helper()
	c, err := bundled.Corpus()
	require.NoError(t, err)
	verses := scripture.Flatten(c)
	return search.NewIndex(verses, opts...), verses
}

func ids(ms []search.Match) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.Verse.ID)
	}
	return out
}

func TestSearch_LiteralWord(t *testing.T) {
	ix, _ := sampleIndex(t)
	got := ix.Search("goodly")
	require.NotEmpty(t, got)
	require.Equal(t, "1-nephi-1-1", got[0].Verse.ID)
	require.True(t, got[0].Phrase)

	text := got[0].Verse.Text
	var marked []string
	for _, sp := range got[0].Spans {
		marked = append(marked, text[sp.Start:sp.End])
	}
	require.Contains(t, marked, "goodly")
}

func TestSearch_NoMatch(t *testing.T) {
	ix, _ := sampleIndex(t)
	require.Empty(t, ix.Search("xyzxyz"))
}

func TestSearch_ShortQueries(t *testing.T) {
	ix, _ := sampleIndex(t)
	for _, q := range []string{"", "  ", "go", " a b ", "\tI\n"} {
		require.Nil(t, ix.Search(q), "%q", q)
	}
	require.NotEmpty(t, ix.Search(" God "))

	relaxed, _ := sampleIndex(t, search.WithMinQueryLength(2))
	require.Empty(t, relaxed.Search("zq"))
}

func TestSearch_QueryIsNeverAPattern(t *testing.T) {
	ix, _ := sampleIndex(t)
	require.Empty(t, ix.Search("g.*y"))
	require.Empty(t, ix.Search("(.*)"))
	require.Empty(t, ix.Search("[x-z]+"))

	v := &scripture.Verse{ID: "x-1-1", Text: "match (.*) literally"}
	lit := search.NewIndex([]*scripture.Verse{v})
	got := lit.Search("(.*)")
	require.Len(t, got, 1)
	require.Equal(t, []search.Span{{Start: 6, End: 10}}, got[0].Spans)
}

func TestSearch_TypoStemAndPrefix(t *testing.T) {
	ix, _ := sampleIndex(t)

	require.Contains(t, ids(ix.Search("goodlly")), "1-nephi-1-1")
	require.Contains(t, ids(ix.Search("blessing")), "1-nephi-2-1")
	require.Contains(t, ids(ix.Search("know")), "alma-32-21")
	require.Contains(t, ids(ix.Search("wildernes")), "1-nephi-2-2")

	strict, _ := sampleIndex(t, search.WithMaxEdits(0))
	require.NotContains(t, ids(strict.Search("goodlly")), "1-nephi-1-1")

	nostem, _ := sampleIndex(t, search.WithStemming(false), search.WithMaxEdits(0))
	require.NotContains(t, ids(nostem.Search("blessing")), "1-nephi-2-1")
}

func TestSearch_Ordering(t *testing.T) {
	ix, _ := sampleIndex(t)
	require.Equal(t, []string{"alma-32-21", "moroni-10-4"}, ids(ix.Search("faith")))

	got := ix.Search("record")
	require.GreaterOrEqual(t, len(got), 3)
	for i := 1; i < len(got); i++ {
		prev, cur := got[i-1], got[i]
		require.True(t, prev.Score > cur.Score ||
			(prev.Score == cur.Score && prev.Position < cur.Position),
			"results %d and %d out of order", i-1, i)
	}
}

func TestSearch_PhraseOutranksScatteredTerms(t *testing.T) {
	ix, _ := sampleIndex(t)
	got := ix.Search("the Lord commanded")
	require.NotEmpty(t, got)
	require.Equal(t, "1-nephi-2-2", got[0].Verse.ID)
	require.True(t, got[0].Phrase)
}

func TestSearch_Threshold(t *testing.T) {
	ix, _ := sampleIndex(t)
	require.Contains(t, ids(ix.Search("goodly xylophone")), "1-nephi-1-1")

	strict, _ := sampleIndex(t, search.WithThreshold(1))
	require.Empty(t, strict.Search("goodly xylophone"))
}

func TestSearch_StopwordsAndFolding(t *testing.T) {
	ix, _ := sampleIndex(t, search.WithStopwords([]string{"the", "of"}))
	got := ix.Search("the goodly")
	require.NotEmpty(t, got)
	require.Equal(t, "1-nephi-1-1", got[0].Verse.ID)

	// A query of only stop-words still searches.
	require.NotEmpty(t, ix.Search("the of"))

	got = ix.Search("NÉPHI")
	require.Equal(t, []string{"1-nephi-1-1", "1-nephi-3-7"}, ids(got))
}

func TestSearch_MaxResultsAndDeterminism(t *testing.T) {
	ix, _ := sampleIndex(t)
	all := ix.Search("Lord")
	require.Greater(t, len(all), 2)
	require.Equal(t, all, ix.Search("Lord"))

	capped, _ := sampleIndex(t, search.WithMaxResults(2))
	require.Equal(t, ids(all[:2]), ids(capped.Search("Lord")))
}

func TestSearch_EmptyIndex(t *testing.T) {
	require.Nil(t, search.NewIndex(nil).Search("goodly"))
	require.Nil(t, search.NewIndexFromCorpus(&scripture.Corpus{}).Search("goodly"))

	var nilIx *search.Index
	require.Nil(t, nilIx.Search("goodly"))

	withNil := search.NewIndex([]*scripture.Verse{nil, {ID: "a", Text: "goodly"}})
	require.Equal(t, 2, withNil.Len())
	got := withNil.Search("goodly")
	require.Len(t, got, 1)
	require.Equal(t, 1, got[0].Position)
}

func TestSearch_OnlyVerseText(t *testing.T) {
	v := &scripture.Verse{ID: "faith-1-1", Book: "Faith", Text: "nothing to see"}
	ix := search.NewIndex([]*scripture.Verse{v})
	require.Empty(t, ix.Search("faith"))
}

func TestSearch_Concurrent(t *testing.T) {
	ix, _ := sampleIndex(t)
	want := ix.Search("father")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if got := ix.Search("father"); len(got) != len(want) {
					t.Errorf("got %d results, want %d", len(got), len(want))
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestSearch_SpansAreSortedAndDisjoint(t *testing.T) {
	ix, verses := sampleIndex(t)
	for _, q := range []string{"the Lord", "faith hope", "make a record", "father"} {
		for _, m := range ix.Search(q) {
			require.Same(t, verses[m.Position], m.Verse)
			for i, sp := range m.Spans {
				require.Less(t, sp.Start, sp.End)
				require.LessOrEqual(t, sp.End, len(m.Verse.Text))
				if i > 0 {
					require.Less(t, m.Spans[i-1].End, sp.Start, "%q in %s", q, m.Verse.ID)
				}
			}
			require.NotEmpty(t, strings.TrimSpace(m.Verse.Text[m.Spans[0].Start:m.Spans[0].End]))
		}
	}
}
