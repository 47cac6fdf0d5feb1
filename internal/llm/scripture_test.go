package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type finderFunc func(ctx context.Context, q string) (Passage, bool, error)

func (f finderFunc) FindPassage(ctx context.Context, q string) (Passage, bool, error) {
	return f(ctx, q)
}

func TestScripture_Generate(t *testing.T) {
	var gotQuery string
	g := Scripture{Finder: finderFunc(func(_ context.Context, q string) (Passage, bool, error) {
		gotQuery = q
		if q == "nothing" {
			return Passage{}, false, nil
		}
		if q == "broken" {
			return Passage{}, false, errors.New("no corpus")
		}
		return Passage{VerseID: "alma-32-21", Reference: "Alma 32:21", Text: "faith is not to have a perfect knowledge"}, true, nil
	})}
	require.Equal(t, "scripture", g.Name())

	res, err := g.Generate(context.Background(), Request{Prompt: "\nUser: what is faith\nAssistant:", Query: " what is faith "})
	require.NoError(t, err)
	require.Equal(t, "what is faith", gotQuery)
	require.Equal(t, "Alma 32:21: faith is not to have a perfect knowledge", res.Text)
	require.Equal(t, "alma-32-21", res.VerseID)

	res, err = g.Generate(context.Background(), Request{Prompt: "nothing"})
	require.NoError(t, err)
	require.Equal(t, NoPassageReply, res.Text)
	require.Empty(t, res.VerseID)

	_, err = g.Generate(context.Background(), Request{Query: "broken"})
	require.Error(t, err)

	_, err = Scripture{}.Generate(context.Background(), Request{Query: "x"})
	require.Error(t, err)
}

func TestFunc_Adapts(t *testing.T) {
	var g Generator = Func(func(_ context.Context, req Request) (Response, error) {
		return Response{Text: req.Query}, nil
	})
	res, err := g.Generate(context.Background(), Request{Query: "echo"})
	require.NoError(t, err)
	require.Equal(t, "echo", res.Text)
	require.Equal(t, "func", g.Name())
}
