package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOllama_Generate(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/generate", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body ollamaGenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "llama3.2", body.Model)
		require.Equal(t, "\nUser: hi\nAssistant:", body.Prompt)
		require.False(t, body.Stream)
		require.EqualValues(t, 150, body.Options["num_predict"])

		_, _ = io.WriteString(w, `{"model":"llama3.2","response":"  hello there \n","done":true}`)
	}))
	defer srv.Close()

	o := NewOllama(srv.URL+"/", "llama3.2", time.Second)
	require.Equal(t, "ollama", o.Name())

	res, err := o.Generate(context.Background(), Request{Prompt: "\nUser: hi\nAssistant:", MaxTokens: 150})
	require.NoError(t, err)
	require.Equal(t, "hello there", res.Text)
	require.Equal(t, "llama3.2", res.Model)
}

func TestOllama_Errors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body ollamaGenerateRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		switch body.Prompt {
		case "status":
			http.Error(w, "model not found", http.StatusNotFound)
		case "empty":
			_, _ = io.WriteString(w, `{"response":"   "}`)
		case "garbage":
			_, _ = io.WriteString(w, `not json`)
		}
	}))
	defer srv.Close()

	o := NewOllama(srv.URL, "m", time.Second)

	_, err := o.Generate(context.Background(), Request{Prompt: "status"})
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "status 404"), err.Error())

	_, err = o.Generate(context.Background(), Request{Prompt: "empty"})
	require.True(t, errors.Is(err, ErrEmptyReply))

	_, err = o.Generate(context.Background(), Request{Prompt: "garbage"})
	require.ErrorContains(t, err, "decode response")

	_, err = NewOllama(srv.URL, "", time.Second).Generate(context.Background(), Request{Prompt: "x"})
	require.ErrorContains(t, err, "model is required")
}

func TestOllama_RespectsContext(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := NewOllama(srv.URL, "m", 0).Generate(ctx, Request{Prompt: "x"})
	require.ErrorContains(t, err, "send request")
}

func TestNewOllama_Defaults(t *testing.T) {
	o := NewOllama("", "m", 0)
	require.Equal(t, "http://localhost:11434", o.baseURL)
	require.Equal(t, 45*time.Second, o.client.Timeout)
}
