package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/scripture-study/internal/config"
	"github.com/tbourn/scripture-study/internal/llm"
	"github.com/tbourn/scripture-study/internal/scripture"
	"github.com/tbourn/scripture-study/internal/scripture/bundled"
	"github.com/tbourn/scripture-study/internal/services"
	"github.com/tbourn/scripture-study/internal/sysutil"
)

// Globals are flags shared by every command.
type Globals struct {
	EnvFile string `name:"env-file" default:".env" help:"Dotenv file loaded before reading the environment. Missing files are ignored."`
	Corpus  string `name:"corpus" help:"Corpus JSON file (.json or .json.xz). Overrides CORPUS_PATH."`
	Pretty  bool   `name:"pretty" help:"Human-readable console logs. Overrides LOG_PRETTY."`

	Stdin  io.Reader `kong:"-"`
	Stdout io.Writer `kong:"-"`
	Stderr io.Writer `kong:"-"`
}

// config loads the dotenv file, then the environment, then applies flag
// overrides.
func (g *Globals) config() (config.Config, error) {
	if g.EnvFile != "" {
		if err := godotenv.Load(g.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return config.Config{}, fmt.Errorf("load %s: %w", g.EnvFile, err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if g.Corpus != "" {
		cfg.CorpusPath = g.Corpus
	}
	if g.Pretty {
		cfg.LogPretty = true
	}
	return cfg, nil
}

func (g *Globals) setupLogging(cfg config.Config) {
	w := g.Stderr
	if w == nil {
		w = os.Stderr
	}
	sysutil.ConfigureLogging(cfg.LogLevel, cfg.LogPretty, w)
}

func (g *Globals) stdin() io.Reader {
	if g.Stdin != nil {
		return g.Stdin
	}
	return os.Stdin
}

func (g *Globals) stdout() io.Writer {
	if g.Stdout != nil {
		return g.Stdout
	}
	return os.Stdout
}

func loadCorpus(path string) (*scripture.Corpus, error) {
	if path == "" {
		return bundled.Corpus()
	}
	return scripture.LoadFile(path)
}

func newScripture(ctx context.Context, cfg config.Config) (*services.ScriptureService, error) {
	c, err := loadCorpus(cfg.CorpusPath)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	s := services.NewScriptureService(services.SearchSettings{
		MinQuery:      cfg.Search.MinQuery,
		Threshold:     cfg.Search.Threshold,
		ContextWindow: cfg.Search.ContextWindow,
		MaxResults:    cfg.Search.MaxResults,
	})
	info := s.Load(ctx, c)

	src := cfg.CorpusPath
	if src == "" {
		src = "bundled"
	}
	log.Info().
		Str("source", src).
		Str("fingerprint", info.Fingerprint).
		Int("verses", info.Stats.Verses).
		Msg("corpus loaded")
	return s, nil
}

func newGenerator(cfg config.ChatConfig, finder llm.PassageFinder) llm.Generator {
	if cfg.Generator == "ollama" {
		return llm.NewOllama(cfg.OllamaURL, cfg.Model, cfg.Timeout)
	}
	return llm.Scripture{Finder: finder}
}

func newReplier(cfg config.Config, scr *services.ScriptureService) *services.Replier {
	return &services.Replier{
		Generator:    newGenerator(cfg.Chat, scr),
		Filter:       services.NewContentFilter(services.DefaultBannedWords),
		MaxNewTokens: cfg.Chat.MaxNewTokens,
		Timeout:      cfg.Chat.Timeout,
	}
}

const chatHelp = `Commands:
  help   show this message
  clear  forget the conversation so far
  exit   leave (also: quit)
Anything else is sent to the assistant.`

// runChat is the terminal chat loop. It returns on exit, end of input or
// context cancellation.
func runChat(ctx context.Context, conv *services.Conversation, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, `Scripture study chat. Type "help" for commands.`)

	sc := bufio.NewScanner(in)
	for ctx.Err() == nil {
		fmt.Fprint(out, "You: ")
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "exit", "quit":
			fmt.Fprintln(out, "Goodbye.")
			return nil
		case "help":
			fmt.Fprintln(out, chatHelp)
			continue
		case "clear":
			conv.Clear()
			fmt.Fprintln(out, "Conversation cleared.")
			continue
		}

		rep := conv.Send(ctx, line)
		fmt.Fprintf(out, "Bot: %s\n", rep.Text)
	}
	return nil
}
