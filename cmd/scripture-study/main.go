// Command scripture-study runs the scripture study server and its terminal
// tools.
//
//	@title						Scripture Study API
//	@version					1.0
//	@description				Full-text scripture search, chapter navigation, personal study notes and a study chat assistant.
//	@BasePath					/api/v1
//	@schemes					http https
//	@accept						json
//	@produce					json
//	@securityDefinitions.apikey	UserID
//	@in							header
//	@name						X-User-ID
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	httpapi "github.com/tbourn/scripture-study/internal/http"
	"github.com/tbourn/scripture-study/internal/observability"
	"github.com/tbourn/scripture-study/internal/repo"
	"github.com/tbourn/scripture-study/internal/search"
	"github.com/tbourn/scripture-study/internal/services"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 10 * time.Second

type cli struct {
	Globals

	Version kong.VersionFlag `short:"v" help:"Print the version and exit."`

	Serve  ServeCmd  `cmd:"" help:"Run the HTTP API, chat socket and web client."`
	Chat   ChatCmd   `cmd:"" help:"Chat with the study assistant in the terminal."`
	Search SearchCmd `cmd:"" help:"Search the corpus and print matching verses."`
}

func newParser(c *cli, opts ...kong.Option) (*kong.Kong, error) {
	base := []kong.Option{
		kong.Name("scripture-study"),
		kong.Description("Scripture search, navigation and study assistant."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": version},
	}
	return kong.New(c, append(base, opts...)...)
}

func main() {
	var c cli
	parser, err := newParser(&c)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)
	ctx.FatalIfErrorf(ctx.Run(&c.Globals))
}

// ServeCmd runs the HTTP server until SIGINT or SIGTERM.
type ServeCmd struct{}

func (s *ServeCmd) Run(g *Globals) error {
	cfg, err := g.config()
	if err != nil {
		return err
	}
	g.setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.OTEL, version)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn().Err(err).Msg("tracing shutdown")
		}
	}()

	opts := []repo.Option{repo.WithTracing()}
	if cfg.LogLevel != "debug" {
		opts = append(opts, repo.WithSilentLogger())
	}
	db, err := repo.OpenSQLite(cfg.DBPath, opts...)
	if err != nil {
		return fmt.Errorf("open database %q: %w", cfg.DBPath, err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := repo.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	scr, err := newScripture(ctx, cfg)
	if err != nil {
		return err
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, httpapi.Deps{
		DB:        db,
		Scripture: scr,
		Replier:   newReplier(cfg, scr),
	}, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("api", cfg.APIBasePath).
			Str("generator", cfg.Chat.Generator).
			Str("version", version).
			Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// ChatCmd runs an interactive chat on stdin and stdout.
type ChatCmd struct{}

func (c *ChatCmd) Run(g *Globals) error {
	cfg, err := g.config()
	if err != nil {
		return err
	}
	g.setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scr, err := newScripture(ctx, cfg)
	if err != nil {
		return err
	}
	conv := services.NewConversation(newReplier(cfg, scr), cfg.Chat.HistoryTurns)
	return runChat(ctx, conv, g.stdin(), g.stdout())
}

// SearchCmd prints ranked verses for a query.
type SearchCmd struct {
	Query []string `arg:"" help:"Words or phrase to search for."`
	Limit int      `short:"n" default:"10" help:"Maximum results to print (0 prints all)."`
	JSON  bool     `help:"Print the raw response as JSON."`
}

func (s *SearchCmd) Run(g *Globals) error {
	cfg, err := g.config()
	if err != nil {
		return err
	}
	g.setupLogging(cfg)

	ctx := context.Background()
	scr, err := newScripture(ctx, cfg)
	if err != nil {
		return err
	}
	resp, err := scr.Search(ctx, strings.Join(s.Query, " "), s.Limit)
	if err != nil {
		return err
	}

	out := g.stdout()
	if s.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	printResults(out, resp)
	return nil
}

func printResults(w io.Writer, resp *services.SearchResponse) {
	if resp.Total == 0 {
		fmt.Fprintf(w, "No verses match %q.\n", resp.Query)
		return
	}
	fmt.Fprintf(w, "%d match(es) for %q\n", resp.Total, resp.Query)
	for i, r := range resp.Results {
		fmt.Fprintf(w, "%2d. %s\n    %s\n", i+1, r.Reference, renderSegments(r.Segments, r.Context))
	}
}

// renderSegments brackets matched runs, e.g. "by [faith] we".
func renderSegments(segs []search.Segment, fallback string) string {
	if len(segs) == 0 {
		return fallback
	}
	var b strings.Builder
	for _, s := range segs {
		if s.IsMatch {
			b.WriteString("[" + s.Text + "]")
			continue
		}
		b.WriteString(s.Text)
	}
	return b.String()
}
