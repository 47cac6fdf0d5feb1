// Package httpapi wires the Gin engine: middleware, the JSON API, the chat
// socket, the bundled HTML client, health checks, metrics and API docs.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	_ "github.com/tbourn/scripture-study/docs"
	"github.com/tbourn/scripture-study/internal/config"
	"github.com/tbourn/scripture-study/internal/domain"
	"github.com/tbourn/scripture-study/internal/http/handlers"
	"github.com/tbourn/scripture-study/internal/http/middleware"
	"github.com/tbourn/scripture-study/internal/repo"
	"github.com/tbourn/scripture-study/internal/services"
)

const (
	routeSocket  = "/ws/chat"
	routeMetrics = "/metrics"
	routeHealth  = "/health"
	routeReady   = "/ready"
	routeClient  = "/"

	maxBodyBytes = 1 << 20
)

// chatRepoShim adapts the repo functions to services.ChatRepo.
type chatRepoShim struct{}

func (chatRepoShim) CreateChat(ctx context.Context, db *gorm.DB, userID, title string) (*domain.Chat, error) {
	return repo.CreateChat(ctx, db, userID, title)
}

func (chatRepoShim) GetChat(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Chat, error) {
	return repo.GetChat(ctx, db, id, userID)
}

func (chatRepoShim) UpdateChatTitle(ctx context.Context, db *gorm.DB, id, userID, title string) error {
	return repo.UpdateChatTitle(ctx, db, id, userID, title)
}

func (chatRepoShim) CountChats(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	return repo.CountChats(ctx, db, userID)
}

func (chatRepoShim) ListChatsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Chat, error) {
	return repo.ListChatsPage(ctx, db, userID, offset, limit)
}

func (chatRepoShim) DeleteChat(ctx context.Context, db *gorm.DB, id, userID string) error {
	return repo.DeleteChat(ctx, db, id, userID)
}

// Deps are the long-lived objects the routes are built on.
type Deps struct {
	DB        *gorm.DB
	Scripture *services.ScriptureService
	// Replier answers both persisted chats and socket sessions.
	Replier *services.Replier
}

// RegisterRoutes installs middleware and every endpoint on r.
//
// Middleware order:
//  1. otelgin tracing
//  2. RequestID, Identity
//  3. Logger (redacted), Recovery
//  4. body limit, gzip
//  5. Prometheus metrics
//  6. rate limiter
//  7. CORS, security headers
func RegisterRoutes(r *gin.Engine, deps Deps, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID(), middleware.Identity())
	r.Use(middleware.Logger(middleware.LogOptions{
		Redact:    middleware.NewRedactor("X-Api-Key"),
		SkipPaths: []string{routeMetrics, routeHealth, routeReady},
	}))
	r.Use(middleware.Recovery())
	r.Use(limitBody(maxBodyBytes))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{routeSocket, routeMetrics})))
	r.Use(middleware.Metrics(routeSocket, routeMetrics))
	r.Use(middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP(),
		routeMetrics, routeHealth, routeReady).Handler())
	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:            cfg.Security.EnableHSTS,
		HSTSMaxAge:            cfg.Security.HSTSMaxAge,
		ContentSecurityPolicy: middleware.DefaultContentSecurityPolicy,
		HTMLRoutes:            []string{routeClient},
	}))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET(routeMetrics, gin.WrapH(promhttp.Handler()))
	r.GET(routeHealth, func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET(routeReady, readiness(deps))
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.GET(routeClient, handlers.ClientPage)
	socket := handlers.NewChatSocket(deps.Replier, handlers.SocketOptions{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		HistoryTurns:   cfg.Chat.HistoryTurns,
	})
	r.GET(routeSocket, socket.Serve)

	msgSvc := &services.MessageService{
		DB:             deps.DB,
		Replier:        deps.Replier,
		HistoryTurns:   cfg.Chat.HistoryTurns,
		MaxPromptRunes: 2000,
		MaxReplyRunes:  4000,
		TitleMaxLen:    60,
		TitleLocale:    language.English,
	}
	h := handlers.New(handlers.Services{
		Chats:            services.NewChatService(deps.DB, chatRepoShim{}),
		Messages:         msgSvc,
		Scripture:        deps.Scripture,
		Study:            services.NewStudyService(deps.DB, deps.Scripture),
		MaxSearchResults: cfg.Search.MaxResults,
		Hints: handlers.SearchHints{
			MinQuery: cfg.Search.MinQuery,
			Debounce: cfg.Search.Debounce,
		},
	})

	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		api.GET("/corpus", h.GetCorpus)
		api.GET("/search", h.Search)
		api.GET("/volumes", h.ListVolumes)
		api.GET("/volumes/:volume/books/:book/chapters/:chapter", h.GetChapter)
		api.GET("/verses/:id", h.GetVerse)
		api.GET("/verses/:id/xrefs/:n", h.FollowCrossReference)
		api.GET("/references", h.LookupReference)
		api.GET("/books/suggest", h.SuggestBooks)

		api.POST("/chats", h.CreateChat)
		api.GET("/chats", h.ListChats)
		api.GET("/chats/:id", h.GetChat)
		api.PUT("/chats/:id/title", h.UpdateChatTitle)
		api.DELETE("/chats/:id", h.DeleteChat)
		api.GET("/chats/:id/messages", h.ListMessages)
		api.POST("/chats/:id/messages", h.PostMessage)

		api.GET("/study/notes", h.ListNotes)
		api.PUT("/study/notes/:verseId", h.SaveNote)
		api.DELETE("/study/notes/:verseId", h.DeleteNote)
		api.GET("/study/highlights", h.ListHighlights)
		api.POST("/study/highlights", h.AddHighlight)
		api.DELETE("/study/highlights/:id", h.RemoveHighlight)
		api.GET("/study/bookmarks", h.ListBookmarks)
		api.POST("/study/bookmarks", h.AddBookmark)
		api.DELETE("/study/bookmarks/:id", h.RemoveBookmark)
		api.GET("/study/position", h.GetPosition)
		api.PUT("/study/position", h.SetPosition)
	}
}

// corsMiddleware allows any origin when none are configured; otherwise only
// the listed ones. Credentials are never allowed.
func corsMiddleware(origins []string) gin.HandlerFunc {
	cc := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-User-ID", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID", "Content-Length", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = origins
	}
	return cors.New(cc)
}

// readiness reports 503 until the database answers and a corpus is loaded.
func readiness(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.DB != nil {
			sqlDB, err := deps.DB.DB()
			if err == nil {
				err = sqlDB.PingContext(c.Request.Context())
			}
			if err != nil {
				handlers.Fail(c, http.StatusServiceUnavailable, handlers.ErrCodeUnavailable, "database unavailable")
				return
			}
		}
		if deps.Scripture == nil {
			handlers.Fail(c, http.StatusServiceUnavailable, handlers.ErrCodeNoCorpus, "no corpus loaded")
			return
		}
		info, err := deps.Scripture.Info()
		if err != nil {
			handlers.Fail(c, http.StatusServiceUnavailable, handlers.ErrCodeNoCorpus, "no corpus loaded")
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "verses": info.Stats.Verses})
	}
}

// limitBody caps request bodies; reads past maxBytes fail.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix treats "" and "/" as the root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
