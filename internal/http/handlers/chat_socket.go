// WebSocket chat.
//
// GET /ws/chat upgrades to a WebSocket carrying plain text frames. Every
// frame from the client is one user message; every frame back is one reply.
// Each connection owns its own Conversation, so history is never shared
// between clients and is dropped on disconnect. Blocked input is answered
// with SocketBlockedReply and not recorded.
//
// GET / serves a minimal HTML client for the socket.
package handlers

import (
	_ "embed"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/tbourn/scripture-study/internal/http/middleware"
	"github.com/tbourn/scripture-study/internal/services"
)

// SocketBlockedReply is sent instead of a reply when input is filtered.
const SocketBlockedReply = "SYSTEM: Blocked content."

const (
	socketPongWait   = 60 * time.Second
	socketPingPeriod = 54 * time.Second
	socketWriteWait  = 10 * time.Second
)

//go:embed web/index.html
var clientHTML []byte

// SocketOptions tunes ChatSocket.
type SocketOptions struct {
	// AllowedOrigins lists accepted Origin headers; empty accepts any origin.
	AllowedOrigins []string
	// MaxMessageBytes caps one inbound frame (default 4096).
	MaxMessageBytes int64
	// HistoryTurns bounds the per-connection history.
	HistoryTurns int
}

// ChatSocket serves the WebSocket chat endpoint.
type ChatSocket struct {
	replier  *services.Replier
	opts     SocketOptions
	upgrader websocket.Upgrader
}

// NewChatSocket returns a ChatSocket answering with r.
func NewChatSocket(r *services.Replier, opts SocketOptions) *ChatSocket {
	if r == nil {
		r = &services.Replier{}
	}
	if opts.MaxMessageBytes <= 0 {
		opts.MaxMessageBytes = 4096
	}
	s := &ChatSocket{replier: r, opts: opts}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

func (s *ChatSocket) checkOrigin(r *http.Request) bool {
	if len(s.opts.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, o := range s.opts.AllowedOrigins {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

// Serve upgrades the request and answers text frames until the client goes
// away. It lives outside the API base path and has no swagger entry.
func (s *ChatSocket) Serve(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		return
	}
	defer conn.Close()

	lg := middleware.LoggerFrom(c)
	lg.Info().Msg("websocket client connected")
	defer func() { lg.Info().Msg("websocket client disconnected") }()

	ctx := c.Request.Context()
	conv := services.NewConversation(s.replier, s.opts.HistoryTurns)

	conn.SetReadLimit(s.opts.MaxMessageBytes)
	_ = conn.SetReadDeadline(time.Now().Add(socketPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(socketPongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(socketPingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(socketWriteWait)); err != nil {
					return
				}
			}
		}
	}()

	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				lg.Warn().Err(err).Msg("websocket read failed")
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		input := strings.TrimSpace(string(data))
		if input == "" {
			continue
		}

		out := SocketBlockedReply
		if rep := conv.Send(ctx, input); !rep.Blocked {
			out = rep.Text
		}

		_ = conn.SetWriteDeadline(time.Now().Add(socketWriteWait))
		if err := conn.WriteMessage(websocket.TextMessage, []byte(out)); err != nil {
			lg.Warn().Err(err).Msg("websocket write failed")
			return
		}
		// Time spent generating must not count against the client.
		_ = conn.SetReadDeadline(time.Now().Add(socketPongWait))
	}
}

// ClientPage serves the bundled HTML chat client.
func ClientPage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", clientHTML)
}
