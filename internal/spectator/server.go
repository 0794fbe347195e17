// Package spectator serves a read-only view of the running game over HTTP and
// Socket.IO. It only ever sees published snapshots, never the game itself.
package spectator

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/zerolog/log"

	"github.com/kiliankoe/wheeldash/internal/game"
	staticserver "github.com/kiliankoe/wheeldash/static"
)

const (
	Room       = "spectators"
	StateEvent = "game:state"
)

type Server struct {
	mu       sync.RWMutex
	snapshot *game.Snapshot
	io       *socketio.Server
	viewers  map[string]socketio.Conn

	httpSrv *http.Server
	addr    string
}

func New() *Server {
	return &Server{viewers: make(map[string]socketio.Conn)}
}

// Publish stores s as the current state and pushes it to connected viewers.
func (srv *Server) Publish(s game.Snapshot) {
	srv.mu.Lock()
	srv.snapshot = &s
	io := srv.io
	srv.mu.Unlock()
	if io != nil {
		io.BroadcastToRoom("/", Room, StateEvent, s)
	}
}

func (srv *Server) Snapshot() (game.Snapshot, bool) {
	srv.mu.RLock()
	defer srv.mu.RUnlock()
	if srv.snapshot == nil {
		return game.Snapshot{}, false
	}
	return *srv.snapshot, true
}

func (srv *Server) Viewers() int {
	srv.mu.RLock()
	defer srv.mu.RUnlock()
	return len(srv.viewers)
}

// Routes registers the JSON endpoints.
func (srv *Server) Routes(r gin.IRoutes) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
	})
	r.GET("/api/state", func(c *gin.Context) {
		s, ok := srv.Snapshot()
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "no_game"})
			return
		}
		c.JSON(http.StatusOK, s)
	})
}

// Mount attaches the Socket.IO server to the given Gin engine.
func (srv *Server) Mount(r *gin.Engine) *socketio.Server {
	io := socketio.NewServer(nil)

	io.OnConnect("/", func(s socketio.Conn) error {
		s.Join(Room)
		srv.mu.Lock()
		srv.viewers[s.ID()] = s
		srv.mu.Unlock()
		log.Info().Str("sid", s.ID()).Msg("spectator connected")
		if snap, ok := srv.Snapshot(); ok {
			s.Emit(StateEvent, snap)
		}
		return nil
	})

	// game:state lets a viewer ask for the current state again
	io.OnEvent("/", StateEvent, func(s socketio.Conn) map[string]any {
		snap, ok := srv.Snapshot()
		if !ok {
			s.Emit("error", map[string]any{"code": "no_game", "message": "No game running"})
			return map[string]any{"error": "no_game"}
		}
		return map[string]any{"state": snap}
	})

	io.OnError("/", func(s socketio.Conn, e error) {
		sid := ""
		if s != nil {
			sid = s.ID()
		}
		log.Error().Str("sid", sid).Err(e).Msg("socket error")
	})
	io.OnDisconnect("/", func(s socketio.Conn, reason string) {
		srv.mu.Lock()
		delete(srv.viewers, s.ID())
		srv.mu.Unlock()
		log.Info().Str("sid", s.ID()).Str("reason", reason).Msg("spectator disconnected")
	})

	go io.Serve()

	r.GET("/socket.io/*any", gin.WrapH(io))
	r.POST("/socket.io/*any", gin.WrapH(io))

	// Basic CORS preflight for Socket.IO POST
	r.OPTIONS("/socket.io/*any", func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Status(http.StatusNoContent)
	})

	srv.mu.Lock()
	srv.io = io
	srv.mu.Unlock()
	return io
}

// Engine builds the complete spectator router: JSON routes, Socket.IO and the
// embedded page for everything else.
func (srv *Server) Engine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger())
	srv.Routes(r)
	srv.Mount(r)
	r.NoRoute(func(c *gin.Context) {
		staticserver.Handler().ServeHTTP(c.Writer, c.Request)
	})
	return r
}

// requestLogger logs each request at debug level, skipping /socket.io polling noise.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/socket.io") {
			return
		}
		log.Debug().Str("path", path).Int("status", c.Writer.Status()).Dur("dur", time.Since(start)).Msg("http")
	}
}

// Start listens on addr and serves in the background. The bound address is
// available from Addr, which matters when addr uses port 0.
func (srv *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv.addr = ln.Addr().String()
	srv.httpSrv = &http.Server{Handler: srv.Engine(), ReadHeaderTimeout: 5 * time.Second}
	log.Info().Str("addr", srv.addr).Msg("spectator server listening")
	go func() {
		if err := srv.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("spectator server stopped")
		}
	}()
	return nil
}

func (srv *Server) Addr() string { return srv.addr }

// Shutdown stops the HTTP server and closes the Socket.IO server.
func (srv *Server) Shutdown(ctx context.Context) error {
	var err error
	if srv.httpSrv != nil {
		err = srv.httpSrv.Shutdown(ctx)
	}
	srv.mu.Lock()
	io := srv.io
	srv.io = nil
	srv.mu.Unlock()
	if io != nil {
		if cerr := io.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	log.Info().Str("addr", srv.addr).Msg("spectator server stopped")
	return err
}
