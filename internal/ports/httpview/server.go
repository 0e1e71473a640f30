// Package httpview exposes the table to browsers: a JSON API for state and
// reorder commands plus a websocket stream of presentation events.
package httpview

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/heroiclabs/nakama-common/runtime"

	"gesturecards/internal/app"
	"gesturecards/internal/domain"
	"gesturecards/internal/ports"
	"gesturecards/internal/ports/local"
)

const shutdownTimeout = 5 * time.Second

const jsonKeyError = "error"

// ReorderRequest moves a card. DropX, when set, snaps the card to the slot
// nearest to that position instead of using To.
type ReorderRequest struct {
	Side  string   `json:"side"`
	From  int      `json:"from"`
	To    int      `json:"to"`
	DropX *float64 `json:"drop_x"`
}

// Server serves the view API. Commands are queued for the logic goroutine,
// never applied from a request goroutine.
type Server struct {
	*Hub
	Snapshot func() app.Snapshot
	Commands *ports.Queue[local.Command]
	Logger   runtime.Logger
	// OnListen, if set, receives the bound address.
	OnListen func(net.Addr)
}

func NewServer(snapshot func() app.Snapshot, commands *ports.Queue[local.Command], logger runtime.Logger) *Server {
	return &Server{
		Hub:      NewHub(logger),
		Snapshot: snapshot,
		Commands: commands,
		Logger:   logger,
	}
}

// Router builds the gin engine.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	api := router.Group("/api")
	api.GET("/state", s.getState)
	api.POST("/reorder", s.postReorder)
	api.POST("/reorder/finish", s.postCommand(local.CommandFinishReorder))
	api.POST("/reset", s.postCommand(local.CommandReset))
	router.GET("/ws", s.getWS)
	return router
}

func (s *Server) getState(c *gin.Context) {
	c.JSON(http.StatusOK, s.Snapshot())
}

func (s *Server) postReorder(c *gin.Context) {
	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{jsonKeyError: "invalid request"})
		return
	}
	cmd, err := reorderCommand(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{jsonKeyError: err.Error()})
		return
	}
	s.Commands.Push(cmd)
	c.JSON(http.StatusAccepted, gin.H{"queued": true})
}

func (s *Server) postCommand(kind local.CommandKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.Commands.Push(local.Command{Kind: kind})
		c.JSON(http.StatusAccepted, gin.H{"queued": true})
	}
}

func (s *Server) getWS(c *gin.Context) {
	hello := Msg{T: "state", M: map[string]any{"snapshot": s.Snapshot()}}
	s.Hub.serve(c.Writer, c.Request, hello, s.handleMsg)
}

func (s *Server) handleMsg(m Msg) {
	switch m.T {
	case "reorder":
		req := ReorderRequest{}
		req.Side, _ = m.M["side"].(string)
		if v, ok := m.M["from"].(float64); ok {
			req.From = int(v)
		}
		if v, ok := m.M["to"].(float64); ok {
			req.To = int(v)
		}
		if v, ok := m.M["drop_x"].(float64); ok {
			req.DropX = &v
		}
		cmd, err := reorderCommand(req)
		if err != nil {
			s.Logger.Debug("handleMsg: %v", err)
			return
		}
		s.Commands.Push(cmd)
	case "finish_reorder":
		s.Commands.Push(local.Command{Kind: local.CommandFinishReorder})
	case "reset":
		s.Commands.Push(local.Command{Kind: local.CommandReset})
	default:
		s.Logger.Debug("handleMsg: unknown message %q", m.T)
	}
}

var errNotPlayerRow = errors.New("only the player row can be reordered")

func reorderCommand(req ReorderRequest) (local.Command, error) {
	if req.Side != "" && req.Side != domain.SidePlayer.String() {
		return local.Command{}, errNotPlayerRow
	}
	from := app.Slot{Side: domain.SidePlayer, Index: req.From}
	if req.DropX != nil {
		return local.Command{Kind: local.CommandDrop, From: from, DropX: *req.DropX}, nil
	}
	return local.Command{Kind: local.CommandMove, From: from, To: app.Slot{Side: domain.SidePlayer, Index: req.To}}, nil
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := new(net.ListenConfig).Listen(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	if s.OnListen != nil {
		s.OnListen(ln.Addr())
	}
	srv := &http.Server{Handler: s.Router(), ReadHeaderTimeout: 10 * time.Second}
	srv.RegisterOnShutdown(s.Hub.closeAll)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.Logger.Info("Run: view listening on %s", ln.Addr())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
