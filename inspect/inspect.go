// Package inspect serves a session over plain HTTP, for scripts and for
// looking at what the client thinks is going on.
package inspect

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/undeconstructed/skirmish/client"
	"github.com/undeconstructed/skirmish/game"
)

// Run serves on addr until ctx is done.
func Run(ctx context.Context, addr string, g client.GameClient, log zerolog.Logger) error {
	log = log.With().Str("gw", "inspect").Logger()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	log.Info().Msgf("inspect listening on http://%v", ln.Addr())

	s := &http.Server{
		Handler:      Handler(g, log),
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
	}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Shutdown(sctx)
	}()

	err = s.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Handler is the routes, without a server.
func Handler(g client.GameClient, log zerolog.Logger) http.Handler {
	gin.SetMode(gin.ReleaseMode)

	rh := restHandler{
		g:   g,
		log: log,
	}

	r := gin.New()
	r.Use(gin.Recovery(), rh.logRequests)

	a := r.Group("/api")
	a.GET("/state", rh.getState)
	a.GET("/view", rh.getView)
	a.POST("/select", rh.selectCharacter)
	a.POST("/deselect", rh.deselect)
	a.POST("/direction", rh.setDirection)
	a.POST("/move", rh.move)
	a.POST("/reset", rh.reset)

	return r
}

type restHandler struct {
	g   client.GameClient
	log zerolog.Logger
}

type selectInput struct {
	Character string `json:"character" binding:"required"`
}

type directionInput struct {
	Direction string `json:"direction" binding:"required"`
}

type errorOutput struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (rh *restHandler) logRequests(c *gin.Context) {
	start := time.Now()
	c.Next()
	rh.log.Debug().
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Int("status", c.Writer.Status()).
		Dur("took", time.Since(start)).
		Msg("request")
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrTransportUnavailable), errors.Is(err, game.ErrClosed):
		return http.StatusServiceUnavailable
	case errors.Is(err, game.ErrNoState):
		return http.StatusNotFound
	case errors.Is(err, game.ErrBadDirection):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrNotYourPiece), errors.Is(err, game.ErrNoSelection):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (rh *restHandler) fail(c *gin.Context, err error) {
	code := game.Code(err)
	if code == "" {
		code = "INTERNAL"
		rh.log.Error().Err(err).Msg("request error")
	}
	c.JSON(statusFor(err), errorOutput{Error: code, Message: err.Error()})
}

func (rh *restHandler) getState(c *gin.Context) {
	state := rh.g.Current()
	if state == nil {
		rh.fail(c, game.ErrNoState)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (rh *restHandler) getView(c *gin.Context) {
	v, err := rh.g.View(c.Request.Context())
	if err != nil {
		rh.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (rh *restHandler) selectCharacter(c *gin.Context) {
	var in selectInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, errorOutput{Error: "BADREQUEST", Message: err.Error()})
		return
	}
	if err := rh.g.Select(c.Request.Context(), in.Character); err != nil {
		rh.fail(c, err)
		return
	}
	rh.getView(c)
}

func (rh *restHandler) deselect(c *gin.Context) {
	if err := rh.g.Deselect(c.Request.Context()); err != nil {
		rh.fail(c, err)
		return
	}
	rh.getView(c)
}

func (rh *restHandler) setDirection(c *gin.Context) {
	var in directionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, errorOutput{Error: "BADREQUEST", Message: err.Error()})
		return
	}
	d, err := game.ParseDirection(in.Direction)
	if err != nil {
		rh.fail(c, err)
		return
	}
	if err := rh.g.SetDirection(c.Request.Context(), d); err != nil {
		rh.fail(c, err)
		return
	}
	rh.getView(c)
}

func (rh *restHandler) move(c *gin.Context) {
	rec, err := rh.g.Submit(c.Request.Context())
	if err != nil {
		rh.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (rh *restHandler) reset(c *gin.Context) {
	if err := rh.g.Reset(c.Request.Context()); err != nil {
		rh.fail(c, err)
		return
	}
	rh.getView(c)
}
