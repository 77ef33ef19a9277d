package server

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

//go:embed static/index.html
var indexHTML []byte

type authRequest struct {
	Email string `json:"email"`
	Pin   string `json:"pin"`
}

type authResponse struct {
	Success  bool    `json:"success"`
	Customer *string `json:"customer"`
}

func (s *Server) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleAuth(c *gin.Context) {
	var req authRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	resp := authResponse{Success: s.customers.Verify(req.Email, req.Pin)}
	if resp.Success {
		resp.Customer = &req.Email
	}
	log.Info().Str("email", req.Email).Bool("success", resp.Success).Msg("auth attempt")
	c.JSON(http.StatusOK, resp)
}

// handleChat runs one conversation turn and streams the paced response as
// server-sent events. Each chunk goes out as its own event and the stream
// always ends with the [DONE] sentinel.
func (s *Server) handleChat(c *gin.Context) {
	customerID := c.Param("customer")
	message := c.Query("message")

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ctx := c.Request.Context()
	if ctx.Err() != nil {
		return
	}

	out := s.agent.HandleTurn(ctx, customerID, message)
	for chunk := range s.presenter.Stream(ctx, out.Text, out.Intent) {
		c.SSEvent("message", chunk)
		c.Writer.Flush()
	}
}
