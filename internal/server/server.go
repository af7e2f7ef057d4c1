package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/harborview/maya/internal/core"
	"github.com/harborview/maya/internal/knowledge"
	"github.com/harborview/maya/internal/logger"
	"github.com/harborview/maya/internal/provider"
	"github.com/harborview/maya/pkg"
)

// timeoutReply is sent when a turn exceeds the request deadline. The
// widget renders it like any other reply.
const timeoutReply = "<p>Sorry, that took longer than it should. Please ask me again.</p>"

// Server exposes the chat widget API over HTTP
type Server struct {
	engine         core.Engine
	reinforcer     *knowledge.Reinforcer
	rooms          provider.RoomDataProvider
	requestTimeout time.Duration
	router         *gin.Engine
}

// ChatRequest is the envelope every widget call posts to /api/chat
type ChatRequest struct {
	Action       string `json:"action" binding:"required"`
	SessionID    string `json:"session_id"`
	Query        string `json:"query"`
	UserQuery    string `json:"user_query"`
	MayaResponse string `json:"maya_response"`
	Satisfaction string `json:"user_satisfaction"`
}

// Insights summarizes what the engine understood about the utterance.
type Insights struct {
	Intent       string  `json:"intent,omitempty"`
	Sentiment    string  `json:"sentiment,omitempty"`
	Complexity   float64 `json:"complexity"`
	BookingStage string  `json:"booking_stage,omitempty"`
}

// ChatResponse is the reply envelope for generateIntelligentResponse
type ChatResponse struct {
	Success      bool              `json:"success"`
	SessionID    string            `json:"session_id"`
	Response     string            `json:"response"`
	Insights     *Insights         `json:"insights,omitempty"`
	QuickActions []pkg.QuickAction `json:"quick_actions,omitempty"`
	FollowUps    []string          `json:"follow_ups,omitempty"`
	TurnIndex    int               `json:"turn_index"`
}

// New creates a server wired to the dialogue engine
func New(engine core.Engine, reinforcer *knowledge.Reinforcer, rooms provider.RoomDataProvider, requestTimeout time.Duration) *Server {
	s := &Server{
		engine:         engine,
		reinforcer:     reinforcer,
		rooms:          rooms,
		requestTimeout: requestTimeout,
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/healthz", s.handleHealth)

	api := router.Group("/api")
	{
		api.POST("/chat", s.handleChat)
		api.GET("/rooms", s.handleRooms)
		api.GET("/pricing", s.handlePricing)
		api.GET("/availability", s.handleAvailability)
	}

	s.router = router
	return s
}

// Router returns the underlying gin engine, mostly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts serving on addr and blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	switch req.Action {
	case "generateIntelligentResponse":
		s.generateResponse(c, req)
	case "record_feedback":
		s.recordFeedback(c, req)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown action: " + req.Action})
	}
}

func (s *Server) generateResponse(c *gin.Context, req ChatRequest) {
	if strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.requestTimeout)
	defer cancel()

	type turnResult struct {
		out *core.ProcessOutput
		err error
	}
	resCh := make(chan turnResult, 1)
	go func() {
		out, err := s.engine.Process(ctx, core.ProcessInput{
			SessionID: sessionID,
			Message:   req.Query,
		})
		resCh <- turnResult{out, err}
	}()

	select {
	case res := <-resCh:
		if res.err != nil {
			logger.GetLogger().Error().Err(res.err).Str("session_id", sessionID).Msg("dialogue turn failed")
			c.JSON(http.StatusOK, ChatResponse{Success: true, SessionID: sessionID, Response: core.FallbackReply})
			return
		}
		resp := ChatResponse{
			Success:      true,
			SessionID:    sessionID,
			Response:     res.out.Reply,
			QuickActions: res.out.QuickActions,
			FollowUps:    res.out.FollowUps,
			TurnIndex:    res.out.TurnIndex,
		}
		if res.out.Analysis != nil {
			resp.Insights = &Insights{
				Intent:       string(res.out.Analysis.Intent),
				Sentiment:    string(res.out.Analysis.Sentiment),
				Complexity:   res.out.Analysis.Complexity,
				BookingStage: string(res.out.BookingStage),
			}
		}
		c.JSON(http.StatusOK, resp)
	case <-ctx.Done():
		logger.GetLogger().Warn().Str("session_id", sessionID).Msg("dialogue turn timed out")
		c.JSON(http.StatusOK, ChatResponse{Success: true, SessionID: sessionID, Response: timeoutReply})
	}
}

func (s *Server) recordFeedback(c *gin.Context, req ChatRequest) {
	satisfaction := pkg.Satisfaction(req.Satisfaction)
	switch satisfaction {
	case pkg.SatisfactionHelpful, pkg.SatisfactionNeutral, pkg.SatisfactionUnhelpful:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "satisfaction must be helpful, neutral or unhelpful"})
		return
	}

	s.reinforcer.RecordFeedback(req.UserQuery, req.MayaResponse, satisfaction)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleRooms(c *gin.Context) {
	snapshot := provider.FetchSnapshot(c.Request.Context(), s.rooms)
	c.JSON(http.StatusOK, gin.H{"rooms": snapshot.Rooms, "live": snapshot.Live})
}

func (s *Server) handlePricing(c *gin.Context) {
	snapshot := provider.FetchSnapshot(c.Request.Context(), s.rooms)
	c.JSON(http.StatusOK, gin.H{"pricing": snapshot.Rates, "live": snapshot.Live})
}

func (s *Server) handleAvailability(c *gin.Context) {
	snapshot := provider.FetchSnapshot(c.Request.Context(), s.rooms)
	c.JSON(http.StatusOK, gin.H{"availability": snapshot.Availability, "live": snapshot.Live})
}

// requestLogger emits one structured line per request.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.GetLogger().Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
