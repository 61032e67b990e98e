package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/healthdesk/medassist/chat"
	"github.com/healthdesk/medassist/common/logger"
	"github.com/healthdesk/medassist/config"
	"github.com/healthdesk/medassist/report"
	"github.com/healthdesk/medassist/review"
	"github.com/healthdesk/medassist/session"
)

// Package httpapi exposes the assistant over JSON HTTP. The bare /chat
// and /reset routes mirror the single-conversation browser UI; the /api
// tree is the full multi-session surface.

// defaultSession is the conversation used by the bare /chat route.
const defaultSession = "default"

// Server owns the gin engine and the services behind it.
type Server struct {
	cfg    *config.Config
	chat   *chat.Service
	report *report.Service
	store  session.Store
	queue  review.Queue
	engine *gin.Engine

	now func() time.Time
}

// NewServer wires all routes and middleware.
func NewServer(cfg *config.Config, chatSvc *chat.Service, reportSvc *report.Service, store session.Store, queue review.Queue) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		cfg:    cfg,
		chat:   chatSvc,
		report: reportSvc,
		store:  store,
		queue:  queue,
		now:    time.Now,
	}

	engine := gin.New()
	engine.Use(
		requestLogger(),
		requestMetrics(),
		gin.Recovery(),
		limitBodySize(1<<20),
		cors.New(corsConfig(cfg.Server.CORSAllowOrigins)),
	)

	engine.GET("/healthz", s.handleHealth)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	engine.POST("/chat", s.handleLegacyChat)
	engine.POST("/reset", s.handleReset)

	api := engine.Group("/api")
	{
		api.POST("/chat", s.handleChat)
		api.GET("/chat/:session_id", s.handleGetSession)
		api.DELETE("/chat/:session_id", s.handleDeleteSession)

		api.GET("/booking/slots", s.handleBookingSlots)

		api.POST("/reports/analyze", s.handleAnalyzeReport)
		api.POST("/reports/ask", s.handleAskQuestion)

		api.GET("/reviews/pending", s.handlePendingReviews)
		api.POST("/reviews/:report_id/verify", s.handleVerifyReview)
	}

	s.engine = engine
	return s
}

// Run serves until ctx is cancelled, then drains in-flight requests for
// up to ten seconds.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(s.cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	logger.Infof("http server listening on %s", s.cfg.Server.Addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Infof("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	cfg.MaxAge = 12 * time.Hour
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
