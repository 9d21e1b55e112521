package server

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/equitydesk/equitydesk/internal/backend/ledger"
	"github.com/equitydesk/equitydesk/internal/backend/store"
	"github.com/equitydesk/equitydesk/internal/metrics"
	"github.com/equitydesk/equitydesk/pkg/config"
	"github.com/equitydesk/equitydesk/pkg/logger"
	"github.com/equitydesk/equitydesk/pkg/ratelimit"
)

type Config struct {
	Listen string
	Store  store.Store
	Seed   bool

	// ExecuteRateLimit caps execute requests per second; 0 disables it.
	ExecuteRateLimit int
}

type Server struct {
	cfg     Config
	store   store.Store
	ledger  *ledger.Ledger
	limiter ratelimit.RateLimiter

	httpSrv *http.Server
}

func New(cfg Config) (*Server, error) {
	if cfg.Store == nil {
		return nil, errors.New("store is required")
	}
	if cfg.Listen == "" {
		cfg.Listen = config.DefaultListen
	}

	s := &Server{cfg: cfg, store: cfg.Store, ledger: ledger.New(cfg.Store)}
	if cfg.ExecuteRateLimit > 0 {
		s.limiter = ratelimit.NewSlidingWindow(cfg.ExecuteRateLimit, time.Second)
	}
	if cfg.Seed {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if _, err := s.ledger.Seed(ctx); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Close releases the store. Call Shutdown first when serving.
func (s *Server) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

func (s *Server) Router() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(), allowCORS())

	r.GET("/healthz", s.wrap(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }))

	positions := r.Group("/v1/equity-positions")
	positions.GET("/details", s.wrap(s.handlePositionsDetails))
	positions.POST("/execute", s.rateLimited(), s.wrap(s.handleExecute))
	positions.GET("/orders", s.wrap(s.handleOrders))

	// expvar + pprof
	r.GET("/debug/*path", gin.WrapH(metrics.Handler()))

	return r
}

// ListenAndServe blocks until the server stops. It returns nil after Shutdown.
func (s *Server) ListenAndServe() error {
	s.httpSrv = &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Infof("equity positions backend listening on %s", s.cfg.Listen)
	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

// wrap adapts net/http handlers to gin.
func (s *Server) wrap(h func(http.ResponseWriter, *http.Request)) gin.HandlerFunc {
	return func(c *gin.Context) {
		h(c.Writer, c.Request)
	}
}

// rateLimited rejects requests over the execute limit with 429.
func (s *Server) rateLimited() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.limiter == nil || s.limiter.Allow() {
			c.Next()
			return
		}
		retry := time.Until(s.limiter.GetResetTime())
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retry.Seconds()))))
		metrics.ExecuteRateLimited.Add(1)
		logger.Warnf("execute rate limit exceeded from %s", c.ClientIP())
		writeError(c.Writer, http.StatusTooManyRequests, "rate limit exceeded")
		c.Abort()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithFields(map[string]interface{}{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Debug("http request")
	}
}

// allowCORS lets a browser client on another origin call the API.
func allowCORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Accept, X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
