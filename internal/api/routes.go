package api

import (
	"context"
	"errors"
	"net/http"
	"regexp"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"nyaysetu/backend/internal/chat"
	"nyaysetu/backend/internal/ipc"
)

const (
	serviceName    = "NyaySetu Legal API"
	serviceVersion = "1.0.0"

	msgNotFound    = "Endpoint not found"
	msgUnavailable = "Chatbot temporarily unavailable"
)

var vercelOrigin = regexp.MustCompile(`^https://([a-z0-9-]+\.)*vercel\.app$`)

// Answerer produces chat replies.
type Answerer interface {
	Answer(ctx context.Context, query string) chat.Answer
}

// Predictor produces IPC section predictions.
type Predictor interface {
	Predict(ctx context.Context, text string) (*ipc.Result, error)
}

// Config defines server dependencies.
type Config struct {
	AllowedOrigins      []string
	AllowVercelPreviews bool
	Chat                Answerer
	IPC                 Predictor
	Metrics             *Metrics
	// Gatherer backs /metrics. Nil uses the default prometheus registry.
	Gatherer prometheus.Gatherer
}

// Server wires HTTP handlers to the chat pipeline and IPC predictor.
type Server struct {
	chat           Answerer
	ipc            Predictor
	metrics        *Metrics
	gatherer       prometheus.Gatherer
	allowedOrigins []string
	allowVercel    bool
}

// NewServer constructs the API server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Chat == nil {
		return nil, errors.New("chat pipeline required")
	}
	if cfg.IPC == nil {
		return nil, errors.New("ipc predictor required")
	}
	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Server{
		chat:           cfg.Chat,
		ipc:            cfg.IPC,
		metrics:        cfg.Metrics,
		gatherer:       gatherer,
		allowedOrigins: cfg.AllowedOrigins,
		allowVercel:    cfg.AllowVercelPreviews,
	}, nil
}

// Router configures gin routes.
func (s *Server) Router() (*gin.Engine, error) {
	r := gin.New()
	// metrics wraps recovery so recovered panics are observed as 500s
	r.Use(gin.Logger(), s.metrics.Middleware(), gin.CustomRecovery(s.recoverPanic))

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowCredentials = true
	if len(s.allowedOrigins) == 0 && !s.allowVercel {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = s.allowedOrigins
		if s.allowVercel {
			corsCfg.AllowOriginFunc = vercelOrigin.MatchString
		}
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	if err := corsCfg.Validate(); err != nil {
		return nil, err
	}
	r.Use(cors.New(corsCfg))

	r.GET("/", s.handleInfo)
	r.GET("/health", s.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	r.POST("/chat", s.handleChat)
	r.POST("/ipc/predict", s.handlePredict)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
	})

	return r, nil
}

func (s *Server) handleInfo(c *gin.Context) {
	c.JSON(http.StatusOK, ServiceInfo{
		Service: serviceName,
		Version: serviceVersion,
		Status:  "operational",
		Endpoints: map[string]string{
			"health":      "/health",
			"text_chat":   "/chat",
			"ipc_predict": "/ipc/predict",
			"metrics":     "/metrics",
		},
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) recoverPanic(c *gin.Context, recovered any) {
	logrus.WithFields(logrus.Fields{
		"path":  c.Request.URL.Path,
		"panic": recovered,
	}).Error("request panicked")
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": msgUnavailable})
}

func (s *Server) renderError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}
