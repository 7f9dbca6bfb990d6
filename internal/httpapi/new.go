package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nguyentantai21042004/speech-notes/internal/config"
	"github.com/nguyentantai21042004/speech-notes/internal/logger"
)

type implServer struct {
	cfg       config.ServerConfig
	builder   Builder
	logger    logger.Logger
	semaphore *semaphore
	router    *gin.Engine
}

// New creates a Server. Pipeline requests are serialized: one runs at a time.
func New(cfg config.ServerConfig, b Builder, log logger.Logger) Server {
	gin.SetMode(gin.ReleaseMode)

	s := &implServer{
		cfg:       cfg,
		builder:   b,
		logger:    log,
		semaphore: newSemaphore(1),
	}
	s.router = s.routes()
	return s
}

func (s *implServer) routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestID(), s.accessLog())

	if len(s.cfg.CORSOrigins) > 0 {
		router.Use(cors.New(corsConfig(s.cfg.CORSOrigins)))
	}

	router.GET("/healthz", s.handleHealth)
	router.GET("/providers", s.handleProviders)
	router.POST("/process", s.handleProcess)
	return router
}

func corsConfig(origins []string) cors.Config {
	cc := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cc.AllowAllOrigins = true
			return cc
		}
	}
	cc.AllowOrigins = origins
	return cc
}
