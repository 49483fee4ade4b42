// Package server exposes prediction over HTTP.
package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ppiankov/verity/internal/model"
	"github.com/ppiankov/verity/internal/predict"
)

const modelNotFoundMessage = "model not found. Please run training first."

// Server serves POST /predict and GET /health
type Server struct {
	predictor    *predict.Predictor
	artifactPath string
	maxBodyBytes int64
	logger       *slog.Logger
}

// New creates a Server. artifactPath may be empty to use the predictor's search paths.
func New(p *predict.Predictor, artifactPath string, maxBodyBytes int64, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		predictor:    p,
		artifactPath: artifactPath,
		maxBodyBytes: maxBodyBytes,
		logger:       logger,
	}
}

// Router builds the gin engine
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger))

	r.POST("/predict", s.handlePredict)
	r.GET("/health", s.handleHealth)
	return r
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string, readTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: readTimeout,
		ReadTimeout:       readTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) handlePredict(c *gin.Context) {
	if s.maxBodyBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxBodyBytes)
	}

	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return
		}
		if errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": model.ErrInvalidInput.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	text, ok := body["text"].(string)
	if !ok || text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": model.ErrInvalidInput.Error()})
		return
	}

	pred, err := s.predictor.Predict(text, s.artifactPath)
	if err != nil {
		if errors.Is(err, model.ErrArtifactNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": modelNotFoundMessage})
			return
		}
		s.logger.Error("prediction failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, pred)
}

func (s *Server) handleHealth(c *gin.Context) {
	resolved, err := s.predictor.Resolve(s.artifactPath)
	if err != nil {
		resolved = ""
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "artifact": resolved})
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
