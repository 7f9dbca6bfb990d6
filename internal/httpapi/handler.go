package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nguyentantai21042004/speech-notes/internal/processor"
	"github.com/nguyentantai21042004/speech-notes/internal/summarizer"
)

type processRequest struct {
	URL   string `json:"url"`
	Model string `json:"model"`
}

type processResponse struct {
	Status         string `json:"status"`
	Transcript     string `json:"transcript"`
	Notes          string `json:"notes"`
	TranscriptPath string `json:"transcript_path"`
	NotesPath      string `json:"notes_path"`
	AudioDigest    string `json:"audio_digest,omitempty"`
	Error          string `json:"error,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Stage string `json:"stage,omitempty"`
	Kind  string `json:"kind,omitempty"`
}

func (s *implServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *implServer) handleProviders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"providers": s.builder.Providers(),
		"default":   s.builder.DefaultProvider(),
		"engine":    s.builder.Engine(),
	})
}

func (s *implServer) handleProcess(c *gin.Context) {
	ctx := c.Request.Context()

	var req processRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "No URL provided"})
		return
	}
	if !s.allowedURL(req.URL) {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid URL: host is not allowed"})
		return
	}

	proc, err := s.builder.Processor(req.Model)
	if err != nil {
		if errors.Is(err, summarizer.ErrUnknownProvider) {
			c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	if err := s.semaphore.acquire(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "request cancelled while waiting for the pipeline"})
		return
	}
	defer s.semaphore.release()

	s.logger.Info(ctx, "Processing %s with %q", req.URL, req.Model)
	res := proc.Run(ctx, req.URL, processor.Options{Remote: true})

	if res.Status == processor.StatusFailure {
		c.JSON(http.StatusInternalServerError, errorResponse{
			Error: res.Message,
			Stage: string(res.Stage),
			Kind:  res.Kind,
		})
		return
	}

	resp := processResponse{
		Status:         string(res.Status),
		Notes:          res.Notes,
		TranscriptPath: res.TranscriptPath,
		NotesPath:      res.NotesPath,
		AudioDigest:    res.AudioDigest,
	}
	if res.Transcript != nil {
		resp.Transcript = res.Transcript.Text
	}
	if res.Status == processor.StatusPartial {
		resp.Error = res.Message
	}
	c.JSON(http.StatusOK, resp)
}

// allowedURL reports whether url mentions one of the configured hosts. An
// empty list allows everything.
func (s *implServer) allowedURL(url string) bool {
	if len(s.cfg.AllowedHosts) == 0 {
		return true
	}
	lower := strings.ToLower(url)
	for _, h := range s.cfg.AllowedHosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" && strings.Contains(lower, h) {
			return true
		}
	}
	return false
}

func (s *implServer) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *implServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting API server on %s", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
