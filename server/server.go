// Package server exposes the analyze → download flow over HTTP.
//
//	POST /analyze                 {url} → analysis result with an id
//	GET  /reports/:id             rendered report as an attachment
//	POST /reports/:id             same as GET, for form submissions
//	GET  /reports/:id/sections    stored sections as JSON
//	GET  /healthz
//
// The id returned by /analyze is the only link between the two steps;
// there is no session state.
package server

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/gaurav-prasanna/termscan/core"
	"github.com/gaurav-prasanna/termscan/core/fetch"
	"github.com/gaurav-prasanna/termscan/core/pipeline"
	"github.com/gaurav-prasanna/termscan/core/store"
)

// Options configures the report produced by the download endpoint.
type Options struct {
	Title        string
	ArtifactName string
	Mode         string
}

// Server serves the HTTP API.
type Server struct {
	pipeline *pipeline.Pipeline
	store    store.Store
	opts     Options
	router   *gin.Engine
}

type analyzeRequest struct {
	URL string `form:"url" json:"url"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// New builds the router.
func New(p *pipeline.Pipeline, s store.Store, opts Options) *Server {
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}

	srv := &Server{pipeline: p, store: s, opts: opts}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())
	router.GET("/healthz", srv.health)
	router.POST("/analyze", srv.analyze)
	router.GET("/reports/:id", srv.report)
	router.POST("/reports/:id", srv.report)
	router.GET("/reports/:id/sections", srv.sections)
	srv.router = router

	return srv
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("http server listening")
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info().Msg("shutting down http server")
		return httpSrv.Shutdown(shutdownCtx)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request: " + err.Error()})
		return
	}
	if _, err := fetch.ParseURL(req.URL); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "url must be an absolute http(s) URL"})
		return
	}

	res, err := s.pipeline.AnalyzeURL(c.Request.Context(), req.URL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	if err := s.store.Put(c.Request.Context(), res); err != nil {
		log.Error().Err(err).Str("id", res.ID).Msg("storing analysis result")
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "could not store analysis result"})
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) sections(c *gin.Context) {
	res, ok := s.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, res.Sections)
}

func (s *Server) report(c *gin.Context) {
	res, ok := s.load(c)
	if !ok {
		return
	}

	art, err := s.pipeline.Render(c.Request.Context(), res.Sections, s.opts.Title, s.opts.ArtifactName)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, core.ErrMissingSections) {
			status = http.StatusNotFound
		}
		c.JSON(status, errorResponse{Error: err.Error()})
		return
	}

	contentType := mime.TypeByExtension(filepath.Ext(art.Name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": art.Name}))
	c.Data(http.StatusOK, contentType, art.Data)
}

// load fetches the stored result for the :id parameter, writing the error
// response itself when it fails.
func (s *Server) load(c *gin.Context) (*pipeline.Result, bool) {
	id := c.Param("id")
	res, err := s.store.Get(c.Request.Context(), id)
	if errors.Is(err, core.ErrMissingSections) {
		c.JSON(http.StatusNotFound, errorResponse{Error: "no analysis result for id " + id + "; call /analyze first"})
		return nil, false
	}
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("loading analysis result")
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "could not load analysis result"})
		return nil, false
	}
	return res, true
}

// requestLogger logs each request through zerolog.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("http request")
	}
}
