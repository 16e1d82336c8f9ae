// Package server is the CodeWizard backend: it serves the model catalog and
// proxies chat requests to the provider chosen by the client.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/KpathaK21/CodeWizard/internal/backend"
	"github.com/KpathaK21/CodeWizard/internal/catalog"
	"github.com/KpathaK21/CodeWizard/internal/llm"
	"github.com/KpathaK21/CodeWizard/internal/models"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var corsHeaders = []string{
	"Origin",
	"Content-Type",
	"Content-Length",
	"Accept",
	"Authorization",
	"X-Requested-With",
}

// GeneratorFactory builds the upstream client for one request.
type GeneratorFactory func(provider, model, apiKey string) (llm.Generator, error)

type Server struct {
	modelsFile   string
	newGenerator GeneratorFactory
	engine       *gin.Engine
}

func New(modelsFile string, factory GeneratorFactory) *Server {
	if factory == nil {
		factory = func(provider, model, apiKey string) (llm.Generator, error) {
			return llm.New(provider, model, apiKey)
		}
	}
	s := &Server{modelsFile: modelsFile, newGenerator: factory}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    corsHeaders,
		MaxAge:          12 * time.Hour,
	}))

	r.GET("/api/models", s.getModels)
	r.POST("/api/chat", s.chat)
	s.engine = r
	return s
}

func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{Addr: addr, Handler: s.engine}

	errCh := make(chan error, 1)
	go func() {
		logrus.WithField("addr", addr).Info("codewizard backend listening")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// EnsureModelsFile writes the built-in catalog to path if it does not exist.
func EnsureModelsFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(catalog.Fallback(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *Server) loadModels() (map[string][]string, error) {
	data, err := os.ReadFile(s.modelsFile)
	if errors.Is(err, os.ErrNotExist) {
		return catalog.Fallback(), nil
	}
	if err != nil {
		return nil, err
	}
	var out map[string][]string
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.modelsFile, err)
	}
	return out, nil
}

func (s *Server) getModels(c *gin.Context) {
	list, err := s.loadModels()
	if err != nil {
		logrus.WithError(err).Error("failed to load models file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) chat(c *gin.Context) {
	var req backend.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Provider == "" {
		req.Provider = models.ProviderOpenAI
	}
	if req.Model == "" {
		req.Model = "gpt-4o"
	}
	if req.Mode == "" {
		req.Mode = models.ModeDebug
	}

	prompt, ok := llm.SystemPrompt(req.Mode)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid mode: %s", req.Mode)})
		return
	}
	if req.APIKey == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "API key is required"})
		return
	}

	log := logrus.WithFields(logrus.Fields{
		"provider": req.Provider,
		"model":    req.Model,
		"mode":     req.Mode,
		"messages": len(req.Messages),
	})

	gen, err := s.newGenerator(req.Provider, req.Model, req.APIKey)
	if err != nil {
		if errors.Is(err, llm.ErrUnsupportedProvider) {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unsupported LLM provider: %s", req.Provider)})
			return
		}
		log.WithError(err).Error("failed to create provider client")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	reply, err := gen.Generate(c.Request.Context(), prompt, req.Messages)
	if err != nil {
		if errors.Is(err, llm.ErrInvalidAPIKey) {
			log.Warn("provider rejected API key")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
			return
		}
		log.WithError(err).Error("chat generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	log.Info("chat completed")
	c.JSON(http.StatusOK, gin.H{"response": reply})
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logrus.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).Round(time.Millisecond),
		}).Debug("request handled")
	}
}
