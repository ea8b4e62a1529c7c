package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"

	"github.com/df07/go-reflective-raytracer/pkg/config"
	"github.com/df07/go-reflective-raytracer/pkg/core"
	"github.com/df07/go-reflective-raytracer/pkg/renderer"
	"github.com/df07/go-reflective-raytracer/pkg/scene"
)

// Server handles web requests for the reflective raytracer
type Server struct {
	port      int
	scenesDir string
	maxWidth  int
	maxHeight int
	render    renderer.Config // base for every request; size and bounces come from the request
	logger    core.Logger
	renderSeq atomic.Uint64
}

// NewServer creates a new web server rendering with the given base config.
// A nil logger logs to stdout.
func NewServer(cfg config.ServerConfig, render renderer.Config, logger core.Logger) *Server {
	if logger == nil {
		logger = renderer.NewDefaultLogger()
	}
	maxWidth, maxHeight := cfg.MaxWidth, cfg.MaxHeight
	if maxWidth <= 0 {
		maxWidth = 1920
	}
	if maxHeight <= 0 {
		maxHeight = 1080
	}
	return &Server{
		port:      cfg.Port,
		scenesDir: cfg.ScenesDir,
		maxWidth:  maxWidth,
		maxHeight: maxHeight,
		render:    render,
		logger:    logger,
	}
}

// Handler returns the HTTP routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/render/stream", s.handleRenderStream)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes and the scene files on disk
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	scenes, err := scene.ListScenes(s.scenesDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, scenes)
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene      string `json:"scene"`  // Scene id as listed by /api/scenes
	Width      int    `json:"width"`  // Image width
	Height     int    `json:"height"` // Image height
	MaxBounces int    `json:"maxBounces"`
	HasBounces bool   `json:"-"` // MaxBounces was given; otherwise the scene's limit applies
}

// parseRenderRequest parses and validates request parameters
func (s *Server) parseRenderRequest(values url.Values) (*RenderRequest, error) {
	req := &RenderRequest{Scene: values.Get("scene")}
	if req.Scene == "" {
		req.Scene = "default"
	}

	defaultWidth, defaultHeight := s.defaultSize()
	var err error
	if req.Width, err = parseIntParam(values, "width", defaultWidth, 1, s.maxWidth); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(values, "height", defaultHeight, 1, s.maxHeight); err != nil {
		return nil, err
	}
	if req.MaxBounces, err = parseIntParam(values, "bounces", 0, 0, 255); err != nil {
		return nil, err
	}
	req.HasBounces = values.Get("bounces") != ""

	return req, nil
}

// prepareRender resolves the requested scene and builds its render config
func (s *Server) prepareRender(req *RenderRequest) (*scene.Scene, renderer.Config, error) {
	sc, err := scene.Find(req.Scene, s.scenesDir)
	if err != nil {
		return nil, renderer.Config{}, err
	}

	base := s.render
	base.Width = req.Width
	base.Height = req.Height
	rc := sc.Configure(base)
	if req.HasBounces {
		rc.MaxBounces = uint8(req.MaxBounces)
	}
	return sc, rc, nil
}

// defaultSize is the configured image size, limited to the server maximum
func (s *Server) defaultSize() (int, int) {
	width, height := s.render.Width, s.render.Height
	if width <= 0 || height <= 0 {
		defaults := renderer.DefaultConfig()
		width, height = defaults.Width, defaults.Height
	}
	return min(width, s.maxWidth), min(height, s.maxHeight)
}

// sceneErrorStatus maps a scene lookup error to an HTTP status
func sceneErrorStatus(err error) int {
	if errors.Is(err, scene.ErrUnknownScene) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
