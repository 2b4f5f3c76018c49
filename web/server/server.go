package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/df07/go-sphere-pathtracer/pkg/log"
	"github.com/df07/go-sphere-pathtracer/pkg/output"
	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
	"github.com/df07/go-sphere-pathtracer/pkg/scene"
)

var logger = log.New("web")

// Limits applied to render requests
const (
	maxImageSize   = 2000
	maxSamples     = 10000
	maxDepth       = 1000
	defaultTimeout = 10 * time.Minute
)

// Server handles web requests for the path tracer
type Server struct {
	port       int
	numWorkers int
	mux        *http.ServeMux
}

// NewServer creates a new web server. numWorkers 0 uses one render worker per CPU.
func NewServer(port, numWorkers int) *Server {
	s := &Server{port: port, numWorkers: numWorkers, mux: http.NewServeMux()}

	s.mux.HandleFunc("/api/render", s.handleRender)
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/scenes", s.handleScenes)

	return s
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene           string        `json:"scene"`
	Width           int           `json:"width"`
	Height          int           `json:"height"`
	SamplesPerPixel int           `json:"samplesPerPixel"`
	MaxDepth        int           `json:"maxDepth"`
	Seed            int64         `json:"seed"`
	Format          output.Format `json:"format"`
}

// SceneSummary describes a scene and the sampling defaults used when a request omits them
type SceneSummary struct {
	scene.SceneInfo
	Defaults scene.SamplingConfig `json:"defaults"`
}

// Handler returns the request router
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Noticef("starting web server on http://localhost:%d", s.port)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Notice("shutting down web server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists every built-in scene with its defaults
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	var summaries []SceneSummary
	for _, info := range scene.ListAllScenes() {
		sc, err := scene.Lookup(info.ID, 0)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		summaries = append(summaries, SceneSummary{SceneInfo: info, Defaults: sc.Sampling})
	}
	writeJSON(w, http.StatusOK, summaries)
}

// handleRender renders a single frame and responds with the encoded image
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
		return
	}

	req, sc, err := s.parseRenderRequest(r)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, scene.ErrUnknownScene) {
			status = http.StatusNotFound
		}
		writeError(w, status, err)
		return
	}

	camera, err := sc.NewCamera(req.Width, req.Height)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	config := renderer.Config{
		Width:           req.Width,
		Height:          req.Height,
		SamplesPerPixel: req.SamplesPerPixel,
		MaxDepth:        req.MaxDepth,
		TileSize:        32,
		NumWorkers:      s.numWorkers,
		Seed:            req.Seed,
	}
	raytracer, err := renderer.NewRaytracer(sc.World, camera, sc.Background, config)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	// Client disconnection cancels the render through the request context
	ctx, cancel := context.WithTimeout(r.Context(), defaultTimeout)
	defer cancel()

	img, stats, err := raytracer.RenderImage(ctx)
	if err != nil {
		if r.Context().Err() != nil {
			logger.Infof("client went away, render of %q abandoned", req.Scene)
			return
		}
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}

	var buf bytes.Buffer
	if err := output.Encode(&buf, img, req.Format); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	logger.Infof("rendered %q %dx%d at %d spp in %v", req.Scene, req.Width, req.Height, req.SamplesPerPixel, stats.RenderTime)

	w.Header().Set("Content-Type", req.Format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Render-Time-Ms", strconv.FormatInt(stats.RenderTime.Milliseconds(), 10))
	w.Header().Set("X-Render-Rays", strconv.FormatInt(stats.TotalRays, 10))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.Warningf("failed to write image: %v", err)
	}
}

// parseRenderRequest parses request parameters, falling back to the scene's defaults
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, *scene.Scene, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = "default"
	}

	var err error
	if req.Seed, err = parseInt64Param(query, "seed", 42); err != nil {
		return nil, nil, err
	}

	sc, err := scene.Lookup(req.Scene, req.Seed)
	if err != nil {
		return nil, nil, err
	}

	if req.Width, err = parseIntParam(query, "width", sc.Sampling.Width, 1, maxImageSize); err != nil {
		return nil, nil, err
	}
	if req.Height, err = parseIntParam(query, "height", sc.Sampling.Height, 1, maxImageSize); err != nil {
		return nil, nil, err
	}
	if req.SamplesPerPixel, err = parseIntParam(query, "spp", sc.Sampling.SamplesPerPixel, 1, maxSamples); err != nil {
		return nil, nil, err
	}
	if req.MaxDepth, err = parseIntParam(query, "depth", sc.Sampling.MaxDepth, 0, maxDepth); err != nil {
		return nil, nil, err
	}

	req.Format = output.PNG
	if format := query.Get("format"); format != "" {
		if req.Format, err = output.ParseFormat(format); err != nil {
			return nil, nil, err
		}
	}

	if req.Width*req.Height > 800*600 && req.SamplesPerPixel > 100 {
		logger.Warning("large image with high samples may render slowly")
	}

	return req, sc, nil
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

// parseInt64Param parses an unbounded 64-bit integer parameter
func parseInt64Param(values url.Values, key string, defaultValue int64) (int64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Warningf("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
