package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"net/http"
	"strconv"
	"time"

	"github.com/df07/go-reflective-raytracer/pkg/loaders"
	"github.com/df07/go-reflective-raytracer/pkg/renderer"
)

// consoleBufferSize bounds the console messages queued for one stream
const consoleBufferSize = 100

// Stats represents render statistics
type Stats struct {
	TotalPixels      int     `json:"totalPixels"`
	HitPixels        int     `json:"hitPixels"`
	BackgroundPixels int     `json:"backgroundPixels"`
	Tiles            int     `json:"tiles"`
	Workers          int     `json:"workers"`
	Coverage         float64 `json:"coverage"`
}

// RenderResult is the final event of a streamed render
type RenderResult struct {
	Scene     string `json:"scene"`
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Stats     Stats  `json:"stats"`
	ElapsedMs int64  `json:"elapsedMs"`
}

func newStats(s renderer.RenderStats) Stats {
	return Stats{
		TotalPixels:      s.TotalPixels,
		HitPixels:        s.HitPixels,
		BackgroundPixels: s.BackgroundPixels,
		Tiles:            s.Tiles,
		Workers:          s.Workers,
		Coverage:         s.Coverage(),
	}
}

// handleRender renders a scene and returns it as a PNG
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	sc, rc, err := s.prepareRender(req)
	if err != nil {
		writeError(w, sceneErrorStatus(err), err.Error())
		return
	}

	startTime := time.Now()
	img, stats := renderer.Render(sc.Objects, rc, s.logger)
	elapsed := time.Since(startTime)

	data, err := encodePNG(img)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Render-Ms", strconv.FormatInt(elapsed.Milliseconds(), 10))
	w.Header().Set("X-Background-Pixels", strconv.Itoa(stats.BackgroundPixels))
	w.Header().Set("X-Hit-Pixels", strconv.Itoa(stats.HitPixels))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// handleRenderStream renders a scene and streams the render log as
// server-sent events, followed by a "complete" event with the image
func (s *Server) handleRenderStream(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	sc, rc, err := s.prepareRender(req)
	if err != nil {
		writeError(w, sceneErrorStatus(err), err.Error())
		return
	}

	if _, ok := w.(http.Flusher); !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}
	s.setSSEHeaders(w)

	renderID := fmt.Sprintf("render-%d", s.renderSeq.Add(1))
	consoleChan := make(chan ConsoleMessage, consoleBufferSize)
	webLogger := NewWebLogger(renderID, s.logger, consoleChan)

	type renderOutput struct {
		img   *image.RGBA
		stats renderer.RenderStats
	}
	done := make(chan renderOutput, 1)

	if sc.GetLightCount() == 0 {
		webLogger.Warnf("Scene %q has no lights, every pixel will be background", sc.Name)
	}

	startTime := time.Now()
	go func() {
		img, stats := renderer.Render(sc.Objects, rc, webLogger)
		done <- renderOutput{img, stats}
	}()

	ctx := r.Context()
	for {
		select {
		case msg := <-consoleChan:
			s.sendSSEJSON(w, "console", msg)
		case out := <-done:
			// Flush console messages queued before the render finished
			for drained := false; !drained; {
				select {
				case msg := <-consoleChan:
					s.sendSSEJSON(w, "console", msg)
				default:
					drained = true
				}
			}

			data, err := encodePNG(out.img)
			if err != nil {
				webLogger.Errorf("Failed to encode image: %v", err)
				s.sendSSEEvent(w, "error", err.Error())
				return
			}
			s.sendSSEJSON(w, "complete", RenderResult{
				Scene:     sc.Name,
				ImageData: base64.StdEncoding.EncodeToString(data),
				Stats:     newStats(out.stats),
				ElapsedMs: time.Since(startTime).Milliseconds(),
			})
			return
		case <-ctx.Done():
			// Client went away; the render goroutine finishes on its own
			s.logger.Printf("%s: client disconnected", renderID)
			return
		}
	}
}

func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// sendSSEJSON sends v as the JSON data of an SSE event
func (s *Server) sendSSEJSON(w http.ResponseWriter, event string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.sendSSEEvent(w, event, string(data))
}

// sendSSEEvent sends a generic SSE event
func (s *Server) sendSSEEvent(w http.ResponseWriter, event, data string) error {
	if flusher, ok := w.(http.Flusher); ok {
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
		flusher.Flush()
		return nil
	}
	return fmt.Errorf("streaming not supported")
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := loaders.EncodeImage(&buf, img, "png"); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
