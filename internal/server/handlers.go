package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"time"

	_ "golang.org/x/image/bmp"

	"github.com/MeKo-Tech/craftdet/internal/detector"
)

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// ErrorResponse is the error payload for all endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}

// DetectResponse is the /detect payload.
type DetectResponse struct {
	Width          int                `json:"width"`
	Height         int                `json:"height"`
	Boxes          []detector.BoxJSON `json:"boxes"`
	ProcessingTime string             `json:"processing_time"`
}

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "healthy",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// detectHandler accepts a multipart image upload and returns detected boxes.
func (s *Server) detectHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadMB*1024*1024)
	if err := r.ParseMultipartForm(s.maxUploadMB * 1024 * 1024); err != nil {
		s.writeError(w, "Failed to parse form data", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		s.writeError(w, "No image file provided", http.StatusBadRequest)
		return
	}
	defer func() { _ = file.Close() }()

	uploadSizeBytes.Observe(float64(header.Size))

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, "Failed to read image data", http.StatusInternalServerError)
		return
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		s.writeError(w, "Invalid image format", http.StatusBadRequest)
		return
	}

	if s.pipeline == nil {
		s.writeError(w, "Detection pipeline unavailable", http.StatusServiceUnavailable)
		return
	}

	result, err := s.pipeline.DetectImage(img)
	if err != nil {
		detectRequestsTotal.WithLabelValues("error").Inc()
		s.writeError(w, "Detection failed", http.StatusInternalServerError)
		return
	}

	detectRequestsTotal.WithLabelValues("ok").Inc()
	detectDuration.Observe(result.ProcessingTime.Seconds())
	boxesDetected.Observe(float64(len(result.Boxes)))

	resp := DetectResponse{
		Width:          result.Width,
		Height:         result.Height,
		Boxes:          make([]detector.BoxJSON, 0, len(result.Boxes)),
		ProcessingTime: result.ProcessingTime.String(),
	}
	for _, b := range result.Boxes {
		var bj detector.BoxJSON
		for i, p := range b.Points {
			bj.Points[i] = detector.PointJSON{X: p.X, Y: p.Y}
		}
		resp.Boxes = append(resp.Boxes, bj)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, ErrorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding response: %v\n", err)
	}
}
