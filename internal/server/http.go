// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/AccelByte/extend-flick-countdown/pkg/common"
	"github.com/AccelByte/extend-flick-countdown/pkg/display"
	"github.com/AccelByte/extend-flick-countdown/pkg/score"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// Scores is the score store surface the HTTP API needs.
type Scores interface {
	Increment(ctx context.Context, name string) (int, bool)
	Snapshot() score.Mapping
	Lockdown() *score.Lockdown
}

// Health reports backend health.
type Health interface {
	Check(ctx context.Context) error
}

// HTTPServer serves the display WebSocket and the flick API.
type HTTPServer struct {
	server *http.Server
	port   int
	scores Scores
	hub    *display.Hub
	health Health
}

// NewHTTPServer creates a new HTTP server instance.
func NewHTTPServer(port int, scores Scores, hub *display.Hub, health Health) *HTTPServer {
	return &HTTPServer{
		port:   port,
		scores: scores,
		hub:    hub,
		health: health,
	}
}

// FlickResponse is returned by the flick endpoint.
type FlickResponse struct {
	Name     string `json:"name"`
	Score    int    `json:"score"`
	Accepted bool   `json:"accepted"`
}

// ScoresResponse is returned by the scores endpoint.
type ScoresResponse struct {
	Scores score.Mapping `json:"scores"`
	Locked bool          `json:"locked"`
	Leader string        `json:"leader,omitempty"`
}

// Setup registers the routes.
func (s *HTTPServer) Setup() error {
	mux := http.NewServeMux()
	mux.Handle("GET /ws", s.hub)
	mux.HandleFunc("POST /api/flick/{name}", s.handleFlick)
	mux.HandleFunc("GET /api/scores", s.handleScores)
	mux.HandleFunc("GET /api/display", s.handleDisplay)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           logRequests(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return nil
}

// Handler returns the routed handler. Setup must be called first.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

// Start begins serving HTTP requests.
func (s *HTTPServer) Start(ctx context.Context) error {
	go func() {
		logrus.Infof("HTTP server listening on port %d", s.port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server failed: %v", err)
		}
	}()
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	logrus.Info("shutting down HTTP server...")
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	logrus.Info("HTTP server stopped")
	return nil
}

func (s *HTTPServer) handleFlick(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	scope := common.NewScope(ctx, "http.flick")
	defer scope.Finish()

	name := r.PathValue("name")
	if err := score.ValidateName(name); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	value, ok := s.scores.Increment(scope.Ctx, name)
	if !ok {
		scope.TraceEvent("flick rejected")
		writeJSON(w, http.StatusConflict, FlickResponse{Name: name, Score: value, Accepted: false})
		return
	}

	writeJSON(w, http.StatusOK, FlickResponse{Name: name, Score: value, Accepted: true})
}

func (s *HTTPServer) handleScores(w http.ResponseWriter, r *http.Request) {
	snapshot := s.scores.Snapshot()
	writeJSON(w, http.StatusOK, ScoresResponse{
		Scores: snapshot,
		Locked: s.scores.Lockdown().Engaged(),
		Leader: score.Winner(snapshot),
	})
}

func (s *HTTPServer) handleDisplay(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.hub.State())
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health.Check(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.Debugf("failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
