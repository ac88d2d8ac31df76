package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/njchilds90/gopn"
	"github.com/njchilds90/gopn/internal/metrics"
)

type server struct {
	logger       *zap.Logger
	metrics      *metrics.Metrics
	maxBodyBytes int64
}

// statusRecorder remembers the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func newServer(logger *zap.Logger, m *metrics.Metrics, maxBodyBytes int64) http.Handler {
	s := &server{logger: logger, metrics: m, maxBodyBytes: maxBodyBytes}

	mux := http.NewServeMux()
	mux.Handle("/tool", s.instrument("/tool", s.handleTool))
	mux.Handle("/schema", s.instrument("/schema", s.handleSchema))
	mux.Handle("/health", s.instrument("/health", s.handleHealth))
	mux.Handle("/metrics", m.Handler())
	return mux
}

// instrument tags each request with an X-Request-ID, recovers panics and
// counts the response code.
func (s *server) instrument(endpoint string, h func(http.ResponseWriter, *http.Request, *zap.Logger)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", id)
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		logger := s.logger.With(zap.String("request_id", id), zap.String("endpoint", endpoint))

		defer func() {
			if p := recover(); p != nil {
				logger.Error("Panic in handler",
					zap.Any("panic", p),
					zap.ByteString("stack", debug.Stack()))
				http.Error(rec, "internal server error", http.StatusInternalServerError)
			}
			s.metrics.RecordHTTPRequest(endpoint, strconv.Itoa(rec.code))
		}()
		h(rec, r, logger)
	})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// POST /tool: handle a tool call
func (s *server) handleTool(w http.ResponseWriter, r *http.Request, logger *zap.Logger) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req gopn.ToolRequest
	if err := dec.Decode(&req); err != nil {
		logger.Debug("Rejected tool request", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	// Ensure there's no trailing junk.
	if dec.More() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: trailing data"})
		return
	}

	start := time.Now()
	resp := gopn.HandleToolCall(req)
	elapsed := time.Since(start)

	status := "ok"
	if resp.Error != "" {
		status = "error"
	}
	s.metrics.RecordToolCall(toolLabel(req.Tool), status, resp.Terms, elapsed)
	logger.Info("Tool call",
		zap.String("tool", req.Tool),
		zap.String("status", status),
		zap.Int("terms", resp.Terms),
		zap.Duration("elapsed", elapsed))

	writeJSON(w, http.StatusOK, resp)
}

// toolLabel keeps the metric label set bounded to known tools.
func toolLabel(tool string) string {
	for _, name := range gopn.ToolNames() {
		if name == tool {
			return tool
		}
	}
	return "unknown"
}

// GET /schema: return tool schema for agent registration
func (s *server) handleSchema(w http.ResponseWriter, r *http.Request, _ *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, gopn.MCPToolSpec())
}

// GET /health: liveness check
func (s *server) handleHealth(w http.ResponseWriter, r *http.Request, _ *zap.Logger) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
