// Package docsvc exposes the document parser over HTTP: multipart uploads
// in, JSON parse results out, with parse events and metrics recorded to the
// observability store.
package docsvc

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hazyhaar/docparse/docparse"
	"github.com/hazyhaar/docparse/observability"
	"github.com/hazyhaar/docparse/textclean"
)

// Service wires the parser to HTTP handlers.
type Service struct {
	cfg     *Config
	parser  *docparse.Parser
	logger  *slog.Logger
	events  *observability.EventLogger
	metrics *observability.MetricsManager
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithEvents sets the parse event logger.
func WithEvents(e *observability.EventLogger) Option {
	return func(s *Service) { s.events = e }
}

// WithMetrics sets the metrics manager.
func WithMetrics(m *observability.MetricsManager) Option {
	return func(s *Service) { s.metrics = m }
}

// New creates a service around an existing parser.
func New(cfg *Config, parser *docparse.Parser, opts ...Option) *Service {
	s := &Service{
		cfg:    cfg,
		parser: parser,
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Router builds the chi router with all service routes mounted.
func (s *Service) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/v1/parse", s.handleParse)
	r.Get("/v1/formats", s.handleFormats)
	r.Get("/v1/health", s.handleHealth)
	return r
}

// maxMultipartOverhead is the extra body room allowed beyond the file
// payload for multipart framing and small form fields.
const maxMultipartOverhead = 1 << 20

// handleParse accepts a multipart upload ("file" field) and returns the parse
// result as JSON. Extraction failures are in-band: the response is still 200
// with success=false, so clients have a single place to look for errors.
// Malformed requests (missing file field, oversize body) are the exception
// and get a 4xx.
func (s *Service) handleParse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxFileBytes()+maxMultipartOverhead)

	if err := r.ParseMultipartForm(s.cfg.MaxFileBytes()); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, fmt.Sprintf("parse form: %v", err), http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, fmt.Sprintf("missing file field: %v", err), http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxFileBytes()+1))
	if err != nil {
		http.Error(w, fmt.Sprintf("read upload: %v", err), http.StatusBadRequest)
		return
	}
	if int64(len(data)) > s.cfg.MaxFileBytes() {
		http.Error(w, fmt.Sprintf("file too large (max %d MB)", s.cfg.MaxFileMB), http.StatusRequestEntityTooLarge)
		return
	}

	opts := s.cleanOptions(r)
	start := time.Now()
	result := s.parser.ParseBytes(r.Context(), header.Filename, data, opts)
	duration := time.Since(start)

	s.recordParse(r, header.Filename, int64(len(data)), result, duration)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (s *Service) handleFormats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"formats": docparse.SupportedFormats(),
	})
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"status": "ok"}

	if s.events != nil {
		if counts, err := s.events.Counts(r.Context()); err == nil {
			resp["parses_total"] = counts.Total
			resp["parses_failed"] = counts.Failed
		} else {
			resp["status"] = "degraded"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// cleanOptions resolves the cleaning configuration for one request: the
// service defaults, overridden per-field by query parameters. "clean=false"
// disables cleaning outright; "clean=true" enables it with defaults even
// when the service default is off.
func (s *Service) cleanOptions(r *http.Request) *textclean.Options {
	q := r.URL.Query()

	opts := s.cfg.CleanOptions()
	if v, ok := parseBoolParam(q.Get("clean")); ok {
		if !v {
			return nil
		}
		if opts == nil {
			def := textclean.Default()
			opts = &def
		}
	}
	if opts == nil {
		return nil
	}

	// Copy before applying per-request overrides.
	o := *opts
	if v, ok := parseBoolParam(q.Get("page_numbers")); ok {
		o.RemovePageNumbers = v
	}
	if v, ok := parseBoolParam(q.Get("headers_footers")); ok {
		o.RemoveHeadersFooters = v
	}
	if v, ok := parseBoolParam(q.Get("watermarks")); ok {
		o.RemoveWatermarks = v
	}
	if v := q.Get("min_repeat"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			o.MinRepeatCount = n
		}
	}
	if patterns, ok := q["pattern"]; ok {
		o.CustomPatterns = patterns
	}
	return &o
}

func parseBoolParam(v string) (value, ok bool) {
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}

func (s *Service) recordParse(r *http.Request, fileName string, size int64, result *docparse.ParseResult, duration time.Duration) {
	if !result.Success {
		s.logger.Debug("parse failed", "file", fileName, "error", result.Error)
	}

	if s.events != nil {
		event := observability.ParseEvent{
			FileName:     fileName,
			FileType:     string(result.FileType),
			FileSize:     size,
			Success:      result.Success,
			ErrorMessage: result.Error,
			RawChars:     len(result.RawText),
			CleanedChars: len(result.CleanedText),
			Duration:     duration,
			RequestID:    middleware.GetReqID(r.Context()),
		}
		if result.Metadata != nil {
			event.PageCount = result.Metadata.PageCount
		}
		if result.CleaningStats != nil {
			event.RemovedLines = result.CleaningStats.Total()
		}
		s.events.LogParse(r.Context(), event)
	}

	if s.metrics != nil {
		s.metrics.RecordSimple(observability.MetricParseDurationMs, float64(duration.Milliseconds()), "milliseconds")
		s.metrics.RecordSimple(observability.MetricParseBytesIn, float64(size), "bytes")
		s.metrics.RecordSimple(observability.MetricParseCount, 1, "count")
		if !result.Success {
			s.metrics.RecordSimple(observability.MetricParseFailCount, 1, "count")
		}
		if result.CleaningStats != nil {
			s.metrics.RecordSimple(observability.MetricRemovedLines, float64(result.CleaningStats.Total()), "count")
		}
	}
}
