package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"docsage/internal/compose"
	"docsage/internal/extract"
	"docsage/internal/history"
	"docsage/internal/ingest"
	"docsage/internal/logging"
)

// defaultHistoryLimit is how many turns GET /api/history returns when the
// limit query parameter is absent.
const defaultHistoryLimit = 50

// handleTrain handles POST /api/train. The document arrives as a multipart
// form file under the "document" field. A successful upload atomically
// replaces the previous corpus.
func (s *Server) handleTrain(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	file, header, err := r.FormFile("document")
	if err != nil {
		s.observeTrain("bad_request", start)
		writeError(w, http.StatusBadRequest, `multipart file field "document" is required`)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.observeTrain("bad_request", start)
		writeError(w, http.StatusBadRequest, "could not read uploaded file")
		return
	}

	res, err := s.ingester.Ingest(r.Context(), data, header.Header.Get("Content-Type"), header.Filename)
	if err != nil {
		switch {
		case errors.Is(err, ingest.ErrInProgress):
			s.observeTrain("conflict", start)
			writeError(w, http.StatusConflict, "another document is currently being processed")
		case errors.Is(err, extract.ErrUnsupportedFormat), errors.Is(err, extract.ErrNoTextExtracted):
			s.observeTrain("bad_request", start)
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			log.Error("train failed", slog.Any("error", err), slog.String("filename", header.Filename))
			s.observeTrain("error", start)
			writeError(w, http.StatusBadGateway, "document processing failed")
		}
		return
	}

	s.metrics.corpusChunks.Set(float64(res.ChunkCount))
	s.observeTrain("ok", start)
	writeJSON(w, http.StatusOK, trainResponse{
		Filename:   res.Filename,
		ChunkCount: res.ChunkCount,
		Message:    "document learned successfully",
	})
}

// handleAsk handles POST /api/ask. The reply is always JSON {"answer": ...};
// asking before any document is trained returns a fixed notice, not an error.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())
	start := time.Now()

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.observeAsk("bad_request", start)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Question == "" {
		s.observeAsk("bad_request", start)
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	ans, err := s.asker.Ask(r.Context(), req.Question)
	if err != nil {
		if errors.Is(err, compose.ErrEmptyDocument) {
			s.observeAsk("bad_request", start)
			writeError(w, http.StatusBadRequest, "the document has no text to summarize")
			return
		}
		log.Error("ask failed", slog.Any("error", err))
		s.observeAsk("error", start)
		writeError(w, http.StatusBadGateway, "could not answer the question")
		return
	}

	s.recordHistory(r, req.Question, ans.Text, ans.Language, string(ans.Intent))
	s.observeAsk("ok", start)
	writeJSON(w, http.StatusOK, askResponse{Answer: ans.Text})
}

// recordHistory appends the turn to the history store, if one is configured.
// History failures are logged but never surfaced to the client.
func (s *Server) recordHistory(r *http.Request, question, answer, language, intent string) {
	if s.cfg.History == nil {
		return
	}

	filename := ""
	if c, err := s.corpus.Get(r.Context()); err == nil {
		filename = c.Filename
	}

	e := history.Entry{
		Question: question,
		Answer:   answer,
		Filename: filename,
		Language: language,
		Intent:   intent,
	}
	if err := s.cfg.History.Append(r.Context(), e); err != nil {
		logging.FromContext(r.Context()).Warn("history append failed", slog.Any("error", err))
	}
}

// handleStatus handles GET /api/status and reports the loaded document.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	c, err := s.corpus.Get(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("status failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "could not read corpus state")
		return
	}

	writeJSON(w, http.StatusOK, Status{
		Trained:    !c.Empty(),
		Filename:   c.Filename,
		ChunkCount: len(c.Chunks),
	})
}

// handleHistory handles GET /api/history. The optional limit query
// parameter caps the number of returned turns.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.cfg.History == nil {
		writeError(w, http.StatusNotFound, "history is disabled")
		return
	}

	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	entries, err := s.cfg.History.Recent(r.Context(), limit)
	if err != nil {
		logging.FromContext(r.Context()).Error("history read failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "could not read history")
		return
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// observeTrain records metrics for one completed /api/train request.
func (s *Server) observeTrain(outcome string, start time.Time) {
	s.metrics.trainRequestsTotal.WithLabelValues(outcome).Inc()
	s.metrics.trainDurationSeconds.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
}

// observeAsk records metrics for one completed /api/ask request.
func (s *Server) observeAsk(outcome string, start time.Time) {
	s.metrics.askRequestsTotal.WithLabelValues(outcome).Inc()
	s.metrics.askDurationSeconds.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
}
