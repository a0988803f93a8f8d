package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"fpa/internal/core"
	"fpa/internal/services"
)

const maxQuestionBytes = 4 << 10

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Answer services.Answer `json:"answer"`
}

type ebitdaResponse struct {
	Month     string  `json:"month"`
	EBITDAUSD float64 `json:"ebitda_usd"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req askRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxQuestionBytes))
	if err := dec.Decode(&req); err != nil {
		slog.ErrorContext(r.Context(), "Bad ask request body", "error", err)
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		writeError(w, http.StatusBadRequest, "question cannot be empty")
		return
	}

	answer, err := s.copilot.Answer(r.Context(), question)
	if err != nil {
		s.writeMetricError(w, r, err, "Answer question failed")
		return
	}

	writeJSON(w, http.StatusOK, askResponse{Answer: answer})
}

func (s *Server) handleEBITDA(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	month := strings.TrimSpace(r.URL.Query().Get("month"))
	if month == "" {
		writeError(w, http.StatusBadRequest, "month query parameter is required (YYYY-MM)")
		return
	}

	value, err := s.copilot.EBITDA(r.Context(), month)
	if err != nil {
		s.writeMetricError(w, r, err, "EBITDA lookup failed")
		return
	}

	writeJSON(w, http.StatusOK, ebitdaResponse{Month: month, EBITDAUSD: value})
}

// writeMetricError maps domain sentinels to client errors; anything else
// is an internal failure of the data source.
func (s *Server) writeMetricError(w http.ResponseWriter, r *http.Request, err error, logMsg string) {
	switch {
	case errors.Is(err, core.ErrBadMonth):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, core.ErrMissingFixture):
		slog.ErrorContext(r.Context(), logMsg, "error", err)
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		slog.ErrorContext(r.Context(), logMsg, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
