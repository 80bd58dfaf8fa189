package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/danielpatrickdp/alien-probe/internal/ending"
	"github.com/danielpatrickdp/alien-probe/internal/flavour"
	"github.com/danielpatrickdp/alien-probe/internal/progression"
	"github.com/danielpatrickdp/alien-probe/internal/puzzle"
	"github.com/danielpatrickdp/alien-probe/internal/state"
)

const (
	defaultOutcomeLimit = 20
	maxOutcomeLimit     = 500
)

// #region responses
// HealthResponse reports liveness.
type HealthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
	Phase  string `json:"phase"`
}

// ProgressResponse is the snapshot plus the flavour text shown beside the meters.
type ProgressResponse struct {
	progression.Snapshot
	CategoryText  string `json:"category_text"`
	ZorpStanding  string `json:"zorp_standing"`
	XylarStanding string `json:"xylar_standing"`
	ThreatBand    string `json:"threat_band"`
	Narration     string `json:"narration,omitempty"`
}

// PuzzleResponse describes the current puzzle without its solution.
type PuzzleResponse struct {
	ID         string `json:"id"`
	Level      int    `json:"level"`
	LetterBank string `json:"letter_bank"`
	Slots      int    `json:"slots"`
}

// AnswerRequest submits a typed answer for the current puzzle.
type AnswerRequest struct {
	Answer string `json:"answer"`
}

// AnswerResponse reports the checked answer and the session afterwards.
type AnswerResponse struct {
	Correct  bool                 `json:"correct"`
	Progress progression.Snapshot `json:"progress"`
}

// MeterRequest nudges a meter.
type MeterRequest struct {
	Meter string   `json:"meter"`
	Delta *float32 `json:"delta"`
}

// #endregion responses

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status: "healthy",
		Uptime: time.Since(s.started).Round(time.Second).String(),
		Phase:  s.session.Snapshot().Phase,
	})
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.progressResponse())
}

func (s *Server) progressResponse() ProgressResponse {
	snap := s.session.Snapshot()
	resp := ProgressResponse{
		Snapshot:      snap,
		CategoryText:  flavour.CategoryDescription(flavour.CategoryFor(snap.Level)),
		ZorpStanding:  flavour.ZorpStanding(snap.ZorpRespect),
		XylarStanding: flavour.XylarStanding(snap.XylarCuriosity),
		ThreatBand:    flavour.ThreatBand(snap.Destruction),
	}
	if snap.Ending != "" {
		if k, err := ending.ParseKind(snap.Ending); err == nil {
			resp.Narration = flavour.EndingNarration(k)
		}
	}
	return resp
}

func (s *Server) handlePuzzle(w http.ResponseWriter, r *http.Request) {
	def, ok := s.session.CurrentPuzzle()
	if !ok {
		s.writeError(w, http.StatusNotFound, ErrTypeNotFound, "no puzzle at the current level")
		return
	}
	b := puzzle.NewBoard(def)
	s.writeJSON(w, http.StatusOK, PuzzleResponse{
		ID:         def.ID,
		Level:      s.session.Snapshot().Level,
		LetterBank: def.LetterBank,
		Slots:      b.Slots(),
	})
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, ErrTypeValidation, "invalid JSON format")
		return
	}
	correct, applied, err := s.session.SubmitAnswer(req.Answer)
	if err != nil {
		if errors.Is(err, progression.ErrInvalidState) {
			s.writeError(w, http.StatusConflict, ErrTypeState, err.Error())
			return
		}
		s.writeError(w, http.StatusInternalServerError, ErrTypeInternal, err.Error())
		return
	}
	if !applied {
		s.writeError(w, http.StatusConflict, ErrTypeState, "not accepting answers while "+s.session.Snapshot().Phase)
		return
	}
	s.writeJSON(w, http.StatusOK, AnswerResponse{Correct: correct, Progress: s.session.Snapshot()})
}

func (s *Server) handleOutcomes(w http.ResponseWriter, r *http.Request) {
	if s.outcomes == nil {
		s.writeError(w, http.StatusServiceUnavailable, ErrTypeUnavailable, "outcome log is not configured")
		return
	}
	limit := defaultOutcomeLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxOutcomeLimit {
			s.writeError(w, http.StatusBadRequest, ErrTypeValidation, "limit must be between 1 and 500")
			return
		}
		limit = n
	}
	recs, err := s.outcomes(limit)
	if err != nil {
		s.log.Error("list outcomes failed", "err", err)
		s.writeError(w, http.StatusInternalServerError, ErrTypeInternal, "failed to list outcomes")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"outcomes": recs,
		"count":    len(recs),
	})
}

func (s *Server) handleAdjustMeter(w http.ResponseWriter, r *http.Request) {
	var req MeterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, ErrTypeValidation, "invalid JSON format")
		return
	}
	m, err := state.ParseMeter(req.Meter)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, ErrTypeValidation, err.Error())
		return
	}
	if req.Delta == nil {
		s.writeError(w, http.StatusBadRequest, ErrTypeValidation, "delta is required")
		return
	}
	if err := s.session.AdjustMeter(m, *req.Delta); err != nil {
		s.writeError(w, http.StatusBadRequest, ErrTypeValidation, err.Error())
		return
	}
	s.log.Info("meter adjusted over http", "meter", m.String(), "delta", *req.Delta)
	s.writeJSON(w, http.StatusOK, s.progressResponse())
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.session.ResetProgress()
	s.log.Info("progress reset over http")
	s.writeJSON(w, http.StatusOK, s.progressResponse())
}
