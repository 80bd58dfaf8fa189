package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielpatrickdp/alien-probe/internal/logging"
	"github.com/danielpatrickdp/alien-probe/internal/progression"
	"github.com/danielpatrickdp/alien-probe/internal/puzzle"
	"github.com/danielpatrickdp/alien-probe/internal/schedule"
	"github.com/danielpatrickdp/alien-probe/internal/state"
)

// #region helpers
func newTestServer(t *testing.T, outcomes OutcomeLister) (*Server, *progression.Controller, *schedule.Manual) {
	t.Helper()
	cat, err := puzzle.NewCatalog([]puzzle.Definition{
		{ID: "cat", Solution: "CAT", LetterBank: "TACX", DestructionOnCorrect: -10, DestructionOnIncorrect: 20},
		{ID: "dog", Solution: "DOG", LetterBank: "GODZ", DestructionOnCorrect: -10, DestructionOnIncorrect: 20},
	})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	clock := schedule.NewManual()
	ctrl := progression.New(cat, progression.Options{Scheduler: clock})
	if err := ctrl.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return NewServer(ctrl, outcomes, logging.Discard()), ctrl, clock
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

// #endregion helpers

func TestHealth(t *testing.T) {
	s, _, _ := newTestServer(t, nil)
	rec := do(t, s.Routes(), http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp HealthResponse
	decode(t, rec, &resp)
	if resp.Status != "healthy" || resp.Phase != "idle" {
		t.Fatalf("unexpected health %+v", resp)
	}
}

func TestProgressIncludesFlavour(t *testing.T) {
	s, _, _ := newTestServer(t, nil)
	rec := do(t, s.Routes(), http.MethodGet, "/api/v1/progress", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp ProgressResponse
	decode(t, rec, &resp)
	if resp.Progress() != state.DefaultProgress() {
		t.Fatalf("expected defaults, got %+v", resp.Snapshot)
	}
	if resp.CategoryText == "" || resp.ZorpStanding == "" || resp.XylarStanding == "" || resp.ThreatBand == "" {
		t.Fatalf("missing flavour text: %+v", resp)
	}
	if resp.Narration != "" {
		t.Fatalf("expected no narration before an ending, got %q", resp.Narration)
	}
	if resp.PuzzleID != "cat" || resp.Total != 2 {
		t.Fatalf("unexpected puzzle fields %+v", resp.Snapshot)
	}
}

func TestPuzzleHidesSolution(t *testing.T) {
	s, _, _ := newTestServer(t, nil)
	rec := do(t, s.Routes(), http.MethodGet, "/api/v1/puzzle", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "solution") {
		t.Fatalf("puzzle response leaked the solution: %s", rec.Body.String())
	}
	var resp PuzzleResponse
	decode(t, rec, &resp)
	if resp.ID != "cat" || resp.LetterBank != "TACX" || resp.Slots != 3 {
		t.Fatalf("unexpected puzzle %+v", resp)
	}
}

func TestAnswerAdvancesAfterTransition(t *testing.T) {
	s, ctrl, clock := newTestServer(t, nil)
	h := s.Routes()

	rec := do(t, h, http.MethodPost, "/api/v1/answer", `{"answer":" cat "}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp AnswerResponse
	decode(t, rec, &resp)
	if !resp.Correct || resp.Progress.Phase != "transitioning" || resp.Progress.Destruction != 40 {
		t.Fatalf("unexpected answer response %+v", resp)
	}

	rec = do(t, h, http.MethodPost, "/api/v1/answer", `{"answer":"cat"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 while transitioning, got %d", rec.Code)
	}
	var errResp ErrorResponse
	decode(t, rec, &errResp)
	if errResp.Type != ErrTypeState || !strings.Contains(errResp.Message, "transitioning") {
		t.Fatalf("expected %s, got %+v", ErrTypeState, errResp)
	}

	clock.Advance(progression.DefaultTransitionDelay)
	if ctrl.Level() != 1 {
		t.Fatalf("expected level 1, got %d", ctrl.Level())
	}
}

func TestAnswerWrongRaisesDestruction(t *testing.T) {
	s, _, _ := newTestServer(t, nil)
	rec := do(t, s.Routes(), http.MethodPost, "/api/v1/answer", `{"answer":"bat"}`)
	var resp AnswerResponse
	decode(t, rec, &resp)
	if resp.Correct || resp.Progress.Destruction != 70 {
		t.Fatalf("unexpected answer response %+v", resp)
	}
}

func TestAnswerRejectsBadJSON(t *testing.T) {
	s, _, _ := newTestServer(t, nil)
	rec := do(t, s.Routes(), http.MethodPost, "/api/v1/answer", `{`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAdjustMeter(t *testing.T) {
	s, ctrl, _ := newTestServer(t, nil)
	h := s.Routes()

	rec := do(t, h, http.MethodPost, "/api/v1/debug/meter", `{"meter":"destruction","delta":75}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := ctrl.Meter(state.MeterDestruction); got != 100 {
		t.Fatalf("expected clamp to 100, got %v", got)
	}

	tests := []struct {
		name string
		body string
	}{
		{"unknown meter", `{"meter":"happiness","delta":1}`},
		{"missing delta", `{"meter":"zorp_respect"}`},
		{"bad json", `not json`},
		{"nan literal", `{"meter":"zorp","delta":NaN}`},
		{"float32 overflow", `{"meter":"zorp","delta":1e39}`},
		{"string delta", `{"meter":"zorp","delta":"Infinity"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/v1/debug/meter", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			var errResp ErrorResponse
			decode(t, rec, &errResp)
			if errResp.Type != ErrTypeValidation || errResp.Message == "" {
				t.Fatalf("unexpected error body %+v", errResp)
			}
		})
	}
}

// nonFiniteSession forwards to a controller but hands it a NaN delta, the way a
// client that bypasses JSON number rules would.
type nonFiniteSession struct {
	*progression.Controller
}

func (n nonFiniteSession) AdjustMeter(m state.Meter, _ float32) error {
	return n.Controller.AdjustMeter(m, float32(math.NaN()))
}

func TestAdjustMeterRejectsNonFiniteDelta(t *testing.T) {
	_, ctrl, _ := newTestServer(t, nil)
	s := NewServer(nonFiniteSession{ctrl}, nil, logging.Discard())
	h := s.Routes()

	rec := do(t, h, http.MethodPost, "/api/v1/debug/meter", `{"meter":"zorp","delta":1}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if got := ctrl.Meter(state.MeterZorpRespect); got != 0 {
		t.Fatalf("zorp changed to %v", got)
	}
	rec = do(t, h, http.MethodGet, "/api/v1/progress", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("progress should stay readable, got %d", rec.Code)
	}
}

// lateSession lets another answer land first, between the handler's request
// and the controller resolving it.
type lateSession struct {
	*progression.Controller
}

func (l lateSession) SubmitAnswer(answer string) (bool, bool, error) {
	if _, _, err := l.Controller.SubmitAnswer("cat"); err != nil {
		return false, false, err
	}
	return l.Controller.SubmitAnswer(answer)
}

func TestAnswerLosingRaceIsConflict(t *testing.T) {
	_, ctrl, _ := newTestServer(t, nil)
	s := NewServer(lateSession{ctrl}, nil, logging.Discard())

	rec := do(t, s.Routes(), http.MethodPost, "/api/v1/answer", `{"answer":"bat"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for an answer the controller ignored, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := ctrl.Meter(state.MeterDestruction); got != 40 {
		t.Fatalf("only the first answer should apply, destruction %v", got)
	}
}

func TestResetAfterGameOver(t *testing.T) {
	s, ctrl, _ := newTestServer(t, nil)
	h := s.Routes()

	do(t, h, http.MethodPost, "/api/v1/debug/meter", `{"meter":"threat","delta":40}`)
	do(t, h, http.MethodPost, "/api/v1/answer", `{"answer":"x"}`)
	if !ctrl.IsGameOver() {
		t.Fatalf("expected game over, snapshot %+v", ctrl.Snapshot())
	}

	rec := do(t, h, http.MethodGet, "/api/v1/progress", "")
	var before ProgressResponse
	decode(t, rec, &before)
	if before.Ending != "destruction" || before.Narration == "" {
		t.Fatalf("expected destruction narration, got %+v", before)
	}

	rec = do(t, h, http.MethodPost, "/api/v1/debug/reset", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var after ProgressResponse
	decode(t, rec, &after)
	if after.Progress() != state.DefaultProgress() || after.Phase != "idle" {
		t.Fatalf("expected fresh session, got %+v", after.Snapshot)
	}
}

func TestOutcomes(t *testing.T) {
	var gotLimit int
	lister := func(limit int) ([]logging.OutcomeRecord, error) {
		gotLimit = limit
		return []logging.OutcomeRecord{{ID: 1, PuzzleID: "cat", Correct: true}}, nil
	}
	s, _, _ := newTestServer(t, lister)
	h := s.Routes()

	rec := do(t, h, http.MethodGet, "/api/v1/outcomes", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotLimit != defaultOutcomeLimit {
		t.Fatalf("expected default limit, got %d", gotLimit)
	}
	var resp struct {
		Outcomes []logging.OutcomeRecord `json:"outcomes"`
		Count    int                     `json:"count"`
	}
	decode(t, rec, &resp)
	if resp.Count != 1 || resp.Outcomes[0].PuzzleID != "cat" {
		t.Fatalf("unexpected outcomes %+v", resp)
	}

	do(t, h, http.MethodGet, "/api/v1/outcomes?limit=5", "")
	if gotLimit != 5 {
		t.Fatalf("expected limit 5, got %d", gotLimit)
	}

	for _, q := range []string{"0", "-1", "abc", "501"} {
		rec := do(t, h, http.MethodGet, "/api/v1/outcomes?limit="+q, "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("limit=%s: expected 400, got %d", q, rec.Code)
		}
	}
}

func TestOutcomesErrors(t *testing.T) {
	s, _, _ := newTestServer(t, nil)
	rec := do(t, s.Routes(), http.MethodGet, "/api/v1/outcomes", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without a log, got %d", rec.Code)
	}

	failing := func(int) ([]logging.OutcomeRecord, error) { return nil, errors.New("db locked") }
	s, _, _ = newTestServer(t, failing)
	rec = do(t, s.Routes(), http.MethodGet, "/api/v1/outcomes", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "db locked") {
		t.Fatal("internal error detail leaked to the client")
	}
}

func TestPuzzleNotFoundWhenCatalogExhausted(t *testing.T) {
	empty, _ := puzzle.NewCatalog(nil)
	ctrl := progression.New(empty, progression.Options{Scheduler: schedule.NewManual()})
	ctrl.Start()
	s := NewServer(ctrl, nil, nil)
	rec := do(t, s.Routes(), http.MethodGet, "/api/v1/puzzle", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	rec = do(t, s.Routes(), http.MethodPost, "/api/v1/answer", `{"answer":"x"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}
