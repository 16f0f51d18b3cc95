package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/meltforce/barload/internal/planner"
	"github.com/meltforce/barload/internal/plates"
	"github.com/meltforce/barload/internal/render"
)

// loadResponse is a successful calculation with the derived totals the
// page and API clients show.
type loadResponse struct {
	*plates.Result
	TotalKg   float64             `json:"total_kg"`
	PerSideKg float64             `json:"per_side_kg"`
	Counts    []plates.PlateCount `json:"counts"`
	Caption   string              `json:"caption"`
}

func newLoadResponse(res *plates.Result) loadResponse {
	counts := res.Counts()
	if counts == nil {
		counts = []plates.PlateCount{}
	}
	return loadResponse{
		Result:    res,
		TotalKg:   res.Total(),
		PerSideKg: res.PerSideWeight(),
		Counts:    counts,
		Caption:   render.Caption(res),
	}
}

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// maxBodyBytes caps POST bodies; a load request is a few dozen bytes.
const maxBodyBytes = 1 << 16

// loadRequest is the JSON body for POST /plates. weight may be sent as a
// number or a string.
type loadRequest struct {
	Weight  flexWeight `json:"weight"`
	Barbell string     `json:"barbell"`
	Collar  bool       `json:"collar"`
}

type flexWeight string

func (f *flexWeight) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexWeight(s)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	*f = flexWeight(data)
	return nil
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	res, err := s.planner.Calculate(r.Context(), UserFromRequest(r).Login, inputFromQuery(r))
	if err != nil {
		s.writeCalcError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newLoadResponse(res))
}

func (s *Server) handleCalculateJSON(w http.ResponseWriter, r *http.Request) {
	var req loadRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error(), Kind: plates.Kind(plates.ErrInvalidInput)})
		return
	}

	in := planner.Input{Weight: string(req.Weight), Barbell: req.Barbell, Collar: req.Collar}
	res, err := s.planner.Calculate(r.Context(), UserFromRequest(r).Login, in)
	if err != nil {
		s.writeCalcError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newLoadResponse(res))
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")

	res, err := s.planner.Calculate(r.Context(), UserFromRequest(r).Login, inputFromQuery(r))
	if err != nil {
		w.WriteHeader(calcErrorStatus(err))
		fmt.Fprint(w, render.SVG(nil, err.Error()))
		return
	}
	fmt.Fprint(w, render.SVG(res, ""))
}

func (s *Server) handleInventory(w http.ResponseWriter, r *http.Request) {
	info, err := s.planner.Inventory(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, UserFromRequest(r))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = min(parsed, 200)
		}
	}
	recs, err := s.planner.RecentLoads(r.Context(), UserFromRequest(r).Login, limit)
	if err != nil {
		s.log.Error("history query failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleHistoryStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.planner.Stats(r.Context(), UserFromRequest(r).Login)
	if err != nil {
		s.log.Error("history stats failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	user := UserFromRequest(r).Login
	n, err := s.planner.ClearHistory(r.Context(), user)
	if err != nil {
		s.log.Error("history clear failed", "user", user, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	s.log.Info("history cleared", "user", user, "deleted", n)
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}

// writeCalcError maps calculator errors onto HTTP statuses: 400 for invalid
// input, 422 for loads the plates cannot make.
func (s *Server) writeCalcError(w http.ResponseWriter, err error) {
	status := calcErrorStatus(err)
	if status == http.StatusInternalServerError {
		s.log.Error("calculation failed", "error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Kind: plates.Kind(err)})
}

func calcErrorStatus(err error) int {
	switch {
	case errors.Is(err, plates.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, plates.ErrInfeasible):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func inputFromQuery(r *http.Request) planner.Input {
	q := r.URL.Query()
	return planner.Input{
		Weight:  q.Get("weight"),
		Barbell: q.Get("barbell"),
		Collar:  parseFlag(q.Get("collar")),
	}
}

// parseFlag accepts strconv booleans and the "on" an HTML checkbox sends.
func parseFlag(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "on" || v == "yes" {
		return true
	}
	b, _ := strconv.ParseBool(v)
	return b
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
