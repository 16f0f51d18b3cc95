package server

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/meltforce/barload/internal/models"
	"github.com/meltforce/barload/internal/plates"
	"github.com/meltforce/barload/internal/render"
)

// pageState is everything the index page shows. It is rebuilt from the
// query string on every request; the calculator never sees it.
type pageState struct {
	Weight   string
	Barbell  string
	Collar   bool
	Barbells []plates.Barbell
	CollarKg float64

	Result  *plates.Result
	Summary string
	Error   string
	Kind    string
	SVG     template.HTML

	User           UserInfo
	HistoryEnabled bool
	History        []models.LoadRecord
}

var pageFuncs = template.FuncMap{
	"kg":        plates.FormatKg,
	"plateList": plateList,
}

// plateList formats a history row's plates, e.g. "25, 10, 2.5".
func plateList(ps []float64) string {
	if len(ps) == 0 {
		return "bar only"
	}
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = plates.FormatKg(p)
	}
	return strings.Join(parts, ", ")
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	state, status := s.buildPage(r)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.page.Execute(w, state); err != nil {
		s.log.Error("rendering page", "error", err)
	}
}

func (s *Server) buildPage(r *http.Request) (*pageState, int) {
	in := inputFromQuery(r)
	inv, _ := s.planner.Inventory(r.Context())
	state := &pageState{
		Weight:         in.Weight,
		Barbell:        in.Barbell,
		Collar:         in.Collar,
		Barbells:       inv.Barbells,
		CollarKg:       inv.CollarKg,
		User:           UserFromRequest(r),
		HistoryEnabled: s.planner.HistoryEnabled(),
	}
	if state.Barbell == "" && len(inv.Barbells) > 0 {
		state.Barbell = inv.Barbells[0].Name
	}

	status := http.StatusOK
	if in.Weight == "" {
		state.SVG = template.HTML(render.SVG(nil, ""))
	} else {
		res, err := s.planner.Calculate(r.Context(), state.User.Login, in)
		if err != nil {
			status = calcErrorStatus(err)
			state.Error = err.Error()
			state.Kind = plates.Kind(err)
			state.SVG = template.HTML(render.SVG(nil, err.Error()))
		} else {
			state.Result = res
			state.Summary = render.Summary(res)
			state.SVG = template.HTML(render.SVG(res, ""))
		}
	}

	if state.HistoryEnabled {
		recs, err := s.planner.RecentLoads(r.Context(), state.User.Login, 10)
		if err != nil {
			s.log.Warn("page history query failed", "error", err)
		}
		state.History = recs
	}
	return state, status
}
