package server

import (
	"embed"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/barload/internal/planner"
)

//go:embed templates/*.html static/*
var assets embed.FS

// Server holds dependencies for HTTP handlers.
type Server struct {
	planner   *planner.Planner
	log       *slog.Logger
	apiKey    string
	tailscale WhoIser
	page      *template.Template
	router    chi.Router
}

// New creates a new Server with all routes configured.
func New(p *planner.Planner, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		planner: p,
		log:     log,
		apiKey:  apiKey,
		page:    template.Must(template.New("index.html").Funcs(pageFuncs).ParseFS(assets, "templates/index.html")),
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	s.router.Use(Identity(s.whoIs, s.log))

	s.router.Get("/", s.handleIndex)
	s.mountStatic()

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/plates", s.handleCalculate)
		r.Post("/plates", s.handleCalculateJSON)
		r.Get("/plates.svg", s.handleSVG)
		r.Get("/inventory", s.handleInventory)
		r.Get("/me", s.handleMe)
		r.Get("/history", s.handleHistory)
		r.Get("/history/stats", s.handleHistoryStats)
		r.With(APIKeyAuth(s.apiKey)).Delete("/history", s.handleClearHistory)
	})
}

// SetTailscale makes the server resolve callers through the tailnet.
// Must be called before serving.
func (s *Server) SetTailscale(w WhoIser) {
	s.tailscale = w
}

func (s *Server) whoIs() WhoIser {
	return s.tailscale
}

// SetMCP mounts an MCP streamable HTTP handler at /mcp.
func (s *Server) SetMCP(h http.Handler) {
	s.router.Handle("/mcp", h)
}

// mountStatic serves the embedded stylesheet and other page assets.
func (s *Server) mountStatic() {
	static, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(static)))
}
