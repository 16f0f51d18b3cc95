// Package mcp exposes the plate calculator to MCP clients. The same server
// runs over stdio (barload-mcp) and streamable HTTP (mounted at /mcp).
package mcp

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userKey contextKey = iota

// DefaultUser is the history owner when the transport does not identify
// the caller.
const DefaultUser = "local"

// UserFromContext extracts the login injected by the transport layer.
func UserFromContext(ctx context.Context) string {
	if u, ok := ctx.Value(userKey).(string); ok && u != "" {
		return u
	}
	return DefaultUser
}

// WithUser returns a context carrying the given login.
func WithUser(ctx context.Context, login string) context.Context {
	return context.WithValue(ctx, userKey, login)
}

// New creates an MCP server with all tools and resources registered.
// The barbell names offered by calculate_plates are read from b once.
func New(b Backend, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("barload", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("barload computes which plates to put on each side of a barbell to reach a target weight in kg. Plates are listed heaviest first and are loaded innermost first."),
	)

	h := &handlers{backend: b, log: log}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var barbells []string
	if inv, err := b.Inventory(ctx); err != nil {
		log.Warn("mcp: inventory unavailable, barbell names not advertised", "error", err)
	} else {
		for _, bar := range inv.Barbells {
			barbells = append(barbells, bar.Name)
		}
	}

	s.AddTools(
		server.ServerTool{Tool: calculatePlatesTool(barbells), Handler: h.calculatePlates},
		server.ServerTool{Tool: toolListBarbells, Handler: h.listBarbells},
		server.ServerTool{Tool: toolRecentLoads, Handler: h.recentLoads},
	)

	s.AddResources(
		server.ServerResource{Resource: resInventory, Handler: h.inventory},
	)

	return s
}

// HTTPHandler serves s over streamable HTTP. userFn resolves the caller of
// each request; its result is what the tools see as the history owner.
func HTTPHandler(s *server.MCPServer, userFn func(*http.Request) string) http.Handler {
	return server.NewStreamableHTTPServer(s,
		server.WithHTTPContextFunc(func(ctx context.Context, r *http.Request) context.Context {
			return WithUser(ctx, userFn(r))
		}),
	)
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	backend Backend
	log     *slog.Logger
}

var resInventory = mcp.NewResource(
	"barload://inventory",
	"Plate Inventory",
	mcp.WithResourceDescription("Plate denominations, barbells and collar weight the calculator loads from"),
	mcp.WithMIMEType("application/json"),
)
