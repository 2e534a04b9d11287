package mcp

import (
	"database/sql"
	"slices"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/lagna/internal/config"
	"github.com/hpungsan/lagna/internal/ops"
)

// KnownTypes lists all valid type names.
var KnownTypes = []string{"chart", "match", "dasha"}

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"chart_compute": {
		def:     computeToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCompute },
	},
	"chart_store": {
		def:     storeToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleStore },
	},
	"chart_fetch": {
		def:     fetchToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFetch },
	},
	"chart_list": {
		def:     listToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleList },
	},
	"chart_delete": {
		def:     deleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDelete },
	},
	"chart_purge": {
		def:     purgeToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePurge },
	},
	"chart_varga": {
		def:     vargaToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleVarga },
	},
	"match_compute": {
		def:     matchToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleMatch },
	},
	"dasha_compute": {
		def:     dashaToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDasha },
	},
}

// instructions is sent to clients on initialize.
const instructions = `Lagna computes sidereal whole-sign Vedic birth charts.
A birth is {year, month, day, hour, minute, second, utc_offset, latitude, longitude};
utc_offset is hours east of Greenwich and longitude is east-positive.
Tools that take a subject accept either an inline birth or a stored chart
addressed by id or by owner+name (never both).
Charts flagged degraded used a fallback ephemeris or ascendant.`

// AllToolNames returns all valid tool names in sorted order.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// ValidateDisabledTypes returns a list of unknown type names from the given list.
func ValidateDisabledTypes(names []string) []string {
	known := make(map[string]bool, len(KnownTypes))
	for _, t := range KnownTypes {
		known[t] = true
	}

	unknown := make([]string, 0)
	for _, name := range names {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// GetTypeForTool extracts the type name from a tool name.
// Tool names follow the pattern "type_action" (e.g., "match_compute" → "match").
func GetTypeForTool(toolName string) string {
	if idx := strings.Index(toolName, "_"); idx > 0 {
		return toolName[:idx]
	}
	return ""
}

// ExpandTypesToTools returns all tool names belonging to the given types.
func ExpandTypesToTools(types []string) []string {
	if len(types) == 0 {
		return nil
	}

	typeSet := make(map[string]bool, len(types))
	for _, t := range types {
		typeSet[t] = true
	}

	var tools []string
	for _, name := range AllToolNames() {
		if typeSet[GetTypeForTool(name)] {
			tools = append(tools, name)
		}
	}
	return tools
}

// NewServer creates a new MCP server with Lagna tools registered.
// Tools listed in cfg.DisabledTools or belonging to cfg.DisabledTypes
// are excluded from registration.
func NewServer(db *sql.DB, engine *ops.Engine, cfg *config.Config, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"lagna",
		version,
		server.WithToolCapabilities(true),
		server.WithInstructions(instructions),
	)

	h := NewHandlers(db, engine)

	// Build set of disabled tools: first expand types, then add individual tools
	disabled := make(map[string]bool)
	for _, tool := range ExpandTypesToTools(cfg.DisabledTypes) {
		disabled[tool] = true
	}
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for _, name := range AllToolNames() {
		if disabled[name] {
			continue
		}
		entry := toolRegistry[name]
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(db *sql.DB, engine *ops.Engine, cfg *config.Config, version string) error {
	s := NewServer(db, engine, cfg, version)
	return server.ServeStdio(s)
}
