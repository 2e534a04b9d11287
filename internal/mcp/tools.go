package mcp

import "github.com/mark3labs/mcp-go/mcp"

// birthSchema describes a birth record argument.
var birthSchema = map[string]any{
	"year":       map[string]any{"type": "integer", "description": "Local calendar year, 1000..3000"},
	"month":      map[string]any{"type": "integer", "description": "1..12"},
	"day":        map[string]any{"type": "integer", "description": "1..31"},
	"hour":       map[string]any{"type": "integer", "description": "0..23, local time"},
	"minute":     map[string]any{"type": "integer", "description": "0..59"},
	"second":     map[string]any{"type": "integer", "description": "0..59"},
	"utc_offset": map[string]any{"type": "number", "description": "Hours east of Greenwich, e.g. 5.5 for IST"},
	"latitude":   map[string]any{"type": "number", "description": "Degrees, north positive"},
	"longitude":  map[string]any{"type": "number", "description": "Degrees, east positive"},
}

// subjectSchema describes a chart reference: a stored chart or an inline birth record.
var subjectSchema = map[string]any{
	"id":         map[string]any{"type": "string", "description": "Stored chart ID"},
	"owner":      map[string]any{"type": "string", "description": "Owner of a named chart (default: \"default\")"},
	"name":       map[string]any{"type": "string", "description": "Stored chart name"},
	"birth":      map[string]any{"type": "object", "description": "Inline birth record", "properties": birthSchema},
	"ayanamsa":   map[string]any{"type": "string", "description": "Ayanamsa for inline births"},
	"node_model": map[string]any{"type": "string", "description": "Node model for inline births: mean or moon"},
}

func ayanamsaOption() mcp.ToolOption {
	return mcp.WithString("ayanamsa",
		mcp.Description("Sidereal model: lahiri, raman, krishnamurti (kp), djwhal_khul, fagan_bradley. Defaults to config"),
	)
}

func nodeModelOption() mcp.ToolOption {
	return mcp.WithString("node_model",
		mcp.Description("Rahu/Ketu model. Defaults to config"),
		mcp.Enum("mean", "moon"),
	)
}

func addressOptions(opts ...mcp.ToolOption) []mcp.ToolOption {
	return append(opts,
		mcp.WithString("id", mcp.Description("Chart ID (mutually exclusive with owner+name)")),
		mcp.WithString("owner", mcp.Description("Owner of a named chart (default: \"default\")")),
		mcp.WithString("name", mcp.Description("Chart name, case-insensitive")),
	)
}

var computeToolDef = mcp.NewTool("chart_compute",
	mcp.WithDescription("Compute a sidereal birth chart without storing it: ascendant, nine grahas with sign, nakshatra, pada, house and strength."),
	mcp.WithObject("birth", mcp.Required(), mcp.Description("Birth record in local time"), mcp.Properties(birthSchema)),
	ayanamsaOption(),
	nodeModelOption(),
)

var storeToolDef = mcp.NewTool("chart_store",
	mcp.WithDescription("Compute a birth chart and save it. Names are unique per owner; mode:replace overwrites."),
	mcp.WithObject("birth", mcp.Required(), mcp.Description("Birth record in local time"), mcp.Properties(birthSchema)),
	mcp.WithString("owner", mcp.Description("Owner namespace (default: \"default\")")),
	mcp.WithString("name", mcp.Description("Unique name within the owner")),
	mcp.WithString("label", mcp.Description("Display label")),
	ayanamsaOption(),
	nodeModelOption(),
	mcp.WithString("mode", mcp.Description("Collision behavior"), mcp.Enum("error", "replace")),
)

var fetchToolDef = mcp.NewTool("chart_fetch", addressOptions(
	mcp.WithDescription("Fetch a stored chart by id or by owner+name."),
	mcp.WithBoolean("include_deleted", mcp.Description("Include soft-deleted charts")),
	mcp.WithBoolean("include_chart", mcp.Description("Include the computed chart (default true)")),
)...)

var listToolDef = mcp.NewTool("chart_list",
	mcp.WithDescription("List stored chart summaries, newest first."),
	mcp.WithString("owner", mcp.Description("Owner to list (default: \"default\")")),
	mcp.WithBoolean("all_owners", mcp.Description("List charts of every owner")),
	mcp.WithString("moon_nakshatra", mcp.Description("Only charts with the Moon in this nakshatra, e.g. rohini")),
	mcp.WithNumber("limit", mcp.Description("Max items (default 20, max 100)")),
	mcp.WithNumber("offset", mcp.Description("Items to skip")),
	mcp.WithBoolean("include_deleted", mcp.Description("Include soft-deleted charts")),
)

var deleteToolDef = mcp.NewTool("chart_delete", addressOptions(
	mcp.WithDescription("Soft-delete a stored chart. Frees its name."),
)...)

var purgeToolDef = mcp.NewTool("chart_purge",
	mcp.WithDescription("Permanently remove soft-deleted charts."),
	mcp.WithString("owner", mcp.Description("Only purge this owner")),
	mcp.WithNumber("older_than_days", mcp.Description("Only purge charts deleted at least N days ago")),
)

var vargaToolDef = mcp.NewTool("chart_varga",
	mcp.WithDescription("Divisional chart of a subject: d1 (rasi), d9 (navamsa), d10 (dashamsa) or moon (chandra lagna)."),
	mcp.WithObject("subject", mcp.Required(), mcp.Description("Stored chart reference or inline birth"), mcp.Properties(subjectSchema)),
	mcp.WithString("kind", mcp.Description("Division (default d1)"), mcp.Enum("d1", "d9", "d10", "moon")),
)

var matchToolDef = mcp.NewTool("match_compute",
	mcp.WithDescription("Ashtakoota Guna Milan between two charts: eight factors out of 36, tier, nadi and bhakoot dosha."),
	mcp.WithObject("boy", mcp.Required(), mcp.Description("Stored chart reference or inline birth"), mcp.Properties(subjectSchema)),
	mcp.WithObject("girl", mcp.Required(), mcp.Description("Stored chart reference or inline birth"), mcp.Properties(subjectSchema)),
)

var dashaToolDef = mcp.NewTool("dasha_compute",
	mcp.WithDescription("Vimshottari dasha timeline from the Moon's nakshatra, with the period running at a given instant."),
	mcp.WithObject("subject", mcp.Required(), mcp.Description("Stored chart reference or inline birth"), mcp.Properties(subjectSchema)),
	mcp.WithNumber("count", mcp.Description("Mahadashas to return (default 9, max 27)")),
	mcp.WithString("at", mcp.Description("RFC 3339 instant for the running period (default now)")),
)
