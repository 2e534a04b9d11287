package web

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/hpungsan/lagna/internal/birth"
	"github.com/hpungsan/lagna/internal/chart"
	"github.com/hpungsan/lagna/internal/dasha"
	"github.com/hpungsan/lagna/internal/errors"
	"github.com/hpungsan/lagna/internal/ops"
	"github.com/hpungsan/lagna/internal/report"
	"github.com/hpungsan/lagna/internal/zodiac"
)

// Handlers contains HTTP route handlers for the API.
type Handlers struct {
	db       *sql.DB
	engine   *ops.Engine
	renderer *Renderer
}

// StoreRequest is the body of POST /charts.
type StoreRequest struct {
	Birth     *birth.Record `json:"birth"`
	Owner     string        `json:"owner,omitempty"`
	Name      *string       `json:"name,omitempty"`
	Label     *string       `json:"label,omitempty"`
	Ayanamsa  string        `json:"ayanamsa,omitempty"`
	NodeModel string        `json:"node_model,omitempty"`
	Mode      string        `json:"mode,omitempty"`
}

// MatchRequest is the body of POST /match.
type MatchRequest struct {
	Boy  ops.Subject `json:"boy"`
	Girl ops.Subject `json:"girl"`
}

// HandleHealth handles GET /healthz.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		h.renderer.renderError(w, r, errors.NewInternal(err))
		return
	}
	renderJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleList handles GET /charts: list chart summaries for an owner.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	owner := q.Get("owner")
	if owner == "" {
		owner = "default"
	}

	result, err := ops.List(r.Context(), h.db, ops.ListInput{
		Owner:          owner,
		AllOwners:      parseBoolParam(r, "all_owners"),
		MoonNakshatra:  q.Get("moon_nakshatra"),
		Limit:          parseIntParam(r, "limit", ops.DefaultListLimit),
		Offset:         parseIntParam(r, "offset", 0),
		IncludeDeleted: parseBoolParam(r, "include_deleted"),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if !wantsHTML(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}
	h.renderer.renderPage(w, r, "list", ListPageData{
		PageData:   PageData{Title: "Charts", Version: h.renderer.version},
		Items:      result.Items,
		Pagination: result.Pagination,
		Owner:      owner,
	})
}

// HandleStore handles POST /charts: compute and save a chart.
func (h *Handlers) HandleStore(w http.ResponseWriter, r *http.Request) {
	var body StoreRequest
	if err := decodeBody(w, r, &body); err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	if body.Birth == nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("birth is required"))
		return
	}

	mode := ops.StoreModeError
	switch body.Mode {
	case "", "error":
	case "replace":
		mode = ops.StoreModeReplace
	default:
		h.renderer.renderError(w, r, errors.NewInvalidRequest("mode must be \"error\" or \"replace\""))
		return
	}

	result, err := ops.Store(r.Context(), h.db, h.engine, ops.StoreInput{
		Owner:     body.Owner,
		Name:      body.Name,
		Label:     body.Label,
		Birth:     *body.Birth,
		Ayanamsa:  body.Ayanamsa,
		NodeModel: body.NodeModel,
		Mode:      mode,
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	w.Header().Set("Location", "/charts/"+result.ID)
	renderJSON(w, http.StatusCreated, result)
}

// HandleDetail handles GET /charts/{id}: a stored chart as JSON or an HTML report.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("chart ID is required"))
		return
	}

	out, err := ops.Fetch(r.Context(), h.db, ops.FetchInput{
		ID:             id,
		IncludeDeleted: parseBoolParam(r, "include_deleted"),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if !wantsHTML(r) {
		renderJSON(w, http.StatusOK, out)
		return
	}

	md, err := chartReport(out.Chart, out.DisplayName(), time.Now())
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.renderer.renderReport(w, r, out.DisplayName(), md)
}

// chartReport joins the rasi report with the navamsa and dasha sections.
func chartReport(c *chart.Chart, title string, now time.Time) (string, error) {
	if c == nil {
		return "", errors.NewInternal(fmt.Errorf("stored chart has no body"))
	}
	md := report.Chart(c, title)

	navamsa, err := chart.Varga(c, chart.VargaNavamsa)
	if err != nil {
		return "", err
	}
	md += "\n" + report.Varga(navamsa)

	if moon := c.Planet(zodiac.Moon); moon != nil {
		tl, err := dasha.Vimshottari(moon.Sidereal, c.UTC.Time(), 0)
		if err != nil {
			return "", err
		}
		md += "\n" + report.Dasha(tl, now)
	}
	return md, nil
}

// HandleDelete handles DELETE /charts/{id}: soft-delete a chart.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("chart ID is required"))
		return
	}

	result, err := ops.Delete(r.Context(), h.db, ops.DeleteInput{ID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	// HTMX request: redirect via HX-Redirect header
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/charts?format=html")
		w.WriteHeader(http.StatusOK)
		return
	}

	renderJSON(w, http.StatusOK, result)
}

// HandleMatch handles POST /match: Guna Milan between two subjects.
func (h *Handlers) HandleMatch(w http.ResponseWriter, r *http.Request) {
	var body MatchRequest
	if err := decodeBody(w, r, &body); err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	result, err := ops.Match(r.Context(), h.db, h.engine, ops.MatchInput{Boy: body.Boy, Girl: body.Girl})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if !wantsHTML(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}
	h.renderer.renderReport(w, r, "Guna Milan", report.Match(&result.Result, result.Boy, result.Girl))
}

// decodeBody reads a bounded JSON request body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.NewInvalidRequest("invalid JSON body: " + err.Error())
	}
	return nil
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// parseBoolParam parses a boolean query parameter.
func parseBoolParam(r *http.Request, name string) bool {
	s := r.URL.Query().Get(name)
	return s == "true" || s == "1"
}
