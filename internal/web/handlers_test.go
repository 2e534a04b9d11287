package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hpungsan/lagna/internal/birth"
	"github.com/hpungsan/lagna/internal/config"
	"github.com/hpungsan/lagna/internal/db"
	"github.com/hpungsan/lagna/internal/ephemeris"
	"github.com/hpungsan/lagna/internal/logging"
	"github.com/hpungsan/lagna/internal/ops"
)

const delhiJSON = `{"year":1990,"month":6,"day":15,"hour":14,"minute":30,"utc_offset":5.5,"latitude":28.6139,"longitude":77.209}`

const mumbaiJSON = `{"year":1992,"month":11,"day":3,"hour":6,"minute":15,"utc_offset":5.5,"latitude":19.076,"longitude":72.8777}`

func stringPtr(s string) *string { return &s }

func setupTest(t *testing.T) *Handlers {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	cfg := config.DefaultConfig()
	cfg.DisableStrengthJitter = true

	return &Handlers{
		db:       database,
		engine:   ops.NewEngine(ephemeris.NewLinear(), cfg, nil),
		renderer: NewRenderer("test", logging.Discard()),
	}
}

// seedChart stores a chart and returns its ID.
func seedChart(t *testing.T, h *Handlers, name, owner string) string {
	t.Helper()
	out, err := ops.Store(context.Background(), h.db, h.engine, ops.StoreInput{
		Owner: owner,
		Name:  stringPtr(name),
		Birth: birth.Record{Year: 1990, Month: 6, Day: 15, Hour: 14, Minute: 30, UTCOffset: 5.5, Latitude: 28.6139, Longitude: 77.209},
	})
	if err != nil {
		t.Fatalf("seed chart %q: %v", name, err)
	}
	return out.ID
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	return resp
}

// --- Routing ---

func TestRoutes(t *testing.T) {
	h := setupTest(t)
	id := seedChart(t, h, "asha", "default")
	handler := securityHeaders(routes(h))

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{"GET", "/healthz", http.StatusOK},
		{"GET", "/", http.StatusFound},
		{"GET", "/charts", http.StatusOK},
		{"GET", "/charts/" + id, http.StatusOK},
		{"GET", "/charts/NONEXISTENT", http.StatusNotFound},
		{"PUT", "/charts/" + id, http.StatusMethodNotAllowed},
		{"GET", "/nowhere", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
				t.Error("missing security headers")
			}
		})
	}
}

// --- HandleList ---

func TestHandleList_JSON(t *testing.T) {
	h := setupTest(t)
	seedChart(t, h, "asha", "family")
	seedChart(t, h, "ravi", "family")
	seedChart(t, h, "meera", "default")

	req := httptest.NewRequest("GET", "/charts?owner=family", nil)
	rec := httptest.NewRecorder()
	h.HandleList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	resp := decodeJSON(t, rec)
	if items := resp["items"].([]any); len(items) != 2 {
		t.Errorf("items = %d, want 2", len(items))
	}
}

func TestHandleList_HTML(t *testing.T) {
	h := setupTest(t)
	seedChart(t, h, "asha", "default")

	req := httptest.NewRequest("GET", "/charts?format=html", nil)
	rec := httptest.NewRecorder()
	h.HandleList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<!DOCTYPE html>") {
		t.Error("expected full layout")
	}
	if !strings.Contains(body, ">asha</a>") {
		t.Error("expected chart name 'asha' in response")
	}
}

func TestHandleList_BadNakshatra(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/charts?moon_nakshatra=andromeda", nil)
	rec := httptest.NewRecorder()
	h.HandleList(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

// --- HandleStore ---

func TestHandleStore(t *testing.T) {
	h := setupTest(t)

	tests := []struct {
		name string
		body string
		want int
		code string
	}{
		{"named", `{"owner":"family","name":"asha","birth":` + delhiJSON + `}`, http.StatusCreated, ""},
		{"duplicate", `{"owner":"family","name":"ASHA","birth":` + mumbaiJSON + `}`, http.StatusConflict, "NAME_ALREADY_EXISTS"},
		{"replace", `{"owner":"family","name":"asha","mode":"replace","birth":` + mumbaiJSON + `}`, http.StatusCreated, ""},
		{"missing birth", `{"name":"x"}`, http.StatusBadRequest, "INVALID_REQUEST"},
		{"unknown field", `{"birth":` + delhiJSON + `,"zodiac":"tropical"}`, http.StatusBadRequest, "INVALID_REQUEST"},
		{"malformed", `{"birth":`, http.StatusBadRequest, "INVALID_REQUEST"},
		{"bad mode", `{"mode":"merge","birth":` + delhiJSON + `}`, http.StatusBadRequest, "INVALID_REQUEST"},
		{"invalid birth", `{"birth":{"year":1990,"month":2,"day":30}}`, http.StatusBadRequest, "INVALID_BIRTH_RECORD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/charts", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.HandleStore(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body.String())
			}
			resp := decodeJSON(t, rec)
			if tt.code == "" {
				if loc := rec.Header().Get("Location"); loc != "/charts/"+resp["id"].(string) {
					t.Errorf("Location = %q", loc)
				}
				return
			}
			if code := resp["error"].(map[string]any)["code"]; code != tt.code {
				t.Errorf("error.code = %v, want %s", code, tt.code)
			}
		})
	}
}

// --- HandleDetail ---

func TestHandleDetail_JSON(t *testing.T) {
	h := setupTest(t)
	id := seedChart(t, h, "asha", "default")

	req := httptest.NewRequest("GET", "/charts/"+id, nil)
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()
	h.HandleDetail(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	resp := decodeJSON(t, rec)
	if resp["id"] != id {
		t.Errorf("id = %v, want %s", resp["id"], id)
	}
	if planets := resp["chart"].(map[string]any)["planets"].([]any); len(planets) != 9 {
		t.Errorf("planets = %d, want 9", len(planets))
	}
}

func TestHandleDetail_HTMLReport(t *testing.T) {
	h := setupTest(t)
	id := seedChart(t, h, "asha", "default")

	req := httptest.NewRequest("GET", "/charts/"+id+"?format=html", nil)
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()
	h.HandleDetail(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"<h1>asha</h1>", "<table>", "Planets", "Navamsa", "Vimshottari"} {
		if !strings.Contains(body, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestHandleDetail_HtmxOmitsLayout(t *testing.T) {
	h := setupTest(t)
	id := seedChart(t, h, "asha", "default")

	req := httptest.NewRequest("GET", "/charts/"+id+"?format=html", nil)
	req.SetPathValue("id", id)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	h.HandleDetail(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "<!DOCTYPE html>") {
		t.Error("htmx response should not contain full layout")
	}
}

// --- HandleDelete ---

func TestHandleDelete(t *testing.T) {
	h := setupTest(t)
	id := seedChart(t, h, "asha", "default")

	req := httptest.NewRequest("DELETE", "/charts/"+id, nil)
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()
	h.HandleDelete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if resp := decodeJSON(t, rec); resp["deleted"] != true {
		t.Errorf("deleted = %v, want true", resp["deleted"])
	}

	rec = httptest.NewRecorder()
	h.HandleDelete(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", rec.Code)
	}
}

func TestHandleDelete_HtmxRedirect(t *testing.T) {
	h := setupTest(t)
	id := seedChart(t, h, "asha", "default")

	req := httptest.NewRequest("DELETE", "/charts/"+id, nil)
	req.SetPathValue("id", id)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	h.HandleDelete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("HX-Redirect") != "/charts?format=html" {
		t.Errorf("HX-Redirect = %q", rec.Header().Get("HX-Redirect"))
	}
}

// --- HandleMatch ---

func TestHandleMatch_JSON(t *testing.T) {
	h := setupTest(t)
	seedChart(t, h, "ravi", "default")

	body := `{"boy":{"name":"ravi"},"girl":{"birth":` + mumbaiJSON + `}}`
	req := httptest.NewRequest("POST", "/match", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleMatch(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	resp := decodeJSON(t, rec)
	if resp["boy"] != "ravi" {
		t.Errorf("boy = %v, want ravi", resp["boy"])
	}
	if factors := resp["factors"].([]any); len(factors) != 8 {
		t.Errorf("factors = %d, want 8", len(factors))
	}
}

func TestHandleMatch_HTML(t *testing.T) {
	h := setupTest(t)

	body := `{"boy":{"birth":` + delhiJSON + `},"girl":{"birth":` + delhiJSON + `}}`
	req := httptest.NewRequest("POST", "/match?format=html", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleMatch(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Guna Milan") {
		t.Error("expected Guna Milan heading")
	}
}

func TestHandleMatch_MissingSubject(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("POST", "/match", strings.NewReader(`{"boy":{"birth":`+delhiJSON+`}}`))
	rec := httptest.NewRecorder()
	h.HandleMatch(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	msg := decodeJSON(t, rec)["error"].(map[string]any)["message"].(string)
	if !strings.HasPrefix(msg, "girl: ") {
		t.Errorf("message = %q, want girl: prefix", msg)
	}
}

// --- Error rendering ---

func TestErrorRendering_HtmxFragment(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/charts/NONEXISTENT", nil)
	req.SetPathValue("id", "NONEXISTENT")
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	h.HandleDetail(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "error-message") {
		t.Error("expected error-message div in htmx error response")
	}
	if strings.Contains(body, "<!DOCTYPE html>") {
		t.Error("htmx error should not contain full layout")
	}
}

func TestErrorRendering_JSONError(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/charts/NONEXISTENT", nil)
	req.SetPathValue("id", "NONEXISTENT")
	rec := httptest.NewRecorder()
	h.HandleDetail(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	errObj, ok := decodeJSON(t, rec)["error"].(map[string]any)
	if !ok {
		t.Fatal("expected error object in JSON response")
	}
	if errObj["status"] != float64(404) {
		t.Errorf("error.status = %v, want 404", errObj["status"])
	}
	if errObj["code"] != "NOT_FOUND" {
		t.Errorf("error.code = %v, want NOT_FOUND", errObj["code"])
	}
}

func TestErrorRendering_FullErrorPage(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/charts/NONEXISTENT", nil)
	req.SetPathValue("id", "NONEXISTENT")
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	h.HandleDetail(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<!DOCTYPE html>") {
		t.Error("full error page should contain layout")
	}
	if !strings.Contains(body, "Error 404") {
		t.Error("error page should show status code")
	}
}

// --- Helper functions ---

func TestWantsHTML(t *testing.T) {
	tests := []struct {
		query  string
		accept string
		want   bool
	}{
		{"", "", false},
		{"format=html", "", true},
		{"", "text/html,application/xhtml+xml", true},
		{"", "application/json, text/html", false},
		{"format=json", "application/json", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest("GET", "/?"+tt.query, nil)
		if tt.accept != "" {
			req.Header.Set("Accept", tt.accept)
		}
		if got := wantsHTML(req); got != tt.want {
			t.Errorf("wantsHTML(%q, %q) = %v, want %v", tt.query, tt.accept, got, tt.want)
		}
	}
}

func TestParseIntParam(t *testing.T) {
	tests := []struct {
		query    string
		name     string
		def      int
		expected int
	}{
		{"", "limit", 20, 20},
		{"limit=50", "limit", 20, 50},
		{"limit=bad", "limit", 20, 20},
		{"offset=10", "offset", 0, 10},
	}
	for _, tt := range tests {
		req := httptest.NewRequest("GET", "/?"+tt.query, nil)
		got := parseIntParam(req, tt.name, tt.def)
		if got != tt.expected {
			t.Errorf("parseIntParam(%q, %q, %d) = %d, want %d", tt.query, tt.name, tt.def, got, tt.expected)
		}
	}
}

func TestParseBoolParam(t *testing.T) {
	tests := []struct {
		query    string
		expected bool
	}{
		{"", false},
		{"include_deleted=true", true},
		{"include_deleted=1", true},
		{"include_deleted=false", false},
		{"include_deleted=yes", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest("GET", "/?"+tt.query, nil)
		if got := parseBoolParam(req, "include_deleted"); got != tt.expected {
			t.Errorf("parseBoolParam(%q) = %v, want %v", tt.query, got, tt.expected)
		}
	}
}

func TestFormatTime(t *testing.T) {
	if got := formatTime(0); got != "1970-01-01 00:00" {
		t.Errorf("formatTime(0) = %q", got)
	}
}
