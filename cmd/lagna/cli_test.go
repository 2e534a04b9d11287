package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"testing"

	"github.com/hpungsan/lagna/internal/birth"
	"github.com/hpungsan/lagna/internal/config"
	"github.com/hpungsan/lagna/internal/db"
	"github.com/hpungsan/lagna/internal/ephemeris"
	"github.com/hpungsan/lagna/internal/logging"
	"github.com/hpungsan/lagna/internal/ops"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("failed to init test db: %v", err)
	}
	cleanup := func() {
		database.Close()
	}
	return database, cleanup
}

// testEngine returns an engine on the deterministic provider.
func testEngine() *ops.Engine {
	cfg := config.DefaultConfig()
	cfg.DisableStrengthJitter = true
	return ops.NewEngine(ephemeris.NewLinear(), cfg, nil)
}

var delhiFlags = []string{"--date=1990-06-15", "--time=14:30", "--offset=+05:30", "--lat=28.6139", "--lon=77.209"}

func delhi() birth.Record {
	return birth.Record{Year: 1990, Month: 6, Day: 15, Hour: 14, Minute: 30, UTCOffset: 5.5, Latitude: 28.6139, Longitude: 77.209}
}

// runApp runs the CLI with args and returns what it wrote to stdout.
func runApp(t *testing.T, database *sql.DB, args ...string) (string, error) {
	t.Helper()
	app := newCLIApp(database, testEngine(), logging.Discard())
	var buf bytes.Buffer
	app.Writer = &buf
	err := app.Run(append([]string{"lagna"}, args...))
	return buf.String(), err
}

func storeChart(t *testing.T, database *sql.DB, name string) string {
	t.Helper()
	out, err := ops.Store(context.Background(), database, testEngine(), ops.StoreInput{Name: &name, Birth: delhi()})
	if err != nil {
		t.Fatalf("failed to store test chart: %v", err)
	}
	return out.ID
}

// TestParseDuration tests the parseDuration helper function.
func TestParseDuration(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    int
		expectError bool
	}{
		{name: "valid days", input: "7d", expected: 7},
		{name: "zero days", input: "0d", expected: 0},
		{name: "negative days", input: "-1d", expectError: true},
		{name: "missing suffix", input: "7", expectError: true},
		{name: "bad number", input: "xd", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseDuration(tt.input)
			if tt.expectError {
				if err == nil {
					t.Errorf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result != tt.expected {
				t.Errorf("parseDuration(%q) = %d, want %d", tt.input, result, tt.expected)
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in        string
		h, m, s   int
		expectErr bool
	}{
		{in: "14:30", h: 14, m: 30},
		{in: "06:05:09", h: 6, m: 5, s: 9},
		{in: "14", expectErr: true},
		{in: "1:2:3:4", expectErr: true},
		{in: "ab:cd", expectErr: true},
	}
	for _, tt := range tests {
		h, m, s, err := parseClock(tt.in)
		if tt.expectErr {
			if err == nil {
				t.Errorf("parseClock(%q) error = nil, want error", tt.in)
			}
			continue
		}
		if err != nil || h != tt.h || m != tt.m || s != tt.s {
			t.Errorf("parseClock(%q) = %d:%d:%d, %v", tt.in, h, m, s, err)
		}
	}
}

// TestCLIChart tests the chart command.
func TestCLIChart(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		out, err := runApp(t, nil, append([]string{"chart", "--ayanamsa=kp"}, delhiFlags...)...)
		if err != nil {
			t.Fatalf("chart command failed: %v", err)
		}

		var output ops.ComputeOutput
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v\nOutput: %s", err, out)
		}
		if output.Chart.Birth != delhi() {
			t.Errorf("Birth = %+v, want %+v", output.Chart.Birth, delhi())
		}
		if output.Chart.Ayanamsa.Model != "krishnamurti" {
			t.Errorf("ayanamsa = %q, want krishnamurti", output.Chart.Ayanamsa.Model)
		}
	})

	t.Run("markdown", func(t *testing.T) {
		out, err := runApp(t, nil, append([]string{"chart", "--format=md"}, delhiFlags...)...)
		if err != nil {
			t.Fatalf("chart command failed: %v", err)
		}
		if !strings.HasPrefix(out, "# Birth Chart") || !strings.Contains(out, "## Planets") {
			t.Errorf("unexpected markdown:\n%s", out)
		}
	})

	t.Run("errors", func(t *testing.T) {
		for _, args := range [][]string{
			{"chart"},
			{"chart", "--date=15/06/1990"},
			{"chart", "--date=1990-06-15", "--time=noon"},
			{"chart", "--date=1990-06-15", "--offset=+25:00"},
			{"chart", "--date=1990-06-15", "--lat=95"},
		} {
			if _, err := runApp(t, nil, args...); err == nil {
				t.Errorf("%v: expected error, got nil", args)
			}
		}
	})
}

// TestCLIStore tests the store command.
func TestCLIStore(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	out, err := runApp(t, database, append([]string{"store", "--owner=family", "--name=asha"}, delhiFlags...)...)
	if err != nil {
		t.Fatalf("store command failed: %v", err)
	}

	var output ops.StoreOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v\nOutput: %s", err, out)
	}
	if output.ID == "" {
		t.Error("expected non-empty ID")
	}
	if output.Ref.Name != "asha" || output.Ref.Owner != "family" {
		t.Errorf("Ref = %+v, want family/asha", output.Ref)
	}

	if _, err := runApp(t, database, append([]string{"store", "--owner=family", "--name=asha"}, delhiFlags...)...); err == nil {
		t.Error("duplicate store: expected error, got nil")
	}
	if _, err := runApp(t, database, append([]string{"store", "--owner=family", "--name=asha", "--mode=replace"}, delhiFlags...)...); err != nil {
		t.Errorf("replace store failed: %v", err)
	}
	if _, err := runApp(t, database, append([]string{"store", "--mode=merge"}, delhiFlags...)...); err == nil {
		t.Error("bad mode: expected error, got nil")
	}
}

// TestCLIFetch tests the fetch command.
func TestCLIFetch(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	id := storeChart(t, database, "fetch-test")

	for name, args := range map[string][]string{
		"by name": {"fetch", "--name=fetch-test"},
		"by id":   {"fetch", id},
	} {
		t.Run(name, func(t *testing.T) {
			out, err := runApp(t, database, args...)
			if err != nil {
				t.Fatalf("fetch command failed: %v", err)
			}
			var output ops.FetchOutput
			if err := json.Unmarshal([]byte(out), &output); err != nil {
				t.Fatalf("failed to parse output: %v", err)
			}
			if output.ID != id {
				t.Errorf("expected ID=%s, got %s", id, output.ID)
			}
			if output.Chart == nil {
				t.Error("expected chart in output")
			}
		})
	}

	t.Run("no chart", func(t *testing.T) {
		out, err := runApp(t, database, "fetch", "--no-chart", id)
		if err != nil {
			t.Fatalf("fetch command failed: %v", err)
		}
		if strings.Contains(out, `"chart"`) {
			t.Error("chart should be omitted")
		}
	})

	t.Run("markdown", func(t *testing.T) {
		out, err := runApp(t, database, "fetch", "--format=md", id)
		if err != nil {
			t.Fatalf("fetch command failed: %v", err)
		}
		if !strings.HasPrefix(out, "# fetch-test") {
			t.Errorf("unexpected markdown:\n%s", out)
		}
	})
}

// TestCLIList tests the list command.
func TestCLIList(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	for _, name := range []string{"a", "b", "c"} {
		storeChart(t, database, "list-test-"+name)
	}

	out, err := runApp(t, database, "list")
	if err != nil {
		t.Fatalf("list command failed: %v", err)
	}

	var output ops.ListOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if len(output.Items) != 3 {
		t.Errorf("expected 3 items, got %d", len(output.Items))
	}
	if output.Pagination.Total != 3 {
		t.Errorf("expected total=3, got %d", output.Pagination.Total)
	}

	if _, err := runApp(t, database, "list", "--moon-nakshatra=andromeda"); err == nil {
		t.Error("unknown nakshatra: expected error, got nil")
	}
}

// TestCLIDeleteAndPurge tests the delete and purge commands.
func TestCLIDeleteAndPurge(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	id := storeChart(t, database, "delete-test")

	out, err := runApp(t, database, "delete", "--name=delete-test")
	if err != nil {
		t.Fatalf("delete command failed: %v", err)
	}
	var deleted ops.DeleteOutput
	if err := json.Unmarshal([]byte(out), &deleted); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if !deleted.Deleted || deleted.ID != id {
		t.Errorf("delete output = %+v, want deleted %s", deleted, id)
	}

	out, err = runApp(t, database, "purge", "--older-than=0d")
	if err != nil {
		t.Fatalf("purge command failed: %v", err)
	}
	var purged ops.PurgeOutput
	if err := json.Unmarshal([]byte(out), &purged); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if purged.Purged != 1 {
		t.Errorf("purged = %d, want 1", purged.Purged)
	}
}

// TestCLIMatch tests the match command.
func TestCLIMatch(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	storeChart(t, database, "ravi")

	girl := `{"year":1992,"month":11,"day":3,"hour":6,"minute":15,"utc_offset":5.5,"latitude":19.076,"longitude":72.8777}`
	out, err := runApp(t, database, "match", "--boy=ravi", "--girl-birth="+girl)
	if err != nil {
		t.Fatalf("match command failed: %v", err)
	}
	var output ops.MatchOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if output.Boy != "ravi" || len(output.Factors) != 8 {
		t.Errorf("match output = boy %q, %d factors", output.Boy, len(output.Factors))
	}

	out, err = runApp(t, database, "match", "--boy=ravi", "--girl=ravi", "--format=md")
	if err != nil {
		t.Fatalf("match command failed: %v", err)
	}
	if !strings.HasPrefix(out, "# Guna Milan: ravi and ravi") {
		t.Errorf("unexpected markdown:\n%s", out)
	}

	if _, err := runApp(t, database, "match", "--boy=ravi", "--girl-birth={bad"); err == nil {
		t.Error("bad birth JSON: expected error, got nil")
	}
}

// TestCLIDashaAndVarga tests the dasha and varga commands.
func TestCLIDashaAndVarga(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	id := storeChart(t, database, "asha")

	out, err := runApp(t, database, "dasha", "--count=3", "--at=2020-01-01T00:00:00Z", id)
	if err != nil {
		t.Fatalf("dasha command failed: %v", err)
	}
	var dashaOut ops.DashaOutput
	if err := json.Unmarshal([]byte(out), &dashaOut); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if len(dashaOut.Timeline.Mahadashas) != 3 || dashaOut.Current == nil {
		t.Errorf("dasha output = %d mahadashas, current %v", len(dashaOut.Timeline.Mahadashas), dashaOut.Current)
	}

	out, err = runApp(t, database, append([]string{"varga", "--kind=d10"}, delhiFlags...)...)
	if err != nil {
		t.Fatalf("varga command failed: %v", err)
	}
	var vargaOut ops.VargaOutput
	if err := json.Unmarshal([]byte(out), &vargaOut); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if vargaOut.Kind != "d10" || len(vargaOut.Houses) != 12 {
		t.Errorf("varga output = %s, %d houses", vargaOut.Kind, len(vargaOut.Houses))
	}

	out, err = runApp(t, database, "varga", "--name=asha", "--format=md")
	if err != nil {
		t.Fatalf("varga command failed: %v", err)
	}
	if !strings.HasPrefix(out, "# Navamsa (D9)") {
		t.Errorf("unexpected markdown:\n%s", out)
	}

	if _, err := runApp(t, database, "dasha"); err == nil {
		t.Error("dasha without subject: expected error, got nil")
	}
	if _, err := runApp(t, database, "dasha", "--at=tomorrow", id); err == nil {
		t.Error("bad --at: expected error, got nil")
	}
}

// TestCLIErrorHandling tests error handling in CLI commands.
func TestCLIErrorHandling(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	t.Run("fetch not found returns error", func(t *testing.T) {
		_, err := runApp(t, database, "fetch", "--name=nonexistent")
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.Contains(err.Error(), "[NOT_FOUND]") {
			t.Errorf("error = %q, want [NOT_FOUND] prefix", err)
		}
	})

	t.Run("delete not found returns error", func(t *testing.T) {
		if _, err := runApp(t, database, "delete", "--name=nonexistent"); err == nil {
			t.Error("expected error, got nil")
		}
	})

	t.Run("invalid duration format returns error", func(t *testing.T) {
		if _, err := runApp(t, database, "purge", "--older-than=invalid"); err == nil {
			t.Error("expected error, got nil")
		}
	})
}

// TestIsCLIMode tests the isCLIMode function.
func TestIsCLIMode(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected bool
	}{
		{"no args", []string{"lagna"}, false},
		{"chart command", []string{"lagna", "chart"}, true},
		{"match command", []string{"lagna", "match"}, true},
		{"serve command", []string{"lagna", "serve"}, true},
		{"help flag", []string{"lagna", "--help"}, true},
		{"version flag", []string{"lagna", "--version"}, true},
		{"short help flag", []string{"lagna", "-h"}, true},
		{"short version flag", []string{"lagna", "-v"}, true},
		{"unknown arg defaults to MCP", []string{"lagna", "--unknown"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isCLIMode(tt.args); got != tt.expected {
				t.Errorf("isCLIMode(%v) = %v, want %v", tt.args, got, tt.expected)
			}
		})
	}
}

// TestIsHelpOrVersion tests the isHelpOrVersion function.
func TestIsHelpOrVersion(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected bool
	}{
		{"no args", []string{"lagna"}, false},
		{"help flag", []string{"lagna", "--help"}, true},
		{"short help flag", []string{"lagna", "-h"}, true},
		{"version flag", []string{"lagna", "--version"}, true},
		{"short version flag", []string{"lagna", "-v"}, true},
		{"help subcommand", []string{"lagna", "help"}, true},
		{"store command is not help", []string{"lagna", "store"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isHelpOrVersion(tt.args); got != tt.expected {
				t.Errorf("isHelpOrVersion(%v) = %v, want %v", tt.args, got, tt.expected)
			}
		})
	}
}
