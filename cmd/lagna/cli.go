package main

import (
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/hpungsan/lagna/internal/birth"
	"github.com/hpungsan/lagna/internal/errors"
	"github.com/hpungsan/lagna/internal/ops"
	"github.com/hpungsan/lagna/internal/report"
	"github.com/hpungsan/lagna/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, engine *ops.Engine, log logrus.FieldLogger) *cli.App {
	app := &cli.App{
		Name:    "lagna",
		Usage:   "Sidereal birth charts, dashas and Guna Milan",
		Version: Version,
		Commands: []*cli.Command{
			chartCmd(engine),
			storeCmd(db, engine),
			fetchCmd(db),
			listCmd(db),
			deleteCmd(db),
			purgeCmd(db),
			matchCmd(db, engine),
			dashaCmd(db, engine),
			vargaCmd(db, engine),
			serveCmd(db, engine, log),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// birthFlags describe a birth record on the command line.
func birthFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "date", Aliases: []string{"d"}, Usage: "Local birth date, YYYY-MM-DD"},
		&cli.StringFlag{Name: "time", Aliases: []string{"t"}, Value: "12:00", Usage: "Local birth time, HH:MM or HH:MM:SS"},
		&cli.StringFlag{Name: "offset", Value: "+00:00", Usage: "UTC offset, e.g. +05:30 or 5.5"},
		&cli.Float64Flag{Name: "lat", Usage: "Latitude in degrees, north positive"},
		&cli.Float64Flag{Name: "lon", Usage: "Longitude in degrees, east positive"},
	}
}

// modelFlags select the ayanamsa and node model; empty means config.
func modelFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "ayanamsa", Aliases: []string{"a"}, Usage: "lahiri|raman|krishnamurti|kp|djwhal_khul|fagan_bradley"},
		&cli.StringFlag{Name: "node-model", Usage: "Rahu/Ketu model: mean|moon"},
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "json", Usage: "Output format: json|md"}
}

func flags(groups ...[]cli.Flag) []cli.Flag {
	var out []cli.Flag
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// chartCmd creates the chart command.
func chartCmd(engine *ops.Engine) *cli.Command {
	return &cli.Command{
		Name:  "chart",
		Usage: "Compute a birth chart without storing it",
		Flags: flags(birthFlags(), modelFlags(), []cli.Flag{formatFlag()}),
		Action: func(c *cli.Context) error {
			rec, err := parseBirth(c)
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Compute(engine, ops.ComputeInput{
				Birth:     rec,
				Ayanamsa:  c.String("ayanamsa"),
				NodeModel: c.String("node-model"),
			})
			if err != nil {
				return outputError(err)
			}

			if isMarkdown(c) {
				return outputText(c.App.Writer, report.Chart(output.Chart, ""))
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// storeCmd creates the store command.
func storeCmd(db *sql.DB, engine *ops.Engine) *cli.Command {
	return &cli.Command{
		Name:  "store",
		Usage: "Compute a birth chart and save it",
		Flags: flags(birthFlags(), modelFlags(), []cli.Flag{
			&cli.StringFlag{Name: "owner", Aliases: []string{"o"}, Value: "default", Usage: "Owner namespace"},
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Chart name (optional)"},
			&cli.StringFlag{Name: "label", Usage: "Display label (defaults to name)"},
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: "error", Usage: "Collision mode: error|replace"},
		}),
		Action: func(c *cli.Context) error {
			rec, err := parseBirth(c)
			if err != nil {
				return outputError(err)
			}

			mode := ops.StoreMode(c.String("mode"))
			if mode != ops.StoreModeError && mode != ops.StoreModeReplace {
				return outputError(errors.NewInvalidRequest("mode must be error or replace"))
			}

			input := ops.StoreInput{
				Owner:     c.String("owner"),
				Birth:     rec,
				Ayanamsa:  c.String("ayanamsa"),
				NodeModel: c.String("node-model"),
				Mode:      mode,
			}
			if name := c.String("name"); name != "" {
				input.Name = &name
			}
			if label := c.String("label"); label != "" {
				input.Label = &label
			}

			output, err := ops.Store(c.Context, db, engine, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// fetchCmd creates the fetch command.
func fetchCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "Fetch a stored chart by ID or name",
		ArgsUsage: "[id]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "owner", Aliases: []string{"o"}, Value: "default", Usage: "Owner namespace"},
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Chart name"},
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted charts"},
			&cli.BoolFlag{Name: "no-chart", Usage: "Exclude the computed chart from output"},
			formatFlag(),
		},
		Action: func(c *cli.Context) error {
			input := ops.FetchInput{
				IncludeDeleted: c.Bool("include-deleted"),
			}

			if c.NArg() > 0 {
				input.ID = c.Args().First()
			} else {
				input.Owner = c.String("owner")
				input.Name = c.String("name")
			}

			if c.Bool("no-chart") {
				includeChart := false
				input.IncludeChart = &includeChart
			}

			output, err := ops.Fetch(c.Context, db, input)
			if err != nil {
				return outputError(err)
			}

			if isMarkdown(c) && output.Chart != nil {
				return outputText(c.App.Writer, report.Chart(output.Chart, output.DisplayName()))
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// listCmd creates the list command.
func listCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List stored charts for an owner",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "owner", Aliases: []string{"o"}, Value: "default", Usage: "Owner namespace"},
			&cli.BoolFlag{Name: "all-owners", Usage: "List charts of every owner"},
			&cli.StringFlag{Name: "moon-nakshatra", Usage: "Only charts with the Moon in this nakshatra"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultListLimit, Usage: "Maximum items to return"},
			&cli.IntFlag{Name: "offset", Value: 0, Usage: "Items to skip"},
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted charts"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.List(c.Context, db, ops.ListInput{
				Owner:          c.String("owner"),
				AllOwners:      c.Bool("all-owners"),
				MoonNakshatra:  c.String("moon-nakshatra"),
				Limit:          c.Int("limit"),
				Offset:         c.Int("offset"),
				IncludeDeleted: c.Bool("include-deleted"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Soft-delete a stored chart",
		ArgsUsage: "[id]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "owner", Aliases: []string{"o"}, Value: "default", Usage: "Owner namespace"},
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Chart name"},
		},
		Action: func(c *cli.Context) error {
			input := ops.DeleteInput{}

			if c.NArg() > 0 {
				input.ID = c.Args().First()
			} else {
				input.Owner = c.String("owner")
				input.Name = c.String("name")
			}

			output, err := ops.Delete(c.Context, db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// purgeCmd creates the purge command.
func purgeCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "purge",
		Usage: "Permanently delete soft-deleted charts",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "owner", Aliases: []string{"o"}, Usage: "Filter by owner"},
			&cli.StringFlag{Name: "older-than", Usage: "Only purge if deleted at least N days ago (e.g., 7d)"},
		},
		Action: func(c *cli.Context) error {
			input := ops.PurgeInput{}

			if owner := c.String("owner"); owner != "" {
				input.Owner = &owner
			}
			if olderThan := c.String("older-than"); olderThan != "" {
				days, err := parseDuration(olderThan)
				if err != nil {
					return outputError(errors.NewInvalidRequest(err.Error()))
				}
				input.OlderThanDays = &days
			}

			output, err := ops.Purge(c.Context, db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// matchCmd creates the match command.
func matchCmd(db *sql.DB, engine *ops.Engine) *cli.Command {
	return &cli.Command{
		Name:  "match",
		Usage: "Guna Milan between two charts",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "owner", Aliases: []string{"o"}, Value: "default", Usage: "Owner of named charts"},
			&cli.StringFlag{Name: "boy", Usage: "Boy's stored chart name"},
			&cli.StringFlag{Name: "boy-id", Usage: "Boy's stored chart ID"},
			&cli.StringFlag{Name: "boy-birth", Usage: "Boy's birth record as JSON"},
			&cli.StringFlag{Name: "girl", Usage: "Girl's stored chart name"},
			&cli.StringFlag{Name: "girl-id", Usage: "Girl's stored chart ID"},
			&cli.StringFlag{Name: "girl-birth", Usage: "Girl's birth record as JSON"},
			formatFlag(),
		},
		Action: func(c *cli.Context) error {
			boy, err := prefixedSubject(c, "boy")
			if err != nil {
				return outputError(err)
			}
			girl, err := prefixedSubject(c, "girl")
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Match(c.Context, db, engine, ops.MatchInput{Boy: boy, Girl: girl})
			if err != nil {
				return outputError(err)
			}

			if isMarkdown(c) {
				return outputText(c.App.Writer, report.Match(&output.Result, output.Boy, output.Girl))
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// subjectFlags address a single chart: positional ID, --name or birth flags.
func subjectFlags() []cli.Flag {
	return flags([]cli.Flag{
		&cli.StringFlag{Name: "owner", Aliases: []string{"o"}, Value: "default", Usage: "Owner of a named chart"},
		&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Stored chart name"},
		formatFlag(),
	}, birthFlags(), modelFlags())
}

// dashaCmd creates the dasha command.
func dashaCmd(db *sql.DB, engine *ops.Engine) *cli.Command {
	return &cli.Command{
		Name:      "dasha",
		Usage:     "Vimshottari dasha timeline",
		ArgsUsage: "[id]",
		Flags: flags(subjectFlags(), []cli.Flag{
			&cli.IntFlag{Name: "count", Usage: "Mahadashas to list (default 9, max 27)"},
			&cli.StringFlag{Name: "at", Usage: "RFC 3339 instant for the running period (default now)"},
		}),
		Action: func(c *cli.Context) error {
			subject, err := positionalSubject(c)
			if err != nil {
				return outputError(err)
			}

			input := ops.DashaInput{Subject: subject, Count: c.Int("count")}
			if at := c.String("at"); at != "" {
				t, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return outputError(errors.NewInvalidRequest("at must be an RFC 3339 timestamp"))
				}
				input.At = &t
			}

			output, err := ops.Dasha(c.Context, db, engine, input)
			if err != nil {
				return outputError(err)
			}

			if isMarkdown(c) {
				now := time.Now()
				if input.At != nil {
					now = *input.At
				}
				return outputText(c.App.Writer, report.Dasha(output.Timeline, now))
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// vargaCmd creates the varga command.
func vargaCmd(db *sql.DB, engine *ops.Engine) *cli.Command {
	return &cli.Command{
		Name:      "varga",
		Usage:     "Divisional chart: d1, d9, d10 or moon",
		ArgsUsage: "[id]",
		Flags: flags(subjectFlags(), []cli.Flag{
			&cli.StringFlag{Name: "kind", Aliases: []string{"k"}, Value: "d9", Usage: "Division: d1|d9|d10|moon"},
		}),
		Action: func(c *cli.Context) error {
			subject, err := positionalSubject(c)
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Varga(c.Context, db, engine, ops.VargaInput{Subject: subject, Kind: c.String("kind")})
			if err != nil {
				return outputError(err)
			}

			if isMarkdown(c) {
				return outputText(c.App.Writer, report.Varga(&output.Division))
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(db *sql.DB, engine *ops.Engine, log logrus.FieldLogger) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Address to bind"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 8080, Usage: "Port to listen on"},
		},
		Action: func(c *cli.Context) error {
			srv := web.NewServer(db, engine, log, Version, c.String("bind"), c.Int("port"))
			if err := web.Run(srv, log); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
				return outputError(errors.NewInternal(err))
			}
			return nil
		},
	}
}

// Helper functions

// parseBirth builds a birth record from the birth flags.
func parseBirth(c *cli.Context) (birth.Record, error) {
	var rec birth.Record

	date := strings.TrimSpace(c.String("date"))
	if date == "" {
		return rec, errors.NewInvalidRequest("--date is required")
	}
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return rec, errors.NewInvalidBirthRecord("date", fmt.Sprintf("cannot parse %q, want YYYY-MM-DD", date))
	}
	rec.Year, rec.Month, rec.Day = d.Year(), int(d.Month()), d.Day()

	rec.Hour, rec.Minute, rec.Second, err = parseClock(c.String("time"))
	if err != nil {
		return rec, err
	}

	rec.UTCOffset, err = birth.ParseOffset(c.String("offset"))
	if err != nil {
		return rec, err
	}
	rec.Latitude = c.Float64("lat")
	rec.Longitude = c.Float64("lon")
	return rec, rec.Validate()
}

// parseClock parses "HH:MM" or "HH:MM:SS".
func parseClock(s string) (h, m, sec int, err error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, 0, errors.NewInvalidBirthRecord("time", fmt.Sprintf("cannot parse %q, want HH:MM[:SS]", s))
	}
	vals := make([]int, 3)
	for i, p := range parts {
		v, convErr := strconv.Atoi(p)
		if convErr != nil {
			return 0, 0, 0, errors.NewInvalidBirthRecord("time", fmt.Sprintf("cannot parse %q, want HH:MM[:SS]", s))
		}
		vals[i] = v
	}
	return vals[0], vals[1], vals[2], nil
}

// positionalSubject resolves [id], --name or the birth flags into a subject.
func positionalSubject(c *cli.Context) (ops.Subject, error) {
	s := ops.Subject{Ayanamsa: c.String("ayanamsa"), NodeModel: c.String("node-model")}
	switch {
	case c.NArg() > 0:
		s.ID = c.Args().First()
	case c.String("name") != "":
		s.Owner = c.String("owner")
		s.Name = c.String("name")
	case c.String("date") != "":
		rec, err := parseBirth(c)
		if err != nil {
			return s, err
		}
		s.Birth = &rec
	default:
		return s, errors.NewInvalidRequest("specify a chart id, --name, or --date")
	}
	return s, nil
}

// prefixedSubject reads --<p>, --<p>-id and --<p>-birth into a subject.
func prefixedSubject(c *cli.Context, p string) (ops.Subject, error) {
	s := ops.Subject{ID: c.String(p + "-id")}
	if name := c.String(p); name != "" {
		s.Owner = c.String("owner")
		s.Name = name
	}
	if raw := c.String(p + "-birth"); raw != "" {
		var rec birth.Record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return s, errors.NewInvalidRequest(fmt.Sprintf("--%s-birth: %v", p, err))
		}
		s.Birth = &rec
	}
	return s, nil
}

func isMarkdown(c *cli.Context) bool {
	return c.String("format") == "md"
}

// outputJSON writes v to w as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputText writes a rendered report.
func outputText(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	return err
}

// outputError formats error for CLI.
func outputError(err error) error {
	if lErr, ok := errors.As(err); ok {
		msg := lErr.Message
		if prefix := strings.TrimSuffix(err.Error(), lErr.Error()); prefix != "" {
			msg = prefix + msg
		}
		return cli.Exit(fmt.Sprintf("[%s] %s", lErr.Code, msg), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// parseDuration parses "7d" format to days.
func parseDuration(s string) (int, error) {
	if numStr, ok := strings.CutSuffix(s, "d"); ok {
		days, err := strconv.Atoi(numStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		if days < 0 {
			return 0, fmt.Errorf("duration must be non-negative")
		}
		return days, nil
	}
	return 0, fmt.Errorf("duration must end with 'd' (days), e.g., 7d")
}
