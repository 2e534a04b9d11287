// Package report renders charts, matches and dasha timelines as Markdown.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/hpungsan/lagna/internal/birth"
	"github.com/hpungsan/lagna/internal/chart"
	"github.com/hpungsan/lagna/internal/dasha"
	"github.com/hpungsan/lagna/internal/match"
	"github.com/hpungsan/lagna/internal/zodiac"
)

const dateLayout = "2006-01-02"

// Chart renders a birth chart. title is used as the heading; empty
// defaults to "Birth Chart".
func Chart(c *chart.Chart, title string) string {
	if title == "" {
		title = "Birth Chart"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", escape(title))

	r := c.Birth
	fmt.Fprintf(&b, "- **Born:** %04d-%02d-%02d %02d:%02d:%02d (UTC%s)\n",
		r.Year, r.Month, r.Day, r.Hour, r.Minute, r.Second, birth.FormatOffset(r.UTCOffset))
	fmt.Fprintf(&b, "- **Location:** %.4f, %.4f\n", r.Latitude, r.Longitude)
	fmt.Fprintf(&b, "- **Ayanamsa:** %s (%s)\n", c.Ayanamsa.Model, zodiac.FormatDMS(c.Ayanamsa.Value))
	fmt.Fprintf(&b, "- **Nodes:** %s\n", c.NodeModel)
	fmt.Fprintf(&b, "- **Lagna:** %s %s%s\n", c.Ascendant.Placement.Sign,
		zodiac.FormatDMS(c.Ascendant.Placement.SignDegree), degradedMark(c.Ascendant.Degraded))
	if c.Namakshar != "" {
		fmt.Fprintf(&b, "- **Namakshar:** %s\n", c.Namakshar)
	}
	b.WriteString("\n## Planets\n\n")
	b.WriteString("| Body | Sign | Degree | Nakshatra | Pada | House | Strength | Status |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|\n")
	for _, p := range c.Planets {
		name := p.Body.String()
		if p.Tropical.Retrograde {
			name += " (R)"
		}
		fmt.Fprintf(&b, "| %s%s | %s | %s | %s | %d | %d | %d | %s |\n",
			name, degradedMark(p.Tropical.Degraded),
			p.Placement.Sign, zodiac.FormatDMS(p.Placement.SignDegree),
			p.Placement.Nakshatra, p.Placement.Pada, p.House,
			p.Strength.Score, p.Strength.Status)
	}

	b.WriteString("\n## Houses\n\n")
	writeHouses(&b, c.Houses)

	if len(c.Degradations) > 0 {
		b.WriteString("\n## Degradations\n\n")
		for _, d := range c.Degradations {
			if d.Body != "" {
				fmt.Fprintf(&b, "- `%s` %s: %s\n", d.Code, d.Body, escape(d.Message))
			} else {
				fmt.Fprintf(&b, "- `%s` %s\n", d.Code, escape(d.Message))
			}
		}
	}
	return b.String()
}

// Varga renders a divisional chart.
func Varga(d *chart.Division) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", vargaTitle(d.Kind))
	fmt.Fprintf(&b, "- **Lagna:** %s\n\n", d.Lagna)
	writeHouses(&b, d.Houses)
	return b.String()
}

// Match renders a compatibility result. boy and girl label the parties.
func Match(r *match.Result, boy, girl string) string {
	if boy == "" {
		boy = "Boy"
	}
	if girl == "" {
		girl = "Girl"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# Guna Milan: %s and %s\n\n", escape(boy), escape(girl))
	fmt.Fprintf(&b, "**Total:** %s / %d (%.1f%%), %s\n\n", formatScore(r.Total), match.MaxScore, r.Percentage, tierLabel(r.Tier))
	fmt.Fprintf(&b, "| Koota | %s | %s | Score | Max | Area of life |\n", escape(boy), escape(girl))
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, f := range r.Factors {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			f.Name, f.Boy, f.Girl, formatScore(f.Score), formatScore(f.Max), f.AreaOfLife)
	}

	b.WriteString("\n## Doshas\n\n")
	d := r.Doshas
	fmt.Fprintf(&b, "- **Mangal (%s):** Mars in house %d, %s\n", escape(boy), d.MangalBoy.House, d.MangalBoy.Level)
	fmt.Fprintf(&b, "- **Mangal (%s):** Mars in house %d, %s\n", escape(girl), d.MangalGirl.House, d.MangalGirl.Level)
	switch {
	case !d.Mangal:
		b.WriteString("- **Mangal dosha:** absent\n")
	case d.MangalCompatible:
		b.WriteString("- **Mangal dosha:** present in both, mutually cancelled\n")
	default:
		b.WriteString("- **Mangal dosha:** present\n")
	}
	fmt.Fprintf(&b, "- **Nadi dosha:** %s\n", yesNo(d.Nadi))
	fmt.Fprintf(&b, "- **Bhakoot dosha:** %s\n", yesNo(d.Bhakoot))

	fmt.Fprintf(&b, "\n> %s\n", r.Recommendation)
	return b.String()
}

// Dasha renders a Vimshottari timeline. now marks the running periods and
// may be zero.
func Dasha(tl *dasha.Timeline, now time.Time) string {
	var b strings.Builder
	b.WriteString("# Vimshottari Dasha\n\n")
	fmt.Fprintf(&b, "- **Birth nakshatra:** %s (lord %s)\n", tl.Nakshatra, tl.Nakshatra.Lord())
	fmt.Fprintf(&b, "- **Balance at birth:** %.2f years\n", tl.Balance)

	var maha, antar *dasha.Period
	if !now.IsZero() {
		maha, antar, _ = tl.At(now)
	}
	if maha != nil {
		running := maha.Lord.String()
		if antar != nil {
			running += " / " + antar.Lord.String()
		}
		fmt.Fprintf(&b, "- **Running on %s:** %s\n", now.UTC().Format(dateLayout), running)
	}

	b.WriteString("\n| Mahadasha | Start | End | Years |\n|---|---|---|---|\n")
	for i := range tl.Mahadashas {
		p := &tl.Mahadashas[i]
		lord := p.Lord.String()
		if p == maha {
			lord = "**" + lord + "**"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %.2f |\n", lord,
			p.Start.UTC().Format(dateLayout), p.End.UTC().Format(dateLayout), p.Years)
	}

	if maha != nil && len(maha.Antardashas) > 0 {
		fmt.Fprintf(&b, "\n## %s antardashas\n\n| Antardasha | Start | End |\n|---|---|---|\n", maha.Lord)
		for i := range maha.Antardashas {
			a := &maha.Antardashas[i]
			lord := a.Lord.String()
			if a == antar {
				lord = "**" + lord + "**"
			}
			fmt.Fprintf(&b, "| %s | %s | %s |\n", lord,
				a.Start.UTC().Format(dateLayout), a.End.UTC().Format(dateLayout))
		}
	}
	return b.String()
}

func writeHouses(b *strings.Builder, houses []chart.House) {
	b.WriteString("| House | Sign | Lord | Bodies |\n|---|---|---|---|\n")
	for _, h := range houses {
		names := make([]string, len(h.Bodies))
		for i, body := range h.Bodies {
			names[i] = body.String()
		}
		occupants := strings.Join(names, ", ")
		if occupants == "" {
			occupants = "-"
		}
		fmt.Fprintf(b, "| %d | %s | %s | %s |\n", h.Number, h.Sign, h.Sign.Lord(), occupants)
	}
}

func vargaTitle(k chart.VargaKind) string {
	switch k {
	case chart.VargaRasi:
		return "Rasi (D1)"
	case chart.VargaNavamsa:
		return "Navamsa (D9)"
	case chart.VargaDashamsa:
		return "Dashamsa (D10)"
	case chart.VargaChandra:
		return "Chandra Lagna"
	}
	return string(k)
}

func tierLabel(t match.Tier) string {
	switch t {
	case match.TierExcellent:
		return "Excellent"
	case match.TierVeryGood:
		return "Very Good"
	case match.TierGood:
		return "Good"
	case match.TierAverage:
		return "Average"
	}
	return string(t)
}

func formatScore(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}

func degradedMark(d bool) string {
	if d {
		return " *"
	}
	return ""
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

// escape neutralizes characters that would break a table cell or heading.
func escape(s string) string {
	return strings.NewReplacer("|", `\|`, "\n", " ", "\r", " ").Replace(s)
}
