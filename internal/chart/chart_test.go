package chart

import (
	"math"
	"testing"

	"github.com/hpungsan/lagna/internal/ayanamsa"
	"github.com/hpungsan/lagna/internal/ephemeris"
	"github.com/hpungsan/lagna/internal/errors"
	"github.com/hpungsan/lagna/internal/zodiac"
)

func TestNodeEstimator_Mean(t *testing.T) {
	n := DefaultNodeEstimator()

	rahu, ketu := n.Estimate(ephemeris.J2000, ephemeris.BodyPosition{})
	if math.Abs(rahu.Longitude-125.04) > 1e-9 {
		t.Errorf("Rahu at J2000 = %v, want 125.04", rahu.Longitude)
	}
	if math.Abs(ketu.Longitude-305.04) > 1e-9 {
		t.Errorf("Ketu at J2000 = %v, want 305.04", ketu.Longitude)
	}

	rahu, ketu = n.Estimate(ephemeris.J2000+365.25, ephemeris.BodyPosition{})
	if math.Abs(rahu.Longitude-105.70) > 1e-9 {
		t.Errorf("Rahu one year on = %v, want 105.70", rahu.Longitude)
	}
	if !rahu.Retrograde || !ketu.Retrograde {
		t.Error("nodes must be retrograde")
	}
	if rahu.Speed != NodeSpeed || ketu.Speed != NodeSpeed {
		t.Errorf("speeds = %v, %v, want %v", rahu.Speed, ketu.Speed, NodeSpeed)
	}

	// Ten years on wraps below zero.
	rahu, _ = n.Estimate(ephemeris.J2000+3652.5, ephemeris.BodyPosition{})
	if want := zodiac.Wrap360(125.04 - 193.4); math.Abs(rahu.Longitude-want) > 1e-9 {
		t.Errorf("Rahu ten years on = %v, want %v", rahu.Longitude, want)
	}
}

func TestNodeEstimator_Moon(t *testing.T) {
	n := NodeEstimator{Model: NodeMoon}

	tests := []struct {
		name string
		moon ephemeris.BodyPosition
		want float64
	}{
		{"ascending node crossing", ephemeris.BodyPosition{Longitude: 200, Latitude: 0, LatitudeSpeed: 0.5}, 200},
		{"descending node crossing", ephemeris.BodyPosition{Longitude: 200, Latitude: 0, LatitudeSpeed: -0.5}, 20},
		{"northernmost", ephemeris.BodyPosition{Longitude: 200, Latitude: lunarInclination, LatitudeSpeed: 0}, 110},
		{"southern ascending", ephemeris.BodyPosition{Longitude: 10, Latitude: -lunarInclination, LatitudeSpeed: 0.1}, 100},
	}
	for _, tt := range tests {
		rahu, ketu := n.Estimate(ephemeris.J2000, tt.moon)
		if math.Abs(zodiac.Delta(tt.want, rahu.Longitude)) > 1e-6 {
			t.Errorf("%s: Rahu = %v, want %v", tt.name, rahu.Longitude, tt.want)
		}
		if math.Abs(zodiac.Delta(zodiac.Wrap360(rahu.Longitude+180), ketu.Longitude)) > 1e-9 {
			t.Errorf("%s: Ketu = %v, want Rahu+180", tt.name, ketu.Longitude)
		}
		if rahu.Source != "moon-node" {
			t.Errorf("%s: Source = %q, want moon-node", tt.name, rahu.Source)
		}
	}
}

func TestNodeEstimator_MoonRecoversLinearNode(t *testing.T) {
	a := ephemeris.NewAdapter(ephemeris.NewLinear(), nil)
	jd := ephemeris.J2000 + 3
	moon, _ := a.Position(zodiac.Moon, jd)

	rahu, _ := NodeEstimator{Model: NodeMoon}.Estimate(jd, moon)
	if d := math.Abs(zodiac.Delta(125.04, rahu.Longitude)); d > 0.5 {
		t.Errorf("Rahu = %v, want near 125.04", rahu.Longitude)
	}
}

func TestNodeEstimator_NoEpochUsesMoon(t *testing.T) {
	n := NodeEstimator{Model: NodeMean}
	rahu, _ := n.Estimate(ephemeris.J2000, ephemeris.BodyPosition{Longitude: 42, LatitudeSpeed: 1})
	if rahu.Source != "moon-node" || math.Abs(rahu.Longitude-42) > 1e-9 {
		t.Errorf("Rahu = %v (%s), want 42 from moon-node", rahu.Longitude, rahu.Source)
	}
}

func TestParseNodeModel(t *testing.T) {
	for in, want := range map[string]NodeModel{"": NodeMean, "mean": NodeMean, "MOON": NodeMoon} {
		got, err := ParseNodeModel(in)
		if err != nil || got != want {
			t.Errorf("ParseNodeModel(%q) = %q, %v, want %q", in, got, err, want)
		}
	}
	if _, err := ParseNodeModel("true"); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("ParseNodeModel(true) error = %v, want INVALID_REQUEST", err)
	}
}

func TestComputeAngles(t *testing.T) {
	tests := []struct {
		name     string
		gst, lat float64
		lon      float64
		asc, mc  float64
	}{
		{"ramc 0 equator", 0, 0, 0, 90, 0},
		{"ramc 90 equator", 6, 0, 0, 180, 90},
		{"ramc 180 equator", 12, 0, 0, 270, 180},
		{"longitude shifts ramc", 0, 0, 90, 180, 90},
	}
	for _, tt := range tests {
		a, ok := ComputeAngles(tt.gst, tt.lat, tt.lon)
		if !ok {
			t.Fatalf("%s: ok = false", tt.name)
		}
		if math.Abs(zodiac.Delta(tt.asc, a.Ascendant)) > 1e-9 {
			t.Errorf("%s: Ascendant = %v, want %v", tt.name, a.Ascendant, tt.asc)
		}
		if math.Abs(zodiac.Delta(tt.mc, a.Midheaven)) > 1e-9 {
			t.Errorf("%s: Midheaven = %v, want %v", tt.name, a.Midheaven, tt.mc)
		}
	}
}

func TestComputeAngles_AscendantLeadsMidheaven(t *testing.T) {
	// At moderate northern latitudes the ascendant is always ahead of the MC.
	for gst := 0.0; gst < 24; gst += 0.5 {
		a, ok := ComputeAngles(gst, 28.6, 77.2)
		if !ok {
			t.Fatalf("gst=%v: ok = false", gst)
		}
		d := zodiac.Wrap360(a.Ascendant - a.Midheaven)
		if d <= 0 || d >= 180 {
			t.Errorf("gst=%v: asc-mc = %v, want in (0,180)", gst, d)
		}
	}
}

func TestComputeAngles_NonFinite(t *testing.T) {
	if _, ok := ComputeAngles(math.NaN(), 10, 10); ok {
		t.Error("ComputeAngles(NaN) ok = true, want false")
	}
	if _, ok := ComputeAngles(math.Inf(1), 10, 10); ok {
		t.Error("ComputeAngles(Inf) ok = true, want false")
	}
	if _, ok := ComputeAngles(3, 90, 10); !ok {
		t.Error("ComputeAngles at the pole ok = false, want finite result")
	}
}

func TestFallbackAngles(t *testing.T) {
	a := FallbackAngles(9, 77.209)
	want := zodiac.Wrap360(9*15 + 77.209 + 90)
	if math.Abs(a.Ascendant-want) > 1e-9 {
		t.Errorf("Ascendant = %v, want %v", a.Ascendant, want)
	}
}

func TestHouseOf(t *testing.T) {
	tests := []struct {
		lagna, sign zodiac.Sign
		want        int
	}{
		{zodiac.Aries, zodiac.Aries, 1},
		{zodiac.Aries, zodiac.Pisces, 12},
		{zodiac.Pisces, zodiac.Aries, 2},
		{zodiac.Leo, zodiac.Aquarius, 7},
	}
	for _, tt := range tests {
		if got := HouseOf(tt.lagna, tt.sign); got != tt.want {
			t.Errorf("HouseOf(%v, %v) = %d, want %d", tt.lagna, tt.sign, got, tt.want)
		}
	}
}

func TestWholeSignHouses(t *testing.T) {
	bodies := []zodiac.Body{zodiac.Sun, zodiac.Moon, zodiac.Mars}
	signs := []zodiac.Sign{zodiac.Leo, zodiac.Leo, zodiac.Cancer}
	houses := WholeSignHouses(zodiac.Leo, bodies, signs)

	if len(houses) != 12 {
		t.Fatalf("len = %d, want 12", len(houses))
	}
	if got := houses[0].Bodies; len(got) != 2 || got[0] != zodiac.Sun || got[1] != zodiac.Moon {
		t.Errorf("house 1 bodies = %v, want [Sun Moon]", got)
	}
	if got := houses[11].Bodies; len(got) != 1 || got[0] != zodiac.Mars {
		t.Errorf("house 12 bodies = %v, want [Mars]", got)
	}
	if houses[11].Sign != zodiac.Cancer {
		t.Errorf("house 12 sign = %v, want Cancer", houses[11].Sign)
	}
	for _, h := range houses[1:11] {
		if h.Bodies == nil || len(h.Bodies) != 0 {
			t.Errorf("house %d bodies = %v, want empty non-nil", h.Number, h.Bodies)
		}
	}
}

func TestScoreStrength(t *testing.T) {
	tests := []struct {
		name   string
		body   zodiac.Body
		sign   zodiac.Sign
		house  int
		retro  bool
		score  int
		status Status
	}{
		{"exalted in kendra", zodiac.Sun, zodiac.Aries, 1, false, 110, StatusExalted},
		{"debilitated", zodiac.Saturn, zodiac.Aries, 2, false, 25, StatusDebilitated},
		{"retro in trikona", zodiac.Mars, zodiac.Leo, 5, true, 50, StatusAverage},
		{"plain", zodiac.Mercury, zodiac.Gemini, 3, false, 50, StatusAverage},
		{"retro dusthana", zodiac.Jupiter, zodiac.Gemini, 6, true, 40, StatusWeak},
		{"debilitated retro kendra", zodiac.Moon, zodiac.Scorpio, 7, true, 30, StatusWeak},
		{"debilitated retro", zodiac.Venus, zodiac.Virgo, 3, true, 15, StatusDebilitated},
		{"kendra strong", zodiac.Venus, zodiac.Taurus, 10, false, 65, StatusStrong},
		{"node has no dignity", zodiac.Rahu, zodiac.Taurus, 3, true, 40, StatusWeak},
		{"ketu in kendra", zodiac.Ketu, zodiac.Scorpio, 4, true, 55, StatusAverage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ScoreStrength(tt.body, tt.sign, tt.house, tt.retro, ephemeris.J2000, NoJitter{})
			if s.Score != tt.score {
				t.Errorf("Score = %d, want %d", s.Score, tt.score)
			}
			if s.Status != tt.status {
				t.Errorf("Status = %q, want %q", s.Status, tt.status)
			}
			if s.Magnitude != tt.score*10 {
				t.Errorf("Magnitude = %d, want %d", s.Magnitude, tt.score*10)
			}
			if s.Benefic != tt.body.Benefic() {
				t.Errorf("Benefic = %v, want %v", s.Benefic, tt.body.Benefic())
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		score int
		want  Status
	}{
		{76, StatusExalted},
		{75, StatusStrong},
		{61, StatusStrong},
		{60, StatusAverage},
		{41, StatusAverage},
		{40, StatusWeak},
		{30, StatusWeak},
		{29, StatusDebilitated},
	}
	for _, tt := range tests {
		if got := StatusFor(tt.score); got != tt.want {
			t.Errorf("StatusFor(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestHashJitter(t *testing.T) {
	j := HashJitter{}
	seen := map[float64]bool{}
	for _, b := range zodiac.Bodies() {
		for jd := 2440000.5; jd < 2440100.5; jd += 7.25 {
			v := j.Jitter(b, jd)
			if v < 0 || v >= JitterSpan {
				t.Fatalf("Jitter(%s, %v) = %v, outside [0,%d)", b, jd, v, JitterSpan)
			}
			if v != j.Jitter(b, jd) {
				t.Fatalf("Jitter(%s, %v) not reproducible", b, jd)
			}
			seen[v] = true
		}
	}
	if len(seen) < 10 {
		t.Errorf("only %d distinct jitter values", len(seen))
	}
}

func TestExaltationDebilitation(t *testing.T) {
	for _, b := range zodiac.Bodies() {
		ex, okEx := Exaltation(b)
		deb, okDeb := Debilitation(b)
		if b.IsNode() {
			if okEx || okDeb {
				t.Errorf("%s has dignity entries, want none", b)
			}
			continue
		}
		if !okEx || !okDeb {
			t.Fatalf("%s missing dignity entries", b)
		}
		if ex.Distance(deb) != 6 {
			t.Errorf("%s exaltation %v and debilitation %v not opposite", b, ex, deb)
		}
	}
	if deb, _ := Debilitation(zodiac.Mars); deb != zodiac.Cancer {
		t.Errorf("Debilitation(Mars) = %v, want Cancer", deb)
	}
}

func TestVarga(t *testing.T) {
	e := NewEngine(ephemeris.NewLinear())
	c, err := e.Compute(delhi(), ayanamsa.Lahiri)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	d1, err := Varga(c, VargaRasi)
	if err != nil {
		t.Fatalf("Varga(d1) error = %v", err)
	}
	if d1.Lagna != c.Ascendant.Placement.Sign {
		t.Errorf("d1 lagna = %v, want %v", d1.Lagna, c.Ascendant.Placement.Sign)
	}
	for i, p := range d1.Placements {
		if p.House != c.Planets[i].House {
			t.Errorf("d1 %s house = %d, want %d", p.Body, p.House, c.Planets[i].House)
		}
	}

	d9, err := Varga(c, VargaNavamsa)
	if err != nil {
		t.Fatalf("Varga(d9) error = %v", err)
	}
	if d9.Lagna != zodiac.NavamsaSign(c.Ascendant.Placement.Longitude) {
		t.Errorf("d9 lagna = %v", d9.Lagna)
	}
	for i, p := range d9.Placements {
		if want := zodiac.NavamsaSign(c.Planets[i].Sidereal); p.Sign != want {
			t.Errorf("d9 %s sign = %v, want %v", p.Body, p.Sign, want)
		}
		if p.House != HouseOf(d9.Lagna, p.Sign) {
			t.Errorf("d9 %s house = %d", p.Body, p.House)
		}
	}

	d10, err := Varga(c, VargaDashamsa)
	if err != nil {
		t.Fatalf("Varga(d10) error = %v", err)
	}
	for i, p := range d10.Placements {
		if want := zodiac.DashamsaSign(c.Planets[i].Sidereal); p.Sign != want {
			t.Errorf("d10 %s sign = %v, want %v", p.Body, p.Sign, want)
		}
	}

	moon, err := Varga(c, VargaChandra)
	if err != nil {
		t.Fatalf("Varga(moon) error = %v", err)
	}
	if moon.Lagna != c.Planet(zodiac.Moon).Placement.Sign {
		t.Errorf("moon chart lagna = %v, want Moon sign", moon.Lagna)
	}
	if moon.Placements[zodiac.Moon].House != 1 {
		t.Errorf("Moon house in moon chart = %d, want 1", moon.Placements[zodiac.Moon].House)
	}
	if len(moon.Houses) != 12 {
		t.Errorf("moon chart houses = %d, want 12", len(moon.Houses))
	}

	if _, err := Varga(c, VargaKind("d60")); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("Varga(d60) error = %v, want INVALID_REQUEST", err)
	}
	if _, err := Varga(nil, VargaRasi); err == nil {
		t.Error("Varga(nil) error = nil")
	}
}

func TestParseVargaKind(t *testing.T) {
	for in, want := range map[string]VargaKind{
		"D9": VargaNavamsa, "navamsa": VargaNavamsa, "d10": VargaDashamsa,
		"chandra": VargaChandra, "": VargaRasi,
	} {
		got, err := ParseVargaKind(in)
		if err != nil || got != want {
			t.Errorf("ParseVargaKind(%q) = %q, %v, want %q", in, got, err, want)
		}
	}
	if _, err := ParseVargaKind("d2"); err == nil {
		t.Error("ParseVargaKind(d2) error = nil")
	}
}
