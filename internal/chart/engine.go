// Package chart computes sidereal whole-sign birth charts.
package chart

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/hpungsan/lagna/internal/ayanamsa"
	"github.com/hpungsan/lagna/internal/birth"
	"github.com/hpungsan/lagna/internal/ephemeris"
	"github.com/hpungsan/lagna/internal/errors"
	"github.com/hpungsan/lagna/internal/zodiac"
)

// Planet is one body in a chart.
type Planet struct {
	Body      zodiac.Body            `json:"body"`
	Tropical  ephemeris.BodyPosition `json:"tropical"`
	Sidereal  float64                `json:"sidereal_longitude"`
	Placement zodiac.Placement       `json:"placement"`
	House     int                    `json:"house"`
	Strength  Strength               `json:"strength"`
}

// Angle is a chart point with its tropical and classified sidereal values.
type Angle struct {
	Tropical  float64          `json:"tropical"`
	Placement zodiac.Placement `json:"placement"`
	Degraded  bool             `json:"degraded,omitempty"`
}

// AyanamsaValue records the model used and its offset at the birth instant.
type AyanamsaValue struct {
	Model string  `json:"model"`
	Value float64 `json:"value"`
}

// Degradation notes a recovered failure.
type Degradation struct {
	Code    errors.ErrorCode `json:"code"`
	Body    string           `json:"body,omitempty"`
	Message string           `json:"message"`
}

// Chart is a complete computed chart.
type Chart struct {
	Birth        birth.Record  `json:"birth"`
	UTC          birth.UTC     `json:"utc"`
	JulianDay    float64       `json:"julian_day"`
	Ayanamsa     AyanamsaValue `json:"ayanamsa"`
	NodeModel    NodeModel     `json:"node_model"`
	Provider     string        `json:"provider"`
	Ascendant    Angle         `json:"ascendant"`
	Midheaven    Angle         `json:"midheaven"`
	Planets      []Planet      `json:"planets"`
	Houses       []House       `json:"houses"`
	Namakshar    string        `json:"namakshar"`
	Degraded     bool          `json:"degraded"`
	Degradations []Degradation `json:"degradations,omitempty"`
}

// Planet returns the entry for b, or nil if the chart lacks it.
func (c *Chart) Planet(b zodiac.Body) *Planet {
	for i := range c.Planets {
		if c.Planets[i].Body == b {
			return &c.Planets[i]
		}
	}
	return nil
}

// Engine computes charts. It holds only immutable configuration and is safe
// for concurrent use when its provider is.
type Engine struct {
	adapter *ephemeris.Adapter
	nodes   NodeEstimator
	jitter  Jitter
	log     logrus.FieldLogger
}

// Option configures an Engine.
type Option func(*Engine)

// WithJitter sets the magnitude jitter source.
func WithJitter(j Jitter) Option {
	return func(e *Engine) { e.jitter = j }
}

// WithNodeEstimator replaces the default mean-node estimator.
func WithNodeEstimator(n NodeEstimator) Option {
	return func(e *Engine) { e.nodes = n }
}

// WithLogger sets the logger for degradation warnings.
func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Engine) { e.log = log }
}

// NewEngine returns an engine over provider p. Defaults: mean nodes,
// HashJitter, discarded logs.
func NewEngine(p ephemeris.Provider, opts ...Option) *Engine {
	e := &Engine{
		nodes:  DefaultNodeEstimator(),
		jitter: HashJitter{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		e.log = l
	}
	e.adapter = ephemeris.NewAdapter(p, e.log)
	return e
}

// Compute builds the chart for rec. A zero model selects ayanamsa.Default.
// Only an invalid birth record is returned as an error; provider and
// ascendant failures are recovered and listed in Degradations.
func (e *Engine) Compute(rec birth.Record, model ayanamsa.Model) (*Chart, error) {
	utc, err := rec.ToUTC()
	if err != nil {
		return nil, err
	}
	if model.Name == "" {
		model = ayanamsa.Default
	}
	jd := utc.JulianDay()
	ay := model.At(jd)

	c := &Chart{
		Birth:     rec,
		UTC:       utc,
		JulianDay: jd,
		Ayanamsa:  AyanamsaValue{Model: model.Name, Value: ay},
		NodeModel: e.nodes.Model,
		Provider:  e.adapter.ProviderName(),
	}

	// Tropical positions.
	bodies := zodiac.Bodies()
	tropical := make([]ephemeris.BodyPosition, len(bodies))
	for i, b := range bodies {
		if b.IsNode() {
			continue
		}
		pos, derr := e.adapter.Position(b, jd)
		if derr != nil {
			c.degrade(derr, b.String())
		}
		tropical[i] = pos
	}
	rahu, ketu := e.nodes.Estimate(jd, tropical[zodiac.Moon])
	tropical[zodiac.Rahu] = rahu
	tropical[zodiac.Ketu] = ketu

	// Angles.
	angles, ok := e.angles(c, jd, utc.HourOfDay(), rec.Latitude, rec.Longitude)
	asc, err := classify(model, angles.Ascendant, jd)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	mc, err := classify(model, angles.Midheaven, jd)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	c.Ascendant = Angle{Tropical: angles.Ascendant, Placement: asc, Degraded: !ok}
	c.Midheaven = Angle{Tropical: angles.Midheaven, Placement: mc, Degraded: !ok}

	// Sidereal placements, houses, strength.
	lagna := asc.Sign
	signs := make([]zodiac.Sign, len(bodies))
	c.Planets = make([]Planet, len(bodies))
	for i, b := range bodies {
		p, err := classify(model, tropical[i].Longitude, jd)
		if err != nil {
			return nil, errors.NewInternal(fmt.Errorf("%s: %w", b, err))
		}
		house := HouseOf(lagna, p.Sign)
		signs[i] = p.Sign
		c.Planets[i] = Planet{
			Body:      b,
			Tropical:  tropical[i],
			Sidereal:  p.Longitude,
			Placement: p,
			House:     house,
			Strength:  ScoreStrength(b, p.Sign, house, tropical[i].Retrograde, jd, e.jitter),
		}
	}
	c.Houses = WholeSignHouses(lagna, bodies, signs)

	moon := c.Planets[zodiac.Moon].Placement
	c.Namakshar = zodiac.Namakshar(moon.Nakshatra, moon.Pada)
	return c, nil
}

// angles computes the ascendant, falling back to the coarse formula when
// sidereal time fails or the result is not finite. ok is false on fallback.
func (e *Engine) angles(c *Chart, jd, utHour, lat, lon float64) (Angles, bool) {
	gst, err := e.adapter.SiderealTime(jd)
	if err == nil {
		if a, ok := ComputeAngles(gst, lat, lon); ok {
			return a, true
		}
		err = fmt.Errorf("non-finite result")
	}
	derr := errors.NewAscendantDegenerate(lat, err.Error())
	e.log.WithFields(logrus.Fields{
		"code":     errors.ErrAscendantDegenerate,
		"latitude": lat,
	}).WithError(err).Warn("ascendant fallback used")
	c.degrade(derr, "")
	return FallbackAngles(utHour, lon), false
}

func (c *Chart) degrade(err error, body string) {
	d := Degradation{Body: body, Message: err.Error()}
	if lErr, ok := errors.As(err); ok {
		d.Code = lErr.Code
		d.Message = lErr.Message
	}
	c.Degraded = true
	c.Degradations = append(c.Degradations, d)
}

// classify converts a tropical longitude to sidereal and classifies it.
// This is the only place the ayanamsa is applied.
func classify(model ayanamsa.Model, tropical, jd float64) (zodiac.Placement, error) {
	return zodiac.Classify(model.ToSidereal(tropical, jd))
}
