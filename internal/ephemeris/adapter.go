package ephemeris

import (
	"fmt"
	"io"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/hpungsan/lagna/internal/errors"
	"github.com/hpungsan/lagna/internal/zodiac"
)

// Adapter samples a Provider at jd and jd+1 to estimate speed, and replaces
// failed lookups with MeanMotion.
type Adapter struct {
	provider Provider
	log      logrus.FieldLogger
}

// NewAdapter wraps p. A nil log discards output.
func NewAdapter(p Provider, log logrus.FieldLogger) *Adapter {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Adapter{provider: p, log: log}
}

// ProviderName returns the wrapped provider's name.
func (a *Adapter) ProviderName() string {
	return a.provider.Name()
}

// Position returns the body's tropical position. The position is always
// usable; degradation is non-nil when the provider failed and the
// mean-motion fallback was substituted. The provider is not retried.
func (a *Adapter) Position(body zodiac.Body, jd float64) (pos BodyPosition, degradation error) {
	p0, err := a.call(body, jd)
	var p1 Ecliptic
	if err == nil {
		p1, err = a.call(body, jd+1)
	}

	source := a.provider.Name()
	if err != nil {
		a.log.WithFields(logrus.Fields{
			"body":     body.String(),
			"code":     errors.ErrEphemerisUnavailable,
			"provider": source,
		}).WithError(err).Warn("ephemeris provider failed, using mean motion")

		var ferr error
		p0, ferr = MeanMotion(body, jd)
		if ferr == nil {
			p1, ferr = MeanMotion(body, jd+1)
		}
		if ferr != nil {
			// Only reachable for bodies MeanMotion cannot model either.
			return BodyPosition{Source: MeanMotionSource, Degraded: true}, errors.NewEphemerisUnavailable(body.String(), ferr)
		}
		source = MeanMotionSource
		degradation = errors.NewEphemerisUnavailable(body.String(), err)
	}

	speed := zodiac.Delta(p0.Longitude, p1.Longitude)
	return BodyPosition{
		Longitude:     zodiac.Wrap360(p0.Longitude),
		Latitude:      p0.Latitude,
		Distance:      p0.Distance,
		Speed:         speed,
		LatitudeSpeed: p1.Latitude - p0.Latitude,
		Retrograde:    speed < 0,
		Source:        source,
		Degraded:      degradation != nil,
	}, degradation
}

// SiderealTime returns Greenwich sidereal time in hours. Panics and
// non-finite results from the provider are returned as errors.
func (a *Adapter) SiderealTime(jd float64) (gst float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sidereal time panicked: %v", r)
		}
	}()
	gst, err = a.provider.SiderealTime(jd)
	if err == nil && !finite(gst) {
		err = fmt.Errorf("sidereal time is not finite: %v", gst)
	}
	return gst, err
}

func (a *Adapter) call(body zodiac.Body, jd float64) (e Ecliptic, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("provider panicked: %v", r)
		}
	}()
	e, err = a.provider.Position(body, jd)
	if err == nil && !finite(e.Longitude) {
		err = fmt.Errorf("provider returned non-finite longitude %v", e.Longitude)
	}
	return e, err
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
