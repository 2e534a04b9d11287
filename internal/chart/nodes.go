package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/hpungsan/lagna/internal/ephemeris"
	"github.com/hpungsan/lagna/internal/errors"
	"github.com/hpungsan/lagna/internal/zodiac"
)

// NodeModel selects how Rahu is estimated.
type NodeModel string

const (
	// NodeMean regresses the mean node linearly from a reference epoch.
	NodeMean NodeModel = "mean"
	// NodeMoon derives the node from the Moon's longitude and latitude.
	NodeMoon NodeModel = "moon"
)

const (
	// NodeSpeed is the mean daily motion of the lunar nodes.
	NodeSpeed = -0.053

	lunarInclination = 5.145
	daysPerYear      = 365.25
)

// ParseNodeModel resolves a node model name; empty selects NodeMean.
func ParseNodeModel(s string) (NodeModel, error) {
	switch NodeModel(strings.ToLower(strings.TrimSpace(s))) {
	case "", NodeMean:
		return NodeMean, nil
	case NodeMoon:
		return NodeMoon, nil
	}
	return "", errors.NewInvalidRequest(fmt.Sprintf("unknown node model %q (known: mean, moon)", s))
}

// NodeEstimator approximates the mean lunar nodes. The mean model can be
// off from the true node by up to about 1.5°; downstream rules assume the
// mean-node convention, so no correction is applied.
type NodeEstimator struct {
	Model NodeModel

	// Regression epoch. A zero EpochJD means no epoch data and forces NodeMoon.
	EpochJD        float64
	EpochLongitude float64
	AnnualRate     float64 // degrees per Julian year, positive for regression
}

// DefaultNodeEstimator is the mean-node regression from J2000.0.
func DefaultNodeEstimator() NodeEstimator {
	return NodeEstimator{
		Model:          NodeMean,
		EpochJD:        ephemeris.J2000,
		EpochLongitude: 125.04,
		AnnualRate:     19.34,
	}
}

// Estimate returns tropical positions for Rahu and Ketu. Ketu is always
// exactly opposite Rahu; both are retrograde.
func (n NodeEstimator) Estimate(jd float64, moon ephemeris.BodyPosition) (rahu, ketu ephemeris.BodyPosition) {
	var lon float64
	var source string
	if n.Model == NodeMoon || n.EpochJD == 0 {
		lon = nodeFromMoon(moon)
		source = "moon-node"
	} else {
		years := (jd - n.EpochJD) / daysPerYear
		lon = zodiac.Wrap360(n.EpochLongitude - years*n.AnnualRate)
		source = "mean-node"
	}

	rahu = ephemeris.BodyPosition{
		Longitude:  lon,
		Speed:      NodeSpeed,
		Retrograde: true,
		Source:     source,
		Degraded:   moon.Degraded && source == "moon-node",
	}
	ketu = rahu
	ketu.Longitude = zodiac.Wrap360(lon + 180)
	return rahu, ketu
}

// nodeFromMoon solves sin β = sin i · sin u for the argument of latitude u,
// picking the ascending half of the orbit when latitude is increasing.
func nodeFromMoon(moon ephemeris.BodyPosition) float64 {
	s := math.Sin(rad(moon.Latitude)) / math.Sin(rad(lunarInclination))
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}
	u := deg(math.Asin(s))
	if moon.LatitudeSpeed < 0 {
		u = 180 - u
	}
	return zodiac.Wrap360(moon.Longitude - u)
}

func rad(d float64) float64 { return d * math.Pi / 180 }

func deg(r float64) float64 { return r * 180 / math.Pi }
