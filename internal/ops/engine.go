package ops

import (
	"github.com/sirupsen/logrus"

	"github.com/hpungsan/lagna/internal/ayanamsa"
	"github.com/hpungsan/lagna/internal/birth"
	"github.com/hpungsan/lagna/internal/chart"
	"github.com/hpungsan/lagna/internal/config"
	"github.com/hpungsan/lagna/internal/ephemeris"
	"github.com/hpungsan/lagna/internal/logging"
)

// Engine computes charts with per-request model overrides around one shared
// provider. It is safe for concurrent use.
type Engine struct {
	provider  ephemeris.Provider
	ayanamsa  string
	nodeModel string
	jitter    chart.Jitter
	log       logrus.FieldLogger
}

// NewEngine returns an Engine over p with defaults taken from cfg.
// A nil cfg means DefaultConfig; a nil log discards.
func NewEngine(p ephemeris.Provider, cfg *config.Config, log logrus.FieldLogger) *Engine {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if log == nil {
		log = logging.Discard()
	}
	var j chart.Jitter = chart.HashJitter{}
	if cfg.DisableStrengthJitter {
		j = chart.NoJitter{}
	}
	return &Engine{
		provider:  p,
		ayanamsa:  cfg.Ayanamsa,
		nodeModel: cfg.NodeModel,
		jitter:    j,
		log:       log,
	}
}

// NewDefaultEngine uses the Meeus provider, with VSOP87 planets when
// cfg.EphemerisDir is set and element-based planets otherwise.
func NewDefaultEngine(cfg *config.Config, log logrus.FieldLogger) *Engine {
	dir := ""
	if cfg != nil {
		dir = cfg.EphemerisDir
	}
	return NewEngine(ephemeris.NewMeeus(dir), cfg, log)
}

// Compute builds a chart. Empty model names fall back to the configured
// defaults.
func (e *Engine) Compute(rec birth.Record, ayanamsaName, nodeModel string) (*chart.Chart, error) {
	if ayanamsaName == "" {
		ayanamsaName = e.ayanamsa
	}
	if nodeModel == "" {
		nodeModel = e.nodeModel
	}
	model, err := ayanamsa.Lookup(ayanamsaName)
	if err != nil {
		return nil, err
	}
	nm, err := chart.ParseNodeModel(nodeModel)
	if err != nil {
		return nil, err
	}

	est := chart.DefaultNodeEstimator()
	est.Model = nm
	eng := chart.NewEngine(e.provider,
		chart.WithNodeEstimator(est),
		chart.WithJitter(e.jitter),
		chart.WithLogger(e.log),
	)
	return eng.Compute(rec, model)
}
