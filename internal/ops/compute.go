package ops

import (
	"github.com/hpungsan/lagna/internal/birth"
	"github.com/hpungsan/lagna/internal/chart"
)

// ComputeInput contains parameters for the Compute operation.
type ComputeInput struct {
	Birth     birth.Record
	Ayanamsa  string // default: config ayanamsa
	NodeModel string // default: config node_model
}

// ComputeOutput contains the result of the Compute operation.
type ComputeOutput struct {
	Chart *chart.Chart `json:"chart"`
}

// Compute builds a chart without storing it.
func Compute(engine *Engine, input ComputeInput) (*ComputeOutput, error) {
	c, err := engine.Compute(input.Birth, input.Ayanamsa, input.NodeModel)
	if err != nil {
		return nil, err
	}
	return &ComputeOutput{Chart: c}, nil
}
