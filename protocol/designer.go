// Package protocol attaches killer-experiment designs to accepted
// hypotheses.
package protocol

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/biograph-labs/episteme/core"
)

// Designer fills in the PICO record that would prove or disprove a
// hypothesis in a wet lab.
type Designer struct {
	logger *zap.Logger
}

// NewDesigner creates a protocol designer.
func NewDesigner(logger *zap.Logger) *Designer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Designer{logger: logger}
}

// DesignExperiment overwrites the hypothesis's placeholder PICO with a
// concrete design derived from the mechanism and target.
func (d *Designer) DesignExperiment(ctx context.Context, h *core.Hypothesis) error {
	d.logger.Info("designing experiment", zap.String("hypothesis_id", h.ID))

	mechanism := h.ProposedMechanism
	symbol := h.TargetCandidate.Symbol

	h.KillerExperiment = core.PICO{
		Population:   fmt.Sprintf("In vitro/In vivo models relevant to %s", mechanism),
		Intervention: fmt.Sprintf("Selective inhibition/activation of %s", symbol),
		Comparator:   "Vehicle control",
		Outcome:      fmt.Sprintf("Modulation of downstream biomarkers associated with %s", mechanism),
	}
	return nil
}
