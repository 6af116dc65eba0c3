package result

import (
	"fmt"
)

// TimeStepResolver maps possibly-negative time-step indices onto the valid
// range of a result file. Index -1 addresses the last available step.
type TimeStepResolver struct {
	MapPath string
	NSteps  int
}

// ResolveTStep validates the index against [-NSteps, NSteps-1] and returns
// the equivalent non-negative index.
func (r TimeStepResolver) ResolveTStep(index int) (int, error) {
	if index < -r.NSteps || index > r.NSteps-1 {
		return 0, fmt.Errorf(
			"time step index %d out of range [%d, %d]",
			index, -r.NSteps, r.NSteps-1)
	}
	if index < 0 {
		index += r.NSteps
	}
	return index, nil
}
