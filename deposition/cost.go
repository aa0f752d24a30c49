package deposition

import (
	"github.com/notargets/gopic/utils"

	"gonum.org/v1/gonum/floats"
)

// Cost accumulates elapsed wall time per parallel work group for load
// balancing diagnostics. Recording never affects deposition results.
type Cost struct {
	Groups []float64
}

func NewCost(nGroups int) *Cost {
	return &Cost{Groups: make([]float64, nGroups)}
}

// Record adds elapsed seconds to a work group's running total. Safe to call
// from concurrent work groups sharing a slot.
func (c *Cost) Record(group int, seconds float64) {
	if c == nil {
		return
	}
	utils.AtomicAddFloat64(&c.Groups[group], seconds)
}

// Total is the summed cost over all work groups.
func (c *Cost) Total() float64 {
	if c == nil {
		return 0
	}
	return floats.Sum(c.Groups)
}
