package deposition

import (
	"github.com/notargets/gopic/grid"
)

// Depositor is the pluggable execution strategy for particle-to-grid
// scatter. Both implementations produce identical fields up to floating
// point summation order; the choice is made once per run.
type Depositor interface {
	DepositCharge(getPos PositionFunc, wp []float64, ionLev []int,
		rho *grid.Field, geo grid.Geometry, q float64)
	DepositCurrent(getPos PositionFunc, wp, v []float64, ionLev []int,
		jc *grid.Field, geo grid.Geometry, q float64)
}
