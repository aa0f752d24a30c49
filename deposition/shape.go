// Package deposition scatters particle charge and current onto mesh fields
// with configurable-order polynomial shape factors and race-free
// accumulation.
package deposition

import "math"

// MaxOrder is the highest supported shape-factor order (cubic B-spline).
const MaxOrder = 3

// ShapeFactor fills w[0:order+1] with the 1D interpolation weights of the
// given order centered on fractional grid coordinate x and returns the
// index of the leftmost grid point touched. The weights always sum to 1;
// orders 0 and 1 are non-negative, orders 2 and 3 are the standard
// quadratic/cubic B-spline segments.
func ShapeFactor(w []float64, x float64, order int) (i int) {
	switch order {
	case 0:
		i = int(math.Floor(x + 0.5))
		w[0] = 1
	case 1:
		i = int(math.Floor(x))
		xint := x - float64(i)
		w[0] = 1 - xint
		w[1] = xint
	case 2:
		i = int(math.Floor(x + 0.5))
		xint := x - float64(i)
		w[0] = 0.5 * (0.5 - xint) * (0.5 - xint)
		w[1] = 0.75 - xint*xint
		w[2] = 0.5 * (0.5 + xint) * (0.5 + xint)
		i--
	case 3:
		i = int(math.Floor(x))
		xint := x - float64(i)
		oxint := 1 - xint
		w[0] = oxint * oxint * oxint / 6
		w[1] = 2.0/3.0 - xint*xint*(1-xint/2)
		w[2] = 2.0/3.0 - oxint*oxint*(1-oxint/2)
		w[3] = xint * xint * xint / 6
		i--
	default:
		panic("deposition: shape factor order must be in [0,3]")
	}
	return
}
