package deposition

import (
	"math"
	"sync"
	"time"

	"github.com/notargets/gopic/grid"
	"github.com/notargets/gopic/utils"
)

// PositionFunc yields the Cartesian position of particle ip. In RZ geometry
// the (x,y) pair carries the azimuthal information and is reduced to
// (r,theta) inside the kernels.
type PositionFunc func(ip int) (xp, yp, zp float64)

// addFunc accumulates one weighted contribution at an absolute grid index.
// The plain path binds it to atomic global adds, the shared-tile path to
// unsynchronized writes into work-group scratch.
type addFunc func(i, j, k, n int, val float64)

// depositOne scatters the weighted amount wq of a single particle onto the
// (order+1)^d stencil surrounding it. The fractional coordinate per
// dimension is shifted by half a cell when the target is cell-centered in
// that dimension. In RZ geometry each azimuthal mode m beyond 0 receives
// 2*wq*cos(m theta) and 2*wq*sin(m theta) in components 2m-1 and 2m; the
// angle factors follow the complex recurrence e^{im theta} = (e^{i theta})^m.
func depositOne(add addFunc, xp, yp, zp, wq float64, geo grid.Geometry,
	stag grid.Staggering, order, nModes int) {
	var (
		sx, sy, sz [MaxOrder + 1]float64
		lo         = geo.Domain.Lo
	)
	frac := func(pos float64, d int) float64 {
		x := (pos - geo.ProbLo[d]) / geo.CellSize[d]
		if stag[d] == grid.Cell {
			x -= 0.5
		}
		return x
	}
	switch geo.Dim {
	case grid.Dim1Z:
		k := ShapeFactor(sz[:], frac(zp, 0), order)
		for iz := 0; iz <= order; iz++ {
			add(lo[0]+k+iz, 0, 0, 0, sz[iz]*wq)
		}
	case grid.Dim2XZ:
		i := ShapeFactor(sx[:], frac(xp, 0), order)
		k := ShapeFactor(sz[:], frac(zp, 1), order)
		for iz := 0; iz <= order; iz++ {
			for ix := 0; ix <= order; ix++ {
				add(lo[0]+i+ix, lo[1]+k+iz, 0, 0, sx[ix]*sz[iz]*wq)
			}
		}
	case grid.DimRZ:
		rp := math.Sqrt(xp*xp + yp*yp)
		xy0 := complex(1, 0)
		if rp > 0 {
			xy0 = complex(xp/rp, yp/rp)
		}
		i := ShapeFactor(sx[:], frac(rp, 0), order)
		k := ShapeFactor(sz[:], frac(zp, 1), order)
		for iz := 0; iz <= order; iz++ {
			for ix := 0; ix <= order; ix++ {
				w := sx[ix] * sz[iz] * wq
				add(lo[0]+i+ix, lo[1]+k+iz, 0, 0, w)
				xy := xy0
				for m := 1; m < nModes; m++ {
					// The factor 2 comes from the normalization of the modes
					add(lo[0]+i+ix, lo[1]+k+iz, 0, 2*m-1, 2*w*real(xy))
					add(lo[0]+i+ix, lo[1]+k+iz, 0, 2*m, 2*w*imag(xy))
					xy = xy * xy0
				}
			}
		}
	default:
		i := ShapeFactor(sx[:], frac(xp, 0), order)
		j := ShapeFactor(sy[:], frac(yp, 1), order)
		k := ShapeFactor(sz[:], frac(zp, 2), order)
		for iz := 0; iz <= order; iz++ {
			for iy := 0; iy <= order; iy++ {
				for ix := 0; ix <= order; ix++ {
					add(lo[0]+i+ix, lo[1]+j+iy, lo[2]+k+iz, 0, sx[ix]*sy[iy]*sz[iz]*wq)
				}
			}
		}
	}
}

// PlainDepositor scatters straight into the global array with atomic adds,
// one work group per particle partition. It is the always-correct execution
// strategy; SharedDepositor trades it for lower atomic contention.
type PlainDepositor struct {
	Order  int // shape factor order, 0-3
	NModes int // azimuthal modes in RZ geometry, >=1
	NP     int // parallel work groups
	Cost   *Cost
}

func NewPlainDepositor(order, nModes, NP int) *PlainDepositor {
	return &PlainDepositor{Order: order, NModes: nModes, NP: NP}
}

// DepositCharge adds every particle's charge to rho. wp holds particle
// weights; ionLev, when non-nil, holds per-particle ionization levels that
// multiply the species charge q. Particle order never affects the result
// beyond floating point summation order.
func (pd *PlainDepositor) DepositCharge(getPos PositionFunc, wp []float64,
	ionLev []int, rho *grid.Field, geo grid.Geometry, q float64) {
	pd.deposit(getPos, wp, ionLev, nil, rho, geo, q)
}

// DepositCurrent adds one velocity-weighted current component to jc. v is
// the per-particle velocity along the component being deposited.
func (pd *PlainDepositor) DepositCurrent(getPos PositionFunc, wp, v []float64,
	ionLev []int, jc *grid.Field, geo grid.Geometry, q float64) {
	pd.deposit(getPos, wp, ionLev, v, jc, geo, q)
}

func (pd *PlainDepositor) deposit(getPos PositionFunc, wp []float64,
	ionLev []int, v []float64, f *grid.Field, geo grid.Geometry, q float64) {
	var (
		invvol = geo.InvVol()
		pm     = utils.NewPartitionMap(pd.NP, len(wp))
		wg     = sync.WaitGroup{}
		add    = f.AddAtomic
	)
	for np := 0; np < pm.ParallelDegree; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			start := time.Now()
			ipMin, ipMax := pm.GetBucketRange(np)
			for ip := ipMin; ip < ipMax; ip++ {
				wq := q * wp[ip] * invvol
				if ionLev != nil {
					wq *= float64(ionLev[ip])
				}
				if v != nil {
					wq *= v[ip]
				}
				xp, yp, zp := getPos(ip)
				depositOne(add, xp, yp, zp, wq, geo, f.Stag, pd.Order, pd.NModes)
			}
			pd.Cost.Record(np, time.Since(start).Seconds())
		}(np)
	}
	wg.Wait()
}
