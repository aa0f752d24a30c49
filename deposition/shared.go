package deposition

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/notargets/gopic/grid"
	"github.com/notargets/gopic/utils"
)

// SharedDepositor stages each spatial tile's contributions in a private
// scratch buffer before merging into the global array, cutting atomic
// traffic when many particles share cells. Results match PlainDepositor up
// to floating point summation order.
type SharedDepositor struct {
	Order  int
	NModes int
	NP     int
	Tile   grid.IntVec // tile extent in cells per active dimension
	Cost   *Cost

	nComp      int
	scratchLen int // floats per work-group scratch buffer
}

// NewSharedDepositor validates the tiling against the fast-memory budget.
// The scratch for one tile spans the tile grown by the shape order plus one
// nodal point per dimension, times the component count. One depositor
// serves every field the patch owns, so the footprint is sized for the
// worst staggering rather than any particular target; over budget is a
// fatal configuration error, caught here once rather than per particle.
func NewSharedDepositor(geo grid.Geometry, order, nModes, NP int,
	tile grid.IntVec, budgetBytes int) (sd *SharedDepositor, err error) {
	if order < 0 || order > MaxOrder {
		return nil, fmt.Errorf("deposition order %d out of range [0,%d]", order, MaxOrder)
	}
	nComp := 1
	if geo.Dim.RZ() && nModes > 1 {
		nComp = 2*nModes - 1
	}
	pts := 1
	for d := 0; d < geo.Dim.NumDims(); d++ {
		if tile[d] < 1 {
			return nil, fmt.Errorf("tile extent must be positive, got %v", tile)
		}
		pts *= tile[d] + 1 + 2*order
	}
	scratchLen := pts * nComp
	if scratchLen*8 > budgetBytes {
		return nil, fmt.Errorf(
			"tile size too big for shared memory deposition: scratch needs %d bytes, budget is %d",
			scratchLen*8, budgetBytes)
	}
	sd = &SharedDepositor{
		Order:      order,
		NModes:     nModes,
		NP:         NP,
		Tile:       tile,
		nComp:      nComp,
		scratchLen: scratchLen,
	}
	return
}

// cellOf maps a particle position to its cell index over the active
// dimensions, clamped into the valid domain so edge particles bin into the
// last tile.
func cellOf(geo grid.Geometry, xp, yp, zp float64) (iv grid.IntVec) {
	var pos [3]float64
	switch geo.Dim {
	case grid.Dim1Z:
		pos[0] = zp
	case grid.Dim2XZ:
		pos[0], pos[1] = xp, zp
	case grid.DimRZ:
		pos[0], pos[1] = math.Sqrt(xp*xp+yp*yp), zp
	default:
		pos[0], pos[1], pos[2] = xp, yp, zp
	}
	for d := 0; d < geo.Dim.NumDims(); d++ {
		c := geo.Domain.Lo[d] + int(math.Floor((pos[d]-geo.ProbLo[d])/geo.CellSize[d]))
		if c < geo.Domain.Lo[d] {
			c = geo.Domain.Lo[d]
		}
		if c > geo.Domain.Hi[d] {
			c = geo.Domain.Hi[d]
		}
		iv[d] = c
	}
	return
}

func (sd *SharedDepositor) DepositCharge(getPos PositionFunc, wp []float64,
	ionLev []int, rho *grid.Field, geo grid.Geometry, q float64) {
	sd.deposit(getPos, wp, ionLev, nil, rho, geo, q)
}

func (sd *SharedDepositor) DepositCurrent(getPos PositionFunc, wp, v []float64,
	ionLev []int, jc *grid.Field, geo grid.Geometry, q float64) {
	sd.deposit(getPos, wp, ionLev, v, jc, geo, q)
}

func (sd *SharedDepositor) deposit(getPos PositionFunc, wp []float64,
	ionLev []int, v []float64, f *grid.Field, geo grid.Geometry, q float64) {
	var (
		nd     = geo.Dim.NumDims()
		invvol = geo.InvVol()
		domSz  = geo.Domain.Size()
	)
	// Tile decomposition of the valid domain
	var nTiles grid.IntVec
	nBins := 1
	for d := 0; d < 3; d++ {
		nTiles[d] = 1
		if d < nd {
			nTiles[d] = (domSz[d] + sd.Tile[d] - 1) / sd.Tile[d]
		}
		nBins *= nTiles[d]
	}

	binOf := func(ip int) int {
		xp, yp, zp := getPos(ip)
		iv := cellOf(geo, xp, yp, zp)
		bin := 0
		for d := nd - 1; d >= 0; d-- {
			bin = bin*nTiles[d] + (iv[d]-geo.Domain.Lo[d])/sd.Tile[d]
		}
		return bin
	}

	// Counting sort of particle indices by bin, permutation style
	counts := make([]int, nBins+1)
	for ip := range wp {
		counts[binOf(ip)+1]++
	}
	for b := 0; b < nBins; b++ {
		counts[b+1] += counts[b]
	}
	var (
		perm = make([]int, len(wp))
		next = make([]int, nBins)
	)
	copy(next, counts[:nBins])
	for ip := range wp {
		b := binOf(ip)
		perm[next[b]] = ip
		next[b]++
	}

	// One work group per tile; each phase inside a group completes before
	// the next begins, which is the barrier discipline the staging scheme
	// requires (zero before scatter, scatter before merge).
	var (
		pm = utils.NewPartitionMap(sd.NP, nBins)
		wg = sync.WaitGroup{}
	)
	for np := 0; np < pm.ParallelDegree; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			start := time.Now()
			scratch := make([]float64, sd.scratchLen)
			bMin, bMax := pm.GetBucketRange(np)
			for b := bMin; b < bMax; b++ {
				if counts[b] == counts[b+1] {
					continue
				}
				sd.depositTile(b, nTiles, perm[counts[b]:counts[b+1]], scratch,
					getPos, wp, ionLev, v, f, geo, q, invvol)
			}
			sd.Cost.Record(np, time.Since(start).Seconds())
		}(np)
	}
	wg.Wait()
}

// depositTile stages one tile's particles in scratch and merges the result
// into the global array, skipping any staged point outside the allocated
// bounds.
func (sd *SharedDepositor) depositTile(bin int, nTiles grid.IntVec, parts []int,
	scratch []float64, getPos PositionFunc, wp []float64, ionLev []int,
	v []float64, f *grid.Field, geo grid.Geometry, q, invvol float64) {
	var (
		nd  = geo.Dim.NumDims()
		tbx grid.Box
	)
	// Tile box converted to the field staggering and grown by the order
	rem := bin
	for d := 0; d < nd; d++ {
		bt := rem % nTiles[d]
		rem /= nTiles[d]
		tbx.Lo[d] = geo.Domain.Lo[d] + bt*sd.Tile[d]
		tbx.Hi[d] = tbx.Lo[d] + sd.Tile[d] - 1 + f.Stag.Nodal(d)
	}
	tbx = tbx.Grow(sd.Order, nd)

	var (
		sz  = tbx.Size()
		n0  = sz[0] * sz[1] * sz[2]
		buf = scratch[:n0*f.NComp]
	)
	for i := range buf {
		buf[i] = 0
	}
	add := func(i, j, k, n int, val float64) {
		off := ((n*sz[2]+(k-tbx.Lo[2]))*sz[1]+(j-tbx.Lo[1]))*sz[0] + (i - tbx.Lo[0])
		buf[off] += val
	}
	for _, ip := range parts {
		wq := q * wp[ip] * invvol
		if ionLev != nil {
			wq *= float64(ionLev[ip])
		}
		if v != nil {
			wq *= v[ip]
		}
		xp, yp, zp := getPos(ip)
		depositOne(add, xp, yp, zp, wq, geo, f.Stag, sd.Order, sd.NModes)
	}
	// Merge staged contributions into the global array
	for n := 0; n < f.NComp; n++ {
		for off := 0; off < n0; off++ {
			val := buf[n*n0+off]
			if val == 0 {
				continue
			}
			iv := tbx.PointAt(off)
			if f.Bounds.Contains(iv) {
				f.AddAtomic(iv[0], iv[1], iv[2], n, val)
			}
		}
	}
}
