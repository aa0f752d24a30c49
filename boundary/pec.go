// Package boundary enforces perfect-electric-conductor (PEC) boundary
// conditions on staggered vector fields and deposited charge/current
// densities by mirroring guard-cell values across the domain faces.
package boundary

import (
	"github.com/notargets/gopic/grid"
	"github.com/notargets/gopic/utils"
)

// BCSet holds the field boundary type on the low and high side of each
// dimension.
type BCSet struct {
	Lo, Hi [3]utils.FieldBCType
}

// IsPEC reports whether the boundary on side (0=lo, 1=hi) of dimension d is
// a perfect electric conductor.
func (bc BCSet) IsPEC(d, side int) bool {
	if side == 0 {
		return bc.Lo[d] == utils.BCPEC
	}
	return bc.Hi[d] == utils.BCPEC
}

// AnyPEC reports whether any of the active boundaries is PEC; drivers skip
// the whole sweep otherwise.
func (bc BCSet) AnyPEC(numDims int) bool {
	for d := 0; d < numDims; d++ {
		if bc.IsPEC(d, 0) || bc.IsPEC(d, 1) {
			return true
		}
	}
	return false
}

// ParticleBCSet holds the particle boundary type per dimension and side.
type ParticleBCSet struct {
	Lo, Hi [3]utils.ParticleBCType
}

// IsReflecting reports whether particles bounce off side (0=lo, 1=hi) of
// dimension d.
func (bc ParticleBCSet) IsReflecting(d, side int) bool {
	if side == 0 {
		return bc.Lo[d] == utils.PBCReflecting
	}
	return bc.Hi[d] == utils.PBCReflecting
}

// CellCountToBoundary is the number of grid points index iv sits past the
// domain boundary in dimension d: +1 means one cell outside the domain,
// 0 exactly on the boundary plane of a nodal field. The high-side boundary
// lies on dom_hi+1 for nodal staggering and between dom_hi and dom_hi+1
// for cell-centered staggering, hence the domHi[d]+nodal term.
func CellCountToBoundary(domLo, domHi, iv grid.IntVec, stag grid.Staggering, d, side int) int {
	if side == 0 {
		return domLo[d] - iv[d]
	}
	return iv[d] - (domHi[d] + stag.Nodal(d))
}

// mirrorVectorComponent applies the PEC condition at one grid index of one
// vector field component. flip selects which components invert across each
// boundary: tangential for E, normal for B. Cells on a nodal boundary plane
// are zeroed; guard cells receive the (possibly sign-flipped) value from
// their mirror location inside the domain. Corner cells compose because the
// mirror index and sign accumulate over all flagged dimensions before the
// single final write.
func mirrorVectorComponent(dim grid.Dimensionality, comp int, domLo, domHi,
	iv grid.IntVec, n int, f *grid.Field, bc BCSet, electric bool) {
	var (
		mirror     = iv
		onBoundary = false
		guard      = false
		sign       = 1.0
	)
	for d := 0; d < dim.NumDims(); d++ {
		for side := 0; side < 2; side++ {
			if !bc.IsPEC(d, side) {
				continue
			}
			flip := dim.Tangential(comp, d)
			if !electric {
				flip = dim.Normal(comp, d)
			}
			ig := CellCountToBoundary(domLo, domHi, iv, f.Stag, d, side)
			switch {
			case ig == 0:
				if flip && f.Stag.Nodal(d) == 1 {
					onBoundary = true
				}
			case ig > 0:
				if side == 0 {
					mirror[d] = domLo[d] + ig - (1 - f.Stag.Nodal(d))
				} else {
					mirror[d] = domHi[d] + 1 - ig
				}
				guard = true
				if flip {
					sign = -sign
				}
				if dim.RZ() && comp == 0 && d == 0 && side == 1 {
					// Radial rescale keeping d(r Fr)/dr = 0 across the outer
					// radial boundary. Valid for the first guard cell with Fr
					// cell centered in r; deeper guard cells keep the same
					// factor form deliberately.
					rguard := float64(iv[d]) + 0.5*float64(1-f.Stag.Nodal(d))
					rmirror := float64(mirror[d]) + 0.5*float64(1-f.Stag.Nodal(d))
					sign *= rmirror / rguard
				}
			}
		}
	}
	switch {
	case onBoundary:
		f.Set(iv[0], iv[1], iv[2], n, 0)
	case guard:
		if f.Bounds.Contains(mirror) {
			f.Set(iv[0], iv[1], iv[2], n, sign*f.At(mirror[0], mirror[1], mirror[2], n))
		}
	}
}

// SetEFieldOnPEC zeroes the tangential electric field on PEC boundary
// planes and fills guard cells with the mirrored interior value, sign
// flipped for tangential components.
func SetEFieldOnPEC(dim grid.Dimensionality, comp int, domLo, domHi,
	iv grid.IntVec, n int, f *grid.Field, bc BCSet) {
	mirrorVectorComponent(dim, comp, domLo, domHi, iv, n, f, bc, true)
}

// SetBFieldOnPEC zeroes the normal magnetic field on PEC boundary planes
// and fills guard cells with the mirrored interior value, sign flipped for
// normal components.
func SetBFieldOnPEC(dim grid.Dimensionality, comp int, domLo, domHi,
	iv grid.IntVec, n int, f *grid.Field, bc BCSet) {
	mirrorVectorComponent(dim, comp, domLo, domHi, iv, n, f, bc, false)
}
