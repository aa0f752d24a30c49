package boundary

import (
	"github.com/notargets/gopic/grid"
)

// MirrorTable is the precomputed per-dimension/side mirror relation for
// scalar density fields: the mirror of index i in dimension d across side s
// is Fac[d][s] - i. Sign is the pass-1 fold sign (image charge vs particle
// reflection); IsPEC gates each side.
type MirrorTable struct {
	Fac     [3][2]int
	Sign    [3][2]float64
	IsPEC   [3][2]bool
	NumDims int
}

// mirrorFactor places the mirror plane per staggering: on index domLo (and
// domHi+1) for a nodal dimension, half a cell outside the valid range for a
// cell-centered one.
func mirrorFactor(domLo, domHi, nodal, side int) int {
	if side == 0 {
		return 2*domLo - (1 - nodal)
	}
	return 2*domHi + 1 + nodal
}

// NewChargeMirrorTable builds the mirror relation for a charge density
// field. A reflecting particle boundary folds guard charge back with its
// own sign; any other particle boundary on a PEC face produces an image
// charge of opposite sign.
func NewChargeMirrorTable(geo grid.Geometry, stag grid.Staggering,
	bc BCSet, pbc ParticleBCSet) (mt MirrorTable) {
	mt.NumDims = geo.Dim.NumDims()
	for d := 0; d < mt.NumDims; d++ {
		for side := 0; side < 2; side++ {
			mt.IsPEC[d][side] = bc.IsPEC(d, side)
			mt.Fac[d][side] = mirrorFactor(geo.Domain.Lo[d], geo.Domain.Hi[d], stag.Nodal(d), side)
			if pbc.IsReflecting(d, side) {
				mt.Sign[d][side] = 1
			} else {
				mt.Sign[d][side] = -1
			}
		}
	}
	return
}

// NewCurrentMirrorTable builds the mirror relation for one current density
// component. The image of a current flips its tangential part (image charge
// negates, tangential velocity is kept) while a reflected particle flips
// its normal part (charge kept, normal velocity reversed). tangent reports,
// per dimension, whether the component is tangential to that boundary; it
// also drives the pass-2 guard reconstruction sign.
func NewCurrentMirrorTable(geo grid.Geometry, stag grid.Staggering,
	bc BCSet, pbc ParticleBCSet, comp int) (mt MirrorTable, tangent [3]bool) {
	mt.NumDims = geo.Dim.NumDims()
	for d := 0; d < mt.NumDims; d++ {
		tangent[d] = geo.Dim.Tangential(comp, d)
		for side := 0; side < 2; side++ {
			mt.IsPEC[d][side] = bc.IsPEC(d, side)
			mt.Fac[d][side] = mirrorFactor(geo.Domain.Lo[d], geo.Domain.Hi[d], stag.Nodal(d), side)
			sign := -1.0
			if tangent[d] == pbc.IsReflecting(d, side) {
				sign = 1.0
			}
			mt.Sign[d][side] = sign
		}
	}
	return
}

// interiorOf reports whether iv lies on the domain side of the boundary
// plane, given its mirror index in dimension d. On-plane cells (mirror ==
// self) are handled separately by the callers.
func interiorOf(iv, mirror grid.IntVec, d, side int) bool {
	if side == 0 {
		return iv[d] > mirror[d]
	}
	return iv[d] < mirror[d]
}

// DensityFoldFromGuards is pass 1 of the image-charge scheme for one
// dimension: deposited charge in the guard cells of dimension d is folded
// into the interior mirror cells with the table sign, and density exactly
// on a (nodal) boundary plane is zeroed. A mirror index outside the
// allocated bounds is skipped; that contribution has no storage. Phases
// must run one dimension at a time so that a later dimension folds corner
// guard charge the earlier dimension already moved onto its guard line.
func DensityFoldFromGuards(iv grid.IntVec, n int, f *grid.Field, mt MirrorTable, d int) {
	for side := 0; side < 2; side++ {
		if !mt.IsPEC[d][side] {
			continue
		}
		mirror := iv
		mirror[d] = mt.Fac[d][side] - iv[d]
		switch {
		case mirror == iv:
			f.Set(iv[0], iv[1], iv[2], n, 0)
		case interiorOf(iv, mirror, d, side) && f.Bounds.Contains(mirror):
			f.Add(iv[0], iv[1], iv[2], n, mt.Sign[d][side]*f.At(mirror[0], mirror[1], mirror[2], n))
		}
	}
}

// DensityImageToGuards is pass 2: guard cells of dimension d are rewritten
// as the image of their interior mirror, negated when the field kind is
// tangential to the boundary (current components) and unchanged otherwise
// (charge density, normal current). Must run only after pass 1 has
// completed for every cell.
func DensityImageToGuards(iv grid.IntVec, n int, f *grid.Field, mt MirrorTable,
	tangent [3]bool, d int) {
	for side := 0; side < 2; side++ {
		if !mt.IsPEC[d][side] {
			continue
		}
		mirror := iv
		mirror[d] = mt.Fac[d][side] - iv[d]
		if mirror == iv || !interiorOf(iv, mirror, d, side) || !f.Bounds.Contains(mirror) {
			continue
		}
		v := f.At(iv[0], iv[1], iv[2], n)
		if tangent[d] {
			v = -v
		}
		f.Set(mirror[0], mirror[1], mirror[2], n, v)
	}
}

// NeumannOnPEC enforces a zero normal derivative for scalar fields such as
// the electron pressure: cells on the boundary plane copy their first
// interior neighbor, guard cells copy the interior mirror unchanged.
func NeumannOnPEC(iv grid.IntVec, n int, f *grid.Field, mt MirrorTable, d int) {
	for side := 0; side < 2; side++ {
		if !mt.IsPEC[d][side] {
			continue
		}
		mirror := iv
		mirror[d] = mt.Fac[d][side] - iv[d]
		if mirror == iv {
			if side == 0 {
				mirror[d]++
			} else {
				mirror[d]--
			}
			if f.Bounds.Contains(mirror) {
				f.Set(iv[0], iv[1], iv[2], n, f.At(mirror[0], mirror[1], mirror[2], n))
			}
		} else if interiorOf(iv, mirror, d, side) && f.Bounds.Contains(mirror) {
			f.Set(mirror[0], mirror[1], mirror[2], n, f.At(iv[0], iv[1], iv[2], n))
		}
	}
}
