// Package pic assembles the deposition and boundary kernels into a
// per-patch charge/current cycle, the way the surrounding time stepper
// drives them: scatter particles into the grown arrays, then fold and
// mirror the guard regions per the boundary tables.
package pic

import (
	"github.com/notargets/gopic/boundary"
	"github.com/notargets/gopic/deposition"
	"github.com/notargets/gopic/grid"
)

// PatchType selects the coarse or fine arrays of a refinement level.
type PatchType uint8

const (
	CoarsePatch PatchType = iota
	FinePatch
)

// Patch owns the field arrays of one spatial patch on one level. The
// kernels themselves are stateless; Patch is the external collaborator
// that allocates arrays and tables for them.
type Patch struct {
	Geo    grid.Geometry
	Level  int
	Type   PatchType
	BC     boundary.BCSet
	PBC    boundary.ParticleBCSet
	NGuard int
	NModes int

	Rho  *grid.Field    // charge density, cell centered
	E, B [3]*grid.Field // Yee-staggered field components
	J    [3]*grid.Field // current density, E staggering
	Pe   *grid.Field    // electron pressure, nodal
}

// EStaggering is the Yee staggering of electric field component comp:
// cell-centered along its own direction, nodal along the others.
func EStaggering(dim grid.Dimensionality, comp int) (s grid.Staggering) {
	s = grid.AllNode
	for d := 0; d < dim.NumDims(); d++ {
		if dim.Normal(comp, d) {
			s[d] = grid.Cell
		}
	}
	return
}

// BStaggering is the complement: nodal along the component's own
// direction, cell-centered along the others.
func BStaggering(dim grid.Dimensionality, comp int) (s grid.Staggering) {
	s = grid.AllNode
	for d := 0; d < dim.NumDims(); d++ {
		if dim.Tangential(comp, d) {
			s[d] = grid.Cell
		}
	}
	return
}

func cellStaggering(dim grid.Dimensionality) (s grid.Staggering) {
	s = grid.AllNode
	for d := 0; d < dim.NumDims(); d++ {
		s[d] = grid.Cell
	}
	return
}

// NewPatch allocates the per-patch arrays with nGuard halo cells. nModes
// is the azimuthal mode count in RZ geometry (1 elsewhere); scalar density
// arrays then carry 2*nModes-1 components.
func NewPatch(geo grid.Geometry, bc boundary.BCSet, pbc boundary.ParticleBCSet,
	nGuard, nModes int) (p *Patch) {
	nd := geo.Dim.NumDims()
	nComp := 1
	if geo.Dim.RZ() && nModes > 1 {
		nComp = 2*nModes - 1
	}
	grown := geo.Domain.Grow(nGuard, nd)
	p = &Patch{
		Geo:    geo,
		BC:     bc,
		PBC:    pbc,
		NGuard: nGuard,
		NModes: nModes,
		Rho:    grid.NewField(grown, nComp, cellStaggering(geo.Dim)),
		Pe:     grid.NewField(grown, 1, grid.AllNode),
	}
	for c := 0; c < 3; c++ {
		p.E[c] = grid.NewField(grown, nComp, EStaggering(geo.Dim, c))
		p.B[c] = grid.NewField(grown, nComp, BStaggering(geo.Dim, c))
		p.J[c] = grid.NewField(grown, nComp, EStaggering(geo.Dim, c))
	}
	return
}

// DepositCharge scatters a particle population's charge into Rho and
// enforces the PEC boundary on the result.
func (p *Patch) DepositCharge(dep deposition.Depositor, pop *Population, NP int) {
	dep.DepositCharge(pop.Position, pop.Weight, pop.IonLev, p.Rho, p.Geo, pop.Charge)
	boundary.ApplyPECToRho(p.Geo, p.Rho, p.BC, p.PBC, NP)
}

// DepositCurrent scatters the population's current components into J and
// enforces the PEC boundary on each.
func (p *Patch) DepositCurrent(dep deposition.Depositor, pop *Population, NP int) {
	for c := 0; c < 3; c++ {
		dep.DepositCurrent(pop.Position, pop.Weight, pop.Vel[c], pop.IonLev,
			p.J[c], p.Geo, pop.Charge)
	}
	boundary.ApplyPECToCurrent(p.Geo, p.J, p.BC, p.PBC, NP)
}

// MirrorFields enforces the PEC condition on E and B after a field solve.
func (p *Patch) MirrorFields(NP int) {
	boundary.ApplyPECToEField(p.Geo, p.E, p.BC, NP)
	boundary.ApplyPECToBField(p.Geo, p.B, p.BC, NP)
}

// TotalCharge integrates Rho mode 0 over the physical (non-guard) domain.
func (p *Patch) TotalCharge() float64 {
	vol := 1.0
	for d := 0; d < p.Geo.Dim.NumDims(); d++ {
		vol *= p.Geo.CellSize[d]
	}
	return p.Rho.Sum(p.Geo.Domain, 0) * vol
}
