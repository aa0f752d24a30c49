package boundary

import (
	"sync"

	"github.com/notargets/gopic/grid"
	"github.com/notargets/gopic/utils"
)

// sweep runs cell over every (index, component) pair of the field's
// allocated box, partitioned across NP goroutines.
func sweep(f *grid.Field, NP int, cell func(iv grid.IntVec, n int)) {
	var (
		pm = utils.NewPartitionMap(NP, f.Bounds.NumPts())
		wg = sync.WaitGroup{}
	)
	for np := 0; np < pm.ParallelDegree; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			kMin, kMax := pm.GetBucketRange(np)
			for kk := kMin; kk < kMax; kk++ {
				iv := f.Bounds.PointAt(kk)
				for n := 0; n < f.NComp; n++ {
					cell(iv, n)
				}
			}
		}(np)
	}
	wg.Wait()
}

// ApplyPECToEField enforces the PEC condition on the three electric field
// components over their full allocated boxes, guard cells included.
func ApplyPECToEField(geo grid.Geometry, E [3]*grid.Field, bc BCSet, NP int) {
	if !bc.AnyPEC(geo.Dim.NumDims()) {
		return
	}
	for comp := 0; comp < 3; comp++ {
		f, c := E[comp], comp
		sweep(f, NP, func(iv grid.IntVec, n int) {
			SetEFieldOnPEC(geo.Dim, c, geo.Domain.Lo, geo.Domain.Hi, iv, n, f, bc)
		})
	}
}

// ApplyPECToBField enforces the PEC condition on the three magnetic field
// components.
func ApplyPECToBField(geo grid.Geometry, B [3]*grid.Field, bc BCSet, NP int) {
	if !bc.AnyPEC(geo.Dim.NumDims()) {
		return
	}
	for comp := 0; comp < 3; comp++ {
		f, c := B[comp], comp
		sweep(f, NP, func(iv grid.IntVec, n int) {
			SetBFieldOnPEC(geo.Dim, c, geo.Domain.Lo, geo.Domain.Hi, iv, n, f, bc)
		})
	}
}

// applyDensity runs the two-pass image-charge scheme. Each pass advances
// one dimension at a time; the sweep join is the phase barrier the scheme
// requires, so no guard cell is rewritten before every interior fold that
// reads it has finished.
func applyDensity(f *grid.Field, mt MirrorTable, tangent [3]bool, NP int) {
	for d := 0; d < mt.NumDims; d++ {
		dd := d
		sweep(f, NP, func(iv grid.IntVec, n int) {
			DensityFoldFromGuards(iv, n, f, mt, dd)
		})
	}
	for d := 0; d < mt.NumDims; d++ {
		dd := d
		sweep(f, NP, func(iv grid.IntVec, n int) {
			DensityImageToGuards(iv, n, f, mt, tangent, dd)
		})
	}
}

// ApplyPECToRho folds charge density deposited beyond PEC boundaries back
// into the domain and rebuilds the guard cells as image charge.
func ApplyPECToRho(geo grid.Geometry, rho *grid.Field, bc BCSet, pbc ParticleBCSet, NP int) {
	if !bc.AnyPEC(geo.Dim.NumDims()) {
		return
	}
	mt := NewChargeMirrorTable(geo, rho.Stag, bc, pbc)
	applyDensity(rho, mt, [3]bool{}, NP)
}

// ApplyPECToCurrent does the same for the three current density components,
// with the tangential components inverted across each boundary.
func ApplyPECToCurrent(geo grid.Geometry, J [3]*grid.Field, bc BCSet, pbc ParticleBCSet, NP int) {
	if !bc.AnyPEC(geo.Dim.NumDims()) {
		return
	}
	for comp := 0; comp < 3; comp++ {
		mt, tangent := NewCurrentMirrorTable(geo, J[comp].Stag, bc, pbc, comp)
		applyDensity(J[comp], mt, tangent, NP)
	}
}

// ApplyPECToPotential enforces a Neumann (zero normal derivative) condition
// on a scalar field such as the electron pressure.
func ApplyPECToPotential(geo grid.Geometry, p *grid.Field, bc BCSet, NP int) {
	if !bc.AnyPEC(geo.Dim.NumDims()) {
		return
	}
	mt := NewChargeMirrorTable(geo, p.Stag, bc, ParticleBCSet{})
	for d := 0; d < mt.NumDims; d++ {
		dd := d
		sweep(p, NP, func(iv grid.IntVec, n int) {
			NeumannOnPEC(iv, n, p, mt, dd)
		})
	}
}
