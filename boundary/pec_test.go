package boundary

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/gopic/grid"
	"github.com/notargets/gopic/utils"
)

func allPEC(numDims int) (bc BCSet) {
	for d := 0; d < numDims; d++ {
		bc.Lo[d] = utils.BCPEC
		bc.Hi[d] = utils.BCPEC
	}
	return
}

// fill1D loads component comp of each field with v(i) = i + 10 so every
// sample is nonzero and identifies its own index.
func fill1D(f *grid.Field) {
	for i := f.Bounds.Lo[0]; i <= f.Bounds.Hi[0]; i++ {
		f.Set(i, 0, 0, 0, float64(i)+10)
	}
}

func TestPECVectorMirror(t *testing.T) {
	var (
		geo = grid.NewGeometry(grid.Dim1Z, [3]int{4, 0, 0},
			[3]float64{1, 0, 0}, [3]float64{0, 0, 0})
		bc = allPEC(1)
		NP = 2
	)
	bounds := geo.Domain.Grow(2, 1)
	newE := func() (E [3]*grid.Field) {
		// Yee staggering along z: tangential components nodal, Ez cell centered
		E[0] = grid.NewField(bounds, 1, grid.Staggering{grid.Node, grid.Cell, grid.Cell})
		E[1] = grid.NewField(bounds, 1, grid.Staggering{grid.Node, grid.Cell, grid.Cell})
		E[2] = grid.NewField(bounds, 1, grid.Staggering{grid.Cell, grid.Cell, grid.Cell})
		for comp := 0; comp < 3; comp++ {
			fill1D(E[comp])
		}
		return
	}
	{ // Tangential E on nodal boundary planes is zeroed, guards mirror with flip
		E := newE()
		ApplyPECToEField(geo, E, bc, NP)
		for _, comp := range []int{0, 1} {
			assert.Equal(t, 0., E[comp].At(0, 0, 0, 0))
			assert.Equal(t, 0., E[comp].At(4, 0, 0, 0))
			assert.Equal(t, -11., E[comp].At(-1, 0, 0, 0)) // mirror of node 1
			assert.Equal(t, -12., E[comp].At(-2, 0, 0, 0))
			assert.Equal(t, -13., E[comp].At(5, 0, 0, 0)) // mirror of node 3
			for i := 1; i <= 3; i++ {
				assert.Equal(t, float64(i)+10, E[comp].At(i, 0, 0, 0))
			}
		}
	}
	{ // Normal E is cell centered across z boundaries: mirrored without flip
		E := newE()
		ApplyPECToEField(geo, E, bc, NP)
		assert.Equal(t, 10., E[2].At(-1, 0, 0, 0)) // mirror of cell 0
		assert.Equal(t, 11., E[2].At(-2, 0, 0, 0))
		assert.Equal(t, 13., E[2].At(4, 0, 0, 0)) // mirror of cell 3
		assert.Equal(t, 12., E[2].At(5, 0, 0, 0))
	}
	{ // B flips the normal component: Bz zeroed on its nodal planes,
		// tangential Bx mirrored unchanged across the cell centered boundary
		var B [3]*grid.Field
		B[0] = grid.NewField(bounds, 1, grid.Staggering{grid.Cell, grid.Cell, grid.Cell})
		B[1] = grid.NewField(bounds, 1, grid.Staggering{grid.Cell, grid.Cell, grid.Cell})
		B[2] = grid.NewField(bounds, 1, grid.Staggering{grid.Node, grid.Cell, grid.Cell})
		for comp := 0; comp < 3; comp++ {
			fill1D(B[comp])
		}
		ApplyPECToBField(geo, B, bc, NP)
		assert.Equal(t, 0., B[2].At(0, 0, 0, 0))
		assert.Equal(t, 0., B[2].At(4, 0, 0, 0))
		assert.Equal(t, -11., B[2].At(-1, 0, 0, 0))
		assert.Equal(t, 10., B[0].At(-1, 0, 0, 0))
		assert.Equal(t, 13., B[0].At(4, 0, 0, 0))
	}
	{ // Applying the condition twice changes nothing
		E := newE()
		ApplyPECToEField(geo, E, bc, NP)
		ref := [3]*grid.Field{E[0].Copy(), E[1].Copy(), E[2].Copy()}
		ApplyPECToEField(geo, E, bc, NP)
		for comp := 0; comp < 3; comp++ {
			assert.Equal(t, 0., E[comp].MaxAbsDiff(ref[comp]))
		}
	}
	{ // Non-PEC boundaries leave the field untouched
		E := newE()
		ref := E[0].Copy()
		ApplyPECToEField(geo, E, BCSet{
			Lo: [3]utils.FieldBCType{utils.BCOpen},
			Hi: [3]utils.FieldBCType{utils.BCOpen},
		}, NP)
		assert.Equal(t, 0., E[0].MaxAbsDiff(ref))
	}
}

func TestPECCornerComposition(t *testing.T) {
	// Corner guards accumulate the mirror index and sign over both flagged
	// dimensions before the single write. PEC on x and y low sides only.
	var (
		geo = grid.NewGeometry(grid.Dim3, [3]int{2, 2, 2},
			[3]float64{1, 1, 1}, [3]float64{0, 0, 0})
		bc = BCSet{
			Lo: [3]utils.FieldBCType{utils.BCPEC, utils.BCPEC, utils.BCNone},
		}
	)
	f := grid.NewField(geo.Domain.Grow(2, 3), 1, grid.AllCell)
	for off := 0; off < f.Bounds.NumPts(); off++ {
		iv := f.Bounds.PointAt(off)
		f.Set(iv[0], iv[1], iv[2], 0, float64(100+off))
	}
	want := func(iv grid.IntVec) float64 { return f.At(iv[0], iv[1], iv[2], 0) }
	v000 := want(grid.IntVec{0, 0, 0})
	v010 := want(grid.IntVec{0, 1, 0})
	ApplyPECToEField(geo, [3]*grid.Field{f, f.Copy(), f.Copy()}, bc, 1)
	// Ex is normal to x (no flip) and tangential to y (flip): the corner
	// guard picks up one sign flip and mirrors both indices
	assert.Equal(t, -v000, f.At(-1, -1, 0, 0))
	assert.Equal(t, -v010, f.At(-1, -2, 0, 0))
	// Single-dimension guards for comparison
	assert.Equal(t, v000, f.At(-1, 0, 0, 0))
	assert.Equal(t, -v000, f.At(0, -1, 0, 0))
}

func TestPECRadialRescale(t *testing.T) {
	// The radial component at the outer radial boundary mirrors with the
	// extra rmirror/rguard factor so d(r Fr)/dr vanishes there. Tangential
	// components keep the plain sign flip.
	var (
		geo = grid.NewGeometry(grid.DimRZ, [3]int{4, 4, 0},
			[3]float64{0.5, 0.5, 0}, [3]float64{0, 0, 0})
		bc = BCSet{Hi: [3]utils.FieldBCType{utils.BCPEC}}
	)
	bounds := geo.Domain.Grow(2, 2)
	newF := func() *grid.Field {
		f := grid.NewField(bounds, 1, grid.AllCell)
		for off := 0; off < bounds.NumPts(); off++ {
			iv := bounds.PointAt(off)
			f.Set(iv[0], iv[1], iv[2], 0, float64(10+iv[0])+0.01*float64(iv[1]))
		}
		return f
	}
	{
		f := newF()
		vm := f.At(3, 1, 0, 0)
		SetEFieldOnPEC(geo.Dim, 0, geo.Domain.Lo, geo.Domain.Hi,
			grid.IntVec{4, 1, 0}, 0, f, bc)
		// comp 0 is normal to the radial boundary, no flip; guard cell 4
		// mirrors cell 3 with r ratio 3.5/4.5
		assert.InDelta(t, vm*3.5/4.5, f.At(4, 1, 0, 0), 1.e-14)
	}
	{
		f := newF()
		vm := f.At(3, 1, 0, 0)
		SetEFieldOnPEC(geo.Dim, 1, geo.Domain.Lo, geo.Domain.Hi,
			grid.IntVec{4, 1, 0}, 0, f, bc)
		// theta is tangential: plain flip, no radial factor
		assert.Equal(t, -vm, f.At(4, 1, 0, 0))
	}
}

func TestDensityMirror(t *testing.T) {
	var (
		geo = grid.NewGeometry(grid.Dim1Z, [3]int{4, 0, 0},
			[3]float64{1, 0, 0}, [3]float64{0, 0, 0})
		bc     = allPEC(1)
		bounds = geo.Domain.Grow(2, 1)
		NP     = 2
	)
	newRho := func() *grid.Field {
		rho := grid.NewField(bounds, 1, grid.AllCell)
		for i, v := range []float64{1, 2, 3, 4} {
			rho.Set(i, 0, 0, 0, v)
		}
		rho.Set(-1, 0, 0, 0, 0.5)
		rho.Set(-2, 0, 0, 0, 0.25)
		rho.Set(4, 0, 0, 0, 0.125)
		rho.Set(5, 0, 0, 0, 0.0625)
		return rho
	}
	reflecting := ParticleBCSet{
		Lo: [3]utils.ParticleBCType{utils.PBCReflecting},
		Hi: [3]utils.ParticleBCType{utils.PBCReflecting},
	}
	{ // Reflecting particles: guard charge folds back with its own sign,
		// cell centered mirror pairs (-1,0), (-2,1), (4,3), (5,2)
		rho := newRho()
		total := rho.Sum(bounds, 0)
		ApplyPECToRho(geo, rho, bc, reflecting, NP)
		assert.InDelta(t, 1.5, rho.At(0, 0, 0, 0), 1.e-14)
		assert.InDelta(t, 2.25, rho.At(1, 0, 0, 0), 1.e-14)
		assert.InDelta(t, 3.0625, rho.At(2, 0, 0, 0), 1.e-14)
		assert.InDelta(t, 4.125, rho.At(3, 0, 0, 0), 1.e-14)
		// Interior total matches the pre-fold allocated total exactly
		assert.InDelta(t, total, rho.Sum(geo.Domain, 0), 1.e-14)
		// Guards rebuilt as the unsigned image of their interior mirror
		assert.Equal(t, rho.At(0, 0, 0, 0), rho.At(-1, 0, 0, 0))
		assert.Equal(t, rho.At(1, 0, 0, 0), rho.At(-2, 0, 0, 0))
		assert.Equal(t, rho.At(3, 0, 0, 0), rho.At(4, 0, 0, 0))
		assert.Equal(t, rho.At(2, 0, 0, 0), rho.At(5, 0, 0, 0))
	}
	{ // Absorbing particles on a PEC wall: image charge folds with opposite sign
		rho := newRho()
		ApplyPECToRho(geo, rho, bc, ParticleBCSet{}, NP)
		assert.InDelta(t, 0.5, rho.At(0, 0, 0, 0), 1.e-14)
		assert.InDelta(t, 1.75, rho.At(1, 0, 0, 0), 1.e-14)
		assert.InDelta(t, 2.9375, rho.At(2, 0, 0, 0), 1.e-14)
		assert.InDelta(t, 3.875, rho.At(3, 0, 0, 0), 1.e-14)
	}
	{ // Nodal density zeroes the samples on the boundary planes
		rho := grid.NewField(bounds, 1, grid.AllNode)
		for i := -2; i <= 5; i++ {
			rho.Set(i, 0, 0, 0, float64(i)+10)
		}
		ApplyPECToRho(geo, rho, bc, reflecting, NP)
		assert.Equal(t, 0., rho.At(0, 0, 0, 0))
		assert.Equal(t, 0., rho.At(4, 0, 0, 0))
		// node 1 folded node -1, node 3 folded node 5
		assert.InDelta(t, 11.+9., rho.At(1, 0, 0, 0), 1.e-14)
		assert.InDelta(t, 13.+15., rho.At(3, 0, 0, 0), 1.e-14)
		assert.Equal(t, rho.At(1, 0, 0, 0), rho.At(-1, 0, 0, 0))
	}
	{ // Current folding: a reflected particle keeps its tangential velocity
		// and flips the normal one, so tangential guard current folds back
		// with +1 and normal current with -1. Guard images invert only the
		// tangential components.
		J := [3]*grid.Field{newRho(), newRho(), newRho()}
		ApplyPECToCurrent(geo, J, bc, reflecting, NP)
		assert.InDelta(t, 1.5, J[0].At(0, 0, 0, 0), 1.e-14)
		assert.Equal(t, -J[0].At(0, 0, 0, 0), J[0].At(-1, 0, 0, 0))
		assert.InDelta(t, 0.5, J[2].At(0, 0, 0, 0), 1.e-14)
		assert.Equal(t, J[2].At(0, 0, 0, 0), J[2].At(-1, 0, 0, 0))
		assert.Equal(t, J[2].At(3, 0, 0, 0), J[2].At(4, 0, 0, 0))
	}
}

func TestDensityCornerConservation(t *testing.T) {
	// Folding runs one dimension per phase so corner guard charge first
	// reflects in x onto the z guard line, then in z into the interior.
	// Every deposited sample must land in the interior exactly once.
	var (
		geo = grid.NewGeometry(grid.Dim2XZ, [3]int{4, 4, 0},
			[3]float64{1, 1, 0}, [3]float64{0, 0, 0})
		bc     = allPEC(2)
		bounds = geo.Domain.Grow(2, 2)
	)
	reflecting := ParticleBCSet{
		Lo: [3]utils.ParticleBCType{utils.PBCReflecting, utils.PBCReflecting, utils.PBCReflecting},
		Hi: [3]utils.ParticleBCType{utils.PBCReflecting, utils.PBCReflecting, utils.PBCReflecting},
	}
	{ // A single corner charge arrives in the diagonal interior cell
		rho := grid.NewField(bounds, 1, grid.AllCell)
		rho.Set(-1, -1, 0, 0, 1)
		ApplyPECToRho(geo, rho, bc, reflecting, 1)
		assert.InDelta(t, 1., rho.At(0, 0, 0, 0), 1.e-14)
		assert.InDelta(t, 1., rho.Sum(geo.Domain, 0), 1.e-14)
	}
	{ // Arbitrary deposition conserves the allocated total into the interior
		rho := grid.NewField(bounds, 1, grid.AllCell)
		for off := 0; off < bounds.NumPts(); off++ {
			iv := bounds.PointAt(off)
			rho.Set(iv[0], iv[1], iv[2], 0, 1+math.Sin(float64(off)))
		}
		total := rho.Sum(bounds, 0)
		ApplyPECToRho(geo, rho, bc, reflecting, 4)
		assert.InDelta(t, total, rho.Sum(geo.Domain, 0), 1.e-10)
	}
}

func TestNeumannOnPEC(t *testing.T) {
	var (
		geo = grid.NewGeometry(grid.Dim1Z, [3]int{4, 0, 0},
			[3]float64{1, 0, 0}, [3]float64{0, 0, 0})
		bc     = allPEC(1)
		bounds = geo.Domain.Grow(2, 1)
	)
	p := grid.NewField(bounds, 1, grid.AllNode)
	for i := -2; i <= 5; i++ {
		p.Set(i, 0, 0, 0, float64(i*i))
	}
	ApplyPECToPotential(geo, p, bc, 1)
	// Boundary nodes copy their first interior neighbor, guards the mirror
	assert.Equal(t, 1., p.At(0, 0, 0, 0))
	assert.Equal(t, 9., p.At(4, 0, 0, 0))
	assert.Equal(t, 1., p.At(-1, 0, 0, 0))
	assert.Equal(t, 4., p.At(-2, 0, 0, 0))
	assert.Equal(t, 9., p.At(5, 0, 0, 0))
}
