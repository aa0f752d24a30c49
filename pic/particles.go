package pic

import (
	"math"
	"math/rand"

	"github.com/notargets/gopic/grid"
)

// Population is a read-only particle set for deposition: positions,
// weights, optional per-particle ionization levels and the shared species
// charge. Deposition never mutates it.
type Population struct {
	Pos    [][3]float64
	Weight []float64
	Vel    [3][]float64
	IonLev []int // nil means ionization level 1 for every particle
	Charge float64
}

// Position implements deposition.PositionFunc.
func (pop *Population) Position(ip int) (xp, yp, zp float64) {
	return pop.Pos[ip][0], pop.Pos[ip][1], pop.Pos[ip][2]
}

// NewUniformPopulation fills the physical domain with n uniformly
// distributed particles of unit weight, zero velocity and the given
// species charge. The seed fixes the draw for reproducible runs.
func NewUniformPopulation(geo grid.Geometry, n int, charge float64, seed int64) *Population {
	var (
		rng = rand.New(rand.NewSource(seed))
		nd  = geo.Dim.NumDims()
		ext [3]float64
	)
	sz := geo.Domain.Size()
	for d := 0; d < nd; d++ {
		ext[d] = float64(sz[d]) * geo.CellSize[d]
	}
	pop := &Population{
		Pos:    make([][3]float64, n),
		Weight: make([]float64, n),
		Charge: charge,
	}
	for c := 0; c < 3; c++ {
		pop.Vel[c] = make([]float64, n)
	}
	for ip := 0; ip < n; ip++ {
		var p [3]float64
		switch geo.Dim {
		case grid.Dim1Z:
			p[2] = geo.ProbLo[0] + rng.Float64()*ext[0]
		case grid.Dim2XZ:
			p[0] = geo.ProbLo[0] + rng.Float64()*ext[0]
			p[2] = geo.ProbLo[1] + rng.Float64()*ext[1]
		case grid.DimRZ:
			r := geo.ProbLo[0] + rng.Float64()*ext[0]
			theta := 2 * math.Pi * rng.Float64()
			p[0], p[1] = r*math.Cos(theta), r*math.Sin(theta)
			p[2] = geo.ProbLo[1] + rng.Float64()*ext[1]
		default:
			for d := 0; d < 3; d++ {
				p[d] = geo.ProbLo[d] + rng.Float64()*ext[d]
			}
		}
		pop.Pos[ip] = p
		pop.Weight[ip] = 1
	}
	return pop
}
