package deposition

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/gopic/grid"
)

func randomCloud(geo grid.Geometry, n int) (pos [][3]float64, wp, v []float64) {
	pos = make([][3]float64, n)
	wp = make([]float64, n)
	v = make([]float64, n)
	ext := func(d int) float64 {
		return geo.CellSize[d] * float64(geo.Domain.Hi[d]-geo.Domain.Lo[d]+1)
	}
	for ip := 0; ip < n; ip++ {
		switch geo.Dim {
		case grid.Dim1Z:
			pos[ip][2] = geo.ProbLo[0] + ext(0)*rand.Float64()
		case grid.Dim2XZ:
			pos[ip][0] = geo.ProbLo[0] + ext(0)*rand.Float64()
			pos[ip][2] = geo.ProbLo[1] + ext(1)*rand.Float64()
		case grid.DimRZ:
			r := ext(0) * rand.Float64()
			th := 2 * math.Pi * rand.Float64()
			pos[ip][0] = r * math.Cos(th)
			pos[ip][1] = r * math.Sin(th)
			pos[ip][2] = geo.ProbLo[1] + ext(1)*rand.Float64()
		default:
			for d := 0; d < 3; d++ {
				pos[ip][d] = geo.ProbLo[d] + ext(d)*rand.Float64()
			}
		}
		wp[ip] = rand.Float64()
		v[ip] = 2*rand.Float64() - 1
	}
	return
}

func TestSharedDepositor(t *testing.T) {
	budget := 64 << 10
	{ // Staged tile deposition matches the plain path at every order, 2D
		geo := grid.NewGeometry(grid.Dim2XZ, [3]int{16, 16, 0},
			[3]float64{0.5, 0.5, 0}, [3]float64{-4, -4, 0})
		pos, wp, _ := randomCloud(geo, 500)
		for order := 0; order <= MaxOrder; order++ {
			var (
				ref    = grid.NewField(geo.Domain.Grow(3, 2), 1, grid.AllCell)
				staged = grid.NewField(geo.Domain.Grow(3, 2), 1, grid.AllCell)
			)
			NewPlainDepositor(order, 1, 4).
				DepositCharge(posList(pos), wp, nil, ref, geo, -1)
			sd, err := NewSharedDepositor(geo, order, 1, 4,
				grid.IntVec{4, 4, 1}, budget)
			assert.NoError(t, err)
			sd.DepositCharge(posList(pos), wp, nil, staged, geo, -1)
			assert.True(t, ref.MaxAbsDiff(staged) < 1.e-12)
		}
	}
	{ // 3D with a tile extent that does not divide the domain evenly
		geo := grid.NewGeometry(grid.Dim3, [3]int{10, 10, 10},
			[3]float64{1, 1, 1}, [3]float64{0, 0, 0})
		pos, wp, v := randomCloud(geo, 400)
		var (
			ref    = grid.NewField(geo.Domain.Grow(2, 3), 1, grid.AllCell)
			staged = grid.NewField(geo.Domain.Grow(2, 3), 1, grid.AllCell)
		)
		NewPlainDepositor(2, 1, 4).
			DepositCurrent(posList(pos), wp, v, nil, ref, geo, 1)
		sd, err := NewSharedDepositor(geo, 2, 1, 4,
			grid.IntVec{4, 4, 4}, budget)
		assert.NoError(t, err)
		sd.DepositCurrent(posList(pos), wp, v, nil, staged, geo, 1)
		assert.True(t, ref.MaxAbsDiff(staged) < 1.e-12)
	}
	{ // One depositor serves all the Yee-staggered current components: the
		// tile scratch must hold the extra nodal point in every dimension no
		// matter which component comes through
		geo := grid.NewGeometry(grid.Dim3, [3]int{12, 12, 12},
			[3]float64{1, 1, 1}, [3]float64{0, 0, 0})
		pos, wp, v := randomCloud(geo, 300)
		sd, err := NewSharedDepositor(geo, 2, 1, 4,
			grid.IntVec{4, 4, 4}, budget)
		assert.NoError(t, err)
		for comp := 0; comp < 3; comp++ {
			stag := grid.AllNode
			stag[comp] = grid.Cell
			var (
				ref    = grid.NewField(geo.Domain.Grow(2, 3), 1, stag)
				staged = grid.NewField(geo.Domain.Grow(2, 3), 1, stag)
			)
			NewPlainDepositor(2, 1, 4).
				DepositCurrent(posList(pos), wp, v, nil, ref, geo, -1)
			sd.DepositCurrent(posList(pos), wp, v, nil, staged, geo, -1)
			assert.True(t, ref.MaxAbsDiff(staged) < 1.e-12)
		}
	}
	{ // RZ with azimuthal modes, nodal staggering
		geo := grid.NewGeometry(grid.DimRZ, [3]int{12, 12, 0},
			[3]float64{0.5, 0.5, 0}, [3]float64{0, 0, 0})
		pos, wp, _ := randomCloud(geo, 300)
		var (
			ref    = grid.NewField(geo.Domain.Grow(2, 2), 5, grid.AllNode)
			staged = grid.NewField(geo.Domain.Grow(2, 2), 5, grid.AllNode)
		)
		NewPlainDepositor(1, 3, 4).
			DepositCharge(posList(pos), wp, nil, ref, geo, 1)
		sd, err := NewSharedDepositor(geo, 1, 3, 4,
			grid.IntVec{4, 4, 1}, budget)
		assert.NoError(t, err)
		sd.DepositCharge(posList(pos), wp, nil, staged, geo, 1)
		assert.True(t, ref.MaxAbsDiff(staged) < 1.e-12)
	}
}

func TestSharedDepositorValidation(t *testing.T) {
	geo := grid.NewGeometry(grid.Dim3, [3]int{32, 32, 32},
		[3]float64{1, 1, 1}, [3]float64{0, 0, 0})
	{ // Scratch footprint over the fast-memory budget is rejected at setup
		_, err := NewSharedDepositor(geo, 3, 1, 4,
			grid.IntVec{16, 16, 16}, 4<<10)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "tile size too big for shared memory deposition")
	}
	{ // A footprint just inside the budget is accepted: order 1, tile 4
		// needs 4+1+2 points per dimension
		sd, err := NewSharedDepositor(geo, 1, 1, 4,
			grid.IntVec{4, 4, 4}, 8*7*7*7)
		assert.NoError(t, err)
		assert.NotNil(t, sd)
		_, err = NewSharedDepositor(geo, 1, 1, 4,
			grid.IntVec{4, 4, 4}, 8*7*7*7-1)
		assert.Error(t, err)
	}
	{ // Bad order and degenerate tiles are configuration errors
		_, err := NewSharedDepositor(geo, 4, 1, 4,
			grid.IntVec{4, 4, 4}, 64<<10)
		assert.Error(t, err)
		_, err = NewSharedDepositor(geo, 1, 1, 4,
			grid.IntVec{4, 0, 4}, 64<<10)
		assert.Error(t, err)
	}
}
