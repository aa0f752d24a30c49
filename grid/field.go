package grid

import (
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/gopic/utils"
)

// Field is a dense multi-component scalar sample array over an allocated
// index box that includes the guard (halo) region. Component n varies
// slowest, then k, j, i.
type Field struct {
	Bounds Box // allocated extent, guard cells included
	NComp  int
	Stag   Staggering
	Data   []float64
	size   IntVec
}

func NewField(bounds Box, nComp int, stag Staggering) (f *Field) {
	f = &Field{
		Bounds: bounds,
		NComp:  nComp,
		Stag:   stag,
		size:   bounds.Size(),
	}
	f.Data = make([]float64, bounds.NumPts()*nComp)
	return
}

func (f *Field) offset(i, j, k, n int) int {
	return ((n*f.size[2]+(k-f.Bounds.Lo[2]))*f.size[1]+(j-f.Bounds.Lo[1]))*f.size[0] +
		(i - f.Bounds.Lo[0])
}

func (f *Field) At(i, j, k, n int) float64 {
	return f.Data[f.offset(i, j, k, n)]
}

func (f *Field) Set(i, j, k, n int, val float64) {
	f.Data[f.offset(i, j, k, n)] = val
}

func (f *Field) Add(i, j, k, n int, val float64) {
	f.Data[f.offset(i, j, k, n)] += val
}

// AddAtomic accumulates val into the sample race-free. Concurrent particle
// scatter into aliased cells must come through here.
func (f *Field) AddAtomic(i, j, k, n int, val float64) {
	utils.AtomicAddFloat64(&f.Data[f.offset(i, j, k, n)], val)
}

// Zero clears every sample including the guard region.
func (f *Field) Zero() {
	for i := range f.Data {
		f.Data[i] = 0
	}
}

// Copy returns a deep copy sharing no storage with f.
func (f *Field) Copy() (r *Field) {
	r = NewField(f.Bounds, f.NComp, f.Stag)
	copy(r.Data, f.Data)
	return
}

// Sum totals component n over the intersection of box b with the allocated
// extent, row by row.
func (f *Field) Sum(b Box, n int) (total float64) {
	lo, hi := b.Lo, b.Hi
	for d := 0; d < 3; d++ {
		if lo[d] < f.Bounds.Lo[d] {
			lo[d] = f.Bounds.Lo[d]
		}
		if hi[d] > f.Bounds.Hi[d] {
			hi[d] = f.Bounds.Hi[d]
		}
	}
	for k := lo[2]; k <= hi[2]; k++ {
		for j := lo[1]; j <= hi[1]; j++ {
			o := f.offset(lo[0], j, k, n)
			total += floats.Sum(f.Data[o : o+hi[0]-lo[0]+1])
		}
	}
	return
}

// MaxAbsDiff returns the largest absolute sample difference between two
// fields of identical shape.
func (f *Field) MaxAbsDiff(o *Field) (m float64) {
	for i := range f.Data {
		d := f.Data[i] - o.Data[i]
		if d < 0 {
			d = -d
		}
		if d > m {
			m = d
		}
	}
	return
}
