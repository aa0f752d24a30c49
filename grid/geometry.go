package grid

// Dimensionality selects which simulation geometry the kernels run in. The
// choice fixes how the three field components map onto the active boundary
// planes, so the tangential/normal classification lives here rather than in
// the kernels.
type Dimensionality uint8

const (
	Dim1Z  Dimensionality = iota // z only
	Dim2XZ                       // x and z
	DimRZ                        // cylindrical r and z
	Dim3                         // full Cartesian
)

var dimNames = []string{"1D-Z", "2D-XZ", "2D-RZ", "3D"}

func (dim Dimensionality) String() string {
	return dimNames[dim]
}

// NumDims is the number of active spatial dimensions (and boundary planes).
func (dim Dimensionality) NumDims() int {
	switch dim {
	case Dim1Z:
		return 1
	case Dim2XZ, DimRZ:
		return 2
	default:
		return 3
	}
}

// RZ reports whether the cylindrical corrections (radial rescale, azimuthal
// modes) apply.
func (dim Dimensionality) RZ() bool {
	return dim == DimRZ
}

// Tangential reports whether field component comp lies tangential to the
// boundary plane normal to dimension d.
//
// In 3D component c is normal to boundary c and tangential to the others.
// In 2D (XZ or RZ) the active dimensions are (x,z) or (r,z) while the
// component index still runs over three directions, so comp 1 (y or theta)
// is tangential to both boundaries. In 1D only z boundaries exist and only
// comp 2 is normal to them.
func (dim Dimensionality) Tangential(comp, d int) bool {
	switch dim {
	case Dim2XZ, DimRZ:
		return comp != 2*d
	case Dim1Z:
		return comp != d+2
	default:
		return comp != d
	}
}

// Normal is the complement of Tangential for the same component mapping.
func (dim Dimensionality) Normal(comp, d int) bool {
	return !dim.Tangential(comp, d)
}

// Geometry carries the per-patch mesh metadata the kernels need: physical
// cell size and origin plus the valid (interior) index range. Guard cells
// lie outside Domain but inside each field's allocated bounds.
type Geometry struct {
	Dim      Dimensionality
	CellSize [3]float64
	ProbLo   [3]float64 // physical coordinate of index Domain.Lo
	Domain   Box        // cell-centered interior bounds
}

// NewGeometry builds a patch geometry with the valid region indexed from
// zero. Inactive dimensions collapse to a single cell of unit size.
func NewGeometry(dim Dimensionality, cells [3]int, cellSize, origin [3]float64) (g Geometry) {
	g = Geometry{Dim: dim}
	for d := 0; d < 3; d++ {
		g.CellSize[d] = 1
		g.Domain.Hi[d] = 0
	}
	for d := 0; d < dim.NumDims(); d++ {
		g.CellSize[d] = cellSize[d]
		g.ProbLo[d] = origin[d]
		g.Domain.Hi[d] = cells[d] - 1
	}
	return
}

// InvVol is the inverse cell volume over the active dimensions, used to
// normalize deposited charge.
func (g Geometry) InvVol() float64 {
	v := 1.0
	for d := 0; d < g.Dim.NumDims(); d++ {
		v *= g.CellSize[d]
	}
	return 1.0 / v
}
