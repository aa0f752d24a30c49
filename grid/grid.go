package grid

// IntVec is an integer index triple (i,j,k). Inactive dimensions hold zero,
// matching the storage convention where a 2D field keeps z in j and a 1D
// field keeps z in i.
type IntVec [3]int

// Add returns iv with the given offsets added per dimension.
func (iv IntVec) Add(di, dj, dk int) IntVec {
	return IntVec{iv[0] + di, iv[1] + dj, iv[2] + dk}
}

// Box is an inclusive index range [Lo,Hi] in up to three dimensions.
type Box struct {
	Lo, Hi IntVec
}

// Contains reports whether iv lies inside the box, inclusive of both ends.
func (b Box) Contains(iv IntVec) bool {
	for d := 0; d < 3; d++ {
		if iv[d] < b.Lo[d] || iv[d] > b.Hi[d] {
			return false
		}
	}
	return true
}

// Size returns the number of points per dimension.
func (b Box) Size() IntVec {
	return IntVec{b.Hi[0] - b.Lo[0] + 1, b.Hi[1] - b.Lo[1] + 1, b.Hi[2] - b.Lo[2] + 1}
}

// NumPts returns the total number of points in the box.
func (b Box) NumPts() int {
	sz := b.Size()
	return sz[0] * sz[1] * sz[2]
}

// Grow expands the box by ng points on both sides of the first numDims
// dimensions.
func (b Box) Grow(ng, numDims int) Box {
	for d := 0; d < numDims; d++ {
		b.Lo[d] -= ng
		b.Hi[d] += ng
	}
	return b
}

// PointAt maps a flattened offset in [0,NumPts) to the index triple at that
// offset, i fastest.
func (b Box) PointAt(off int) IntVec {
	sz := b.Size()
	i := off % sz[0]
	j := (off / sz[0]) % sz[1]
	k := off / (sz[0] * sz[1])
	return IntVec{b.Lo[0] + i, b.Lo[1] + j, b.Lo[2] + k}
}

// IndexType is the per-dimension staggering of a field: cell-centered
// samples sit at half-integer coordinates, nodal samples on the integers.
type IndexType uint8

const (
	Cell IndexType = iota
	Node
)

func (it IndexType) String() string {
	if it == Node {
		return "Node"
	}
	return "Cell"
}

// Staggering is the index type for each of the three dimensions.
type Staggering [3]IndexType

// Nodal returns 1 if dimension d is node-centered, else 0. The integer form
// feeds directly into the mirror index arithmetic.
func (s Staggering) Nodal(d int) int {
	if s[d] == Node {
		return 1
	}
	return 0
}

// AllCell is the staggering of scalar densities such as rho.
var AllCell = Staggering{Cell, Cell, Cell}

// AllNode is the staggering of vertex-sampled scalars such as potentials.
var AllNode = Staggering{Node, Node, Node}
