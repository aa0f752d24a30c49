package InputParameters

import (
	"fmt"
	"sort"

	"github.com/ghodss/yaml"

	"github.com/notargets/gopic/grid"
	"github.com/notargets/gopic/utils"
)

// Parameters obtained from the YAML input file
type InputParameters struct {
	Title            string     `yaml:"Title"`
	Geometry         string     `yaml:"Geometry"` // "1Z", "XZ", "RZ", "3D"
	Cells            [3]int     `yaml:"Cells"`
	GuardCells       int        `yaml:"GuardCells"`
	CellSize         [3]float64 `yaml:"CellSize"`
	Origin           [3]float64 `yaml:"Origin"`
	DepositionOrder  int        `yaml:"DepositionOrder"`
	AzimuthalModes   int        `yaml:"AzimuthalModes"`
	NumParticles     int        `yaml:"NumParticles"`
	Seed             int64      `yaml:"Seed"`
	SpeciesCharge    float64    `yaml:"SpeciesCharge"`
	SharedDeposition bool       `yaml:"SharedDeposition"`
	TileSize         [3]int     `yaml:"TileSize"`
	SharedBudget     int        `yaml:"SharedBudget"` // bytes
	Parallelism      int        `yaml:"Parallelism"`
	// First key is side+dimension, e.g. "xlo", "zhi" ("rhi" in RZ)
	FieldBCs    map[string]string `yaml:"FieldBCs"`
	ParticleBCs map[string]string `yaml:"ParticleBCs"`
}

func (ip *InputParameters) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, ip); err != nil {
		return err
	}
	return ip.Validate()
}

// Validate rejects configurations the kernels treat as undefined behavior:
// guard depth below the shape order, unknown geometry names, out of range
// deposition order.
func (ip *InputParameters) Validate() error {
	if _, err := ip.Dimensionality(); err != nil {
		return err
	}
	if ip.DepositionOrder < 0 || ip.DepositionOrder > 3 {
		return fmt.Errorf("DepositionOrder %d out of range [0,3]", ip.DepositionOrder)
	}
	if ip.GuardCells < ip.DepositionOrder {
		return fmt.Errorf("GuardCells (%d) must be at least DepositionOrder (%d)",
			ip.GuardCells, ip.DepositionOrder)
	}
	if ip.AzimuthalModes < 1 {
		ip.AzimuthalModes = 1
	}
	if ip.Parallelism < 1 {
		ip.Parallelism = 1
	}
	return nil
}

func (ip *InputParameters) Dimensionality() (grid.Dimensionality, error) {
	switch ip.Geometry {
	case "1Z", "1D", "Z":
		return grid.Dim1Z, nil
	case "XZ", "2D":
		return grid.Dim2XZ, nil
	case "RZ":
		return grid.DimRZ, nil
	case "3D", "XYZ", "":
		return grid.Dim3, nil
	}
	return grid.Dim3, fmt.Errorf("unknown Geometry %q (want 1Z, XZ, RZ or 3D)", ip.Geometry)
}

var sideKeys = [4][2]string{
	{"xlo", "xhi"}, {"ylo", "yhi"}, {"zlo", "zhi"}, {"rlo", "rhi"},
}

// bcKey names the boundary on side s of active dimension d for the
// configured geometry, so RZ files say "rlo"/"rhi" and 1D files just
// "zlo"/"zhi".
func bcKey(dim grid.Dimensionality, d, s int) string {
	switch dim {
	case grid.Dim1Z:
		return sideKeys[2][s]
	case grid.Dim2XZ:
		return sideKeys[2*d][s]
	case grid.DimRZ:
		if d == 0 {
			return sideKeys[3][s]
		}
		return sideKeys[2][s]
	}
	return sideKeys[d][s]
}

// FieldBCTypes resolves the named field boundary conditions into per
// dimension/side tables. Unnamed sides default to Open.
func (ip *InputParameters) FieldBCTypes() (lo, hi [3]utils.FieldBCType) {
	dim, _ := ip.Dimensionality()
	for d := 0; d < dim.NumDims(); d++ {
		lo[d] = utils.ParseFieldBCName(ip.FieldBCs[bcKey(dim, d, 0)])
		hi[d] = utils.ParseFieldBCName(ip.FieldBCs[bcKey(dim, d, 1)])
	}
	return
}

// ParticleBCTypes resolves the named particle boundary conditions.
// Unnamed sides default to Absorbing.
func (ip *InputParameters) ParticleBCTypes() (lo, hi [3]utils.ParticleBCType) {
	dim, _ := ip.Dimensionality()
	for d := 0; d < dim.NumDims(); d++ {
		lo[d] = utils.ParseParticleBCName(ip.ParticleBCs[bcKey(dim, d, 0)])
		hi[d] = utils.ParseParticleBCName(ip.ParticleBCs[bcKey(dim, d, 1)])
	}
	return
}

func (ip *InputParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%s]\t\t\t= Geometry\n", ip.Geometry)
	fmt.Printf("%v\t= Cells\n", ip.Cells)
	fmt.Printf("[%d]\t\t\t\t= Guard Cells\n", ip.GuardCells)
	fmt.Printf("[%d]\t\t\t\t= Deposition Order\n", ip.DepositionOrder)
	fmt.Printf("[%d]\t\t\t\t= Azimuthal Modes\n", ip.AzimuthalModes)
	fmt.Printf("[%d]\t\t= Particles\n", ip.NumParticles)
	fmt.Printf("[%v]\t\t= Shared Deposition\n", ip.SharedDeposition)
	keys := make([]string, 0, len(ip.FieldBCs))
	for k := range ip.FieldBCs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("FieldBCs[%s] = %v\n", key, utils.ParseFieldBCName(ip.FieldBCs[key]))
	}
	keys = keys[:0]
	for k := range ip.ParticleBCs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("ParticleBCs[%s] = %v\n", key, utils.ParseParticleBCName(ip.ParticleBCs[key]))
	}
}
