package utils

import "strings"

// FieldBCType represents the boundary condition applied to field quantities
// on one side of one dimension of the simulation domain
type FieldBCType uint16

const (
	// BCNone indicates no boundary condition (interior or partition face)
	BCNone FieldBCType = iota

	BCPEC                    // Perfect electric conductor, mirror/image enforcement
	BCPMC                    // Perfect magnetic conductor (symmetry)
	BCPeriodic               // Periodic wrap
	BCOpen                   // Open boundary (field solver handles truncation)
	BCDamped                 // Damped layer
	BCPML                    // Perfectly matched layer
	BCAbsorbingSilverMueller // First-order absorbing
	BCNeumann                // Zero normal derivative

	// Parallel/domain decomposition
	BCPartitionBoundary
)

// String returns the string representation of a FieldBCType
func (bc FieldBCType) String() string {
	names := map[FieldBCType]string{
		BCNone:                   "None",
		BCPEC:                    "PEC",
		BCPMC:                    "PMC",
		BCPeriodic:               "Periodic",
		BCOpen:                   "Open",
		BCDamped:                 "Damped",
		BCPML:                    "PML",
		BCAbsorbingSilverMueller: "AbsorbingSilverMueller",
		BCNeumann:                "Neumann",
		BCPartitionBoundary:      "PartitionBoundary",
	}
	if name, ok := names[bc]; ok {
		return name
	}
	return "Unknown"
}

// FieldBCNameMap provides a mapping from common boundary condition names to
// FieldBCType. Keys are lowercase for case-insensitive matching
var FieldBCNameMap = map[string]FieldBCType{
	"none":                     BCNone,
	"pec":                      BCPEC,
	"conductor":                BCPEC,
	"perfect_conductor":        BCPEC,
	"pmc":                      BCPMC,
	"periodic":                 BCPeriodic,
	"open":                     BCOpen,
	"damped":                   BCDamped,
	"pml":                      BCPML,
	"absorbing_silver_mueller": BCAbsorbingSilverMueller,
	"silver_mueller":           BCAbsorbingSilverMueller,
	"neumann":                  BCNeumann,
}

// ParseFieldBCName converts a boundary condition name string to FieldBCType.
// The matching is case-insensitive and trims whitespace
func ParseFieldBCName(name string) FieldBCType {
	lowerName := strings.ToLower(strings.TrimSpace(name))
	if bcType, ok := FieldBCNameMap[lowerName]; ok {
		return bcType
	}
	// Default to open for unknown types
	return BCOpen
}

// ParticleBCType classifies what happens to particles crossing a domain
// boundary. The density mirroring kernels only distinguish reflecting from
// the rest: reflecting boundaries fold deposited charge back with its own
// sign, anything else paired with a PEC field boundary produces an image
// charge of opposite sign
type ParticleBCType uint16

const (
	PBCAbsorbing ParticleBCType = iota
	PBCOpen
	PBCReflecting
	PBCPeriodic
	PBCThermal
)

// String returns the string representation of a ParticleBCType
func (bc ParticleBCType) String() string {
	names := map[ParticleBCType]string{
		PBCAbsorbing:  "Absorbing",
		PBCOpen:       "Open",
		PBCReflecting: "Reflecting",
		PBCPeriodic:   "Periodic",
		PBCThermal:    "Thermal",
	}
	if name, ok := names[bc]; ok {
		return name
	}
	return "Unknown"
}

// ParticleBCNameMap maps common particle boundary names to ParticleBCType.
// Keys are lowercase for case-insensitive matching
var ParticleBCNameMap = map[string]ParticleBCType{
	"absorbing":  PBCAbsorbing,
	"open":       PBCOpen,
	"reflecting": PBCReflecting,
	"reflect":    PBCReflecting,
	"periodic":   PBCPeriodic,
	"thermal":    PBCThermal,
}

// ParseParticleBCName converts a particle boundary name to ParticleBCType
func ParseParticleBCName(name string) ParticleBCType {
	lowerName := strings.ToLower(strings.TrimSpace(name))
	if bcType, ok := ParticleBCNameMap[lowerName]; ok {
		return bcType
	}
	return PBCAbsorbing
}
