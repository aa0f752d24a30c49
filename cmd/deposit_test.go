package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/gopic/InputParameters"
)

func TestRunDeposit(t *testing.T) {
	var (
		err error
	)
	fileInput := []byte(`
Title: Test Case
Geometry: XZ
Cells: [16, 16, 0]
GuardCells: 2
CellSize: [0.5, 0.5, 0]
DepositionOrder: 2
NumParticles: 2000
SpeciesCharge: -1.
Parallelism: 2
FieldBCs:
  xlo: PEC
  xhi: PEC
  zlo: PEC
  zhi: PEC
ParticleBCs:
  xlo: Reflecting
  xhi: Reflecting
  zlo: Reflecting
  zhi: Reflecting
`)
	var input InputParameters.InputParameters
	if err = input.Parse(fileInput); err != nil {
		panic(err)
	}
	assert.Equal(t, 2, input.DepositionOrder)
	assert.Equal(t, 2000, input.NumParticles)
	input.Print()
	RunDeposit(&DepositRun{}, &input)

	// The shared-tile strategy runs the same cycle
	input.SharedDeposition = true
	input.TileSize = [3]int{4, 4, 1}
	input.SharedBudget = 48 * 1024
	RunDeposit(&DepositRun{}, &input)
}
