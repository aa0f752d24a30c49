/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/notargets/gopic/InputParameters"
	"github.com/notargets/gopic/boundary"
	"github.com/notargets/gopic/deposition"
	"github.com/notargets/gopic/grid"
	"github.com/notargets/gopic/pic"
	"github.com/notargets/gopic/utils"
)

type DepositRun struct {
	InputFile string
	Particles int
	Shared    bool
	Perf      bool
}

// depositCmd represents the deposit command
var depositCmd = &cobra.Command{
	Use:   "deposit",
	Short: "Deposit particles onto a patch and apply PEC boundaries",
	Long: `
Runs one charge/current deposition cycle: scatter a particle population
into the grown density arrays, fold the guard-region charge back through
the PEC image-charge scheme and mirror the field arrays, then report
charge conservation and per-work-group timing`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
			dr  = &DepositRun{}
		)
		if dr.InputFile, err = cmd.Flags().GetString("inputFile"); err != nil {
			panic(err)
		}
		dr.Particles, _ = cmd.Flags().GetInt("particles")
		dr.Shared, _ = cmd.Flags().GetBool("shared")
		dr.Perf, _ = cmd.Flags().GetBool("perf")
		if cpu, _ := cmd.Flags().GetBool("cpuprofile"); cpu {
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
		} else if mem, _ := cmd.Flags().GetBool("memprofile"); mem {
			defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
		}
		ip := processDepositInput(dr)
		RunDeposit(dr, ip)
	},
}

func processDepositInput(dr *DepositRun) (ip *InputParameters.InputParameters) {
	ip = &InputParameters.InputParameters{
		Title:           "default",
		Geometry:        "3D",
		Cells:           [3]int{32, 32, 32},
		GuardCells:      2,
		CellSize:        [3]float64{1, 1, 1},
		DepositionOrder: 1,
		AzimuthalModes:  1,
		NumParticles:    100000,
		SpeciesCharge:   1,
		TileSize:        [3]int{8, 8, 8},
		SharedBudget:    48 * 1024,
		Parallelism:     runtime.NumCPU(),
		FieldBCs: map[string]string{
			"xlo": "pec", "xhi": "pec",
			"ylo": "pec", "yhi": "pec",
			"zlo": "pec", "zhi": "pec",
		},
		ParticleBCs: map[string]string{
			"xlo": "reflecting", "xhi": "reflecting",
			"ylo": "reflecting", "yhi": "reflecting",
			"zlo": "reflecting", "zhi": "reflecting",
		},
	}
	if len(dr.InputFile) != 0 {
		data, err := os.ReadFile(dr.InputFile)
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		if err = ip.Parse(data); err != nil {
			fmt.Printf("error parsing input parameters: %s\n", err.Error())
			os.Exit(1)
		}
	}
	if dr.Particles > 0 {
		ip.NumParticles = dr.Particles
	}
	if dr.Shared {
		ip.SharedDeposition = true
	}
	ip.Print()
	return
}

func RunDeposit(dr *DepositRun, ip *InputParameters.InputParameters) {
	dim, err := ip.Dimensionality()
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	var (
		geo = grid.NewGeometry(dim, ip.Cells, ip.CellSize, ip.Origin)
		bc  = boundary.BCSet{}
		pbc = boundary.ParticleBCSet{}
		NP  = ip.Parallelism
	)
	bc.Lo, bc.Hi = ip.FieldBCTypes()
	pbc.Lo, pbc.Hi = ip.ParticleBCTypes()

	patch := pic.NewPatch(geo, bc, pbc, ip.GuardCells, ip.AzimuthalModes)
	pop := pic.NewUniformPopulation(geo, ip.NumParticles, ip.SpeciesCharge, ip.Seed)

	cost := deposition.NewCost(NP)
	var dep deposition.Depositor
	if ip.SharedDeposition {
		sd, err := deposition.NewSharedDepositor(geo,
			ip.DepositionOrder, ip.AzimuthalModes, NP,
			grid.IntVec(ip.TileSize), ip.SharedBudget)
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		sd.Cost = cost
		dep = sd
	} else {
		pd := deposition.NewPlainDepositor(ip.DepositionOrder, ip.AzimuthalModes, NP)
		pd.Cost = cost
		dep = pd
	}

	run := func() {
		patch.Rho.Zero()
		for c := 0; c < 3; c++ {
			patch.J[c].Zero()
		}
		patch.DepositCharge(dep, pop, NP)
		patch.DepositCurrent(dep, pop, NP)
		patch.MirrorFields(NP)
	}

	start := time.Now()
	run()
	elapsed := time.Since(start)

	deposited := 0.0
	for ipNum := range pop.Weight {
		deposited += pop.Charge * pop.Weight[ipNum]
	}
	fmt.Printf("Elapsed = %v, Particles = %d, Order = %d\n",
		elapsed, ip.NumParticles, ip.DepositionOrder)
	fmt.Printf("Deposited charge = %12.8f, Domain charge after mirroring = %12.8f\n",
		deposited, patch.TotalCharge())
	fmt.Printf("Work group cost total = %8.6f s over %d groups\n",
		cost.Total(), NP)
	fmt.Printf("%s\n", utils.GetMemUsage())
	utils.IsNanPanic(patch.Rho.Data)

	if dr.Perf {
		kc, err := utils.MeasureKernel(run)
		if err != nil {
			fmt.Printf("perf: %s\n", err.Error())
			return
		}
		fmt.Printf("Hardware counters: %s\n", kc)
	}
}

func init() {
	rootCmd.AddCommand(depositCmd)
	depositCmd.Flags().StringP("inputFile", "I", "", "YAML input parameters file")
	depositCmd.Flags().IntP("particles", "n", 0, "override particle count")
	depositCmd.Flags().Bool("shared", false, "use the shared-tile deposition strategy")
	depositCmd.Flags().Bool("perf", false, "report hardware performance counters")
}
