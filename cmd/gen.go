package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cachesim/cachesim/sim"
	"github.com/cachesim/cachesim/sim/trace"
	"github.com/cachesim/cachesim/sim/workload"
)

var (
	genPattern       string  // Address stream shape
	genAccesses      int     // Number of accesses to generate
	genFootprint     string  // Address-space footprint (size string)
	genStride        uint64  // Stride between consecutive accesses
	genWriteFraction float64 // Fraction of accesses that are writes
	genSeed          int64   // Seed for deterministic generation
	genOutPath       string  // Output trace file
)

// genCmd writes a deterministic synthetic trace to a file
var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate a synthetic memory trace",
	Run: func(cmd *cobra.Command, args []string) {
		var footprint uint64
		if genFootprint != "" {
			var err error
			footprint, err = sim.ParseSize(genFootprint)
			if err != nil {
				logrus.Fatalf("Bad footprint: %v", err)
			}
		}
		spec := &workload.Spec{
			Pattern:       workload.Pattern(genPattern),
			Accesses:      genAccesses,
			Footprint:     footprint,
			Stride:        genStride,
			WriteFraction: genWriteFraction,
			Seed:          genSeed,
		}
		accesses, err := workload.Generate(spec)
		if err != nil {
			logrus.Fatalf("Generation failed: %v", err)
		}
		if err := trace.WriteFile(genOutPath, accesses); err != nil {
			logrus.Fatalf("Unable to write trace: %v", err)
		}
		logrus.Infof("Wrote %d accesses to %s", len(accesses), genOutPath)
	},
}

func init() {
	genCmd.Flags().StringVar(&genPattern, "pattern", "sequential", "Access pattern (sequential, strided, random, looping)")
	genCmd.Flags().IntVar(&genAccesses, "accesses", 10000, "Number of accesses to generate")
	genCmd.Flags().StringVar(&genFootprint, "footprint", "1MB", "Address-space footprint (random/looping patterns)")
	genCmd.Flags().Uint64Var(&genStride, "stride", 8, "Bytes between consecutive accesses")
	genCmd.Flags().Float64Var(&genWriteFraction, "write-fraction", 0.0, "Fraction of accesses that are writes")
	genCmd.Flags().Int64Var(&genSeed, "seed", 42, "Seed for deterministic generation")
	genCmd.Flags().StringVar(&genOutPath, "out", "trace.txt", "Output trace file path")

	rootCmd.AddCommand(genCmd)
}
