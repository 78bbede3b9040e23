package cmd

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cachesim/cachesim/sim"
	"github.com/cachesim/cachesim/sim/trace"
	"github.com/cachesim/cachesim/sim/workload"
)

var (
	// CLI flags for the cache configuration
	cacheSize     string // Overall cache capacity, e.g. 128KB
	blockSize     string // Bytes per cache line, e.g. 8B
	associativity uint64 // Lines per set; 1 = direct-mapped
	writePolicy   string // write-through or write-back
	wayPrediction bool   // Enable MRU way prediction

	// CLI flags for the input trace
	tracePath    string // Path to a text trace file
	workloadPath string // Path to a synthetic workload spec (YAML)

	summaryPath string // Optional YAML summary output path
)

// cacheConfigFromFlags converts the flag values into a validated sim.Config.
func cacheConfigFromFlags() (sim.Config, error) {
	totalSize, err := sim.ParseSize(cacheSize)
	if err != nil {
		return sim.Config{}, err
	}
	block, err := sim.ParseSize(blockSize)
	if err != nil {
		return sim.Config{}, err
	}
	policy, err := sim.ParseWritePolicy(writePolicy)
	if err != nil {
		return sim.Config{}, err
	}
	cfg := sim.Config{
		TotalSize:     totalSize,
		BlockSize:     block,
		Associativity: associativity,
		WritePolicy:   policy,
		WayPrediction: wayPrediction,
	}
	return cfg, cfg.Validate()
}

// loadAccesses reads the input trace, from a file or a workload spec.
func loadAccesses() ([]trace.Access, error) {
	if tracePath != "" {
		return trace.ReadFile(tracePath)
	}
	spec, err := workload.LoadSpec(workloadPath)
	if err != nil {
		return nil, err
	}
	return workload.Generate(spec)
}

// runCmd replays one trace against one cache configuration
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the cache simulation for a single configuration",
	Run: func(cmd *cobra.Command, args []string) {
		if tracePath == "" && workloadPath == "" {
			logrus.Fatalf("No input: provide --trace or --workload")
		}

		cfg, err := cacheConfigFromFlags()
		if err != nil {
			logrus.Fatalf("Bad cache configuration: %v", err)
		}

		accesses, err := loadAccesses()
		if err != nil {
			logrus.Fatalf("Unable to load trace: %v", err)
		}
		logrus.Infof("Starting simulation: %d accesses, size=%s, block=%s, assoc=%d, %s",
			len(accesses), cacheSize, blockSize, associativity, cfg.WritePolicy)

		startTime := time.Now()

		cache, err := sim.NewCache(cfg)
		if err != nil {
			logrus.Fatalf("Unable to build cache: %v", err)
		}
		for _, a := range accesses {
			cache.Access(a.Addr, a.IsWrite())
		}

		cache.Metrics.Print(cache.Geometry())
		logrus.Infof("Simulation complete in %v.", time.Since(startTime))

		if summaryPath != "" {
			if err := sim.WriteSummaryYAML(sim.Summarize(cache), summaryPath); err != nil {
				logrus.Fatalf("Unable to write summary: %v", err)
			}
		}
	},
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&cacheSize, "size", "128KB", "Total cache size (B, KB, MB suffixes)")
	runCmd.Flags().StringVar(&blockSize, "block-size", "8B", "Cache line size in bytes")
	runCmd.Flags().Uint64Var(&associativity, "assoc", 1, "Set associativity (1 = direct-mapped)")
	runCmd.Flags().StringVar(&writePolicy, "write-policy", "write-through", "Write policy (write-through, write-back)")
	runCmd.Flags().BoolVar(&wayPrediction, "way-prediction", false, "Enable MRU way prediction")

	runCmd.Flags().StringVar(&tracePath, "trace", "", "Path to a memory trace file")
	runCmd.Flags().StringVar(&workloadPath, "workload", "", "Path to a synthetic workload spec (YAML)")
	runCmd.Flags().StringVar(&summaryPath, "summary", "", "Write a YAML run summary to this path")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
