package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cachesim/cachesim/results"
	"github.com/cachesim/cachesim/sim"
	"github.com/cachesim/cachesim/sim/trace"
	"github.com/cachesim/cachesim/sim/workload"
)

var (
	sweepSpecPath string // Sweep spec (YAML) path
	sweepDBPath   string // Optional SQLite results database
	sweepCSVPath  string // Optional CSV results export
)

// SweepConfig is one cache configuration inside a sweep spec. Sizes use the
// same unit-suffix strings as the run command flags.
type SweepConfig struct {
	Label         string `yaml:"label"`
	Size          string `yaml:"size"`
	BlockSize     string `yaml:"block_size"`
	Associativity uint64 `yaml:"associativity"`
	WritePolicy   string `yaml:"write_policy"`
	WayPrediction bool   `yaml:"way_prediction"`
}

// CacheConfig converts the YAML form into a validated sim.Config.
func (sc SweepConfig) CacheConfig() (sim.Config, error) {
	totalSize, err := sim.ParseSize(sc.Size)
	if err != nil {
		return sim.Config{}, err
	}
	block, err := sim.ParseSize(sc.BlockSize)
	if err != nil {
		return sim.Config{}, err
	}
	policy, err := sim.ParseWritePolicy(sc.WritePolicy)
	if err != nil {
		return sim.Config{}, err
	}
	cfg := sim.Config{
		TotalSize:     totalSize,
		BlockSize:     block,
		Associativity: sc.Associativity,
		WritePolicy:   policy,
		WayPrediction: sc.WayPrediction,
	}
	return cfg, cfg.Validate()
}

// SweepSpec lists the configurations to compare against a single input trace.
// Exactly one of Trace or Workload must be set.
type SweepSpec struct {
	Trace    string         `yaml:"trace"`
	Workload *workload.Spec `yaml:"workload"`
	Configs  []SweepConfig  `yaml:"configs"`
}

// LoadSweepSpec reads and sanity-checks a sweep spec file.
func LoadSweepSpec(path string) (*SweepSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sweep spec: %w", err)
	}
	var spec SweepSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parsing sweep spec %s: %w", path, err)
	}
	if (spec.Trace == "") == (spec.Workload == nil) {
		return nil, fmt.Errorf("sweep spec %s: exactly one of trace or workload must be set", path)
	}
	if len(spec.Configs) == 0 {
		return nil, fmt.Errorf("sweep spec %s: no configurations", path)
	}
	return &spec, nil
}

// loadSweepAccesses resolves the sweep's input trace.
func loadSweepAccesses(spec *SweepSpec) ([]trace.Access, error) {
	if spec.Trace != "" {
		return trace.ReadFile(spec.Trace)
	}
	return workload.Generate(spec.Workload)
}

// sweepCmd replays one trace against several configurations and compares them
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Compare several cache configurations against one trace",
	Run: func(cmd *cobra.Command, args []string) {
		spec, err := LoadSweepSpec(sweepSpecPath)
		if err != nil {
			logrus.Fatalf("Failed to load sweep spec: %v", err)
		}
		accesses, err := loadSweepAccesses(spec)
		if err != nil {
			logrus.Fatalf("Unable to load trace: %v", err)
		}
		logrus.Infof("Sweeping %d configurations over %d accesses", len(spec.Configs), len(accesses))

		runs := make([]results.Run, 0, len(spec.Configs))
		for _, sc := range spec.Configs {
			cfg, err := sc.CacheConfig()
			if err != nil {
				logrus.Fatalf("Configuration %q: %v", sc.Label, err)
			}
			cache, err := sim.NewCache(cfg)
			if err != nil {
				logrus.Fatalf("Configuration %q: %v", sc.Label, err)
			}
			for _, a := range accesses {
				cache.Access(a.Addr, a.IsWrite())
			}
			runs = append(runs, results.Run{
				RunID:   results.NewRunID(),
				Label:   sc.Label,
				Summary: sim.Summarize(cache),
			})
		}

		printSweepTable(runs)

		if sweepDBPath != "" {
			rec, err := results.Open(sweepDBPath)
			if err != nil {
				logrus.Fatalf("Results database: %v", err)
			}
			for _, run := range runs {
				if err := rec.Insert(run); err != nil {
					logrus.Fatalf("Results database: %v", err)
				}
			}
			if err := rec.Close(); err != nil {
				logrus.Fatalf("Results database: %v", err)
			}
		}
		if sweepCSVPath != "" {
			if err := results.WriteCSV(sweepCSVPath, runs); err != nil {
				logrus.Fatalf("Results CSV: %v", err)
			}
		}
	},
}

// printSweepTable prints the side-by-side comparison of all finished runs.
func printSweepTable(runs []results.Run) {
	fmt.Println("=== Sweep Results ===")
	fmt.Printf("%-16s %10s %6s %6s %-13s %10s %10s %9s %9s\n",
		"label", "size", "block", "assoc", "policy", "hits", "misses", "hit-rate", "miss-rate")
	for _, run := range runs {
		s := run.Summary
		fmt.Printf("%-16s %10d %6d %6d %-13s %10d %10d %9.4f %9.4f\n",
			run.Label, s.TotalSize, s.BlockSize, s.Associativity, s.WritePolicy,
			s.Hits, s.Misses, s.HitRate, s.MissRate)
	}
}

func init() {
	sweepCmd.Flags().StringVar(&sweepSpecPath, "spec", "", "Path to the sweep spec (YAML)")
	sweepCmd.Flags().StringVar(&sweepDBPath, "db", "", "Record results into this SQLite database")
	sweepCmd.Flags().StringVar(&sweepCSVPath, "csv", "", "Export results to this CSV file")
	_ = sweepCmd.MarkFlagRequired("spec")

	rootCmd.AddCommand(sweepCmd)
}
