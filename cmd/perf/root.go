package perf

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ardent-devices/scanlink/cmd/util"
	"github.com/ardent-devices/scanlink/lib/envelope"
	"github.com/ardent-devices/scanlink/lib/fragment"
	"github.com/ardent-devices/scanlink/lib/pipeline"
	"github.com/ardent-devices/scanlink/lib/protocol"
	"github.com/ardent-devices/scanlink/lib/reassembly"
)

var (
	// PerfCmd benchmarks the encode and decode paths.
	PerfCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for the codec pipeline",
		RunE:    run,
		PreRunE: processPerfConfig,
	}

	perfScriptSizeKB = 10
	perfIterations   = 1000
	perfMaxUnitSize  = 500
	perfSkip         = make([]string, 0)
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// add flags
	key := "skip"
	PerfCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. pack,split)"))
	key = "iterations"
	PerfCmd.Flags().Int(key, 1000, util.WrapString("Number of iterations per benchmark"))
	key = "script-size"
	PerfCmd.Flags().Int(key, 10, util.WrapString("Size of the generated benchmark script (in KB)"))
	key = "unit-size"
	PerfCmd.Flags().Int(key, 500, util.WrapString("Maximum unit size for the fragmentation benchmarks"))
	key = "csv"
	PerfCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfScriptSizeKB = viper.GetInt("script-size")
	perfIterations = viper.GetInt("iterations")
	perfMaxUnitSize = viper.GetInt("unit-size")
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

func run(_ *cobra.Command, _ []string) error {
	fmt.Println("Performance testing tool for the codec pipeline")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Printf("Script size: %d KB\n", perfScriptSizeKB)
	fmt.Printf("Iterations:  %d\n", perfIterations)
	fmt.Printf("Unit size:   %d\n", perfMaxUnitSize)
	fmt.Println()

	level, err := util.GetCompressionLevel()
	if err != nil {
		return err
	}

	// Benchmark payload: pseudo-random, so compression does real work and
	// fragmentation always produces multiple units.
	script := make([]byte, perfScriptSizeKB*1024)
	rand.New(rand.NewSource(1)).Read(script)

	packed, err := pipeline.PackText(script, level)
	if err != nil {
		return err
	}
	units, err := envelope.EncodeScript(script, perfMaxUnitSize, level)
	if err != nil {
		return err
	}

	registry := metrics.NewRegistry()
	fmt.Println("starting benchmarks...")

	runBenchmark(registry, "pack", func() error {
		_, err := pipeline.PackText(script, level)
		return err
	})

	runBenchmark(registry, "unpack", func() error {
		_, err := pipeline.UnpackText(packed)
		return err
	})

	runBenchmark(registry, "split", func() error {
		_, err := fragment.Split(packed, perfMaxUnitSize, "")
		return err
	})

	runBenchmark(registry, "command", func() error {
		_, err := envelope.EncodeCommand(protocol.NewLEDOn(1))
		return err
	})

	runBenchmark(registry, "roundtrip", func() error {
		decoder := envelope.NewDecoder(reassembly.Config{})
		for _, unit := range units {
			if _, err := decoder.Decode(unit); err != nil {
				return err
			}
		}
		return nil
	})

	// Write results to csv if specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, registry); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	// Check if the test is in the skip list
	for _, skip := range perfSkip {
		if test == skip {
			return true
		}
	}
	return false
}

// runBenchmark times fn perfIterations times into a registered timer and
// prints the result.
func runBenchmark(registry metrics.Registry, name string, fn func() error) {
	if shouldSkip(name) {
		fmt.Printf("%-20sskipped\n", name)
		return
	}

	timer := metrics.NewRegisteredTimer(name, registry)
	for i := 0; i < perfIterations; i++ {
		start := time.Now()
		if err := fn(); err != nil {
			fmt.Printf("%-20serror: %v\n", name, err)
			return
		}
		timer.UpdateSince(start)
	}

	mean := timer.Mean()
	p95 := timer.Percentile(0.95)
	opsPerSec := 0.0
	if mean > 0 {
		opsPerSec = 1e9 / mean
	}
	fmt.Printf("%-20s%.0fns/op (p95 %s)\t%.0f ops/sec\n",
		name, mean, time.Duration(p95), opsPerSec)
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, registry metrics.Registry) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Test", "Count", "MeanNs", "P95Ns", "OpsPerSec",
		"ScriptSizeKB", "Iterations", "UnitSize", "CompressionLevel",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	var writeErr error
	registry.Each(func(name string, metric interface{}) {
		timer, ok := metric.(metrics.Timer)
		if !ok || writeErr != nil {
			return
		}

		mean := timer.Mean()
		opsPerSec := 0.0
		if mean > 0 {
			opsPerSec = 1e9 / mean
		}

		row := []string{
			name,
			strconv.FormatInt(timer.Count(), 10),
			fmt.Sprintf("%.0f", mean),
			fmt.Sprintf("%.0f", timer.Percentile(0.95)),
			fmt.Sprintf("%.0f", opsPerSec),
			strconv.Itoa(perfScriptSizeKB),
			strconv.Itoa(perfIterations),
			strconv.Itoa(perfMaxUnitSize),
			strconv.Itoa(viper.GetInt("compression-level")),
		}
		if err := writer.Write(row); err != nil {
			writeErr = fmt.Errorf("failed to write row for test %s: %v", name, err)
		}
	})

	return writeErr
}
