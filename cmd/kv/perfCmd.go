package kv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jkvdb/jKV/cmd/util"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for jKV stores",
		Long:    "",
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	perfKeyPrefix = "__test"
	perfKeySpread = 100
	perfSkip      = make([]string, 0)
)

func init() {
	// add flags
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. put,get)"))
	key = "keys"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How many different keys to use for the tests"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfKeySpread = viper.GetInt("keys")
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

func runPerf(_ *cobra.Command, _ []string) error {

	fmt.Println("Performance testing tool for jKV stores")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Printf("Backend: %s\n", viper.GetString("backend"))
	fmt.Printf("Keys: %d\n", perfKeySpread)
	fmt.Println()

	fmt.Println("starting tests...")

	// Create results map
	results := make(map[string]testing.BenchmarkResult)

	// Latency timer for journaled puts: percentiles expose the cost of the
	// per-record journal flush, which ns/op averages hide.
	putTimer := gometrics.NewTimer()

	putResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("put") {
			return
		}

		// prepare keys
		getKey, iter := getKeys("put")

		// cleanup
		b.Cleanup(func() {
			iter(func(k string) {
				_ = localStore.Delete(k, true)
			})
		})

		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			start := time.Now()
			if err := localStore.Put(getKey(i), "test", true); err != nil {
				b.Fatalf("(put) - error putting key: %v", err)
			}
			putTimer.UpdateSince(start)
		}
	})

	results["put"] = putResult
	printResult("put", putResult)
	printTimer("put", putTimer)

	putNoJournalResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("put-no-journal") {
			return
		}

		getKey, iter := getKeys("put-no-journal")

		b.Cleanup(func() {
			iter(func(k string) {
				_ = localStore.Delete(k, false)
			})
		})

		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			if err := localStore.Put(getKey(i), "test", false); err != nil {
				b.Fatalf("(put-no-journal) - error putting key: %v", err)
			}
		}
	})

	results["put-no-journal"] = putNoJournalResult
	printResult("put-no-journal", putNoJournalResult)

	getResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("get") {
			return
		}

		// prepare keys
		getKey, iter := getKeys("get")

		// set keys
		iter(func(k string) {
			if err := localStore.Put(k, "test", true); err != nil {
				b.Fatalf("(get) - error putting key: %v", err)
			}
		})

		// cleanup
		b.Cleanup(func() {
			iter(func(k string) {
				_ = localStore.Delete(k, true)
			})
		})

		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			if _, err := localStore.Get(getKey(i), ""); err != nil {
				b.Fatalf("(get) - error getting key: %v", err)
			}
		}
	})

	results["get"] = getResult
	printResult("get", getResult)

	deleteResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("delete") {
			return
		}

		getKey, _ := getKeys("delete")

		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			key := getKey(i)
			if err := localStore.Put(key, "test", true); err != nil {
				b.Fatalf("(delete) - error putting key: %v", err)
			}
			if err := localStore.Delete(key, true); err != nil {
				b.Fatalf("(delete) - error deleting key: %v", err)
			}
		}
	})

	results["delete"] = deleteResult
	printResult("delete", deleteResult)

	hasResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("has") {
			return
		}

		getKey, iter := getKeys("has")

		iter(func(k string) {
			if err := localStore.Put(k, "test", true); err != nil {
				b.Fatalf("(has) - error putting key: %v", err)
			}
		})

		b.Cleanup(func() {
			iter(func(k string) {
				_ = localStore.Delete(k, true)
			})
		})

		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			if _, err := localStore.Has(getKey(i)); err != nil {
				b.Fatalf("(has) - error checking key: %v", err)
			}
		}
	})

	results["has"] = hasResult
	printResult("has", hasResult)

	restoreResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("restore") {
			return
		}

		// prepare history: the journal already holds the puts from the
		// earlier benchmarks plus these keys
		_, iter := getKeys("restore")
		iter(func(k string) {
			if err := localStore.Put(k, "test", true); err != nil {
				b.Fatalf("(restore) - error putting key: %v", err)
			}
		})

		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			if err := localStore.RestoreFromJournal(); err != nil {
				b.Fatalf("(restore) - error restoring: %v", err)
			}
		}
	})

	results["restore"] = restoreResult
	printResult("restore", restoreResult)

	// Write results to csv if specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results); err != nil {
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

// creates an array of test keys and functions to work with them
func getKeys(prefix string) (func(int) string, func(func(string))) {
	keys := make([]string, perfKeySpread)
	for i := 0; i < perfKeySpread; i++ {
		keys[i] = fmt.Sprintf("%s-%s-%d", perfKeyPrefix, prefix, i)
	}

	// Function to get a key by index (with wraparound)
	getKey := func(i int) string {
		return keys[i%perfKeySpread]
	}

	// Function to iterate over all keys and apply a function to each
	iterateKeys := func(fn func(string)) {
		for _, key := range keys {
			fn(key)
		}
	}

	return getKey, iterateKeys
}

// printResult prints a single benchmark result
func printResult(name string, result testing.BenchmarkResult) {
	fmt.Printf("%-16s %12d ops %14.1f ns/op\n", name, result.N, float64(result.T.Nanoseconds())/float64(max(result.N, 1)))
}

// printTimer prints latency percentiles recorded by a go-metrics timer
func printTimer(name string, timer gometrics.Timer) {
	if timer.Count() == 0 {
		return
	}
	ps := timer.Percentiles([]float64{0.5, 0.95, 0.99})
	fmt.Printf("%-16s latency p50=%s p95=%s p99=%s max=%s\n",
		name,
		time.Duration(int64(ps[0])),
		time.Duration(int64(ps[1])),
		time.Duration(int64(ps[2])),
		time.Duration(timer.Max()),
	)
}

// writeResultsToCSV exports the benchmark results
func writeResultsToCSV(path string, results map[string]testing.BenchmarkResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"benchmark", "ops", "ns_per_op"}); err != nil {
		return err
	}

	for name, result := range results {
		row := []string{
			name,
			strconv.Itoa(result.N),
			strconv.FormatInt(result.NsPerOp(), 10),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}
