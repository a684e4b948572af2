package perf

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ValentinKolb/sortedkv/cmd/util"
	"github.com/ValentinKolb/sortedkv/lib/sortedmap"
	"github.com/ValentinKolb/sortedkv/lib/syncmap"
	"github.com/ValentinKolb/sortedkv/lib/tree"
	"github.com/VictoriaMetrics/metrics"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Tests run by the perf command, in order
var allTests = []string{"set", "get", "add", "remove", "range", "mixed"}

// rangePage is the number of keys read per range query
const rangePage = 100

var (
	// PerfCmd benchmarks the map engines
	PerfCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Benchmarks the sorted map engines",
		Long:    "Runs set, get, add, remove, range and mixed workloads against a concurrent sorted map for every selected engine.",
		Args:    cobra.NoArgs,
		RunE:    run,
		PreRunE: processPerfConfig,
	}
	perfKeyPrefix  = "__perf"
	perfNumThreads = 10
	perfKeySpread  = 10_000
	perfImpls      = tree.Implementations()
	perfSkip       = make([]string, 0)
)

func init() {
	cobra.OnInitialize(util.InitConfig)

	key := "skip"
	PerfCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. set,get)"))
	key = "threads"
	PerfCmd.Flags().Int(key, 10, util.WrapString("Number of goroutines per CPU to use for the benchmark"))
	key = "keys"
	PerfCmd.Flags().Int(key, 10_000, util.WrapString("How many different keys to use for the tests"))
	key = "impl"
	PerfCmd.Flags().String(key, "all", util.WrapString("Engines to benchmark (comma separated or all)"))
	key = "csv"
	PerfCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
	key = "metrics"
	PerfCmd.Flags().Bool(key, false, util.WrapString("Print the map metrics in Prometheus text format after the run"))
}

func processPerfConfig(cmd *cobra.Command, args []string) error {
	if err := util.SetupCommand(cmd, args); err != nil {
		return err
	}

	perfKeySpread = viper.GetInt("keys")
	if perfKeySpread <= 0 {
		return fmt.Errorf("--keys must be positive, got %d", perfKeySpread)
	}
	perfNumThreads = max(viper.GetInt("threads"), 1)
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	impls, err := util.GetImplementations(viper.GetString("impl"))
	if err != nil {
		return err
	}
	perfImpls = impls
	return nil
}

// result is the outcome of one test against one engine
type result struct {
	impl  tree.Implementation
	test  string
	bench testing.BenchmarkResult
}

func run(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Performance testing tool for sorted maps")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Engines: %v\nThreads: %d\nKeys: %d\n\n", perfImpls, perfNumThreads, perfKeySpread)

	registry := gometrics.NewRegistry()
	var results []result

	for _, impl := range perfImpls {
		fmt.Fprintf(out, "%s:\n", impl)
		for _, test := range allTests {
			res := result{impl: impl, test: test}
			if !shouldSkip(test) {
				res.bench = testing.Benchmark(benchmark(impl, test, registry))
			}
			results = append(results, res)
			printResult(out, test, res.bench)
		}
		fmt.Fprintln(out)
	}

	printLatencies(out, registry)

	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Fprintf(out, "\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results); err != nil {
			return fmt.Errorf("failed to export results to CSV: %w", err)
		}
		fmt.Fprintln(out, "Export complete")
	}

	if viper.GetBool("metrics") {
		fmt.Fprintln(out)
		metrics.WritePrometheus(out, false)
	}
	return nil
}

// --------------------------------------------------------------------------
// Benchmarks
// --------------------------------------------------------------------------

// benchmark builds the benchmark function of one test. Every run gets a fresh
// map, so results of different tests do not influence each other.
func benchmark(impl tree.Implementation, test string, registry gometrics.Registry) func(b *testing.B) {
	return func(b *testing.B) {
		m := syncmap.New[string](fmt.Sprintf("perf-%s", impl), sortedmap.WithImplementation(impl))
		keys := makeKeys(test)
		if test != "set" && test != "add" {
			for _, k := range keys {
				m.Set(k, "value")
			}
		}
		timer := gometrics.GetOrRegisterTimer(fmt.Sprintf("%s.%s", impl, test), registry)

		b.SetParallelism(perfNumThreads)
		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			counter := 0
			for pb.Next() {
				key := keys[counter%len(keys)]
				switch test {
				case "set":
					m.Set(key, "value")
				case "get":
					m.TryGet(key)
				case "add":
					// duplicates are expected once every key was added
					_ = m.Add(key, "value")
				case "remove":
					if !m.Remove(key) {
						m.Set(key, "value")
					}
				case "range":
					start := time.Now()
					m.KeysGreaterThan(key, rangePage)
					timer.UpdateSince(start)
				case "mixed":
					switch counter % 4 {
					case 0:
						m.Set(key, "value")
					case 1:
						m.TryGet(key)
					case 2:
						m.Remove(key)
					case 3:
						start := time.Now()
						m.KeysGreaterThan(key, rangePage)
						timer.UpdateSince(start)
					}
				}
				counter++
			}
		})
	}
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	for _, skip := range perfSkip {
		if strings.TrimSpace(skip) == test {
			return true
		}
	}
	return false
}

func makeKeys(prefix string) []string {
	keys := make([]string, perfKeySpread)
	for i := range keys {
		keys[i] = fmt.Sprintf("%s/%s/%08d", perfKeyPrefix, prefix, i)
	}
	return keys
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(w io.Writer, test string, result testing.BenchmarkResult) {
	if result.NsPerOp() == 0 {
		fmt.Fprintf(w, "  %-12sskipped\n", test)
		return
	}

	nsPerOp := math.Max(float64(result.NsPerOp()), 1)
	opsPerSec := 1.0 / (nsPerOp / 1e9)
	fmt.Fprintf(w, "  %-12s%.0fns/op (%s/op)\t%.0f ops/sec\n", test, nsPerOp, time.Duration(nsPerOp), opsPerSec)
}

// printLatencies prints the percentiles of all range query timers
func printLatencies(w io.Writer, registry gometrics.Registry) {
	fmt.Fprintf(w, "Range query latency (%d keys per query):\n", rangePage)
	registry.Each(func(name string, i interface{}) {
		timer, ok := i.(gometrics.Timer)
		if !ok || timer.Count() == 0 {
			return
		}
		ps := timer.Percentiles([]float64{0.5, 0.9, 0.99})
		fmt.Fprintf(w, "  %-16sp50=%s p90=%s p99=%s (n=%d)\n",
			name, time.Duration(ps[0]), time.Duration(ps[1]), time.Duration(ps[2]), timer.Count())
	})
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results []result) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	header := []string{"Engine", "Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "Skipped", "Threads", "Keys"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range results {
		nsPerOp, opsPerSec, skipped := 0.0, 0.0, "true"
		if r.bench.NsPerOp() != 0 {
			skipped = "false"
			nsPerOp = math.Max(float64(r.bench.NsPerOp()), 1)
			opsPerSec = 1.0 / (nsPerOp / 1e9)
		}

		row := []string{
			string(r.impl),
			r.test,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", opsPerSec),
			skipped,
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfKeySpread),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s/%s: %w", r.impl, r.test, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
