// Package main provides a latency benchmarking tool for the devpulse CLI.
// It runs every data command against a live dashboard backend several times,
// once without a preference store and once with the default SQLite store,
// treating the first successful run as cold and averaging the rest as warm,
// and writes the results to a CSV file.
//
// Prerequisites:
// - devpulse binary installed and available in PATH
// - A dashboard backend reachable at base-url with data for user-id
//
// Usage: go run benchmark/main.go [base-url] [user-id]
package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// BenchmarkResult holds the result of one command (no-prefs average, cold run and average of warm runs).
type BenchmarkResult struct {
	Command     string
	NoPrefsTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	BaseURL     string
	UserID      string
	Timeout     time.Duration
	NoPrefsRuns int
	PrefsRuns   int
	Commands    [][]string
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 3 {
		fmt.Printf("Usage: %s [base-url] [user-id]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		BaseURL:     os.Args[1],
		UserID:      os.Args[2],
		Timeout:     2 * time.Minute,
		NoPrefsRuns: 3,
		PrefsRuns:   4,
		Commands: [][]string{
			{"overview"},
			{"stats"},
			{"milestones"},
			{"heatmap"},
			{"trend", "--days", "90"},
			{"languages"},
			{"hourly", "--days", "30"},
		},
	}

	if _, err := exec.LookPath("devpulse"); err != nil {
		fmt.Printf("Prerequisites check failed: devpulse binary not found in PATH\n")
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// runBenchmarks executes every configured command in both phases.
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	fmt.Printf("Starting benchmark: %d commands, %v timeout, no-prefs: %d runs, prefs: %d runs\n",
		len(config.Commands), config.Timeout, config.NoPrefsRuns, config.PrefsRuns)

	results := make([]BenchmarkResult, 0, len(config.Commands))
	for _, args := range config.Commands {
		results = append(results, runBenchmarkSuite(config, args))
	}
	return results
}

// runBenchmarkSuite runs both the no-prefs and the SQLite phase for one command.
func runBenchmarkSuite(config BenchmarkConfig, args []string) BenchmarkResult {
	fmt.Printf("Running %v\n", args)

	runPhase := func(prefsBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, args, prefsBackend, numRuns)
		if len(times) == 0 {
			return cold, "FAILED"
		}
		var sum float64
		for _, t := range times {
			sum += t
		}
		return cold, fmt.Sprintf("%.3fs", sum/float64(len(times)))
	}

	_, noPrefsAvg := runPhase("none", config.NoPrefsRuns, "No-prefs")
	coldTime, warmAvg := runPhase("sqlite", config.PrefsRuns, "Prefs")

	coldTimeStr := "FAILED"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}
	fmt.Printf("  No-prefs average: %s, Cold time: %s, Warm average: %s\n", noPrefsAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Command:     args[0],
		NoPrefsTime: noPrefsAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark runs one command numRuns times and returns the cold time and warm times.
func runBenchmark(config BenchmarkConfig, args []string, prefsBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	full := append([]string{}, args...)
	full = append(full,
		"--base-url", config.BaseURL,
		"--user", config.UserID,
		"--prefs-backend", prefsBackend,
		"--output", "json",
	)

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()
		cmd := exec.Command("devpulse", full...)

		done := make(chan struct{})
		var output []byte
		var cmdErr error
		go func() {
			output, cmdErr = cmd.Output()
			close(done)
		}()

		select {
		case <-done:
			if cmdErr == nil && json.Valid(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
			<-done
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/devpulse_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"cmd", "no_prefs_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Command, result.NoPrefsTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary.
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, r := range results {
		fmt.Printf("  %-11s no-prefs=%s cold=%s warm=%s\n", r.Command, r.NoPrefsTime, r.ColdTime, r.WarmTime)
	}
}
