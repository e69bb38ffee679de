// Package main provides a performance benchmarking tool for the Matchup CLI.
// It measures execution times across seasons and command types, running each
// test multiple times, treating the first successful run as cold and averaging
// the rest as warm, generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - matchup binary installed and available in PATH
// - network access to Natural Stat Trick
// - a schedule file for the lookup commands
//
// Usage: go run benchmark/main.go [schedule-file]
//
//	schedule-file: Schedule passed to the lookup and teamweeks commands
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Season      string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	SchedulePath string
	Timeout      time.Duration
	NoCacheRuns  int
	CacheRuns    int
	Seasons      []string
	Commands     map[string][]string
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [schedule-file]\n", os.Args[0])
		os.Exit(1)
	}
	schedulePath := os.Args[1]

	config := BenchmarkConfig{
		SchedulePath: schedulePath,
		Timeout:      5 * time.Minute,
		NoCacheRuns:  2,
		CacheRuns:    4,
		Seasons:      []string{"20232024", "20242025", "20252026"},
		Commands: map[string][]string{
			"ratings":   {"ratings", "--kind", "defense"},
			"blended":   {"ratings", "--kind", "offense", "--blend", "--week", "3"},
			"lookup":    {"lookup", "--schedule", schedulePath},
			"teamweeks": {"teamweeks", "--schedule", schedulePath},
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	// Clear the cache using matchup cache clear
	fmt.Printf("Clearing cache...\n")
	clearCmd := exec.Command("matchup", "cache", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Cache cleared successfully\n")
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the matchup binary and the schedule exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("matchup"); err != nil {
		return fmt.Errorf("matchup binary not found in PATH")
	}
	if _, err := os.Stat(config.SchedulePath); os.IsNotExist(err) {
		return fmt.Errorf("schedule not found at %s", config.SchedulePath)
	}
	return nil
}

// commandOrder fixes the order commands run and print in.
var commandOrder = []string{"ratings", "blended", "lookup", "teamweeks"}

// runBenchmarks executes all benchmark tests across configured seasons
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d seasons, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.Seasons), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for _, season := range config.Seasons {
		fmt.Printf("Benchmarking %s\n", season)
		for _, name := range commandOrder {
			results = append(results, runBenchmarkSuite(config, season, name))
		}
	}

	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, season, name string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", name, season)

	// Helper to run a benchmark phase
	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, season, config.Commands[name], cacheBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	// Phase 1: No-cache runs
	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")

	// Phase 2: Cache runs
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Season:      season,
		Command:     name,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a matchup command multiple times with specified cache backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, season string, command []string, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := append([]string{}, command...)
	args = append(args, "--season", season, "--cache-backend", cacheBackend, "--color", "no")

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("matchup", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte) bool {
	outputStr := string(output)
	return strings.Contains(outputStr, "Completed in") &&
		strings.Contains(outputStr, "Cache backend:")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/matchup_benchmark_%s.csv", timestamp)

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

	// Write header
	if err := writer.Write([]string{"season", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Season, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, name := range commandOrder {
		fmt.Printf("%s:\n", name)
		for _, result := range results {
			if result.Command == name {
				fmt.Printf("  %-10s: No-cache: %s, Cold: %s, Warm: %s\n", result.Season, result.NoCacheTime, result.ColdTime, result.WarmTime)
			}
		}
	}
	fmt.Printf("Benchmark script completed successfully\n")
}
