package bench

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/ValentinKolb/dWire/cmd/util"
	"github.com/spf13/viper"
)

// percentiles reported for every benchmark
var percentiles = []float64{0.5, 0.9, 0.99}

// printResult prints the result of a benchmark test in a formatted way
func printResult(r result) {
	if r.bench.NsPerOp() == 0 {
		fmt.Printf("%-20sskipped\n", r.test)
		return
	}

	nsPerOp := math.Max(float64(r.bench.NsPerOp()), 1) // prevent division by zero
	opsPerSec := 1.0 / (nsPerOp / 1e9)

	snapshot := r.latency.Snapshot()
	ps := snapshot.Percentiles(percentiles)

	fmt.Printf("%-20s%.0fns/op (%s/op)\t%.0f ops/sec\tp50 %s\tp90 %s\tp99 %s",
		r.test, nsPerOp, time.Duration(nsPerOp), opsPerSec,
		util.FormatDuration(time.Duration(ps[0])),
		util.FormatDuration(time.Duration(ps[1])),
		util.FormatDuration(time.Duration(ps[2])))
	if r.bytesPerOp > 0 {
		fmt.Printf("\t%.0f bytes/record", r.bytesPerOp)
	}
	fmt.Println()
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results []result) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "Skipped",
		"P50Ns", "P90Ns", "P99Ns", "BytesPerRecord",
		"PayloadBytes", "Threads", "Transport",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	for _, r := range results {
		var nsPerOp float64
		var opsPerSec float64
		var skipped string

		if r.bench.NsPerOp() == 0 {
			skipped = "true"
		} else {
			skipped = "false"
			nsPerOp = math.Max(float64(r.bench.NsPerOp()), 1)
			opsPerSec = 1.0 / (nsPerOp / 1e9)
		}

		ps := r.latency.Snapshot().Percentiles(percentiles)

		row := []string{
			r.test,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", opsPerSec),
			skipped,
			fmt.Sprintf("%.0f", ps[0]),
			fmt.Sprintf("%.0f", ps[1]),
			fmt.Sprintf("%.0f", ps[2]),
			fmt.Sprintf("%.1f", r.bytesPerOp),
			strconv.Itoa(benchPayloadSize),
			strconv.Itoa(benchNumThreads),
			viper.GetString("transport"),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", r.test, err)
		}
	}

	return nil
}
