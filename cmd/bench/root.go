package bench

import (
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ValentinKolb/dWire/cmd/util"
	"github.com/ValentinKolb/dWire/lib/openwire/commands"
	"github.com/ValentinKolb/dWire/lib/openwire/marshal"
	"github.com/ValentinKolb/dWire/rpc/client"
	"github.com/ValentinKolb/dWire/rpc/common"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// BenchCmd measures codec throughput and, optionally, round trips to a server
	BenchCmd = &cobra.Command{
		Use:   "bench",
		Short: "Performance testing tool for the OpenWire codec",
		Long: `Measure encode and decode throughput of the tight (cached and uncached) and
loose encodings. With --remote the round trip time of persistent messages sent to a
dWire server is measured as well.`,
		PreRunE: processConfig,
		RunE:    run,
	}
	benchPayloadSize = 256
	benchNumThreads  = 10
	benchSkip        = make([]string, 0)
)

// formats are the encodings measured by the local benchmarks
var formats = []struct {
	name string
	opts marshal.Options
}{
	{"tight-cached", marshal.DefaultOptions()},
	{"tight", marshal.Options{Version: marshal.MaxVersion, TightEncodingEnabled: true}},
	{"loose", marshal.Options{Version: marshal.MaxVersion}},
}

// result is the outcome of one benchmark
type result struct {
	test       string
	bench      testing.BenchmarkResult
	latency    gometrics.Timer
	bytesPerOp float64
}

func init() {
	cobra.OnInitialize(util.InitConfig)
	util.SetupRPCClientFlags(BenchCmd)

	key := "skip"
	BenchCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. encode-loose,decode-tight)"))
	key = "size"
	BenchCmd.Flags().Int(key, 256, util.WrapString("Size of the text payload of every message (in bytes)"))
	key = "threads"
	BenchCmd.Flags().Int(key, 10, util.WrapString("Number of producers used by the remote benchmark"))
	key = "remote"
	BenchCmd.Flags().Bool(key, false, util.WrapString("Whether to also measure round trips to the server given by --endpoints"))
	key = "csv"
	BenchCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processConfig(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	benchPayloadSize = viper.GetInt("size")
	benchNumThreads = viper.GetInt("threads")
	benchSkip = strings.Split(viper.GetString("skip"), ",")

	return common.InitLoggers(viper.GetString("log-level"))
}

func run(_ *cobra.Command, _ []string) error {
	fmt.Println("Performance testing tool for the OpenWire codec")

	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Printf("Payload: %d bytes\n", benchPayloadSize)
	if viper.GetBool("remote") {
		config := util.GetClientConfig()
		fmt.Println(config.String())
		fmt.Printf("Threads: %d\n", benchNumThreads)
	}
	fmt.Println()

	fmt.Println("starting tests...")

	registry := gometrics.NewRegistry()
	var results []result

	for _, format := range formats {
		for _, r := range []result{
			benchEncode(registry, "encode-"+format.name, format.opts),
			benchDecode(registry, "decode-"+format.name, format.opts),
		} {
			results = append(results, r)
			printResult(r)
		}
	}

	if viper.GetBool("remote") {
		r, err := benchRemote(registry, "remote-send")
		if err != nil {
			return err
		}
		results = append(results, r)
		printResult(r)
	}

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
// Benchmarks
// --------------------------------------------------------------------------

// benchEncode measures marshalling a stream of messages with one context
func benchEncode(registry gometrics.Registry, test string, opts marshal.Options) result {
	timer := gometrics.GetOrRegisterTimer(test, registry)
	if shouldSkip(test) {
		return result{test: test, latency: timer}
	}

	var encoded, ops int64
	res := testing.Benchmark(func(b *testing.B) {
		wf := marshal.New(opts)
		msgs := sampleMessages(b.N)
		encoded, ops = 0, int64(b.N)

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			start := time.Now()
			data, err := wf.Marshal(msgs[i])
			timer.UpdateSince(start)
			if err != nil {
				log.Printf("(%s) - error encoding message: %v\n", test, err)
				continue
			}
			encoded += int64(len(data))
		}
	})

	return result{test: test, bench: res, latency: timer, bytesPerOp: perOp(encoded, ops)}
}

// benchDecode measures unmarshalling a stream produced by a peer with the same options
func benchDecode(registry gometrics.Registry, test string, opts marshal.Options) result {
	timer := gometrics.GetOrRegisterTimer(test, registry)
	if shouldSkip(test) {
		return result{test: test, latency: timer}
	}

	var encoded, ops int64
	res := testing.Benchmark(func(b *testing.B) {
		enc := marshal.New(opts)
		records := make([][]byte, b.N)
		encoded, ops = 0, int64(b.N)
		for i, msg := range sampleMessages(b.N) {
			data, err := enc.Marshal(msg)
			if err != nil {
				b.Fatalf("(%s) - error encoding message: %v", test, err)
			}
			records[i] = data
			encoded += int64(len(data))
		}

		dec := marshal.New(opts)
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			start := time.Now()
			_, err := dec.Unmarshal(records[i])
			timer.UpdateSince(start)
			if err != nil {
				b.Fatalf("(%s) - error decoding message: %v", test, err)
			}
		}
	})

	return result{test: test, bench: res, latency: timer, bytesPerOp: perOp(encoded, ops)}
}

// benchRemote measures persistent sends, each waiting for the server's response
func benchRemote(registry gometrics.Registry, test string) (result, error) {
	timer := gometrics.GetOrRegisterTimer(test, registry)
	if shouldSkip(test) {
		return result{test: test, latency: timer}, nil
	}

	connector, err := util.GetConnector()
	if err != nil {
		return result{}, err
	}
	c, err := client.Connect(util.GetClientConfig(), connector)
	if err != nil {
		return result{}, err
	}
	defer c.Close()

	producer, err := c.CreateProducer(commands.NewQueue("dwire.bench"))
	if err != nil {
		return result{}, err
	}
	defer producer.Close()

	var seq atomic.Int64
	res := testing.Benchmark(func(b *testing.B) {
		b.SetParallelism(benchNumThreads)
		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				msg := util.SampleMessage(seq.Add(1), benchPayloadSize)

				start := time.Now()
				err := producer.Send(msg)
				timer.UpdateSince(start)
				if err != nil {
					log.Printf("(%s) - error sending message: %v\n", test, err)
				}
			}
		})
	})

	return result{test: test, bench: res, latency: timer}, nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	for _, skip := range benchSkip {
		if test == skip {
			return true
		}
	}
	return false
}

// sampleMessages prepares n messages so that building them is not measured
func sampleMessages(n int) []*commands.TextMessage {
	msgs := make([]*commands.TextMessage, n)
	for i := range msgs {
		msgs[i] = util.SampleMessage(int64(i+1), benchPayloadSize)
	}
	return msgs
}

func perOp(total, ops int64) float64 {
	if ops == 0 {
		return 0
	}
	return float64(total) / float64(ops)
}
