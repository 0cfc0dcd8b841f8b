package inspect

import (
	"bufio"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ValentinKolb/dWire/cmd/util"
	"github.com/ValentinKolb/dWire/lib/openwire/codec"
	"github.com/ValentinKolb/dWire/lib/openwire/marshal"
	"github.com/ValentinKolb/dWire/rpc/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// InspectCmd decodes hex encoded OpenWire records and prints them
var InspectCmd = &cobra.Command{
	Use:   "inspect [hex-record]...",
	Short: "Decode OpenWire records",
	Long: `Decode hex encoded OpenWire records with the wire format given by the wire-* flags
and print one line per record. Without arguments the records are read from stdin, one per line.
All records share one decoder, so cached references may point to earlier records.`,
	PreRunE: processConfig,
	RunE:    run,
}

func init() {
	cobra.OnInitialize(util.InitConfig)
	util.SetupWireFlags(InspectCmd)

	key := "framed"
	InspectCmd.Flags().Bool(key, false, util.WrapString("Whether every record starts with its 4 byte length prefix"))

	key = "sample"
	InspectCmd.Flags().Bool(key, false, util.WrapString("Print the hex encoding of a sample text message instead of decoding"))
}

func processConfig(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}
	return common.InitLoggers(viper.GetString("log-level"))
}

func run(_ *cobra.Command, args []string) error {
	wf := marshal.New(util.GetWirePreferences().Options)
	fmt.Fprintf(os.Stderr, "wire format: %s\n", wf.Options())

	if viper.GetBool("sample") {
		data, err := wf.Marshal(util.SampleMessage(1, 16))
		if err != nil {
			return err
		}
		fmt.Println(hex.EncodeToString(data))
		return nil
	}

	if len(args) == 0 {
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				args = append(args, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return err
		}
	}

	return decodeRecords(wf, args, viper.GetBool("framed"), os.Stdout)
}

// decodeRecords decodes every record with wf and writes one line per record to out.
// Decoding stops at the first error since the cache state is lost after it.
func decodeRecords(wf *marshal.WireFormat, records []string, framed bool, out io.Writer) error {
	for i, record := range records {
		data, err := parseHex(record)
		if err != nil {
			return fmt.Errorf("record %d: %w", i+1, err)
		}
		if framed {
			if data, err = unframe(data); err != nil {
				return fmt.Errorf("record %d: %w", i+1, err)
			}
		}

		ds, err := wf.Unmarshal(data)
		if err != nil {
			return fmt.Errorf("record %d: %w", i+1, err)
		}
		if ds == nil {
			fmt.Fprintf(out, "%d\t%d bytes\tnull\n", i+1, len(data))
			continue
		}
		fmt.Fprintf(out, "%d\t%d bytes\ttype %d\t%s\n", i+1, len(data), ds.DataStructureType(), ds)
	}
	return nil
}

// parseHex accepts hex with optional whitespace, colons and a 0x prefix
func parseHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	s = strings.NewReplacer(" ", "", ":", "", "\t", "").Replace(s)
	return hex.DecodeString(s)
}

// unframe strips the length prefix and checks it against the record length
func unframe(data []byte) ([]byte, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: frame shorter than its length prefix", codec.ErrMalformedStream)
	}
	size := binary.BigEndian.Uint32(data)
	if int64(size) != int64(len(data)-4) {
		return nil, fmt.Errorf("%w: length prefix %d, record has %d bytes", codec.ErrMalformedStream, size, len(data)-4)
	}
	return data[4:], nil
}
