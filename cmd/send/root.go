package send

import (
	"fmt"
	"strings"

	"github.com/ValentinKolb/dWire/cmd/util"
	"github.com/ValentinKolb/dWire/lib/openwire/commands"
	"github.com/ValentinKolb/dWire/lib/openwire/primitivemap"
	"github.com/ValentinKolb/dWire/rpc/client"
	"github.com/ValentinKolb/dWire/rpc/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// SendCmd sends text messages to a destination of a dWire server
var SendCmd = &cobra.Command{
	Use:   "send [text]...",
	Short: "Send text messages to a destination",
	Long: `Connect to a dWire server, register a producer for the destination and send
one text message per argument. Persistent messages wait for the server's response.`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: processConfig,
	RunE:    run,
}

func init() {
	cobra.OnInitialize(util.InitConfig)
	util.SetupRPCClientFlags(SendCmd)

	key := "destination"
	SendCmd.Flags().String(key, "queue://dwire", util.WrapString("Destination of the messages (queue://name, topic://name, temp-queue://name, temp-topic://name)"))

	key = "persistent"
	SendCmd.Flags().Bool(key, true, util.WrapString("Whether the messages are persistent"))

	key = "repeat"
	SendCmd.Flags().Int(key, 1, util.WrapString("How many times every message is sent"))

	key = "property"
	SendCmd.Flags().StringSlice(key, nil, util.WrapString("Message property as key=value, may be repeated"))

	key = "group"
	SendCmd.Flags().String(key, "", util.WrapString("Message group id"))
}

func processConfig(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}
	return common.InitLoggers(viper.GetString("log-level"))
}

func run(_ *cobra.Command, args []string) error {
	dest := commands.ParseDestination(viper.GetString("destination"))
	props, err := parseProperties(viper.GetStringSlice("property"))
	if err != nil {
		return err
	}
	connector, err := util.GetConnector()
	if err != nil {
		return err
	}

	c, err := client.Connect(util.GetClientConfig(), connector)
	if err != nil {
		return err
	}
	defer c.Close()

	producer, err := c.CreateProducer(dest)
	if err != nil {
		return err
	}
	defer producer.Close()

	sent := 0
	for i := 0; i < viper.GetInt("repeat"); i++ {
		for _, text := range args {
			msg := &commands.TextMessage{}
			msg.SetText(text)
			msg.Persistent = viper.GetBool("persistent")
			msg.GroupID = viper.GetString("group")
			if err := msg.SetProperties(props); err != nil {
				return err
			}
			if err := producer.Send(msg); err != nil {
				return fmt.Errorf("sending message %d: %w", sent+1, err)
			}
			sent++
		}
	}

	fmt.Printf("sent %d message(s) to %s (%s)\n", sent, dest, c.Negotiated())
	return nil
}

// parseProperties converts key=value pairs to a property map
func parseProperties(pairs []string) (primitivemap.Map, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	props := primitivemap.Map{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid property %q (expected key=value)", pair)
		}
		props[key] = value
	}
	return props, nil
}
