package serve

import (
	"os"
	"os/signal"
	"syscall"

	cmdUtil "github.com/ValentinKolb/dWire/cmd/util"
	"github.com/ValentinKolb/dWire/rpc/common"
	"github.com/ValentinKolb/dWire/rpc/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start the dWire server",
		Long:    `Start the dWire server with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is DWIRE_<flag> (e.g. DWIRE_WIRE_CACHE_SIZE=256)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	cobra.OnInitialize(cmdUtil.InitConfig)

	key := "endpoint"
	ServeCmd.PersistentFlags().String(key, "0.0.0.0:61616", cmdUtil.WrapString("The address on which the server will listen (e.g. localhost:61616, /tmp/dwire.sock, ...)"))

	key = "timeout"
	ServeCmd.PersistentFlags().Int64(key, 5, cmdUtil.WrapString("Timeout in seconds for the handshake and for every write"))

	key = "metrics-endpoint"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("Address of the prometheus /metrics endpoint (e.g. :9100), empty disables it"))

	cmdUtil.SetupWireFlags(ServeCmd)
	cmdUtil.SetupSocketFlags(ServeCmd)
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	serveCmdConfig.Endpoint = viper.GetString("endpoint")
	serveCmdConfig.TimeoutSecond = viper.GetInt64("timeout")
	serveCmdConfig.MaxFrameSize = viper.GetInt("max-frame-size") * 1024
	serveCmdConfig.MetricsEndpoint = viper.GetString("metrics-endpoint")
	serveCmdConfig.LogLevel = viper.GetString("log-level")
	serveCmdConfig.Wire = cmdUtil.GetWirePreferences()
	serveCmdConfig.Socket = cmdUtil.GetSocketConf()

	return common.InitLoggers(serveCmdConfig.LogLevel)
}

func run(_ *cobra.Command, _ []string) error {
	connector, err := cmdUtil.GetConnector()
	if err != nil {
		return err
	}

	s := server.NewServer(*serveCmdConfig, connector, server.LogHandler{})

	// close all connections on SIGINT / SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		server.Logger.Infof("shutting down")
		if err := s.Close(); err != nil {
			server.Logger.Errorf("shutdown: %v", err)
		}
	}()

	return s.ListenAndServe()
}
