// portmap — resolve VCU UART channels to serial devices by USB topology.
//
// The debug board multiplexes six UART lines (HPA, HIA, HIB, LPA, SGA,
// JUMPERS) through one or two FTDI quad-UART hub chips. OS device names
// move around between boots and machines; the USB topology location does
// not. portmap maps each logical channel to its current device and can
// probe every mapped channel for its expected greeting.
//
// Usage:
//
//	portmap [map]        Print the channel-to-device map as JSON
//	portmap verify       Map, then probe each channel and report verdicts
//	portmap version      Print version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/viktorholck/eVIL-UART-VCU-Port-Map/internal/config"
	"github.com/viktorholck/eVIL-UART-VCU-Port-Map/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	configPath string
	debug      bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:               "portmap",
	Short:             "Map VCU UART channels to serial devices by USB topology",
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},
	Long: `portmap resolves which serial device carries which logical UART channel
of a VCU debug board, using the stable USB hub topology instead of
unstable OS device names.

Running portmap with no subcommand prints the map, exactly like
"portmap map".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMap(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")

	rootCmd.AddCommand(
		newMapCmd(),
		newVerifyCmd(),
		newVersionCmd(),
	)
}

// setup loads configuration and builds the logger shared by all commands.
// The --debug flag lowers the log level regardless of configuration.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if debug {
		cfg.Logging.Level = "debug"
	}

	logger, err := logging.NewLogger(&cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, logger, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}
}
