// cmd/portmap/cmd_map.go
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/viktorholck/eVIL-UART-VCU-Port-Map/internal/config"
	"github.com/viktorholck/eVIL-UART-VCU-Port-Map/internal/enumerate"
	"github.com/viktorholck/eVIL-UART-VCU-Port-Map/internal/model"
	"github.com/viktorholck/eVIL-UART-VCU-Port-Map/internal/portmap"
)

func newMapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "map",
		Short: "Print the channel-to-device map as JSON",
		Long: `Enumerates serial ports, filters for the board's hub chips, resolves
the board topology and prints the six-channel map as indented JSON on
stdout. Unmapped channels are null. Exit status is 0 when at least one
channel mapped and 1 when no supported board was detected.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMap(cmd)
		},
	}
}

func runMap(cmd *cobra.Command) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	result, err := discover(cmd, cfg, logger)
	if err != nil && !errors.Is(err, portmap.ErrNoCandidatePorts) {
		return err
	}

	// The map is printed even when empty so callers always get the full
	// six-key document.
	if printErr := printPortMap(&result.Map); printErr != nil {
		return printErr
	}
	return err
}

// discover runs one mapping pass and returns the run result. The returned
// error wraps ErrNoCandidatePorts when no supported board was seen; the
// result is still valid in that case.
func discover(cmd *cobra.Command, cfg *config.Config, logger *zap.Logger) (*portmap.Result, error) {
	provider := enumerate.NewProvider(logger)
	bus := enumerate.NewBusInventory(logger)
	mapper := portmap.NewMapper(provider, bus, &cfg.Board, logger)

	result, err := mapper.Map(cmd.Context())
	if result != nil && debug {
		dumpPartitions(logger, result)
	}
	return result, err
}

// dumpPartitions logs every enumerated port with its attributes, mirroring
// what bench operators need when a cable moved.
func dumpPartitions(logger *zap.Logger, result *portmap.Result) {
	for _, port := range result.Invalid {
		logger.Debug("Invalid port", portFields(port)...)
	}
	for _, port := range result.Valid {
		logger.Debug("Valid port", portFields(port)...)
	}
}

func portFields(port model.CandidatePort) []zap.Field {
	return []zap.Field{
		zap.String("device", port.Device),
		zap.String("location", port.Location),
		zap.Int("vendor_id", port.VendorID),
		zap.Int("product_id", port.ProductID),
		zap.String("serial_number", port.SerialNumber),
		zap.String("product", port.Product),
	}
}

// printPortMap writes the six-key map as indented JSON to stdout.
func printPortMap(portMap *model.PortMap) error {
	output, err := json.MarshalIndent(portMap, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode port map: %w", err)
	}
	fmt.Fprintln(os.Stdout, string(output))
	return nil
}
