// cmd/portmap/cmd_verify.go
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/viktorholck/eVIL-UART-VCU-Port-Map/internal/model"
	"github.com/viktorholck/eVIL-UART-VCU-Port-Map/internal/portmap"
	"github.com/viktorholck/eVIL-UART-VCU-Port-Map/internal/verify"
)

func newVerifyCmd() *cobra.Command {
	var overallTimeout time.Duration

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Map the channels, then probe each one and report verdicts",
		Long: `Resolves the port map and probes every mapped channel for its expected
greeting, one channel at a time. Each channel gets exactly one verdict:
OK, ERROR, Not mapped or Not implemented. Exit status follows the map,
not the verdicts: 1 only when no supported board was detected.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			if overallTimeout > 0 {
				cfg.Probe.OverallTimeout = overallTimeout
			}

			result, err := discover(cmd, cfg, logger)
			if err != nil && !errors.Is(err, portmap.ErrNoCandidatePorts) {
				return err
			}
			noBoard := err

			engine := verify.NewEngine(&cfg.Probe, logger, nil)
			report := engine.VerifyAll(cmd.Context(), &result.Map)
			printReport(report)

			return noBoard
		},
	}

	cmd.Flags().DurationVar(&overallTimeout, "timeout", 0, "overall deadline for the verification run (0 = unbounded)")
	return cmd
}

// printReport writes the per-channel verdict lines and the run summary.
func printReport(report *model.Report) {
	for _, result := range report.Results {
		switch result.Verdict {
		case model.VerdictNotMapped:
			fmt.Fprintf(os.Stdout, "%s - Status: Not mapped\n", result.Channel)
		case model.VerdictNotImplemented:
			fmt.Fprintf(os.Stdout, "%s - Status: Not implemented\n", result.Channel)
		case model.VerdictPass:
			fmt.Fprintf(os.Stdout, "%s (%s) - Status: OK\n", result.Channel, *result.Device)
		default:
			device := ""
			if result.Device != nil {
				device = *result.Device
			}
			fmt.Fprintf(os.Stdout, "%s (%s) - Status: ERROR\n", result.Channel, device)
		}
	}
	fmt.Fprintf(os.Stdout, "\n%d of %d verified channels passed (run %s)\n",
		report.Passed, report.Eligible, report.RunID)
}
