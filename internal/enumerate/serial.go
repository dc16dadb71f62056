// internal/enumerate/serial.go
package enumerate

import (
	"context"
	"fmt"
	"strconv"

	"go.bug.st/serial/enumerator"
	"go.uber.org/zap"

	"github.com/viktorholck/eVIL-UART-VCU-Port-Map/internal/model"
)

// serialProvider enumerates ports through go.bug.st/serial's detailed port
// list and fills in the USB topology location with the platform-specific
// lookup in location_*.go.
type serialProvider struct {
	logger *zap.Logger
}

func newSerialProvider(logger *zap.Logger) *serialProvider {
	return &serialProvider{
		logger: logger.With(zap.String("provider", "serial")),
	}
}

// Name returns the provider identifier.
func (p *serialProvider) Name() string {
	return "serial"
}

// List returns a snapshot of all serial ports. Non-USB ports are reported
// with zero vendor/product identifiers so the filter can reject them; a
// failed location lookup leaves the location empty rather than dropping
// the port.
func (p *serialProvider) List(ctx context.Context) ([]model.CandidatePort, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	ports := make([]model.CandidatePort, 0, len(details))
	for _, d := range details {
		port := model.CandidatePort{
			Device:       d.Name,
			SerialNumber: d.SerialNumber,
			Product:      d.Product,
		}
		if d.IsUSB {
			port.VendorID = parseHexID(d.VID)
			port.ProductID = parseHexID(d.PID)

			location, err := usbLocation(d.Name)
			if err != nil {
				p.logger.Debug("USB location unavailable",
					zap.String("device", d.Name),
					zap.Error(err),
				)
			}
			port.Location = location
		}
		ports = append(ports, port)
	}
	return ports, nil
}

// parseHexID converts the enumerator's hex identifier ("0403") to an
// integer, zero when absent or malformed.
func parseHexID(s string) int {
	if s == "" {
		return 0
	}
	id, err := strconv.ParseInt(s, 16, 32)
	if err != nil {
		return 0
	}
	return int(id)
}
