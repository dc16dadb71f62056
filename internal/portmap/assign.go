// internal/portmap/assign.go
package portmap

import (
	"go.uber.org/zap"

	"github.com/viktorholck/eVIL-UART-VCU-Port-Map/internal/model"
)

// Assign applies the pattern table to the candidate ports and produces the
// final channel-to-device mapping. Channels are visited in table order;
// for each one the first port whose location matches wins. Duplicate
// matches are a defined tie-break, not an error: correct wiring never
// produces them, but a mis-cabled bench must still resolve
// deterministically. Ports matching no channel are left unassigned, which
// is expected for lines that carry no debug role.
func Assign(ports []model.CandidatePort, table PatternTable, logger *zap.Logger) model.PortMap {
	var portMap model.PortMap

	for _, entry := range table {
		if entry.Pattern == nil {
			continue
		}
		for _, port := range ports {
			if port.Location == "" || !entry.Pattern.MatchString(port.Location) {
				continue
			}
			if _, taken := portMap.Device(entry.Channel); taken {
				logger.Debug("Duplicate pattern match ignored",
					zap.String("channel", string(entry.Channel)),
					zap.String("device", port.Device),
					zap.String("location", port.Location),
				)
				continue
			}
			portMap.Set(entry.Channel, port.Device)
			logger.Debug("Channel assigned",
				zap.String("channel", string(entry.Channel)),
				zap.String("device", port.Device),
				zap.String("location", port.Location),
			)
		}
	}

	return portMap
}
